package service

import (
	"fmt"

	"go-resto-backend/internal/model"
	"go-resto-backend/internal/repository"
	"go-resto-backend/pkg/apperr"
	"go-resto-backend/pkg/validator"

	"github.com/google/uuid"
)

type ProductService interface {
	CreateProduct(req *ProductRequest, userID string) (*model.Product, error)
	UpdateProduct(id uuid.UUID, req *ProductRequest, userID string) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
	GetProduct(id uuid.UUID) (*model.Product, error)
	GetAllProducts() ([]model.Product, error)
}

type ProductRequest struct {
	Name        string  `json:"nombre" validate:"required"`
	Description string  `json:"descripcion"`
	Price       float64 `json:"precio" validate:"gte=0"`
	Stock       *int    `json:"stock" validate:"omitempty,gte=0"`
	Cost        float64 `json:"costo" validate:"gte=0"`
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) CreateProduct(req *ProductRequest, userID string) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validation(fmt.Sprintf("Campo '%s' inválido (%s)", first.FailedField, first.Tag))
	}

	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Cost:        req.Cost,
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	product.CreatedBy = userID
	product.UpdatedBy = userID

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) UpdateProduct(id uuid.UUID, req *ProductRequest, userID string) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validation(fmt.Sprintf("Campo '%s' inválido (%s)", first.FailedField, first.Tag))
	}

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("Producto no encontrado")
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Cost = req.Cost
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	product.UpdatedBy = userID

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) DeleteProduct(id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		return apperr.NotFound("Producto no encontrado")
	}
	return s.productRepo.Delete(id)
}

func (s *productService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("Producto no encontrado")
	}
	return product, nil
}

func (s *productService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}
