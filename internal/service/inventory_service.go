package service

import (
	"encoding/json"
	"fmt"
	"math"

	"go-resto-backend/internal/costing"
	"go-resto-backend/internal/model"
	"go-resto-backend/internal/repository"
	"go-resto-backend/internal/ws"
	"go-resto-backend/pkg/apperr"
	"go-resto-backend/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryService interface {
	Restock(req *RestockRequest, userID, userName string) (*model.Ingredient, error)
	RecordIngredientWaste(req *IngredientWasteRequest, userID string) (*model.Ingredient, error)
	RecordProductWaste(req *ProductWasteRequest, userID string) (*model.Product, error)
	GetAllIngredients() ([]model.Ingredient, error)
}

// RestockRequest: costo_compra is the total paid for the purchase.
// A pointer so an omitted value is rejected instead of diluting the
// average at cost zero.
type RestockRequest struct {
	IngredientID uuid.UUID `json:"ingrediente_id" validate:"uuid_required"`
	Quantity     float64   `json:"cantidad"`
	PurchaseCost *float64  `json:"costo_compra" validate:"required,gte=0"`
	Supplier     string    `json:"proveedor"`
	Note         string    `json:"observaciones"`
}

type IngredientWasteRequest struct {
	IngredientID uuid.UUID `json:"ingrediente_id" validate:"uuid_required"`
	Quantity     float64   `json:"cantidad"`
	Reason       string    `json:"razon"`
}

type ProductWasteRequest struct {
	ProductID uuid.UUID `json:"producto_id" validate:"uuid_required"`
	Quantity  int       `json:"cantidad"`
	Reason    string    `json:"razon"`
}

type inventoryService struct {
	ingredientRepo repository.IngredientRepository
	productRepo    repository.ProductRepository
	recipeService  RecipeService
	db             *gorm.DB
	wsHub          *ws.Hub
}

func NewInventoryService(iRepo repository.IngredientRepository, pRepo repository.ProductRepository, rService RecipeService, db *gorm.DB, hub *ws.Hub) InventoryService {
	return &inventoryService{
		ingredientRepo: iRepo,
		productRepo:    pRepo,
		recipeService:  rService,
		db:             db,
		wsHub:          hub,
	}
}

// Restock registers an ingredient purchase. The unit cost becomes the
// weighted average of existing stock value and the purchase; a change
// above 1% of the previous cost archives it as costo_anterior.
func (s *inventoryService) Restock(req *RestockRequest, userID, userName string) (*model.Ingredient, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Validation(fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
	}
	if req.Quantity <= 0 {
		return nil, apperr.Validation("La cantidad debe ser positiva")
	}

	var updated *model.Ingredient
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ingredient, err := s.ingredientRepo.LockByID(tx, req.IngredientID)
		if err != nil {
			return apperr.NotFound("Ingrediente no encontrado")
		}

		newUnitCost := costing.WeightedAverageCost(ingredient.Stock, ingredient.UnitCost, req.Quantity, *req.PurchaseCost)

		// Archive the previous cost only on a significant change (>1%)
		if math.Abs(ingredient.UnitCost-newUnitCost) > ingredient.UnitCost*0.01 {
			ingredient.PreviousCost = ingredient.UnitCost
		}

		ingredient.UnitCost = costing.Round2(newUnitCost)
		ingredient.Stock = costing.Round3(ingredient.Stock + req.Quantity)
		ingredient.UpdatedBy = userID

		if err := tx.Save(ingredient).Error; err != nil {
			return err
		}

		event := &model.RestockEvent{
			IngredientID: ingredient.ID,
			Quantity:     req.Quantity,
			PurchaseCost: *req.PurchaseCost,
			Supplier:     req.Supplier,
			Note:         req.Note,
			CreatedBy:    userID,
		}
		if err := tx.Create(event).Error; err != nil {
			return err
		}

		// The new unit cost invalidates every recipe using this
		// ingredient; recompute inside the same transaction
		if err := s.recipeService.RecalculateForIngredient(tx, ingredient.ID); err != nil {
			return err
		}

		updated = ingredient
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("stock_update", "reabastecimiento", map[string]interface{}{
		"ingrediente_id": updated.ID,
		"nombre":         updated.Name,
		"stock_actual":   updated.Stock,
		"costo_unitario": updated.UnitCost,
	}, fmt.Sprintf("%s reabasteció '%s' (+%.3f %s)", userName, updated.Name, req.Quantity, updated.Unit))

	return updated, nil
}

// RecordIngredientWaste subtracts from ingredient stock. No floor is
// enforced: waste over what the ledger thinks is on hand drives the
// stock negative rather than failing.
func (s *inventoryService) RecordIngredientWaste(req *IngredientWasteRequest, userID string) (*model.Ingredient, error) {
	if req.Quantity <= 0 {
		return nil, apperr.Validation("La cantidad debe ser positiva")
	}

	var updated *model.Ingredient
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ingredient, err := s.ingredientRepo.LockByID(tx, req.IngredientID)
		if err != nil {
			return apperr.NotFound("Ingrediente no encontrado")
		}

		ingredient.Stock = costing.Round3(ingredient.Stock - req.Quantity)
		ingredient.UpdatedBy = userID
		if err := tx.Save(ingredient).Error; err != nil {
			return err
		}

		event := &model.WasteEvent{
			IngredientID: &ingredient.ID,
			Quantity:     req.Quantity,
			Reason:       req.Reason,
			CreatedBy:    userID,
		}
		if err := tx.Create(event).Error; err != nil {
			return err
		}

		updated = ingredient
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("merma_registrada", "ingrediente", map[string]interface{}{
		"ingrediente_id": updated.ID,
		"nombre":         updated.Name,
		"stock_actual":   updated.Stock,
	}, fmt.Sprintf("Merma de %.3f %s de '%s'", req.Quantity, updated.Unit, updated.Name))

	return updated, nil
}

// RecordProductWaste subtracts from product stock. Unlike ingredient
// waste, products enforce a hard stock floor.
func (s *inventoryService) RecordProductWaste(req *ProductWasteRequest, userID string) (*model.Product, error) {
	if req.Quantity <= 0 {
		return nil, apperr.Validation("La cantidad debe ser positiva")
	}

	var updated *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.LockByID(tx, req.ProductID)
		if err != nil {
			return apperr.NotFound("Producto no encontrado")
		}

		if product.Stock < req.Quantity {
			return apperr.InsufficientStock(fmt.Sprintf("Stock insuficiente. Disponible: %d", product.Stock))
		}

		if err := s.productRepo.UpdateStock(tx, product.ID, product.Stock-req.Quantity, userID); err != nil {
			return err
		}
		product.Stock -= req.Quantity

		event := &model.WasteEvent{
			ProductID: &product.ID,
			Quantity:  float64(req.Quantity),
			Reason:    req.Reason,
			CreatedBy: userID,
		}
		if err := tx.Create(event).Error; err != nil {
			return err
		}

		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("merma_registrada", "producto", map[string]interface{}{
		"producto_id": updated.ID,
		"nombre":      updated.Name,
		"stock":       updated.Stock,
	}, fmt.Sprintf("Merma de %d unidades de '%s'", req.Quantity, updated.Name))

	return updated, nil
}

func (s *inventoryService) GetAllIngredients() ([]model.Ingredient, error) {
	return s.ingredientRepo.FindAll()
}

func (s *inventoryService) broadcast(eventType, action string, data map[string]interface{}, message string) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":    eventType,
			"action":  action,
			"data":    data,
			"message": message,
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
