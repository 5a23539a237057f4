package service

import (
	"fmt"

	"go-resto-backend/internal/costing"
	"go-resto-backend/internal/model"
	"go-resto-backend/internal/repository"
	"go-resto-backend/pkg/apperr"
	"go-resto-backend/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IngredientService interface {
	CreateIngredient(req *model.Ingredient, userID string) error
	UpdateIngredient(id uuid.UUID, req *UpdateIngredientRequest, userID string) (*model.Ingredient, error)
	DeleteIngredient(id uuid.UUID) error
	GetIngredient(id uuid.UUID) (*model.Ingredient, error)
	GetAllIngredients() ([]model.Ingredient, error)
	SearchIngredients(term string) ([]model.Ingredient, error)
	GetCostHistory(id uuid.UUID, limit int) ([]model.CostHistory, error)
}

// UpdateIngredientRequest carries mutable ingredient fields. A unit
// cost different from the current one writes a history entry and
// triggers the recipe recalculation fan-out.
type UpdateIngredientRequest struct {
	Name        *string  `json:"nombre"`
	Description *string  `json:"descripcion"`
	Unit        *string  `json:"unidad_medida"`
	UnitCost    *float64 `json:"costo_unitario" validate:"omitempty,gte=0"`
}

type ingredientService struct {
	ingredientRepo repository.IngredientRepository
	recipeService  RecipeService
	db             *gorm.DB
}

func NewIngredientService(iRepo repository.IngredientRepository, rService RecipeService, db *gorm.DB) IngredientService {
	return &ingredientService{
		ingredientRepo: iRepo,
		recipeService:  rService,
		db:             db,
	}
}

func (s *ingredientService) CreateIngredient(req *model.Ingredient, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return apperr.Validation(fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
	}

	existing, _ := s.ingredientRepo.FindByName(req.Name)
	if existing != nil && existing.ID != uuid.Nil {
		return apperr.Validation("Ingrediente con ese nombre ya existe")
	}

	req.UnitCost = costing.Round2(req.UnitCost)
	req.PreviousCost = req.UnitCost
	req.Stock = costing.Round3(req.Stock)
	req.CreatedBy = userID
	req.UpdatedBy = userID

	return s.ingredientRepo.Create(req)
}

func (s *ingredientService) UpdateIngredient(id uuid.UUID, req *UpdateIngredientRequest, userID string) (*model.Ingredient, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Validation(fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
	}

	var updated *model.Ingredient
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ingredient, err := s.ingredientRepo.LockByID(tx, id)
		if err != nil {
			return apperr.NotFound("Ingrediente no encontrado")
		}

		if req.Name != nil {
			ingredient.Name = *req.Name
		}
		if req.Description != nil {
			ingredient.Description = *req.Description
		}
		if req.Unit != nil {
			ingredient.Unit = *req.Unit
		}

		costChanged := false
		if req.UnitCost != nil {
			newCost := costing.Round2(*req.UnitCost)
			if newCost != ingredient.UnitCost {
				// Manual cost edits always leave a history row
				entry := &model.CostHistory{
					IngredientID: ingredient.ID,
					OldCost:      ingredient.UnitCost,
					NewCost:      newCost,
				}
				if err := s.ingredientRepo.CreateCostHistory(tx, entry); err != nil {
					return err
				}
				ingredient.PreviousCost = ingredient.UnitCost
				ingredient.UnitCost = newCost
				costChanged = true
			}
		}

		ingredient.UpdatedBy = userID
		if err := tx.Save(ingredient).Error; err != nil {
			return err
		}

		if costChanged {
			if err := s.recipeService.RecalculateForIngredient(tx, ingredient.ID); err != nil {
				return err
			}
		}

		updated = ingredient
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ingredientService) DeleteIngredient(id uuid.UUID) error {
	if _, err := s.ingredientRepo.FindByID(id); err != nil {
		return apperr.NotFound("Ingrediente no encontrado")
	}
	return s.ingredientRepo.Delete(id)
}

func (s *ingredientService) GetIngredient(id uuid.UUID) (*model.Ingredient, error) {
	ingredient, err := s.ingredientRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("Ingrediente no encontrado")
	}
	return ingredient, nil
}

func (s *ingredientService) GetAllIngredients() ([]model.Ingredient, error) {
	return s.ingredientRepo.FindAll()
}

func (s *ingredientService) SearchIngredients(term string) ([]model.Ingredient, error) {
	return s.ingredientRepo.Search(term)
}

func (s *ingredientService) GetCostHistory(id uuid.UUID, limit int) ([]model.CostHistory, error) {
	if _, err := s.ingredientRepo.FindByID(id); err != nil {
		return nil, apperr.NotFound("Ingrediente no encontrado")
	}
	if limit <= 0 {
		limit = 10
	}
	return s.ingredientRepo.FindCostHistory(id, limit)
}
