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

type RecipeService interface {
	CreateRecipe(req *model.Recipe, userID string) error
	UpdateRecipe(id uuid.UUID, req *UpdateRecipeRequest, userID string) (*model.Recipe, error)
	DeleteRecipe(id uuid.UUID) error
	GetRecipe(id uuid.UUID) (*model.Recipe, error)
	GetAllRecipes() ([]model.Recipe, error)
	AddItem(recipeID uuid.UUID, req *RecipeItemRequest) (*model.Recipe, error)
	UpdateItem(itemID uuid.UUID, quantity float64) (*model.Recipe, error)
	RemoveItem(itemID uuid.UUID) (*model.Recipe, error)
	SuggestPrice(unitCost, desiredMarginPct float64) float64
	RecalculateForIngredient(tx *gorm.DB, ingredientID uuid.UUID) error
}

// UpdateRecipeRequest carries the mutable recipe header fields.
// Pointers distinguish "not sent" from zero values.
type UpdateRecipeRequest struct {
	Name         *string  `json:"nombre"`
	Description  *string  `json:"descripcion"`
	PortionYield *int     `json:"rendimiento_porciones"`
	SalePrice    *float64 `json:"precio_venta" validate:"omitempty,gte=0"`
}

// RecipeItemRequest adds one line: exactly one of ingrediente_id and
// sub_receta_id must be set.
type RecipeItemRequest struct {
	IngredientID *uuid.UUID `json:"ingrediente_id"`
	SubRecipeID  *uuid.UUID `json:"sub_receta_id"`
	Quantity     float64    `json:"cantidad" validate:"required,gt=0"`
}

type recipeService struct {
	recipeRepo     repository.RecipeRepository
	ingredientRepo repository.IngredientRepository
	db             *gorm.DB
}

func NewRecipeService(rRepo repository.RecipeRepository, iRepo repository.IngredientRepository, db *gorm.DB) RecipeService {
	return &recipeService{
		recipeRepo:     rRepo,
		ingredientRepo: iRepo,
		db:             db,
	}
}

func (s *recipeService) CreateRecipe(req *model.Recipe, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return apperr.Validation(fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
	}
	if req.PortionYield <= 0 {
		req.PortionYield = 1
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	req.Items = nil // Lines are added through the item endpoints

	return s.recipeRepo.Create(req)
}

func (s *recipeService) UpdateRecipe(id uuid.UUID, req *UpdateRecipeRequest, userID string) (*model.Recipe, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Validation(fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
	}

	recipe, err := s.recipeRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("Receta no encontrada")
	}

	if req.Name != nil {
		recipe.Name = *req.Name
	}
	if req.Description != nil {
		recipe.Description = *req.Description
	}
	if req.PortionYield != nil {
		recipe.PortionYield = *req.PortionYield
	}
	if req.SalePrice != nil {
		recipe.SalePrice = *req.SalePrice
	}
	recipe.UpdatedBy = userID

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(recipe).Error; err != nil {
			return err
		}
		return s.recomputeTree(tx, recipe, map[uuid.UUID]bool{})
	})
	if err != nil {
		return nil, err
	}
	return s.recipeRepo.FindByID(id)
}

func (s *recipeService) DeleteRecipe(id uuid.UUID) error {
	if _, err := s.recipeRepo.FindByID(id); err != nil {
		return apperr.NotFound("Receta no encontrada")
	}
	parents, err := s.recipeRepo.FindBySubRecipe(id)
	if err != nil {
		return err
	}
	if len(parents) > 0 {
		return apperr.Validation(fmt.Sprintf("La receta es sub-receta de '%s'", parents[0].Name))
	}
	return s.recipeRepo.Delete(id)
}

func (s *recipeService) GetRecipe(id uuid.UUID) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("Receta no encontrada")
	}
	return recipe, nil
}

func (s *recipeService) GetAllRecipes() ([]model.Recipe, error) {
	return s.recipeRepo.FindAll()
}

func (s *recipeService) AddItem(recipeID uuid.UUID, req *RecipeItemRequest) (*model.Recipe, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Validation(fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
	}

	// A line references exactly one of {ingredient, sub-recipe}
	if (req.IngredientID == nil) == (req.SubRecipeID == nil) {
		return nil, apperr.Validation("La línea debe referenciar un ingrediente o una sub-receta, no ambos")
	}

	recipe, err := s.recipeRepo.FindByID(recipeID)
	if err != nil {
		return nil, apperr.NotFound("Receta no encontrada")
	}

	if req.IngredientID != nil {
		if _, err := s.ingredientRepo.FindByID(*req.IngredientID); err != nil {
			return nil, apperr.NotFound("Ingrediente no encontrado")
		}
	} else {
		if *req.SubRecipeID == recipeID {
			return nil, apperr.Validation("Una receta no puede referenciarse a sí misma")
		}
		if _, err := s.recipeRepo.FindByID(*req.SubRecipeID); err != nil {
			return nil, apperr.NotFound("Sub-receta no encontrada")
		}
	}

	item := &model.RecipeItem{
		RecipeID:     recipeID,
		IngredientID: req.IngredientID,
		SubRecipeID:  req.SubRecipeID,
		Quantity:     req.Quantity,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		// Re-read through tx so the new line is part of the recompute
		fresh, err := s.recipeRepo.FindByIDTx(tx, recipeID)
		if err != nil {
			return err
		}
		*recipe = *fresh
		return s.recomputeTree(tx, recipe, map[uuid.UUID]bool{})
	})
	if err != nil {
		return nil, err
	}
	return s.recipeRepo.FindByID(recipeID)
}

func (s *recipeService) UpdateItem(itemID uuid.UUID, quantity float64) (*model.Recipe, error) {
	if quantity <= 0 {
		return nil, apperr.Validation("La cantidad debe ser positiva")
	}
	item, err := s.recipeRepo.FindItemByID(itemID)
	if err != nil {
		return nil, apperr.NotFound("Línea de receta no encontrada")
	}
	item.Quantity = quantity

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		recipe, err := s.recipeRepo.FindByIDTx(tx, item.RecipeID)
		if err != nil {
			return err
		}
		return s.recomputeTree(tx, recipe, map[uuid.UUID]bool{})
	})
	if err != nil {
		return nil, err
	}
	return s.recipeRepo.FindByID(item.RecipeID)
}

func (s *recipeService) RemoveItem(itemID uuid.UUID) (*model.Recipe, error) {
	item, err := s.recipeRepo.FindItemByID(itemID)
	if err != nil {
		return nil, apperr.NotFound("Línea de receta no encontrada")
	}
	recipeID := item.RecipeID

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.RecipeItem{}, "id = ?", itemID).Error; err != nil {
			return err
		}
		recipe, err := s.recipeRepo.FindByIDTx(tx, recipeID)
		if err != nil {
			return err
		}
		return s.recomputeTree(tx, recipe, map[uuid.UUID]bool{})
	})
	if err != nil {
		return nil, err
	}
	return s.recipeRepo.FindByID(recipeID)
}

func (s *recipeService) SuggestPrice(unitCost, desiredMarginPct float64) float64 {
	return costing.SuggestPrice(unitCost, desiredMarginPct)
}

// RecalculateForIngredient recomputes every recipe that references the
// ingredient, then walks up through recipes that use those as
// sub-recipes. Runs inside the caller's transaction so a restock or
// cost edit commits together with the snapshots it invalidated.
func (s *recipeService) RecalculateForIngredient(tx *gorm.DB, ingredientID uuid.UUID) error {
	recipes, err := s.recipeRepo.FindByIngredientTx(tx, ingredientID)
	if err != nil {
		return err
	}
	visited := map[uuid.UUID]bool{}
	for i := range recipes {
		if err := s.recomputeTree(tx, &recipes[i], visited); err != nil {
			return err
		}
	}
	return nil
}

// recomputeTree derives the recipe's cost snapshot from scratch and
// propagates the change to recipes that use it as a sub-recipe. The
// visited set breaks reference cycles.
func (s *recipeService) recomputeTree(tx *gorm.DB, recipe *model.Recipe, visited map[uuid.UUID]bool) error {
	if visited[recipe.ID] {
		return nil
	}
	visited[recipe.ID] = true

	if err := s.recompute(tx, recipe, map[uuid.UUID]bool{}); err != nil {
		return err
	}

	parents, err := s.recipeRepo.FindBySubRecipeTx(tx, recipe.ID)
	if err != nil {
		return err
	}
	for i := range parents {
		if err := s.recomputeTree(tx, &parents[i], visited); err != nil {
			return err
		}
	}
	return nil
}

// recompute rebuilds one recipe's derived fields from live ingredient
// unit costs, never from previously stored sums.
func (s *recipeService) recompute(tx *gorm.DB, recipe *model.Recipe, onPath map[uuid.UUID]bool) error {
	if onPath[recipe.ID] {
		return nil
	}
	onPath[recipe.ID] = true
	defer delete(onPath, recipe.ID)

	lines := make([]costing.Line, 0, len(recipe.Items))
	for i := range recipe.Items {
		item := &recipe.Items[i]
		unitCost := 0.0
		switch {
		case item.IngredientID != nil:
			// Read through tx: a restock updates the cost in the same
			// transaction before fanning out here
			var ingredient model.Ingredient
			if err := tx.First(&ingredient, "id = ?", *item.IngredientID).Error; err != nil {
				return err
			}
			unitCost = ingredient.UnitCost
		case item.SubRecipeID != nil:
			var sub model.Recipe
			if err := tx.Preload("Items").First(&sub, "id = ?", *item.SubRecipeID).Error; err != nil {
				return err
			}
			if err := s.recompute(tx, &sub, onPath); err != nil {
				return err
			}
			unitCost = sub.CostPerPortion
		}
		item.ComputedCost = costing.LineCost(item.Quantity, unitCost)
		lines = append(lines, costing.Line{Quantity: item.Quantity, UnitCost: unitCost})
	}

	totals := costing.ComputeRecipeTotals(lines, recipe.PortionYield, recipe.SalePrice)
	recipe.TotalCost = totals.TotalCost
	recipe.CostPerPortion = totals.CostPerPortion
	recipe.MarginPct = totals.MarginPct
	recipe.TotalProfit = totals.TotalProfit

	return s.recipeRepo.SaveTotals(tx, recipe)
}
