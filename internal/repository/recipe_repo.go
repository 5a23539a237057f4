package repository

import (
	"go-resto-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecipeRepository interface {
	Create(recipe *model.Recipe) error
	FindAll() ([]model.Recipe, error)
	FindByID(id uuid.UUID) (*model.Recipe, error)
	Update(recipe *model.Recipe) error
	Delete(id uuid.UUID) error
	CreateItem(item *model.RecipeItem) error
	UpdateItem(item *model.RecipeItem) error
	DeleteItem(id uuid.UUID) error
	FindItemByID(id uuid.UUID) (*model.RecipeItem, error)
	FindBySubRecipe(recipeID uuid.UUID) ([]model.Recipe, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Recipe, error)
	FindByIngredientTx(tx *gorm.DB, ingredientID uuid.UUID) ([]model.Recipe, error)
	FindBySubRecipeTx(tx *gorm.DB, recipeID uuid.UUID) ([]model.Recipe, error)
	SaveTotals(tx *gorm.DB, recipe *model.Recipe) error
}

type recipeRepo struct {
	db *gorm.DB
}

func NewRecipeRepo(db *gorm.DB) RecipeRepository {
	return &recipeRepo{db}
}

func (r *recipeRepo) preloadAll(db *gorm.DB) *gorm.DB {
	return db.Preload("Items").
		Preload("Items.Ingredient").
		Preload("Items.SubRecipe").
		Preload("Items.SubRecipe.Items").
		Preload("Items.SubRecipe.Items.Ingredient")
}

func (r *recipeRepo) Create(recipe *model.Recipe) error {
	return r.db.Create(recipe).Error
}

func (r *recipeRepo) FindAll() ([]model.Recipe, error) {
	var recipes []model.Recipe
	err := r.preloadAll(r.db).Order("name ASC").Find(&recipes).Error
	return recipes, err
}

func (r *recipeRepo) FindByID(id uuid.UUID) (*model.Recipe, error) {
	return r.findByID(r.db, id)
}

// FindByIDTx reads through an open transaction so a line created or
// deleted in it is visible before commit
func (r *recipeRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Recipe, error) {
	return r.findByID(tx, id)
}

func (r *recipeRepo) findByID(db *gorm.DB, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	err := r.preloadAll(db).First(&recipe, "id = ?", id).Error
	return &recipe, err
}

func (r *recipeRepo) Update(recipe *model.Recipe) error {
	return r.db.Save(recipe).Error
}

func (r *recipeRepo) Delete(id uuid.UUID) error {
	if err := r.db.Delete(&model.RecipeItem{}, "recipe_id = ?", id).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Recipe{}, "id = ?", id).Error
}

func (r *recipeRepo) CreateItem(item *model.RecipeItem) error {
	return r.db.Create(item).Error
}

func (r *recipeRepo) UpdateItem(item *model.RecipeItem) error {
	return r.db.Save(item).Error
}

func (r *recipeRepo) DeleteItem(id uuid.UUID) error {
	return r.db.Delete(&model.RecipeItem{}, "id = ?", id).Error
}

func (r *recipeRepo) FindItemByID(id uuid.UUID) (*model.RecipeItem, error) {
	var item model.RecipeItem
	err := r.db.Preload("Ingredient").Preload("SubRecipe").First(&item, "id = ?", id).Error
	return &item, err
}

// FindByIngredientTx returns every recipe with a line referencing the
// ingredient. Used for the cost-change recalculation fan-out.
func (r *recipeRepo) FindByIngredientTx(tx *gorm.DB, ingredientID uuid.UUID) ([]model.Recipe, error) {
	return r.findByItemRef(tx, "ingredient_id = ?", ingredientID)
}

// FindBySubRecipe returns every recipe with a line referencing the
// given recipe as a sub-recipe
func (r *recipeRepo) FindBySubRecipe(recipeID uuid.UUID) ([]model.Recipe, error) {
	return r.findByItemRef(r.db, "sub_recipe_id = ?", recipeID)
}

func (r *recipeRepo) FindBySubRecipeTx(tx *gorm.DB, recipeID uuid.UUID) ([]model.Recipe, error) {
	return r.findByItemRef(tx, "sub_recipe_id = ?", recipeID)
}

func (r *recipeRepo) findByItemRef(db *gorm.DB, condition string, id uuid.UUID) ([]model.Recipe, error) {
	var ids []uuid.UUID
	err := db.Model(&model.RecipeItem{}).
		Where(condition, id).
		Distinct("recipe_id").
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var recipes []model.Recipe
	err = r.preloadAll(db).Where("id IN ?", ids).Find(&recipes).Error
	return recipes, err
}

// SaveTotals persists only the derived cost snapshot and the line
// costs, inside the caller's transaction
func (r *recipeRepo) SaveTotals(tx *gorm.DB, recipe *model.Recipe) error {
	if err := tx.Model(&model.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]interface{}{
		"total_cost":       recipe.TotalCost,
		"cost_per_portion": recipe.CostPerPortion,
		"margin_pct":       recipe.MarginPct,
		"total_profit":     recipe.TotalProfit,
	}).Error; err != nil {
		return err
	}
	for i := range recipe.Items {
		item := &recipe.Items[i]
		if err := tx.Model(&model.RecipeItem{}).Where("id = ?", item.ID).
			Update("computed_cost", item.ComputedCost).Error; err != nil {
			return err
		}
	}
	return nil
}
