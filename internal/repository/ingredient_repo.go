package repository

import (
	"go-resto-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IngredientRepository interface {
	Create(ingredient *model.Ingredient) error
	FindAll() ([]model.Ingredient, error)
	FindByID(id uuid.UUID) (*model.Ingredient, error)
	FindByName(name string) (*model.Ingredient, error)
	Search(term string) ([]model.Ingredient, error)
	Update(ingredient *model.Ingredient) error
	Delete(id uuid.UUID) error
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Ingredient, error)
	CreateCostHistory(tx *gorm.DB, entry *model.CostHistory) error
	FindCostHistory(ingredientID uuid.UUID, limit int) ([]model.CostHistory, error)
}

type ingredientRepo struct {
	db *gorm.DB
}

func NewIngredientRepo(db *gorm.DB) IngredientRepository {
	return &ingredientRepo{db}
}

func (r *ingredientRepo) Create(ingredient *model.Ingredient) error {
	return r.db.Create(ingredient).Error
}

func (r *ingredientRepo) FindAll() ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	err := r.db.Order("name ASC").Find(&ingredients).Error
	return ingredients, err
}

func (r *ingredientRepo) FindByID(id uuid.UUID) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	err := r.db.First(&ingredient, "id = ?", id).Error
	return &ingredient, err
}

func (r *ingredientRepo) FindByName(name string) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	err := r.db.First(&ingredient, "name = ?", name).Error
	return &ingredient, err
}

func (r *ingredientRepo) Search(term string) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	pattern := "%" + term + "%"
	err := r.db.Where("name LIKE ? OR description LIKE ?", pattern, pattern).Find(&ingredients).Error
	return ingredients, err
}

func (r *ingredientRepo) Update(ingredient *model.Ingredient) error {
	return r.db.Save(ingredient).Error
}

func (r *ingredientRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Ingredient{}, "id = ?", id).Error
}

// LockByID fetches an ingredient FOR UPDATE within tx so restock and
// waste read-modify-write cycles do not race each other
func (r *ingredientRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	err := tx.Set("gorm:query_option", "FOR UPDATE").First(&ingredient, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepo) CreateCostHistory(tx *gorm.DB, entry *model.CostHistory) error {
	return tx.Create(entry).Error
}

func (r *ingredientRepo) FindCostHistory(ingredientID uuid.UUID, limit int) ([]model.CostHistory, error) {
	var history []model.CostHistory
	err := r.db.Where("ingredient_id = ?", ingredientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&history).Error
	return history, err
}
