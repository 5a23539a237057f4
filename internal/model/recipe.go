package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe is a sellable dish whose cost is derived from its items.
// The four derived fields (TotalCost, CostPerPortion, MarginPct,
// TotalProfit) are always recomputed from live ingredient costs,
// never written independently.
type Recipe struct {
	BaseModel
	Name           string  `gorm:"type:varchar(100);not null" json:"nombre" validate:"required"`
	Description    string  `gorm:"type:varchar(255)" json:"descripcion"`
	PortionYield   int     `gorm:"default:1" json:"rendimiento_porciones"`
	TotalCost      float64 `gorm:"default:0" json:"costo_total"`
	CostPerPortion float64 `gorm:"default:0" json:"costo_por_porcion"`
	SalePrice      float64 `gorm:"not null;default:0" json:"precio_venta" validate:"gte=0"`
	MarginPct      float64 `gorm:"default:0" json:"margen_porcentaje"`
	TotalProfit    float64 `gorm:"default:0" json:"utilidad_total"`

	Items []RecipeItem `gorm:"foreignKey:RecipeID" json:"ingredientes,omitempty"`
}

// RecipeItem is one line of a recipe. It references exactly one of
// {ingredient, sub-recipe}; the service layer enforces the exclusivity.
type RecipeItem struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"receta_id"`
	IngredientID *uuid.UUID `gorm:"type:uuid;index" json:"ingrediente_id,omitempty"`
	SubRecipeID  *uuid.UUID `gorm:"type:uuid;index" json:"sub_receta_id,omitempty"`
	Quantity     float64    `gorm:"not null" json:"cantidad" validate:"required,gt=0"`
	ComputedCost float64    `gorm:"default:0" json:"costo_calculado"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingrediente,omitempty"`
	SubRecipe  *Recipe     `gorm:"foreignKey:SubRecipeID" json:"sub_receta,omitempty"`
}

func (RecipeItem) TableName() string {
	return "receta_ingredientes"
}

func (ri *RecipeItem) BeforeCreate(tx *gorm.DB) (err error) {
	ri.ID = uuid.New()
	return
}

// IsSubRecipe reports whether this line points at a sub-recipe
func (ri *RecipeItem) IsSubRecipe() bool {
	return ri.SubRecipeID != nil
}
