package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is a raw material tracked by the inventory ledger.
// Stock is kept with 3-decimal precision (kg, liters), unit cost with 2.
type Ingredient struct {
	BaseModel
	Name         string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"nombre" validate:"required"`
	Description  string  `gorm:"type:varchar(255)" json:"descripcion"`
	Unit         string  `gorm:"type:varchar(50);not null" json:"unidad_medida" validate:"required"` // kg, l, unidad
	UnitCost     float64 `gorm:"not null;default:0" json:"costo_unitario" validate:"gte=0"`
	PreviousCost float64 `gorm:"default:0" json:"costo_anterior"`
	Stock        float64 `gorm:"default:0" json:"stock_actual"`

	RecipeItems []RecipeItem  `gorm:"foreignKey:IngredientID" json:"-"`
	CostHistory []CostHistory `gorm:"foreignKey:IngredientID" json:"-"`
}

// CostHistory is an immutable record of a manual unit-cost change
type CostHistory struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	IngredientID uuid.UUID `gorm:"type:uuid;not null;index" json:"ingrediente_id"`
	OldCost      float64   `gorm:"not null" json:"costo_anterior"`
	NewCost      float64   `gorm:"not null" json:"costo_nuevo"`
	CreatedAt    time.Time `json:"fecha_cambio"`
}

func (CostHistory) TableName() string {
	return "historial_costo_ingredientes"
}

func (h *CostHistory) BeforeCreate(tx *gorm.DB) (err error) {
	h.ID = uuid.New()
	return
}
