package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RestockEvent is an immutable record of an ingredient purchase.
// It drives the weighted-average unit cost recalculation.
type RestockEvent struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	IngredientID uuid.UUID `gorm:"type:uuid;not null;index" json:"ingrediente_id"`
	Quantity     float64   `gorm:"not null" json:"cantidad"`
	PurchaseCost float64   `gorm:"not null" json:"costo_compra"` // Total cost of the purchase
	Supplier     string    `gorm:"type:varchar(100)" json:"proveedor"`
	Note         string    `gorm:"type:varchar(255)" json:"observaciones"`
	CreatedBy    string    `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingrediente,omitempty"`
}

func (RestockEvent) TableName() string {
	return "reabastecimientos"
}

func (e *RestockEvent) BeforeCreate(tx *gorm.DB) (err error) {
	e.ID = uuid.New()
	return
}

// WasteEvent is an immutable record of wasted stock. It references
// either an ingredient or a product, never both.
type WasteEvent struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	IngredientID *uuid.UUID `gorm:"type:uuid;index" json:"ingrediente_id,omitempty"`
	ProductID    *uuid.UUID `gorm:"type:uuid;index" json:"producto_id,omitempty"`
	Quantity     float64    `gorm:"not null" json:"cantidad"`
	Reason       string     `gorm:"type:varchar(255)" json:"razon"`
	CreatedBy    string     `gorm:"type:varchar(255)" json:"usuario"`
	CreatedAt    time.Time  `json:"created_at"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingrediente,omitempty"`
	Product    *Product    `gorm:"foreignKey:ProductID" json:"producto,omitempty"`
}

func (WasteEvent) TableName() string {
	return "mermas"
}

func (e *WasteEvent) BeforeCreate(tx *gorm.DB) (err error) {
	e.ID = uuid.New()
	return
}
