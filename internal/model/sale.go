package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemType tags a sale line as a plain product or a recipe
type ItemType string

const (
	ItemProduct ItemType = "producto"
	ItemRecipe  ItemType = "receta"
)

// Sale (venta) holds order metadata and totals. It is created
// atomically with all its items or not at all.
type Sale struct {
	BaseModel
	OperatorName   string  `gorm:"type:varchar(100)" json:"usuario"`
	CustomerName   string  `gorm:"type:varchar(100)" json:"cliente_nombre"`
	TableNumber    string  `gorm:"type:varchar(20)" json:"numero_mesa"`
	Subtotal       float64 `gorm:"default:0" json:"subtotal"`
	DiscountAmount float64 `gorm:"default:0" json:"descuento"`
	Tax            float64 `gorm:"default:0" json:"iva"`
	Tip            float64 `gorm:"default:0" json:"propina"`
	Total          float64 `gorm:"default:0" json:"total"`
	Comments       string  `gorm:"type:text" json:"comentarios"`

	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

func (Sale) TableName() string {
	return "ventas"
}

// ExplosionEntry is one exploded ingredient of a recipe sale line,
// captured at order time with the unit cost then in effect. Past
// orders are never recomputed when costs change later.
type ExplosionEntry struct {
	IngredientID   uuid.UUID `json:"ingrediente_id"`
	IngredientName string    `json:"ingrediente_nombre"`
	Unit           string    `json:"unidad"`
	QtyPerRecipe   float64   `json:"cantidad_por_receta"`
	QtyTotal       float64   `json:"cantidad_total"`
	UnitCost       float64   `json:"costo_unitario"`
	TotalCost      float64   `json:"costo_total"`
}

// SaleItem is one sale line referencing either a product or a recipe.
// For recipe lines ExplosionJSON holds the ingredient breakdown keyed
// by ingredient id.
type SaleItem struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	SaleID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"venta_id"`
	ProductID     *uuid.UUID `gorm:"type:uuid;index" json:"producto_id,omitempty"`
	RecipeID      *uuid.UUID `gorm:"type:uuid;index" json:"receta_id,omitempty"`
	Quantity      int        `gorm:"not null" json:"cantidad"`
	UnitPrice     float64    `gorm:"not null" json:"precio_unitario"`
	LineSubtotal  float64    `gorm:"not null" json:"subtotal"`
	Note          string     `gorm:"type:text" json:"observaciones"`
	IsRecipe      bool       `gorm:"default:false" json:"es_receta"`
	ExplosionJSON string     `gorm:"type:text;default:'{}'" json:"-"`
	CreatedAt     time.Time  `json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"producto,omitempty"`
	Recipe  *Recipe  `gorm:"foreignKey:RecipeID" json:"receta,omitempty"`
}

func (SaleItem) TableName() string {
	return "venta_items"
}

func (si *SaleItem) BeforeCreate(tx *gorm.DB) (err error) {
	si.ID = uuid.New()
	return
}

// Explosion decodes the stored ingredient breakdown. Returns an empty
// map for product lines or unreadable payloads.
func (si *SaleItem) Explosion() map[string]ExplosionEntry {
	out := map[string]ExplosionEntry{}
	if si.ExplosionJSON == "" {
		return out
	}
	if err := json.Unmarshal([]byte(si.ExplosionJSON), &out); err != nil {
		return map[string]ExplosionEntry{}
	}
	return out
}

// SetExplosion encodes and stores the ingredient breakdown
func (si *SaleItem) SetExplosion(explosion map[string]ExplosionEntry) error {
	raw, err := json.Marshal(explosion)
	if err != nil {
		return err
	}
	si.ExplosionJSON = string(raw)
	return nil
}

// Name returns the display name of the underlying product or recipe
func (si *SaleItem) Name() string {
	if si.IsRecipe && si.Recipe != nil {
		return si.Recipe.Name
	}
	if si.Product != nil {
		return si.Product.Name
	}
	return "N/A"
}
