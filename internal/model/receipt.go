package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReceiptType is the audience of a generated receipt
type ReceiptType string

const (
	ReceiptKitchen ReceiptType = "cocina"
	ReceiptCashier ReceiptType = "caja"
)

// Receipt (comanda) is a generated document derived from a committed
// sale. At most one exists per (sale, type) pair; generation is
// idempotent.
type Receipt struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	SaleID    uuid.UUID   `gorm:"type:uuid;not null;index:idx_comanda_venta_tipo,unique" json:"venta_id"`
	Type      ReceiptType `gorm:"type:varchar(20);not null;index:idx_comanda_venta_tipo,unique" json:"tipo"`
	HTML      string      `gorm:"type:text;not null" json:"html"`
	Text      string      `gorm:"type:text;not null" json:"texto"`
	Printed   bool        `gorm:"default:false" json:"impresa"`
	PrintedAt *time.Time  `json:"fecha_impresion"`
	CreatedAt time.Time   `json:"created_at"`

	Sale *Sale `gorm:"foreignKey:SaleID" json:"-"`
}

func (Receipt) TableName() string {
	return "comandas"
}

func (r *Receipt) BeforeCreate(tx *gorm.DB) (err error) {
	r.ID = uuid.New()
	return
}
