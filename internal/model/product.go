package model

// Product is a simple sellable catalog item (bottled drinks, packaged
// goods) independent of the recipe/ingredient graph.
type Product struct {
	BaseModel
	Name        string  `gorm:"type:varchar(100);not null" json:"nombre" validate:"required"`
	Description string  `gorm:"type:varchar(255)" json:"descripcion"`
	Price       float64 `gorm:"not null;default:0" json:"precio" validate:"gte=0"`
	Stock       int     `gorm:"default:0" json:"stock"`
	Cost        float64 `gorm:"default:0" json:"costo"`
}

func (Product) TableName() string {
	return "productos"
}
