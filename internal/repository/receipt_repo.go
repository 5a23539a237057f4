package repository

import (
	"go-resto-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReceiptRepository interface {
	Create(receipt *model.Receipt) error
	FindByID(id uuid.UUID) (*model.Receipt, error)
	FindBySaleAndType(saleID uuid.UUID, receiptType model.ReceiptType) (*model.Receipt, error)
	Update(receipt *model.Receipt) error
}

type receiptRepo struct {
	db *gorm.DB
}

func NewReceiptRepo(db *gorm.DB) ReceiptRepository {
	return &receiptRepo{db}
}

func (r *receiptRepo) Create(receipt *model.Receipt) error {
	return r.db.Create(receipt).Error
}

func (r *receiptRepo) FindByID(id uuid.UUID) (*model.Receipt, error) {
	var receipt model.Receipt
	err := r.db.First(&receipt, "id = ?", id).Error
	return &receipt, err
}

func (r *receiptRepo) FindBySaleAndType(saleID uuid.UUID, receiptType model.ReceiptType) (*model.Receipt, error) {
	var receipt model.Receipt
	err := r.db.Where("sale_id = ? AND type = ?", saleID, receiptType).First(&receipt).Error
	return &receipt, err
}

func (r *receiptRepo) Update(receipt *model.Receipt) error {
	return r.db.Save(receipt).Error
}
