package repository

import (
	"time"

	"go-resto-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	FindByID(id uuid.UUID) (*model.Sale, error)
	FindPage(page, perPage int, from, to *time.Time) ([]model.Sale, int64, error)
	Delete(tx *gorm.DB, id uuid.UUID) error
	GetDashboardStats() (*DashboardStats, error)
	GetDailySummary(day time.Time) (*DailySalesSummary, []model.Sale, error)
	GetWasteByReason() ([]WasteByReason, error)
}

// DashboardStats is the overview block for the admin dashboard
type DashboardStats struct {
	TotalProducts  int64   `json:"total_productos"`
	LowStockCount  int64   `json:"productos_stock_bajo"`
	TotalValuation float64 `json:"valorizacion_inventario"`
	SalesToday     int64   `json:"ventas_hoy"`
	IncomeToday    float64 `json:"ingresos_hoy"`
}

// DailySalesSummary aggregates one day of committed sales
type DailySalesSummary struct {
	SaleCount      int64   `json:"total_ventas"`
	TotalIncome    float64 `json:"total_ingresos"`
	TotalDiscounts float64 `json:"total_descuentos"`
	TotalTax       float64 `json:"total_iva"`
}

// WasteByReason groups waste events by their free-text reason
type WasteByReason struct {
	Reason   string  `json:"razon"`
	Quantity float64 `json:"cantidad"`
	Events   int64   `json:"registros"`
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Items").
		Preload("Items.Product").
		Preload("Items.Recipe").
		First(&sale, "id = ?", id).Error
	return &sale, err
}

func (r *saleRepo) FindPage(page, perPage int, from, to *time.Time) ([]model.Sale, int64, error) {
	query := r.db.Model(&model.Sale{})
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sales []model.Sale
	err := query.Preload("Items").
		Preload("Items.Product").
		Preload("Items.Recipe").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&sales).Error
	return sales, total, err
}

// Delete removes a sale with its items and generated receipts inside
// the caller's transaction
func (r *saleRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Delete(&model.Receipt{}, "sale_id = ?", id).Error; err != nil {
		return err
	}
	if err := tx.Delete(&model.SaleItem{}, "sale_id = ?", id).Error; err != nil {
		return err
	}
	return tx.Unscoped().Delete(&model.Sale{}, "id = ?", id).Error
}

func (r *saleRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	r.db.Model(&model.Product{}).Count(&stats.TotalProducts)

	// Low stock (stock < 10)
	r.db.Model(&model.Product{}).Where("stock < ?", 10).Count(&stats.LowStockCount)

	r.db.Model(&model.Product{}).Select("COALESCE(SUM(stock * price), 0)").Scan(&stats.TotalValuation)

	startOfDay := time.Now().Truncate(24 * time.Hour)
	r.db.Model(&model.Sale{}).Where("created_at >= ?", startOfDay).Count(&stats.SalesToday)
	r.db.Model(&model.Sale{}).Where("created_at >= ?", startOfDay).
		Select("COALESCE(SUM(total), 0)").Scan(&stats.IncomeToday)

	return &stats, nil
}

func (r *saleRepo) GetDailySummary(day time.Time) (*DailySalesSummary, []model.Sale, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	var sales []model.Sale
	err := r.db.Preload("Items").
		Preload("Items.Product").
		Preload("Items.Recipe").
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at ASC").
		Find(&sales).Error
	if err != nil {
		return nil, nil, err
	}

	summary := &DailySalesSummary{SaleCount: int64(len(sales))}
	for _, s := range sales {
		summary.TotalIncome += s.Total
		summary.TotalDiscounts += s.DiscountAmount
		summary.TotalTax += s.Tax
	}
	return summary, sales, nil
}

func (r *saleRepo) GetWasteByReason() ([]WasteByReason, error) {
	var results []WasteByReason

	rows, err := r.db.Model(&model.WasteEvent{}).
		Select(`
			COALESCE(NULLIF(reason, ''), 'Sin especificar') as reason,
			COALESCE(SUM(quantity), 0) as quantity,
			COUNT(id) as events
		`).
		Group("COALESCE(NULLIF(reason, ''), 'Sin especificar')").
		Order("quantity DESC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data WasteByReason
		if err := rows.Scan(&data.Reason, &data.Quantity, &data.Events); err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, nil
}
