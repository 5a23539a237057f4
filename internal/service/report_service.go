package service

import (
	"sort"
	"time"

	"go-resto-backend/internal/costing"
	"go-resto-backend/internal/repository"
)

type ReportService interface {
	GetDashboardStats() (*repository.DashboardStats, error)
	GetDailySalesReport(day time.Time) (*DailySalesReport, error)
	GetWasteReport() ([]repository.WasteByReason, error)
	GetRecipeProfitability() ([]RecipeProfitability, error)
}

// TopProduct is the best selling item of the reported period
type TopProduct struct {
	Name     string `json:"nombre"`
	Quantity int    `json:"cantidad"`
}

// DailySalesReport summarizes one day of sales for the closing report
type DailySalesReport struct {
	Date           string      `json:"fecha"`
	SaleCount      int64       `json:"total_ventas"`
	TotalIncome    float64     `json:"total_ingresos"`
	TotalDiscounts float64     `json:"total_descuentos"`
	TotalTax       float64     `json:"total_iva"`
	AverageTicket  float64     `json:"ticket_promedio"`
	TopProduct     *TopProduct `json:"producto_mas_vendido"`
}

// RecipeProfitability is one row of the margin report
type RecipeProfitability struct {
	RecipeID       string  `json:"receta_id"`
	Name           string  `json:"nombre"`
	CostPerPortion float64 `json:"costo_por_porcion"`
	SalePrice      float64 `json:"precio_venta"`
	MarginPct      float64 `json:"margen_porcentaje"`
	TotalProfit    float64 `json:"utilidad_total"`
	SuggestedPrice float64 `json:"precio_sugerido"`
}

type reportService struct {
	saleRepo   repository.SaleRepository
	recipeRepo repository.RecipeRepository
}

func NewReportService(sRepo repository.SaleRepository, rRepo repository.RecipeRepository) ReportService {
	return &reportService{
		saleRepo:   sRepo,
		recipeRepo: rRepo,
	}
}

func (s *reportService) GetDashboardStats() (*repository.DashboardStats, error) {
	return s.saleRepo.GetDashboardStats()
}

func (s *reportService) GetDailySalesReport(day time.Time) (*DailySalesReport, error) {
	summary, sales, err := s.saleRepo.GetDailySummary(day)
	if err != nil {
		return nil, err
	}

	report := &DailySalesReport{
		Date:           day.Format("2006-01-02"),
		SaleCount:      summary.SaleCount,
		TotalIncome:    costing.Round2(summary.TotalIncome),
		TotalDiscounts: costing.Round2(summary.TotalDiscounts),
		TotalTax:       costing.Round2(summary.TotalTax),
	}
	if summary.SaleCount > 0 {
		report.AverageTicket = costing.Round2(summary.TotalIncome / float64(summary.SaleCount))
	}

	quantities := map[string]int{}
	for i := range sales {
		for j := range sales[i].Items {
			item := &sales[i].Items[j]
			quantities[item.Name()] += item.Quantity
		}
	}
	for name, qty := range quantities {
		if report.TopProduct == nil || qty > report.TopProduct.Quantity {
			report.TopProduct = &TopProduct{Name: name, Quantity: qty}
		}
	}

	return report, nil
}

func (s *reportService) GetWasteReport() ([]repository.WasteByReason, error) {
	return s.saleRepo.GetWasteByReason()
}

// GetRecipeProfitability lists every recipe with its margin and the
// price a default margin would suggest, lowest margin first
func (s *reportService) GetRecipeProfitability() ([]RecipeProfitability, error) {
	recipes, err := s.recipeRepo.FindAll()
	if err != nil {
		return nil, err
	}

	rows := make([]RecipeProfitability, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		rows = append(rows, RecipeProfitability{
			RecipeID:       r.ID.String(),
			Name:           r.Name,
			CostPerPortion: r.CostPerPortion,
			SalePrice:      r.SalePrice,
			MarginPct:      r.MarginPct,
			TotalProfit:    r.TotalProfit,
			SuggestedPrice: costing.SuggestPrice(r.CostPerPortion, costing.DefaultMarginPct),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].MarginPct < rows[j].MarginPct
	})
	return rows, nil
}
