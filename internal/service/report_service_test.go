package service

import (
	"testing"
	"time"

	"go-resto-backend/internal/costing"
	"go-resto-backend/internal/model"
)

func TestDailySalesReport(t *testing.T) {
	env := newTestEnv(t)

	cola := env.mustCreateProduct(t, "Coca-Cola", 2.50, 100)
	agua := env.mustCreateProduct(t, "Agua", 1.50, 100)

	for i := 0; i < 3; i++ {
		if _, err := env.sales.CreateSale(&CreateSaleRequest{
			Items: []SaleItemRequest{
				{Type: model.ItemProduct, ID: cola.ID, Quantity: 2},
			},
		}, "test", "Cajero"); err != nil {
			t.Fatalf("CreateSale: %v", err)
		}
	}
	if _, err := env.sales.CreateSale(&CreateSaleRequest{
		Items: []SaleItemRequest{
			{Type: model.ItemProduct, ID: agua.ID, Quantity: 1},
		},
	}, "test", "Cajero"); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	report, err := env.reports.GetDailySalesReport(time.Now())
	if err != nil {
		t.Fatalf("GetDailySalesReport: %v", err)
	}

	if report.SaleCount != 4 {
		t.Errorf("sale count = %d, want 4", report.SaleCount)
	}
	if report.TotalIncome <= 0 {
		t.Errorf("total income = %v, want > 0", report.TotalIncome)
	}
	if !approx(report.AverageTicket, costing.Round2(report.TotalIncome/4)) {
		t.Errorf("average ticket = %v, want income/4", report.AverageTicket)
	}
	if report.TopProduct == nil {
		t.Fatal("expected a top product")
	}
	if report.TopProduct.Name != "Coca-Cola" || report.TopProduct.Quantity != 6 {
		t.Errorf("top product = %+v, want Coca-Cola x6", report.TopProduct)
	}
}

func TestDailySalesReportEmptyDay(t *testing.T) {
	env := newTestEnv(t)

	report, err := env.reports.GetDailySalesReport(time.Now().AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("GetDailySalesReport: %v", err)
	}
	if report.SaleCount != 0 || report.AverageTicket != 0 || report.TopProduct != nil {
		t.Errorf("empty day report = %+v, want zeros", report)
	}
}

func TestWasteReportGroupsByReason(t *testing.T) {
	env := newTestEnv(t)
	lettuce := env.mustCreateIngredient(t, "Lechuga", "kg", 3.00, 10)

	for _, w := range []struct {
		qty    float64
		reason string
	}{
		{1, "Vencido"},
		{2, "Vencido"},
		{0.5, ""},
	} {
		if _, err := env.inventory.RecordIngredientWaste(&IngredientWasteRequest{
			IngredientID: lettuce.ID,
			Quantity:     w.qty,
			Reason:       w.reason,
		}, "test"); err != nil {
			t.Fatalf("RecordIngredientWaste: %v", err)
		}
	}

	rows, err := env.reports.GetWasteReport()
	if err != nil {
		t.Fatalf("GetWasteReport: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	byReason := map[string]float64{}
	for _, r := range rows {
		byReason[r.Reason] = r.Quantity
	}
	if !approx(byReason["Vencido"], 3) {
		t.Errorf("Vencido quantity = %v, want 3", byReason["Vencido"])
	}
	if !approx(byReason["Sin especificar"], 0.5) {
		t.Errorf("Sin especificar quantity = %v, want 0.5", byReason["Sin especificar"])
	}
}

func TestRecipeProfitabilitySortsByMargin(t *testing.T) {
	env := newTestEnv(t)
	beef := env.mustCreateIngredient(t, "Carne molida", "kg", 12.00, 10)

	cheap := env.mustCreateRecipe(t, "Hamburguesa Simple", 1, 3.00)
	env.mustAddIngredientLine(t, cheap, beef, 0.15)

	pricey := env.mustCreateRecipe(t, "Hamburguesa Doble", 1, 12.00)
	env.mustAddIngredientLine(t, pricey, beef, 0.30)

	rows, err := env.reports.GetRecipeProfitability()
	if err != nil {
		t.Fatalf("GetRecipeProfitability: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Name != "Hamburguesa Simple" {
		t.Errorf("lowest margin first: got %s", rows[0].Name)
	}
	if rows[0].MarginPct >= rows[1].MarginPct {
		t.Errorf("rows not sorted by margin: %v then %v", rows[0].MarginPct, rows[1].MarginPct)
	}
	for _, r := range rows {
		if r.SuggestedPrice <= 0 {
			t.Errorf("recipe %s has no suggested price", r.Name)
		}
	}
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	cola := env.mustCreateProduct(t, "Coca-Cola", 2.50, 5)
	env.mustCreateProduct(t, "Agua", 1.50, 50)

	if _, err := env.sales.CreateSale(&CreateSaleRequest{
		Items: []SaleItemRequest{
			{Type: model.ItemProduct, ID: cola.ID, Quantity: 1},
		},
	}, "test", "Cajero"); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	stats, err := env.reports.GetDashboardStats()
	if err != nil {
		t.Fatalf("GetDashboardStats: %v", err)
	}
	if stats.TotalProducts != 2 {
		t.Errorf("total products = %d, want 2", stats.TotalProducts)
	}
	if stats.LowStockCount != 1 {
		t.Errorf("low stock count = %d, want 1", stats.LowStockCount)
	}
	if stats.SalesToday != 1 {
		t.Errorf("sales today = %d, want 1", stats.SalesToday)
	}
	if stats.IncomeToday <= 0 {
		t.Errorf("income today = %v, want > 0", stats.IncomeToday)
	}
}
