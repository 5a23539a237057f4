package service

import (
	"math"
	"strings"
	"testing"

	"go-resto-backend/internal/model"
	"go-resto-backend/pkg/apperr"

	"github.com/google/uuid"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCreateSaleWithRecipeExplosion(t *testing.T) {
	env := newTestEnv(t)

	beef := env.mustCreateIngredient(t, "Carne molida", "kg", 12.00, 10)
	burger := env.mustCreateRecipe(t, "Hamburguesa Clásica", 1, 8.50)
	env.mustAddIngredientLine(t, burger, beef, 0.15)

	result, err := env.sales.CreateSale(&CreateSaleRequest{
		Items: []SaleItemRequest{
			{Type: model.ItemRecipe, ID: burger.ID, Quantity: 2},
		},
		TableNumber: "5",
	}, "test", "Cajero Uno")
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	if !approx(result.Subtotal, 17.00) {
		t.Errorf("subtotal = %v, want 17.00", result.Subtotal)
	}
	if !approx(result.Tax, 3.23) {
		t.Errorf("tax = %v, want 3.23", result.Tax)
	}
	if !approx(result.Tip, 1.70) {
		t.Errorf("tip = %v, want 1.70", result.Tip)
	}
	if !approx(result.Total, 21.93) {
		t.Errorf("total = %v, want 21.93", result.Total)
	}

	entry, ok := result.Explosion[beef.ID.String()]
	if !ok {
		t.Fatalf("explosion missing ingredient %s", beef.ID)
	}
	if !approx(entry.QtyPerRecipe, 0.15) {
		t.Errorf("qty per recipe = %v, want 0.15", entry.QtyPerRecipe)
	}
	if !approx(entry.QtyTotal, 0.30) {
		t.Errorf("qty total = %v, want 0.30", entry.QtyTotal)
	}
	if !approx(entry.TotalCost, 3.60) {
		t.Errorf("explosion cost = %v, want 3.60", entry.TotalCost)
	}

	if result.KitchenReceiptID == uuid.Nil || result.CashierReceiptID == uuid.Nil {
		t.Error("expected both receipts to be generated")
	}

	sale, err := env.sales.GetSale(result.SaleID)
	if err != nil {
		t.Fatalf("GetSale: %v", err)
	}
	if len(sale.Items) != 1 {
		t.Fatalf("persisted items = %d, want 1", len(sale.Items))
	}
	if !sale.Items[0].IsRecipe {
		t.Error("sale item should be flagged as recipe")
	}
	persisted := sale.Items[0].Explosion()
	if !approx(persisted[beef.ID.String()].QtyTotal, 0.30) {
		t.Errorf("persisted explosion qty = %v, want 0.30", persisted[beef.ID.String()].QtyTotal)
	}
}

func TestCreateSaleWithDiscount(t *testing.T) {
	env := newTestEnv(t)

	beef := env.mustCreateIngredient(t, "Carne molida", "kg", 12.00, 10)
	burger := env.mustCreateRecipe(t, "Hamburguesa", 1, 8.50)
	env.mustAddIngredientLine(t, burger, beef, 0.15)

	result, err := env.sales.CreateSale(&CreateSaleRequest{
		Items: []SaleItemRequest{
			{Type: model.ItemRecipe, ID: burger.ID, Quantity: 1},
		},
		DiscountPct: 10,
	}, "test", "Cajero")
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	if !approx(result.Discount, 0.85) {
		t.Errorf("discount = %v, want 0.85", result.Discount)
	}
	if !approx(result.Tax, 1.45) {
		t.Errorf("tax = %v, want 1.45", result.Tax)
	}
	if !approx(result.Tip, 0.77) {
		t.Errorf("tip = %v, want 0.77", result.Tip)
	}
	if !approx(result.Total, 9.87) {
		t.Errorf("total = %v, want 9.87", result.Total)
	}
}

func TestCreateSaleDecrementsProductStock(t *testing.T) {
	env := newTestEnv(t)
	cola := env.mustCreateProduct(t, "Coca-Cola", 2.50, 5)

	_, err := env.sales.CreateSale(&CreateSaleRequest{
		Items: []SaleItemRequest{
			{Type: model.ItemProduct, ID: cola.ID, Quantity: 3},
		},
	}, "test", "Cajero")
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	after, err := env.products.GetProduct(cola.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if after.Stock != 2 {
		t.Errorf("stock = %d, want 2", after.Stock)
	}
}

func TestCreateSaleRepeatedProductValidatesAggregate(t *testing.T) {
	env := newTestEnv(t)
	cola := env.mustCreateProduct(t, "Coca-Cola", 2.50, 5)

	// Each line fits individually but together they exceed stock
	_, err := env.sales.CreateSale(&CreateSaleRequest{
		Items: []SaleItemRequest{
			{Type: model.ItemProduct, ID: cola.ID, Quantity: 3},
			{Type: model.ItemProduct, ID: cola.ID, Quantity: 3},
		},
	}, "test", "Cajero")
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	if apperr.StatusOf(err) != 400 {
		t.Errorf("status = %d, want 400", apperr.StatusOf(err))
	}

	// Nothing committed
	after, _ := env.products.GetProduct(cola.ID)
	if after.Stock != 5 {
		t.Errorf("stock = %d after rollback, want 5", after.Stock)
	}
	page, err := env.sales.ListSales(1, 10, nil, nil)
	if err != nil {
		t.Fatalf("ListSales: %v", err)
	}
	if page.Total != 0 {
		t.Errorf("sales recorded = %d, want 0", page.Total)
	}
}

func TestCreateSaleRejectsEmptyOrder(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.sales.CreateSale(&CreateSaleRequest{}, "test", "Cajero")
	if err == nil {
		t.Fatal("expected validation error for empty order")
	}
	if apperr.StatusOf(err) != 400 {
		t.Errorf("status = %d, want 400", apperr.StatusOf(err))
	}
}

func TestCreateSaleRejectsInvalidDiscount(t *testing.T) {
	env := newTestEnv(t)
	cola := env.mustCreateProduct(t, "Coca-Cola", 2.50, 5)

	for _, discount := range []float64{-1, 101} {
		_, err := env.sales.CreateSale(&CreateSaleRequest{
			Items: []SaleItemRequest{
				{Type: model.ItemProduct, ID: cola.ID, Quantity: 1},
			},
			DiscountPct: discount,
		}, "test", "Cajero")
		if err == nil {
			t.Errorf("discount %v: expected validation error", discount)
		}
	}
}

func TestCreateSaleRejectsUnknownItemType(t *testing.T) {
	env := newTestEnv(t)
	cola := env.mustCreateProduct(t, "Coca-Cola", 2.50, 5)

	_, err := env.sales.CreateSale(&CreateSaleRequest{
		Items: []SaleItemRequest{
			{Type: "combo", ID: cola.ID, Quantity: 1},
		},
	}, "test", "Cajero")
	if err == nil {
		t.Fatal("expected validation error for unknown item type")
	}
}

func TestCreateSaleCustomUnitPriceOverridesCatalog(t *testing.T) {
	env := newTestEnv(t)
	cola := env.mustCreateProduct(t, "Coca-Cola", 2.50, 5)

	override := 2.00
	result, err := env.sales.CreateSale(&CreateSaleRequest{
		Items: []SaleItemRequest{
			{Type: model.ItemProduct, ID: cola.ID, Quantity: 2, UnitPrice: &override},
		},
	}, "test", "Cajero")
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if !approx(result.Subtotal, 4.00) {
		t.Errorf("subtotal = %v, want 4.00", result.Subtotal)
	}
}

func TestCreateSaleWithSubRecipe(t *testing.T) {
	env := newTestEnv(t)

	tomato := env.mustCreateIngredient(t, "Tomate", "kg", 4.00, 5)
	sauce := env.mustCreateRecipe(t, "Salsa de la casa", 1, 0)
	env.mustAddIngredientLine(t, sauce, tomato, 0.2)

	beef := env.mustCreateIngredient(t, "Carne molida", "kg", 12.00, 10)
	burger := env.mustCreateRecipe(t, "Hamburguesa", 1, 9.00)
	env.mustAddIngredientLine(t, burger, beef, 0.15)
	if _, err := env.recipes.AddItem(burger.ID, &RecipeItemRequest{SubRecipeID: &sauce.ID, Quantity: 0.5}); err != nil {
		t.Fatalf("add sub-recipe line: %v", err)
	}

	result, err := env.sales.CreateSale(&CreateSaleRequest{
		Items: []SaleItemRequest{
			{Type: model.ItemRecipe, ID: burger.ID, Quantity: 2},
		},
	}, "test", "Cajero")
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	// Sub-recipe quantities scale by its line quantity times the order
	// quantity: 0.2 * 0.5 * 2 = 0.2
	entry, ok := result.Explosion[tomato.ID.String()]
	if !ok {
		t.Fatal("explosion missing sub-recipe ingredient")
	}
	if !approx(entry.QtyTotal, 0.2) {
		t.Errorf("sub-recipe qty total = %v, want 0.2", entry.QtyTotal)
	}
	if _, ok := result.Explosion[beef.ID.String()]; !ok {
		t.Error("explosion missing direct ingredient")
	}
}

func TestCreateSaleExplodesNestedSubRecipes(t *testing.T) {
	env := newTestEnv(t)

	// Three levels: burger -> sauce -> base
	oil := env.mustCreateIngredient(t, "Aceite de oliva", "l", 6.00, 3)
	base := env.mustCreateRecipe(t, "Base de salsa", 1, 0)
	env.mustAddIngredientLine(t, base, oil, 0.1)

	tomato := env.mustCreateIngredient(t, "Tomate", "kg", 4.00, 5)
	sauce := env.mustCreateRecipe(t, "Salsa de la casa", 1, 0)
	env.mustAddIngredientLine(t, sauce, tomato, 0.2)
	if _, err := env.recipes.AddItem(sauce.ID, &RecipeItemRequest{SubRecipeID: &base.ID, Quantity: 0.5}); err != nil {
		t.Fatalf("add base line: %v", err)
	}

	beef := env.mustCreateIngredient(t, "Carne molida", "kg", 12.00, 10)
	burger := env.mustCreateRecipe(t, "Hamburguesa", 1, 9.00)
	env.mustAddIngredientLine(t, burger, beef, 0.15)
	if _, err := env.recipes.AddItem(burger.ID, &RecipeItemRequest{SubRecipeID: &sauce.ID, Quantity: 0.5}); err != nil {
		t.Fatalf("add sauce line: %v", err)
	}

	result, err := env.sales.CreateSale(&CreateSaleRequest{
		Items: []SaleItemRequest{
			{Type: model.ItemRecipe, ID: burger.ID, Quantity: 2},
		},
	}, "test", "Cajero")
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	// The depth-2 ingredient scales through both sub-recipe lines:
	// 0.1 * 0.5 * 0.5 * 2 = 0.05
	entry, ok := result.Explosion[oil.ID.String()]
	if !ok {
		t.Fatal("explosion missing the nested sub-recipe ingredient")
	}
	if !approx(entry.QtyTotal, 0.05) {
		t.Errorf("nested qty total = %v, want 0.05", entry.QtyTotal)
	}
	if _, ok := result.Explosion[tomato.ID.String()]; !ok {
		t.Error("explosion missing depth-1 ingredient")
	}
	if _, ok := result.Explosion[beef.ID.String()]; !ok {
		t.Error("explosion missing direct ingredient")
	}

	// The kitchen ticket carries the full breakdown
	kitchen, err := env.receipts.GetOrCreate(result.SaleID, model.ReceiptKitchen)
	if err != nil {
		t.Fatalf("GetOrCreate kitchen: %v", err)
	}
	if !strings.Contains(kitchen.Text, "Aceite de oliva") {
		t.Error("kitchen ticket missing the nested ingredient")
	}
}

func TestCancelSaleRemovesReceipts(t *testing.T) {
	env := newTestEnv(t)
	cola := env.mustCreateProduct(t, "Coca-Cola", 2.50, 5)

	result, err := env.sales.CreateSale(&CreateSaleRequest{
		Items: []SaleItemRequest{
			{Type: model.ItemProduct, ID: cola.ID, Quantity: 1},
		},
	}, "test", "Cajero")
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	var count int64
	env.db.Model(&model.Receipt{}).Where("sale_id = ?", result.SaleID).Count(&count)
	if count != 2 {
		t.Fatalf("receipts before cancel = %d, want 2", count)
	}

	if err := env.sales.CancelSale(result.SaleID); err != nil {
		t.Fatalf("CancelSale: %v", err)
	}

	env.db.Model(&model.Receipt{}).Where("sale_id = ?", result.SaleID).Count(&count)
	if count != 0 {
		t.Errorf("receipts after cancel = %d, want 0", count)
	}
}

func TestCancelSaleRestoresProductStock(t *testing.T) {
	env := newTestEnv(t)
	cola := env.mustCreateProduct(t, "Coca-Cola", 2.50, 5)

	result, err := env.sales.CreateSale(&CreateSaleRequest{
		Items: []SaleItemRequest{
			{Type: model.ItemProduct, ID: cola.ID, Quantity: 3},
		},
	}, "test", "Cajero")
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	if err := env.sales.CancelSale(result.SaleID); err != nil {
		t.Fatalf("CancelSale: %v", err)
	}

	after, _ := env.products.GetProduct(cola.ID)
	if after.Stock != 5 {
		t.Errorf("stock = %d after cancel, want 5", after.Stock)
	}

	if _, err := env.sales.GetSale(result.SaleID); err == nil {
		t.Error("expected cancelled sale to be gone")
	}
}

func TestCancelSaleUnknown(t *testing.T) {
	env := newTestEnv(t)
	if err := env.sales.CancelSale(uuid.New()); err == nil {
		t.Fatal("expected not found error")
	}
}

func TestListSalesPagination(t *testing.T) {
	env := newTestEnv(t)
	cola := env.mustCreateProduct(t, "Coca-Cola", 2.50, 100)

	for i := 0; i < 5; i++ {
		_, err := env.sales.CreateSale(&CreateSaleRequest{
			Items: []SaleItemRequest{
				{Type: model.ItemProduct, ID: cola.ID, Quantity: 1},
			},
		}, "test", "Cajero")
		if err != nil {
			t.Fatalf("CreateSale %d: %v", i, err)
		}
	}

	page, err := env.sales.ListSales(1, 2, nil, nil)
	if err != nil {
		t.Fatalf("ListSales: %v", err)
	}
	if page.Total != 5 {
		t.Errorf("total = %d, want 5", page.Total)
	}
	if len(page.Sales) != 2 {
		t.Errorf("page size = %d, want 2", len(page.Sales))
	}
	if page.TotalPages != 3 {
		t.Errorf("total pages = %d, want 3", page.TotalPages)
	}
}
