package service

import (
	"fmt"
	"strings"
	"testing"

	"go-resto-backend/internal/model"
	"go-resto-backend/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{}, &model.Privilege{}, &model.Role{},
		&model.Ingredient{}, &model.CostHistory{},
		&model.Recipe{}, &model.RecipeItem{},
		&model.Product{},
		&model.RestockEvent{}, &model.WasteEvent{},
		&model.Sale{}, &model.SaleItem{},
		&model.Receipt{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// testEnv wires the full service graph over one test database
type testEnv struct {
	db *gorm.DB

	ingredients IngredientService
	recipes     RecipeService
	products    ProductService
	inventory   InventoryService
	sales       SalesService
	receipts    ReceiptService
	reports     ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	ingredientRepo := repository.NewIngredientRepo(db)
	recipeRepo := repository.NewRecipeRepo(db)
	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	receiptRepo := repository.NewReceiptRepo(db)

	recipes := NewRecipeService(recipeRepo, ingredientRepo, db)
	receipts := NewReceiptService(receiptRepo, saleRepo)

	return &testEnv{
		db:          db,
		ingredients: NewIngredientService(ingredientRepo, recipes, db),
		recipes:     recipes,
		products:    NewProductService(productRepo),
		inventory:   NewInventoryService(ingredientRepo, productRepo, recipes, db, nil),
		sales:       NewSalesService(saleRepo, productRepo, recipeRepo, receipts, db, nil),
		receipts:    receipts,
		reports:     NewReportService(saleRepo, recipeRepo),
	}
}

func money(v float64) *float64 { return &v }

// seedRoles loads the default privileges and roles with the same
// per-role privilege sets the server assigns at startup.
func seedRoles(t *testing.T, db *gorm.DB) {
	t.Helper()

	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	if err := privilegeRepo.SeedDefaults(); err != nil {
		t.Fatalf("seed privileges: %v", err)
	}
	if err := roleRepo.SeedDefaults(); err != nil {
		t.Fatalf("seed roles: %v", err)
	}

	allPrivileges, err := privilegeRepo.FindAll()
	if err != nil {
		t.Fatalf("load privileges: %v", err)
	}

	cashierCodes := map[string]bool{
		"venta:view": true, "venta:create": true, "comanda:print": true,
		"producto:view": true, "receta:view": true, "dashboard:view": true,
	}

	assign := func(code string, keep func(model.Privilege) bool) {
		role, err := roleRepo.FindByCode(code)
		if err != nil {
			t.Fatalf("find role %s: %v", code, err)
		}
		selected := []model.Privilege{}
		for _, p := range allPrivileges {
			if keep(p) {
				selected = append(selected, p)
			}
		}
		if err := db.Model(role).Association("Privileges").Replace(selected); err != nil {
			t.Fatalf("assign privileges to %s: %v", code, err)
		}
	}

	assign(model.RoleAdmin, func(model.Privilege) bool { return true })
	assign(model.RoleManager, func(p model.Privilege) bool {
		return p.Code != "user:create" && p.Code != "user:update" && p.Code != "user:delete"
	})
	assign(model.RoleCashier, func(p model.Privilege) bool { return cashierCodes[p.Code] })
}

func (e *testEnv) mustCreateIngredient(t *testing.T, name, unit string, cost, stock float64) *model.Ingredient {
	t.Helper()
	ing := &model.Ingredient{Name: name, Unit: unit, UnitCost: cost, Stock: stock}
	if err := e.ingredients.CreateIngredient(ing, "test"); err != nil {
		t.Fatalf("create ingredient %s: %v", name, err)
	}
	return ing
}

func (e *testEnv) mustCreateRecipe(t *testing.T, name string, yield int, price float64) *model.Recipe {
	t.Helper()
	rec := &model.Recipe{Name: name, PortionYield: yield, SalePrice: price}
	if err := e.recipes.CreateRecipe(rec, "test"); err != nil {
		t.Fatalf("create recipe %s: %v", name, err)
	}
	return rec
}

func (e *testEnv) mustAddIngredientLine(t *testing.T, recipe *model.Recipe, ing *model.Ingredient, qty float64) {
	t.Helper()
	if _, err := e.recipes.AddItem(recipe.ID, &RecipeItemRequest{IngredientID: &ing.ID, Quantity: qty}); err != nil {
		t.Fatalf("add line to %s: %v", recipe.Name, err)
	}
}

func (e *testEnv) mustCreateProduct(t *testing.T, name string, price float64, stock int) *model.Product {
	t.Helper()
	product, err := e.products.CreateProduct(&ProductRequest{Name: name, Price: price, Stock: &stock}, "test")
	if err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return product
}
