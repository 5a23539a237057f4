package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-resto-backend/internal/model"
	"go-resto-backend/internal/repository"
	"go-resto-backend/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// handlerEnv mounts the catalog and inventory routes on a throwaway
// app backed by an in-memory database
type handlerEnv struct {
	app         *fiber.App
	ingredients service.IngredientService
	products    service.ProductService
}

func newHandlerEnv(t *testing.T) *handlerEnv {
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
		&model.Ingredient{}, &model.CostHistory{},
		&model.Recipe{}, &model.RecipeItem{},
		&model.Product{},
		&model.RestockEvent{}, &model.WasteEvent{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	ingredientRepo := repository.NewIngredientRepo(db)
	recipeRepo := repository.NewRecipeRepo(db)
	productRepo := repository.NewProductRepo(db)

	recipes := service.NewRecipeService(recipeRepo, ingredientRepo, db)
	ingredients := service.NewIngredientService(ingredientRepo, recipes, db)
	products := service.NewProductService(productRepo)
	inventory := service.NewInventoryService(ingredientRepo, productRepo, recipes, db, nil)

	recipeHandler := NewRecipeHandler(recipes)
	inventoryHandler := NewInventoryHandler(inventory)

	app := fiber.New()
	api := app.Group("/api")
	api.Post("/recetas/sugerir-precio", recipeHandler.SuggestPrice)
	api.Get("/inventario", inventoryHandler.GetStock)
	api.Post("/inventario/reabastecer", inventoryHandler.Restock)
	api.Post("/inventario/mermas", inventoryHandler.RecordIngredientWaste)
	api.Post("/mermas", inventoryHandler.RecordProductWaste)

	return &handlerEnv{app: app, ingredients: ingredients, products: products}
}

// postJSON sends a request through the app and decodes the JSON reply
func (e *handlerEnv) postJSON(t *testing.T, path string, body map[string]interface{}) (int, map[string]interface{}) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.app.Test(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, decoded
}
