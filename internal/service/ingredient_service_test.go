package service

import (
	"testing"

	"go-resto-backend/internal/model"
	"go-resto-backend/pkg/apperr"
)

func TestCreateIngredientRejectsDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreateIngredient(t, "Carne molida", "kg", 12.00, 10)

	dup := &model.Ingredient{Name: "Carne molida", Unit: "kg", UnitCost: 11.00}
	err := env.ingredients.CreateIngredient(dup, "test")
	if err == nil {
		t.Fatal("expected duplicate name error")
	}
	if apperr.StatusOf(err) != 400 {
		t.Errorf("status = %d, want 400", apperr.StatusOf(err))
	}
}

func TestManualCostEditWritesHistoryAndRecomputes(t *testing.T) {
	env := newTestEnv(t)
	beef := env.mustCreateIngredient(t, "Carne molida", "kg", 12.00, 10)
	burger := env.mustCreateRecipe(t, "Hamburguesa", 1, 8.50)
	env.mustAddIngredientLine(t, burger, beef, 0.15)

	newCost := 14.00
	updated, err := env.ingredients.UpdateIngredient(beef.ID, &UpdateIngredientRequest{UnitCost: &newCost}, "test")
	if err != nil {
		t.Fatalf("UpdateIngredient: %v", err)
	}

	if !approx(updated.UnitCost, 14.00) {
		t.Errorf("unit cost = %v, want 14.00", updated.UnitCost)
	}
	if !approx(updated.PreviousCost, 12.00) {
		t.Errorf("previous cost = %v, want 12.00", updated.PreviousCost)
	}

	history, err := env.ingredients.GetCostHistory(beef.ID, 10)
	if err != nil {
		t.Fatalf("GetCostHistory: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history entries = %d, want 1", len(history))
	}
	if !approx(history[0].OldCost, 12.00) || !approx(history[0].NewCost, 14.00) {
		t.Errorf("history = %v -> %v, want 12.00 -> 14.00", history[0].OldCost, history[0].NewCost)
	}

	// Recipe snapshot follows the new cost
	got, _ := env.recipes.GetRecipe(burger.ID)
	if !approx(got.TotalCost, 2.10) {
		t.Errorf("recipe cost = %v, want 2.10", got.TotalCost)
	}
}

func TestUpdateIngredientWithoutCostChangeSkipsHistory(t *testing.T) {
	env := newTestEnv(t)
	beef := env.mustCreateIngredient(t, "Carne molida", "kg", 12.00, 10)

	name := "Carne molida premium"
	if _, err := env.ingredients.UpdateIngredient(beef.ID, &UpdateIngredientRequest{Name: &name}, "test"); err != nil {
		t.Fatalf("UpdateIngredient: %v", err)
	}

	history, err := env.ingredients.GetCostHistory(beef.ID, 10)
	if err != nil {
		t.Fatalf("GetCostHistory: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("history entries = %d, want 0", len(history))
	}
}

func TestSearchIngredients(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreateIngredient(t, "Carne molida", "kg", 12.00, 10)
	env.mustCreateIngredient(t, "Carne de cerdo", "kg", 9.00, 5)
	env.mustCreateIngredient(t, "Lechuga", "kg", 3.00, 2)

	results, err := env.ingredients.SearchIngredients("carne")
	if err != nil {
		t.Fatalf("SearchIngredients: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("results = %d, want 2", len(results))
	}
}
