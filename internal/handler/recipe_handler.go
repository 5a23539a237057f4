package handler

import (
	"go-resto-backend/internal/costing"
	"go-resto-backend/internal/model"
	"go-resto-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type RecipeHandler struct {
	recipeService service.RecipeService
}

func NewRecipeHandler(recipeService service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// CreateRecipe registers a new recipe header
// POST /api/recetas
func (h *RecipeHandler) CreateRecipe(c *fiber.Ctx) error {
	var req model.Recipe
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.recipeService.CreateRecipe(&req, currentUserID(c)); err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Receta creada correctamente",
		"data":    req,
	})
}

// GetRecipes lists every recipe with its lines and computed costs
// GET /api/recetas
func (h *RecipeHandler) GetRecipes(c *fiber.Ctx) error {
	recipes, err := h.recipeService.GetAllRecipes()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(recipes)
}

// GetRecipe returns one recipe with lines and costing totals
// GET /api/recetas/:id
func (h *RecipeHandler) GetRecipe(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid recipe ID"})
	}

	recipe, err := h.recipeService.GetRecipe(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(recipe)
}

// UpdateRecipe changes header fields and recomputes costing
// PUT /api/recetas/:id
func (h *RecipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid recipe ID"})
	}

	var req service.UpdateRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	recipe, err := h.recipeService.UpdateRecipe(id, &req, currentUserID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Receta actualizada correctamente",
		"data":    recipe,
	})
}

// DeleteRecipe removes a recipe not referenced as a sub-recipe
// DELETE /api/recetas/:id
func (h *RecipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid recipe ID"})
	}

	if err := h.recipeService.DeleteRecipe(id); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Receta eliminada correctamente"})
}

// AddItem appends an ingredient or sub-recipe line
// POST /api/recetas/:id/items
func (h *RecipeHandler) AddItem(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid recipe ID"})
	}

	var req service.RecipeItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	recipe, err := h.recipeService.AddItem(id, &req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Item agregado correctamente",
		"data":    recipe,
	})
}

// UpdateItem changes a line's quantity
// PUT /api/recetas/items/:itemId
func (h *RecipeHandler) UpdateItem(c *fiber.Ctx) error {
	itemID, err := parseParamID(c, "itemId")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var req struct {
		Quantity float64 `json:"cantidad"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	recipe, err := h.recipeService.UpdateItem(itemID, req.Quantity)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Item actualizado correctamente",
		"data":    recipe,
	})
}

// RemoveItem deletes a line
// DELETE /api/recetas/items/:itemId
func (h *RecipeHandler) RemoveItem(c *fiber.Ctx) error {
	itemID, err := parseParamID(c, "itemId")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	recipe, err := h.recipeService.RemoveItem(itemID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Item eliminado correctamente",
		"data":    recipe,
	})
}

// SuggestPrice computes a sale price for a unit cost at a desired
// margin. An omitted margin falls back to the house default.
// POST /api/recetas/sugerir-precio
func (h *RecipeHandler) SuggestPrice(c *fiber.Ctx) error {
	var req struct {
		UnitCost  float64  `json:"costo_unitario"`
		MarginPct *float64 `json:"margen_deseado"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	marginPct := costing.DefaultMarginPct
	if req.MarginPct != nil {
		marginPct = *req.MarginPct
	}

	price := h.recipeService.SuggestPrice(req.UnitCost, marginPct)
	return c.JSON(fiber.Map{
		"costo_unitario":  req.UnitCost,
		"margen_deseado":  marginPct,
		"precio_sugerido": price,
	})
}
