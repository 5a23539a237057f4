package handler

import (
	"strconv"

	"go-resto-backend/internal/model"
	"go-resto-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IngredientHandler struct {
	ingredientService service.IngredientService
}

func NewIngredientHandler(ingredientService service.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService}
}

// CreateIngredient registers a new ingredient
// POST /api/ingredientes
func (h *IngredientHandler) CreateIngredient(c *fiber.Ctx) error {
	var req model.Ingredient
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.ingredientService.CreateIngredient(&req, currentUserID(c)); err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Ingrediente creado correctamente",
		"data":    req,
	})
}

// GetIngredients lists all ingredients, optionally filtered by ?q=
// GET /api/ingredientes
func (h *IngredientHandler) GetIngredients(c *fiber.Ctx) error {
	if term := c.Query("q"); term != "" {
		ingredients, err := h.ingredientService.SearchIngredients(term)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(ingredients)
	}

	ingredients, err := h.ingredientService.GetAllIngredients()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ingredients)
}

// GetIngredient returns one ingredient
// GET /api/ingredientes/:id
func (h *IngredientHandler) GetIngredient(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid ingredient ID"})
	}

	ingredient, err := h.ingredientService.GetIngredient(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ingredient)
}

// UpdateIngredient updates mutable fields. A cost change cascades to
// every recipe that uses the ingredient.
// PUT /api/ingredientes/:id
func (h *IngredientHandler) UpdateIngredient(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid ingredient ID"})
	}

	var req service.UpdateIngredientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	ingredient, err := h.ingredientService.UpdateIngredient(id, &req, currentUserID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Ingrediente actualizado correctamente",
		"data":    ingredient,
	})
}

// DeleteIngredient removes an ingredient
// DELETE /api/ingredientes/:id
func (h *IngredientHandler) DeleteIngredient(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid ingredient ID"})
	}

	if err := h.ingredientService.DeleteIngredient(id); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Ingrediente eliminado correctamente"})
}

// GetCostHistory lists recent manual cost changes, newest first
// GET /api/ingredientes/:id/historial-costos?limit=10
func (h *IngredientHandler) GetCostHistory(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid ingredient ID"})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	history, err := h.ingredientService.GetCostHistory(id, limit)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(history)
}
