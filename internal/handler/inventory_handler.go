package handler

import (
	"go-resto-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// GetStock lists every ingredient with its current stock and costs
// GET /api/inventario
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	ingredients, err := h.inventoryService.GetAllIngredients()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": ingredients})
}

// Restock registers an ingredient purchase and recalculates its
// weighted average unit cost
// POST /api/inventario/reabastecer
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	var req service.RestockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	ingredient, err := h.inventoryService.Restock(&req, currentUserID(c), currentUserName(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Reabastecimiento registrado correctamente",
		"data":    ingredient,
	})
}

// RecordIngredientWaste registers an ingredient loss. Stock may go
// negative; the shortfall surfaces in reports.
// POST /api/inventario/mermas
func (h *InventoryHandler) RecordIngredientWaste(c *fiber.Ctx) error {
	var req service.IngredientWasteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	ingredient, err := h.inventoryService.RecordIngredientWaste(&req, currentUserID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Merma registrada correctamente",
		"data":    ingredient,
	})
}

// RecordProductWaste registers a product loss, bounded by stock
// POST /api/mermas
func (h *InventoryHandler) RecordProductWaste(c *fiber.Ctx) error {
	var req service.ProductWasteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.inventoryService.RecordProductWaste(&req, currentUserID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Merma registrada correctamente",
		"data":    product,
	})
}
