package handler

import (
	"go-resto-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProduct registers a catalog product
// POST /api/productos
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.productService.CreateProduct(&req, currentUserID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Producto creado correctamente",
		"data":    product,
	})
}

// GetProducts lists the catalog
// GET /api/productos
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.productService.GetAllProducts()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

// GetProduct returns one product
// GET /api/productos/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.productService.GetProduct(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

// UpdateProduct updates a product
// PUT /api/productos/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.productService.UpdateProduct(id, &req, currentUserID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Producto actualizado correctamente",
		"data":    product,
	})
}

// DeleteProduct removes a product
// DELETE /api/productos/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.productService.DeleteProduct(id); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Producto eliminado correctamente"})
}
