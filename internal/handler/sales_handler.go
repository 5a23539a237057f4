package handler

import (
	"strconv"
	"time"

	"go-resto-backend/internal/model"
	"go-resto-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SalesHandler struct {
	salesService   service.SalesService
	receiptService service.ReceiptService
}

func NewSalesHandler(salesService service.SalesService, receiptService service.ReceiptService) *SalesHandler {
	return &SalesHandler{
		salesService:   salesService,
		receiptService: receiptService,
	}
}

// CreateSale processes an order: validates stock, explodes recipes
// into ingredient consumption, computes totals and commits atomically
// POST /api/ventas/crear-con-explosion
func (h *SalesHandler) CreateSale(c *fiber.Ctx) error {
	var req service.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.salesService.CreateSale(&req, currentUserID(c), currentUserName(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(result)
}

// GetSale returns a sale with its items and explosion details
// GET /api/ventas/:id
func (h *SalesHandler) GetSale(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.salesService.GetSale(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sale)
}

// ListSales returns a paginated sale history, newest first
// GET /api/ventas?page=1&per_page=20&desde=2026-01-01&hasta=2026-01-31
func (h *SalesHandler) ListSales(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	perPage, _ := strconv.Atoi(c.Query("per_page", "20"))

	var from, to *time.Time
	if v := c.Query("desde"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Fecha 'desde' inválida, use YYYY-MM-DD"})
		}
		from = &parsed
	}
	if v := c.Query("hasta"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Fecha 'hasta' inválida, use YYYY-MM-DD"})
		}
		end := parsed.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}

	result, err := h.salesService.ListSales(page, perPage, from, to)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

// CancelSale voids a sale and returns product stock
// DELETE /api/ventas/:id
func (h *SalesHandler) CancelSale(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	if err := h.salesService.CancelSale(id); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Venta anulada correctamente"})
}

// GetReceipt returns the kitchen or cashier ticket for a sale,
// generating it on first request
// GET /api/ventas/:id/comanda/:tipo
func (h *SalesHandler) GetReceipt(c *fiber.Ctx) error {
	saleID, err := parseParamID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	receipt, err := h.receiptService.GetOrCreate(saleID, model.ReceiptType(c.Params("tipo")))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(receipt)
}

// MarkReceiptPrinted flags a ticket as printed
// PUT /api/ventas/comanda/:id/marcar-impresa
func (h *SalesHandler) MarkReceiptPrinted(c *fiber.Ctx) error {
	receiptID, err := parseParamID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid receipt ID"})
	}

	receipt, err := h.receiptService.MarkPrinted(receiptID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Comanda marcada como impresa",
		"data":    receipt,
	})
}
