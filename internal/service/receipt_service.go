package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go-resto-backend/internal/model"
	"go-resto-backend/internal/repository"
	"go-resto-backend/pkg/apperr"

	"github.com/google/uuid"
)

type ReceiptService interface {
	GetOrCreate(saleID uuid.UUID, receiptType model.ReceiptType) (*model.Receipt, error)
	MarkPrinted(receiptID uuid.UUID) (*model.Receipt, error)
}

type receiptService struct {
	receiptRepo repository.ReceiptRepository
	saleRepo    repository.SaleRepository
}

func NewReceiptService(rRepo repository.ReceiptRepository, sRepo repository.SaleRepository) ReceiptService {
	return &receiptService{
		receiptRepo: rRepo,
		saleRepo:    sRepo,
	}
}

// GetOrCreate returns the existing receipt for (sale, type) or renders
// and persists a new one. Repeat calls never regenerate.
func (s *receiptService) GetOrCreate(saleID uuid.UUID, receiptType model.ReceiptType) (*model.Receipt, error) {
	if receiptType != model.ReceiptKitchen && receiptType != model.ReceiptCashier {
		return nil, apperr.Validation(fmt.Sprintf("Tipo de comanda desconocido: %s", receiptType))
	}

	if existing, err := s.receiptRepo.FindBySaleAndType(saleID, receiptType); err == nil {
		return existing, nil
	}

	sale, err := s.saleRepo.FindByID(saleID)
	if err != nil {
		return nil, apperr.NotFound("Venta no encontrada")
	}

	var html, text string
	if receiptType == model.ReceiptKitchen {
		html, text = renderKitchen(sale)
	} else {
		html, text = renderCashier(sale)
	}

	receipt := &model.Receipt{
		SaleID: saleID,
		Type:   receiptType,
		HTML:   html,
		Text:   text,
	}
	if err := s.receiptRepo.Create(receipt); err != nil {
		// A concurrent call may have created it first; the unique
		// (sale, type) index makes the lookup authoritative
		if existing, ferr := s.receiptRepo.FindBySaleAndType(saleID, receiptType); ferr == nil {
			return existing, nil
		}
		return nil, err
	}
	return receipt, nil
}

// MarkPrinted flags a receipt as printed. Calling it again just
// refreshes the timestamp.
func (s *receiptService) MarkPrinted(receiptID uuid.UUID) (*model.Receipt, error) {
	receipt, err := s.receiptRepo.FindByID(receiptID)
	if err != nil {
		return nil, apperr.NotFound("Comanda no encontrada")
	}

	now := time.Now()
	receipt.Printed = true
	receipt.PrintedAt = &now
	if err := s.receiptRepo.Update(receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// sortedExplosion returns a sale item's explosion entries in a stable
// order for rendering
func sortedExplosion(item *model.SaleItem) []model.ExplosionEntry {
	explosion := item.Explosion()
	entries := make([]model.ExplosionEntry, 0, len(explosion))
	for _, e := range explosion {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].IngredientName < entries[j].IngredientName
	})
	return entries
}

// renderKitchen builds the kitchen ticket: one block per line, with
// the exploded ingredient list under each recipe line
func renderKitchen(sale *model.Sale) (string, string) {
	var html, text strings.Builder

	html.WriteString(`<div style="font-family: monospace; max-width: 400px; padding: 10px;">`)
	html.WriteString(`<h2 style="text-align: center; margin: 5px 0;">COMANDA COCINA</h2><hr>`)
	fmt.Fprintf(&html, "<p><strong>Orden:</strong> #%s</p>", sale.ID)
	fmt.Fprintf(&html, "<p><strong>Hora:</strong> %s</p>", sale.CreatedAt.Format("15:04:05"))
	fmt.Fprintf(&html, "<p><strong>Mesa:</strong> %s</p><hr>", orNA(sale.TableNumber))
	html.WriteString(`<h3 style="margin: 10px 0; border-bottom: 2px solid black;">PRODUCTOS</h3>`)

	text.WriteString("========== COMANDA COCINA ==========\n")
	fmt.Fprintf(&text, "Orden: #%s\n", sale.ID)
	fmt.Fprintf(&text, "Hora: %s\n", sale.CreatedAt.Format("15:04:05"))
	fmt.Fprintf(&text, "Mesa: %s\n", orNA(sale.TableNumber))
	text.WriteString("====================================\n")

	for i := range sale.Items {
		item := &sale.Items[i]
		if item.IsRecipe {
			fmt.Fprintf(&html, `<div style="margin: 10px 0; padding: 8px; border: 1px solid #ccc;"><strong>%s</strong> <span style="color: red; font-weight: bold;">x%d</span>`, item.Name(), item.Quantity)
			fmt.Fprintf(&text, "\n%s x%d\n", item.Name(), item.Quantity)

			for _, e := range sortedExplosion(item) {
				fmt.Fprintf(&html, "<br><small>- %.3f%s de %s</small>", e.QtyTotal, e.Unit, e.IngredientName)
				fmt.Fprintf(&text, "   -> %.3f%s %s\n", e.QtyTotal, e.Unit, e.IngredientName)
			}

			if item.Note != "" {
				fmt.Fprintf(&html, "<br><em style='color: red;'>NOTA: %s</em>", item.Note)
				fmt.Fprintf(&text, "   NOTA: %s\n", item.Note)
			}
			html.WriteString("</div>")
		} else {
			fmt.Fprintf(&html, `<div style="margin: 8px 0; padding: 5px; border-bottom: 1px dotted #ccc;"><strong>%s</strong> x%d`, item.Name(), item.Quantity)
			fmt.Fprintf(&text, "\n%s x%d\n", item.Name(), item.Quantity)

			if item.Note != "" {
				fmt.Fprintf(&html, "<br><small style='color: red;'>%s</small>", item.Note)
				fmt.Fprintf(&text, "   %s\n", item.Note)
			}
			html.WriteString("</div>")
		}
	}

	html.WriteString(`<hr><p style="text-align: center;">Marque cuando esté listo</p></div>`)
	text.WriteString("====================================\n")
	text.WriteString("     Marque cuando esté listo\n")
	text.WriteString("====================================\n")

	return html.String(), text.String()
}

// renderCashier builds the customer receipt with the totals block
func renderCashier(sale *model.Sale) (string, string) {
	var html, text strings.Builder

	html.WriteString(`<div style="font-family: monospace; max-width: 400px; padding: 15px;">`)
	html.WriteString(`<h2 style="text-align: center; margin: 5px 0;">RECIBO DE VENTA</h2><hr>`)
	fmt.Fprintf(&html, "<p><strong>Recibo #:</strong> %s</p>", sale.ID)
	fmt.Fprintf(&html, "<p><strong>Fecha:</strong> %s</p>", sale.CreatedAt.Format("02/01/2006"))
	fmt.Fprintf(&html, "<p><strong>Hora:</strong> %s</p>", sale.CreatedAt.Format("15:04:05"))
	fmt.Fprintf(&html, "<p><strong>Cajero:</strong> %s</p>", orNA(sale.OperatorName))

	text.WriteString("========= RECIBO DE VENTA ==========\n")
	fmt.Fprintf(&text, "Recibo #: %s\n", sale.ID)
	fmt.Fprintf(&text, "Fecha: %s\n", sale.CreatedAt.Format("02/01/2006"))
	fmt.Fprintf(&text, "Hora: %s\n", sale.CreatedAt.Format("15:04:05"))
	fmt.Fprintf(&text, "Cajero: %s\n", orNA(sale.OperatorName))

	if sale.CustomerName != "" {
		fmt.Fprintf(&html, "<p><strong>Cliente:</strong> %s</p>", sale.CustomerName)
		fmt.Fprintf(&text, "Cliente: %s\n", sale.CustomerName)
	}
	if sale.TableNumber != "" {
		fmt.Fprintf(&html, "<p><strong>Mesa:</strong> %s</p>", sale.TableNumber)
		fmt.Fprintf(&text, "Mesa: %s\n", sale.TableNumber)
	}

	html.WriteString("<hr><h4>DETALLES</h4>")
	text.WriteString("====================================\n")

	for i := range sale.Items {
		item := &sale.Items[i]
		fmt.Fprintf(&html, `<div style="display: flex; justify-content: space-between;"><span>%s x%d</span><strong>$%.2f</strong></div>`, item.Name(), item.Quantity, item.LineSubtotal)
		fmt.Fprintf(&text, "%-26s $%8.2f\n", fmt.Sprintf("%s x%d", item.Name(), item.Quantity), item.LineSubtotal)
	}

	html.WriteString("<hr>")
	text.WriteString("------------------------------------\n")

	fmt.Fprintf(&html, `<div style="display: flex; justify-content: space-between;"><span>Subtotal:</span><strong>$%.2f</strong></div>`, sale.Subtotal)
	fmt.Fprintf(&text, "%-26s $%8.2f\n", "SUBTOTAL:", sale.Subtotal)

	if sale.DiscountAmount > 0 {
		fmt.Fprintf(&html, `<div style="display: flex; justify-content: space-between; color: green;"><span>Descuento:</span><strong>-$%.2f</strong></div>`, sale.DiscountAmount)
		fmt.Fprintf(&text, "%-26s -$%7.2f\n", "DESCUENTO:", sale.DiscountAmount)
	}

	fmt.Fprintf(&html, `<div style="display: flex; justify-content: space-between;"><span>IVA (19%%):</span><strong>$%.2f</strong></div>`, sale.Tax)
	fmt.Fprintf(&text, "%-26s $%8.2f\n", "IVA (19%):", sale.Tax)
	fmt.Fprintf(&html, `<div style="display: flex; justify-content: space-between;"><span>Propina (10%%):</span><strong>$%.2f</strong></div>`, sale.Tip)
	fmt.Fprintf(&text, "%-26s $%8.2f\n", "PROPINA (10%):", sale.Tip)

	fmt.Fprintf(&html, `<hr><div style="display: flex; justify-content: space-between; font-size: 1.3em; font-weight: bold;"><span>TOTAL:</span><span>$%.2f</span></div>`, sale.Total)
	text.WriteString("====================================\n")
	fmt.Fprintf(&text, "%-26s $%8.2f\n", "TOTAL:", sale.Total)
	text.WriteString("====================================\n")

	html.WriteString(`<hr><div style="text-align: center;"><p>¡Gracias por su compra!</p><p>Vuelva pronto</p></div></div>`)
	text.WriteString("      ¡Gracias por su compra!\n")
	text.WriteString("          Vuelva pronto\n")

	return html.String(), text.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
