package service

import (
	"encoding/json"
	"fmt"
	"time"

	"go-resto-backend/internal/costing"
	"go-resto-backend/internal/model"
	"go-resto-backend/internal/repository"
	"go-resto-backend/internal/ws"
	"go-resto-backend/pkg/apperr"
	"go-resto-backend/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Fixed fiscal policy: 19% value-added tax and 10% service charge,
// applied to the discounted subtotal. Not configurable per order.
const (
	TaxRate = 0.19
	TipRate = 0.10
)

type SalesService interface {
	CreateSale(req *CreateSaleRequest, userID, userName string) (*SaleResult, error)
	GetSale(id uuid.UUID) (*model.Sale, error)
	ListSales(page, perPage int, from, to *time.Time) (*SalePage, error)
	CancelSale(id uuid.UUID) error
}

type CreateSaleRequest struct {
	Items        []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	CustomerName string            `json:"cliente_nombre"`
	TableNumber  string            `json:"numero_mesa"`
	DiscountPct  float64           `json:"descuento"`
	Comments     string            `json:"comentarios"`
}

// SaleItemRequest is one cart line. Tipo selects the variant; the
// oneof tag plus the switch below rejects anything else before any
// state is touched.
type SaleItemRequest struct {
	Type      model.ItemType `json:"tipo" validate:"required,oneof=producto receta"`
	ID        uuid.UUID      `json:"id" validate:"uuid_required"`
	Quantity  int            `json:"cantidad" validate:"required,gt=0"`
	UnitPrice *float64       `json:"precio_unitario" validate:"omitempty,gte=0"`
	Note      string         `json:"observaciones"`
}

// SaleResult summarizes a committed sale, including the order-wide
// ingredient explosion and the two generated receipt ids
type SaleResult struct {
	SaleID           uuid.UUID                       `json:"venta_id"`
	Customer         string                          `json:"cliente"`
	Table            string                          `json:"mesa"`
	Subtotal         float64                         `json:"subtotal"`
	Discount         float64                         `json:"descuento"`
	Tax              float64                         `json:"iva"`
	Tip              float64                         `json:"propina"`
	Total            float64                         `json:"total"`
	ItemCount        int                             `json:"items"`
	Explosion        map[string]model.ExplosionEntry `json:"explosion_detalles"`
	KitchenReceiptID uuid.UUID                       `json:"comanda_cocina_id"`
	CashierReceiptID uuid.UUID                       `json:"comanda_caja_id"`
}

type SalePage struct {
	Page       int          `json:"pagina"`
	PerPage    int          `json:"por_pagina"`
	Total      int64        `json:"total"`
	TotalPages int64        `json:"total_paginas"`
	Sales      []model.Sale `json:"ventas"`
}

type salesService struct {
	saleRepo       repository.SaleRepository
	productRepo    repository.ProductRepository
	recipeRepo     repository.RecipeRepository
	receiptService ReceiptService
	db             *gorm.DB
	wsHub          *ws.Hub
}

func NewSalesService(sRepo repository.SaleRepository, pRepo repository.ProductRepository, rRepo repository.RecipeRepository, receiptService ReceiptService, db *gorm.DB, hub *ws.Hub) SalesService {
	return &salesService{
		saleRepo:       sRepo,
		productRepo:    pRepo,
		recipeRepo:     rRepo,
		receiptService: receiptService,
		db:             db,
		wsHub:          hub,
	}
}

// resolvedItem is a cart line after lookup and explosion, ready to be
// persisted
type resolvedItem struct {
	productID *uuid.UUID
	recipeID  *uuid.UUID
	quantity  int
	unitPrice float64
	amount    float64
	note      string
	isRecipe  bool
	explosion map[string]model.ExplosionEntry
}

// CreateSale validates the cart, explodes recipe items into their
// ingredient consumption, computes totals and commits the whole order
// atomically. Both receipts are generated right after commit.
func (s *salesService) CreateSale(req *CreateSaleRequest, userID, userName string) (*SaleResult, error) {
	if len(req.Items) == 0 {
		return nil, apperr.Validation("La venta debe contener al menos un item")
	}
	if req.DiscountPct < 0 || req.DiscountPct > 100 {
		return nil, apperr.Validation("Descuento debe estar entre 0 y 100")
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Validation(fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
	}

	var sale *model.Sale
	var result *SaleResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		subtotal := 0.0
		resolved := make([]resolvedItem, 0, len(req.Items))

		// Order-wide ingredient consumption, summed across all recipe
		// lines that pull the same ingredient
		consumption := map[string]model.ExplosionEntry{}

		// Aggregate requested quantity per product so a cart that
		// repeats a product id validates against the combined amount
		productQty := map[uuid.UUID]int{}
		lockedProducts := map[uuid.UUID]*model.Product{}

		for _, item := range req.Items {
			switch item.Type {
			case model.ItemProduct:
				product, ok := lockedProducts[item.ID]
				if !ok {
					var err error
					product, err = s.productRepo.LockByID(tx, item.ID)
					if err != nil {
						return apperr.NotFound(fmt.Sprintf("Producto %s no encontrado", item.ID))
					}
					lockedProducts[item.ID] = product
				}

				productQty[item.ID] += item.Quantity
				if product.Stock < productQty[item.ID] {
					return apperr.InsufficientStock(fmt.Sprintf(
						"Stock insuficiente de %s. Disponible: %d, Solicitado: %d",
						product.Name, product.Stock, productQty[item.ID]))
				}

				unitPrice := product.Price
				if item.UnitPrice != nil {
					unitPrice = *item.UnitPrice
				}
				amount := unitPrice * float64(item.Quantity)
				subtotal += amount

				resolved = append(resolved, resolvedItem{
					productID: &product.ID,
					quantity:  item.Quantity,
					unitPrice: unitPrice,
					amount:    amount,
					note:      item.Note,
					explosion: map[string]model.ExplosionEntry{},
				})

			case model.ItemRecipe:
				recipe, err := s.recipeRepo.FindByIDTx(tx, item.ID)
				if err != nil {
					return apperr.NotFound(fmt.Sprintf("Receta %s no encontrada", item.ID))
				}

				unitPrice := recipe.SalePrice
				if item.UnitPrice != nil {
					unitPrice = *item.UnitPrice
				}
				amount := unitPrice * float64(item.Quantity)
				subtotal += amount

				explosion := map[string]model.ExplosionEntry{}
				if err := explodeRecipe(tx, recipe, float64(item.Quantity), explosion, consumption, map[uuid.UUID]bool{}); err != nil {
					return err
				}

				resolved = append(resolved, resolvedItem{
					recipeID:  &recipe.ID,
					quantity:  item.Quantity,
					unitPrice: unitPrice,
					amount:    amount,
					note:      item.Note,
					isRecipe:  true,
					explosion: explosion,
				})

			default:
				return apperr.Validation(fmt.Sprintf("Tipo de item desconocido: %s", item.Type))
			}
		}

		// Ingredient consumption carries no hard cap at sale time: it
		// is recorded for costing and the kitchen ticket only

		discountAmount := costing.Round2(subtotal * req.DiscountPct / 100)
		taxableBase := subtotal - discountAmount
		tax := costing.Round2(taxableBase * TaxRate)
		tip := costing.Round2(taxableBase * TipRate)
		total := taxableBase + tax + tip

		sale = &model.Sale{
			OperatorName:   userName,
			CustomerName:   req.CustomerName,
			TableNumber:    req.TableNumber,
			Subtotal:       subtotal,
			DiscountAmount: discountAmount,
			Tax:            tax,
			Tip:            tip,
			Total:          total,
			Comments:       req.Comments,
		}
		sale.CreatedBy = userID
		sale.UpdatedBy = userID

		if err := tx.Create(sale).Error; err != nil {
			return err
		}

		for _, ri := range resolved {
			saleItem := &model.SaleItem{
				SaleID:       sale.ID,
				ProductID:    ri.productID,
				RecipeID:     ri.recipeID,
				Quantity:     ri.quantity,
				UnitPrice:    ri.unitPrice,
				LineSubtotal: ri.amount,
				Note:         ri.note,
				IsRecipe:     ri.isRecipe,
			}
			if err := saleItem.SetExplosion(ri.explosion); err != nil {
				return err
			}
			if err := tx.Create(saleItem).Error; err != nil {
				return err
			}
		}

		// Decrement product stock once per product, by the aggregated
		// quantity, on the rows locked above
		for productID, qty := range productQty {
			product := lockedProducts[productID]
			if err := s.productRepo.UpdateStock(tx, productID, product.Stock-qty, userID); err != nil {
				return err
			}
		}

		result = &SaleResult{
			SaleID:    sale.ID,
			Customer:  req.CustomerName,
			Table:     req.TableNumber,
			Subtotal:  subtotal,
			Discount:  discountAmount,
			Tax:       tax,
			Tip:       tip,
			Total:     total,
			ItemCount: len(resolved),
			Explosion: consumption,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Receipts are derived from the committed order
	kitchen, err := s.receiptService.GetOrCreate(sale.ID, model.ReceiptKitchen)
	if err != nil {
		return nil, err
	}
	cashier, err := s.receiptService.GetOrCreate(sale.ID, model.ReceiptCashier)
	if err != nil {
		return nil, err
	}
	result.KitchenReceiptID = kitchen.ID
	result.CashierReceiptID = cashier.ID

	if s.wsHub != nil {
		go func() {
			payload := map[string]interface{}{
				"type":     "venta_creada",
				"venta_id": sale.ID,
				"mesa":     sale.TableNumber,
				"total":    sale.Total,
				"message":  fmt.Sprintf("%s registró la venta #%s", userName, sale.ID),
			}
			msg, _ := json.Marshal(payload)
			s.wsHub.Broadcast <- msg
		}()
	}

	return result, nil
}

// explodeRecipe scales every recipe line by the ordered quantity and
// accumulates per-ingredient consumption. Each sub-recipe is fetched
// fresh per level, so arbitrary nesting depth resolves fully instead
// of stopping at whatever the caller happened to preload. onPath
// breaks reference cycles.
func explodeRecipe(tx *gorm.DB, recipe *model.Recipe, multiplier float64, explosion, consumption map[string]model.ExplosionEntry, onPath map[uuid.UUID]bool) error {
	if onPath[recipe.ID] {
		return nil
	}
	onPath[recipe.ID] = true
	defer delete(onPath, recipe.ID)

	for i := range recipe.Items {
		item := &recipe.Items[i]
		switch {
		case item.IngredientID != nil:
			ingredient := item.Ingredient
			if ingredient == nil {
				ingredient = &model.Ingredient{}
				if err := tx.First(ingredient, "id = ?", *item.IngredientID).Error; err != nil {
					return err
				}
			}
			qtyTotal := item.Quantity * multiplier
			key := item.IngredientID.String()

			entry := model.ExplosionEntry{
				IngredientID:   *item.IngredientID,
				IngredientName: ingredient.Name,
				Unit:           ingredient.Unit,
				QtyPerRecipe:   item.Quantity,
				QtyTotal:       costing.Round3(qtyTotal),
				UnitCost:       ingredient.UnitCost,
				TotalCost:      costing.Round2(qtyTotal * ingredient.UnitCost),
			}

			if prev, ok := explosion[key]; ok {
				entry.QtyTotal = costing.Round3(prev.QtyTotal + qtyTotal)
				entry.TotalCost = costing.Round2(prev.TotalCost + qtyTotal*ingredient.UnitCost)
			}
			explosion[key] = entry

			if prev, ok := consumption[key]; ok {
				prev.QtyTotal = costing.Round3(prev.QtyTotal + qtyTotal)
				prev.TotalCost = costing.Round2(prev.TotalCost + qtyTotal*ingredient.UnitCost)
				consumption[key] = prev
			} else {
				consumption[key] = entry
			}

		case item.SubRecipeID != nil:
			var sub model.Recipe
			if err := tx.Preload("Items").Preload("Items.Ingredient").
				First(&sub, "id = ?", *item.SubRecipeID).Error; err != nil {
				return err
			}
			if err := explodeRecipe(tx, &sub, multiplier*item.Quantity, explosion, consumption, onPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *salesService) GetSale(id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("Venta no encontrada")
	}
	return sale, nil
}

func (s *salesService) ListSales(page, perPage int, from, to *time.Time) (*SalePage, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}
	sales, total, err := s.saleRepo.FindPage(page, perPage, from, to)
	if err != nil {
		return nil, err
	}
	totalPages := (total + int64(perPage) - 1) / int64(perPage)
	return &SalePage{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		Sales:      sales,
	}, nil
}

// CancelSale returns product stock and removes the sale with its
// items. Ingredient consumption is not reversed; it was never
// decremented at sale time.
func (s *salesService) CancelSale(id uuid.UUID) error {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		return apperr.NotFound("Venta no encontrada")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range sale.Items {
			if item.ProductID == nil {
				continue
			}
			product, err := s.productRepo.LockByID(tx, *item.ProductID)
			if err != nil {
				continue // Product deleted since the sale; nothing to return
			}
			if err := s.productRepo.UpdateStock(tx, product.ID, product.Stock+item.Quantity, sale.UpdatedBy); err != nil {
				return err
			}
		}
		return s.saleRepo.Delete(tx, id)
	})
}
