package handler

import (
	"sort"
	"strconv"
	"strings"

	"go-paper-ledger/internal/model"
	"go-paper-ledger/internal/repository"
	"go-paper-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const (
	StockStatusOK         = "OK"
	StockStatusLow        = "LOW - RESTOCK NEEDED"
	StockStatusNotStocked = "NOT STOCKED"
)

type InventoryHandler struct {
	state       service.StateService
	fulfillment service.FulfillmentService
	txRepo      repository.TransactionRepository
	catalog     *model.Catalog
	references  map[string]model.InventoryReference
}

func NewInventoryHandler(state service.StateService, fulfillment service.FulfillmentService, txRepo repository.TransactionRepository, catalog *model.Catalog, references []model.InventoryReference) *InventoryHandler {
	refs := make(map[string]model.InventoryReference, len(references))
	for _, r := range references {
		refs[strings.ToLower(r.ItemName)] = r
	}
	return &InventoryHandler{
		state:       state,
		fulfillment: fulfillment,
		txRepo:      txRepo,
		catalog:     catalog,
		references:  refs,
	}
}

type StockOrderRequest struct {
	ItemName string `json:"item_name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
	Date     string `json:"date" validate:"required,isodate"`
}

type SaleRequest struct {
	ItemName string          `json:"item_name" validate:"required"`
	Quantity int             `json:"quantity" validate:"gt=0"`
	Price    decimal.Decimal `json:"price"`
	Date     string          `json:"date" validate:"required,isodate"`
}

type StockLine struct {
	ItemName string `json:"item_name"`
	Stock    int    `json:"stock"`
}

// GetCatalog lists every product with its unit price.
// GET /api/v1/catalog
func (h *InventoryHandler) GetCatalog(c *fiber.Ctx) error {
	return c.JSON(h.catalog.Entries())
}

// GetInventory lists items with positive stock as of ?as_of=.
// GET /api/v1/inventory
func (h *InventoryHandler) GetInventory(c *fiber.Ctx) error {
	asOf, err := asOfParam(c)
	if err != nil {
		return errorResponse(c, err)
	}

	snapshot, err := h.state.InventorySnapshot(c.UserContext(), asOf)
	if err != nil {
		return errorResponse(c, err)
	}

	lines := make([]StockLine, 0, len(snapshot))
	for item, stock := range snapshot {
		lines = append(lines, StockLine{ItemName: item, Stock: stock})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ItemName < lines[j].ItemName })

	return c.JSON(fiber.Map{"as_of_date": asOf, "items": lines})
}

// GetItemStock reports one item's stock against its reorder level.
// GET /api/v1/inventory/stock?item=...&as_of=...
func (h *InventoryHandler) GetItemStock(c *fiber.Ctx) error {
	asOf, err := asOfParam(c)
	if err != nil {
		return errorResponse(c, err)
	}
	entry, err := h.catalog.Lookup(c.Query("item"))
	if err != nil {
		return errorResponse(c, err)
	}

	stock, err := h.state.StockLevel(c.UserContext(), entry.ItemName, asOf)
	if err != nil {
		return errorResponse(c, err)
	}

	status := StockStatusNotStocked
	ref, stocked := h.references[strings.ToLower(entry.ItemName)]
	if stocked {
		status = StockStatusOK
		if stock <= ref.MinStockLevel {
			status = StockStatusLow
		}
	}

	return c.JSON(fiber.Map{
		"item_name":       entry.ItemName,
		"as_of_date":      asOf,
		"current_stock":   stock,
		"min_stock_level": ref.MinStockLevel,
		"unit_price":      entry.UnitPrice,
		"status":          status,
	})
}

// GET /api/v1/cash
func (h *InventoryHandler) GetCash(c *fiber.Ctx) error {
	asOf, err := asOfParam(c)
	if err != nil {
		return errorResponse(c, err)
	}
	cash, err := h.state.CashBalance(c.UserContext(), asOf)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"as_of_date": asOf, "cash_balance": cash})
}

// GET /api/v1/transactions
func (h *InventoryHandler) GetTransactions(c *fiber.Ctx) error {
	transactions, err := h.txRepo.FindAll(c.UserContext())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(transactions)
}

// GET /api/v1/transactions/:id
func (h *InventoryHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	tx, err := h.txRepo.FindByID(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(tx)
}

// CreateStockOrder places a supplier order paid from cash.
// POST /api/v1/stock-orders
func (h *InventoryHandler) CreateStockOrder(c *fiber.Ctx) error {
	var req StockOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if msg := validationError(&req); msg != "" {
		return c.Status(422).JSON(fiber.Map{"error": msg})
	}

	result, err := h.fulfillment.Restock(c.UserContext(), req.ItemName, req.Quantity, req.Date)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Restock order placed", "data": result})
}

// CreateSale records a sale at the given total price.
// POST /api/v1/sales
func (h *InventoryHandler) CreateSale(c *fiber.Ctx) error {
	var req SaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if msg := validationError(&req); msg != "" {
		return c.Status(422).JSON(fiber.Map{"error": msg})
	}
	if req.Price.IsNegative() {
		return c.Status(422).JSON(fiber.Map{"error": "price must not be negative"})
	}

	result, err := h.fulfillment.Sell(c.UserContext(), req.ItemName, req.Quantity, req.Price, req.Date)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Sale processed", "data": result})
}

// GetDeliveryEstimate returns the supplier delivery date for an order size.
// GET /api/v1/delivery-estimate?date=...&quantity=...
func (h *InventoryHandler) GetDeliveryEstimate(c *fiber.Ctx) error {
	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil || quantity <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": model.ErrInvalidQuantity.Error()})
	}
	date := c.Query("date")
	return c.JSON(fiber.Map{
		"order_date":    date,
		"quantity":      quantity,
		"delivery_date": service.EstimateDelivery(date, quantity, nil),
	})
}
