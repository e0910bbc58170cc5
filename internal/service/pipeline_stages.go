package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"go-paper-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemRequest is one line of a customer request before name resolution.
type ItemRequest struct {
	Description string `json:"description" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
}

type CustomerRequest struct {
	ID    uuid.UUID     `json:"id"`
	Text  string        `json:"text"`
	Date  string        `json:"date"`
	Items []ItemRequest `json:"items"`
}

// ResolvedLine is a request line mapped onto an exact catalog name.
type ResolvedLine struct {
	Description string               `json:"description"`
	ItemName    string               `json:"item_name"`
	Quantity    int                  `json:"quantity"`
	StockBefore int                  `json:"stock_before"`
	Restock     *model.RestockResult `json:"restock,omitempty"`
	Note        string               `json:"note,omitempty"`
}

// LineFailure explains why a line was dropped. Failures stay per line and
// never fail the whole request.
type LineFailure struct {
	Description string `json:"description"`
	ItemName    string `json:"item_name,omitempty"`
	Reason      string `json:"reason"`
	Err         error  `json:"-"`
}

type InventoryResult struct {
	Lines    []ResolvedLine `json:"lines"`
	Failures []LineFailure  `json:"failures"`
}

// ItemNames lists the resolved exact catalog names in request order.
func (r *InventoryResult) ItemNames() []string {
	names := make([]string, 0, len(r.Lines))
	for _, l := range r.Lines {
		names = append(names, l.ItemName)
	}
	return names
}

type PricingResult struct {
	Quote   *model.QuoteBreakdown `json:"quote"`
	History []model.QuoteRecord   `json:"history"`
}

type OrderLine struct {
	ItemName      string          `json:"item_name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	DiscountRate  decimal.Decimal `json:"discount_rate"`
	Price         decimal.Decimal `json:"price"`
	TransactionID uint64          `json:"transaction_id"`
	DeliveryDate  string          `json:"delivery_date"`
}

type OrderResult struct {
	Lines        []OrderLine     `json:"lines"`
	Failures     []LineFailure   `json:"failures"`
	Total        decimal.Decimal `json:"total"`
	DeliveryDate string          `json:"delivery_date,omitempty"`
}

// RequestInterpreter extracts item lines from free text.
type RequestInterpreter interface {
	Interpret(text string) []ItemRequest
}

// NameResolver proposes a catalog name for an informal description.
type NameResolver interface {
	Resolve(description string) (string, bool)
}

type QuoteHistorySearcher interface {
	SearchHistory(ctx context.Context, terms []string, limit int) ([]model.QuoteRecord, error)
}

type InventoryStage interface {
	Resolve(ctx context.Context, req *CustomerRequest) (*InventoryResult, error)
}

type PricingStage interface {
	Price(ctx context.Context, req *CustomerRequest, inventory *InventoryResult) (*PricingResult, error)
}

type OrderStage interface {
	Execute(ctx context.Context, req *CustomerRequest, pricing *PricingResult) (*OrderResult, error)
}

// isLineError reports whether err is a business rejection that belongs to a
// single line. Anything else is an infrastructure failure and fails the attempt.
func isLineError(err error) bool {
	return errors.Is(err, model.ErrUnknownCatalogItem) ||
		errors.Is(err, model.ErrInvalidQuantity) ||
		errors.Is(err, model.ErrMalformedDate) ||
		errors.Is(err, model.ErrInsufficientFunds) ||
		errors.Is(err, model.ErrInsufficientStock)
}

// --- Inventory resolution ---

type inventoryStage struct {
	catalog     *model.Catalog
	references  map[string]model.InventoryReference
	state       StateService
	fulfillment FulfillmentService
	resolver    NameResolver
	logger      *slog.Logger
}

func NewInventoryStage(catalog *model.Catalog, references []model.InventoryReference, state StateService, fulfillment FulfillmentService, resolver NameResolver, logger *slog.Logger) InventoryStage {
	if logger == nil {
		logger = slog.Default()
	}
	refs := make(map[string]model.InventoryReference, len(references))
	for _, r := range references {
		refs[strings.ToLower(r.ItemName)] = r
	}
	return &inventoryStage{
		catalog:     catalog,
		references:  refs,
		state:       state,
		fulfillment: fulfillment,
		resolver:    resolver,
		logger:      logger,
	}
}

func (s *inventoryStage) Resolve(ctx context.Context, req *CustomerRequest) (*InventoryResult, error) {
	result := &InventoryResult{}
	for _, item := range req.Items {
		name, ok := s.resolver.Resolve(item.Description)
		if !ok {
			name = item.Description
		}
		entry, err := s.catalog.Lookup(name)
		if err != nil {
			result.Failures = append(result.Failures, LineFailure{
				Description: item.Description,
				Reason:      err.Error(),
				Err:         err,
			})
			continue
		}

		line, err := s.ensureStock(ctx, req, item, entry.ItemName)
		if err != nil {
			return nil, err
		}
		result.Lines = append(result.Lines, *line)
	}
	return result, nil
}

// ensureStock restocks when stock is below the minimum level, is zero, or
// cannot cover the request. The order tops stock up to requested + minimum.
func (s *inventoryStage) ensureStock(ctx context.Context, req *CustomerRequest, item ItemRequest, name string) (*ResolvedLine, error) {
	stock, err := s.state.StockLevel(ctx, name, req.Date)
	if err != nil {
		return nil, err
	}
	line := &ResolvedLine{
		Description: item.Description,
		ItemName:    name,
		Quantity:    item.Quantity,
		StockBefore: stock,
	}

	minLevel := s.references[strings.ToLower(name)].MinStockLevel
	if stock >= minLevel && stock > 0 && stock >= item.Quantity {
		return line, nil
	}

	orderQty := item.Quantity + minLevel - stock
	restock, err := s.fulfillment.Restock(ctx, name, orderQty, req.Date)
	if err != nil {
		if !isLineError(err) {
			return nil, err
		}
		line.Note = fmt.Sprintf("restock of %d units not placed: %v", orderQty, err)
		s.logger.Info("restock skipped", "request_id", req.ID, "item", name, "error", err)
		return line, nil
	}
	line.Restock = restock
	return line, nil
}

// --- Pricing ---

const historyLimit = 5

type pricingStage struct {
	pricing PricingService
	history QuoteHistorySearcher
	logger  *slog.Logger
}

// NewPricingStage builds the pricing stage. history may be nil.
func NewPricingStage(pricing PricingService, history QuoteHistorySearcher, logger *slog.Logger) PricingStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &pricingStage{pricing: pricing, history: history, logger: logger}
}

func (s *pricingStage) Price(ctx context.Context, req *CustomerRequest, inventory *InventoryResult) (*PricingResult, error) {
	items := make([]model.QuoteItem, 0, len(inventory.Lines))
	for _, l := range inventory.Lines {
		items = append(items, model.QuoteItem{Name: l.ItemName, Quantity: strconv.Itoa(l.Quantity)})
	}
	result := &PricingResult{Quote: s.pricing.Quote(items, req.Date)}

	// The history lookup is advisory only; its failure does not block pricing.
	if s.history != nil && len(items) > 0 {
		result.History = s.searchHistory(ctx, req, inventory.ItemNames())
	}
	return result, nil
}

// searchHistory looks up each item on its own and merges the matches, since
// the search requires every term to appear in one record.
func (s *pricingStage) searchHistory(ctx context.Context, req *CustomerRequest, names []string) []model.QuoteRecord {
	var merged []model.QuoteRecord
	seen := make(map[uint]bool)
	for _, name := range names {
		if len(merged) >= historyLimit {
			break
		}
		records, err := s.history.SearchHistory(ctx, []string{name}, historyLimit)
		if err != nil {
			s.logger.Warn("quote history lookup failed", "request_id", req.ID, "item", name, "error", err)
			continue
		}
		for _, r := range records {
			if seen[r.ID] || len(merged) >= historyLimit {
				continue
			}
			seen[r.ID] = true
			merged = append(merged, r)
		}
	}
	return merged
}

// --- Order execution ---

type orderStage struct {
	fulfillment FulfillmentService
	logger      *slog.Logger
}

func NewOrderStage(fulfillment FulfillmentService, logger *slog.Logger) OrderStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &orderStage{fulfillment: fulfillment, logger: logger}
}

func (s *orderStage) Execute(ctx context.Context, req *CustomerRequest, pricing *PricingResult) (*OrderResult, error) {
	result := &OrderResult{Total: decimal.Zero}
	for _, line := range pricing.Quote.Lines {
		if !line.Priced() {
			result.Failures = append(result.Failures, LineFailure{
				Description: line.Name,
				ItemName:    line.Name,
				Reason:      line.Error,
				Err:         line.Err,
			})
			continue
		}

		sale, err := s.fulfillment.Sell(ctx, line.Name, line.Quantity, line.LineTotal, req.Date)
		if err != nil {
			if !isLineError(err) {
				return nil, err
			}
			result.Failures = append(result.Failures, LineFailure{
				Description: line.Name,
				ItemName:    line.Name,
				Reason:      err.Error(),
				Err:         err,
			})
			continue
		}

		delivery := EstimateDelivery(req.Date, line.Quantity, s.logger)
		result.Lines = append(result.Lines, OrderLine{
			ItemName:      sale.ItemName,
			Quantity:      sale.Quantity,
			UnitPrice:     line.UnitPrice,
			DiscountRate:  line.DiscountRate,
			Price:         sale.Price,
			TransactionID: sale.TransactionID,
			DeliveryDate:  delivery,
		})
		result.Total = result.Total.Add(sale.Price)
		// ISO dates order lexicographically.
		if delivery > result.DeliveryDate {
			result.DeliveryDate = delivery
		}
	}
	return result, nil
}
