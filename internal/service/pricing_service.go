package service

import (
	"fmt"
	"strconv"
	"strings"

	"go-paper-ledger/internal/model"

	"github.com/shopspring/decimal"
)

type discountTier struct {
	minQuantity int
	rate        decimal.Decimal
}

// Evaluated top to bottom; lower bounds are inclusive.
var discountTiers = []discountTier{
	{minQuantity: 1000, rate: decimal.RequireFromString("0.15")},
	{minQuantity: 500, rate: decimal.RequireFromString("0.10")},
	{minQuantity: 100, rate: decimal.RequireFromString("0.05")},
}

// DiscountRate returns the bulk discount for quantity as a fraction.
func DiscountRate(quantity int) decimal.Decimal {
	for _, tier := range discountTiers {
		if quantity >= tier.minQuantity {
			return tier.rate
		}
	}
	return decimal.Zero
}

// PricingService prices requested lines against the catalog. It never reads
// the ledger.
type PricingService interface {
	Quote(items []model.QuoteItem, asOf string) *model.QuoteBreakdown
}

type pricingService struct {
	catalog *model.Catalog
}

func NewPricingService(catalog *model.Catalog) PricingService {
	return &pricingService{catalog: catalog}
}

// Quote prices every line independently. A failed line carries its error and
// is left out of the total.
func (s *pricingService) Quote(items []model.QuoteItem, asOf string) *model.QuoteBreakdown {
	breakdown := &model.QuoteBreakdown{
		AsOfDate: asOf,
		Lines:    make([]model.QuoteLine, 0, len(items)),
		Total:    decimal.Zero,
	}

	for _, item := range items {
		line := s.priceLine(item)
		if line.Priced() {
			breakdown.Total = breakdown.Total.Add(line.LineTotal)
		} else {
			line.Error = line.Err.Error()
		}
		breakdown.Lines = append(breakdown.Lines, line)
	}
	return breakdown
}

func (s *pricingService) priceLine(item model.QuoteItem) model.QuoteLine {
	line := model.QuoteLine{Name: strings.TrimSpace(item.Name)}

	quantity, err := parseQuantity(item.Quantity)
	if err != nil {
		line.Err = err
		return line
	}
	line.Quantity = quantity

	entry, err := s.catalog.Lookup(line.Name)
	if err != nil {
		line.Err = err
		return line
	}

	line.Name = entry.ItemName
	line.UnitPrice = entry.UnitPrice
	line.Subtotal = entry.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	line.DiscountRate = DiscountRate(quantity)
	line.LineTotal = line.Subtotal.Mul(decimal.NewFromInt(1).Sub(line.DiscountRate))
	return line
}

func parseQuantity(token string) (int, error) {
	token = strings.TrimSpace(token)
	quantity, err := strconv.Atoi(token)
	if err != nil || quantity <= 0 {
		return 0, fmt.Errorf("%w: '%s'", model.ErrInvalidQuantity, token)
	}
	return quantity, nil
}

// ParseQuoteLines reads "item name: quantity" lines. Lines without a colon are
// skipped; the last colon separates name from quantity.
func ParseQuoteLines(text string) []model.QuoteItem {
	var items []model.QuoteItem
	for _, entry := range strings.Split(strings.TrimSpace(text), "\n") {
		i := strings.LastIndex(entry, ":")
		if i < 0 {
			continue
		}
		items = append(items, model.QuoteItem{
			Name:     strings.TrimSpace(entry[:i]),
			Quantity: strings.TrimSpace(entry[i+1:]),
		})
	}
	return items
}
