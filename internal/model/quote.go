package model

import "github.com/shopspring/decimal"

// QuoteItem is one requested line. Quantity stays a raw token so malformed
// input can be reported per line instead of failing the whole quote.
type QuoteItem struct {
	Name     string `json:"name" validate:"required"`
	Quantity string `json:"quantity" validate:"required"`
}

type QuoteLine struct {
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	LineTotal    decimal.Decimal `json:"line_total"`
	Error        string          `json:"error,omitempty"`
	Err          error           `json:"-"`
}

// Priced reports whether the line contributed to the quote total.
func (l QuoteLine) Priced() bool {
	return l.Err == nil
}

// DiscountPercent returns the discount as a whole percentage (e.g. 10).
func (l QuoteLine) DiscountPercent() int64 {
	return l.DiscountRate.Mul(decimal.NewFromInt(100)).IntPart()
}

type QuoteBreakdown struct {
	AsOfDate string          `json:"as_of_date"`
	Lines    []QuoteLine     `json:"lines"`
	Total    decimal.Decimal `json:"total"`
}

// Failed returns the lines that were excluded from the total.
func (q *QuoteBreakdown) Failed() []QuoteLine {
	var failed []QuoteLine
	for _, l := range q.Lines {
		if !l.Priced() {
			failed = append(failed, l)
		}
	}
	return failed
}
