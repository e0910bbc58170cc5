package model

import "errors"

// Ledger and fulfillment errors. Callers match them with errors.Is; the
// detailed message is added by wrapping with %w.
var (
	ErrUnknownCatalogItem     = errors.New("item not found in catalog")
	ErrInvalidQuantity        = errors.New("quantity must be a positive integer")
	ErrInvalidTransactionKind = errors.New("transaction type must be 'stock_orders' or 'sales'")
	ErrMalformedDate          = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrPipelineExhausted      = errors.New("request could not be processed after all attempts")
	ErrTransactionNotFound    = errors.New("transaction not found")
)
