package model

import "github.com/shopspring/decimal"

type RestockResult struct {
	TransactionID uint64          `json:"transaction_id"`
	ItemName      string          `json:"item_name"`
	Quantity      int             `json:"quantity"`
	Cost          decimal.Decimal `json:"cost"`
	DeliveryDate  string          `json:"delivery_date"`
}

type SaleResult struct {
	TransactionID uint64          `json:"transaction_id"`
	ItemName      string          `json:"item_name"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Date          string          `json:"date"`
}
