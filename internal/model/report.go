package model

import "github.com/shopspring/decimal"

// InventoryLine is one row of the per-item inventory breakdown.
type InventoryLine struct {
	ItemName  string          `json:"item_name"`
	Stock     int             `json:"stock"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Value     decimal.Decimal `json:"value"`
}

// ProductSales aggregates SALE transactions for one item.
type ProductSales struct {
	ItemName     string          `json:"item_name"`
	TotalUnits   int             `json:"total_units"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// FinancialReport is the read surface of the ledger as of one day.
type FinancialReport struct {
	AsOfDate           string          `json:"as_of_date"`
	CashBalance        decimal.Decimal `json:"cash_balance"`
	InventoryValue     decimal.Decimal `json:"inventory_value"`
	TotalAssets        decimal.Decimal `json:"total_assets"`
	InventorySummary   []InventoryLine `json:"inventory_summary"`
	TopSellingProducts []ProductSales  `json:"top_selling_products"`
}
