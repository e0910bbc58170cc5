package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindStockOrder TransactionKind = "stock_orders"
	KindSale       TransactionKind = "sales"
)

func (k TransactionKind) Valid() bool {
	return k == KindStockOrder || k == KindSale
}

// Transaction is one immutable ledger record. Stock and cash are never stored;
// they are folded from these rows on every read.
type Transaction struct {
	ID        uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemName  *string         `gorm:"type:varchar(255);index" json:"item_name"` // nil only for the seed cash record
	Kind      TransactionKind `gorm:"column:transaction_type;type:varchar(20);not null" json:"transaction_type"`
	Units     *int            `json:"units"`
	Price     decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"price"` // total amount, not unit price
	Date      string          `gorm:"column:transaction_date;type:varchar(10);not null;index" json:"transaction_date"`
	CreatedAt time.Time       `json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// NewStockOrder builds an unsaved STOCK_ORDER record for cost.
func NewStockOrder(item string, units int, cost decimal.Decimal, date string) *Transaction {
	return &Transaction{ItemName: &item, Kind: KindStockOrder, Units: &units, Price: cost, Date: date}
}

// NewSale builds an unsaved SALE record for price.
func NewSale(item string, units int, price decimal.Decimal, date string) *Transaction {
	return &Transaction{ItemName: &item, Kind: KindSale, Units: &units, Price: price, Date: date}
}

// NewCashInjection builds the item-less SALE used to seed starting cash.
func NewCashInjection(amount decimal.Decimal, date string) *Transaction {
	return &Transaction{Kind: KindSale, Price: amount, Date: date}
}

// Item returns the item name or "" for the seed cash record.
func (t Transaction) Item() string {
	if t.ItemName == nil {
		return ""
	}
	return *t.ItemName
}

func (t Transaction) UnitCount() int {
	if t.Units == nil {
		return 0
	}
	return *t.Units
}
