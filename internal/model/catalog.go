package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CatalogEntry is a static product definition; loaded once at startup.
type CatalogEntry struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	ItemName  string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"item_name"`
	Category  string          `gorm:"type:varchar(50);not null" json:"category"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"unit_price"`
}

func (CatalogEntry) TableName() string {
	return "catalog_entries"
}

// InventoryReference marks the catalog items the business stocks. InitialStock
// is only used to seed the ledger; after that stock comes from the ledger.
type InventoryReference struct {
	ID            uint            `gorm:"primaryKey" json:"-"`
	ItemName      string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"item_name"`
	Category      string          `gorm:"type:varchar(50)" json:"category"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"unit_price"`
	InitialStock  int             `gorm:"not null" json:"initial_stock"`
	MinStockLevel int             `gorm:"not null" json:"min_stock_level"`
}

func (InventoryReference) TableName() string {
	return "inventory_references"
}

// Catalog is an immutable, case-insensitive view over the catalog entries.
type Catalog struct {
	entries []CatalogEntry
	byName  map[string]int
}

func NewCatalog(entries []CatalogEntry) *Catalog {
	c := &Catalog{
		entries: make([]CatalogEntry, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	copy(c.entries, entries)
	for i, e := range c.entries {
		c.byName[catalogKey(e.ItemName)] = i
	}
	return c
}

// Lookup finds the entry whose name matches exactly, ignoring case and
// surrounding whitespace.
func (c *Catalog) Lookup(name string) (CatalogEntry, error) {
	if i, ok := c.byName[catalogKey(name)]; ok {
		return c.entries[i], nil
	}
	return CatalogEntry{}, fmt.Errorf("%w: '%s'", ErrUnknownCatalogItem, name)
}

// Entries returns a copy of the catalog in load order.
func (c *Catalog) Entries() []CatalogEntry {
	out := make([]CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

func catalogKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
