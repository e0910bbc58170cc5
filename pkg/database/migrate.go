package database

import (
	"go-paper-ledger/internal/model"

	"gorm.io/gorm"
)

// Migrate creates the ledger, catalog and corpus tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Transaction{},
		&model.CatalogEntry{},
		&model.InventoryReference{},
		&model.QuoteRecord{},
		&model.CustomerInquiry{},
	)
}
