package repository

import (
	"context"

	"go-paper-ledger/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogRepository interface {
	FindAll(ctx context.Context) ([]model.CatalogEntry, error)
	FindInventoryReferences(ctx context.Context) ([]model.InventoryReference, error)
	SeedCatalog(ctx context.Context, entries []model.CatalogEntry) error
	SeedInventory(ctx context.Context, refs []model.InventoryReference) (bool, error)
}

type catalogRepo struct {
	db *gorm.DB
}

func NewCatalogRepo(db *gorm.DB) CatalogRepository {
	return &catalogRepo{db}
}

func (r *catalogRepo) FindAll(ctx context.Context) ([]model.CatalogEntry, error) {
	var entries []model.CatalogEntry
	err := r.db.WithContext(ctx).Order("id ASC").Find(&entries).Error
	return entries, err
}

func (r *catalogRepo) FindInventoryReferences(ctx context.Context) ([]model.InventoryReference, error) {
	var refs []model.InventoryReference
	err := r.db.WithContext(ctx).Order("id ASC").Find(&refs).Error
	return refs, err
}

// SeedCatalog inserts entries that are not present yet; existing rows are left
// untouched because catalog entries never change once loaded.
func (r *catalogRepo) SeedCatalog(ctx context.Context, entries []model.CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "item_name"}}, DoNothing: true}).
		Create(&entries).Error
}

// SeedInventory stores the inventory reference only when none exists and
// reports whether it did.
func (r *catalogRepo) SeedInventory(ctx context.Context, refs []model.InventoryReference) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.InventoryReference{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 || len(refs) == 0 {
		return false, nil
	}
	if err := r.db.WithContext(ctx).Create(&refs).Error; err != nil {
		return false, err
	}
	return true, nil
}
