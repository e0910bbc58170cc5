package seed

import (
	"context"
	"fmt"
	"log/slog"

	"go-paper-ledger/internal/model"
	"go-paper-ledger/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Options struct {
	StartDate    string
	StartingCash decimal.Decimal
	Coverage     float64
	Seed         int64
}

// State is what the rest of the application needs after seeding.
type State struct {
	Catalog    *model.Catalog
	References []model.InventoryReference
	// LedgerSeeded is true when this run wrote the opening ledger records.
	LedgerSeeded bool
}

// Bootstrap loads the catalog and inventory reference and, on an empty ledger,
// writes the opening cash record followed by one stock order per stocked item.
// Running it again on a populated database changes nothing.
func Bootstrap(ctx context.Context, db *gorm.DB, opts Options, logger *slog.Logger) (*State, error) {
	if logger == nil {
		logger = slog.Default()
	}
	startDate, err := model.NormalizeDate(opts.StartDate)
	if err != nil {
		return nil, err
	}

	state := &State{}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		catalogRepo := repository.NewCatalogRepo(tx)
		txRepo := repository.NewTransactionRepo(tx)

		if err := catalogRepo.SeedCatalog(ctx, CatalogEntries()); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		entries, err := catalogRepo.FindAll(ctx)
		if err != nil {
			return err
		}
		state.Catalog = model.NewCatalog(entries)

		if _, err := catalogRepo.SeedInventory(ctx, GenerateInventory(entries, opts.Coverage, opts.Seed)); err != nil {
			return fmt.Errorf("seed inventory: %w", err)
		}
		if state.References, err = catalogRepo.FindInventoryReferences(ctx); err != nil {
			return err
		}

		count, err := txRepo.Count(ctx)
		if err != nil || count > 0 {
			return err
		}
		if _, err := txRepo.Append(ctx, model.NewCashInjection(opts.StartingCash, startDate)); err != nil {
			return err
		}
		for _, ref := range state.References {
			cost := ref.UnitPrice.Mul(decimal.NewFromInt(int64(ref.InitialStock)))
			if _, err := txRepo.Append(ctx, model.NewStockOrder(ref.ItemName, ref.InitialStock, cost, startDate)); err != nil {
				return err
			}
		}
		state.LedgerSeeded = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("catalog loaded",
		"items", state.Catalog.Len(),
		"stocked", len(state.References),
		"ledger_seeded", state.LedgerSeeded,
	)
	return state, nil
}
