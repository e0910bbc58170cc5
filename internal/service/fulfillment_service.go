package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go-paper-ledger/internal/model"
	"go-paper-ledger/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FulfillmentService is the only writer of the ledger. Each operation checks
// its precondition and appends inside one database transaction, so a rejected
// operation leaves the ledger untouched. Writes are serialized so two
// concurrent operations cannot both pass the same cash or stock check.
type FulfillmentService interface {
	Restock(ctx context.Context, item string, quantity int, date string) (*model.RestockResult, error)
	Sell(ctx context.Context, item string, quantity int, price decimal.Decimal, date string) (*model.SaleResult, error)
}

type fulfillmentService struct {
	db        *gorm.DB
	txRepo    repository.TransactionRepository
	state     StateService
	catalog   *model.Catalog
	publisher EventPublisher
	logger    *slog.Logger

	// writeMu covers check, append and event publication.
	writeMu sync.Mutex
}

// ledgerLockKey identifies the postgres advisory lock held by ledger writers.
const ledgerLockKey = 7312025

func NewFulfillmentService(db *gorm.DB, txRepo repository.TransactionRepository, state StateService, catalog *model.Catalog, publisher EventPublisher, logger *slog.Logger) FulfillmentService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &fulfillmentService{
		db:        db,
		txRepo:    txRepo,
		state:     state,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *fulfillmentService) Restock(ctx context.Context, item string, quantity int, date string) (*model.RestockResult, error) {
	entry, err := s.catalog.Lookup(item)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: got %d", model.ErrInvalidQuantity, quantity)
	}
	day, err := model.NormalizeDate(date)
	if err != nil {
		return nil, err
	}

	cost := entry.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	result := &model.RestockResult{
		ItemName: entry.ItemName,
		Quantity: quantity,
		Cost:     cost,
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err = s.commit(ctx, func(tx *gorm.DB) error {
		cash, err := s.state.WithTx(tx).CashBalance(ctx, day)
		if err != nil {
			return err
		}
		if cost.GreaterThan(cash) {
			return fmt.Errorf("%w: need $%s but only $%s available", model.ErrInsufficientFunds, cost.StringFixed(2), cash.StringFixed(2))
		}

		id, err := s.txRepo.WithTx(tx).Append(ctx, model.NewStockOrder(entry.ItemName, quantity, cost, day))
		if err != nil {
			return err
		}
		result.TransactionID = id
		return nil
	})
	if err != nil {
		s.logger.Info("restock rejected", "item", entry.ItemName, "quantity", quantity, "date", day, "error", err)
		return nil, err
	}

	result.DeliveryDate = EstimateDelivery(day, quantity, s.logger)
	s.logger.Info("restock recorded", "transaction_id", result.TransactionID, "item", entry.ItemName, "quantity", quantity, "cost", cost.StringFixed(2))
	s.publish("restock", result.TransactionID, entry.ItemName, quantity, cost, day)
	return result, nil
}

// Sell records a sale at the caller's price. The price is not recomputed from
// the catalog.
func (s *fulfillmentService) Sell(ctx context.Context, item string, quantity int, price decimal.Decimal, date string) (*model.SaleResult, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: got %d", model.ErrInvalidQuantity, quantity)
	}
	day, err := model.NormalizeDate(date)
	if err != nil {
		return nil, err
	}

	name := item
	if entry, err := s.catalog.Lookup(item); err == nil {
		name = entry.ItemName
	}
	result := &model.SaleResult{
		ItemName: name,
		Quantity: quantity,
		Price:    price,
		Date:     day,
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err = s.commit(ctx, func(tx *gorm.DB) error {
		stock, err := s.state.WithTx(tx).StockLevel(ctx, name, day)
		if err != nil {
			return err
		}
		if stock < quantity {
			return fmt.Errorf("%w for '%s': have %d, need %d", model.ErrInsufficientStock, name, stock, quantity)
		}

		id, err := s.txRepo.WithTx(tx).Append(ctx, model.NewSale(name, quantity, price, day))
		if err != nil {
			return err
		}
		result.TransactionID = id
		return nil
	})
	if err != nil {
		s.logger.Info("sale rejected", "item", name, "quantity", quantity, "date", day, "error", err)
		return nil, err
	}

	s.logger.Info("sale recorded", "transaction_id", result.TransactionID, "item", name, "quantity", quantity, "price", price.StringFixed(2))
	s.publish("sale", result.TransactionID, name, quantity, price, day)
	return result, nil
}

// commit runs fn in a transaction. On postgres the transaction first takes an
// advisory lock so writers in other processes queue behind it as well.
func (s *fulfillmentService) commit(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", ledgerLockKey).Error; err != nil {
				return fmt.Errorf("acquire ledger lock: %w", err)
			}
		}
		return fn(tx)
	})
}

func (s *fulfillmentService) publish(action string, id uint64, item string, quantity int, amount decimal.Decimal, date string) {
	s.publisher.Publish(EventLedgerUpdate, map[string]interface{}{
		"action": action,
		"transaction": map[string]interface{}{
			"id":       id,
			"item":     item,
			"quantity": quantity,
			"amount":   amount.StringFixed(2),
			"date":     date,
		},
		"message": fmt.Sprintf("%s of %d x '%s' recorded", action, quantity, item),
	})
}
