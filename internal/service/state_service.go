package service

import (
	"context"
	"log/slog"

	"go-paper-ledger/internal/cache"
	"go-paper-ledger/internal/model"
	"go-paper-ledger/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const topSellingLimit = 5

// StateService reconstructs stock, cash and valuation from the ledger.
type StateService interface {
	StockLevel(ctx context.Context, item, asOf string) (int, error)
	CashBalance(ctx context.Context, asOf string) (decimal.Decimal, error)
	InventorySnapshot(ctx context.Context, asOf string) (map[string]int, error)
	InventoryValuation(ctx context.Context, asOf string) (decimal.Decimal, error)
	FinancialReport(ctx context.Context, asOf string) (*model.FinancialReport, error)
	WithTx(tx *gorm.DB) StateService
}

type stateService struct {
	txRepo  repository.TransactionRepository
	catalog *model.Catalog
	cache   cache.ReportCache
	logger  *slog.Logger
}

// NewStateService builds the reconstructor. reportCache may be nil.
func NewStateService(txRepo repository.TransactionRepository, catalog *model.Catalog, reportCache cache.ReportCache, logger *slog.Logger) StateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &stateService{
		txRepo:  txRepo,
		catalog: catalog,
		cache:   reportCache,
		logger:  logger,
	}
}

// WithTx returns a reconstructor reading through tx. The report cache is not
// consulted inside a transaction.
func (s *stateService) WithTx(tx *gorm.DB) StateService {
	return &stateService{
		txRepo:  s.txRepo.WithTx(tx),
		catalog: s.catalog,
		logger:  s.logger,
	}
}

func (s *stateService) StockLevel(ctx context.Context, item, asOf string) (int, error) {
	name := s.canonicalName(item)
	transactions, err := s.txRepo.QueryItemPrefix(ctx, name, asOf)
	if err != nil {
		return 0, err
	}
	return foldStock(transactions, name), nil
}

func (s *stateService) CashBalance(ctx context.Context, asOf string) (decimal.Decimal, error) {
	transactions, err := s.txRepo.QueryPrefix(ctx, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return foldCash(transactions), nil
}

// InventorySnapshot lists items with strictly positive stock.
func (s *stateService) InventorySnapshot(ctx context.Context, asOf string) (map[string]int, error) {
	transactions, err := s.txRepo.QueryPrefix(ctx, asOf)
	if err != nil {
		return nil, err
	}
	snapshot := make(map[string]int)
	for item, stock := range foldStockByItem(transactions) {
		if stock > 0 {
			snapshot[item] = stock
		}
	}
	return snapshot, nil
}

// InventoryValuation sums stock × unit price over the whole catalog. Negative
// stock is included on purpose so policy bugs show up in the numbers.
func (s *stateService) InventoryValuation(ctx context.Context, asOf string) (decimal.Decimal, error) {
	transactions, err := s.txRepo.QueryPrefix(ctx, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	value, _ := s.valuation(foldStockByItem(transactions))
	return value, nil
}

func (s *stateService) FinancialReport(ctx context.Context, asOf string) (*model.FinancialReport, error) {
	date, err := model.NormalizeDate(asOf)
	if err != nil {
		return nil, err
	}

	var version uint64
	if s.cache != nil {
		version, err = s.txRepo.LastID(ctx)
		if err != nil {
			return nil, err
		}
		if report, ok := s.cache.Get(ctx, date, version); ok {
			return report, nil
		}
	}

	transactions, err := s.txRepo.QueryPrefix(ctx, date)
	if err != nil {
		return nil, err
	}

	cash := foldCash(transactions)
	inventoryValue, summary := s.valuation(foldStockByItem(transactions))
	report := &model.FinancialReport{
		AsOfDate:           date,
		CashBalance:        cash,
		InventoryValue:     inventoryValue,
		TotalAssets:        cash.Add(inventoryValue),
		InventorySummary:   summary,
		TopSellingProducts: topSellers(foldSales(transactions), topSellingLimit),
	}

	if s.cache != nil {
		s.cache.Set(ctx, date, version, report)
	}
	return report, nil
}

// valuation prices every catalog entry; the summary lists entries with non-zero stock.
func (s *stateService) valuation(stock map[string]int) (decimal.Decimal, []model.InventoryLine) {
	total := decimal.Zero
	summary := []model.InventoryLine{}
	for _, entry := range s.catalog.Entries() {
		units := stock[entry.ItemName]
		value := entry.UnitPrice.Mul(decimal.NewFromInt(int64(units)))
		total = total.Add(value)
		if units != 0 {
			summary = append(summary, model.InventoryLine{
				ItemName:  entry.ItemName,
				Stock:     units,
				UnitPrice: entry.UnitPrice,
				Value:     value,
			})
		}
	}
	return total, summary
}

func (s *stateService) canonicalName(item string) string {
	if entry, err := s.catalog.Lookup(item); err == nil {
		return entry.ItemName
	}
	return item
}
