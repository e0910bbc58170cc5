package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-paper-ledger/internal/model"
	"go-paper-ledger/internal/repository"
	"go-paper-ledger/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Options{
		Driver:     database.DriverSQLite,
		SQLitePath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel:   logger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testCatalog() *model.Catalog {
	return model.NewCatalog([]model.CatalogEntry{
		{ItemName: "A4 paper", Category: "paper", UnitPrice: dec("0.05")},
		{ItemName: "Cardstock", Category: "paper", UnitPrice: dec("0.15")},
		{ItemName: "Glossy paper", Category: "paper", UnitPrice: dec("0.20")},
		{ItemName: "Paper plates", Category: "product", UnitPrice: dec("0.10")},
	})
}

type ledgerFixture struct {
	db          *gorm.DB
	repo        repository.TransactionRepository
	catalog     *model.Catalog
	state       StateService
	fulfillment FulfillmentService
	events      *recordingPublisher
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	db := newTestDB(t)
	repo := repository.NewTransactionRepo(db)
	catalog := testCatalog()
	state := NewStateService(repo, catalog, nil, nil)
	events := &recordingPublisher{}
	return &ledgerFixture{
		db:          db,
		repo:        repo,
		catalog:     catalog,
		state:       state,
		fulfillment: NewFulfillmentService(db, repo, state, catalog, events, nil),
		events:      events,
	}
}

func (f *ledgerFixture) append(t *testing.T, tx *model.Transaction) uint64 {
	t.Helper()
	id, err := f.repo.Append(context.Background(), tx)
	require.NoError(t, err)
	return id
}

func (f *ledgerFixture) count(t *testing.T) int64 {
	t.Helper()
	n, err := f.repo.Count(context.Background())
	require.NoError(t, err)
	return n
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []map[string]interface{}
}

func (p *recordingPublisher) Publish(event string, payload map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	payload["type"] = event
	p.events = append(p.events, payload)
}

func (p *recordingPublisher) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func fixedNow(t *testing.T, at time.Time) {
	t.Helper()
	previous := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = previous })
}
