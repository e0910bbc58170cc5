package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-paper-ledger/internal/model"
	"go-paper-ledger/internal/repository"
	"go-paper-ledger/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
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

func TestCatalog(t *testing.T) {
	catalog := Catalog()

	assert.Equal(t, 46, catalog.Len())
	entry, err := catalog.Lookup("a4 PAPER")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.05").Equal(entry.UnitPrice))
}

func TestGenerateInventory_Reproducible(t *testing.T) {
	first := GenerateInventory(CatalogEntries(), 0.4, 137)
	second := GenerateInventory(CatalogEntries(), 0.4, 137)

	require.Len(t, first, 18)
	assert.Equal(t, first, second)

	seen := map[string]bool{}
	for _, ref := range first {
		assert.False(t, seen[ref.ItemName], "duplicate %s", ref.ItemName)
		seen[ref.ItemName] = true
		assert.GreaterOrEqual(t, ref.InitialStock, 200)
		assert.Less(t, ref.InitialStock, 800)
		assert.GreaterOrEqual(t, ref.MinStockLevel, 50)
		assert.Less(t, ref.MinStockLevel, 150)
	}
}

func TestGenerateInventory_Coverage(t *testing.T) {
	assert.Empty(t, GenerateInventory(CatalogEntries(), 0, 1))
	assert.Len(t, GenerateInventory(CatalogEntries(), 2, 1), 46)
}

func TestBootstrap(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	opts := Options{
		StartDate:    "2025-01-01",
		StartingCash: decimal.RequireFromString("50000.00"),
		Coverage:     0.4,
		Seed:         137,
	}

	state, err := Bootstrap(ctx, db, opts, nil)
	require.NoError(t, err)
	assert.True(t, state.LedgerSeeded)
	assert.Equal(t, 46, state.Catalog.Len())
	require.Len(t, state.References, 18)

	txRepo := repository.NewTransactionRepo(db)
	rows, err := txRepo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 19)
	assert.Nil(t, rows[0].ItemName)
	assert.Equal(t, model.KindSale, rows[0].Kind)
	assert.True(t, decimal.RequireFromString("50000").Equal(rows[0].Price))

	first := state.References[0]
	assert.Equal(t, first.ItemName, rows[1].Item())
	assert.Equal(t, first.InitialStock, rows[1].UnitCount())
	assert.True(t, first.UnitPrice.Mul(decimal.NewFromInt(int64(first.InitialStock))).Equal(rows[1].Price))

	again, err := Bootstrap(ctx, db, opts, nil)
	require.NoError(t, err)
	assert.False(t, again.LedgerSeeded)
	assert.Equal(t, state.References, again.References)
	count, err := txRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(19), count)
}

func TestBootstrap_BadStartDate(t *testing.T) {
	_, err := Bootstrap(context.Background(), newTestDB(t), Options{StartDate: "Jan 1"}, nil)
	assert.ErrorIs(t, err, model.ErrMalformedDate)
}

func TestParseCSV_QuotedFields(t *testing.T) {
	rows, err := parseCSV(strings.NewReader("job,request\n\"office manager\",\"Need 500 sheets, please\nthanks\"\n"))
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "office manager", rows[0]["job"])
	assert.Equal(t, "Need 500 sheets, please\nthanks", rows[0]["request"])
}

func TestParseQuoteHistory(t *testing.T) {
	quotes := []map[string]string{
		{
			"total_amount":      "61",
			"quote_explanation": "Bulk cardstock with a 5% discount.",
			"request_metadata":  "{'job_type': 'office manager', 'order_size': 'small', 'event_type': 'ceremony'}",
		},
		{"total_amount": "n/a", "quote_explanation": "No metadata."},
	}
	requests := []map[string]string{{"response": "I need 200 sheets of cardstock"}}

	records := ParseQuoteHistory(quotes, requests, "2025-01-01")

	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].RequestID)
	assert.Equal(t, "I need 200 sheets of cardstock", records[0].OriginalRequest)
	assert.True(t, decimal.NewFromInt(61).Equal(records[0].TotalAmount))
	assert.Equal(t, "office manager", records[0].JobType)
	assert.Equal(t, "small", records[0].OrderSize)
	assert.Equal(t, "ceremony", records[0].EventType)
	assert.Equal(t, "2025-01-01", records[0].OrderDate)

	assert.Empty(t, records[1].OriginalRequest)
	assert.True(t, records[1].TotalAmount.IsZero())
}

func TestParseInquiries_SortsAndDropsBadDates(t *testing.T) {
	rows := []map[string]string{
		{"job": "teacher", "event": "assembly", "request": "b", "request_date": "04/07/25"},
		{"job": "chef", "event": "party", "request": "a", "request_date": "4/1/25"},
		{"job": "nobody", "event": "none", "request": "x", "request_date": "soon"},
		{"job": "coach", "event": "game", "request": "c", "request_date": "04/07/25"},
	}

	inquiries := ParseInquiries(rows)

	require.Len(t, inquiries, 3)
	assert.Equal(t, "2025-04-01", inquiries[0].RequestDate)
	assert.Equal(t, "teacher", inquiries[1].Job)
	assert.Equal(t, "coach", inquiries[2].Job)
}

func TestLoadCorpus(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	files := CorpusFiles{
		Quotes: write("quotes.csv", "request_id,total_amount,quote_explanation,request_metadata\n"+
			"1,40,\"Glossy paper for a festival flyer run\",\"{'job_type': 'event planner', 'order_size': 'medium', 'event_type': 'festival'}\"\n"),
		QuoteRequests:  write("quote_requests.csv", "mood,job,event,response\ncalm,planner,festival,\"500 sheets of glossy paper\"\n"),
		SampleRequests: filepath.Join(dir, "missing.csv"),
	}
	db := newTestDB(t)
	repo := repository.NewQuoteRepo(db)
	ctx := context.Background()

	require.NoError(t, LoadCorpus(ctx, repo, files, "2025-01-01", nil))
	require.NoError(t, LoadCorpus(ctx, repo, files, "2025-01-01", nil))

	count, err := repo.CountHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	found, err := repo.SearchHistory(ctx, []string{"GLOSSY", "festival"}, 5)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "festival", found[0].EventType)

	inquiries, err := repo.FindInquiries(ctx)
	require.NoError(t, err)
	assert.Empty(t, inquiries)
}
