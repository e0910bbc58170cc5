package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"go-paper-ledger/internal/agent"
	"go-paper-ledger/internal/config"
	"go-paper-ledger/internal/model"
	"go-paper-ledger/internal/repository"
	"go-paper-ledger/internal/seed"
	"go-paper-ledger/internal/service"
	"go-paper-ledger/pkg/database"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var resultHeader = []string{"request_id", "request_date", "cash_balance", "inventory_value", "response"}

// Replays the sample inquiries through the fulfillment pipeline against a
// fresh sqlite ledger and records the state after each request.
func main() {
	dbPath := flag.String("db", "file:simulation?mode=memory&cache=shared", "sqlite database path")
	out := flag.String("out", "test_results.csv", "results CSV path")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if err := godotenv.Load(); err != nil {
		log.Debug(".env file not found, relying on system env")
	}
	cfg, err := config.Load()
	if err != nil {
		fail(log, "invalid configuration", err)
	}

	if err := run(context.Background(), cfg, *dbPath, *out, log); err != nil {
		fail(log, "simulation failed", err)
	}
}

func fail(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}

func run(ctx context.Context, cfg *config.Config, dbPath, out string, log *slog.Logger) error {
	db, err := database.Connect(database.Options{
		Driver:     database.DriverSQLite,
		SQLitePath: dbPath,
		LogLevel:   logger.Silent,
	})
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	state, err := seed.Bootstrap(ctx, db, seed.Options{
		StartDate:    cfg.StartDate,
		StartingCash: cfg.StartingCashAmount(),
		Coverage:     cfg.InventoryCoverage,
		Seed:         cfg.InventorySeed,
	}, log)
	if err != nil {
		return err
	}

	quoteRepo := repository.NewQuoteRepo(db)
	if err := seed.LoadCorpus(ctx, quoteRepo, seed.CorpusFiles{
		Quotes:         cfg.QuotesCSV,
		QuoteRequests:  cfg.QuoteRequestsCSV,
		SampleRequests: cfg.SampleRequestsCSV,
	}, cfg.StartDate, log); err != nil {
		return err
	}
	inquiries, err := quoteRepo.FindInquiries(ctx)
	if err != nil {
		return err
	}
	if len(inquiries) == 0 {
		return fmt.Errorf("no inquiries to replay, check SAMPLE_REQUESTS_CSV (%s)", cfg.SampleRequestsCSV)
	}

	sim, err := newSimulation(db, state, quoteRepo, cfg, log)
	if err != nil {
		return err
	}

	file, err := os.Create(out)
	if err != nil {
		return err
	}
	defer file.Close()
	w := csv.NewWriter(file)
	if err := w.Write(resultHeader); err != nil {
		return err
	}

	initialDate := inquiries[0].RequestDate
	report, err := sim.state.FinancialReport(ctx, initialDate)
	if err != nil {
		return err
	}
	fmt.Printf("Initial Cash Balance: $%s\n", report.CashBalance.StringFixed(2))
	fmt.Printf("Initial Inventory Value: $%s\n", report.InventoryValue.StringFixed(2))

	for i, inquiry := range inquiries {
		fmt.Printf("\n=== Request %d ===\n", i+1)
		fmt.Printf("Context: %s organizing %s\n", inquiry.Job, inquiry.Event)
		fmt.Printf("Request Date: %s\n", inquiry.RequestDate)

		resp := sim.pipeline.Handle(ctx, service.CustomerRequest{
			Text: inquiry.Request,
			Date: inquiry.RequestDate,
		})

		cash, value, err := sim.snapshot(ctx, inquiry.RequestDate)
		if err != nil {
			return err
		}
		fmt.Printf("Response (%s): %s\n", resp.Status, resp.Message)
		fmt.Printf("Updated Cash: $%s\n", cash.StringFixed(2))
		fmt.Printf("Updated Inventory: $%s\n", value.StringFixed(2))

		if err := w.Write([]string{
			strconv.Itoa(i + 1),
			inquiry.RequestDate,
			cash.StringFixed(2),
			value.StringFixed(2),
			resp.Message,
		}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	finalDate := inquiries[len(inquiries)-1].RequestDate
	report, err = sim.state.FinancialReport(ctx, finalDate)
	if err != nil {
		return err
	}
	printReport(report)
	fmt.Printf("\nResults written to %s\n", out)
	return nil
}

type simulation struct {
	state    service.StateService
	pipeline service.PipelineService
}

func newSimulation(db *gorm.DB, state *seed.State, quoteRepo repository.QuoteRepository, cfg *config.Config, log *slog.Logger) (*simulation, error) {
	txRepo := repository.NewTransactionRepo(db)
	stateService := service.NewStateService(txRepo, state.Catalog, nil, log)
	fulfillment := service.NewFulfillmentService(db, txRepo, stateService, state.Catalog, nil, log)

	composer, err := agent.NewTemplateComposer()
	if err != nil {
		return nil, err
	}
	pipeline := service.NewPipelineService(
		service.NewInventoryStage(state.Catalog, state.References, stateService, fulfillment, agent.NewTokenResolver(state.Catalog), log),
		service.NewPricingStage(service.NewPricingService(state.Catalog), quoteRepo, log),
		service.NewOrderStage(fulfillment, log),
		agent.NewKeywordInterpreter(),
		composer,
		service.RetryPolicy{MaxAttempts: cfg.RetryMaxAttempts, BackoffUnit: cfg.RetryBackoffUnit},
		log,
	)
	return &simulation{state: stateService, pipeline: pipeline}, nil
}

func (s *simulation) snapshot(ctx context.Context, date string) (decimal.Decimal, decimal.Decimal, error) {
	cash, err := s.state.CashBalance(ctx, date)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	value, err := s.state.InventoryValuation(ctx, date)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return cash, value, nil
}

func printReport(r *model.FinancialReport) {
	fmt.Println("\n=== FINAL FINANCIAL REPORT ===")
	fmt.Printf("As of: %s\n", r.AsOfDate)
	fmt.Printf("Final Cash: $%s\n", r.CashBalance.StringFixed(2))
	fmt.Printf("Final Inventory: $%s\n", r.InventoryValue.StringFixed(2))
	fmt.Printf("Total Assets: $%s\n", r.TotalAssets.StringFixed(2))
	if len(r.TopSellingProducts) == 0 {
		return
	}
	fmt.Println("Top selling products:")
	for _, p := range r.TopSellingProducts {
		fmt.Printf("  %-40s %6d units  $%s\n", p.ItemName, p.TotalUnits, p.TotalRevenue.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 30))
}
