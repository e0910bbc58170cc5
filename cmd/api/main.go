package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-paper-ledger/internal/agent"
	"go-paper-ledger/internal/cache"
	"go-paper-ledger/internal/config"
	"go-paper-ledger/internal/handler"
	"go-paper-ledger/internal/repository"
	"go-paper-ledger/internal/seed"
	"go-paper-ledger/internal/service"
	"go-paper-ledger/internal/ws"
	"go-paper-ledger/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

const (
	reportCacheTTL = 10 * time.Minute
	tokenTTL       = 24 * time.Hour
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Warn(".env file not found, relying on system env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Setup Database
	db, err := database.Connect(cfg.Database())
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// 3. Seed catalog, inventory reference and opening ledger
	state, err := seed.Bootstrap(ctx, db, seed.Options{
		StartDate:    cfg.StartDate,
		StartingCash: cfg.StartingCashAmount(),
		Coverage:     cfg.InventoryCoverage,
		Seed:         cfg.InventorySeed,
	}, log)
	if err != nil {
		log.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}

	quoteRepo := repository.NewQuoteRepo(db)
	corpus := seed.CorpusFiles{
		Quotes:         cfg.QuotesCSV,
		QuoteRequests:  cfg.QuoteRequestsCSV,
		SampleRequests: cfg.SampleRequestsCSV,
	}
	if err := seed.LoadCorpus(ctx, quoteRepo, corpus, cfg.StartDate, log); err != nil {
		log.Warn("quote corpus not loaded", "error", err)
	}

	// 4. Optional report cache
	var reportCache cache.ReportCache
	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
	switch {
	case err != nil:
		log.Warn("redis unavailable, financial reports will not be cached", "addr", cfg.RedisAddr, "error", err)
	case redisClient != nil:
		defer redisClient.Close()
		reportCache = cache.NewRedisReportCache(redisClient, reportCacheTTL, log)
	}

	// 5. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run()

	// 6. Dependency Injection (Wiring Layers)
	txRepo := repository.NewTransactionRepo(db)

	stateService := service.NewStateService(txRepo, state.Catalog, reportCache, log)
	fulfillmentService := service.NewFulfillmentService(db, txRepo, stateService, state.Catalog, wsHub, log)
	pricingService := service.NewPricingService(state.Catalog)
	authService := service.NewAuthService(service.OperatorCredentials{
		Username:     cfg.OperatorUsername,
		PasswordHash: cfg.OperatorPasswordHash,
	}, []byte(cfg.JWTSecret), tokenTTL)

	composer, err := agent.NewTemplateComposer()
	if err != nil {
		log.Error("response templates failed to load", "error", err)
		os.Exit(1)
	}
	pipeline := service.NewPipelineService(
		service.NewInventoryStage(state.Catalog, state.References, stateService, fulfillmentService, agent.NewTokenResolver(state.Catalog), log),
		service.NewPricingStage(pricingService, quoteRepo, log),
		service.NewOrderStage(fulfillmentService, log),
		agent.NewKeywordInterpreter(),
		composer,
		service.RetryPolicy{MaxAttempts: cfg.RetryMaxAttempts, BackoffUnit: cfg.RetryBackoffUnit},
		log,
	)

	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Inventory: handler.NewInventoryHandler(stateService, fulfillmentService, txRepo, state.Catalog, state.References),
		Report:    handler.NewReportHandler(stateService),
		Quote:     handler.NewQuoteHandler(pricingService, quoteRepo),
		Request:   handler.NewRequestHandler(pipeline),
	}

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Paper Ledger v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	handler.SetupRoutes(app, handlers, []byte(cfg.JWTSecret), wsHub)

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server exited")
}
