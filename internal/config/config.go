package config

import (
	"fmt"
	"time"

	"go-paper-ledger/internal/model"
	"go-paper-ledger/pkg/database"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Port string `mapstructure:"port"`

	DBDriver    string `mapstructure:"db_driver"`
	DatabaseURL string `mapstructure:"database_url"`
	DBHost      string `mapstructure:"db_host"`
	DBUser      string `mapstructure:"db_user"`
	DBPassword  string `mapstructure:"db_password"`
	DBName      string `mapstructure:"db_name"`
	DBPort      string `mapstructure:"db_port"`
	SQLitePath  string `mapstructure:"sqlite_path"`

	RedisAddr string `mapstructure:"redis_addr"`

	JWTSecret            string `mapstructure:"jwt_secret"`
	OperatorUsername     string `mapstructure:"operator_username"`
	OperatorPasswordHash string `mapstructure:"operator_password_hash"`

	RetryMaxAttempts int           `mapstructure:"retry_max_attempts"`
	RetryBackoffUnit time.Duration `mapstructure:"retry_backoff_unit"`

	InventorySeed     int64   `mapstructure:"inventory_seed"`
	InventoryCoverage float64 `mapstructure:"inventory_coverage"`
	StartDate         string  `mapstructure:"start_date"`
	StartingCash      string  `mapstructure:"starting_cash"`

	QuotesCSV         string `mapstructure:"quotes_csv"`
	QuoteRequestsCSV  string `mapstructure:"quote_requests_csv"`
	SampleRequestsCSV string `mapstructure:"sample_requests_csv"`
}

var defaults = map[string]interface{}{
	"port":                   "3000",
	"db_driver":              database.DriverSQLite,
	"database_url":           "",
	"db_host":                "localhost",
	"db_user":                "postgres",
	"db_password":            "",
	"db_name":                "paper_ledger",
	"db_port":                "5432",
	"sqlite_path":            "paper_ledger.db",
	"redis_addr":             "",
	"jwt_secret":             "your-super-secret-key-change-in-production",
	"operator_username":      "operator",
	"operator_password_hash": "",
	"retry_max_attempts":     3,
	"retry_backoff_unit":     time.Second,
	"inventory_seed":         137,
	"inventory_coverage":     0.4,
	"start_date":             "2025-01-01",
	"starting_cash":          "50000.00",
	"quotes_csv":             "quotes.csv",
	"quote_requests_csv":     "quote_requests.csv",
	"sample_requests_csv":    "quote_requests_sample.csv",
}

// Load reads configuration from the environment. Call godotenv.Load first if
// a .env file should be honored.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DBDriver != database.DriverPostgres && c.DBDriver != database.DriverSQLite {
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", database.DriverPostgres, database.DriverSQLite, c.DBDriver)
	}
	if c.RetryMaxAttempts < 1 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be at least 1, got %d", c.RetryMaxAttempts)
	}
	if c.InventoryCoverage < 0 || c.InventoryCoverage > 1 {
		return fmt.Errorf("INVENTORY_COVERAGE must be within [0,1], got %v", c.InventoryCoverage)
	}
	date, err := model.NormalizeDate(c.StartDate)
	if err != nil {
		return fmt.Errorf("START_DATE: %w", err)
	}
	c.StartDate = date
	if _, err := decimal.NewFromString(c.StartingCash); err != nil {
		return fmt.Errorf("STARTING_CASH: %w", err)
	}
	return nil
}

// Database returns the connection options for pkg/database.
func (c *Config) Database() database.Options {
	dsn := c.DatabaseURL
	if dsn == "" {
		dsn = database.PostgresDSN(c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
	}
	return database.Options{Driver: c.DBDriver, DSN: dsn, SQLitePath: c.SQLitePath}
}

func (c *Config) StartingCashAmount() decimal.Decimal {
	return decimal.RequireFromString(c.StartingCash)
}
