package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go-paper-ledger/internal/model"

	"github.com/redis/go-redis/v9"
)

// ReportCache stores financial reports keyed by day and ledger head. Any append
// moves the head, so a hit is always equal to a fresh reconstruction.
type ReportCache interface {
	Get(ctx context.Context, asOf string, version uint64) (*model.FinancialReport, bool)
	Set(ctx context.Context, asOf string, version uint64, report *model.FinancialReport)
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisClient connects to addr. It returns nil, nil when addr is empty so
// callers can run without caching.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return client, nil
}

func NewRedisReportCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) ReportCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisReportCache{client: client, ttl: ttl, logger: logger}
}

func ReportKey(asOf string, version uint64) string {
	return fmt.Sprintf("ledger:report:%s:v%d", asOf, version)
}

// Get treats every Redis failure as a miss.
func (c *redisReportCache) Get(ctx context.Context, asOf string, version uint64) (*model.FinancialReport, bool) {
	data, err := c.client.Get(ctx, ReportKey(asOf, version)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("report cache read failed", "as_of", asOf, "error", err)
		}
		return nil, false
	}
	var report model.FinancialReport
	if err := json.Unmarshal(data, &report); err != nil {
		c.logger.Warn("report cache entry corrupt", "as_of", asOf, "error", err)
		return nil, false
	}
	return &report, true
}

func (c *redisReportCache) Set(ctx context.Context, asOf string, version uint64, report *model.FinancialReport) {
	data, err := json.Marshal(report)
	if err != nil {
		c.logger.Warn("report cache encode failed", "as_of", asOf, "error", err)
		return
	}
	if err := c.client.Set(ctx, ReportKey(asOf, version), data, c.ttl).Err(); err != nil {
		c.logger.Warn("report cache write failed", "as_of", asOf, "error", err)
	}
}
