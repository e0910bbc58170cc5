package repository

import (
	"context"
	"strings"

	"go-paper-ledger/internal/model"

	"gorm.io/gorm"
)

const defaultHistoryLimit = 5

type QuoteRepository interface {
	SearchHistory(ctx context.Context, terms []string, limit int) ([]model.QuoteRecord, error)
	SaveHistory(ctx context.Context, records []model.QuoteRecord) error
	CountHistory(ctx context.Context) (int64, error)
	SaveInquiries(ctx context.Context, inquiries []model.CustomerInquiry) error
	FindInquiries(ctx context.Context) ([]model.CustomerInquiry, error)
}

type quoteRepo struct {
	db *gorm.DB
}

func NewQuoteRepo(db *gorm.DB) QuoteRepository {
	return &quoteRepo{db}
}

// SearchHistory returns the most recent quotes whose request or explanation
// contains every term (case-insensitive). No terms matches everything.
func (r *quoteRepo) SearchHistory(ctx context.Context, terms []string, limit int) ([]model.QuoteRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	query := r.db.WithContext(ctx).Model(&model.QuoteRecord{})
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		query = query.Where(
			`(LOWER(original_request) LIKE ? ESCAPE '\' OR LOWER(quote_explanation) LIKE ? ESCAPE '\')`,
			pattern, pattern,
		)
	}

	var records []model.QuoteRecord
	err := query.Order("order_date DESC").Order("id ASC").Limit(limit).Find(&records).Error
	return records, err
}

func (r *quoteRepo) SaveHistory(ctx context.Context, records []model.QuoteRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&records, 200).Error
}

func (r *quoteRepo) CountHistory(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.QuoteRecord{}).Count(&count).Error
	return count, err
}

func (r *quoteRepo) SaveInquiries(ctx context.Context, inquiries []model.CustomerInquiry) error {
	if len(inquiries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&inquiries, 200).Error
}

// FindInquiries returns the sample requests in the order they should be replayed.
func (r *quoteRepo) FindInquiries(ctx context.Context) ([]model.CustomerInquiry, error) {
	var inquiries []model.CustomerInquiry
	err := r.db.WithContext(ctx).Order("request_date ASC").Order("id ASC").Find(&inquiries).Error
	return inquiries, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
