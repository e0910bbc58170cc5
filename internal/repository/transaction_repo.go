package repository

import (
	"context"
	"errors"
	"fmt"

	"go-paper-ledger/internal/model"

	"gorm.io/gorm"
)

// TransactionRepository is the append-only ledger store. There is deliberately
// no update or delete.
type TransactionRepository interface {
	Append(ctx context.Context, tx *model.Transaction) (uint64, error)
	QueryPrefix(ctx context.Context, asOf string) ([]model.Transaction, error)
	QueryItemPrefix(ctx context.Context, item, asOf string) ([]model.Transaction, error)
	FindAll(ctx context.Context) ([]model.Transaction, error)
	FindByID(ctx context.Context, id uint64) (*model.Transaction, error)
	Count(ctx context.Context) (int64, error)
	LastID(ctx context.Context) (uint64, error)
	WithTx(tx *gorm.DB) TransactionRepository
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

// WithTx binds the repository to a running gorm transaction so validation
// reads and the append see the same snapshot.
func (r *transactionRepo) WithTx(tx *gorm.DB) TransactionRepository {
	return &transactionRepo{tx}
}

func (r *transactionRepo) Append(ctx context.Context, tx *model.Transaction) (uint64, error) {
	if !tx.Kind.Valid() {
		return 0, fmt.Errorf("%w: got '%s'", model.ErrInvalidTransactionKind, tx.Kind)
	}
	date, err := model.NormalizeDate(tx.Date)
	if err != nil {
		return 0, err
	}
	tx.Date = date
	tx.ID = 0 // always assigned by the database

	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return 0, fmt.Errorf("append transaction: %w", err)
	}
	return tx.ID, nil
}

// QueryPrefix returns every transaction dated on or before asOf, ordered by
// date and then by insertion id.
func (r *transactionRepo) QueryPrefix(ctx context.Context, asOf string) ([]model.Transaction, error) {
	date, err := model.NormalizeDate(asOf)
	if err != nil {
		return nil, err
	}
	var transactions []model.Transaction
	err = r.db.WithContext(ctx).
		Where("transaction_date <= ?", date).
		Order("transaction_date ASC").
		Order("id ASC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) QueryItemPrefix(ctx context.Context, item, asOf string) ([]model.Transaction, error) {
	date, err := model.NormalizeDate(asOf)
	if err != nil {
		return nil, err
	}
	var transactions []model.Transaction
	err = r.db.WithContext(ctx).
		Where("item_name = ? AND transaction_date <= ?", item, date).
		Order("transaction_date ASC").
		Order("id ASC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindAll(ctx context.Context) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.WithContext(ctx).Order("transaction_date ASC").Order("id ASC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(ctx context.Context, id uint64) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.WithContext(ctx).First(&transaction, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", model.ErrTransactionNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).Count(&count).Error
	return count, err
}

// LastID returns the ledger head, or 0 for an empty ledger.
func (r *transactionRepo) LastID(ctx context.Context) (uint64, error) {
	var id uint64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).Select("COALESCE(MAX(id), 0)").Scan(&id).Error
	return id, err
}
