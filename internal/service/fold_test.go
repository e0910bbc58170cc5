package service

import (
	"testing"

	"go-paper-ledger/internal/model"

	"github.com/stretchr/testify/assert"
)

func ledgerRows(rows ...*model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(rows))
	for i, r := range rows {
		r.ID = uint64(i + 1)
		out[i] = *r
	}
	return out
}

func TestFoldStock(t *testing.T) {
	rows := ledgerRows(
		model.NewStockOrder("A4 paper", 500, dec("25"), "2025-01-01"),
		model.NewSale("A4 paper", 120, dec("6"), "2025-01-02"),
		model.NewStockOrder("Cardstock", 50, dec("7.5"), "2025-01-02"),
		model.NewSale("A4 paper", 30, dec("1.5"), "2025-01-03"),
	)

	assert.Equal(t, 350, foldStock(rows, "A4 paper"))
	assert.Equal(t, 50, foldStock(rows, "Cardstock"))
	assert.Equal(t, 0, foldStock(rows, "Never ordered"))
}

func TestFoldCash_IgnoresItemNames(t *testing.T) {
	rows := ledgerRows(
		model.NewCashInjection(dec("50000"), "2025-01-01"),
		model.NewStockOrder("A4 paper", 500, dec("25"), "2025-01-01"),
		model.NewSale("A4 paper", 100, dec("4.75"), "2025-01-02"),
	)

	assert.True(t, dec("49979.75").Equal(foldCash(rows)))
	assert.True(t, foldCash(nil).IsZero())
}

func TestFoldCash_Additive(t *testing.T) {
	first := ledgerRows(
		model.NewCashInjection(dec("100"), "2025-01-01"),
		model.NewStockOrder("A4 paper", 10, dec("0.5"), "2025-01-01"),
	)
	second := ledgerRows(
		model.NewSale("Cardstock", 3, dec("9.99"), "2025-01-02"),
	)

	combined := append(append([]model.Transaction{}, first...), second...)
	assert.True(t, foldCash(first).Add(foldCash(second)).Equal(foldCash(combined)))
}

func TestFoldStockByItem_SkipsCashRecord(t *testing.T) {
	rows := ledgerRows(
		model.NewCashInjection(dec("50000"), "2025-01-01"),
		model.NewStockOrder("A4 paper", 5, dec("0.25"), "2025-01-01"),
		model.NewSale("A4 paper", 5, dec("1"), "2025-01-01"),
		model.NewSale("Cardstock", 2, dec("1"), "2025-01-01"),
	)

	stock := foldStockByItem(rows)
	assert.Equal(t, map[string]int{"A4 paper": 0, "Cardstock": -2}, stock)
}

func TestTopSellers_RevenueOrderWithStableTies(t *testing.T) {
	rows := ledgerRows(
		model.NewCashInjection(dec("50000"), "2025-01-01"),
		model.NewSale("B", 1, dec("10"), "2025-01-01"),
		model.NewSale("A", 1, dec("10"), "2025-01-01"),
		model.NewSale("C", 5, dec("30"), "2025-01-01"),
		model.NewSale("D", 1, dec("1"), "2025-01-01"),
		model.NewSale("E", 1, dec("2"), "2025-01-01"),
		model.NewSale("F", 1, dec("3"), "2025-01-01"),
		model.NewSale("B", 2, dec("5"), "2025-01-02"),
	)

	top := topSellers(foldSales(rows), 5)

	names := make([]string, len(top))
	for i, p := range top {
		names[i] = p.ItemName
	}
	assert.Equal(t, []string{"C", "B", "A", "F", "E"}, names)
	assert.Equal(t, 3, top[1].TotalUnits)
	assert.True(t, dec("15").Equal(top[1].TotalRevenue))
}
