package service

import (
	"sort"

	"go-paper-ledger/internal/model"

	"github.com/shopspring/decimal"
)

// The folds below are pure functions over a ledger prefix as returned by
// TransactionRepository.QueryPrefix. They are the only place stock and cash
// are computed.

func foldStock(transactions []model.Transaction, item string) int {
	stock := 0
	for _, t := range transactions {
		if t.ItemName == nil || *t.ItemName != item {
			continue
		}
		stock += signedUnits(t)
	}
	return stock
}

func foldCash(transactions []model.Transaction) decimal.Decimal {
	cash := decimal.Zero
	for _, t := range transactions {
		switch t.Kind {
		case model.KindSale:
			cash = cash.Add(t.Price)
		case model.KindStockOrder:
			cash = cash.Sub(t.Price)
		}
	}
	return cash
}

// foldStockByItem returns stock per item name; item-less records are skipped.
func foldStockByItem(transactions []model.Transaction) map[string]int {
	stock := make(map[string]int)
	for _, t := range transactions {
		if t.ItemName == nil {
			continue
		}
		stock[*t.ItemName] += signedUnits(t)
	}
	return stock
}

// foldSales aggregates SALE records per item in first-seen order.
func foldSales(transactions []model.Transaction) []model.ProductSales {
	index := make(map[string]int)
	var sales []model.ProductSales
	for _, t := range transactions {
		if t.Kind != model.KindSale || t.ItemName == nil {
			continue
		}
		i, ok := index[*t.ItemName]
		if !ok {
			i = len(sales)
			index[*t.ItemName] = i
			sales = append(sales, model.ProductSales{ItemName: *t.ItemName, TotalRevenue: decimal.Zero})
		}
		sales[i].TotalUnits += t.UnitCount()
		sales[i].TotalRevenue = sales[i].TotalRevenue.Add(t.Price)
	}
	return sales
}

// topSellers ranks by revenue, highest first. Ties keep aggregation order.
func topSellers(sales []model.ProductSales, n int) []model.ProductSales {
	ranked := make([]model.ProductSales, len(sales))
	copy(ranked, sales)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalRevenue.GreaterThan(ranked[j].TotalRevenue)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func signedUnits(t model.Transaction) int {
	switch t.Kind {
	case model.KindStockOrder:
		return t.UnitCount()
	case model.KindSale:
		return -t.UnitCount()
	}
	return 0
}
