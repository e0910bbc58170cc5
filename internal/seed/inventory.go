package seed

import (
	"math/rand"

	"go-paper-ledger/internal/model"
)

const (
	minInitialStock = 200
	maxInitialStock = 800 // exclusive
	minReorderLevel = 50
	maxReorderLevel = 150 // exclusive
)

// GenerateInventory picks int(len(entries) × coverage) distinct catalog items
// and assigns each a starting stock and a reorder threshold. The same seed
// always yields the same inventory.
func GenerateInventory(entries []model.CatalogEntry, coverage float64, seed int64) []model.InventoryReference {
	if coverage <= 0 {
		return nil
	}
	if coverage > 1 {
		coverage = 1
	}
	n := int(float64(len(entries)) * coverage)

	r := rand.New(rand.NewSource(seed))
	picked := r.Perm(len(entries))[:n]

	refs := make([]model.InventoryReference, 0, n)
	for _, i := range picked {
		e := entries[i]
		refs = append(refs, model.InventoryReference{
			ItemName:      e.ItemName,
			Category:      e.Category,
			UnitPrice:     e.UnitPrice,
			InitialStock:  minInitialStock + r.Intn(maxInitialStock-minInitialStock),
			MinStockLevel: minReorderLevel + r.Intn(maxReorderLevel-minReorderLevel),
		})
	}
	return refs
}
