package seed

import (
	"go-paper-ledger/internal/model"

	"github.com/shopspring/decimal"
)

type supply struct {
	name     string
	category string
	price    string
}

// Paper types are priced per sheet, products and large-format items per unit.
var supplies = []supply{
	{"A4 paper", "paper", "0.05"},
	{"Letter-sized paper", "paper", "0.06"},
	{"Cardstock", "paper", "0.15"},
	{"Colored paper", "paper", "0.10"},
	{"Glossy paper", "paper", "0.20"},
	{"Matte paper", "paper", "0.18"},
	{"Recycled paper", "paper", "0.08"},
	{"Eco-friendly paper", "paper", "0.12"},
	{"Poster paper", "paper", "0.25"},
	{"Banner paper", "paper", "0.30"},
	{"Kraft paper", "paper", "0.10"},
	{"Construction paper", "paper", "0.07"},
	{"Wrapping paper", "paper", "0.15"},
	{"Glitter paper", "paper", "0.22"},
	{"Decorative paper", "paper", "0.18"},
	{"Letterhead paper", "paper", "0.12"},
	{"Legal-size paper", "paper", "0.08"},
	{"Crepe paper", "paper", "0.05"},
	{"Photo paper", "paper", "0.25"},
	{"Uncoated paper", "paper", "0.06"},
	{"Butcher paper", "paper", "0.10"},
	{"Heavyweight paper", "paper", "0.20"},
	{"Standard copy paper", "paper", "0.04"},
	{"Bright-colored paper", "paper", "0.12"},
	{"Patterned paper", "paper", "0.15"},

	{"Paper plates", "product", "0.10"},
	{"Paper cups", "product", "0.08"},
	{"Paper napkins", "product", "0.02"},
	{"Disposable cups", "product", "0.10"},
	{"Table covers", "product", "1.50"},
	{"Envelopes", "product", "0.05"},
	{"Sticky notes", "product", "0.03"},
	{"Notepads", "product", "2.00"},
	{"Invitation cards", "product", "0.50"},
	{"Flyers", "product", "0.15"},
	{"Party streamers", "product", "0.05"},
	{"Decorative adhesive tape (washi tape)", "product", "0.20"},
	{"Paper party bags", "product", "0.25"},
	{"Name tags with lanyards", "product", "0.75"},
	{"Presentation folders", "product", "0.50"},

	{"Large poster paper (24x36 inches)", "large_format", "1.00"},
	{"Rolls of banner paper (36-inch width)", "large_format", "2.50"},

	{"100 lb cover stock", "specialty", "0.50"},
	{"80 lb text paper", "specialty", "0.40"},
	{"250 gsm cardstock", "specialty", "0.30"},
	{"220 gsm poster paper", "specialty", "0.35"},
}

// CatalogEntries returns the static paper-supplies catalog in load order.
func CatalogEntries() []model.CatalogEntry {
	entries := make([]model.CatalogEntry, len(supplies))
	for i, s := range supplies {
		entries[i] = model.CatalogEntry{
			ItemName:  s.name,
			Category:  s.category,
			UnitPrice: decimal.RequireFromString(s.price),
		}
	}
	return entries
}

func Catalog() *model.Catalog {
	return model.NewCatalog(CatalogEntries())
}
