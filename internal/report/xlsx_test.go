package report

import (
	"bytes"
	"testing"

	"go-paper-ledger/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteFinancialReport(t *testing.T) {
	d := decimal.RequireFromString
	r := &model.FinancialReport{
		AsOfDate:       "2025-04-01",
		CashBalance:    d("49960.5"),
		InventoryValue: d("37"),
		TotalAssets:    d("49997.5"),
		InventorySummary: []model.InventoryLine{
			{ItemName: "A4 paper", Stock: 500, UnitPrice: d("0.05"), Value: d("25")},
			{ItemName: "Cardstock", Stock: 80, UnitPrice: d("0.15"), Value: d("12")},
		},
		TopSellingProducts: []model.ProductSales{
			{ItemName: "A4 paper", TotalUnits: 500, TotalRevenue: d("22.5")},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteFinancialReport(&buf, r))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, InventorySheet, TopSellersSheet}, f.GetSheetList())

	asOf, err := f.GetCellValue(SummarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "2025-04-01", asOf)

	cash, err := f.GetCellValue(SummarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "49960.5", cash)

	rows, err := f.GetRows(InventorySheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Item", "Stock", "Unit price", "Value"}, rows[0])
	assert.Equal(t, "Cardstock", rows[2][0])
	assert.Equal(t, "80", rows[2][1])

	sellers, err := f.GetRows(TopSellersSheet)
	require.NoError(t, err)
	require.Len(t, sellers, 2)
	assert.Equal(t, "22.5", sellers[1][2])
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "financial_report_2025-04-01.xlsx", FileName("2025-04-01"))
}
