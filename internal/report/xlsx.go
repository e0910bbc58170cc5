package report

import (
	"fmt"
	"io"

	"go-paper-ledger/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet     = "Summary"
	InventorySheet   = "Inventory"
	TopSellersSheet  = "Top Sellers"
	ContentType      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	defaultSheetName = "Sheet1"
)

// FileName is the download name for a report as of the given day.
func FileName(asOf string) string {
	return fmt.Sprintf("financial_report_%s.xlsx", asOf)
}

// WriteFinancialReport renders the report as a workbook with one sheet for the
// totals, one for the inventory summary and one for the top sellers.
func WriteFinancialReport(w io.Writer, r *model.FinancialReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheetName, SummarySheet); err != nil {
		return err
	}
	summary := [][]interface{}{
		{"As of", r.AsOfDate},
		{"Cash balance", r.CashBalance.InexactFloat64()},
		{"Inventory value", r.InventoryValue.InexactFloat64()},
		{"Total assets", r.TotalAssets.InexactFloat64()},
	}
	if err := writeRows(f, SummarySheet, nil, summary); err != nil {
		return err
	}

	inventory := make([][]interface{}, 0, len(r.InventorySummary))
	for _, line := range r.InventorySummary {
		inventory = append(inventory, []interface{}{
			line.ItemName, line.Stock, line.UnitPrice.InexactFloat64(), line.Value.InexactFloat64(),
		})
	}
	if err := writeRows(f, InventorySheet, []string{"Item", "Stock", "Unit price", "Value"}, inventory); err != nil {
		return err
	}

	sellers := make([][]interface{}, 0, len(r.TopSellingProducts))
	for _, p := range r.TopSellingProducts {
		sellers = append(sellers, []interface{}{p.ItemName, p.TotalUnits, p.TotalRevenue.InexactFloat64()})
	}
	if err := writeRows(f, TopSellersSheet, []string{"Item", "Units sold", "Revenue"}, sellers); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	index, err := f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if index < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}

	start := 1
	if len(headers) > 0 {
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return err
			}
		}
		start = 2
	}
	for i, row := range rows {
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, start+i)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
