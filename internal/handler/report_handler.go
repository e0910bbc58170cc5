package handler

import (
	"bytes"

	"go-paper-ledger/internal/report"
	"go-paper-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	state service.StateService
}

func NewReportHandler(state service.StateService) *ReportHandler {
	return &ReportHandler{state: state}
}

// GetFinancialReport returns cash, inventory value and top sellers as of ?as_of=.
// GET /api/v1/reports/financial
func (h *ReportHandler) GetFinancialReport(c *fiber.Ctx) error {
	asOf, err := asOfParam(c)
	if err != nil {
		return errorResponse(c, err)
	}

	r, err := h.state.FinancialReport(c.UserContext(), asOf)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(r)
}

// ExportFinancialReport streams the same report as an xlsx workbook.
// GET /api/v1/reports/financial.xlsx
func (h *ReportHandler) ExportFinancialReport(c *fiber.Ctx) error {
	asOf, err := asOfParam(c)
	if err != nil {
		return errorResponse(c, err)
	}

	r, err := h.state.FinancialReport(c.UserContext(), asOf)
	if err != nil {
		return errorResponse(c, err)
	}

	var buf bytes.Buffer
	if err := report.WriteFinancialReport(&buf, r); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to write Excel file"})
	}

	c.Set(fiber.HeaderContentType, report.ContentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+report.FileName(r.AsOfDate))
	return c.Send(buf.Bytes())
}
