package agent

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"go-paper-ledger/internal/service"

	"github.com/shopspring/decimal"
)

//go:embed templates/*
var templateFS embed.FS

// TemplateComposer renders the customer-facing reply for a pipeline result.
type TemplateComposer struct {
	templates *template.Template
}

func NewTemplateComposer() (*TemplateComposer, error) {
	tmpl, err := template.New("response").Funcs(template.FuncMap{
		"money": func(d decimal.Decimal) string { return "$" + d.StringFixed(2) },
		"percent": func(d decimal.Decimal) string {
			return d.Mul(decimal.NewFromInt(100)).StringFixed(0) + "%"
		},
		"positive": func(d decimal.Decimal) bool { return d.IsPositive() },
	}).ParseFS(templateFS, "templates/response.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse response template: %w", err)
	}
	return &TemplateComposer{templates: tmpl}, nil
}

func (c *TemplateComposer) Compose(result *service.PipelineResult) (string, error) {
	data := struct {
		Status       service.PipelineStatus
		Date         string
		Lines        []service.OrderLine
		Failures     []service.LineFailure
		Notes        []string
		Total        decimal.Decimal
		DeliveryDate string
	}{
		Status:       result.Status,
		Date:         result.Request.Date,
		Lines:        result.Order.Lines,
		Failures:     result.Failures(),
		Notes:        result.Notes(),
		Total:        result.Order.Total,
		DeliveryDate: result.Order.DeliveryDate,
	}

	var buf bytes.Buffer
	if err := c.templates.ExecuteTemplate(&buf, "response.tmpl", data); err != nil {
		return "", fmt.Errorf("render response: %w", err)
	}
	return buf.String(), nil
}
