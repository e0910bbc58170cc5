package handler

import (
	"strconv"
	"strings"

	"go-paper-ledger/internal/model"
	"go-paper-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type QuoteHandler struct {
	pricing service.PricingService
	history service.QuoteHistorySearcher
}

func NewQuoteHandler(pricing service.PricingService, history service.QuoteHistorySearcher) *QuoteHandler {
	return &QuoteHandler{pricing: pricing, history: history}
}

// QuoteRequest carries either structured items or "name: quantity" lines.
type QuoteRequest struct {
	AsOfDate string            `json:"as_of_date" validate:"omitempty,isodate"`
	Items    []model.QuoteItem `json:"items" validate:"dive"`
	Lines    string            `json:"lines"`
}

// CreateQuote prices the requested items with bulk discounts. Nothing is
// written to the ledger.
// POST /api/v1/quotes
func (h *QuoteHandler) CreateQuote(c *fiber.Ctx) error {
	var req QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if msg := validationError(&req); msg != "" {
		return c.Status(422).JSON(fiber.Map{"error": msg})
	}

	items := req.Items
	if len(items) == 0 {
		items = service.ParseQuoteLines(req.Lines)
	}
	if len(items) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "items or lines are required"})
	}

	asOf := req.AsOfDate
	if asOf != "" {
		asOf, _ = model.NormalizeDate(asOf)
	}
	return c.JSON(h.pricing.Quote(items, asOf))
}

// SearchHistory looks up past quotes matching all comma-separated terms.
// GET /api/v1/quotes/history?terms=cardstock,festival&limit=5
func (h *QuoteHandler) SearchHistory(c *fiber.Ctx) error {
	var terms []string
	for _, t := range strings.Split(c.Query("terms"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	limit, err := strconv.Atoi(c.Query("limit", "5"))
	if err != nil || limit <= 0 {
		limit = 5
	}

	records, err := h.history.SearchHistory(c.UserContext(), terms, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to search quote history"})
	}
	return c.JSON(records)
}
