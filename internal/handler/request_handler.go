package handler

import (
	"go-paper-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type RequestHandler struct {
	pipeline service.PipelineService
}

func NewRequestHandler(pipeline service.PipelineService) *RequestHandler {
	return &RequestHandler{pipeline: pipeline}
}

type CustomerRequestBody struct {
	Text  string                `json:"text"`
	Date  string                `json:"date" validate:"omitempty,isodate"`
	Items []service.ItemRequest `json:"items" validate:"dive"`
}

// HandleRequest runs a customer request through inventory, pricing and
// ordering. The pipeline outcome is always in the body; exhausted retries
// answer 503.
// POST /api/v1/requests
func (h *RequestHandler) HandleRequest(c *fiber.Ctx) error {
	var body CustomerRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if msg := validationError(&body); msg != "" {
		return c.Status(422).JSON(fiber.Map{"error": msg})
	}
	if body.Text == "" && len(body.Items) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "text or items are required"})
	}

	resp := h.pipeline.Handle(c.UserContext(), service.CustomerRequest{
		Text:  body.Text,
		Date:  body.Date,
		Items: body.Items,
	})

	status := 200
	if resp.Status == service.StatusExhausted {
		status = 503
	}
	return c.Status(status).JSON(resp)
}
