package handler

import (
	"errors"
	"time"

	"go-paper-ledger/internal/model"
	"go-paper-ledger/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// errorStatus maps domain errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrMalformedDate),
		errors.Is(err, model.ErrInvalidQuantity),
		errors.Is(err, model.ErrInvalidTransactionKind):
		return 400
	case errors.Is(err, model.ErrUnknownCatalogItem),
		errors.Is(err, model.ErrTransactionNotFound):
		return 404
	case errors.Is(err, model.ErrInsufficientFunds),
		errors.Is(err, model.ErrInsufficientStock):
		return 409
	default:
		return 500
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status == 500 {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// validationError describes the first failed field, or is empty when the
// payload is valid.
func validationError(payload interface{}) string {
	if errs := validator.ValidateStruct(payload); len(errs) > 0 {
		return errs[0].Error()
	}
	return ""
}

// asOfParam reads ?as_of=, defaulting to today.
func asOfParam(c *fiber.Ctx) (string, error) {
	value := c.Query("as_of")
	if value == "" {
		return model.FormatDate(time.Now()), nil
	}
	return model.NormalizeDate(value)
}
