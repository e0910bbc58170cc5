package service

import (
	"log/slog"
	"time"

	"go-paper-ledger/internal/model"
)

var now = time.Now

// EstimateDelivery returns the supplier delivery date for an order of quantity
// units placed on orderDate. An unparseable orderDate is replaced by today.
func EstimateDelivery(orderDate string, quantity int, logger *slog.Logger) string {
	placed, err := model.ParseDate(orderDate)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("invalid order date, using current date", "order_date", orderDate, "error", err)
		placed = now()
	}
	return model.FormatDate(placed.AddDate(0, 0, leadTimeDays(quantity)))
}

func leadTimeDays(quantity int) int {
	switch {
	case quantity <= 10:
		return 0
	case quantity <= 100:
		return 1
	case quantity <= 1000:
		return 4
	default:
		return 7
	}
}
