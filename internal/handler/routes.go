package handler

import (
	"go-paper-ledger/internal/middleware"
	"go-paper-ledger/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth      *AuthHandler
	Inventory *InventoryHandler
	Report    *ReportHandler
	Quote     *QuoteHandler
	Request   *RequestHandler
}

// SetupRoutes mounts the API under /api/v1 and, when hub is set, the /ws
// ledger event stream.
func SetupRoutes(app *fiber.App, h Handlers, jwtSecret []byte, hub *ws.Hub) {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	api.Post("/auth/login", h.Auth.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(jwtSecret))
	write := middleware.RequirePrivilege(middleware.PrivilegeLedgerWrite)

	protected.Get("/catalog", h.Inventory.GetCatalog)
	protected.Get("/inventory", h.Inventory.GetInventory)
	protected.Get("/inventory/stock", h.Inventory.GetItemStock)
	protected.Get("/cash", h.Inventory.GetCash)
	protected.Get("/delivery-estimate", h.Inventory.GetDeliveryEstimate)

	protected.Get("/transactions", h.Inventory.GetTransactions)
	protected.Get("/transactions/:id", h.Inventory.GetTransaction)
	protected.Post("/stock-orders", write, h.Inventory.CreateStockOrder)
	protected.Post("/sales", write, h.Inventory.CreateSale)

	protected.Get("/reports/financial", h.Report.GetFinancialReport)
	protected.Get("/reports/financial.xlsx", h.Report.ExportFinancialReport)

	protected.Post("/quotes", h.Quote.CreateQuote)
	protected.Get("/quotes/history", h.Quote.SearchHistory)

	protected.Post("/requests", write, h.Request.HandleRequest)

	if hub == nil {
		return
	}

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		hub.Register <- c
		defer func() { hub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
