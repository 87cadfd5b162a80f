package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mbongo-pay/mbongo_pay/internal/middleware"
	"github.com/mbongo-pay/mbongo_pay/internal/transfer"
)

// RegisterTransferRoutes wires the transfer boundary. The idempotency and
// rate-limit guards only apply here; reads are unrestricted.
func RegisterTransferRoutes(r fiber.Router, h *transfer.Handler, d Deps) {
	handlers := []fiber.Handler{}
	if d.Cache != nil {
		handlers = append(handlers,
			middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger),
			middleware.TransferRateLimit(d.Cache, d.Cfg.TransferRPM),
		)
	}
	handlers = append(handlers, h.Create)

	r.Post("/transfers", handlers...)
}
