package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/demo-credit/demo_credit/internal/payments"
)

// RegisterPaymentRoutes wires the wallet-to-wallet transfer endpoint.
func RegisterPaymentRoutes(r fiber.Router, h *payments.Handler) {
	r.Post("/transfers", h.Transfer)
}
