package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/demo-credit/demo_credit/internal/wallet"
)

// RegisterWalletRoutes wires wallet creation and read endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Post("/wallets", h.Create)
	r.Get("/wallets/:walletId/balance", h.Balance)
	r.Get("/wallets/:walletId/transactions", h.Transactions)
}
