package wallet

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/demo-credit/demo_credit/internal/ledger"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	OwnerID string `json:"owner_id"`
}

type walletResponse struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Balance int64  `json:"balance"`
	Status  string `json:"status"`
}

// Create provisions a wallet for the supplied owner.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	w, err := h.service.Create(c.UserContext(), CreateInput{OwnerID: req.OwnerID})
	if err != nil {
		if errors.Is(err, ledger.ErrDuplicateOwner) {
			return fiber.NewError(http.StatusConflict, err.Error())
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(walletResponse{
		ID:      w.ID,
		OwnerID: w.OwnerID,
		Balance: w.Balance,
		Status:  w.Status,
	})
}

// Balance returns the committed wallet balance.
func (h *Handler) Balance(c *fiber.Ctx) error {
	walletID := utils.CopyString(c.Params("walletId"))
	balance, err := h.service.Balance(c.UserContext(), walletID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "balance lookup failed")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"wallet_id": walletID,
		"balance":   balance.Amount,
		"timestamp": balance.AsOf,
	})
}

// Transactions lists the wallet's committed audit trail.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	walletID := utils.CopyString(c.Params("walletId"))
	records, err := h.service.Transactions(c.UserContext(), walletID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "transaction lookup failed")
	}
	out := make([]fiber.Map, 0, len(records))
	for _, rec := range records {
		entry := fiber.Map{
			"id":         rec.ID,
			"wallet_id":  rec.WalletID,
			"type":       rec.Type,
			"amount":     rec.Amount,
			"reference":  rec.Reference,
			"status":     rec.Status,
			"created_at": rec.CreatedAt,
		}
		if len(rec.Metadata) > 0 {
			entry["metadata"] = rec.Metadata
		}
		out = append(out, entry)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"wallet_id": walletID, "transactions": out})
}
