package funding

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/demo-credit/demo_credit/internal/ledger"
)

// Handler exposes deposit/withdrawal HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a funding HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type fundingRequest struct {
	Amount int64 `json:"amount"`
}

// Deposit credits the wallet identified in the path.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	var req fundingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	result, err := h.service.Deposit(c.UserContext(), utils.CopyString(c.Params("walletId")), req.Amount)
	if err != nil {
		return mapLedgerError(err)
	}
	return c.Status(http.StatusCreated).JSON(fundingResponse(result))
}

// Withdraw debits the wallet identified in the path.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	var req fundingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	result, err := h.service.Withdraw(c.UserContext(), utils.CopyString(c.Params("walletId")), req.Amount)
	if err != nil {
		return mapLedgerError(err)
	}
	return c.Status(http.StatusCreated).JSON(fundingResponse(result))
}

func fundingResponse(result Result) fiber.Map {
	return fiber.Map{
		"transaction_id": result.Transaction.ID,
		"type":           result.Transaction.Type,
		"amount":         result.Transaction.Amount,
		"reference":      result.Transaction.Reference,
		"status":         result.Transaction.Status,
		"balance":        result.Balance,
		"completed_at":   result.CompletedAt,
	}
}

// mapLedgerError translates the ledger taxonomy to HTTP without leaking
// storage detail.
func mapLedgerError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrWalletNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ledger.ErrSameWallet):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrConflict):
		return fiber.NewError(http.StatusConflict, "operation conflicted with a concurrent request, retry")
	default:
		return fiber.NewError(http.StatusInternalServerError, "ledger operation failed")
	}
}
