package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/demo-credit/demo_credit/internal/ledger"
)

// Service exposes wallet provisioning and read-only queries backed by the
// ledger. Mutations that move money live in the funding and payments services.
type Service struct {
	ledger ledger.Ledger
}

// NewService builds a wallet service instance.
func NewService(led ledger.Ledger) *Service {
	return &Service{ledger: led}
}

// CreateInput captures data required to create a wallet.
type CreateInput struct {
	OwnerID string
}

// Create provisions an active zero-balance wallet for the owner. Each owner
// holds at most one wallet.
func (s *Service) Create(ctx context.Context, input CreateInput) (ledger.Wallet, error) {
	if _, err := uuid.Parse(input.OwnerID); err != nil {
		return ledger.Wallet{}, fmt.Errorf("owner id must be a UUID: %w", err)
	}
	return s.ledger.CreateWallet(ctx, input.OwnerID)
}

// Get retrieves wallet state.
func (s *Service) Get(ctx context.Context, id string) (ledger.Wallet, error) {
	return s.ledger.Wallet(ctx, id)
}

// Balance returns the committed ledger balance for the wallet. An unknown
// wallet reads as zero.
func (s *Service) Balance(ctx context.Context, id string) (Balance, error) {
	amount, err := s.ledger.Balance(ctx, id)
	if err != nil {
		return Balance{}, err
	}
	return Balance{WalletID: id, Amount: amount, AsOf: time.Now().UTC()}, nil
}

// Transactions lists the committed audit trail for the wallet.
func (s *Service) Transactions(ctx context.Context, id string) ([]ledger.Transaction, error) {
	return s.ledger.Transactions(ctx, id)
}
