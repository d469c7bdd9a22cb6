package funding

import (
	"context"
	"fmt"
	"time"

	"github.com/demo-credit/demo_credit/internal/ledger"
	"github.com/demo-credit/demo_credit/internal/notification"
	"github.com/demo-credit/demo_credit/internal/wallet"
)

// Service coordinates deposits into and withdrawals out of wallets. External
// settlement of the moved funds happens outside this service; it records the
// ledger side only.
type Service struct {
	ledger   ledger.Ledger
	wallets  *wallet.Service
	notifier notification.Notifier
}

// NewService builds a funding service.
func NewService(ledgerBackend ledger.Ledger, wallets *wallet.Service, notifier notification.Notifier) (*Service, error) {
	if wallets == nil {
		return nil, fmt.Errorf("wallet service is required")
	}
	return &Service{ledger: ledgerBackend, wallets: wallets, notifier: notifier}, nil
}

// Result describes the outcome of a funding operation.
type Result struct {
	Transaction ledger.Transaction
	Balance     int64
	CompletedAt time.Time
}

// Deposit credits the wallet. The amount precondition is re-checked by the
// ledger, so a non-positive amount never reaches the store.
func (s *Service) Deposit(ctx context.Context, walletID string, amount int64) (Result, error) {
	rec, err := s.ledger.Deposit(ctx, walletID, amount)
	if err != nil {
		return Result{}, err
	}

	balance, err := s.ledger.Balance(ctx, walletID)
	if err != nil {
		return Result{}, err
	}

	s.notify(ctx, notification.KindDeposit, walletID, amount)

	return Result{Transaction: rec, Balance: balance, CompletedAt: time.Now().UTC()}, nil
}

// Withdraw debits the wallet if the committed balance covers the amount.
func (s *Service) Withdraw(ctx context.Context, walletID string, amount int64) (Result, error) {
	rec, err := s.ledger.Withdraw(ctx, walletID, amount)
	if err != nil {
		return Result{}, err
	}

	balance, err := s.ledger.Balance(ctx, walletID)
	if err != nil {
		return Result{}, err
	}

	s.notify(ctx, notification.KindWithdrawal, walletID, amount)

	return Result{Transaction: rec, Balance: balance, CompletedAt: time.Now().UTC()}, nil
}

func (s *Service) notify(ctx context.Context, kind, walletID string, amount int64) {
	if s.notifier == nil {
		return
	}
	w, err := s.wallets.Get(ctx, walletID)
	if err != nil {
		return
	}
	_ = s.notifier.Send(ctx, notification.Message{
		Kind:        kind,
		Destination: w.OwnerID,
		Body:        fmt.Sprintf("Wallet %s: %s of %d completed", walletID, kind, amount),
	})
}
