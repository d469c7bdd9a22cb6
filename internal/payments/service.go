package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/demo-credit/demo_credit/internal/ledger"
	"github.com/demo-credit/demo_credit/internal/notification"
	"github.com/demo-credit/demo_credit/internal/wallet"
)

// Service executes wallet-to-wallet transfers against the ledger.
type Service struct {
	ledger        ledger.Ledger
	walletService *wallet.Service
	notifier      notification.Notifier
}

// NewService constructs a payment service.
func NewService(led ledger.Ledger, walletService *wallet.Service, notifier notification.Notifier) *Service {
	return &Service{ledger: led, walletService: walletService, notifier: notifier}
}

// TransferInput captures the data needed to move funds between wallets.
type TransferInput struct {
	FromWalletID string
	ToWalletID   string
	Amount       int64
}

// TransferResult describes the ledger outcome of a transfer.
type TransferResult struct {
	Transaction ledger.Transaction
	FromBalance int64
	ToBalance   int64
	CompletedAt time.Time
}

// Transfer atomically moves funds from the source to the destination wallet.
// Either both balances move and a completed record exists, or nothing does.
func (s *Service) Transfer(ctx context.Context, input TransferInput) (TransferResult, error) {
	rec, err := s.ledger.Transfer(ctx, input.FromWalletID, input.ToWalletID, input.Amount)
	if err != nil {
		return TransferResult{}, err
	}

	fromBalance, err := s.ledger.Balance(ctx, input.FromWalletID)
	if err != nil {
		return TransferResult{}, err
	}
	toBalance, err := s.ledger.Balance(ctx, input.ToWalletID)
	if err != nil {
		return TransferResult{}, err
	}

	result := TransferResult{
		Transaction: rec,
		FromBalance: fromBalance,
		ToBalance:   toBalance,
		CompletedAt: time.Now().UTC(),
	}

	if s.notifier != nil {
		if toWallet, err := s.walletService.Get(ctx, input.ToWalletID); err == nil {
			_ = s.notifier.Send(ctx, notification.Message{
				Kind:        notification.KindTransfer,
				Destination: toWallet.OwnerID,
				Body:        fmt.Sprintf("You received %d from wallet %s", input.Amount, input.FromWalletID),
			})
		}
	}

	return result, nil
}
