package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/demo-credit/demo_credit/internal/ledger"
	"github.com/demo-credit/demo_credit/internal/notification"
	"github.com/demo-credit/demo_credit/internal/wallet"
)

type testNotifier struct {
	last notification.Message
	sent int
}

func (n *testNotifier) Send(_ context.Context, msg notification.Message) error {
	n.last = msg
	n.sent++
	return nil
}

func TestTransferSuccess(t *testing.T) {
	led := ledger.NewInMemory()
	walletSvc := wallet.NewService(led)
	notifier := &testNotifier{}
	svc := NewService(led, walletSvc, notifier)

	ctx := context.Background()
	from, _ := walletSvc.Create(ctx, wallet.CreateInput{OwnerID: uuid.NewString()})
	to, _ := walletSvc.Create(ctx, wallet.CreateInput{OwnerID: uuid.NewString()})

	ledger.SeedBalance(led, from.ID, 10_000)

	res, err := svc.Transfer(ctx, TransferInput{FromWalletID: from.ID, ToWalletID: to.ID, Amount: 2_000})
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if res.FromBalance != 8_000 || res.ToBalance != 2_000 {
		t.Fatalf("expected balances 8000/2000, got %d/%d", res.FromBalance, res.ToBalance)
	}
	if res.Transaction.Metadata[ledger.MetadataDestinationKey] != to.ID {
		t.Fatalf("expected destination metadata %s, got %v", to.ID, res.Transaction.Metadata)
	}
	if res.FromBalance+res.ToBalance != 10_000 {
		t.Fatalf("transfer must conserve funds, got total %d", res.FromBalance+res.ToBalance)
	}

	if notifier.sent != 1 {
		t.Fatalf("expected one notification, got %d", notifier.sent)
	}
	if notifier.last.Kind != notification.KindTransfer || notifier.last.Destination != to.OwnerID {
		t.Fatalf("unexpected notification: %+v", notifier.last)
	}
}

func TestTransferInsufficientFunds(t *testing.T) {
	led := ledger.NewInMemory()
	walletSvc := wallet.NewService(led)
	svc := NewService(led, walletSvc, nil)

	ctx := context.Background()
	from, _ := walletSvc.Create(ctx, wallet.CreateInput{OwnerID: uuid.NewString()})
	to, _ := walletSvc.Create(ctx, wallet.CreateInput{OwnerID: uuid.NewString()})
	ledger.SeedBalance(led, from.ID, 50)

	if _, err := svc.Transfer(ctx, TransferInput{FromWalletID: from.ID, ToWalletID: to.ID, Amount: 100}); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	fromBal, _ := led.Balance(ctx, from.ID)
	toBal, _ := led.Balance(ctx, to.ID)
	if fromBal != 50 || toBal != 0 {
		t.Fatalf("failed transfer must not move funds, got %d/%d", fromBal, toBal)
	}
}

func TestTransferToSelfRejected(t *testing.T) {
	led := ledger.NewInMemory()
	walletSvc := wallet.NewService(led)
	svc := NewService(led, walletSvc, nil)

	ctx := context.Background()
	w, _ := walletSvc.Create(ctx, wallet.CreateInput{OwnerID: uuid.NewString()})
	ledger.SeedBalance(led, w.ID, 500)

	if _, err := svc.Transfer(ctx, TransferInput{FromWalletID: w.ID, ToWalletID: w.ID, Amount: 100}); !errors.Is(err, ledger.ErrSameWallet) {
		t.Fatalf("expected ErrSameWallet, got %v", err)
	}
}

func TestTransferMissingDestination(t *testing.T) {
	led := ledger.NewInMemory()
	walletSvc := wallet.NewService(led)
	svc := NewService(led, walletSvc, nil)

	ctx := context.Background()
	from, _ := walletSvc.Create(ctx, wallet.CreateInput{OwnerID: uuid.NewString()})
	ledger.SeedBalance(led, from.ID, 500)

	if _, err := svc.Transfer(ctx, TransferInput{FromWalletID: from.ID, ToWalletID: uuid.NewString(), Amount: 100}); !errors.Is(err, ledger.ErrWalletNotFound) {
		t.Fatalf("expected ErrWalletNotFound, got %v", err)
	}

	balance, _ := led.Balance(ctx, from.ID)
	if balance != 500 {
		t.Fatalf("source balance must be untouched, got %d", balance)
	}
}
