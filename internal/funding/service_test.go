package funding

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
	messages []notification.Message
}

func (n *testNotifier) Send(_ context.Context, msg notification.Message) error {
	n.messages = append(n.messages, msg)
	return nil
}

func newTestService(t *testing.T) (*Service, *wallet.Service, ledger.Ledger, *testNotifier) {
	t.Helper()
	led := ledger.NewInMemory()
	walletSvc := wallet.NewService(led)
	notifier := &testNotifier{}
	svc, err := NewService(led, walletSvc, notifier)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, walletSvc, led, notifier
}

func TestDepositThenWithdraw(t *testing.T) {
	svc, walletSvc, _, notifier := newTestService(t)
	ctx := context.Background()

	w, err := walletSvc.Create(ctx, wallet.CreateInput{OwnerID: uuid.NewString()})
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	deposit, err := svc.Deposit(ctx, w.ID, 5_000)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if deposit.Transaction.Type != ledger.TypeDeposit || deposit.Balance != 5_000 {
		t.Fatalf("unexpected deposit outcome: %+v", deposit)
	}

	withdrawal, err := svc.Withdraw(ctx, w.ID, 1_500)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if withdrawal.Balance != 3_500 {
		t.Fatalf("expected balance 3500, got %d", withdrawal.Balance)
	}

	if len(notifier.messages) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifier.messages))
	}
	if notifier.messages[0].Kind != notification.KindDeposit || notifier.messages[1].Kind != notification.KindWithdrawal {
		t.Fatalf("unexpected notification kinds: %+v", notifier.messages)
	}
	if notifier.messages[0].Destination != w.OwnerID {
		t.Fatalf("expected notification for owner %s, got %s", w.OwnerID, notifier.messages[0].Destination)
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	svc, walletSvc, led, notifier := newTestService(t)
	ctx := context.Background()

	w, _ := walletSvc.Create(ctx, wallet.CreateInput{OwnerID: uuid.NewString()})
	ledger.SeedBalance(led, w.ID, 100)

	if _, err := svc.Withdraw(ctx, w.ID, 250); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	balance, _ := led.Balance(ctx, w.ID)
	if balance != 100 {
		t.Fatalf("balance must be untouched, got %d", balance)
	}
	if len(notifier.messages) != 0 {
		t.Fatalf("failed withdrawal must not notify, got %d messages", len(notifier.messages))
	}
}

func TestDepositUnknownWallet(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	if _, err := svc.Deposit(context.Background(), uuid.NewString(), 100); !errors.Is(err, ledger.ErrWalletNotFound) {
		t.Fatalf("expected ErrWalletNotFound, got %v", err)
	}
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	svc, walletSvc, _, _ := newTestService(t)
	ctx := context.Background()

	w, _ := walletSvc.Create(ctx, wallet.CreateInput{OwnerID: uuid.NewString()})

	if _, err := svc.Deposit(ctx, w.ID, 0); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
