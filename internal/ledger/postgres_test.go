package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

// Malformed wallet ids are rejected before the store is touched, so a ledger
// without a backing pool is enough to cover them.
func TestPostgresLedgerMalformedWalletIDs(t *testing.T) {
	led := NewPostgresLedger(nil)
	ctx := context.Background()
	validID := uuid.NewString()

	balance, err := led.Balance(ctx, "not-a-uuid")
	if err != nil || balance != 0 {
		t.Fatalf("expected zero balance for malformed id, got %d (%v)", balance, err)
	}

	if _, err := led.Wallet(ctx, "not-a-uuid"); !errors.Is(err, ErrWalletNotFound) {
		t.Fatalf("wallet: expected ErrWalletNotFound, got %v", err)
	}
	if _, err := led.Deposit(ctx, "not-a-uuid", 100); !errors.Is(err, ErrWalletNotFound) {
		t.Fatalf("deposit: expected ErrWalletNotFound, got %v", err)
	}
	if _, err := led.Withdraw(ctx, "not-a-uuid", 100); !errors.Is(err, ErrWalletNotFound) {
		t.Fatalf("withdraw: expected ErrWalletNotFound, got %v", err)
	}
	if _, err := led.Transfer(ctx, "not-a-uuid", validID, 100); !errors.Is(err, ErrWalletNotFound) {
		t.Fatalf("transfer from malformed source: expected ErrWalletNotFound, got %v", err)
	}
	if _, err := led.Transfer(ctx, validID, "not-a-uuid", 100); !errors.Is(err, ErrWalletNotFound) {
		t.Fatalf("transfer to malformed destination: expected ErrWalletNotFound, got %v", err)
	}

	records, err := led.Transactions(ctx, "not-a-uuid")
	if err != nil || len(records) != 0 {
		t.Fatalf("expected empty history for malformed id, got %v (%v)", records, err)
	}

	// Amount validation still comes first.
	if _, err := led.Deposit(ctx, "not-a-uuid", 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestPostgresLedgerMalformedOwnerID(t *testing.T) {
	led := NewPostgresLedger(nil)

	if _, err := led.CreateWallet(context.Background(), "not-a-uuid"); err == nil {
		t.Fatal("expected error for malformed owner id")
	}
}
