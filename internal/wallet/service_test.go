package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/demo-credit/demo_credit/internal/ledger"
)

func TestServiceCreateAndBalance(t *testing.T) {
	led := ledger.NewInMemory()
	svc := NewService(led)

	ctx := context.Background()
	ownerID := uuid.NewString()
	w, err := svc.Create(ctx, CreateInput{OwnerID: ownerID})
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	fetched, err := svc.Get(ctx, w.ID)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if fetched.ID != w.ID || fetched.OwnerID != ownerID {
		t.Fatalf("expected wallet %s for owner %s, got %+v", w.ID, ownerID, fetched)
	}

	ledger.SeedBalance(led, w.ID, 2_500)

	balance, err := svc.Balance(ctx, w.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Amount != 2_500 {
		t.Fatalf("expected balance 2500, got %d", balance.Amount)
	}
}

func TestServiceCreateRejectsMalformedOwner(t *testing.T) {
	svc := NewService(ledger.NewInMemory())

	if _, err := svc.Create(context.Background(), CreateInput{OwnerID: "not-a-uuid"}); err == nil {
		t.Fatal("expected error for malformed owner id")
	}
}

func TestServiceCreateEnforcesOneWalletPerOwner(t *testing.T) {
	svc := NewService(ledger.NewInMemory())
	ctx := context.Background()
	ownerID := uuid.NewString()

	if _, err := svc.Create(ctx, CreateInput{OwnerID: ownerID}); err != nil {
		t.Fatalf("first wallet: %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{OwnerID: ownerID}); !errors.Is(err, ledger.ErrDuplicateOwner) {
		t.Fatalf("expected ErrDuplicateOwner, got %v", err)
	}
}

func TestServiceBalanceUnknownWalletIsZero(t *testing.T) {
	svc := NewService(ledger.NewInMemory())

	balance, err := svc.Balance(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Amount != 0 {
		t.Fatalf("expected zero balance for unknown wallet, got %d", balance.Amount)
	}
}
