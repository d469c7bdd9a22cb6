package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type inMemoryLedger struct {
	mu      sync.Mutex
	wallets map[string]Wallet
	owners  map[string]string // owner id -> wallet id
	records map[string][]Transaction

	// beforeFinalize, when set, runs after balances are staged but before the
	// unit commits. A non-nil return aborts the unit with nothing applied.
	beforeFinalize func() error
}

// NewInMemory creates a concurrency-safe in-memory ledger useful for unit
// tests. Each operation applies under one lock, mirroring the all-or-nothing
// semantics of the Postgres backend.
func NewInMemory() Ledger {
	return &inMemoryLedger{
		wallets: make(map[string]Wallet),
		owners:  make(map[string]string),
		records: make(map[string][]Transaction),
	}
}

func (l *inMemoryLedger) CreateWallet(_ context.Context, ownerID string) (Wallet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.owners[ownerID]; exists {
		return Wallet{}, ErrDuplicateOwner
	}

	w := Wallet{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Balance:   0,
		Status:    WalletStatusActive,
		CreatedAt: time.Now().UTC(),
	}
	l.wallets[w.ID] = w
	l.owners[ownerID] = w.ID
	return w, nil
}

func (l *inMemoryLedger) Wallet(_ context.Context, walletID string) (Wallet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.wallets[walletID]
	if !ok {
		return Wallet{}, ErrWalletNotFound
	}
	return w, nil
}

func (l *inMemoryLedger) Balance(_ context.Context, walletID string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Absence reads as an empty wallet for balance queries.
	return l.wallets[walletID].Balance, nil
}

func (l *inMemoryLedger) Deposit(_ context.Context, walletID string, amount int64) (Transaction, error) {
	if amount <= 0 {
		return Transaction{}, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.wallets[walletID]
	if !ok {
		return Transaction{}, ErrWalletNotFound
	}

	rec := newRecord(walletID, TypeDeposit, amount, nil)
	w.Balance += amount

	if err := l.finalize(); err != nil {
		return Transaction{}, err
	}

	l.wallets[walletID] = w
	l.records[walletID] = append(l.records[walletID], rec)
	return rec, nil
}

func (l *inMemoryLedger) Withdraw(_ context.Context, walletID string, amount int64) (Transaction, error) {
	if amount <= 0 {
		return Transaction{}, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.wallets[walletID]
	if !ok {
		return Transaction{}, ErrWalletNotFound
	}
	if w.Balance < amount {
		return Transaction{}, ErrInsufficientFunds
	}

	rec := newRecord(walletID, TypeWithdrawal, amount, nil)
	w.Balance -= amount

	if err := l.finalize(); err != nil {
		return Transaction{}, err
	}

	l.wallets[walletID] = w
	l.records[walletID] = append(l.records[walletID], rec)
	return rec, nil
}

func (l *inMemoryLedger) Transfer(_ context.Context, fromWalletID, toWalletID string, amount int64) (Transaction, error) {
	if amount <= 0 {
		return Transaction{}, ErrInvalidAmount
	}
	if fromWalletID == toWalletID {
		return Transaction{}, ErrSameWallet
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	from, ok := l.wallets[fromWalletID]
	if !ok {
		return Transaction{}, ErrWalletNotFound
	}
	to, ok := l.wallets[toWalletID]
	if !ok {
		return Transaction{}, ErrWalletNotFound
	}
	if from.Balance < amount {
		return Transaction{}, ErrInsufficientFunds
	}

	rec := newRecord(fromWalletID, TypeTransfer, amount, map[string]string{MetadataDestinationKey: toWalletID})
	from.Balance -= amount
	to.Balance += amount

	if err := l.finalize(); err != nil {
		return Transaction{}, err
	}

	l.wallets[fromWalletID] = from
	l.wallets[toWalletID] = to
	l.records[fromWalletID] = append(l.records[fromWalletID], rec)
	return rec, nil
}

func (l *inMemoryLedger) Transactions(_ context.Context, walletID string) ([]Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := make([]Transaction, len(l.records[walletID]))
	copy(records, l.records[walletID])
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// finalize runs the injected failure hook. Callers only publish staged state
// after it returns nil, so a hook error leaves the ledger untouched.
func (l *inMemoryLedger) finalize() error {
	if l.beforeFinalize != nil {
		return l.beforeFinalize()
	}
	return nil
}

func newRecord(walletID, txType string, amount int64, metadata map[string]string) Transaction {
	return Transaction{
		ID:        uuid.NewString(),
		WalletID:  walletID,
		Type:      txType,
		Amount:    amount,
		Reference: NewReference(txType),
		Status:    StatusCompleted,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
}
