package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidAmount occurs when an operation is requested with a zero or
	// negative amount. Rejected before any store interaction.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrWalletNotFound indicates the referenced wallet does not exist.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrInsufficientFunds occurs when the source wallet lacks available balance
	// to cover a requested withdrawal or transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSameWallet indicates a transfer where source and destination are the
	// same wallet.
	ErrSameWallet = errors.New("source and destination wallets are identical")

	// ErrDuplicateOwner indicates the owner already holds an active wallet.
	ErrDuplicateOwner = errors.New("owner already has a wallet")

	// ErrConflict indicates the store aborted the operation due to concurrent
	// contention. The caller may retry.
	ErrConflict = errors.New("transaction aborted due to concurrent conflict")
)

const (
	// TypeDeposit marks a credit funded from outside the ledger.
	TypeDeposit = "deposit"
	// TypeWithdrawal marks a debit settled outside the ledger.
	TypeWithdrawal = "withdrawal"
	// TypeTransfer marks a wallet-to-wallet movement.
	TypeTransfer = "transfer"

	// StatusPending marks a transaction record awaiting finalization inside its
	// atomic unit. Never visible on a committed operation.
	StatusPending = "pending"
	// StatusCompleted marks a finalized transaction record.
	StatusCompleted = "completed"
	// StatusFailed marks a record abandoned by a rolled-back unit.
	StatusFailed = "failed"

	// WalletStatusActive is the status assigned to every newly created wallet.
	WalletStatusActive = "active"

	// MetadataDestinationKey is the metadata field carrying the counterparty
	// wallet on transfer records.
	MetadataDestinationKey = "destination_wallet_id"
)

// Wallet is a balance-holding account owned by a single user.
type Wallet struct {
	ID        string
	OwnerID   string
	Balance   int64
	Status    string
	CreatedAt time.Time
}

// Transaction is an immutable audit record of one balance mutation. Transfers
// carry the destination wallet in Metadata under MetadataDestinationKey.
type Transaction struct {
	ID        string
	WalletID  string
	Type      string
	Amount    int64
	Reference string
	Status    string
	Metadata  map[string]string
	CreatedAt time.Time
}

// Ledger defines the contract implemented by ledger backends (e.g. Postgres).
// Every mutating operation is one atomic unit: it commits entirely or leaves
// no visible effect.
type Ledger interface {
	CreateWallet(ctx context.Context, ownerID string) (Wallet, error)
	Wallet(ctx context.Context, walletID string) (Wallet, error)
	Balance(ctx context.Context, walletID string) (int64, error)
	Deposit(ctx context.Context, walletID string, amount int64) (Transaction, error)
	Withdraw(ctx context.Context, walletID string, amount int64) (Transaction, error)
	Transfer(ctx context.Context, fromWalletID, toWalletID string, amount int64) (Transaction, error)
	Transactions(ctx context.Context, walletID string) ([]Transaction, error)
}

var referencePrefixes = map[string]string{
	TypeDeposit:    "DEP-",
	TypeWithdrawal: "WTH-",
	TypeTransfer:   "TRF-",
}

// NewReference derives a unique human-auditable reference for a transaction of
// the given type, e.g. DEP-<uuid>.
func NewReference(txType string) string {
	return referencePrefixes[txType] + uuid.NewString()
}
