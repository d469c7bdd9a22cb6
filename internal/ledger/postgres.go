package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLedger persists wallets and transaction records in PostgreSQL. Each
// mutating operation runs inside a single database transaction with row-level
// locks, so concurrent writers against the same wallet serialize on the store.
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgresLedger constructs a Postgres-backed ledger implementation.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// CreateWallet inserts an active wallet with a zero balance for the owner.
func (l *PostgresLedger) CreateWallet(ctx context.Context, ownerID string) (Wallet, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return Wallet{}, fmt.Errorf("parse owner id: %w", err)
	}

	w := Wallet{
		ID:        uuid.NewString(),
		OwnerID:   owner.String(),
		Balance:   0,
		Status:    WalletStatusActive,
		CreatedAt: time.Now().UTC(),
	}

	_, err = l.db.Exec(ctx, `INSERT INTO wallets (id, owner_id, balance, status, created_at)
        VALUES ($1, $2, $3, $4, $5)`, w.ID, owner, w.Balance, w.Status, w.CreatedAt)
	if err != nil {
		return Wallet{}, translateStoreError(err)
	}
	return w, nil
}

// Wallet fetches wallet state by identifier.
func (l *PostgresLedger) Wallet(ctx context.Context, walletID string) (Wallet, error) {
	if !validWalletID(walletID) {
		return Wallet{}, ErrWalletNotFound
	}
	row := l.db.QueryRow(ctx, `SELECT id, owner_id, balance, status, created_at
        FROM wallets WHERE id = $1`, walletID)

	var w Wallet
	var id, owner uuid.UUID
	if err := row.Scan(&id, &owner, &w.Balance, &w.Status, &w.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrWalletNotFound
		}
		return Wallet{}, translateStoreError(err)
	}
	w.ID = id.String()
	w.OwnerID = owner.String()
	w.CreatedAt = w.CreatedAt.UTC()
	return w, nil
}

// Balance returns the committed balance for the wallet. A missing wallet reads
// as zero: balance queries treat absence as an empty wallet, not an error.
func (l *PostgresLedger) Balance(ctx context.Context, walletID string) (int64, error) {
	// A malformed identifier cannot name an existing wallet.
	if !validWalletID(walletID) {
		return 0, nil
	}
	var balance int64
	err := l.db.QueryRow(ctx, `SELECT balance FROM wallets WHERE id = $1`, walletID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, translateStoreError(err)
	}
	return balance, nil
}

// Deposit credits the wallet and records a completed deposit transaction, all
// within one atomic unit. Deposits never fail on balance.
func (l *PostgresLedger) Deposit(ctx context.Context, walletID string, amount int64) (Transaction, error) {
	if amount <= 0 {
		return Transaction{}, ErrInvalidAmount
	}
	if !validWalletID(walletID) {
		return Transaction{}, ErrWalletNotFound
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Transaction{}, translateStoreError(err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if _, err := lockWallet(ctx, tx, walletID); err != nil {
		return Transaction{}, err
	}

	rec, err := insertPendingTransaction(ctx, tx, walletID, TypeDeposit, amount, nil)
	if err != nil {
		return Transaction{}, err
	}

	if _, err := tx.Exec(ctx, `UPDATE wallets SET balance = balance + $1 WHERE id = $2`, amount, walletID); err != nil {
		return Transaction{}, translateStoreError(err)
	}

	if err := completeTransaction(ctx, tx, rec.ID); err != nil {
		return Transaction{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Transaction{}, translateStoreError(err)
	}

	rec.Status = StatusCompleted
	return rec, nil
}

// Withdraw debits the wallet after verifying sufficient balance against the
// row read under lock inside the same transaction. Two concurrent withdrawals
// therefore cannot both observe the pre-decrement balance.
func (l *PostgresLedger) Withdraw(ctx context.Context, walletID string, amount int64) (Transaction, error) {
	if amount <= 0 {
		return Transaction{}, ErrInvalidAmount
	}
	if !validWalletID(walletID) {
		return Transaction{}, ErrWalletNotFound
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Transaction{}, translateStoreError(err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	balance, err := lockWallet(ctx, tx, walletID)
	if err != nil {
		return Transaction{}, err
	}
	if balance < amount {
		return Transaction{}, ErrInsufficientFunds
	}

	rec, err := insertPendingTransaction(ctx, tx, walletID, TypeWithdrawal, amount, nil)
	if err != nil {
		return Transaction{}, err
	}

	if _, err := tx.Exec(ctx, `UPDATE wallets SET balance = balance - $1 WHERE id = $2`, amount, walletID); err != nil {
		return Transaction{}, translateStoreError(err)
	}

	if err := completeTransaction(ctx, tx, rec.ID); err != nil {
		return Transaction{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Transaction{}, translateStoreError(err)
	}

	rec.Status = StatusCompleted
	return rec, nil
}

// Transfer atomically moves funds between two wallets, writing one transfer
// record against the source with the destination captured in metadata. The sum
// of the two balances is unchanged by a committed transfer.
func (l *PostgresLedger) Transfer(ctx context.Context, fromWalletID, toWalletID string, amount int64) (Transaction, error) {
	if amount <= 0 {
		return Transaction{}, ErrInvalidAmount
	}
	if fromWalletID == toWalletID {
		return Transaction{}, ErrSameWallet
	}
	if !validWalletID(fromWalletID) || !validWalletID(toWalletID) {
		return Transaction{}, ErrWalletNotFound
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Transaction{}, translateStoreError(err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	// Lock both rows in identifier order so two opposing transfers between the
	// same pair of wallets cannot deadlock.
	first, second := fromWalletID, toWalletID
	if second < first {
		first, second = second, first
	}
	balances := map[string]int64{}
	for _, id := range []string{first, second} {
		balance, err := lockWallet(ctx, tx, id)
		if err != nil {
			return Transaction{}, err
		}
		balances[id] = balance
	}

	if balances[fromWalletID] < amount {
		return Transaction{}, ErrInsufficientFunds
	}

	metadata := map[string]string{MetadataDestinationKey: toWalletID}
	rec, err := insertPendingTransaction(ctx, tx, fromWalletID, TypeTransfer, amount, metadata)
	if err != nil {
		return Transaction{}, err
	}

	if _, err := tx.Exec(ctx, `UPDATE wallets SET balance = balance - $1 WHERE id = $2`, amount, fromWalletID); err != nil {
		return Transaction{}, translateStoreError(err)
	}
	if _, err := tx.Exec(ctx, `UPDATE wallets SET balance = balance + $1 WHERE id = $2`, amount, toWalletID); err != nil {
		return Transaction{}, translateStoreError(err)
	}

	if err := completeTransaction(ctx, tx, rec.ID); err != nil {
		return Transaction{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Transaction{}, translateStoreError(err)
	}

	rec.Status = StatusCompleted
	return rec, nil
}

// Transactions lists the committed audit records for a wallet, newest first.
func (l *PostgresLedger) Transactions(ctx context.Context, walletID string) ([]Transaction, error) {
	if !validWalletID(walletID) {
		return nil, nil
	}
	rows, err := l.db.Query(ctx, `SELECT id, wallet_id, type, amount, reference, status, metadata, created_at
        FROM transactions WHERE wallet_id = $1 AND status = $2 ORDER BY created_at DESC`, walletID, StatusCompleted)
	if err != nil {
		return nil, translateStoreError(err)
	}
	defer rows.Close()

	var records []Transaction
	for rows.Next() {
		var rec Transaction
		var id, wallet uuid.UUID
		var metadata []byte
		if err := rows.Scan(&id, &wallet, &rec.Type, &rec.Amount, &rec.Reference, &rec.Status, &metadata, &rec.CreatedAt); err != nil {
			return nil, translateStoreError(err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &rec.Metadata); err != nil {
				return nil, fmt.Errorf("decode transaction metadata: %w", err)
			}
		}
		rec.ID = id.String()
		rec.WalletID = wallet.String()
		rec.CreatedAt = rec.CreatedAt.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, translateStoreError(err)
	}
	return records, nil
}

// lockWallet reads the wallet row FOR UPDATE, returning its current balance.
func lockWallet(ctx context.Context, tx pgx.Tx, walletID string) (int64, error) {
	var balance int64
	err := tx.QueryRow(ctx, `SELECT balance FROM wallets WHERE id = $1 FOR UPDATE`, walletID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrWalletNotFound
		}
		return 0, translateStoreError(err)
	}
	return balance, nil
}

func insertPendingTransaction(ctx context.Context, tx pgx.Tx, walletID, txType string, amount int64, metadata map[string]string) (Transaction, error) {
	rec := Transaction{
		ID:        uuid.NewString(),
		WalletID:  walletID,
		Type:      txType,
		Amount:    amount,
		Reference: NewReference(txType),
		Status:    StatusPending,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	var encodedMetadata []byte
	if metadata != nil {
		var err error
		if encodedMetadata, err = json.Marshal(metadata); err != nil {
			return Transaction{}, fmt.Errorf("encode transaction metadata: %w", err)
		}
	}
	_, err := tx.Exec(ctx, `INSERT INTO transactions (id, wallet_id, type, amount, reference, status, metadata, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.WalletID, rec.Type, rec.Amount, rec.Reference, rec.Status, encodedMetadata, rec.CreatedAt)
	if err != nil {
		return Transaction{}, translateStoreError(err)
	}
	return rec, nil
}

func completeTransaction(ctx context.Context, tx pgx.Tx, recordID string) error {
	if _, err := tx.Exec(ctx, `UPDATE transactions SET status = $1 WHERE id = $2`, StatusCompleted, recordID); err != nil {
		return translateStoreError(err)
	}
	return nil
}

// translateStoreError maps driver-level faults into the ledger error taxonomy
// so raw Postgres error codes never leak past this package.
func translateStoreError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "owner") {
				return ErrDuplicateOwner
			}
			return ErrConflict
		case "23514": // check_violation, wallets.balance >= 0
			return ErrInsufficientFunds
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return ErrConflict
		case "22P02": // invalid_text_representation, id failed UUID parsing
			return ErrWalletNotFound
		}
	}
	return fmt.Errorf("ledger storage: %w", err)
}

// validWalletID reports whether the identifier can possibly name a wallet.
// Wallet ids are UUIDs; anything else is nonexistent by construction and must
// never reach the store as a query parameter.
func validWalletID(walletID string) bool {
	_, err := uuid.Parse(walletID)
	return err == nil
}
