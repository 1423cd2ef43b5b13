package postgres

import (
	"context"
	"errors"
	"fmt"

	"delivery-escrow/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Create inserts a ledger account within a transaction. If the address is
// already taken it returns domain.ErrRecordExists without aborting tx, so the
// caller can lock the existing row and continue. A concurrent insert of the
// same address blocks until the other transaction ends.
func (r *AccountRepo) Create(ctx context.Context, tx pgx.Tx, a *domain.Account) error {
	query := `INSERT INTO ledger_accounts (address, kind, encrypted_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (address) DO NOTHING`

	tag, err := tx.Exec(ctx, query, a.Address, string(a.Kind), a.EncryptedBalance, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrRecordExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordExists
	}
	return nil
}

// GetByAddress fetches an account (non-locking read).
func (r *AccountRepo) GetByAddress(ctx context.Context, addr string) (*domain.Account, error) {
	query := `SELECT address, kind, encrypted_balance, created_at, updated_at
		FROM ledger_accounts WHERE address = $1`

	return scanAccount(r.pool.QueryRow(ctx, query, addr))
}

// GetByAddressForUpdate fetches an account with pessimistic locking.
// This MUST be called within a transaction.
func (r *AccountRepo) GetByAddressForUpdate(ctx context.Context, tx pgx.Tx, addr string) (*domain.Account, error) {
	query := `SELECT address, kind, encrypted_balance, created_at, updated_at
		FROM ledger_accounts WHERE address = $1 FOR UPDATE`

	return scanAccount(tx.QueryRow(ctx, query, addr))
}

// UpdateBalance updates an account's encrypted balance within a transaction.
func (r *AccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, addr string, encryptedBalance string) error {
	query := `UPDATE ledger_accounts SET encrypted_balance = $1, updated_at = NOW() WHERE address = $2`

	tag, err := tx.Exec(ctx, query, encryptedBalance, addr)
	if err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", addr)
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var kind string
	a := &domain.Account{}
	err := row.Scan(&a.Address, &kind, &a.EncryptedBalance, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	a.Kind = domain.AccountKind(kind)
	return a, nil
}
