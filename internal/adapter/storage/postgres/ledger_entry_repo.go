package postgres

import (
	"context"
	"fmt"

	"delivery-escrow/internal/core/domain"
	"delivery-escrow/internal/core/ports"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// LedgerEntryRepo implements ports.LedgerEntryRepository.
type LedgerEntryRepo struct {
	pool Pool
}

// NewLedgerEntryRepo creates a new LedgerEntryRepo.
func NewLedgerEntryRepo(pool Pool) *LedgerEntryRepo {
	return &LedgerEntryRepo{pool: pool}
}

// Create inserts a ledger entry within a transaction.
func (r *LedgerEntryRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (id, entry_type, from_address, to_address, amount, delivery_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		e.ID, string(e.EntryType), e.FromAddress, e.ToAddress,
		formatUint(e.Amount), e.DeliveryKey, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// ListByAddress fetches entries debiting or crediting an address, newest first.
func (r *LedgerEntryRepo) ListByAddress(ctx context.Context, params ports.LedgerListParams) ([]domain.LedgerEntry, int64, error) {
	where := sq.And{sq.Or{
		sq.Eq{"from_address": params.Address},
		sq.Eq{"to_address": params.Address},
	}}
	if params.Type != nil {
		where = append(where, sq.Eq{"entry_type": string(*params.Type)})
	}

	countQuery, countArgs, err := qb.Select("COUNT(*)").From("ledger_entries").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count ledger entries: %w", err)
	}

	dataQuery, args, err := qb.
		Select("id", "entry_type", "from_address", "to_address", "amount", "delivery_key", "created_at").
		From("ledger_entries").
		Where(where).
		OrderBy("created_at DESC", "id").
		Limit(uint64(params.PageSize)).
		Offset(uint64((params.Page - 1) * params.PageSize)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var entryType, amount string
		e := domain.LedgerEntry{}
		err := rows.Scan(&e.ID, &entryType, &e.FromAddress, &e.ToAddress, &amount, &e.DeliveryKey, &e.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("scan ledger entry row: %w", err)
		}
		e.EntryType = domain.EntryType(entryType)
		if e.Amount, err = parseUint("amount", amount); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate ledger entry rows: %w", err)
	}
	return entries, total, nil
}
