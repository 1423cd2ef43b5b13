package postgres

import (
	"context"
	"errors"
	"fmt"

	"delivery-escrow/internal/core/address"
	"delivery-escrow/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const configColumns = `key, authority, is_active, is_paused, fee_bps, treasury, version, created_at, updated_at`

// ConfigRepo implements ports.ConfigRepository.
type ConfigRepo struct {
	pool Pool
}

// NewConfigRepo creates a new ConfigRepo.
func NewConfigRepo(pool Pool) *ConfigRepo {
	return &ConfigRepo{pool: pool}
}

// Create inserts the config singleton. The slot is claimed at most once.
func (r *ConfigRepo) Create(ctx context.Context, tx pgx.Tx, cfg *domain.PlatformConfig) error {
	query := `INSERT INTO platform_config (` + configColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (key) DO NOTHING`

	tag, err := tx.Exec(ctx, query,
		cfg.Key.String(), cfg.Authority.String(), cfg.IsActive, cfg.IsPaused,
		int32(cfg.FeeBps), cfg.Treasury.String(), int64(cfg.Version),
		cfg.CreatedAt, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordExists
	}
	return nil
}

// Get fetches the config without locking.
func (r *ConfigRepo) Get(ctx context.Context, key address.Key) (*domain.PlatformConfig, error) {
	query := `SELECT ` + configColumns + ` FROM platform_config WHERE key = $1`
	return scanConfig(r.pool.QueryRow(ctx, query, key.String()))
}

// GetForShare fetches the config with a shared lock so concurrent escrow
// operations proceed while a pause waits for them.
// This MUST be called within a transaction.
func (r *ConfigRepo) GetForShare(ctx context.Context, tx pgx.Tx, key address.Key) (*domain.PlatformConfig, error) {
	query := `SELECT ` + configColumns + ` FROM platform_config WHERE key = $1 FOR SHARE`
	return scanConfig(tx.QueryRow(ctx, query, key.String()))
}

// GetForUpdate fetches the config with an exclusive lock.
// This MUST be called within a transaction.
func (r *ConfigRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, key address.Key) (*domain.PlatformConfig, error) {
	query := `SELECT ` + configColumns + ` FROM platform_config WHERE key = $1 FOR UPDATE`
	return scanConfig(tx.QueryRow(ctx, query, key.String()))
}

// Update persists the mutable config fields.
func (r *ConfigRepo) Update(ctx context.Context, tx pgx.Tx, cfg *domain.PlatformConfig) error {
	query := `UPDATE platform_config SET is_active = $1, is_paused = $2, version = $3, updated_at = $4 WHERE key = $5`

	tag, err := tx.Exec(ctx, query, cfg.IsActive, cfg.IsPaused, int64(cfg.Version), cfg.UpdatedAt, cfg.Key.String())
	if err != nil {
		return fmt.Errorf("update config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("config not found: %s", cfg.Key)
	}
	return nil
}

func scanConfig(row pgx.Row) (*domain.PlatformConfig, error) {
	var (
		key, authority, treasury string
		feeBps                   int32
		version                  int64
	)
	cfg := &domain.PlatformConfig{}
	err := row.Scan(
		&key, &authority, &cfg.IsActive, &cfg.IsPaused, &feeBps,
		&treasury, &version, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan config: %w", err)
	}
	cfg.Key = address.Key(key)
	cfg.Authority = domain.Identity(authority)
	cfg.Treasury = domain.Identity(treasury)
	cfg.FeeBps = uint16(feeBps)
	cfg.Version = uint32(version)
	return cfg, nil
}
