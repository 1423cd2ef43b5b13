package ports

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

import (
	"context"

	"delivery-escrow/internal/core/address"
	"delivery-escrow/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ConfigRepository persists the platform config singleton.
// Create returns domain.ErrRecordExists if the slot is already occupied.
type ConfigRepository interface {
	Create(ctx context.Context, tx pgx.Tx, cfg *domain.PlatformConfig) error
	Get(ctx context.Context, key address.Key) (*domain.PlatformConfig, error)
	GetForShare(ctx context.Context, tx pgx.Tx, key address.Key) (*domain.PlatformConfig, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, key address.Key) (*domain.PlatformConfig, error)
	Update(ctx context.Context, tx pgx.Tx, cfg *domain.PlatformConfig) error
}

// VehicleRepository persists vehicle records.
type VehicleRepository interface {
	Create(ctx context.Context, tx pgx.Tx, vehicle *domain.Vehicle) error
	GetByKey(ctx context.Context, key address.Key) (*domain.Vehicle, error)
	GetByKeyForUpdate(ctx context.Context, tx pgx.Tx, key address.Key) (*domain.Vehicle, error)
	Update(ctx context.Context, tx pgx.Tx, vehicle *domain.Vehicle) error
}

// DeliveryRepository persists delivery orders.
type DeliveryRepository interface {
	Create(ctx context.Context, tx pgx.Tx, delivery *domain.Delivery) error
	GetByKey(ctx context.Context, key address.Key) (*domain.Delivery, error)
	GetByKeyForUpdate(ctx context.Context, tx pgx.Tx, key address.Key) (*domain.Delivery, error)
	Update(ctx context.Context, tx pgx.Tx, delivery *domain.Delivery) error
}

// AccountRepository persists ledger balances.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type AccountRepository interface {
	Create(ctx context.Context, tx pgx.Tx, account *domain.Account) error
	GetByAddress(ctx context.Context, address string) (*domain.Account, error)
	GetByAddressForUpdate(ctx context.Context, tx pgx.Tx, address string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, address string, encryptedBalance string) error
}

// LedgerEntryRepository persists the immutable movement log.
type LedgerEntryRepository interface {
	Create(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error
	ListByAddress(ctx context.Context, params LedgerListParams) ([]domain.LedgerEntry, int64, error)
}

// LedgerListParams holds filter + pagination for listing ledger entries.
type LedgerListParams struct {
	Address  string
	Type     *domain.EntryType
	Page     int
	PageSize int
}

// AuditRepository persists audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
