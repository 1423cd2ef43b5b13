package postgres

import (
	"context"
	"errors"
	"fmt"

	"delivery-escrow/internal/core/address"
	"delivery-escrow/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const vehicleColumns = `key, vehicle_id, operator, location, is_active, is_busy, total_deliveries, registered_at`

// VehicleRepo implements ports.VehicleRepository.
type VehicleRepo struct {
	pool Pool
}

// NewVehicleRepo creates a new VehicleRepo.
func NewVehicleRepo(pool Pool) *VehicleRepo {
	return &VehicleRepo{pool: pool}
}

// Create inserts a vehicle. Returns domain.ErrRecordExists if the id is taken.
func (r *VehicleRepo) Create(ctx context.Context, tx pgx.Tx, v *domain.Vehicle) error {
	query := `INSERT INTO vehicles (` + vehicleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (key) DO NOTHING`

	tag, err := tx.Exec(ctx, query,
		v.Key.String(), v.VehicleID, v.Operator.String(), v.Location,
		v.IsActive, v.IsBusy, formatUint(v.TotalDeliveries), v.RegisteredAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrRecordExists
		}
		return fmt.Errorf("insert vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordExists
	}
	return nil
}

// GetByKey fetches a vehicle without locking.
func (r *VehicleRepo) GetByKey(ctx context.Context, key address.Key) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE key = $1`
	return scanVehicle(r.pool.QueryRow(ctx, query, key.String()))
}

// GetByKeyForUpdate fetches a vehicle with pessimistic locking.
// This MUST be called within a transaction.
func (r *VehicleRepo) GetByKeyForUpdate(ctx context.Context, tx pgx.Tx, key address.Key) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE key = $1 FOR UPDATE`
	return scanVehicle(tx.QueryRow(ctx, query, key.String()))
}

// Update persists the vehicle's mutable state.
func (r *VehicleRepo) Update(ctx context.Context, tx pgx.Tx, v *domain.Vehicle) error {
	query := `UPDATE vehicles SET location = $1, is_active = $2, is_busy = $3, total_deliveries = $4 WHERE key = $5`

	tag, err := tx.Exec(ctx, query, v.Location, v.IsActive, v.IsBusy, formatUint(v.TotalDeliveries), v.Key.String())
	if err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vehicle not found: %s", v.VehicleID)
	}
	return nil
}

func scanVehicle(row pgx.Row) (*domain.Vehicle, error) {
	var key, operator, total string
	v := &domain.Vehicle{}
	err := row.Scan(
		&key, &v.VehicleID, &operator, &v.Location,
		&v.IsActive, &v.IsBusy, &total, &v.RegisteredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan vehicle: %w", err)
	}
	v.Key = address.Key(key)
	v.Operator = domain.Identity(operator)
	if v.TotalDeliveries, err = parseUint("total_deliveries", total); err != nil {
		return nil, err
	}
	return v, nil
}
