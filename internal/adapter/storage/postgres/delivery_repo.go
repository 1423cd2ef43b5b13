package postgres

import (
	"context"
	"errors"
	"fmt"

	"delivery-escrow/internal/core/address"
	"delivery-escrow/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const deliveryColumns = `key, delivery_id, customer, payment_amount, pickup_location, delivery_location,
		status, assigned_vehicle, escrow_address, created_at, accepted_at, completed_at`

// DeliveryRepo implements ports.DeliveryRepository.
type DeliveryRepo struct {
	pool Pool
}

// NewDeliveryRepo creates a new DeliveryRepo.
func NewDeliveryRepo(pool Pool) *DeliveryRepo {
	return &DeliveryRepo{pool: pool}
}

// Create inserts a delivery. Returns domain.ErrRecordExists on a duplicate
// (customer, delivery_id).
func (r *DeliveryRepo) Create(ctx context.Context, tx pgx.Tx, d *domain.Delivery) error {
	query := `INSERT INTO deliveries (` + deliveryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := tx.Exec(ctx, query,
		d.Key.String(), formatUint(d.DeliveryID), d.Customer.String(), formatUint(d.PaymentAmount),
		d.PickupLocation, d.DeliveryLocation, string(d.Status), keyPtr(d.AssignedVehicle),
		d.EscrowAddress.String(), d.CreatedAt, d.AcceptedAt, d.CompletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrRecordExists
		}
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// GetByKey fetches a delivery without locking.
func (r *DeliveryRepo) GetByKey(ctx context.Context, key address.Key) (*domain.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE key = $1`
	return scanDelivery(r.pool.QueryRow(ctx, query, key.String()))
}

// GetByKeyForUpdate fetches a delivery with pessimistic locking.
// This MUST be called within a transaction.
func (r *DeliveryRepo) GetByKeyForUpdate(ctx context.Context, tx pgx.Tx, key address.Key) (*domain.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE key = $1 FOR UPDATE`
	return scanDelivery(tx.QueryRow(ctx, query, key.String()))
}

// Update persists the delivery's lifecycle fields.
func (r *DeliveryRepo) Update(ctx context.Context, tx pgx.Tx, d *domain.Delivery) error {
	query := `UPDATE deliveries SET status = $1, assigned_vehicle = $2, accepted_at = $3, completed_at = $4
		WHERE key = $5`

	tag, err := tx.Exec(ctx, query, string(d.Status), keyPtr(d.AssignedVehicle), d.AcceptedAt, d.CompletedAt, d.Key.String())
	if err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delivery not found: %s", d.Key)
	}
	return nil
}

func scanDelivery(row pgx.Row) (*domain.Delivery, error) {
	var (
		key, deliveryID, customer, amount, status, escrow string
		assigned                                          *string
	)
	d := &domain.Delivery{}
	err := row.Scan(
		&key, &deliveryID, &customer, &amount, &d.PickupLocation, &d.DeliveryLocation,
		&status, &assigned, &escrow, &d.CreatedAt, &d.AcceptedAt, &d.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan delivery: %w", err)
	}

	d.Key = address.Key(key)
	d.Customer = domain.Identity(customer)
	d.Status = domain.DeliveryStatus(status)
	d.EscrowAddress = address.Key(escrow)
	if assigned != nil {
		k := address.Key(*assigned)
		d.AssignedVehicle = &k
	}
	if d.DeliveryID, err = parseUint("delivery_id", deliveryID); err != nil {
		return nil, err
	}
	if d.PaymentAmount, err = parseUint("payment_amount", amount); err != nil {
		return nil, err
	}
	return d, nil
}

func keyPtr(k *address.Key) *string {
	if k == nil {
		return nil
	}
	s := k.String()
	return &s
}
