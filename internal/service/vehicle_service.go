package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"delivery-escrow/internal/core/address"
	"delivery-escrow/internal/core/domain"
	"delivery-escrow/internal/core/ports"
	"delivery-escrow/internal/metrics"
	"delivery-escrow/pkg/apperror"

	"github.com/rs/zerolog"
)

// VehicleServiceImpl implements ports.VehicleService.
type VehicleServiceImpl struct {
	vehicleRepo ports.VehicleRepository
	configRepo  ports.ConfigRepository
	transactor  ports.DBTransactor
	log         zerolog.Logger
	now         func() time.Time
}

// NewVehicleService creates a new VehicleServiceImpl.
func NewVehicleService(
	vehicleRepo ports.VehicleRepository,
	configRepo ports.ConfigRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *VehicleServiceImpl {
	return &VehicleServiceImpl{
		vehicleRepo: vehicleRepo,
		configRepo:  configRepo,
		transactor:  transactor,
		log:         log,
		now:         utcNow,
	}
}

// RegisterVehicle adds a vehicle to the registry, available and idle.
func (s *VehicleServiceImpl) RegisterVehicle(ctx context.Context, req ports.RegisterVehicleRequest) (*domain.Vehicle, error) {
	if req.VehicleID == "" || len(req.VehicleID) > domain.MaxVehicleIDLen {
		return nil, apperror.ErrInvalidParameter("vehicle_id must be 1 to 32 bytes")
	}
	if len(req.Location) > domain.MaxLocationLen {
		return nil, apperror.ErrInvalidParameter("location must not exceed 64 bytes")
	}
	operator, err := domain.ParseIdentity(req.Operator)
	if err != nil {
		return nil, apperror.ErrInvalidParameter("operator must be a hex encoded ed25519 public key")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	cfg, err := requireOperational(ctx, dbTx, s.configRepo)
	if err != nil {
		return nil, err
	}
	if req.Caller != cfg.Authority {
		return nil, apperror.ErrUnauthorized()
	}

	vehicle := &domain.Vehicle{
		Key:             address.VehicleKey(req.VehicleID),
		VehicleID:       req.VehicleID,
		Operator:        operator,
		Location:        req.Location,
		IsActive:        true,
		IsBusy:          false,
		TotalDeliveries: 0,
		RegisteredAt:    s.now(),
	}

	err = s.vehicleRepo.Create(ctx, dbTx, vehicle)
	if errors.Is(err, domain.ErrRecordExists) {
		return nil, apperror.ErrAlreadyInitialized("vehicle")
	}
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create vehicle: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	metrics.VehiclesRegisteredTotal.Inc()

	s.log.Info().
		Str("vehicle_id", vehicle.VehicleID).
		Str("operator", vehicle.Operator.String()).
		Msg("vehicle registered")

	return vehicle, nil
}

// GetVehicle returns a registered vehicle.
func (s *VehicleServiceImpl) GetVehicle(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	if vehicleID == "" || len(vehicleID) > domain.MaxVehicleIDLen {
		return nil, apperror.ErrInvalidParameter("vehicle_id must be 1 to 32 bytes")
	}

	vehicle, err := s.vehicleRepo.GetByKey(ctx, address.VehicleKey(vehicleID))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get vehicle: %w", err))
	}
	if vehicle == nil {
		return nil, apperror.ErrNotFound("vehicle")
	}
	return vehicle, nil
}
