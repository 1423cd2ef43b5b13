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

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// DeliveryServiceImpl implements ports.DeliveryService.
//
// Every operation runs in one database transaction and takes row locks in the
// order config, vehicle, delivery, accounts.
type DeliveryServiceImpl struct {
	deliveryRepo ports.DeliveryRepository
	vehicleRepo  ports.VehicleRepository
	configRepo   ports.ConfigRepository
	book         *accountBook
	transactor   ports.DBTransactor
	log          zerolog.Logger
	now          func() time.Time
}

// NewDeliveryService creates a new DeliveryServiceImpl.
func NewDeliveryService(
	deliveryRepo ports.DeliveryRepository,
	vehicleRepo ports.VehicleRepository,
	configRepo ports.ConfigRepository,
	accountRepo ports.AccountRepository,
	entryRepo ports.LedgerEntryRepository,
	encSvc ports.EncryptionService,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *DeliveryServiceImpl {
	return &DeliveryServiceImpl{
		deliveryRepo: deliveryRepo,
		vehicleRepo:  vehicleRepo,
		configRepo:   configRepo,
		book:         &accountBook{accountRepo: accountRepo, entryRepo: entryRepo, encSvc: encSvc},
		transactor:   transactor,
		log:          log,
		now:          utcNow,
	}
}

// CreateOrder opens a PENDING delivery and moves the payment from the
// customer's wallet into the delivery's escrow account.
func (s *DeliveryServiceImpl) CreateOrder(ctx context.Context, req ports.CreateOrderRequest) (*domain.Delivery, error) {
	if len(req.PickupLocation) > domain.MaxLocationLen {
		return nil, apperror.ErrInvalidParameter("pickup_location must not exceed 64 bytes")
	}
	if len(req.DeliveryLocation) > domain.MaxLocationLen {
		return nil, apperror.ErrInvalidParameter("delivery_location must not exceed 64 bytes")
	}
	if req.PaymentAmount == 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if _, err := requireOperational(ctx, dbTx, s.configRepo); err != nil {
		return nil, err
	}

	customer := req.Customer.String()
	key := address.DeliveryKey(customer, req.DeliveryID)
	existing, err := s.deliveryRepo.GetByKeyForUpdate(ctx, dbTx, key)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock delivery: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrAlreadyInitialized("delivery")
	}

	now := s.now()
	escrow := address.EscrowKey(customer, req.DeliveryID)

	if _, err := s.book.debit(ctx, dbTx, customer, req.PaymentAmount); err != nil {
		return nil, err
	}
	if err := s.book.open(ctx, dbTx, escrow.String(), domain.AccountKindEscrow, req.PaymentAmount, now); err != nil {
		return nil, err
	}
	keyStr := key.String()
	if err := s.book.record(ctx, dbTx, &domain.LedgerEntry{
		ID:          uuid.New(),
		EntryType:   domain.EntryTypeEscrowFund,
		FromAddress: &customer,
		ToAddress:   escrow.String(),
		Amount:      req.PaymentAmount,
		DeliveryKey: &keyStr,
		CreatedAt:   now,
	}); err != nil {
		return nil, err
	}

	delivery := &domain.Delivery{
		Key:              key,
		DeliveryID:       req.DeliveryID,
		Customer:         req.Customer,
		PaymentAmount:    req.PaymentAmount,
		PickupLocation:   req.PickupLocation,
		DeliveryLocation: req.DeliveryLocation,
		Status:           domain.DeliveryStatusPending,
		EscrowAddress:    escrow,
		CreatedAt:        now,
	}
	err = s.deliveryRepo.Create(ctx, dbTx, delivery)
	if errors.Is(err, domain.ErrRecordExists) {
		return nil, apperror.ErrAlreadyInitialized("delivery")
	}
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create delivery: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	metrics.DeliveryTransitionsTotal.WithLabelValues(string(domain.DeliveryStatusPending)).Inc()
	metrics.EscrowFundedTotal.Add(float64(req.PaymentAmount))

	s.log.Info().
		Str("delivery_key", keyStr).
		Str("customer", customer).
		Uint64("delivery_id", req.DeliveryID).
		Uint64("amount", req.PaymentAmount).
		Msg("delivery order created")

	return delivery, nil
}

// AcceptOrder binds an available vehicle to a PENDING delivery.
func (s *DeliveryServiceImpl) AcceptOrder(ctx context.Context, req ports.AcceptOrderRequest) (*domain.Delivery, error) {
	if req.VehicleID == "" || len(req.VehicleID) > domain.MaxVehicleIDLen {
		return nil, apperror.ErrInvalidParameter("vehicle_id must be 1 to 32 bytes")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if _, err := requireOperational(ctx, dbTx, s.configRepo); err != nil {
		return nil, err
	}

	vehicle, err := s.lockVehicle(ctx, dbTx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if req.Operator != vehicle.Operator {
		return nil, apperror.ErrUnauthorized()
	}
	if !vehicle.IsAvailable() {
		return nil, apperror.ErrVehicleNotAvailable()
	}

	delivery, err := s.lockDelivery(ctx, dbTx, req.Customer, req.DeliveryID)
	if err != nil {
		return nil, err
	}
	if delivery.Status != domain.DeliveryStatusPending {
		return nil, apperror.ErrInvalidDeliveryStatus()
	}

	vehicle.MarkBusy()
	delivery.Accept(vehicle.Key, s.now())

	if err := s.vehicleRepo.Update(ctx, dbTx, vehicle); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update vehicle: %w", err))
	}
	if err := s.deliveryRepo.Update(ctx, dbTx, delivery); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update delivery: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	metrics.DeliveryTransitionsTotal.WithLabelValues(string(domain.DeliveryStatusInProgress)).Inc()

	s.log.Info().
		Str("delivery_key", delivery.Key.String()).
		Str("vehicle_id", vehicle.VehicleID).
		Msg("delivery order accepted")

	return delivery, nil
}

// CompleteOrder settles an IN_PROGRESS delivery: the escrow is split between
// the vehicle operator and the platform treasury and the vehicle is released.
func (s *DeliveryServiceImpl) CompleteOrder(ctx context.Context, req ports.CompleteOrderRequest) (*ports.CompletionResult, error) {
	if req.VehicleID == "" || len(req.VehicleID) > domain.MaxVehicleIDLen {
		return nil, apperror.ErrInvalidParameter("vehicle_id must be 1 to 32 bytes")
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

	vehicle, err := s.lockVehicle(ctx, dbTx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	delivery, err := s.lockDelivery(ctx, dbTx, req.Customer, req.DeliveryID)
	if err != nil {
		return nil, err
	}
	if delivery.Status != domain.DeliveryStatusInProgress {
		return nil, apperror.ErrInvalidDeliveryStatus()
	}

	operatorAccount, _ := domain.ParseIdentity(req.OperatorAccount)
	if !delivery.IsAssignedTo(vehicle.Key) ||
		req.Caller != vehicle.Operator ||
		operatorAccount != vehicle.Operator {
		return nil, apperror.ErrUnauthorized()
	}
	treasuryAccount, _ := domain.ParseIdentity(req.TreasuryAccount)
	if treasuryAccount != cfg.Treasury {
		return nil, apperror.ErrInvalidTreasury()
	}

	customer := delivery.Customer.String()
	if err := address.Verify(delivery.EscrowAddress, address.EscrowSeeds(customer, delivery.DeliveryID)...); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("verify escrow address: %w", err))
	}

	fee, payment, err := domain.SplitPayment(delivery.PaymentAmount, cfg.FeeBps)
	if err != nil {
		return nil, apperror.ErrMathOverflow()
	}
	if err := vehicle.MarkFree(); err != nil {
		return nil, apperror.ErrMathOverflow()
	}

	now := s.now()
	escrow := delivery.EscrowAddress.String()
	deliveryKey := delivery.Key.String()

	payouts := []struct {
		to        string
		kind      domain.AccountKind
		amount    uint64
		entryType domain.EntryType
	}{
		{vehicle.Operator.String(), domain.AccountKindWallet, payment, domain.EntryTypeOperatorPayout},
		{cfg.Treasury.String(), domain.AccountKindTreasury, fee, domain.EntryTypePlatformFee},
	}
	for _, p := range payouts {
		if _, err := s.book.debit(ctx, dbTx, escrow, p.amount); err != nil {
			return nil, err
		}
		if err := s.book.credit(ctx, dbTx, p.to, p.kind, p.amount, now); err != nil {
			return nil, err
		}
		if err := s.book.record(ctx, dbTx, &domain.LedgerEntry{
			ID:          uuid.New(),
			EntryType:   p.entryType,
			FromAddress: &escrow,
			ToAddress:   p.to,
			Amount:      p.amount,
			DeliveryKey: &deliveryKey,
			CreatedAt:   now,
		}); err != nil {
			return nil, err
		}
	}

	delivery.Complete(now)

	if err := s.deliveryRepo.Update(ctx, dbTx, delivery); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update delivery: %w", err))
	}
	if err := s.vehicleRepo.Update(ctx, dbTx, vehicle); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update vehicle: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	metrics.DeliveryTransitionsTotal.WithLabelValues(string(domain.DeliveryStatusCompleted)).Inc()
	metrics.PlatformFeesTotal.Add(float64(fee))

	s.log.Info().
		Str("delivery_key", deliveryKey).
		Str("vehicle_id", vehicle.VehicleID).
		Uint64("fee", fee).
		Uint64("vehicle_payment", payment).
		Msg("delivery order completed")

	return &ports.CompletionResult{
		Delivery:       delivery,
		Fee:            fee,
		VehiclePayment: payment,
	}, nil
}

// GetDelivery returns a delivery by its natural keys.
func (s *DeliveryServiceImpl) GetDelivery(ctx context.Context, customer domain.Identity, deliveryID uint64) (*domain.Delivery, error) {
	delivery, err := s.deliveryRepo.GetByKey(ctx, address.DeliveryKey(customer.String(), deliveryID))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get delivery: %w", err))
	}
	if delivery == nil {
		return nil, apperror.ErrNotFound("delivery")
	}
	return delivery, nil
}

func (s *DeliveryServiceImpl) lockVehicle(ctx context.Context, tx pgx.Tx, vehicleID string) (*domain.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByKeyForUpdate(ctx, tx, address.VehicleKey(vehicleID))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock vehicle: %w", err))
	}
	if vehicle == nil {
		return nil, apperror.ErrNotFound("vehicle")
	}
	return vehicle, nil
}

func (s *DeliveryServiceImpl) lockDelivery(ctx context.Context, tx pgx.Tx, customer domain.Identity, deliveryID uint64) (*domain.Delivery, error) {
	delivery, err := s.deliveryRepo.GetByKeyForUpdate(ctx, tx, address.DeliveryKey(customer.String(), deliveryID))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock delivery: %w", err))
	}
	if delivery == nil {
		return nil, apperror.ErrNotFound("delivery")
	}
	return delivery, nil
}
