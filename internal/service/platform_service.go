package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"delivery-escrow/internal/core/address"
	"delivery-escrow/internal/core/domain"
	"delivery-escrow/internal/core/ports"
	"delivery-escrow/pkg/apperror"

	"github.com/rs/zerolog"
)

// PlatformServiceImpl implements ports.PlatformService.
type PlatformServiceImpl struct {
	configRepo ports.ConfigRepository
	transactor ports.DBTransactor
	bootstrap  domain.Identity
	log        zerolog.Logger
	now        func() time.Time
}

// NewPlatformService creates a new PlatformServiceImpl. When bootstrap is
// non-empty only that identity may initialize the config.
func NewPlatformService(
	configRepo ports.ConfigRepository,
	transactor ports.DBTransactor,
	bootstrap domain.Identity,
	log zerolog.Logger,
) *PlatformServiceImpl {
	return &PlatformServiceImpl{
		configRepo: configRepo,
		transactor: transactor,
		bootstrap:  bootstrap,
		log:        log,
		now:        utcNow,
	}
}

// InitializeConfig creates the config singleton with the caller as authority.
func (s *PlatformServiceImpl) InitializeConfig(ctx context.Context, req ports.InitializeConfigRequest) (*domain.PlatformConfig, error) {
	if s.bootstrap != "" && req.Caller != s.bootstrap {
		return nil, apperror.ErrUnauthorized()
	}
	if req.FeeBps > domain.MaxFeeBps {
		return nil, apperror.ErrInvalidParameter("fee_bps must not exceed 10000")
	}
	treasury, err := domain.ParseIdentity(req.Treasury)
	if err != nil {
		return nil, apperror.ErrInvalidParameter("treasury must be a hex encoded ed25519 public key")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	now := s.now()
	cfg := &domain.PlatformConfig{
		Key:       address.ConfigKey(),
		Authority: req.Caller,
		IsActive:  true,
		IsPaused:  false,
		FeeBps:    req.FeeBps,
		Treasury:  treasury,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.configRepo.Create(ctx, dbTx, cfg)
	if errors.Is(err, domain.ErrRecordExists) {
		return nil, apperror.ErrAlreadyInitialized("config")
	}
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create config: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("authority", cfg.Authority.String()).
		Str("treasury", cfg.Treasury.String()).
		Uint16("fee_bps", cfg.FeeBps).
		Msg("platform config initialized")

	return cfg, nil
}

// GetConfig returns the config singleton.
func (s *PlatformServiceImpl) GetConfig(ctx context.Context) (*domain.PlatformConfig, error) {
	cfg, err := s.configRepo.Get(ctx, address.ConfigKey())
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get config: %w", err))
	}
	if cfg == nil {
		return nil, apperror.ErrNotFound("config")
	}
	return cfg, nil
}

// SetPaused halts or resumes state-changing operations.
func (s *PlatformServiceImpl) SetPaused(ctx context.Context, caller domain.Identity, paused bool) (*domain.PlatformConfig, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	cfg, err := s.configRepo.GetForUpdate(ctx, dbTx, address.ConfigKey())
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock config: %w", err))
	}
	if cfg == nil {
		return nil, apperror.ErrNotFound("config")
	}
	if caller != cfg.Authority {
		return nil, apperror.ErrUnauthorized()
	}
	if cfg.IsPaused == paused {
		return cfg, nil
	}

	cfg.IsPaused = paused
	cfg.Version++
	cfg.UpdatedAt = s.now()

	if err := s.configRepo.Update(ctx, dbTx, cfg); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update config: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Bool("paused", cfg.IsPaused).
		Uint32("version", cfg.Version).
		Msg("platform config pause state changed")

	return cfg, nil
}
