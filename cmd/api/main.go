package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"delivery-escrow/config"
	httpHandler "delivery-escrow/internal/adapter/http/handler"
	pgStorage "delivery-escrow/internal/adapter/storage/postgres"
	redisStorage "delivery-escrow/internal/adapter/storage/redis"
	"delivery-escrow/internal/core/domain"
	"delivery-escrow/internal/core/ports"
	"delivery-escrow/internal/service"
	"delivery-escrow/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Delivery Escrow")

	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var bootstrap domain.Identity
	if cfg.Platform.BootstrapAuthority != "" {
		bootstrap, err = domain.ParseIdentity(cfg.Platform.BootstrapAuthority)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid platform.bootstrap_authority")
		}
	}

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	if err := pgStorage.Migrate(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	configRepo := pgStorage.NewConfigRepo(pool)
	vehicleRepo := pgStorage.NewVehicleRepo(pool)
	deliveryRepo := pgStorage.NewDeliveryRepo(pool)
	accountRepo := pgStorage.NewAccountRepo(pool)
	entryRepo := pgStorage.NewLedgerEntryRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	nonceStore := redisStorage.NewNonceStore(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	sigSvc := service.NewEd25519SignatureService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize business services
	platformSvc := service.NewPlatformService(configRepo, transactor, bootstrap, log)
	vehicleSvc := service.NewVehicleService(vehicleRepo, configRepo, transactor, log)
	deliverySvc := service.NewDeliveryService(
		deliveryRepo,
		vehicleRepo,
		configRepo,
		accountRepo,
		entryRepo,
		encSvc,
		transactor,
		log,
	)
	ledgerSvc := service.NewLedgerService(accountRepo, entryRepo, configRepo, encSvc, transactor, log)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		PlatformSvc:    platformSvc,
		VehicleSvc:     vehicleSvc,
		DeliverySvc:    deliverySvc,
		LedgerSvc:      ledgerSvc,
		SigSvc:         sigSvc,
		NonceStore:     nonceStore,
		TokenSvc:       tokenSvc,
		AuthConfig:     cfg.Auth,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{
			pgStorage.NewHealthCheck(pool),
			redisStorage.NewHealthCheck(rdb),
		},
		AuditSvc: auditSvc,
		Logger:   log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
	}

	log.Info().Msg("Server exited")
}
