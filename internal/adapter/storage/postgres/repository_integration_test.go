//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"delivery-escrow/config"
	"delivery-escrow/internal/core/address"
	"delivery-escrow/internal/core/domain"
	"delivery-escrow/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RepositoryIntegrationTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
}

func TestRepositoryIntegration(t *testing.T) {
	suite.Run(t, new(RepositoryIntegrationTestSuite))
}

func (s *RepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("escrow_test"),
		tcpostgres.WithUsername("escrow"),
		tcpostgres.WithPassword("escrow"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	s.Require().NoError(err)

	log := zerolog.Nop()
	pool, err := NewPool(ctx, config.DatabaseConfig{
		Host:     host,
		Port:     port.Int(),
		User:     "escrow",
		Password: "escrow",
		DBName:   "escrow_test",
		SSLMode:  "disable",
		MaxConns: 5,
		MinConns: 1,
	}, log)
	s.Require().NoError(err)
	s.pool = pool

	s.Require().NoError(Migrate(ctx, pool, log))
}

func (s *RepositoryIntegrationTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *RepositoryIntegrationTestSuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(),
		"TRUNCATE TABLE audit_logs, ledger_entries, deliveries, ledger_accounts, vehicles, platform_config CASCADE")
	s.Require().NoError(err)
}

func (s *RepositoryIntegrationTestSuite) TestMigrate_IsIdempotent() {
	s.NoError(Migrate(context.Background(), s.pool, zerolog.Nop()))
}

func (s *RepositoryIntegrationTestSuite) TestConfig_SingletonAndPause() {
	ctx := context.Background()
	repo := NewConfigRepo(s.pool)
	cfg := newTestConfig()

	tx, err := s.pool.Begin(ctx)
	s.Require().NoError(err)
	s.Require().NoError(repo.Create(ctx, tx, cfg))
	s.Require().NoError(tx.Commit(ctx))

	tx, err = s.pool.Begin(ctx)
	s.Require().NoError(err)
	s.ErrorIs(repo.Create(ctx, tx, newTestConfig()), domain.ErrRecordExists)
	s.Require().NoError(tx.Rollback(ctx))

	tx, err = s.pool.Begin(ctx)
	s.Require().NoError(err)
	locked, err := repo.GetForUpdate(ctx, tx, cfg.Key)
	s.Require().NoError(err)
	locked.IsPaused = true
	locked.Version++
	s.Require().NoError(repo.Update(ctx, tx, locked))
	s.Require().NoError(tx.Commit(ctx))

	stored, err := repo.Get(ctx, cfg.Key)
	s.Require().NoError(err)
	s.True(stored.IsPaused)
	s.Equal(uint32(2), stored.Version)
	s.False(stored.IsOperational())
}

func (s *RepositoryIntegrationTestSuite) TestEscrowLifecycle() {
	ctx := context.Background()
	vehicles := NewVehicleRepo(s.pool)
	deliveries := NewDeliveryRepo(s.pool)
	accounts := NewAccountRepo(s.pool)
	entries := NewLedgerEntryRepo(s.pool)
	now := time.Now().UTC().Truncate(time.Microsecond)

	v := newTestVehicle()
	d := newTestDelivery()
	customer := testCustomer.String()
	escrow := d.EscrowAddress.String()
	deliveryKey := d.Key.String()

	tx, err := s.pool.Begin(ctx)
	s.Require().NoError(err)
	s.Require().NoError(vehicles.Create(ctx, tx, v))
	s.Require().NoError(accounts.Create(ctx, tx, &domain.Account{
		Address: customer, Kind: domain.AccountKindWallet, EncryptedBalance: "enc-0", CreatedAt: now, UpdatedAt: now,
	}))
	s.Require().NoError(accounts.Create(ctx, tx, &domain.Account{
		Address: escrow, Kind: domain.AccountKindEscrow, EncryptedBalance: "enc-1", CreatedAt: now, UpdatedAt: now,
	}))
	// the fund entry precedes the delivery row; the FK is checked at commit
	s.Require().NoError(entries.Create(ctx, tx, &domain.LedgerEntry{
		ID: uuid.New(), EntryType: domain.EntryTypeEscrowFund, FromAddress: &customer,
		ToAddress: escrow, Amount: d.PaymentAmount, DeliveryKey: &deliveryKey, CreatedAt: now,
	}))
	s.Require().NoError(deliveries.Create(ctx, tx, d))
	s.Require().NoError(tx.Commit(ctx))

	tx, err = s.pool.Begin(ctx)
	s.Require().NoError(err)
	s.ErrorIs(deliveries.Create(ctx, tx, newTestDelivery()), domain.ErrRecordExists)
	s.Require().NoError(tx.Rollback(ctx))

	tx, err = s.pool.Begin(ctx)
	s.Require().NoError(err)
	lockedVehicle, err := vehicles.GetByKeyForUpdate(ctx, tx, v.Key)
	s.Require().NoError(err)
	lockedDelivery, err := deliveries.GetByKeyForUpdate(ctx, tx, d.Key)
	s.Require().NoError(err)
	lockedVehicle.MarkBusy()
	lockedDelivery.Accept(v.Key, now)
	s.Require().NoError(vehicles.Update(ctx, tx, lockedVehicle))
	s.Require().NoError(deliveries.Update(ctx, tx, lockedDelivery))
	s.Require().NoError(tx.Commit(ctx))

	stored, err := deliveries.GetByKey(ctx, d.Key)
	s.Require().NoError(err)
	s.Equal(domain.DeliveryStatusInProgress, stored.Status)
	s.True(stored.IsAssignedTo(v.Key))

	busy, err := vehicles.GetByKey(ctx, address.VehicleKey("AV-001"))
	s.Require().NoError(err)
	s.True(busy.IsBusy)

	list, total, err := entries.ListByAddress(ctx, ports.LedgerListParams{Address: customer, Page: 1, PageSize: 10})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(list, 1)
	s.Equal(d.PaymentAmount, list[0].Amount)
}

func (s *RepositoryIntegrationTestSuite) TestAudit_Persists() {
	ctx := context.Background()
	actor := testOperator
	err := NewAuditRepo(s.pool).Create(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		Actor:        &actor,
		Action:       domain.AuditActionCompleteOrder,
		ResourceType: "delivery",
		Details:      `{"status":200}`,
		IPAddress:    "127.0.0.1",
		CreatedAt:    time.Now().UTC(),
	})
	s.Require().NoError(err)

	var count int
	s.Require().NoError(s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM audit_logs WHERE resource_id IS NULL").Scan(&count))
	s.Equal(1, count)
}

func (s *RepositoryIntegrationTestSuite) TestHealthCheck() {
	s.NoError(NewHealthCheck(s.pool).Ping(context.Background()))
}
