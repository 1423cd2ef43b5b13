package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"delivery-escrow/internal/core/address"
	"delivery-escrow/internal/core/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testAuthority = domain.Identity(strings.Repeat("a1", 32))
	testTreasury  = domain.Identity(strings.Repeat("b2", 32))
	testCustomer  = domain.Identity(strings.Repeat("c3", 32))
	testOperator  = domain.Identity(strings.Repeat("d4", 32))
)

func newTestConfig() *domain.PlatformConfig {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.PlatformConfig{
		Key:       address.ConfigKey(),
		Authority: testAuthority,
		IsActive:  true,
		FeeBps:    250,
		Treasury:  testTreasury,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func configRow(c *domain.PlatformConfig) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"key", "authority", "is_active", "is_paused", "fee_bps", "treasury", "version", "created_at", "updated_at",
	}).AddRow(
		c.Key.String(), c.Authority.String(), c.IsActive, c.IsPaused, int32(c.FeeBps),
		c.Treasury.String(), int64(c.Version), c.CreatedAt, c.UpdatedAt,
	)
}

func TestConfigRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewConfigRepo(mock)
	c := newTestConfig()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO platform_config .+ ON CONFLICT \\(key\\) DO NOTHING").
		WithArgs(c.Key.String(), c.Authority.String(), true, false, int32(250),
			c.Treasury.String(), int64(1), c.CreatedAt, c.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, c)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigRepo_Create_AlreadyInitialized(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewConfigRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO platform_config").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, newTestConfig())
	assert.ErrorIs(t, err, domain.ErrRecordExists)
}

func TestConfigRepo_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewConfigRepo(mock)
	c := newTestConfig()

	mock.ExpectQuery("SELECT .+ FROM platform_config WHERE key").
		WithArgs(c.Key.String()).
		WillReturnRows(configRow(c))

	result, err := repo.Get(context.Background(), c.Key)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, c.Authority, result.Authority)
	assert.Equal(t, c.Treasury, result.Treasury)
	assert.Equal(t, uint16(250), result.FeeBps)
	assert.Equal(t, uint32(1), result.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigRepo_Get_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewConfigRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM platform_config WHERE key").
		WithArgs(address.ConfigKey().String()).
		WillReturnRows(pgxmock.NewRows([]string{"key"}))

	result, err := repo.Get(context.Background(), address.ConfigKey())
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestConfigRepo_GetForShare(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewConfigRepo(mock)
	c := newTestConfig()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM platform_config WHERE key .+ FOR SHARE").
		WithArgs(c.Key.String()).
		WillReturnRows(configRow(c))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetForShare(context.Background(), tx, c.Key)
	require.NoError(t, err)
	assert.True(t, result.IsOperational())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigRepo_GetForUpdate_DBError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewConfigRepo(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM platform_config WHERE key .+ FOR UPDATE").
		WithArgs(address.ConfigKey().String()).
		WillReturnError(errors.New("lock timeout"))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	_, err = repo.GetForUpdate(context.Background(), tx, address.ConfigKey())
	assert.Error(t, err)
}

func TestConfigRepo_Update(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewConfigRepo(mock)
	c := newTestConfig()
	c.IsPaused = true
	c.Version = 2

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE platform_config SET").
		WithArgs(true, true, int64(2), c.UpdatedAt, c.Key.String()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Update(context.Background(), tx, c)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
