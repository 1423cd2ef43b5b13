package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"delivery-escrow/internal/core/domain"
	"delivery-escrow/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testIdentity  = domain.Identity("3b6a27bcceb6a42d62a3a8d02a6f0d73653215771de243a63ac048a18b59da29")
	testAuthority = domain.Identity(strings.Repeat("a1", 32))
	testTreasury  = domain.Identity(strings.Repeat("b2", 32))
	testCustomer  = domain.Identity(strings.Repeat("c3", 32))
	testOperator  = domain.Identity(strings.Repeat("d4", 32))
	testStranger  = domain.Identity(strings.Repeat("e5", 32))
)

func newTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// mockTx implements pgx.Tx for testing
type mockTx struct {
	pgx.Tx
	committed bool
}

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error {
	m.committed = true
	return nil
}

func activeConfig() *domain.PlatformConfig {
	return &domain.PlatformConfig{
		Authority: testAuthority,
		Treasury:  testTreasury,
		IsActive:  true,
		FeeBps:    250,
		Version:   1,
	}
}

func assertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, expectedCode, appErr.Code)
}
