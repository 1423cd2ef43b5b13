package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"delivery-escrow/internal/core/address"
	"delivery-escrow/internal/core/domain"
	"delivery-escrow/internal/core/ports"
	"delivery-escrow/internal/core/ports/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type vehicleTestDeps struct {
	svc         *VehicleServiceImpl
	vehicleRepo *mocks.MockVehicleRepository
	configRepo  *mocks.MockConfigRepository
	transactor  *mocks.MockDBTransactor
	ctrl        *gomock.Controller
}

func setupVehicleService(t *testing.T) *vehicleTestDeps {
	ctrl := gomock.NewController(t)
	d := &vehicleTestDeps{
		vehicleRepo: mocks.NewMockVehicleRepository(ctrl),
		configRepo:  mocks.NewMockConfigRepository(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewVehicleService(d.vehicleRepo, d.configRepo, d.transactor, newTestLogger())
	d.svc.now = func() time.Time { return fixedNow }
	return d
}

func validRegisterRequest() ports.RegisterVehicleRequest {
	return ports.RegisterVehicleRequest{
		Caller:    testAuthority,
		VehicleID: "AV-001",
		Operator:  testOperator.String(),
		Location:  "Depot 3",
	}
}

func TestVehicleService_RegisterVehicle_Success(t *testing.T) {
	d := setupVehicleService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.configRepo.EXPECT().GetForShare(ctx, tx, address.ConfigKey()).Return(activeConfig(), nil)
	d.vehicleRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	v, err := d.svc.RegisterVehicle(ctx, validRegisterRequest())
	require.NoError(t, err)
	assert.True(t, tx.committed)
	assert.Equal(t, address.VehicleKey("AV-001"), v.Key)
	assert.Equal(t, testOperator, v.Operator)
	assert.True(t, v.IsActive)
	assert.False(t, v.IsBusy)
	assert.Zero(t, v.TotalDeliveries)
	assert.Equal(t, fixedNow, v.RegisteredAt)
}

func TestVehicleService_RegisterVehicle_InvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ports.RegisterVehicleRequest)
	}{
		{"empty id", func(r *ports.RegisterVehicleRequest) { r.VehicleID = "" }},
		{"id too long", func(r *ports.RegisterVehicleRequest) { r.VehicleID = strings.Repeat("v", 33) }},
		{"location too long", func(r *ports.RegisterVehicleRequest) { r.Location = strings.Repeat("l", 65) }},
		{"bad operator", func(r *ports.RegisterVehicleRequest) { r.Operator = "operator-1" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupVehicleService(t)
			req := validRegisterRequest()
			tt.mutate(&req)

			_, err := d.svc.RegisterVehicle(context.Background(), req)
			assertAppError(t, err, "ESC_001")
		})
	}
}

func TestVehicleService_RegisterVehicle_MaxLengthID(t *testing.T) {
	d := setupVehicleService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.configRepo.EXPECT().GetForShare(ctx, tx, address.ConfigKey()).Return(activeConfig(), nil)
	d.vehicleRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	req := validRegisterRequest()
	req.VehicleID = strings.Repeat("v", 32)
	_, err := d.svc.RegisterVehicle(ctx, req)
	require.NoError(t, err)
}

func TestVehicleService_RegisterVehicle_ConfigPaused(t *testing.T) {
	d := setupVehicleService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	cfg := activeConfig()
	cfg.IsPaused = true

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.configRepo.EXPECT().GetForShare(ctx, tx, address.ConfigKey()).Return(cfg, nil)

	_, err := d.svc.RegisterVehicle(ctx, validRegisterRequest())
	assertAppError(t, err, "ESC_003")
}

func TestVehicleService_RegisterVehicle_NotAuthority(t *testing.T) {
	d := setupVehicleService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.configRepo.EXPECT().GetForShare(ctx, tx, address.ConfigKey()).Return(activeConfig(), nil)

	req := validRegisterRequest()
	req.Caller = testOperator
	_, err := d.svc.RegisterVehicle(ctx, req)
	assertAppError(t, err, "ESC_006")
}

func TestVehicleService_RegisterVehicle_Duplicate(t *testing.T) {
	d := setupVehicleService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.configRepo.EXPECT().GetForShare(ctx, tx, address.ConfigKey()).Return(activeConfig(), nil)
	d.vehicleRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(domain.ErrRecordExists)

	_, err := d.svc.RegisterVehicle(ctx, validRegisterRequest())
	assertAppError(t, err, "ESC_009")
	assert.False(t, tx.committed)
}

func TestVehicleService_GetVehicle(t *testing.T) {
	d := setupVehicleService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.vehicleRepo.EXPECT().GetByKey(ctx, address.VehicleKey("AV-001")).Return(idleVehicle(), nil)
	d.vehicleRepo.EXPECT().GetByKey(ctx, address.VehicleKey("AV-404")).Return(nil, nil)

	v, err := d.svc.GetVehicle(ctx, "AV-001")
	require.NoError(t, err)
	assert.Equal(t, "AV-001", v.VehicleID)

	_, err = d.svc.GetVehicle(ctx, "AV-404")
	assertAppError(t, err, "ESC_011")
}
