package domain

import (
	"math"
	"math/big"
	"math/rand"
	"testing"
	"time"

	"delivery-escrow/internal/core/address"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPayment_Example(t *testing.T) {
	fee, payment, err := SplitPayment(1_000_000_000, 250)
	require.NoError(t, err)
	assert.Equal(t, uint64(25_000_000), fee)
	assert.Equal(t, uint64(975_000_000), payment)
}

func TestSplitPayment_Boundaries(t *testing.T) {
	tests := []struct {
		name        string
		amount      uint64
		feeBps      uint16
		wantFee     uint64
		wantPayment uint64
	}{
		{"zero fee", 1_000, 0, 0, 1_000},
		{"full fee", 1_000, 10000, 1_000, 0},
		{"rounds down", 399, 250, 9, 390},
		{"one unit", 1, 9999, 0, 1},
		{"max amount full fee", math.MaxUint64, 10000, math.MaxUint64, 0},
		{"max amount 2.5%", math.MaxUint64, 250, 461168601842738790, math.MaxUint64 - 461168601842738790},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, payment, err := SplitPayment(tt.amount, tt.feeBps)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFee, fee)
			assert.Equal(t, tt.wantPayment, payment)
		})
	}
}

func TestSplitPayment_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	denom := big.NewInt(BpsDenominator)

	for i := 0; i < 5000; i++ {
		amount := rng.Uint64()
		if i%3 == 0 {
			amount = uint64(rng.Int63n(1_000_000_000_000)) + 1
		}
		feeBps := uint16(rng.Intn(MaxFeeBps + 1))

		fee, payment, err := SplitPayment(amount, feeBps)
		require.NoError(t, err)

		want := new(big.Int).Mul(new(big.Int).SetUint64(amount), big.NewInt(int64(feeBps)))
		want.Quo(want, denom)
		require.Equal(t, want.Uint64(), fee, "amount=%d feeBps=%d", amount, feeBps)
		require.Equal(t, amount, fee+payment)
	}
}

func TestSplitPayment_FeeAboveHundredPercentOverflows(t *testing.T) {
	_, _, err := SplitPayment(1_000, 10001)
	assert.ErrorIs(t, err, ErrMathOverflow)

	_, _, err = SplitPayment(math.MaxUint64, math.MaxUint16)
	assert.ErrorIs(t, err, ErrMathOverflow)
}

func TestVehicle_BusyCycle(t *testing.T) {
	v := &Vehicle{IsActive: true}
	assert.True(t, v.IsAvailable())

	v.MarkBusy()
	assert.False(t, v.IsAvailable())

	require.NoError(t, v.MarkFree())
	assert.True(t, v.IsAvailable())
	assert.Equal(t, uint64(1), v.TotalDeliveries)
}

func TestVehicle_InactiveNeverAvailable(t *testing.T) {
	v := &Vehicle{IsActive: false}
	assert.False(t, v.IsAvailable())
}

func TestVehicle_MarkFree_CounterOverflow(t *testing.T) {
	v := &Vehicle{IsActive: true, IsBusy: true, TotalDeliveries: math.MaxUint64}

	assert.ErrorIs(t, v.MarkFree(), ErrMathOverflow)
	assert.True(t, v.IsBusy, "vehicle must be left untouched on overflow")
	assert.Equal(t, uint64(math.MaxUint64), v.TotalDeliveries)
}

func TestDelivery_Lifecycle(t *testing.T) {
	vk := address.VehicleKey("AV-001")
	d := &Delivery{Status: DeliveryStatusPending}
	assert.False(t, d.IsAssignedTo(vk))

	acceptedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	d.Accept(vk, acceptedAt)
	assert.Equal(t, DeliveryStatusInProgress, d.Status)
	assert.True(t, d.IsAssignedTo(vk))
	assert.False(t, d.IsAssignedTo(address.VehicleKey("AV-002")))
	assert.Equal(t, acceptedAt, *d.AcceptedAt)
	assert.False(t, d.IsTerminal())

	d.Complete(acceptedAt.Add(time.Hour))
	assert.Equal(t, DeliveryStatusCompleted, d.Status)
	assert.True(t, d.IsTerminal())
	require.NotNil(t, d.CompletedAt)
}

func TestDelivery_IsTerminal(t *testing.T) {
	tests := []struct {
		status DeliveryStatus
		want   bool
	}{
		{DeliveryStatusPending, false},
		{DeliveryStatusInProgress, false},
		{DeliveryStatusCompleted, true},
		{DeliveryStatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			d := &Delivery{Status: tt.status}
			assert.Equal(t, tt.want, d.IsTerminal())
		})
	}
}

func TestPlatformConfig_IsOperational(t *testing.T) {
	assert.True(t, (&PlatformConfig{IsActive: true}).IsOperational())
	assert.False(t, (&PlatformConfig{IsActive: true, IsPaused: true}).IsOperational())
	assert.False(t, (&PlatformConfig{IsActive: false}).IsOperational())
}

func TestParseIdentity(t *testing.T) {
	valid := "3B6A27BCCEB6A42D62A3A8D02A6F0D73653215771DE243A63AC048A18B59DA29"

	id, err := ParseIdentity(valid)
	require.NoError(t, err)
	assert.Equal(t, Identity("3b6a27bcceb6a42d62a3a8d02a6f0d73653215771de243a63ac048a18b59da29"), id)
	assert.Len(t, id.PublicKey(), 32)

	for _, bad := range []string{"", "zz", "3b6a27", valid + "00"} {
		_, err := ParseIdentity(bad)
		assert.ErrorIs(t, err, ErrInvalidIdentity, bad)
	}
}
