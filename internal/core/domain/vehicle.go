package domain

import (
	"math"
	"time"

	"delivery-escrow/internal/core/address"
)

const (
	MaxVehicleIDLen = 32
	MaxLocationLen  = 64
)

// Vehicle is a registered autonomous delivery vehicle.
type Vehicle struct {
	Key             address.Key `json:"key"`
	VehicleID       string      `json:"vehicle_id"`
	Operator        Identity    `json:"operator"`
	Location        string      `json:"location"`
	IsActive        bool        `json:"is_active"`
	IsBusy          bool        `json:"is_busy"`
	TotalDeliveries uint64      `json:"total_deliveries"`
	RegisteredAt    time.Time   `json:"registered_at"`
}

// IsAvailable reports whether the vehicle may accept a delivery.
func (v *Vehicle) IsAvailable() bool {
	return v.IsActive && !v.IsBusy
}

// MarkBusy binds the vehicle to a delivery.
func (v *Vehicle) MarkBusy() {
	v.IsBusy = true
}

// MarkFree releases the vehicle after a completed delivery and counts it.
// On overflow the vehicle is left untouched.
func (v *Vehicle) MarkFree() error {
	if v.TotalDeliveries == math.MaxUint64 {
		return ErrMathOverflow
	}
	v.TotalDeliveries++
	v.IsBusy = false
	return nil
}
