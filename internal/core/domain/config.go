package domain

import (
	"time"

	"delivery-escrow/internal/core/address"
)

// MaxFeeBps is 100% expressed in basis points.
const MaxFeeBps = 10000

// PlatformConfig is the singleton record holding platform-wide settings.
type PlatformConfig struct {
	Key       address.Key `json:"key"`
	Authority Identity    `json:"authority"`
	IsActive  bool        `json:"is_active"`
	IsPaused  bool        `json:"is_paused"`
	FeeBps    uint16      `json:"fee_bps"`
	Treasury  Identity    `json:"treasury"`
	Version   uint32      `json:"version"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// IsOperational reports whether state-changing operations may run.
func (c *PlatformConfig) IsOperational() bool {
	return c.IsActive && !c.IsPaused
}
