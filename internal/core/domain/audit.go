package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionInitConfig      AuditAction = "INIT_CONFIG"
	AuditActionPauseConfig     AuditAction = "PAUSE_CONFIG"
	AuditActionResumeConfig    AuditAction = "RESUME_CONFIG"
	AuditActionRegisterVehicle AuditAction = "REGISTER_VEHICLE"
	AuditActionCreateOrder     AuditAction = "CREATE_ORDER"
	AuditActionAcceptOrder     AuditAction = "ACCEPT_ORDER"
	AuditActionCompleteOrder   AuditAction = "COMPLETE_ORDER"
	AuditActionDeposit         AuditAction = "DEPOSIT"
	AuditActionSession         AuditAction = "SESSION"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	Actor        *Identity   `json:"actor,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
