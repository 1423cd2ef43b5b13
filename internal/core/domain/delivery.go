package domain

import (
	"time"

	"delivery-escrow/internal/core/address"
)

// DeliveryStatus represents the lifecycle state of a delivery order.
type DeliveryStatus string

const (
	DeliveryStatusPending    DeliveryStatus = "PENDING"
	DeliveryStatusInProgress DeliveryStatus = "IN_PROGRESS"
	DeliveryStatusCompleted  DeliveryStatus = "COMPLETED"
	// DeliveryStatusCancelled is reserved; no operation transitions into it.
	DeliveryStatusCancelled DeliveryStatus = "CANCELLED"
)

// Delivery is a customer order whose payment sits in escrow until completion.
type Delivery struct {
	Key              address.Key    `json:"key"`
	DeliveryID       uint64         `json:"delivery_id"`
	Customer         Identity       `json:"customer"`
	PaymentAmount    uint64         `json:"payment_amount"`
	PickupLocation   string         `json:"pickup_location"`
	DeliveryLocation string         `json:"delivery_location"`
	Status           DeliveryStatus `json:"status"`
	AssignedVehicle  *address.Key   `json:"assigned_vehicle,omitempty"`
	EscrowAddress    address.Key    `json:"escrow_address"`
	CreatedAt        time.Time      `json:"created_at"`
	AcceptedAt       *time.Time     `json:"accepted_at,omitempty"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
}

// IsTerminal returns true if no further transition is possible.
func (d *Delivery) IsTerminal() bool {
	return d.Status == DeliveryStatusCompleted || d.Status == DeliveryStatusCancelled
}

// Accept moves a pending delivery to IN_PROGRESS bound to vehicleKey.
func (d *Delivery) Accept(vehicleKey address.Key, at time.Time) {
	d.Status = DeliveryStatusInProgress
	d.AssignedVehicle = &vehicleKey
	d.AcceptedAt = &at
}

// Complete moves an in-progress delivery to COMPLETED.
func (d *Delivery) Complete(at time.Time) {
	d.Status = DeliveryStatusCompleted
	d.CompletedAt = &at
}

// IsAssignedTo reports whether vehicleKey is the vehicle bound to this delivery.
func (d *Delivery) IsAssignedTo(vehicleKey address.Key) bool {
	return d.AssignedVehicle != nil && *d.AssignedVehicle == vehicleKey
}
