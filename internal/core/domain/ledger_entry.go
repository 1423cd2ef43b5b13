package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntryType represents the kind of balance movement.
type EntryType string

const (
	EntryTypeDeposit        EntryType = "DEPOSIT"
	EntryTypeEscrowFund     EntryType = "ESCROW_FUND"
	EntryTypeOperatorPayout EntryType = "OPERATOR_PAYOUT"
	EntryTypePlatformFee    EntryType = "PLATFORM_FEE"
)

// LedgerEntry is an immutable record of one debit/credit pair.
type LedgerEntry struct {
	ID          uuid.UUID `json:"id"`
	EntryType   EntryType `json:"entry_type"`
	FromAddress *string   `json:"from_address,omitempty"` // nil for deposits
	ToAddress   string    `json:"to_address"`
	Amount      uint64    `json:"amount"`
	DeliveryKey *string   `json:"delivery_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
