package domain

import "time"

// AccountKind classifies ledger accounts.
type AccountKind string

const (
	AccountKindWallet   AccountKind = "WALLET"
	AccountKindEscrow   AccountKind = "ESCROW"
	AccountKindTreasury AccountKind = "TREASURY"
)

// Account is a balance held by the ledger. Wallet and treasury accounts are
// addressed by an Identity, escrow accounts by their derived key.
type Account struct {
	Address          string      `json:"address"`
	Kind             AccountKind `json:"kind"`
	EncryptedBalance string      `json:"-"` // AES-256 encrypted, never expose raw
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}
