package ports

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"
	"time"

	"delivery-escrow/internal/core/domain"
)

// EncryptionService handles AES-256-GCM encryption/decryption.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// SignatureService verifies Ed25519 request signatures.
type SignatureService interface {
	Verify(signer domain.Identity, payload string, signatureHex string) bool
	BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string
}

// TokenService handles JWT session tokens.
type TokenService interface {
	Generate(identity domain.Identity) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Identity domain.Identity
}

// NonceStore manages nonce uniqueness for replay attack prevention.
type NonceStore interface {
	// CheckAndSet atomically checks if nonce exists, sets it if not.
	// Returns true if nonce is new (valid), false if already used.
	CheckAndSet(ctx context.Context, identity string, nonce string, ttl time.Duration) (bool, error)
}

// --- Service Ports (Business Logic) ---

// PlatformService manages the platform config singleton.
type PlatformService interface {
	InitializeConfig(ctx context.Context, req InitializeConfigRequest) (*domain.PlatformConfig, error)
	GetConfig(ctx context.Context) (*domain.PlatformConfig, error)
	SetPaused(ctx context.Context, caller domain.Identity, paused bool) (*domain.PlatformConfig, error)
}

// InitializeConfigRequest holds input for config initialization.
type InitializeConfigRequest struct {
	Caller   domain.Identity
	FeeBps   uint16
	Treasury string
}

// VehicleService manages the vehicle registry.
type VehicleService interface {
	RegisterVehicle(ctx context.Context, req RegisterVehicleRequest) (*domain.Vehicle, error)
	GetVehicle(ctx context.Context, vehicleID string) (*domain.Vehicle, error)
}

// RegisterVehicleRequest holds input for vehicle registration.
type RegisterVehicleRequest struct {
	Caller    domain.Identity
	VehicleID string
	Operator  string
	Location  string
}

// DeliveryService runs the delivery escrow lifecycle.
type DeliveryService interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Delivery, error)
	AcceptOrder(ctx context.Context, req AcceptOrderRequest) (*domain.Delivery, error)
	CompleteOrder(ctx context.Context, req CompleteOrderRequest) (*CompletionResult, error)
	GetDelivery(ctx context.Context, customer domain.Identity, deliveryID uint64) (*domain.Delivery, error)
}

// CreateOrderRequest holds input for order creation. Customer is the verified caller.
type CreateOrderRequest struct {
	Customer         domain.Identity
	DeliveryID       uint64
	PaymentAmount    uint64
	PickupLocation   string
	DeliveryLocation string
}

// AcceptOrderRequest holds input for order acceptance. Operator is the verified caller.
type AcceptOrderRequest struct {
	Operator   domain.Identity
	Customer   domain.Identity
	DeliveryID uint64
	VehicleID  string
}

// CompleteOrderRequest holds input for order completion. Caller is the verified
// signer acting for the vehicle.
type CompleteOrderRequest struct {
	Caller          domain.Identity
	Customer        domain.Identity
	DeliveryID      uint64
	VehicleID       string
	OperatorAccount string
	TreasuryAccount string
}

// CompletionResult reports the settled delivery and how the escrow was split.
type CompletionResult struct {
	Delivery       *domain.Delivery
	Fee            uint64
	VehiclePayment uint64
}

// LedgerService exposes balances and deposits.
type LedgerService interface {
	Deposit(ctx context.Context, req DepositRequest) (*domain.LedgerEntry, error)
	GetBalance(ctx context.Context, address string) (uint64, domain.AccountKind, error)
	ListEntries(ctx context.Context, params LedgerListParams) ([]domain.LedgerEntry, int64, error)
}

// DepositRequest holds input for crediting an account from outside the ledger.
type DepositRequest struct {
	Caller  domain.Identity
	Address string
	Amount  uint64
}

// AuditService records audited actions.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
