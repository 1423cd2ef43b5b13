package dto

// InitializeConfigRequest is the request body for creating the platform config.
// The signer becomes the platform authority.
type InitializeConfigRequest struct {
	FeeBps   uint16 `json:"fee_bps"`
	Treasury string `json:"treasury" binding:"required,identity"`
}

// ConfigResponse is the public view of the platform config.
type ConfigResponse struct {
	Authority string `json:"authority"`
	IsActive  bool   `json:"is_active"`
	IsPaused  bool   `json:"is_paused"`
	FeeBps    uint16 `json:"fee_bps"`
	Treasury  string `json:"treasury"`
	Version   uint32 `json:"version"`
	UpdatedAt string `json:"updated_at"`
}

// RegisterVehicleRequest is the request body for vehicle registration.
type RegisterVehicleRequest struct {
	VehicleID string `json:"vehicle_id" binding:"required,no_control"`
	Operator  string `json:"operator" binding:"required,identity"`
	Location  string `json:"location" binding:"no_control"`
}

// VehicleResponse is the public view of a registered vehicle.
type VehicleResponse struct {
	VehicleID       string `json:"vehicle_id"`
	Address         string `json:"address"`
	Operator        string `json:"operator"`
	Location        string `json:"location"`
	IsActive        bool   `json:"is_active"`
	IsBusy          bool   `json:"is_busy"`
	TotalDeliveries uint64 `json:"total_deliveries"`
	RegisteredAt    string `json:"registered_at"`
}

// CreateOrderRequest is the request body for placing a delivery order.
// The signer is the paying customer.
type CreateOrderRequest struct {
	DeliveryID       uint64 `json:"delivery_id"`
	PaymentAmount    uint64 `json:"payment_amount"`
	PickupLocation   string `json:"pickup_location" binding:"no_control"`
	DeliveryLocation string `json:"delivery_location" binding:"no_control"`
}

// AcceptOrderRequest is the request body for a vehicle operator taking an order.
type AcceptOrderRequest struct {
	Customer   string `json:"customer" binding:"required,identity"`
	DeliveryID uint64 `json:"delivery_id"`
	VehicleID  string `json:"vehicle_id" binding:"required,no_control"`
}

// CompleteOrderRequest is the request body for settling a delivery.
type CompleteOrderRequest struct {
	Customer        string `json:"customer" binding:"required,identity"`
	DeliveryID      uint64 `json:"delivery_id"`
	VehicleID       string `json:"vehicle_id" binding:"required,no_control"`
	OperatorAccount string `json:"operator_account" binding:"required"`
	TreasuryAccount string `json:"treasury_account" binding:"required"`
}

// DeliveryResponse is the public view of a delivery order.
type DeliveryResponse struct {
	DeliveryID       uint64  `json:"delivery_id"`
	Address          string  `json:"address"`
	Customer         string  `json:"customer"`
	PaymentAmount    uint64  `json:"payment_amount"`
	PickupLocation   string  `json:"pickup_location"`
	DeliveryLocation string  `json:"delivery_location"`
	Status           string  `json:"status"`
	AssignedVehicle  *string `json:"assigned_vehicle,omitempty"`
	EscrowAddress    string  `json:"escrow_address"`
	CreatedAt        string  `json:"created_at"`
	AcceptedAt       *string `json:"accepted_at,omitempty"`
	CompletedAt      *string `json:"completed_at,omitempty"`
}

// CompletionResponse reports a settled delivery and its escrow split.
type CompletionResponse struct {
	Delivery       DeliveryResponse `json:"delivery"`
	PlatformFee    uint64           `json:"platform_fee"`
	VehiclePayment uint64           `json:"vehicle_payment"`
}

// DepositRequest is the request body for crediting an account.
type DepositRequest struct {
	Address string `json:"address" binding:"required"`
	Amount  uint64 `json:"amount"`
}

// BalanceResponse is the response for a balance query.
type BalanceResponse struct {
	Address string `json:"address"`
	Kind    string `json:"kind"`
	Balance uint64 `json:"balance"`
}

// LedgerEntryResponse is the public view of a ledger entry.
type LedgerEntryResponse struct {
	ID          string  `json:"id"`
	EntryType   string  `json:"entry_type"`
	FromAddress *string `json:"from_address,omitempty"`
	ToAddress   string  `json:"to_address"`
	Amount      uint64  `json:"amount"`
	DeliveryKey *string `json:"delivery_key,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// SessionResponse is the response body for an issued session token.
type SessionResponse struct {
	Token    string `json:"token"`
	Identity string `json:"identity"`
	Expiry   int64  `json:"expiry"` // Unix timestamp
}
