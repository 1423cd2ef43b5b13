package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any *AppError carrying the same code, so callers can write
// errors.Is(err, apperror.ErrUnauthorized()).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Security & Authentication (SEC) ----

func ErrInvalidIdentity() *AppError {
	return New("SEC_001", "Invalid or missing signer identity", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New("SEC_002", "Invalid signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New("SEC_003", "Request timestamp expired", http.StatusForbidden)
}

func ErrNonceUsed() *AppError {
	return New("SEC_004", "Nonce has already been used", http.StatusForbidden)
}

// ---- Delivery escrow (ESC) ----

func ErrInvalidParameter(message string) *AppError {
	return New("ESC_001", message, http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("ESC_002", "Invalid amount", http.StatusBadRequest)
}

func ErrConfigInactive() *AppError {
	return New("ESC_003", "Config is inactive", http.StatusConflict)
}

func ErrVehicleNotAvailable() *AppError {
	return New("ESC_004", "Vehicle not available", http.StatusConflict)
}

func ErrInvalidDeliveryStatus() *AppError {
	return New("ESC_005", "Invalid delivery status", http.StatusConflict)
}

func ErrUnauthorized() *AppError {
	return New("ESC_006", "Unauthorized access", http.StatusForbidden)
}

func ErrInvalidTreasury() *AppError {
	return New("ESC_007", "Invalid treasury", http.StatusForbidden)
}

func ErrMathOverflow() *AppError {
	return New("ESC_008", "Math overflow occurred", http.StatusUnprocessableEntity)
}

func ErrAlreadyInitialized(entity string) *AppError {
	return New("ESC_009", fmt.Sprintf("%s already initialized", entity), http.StatusConflict)
}

func ErrInsufficientFunds() *AppError {
	return New("ESC_010", "Insufficient balance", http.StatusPaymentRequired)
}

func ErrNotFound(entity string) *AppError {
	return New("ESC_011", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrLockTimeout(err error) *AppError {
	return Wrap("SYS_002", "Lock acquisition timeout", http.StatusServiceUnavailable, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_003", "Encryption service failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns an ESC_001-style validation error for malformed request bodies.
func Validation(message string) *AppError {
	return ErrInvalidParameter(message)
}
