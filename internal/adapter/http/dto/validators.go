package dto

import (
	"strings"
	"unicode"

	"delivery-escrow/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("no_control", validateNoControl)
		_ = v.RegisterValidation("identity", validateIdentity)
	}
}

// validateNoControl rejects strings carrying control characters. The value
// is otherwise passed through byte for byte, so length limits are enforced
// on exactly what the client sent.
func validateNoControl(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsControl) < 0
}

// validateIdentity accepts a hex encoded Ed25519 public key.
func validateIdentity(fl validator.FieldLevel) bool {
	_, err := domain.ParseIdentity(fl.Field().String())
	return err == nil
}
