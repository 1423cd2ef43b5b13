package handler

import (
	"delivery-escrow/internal/adapter/http/dto"
	"delivery-escrow/internal/adapter/http/middleware"
	"delivery-escrow/internal/core/ports"
	"delivery-escrow/pkg/apperror"
	"delivery-escrow/pkg/response"

	"github.com/gin-gonic/gin"
)

// SessionHandler exchanges a signed request for a read-only session token.
type SessionHandler struct {
	tokenSvc ports.TokenService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(tokenSvc ports.TokenService) *SessionHandler {
	return &SessionHandler{tokenSvc: tokenSvc}
}

// Issue handles POST /api/v1/auth/session.
func (h *SessionHandler) Issue(c *gin.Context) {
	identity, ok := middleware.CallerIdentity(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidIdentity())
		return
	}

	token, expiry, err := h.tokenSvc.Generate(identity)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}

	c.Set(middleware.CtxResourceID, identity.String())
	response.OK(c, dto.SessionResponse{
		Token:    token,
		Identity: identity.String(),
		Expiry:   expiry.Unix(),
	})
}
