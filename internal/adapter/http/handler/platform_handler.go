package handler

import (
	"delivery-escrow/internal/adapter/http/dto"
	"delivery-escrow/internal/adapter/http/middleware"
	"delivery-escrow/internal/core/ports"
	"delivery-escrow/pkg/apperror"
	"delivery-escrow/pkg/response"

	"github.com/gin-gonic/gin"
)

// PlatformHandler handles the platform config endpoints.
type PlatformHandler struct {
	platformSvc ports.PlatformService
}

// NewPlatformHandler creates a new PlatformHandler.
func NewPlatformHandler(platformSvc ports.PlatformService) *PlatformHandler {
	return &PlatformHandler{platformSvc: platformSvc}
}

// Initialize handles POST /api/v1/config.
func (h *PlatformHandler) Initialize(c *gin.Context) {
	caller, ok := middleware.CallerIdentity(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidIdentity())
		return
	}

	var req dto.InitializeConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	cfg, err := h.platformSvc.InitializeConfig(c.Request.Context(), ports.InitializeConfigRequest{
		Caller:   caller,
		FeeBps:   req.FeeBps,
		Treasury: req.Treasury,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, cfg.Key.String())
	response.Created(c, toConfigResponse(cfg))
}

// Pause handles POST /api/v1/config/pause.
func (h *PlatformHandler) Pause(c *gin.Context) {
	h.setPaused(c, true)
}

// Resume handles POST /api/v1/config/resume.
func (h *PlatformHandler) Resume(c *gin.Context) {
	h.setPaused(c, false)
}

func (h *PlatformHandler) setPaused(c *gin.Context, paused bool) {
	caller, ok := middleware.CallerIdentity(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidIdentity())
		return
	}

	cfg, err := h.platformSvc.SetPaused(c.Request.Context(), caller, paused)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, cfg.Key.String())
	response.OK(c, toConfigResponse(cfg))
}

// Get handles GET /api/v1/config.
func (h *PlatformHandler) Get(c *gin.Context) {
	cfg, err := h.platformSvc.GetConfig(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toConfigResponse(cfg))
}
