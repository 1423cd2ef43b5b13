package handler

import (
	"delivery-escrow/internal/adapter/http/dto"
	"delivery-escrow/internal/adapter/http/middleware"
	"delivery-escrow/internal/core/ports"
	"delivery-escrow/pkg/apperror"
	"delivery-escrow/pkg/response"

	"github.com/gin-gonic/gin"
)

// VehicleHandler handles vehicle registry endpoints.
type VehicleHandler struct {
	vehicleSvc ports.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(vehicleSvc ports.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleSvc: vehicleSvc}
}

// Register handles POST /api/v1/vehicles.
func (h *VehicleHandler) Register(c *gin.Context) {
	caller, ok := middleware.CallerIdentity(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidIdentity())
		return
	}

	var req dto.RegisterVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	vehicle, err := h.vehicleSvc.RegisterVehicle(c.Request.Context(), ports.RegisterVehicleRequest{
		Caller:    caller,
		VehicleID: req.VehicleID,
		Operator:  req.Operator,
		Location:  req.Location,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, vehicle.VehicleID)
	response.Created(c, toVehicleResponse(vehicle))
}

// Get handles GET /api/v1/vehicles/:vehicle_id.
func (h *VehicleHandler) Get(c *gin.Context) {
	vehicle, err := h.vehicleSvc.GetVehicle(c.Request.Context(), c.Param("vehicle_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toVehicleResponse(vehicle))
}
