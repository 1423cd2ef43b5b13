package handler

import (
	"strconv"

	"delivery-escrow/internal/adapter/http/dto"
	"delivery-escrow/internal/adapter/http/middleware"
	"delivery-escrow/internal/core/domain"
	"delivery-escrow/internal/core/ports"
	"delivery-escrow/pkg/apperror"
	"delivery-escrow/pkg/response"

	"github.com/gin-gonic/gin"
)

// DeliveryHandler handles the delivery escrow lifecycle endpoints.
type DeliveryHandler struct {
	deliverySvc ports.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(deliverySvc ports.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliverySvc: deliverySvc}
}

// Create handles POST /api/v1/deliveries. The signer pays for the order.
func (h *DeliveryHandler) Create(c *gin.Context) {
	customer, ok := middleware.CallerIdentity(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidIdentity())
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	delivery, err := h.deliverySvc.CreateOrder(c.Request.Context(), ports.CreateOrderRequest{
		Customer:         customer,
		DeliveryID:       req.DeliveryID,
		PaymentAmount:    req.PaymentAmount,
		PickupLocation:   req.PickupLocation,
		DeliveryLocation: req.DeliveryLocation,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, delivery.Key.String())
	response.Created(c, toDeliveryResponse(delivery))
}

// Accept handles POST /api/v1/deliveries/accept. The signer must operate the vehicle.
func (h *DeliveryHandler) Accept(c *gin.Context) {
	operator, ok := middleware.CallerIdentity(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidIdentity())
		return
	}

	var req dto.AcceptOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	customer, _ := domain.ParseIdentity(req.Customer)

	delivery, err := h.deliverySvc.AcceptOrder(c.Request.Context(), ports.AcceptOrderRequest{
		Operator:   operator,
		Customer:   customer,
		DeliveryID: req.DeliveryID,
		VehicleID:  req.VehicleID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, delivery.Key.String())
	response.OK(c, toDeliveryResponse(delivery))
}

// Complete handles POST /api/v1/deliveries/complete and settles the escrow.
func (h *DeliveryHandler) Complete(c *gin.Context) {
	caller, ok := middleware.CallerIdentity(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidIdentity())
		return
	}

	var req dto.CompleteOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	customer, _ := domain.ParseIdentity(req.Customer)

	result, err := h.deliverySvc.CompleteOrder(c.Request.Context(), ports.CompleteOrderRequest{
		Caller:          caller,
		Customer:        customer,
		DeliveryID:      req.DeliveryID,
		VehicleID:       req.VehicleID,
		OperatorAccount: req.OperatorAccount,
		TreasuryAccount: req.TreasuryAccount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, result.Delivery.Key.String())
	response.OK(c, dto.CompletionResponse{
		Delivery:       toDeliveryResponse(result.Delivery),
		PlatformFee:    result.Fee,
		VehiclePayment: result.VehiclePayment,
	})
}

// Get handles GET /api/v1/deliveries/:customer/:delivery_id.
func (h *DeliveryHandler) Get(c *gin.Context) {
	customer, err := domain.ParseIdentity(c.Param("customer"))
	if err != nil {
		response.Error(c, apperror.ErrInvalidParameter("customer must be a hex encoded ed25519 public key"))
		return
	}
	deliveryID, err := strconv.ParseUint(c.Param("delivery_id"), 10, 64)
	if err != nil {
		response.Error(c, apperror.ErrInvalidParameter("delivery_id must be an unsigned integer"))
		return
	}

	delivery, err := h.deliverySvc.GetDelivery(c.Request.Context(), customer, deliveryID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toDeliveryResponse(delivery))
}
