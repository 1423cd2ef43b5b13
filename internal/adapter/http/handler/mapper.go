package handler

import (
	"time"

	"delivery-escrow/internal/adapter/http/dto"
	"delivery-escrow/internal/core/domain"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func toConfigResponse(cfg *domain.PlatformConfig) dto.ConfigResponse {
	return dto.ConfigResponse{
		Authority: cfg.Authority.String(),
		IsActive:  cfg.IsActive,
		IsPaused:  cfg.IsPaused,
		FeeBps:    cfg.FeeBps,
		Treasury:  cfg.Treasury.String(),
		Version:   cfg.Version,
		UpdatedAt: formatTime(cfg.UpdatedAt),
	}
}

func toVehicleResponse(v *domain.Vehicle) dto.VehicleResponse {
	return dto.VehicleResponse{
		VehicleID:       v.VehicleID,
		Address:         v.Key.String(),
		Operator:        v.Operator.String(),
		Location:        v.Location,
		IsActive:        v.IsActive,
		IsBusy:          v.IsBusy,
		TotalDeliveries: v.TotalDeliveries,
		RegisteredAt:    formatTime(v.RegisteredAt),
	}
}

func toDeliveryResponse(d *domain.Delivery) dto.DeliveryResponse {
	resp := dto.DeliveryResponse{
		DeliveryID:       d.DeliveryID,
		Address:          d.Key.String(),
		Customer:         d.Customer.String(),
		PaymentAmount:    d.PaymentAmount,
		PickupLocation:   d.PickupLocation,
		DeliveryLocation: d.DeliveryLocation,
		Status:           string(d.Status),
		EscrowAddress:    d.EscrowAddress.String(),
		CreatedAt:        formatTime(d.CreatedAt),
		AcceptedAt:       formatTimePtr(d.AcceptedAt),
		CompletedAt:      formatTimePtr(d.CompletedAt),
	}
	if d.AssignedVehicle != nil {
		s := d.AssignedVehicle.String()
		resp.AssignedVehicle = &s
	}
	return resp
}

func toLedgerEntryResponse(e *domain.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:          e.ID.String(),
		EntryType:   string(e.EntryType),
		FromAddress: e.FromAddress,
		ToAddress:   e.ToAddress,
		Amount:      e.Amount,
		DeliveryKey: e.DeliveryKey,
		CreatedAt:   formatTime(e.CreatedAt),
	}
}
