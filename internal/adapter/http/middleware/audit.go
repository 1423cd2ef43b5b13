package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"delivery-escrow/internal/core/domain"
	"delivery-escrow/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that records successful state changes.
// Handlers may name the touched resource by setting CtxResourceID.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method != http.MethodPost {
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath())
		if action == "" {
			return
		}

		var actor *domain.Identity
		if id, ok := CallerIdentity(c); ok {
			actor = &id
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"request_id": c.GetString(CtxRequestID),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			Actor:        actor,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   c.GetString(CtxResourceID),
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now().UTC(),
		})
	}
}

func mapRouteToAction(route string) (domain.AuditAction, string) {
	switch route {
	case "/api/v1/config":
		return domain.AuditActionInitConfig, "config"
	case "/api/v1/config/pause":
		return domain.AuditActionPauseConfig, "config"
	case "/api/v1/config/resume":
		return domain.AuditActionResumeConfig, "config"
	case "/api/v1/vehicles":
		return domain.AuditActionRegisterVehicle, "vehicle"
	case "/api/v1/deliveries":
		return domain.AuditActionCreateOrder, "delivery"
	case "/api/v1/deliveries/accept":
		return domain.AuditActionAcceptOrder, "delivery"
	case "/api/v1/deliveries/complete":
		return domain.AuditActionCompleteOrder, "delivery"
	case "/api/v1/accounts/deposit":
		return domain.AuditActionDeposit, "account"
	case "/api/v1/auth/session":
		return domain.AuditActionSession, "session"
	}
	return "", ""
}
