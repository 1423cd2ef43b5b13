package handler

import (
	"delivery-escrow/config"
	"delivery-escrow/internal/adapter/http/middleware"
	redisStore "delivery-escrow/internal/adapter/storage/redis"
	"delivery-escrow/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	PlatformSvc    ports.PlatformService
	VehicleSvc     ports.VehicleService
	DeliverySvc    ports.DeliveryService
	LedgerSvc      ports.LedgerService
	SigSvc         ports.SignatureService
	NonceStore     ports.NonceStore
	TokenSvc       ports.TokenService
	AuthConfig     config.AuthConfig
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	ingress := rl(middleware.IngressGroup)
	signed := middleware.SignedRequest(deps.SigSvc, deps.NonceStore, deps.AuthConfig, deps.Logger)
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	platformHandler := NewPlatformHandler(deps.PlatformSvc)
	vehicleHandler := NewVehicleHandler(deps.VehicleSvc)
	deliveryHandler := NewDeliveryHandler(deps.DeliverySvc)
	ledgerHandler := NewLedgerHandler(deps.LedgerSvc)
	sessionHandler := NewSessionHandler(deps.TokenSvc)

	v1 := r.Group("/api/v1")

	// Signed writes. The ingress limit is per IP and runs before the Ed25519
	// check; the group limit is per verified signer and runs after it.
	v1.POST("/auth/session", ingress, signed, rl("session"), sessionHandler.Issue)

	cfg := v1.Group("/config")
	{
		cfg.POST("", ingress, signed, rl("config"), platformHandler.Initialize)
		cfg.POST("/pause", ingress, signed, rl("config"), platformHandler.Pause)
		cfg.POST("/resume", ingress, signed, rl("config"), platformHandler.Resume)
		cfg.GET("", jwtAuth, rl("reads"), platformHandler.Get)
	}

	vehicles := v1.Group("/vehicles")
	{
		vehicles.POST("", ingress, signed, rl("vehicles"), vehicleHandler.Register)
		vehicles.GET("/:vehicle_id", jwtAuth, rl("reads"), vehicleHandler.Get)
	}

	deliveries := v1.Group("/deliveries")
	{
		deliveries.POST("", ingress, signed, rl("deliveries"), deliveryHandler.Create)
		deliveries.POST("/accept", ingress, signed, rl("deliveries"), deliveryHandler.Accept)
		deliveries.POST("/complete", ingress, signed, rl("deliveries"), deliveryHandler.Complete)
		deliveries.GET("/:customer/:delivery_id", jwtAuth, rl("reads"), deliveryHandler.Get)
	}

	accounts := v1.Group("/accounts")
	{
		accounts.POST("/deposit", ingress, signed, rl("deposits"), ledgerHandler.Deposit)
		accounts.GET("/:address", jwtAuth, rl("reads"), ledgerHandler.GetBalance)
		accounts.GET("/:address/entries", jwtAuth, rl("reads"), ledgerHandler.ListEntries)
	}

	return r
}
