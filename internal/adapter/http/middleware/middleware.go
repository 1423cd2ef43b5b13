package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"delivery-escrow/config"
	"delivery-escrow/internal/core/domain"
	"delivery-escrow/internal/core/ports"
	"delivery-escrow/pkg/apperror"
	"delivery-escrow/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// Header names for signed requests
	HeaderIdentity  = "X-Identity"
	HeaderSignature = "X-Signature"
	HeaderTimestamp = "X-Timestamp"
	HeaderNonce     = "X-Nonce"
	HeaderRequestID = "X-Request-ID"

	defaultTimestampDrift = 60 * time.Second
	defaultNonceTTL       = 120 * time.Second

	// Context keys
	CtxIdentity   = "identity"
	CtxRequestID  = "request_id"
	CtxResourceID = "resource_id"
)

// CallerIdentity returns the identity authenticated by SignedRequest or JWTAuth.
func CallerIdentity(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return "", false
	}
	id, ok := v.(domain.Identity)
	return id, ok && id != ""
}

// SignedRequest verifies Ed25519 request signatures.
// Pipeline: identity -> timestamp -> signature -> nonce.
// The nonce is claimed only after the signature checks out so a forged
// request cannot burn a signer's nonce.
func SignedRequest(
	sigSvc ports.SignatureService,
	nonceStore ports.NonceStore,
	cfg config.AuthConfig,
	log zerolog.Logger,
) gin.HandlerFunc {
	drift := cfg.MaxTimestampDrift
	if drift <= 0 {
		drift = defaultTimestampDrift
	}
	ttl := cfg.NonceTTL
	if ttl <= 0 {
		ttl = defaultNonceTTL
	}

	return func(c *gin.Context) {
		identityHdr := c.GetHeader(HeaderIdentity)
		signature := c.GetHeader(HeaderSignature)
		timestampStr := c.GetHeader(HeaderTimestamp)
		nonce := c.GetHeader(HeaderNonce)

		if identityHdr == "" || signature == "" || timestampStr == "" || nonce == "" {
			response.Error(c, apperror.ErrInvalidIdentity())
			c.Abort()
			return
		}
		identity, err := domain.ParseIdentity(identityHdr)
		if err != nil {
			response.Error(c, apperror.ErrInvalidIdentity())
			c.Abort()
			return
		}

		// Step 1: Timestamp check
		timestamp, err := strconv.ParseInt(timestampStr, 10, 64)
		if err != nil {
			response.Error(c, apperror.ErrTimestampExpired())
			c.Abort()
			return
		}
		skew := time.Since(time.Unix(timestamp, 0))
		if skew < 0 {
			skew = -skew
		}
		if skew > drift {
			response.Error(c, apperror.ErrTimestampExpired())
			c.Abort()
			return
		}

		// Step 2: Signature verification over the raw body
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.Error(c, apperror.Validation("cannot read request body"))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		canonical := sigSvc.BuildCanonicalString(
			c.Request.Method,
			c.Request.URL.Path,
			timestamp,
			nonce,
			string(bodyBytes),
		)
		if !sigSvc.Verify(identity, canonical, signature) {
			response.Error(c, apperror.ErrInvalidSignature())
			c.Abort()
			return
		}

		// Step 3: Replay check
		isNew, err := nonceStore.CheckAndSet(c.Request.Context(), identity.String(), nonce, ttl)
		if err != nil {
			log.Error().Err(err).Msg("nonce store unavailable, rejecting signed request")
			response.Error(c, apperror.InternalError(err))
			c.Abort()
			return
		}
		if !isNew {
			response.Error(c, apperror.ErrNonceUsed())
			c.Abort()
			return
		}

		c.Set(CtxIdentity, identity)
		c.Next()
	}
}

// JWTAuth creates a middleware that validates session tokens for read routes.
func JWTAuth(tokenSvc ports.TokenService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenStr == "" {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		claims, err := tokenSvc.Validate(tokenStr)
		if err != nil {
			log.Debug().Err(err).Msg("session token rejected")
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		c.Set(CtxIdentity, claims.Identity)
		c.Next()
	}
}

// RequestID tags every request with an id, reusing the caller's X-Request-ID
// when it is a UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		c.Set(CtxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		if id, ok := CallerIdentity(c); ok {
			event = event.Str("identity", id.String())
		}
		if last := c.Errors.Last(); last != nil {
			event = event.Str("error", last.Error())
		}

		event.
			Str("request_id", c.GetString(CtxRequestID)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": "SYS_001",
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
