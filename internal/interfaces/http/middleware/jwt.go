package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/solepos/backend/internal/infrastructure/auth"
	"github.com/solepos/backend/internal/infrastructure/logger"
	"github.com/solepos/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTUsernameKey = "jwt_username"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService validates access tokens
	JWTService *auth.JWTService
	// Revocations is optional; when set, logged-out tokens are rejected
	Revocations auth.RevocationStore
	// SkipPaths are full paths that don't require authentication
	SkipPaths []string
	Logger    *zap.Logger
}

// JWTAuth authenticates the admin behind the bearer token and stores the
// claims on the gin context and the admin ID on the request context.
func JWTAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortUnauthorized(c, log, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, log, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		if token == "" {
			abortUnauthorized(c, log, auth.ErrInvalidToken, "Missing token")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			abortUnauthorized(c, log, err, "Token validation failed")
			return
		}

		if cfg.Revocations != nil && revoked(c, cfg.Revocations, claims, log) {
			abortUnauthorized(c, log, auth.ErrTokenRevoked, "Token has been revoked")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.AdminID)
		c.Set(JWTUsernameKey, claims.Username)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.AdminID))

		c.Next()
	}
}

// revoked checks the token and the admin against the store. Store errors fail open.
func revoked(c *gin.Context, store auth.RevocationStore, claims *auth.Claims, log *zap.Logger) bool {
	ctx := c.Request.Context()
	if claims.ID != "" {
		isRevoked, err := store.IsTokenRevoked(ctx, claims.ID)
		if err != nil {
			log.Error("Failed to check token revocation", zap.String("jti", claims.ID), zap.Error(err))
		} else if isRevoked {
			return true
		}
	}
	isRevoked, err := store.IsAdminRevoked(ctx, claims.AdminID, claims.IssuedAtTime())
	if err != nil {
		log.Error("Failed to check admin revocation", zap.String("admin_id", claims.AdminID), zap.Error(err))
		return false
	}
	return isRevoked
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, err error, message string) {
	log.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("message", message),
		zap.String("path", c.Request.URL.Path),
	)

	code, msg := "UNAUTHORIZED", "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, msg = "TOKEN_EXPIRED", "Token has expired"
	case errors.Is(err, auth.ErrInvalidTokenType):
		code, msg = "TOKEN_INVALID_TYPE", "Invalid token type"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		code, msg = "TOKEN_NOT_VALID", "Token is not yet valid"
	case errors.Is(err, auth.ErrTokenRevoked):
		code, msg = "TOKEN_REVOKED", "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingAdminID), errors.Is(err, auth.ErrInvalidClaims):
		code, msg = "TOKEN_INVALID", "Invalid token"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, msg, GetRequestID(c)))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTAdminID returns the authenticated admin's ID
func GetJWTAdminID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(JWTUserIDKey))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
