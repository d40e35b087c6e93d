package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/solepos/backend/internal/domain/identity"
	"github.com/solepos/backend/internal/domain/shared"
	"github.com/solepos/backend/internal/infrastructure/auth"
	"github.com/solepos/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

// AuthService handles admin authentication
type AuthService struct {
	adminRepo   identity.AdminRepository
	jwtService  *auth.JWTService
	revocations auth.RevocationStore
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	adminRepo identity.AdminRepository,
	jwtService *auth.JWTService,
	revocations auth.RevocationStore,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if revocations == nil {
		revocations = auth.NewInMemoryRevocationStore()
	}
	return &AuthService{
		adminRepo:   adminRepo,
		jwtService:  jwtService,
		revocations: revocations,
		logger:      logger,
	}
}

// Login authenticates an admin and returns a token pair. Unknown usernames
// and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	log := logger.L(ctx, s.logger).With(zap.String("username", req.Username))

	admin, err := s.adminRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("Login for unknown admin")
			return nil, errInvalidCredentials
		}
		log.Error("Failed to load admin", zap.Error(err))
		return nil, err
	}
	if !admin.VerifyPassword(req.Password) {
		log.Warn("Invalid password attempt")
		return nil, errInvalidCredentials
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		AdminID:  admin.ID,
		Username: admin.Username,
	})
	if err != nil {
		log.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens", err)
	}

	log.Info("Admin logged in", zap.String("admin_id", admin.ID.String()))
	return &LoginResponse{
		TokenResponse: toTokenResponse(pair),
		Admin:         ToAdminResponse(admin),
	}, nil
}

// Refresh exchanges a refresh token for a new pair, provided the admin still
// exists and has not been revoked since the token was issued.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, tokenError(err)
	}
	adminID, err := claims.AdminUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid admin ID in token")
	}
	if _, err := s.adminRepo.FindByID(ctx, adminID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	revoked, err := s.revocations.IsAdminRevoked(ctx, claims.AdminID, claims.IssuedAtTime())
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
	}

	pair, err := s.jwtService.RefreshTokenPair(req.RefreshToken)
	if err != nil {
		return nil, tokenError(err)
	}
	resp := toTokenResponse(pair)
	return &resp, nil
}

// Me returns the admin behind an authenticated request
func (s *AuthService) Me(ctx context.Context, adminID uuid.UUID) (*AdminResponse, error) {
	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	resp := ToAdminResponse(admin)
	return &resp, nil
}

// Logout revokes the presented access token until it would have expired
func (s *AuthService) Logout(ctx context.Context, in LogoutInput) error {
	if in.TokenJTI == "" {
		return nil
	}
	ttl := time.Until(in.ExpiresAt)
	if err := s.revocations.RevokeToken(ctx, in.TokenJTI, ttl); err != nil {
		logger.L(ctx, s.logger).Error("Failed to revoke token", zap.Error(err))
		return err
	}
	logger.L(ctx, s.logger).Info("Admin logged out", zap.String("admin_id", in.AdminID.String()))
	return nil
}

// EnsureAdmin creates the admin unless the username is already taken.
// It returns true when a new admin was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if _, err := s.adminRepo.FindByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return false, err
	}

	admin, err := identity.NewAdmin(username, password)
	if err != nil {
		return false, err
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	logger.L(ctx, s.logger).Info("Admin created", zap.String("username", admin.Username))
	return true, nil
}

func toTokenResponse(pair *auth.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.WrapDomainError("TOKEN_EXPIRED", "Refresh token has expired", err)
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.WrapDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again", err)
	default:
		return shared.WrapDomainError("TOKEN_INVALID", "Invalid refresh token", err)
	}
}
