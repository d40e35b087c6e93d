package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/solepos/backend/internal/infrastructure/config"
)

// TokenType distinguishes access tokens from refresh tokens
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidTokenType   = errors.New("invalid token type")
	ErrInvalidClaims      = errors.New("invalid token claims")
	ErrTokenNotYetValid   = errors.New("token is not yet valid")
	ErrMissingAdminID     = errors.New("missing admin_id in claims")
	ErrMaxRefreshExceeded = errors.New("maximum refresh count exceeded")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// Claims is the payload of every token issued to a shop admin
type Claims struct {
	jwt.RegisteredClaims
	AdminID      string    `json:"admin_id"`
	Username     string    `json:"username"`
	TokenType    TokenType `json:"token_type"`
	RefreshCount int       `json:"refresh_count,omitempty"`
}

// AdminUUID parses the admin ID carried by the token
func (c *Claims) AdminUUID() (uuid.UUID, error) {
	return uuid.Parse(c.AdminID)
}

// IssuedAtTime is the zero time when the claim is absent
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// ExpiresAtTime is the zero time when the claim is absent
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// TokenPair is returned by login and refresh
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// GenerateTokenInput identifies the admin a pair is issued to
type GenerateTokenInput struct {
	AdminID  uuid.UUID
	Username string
}

type signingKey struct {
	secret []byte
	ttl    time.Duration
}

// JWTService signs and verifies HS256 admin tokens. Access and refresh
// tokens may use separate secrets.
type JWTService struct {
	keys            map[TokenType]signingKey
	issuer          string
	maxRefreshCount int
}

// NewJWTService builds the service from config. An empty refresh secret
// falls back to the access secret.
func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.Secret
	}
	return &JWTService{
		keys: map[TokenType]signingKey{
			TokenTypeAccess:  {secret: []byte(cfg.Secret), ttl: cfg.AccessTokenExpiration},
			TokenTypeRefresh: {secret: []byte(refreshSecret), ttl: cfg.RefreshTokenExpiration},
		},
		issuer:          cfg.Issuer,
		maxRefreshCount: cfg.MaxRefreshCount,
	}
}

// GenerateTokenPair issues a fresh access and refresh token
func (s *JWTService) GenerateTokenPair(input GenerateTokenInput) (*TokenPair, error) {
	return s.issuePair(input.AdminID.String(), input.Username, 0)
}

// RefreshTokenPair exchanges a valid refresh token for a new pair. Each
// exchange bumps the refresh count until maxRefreshCount forces a new login.
func (s *JWTService) RefreshTokenPair(refreshToken string) (*TokenPair, error) {
	claims, err := s.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.RefreshCount >= s.maxRefreshCount {
		return nil, ErrMaxRefreshExceeded
	}
	if _, err := claims.AdminUUID(); err != nil {
		return nil, ErrInvalidClaims
	}
	return s.issuePair(claims.AdminID, claims.Username, claims.RefreshCount+1)
}

// ValidateAccessToken verifies an access token and returns its claims
func (s *JWTService) ValidateAccessToken(token string) (*Claims, error) {
	return s.parse(token, TokenTypeAccess)
}

// ValidateRefreshToken verifies a refresh token and returns its claims
func (s *JWTService) ValidateRefreshToken(token string) (*Claims, error) {
	return s.parse(token, TokenTypeRefresh)
}

func (s *JWTService) issuePair(adminID, username string, refreshCount int) (*TokenPair, error) {
	now := time.Now()
	access, accessExp, err := s.sign(TokenTypeAccess, adminID, username, 0, now)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.sign(TokenTypeRefresh, adminID, username, refreshCount, now)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:           access,
		RefreshToken:          refresh,
		AccessTokenExpiresAt:  accessExp,
		RefreshTokenExpiresAt: refreshExp,
		TokenType:             "Bearer",
	}, nil
}

func (s *JWTService) sign(kind TokenType, adminID, username string, refreshCount int, now time.Time) (string, time.Time, error) {
	key := s.keys[kind]
	expiresAt := now.Add(key.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   adminID,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		AdminID:      adminID,
		Username:     username,
		TokenType:    kind,
		RefreshCount: refreshCount,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *JWTService) parse(raw string, kind TokenType) (*Claims, error) {
	secret := s.keys[kind].secret
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, ErrTokenNotYetValid
	case err != nil:
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.TokenType != kind {
		return nil, ErrInvalidTokenType
	}
	if claims.AdminID == "" {
		return nil, ErrMissingAdminID
	}
	return claims, nil
}
