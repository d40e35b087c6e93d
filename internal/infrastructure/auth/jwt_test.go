package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/solepos/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	cfg := config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	}
	return NewJWTService(cfg)
}

func newTestInput() GenerateTokenInput {
	return GenerateTokenInput{
		AdminID:  uuid.New(),
		Username: "counter",
	}
}

// sameSecretConfig uses one secret for both token kinds so only the type claim differs
func sameSecretConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	}
}

func TestNewJWTService(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:                 "test-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        5,
	}

	svc := NewJWTService(cfg)

	assert.NotNil(t, svc)
	assert.Equal(t, []byte(cfg.Secret), svc.keys[TokenTypeAccess].secret)
	assert.Equal(t, cfg.AccessTokenExpiration, svc.keys[TokenTypeAccess].ttl)
	assert.Equal(t, cfg.RefreshTokenExpiration, svc.keys[TokenTypeRefresh].ttl)
	assert.Equal(t, cfg.Issuer, svc.issuer)
	assert.Equal(t, cfg.MaxRefreshCount, svc.maxRefreshCount)
}

func TestNewJWTService_UsesSecretForRefreshIfNotProvided(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:        "test-secret",
		RefreshSecret: "",
	}

	svc := NewJWTService(cfg)

	assert.Equal(t, []byte(cfg.Secret), svc.keys[TokenTypeRefresh].secret)
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(newTestInput())

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.AccessTokenExpiresAt.After(time.Now()))
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestValidateAccessToken_Success(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)

	require.NoError(t, err)
	assert.Equal(t, input.AdminID.String(), claims.AdminID)
	assert.Equal(t, input.AdminID.String(), claims.Subject)
	assert.Equal(t, input.Username, claims.Username)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)

	adminID, err := claims.AdminUUID()
	require.NoError(t, err)
	assert.Equal(t, input.AdminID, adminID)
}

func TestValidateAccessToken_ExpiredToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  -1 * time.Hour,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	}
	svc := NewJWTService(cfg)

	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateAccessToken_InvalidToken(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateAccessToken("invalid-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_WrongTokenType(t *testing.T) {
	svc := NewJWTService(sameSecretConfig())

	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)

	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidateAccessToken_DifferentSecret(t *testing.T) {
	pair, err := newTestJWTService().GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:                 "different-secret-key-32-chars!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	})

	_, err = other.ValidateAccessToken(pair.AccessToken)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_MissingAdminID(t *testing.T) {
	svc := newTestJWTService()
	token, _, err := svc.sign(TokenTypeAccess, "", "counter", 0, time.Now())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)

	assert.ErrorIs(t, err, ErrMissingAdminID)
}

func TestValidateRefreshToken_Success(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)

	require.NoError(t, err)
	assert.Equal(t, input.AdminID.String(), claims.AdminID)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	assert.Equal(t, 0, claims.RefreshCount)
}

func TestValidateRefreshToken_WrongTokenType(t *testing.T) {
	svc := NewJWTService(sameSecretConfig())

	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)

	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestRefreshTokenPair_Success(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	newPair, err := svc.RefreshTokenPair(pair.RefreshToken)

	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, newPair.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, newPair.RefreshToken)

	claims, err := svc.ValidateAccessToken(newPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, input.Username, claims.Username)
	assert.Equal(t, input.AdminID.String(), claims.AdminID)
}

func TestRefreshTokenPair_IncrementsRefreshCount(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	for want := 1; want <= 2; want++ {
		pair, err = svc.RefreshTokenPair(pair.RefreshToken)
		require.NoError(t, err)

		claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, want, claims.RefreshCount)
	}
}

func TestRefreshTokenPair_MaxRefreshExceeded(t *testing.T) {
	cfg := sameSecretConfig()
	cfg.MaxRefreshCount = 2
	svc := NewJWTService(cfg)

	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	pair, err = svc.RefreshTokenPair(pair.RefreshToken)
	require.NoError(t, err)
	pair, err = svc.RefreshTokenPair(pair.RefreshToken)
	require.NoError(t, err)

	_, err = svc.RefreshTokenPair(pair.RefreshToken)

	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
}

func TestRefreshTokenPair_InvalidToken(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.RefreshTokenPair("invalid-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenPair_WithAccessToken(t *testing.T) {
	svc := NewJWTService(sameSecretConfig())

	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	_, err = svc.RefreshTokenPair(pair.AccessToken)

	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestClaims_Times(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	assert.False(t, claims.IssuedAtTime().IsZero())
	assert.True(t, claims.ExpiresAtTime().After(claims.IssuedAtTime()))
	assert.WithinDuration(t, claims.IssuedAtTime().Add(15*time.Minute), claims.ExpiresAtTime(), time.Second)

	assert.True(t, (&Claims{}).IssuedAtTime().IsZero())
	assert.True(t, (&Claims{}).ExpiresAtTime().IsZero())
}
