package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/solepos/backend/internal/domain/identity"
)

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// RefreshRequest is the body of POST /auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AdminResponse is the public view of an admin
type AdminResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// ToAdminResponse converts the domain admin
func ToAdminResponse(a *identity.Admin) AdminResponse {
	return AdminResponse{
		ID:        a.ID,
		Username:  a.Username,
		CreatedAt: a.CreatedAt,
	}
}

// TokenResponse carries a freshly issued token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	TokenResponse
	Admin AdminResponse `json:"admin"`
}

// LogoutInput identifies the token being retired
type LogoutInput struct {
	AdminID   uuid.UUID
	TokenJTI  string
	ExpiresAt time.Time
}
