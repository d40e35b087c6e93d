package identity

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/solepos/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Admin is a store operator allowed to use the POS
type Admin struct {
	shared.BaseEntity
	Username     string
	PasswordHash string
}

// NewAdmin creates an admin with a hashed password
func NewAdmin(username, password string) (*Admin, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	return &Admin{
		BaseEntity:   shared.NewBaseEntity(),
		Username:     username,
		PasswordHash: hash,
	}, nil
}

// VerifyPassword verifies if the provided password matches
func (a *Admin) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
	return err == nil
}

// SetPassword replaces the password hash
func (a *Admin) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	a.PasswordHash = hash
	a.Touch()
	return nil
}

// AdminRepository defines persistence for admins
type AdminRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Admin, error)
	FindByUsername(ctx context.Context, username string) (*Admin, error)
	// Create inserts the admin. A taken username yields shared.ErrAlreadyExists.
	Create(ctx context.Context, admin *Admin) error
}

func validateUsername(username string) error {
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 bytes")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
