package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/solepos/backend/internal/application/identity"
	"github.com/solepos/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles admin authentication
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @Summary      Admin login
// @Description  Authenticate an admin with username and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.LoginRequest true "Login credentials"
// @Success      200 {object} dto.Response{data=identity.LoginResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Refresh godoc
// @Summary      Refresh tokens
// @Description  Exchange a refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RefreshRequest true "Refresh token"
// @Success      200 {object} dto.Response{data=identity.TokenResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identity.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Me godoc
// @Summary      Current admin
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=identity.AdminResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	adminID, ok := middleware.GetJWTAdminID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	admin, err := h.authService.Me(c.Request.Context(), adminID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, admin)
}

// Logout godoc
// @Summary      Logout
// @Description  Revoke the access token used for this request
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	adminID, ok := middleware.GetJWTAdminID(c)
	if claims == nil || !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	err := h.authService.Logout(c.Request.Context(), identity.LogoutInput{
		AdminID:   adminID,
		TokenJTI:  claims.ID,
		ExpiresAt: claims.ExpiresAtTime(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
