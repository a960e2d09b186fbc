package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scholarspoint/sphub-backend/internal/middleware"
	"github.com/scholarspoint/sphub-backend/internal/model"
	"github.com/scholarspoint/sphub-backend/internal/response"
	"github.com/scholarspoint/sphub-backend/internal/service"
	"github.com/scholarspoint/sphub-backend/internal/validator"
)

// AuthHandler handles the access-gate endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// POST /api/v1/auth/login
// Exchanges an allow-listed phone plus the shared passcode for a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.GateLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Phone, req.Passcode)
	if errors.Is(err, service.ErrGateDenied) {
		response.Fail(c, http.StatusUnauthorized, response.ErrGateDenied)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"phone": req.Phone,
	})
}

// Logout godoc
// POST /api/v1/auth/logout
// Drops the caller's active session.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims.Phone); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the phone behind the current session.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"phone": claims.Phone,
	})
}
