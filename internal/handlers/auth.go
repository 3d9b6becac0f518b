package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/event-dashboard-api/internal/dto"
	apierrors "github.com/yukikurage/event-dashboard-api/internal/errors"
	"github.com/yukikurage/event-dashboard-api/internal/metrics"
	"github.com/yukikurage/event-dashboard-api/internal/middleware"
	"github.com/yukikurage/event-dashboard-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new user account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.authService.Register(c.Request.Context(), req); err != nil {
		metrics.AuthAttempts.WithLabelValues("register", outcome(err)).Inc()
		respondServiceError(c, err)
		return
	}

	metrics.AuthAttempts.WithLabelValues("register", "success").Inc()
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
	})
}

// Login verifies credentials and returns an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginInput
	if !bindJSON(c, &req) {
		return
	}

	token, _, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("login", outcome(err)).Inc()
		respondServiceError(c, err)
		return
	}

	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	c.JSON(http.StatusOK, gin.H{
		"token": token,
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func outcome(err error) string {
	switch {
	case errors.Is(err, services.ErrUsernameTaken):
		return "duplicate"
	case errors.Is(err, services.ErrInvalidCredentials), services.IsValidationError(err):
		return "invalid"
	default:
		return "error"
	}
}
