package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/event-dashboard-api/internal/auth"
	"github.com/yukikurage/event-dashboard-api/internal/constants"
	apierrors "github.com/yukikurage/event-dashboard-api/internal/errors"
	"github.com/yukikurage/event-dashboard-api/internal/metrics"
)

// TokenVerifier verifies access tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RequireAuth checks the Authorization header for a valid access token.
// A missing token is answered with 401, a token that fails verification with 403.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.TokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			metrics.TokenRejections.WithLabelValues("missing").Inc()
			apierrors.Unauthorized(c, "No token, authorization denied")
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			if errors.Is(err, auth.ErrMissingToken) {
				metrics.TokenRejections.WithLabelValues("missing").Inc()
				apierrors.Unauthorized(c, "No token, authorization denied")
				return
			}
			metrics.TokenRejections.WithLabelValues("invalid").Inc()
			zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("rejected access token")
			apierrors.Forbidden(c, "Token is not valid")
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyClaims, claims)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
