package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/event-dashboard-api/internal/errors"
	"github.com/yukikurage/event-dashboard-api/internal/utils"
)

// RequireIDParam rejects requests whose path parameter is not a well-formed
// id with 400 before any store access happens. The canonical form is stored
// back into the context under the parameter name.
func RequireIDParam(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range names {
			id, err := utils.NormalizeID(c.Param(name))
			if err != nil {
				apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidID, "Invalid "+name)
				return
			}
			c.Set(name, id)
		}
		c.Next()
	}
}

// IDParam returns the id validated by RequireIDParam, falling back to the raw
// path parameter when the middleware was not installed.
func IDParam(c *gin.Context, name string) string {
	if id := c.GetString(name); id != "" {
		return id
	}
	return c.Param(name)
}
