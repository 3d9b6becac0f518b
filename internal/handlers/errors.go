package handlers

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"
	apierrors "github.com/yukikurage/event-dashboard-api/internal/errors"
	"github.com/yukikurage/event-dashboard-api/internal/repository"
	"github.com/yukikurage/event-dashboard-api/internal/services"
	"github.com/yukikurage/event-dashboard-api/internal/utils"
)

// respondServiceError maps service errors onto HTTP responses. Unexpected
// errors are logged and answered with a generic 500.
func respondServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		apierrors.ValidationFailed(c, verr.Error(), verr.Fields)
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeAlreadyExists, "Username already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrSuggestionsUnavailable):
		apierrors.ServiceUnavailable(c, "Task suggestions are not configured")
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).
			Str("path", c.FullPath()).
			Msg("request failed")
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}

// bindJSON decodes the request body into input and answers 400 on failure.
// A value of the wrong type or format is reported against its field.
func bindJSON(c *gin.Context, input any) bool {
	if err := c.ShouldBindBodyWith(input, binding.JSON); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			verr := &services.ValidationError{Fields: []services.FieldError{{
				Field:   typeErr.Field,
				Message: "has an invalid type or format",
			}}}
			apierrors.ValidationFailed(c, verr.Error(), verr.Fields)
			return false
		}
		apierrors.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

// bindPartial decodes a partial update and also returns the raw top-level
// fields so handlers can tell an explicit null from an omitted key.
func bindPartial(c *gin.Context, input any) (map[string]json.RawMessage, bool) {
	var raw map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil || raw == nil {
		apierrors.BadRequest(c, "Invalid request body")
		return nil, false
	}
	if !bindJSON(c, input) {
		return nil, false
	}
	return raw, true
}

func isNull(raw map[string]json.RawMessage, key string) bool {
	value, ok := raw[key]
	return ok && bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

// listOptions converts ?page=&limit= into repository options
func listOptions(c *gin.Context) repository.ListOptions {
	params := utils.GetPaginationParams(c)
	if !params.Enabled() {
		return repository.ListOptions{}
	}
	return repository.ListOptions{Offset: params.Offset, Limit: params.Limit}
}
