package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/event-dashboard-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// Enabled reports whether the caller asked for a page; zero params mean "everything".
func (p PaginationParams) Enabled() bool {
	return p.Limit > 0
}

// GetPaginationParams extracts pagination parameters from the request. Lists are
// unpaginated unless either "page" or "limit" is present.
func GetPaginationParams(c *gin.Context) PaginationParams {
	pageStr, hasPage := c.GetQuery("page")
	limitStr, hasLimit := c.GetQuery("limit")
	if !hasPage && !hasLimit {
		return PaginationParams{}
	}

	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)

	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
