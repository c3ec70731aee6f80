package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Params holds parsed limit/offset query parameters
type Params struct {
	Limit  int
	Offset int
}

// Meta describes a paginated result set
type Meta struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

// ParseParams parses limit/offset from the query string with bounds applied
func ParseParams(c *gin.Context) Params {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	return Params{Limit: limit, Offset: offset}
}

// BuildMeta constructs pagination metadata for a response
func BuildMeta(limit, offset int, total int64) Meta {
	return Meta{Limit: limit, Offset: offset, Total: total}
}
