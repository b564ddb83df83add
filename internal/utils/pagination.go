package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/meeting-action-api/internal/constants"
)

// PaginationParams is a 1-based page request. The zero value means "first
// page at the default size".
type PaginationParams struct {
	Page  int
	Limit int
}

// PaginationResponse is echoed back next to every paged list.
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// PaginationFromQuery reads ?page and ?limit. Unparsable or out-of-range
// values fall back to the defaults rather than failing the request.
func PaginationFromQuery(c *gin.Context) PaginationParams {
	return PaginationParams{
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
	}.normalized()
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

func (p PaginationParams) normalized() PaginationParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < constants.MinPageSize || p.Limit > constants.MaxPageSize {
		p.Limit = constants.DefaultPageSize
	}
	return p
}

// PageSize is the effective row limit.
func (p PaginationParams) PageSize() int {
	return p.normalized().Limit
}

// Offset is the number of rows to skip for this page.
func (p PaginationParams) Offset() int {
	p = p.normalized()
	return (p.Page - 1) * p.Limit
}

// Meta builds the response metadata for a page out of total rows.
func (p PaginationParams) Meta(total int64) PaginationResponse {
	p = p.normalized()
	return PaginationResponse{Page: p.Page, Limit: p.Limit, Total: total}
}
