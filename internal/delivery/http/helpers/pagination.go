package helpers

import (
	"fmt"
	"net/http"
	"strconv"

	"evently/internal/domain"
)

// Pagination query parameter defaults and limits.
const (
	DefaultPage  = 1
	MaxPageSize  = 100
	EventsLimit  = 6
	RelatedLimit = 3
	OrdersLimit  = 3
)

// ParsePagination reads page and limit from the request query string.
// Missing values fall back to page 1 and defaultLimit; limit is clamped to
// MaxPageSize. Non-numeric values wrap domain.ErrValidation. Range checks are
// left to domain.PaginationParams.Validate.
func ParsePagination(r *http.Request, defaultLimit int) (domain.PaginationParams, error) {
	params := domain.PaginationParams{Page: DefaultPage, PageSize: defaultLimit}
	q := r.URL.Query()
	if s := q.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return params, fmt.Errorf("%w: page must be an integer", domain.ErrValidation)
		}
		params.Page = v
	}
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return params, fmt.Errorf("%w: limit must be an integer", domain.ErrValidation)
		}
		params.PageSize = min(v, MaxPageSize)
	}
	return params, nil
}

// PaginationMeta is the pagination metadata included in paginated list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPaginationMeta builds PaginationMeta for the requested page.
func NewPaginationMeta(params domain.PaginationParams, totalPages int) PaginationMeta {
	return PaginationMeta{
		Page:       params.Page,
		Limit:      params.PageSize,
		TotalPages: totalPages,
	}
}
