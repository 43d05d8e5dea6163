package domain

import (
	"fmt"
	"math"
)

// PaginationParams holds offset-based pagination parameters for list queries.
// Page is 1-based.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Validate rejects a non-positive page size, a page below 1 and a page
// whose row offset does not fit in an int.
func (p PaginationParams) Validate() error {
	if p.PageSize <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrValidation, p.PageSize)
	}
	if p.Page < 1 {
		return fmt.Errorf("%w: page must be at least 1, got %d", ErrValidation, p.Page)
	}
	if p.offsetOverflows() {
		return fmt.Errorf("%w: page %d is out of range", ErrValidation, p.Page)
	}
	return nil
}

func (p PaginationParams) offsetOverflows() bool {
	return p.PageSize > 0 && p.Page-1 > math.MaxInt/p.PageSize
}

// Offset returns the row offset for the current page (0-based).
// Formula: (Page - 1) * PageSize. Out of range pages yield 0.
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.offsetOverflows() {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// TotalPages returns ceil(total / PageSize), or 0 when PageSize is not positive.
func (p PaginationParams) TotalPages(total int) int {
	if p.PageSize <= 0 {
		return 0
	}
	return (total + p.PageSize - 1) / p.PageSize
}
