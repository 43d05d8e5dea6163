package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationParams(t *testing.T) {
	tests := []struct {
		name       string
		params     PaginationParams
		total      int
		wantErr    bool
		wantOffset int
		wantPages  int
	}{
		{"first page", PaginationParams{Page: 1, PageSize: 6}, 13, false, 0, 3},
		{"third page", PaginationParams{Page: 3, PageSize: 6}, 13, false, 12, 3},
		{"exact multiple", PaginationParams{Page: 2, PageSize: 3}, 9, false, 3, 3},
		{"no results", PaginationParams{Page: 1, PageSize: 6}, 0, false, 0, 0},
		{"zero limit", PaginationParams{Page: 1, PageSize: 0}, 5, true, 0, 0},
		{"negative limit", PaginationParams{Page: 1, PageSize: -2}, 5, true, 0, 0},
		{"page zero", PaginationParams{Page: 0, PageSize: 6}, 5, true, 0, 1},
		{"last page with a representable offset", PaginationParams{Page: math.MaxInt/6 + 1, PageSize: 6}, 5, false, math.MaxInt / 6 * 6, 1},
		{"page beyond offset range", PaginationParams{Page: math.MaxInt/6 + 2, PageSize: 6}, 5, true, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantOffset, tt.params.Offset())
			assert.Equal(t, tt.wantPages, tt.params.TotalPages(tt.total))
		})
	}
}
