package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		page, size int
		want       int
	}{
		{"first page", 1, 10, 0},
		{"below one", -3, 10, 0},
		{"third page", 3, 10, 20},
		{"last exact", math.MaxInt/10 + 1, 10, math.MaxInt / 10 * 10},
		{"one past exact", math.MaxInt/10 + 2, 10, math.MaxInt},
		{"max int", math.MaxInt, 3, math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pageOffset(tt.page, tt.size)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
		})
	}
}
