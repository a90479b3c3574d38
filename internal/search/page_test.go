package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{500, 500, 1},
		{-5, 10, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.size), "total=%d size=%d", tt.total, tt.size)
	}
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0, 3))
	assert.Equal(t, 1, ClampPage(-2, 3))
	assert.Equal(t, 2, ClampPage(2, 3))
	assert.Equal(t, 3, ClampPage(50, 3))
}

func TestNewPage(t *testing.T) {
	p := NewPage([]string{"a", "b"}, 2, 10, 25)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 25, p.TotalSize)
	assert.Equal(t, 3, p.TotalPages)
	assert.Len(t, p.Data, 2)
}

func TestNewPageNeverNilData(t *testing.T) {
	p := NewPage[string](nil, 1, 10, 0)
	assert.NotNil(t, p.Data)
	assert.Empty(t, p.Data)
	assert.Equal(t, 1, p.TotalPages)
}
