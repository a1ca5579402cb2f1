package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPage(t *testing.T) {
	require := require.New(t)

	page := NewPage([]int{1, 2, 3}, 0, 3, 7)
	require.Equal(3, page.TotalPages)
	require.True(page.HasNext)
	require.False(page.HasPrevious)

	last := NewPage([]int{7}, 2, 3, 7)
	require.False(last.HasNext)
	require.True(last.HasPrevious)
}

func TestNewPageNilContent(t *testing.T) {
	page := NewPage[int](nil, 0, 10, 0)
	require.NotNil(t, page.Content)
	require.Empty(t, page.Content)
	require.Zero(t, page.TotalPages)
}

func TestNormalizePaging(t *testing.T) {
	require := require.New(t)

	page, size := normalizePaging(-3, 0, 20)
	require.Zero(page)
	require.Equal(20, size)

	_, size = normalizePaging(0, 500, 20)
	require.Equal(100, size)

	page, size = normalizePaging(4, 25, 20)
	require.Equal(4, page)
	require.Equal(25, size)
}
