package present

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagerWindow(t *testing.T) {
	tests := []struct {
		page, total int
		expected    []int
	}{
		{1, 1, nil},
		{1, 3, []int{1, 2, 3}},
		{1, 10, []int{1, 2, 3, 4, 5}},
		{5, 10, []int{3, 4, 5, 6, 7}},
		{9, 10, []int{6, 7, 8, 9, 10}},
		{10, 10, []int{6, 7, 8, 9, 10}},
	}

	for _, tc := range tests {
		p := Pager{Page: tc.page, Limit: 20, TotalPages: tc.total}
		assert.Equal(t, tc.expected, p.Window(), "page %d of %d", tc.page, tc.total)
	}
}

func TestPagerRange(t *testing.T) {
	p := Pager{Page: 1, Limit: 20, TotalCount: 45, TotalPages: 3}
	assert.Equal(t, "Mostrando 1 até 20 de 45 resultados", p.Range())

	p.Page = 3
	assert.Equal(t, "Mostrando 41 até 45 de 45 resultados", p.Range())

	empty := Pager{Page: 1, Limit: 20}
	assert.Equal(t, "Mostrando 0 até 0 de 0 resultados", empty.Range())
}

func TestPagerNavigationBounds(t *testing.T) {
	p := Pager{Page: 1, Limit: 20, TotalCount: 60, TotalPages: 3}

	assert.False(t, p.Prev())
	assert.False(t, p.Go(0))
	assert.False(t, p.Go(4))
	assert.Equal(t, 1, p.Page)

	assert.True(t, p.Next())
	assert.Equal(t, 2, p.Page)
	assert.True(t, p.Last())
	assert.Equal(t, 3, p.Page)
	assert.False(t, p.Next())
	assert.True(t, p.First())
	assert.Equal(t, 1, p.Page)
}

func TestPagerSetLimitResetsPage(t *testing.T) {
	p := Pager{Page: 3, Limit: 20, TotalPages: 5}

	assert.True(t, p.SetLimit(50))
	assert.Equal(t, 50, p.Limit)
	assert.Equal(t, 1, p.Page)

	assert.False(t, p.SetLimit(33))
	assert.Equal(t, 50, p.Limit)
}

func TestPagerCycleLimit(t *testing.T) {
	p := NewPager()
	assert.Equal(t, DefaultPageSize, p.Limit)

	p.CycleLimit()
	assert.Equal(t, 50, p.Limit)
	p.CycleLimit()
	assert.Equal(t, 100, p.Limit)
	p.CycleLimit()
	assert.Equal(t, 10, p.Limit)
}
