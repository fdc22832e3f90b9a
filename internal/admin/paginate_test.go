package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name    string
		want    []int
		page    int
		perPage int
	}{
		{name: "first page", page: 0, perPage: 2, want: []int{1, 2}},
		{name: "last partial page", page: 2, perPage: 2, want: []int{5}},
		{name: "past the end", page: 3, perPage: 2, want: nil},
		{name: "negative page", page: -1, perPage: 2, want: nil},
		{name: "zero page size", page: 0, perPage: 0, want: nil},
		{name: "everything", page: 0, perPage: 10, want: []int{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paginate(items, tt.page, tt.perPage))
		})
	}

	page := Paginate(items, 0, 2)
	page = append(page, 99)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, items)
	assert.Len(t, page, 3)
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, PageCount(0, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 2, PageCount(11, 10))
	assert.Equal(t, 1, PageCount(5, 0))
}

func TestCycleOption(t *testing.T) {
	options := []Option{{Value: "a"}, {Value: "b"}, {Value: "c"}}

	assert.Equal(t, "b", CycleOption(options, "a", 1))
	assert.Equal(t, "a", CycleOption(options, "c", 1))
	assert.Equal(t, "c", CycleOption(options, "a", -1))
	assert.Equal(t, "a", CycleOption(options, "zzz", 1))
	assert.Equal(t, "x", CycleOption(nil, "x", 1))
}
