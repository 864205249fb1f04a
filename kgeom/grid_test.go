package kgeom

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestGetOrDefault(t *testing.T) {
	src := MustGridFromRows([][]int{{1, 2}, {3, 4}})

	tests := []struct {
		name string
		rows Range
		cols Range
		want [][]int
	}{
		{
			name: "pads on every side",
			rows: Range{-1, 3},
			cols: Range{-1, 3},
			want: [][]int{{0, 0, 0, 0}, {0, 1, 2, 0}, {0, 3, 4, 0}, {0, 0, 0, 0}},
		},
		{
			name: "crops inside",
			rows: Range{1, 2},
			cols: Range{0, 2},
			want: [][]int{{3, 4}},
		},
		{
			name: "fully outside",
			rows: Range{5, 7},
			cols: Range{-3, -1},
			want: [][]int{{0, 0}, {0, 0}},
		},
		{
			name: "partial overlap on the right",
			rows: Range{0, 2},
			cols: Range{1, 4},
			want: [][]int{{2, 0, 0}, {4, 0, 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := src.GetOrDefault(tt.rows, tt.cols, 0)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got.ToRows())
		})
	}
}

func TestGetOrDefaultInvalidRange(t *testing.T) {
	_, err := MustGridFromRows([][]int{{1}}).GetOrDefault(Range{2, 1}, Range{0, 1}, 0)
	assert.True(t, errors.Is(err, ErrInvalidRange))
}

func TestGridFromRowsRagged(t *testing.T) {
	_, err := GridFromRows([][]int{{1, 2}, {3}})
	assert.True(t, errors.Is(err, ErrRaggedGrid))
}

func TestGridSubAndZero(t *testing.T) {
	g := MustGridFromRows([][]int{{0, 0, 0}, {0, 5, 6}, {0, 7, 8}})
	assert.Equal(t, [][]int{{5, 6}, {7, 8}}, g.Sub(1, 1, 2, 2).ToRows())
	assert.True(t, g.Sub(0, 0, 1, 3).IsZero())
	assert.False(t, g.IsZero())
	assert.True(t, g.With(1, 1, 9).At(1, 1) == 9 && g.At(1, 1) == 5)
}

func TestGridString(t *testing.T) {
	g := MustGridFromRows([][]int{{1, 10}, {0, 2}})
	assert.Equal(t, " 1 10\n 0  2", g.String())
}
