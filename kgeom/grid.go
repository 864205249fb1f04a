package kgeom

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRaggedGrid   = errors.New("kgeom: rows of a grid must all have the same length")
	ErrInvalidRange = errors.New("kgeom: invalid range")
)

// Grid is a dense, row-major 2D array of plaquette indices. The zero value is
// an empty 0x0 grid.
type Grid struct {
	rows, cols int
	data       []int
}

// NewGrid returns a rows x cols grid filled with zeros.
func NewGrid(rows, cols int) Grid {
	return Grid{rows: rows, cols: cols, data: make([]int, rows*cols)}
}

// GridFromRows copies nested rows into a new Grid.
func GridFromRows(rows [][]int) (Grid, error) {
	if len(rows) == 0 {
		return Grid{}, nil
	}
	g := NewGrid(len(rows), len(rows[0]))
	for i, row := range rows {
		if len(row) != g.cols {
			return Grid{}, fmt.Errorf("%w: row %d has %d entries, expected %d", ErrRaggedGrid, i, len(row), g.cols)
		}
		copy(g.data[i*g.cols:(i+1)*g.cols], row)
	}
	return g, nil
}

// MustGridFromRows is GridFromRows panicking on ragged input.
func MustGridFromRows(rows [][]int) Grid {
	g, err := GridFromRows(rows)
	if err != nil {
		panic(err)
	}
	return g
}

func (g Grid) Rows() int { return g.rows }
func (g Grid) Cols() int { return g.cols }

func (g Grid) At(row, col int) int {
	return g.data[row*g.cols+col]
}

// With returns a copy of g where (row, col) is set to v.
func (g Grid) With(row, col, v int) Grid {
	out := g.Clone()
	out.data[row*g.cols+col] = v
	return out
}

func (g Grid) Clone() Grid {
	data := make([]int, len(g.data))
	copy(data, g.data)
	return Grid{rows: g.rows, cols: g.cols, data: data}
}

// IsZero reports whether every entry of g is 0, i.e. no plaquette at all.
func (g Grid) IsZero() bool {
	for _, v := range g.data {
		if v != 0 {
			return false
		}
	}
	return true
}

func (g Grid) Equal(other Grid) bool {
	if g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for i, v := range g.data {
		if other.data[i] != v {
			return false
		}
	}
	return true
}

// ToRows returns a nested copy of g.
func (g Grid) ToRows() [][]int {
	out := make([][]int, g.rows)
	for i := range out {
		out[i] = make([]int, g.cols)
		copy(out[i], g.data[i*g.cols:(i+1)*g.cols])
	}
	return out
}

// Sub extracts the rows x cols block whose top-left corner is (row, col).
// The block must be fully inside g.
func (g Grid) Sub(row, col, rows, cols int) Grid {
	out := NewGrid(rows, cols)
	for i := 0; i < rows; i++ {
		copy(out.data[i*cols:(i+1)*cols], g.data[(row+i)*g.cols+col:(row+i)*g.cols+col+cols])
	}
	return out
}

// Range is a half-open interval [Start, Stop).
type Range struct {
	Start, Stop int
}

// GetOrDefault returns the block of g covered by rows x cols. Entries falling
// outside of g are set to def. The ranges may extend past g on any side.
func (g Grid) GetOrDefault(rows, cols Range, def int) (Grid, error) {
	if rows.Start > rows.Stop || cols.Start > cols.Stop {
		return Grid{}, fmt.Errorf("%w: [%d, %d) x [%d, %d)", ErrInvalidRange, rows.Start, rows.Stop, cols.Start, cols.Stop)
	}
	out := NewGrid(rows.Stop-rows.Start, cols.Stop-cols.Start)
	for i := 0; i < out.rows; i++ {
		for j := 0; j < out.cols; j++ {
			r, c := rows.Start+i, cols.Start+j
			v := def
			if r >= 0 && r < g.rows && c >= 0 && c < g.cols {
				v = g.At(r, c)
			}
			out.data[i*out.cols+j] = v
		}
	}
	return out, nil
}

// String renders g with right-aligned columns, one row per line.
func (g Grid) String() string {
	width := 1
	for _, v := range g.data {
		if w := len(fmt.Sprint(v)); w > width {
			width = w
		}
	}
	var sb strings.Builder
	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%*d", width, g.At(i, j))
		}
		if i != g.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
