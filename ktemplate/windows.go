package ktemplate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/birdayz/kdetect/kgeom"
)

var ErrShapeMismatch = errors.New("ktemplate: all instantiations must have the same shape")

// WindowID identifies a 3D window by the ids of its per-round 2D windows,
// oldest round first. The zero id of a round means "nothing there".
type WindowID string

func NewWindowID(ids []int) WindowID {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return WindowID(strings.Join(parts, ","))
}

func (w WindowID) IDs() []int {
	if w == "" {
		return nil
	}
	parts := strings.Split(string(w), ",")
	ids := make([]int, len(parts))
	for i, p := range parts {
		ids[i], _ = strconv.Atoi(p)
	}
	return ids
}

// IsEmpty reports whether every per-round id is 0.
func (w WindowID) IsEmpty() bool {
	for _, id := range w.IDs() {
		if id != 0 {
			return false
		}
	}
	return true
}

// Windows is the result of splitting aligned instantiations into local
// windows of a fixed Manhattan radius.
type Windows struct {
	Radius int
	// ByID holds one square (2r+1) grid per round for each distinct non-empty
	// window.
	ByID map[WindowID][]kgeom.Grid
	// Order lists the keys of ByID in first-occurrence order.
	Order []WindowID
	// Indices has one entry per cell of the instantiations: the window
	// centred on that cell.
	Indices [][]WindowID
}

// Windower splits aligned instantiations into windows.
type Windower func(instantiations []kgeom.Grid, radius int) (Windows, error)

// SpatiallyDistinct3D is the default Windower. Every round is zero-padded by
// radius and, for each cell, the (2r+1)x(2r+1) window centred on it is
// extracted. Distinct windows of a round get ids starting at 1 in row-major
// order of first occurrence; all-zero windows get 0. A cell whose most recent
// round has no plaquette at its centre cannot carry detectors and is mapped
// to the empty id.
func SpatiallyDistinct3D(instantiations []kgeom.Grid, radius int) (Windows, error) {
	if len(instantiations) == 0 {
		return Windows{}, ErrNoTemplate
	}
	if radius < 0 {
		return Windows{}, fmt.Errorf("%w: negative radius %d", kgeom.ErrInvalidRange, radius)
	}
	rows, cols := instantiations[0].Rows(), instantiations[0].Cols()
	padded := make([]kgeom.Grid, len(instantiations))
	for t, g := range instantiations {
		if g.Rows() != rows || g.Cols() != cols {
			return Windows{}, fmt.Errorf("%w: round %d is %dx%d, round 0 is %dx%d", ErrShapeMismatch, t, g.Rows(), g.Cols(), rows, cols)
		}
		p, err := g.GetOrDefault(
			kgeom.Range{Start: -radius, Stop: rows + radius},
			kgeom.Range{Start: -radius, Stop: cols + radius},
			0,
		)
		if err != nil {
			return Windows{}, err
		}
		padded[t] = p
	}

	side := 2*radius + 1
	ids := make([]map[string]int, len(instantiations))
	for t := range ids {
		ids[t] = make(map[string]int)
	}
	last := len(instantiations) - 1
	empty := NewWindowID(make([]int, len(instantiations)))

	out := Windows{
		Radius:  radius,
		ByID:    make(map[WindowID][]kgeom.Grid),
		Indices: make([][]WindowID, rows),
	}
	for i := 0; i < rows; i++ {
		out.Indices[i] = make([]WindowID, cols)
		for j := 0; j < cols; j++ {
			if instantiations[last].At(i, j) == 0 {
				out.Indices[i][j] = empty
				continue
			}
			windows := make([]kgeom.Grid, len(padded))
			perRound := make([]int, len(padded))
			for t, p := range padded {
				w := p.Sub(i, j, side, side)
				windows[t] = w
				if w.IsZero() {
					continue
				}
				key := w.String()
				id, ok := ids[t][key]
				if !ok {
					id = len(ids[t]) + 1
					ids[t][key] = id
				}
				perRound[t] = id
			}
			wid := NewWindowID(perRound)
			out.Indices[i][j] = wid
			if _, ok := out.ByID[wid]; !ok {
				out.ByID[wid] = windows
				out.Order = append(out.Order, wid)
			}
		}
	}
	return out, nil
}
