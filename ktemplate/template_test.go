package ktemplate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kdetect/kgeom"
)

func TestSuperimposedInstantiations(t *testing.T) {
	older := Static{Grid: kgeom.MustGridFromRows([][]int{{1, 2}, {3, 4}}), Step: kgeom.Shift2D{X: 2, Y: 2}}
	last := Static{
		Grid:   kgeom.MustGridFromRows([][]int{{5, 6}, {7, 8}}),
		Origin: kgeom.PlaquettePosition2D{X: 1, Y: 1},
		Step:   kgeom.Shift2D{X: 2, Y: 2},
	}

	got, err := SuperimposedInstantiations([]Template{older, last}, 2)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(got))
	assert.Equal(t, [][]int{{4, 0}, {0, 0}}, got[0].ToRows())
	assert.Equal(t, [][]int{{5, 6}, {7, 8}}, got[1].ToRows())

	_, err = SuperimposedInstantiations(nil, 2)
	assert.True(t, errors.Is(err, ErrNoTemplate))
}

func TestWindowID(t *testing.T) {
	id := NewWindowID([]int{0, 3, 12})
	assert.Equal(t, WindowID("0,3,12"), id)
	assert.Equal(t, []int{0, 3, 12}, id.IDs())
	assert.False(t, id.IsEmpty())
	assert.True(t, NewWindowID([]int{0, 0}).IsEmpty())
}

func TestSpatiallyDistinct3DDeduplicates(t *testing.T) {
	g := kgeom.MustGridFromRows([][]int{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}})
	w, err := SpatiallyDistinct3D([]kgeom.Grid{g}, 0)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(w.ByID))
	assert.Equal(t, []WindowID{"1"}, w.Order)

	w, err = SpatiallyDistinct3D([]kgeom.Grid{g}, 1)
	assert.NoError(t, err)
	// Four corners, four edges and the centre.
	assert.Equal(t, 9, len(w.ByID))
}

func TestSpatiallyDistinct3DZeroCentre(t *testing.T) {
	older := kgeom.MustGridFromRows([][]int{{1, 1}, {1, 1}})
	last := kgeom.MustGridFromRows([][]int{{2, 0}, {0, 2}})
	w, err := SpatiallyDistinct3D([]kgeom.Grid{older, last}, 1)
	assert.NoError(t, err)
	assert.True(t, w.Indices[0][1].IsEmpty())
	assert.True(t, w.Indices[1][0].IsEmpty())
	assert.False(t, w.Indices[0][0].IsEmpty())
	assert.Equal(t, 2, len(w.ByID))
}

func TestSpatiallyDistinct3DShapeMismatch(t *testing.T) {
	_, err := SpatiallyDistinct3D([]kgeom.Grid{kgeom.NewGrid(2, 2), kgeom.NewGrid(3, 3)}, 1)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

// Reconstructing the instantiations from the windows must give back the
// input arrays surrounded by zeros.
func TestSpatiallyDistinct3DReconstruction(t *testing.T) {
	rounds := []kgeom.Grid{
		kgeom.MustGridFromRows([][]int{
			{1, 2, 2, 3},
			{4, 5, 5, 6},
			{4, 5, 5, 6},
			{7, 8, 8, 9},
		}),
		kgeom.MustGridFromRows([][]int{
			{1, 2, 2, 3},
			{4, 10, 10, 6},
			{4, 5, 10, 6},
			{7, 8, 8, 9},
		}),
	}
	for _, radius := range []int{0, 1, 2} {
		t.Run(fmt.Sprintf("radius %d", radius), func(t *testing.T) {
			w, err := SpatiallyDistinct3D(rounds, radius)
			assert.NoError(t, err)
			assert.Equal(t, radius, w.Radius)

			side := 2*radius + 1
			n := 4 + 2*radius
			rebuilt := make([][][]int, len(rounds))
			for r := range rebuilt {
				rebuilt[r] = make([][]int, n)
				for i := range rebuilt[r] {
					rebuilt[r][i] = make([]int, n)
				}
			}
			for i, row := range w.Indices {
				for j, id := range row {
					if id.IsEmpty() {
						continue
					}
					window := w.ByID[id]
					assert.Equal(t, len(rounds), len(window))
					for r, g := range window {
						assert.Equal(t, side, g.Rows())
						for a := 0; a < side; a++ {
							for b := 0; b < side; b++ {
								cur := rebuilt[r][i+a][j+b]
								if cur != 0 {
									assert.Equal(t, cur, g.At(a, b))
								}
								rebuilt[r][i+a][j+b] = g.At(a, b)
							}
						}
					}
				}
			}
			for r, g := range rounds {
				for i := 0; i < n; i++ {
					for j := 0; j < n; j++ {
						want := 0
						if i >= radius && i < radius+4 && j >= radius && j < radius+4 {
							want = g.At(i-radius, j-radius)
						}
						assert.Equal(t, want, rebuilt[r][i][j])
					}
				}
			}
		})
	}
}
