// Package ktemplate holds the template contract and the alignment and
// windowing steps applied to template instantiations before detectors are
// computed.
package ktemplate

import (
	"errors"
	"fmt"

	"github.com/birdayz/kdetect/kgeom"
)

var ErrNoTemplate = errors.New("ktemplate: at least one template is required")

// Template is implemented by the template library. Instantiate returns the
// plaquette indices of the template at scale k, InstantiationOrigin the
// position of the top-left entry of that array.
type Template interface {
	Instantiate(k int) (kgeom.Grid, error)
	InstantiationOrigin(k int) kgeom.PlaquettePosition2D
	Increments() kgeom.Shift2D
}

// Static is a Template that does not depend on k.
type Static struct {
	Grid   kgeom.Grid
	Origin kgeom.PlaquettePosition2D
	Step   kgeom.Shift2D
}

func (s Static) Instantiate(int) (kgeom.Grid, error)                { return s.Grid.Clone(), nil }
func (s Static) InstantiationOrigin(int) kgeom.PlaquettePosition2D { return s.Origin }
func (s Static) Increments() kgeom.Shift2D                          { return s.Step }

// SuperimposedInstantiations instantiates every template at scale k and crops
// or zero-pads each result to the area covered by the last template, so that
// out[t].At(i, j) are plaquettes stacked in time for every t.
func SuperimposedInstantiations(templates []Template, k int) ([]kgeom.Grid, error) {
	if len(templates) == 0 {
		return nil, ErrNoTemplate
	}
	origins := make([]kgeom.PlaquettePosition2D, len(templates))
	instantiations := make([]kgeom.Grid, len(templates))
	for i, t := range templates {
		g, err := t.Instantiate(k)
		if err != nil {
			return nil, fmt.Errorf("instantiate template %d: %w", i, err)
		}
		origins[i] = t.InstantiationOrigin(k)
		instantiations[i] = g
	}

	last := len(templates) - 1
	topLeft := origins[last]
	bottomRight := kgeom.PlaquettePosition2D{
		X: topLeft.X + instantiations[last].Cols(),
		Y: topLeft.Y + instantiations[last].Rows(),
	}

	out := make([]kgeom.Grid, len(templates))
	for i, g := range instantiations {
		aligned, err := g.GetOrDefault(
			kgeom.Range{Start: topLeft.Y - origins[i].Y, Stop: bottomRight.Y - origins[i].Y},
			kgeom.Range{Start: topLeft.X - origins[i].X, Stop: bottomRight.X - origins[i].X},
			0,
		)
		if err != nil {
			return nil, fmt.Errorf("align template %d: %w", i, err)
		}
		out[i] = aligned
	}
	return out, nil
}
