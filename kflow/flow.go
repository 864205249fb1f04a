// Package kflow is the contract with the stabilizer-flow matching library.
//
// Fragments and flows are opaque to this module: they are created and
// consumed by the same Matcher implementation. Only the matched detectors
// cross the boundary, expressed with negative measurement record offsets.
package kflow

//go:generate mockgen -destination=../mock_matcher_test.go -package=kdetect . Matcher

import (
	"github.com/birdayz/kdetect/kcircuit"
	"github.com/birdayz/kdetect/kgeom"
)

// Fragment is a circuit segment in which every qubit is reset and measured at
// most once, as understood by the flow matching library.
type Fragment any

// Flows are the stabilizer flows computed for one fragment.
type Flows any

// Point is a 2D qubit coordinate.
type Point struct {
	X, Y float64
}

// QubitCoordinates maps qubit indices of the flattened circuit to their
// position.
type QubitCoordinates map[int]Point

// FromQubitMap builds the coordinates handed to the matcher.
func FromQubitMap(qm kcircuit.QubitMap) QubitCoordinates {
	out := make(QubitCoordinates, len(qm))
	for i, q := range qm {
		out[i] = Point{X: float64(q.X), Y: float64(q.Y)}
	}
	return out
}

// MatchedMeasurement references a measurement through its record offset: -1
// is the last measurement of the flattened circuit, -2 the one before, and so
// on.
type MatchedMeasurement struct {
	Offset int
	Coords Point
}

type MatchedDetector struct {
	Coords       kgeom.Coordinates
	Measurements []MatchedMeasurement
}

// WithTime returns a copy of d with its time coordinate replaced.
func (d MatchedDetector) WithTime(t float64) MatchedDetector {
	out := MatchedDetector{
		Coords:       d.Coords,
		Measurements: append([]MatchedMeasurement(nil), d.Measurements...),
	}
	out.Coords.T = t
	return out
}

// Matcher is implemented by the flow matching library. Implementations must
// be safe for concurrent use when detectors are computed in parallel.
type Matcher interface {
	// NewFragment builds a fragment from one QEC round.
	NewFragment(c *kcircuit.Circuit) (Fragment, error)
	// BuildFlows returns one Flows per fragment, in the same order.
	BuildFlows(fragments []Fragment) ([]Flows, error)
	// MatchWithinFragment matches detectors fully contained in one fragment.
	MatchWithinFragment(flows Flows, coords QubitCoordinates) ([]MatchedDetector, error)
	// MatchBoundary matches detectors spanning the boundary between two
	// consecutive fragments.
	MatchBoundary(previous, last Flows, coords QubitCoordinates) ([]MatchedDetector, error)
}
