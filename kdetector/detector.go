// Package kdetector defines detectors: sets of measurements whose combined
// outcome is deterministic in the absence of errors, anchored at (x, y, t)
// coordinates.
package kdetector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/birdayz/kdetect/kgeom"
	"golang.org/x/exp/slices"
)

// Detector is an immutable value. Its measurements are kept sorted and
// deduplicated so that two detectors holding the same measurement set and
// coordinates are Equal and share the same Key.
type Detector struct {
	measurements []Measurement
	coordinates  kgeom.Coordinates
}

// New builds a detector. Duplicate measurements are collapsed.
func New(measurements []Measurement, coordinates kgeom.Coordinates) (Detector, error) {
	if len(measurements) == 0 {
		return Detector{}, fmt.Errorf("%w: at %s", ErrEmptyDetector, coordinates)
	}
	ms := slices.Clone(measurements)
	for _, m := range ms {
		if m.Offset >= 0 {
			return Detector{}, fmt.Errorf("%w: got %s", ErrNonNegativeOffset, m)
		}
	}
	slices.SortFunc(ms, func(a, b Measurement) int { return a.Compare(b) })
	ms = slices.Compact(ms)
	return Detector{measurements: ms, coordinates: coordinates}, nil
}

func MustNew(measurements []Measurement, coordinates kgeom.Coordinates) Detector {
	d, err := New(measurements, coordinates)
	if err != nil {
		panic(err)
	}
	return d
}

// Measurements returns a copy of the sorted measurements of d.
func (d Detector) Measurements() []Measurement {
	return slices.Clone(d.measurements)
}

func (d Detector) Coordinates() kgeom.Coordinates {
	return d.coordinates
}

// Involves reports whether at least one measurement of d is in ms.
func (d Detector) Involves(ms map[Measurement]struct{}) bool {
	for _, m := range d.measurements {
		if _, ok := ms[m]; ok {
			return true
		}
	}
	return false
}

// OffsetSpatiallyBy returns a new detector whose measurements and coordinates
// are moved by (x, y).
func (d Detector) OffsetSpatiallyBy(x, y int) Detector {
	ms := make([]Measurement, len(d.measurements))
	for i, m := range d.measurements {
		ms[i] = m.OffsetSpatiallyBy(x, y)
	}
	// A translation preserves the ordering.
	return Detector{
		measurements: ms,
		coordinates:  d.coordinates.OffsetSpatiallyBy(float64(x), float64(y)),
	}
}

// WithTime returns a copy of d anchored at time t.
func (d Detector) WithTime(t float64) Detector {
	c := d.coordinates
	c.T = t
	return Detector{measurements: d.measurements, coordinates: c}
}

func (d Detector) Equal(other Detector) bool {
	return d.coordinates == other.coordinates && slices.Equal(d.measurements, other.measurements)
}

// Key is a canonical string form of d, usable as a map key.
func (d Detector) Key() string {
	var sb strings.Builder
	writeFloat := func(f float64) { sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64)) }
	writeFloat(d.coordinates.X)
	sb.WriteByte(',')
	writeFloat(d.coordinates.Y)
	sb.WriteByte(',')
	writeFloat(d.coordinates.T)
	sb.WriteByte('|')
	for i, m := range d.measurements {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(strconv.Itoa(m.Qubit.X))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(m.Qubit.Y))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(m.Offset))
	}
	return sb.String()
}

func (d Detector) String() string {
	parts := make([]string, len(d.measurements))
	for i, m := range d.measurements {
		parts[i] = m.String()
	}
	return fmt.Sprintf("D%s{%s}", d.coordinates, strings.Join(parts, ","))
}

// Compare orders detectors by coordinates, then by measurements.
func (d Detector) Compare(other Detector) int {
	if c := d.coordinates.Compare(other.coordinates); c != 0 {
		return c
	}
	return slices.CompareFunc(d.measurements, other.measurements, func(a, b Measurement) int { return a.Compare(b) })
}
