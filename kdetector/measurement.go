package kdetector

import (
	"errors"
	"fmt"

	"github.com/birdayz/kdetect/kgeom"
)

var (
	ErrNonNegativeOffset = errors.New("kdetector: measurement offset must be strictly negative")
	ErrEmptyDetector     = errors.New("kdetector: a detector needs at least one measurement")
)

// Measurement identifies one measurement by the qubit it is performed on and
// a negative, qubit-local offset: -1 is the last measurement of the qubit,
// -2 the one before, and so on.
type Measurement struct {
	Qubit  kgeom.GridQubit
	Offset int
}

// NewMeasurement validates the offset before building the value.
func NewMeasurement(q kgeom.GridQubit, offset int) (Measurement, error) {
	if offset >= 0 {
		return Measurement{}, fmt.Errorf("%w: got %d on %s", ErrNonNegativeOffset, offset, q)
	}
	return Measurement{Qubit: q, Offset: offset}, nil
}

func (m Measurement) OffsetSpatiallyBy(x, y int) Measurement {
	return Measurement{Qubit: m.Qubit.Add(kgeom.Shift2D{X: x, Y: y}), Offset: m.Offset}
}

func (m Measurement) Compare(other Measurement) int {
	if c := m.Qubit.Compare(other.Qubit); c != 0 {
		return c
	}
	switch {
	case m.Offset < other.Offset:
		return -1
	case m.Offset > other.Offset:
		return 1
	}
	return 0
}

func (m Measurement) String() string {
	return fmt.Sprintf("M[%s,%d]", m.Qubit, m.Offset)
}
