package kgeom

import "fmt"

// GridQubit is a qubit position on the physical qubit grid.
type GridQubit struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (q GridQubit) Add(s Shift2D) GridQubit {
	return GridQubit{X: q.X + s.X, Y: q.Y + s.Y}
}

// Less orders qubits by X first, then by Y.
func (q GridQubit) Less(other GridQubit) bool {
	if q.X != other.X {
		return q.X < other.X
	}
	return q.Y < other.Y
}

// Compare returns -1, 0 or 1 following the ordering of Less.
func (q GridQubit) Compare(other GridQubit) int {
	switch {
	case q.Less(other):
		return -1
	case other.Less(q):
		return 1
	default:
		return 0
	}
}

func (q GridQubit) String() string {
	return fmt.Sprintf("Q[%d,%d]", q.X, q.Y)
}

// Shift2D is a displacement on the qubit grid. It is also used to express
// the increments between two neighbouring plaquette origins.
type Shift2D struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s Shift2D) String() string {
	return fmt.Sprintf("Shift2D(%d, %d)", s.X, s.Y)
}

// PlaquettePosition2D is a position expressed in plaquette units. Multiply by
// the plaquette increments to obtain a qubit position.
type PlaquettePosition2D struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Coordinates are the (x, y, t) coordinates attached to a detector.
type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	T float64 `json:"t"`
}

// OffsetSpatiallyBy returns a copy of c moved by (x, y). T is unchanged.
func (c Coordinates) OffsetSpatiallyBy(x, y float64) Coordinates {
	return Coordinates{X: c.X + x, Y: c.Y + y, T: c.T}
}

// Compare orders coordinates lexicographically on (x, y, t).
func (c Coordinates) Compare(other Coordinates) int {
	for _, p := range [][2]float64{{c.X, other.X}, {c.Y, other.Y}, {c.T, other.T}} {
		if p[0] < p[1] {
			return -1
		}
		if p[0] > p[1] {
			return 1
		}
	}
	return 0
}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%.2f,%.2f,%.2f)", c.X, c.Y, c.T)
}
