// Package ksituation defines the unit of detector computation and caching: a
// short sequence of QEC rounds, each described by a square window of plaquette
// indices and the plaquettes those indices refer to.
package ksituation

import (
	"errors"
	"fmt"

	"github.com/birdayz/kdetect/kgeom"
	"github.com/birdayz/kdetect/kplaquette"
)

var (
	ErrLengthMismatch = errors.New("ksituation: subtemplates and plaquettes must have the same length")
	ErrEmpty          = errors.New("ksituation: a situation needs at least one round")
	ErrInvalidShape   = errors.New("ksituation: subtemplates must be square with the same odd side")
)

// Situation is never mutated after construction. Round i is described by
// Subtemplates[i] and Plaquettes[i]; the last round is the most recent one.
type Situation struct {
	subtemplates []kgeom.Grid
	plaquettes   []kplaquette.Plaquettes
}

// New validates the shape invariants: same number of subtemplates and
// plaquette collections, every subtemplate square with the same odd side
// 2r+1.
func New(subtemplates []kgeom.Grid, plaquettes []kplaquette.Plaquettes) (Situation, error) {
	if len(subtemplates) != len(plaquettes) {
		return Situation{}, fmt.Errorf("%w: got %d subtemplates and %d plaquettes", ErrLengthMismatch, len(subtemplates), len(plaquettes))
	}
	if len(subtemplates) == 0 {
		return Situation{}, ErrEmpty
	}
	side := subtemplates[0].Rows()
	for i, st := range subtemplates {
		if st.Rows() != side || st.Cols() != side || side%2 != 1 {
			return Situation{}, fmt.Errorf("%w: round %d is %dx%d, expected %dx%d with an odd side", ErrInvalidShape, i, st.Rows(), st.Cols(), side, side)
		}
	}
	return Situation{
		subtemplates: append([]kgeom.Grid(nil), subtemplates...),
		plaquettes:   append([]kplaquette.Plaquettes(nil), plaquettes...),
	}, nil
}

func MustNew(subtemplates []kgeom.Grid, plaquettes []kplaquette.Plaquettes) Situation {
	s, err := New(subtemplates, plaquettes)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Situation) NumRounds() int {
	return len(s.subtemplates)
}

// Radius is the Manhattan radius r of the 2r+1 wide windows.
func (s Situation) Radius() int {
	return s.subtemplates[0].Rows() / 2
}

func (s Situation) Subtemplate(round int) kgeom.Grid {
	return s.subtemplates[round]
}

func (s Situation) Plaquettes(round int) kplaquette.Plaquettes {
	return s.plaquettes[round]
}

func (s Situation) Subtemplates() []kgeom.Grid {
	return append([]kgeom.Grid(nil), s.subtemplates...)
}

func (s Situation) AllPlaquettes() []kplaquette.Plaquettes {
	return append([]kplaquette.Plaquettes(nil), s.plaquettes...)
}

// Last returns the most recent round.
func (s Situation) Last() (kgeom.Grid, kplaquette.Plaquettes) {
	n := len(s.subtemplates) - 1
	return s.subtemplates[n], s.plaquettes[n]
}

// CenterIndex is the plaquette index at the centre of the most recent round.
func (s Situation) CenterIndex() int {
	st, _ := s.Last()
	r := s.Radius()
	return st.At(r, r)
}

// DropFirst returns the situation without its n oldest rounds. Both sequences
// stay in lock-step. It panics if fewer than one round would remain.
func (s Situation) DropFirst(n int) Situation {
	if n >= len(s.subtemplates) {
		panic(fmt.Sprintf("ksituation: cannot drop %d rounds out of %d", n, len(s.subtemplates)))
	}
	return Situation{subtemplates: s.subtemplates[n:], plaquettes: s.plaquettes[n:]}
}
