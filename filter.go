package kdetect

import (
	"github.com/birdayz/kdetect/kdetector"
	"github.com/birdayz/kdetect/kgeom"
	"github.com/birdayz/kdetect/ksituation"
)

// ownedSyndromeQubits returns the syndrome qubits of the central plaquette of
// the most recent round, in window coordinates.
//
// A plaquette owns its top-left corner. It also owns:
//   - its top-right corner when there is no plaquette on its right,
//   - its bottom-left corner when there is no plaquette below nor below-left,
//   - its bottom-right corner when there is no plaquette below, below-left
//     nor on its right.
//
// With a radius of 0 the neighbourhood is unknown and only the top-left
// corner and the centre are owned.
func ownedSyndromeQubits(s ksituation.Situation, increments kgeom.Shift2D) ([]kgeom.GridQubit, error) {
	st, plaquettes := s.Last()
	r := s.Radius()
	index := st.At(r, r)
	if index == 0 {
		return nil, nil
	}

	owned := map[kgeom.GridQubit]struct{}{
		{X: 0, Y: 0}:   {},
		{X: -1, Y: -1}: {},
	}
	if r != 0 {
		right := st.At(r, r+1)
		below := st.At(r+1, r)
		belowLeft := st.At(r+1, r-1)
		if right == 0 {
			owned[kgeom.GridQubit{X: 1, Y: -1}] = struct{}{}
		}
		if belowLeft == 0 && below == 0 {
			owned[kgeom.GridQubit{X: -1, Y: 1}] = struct{}{}
		}
		if belowLeft == 0 && below == 0 && right == 0 {
			owned[kgeom.GridQubit{X: 1, Y: 1}] = struct{}{}
		}
	}

	center, err := plaquettes.Get(index)
	if err != nil {
		return nil, err
	}
	origin := center.Origin()
	shift := kgeom.Shift2D{X: r*increments.X + origin.X, Y: r*increments.Y + origin.Y}
	var out []kgeom.GridQubit
	for _, q := range center.Qubits.Syndrome {
		if _, ok := owned[q]; ok {
			out = append(out, q.Add(shift))
		}
	}
	return out, nil
}

// bestEffortFilter keeps the detectors measuring, in the last round, at least
// one syndrome qubit owned by the central plaquette. It never drops a
// detector belonging to that plaquette, but detectors found in several
// windows may survive in each of them.
//
// The last round measurement of a syndrome qubit is assumed to have offset -1,
// which only holds when every syndrome qubit is measured exactly once per
// round. Plaquettes breaking that rule get wrong results, not an error.
func bestEffortFilter(detectors []kdetector.Detector, s ksituation.Situation, increments kgeom.Shift2D) (kdetector.Set, error) {
	qubits, err := ownedSyndromeQubits(s, increments)
	if err != nil {
		return kdetector.Set{}, err
	}
	last := make(map[kdetector.Measurement]struct{}, len(qubits))
	for _, q := range qubits {
		last[kdetector.Measurement{Qubit: q, Offset: -1}] = struct{}{}
	}
	kept := make([]kdetector.Detector, 0, len(detectors))
	for _, d := range detectors {
		if d.Involves(last) {
			kept = append(kept, d)
		}
	}
	return kdetector.NewSet(kept...), nil
}
