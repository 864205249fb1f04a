package kdetect

import (
	"fmt"

	"github.com/birdayz/kdetect/kcircuit"
	"github.com/birdayz/kdetect/kdetector"
	"github.com/birdayz/kdetect/kflow"
	"github.com/birdayz/kdetect/kgeom"
	"github.com/birdayz/kdetect/kplaquette"
	"github.com/birdayz/kdetect/ksituation"
)

// NewSituation builds a situation, reporting shape problems as
// ErrInvalidInput.
func NewSituation(subtemplates []kgeom.Grid, plaquettes []kplaquette.Plaquettes) (ksituation.Situation, error) {
	s, err := ksituation.New(subtemplates, plaquettes)
	if err != nil {
		return ksituation.Situation{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s, nil
}

// ComputeSituationDetectors computes the detectors ending on the central
// plaquette of the most recent round of s. The database options are ignored.
// Detectors are expressed with the top-left corner of the window as origin.
func ComputeSituationDetectors(s ksituation.Situation, increments kgeom.Shift2D, opts ...Option) (kdetector.Set, error) {
	cfg := newConfig(opts)
	return cfg.computeSituationDetectors(s, increments)
}

func (c config) computeSituationDetectors(s ksituation.Situation, increments kgeom.Shift2D) (kdetector.Set, error) {
	// No measurement on the central plaquette means no detector can end there.
	centerIndex := s.CenterIndex()
	if centerIndex == 0 {
		return kdetector.NewSet(), nil
	}
	_, lastPlaquettes := s.Last()
	center, err := lastPlaquettes.Get(centerIndex)
	if err != nil {
		return kdetector.Set{}, err
	}
	if center.NumMeasurements() == 0 {
		return kdetector.NewSet(), nil
	}

	for s.NumRounds() > 1 && s.Subtemplate(0).IsZero() {
		s = s.DropFirst(1)
	}
	first, err := c.generate(s.Subtemplate(0), s.Plaquettes(0), increments)
	if err != nil {
		return kdetector.Set{}, fmt.Errorf("generate round circuit: %w", err)
	}
	for s.NumRounds() > 1 && first.IsEmpty() {
		s = s.DropFirst(1)
		if first, err = c.generate(s.Subtemplate(0), s.Plaquettes(0), increments); err != nil {
			return kdetector.Set{}, fmt.Errorf("generate round circuit: %w", err)
		}
	}
	circuits := []*kcircuit.ScheduledCircuit{first}
	for t := 1; t < s.NumRounds(); t++ {
		sc, err := c.generate(s.Subtemplate(t), s.Plaquettes(t), increments)
		if err != nil {
			return kdetector.Set{}, fmt.Errorf("generate round circuit: %w", err)
		}
		circuits = append(circuits, sc)
	}

	circuits, qubits, err := c.relabel(circuits)
	if err != nil {
		return kdetector.Set{}, fmt.Errorf("relabel qubits: %w", err)
	}
	complete := kcircuit.Concatenate(circuits, qubits)

	matched, err := c.match(circuits, qubits)
	if err != nil {
		return kdetector.Set{}, err
	}

	measurements, err := kcircuit.Measurements(complete)
	if err != nil {
		return kdetector.Set{}, err
	}
	detectors := make([]kdetector.Detector, 0, len(matched))
	for _, md := range matched {
		// Every matched detector ends in the last round.
		md = md.WithTime(0)
		ms := make([]kdetector.Measurement, len(md.Measurements))
		for i, mm := range md.Measurements {
			idx := len(measurements) + mm.Offset
			if mm.Offset >= 0 || idx < 0 {
				return kdetector.Set{}, fmt.Errorf("%w: offset %d with %d measurements", ErrUnknownOffset, mm.Offset, len(measurements))
			}
			ms[i] = measurements[idx]
		}
		d, err := kdetector.New(ms, md.Coords)
		if err != nil {
			return kdetector.Set{}, err
		}
		detectors = append(detectors, d)
	}

	return bestEffortFilter(detectors, s, increments)
}

// match runs the flow matcher: detectors within the last round, plus the
// detectors spanning the boundary between the last two rounds when exactly two
// rounds remain.
func (c config) match(circuits []*kcircuit.ScheduledCircuit, qubits kcircuit.QubitMap) ([]kflow.MatchedDetector, error) {
	if c.matcher == nil {
		return nil, ErrNoMatcher
	}
	fragments := make([]kflow.Fragment, len(circuits))
	for i, sc := range circuits {
		f, err := c.matcher.NewFragment(kcircuit.Concatenate([]*kcircuit.ScheduledCircuit{sc}, qubits))
		if err != nil {
			return nil, fmt.Errorf("build fragment %d: %w", i, err)
		}
		fragments[i] = f
	}
	flows, err := c.matcher.BuildFlows(fragments)
	if err != nil {
		return nil, fmt.Errorf("build flows: %w", err)
	}
	if len(flows) != len(fragments) {
		return nil, fmt.Errorf("build flows: got %d flows for %d fragments", len(flows), len(fragments))
	}

	coords := kflow.FromQubitMap(qubits)
	last := len(flows) - 1
	matched, err := c.matcher.MatchWithinFragment(flows[last], coords)
	if err != nil {
		return nil, fmt.Errorf("match within fragment: %w", err)
	}
	if len(flows) == 2 {
		boundary, err := c.matcher.MatchBoundary(flows[0], flows[1], coords)
		if err != nil {
			return nil, fmt.Errorf("match boundary: %w", err)
		}
		matched = append(matched, boundary...)
	}
	return matched, nil
}

func shiftToCenter(detectors kdetector.Set, radius int, increments kgeom.Shift2D) kdetector.Set {
	return detectors.OffsetSpatiallyBy(-radius*increments.X, -radius*increments.Y)
}
