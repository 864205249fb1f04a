package kdetector

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Set is an immutable set of detectors with value semantics. The zero value
// is the empty set.
type Set struct {
	m map[string]Detector
}

func NewSet(detectors ...Detector) Set {
	if len(detectors) == 0 {
		return Set{}
	}
	m := make(map[string]Detector, len(detectors))
	for _, d := range detectors {
		m[d.Key()] = d
	}
	return Set{m: m}
}

func (s Set) Len() int {
	return len(s.m)
}

func (s Set) Contains(d Detector) bool {
	_, ok := s.m[d.Key()]
	return ok
}

// Sorted returns the detectors of s in a deterministic order.
func (s Set) Sorted() []Detector {
	out := maps.Values(s.m)
	slices.SortFunc(out, func(a, b Detector) int { return a.Compare(b) })
	return out
}

func (s Set) Equal(other Set) bool {
	if len(s.m) != len(other.m) {
		return false
	}
	for k := range s.m {
		if _, ok := other.m[k]; !ok {
			return false
		}
	}
	return true
}

// Filter returns the subset of s for which keep returns true.
func (s Set) Filter(keep func(Detector) bool) Set {
	var kept []Detector
	for _, d := range s.m {
		if keep(d) {
			kept = append(kept, d)
		}
	}
	return NewSet(kept...)
}

// Map applies f to each detector. Images that collide are merged.
func (s Set) Map(f func(Detector) Detector) Set {
	out := make([]Detector, 0, len(s.m))
	for _, d := range s.m {
		out = append(out, f(d))
	}
	return NewSet(out...)
}

// OffsetSpatiallyBy shifts every detector of s by (x, y).
func (s Set) OffsetSpatiallyBy(x, y int) Set {
	return s.Map(func(d Detector) Detector { return d.OffsetSpatiallyBy(x, y) })
}
