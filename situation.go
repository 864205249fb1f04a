package kdetect

import (
	"github.com/birdayz/kdetect/kdetector"
	"github.com/birdayz/kdetect/kgeom"
	"github.com/birdayz/kdetect/ksituation"
)

// ComputeAtEndOfSituation returns the detectors ending on the central
// plaquette of the most recent round of s, with that plaquette origin as
// coordinate origin.
//
// With WithDatabase, the database is consulted first and updated in place on
// a miss, so it holds s when this returns successfully. A frozen database
// cannot be updated and a miss then fails with kdb.ErrFrozen. With
// WithOnlyUseDatabase, a miss fails with a *MissingSituationError instead of
// computing anything.
func ComputeAtEndOfSituation(s ksituation.Situation, increments kgeom.Shift2D, opts ...Option) (kdetector.Set, error) {
	cfg := newConfig(opts)
	detectors, err := cfg.cachedCompute(s, increments)
	if err != nil {
		return kdetector.Set{}, err
	}
	return shiftToCenter(detectors, s.Radius(), increments), nil
}

// cachedCompute applies the database policy around the computation and
// returns detectors in window coordinates.
func (c config) cachedCompute(s ksituation.Situation, increments kgeom.Shift2D) (kdetector.Set, error) {
	if c.database == nil {
		if c.onlyUseDatabase {
			return kdetector.Set{}, &MissingSituationError{Situation: s}
		}
		return c.computeSituationDetectors(s, increments)
	}

	if detectors, ok := c.database.GetDetectors(s); ok {
		c.log.V(1).Info("Situation found in database", "situation", digest(s))
		return detectors, nil
	}
	if c.onlyUseDatabase {
		return kdetector.Set{}, &MissingSituationError{Situation: s}
	}
	c.log.V(1).Info("Situation not in database, computing", "situation", digest(s))
	detectors, err := c.computeSituationDetectors(s, increments)
	if err != nil {
		return kdetector.Set{}, err
	}
	if err := c.database.AddSituation(s, detectors); err != nil {
		return kdetector.Set{}, err
	}
	return detectors, nil
}

func digest(s ksituation.Situation) string {
	k, err := s.Key()
	if err != nil {
		return "<invalid>"
	}
	return k.HexDigest()
}
