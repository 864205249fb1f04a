package kdetect

import (
	"errors"

	"github.com/birdayz/kdetect/ksituation"
)

var (
	// ErrInvalidInput reports a caller mistake: mismatched sequence lengths,
	// templates with different increments, an invalid parallelism.
	ErrInvalidInput = errors.New("kdetect: invalid input")
	// ErrNoMatcher is returned when detectors must be computed but no flow
	// matcher was configured.
	ErrNoMatcher = errors.New("kdetect: no flow matcher configured")
	// ErrUnknownOffset is returned when the matcher references a measurement
	// record that does not exist in the circuit.
	ErrUnknownOffset = errors.New("kdetect: matched detector references an unknown measurement")
	// ErrMissingSituation is wrapped by MissingSituationError.
	ErrMissingSituation = errors.New("kdetect: situation not found in the database")
)

// MissingSituationError is returned when only the database may be used and it
// does not hold the situation.
type MissingSituationError struct {
	Situation ksituation.Situation
}

func (e *MissingSituationError) Error() string {
	return "failed to retrieve a situation from the detector database, and only the database " +
		"may be used. Populate the database with the missing situation before trying again. " +
		"Subtemplates and plaquettes, most recent round first:\n" + ksituation.Describe(e.Situation)
}

func (e *MissingSituationError) Unwrap() error {
	return ErrMissingSituation
}
