package kdetector

import (
	"fmt"

	"github.com/birdayz/kdetect/kgeom"
)

// MeasurementRecord is the plain serialized form of a Measurement.
type MeasurementRecord struct {
	Qubit  [2]int `json:"qubit"`
	Offset int    `json:"offset"`
}

// Record is the plain serialized form of a Detector.
type Record struct {
	Measurements []MeasurementRecord `json:"measurements"`
	Coordinates  kgeom.Coordinates   `json:"coordinates"`
}

func (d Detector) ToRecord() Record {
	r := Record{
		Measurements: make([]MeasurementRecord, len(d.measurements)),
		Coordinates:  d.coordinates,
	}
	for i, m := range d.measurements {
		r.Measurements[i] = MeasurementRecord{Qubit: [2]int{m.Qubit.X, m.Qubit.Y}, Offset: m.Offset}
	}
	return r
}

func FromRecord(r Record) (Detector, error) {
	ms := make([]Measurement, len(r.Measurements))
	for i, mr := range r.Measurements {
		m, err := NewMeasurement(kgeom.GridQubit{X: mr.Qubit[0], Y: mr.Qubit[1]}, mr.Offset)
		if err != nil {
			return Detector{}, fmt.Errorf("measurement %d: %w", i, err)
		}
		ms[i] = m
	}
	return New(ms, r.Coordinates)
}

// Records serializes s in a deterministic order.
func (s Set) Records() []Record {
	sorted := s.Sorted()
	out := make([]Record, len(sorted))
	for i, d := range sorted {
		out[i] = d.ToRecord()
	}
	return out
}

func SetFromRecords(records []Record) (Set, error) {
	ds := make([]Detector, len(records))
	for i, r := range records {
		d, err := FromRecord(r)
		if err != nil {
			return Set{}, fmt.Errorf("detector %d: %w", i, err)
		}
		ds[i] = d
	}
	return NewSet(ds...), nil
}
