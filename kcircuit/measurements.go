package kcircuit

import (
	"fmt"

	"github.com/birdayz/kdetect/kdetector"
	"github.com/birdayz/kdetect/kgeom"
)

// Measurements lists every measurement of c in order of appearance. Each
// measurement is expressed with its qubit-local negative offset, so the last
// measurement of a qubit has offset -1.
func Measurements(c *Circuit) ([]kdetector.Measurement, error) {
	counts := make(map[kgeom.GridQubit]int)
	var reversed []kdetector.Measurement
	for i := len(c.Instructions) - 1; i >= 0; i-- {
		inst := c.Instructions[i]
		if _, ok := multiQubitMeasurements[inst.Name]; ok {
			return nil, fmt.Errorf("%w: found %s", ErrUnsupportedMeasurement, inst.Name)
		}
		if !IsMeasurement(inst.Name) {
			continue
		}
		for j := len(inst.Targets) - 1; j >= 0; j-- {
			q, ok := c.Qubits[inst.Targets[j]]
			if !ok {
				return nil, fmt.Errorf("%w: %s targets %d", ErrUnknownQubit, inst.Name, inst.Targets[j])
			}
			counts[q]++
			reversed = append(reversed, kdetector.Measurement{Qubit: q, Offset: -counts[q]})
		}
	}
	out := make([]kdetector.Measurement, len(reversed))
	for i, m := range reversed {
		out[len(reversed)-1-i] = m
	}
	return out, nil
}
