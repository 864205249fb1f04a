package kcircuit

import (
	"fmt"

	"github.com/birdayz/kdetect/kgeom"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Relabel moves all circuits into one global qubit index space. Global
// indices are assigned to the union of all qubits sorted by (x, y). The input
// circuits are not modified.
func Relabel(circuits []*ScheduledCircuit) ([]*ScheduledCircuit, QubitMap, error) {
	seen := make(map[kgeom.GridQubit]struct{})
	for _, c := range circuits {
		for _, q := range c.Qubits {
			seen[q] = struct{}{}
		}
	}
	qubits := maps.Keys(seen)
	slices.SortFunc(qubits, func(a, b kgeom.GridQubit) int { return a.Compare(b) })

	global := make(QubitMap, len(qubits))
	indexOf := make(map[kgeom.GridQubit]int, len(qubits))
	for i, q := range qubits {
		global[i] = q
		indexOf[q] = i
	}

	out := make([]*ScheduledCircuit, len(circuits))
	for ci, c := range circuits {
		relabeled := c.Clone()
		for _, m := range relabeled.Moments {
			for _, inst := range m.Instructions {
				for k, t := range inst.Targets {
					q, ok := c.Qubits[t]
					if !ok {
						return nil, nil, fmt.Errorf("%w: circuit %d, %s targets %d", ErrUnknownQubit, ci, inst.Name, t)
					}
					inst.Targets[k] = indexOf[q]
				}
			}
		}
		relabeled.Qubits = make(QubitMap, len(c.Qubits))
		for _, q := range c.Qubits {
			relabeled.Qubits[indexOf[q]] = q
		}
		out[ci] = relabeled
	}
	return out, global, nil
}
