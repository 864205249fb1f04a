// Package kgen generates the circuit of one QEC round from a 2D arrangement
// of plaquette indices.
package kgen

import (
	"errors"
	"fmt"

	"github.com/birdayz/kdetect/kcircuit"
	"github.com/birdayz/kdetect/kgeom"
	"github.com/birdayz/kdetect/kplaquette"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var ErrQubitConflict = errors.New("kgen: qubit used by two non-mergeable instructions in the same moment")

// Generator builds a round circuit. Generate is the default implementation.
type Generator func(subtemplate kgeom.Grid, plaquettes kplaquette.Plaquettes, increments kgeom.Shift2D) (*kcircuit.ScheduledCircuit, error)

type placed struct {
	plaquette *kplaquette.Plaquette
	offset    kgeom.Shift2D
}

// Generate places the plaquette of every non-zero cell (row, col) at
// (col*increments.X, row*increments.Y) and merges all plaquette circuits
// moment by moment, moments sharing a schedule value being merged together.
// Mergeable instructions of the same name are fused and their targets
// deduplicated; any other use of a qubit already used in the moment, fused or
// not, is an error.
func Generate(subtemplate kgeom.Grid, plaquettes kplaquette.Plaquettes, increments kgeom.Shift2D) (*kcircuit.ScheduledCircuit, error) {
	var parts []placed
	for i := 0; i < subtemplate.Rows(); i++ {
		for j := 0; j < subtemplate.Cols(); j++ {
			idx := subtemplate.At(i, j)
			if idx == 0 {
				continue
			}
			p, err := plaquettes.Get(idx)
			if err != nil {
				return nil, fmt.Errorf("cell (%d, %d): %w", i, j, err)
			}
			if p.IsEmpty() {
				continue
			}
			parts = append(parts, placed{plaquette: p, offset: kgeom.Shift2D{X: j * increments.X, Y: i * increments.Y}})
		}
	}
	return merge(parts)
}

func merge(parts []placed) (*kcircuit.ScheduledCircuit, error) {
	qubitSet := make(map[kgeom.GridQubit]struct{})
	schedules := make(map[int]struct{})
	for _, p := range parts {
		for _, q := range p.plaquette.Circuit.Qubits {
			qubitSet[q.Add(p.offset)] = struct{}{}
		}
		for _, s := range p.plaquette.Circuit.Schedule {
			schedules[s] = struct{}{}
		}
	}
	qubits := maps.Keys(qubitSet)
	slices.SortFunc(qubits, func(a, b kgeom.GridQubit) int { return a.Compare(b) })
	out := &kcircuit.ScheduledCircuit{Qubits: make(kcircuit.QubitMap, len(qubits))}
	indexOf := make(map[kgeom.GridQubit]int, len(qubits))
	for i, q := range qubits {
		out.Qubits[i] = q
		indexOf[q] = i
	}

	order := maps.Keys(schedules)
	slices.Sort(order)
	for _, s := range order {
		m, err := mergeMoment(parts, s, indexOf)
		if err != nil {
			return nil, fmt.Errorf("schedule %d: %w", s, err)
		}
		out.Moments = append(out.Moments, m)
		out.Schedule = append(out.Schedule, s)
	}
	return out, nil
}

func mergeMoment(parts []placed, schedule int, indexOf map[kgeom.GridQubit]int) (kcircuit.Moment, error) {
	var (
		moment    kcircuit.Moment
		used      = make(map[int]struct{})
		fused     = make(map[string]int) // instruction name -> position in moment
		fusedSeen = make(map[string]map[int]struct{})
	)
	for _, p := range parts {
		c := p.plaquette.Circuit
		mi := slices.Index(c.Schedule, schedule)
		if mi < 0 {
			continue
		}
		for _, inst := range c.Moments[mi].Instructions {
			targets := make([]int, len(inst.Targets))
			for k, t := range inst.Targets {
				targets[k] = indexOf[c.Qubits[t].Add(p.offset)]
			}
			if p.plaquette.IsMergeable(inst.Name) && len(inst.Args) == 0 {
				pos, ok := fused[inst.Name]
				if !ok {
					pos = len(moment.Instructions)
					fused[inst.Name] = pos
					fusedSeen[inst.Name] = make(map[int]struct{})
					moment.Instructions = append(moment.Instructions, kcircuit.Instruction{Name: inst.Name})
				}
				for _, t := range targets {
					if _, dup := fusedSeen[inst.Name][t]; dup {
						continue
					}
					if _, ok := used[t]; ok {
						return kcircuit.Moment{}, fmt.Errorf("%w: %s on %d", ErrQubitConflict, inst.Name, t)
					}
					used[t] = struct{}{}
					fusedSeen[inst.Name][t] = struct{}{}
					moment.Instructions[pos].Targets = append(moment.Instructions[pos].Targets, t)
				}
				continue
			}
			for _, t := range targets {
				if _, ok := used[t]; ok {
					return kcircuit.Moment{}, fmt.Errorf("%w: %s on %d", ErrQubitConflict, inst.Name, t)
				}
				used[t] = struct{}{}
			}
			moment.Instructions = append(moment.Instructions, kcircuit.Instruction{
				Name:    inst.Name,
				Targets: targets,
				Args:    slices.Clone(inst.Args),
			})
		}
	}
	return moment, nil
}
