// Package kcircuit is the minimal scheduled-circuit model exchanged with the
// circuit generation and flow matching collaborators.
//
// A ScheduledCircuit is a list of moments, each tagged with a schedule value,
// whose instructions target qubit indices resolved through a QubitMap. A
// Circuit is the flattened form: a single instruction stream in which moments
// and QEC rounds are separated by TICK instructions.
package kcircuit

import (
	"errors"
	"fmt"

	"github.com/birdayz/kdetect/kgeom"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const Tick = "TICK"

var (
	ErrUnknownQubit            = errors.New("kcircuit: instruction targets a qubit index absent from the qubit map")
	ErrInvalidSchedule         = errors.New("kcircuit: invalid schedule")
	ErrUnsupportedMeasurement  = errors.New("kcircuit: multi-qubit measurements are not supported")
	ErrDuplicateQubitInCircuit = errors.New("kcircuit: qubit appears twice in a qubit map")
)

var (
	singleQubitMeasurements = map[string]struct{}{
		"M": {}, "MX": {}, "MY": {}, "MZ": {},
		"MR": {}, "MRX": {}, "MRY": {}, "MRZ": {},
	}
	multiQubitMeasurements = map[string]struct{}{
		"MXX": {}, "MYY": {}, "MZZ": {}, "MPP": {},
	}
)

// IsMeasurement reports whether name is a single-qubit measurement gate.
func IsMeasurement(name string) bool {
	_, ok := singleQubitMeasurements[name]
	return ok
}

type Instruction struct {
	Name    string    `json:"name"`
	Targets []int     `json:"targets"`
	Args    []float64 `json:"args,omitempty"`
}

func (i Instruction) clone() Instruction {
	return Instruction{
		Name:    i.Name,
		Targets: slices.Clone(i.Targets),
		Args:    slices.Clone(i.Args),
	}
}

type Moment struct {
	Instructions []Instruction `json:"instructions"`
}

func (m Moment) IsEmpty() bool {
	return len(m.Instructions) == 0
}

// QubitMap maps qubit indices to grid positions.
type QubitMap map[int]kgeom.GridQubit

// Indices returns the qubit indices in increasing order.
func (qm QubitMap) Indices() []int {
	keys := maps.Keys(qm)
	slices.Sort(keys)
	return keys
}

// Inverse returns the grid position to index map. It fails if two indices
// share a position.
func (qm QubitMap) Inverse() (map[kgeom.GridQubit]int, error) {
	out := make(map[kgeom.GridQubit]int, len(qm))
	for i, q := range qm {
		if j, ok := out[q]; ok {
			return nil, fmt.Errorf("%w: %s has indices %d and %d", ErrDuplicateQubitInCircuit, q, i, j)
		}
		out[q] = i
	}
	return out, nil
}

// ScheduledCircuit is a circuit whose moments are attached to increasing
// schedule values. Qubits resolves every instruction target.
type ScheduledCircuit struct {
	Moments  []Moment `json:"moments"`
	Schedule []int    `json:"schedule"`
	Qubits   QubitMap `json:"qubits"`
}

// Validate checks the schedule and that every target is a known qubit.
func (c *ScheduledCircuit) Validate() error {
	if len(c.Moments) != len(c.Schedule) {
		return fmt.Errorf("%w: %d moments but %d schedule entries", ErrInvalidSchedule, len(c.Moments), len(c.Schedule))
	}
	for i := 1; i < len(c.Schedule); i++ {
		if c.Schedule[i] <= c.Schedule[i-1] {
			return fmt.Errorf("%w: schedule must be strictly increasing, got %v", ErrInvalidSchedule, c.Schedule)
		}
	}
	for _, m := range c.Moments {
		for _, inst := range m.Instructions {
			for _, t := range inst.Targets {
				if _, ok := c.Qubits[t]; !ok {
					return fmt.Errorf("%w: %s targets %d", ErrUnknownQubit, inst.Name, t)
				}
			}
		}
	}
	return nil
}

// IsEmpty reports whether the circuit contains no instruction at all.
func (c *ScheduledCircuit) IsEmpty() bool {
	if c == nil {
		return true
	}
	for _, m := range c.Moments {
		if !m.IsEmpty() {
			return false
		}
	}
	return true
}

func (c *ScheduledCircuit) NumMeasurements() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, m := range c.Moments {
		for _, inst := range m.Instructions {
			if IsMeasurement(inst.Name) {
				n += len(inst.Targets)
			}
		}
	}
	return n
}

func (c *ScheduledCircuit) Clone() *ScheduledCircuit {
	out := &ScheduledCircuit{
		Moments:  make([]Moment, len(c.Moments)),
		Schedule: slices.Clone(c.Schedule),
		Qubits:   maps.Clone(c.Qubits),
	}
	for i, m := range c.Moments {
		insts := make([]Instruction, len(m.Instructions))
		for j, inst := range m.Instructions {
			insts[j] = inst.clone()
		}
		out.Moments[i] = Moment{Instructions: insts}
	}
	return out
}

// Equal compares moments, schedule and qubits. Nil and empty slices are
// equal.
func (c *ScheduledCircuit) Equal(other *ScheduledCircuit) bool {
	if c == nil || other == nil {
		return c.IsEmpty() && other.IsEmpty()
	}
	if !slices.Equal(c.Schedule, other.Schedule) || !maps.Equal(c.Qubits, other.Qubits) || len(c.Moments) != len(other.Moments) {
		return false
	}
	for i, m := range c.Moments {
		if !slices.EqualFunc(m.Instructions, other.Moments[i].Instructions, func(a, b Instruction) bool {
			return a.Name == b.Name && slices.Equal(a.Targets, b.Targets) && slices.Equal(a.Args, b.Args)
		}) {
			return false
		}
	}
	return true
}

// Instructions returns the flattened instruction stream of c, moments being
// separated by TICK.
func (c *ScheduledCircuit) Instructions() []Instruction {
	var out []Instruction
	for i, m := range c.Moments {
		if i > 0 {
			out = append(out, Instruction{Name: Tick})
		}
		for _, inst := range m.Instructions {
			out = append(out, inst.clone())
		}
	}
	return out
}

// Circuit is a flattened instruction stream over a single qubit map.
type Circuit struct {
	Qubits       QubitMap
	Instructions []Instruction
}

// Concatenate flattens rounds, all expressed in the qubits index space, into a
// single circuit. A TICK marks the boundary after every non-final round.
func Concatenate(rounds []*ScheduledCircuit, qubits QubitMap) *Circuit {
	out := &Circuit{Qubits: maps.Clone(qubits)}
	for i, r := range rounds {
		out.Instructions = append(out.Instructions, r.Instructions()...)
		if i != len(rounds)-1 {
			out.Instructions = append(out.Instructions, Instruction{Name: Tick})
		}
	}
	return out
}

// NumTicks counts the TICK instructions of c.
func (c *Circuit) NumTicks() int {
	n := 0
	for _, inst := range c.Instructions {
		if inst.Name == Tick {
			n++
		}
	}
	return n
}
