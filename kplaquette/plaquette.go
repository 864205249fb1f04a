// Package kplaquette describes plaquettes, the per-round circuit units placed
// on each cell of a template instantiation, and collections of plaquettes
// indexed by the integers stored in those instantiations.
package kplaquette

import (
	"errors"
	"fmt"
	"sort"

	"github.com/birdayz/kdetect/kcircuit"
	"github.com/birdayz/kdetect/kgeom"
	"golang.org/x/exp/slices"
)

var (
	ErrReservedIndex    = errors.New("kplaquette: index 0 is reserved for \"no plaquette\"")
	ErrMissingPlaquette = errors.New("kplaquette: no plaquette for index")
	ErrForeignQubit     = errors.New("kplaquette: circuit uses a qubit that is not part of the plaquette")
)

// Qubits are the qubits of a plaquette, in the plaquette-local frame.
type Qubits struct {
	Data     []kgeom.GridQubit `json:"data_qubits"`
	Syndrome []kgeom.GridQubit `json:"syndrome_qubits"`
}

func (q Qubits) All() []kgeom.GridQubit {
	out := make([]kgeom.GridQubit, 0, len(q.Data)+len(q.Syndrome))
	out = append(out, q.Data...)
	return append(out, q.Syndrome...)
}

// SquareQubits are the qubits of a regular square plaquette: four corner data
// qubits around one central syndrome qubit.
func SquareQubits() Qubits {
	return Qubits{
		Data: []kgeom.GridQubit{
			{X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1},
		},
		Syndrome: []kgeom.GridQubit{{X: 0, Y: 0}},
	}
}

// Plaquette is identified by its Name: two plaquettes with the same name are
// considered the same plaquette everywhere in this module.
type Plaquette struct {
	Name                  string
	Qubits                Qubits
	Circuit               *kcircuit.ScheduledCircuit
	MergeableInstructions []string
}

// New validates that circuit only touches the plaquette qubits.
func New(name string, qubits Qubits, circuit *kcircuit.ScheduledCircuit, mergeable ...string) (*Plaquette, error) {
	if circuit == nil {
		circuit = &kcircuit.ScheduledCircuit{Qubits: kcircuit.QubitMap{}}
	}
	if err := circuit.Validate(); err != nil {
		return nil, fmt.Errorf("plaquette %q: %w", name, err)
	}
	allowed := make(map[kgeom.GridQubit]struct{})
	for _, q := range qubits.All() {
		allowed[q] = struct{}{}
	}
	for _, q := range circuit.Qubits {
		if _, ok := allowed[q]; !ok {
			return nil, fmt.Errorf("%w: %s in plaquette %q", ErrForeignQubit, q, name)
		}
	}
	m := append([]string(nil), mergeable...)
	sort.Strings(m)
	return &Plaquette{Name: name, Qubits: qubits, Circuit: circuit, MergeableInstructions: m}, nil
}

// Origin of the plaquette-local frame. Plaquettes are centred on (0, 0).
func (p *Plaquette) Origin() kgeom.GridQubit {
	return kgeom.GridQubit{}
}

func (p *Plaquette) NumMeasurements() int {
	return p.Circuit.NumMeasurements()
}

func (p *Plaquette) IsEmpty() bool {
	return p.Circuit.IsEmpty()
}

func (p *Plaquette) IsMergeable(instruction string) bool {
	i := sort.SearchStrings(p.MergeableInstructions, instruction)
	return i < len(p.MergeableInstructions) && p.MergeableInstructions[i] == instruction
}

// Equal compares plaquettes by value, name included.
func (p *Plaquette) Equal(other *Plaquette) bool {
	return p.Name == other.Name &&
		slices.Equal(p.Qubits.Data, other.Qubits.Data) &&
		slices.Equal(p.Qubits.Syndrome, other.Qubits.Syndrome) &&
		slices.Equal(p.MergeableInstructions, other.MergeableInstructions) &&
		p.Circuit.Equal(other.Circuit)
}

func (p *Plaquette) String() string {
	return p.Name
}
