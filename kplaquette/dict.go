package kplaquette

import (
	"fmt"

	"github.com/birdayz/kdetect/kcircuit"
)

// Dict is the plain serialized form of a Plaquette.
type Dict struct {
	Name                  string                     `json:"name"`
	Qubits                Qubits                     `json:"qubits"`
	Circuit               *kcircuit.ScheduledCircuit `json:"circuit"`
	MergeableInstructions []string                   `json:"mergeable_instructions"`
}

func (p *Plaquette) ToDict() Dict {
	return Dict{
		Name:                  p.Name,
		Qubits:                p.Qubits,
		Circuit:               p.Circuit,
		MergeableInstructions: p.MergeableInstructions,
	}
}

func FromDict(d Dict) (*Plaquette, error) {
	return New(d.Name, d.Qubits, d.Circuit, d.MergeableInstructions...)
}

// IndexedEntry references a plaquette by its position in a shared table.
type IndexedEntry struct {
	Index     int `json:"index"`
	Plaquette int `json:"plaquette"`
}

// IndexedDict is the serialized form of a Plaquettes collection whose
// plaquettes live in a table shared by a whole database.
type IndexedDict struct {
	Plaquettes []IndexedEntry `json:"plaquettes"`
	Default    *int           `json:"default"`
}

// ToIndexedDict serializes ps, resolving each plaquette through tableIndex,
// a plaquette name -> table position map.
func (ps Plaquettes) ToIndexedDict(tableIndex map[string]int) (IndexedDict, error) {
	d := IndexedDict{Plaquettes: make([]IndexedEntry, 0, len(ps.byIndex))}
	for _, i := range ps.Indices() {
		p := ps.byIndex[i]
		pos, ok := tableIndex[p.Name]
		if !ok {
			return IndexedDict{}, fmt.Errorf("%w: %q is not in the plaquette table", ErrMissingPlaquette, p.Name)
		}
		d.Plaquettes = append(d.Plaquettes, IndexedEntry{Index: i, Plaquette: pos})
	}
	if ps.def != nil {
		pos, ok := tableIndex[ps.def.Name]
		if !ok {
			return IndexedDict{}, fmt.Errorf("%w: default %q is not in the plaquette table", ErrMissingPlaquette, ps.def.Name)
		}
		d.Default = &pos
	}
	return d, nil
}

// FromIndexedDict rebuilds a collection from d and the shared table.
func FromIndexedDict(d IndexedDict, table []*Plaquette) (Plaquettes, error) {
	lookup := func(pos int) (*Plaquette, error) {
		if pos < 0 || pos >= len(table) {
			return nil, fmt.Errorf("%w: table position %d out of %d", ErrMissingPlaquette, pos, len(table))
		}
		return table[pos], nil
	}
	byIndex := make(map[int]*Plaquette, len(d.Plaquettes))
	for _, e := range d.Plaquettes {
		p, err := lookup(e.Plaquette)
		if err != nil {
			return Plaquettes{}, err
		}
		byIndex[e.Index] = p
	}
	var def *Plaquette
	if d.Default != nil {
		p, err := lookup(*d.Default)
		if err != nil {
			return Plaquettes{}, err
		}
		def = p
	}
	return NewPlaquettes(byIndex, def)
}
