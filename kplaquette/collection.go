package kplaquette

import (
	"fmt"
	"sort"
	"strconv"
)

// Plaquettes is an immutable index -> Plaquette mapping. Index 0 never maps to
// a plaquette. Indices without an explicit entry resolve to the default
// plaquette when one is set.
type Plaquettes struct {
	byIndex map[int]*Plaquette
	def     *Plaquette
}

// NewPlaquettes copies byIndex. def may be nil.
func NewPlaquettes(byIndex map[int]*Plaquette, def *Plaquette) (Plaquettes, error) {
	if _, ok := byIndex[0]; ok {
		return Plaquettes{}, ErrReservedIndex
	}
	m := make(map[int]*Plaquette, len(byIndex))
	for i, p := range byIndex {
		m[i] = p
	}
	return Plaquettes{byIndex: m, def: def}, nil
}

func MustNewPlaquettes(byIndex map[int]*Plaquette, def *Plaquette) Plaquettes {
	ps, err := NewPlaquettes(byIndex, def)
	if err != nil {
		panic(err)
	}
	return ps
}

// Get resolves index. Index 0 always fails: it means "no plaquette".
func (ps Plaquettes) Get(index int) (*Plaquette, error) {
	if index == 0 {
		return nil, fmt.Errorf("%w: 0", ErrMissingPlaquette)
	}
	if p, ok := ps.byIndex[index]; ok {
		return p, nil
	}
	if ps.def != nil {
		return ps.def, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrMissingPlaquette, index)
}

// Name returns the name used for index when building canonical keys. Indices
// without an explicit entry, 0 included, use the default plaquette name. When
// there is no default, 0 maps to the empty name and any other unknown index
// is an error.
func (ps Plaquettes) Name(index int) (string, error) {
	if p, ok := ps.byIndex[index]; ok {
		return p.Name, nil
	}
	if ps.def != nil {
		return ps.def.Name, nil
	}
	if index == 0 {
		return "", nil
	}
	return "", fmt.Errorf("%w: %d", ErrMissingPlaquette, index)
}

func (ps Plaquettes) Default() *Plaquette {
	return ps.def
}

// Indices returns the explicit indices in increasing order.
func (ps Plaquettes) Indices() []int {
	out := make([]int, 0, len(ps.byIndex))
	for i := range ps.byIndex {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// All returns every distinct plaquette referenced by ps, default included.
func (ps Plaquettes) All() []*Plaquette {
	out := make([]*Plaquette, 0, len(ps.byIndex)+1)
	for _, i := range ps.Indices() {
		out = append(out, ps.byIndex[i])
	}
	if ps.def != nil {
		out = append(out, ps.def)
	}
	return out
}

// NameDict returns index -> name with the default under the "default" key.
func (ps Plaquettes) NameDict() map[string]string {
	d := make(map[string]string, len(ps.byIndex)+1)
	for i, p := range ps.byIndex {
		d[strconv.Itoa(i)] = p.Name
	}
	if ps.def != nil {
		d["default"] = ps.def.Name
	}
	return d
}

// Equal compares two collections by plaquette names.
func (ps Plaquettes) Equal(other Plaquettes) bool {
	if len(ps.byIndex) != len(other.byIndex) {
		return false
	}
	if (ps.def == nil) != (other.def == nil) || (ps.def != nil && ps.def.Name != other.def.Name) {
		return false
	}
	for i, p := range ps.byIndex {
		o, ok := other.byIndex[i]
		if !ok || o.Name != p.Name {
			return false
		}
	}
	return true
}
