package kdb

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/birdayz/kdetect/kdetector"
	"github.com/birdayz/kdetect/kgeom"
	"github.com/birdayz/kdetect/kplaquette"
	"github.com/birdayz/kdetect/ksituation"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Dict is the canonical serialized form of a Database. Plaquettes are stored
// once in UniqPlaquettes and referenced by position everywhere else.
//
// A plaquette's name is its identity: every plaquette sharing a name must be
// equal, and ToDict fails with ErrPlaquetteConflict otherwise.
type Dict struct {
	Mapping        []MappingEntry    `json:"mapping"`
	Frozen         bool              `json:"frozen"`
	UniqPlaquettes []kplaquette.Dict `json:"uniq_plaquettes"`
	Version        string            `json:"version,omitempty"`
}

var ErrPlaquetteConflict = errors.New("kdb: different plaquettes share a name")

// KeyDict describes one situation.
type KeyDict struct {
	Subtemplates         [][][]int                `json:"subtemplates"`
	PlaquettesByTimestep []kplaquette.IndexedDict `json:"plaquettes_by_timestep"`
}

// MappingEntry is encoded as the two element array [key, detectors].
type MappingEntry struct {
	Key       KeyDict
	Detectors []kdetector.Record
}

func (e MappingEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Key, e.Detectors})
}

func (e *MappingEntry) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("mapping entry: expected [key, detectors], got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &e.Key); err != nil {
		return fmt.Errorf("mapping key: %w", err)
	}
	if err := json.Unmarshal(raw[1], &e.Detectors); err != nil {
		return fmt.Errorf("mapping detectors: %w", err)
	}
	return nil
}

// ToDict serializes db. Entries are ordered by reliable hash and the
// plaquette table by name, so equal databases produce equal dicts.
func (db *Database) ToDict() (Dict, error) {
	byName := make(map[string]*kplaquette.Plaquette)
	entries := db.Entries()
	for _, e := range entries {
		for _, ps := range e.Situation.AllPlaquettes() {
			for _, p := range ps.All() {
				if prev, ok := byName[p.Name]; ok && !prev.Equal(p) {
					return Dict{}, fmt.Errorf("%w: %q", ErrPlaquetteConflict, p.Name)
				}
				byName[p.Name] = p
			}
		}
	}
	names := maps.Keys(byName)
	slices.Sort(names)
	tableIndex := make(map[string]int, len(names))
	d := Dict{
		Mapping:        make([]MappingEntry, 0, len(entries)),
		Frozen:         db.frozen,
		UniqPlaquettes: make([]kplaquette.Dict, len(names)),
		Version:        db.version,
	}
	for i, name := range names {
		tableIndex[name] = i
		d.UniqPlaquettes[i] = byName[name].ToDict()
	}

	for _, e := range entries {
		key := KeyDict{}
		for t := 0; t < e.Situation.NumRounds(); t++ {
			key.Subtemplates = append(key.Subtemplates, e.Situation.Subtemplate(t).ToRows())
			pd, err := e.Situation.Plaquettes(t).ToIndexedDict(tableIndex)
			if err != nil {
				return Dict{}, err
			}
			key.PlaquettesByTimestep = append(key.PlaquettesByTimestep, pd)
		}
		d.Mapping = append(d.Mapping, MappingEntry{Key: key, Detectors: e.Detectors.Records()})
	}
	return d, nil
}

// FromDict rebuilds a database. Any inconsistency is reported as an error
// wrapping ErrCorrupt. Data from a newer major version is rejected with
// ErrUnsupportedVersion alone.
func FromDict(d Dict) (*Database, error) {
	version, err := checkVersion(d.Version)
	if err != nil {
		return nil, err
	}
	table := make([]*kplaquette.Plaquette, len(d.UniqPlaquettes))
	for i, pd := range d.UniqPlaquettes {
		p, err := kplaquette.FromDict(pd)
		if err != nil {
			return nil, fmt.Errorf("%w: plaquette %d: %w", ErrCorrupt, i, err)
		}
		table[i] = p
	}

	db := &Database{
		mapping: make(map[ksituation.Key]Entry, len(d.Mapping)),
		version: version,
	}
	for i, me := range d.Mapping {
		s, err := situationFromKeyDict(me.Key, table)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrCorrupt, i, err)
		}
		detectors, err := kdetector.SetFromRecords(me.Detectors)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrCorrupt, i, err)
		}
		if err := db.AddSituation(s, detectors); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrCorrupt, i, err)
		}
	}
	db.frozen = d.Frozen
	return db, nil
}

func situationFromKeyDict(k KeyDict, table []*kplaquette.Plaquette) (ksituation.Situation, error) {
	grids := make([]kgeom.Grid, len(k.Subtemplates))
	for t, rows := range k.Subtemplates {
		g, err := kgeom.GridFromRows(rows)
		if err != nil {
			return ksituation.Situation{}, fmt.Errorf("subtemplate %d: %w", t, err)
		}
		grids[t] = g
	}
	collections := make([]kplaquette.Plaquettes, len(k.PlaquettesByTimestep))
	for t, pd := range k.PlaquettesByTimestep {
		ps, err := kplaquette.FromIndexedDict(pd, table)
		if err != nil {
			return ksituation.Situation{}, fmt.Errorf("plaquettes %d: %w", t, err)
		}
		collections[t] = ps
	}
	return ksituation.New(grids, collections)
}
