// Package kdb is the detector database: a cache from situations to the
// detectors computed for them.
//
// A Database has no internal locking. Callers sharing one between goroutines
// must serialize access themselves, or Freeze it and only read.
package kdb

import (
	"errors"
	"fmt"

	"github.com/birdayz/kdetect/kdetector"
	"github.com/birdayz/kdetect/ksituation"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	ErrFrozen            = errors.New("kdb: database is frozen")
	ErrSituationNotFound = errors.New("kdb: situation not found")
)

// Entry is one cached situation. Detectors are expressed in the coordinate
// frame of the situation: origin at the top-left plaquette of the window.
type Entry struct {
	Situation ksituation.Situation
	Detectors kdetector.Set
}

type Database struct {
	mapping map[ksituation.Key]Entry
	frozen  bool
	version string
}

// New returns an empty, unfrozen database at CurrentVersion.
func New() *Database {
	return &Database{
		mapping: make(map[ksituation.Key]Entry),
		version: CurrentVersion,
	}
}

// AddSituation inserts or replaces the detectors of s.
func (db *Database) AddSituation(s ksituation.Situation, detectors kdetector.Set) error {
	if db.frozen {
		return fmt.Errorf("%w: cannot add a situation", ErrFrozen)
	}
	key, err := s.Key()
	if err != nil {
		return err
	}
	db.mapping[key] = Entry{Situation: s, Detectors: detectors}
	return nil
}

func (db *Database) RemoveSituation(s ksituation.Situation) error {
	if db.frozen {
		return fmt.Errorf("%w: cannot remove a situation", ErrFrozen)
	}
	key, err := s.Key()
	if err != nil {
		return err
	}
	if _, ok := db.mapping[key]; !ok {
		return fmt.Errorf("%w: %s", ErrSituationNotFound, key.HexDigest())
	}
	delete(db.mapping, key)
	return nil
}

// GetDetectors looks s up. A situation that cannot be canonicalized is
// reported as absent.
func (db *Database) GetDetectors(s ksituation.Situation) (kdetector.Set, bool) {
	key, err := s.Key()
	if err != nil {
		return kdetector.Set{}, false
	}
	e, ok := db.mapping[key]
	return e.Detectors, ok
}

func (db *Database) Get(key ksituation.Key) (Entry, bool) {
	e, ok := db.mapping[key]
	return e, ok
}

func (db *Database) Freeze()      { db.frozen = true }
func (db *Database) Unfreeze()    { db.frozen = false }
func (db *Database) Frozen() bool { return db.frozen }

func (db *Database) Len() int {
	return len(db.mapping)
}

// Version is the semantic version of the data held by db, without the
// leading "v".
func (db *Database) Version() string {
	return db.version
}

// Keys returns all keys ordered by reliable hash.
func (db *Database) Keys() []ksituation.Key {
	keys := maps.Keys(db.mapping)
	slices.SortFunc(keys, func(a, b ksituation.Key) int {
		if c := a.ReliableHash().Cmp(b.ReliableHash()); c != 0 {
			return c
		}
		switch {
		case a.String() < b.String():
			return -1
		case a.String() > b.String():
			return 1
		}
		return 0
	})
	return keys
}

// Entries returns all entries in Keys order.
func (db *Database) Entries() []Entry {
	keys := db.Keys()
	out := make([]Entry, len(keys))
	for i, k := range keys {
		out[i] = db.mapping[k]
	}
	return out
}

// NumDetectors counts the detectors stored over all situations.
func (db *Database) NumDetectors() int {
	n := 0
	for _, e := range db.mapping {
		n += e.Detectors.Len()
	}
	return n
}

// Merge copies every entry of other into db, replacing entries with the same
// key.
func (db *Database) Merge(other *Database) error {
	if db.frozen {
		return fmt.Errorf("%w: cannot merge", ErrFrozen)
	}
	for k, e := range other.mapping {
		db.mapping[k] = e
	}
	return nil
}

// Equal reports whether both databases hold the same keys with equal
// detector sets and the same frozen flag.
func (db *Database) Equal(other *Database) bool {
	if db.frozen != other.frozen || len(db.mapping) != len(other.mapping) {
		return false
	}
	for k, e := range db.mapping {
		o, ok := other.mapping[k]
		if !ok || !e.Detectors.Equal(o.Detectors) {
			return false
		}
	}
	return true
}
