// Package pebble mirrors a detector database into a Pebble key-value store,
// one key per situation, so that large databases can be inspected and
// updated without decoding a single monolithic file.
//
// Layout:
//
//	meta                     version, frozen flag and plaquette table order
//	plaquette/<name>         one serialized plaquette
//	situation/<md5>/<seq>    one [key, detectors] entry
package pebble

import (
	"errors"
	"fmt"
	"strings"

	"github.com/birdayz/kdetect/kdb"
	"github.com/birdayz/kdetect/kplaquette"
	"github.com/birdayz/kdetect/kserde"
	"github.com/cockroachdb/pebble"
	"go.uber.org/multierr"
)

const (
	metaKey         = "meta"
	plaquettePrefix = "plaquette/"
	situationPrefix = "situation/"
)

var ErrMissingMeta = errors.New("kdb/pebble: store has no meta record")

type meta struct {
	Version    string   `json:"version"`
	Frozen     bool     `json:"frozen"`
	Plaquettes []string `json:"plaquettes"`
}

var (
	metaSerde      = kserde.JSON[meta]()
	plaquetteSerde = kserde.JSON[kplaquette.Dict]()
	entrySerde     = kserde.JSON[kdb.MappingEntry]()
)

// Export replaces the content of the store at dir with db.
func Export(db *kdb.Database, dir string) (err error) {
	d, err := db.ToDict()
	if err != nil {
		return err
	}
	store, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", dir, err)
	}
	defer func() {
		err = multierr.Append(err, store.Close())
	}()

	b := store.NewBatch()
	defer func() {
		err = multierr.Append(err, b.Close())
	}()
	if err := b.DeleteRange([]byte{0x00}, []byte{0xff}, nil); err != nil {
		return err
	}

	m := meta{Version: d.Version, Frozen: d.Frozen, Plaquettes: make([]string, len(d.UniqPlaquettes))}
	for i, p := range d.UniqPlaquettes {
		m.Plaquettes[i] = p.Name
		v, err := plaquetteSerde.Serializer(p)
		if err != nil {
			return err
		}
		if err := b.Set([]byte(plaquettePrefix+p.Name), v, nil); err != nil {
			return err
		}
	}

	keys := db.Keys()
	seq := make(map[string]int)
	for i, e := range d.Mapping {
		hex := keys[i].HexDigest()
		v, err := entrySerde.Serializer(e)
		if err != nil {
			return err
		}
		k := fmt.Sprintf("%s%s/%d", situationPrefix, hex, seq[hex])
		seq[hex]++
		if err := b.Set([]byte(k), v, nil); err != nil {
			return err
		}
	}

	mv, err := metaSerde.Serializer(m)
	if err != nil {
		return err
	}
	if err := b.Set([]byte(metaKey), mv, nil); err != nil {
		return err
	}
	return b.Commit(pebble.Sync)
}

// Import reads the store at dir back into a database.
func Import(dir string) (db *kdb.Database, err error) {
	store, err := pebble.Open(dir, &pebble.Options{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dir, err)
	}
	defer func() {
		err = multierr.Append(err, store.Close())
	}()

	raw, err := get(store, metaKey)
	if err != nil {
		return nil, err
	}
	m, err := metaSerde.Deserializer(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: meta: %w", kdb.ErrCorrupt, err)
	}

	d := kdb.Dict{
		Version:        m.Version,
		Frozen:         m.Frozen,
		UniqPlaquettes: make([]kplaquette.Dict, len(m.Plaquettes)),
	}
	for i, name := range m.Plaquettes {
		raw, err := get(store, plaquettePrefix+name)
		if err != nil {
			return nil, err
		}
		p, err := plaquetteSerde.Deserializer(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: plaquette %q: %w", kdb.ErrCorrupt, name, err)
		}
		d.UniqPlaquettes[i] = p
	}

	it := store.NewIter(&pebble.IterOptions{
		LowerBound: []byte(situationPrefix),
		UpperBound: []byte(prefixEnd(situationPrefix)),
	})
	for it.First(); it.Valid(); it.Next() {
		val, err := it.ValueAndErr()
		if err != nil {
			return nil, multierr.Append(err, it.Close())
		}
		e, err := entrySerde.Deserializer(val)
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("%w: %s: %w", kdb.ErrCorrupt, it.Key(), err), it.Close())
		}
		d.Mapping = append(d.Mapping, e)
	}
	if err := it.Close(); err != nil {
		return nil, err
	}
	return kdb.FromDict(d)
}

func get(store *pebble.DB, key string) ([]byte, error) {
	v, closer, err := store.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			if key == metaKey {
				return nil, ErrMissingMeta
			}
			return nil, fmt.Errorf("%w: missing %s", kdb.ErrCorrupt, key)
		}
		return nil, err
	}
	defer closer.Close()

	res := make([]byte, len(v))
	copy(res, v)
	return res, nil
}

// prefixEnd returns the smallest key greater than every key starting with
// prefix.
func prefixEnd(prefix string) string {
	return strings.TrimSuffix(prefix, "/") + "0"
}
