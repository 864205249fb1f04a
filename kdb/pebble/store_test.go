package pebble

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kdetect/kdb"
	"github.com/birdayz/kdetect/kdetector"
	"github.com/birdayz/kdetect/kgeom"
	"github.com/birdayz/kdetect/kplaquette"
	"github.com/birdayz/kdetect/ksituation"
	"github.com/cockroachdb/pebble"
)

func situation(t *testing.T, names ...string) ksituation.Situation {
	t.Helper()
	grids := make([]kgeom.Grid, len(names))
	collections := make([]kplaquette.Plaquettes, len(names))
	for i, name := range names {
		p, err := kplaquette.New(name, kplaquette.SquareQubits(), nil)
		assert.NoError(t, err)
		grids[i] = kgeom.MustGridFromRows([][]int{{1}})
		collections[i] = kplaquette.MustNewPlaquettes(map[int]*kplaquette.Plaquette{1: p}, nil)
	}
	s, err := ksituation.New(grids, collections)
	assert.NoError(t, err)
	return s
}

func database(t *testing.T) *kdb.Database {
	t.Helper()
	d := kdetector.MustNew([]kdetector.Measurement{{Qubit: kgeom.GridQubit{X: 0, Y: 0}, Offset: -1}}, kgeom.Coordinates{})
	db := kdb.New()
	assert.NoError(t, db.AddSituation(situation(t, "a"), kdetector.NewSet(d)))
	assert.NoError(t, db.AddSituation(situation(t, "a", "b"), kdetector.NewSet(d, d.OffsetSpatiallyBy(2, 0))))
	assert.NoError(t, db.AddSituation(situation(t, "c"), kdetector.NewSet()))
	return db
}

func TestExportImport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	db := database(t)
	db.Freeze()

	assert.NoError(t, Export(db, dir))
	back, err := Import(dir)
	assert.NoError(t, err)
	assert.True(t, db.Equal(back))
	assert.Equal(t, kdb.CurrentVersion, back.Version())
	assert.True(t, back.Frozen())
}

func TestExportReplacesContent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	assert.NoError(t, Export(database(t), dir))

	small := kdb.New()
	assert.NoError(t, small.AddSituation(situation(t, "z"), kdetector.NewSet()))
	assert.NoError(t, Export(small, dir))

	back, err := Import(dir)
	assert.NoError(t, err)
	assert.Equal(t, 1, back.Len())
	assert.True(t, small.Equal(back))
}

func TestImportWithoutMeta(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	store, err := pebble.Open(dir, &pebble.Options{})
	assert.NoError(t, err)
	assert.NoError(t, store.Close())

	_, err = Import(dir)
	assert.True(t, errors.Is(err, ErrMissingMeta))
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, "situation0", prefixEnd(situationPrefix))
	assert.True(t, "situation/ffff/9" < prefixEnd(situationPrefix))
}
