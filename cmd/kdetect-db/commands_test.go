package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kdetect/kcircuit"
	"github.com/birdayz/kdetect/kdb"
	"github.com/birdayz/kdetect/kdetector"
	"github.com/birdayz/kdetect/kgeom"
	"github.com/birdayz/kdetect/kplaquette"
	"github.com/birdayz/kdetect/ksituation"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeDatabase(t *testing.T, path string) *kdb.Database {
	t.Helper()
	c := &kcircuit.ScheduledCircuit{
		Qubits: kcircuit.QubitMap{0: {X: 0, Y: 0}},
		Moments: []kcircuit.Moment{
			{Instructions: []kcircuit.Instruction{{Name: "M", Targets: []int{0}}}},
		},
		Schedule: []int{0},
	}
	p, err := kplaquette.New("zz", kplaquette.SquareQubits(), c, "M")
	assert.NoError(t, err)
	s := ksituation.MustNew(
		[]kgeom.Grid{kgeom.MustGridFromRows([][]int{{1}})},
		[]kplaquette.Plaquettes{kplaquette.MustNewPlaquettes(map[int]*kplaquette.Plaquette{1: p}, nil)},
	)
	d := kdetector.MustNew([]kdetector.Measurement{{Qubit: kgeom.GridQubit{}, Offset: -1}}, kgeom.Coordinates{})

	db := kdb.New()
	assert.NoError(t, db.AddSituation(s, kdetector.NewSet(d)))
	assert.NoError(t, db.ToFile(path))
	return db
}

func TestInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	writeDatabase(t, path)

	out, err := run(t, "info", path)
	assert.NoError(t, err)
	assert.Contains(t, out, "format:     json")
	assert.Contains(t, out, "version:    "+kdb.CurrentVersion)
	assert.Contains(t, out, "situations: 1")
	assert.Contains(t, out, "detectors:  1")
	assert.Contains(t, out, "plaquettes: 1")
}

func TestConvertAndFreeze(t *testing.T) {
	dir := t.TempDir()
	in, out := filepath.Join(dir, "db.json"), filepath.Join(dir, "db.pb")
	want := writeDatabase(t, in)

	_, err := run(t, "convert", in, out)
	assert.NoError(t, err)
	got, err := kdb.ReadFile(out)
	assert.NoError(t, err)
	assert.True(t, want.Equal(got))

	_, err = run(t, "freeze", in, out)
	assert.NoError(t, err)
	for _, p := range []string{in, out} {
		db, err := kdb.ReadFile(p)
		assert.NoError(t, err)
		assert.True(t, db.Frozen())
	}

	_, err = run(t, "unfreeze", out)
	assert.NoError(t, err)
	db, err := kdb.ReadFile(out)
	assert.NoError(t, err)
	assert.False(t, db.Frozen())
}

func TestConvertRejectsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "db.json")
	writeDatabase(t, in)

	_, err := run(t, "convert", in, filepath.Join(dir, "db.yaml"))
	assert.True(t, errors.Is(err, kdb.ErrUnknownFormat))
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	good, bad := filepath.Join(dir, "good.pb"), filepath.Join(dir, "bad.pb")
	writeDatabase(t, good)
	assert.NoError(t, os.WriteFile(bad, []byte("garbage"), 0o644))

	out, err := run(t, "verify", good)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, good+": ok"))

	_, err = run(t, "verify", good, bad)
	assert.True(t, errors.Is(err, kdb.ErrCorrupt))

	// Verification never moves files aside.
	_, err = os.Stat(bad)
	assert.NoError(t, err)
}

func TestPebbleExportImport(t *testing.T) {
	dir := t.TempDir()
	in, out := filepath.Join(dir, "db.pb"), filepath.Join(dir, "copy.json")
	want := writeDatabase(t, in)

	_, err := run(t, "export", in, filepath.Join(dir, "store"))
	assert.NoError(t, err)
	_, err = run(t, "import", filepath.Join(dir, "store"), out)
	assert.NoError(t, err)

	got, err := kdb.ReadFile(out)
	assert.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestPath(t *testing.T) {
	t.Setenv(kdb.DataDirEnv, "/data")
	out, err := run(t, "path")
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join("/data", "detector_database.pb")+"\n", out)
}
