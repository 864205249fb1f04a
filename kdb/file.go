package kdb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/birdayz/kdetect/internal/atomicfile"
	"github.com/birdayz/kdetect/kserde"
	"github.com/go-logr/logr"
	"go.uber.org/multierr"
)

var (
	ErrCorrupt       = errors.New("kdb: corrupt database")
	ErrUnknownFormat = errors.New("kdb: unknown database file format")
)

// Format is the on-disk encoding of a database, selected by file extension.
type Format int

const (
	// FormatBinary is a zstd compressed protobuf Struct holding the Dict.
	FormatBinary Format = iota
	// FormatJSON is the indented JSON encoding of the Dict.
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatBinary:
		return "binary"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

var extensions = map[string]Format{
	".pb":     FormatBinary,
	".bin":    FormatBinary,
	".pkl":    FormatBinary,
	".pickle": FormatBinary,
	".json":   FormatJSON,
}

var codecs = map[Format]kserde.Serde[Dict]{
	FormatBinary: kserde.Binary[Dict](),
	FormatJSON:   kserde.JSONIndent[Dict](),
}

// FormatFromPath selects the format from the extension of path.
func FormatFromPath(path string) (Format, error) {
	f, ok := extensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
	return f, nil
}

// Marshal encodes db in the given format.
func (db *Database) Marshal(f Format) ([]byte, error) {
	codec, ok := codecs[f]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
	d, err := db.ToDict()
	if err != nil {
		return nil, err
	}
	return codec.Serializer(d)
}

// Unmarshal decodes data written by Marshal. Decoding failures wrap
// ErrCorrupt.
func Unmarshal(data []byte, f Format) (*Database, error) {
	codec, ok := codecs[f]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
	d, err := codec.Deserializer(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return FromDict(d)
}

// ToFile atomically writes db to path, creating parent directories.
func (db *Database) ToFile(path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := db.Marshal(f)
	if err != nil {
		return err
	}
	return atomicfile.WriteFile(path, data, 0o644)
}

// ReadFile loads path and fails on any problem, corruption included.
func ReadFile(path string) (*Database, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	db, err := Unmarshal(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return db, nil
}

type loadConfig struct {
	log logr.Logger
}

type LoadOption func(*loadConfig)

var WithLogr = func(log logr.Logger) LoadOption {
	return func(c *loadConfig) {
		c.log = log
	}
}

// FromFile loads path. A corrupt file does not fail the call: it is moved
// aside, the problem is logged and an empty database is returned. Other
// errors, such as a missing file, an unknown extension or data written by a
// newer major version, are returned and leave the file untouched.
func FromFile(path string, opts ...LoadOption) (*Database, error) {
	cfg := loadConfig{log: logr.Discard()}
	for _, opt := range opts {
		opt(&cfg)
	}
	db, err := ReadFile(path)
	if err == nil {
		return db, nil
	}
	if !errors.Is(err, ErrCorrupt) {
		return nil, err
	}
	moved, qerr := atomicfile.Quarantine(path, "corrupt")
	if qerr != nil {
		return nil, multierr.Append(err, qerr)
	}
	cfg.log.Error(err, "Detector database is corrupt, starting from an empty one", "path", path, "moved_to", moved)
	return New(), nil
}

// LoadOrCreate is FromFile returning an empty database when path does not
// exist.
func LoadOrCreate(path string, opts ...LoadOption) (*Database, error) {
	db, err := FromFile(path, opts...)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	return db, err
}
