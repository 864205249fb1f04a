package kdetect

import (
	"fmt"
	"runtime"

	"github.com/birdayz/kdetect/kcircuit"
	"github.com/birdayz/kdetect/kdb"
	"github.com/birdayz/kdetect/kflow"
	"github.com/birdayz/kdetect/kgen"
	"github.com/birdayz/kdetect/ktemplate"
	"github.com/go-logr/logr"
)

// Option configures detector computation.
type Option func(*config)

// Relabeler moves round circuits into one global qubit index space.
type Relabeler func([]*kcircuit.ScheduledCircuit) ([]*kcircuit.ScheduledCircuit, kcircuit.QubitMap, error)

type config struct {
	database        *kdb.Database
	onlyUseDatabase bool
	parallelism     int
	log             logr.Logger

	matcher  kflow.Matcher
	generate kgen.Generator
	relabel  Relabeler
	windower ktemplate.Windower
}

func newConfig(opts []Option) config {
	c := config{
		parallelism: 1,
		log:         logr.Discard(),
		generate:    kgen.Generate,
		relabel:     kcircuit.Relabel,
		windower:    ktemplate.SpatiallyDistinct3D,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithDatabase caches computed detectors in db and reuses the ones it holds.
var WithDatabase = func(db *kdb.Database) Option {
	return func(c *config) {
		c.database = db
	}
}

// WithOnlyUseDatabase forbids computing detectors: every situation must come
// from the database.
var WithOnlyUseDatabase = func(only bool) Option {
	return func(c *config) {
		c.onlyUseDatabase = only
	}
}

// WithParallelism sets how many windows are computed concurrently. 1 computes
// sequentially, -1 uses one worker per CPU.
var WithParallelism = func(n int) Option {
	return func(c *config) {
		c.parallelism = n
	}
}

var WithLogr = func(log logr.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

var WithMatcher = func(m kflow.Matcher) Option {
	return func(c *config) {
		c.matcher = m
	}
}

var WithGenerator = func(g kgen.Generator) Option {
	return func(c *config) {
		c.generate = g
	}
}

var WithRelabeler = func(r Relabeler) Option {
	return func(c *config) {
		c.relabel = r
	}
}

var WithWindower = func(w ktemplate.Windower) Option {
	return func(c *config) {
		c.windower = w
	}
}

// workers resolves the configured parallelism.
func (c config) workers() (int, error) {
	switch {
	case c.parallelism == -1:
		return runtime.NumCPU(), nil
	case c.parallelism >= 1:
		return c.parallelism, nil
	default:
		return 0, fmt.Errorf("%w: parallelism must be a positive integer or -1, got %d", ErrInvalidInput, c.parallelism)
	}
}
