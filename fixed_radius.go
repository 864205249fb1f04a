package kdetect

import (
	"context"
	"fmt"

	"github.com/birdayz/kdetect/kdetector"
	"github.com/birdayz/kdetect/kgeom"
	"github.com/birdayz/kdetect/kplaquette"
	"github.com/birdayz/kdetect/ksituation"
	"github.com/birdayz/kdetect/ktemplate"
	"golang.org/x/sync/errgroup"
)

// DefaultRadius is the Manhattan radius used by most callers.
const DefaultRadius = 2

type window struct {
	id        ktemplate.WindowID
	situation ksituation.Situation
}

// ComputeForFixedRadius computes every detector ending in the last round of
// the given templates. templates[t] and plaquettes[t] describe round t, the
// last one being the most recent.
//
// The aligned instantiations are split into windows of the given Manhattan
// radius; each distinct window is computed once. With a parallelism above 1,
// windows missing from the database are computed concurrently by workers that
// never see the database. The database is then updated by the caller
// goroutine once all workers are done. The returned detectors are in global
// coordinates, deduplicated and sorted.
func ComputeForFixedRadius(
	ctx context.Context,
	templates []ktemplate.Template,
	k int,
	plaquettes []kplaquette.Plaquettes,
	radius int,
	opts ...Option,
) ([]kdetector.Detector, error) {
	cfg := newConfig(opts)

	if len(templates) == 0 {
		return nil, fmt.Errorf("%w: no template", ErrInvalidInput)
	}
	if len(templates) != len(plaquettes) {
		return nil, fmt.Errorf("%w: got %d templates and %d plaquette collections", ErrInvalidInput, len(templates), len(plaquettes))
	}
	increments := templates[0].Increments()
	for i, t := range templates[1:] {
		if t.Increments() != increments {
			return nil, fmt.Errorf("%w: template %d has increments %s, template 0 has %s", ErrInvalidInput, i+1, t.Increments(), increments)
		}
	}
	if radius < 0 {
		return nil, fmt.Errorf("%w: negative radius %d", ErrInvalidInput, radius)
	}
	workers, err := cfg.workers()
	if err != nil {
		return nil, err
	}

	instantiations, err := ktemplate.SuperimposedInstantiations(templates, k)
	if err != nil {
		return nil, err
	}
	windows, err := cfg.windower(instantiations, radius)
	if err != nil {
		return nil, fmt.Errorf("split into windows: %w", err)
	}

	todo := make([]window, 0, len(windows.Order))
	for _, id := range windows.Order {
		s, err := NewSituation(windows.ByID[id], plaquettes)
		if err != nil {
			return nil, fmt.Errorf("window %s: %w", id, err)
		}
		todo = append(todo, window{id: id, situation: s})
	}

	var byWindow map[ktemplate.WindowID]kdetector.Set
	if workers == 1 {
		byWindow, err = cfg.computeSequentially(todo, increments)
	} else {
		byWindow, err = cfg.computeConcurrently(ctx, todo, increments, workers)
	}
	if err != nil {
		return nil, err
	}

	// Windows hold detectors in the frame of their central plaquette; move
	// them to the cell they are centred on.
	origin := templates[len(templates)-1].InstantiationOrigin(k)
	var all []kdetector.Detector
	for i, row := range windows.Indices {
		for j, id := range row {
			if id.IsEmpty() {
				continue
			}
			dx, dy := (j+origin.X)*increments.X, (i+origin.Y)*increments.Y
			for _, d := range byWindow[id].Sorted() {
				all = append(all, d.OffsetSpatiallyBy(dx, dy))
			}
		}
	}
	// Neighbouring windows can emit the same detector.
	result := kdetector.NewSet(all...).Sorted()

	cfg.log.Info("Computed detectors", "windows", len(todo), "detectors", len(result), "workers", workers, "radius", radius)
	return result, nil
}

func (c config) computeSequentially(todo []window, increments kgeom.Shift2D) (map[ktemplate.WindowID]kdetector.Set, error) {
	out := make(map[ktemplate.WindowID]kdetector.Set, len(todo))
	for _, w := range todo {
		detectors, err := c.cachedCompute(w.situation, increments)
		if err != nil {
			return nil, fmt.Errorf("window %s: %w", w.id, err)
		}
		out[w.id] = shiftToCenter(detectors, w.situation.Radius(), increments)
	}
	return out, nil
}

// computeConcurrently resolves database hits up front, computes the misses on
// a bounded pool of workers without database access, then stores the new
// results and only afterwards shifts everything to plaquette-centred
// coordinates.
func (c config) computeConcurrently(ctx context.Context, todo []window, increments kgeom.Shift2D, workers int) (map[ktemplate.WindowID]kdetector.Set, error) {
	raw := make([]kdetector.Set, len(todo))
	var misses []int
	for i, w := range todo {
		if c.database != nil {
			if detectors, ok := c.database.GetDetectors(w.situation); ok {
				raw[i] = detectors
				continue
			}
		}
		if c.onlyUseDatabase {
			return nil, fmt.Errorf("window %s: %w", w.id, &MissingSituationError{Situation: w.situation})
		}
		misses = append(misses, i)
	}
	c.log.V(1).Info("Dispatching windows", "cached", len(todo)-len(misses), "to_compute", len(misses), "workers", workers)

	worker := c
	worker.database = nil
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, i := range misses {
		i := i
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			detectors, err := worker.computeSituationDetectors(todo[i].situation, increments)
			if err != nil {
				return fmt.Errorf("window %s: %w", todo[i].id, err)
			}
			raw[i] = detectors
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if c.database != nil {
		for _, i := range misses {
			if err := c.database.AddSituation(todo[i].situation, raw[i]); err != nil {
				return nil, fmt.Errorf("window %s: %w", todo[i].id, err)
			}
		}
	}

	out := make(map[ktemplate.WindowID]kdetector.Set, len(todo))
	for i, w := range todo {
		out[w.id] = shiftToCenter(raw[i], w.situation.Radius(), increments)
	}
	return out, nil
}
