package kgen

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kdetect/kcircuit"
	"github.com/birdayz/kdetect/kgeom"
	"github.com/birdayz/kdetect/kplaquette"
)

func plaquette(t *testing.T, name string, c *kcircuit.ScheduledCircuit, mergeable ...string) *kplaquette.Plaquette {
	t.Helper()
	p, err := kplaquette.New(name, kplaquette.SquareQubits(), c, mergeable...)
	assert.NoError(t, err)
	return p
}

func syndromeRound() *kcircuit.ScheduledCircuit {
	return &kcircuit.ScheduledCircuit{
		Qubits: kcircuit.QubitMap{0: {X: 0, Y: 0}, 1: {X: -1, Y: -1}},
		Moments: []kcircuit.Moment{
			{Instructions: []kcircuit.Instruction{{Name: "RZ", Targets: []int{0}}}},
			{Instructions: []kcircuit.Instruction{{Name: "CX", Targets: []int{1, 0}}}},
			{Instructions: []kcircuit.Instruction{{Name: "M", Targets: []int{0}}}},
		},
		Schedule: []int{0, 1, 6},
	}
}

func TestGenerateMergesMoments(t *testing.T) {
	p := plaquette(t, "zz", syndromeRound(), "RZ", "M")
	ps := kplaquette.MustNewPlaquettes(map[int]*kplaquette.Plaquette{1: p}, nil)

	c, err := Generate(kgeom.MustGridFromRows([][]int{{1, 1}}), ps, kgeom.Shift2D{X: 2, Y: 2})
	assert.NoError(t, err)
	assert.Equal(t, kcircuit.QubitMap{
		0: {X: -1, Y: -1},
		1: {X: 0, Y: 0},
		2: {X: 1, Y: -1},
		3: {X: 2, Y: 0},
	}, c.Qubits)
	assert.Equal(t, []int{0, 1, 6}, c.Schedule)
	assert.Equal(t, []kcircuit.Moment{
		{Instructions: []kcircuit.Instruction{{Name: "RZ", Targets: []int{1, 3}}}},
		{Instructions: []kcircuit.Instruction{{Name: "CX", Targets: []int{0, 1}}, {Name: "CX", Targets: []int{2, 3}}}},
		{Instructions: []kcircuit.Instruction{{Name: "M", Targets: []int{1, 3}}}},
	}, c.Moments)
	assert.NoError(t, c.Validate())
}

func TestGenerateSkipsEmptyCells(t *testing.T) {
	empty := plaquette(t, "empty", nil)
	ps := kplaquette.MustNewPlaquettes(nil, empty)

	c, err := Generate(kgeom.MustGridFromRows([][]int{{0, 3}, {4, 0}}), ps, kgeom.Shift2D{X: 2, Y: 2})
	assert.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, len(c.Qubits))
}

func TestGenerateConflict(t *testing.T) {
	single := func(name string, q kgeom.GridQubit) *kcircuit.ScheduledCircuit {
		return &kcircuit.ScheduledCircuit{
			Qubits:   kcircuit.QubitMap{0: q},
			Moments:  []kcircuit.Moment{{Instructions: []kcircuit.Instruction{{Name: name, Targets: []int{0}}}}},
			Schedule: []int{0},
		}
	}
	twoQubitH := &kcircuit.ScheduledCircuit{
		Qubits:   kcircuit.QubitMap{0: {X: -1, Y: -1}, 1: {X: 1, Y: -1}},
		Moments:  []kcircuit.Moment{{Instructions: []kcircuit.Instruction{{Name: "H", Targets: []int{0, 1}}}}},
		Schedule: []int{0},
	}
	resetRight := plaquette(t, "rz-right", single("RZ", kgeom.GridQubit{X: 1, Y: 1}), "RZ")
	resetLeft := plaquette(t, "rz-left", single("RZ", kgeom.GridQubit{X: -1, Y: 1}), "RZ")
	hadamardRight := plaquette(t, "h-right", single("H", kgeom.GridQubit{X: 1, Y: 1}))
	hadamardLeft := plaquette(t, "h-left", single("H", kgeom.GridQubit{X: -1, Y: 1}))
	measureLeft := plaquette(t, "m-left", single("M", kgeom.GridQubit{X: -1, Y: 1}), "M")

	tests := []struct {
		name       string
		plaquettes map[int]*kplaquette.Plaquette
	}{
		{
			name:       "non-mergeable instructions",
			plaquettes: map[int]*kplaquette.Plaquette{1: plaquette(t, "h", twoQubitH), 2: plaquette(t, "h", twoQubitH)},
		},
		{
			name:       "fused then non-mergeable",
			plaquettes: map[int]*kplaquette.Plaquette{1: resetRight, 2: hadamardLeft},
		},
		{
			name:       "non-mergeable then fused",
			plaquettes: map[int]*kplaquette.Plaquette{1: hadamardRight, 2: resetLeft},
		},
		{
			name:       "different fused instructions",
			plaquettes: map[int]*kplaquette.Plaquette{1: resetRight, 2: measureLeft},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := kplaquette.MustNewPlaquettes(tt.plaquettes, nil)
			_, err := Generate(kgeom.MustGridFromRows([][]int{{1, 2}}), ps, kgeom.Shift2D{X: 2, Y: 2})
			assert.True(t, errors.Is(err, ErrQubitConflict))
		})
	}
}

func TestGenerateFusesSharedQubit(t *testing.T) {
	reset := func(q kgeom.GridQubit) *kcircuit.ScheduledCircuit {
		return &kcircuit.ScheduledCircuit{
			Qubits:   kcircuit.QubitMap{0: q},
			Moments:  []kcircuit.Moment{{Instructions: []kcircuit.Instruction{{Name: "RX", Targets: []int{0}}}}},
			Schedule: []int{0},
		}
	}
	ps := kplaquette.MustNewPlaquettes(map[int]*kplaquette.Plaquette{
		1: plaquette(t, "rx-right", reset(kgeom.GridQubit{X: 1, Y: 1}), "RX"),
		2: plaquette(t, "rx-left", reset(kgeom.GridQubit{X: -1, Y: 1}), "RX"),
	}, nil)

	c, err := Generate(kgeom.MustGridFromRows([][]int{{1, 2}}), ps, kgeom.Shift2D{X: 2, Y: 2})
	assert.NoError(t, err)
	assert.Equal(t, kcircuit.QubitMap{0: {X: 1, Y: 1}}, c.Qubits)
	assert.Equal(t, []kcircuit.Moment{
		{Instructions: []kcircuit.Instruction{{Name: "RX", Targets: []int{0}}}},
	}, c.Moments)
}

func TestGenerateUnknownIndex(t *testing.T) {
	ps := kplaquette.MustNewPlaquettes(nil, nil)
	_, err := Generate(kgeom.MustGridFromRows([][]int{{5}}), ps, kgeom.Shift2D{X: 2, Y: 2})
	assert.True(t, errors.Is(err, kplaquette.ErrMissingPlaquette))
}
