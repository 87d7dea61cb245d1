package generator

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"music-loom/player"
)

var ErrUnknownParameter = errors.New("unknown generator parameter")

// Walk is a bounded random walk. Each Next moves the current value by at
// most Step, reflects off Min/Max, and snaps to Quantum when it is set.
type Walk struct {
	Base    float64
	Min     float64
	Max     float64
	Step    float64
	Quantum float64

	value   float64
	started bool
	rng     *rand.Rand
}

// Per-base defaults (pitch in MIDI notes, rhythm in beats)
var defaults = map[player.BaseKey]Walk{
	"pitch":    {Base: 60, Min: 36, Max: 96, Step: 4, Quantum: 1},
	"velocity": {Base: 90, Min: 1, Max: 127, Step: 12, Quantum: 1},
	"rhythm":   {Base: 1, Min: 0.25, Max: 4, Step: 0.5, Quantum: 0.25},
	"length":   {Base: 4, Min: 1, Max: 16, Step: 2, Quantum: 1},
}

// NewSeeded returns a generator for base with its default range and a fixed seed
func NewSeeded(base player.BaseKey, seed uint64) player.Generator {
	w, ok := defaults[base]
	if !ok {
		w = Walk{Base: 0, Min: 0, Max: 1, Step: 0.1}
	}
	w.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return &w
}

// Factory returns a generator constructor whose seeds are derived from seed,
// so a whole player is reproducible.
func Factory(seed uint64) func(player.BaseKey) player.Generator {
	return func(base player.BaseKey) player.Generator {
		seed++
		return NewSeeded(base, seed)
	}
}

// SetParameter sets one field by key suffix, e.g. "pitch.min"
func (w *Walk) SetParameter(key string, value float64) error {
	i := strings.IndexByte(key, '.')
	if i < 0 {
		// bare base key sets the centre
		w.setBase(value)
		return nil
	}

	switch key[i+1:] {
	case "base":
		w.setBase(value)
	case "min":
		w.Min = value
	case "max":
		w.Max = value
	case "step":
		w.Step = math.Abs(value)
	case "quantum":
		w.Quantum = math.Abs(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParameter, key)
	}
	return nil
}

func (w *Walk) setBase(v float64) {
	w.Base = v
	w.started = false
}

// Next returns the walk's next value
func (w *Walk) Next() float64 {
	lo, hi := w.Min, w.Max
	if lo > hi {
		lo, hi = hi, lo
	}

	if w.rng == nil {
		w.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	if !w.started {
		w.value = w.Base
		w.started = true
	} else if w.Step > 0 {
		w.value += (w.rng.Float64()*2 - 1) * w.Step
	}

	// reflect back into range
	if w.value > hi {
		w.value = math.Max(lo, 2*hi-w.value)
	}
	if w.value < lo {
		w.value = math.Min(hi, 2*lo-w.value)
	}

	if w.Quantum > 0 {
		return math.Min(hi, math.Max(lo, math.Round(w.value/w.Quantum)*w.Quantum))
	}
	return w.value
}
