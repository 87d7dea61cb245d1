package gesture

import (
	"errors"
	"fmt"
	"sort"

	"music-loom/generator"
	"music-loom/player"
)

var ErrUnknownVariant = errors.New("unknown player variant")

type entry struct {
	supports []player.BaseKey
	gesture  player.Gesture
}

var catalog = map[string]entry{
	"melody": {
		supports: []player.BaseKey{"pitch", "velocity", "rhythm", "length"},
		gesture:  Phrase{Legato: 0.9},
	},
	"drone": {
		supports: []player.BaseKey{"pitch", "velocity"},
		gesture:  Drone{Bars: 8},
	},
	"pulse": {
		supports: []player.BaseKey{"velocity", "rhythm", "length"},
		gesture:  Pulse{Note: 36},
	},
}

// Variant returns the named built-in player variant, with generators seeded from seed
func Variant(name string, seed uint64) (player.Variant, error) {
	e, ok := catalog[name]
	if !ok {
		return player.Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return player.Variant{
		Name:         name,
		Supports:     e.supports,
		Gesture:      e.gesture,
		NewGenerator: generator.Factory(seed),
	}, nil
}

// Names lists the built-in variants
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
