package player

import (
	"fmt"
	"sort"
)

// SetGeneratorParameter routes key to the generator for its base key,
// creating that generator on first use.
func (p *Player) SetGeneratorParameter(key string, value float64) error {
	base := p.variant.Classify(key)

	g := p.Generator(base)
	if g == nil {
		if !p.Supports(base) {
			return fmt.Errorf("player %q: %w: %q (key %q)", p.name, ErrUnsupportedCapability, base, key)
		}
		g = p.variant.NewGenerator(base)
		p.slots[base] = g
	}

	return g.SetParameter(key, value)
}

// Generator returns the generator registered for base, or nil if there is
// none yet or the variant has no such slot.
func (p *Player) Generator(base BaseKey) Generator {
	return p.slots[base]
}

// Supports reports whether the variant declares a generator slot for base
func (p *Player) Supports(base BaseKey) bool {
	_, ok := p.slots[base]
	return ok
}

// Capabilities lists the supported base keys in sorted order
func (p *Player) Capabilities() []BaseKey {
	keys := make([]BaseKey, 0, len(p.slots))
	for k := range p.slots {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
