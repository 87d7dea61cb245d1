package player

import (
	"fmt"
	"strings"
)

// BaseKey classifies parameter keys; one Generator governs each BaseKey
type BaseKey string

// Gesture composes a batch of future events for a player.
// Implementations may read the player (its generators) but must not touch its queue.
type Gesture interface {
	Generate(now Timestamp, p *Player) ([]Event, error)
}

// GestureFunc adapts a function to the Gesture interface
type GestureFunc func(now Timestamp, p *Player) ([]Event, error)

func (f GestureFunc) Generate(now Timestamp, p *Player) ([]Event, error) {
	return f(now, p)
}

// Generator produces values for one classified family of parameters
type Generator interface {
	SetParameter(key string, value float64) error
	Next() float64
}

// Variant describes a kind of player: which generator slots it has and how it
// composes gestures. A single Player implementation is configured by it.
type Variant struct {
	Name         string
	Supports     []BaseKey
	Gesture      Gesture
	NewGenerator func(base BaseKey) Generator
	Classify     func(key string) BaseKey // defaults to BaseKeyOf
}

// BaseKeyOf returns the part of key before the first dot.
func BaseKeyOf(key string) BaseKey {
	if i := strings.IndexByte(key, '.'); i >= 0 {
		return BaseKey(key[:i])
	}
	return BaseKey(key)
}

func (v Variant) validate() error {
	if v.Gesture == nil {
		return fmt.Errorf("variant %q: %w", v.Name, ErrNoGesture)
	}
	if len(v.Supports) > 0 && v.NewGenerator == nil {
		return fmt.Errorf("variant %q: %w", v.Name, ErrNoGeneratorFactory)
	}
	return nil
}
