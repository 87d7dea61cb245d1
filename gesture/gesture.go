package gesture

import (
	"math"

	"music-loom/player"
)

// Fallbacks used when a player has no generator for a slot yet
const (
	defaultPitch    = 60
	defaultVelocity = 90
	defaultRhythm   = 1.0
	defaultLength   = 4
)

// value draws from the player's generator for base, or returns fallback
func value(p *player.Player, base player.BaseKey, fallback float64) float64 {
	if g := p.Generator(base); g != nil {
		return g.Next()
	}
	return fallback
}

func note(pitch, velocity, duration float64) []any {
	return []any{clampMIDI(pitch), clampMIDI(velocity), duration}
}

func clampMIDI(v float64) int {
	return int(math.Max(0, math.Min(127, math.Round(v))))
}

// Phrase composes a run of single notes starting on the first whole beat after now.
// The number of notes comes from "length", spacing from "rhythm".
type Phrase struct {
	// Legato scales each note's duration relative to its spacing (0 = 1.0)
	Legato float64
}

func (g Phrase) Generate(now player.Timestamp, p *player.Player) ([]player.Event, error) {
	legato := g.Legato
	if legato <= 0 {
		legato = 1
	}

	n := int(math.Max(1, math.Round(value(p, "length", defaultLength))))
	events := make([]player.Event, 0, n)
	at := now.NextBeat()
	for i := 0; i < n; i++ {
		spacing := math.Max(0.125, value(p, "rhythm", defaultRhythm))
		events = append(events, player.Event{
			At: at,
			Output: []any{
				note(value(p, "pitch", defaultPitch), value(p, "velocity", defaultVelocity), spacing*legato),
			},
		})
		at += player.Timestamp(spacing)
	}
	return events, nil
}

// Drone holds a fifth for Bars whole beats per gesture. A silent event on the
// last held beat keeps the next gesture from starting before the chord ends.
type Drone struct {
	Bars int
}

func (g Drone) Generate(now player.Timestamp, p *player.Player) ([]player.Event, error) {
	bars := g.Bars
	if bars <= 0 {
		bars = 8
	}
	at := now.NextBeat()
	root := value(p, "pitch", defaultPitch)
	hold := float64(bars) - 0.25
	return []player.Event{
		{
			At: at,
			Output: []any{
				note(root, value(p, "velocity", defaultVelocity), hold),
				note(root+7, value(p, "velocity", defaultVelocity), hold),
			},
		},
		{At: at + player.Timestamp(bars-1), Output: []any{}},
	}, nil
}

// Pulse repeats one fixed note, varying only rhythm and velocity
type Pulse struct {
	Note int
}

func (g Pulse) Generate(now player.Timestamp, p *player.Player) ([]player.Event, error) {
	n := int(math.Max(1, math.Round(value(p, "length", defaultLength))))
	events := make([]player.Event, 0, n)
	at := now.NextBeat()
	for i := 0; i < n; i++ {
		spacing := math.Max(0.125, value(p, "rhythm", defaultRhythm))
		events = append(events, player.Event{
			At:     at,
			Output: []any{note(float64(g.Note), value(p, "velocity", defaultVelocity), spacing/2)},
		})
		at += player.Timestamp(spacing)
	}
	return events, nil
}
