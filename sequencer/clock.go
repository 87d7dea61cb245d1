package sequencer

import (
	"time"

	"music-loom/player"
)

// Tempo limits in BPM
const (
	MinTempo = 20
	MaxTempo = 300
)

// Clock maps wall time to beats. Tempo changes keep the beat position continuous.
type Clock struct {
	tempo  int
	t0     time.Time
	offset player.Timestamp // beats already elapsed at t0
}

// NewClock creates a clock at bpm starting at beat 0 at t0
func NewClock(bpm int, t0 time.Time) *Clock {
	return &Clock{tempo: clampTempo(bpm), t0: t0}
}

func clampTempo(bpm int) int {
	if bpm < MinTempo {
		return MinTempo
	}
	if bpm > MaxTempo {
		return MaxTempo
	}
	return bpm
}

// Tempo returns the current BPM
func (c *Clock) Tempo() int {
	return c.tempo
}

// Beat returns the length of one beat
func (c *Clock) Beat() time.Duration {
	return time.Minute / time.Duration(c.tempo)
}

// Reset restarts the clock at beat 0
func (c *Clock) Reset(t0 time.Time) {
	c.t0 = t0
	c.offset = 0
}

// SetTempo changes BPM from t onwards
func (c *Clock) SetTempo(bpm int, t time.Time) {
	c.offset = c.Now(t)
	c.t0 = t
	c.tempo = clampTempo(bpm)
}

// Now returns the beat position at t
func (c *Clock) Now(t time.Time) player.Timestamp {
	elapsed := t.Sub(c.t0)
	return c.offset + player.Timestamp(elapsed.Seconds()*float64(c.tempo)/60)
}

// TimeOf returns the wall time at which beat at falls
func (c *Clock) TimeOf(at player.Timestamp) time.Time {
	beats := float64(at - c.offset)
	return c.t0.Add(time.Duration(beats * float64(c.Beat())))
}
