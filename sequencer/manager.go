package sequencer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"music-loom/debug"
	"music-loom/player"
)

var ErrNoTrack = errors.New("no such track")

// Sink receives each player's output as it falls due
type Sink interface {
	Send(channel uint8, frame []any, beat time.Duration) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(channel uint8, frame []any, beat time.Duration) error

func (f SinkFunc) Send(channel uint8, frame []any, beat time.Duration) error {
	return f(channel, frame, beat)
}

// Track is one player slot: the player, where its output goes, and the
// event it has handed out that is not yet due.
type Track struct {
	Player  *player.Player
	Channel uint8 // MIDI output channel (1-16)
	Muted   bool

	pending *player.Event
	last    []any
	lastErr error
}

// TrackStatus is a read-only snapshot of a track for the UI
type TrackStatus struct {
	Name    string
	Variant string
	Channel uint8
	Muted   bool
	Pending int              // events left in the player's queue
	Next    player.Timestamp // time of the held event, -1 if none
	Stats   player.Stats
	Last    []any
	Err     error
}

// Max emits per track per step, so a burst of due events cannot spin forever
const maxEmitsPerStep = 64

// Manager drives players from a clock: it checks each player in when its
// previous output has been sent and sends the new output once it falls due.
// All player calls go through the manager's mutex.
type Manager struct {
	tracks  []*Track
	clock   *Clock
	sink    Sink
	playing bool
	mu      sync.Mutex

	stepRate time.Duration

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// NewManager creates a stopped manager at bpm sending to sink
func NewManager(bpm int, sink Sink) *Manager {
	return &Manager{
		clock:      NewClock(bpm, time.Now()),
		sink:       sink,
		stepRate:   5 * time.Millisecond,
		UpdateChan: make(chan struct{}, 1),
	}
}

// AddTrack appends a player and returns its track index
func (m *Manager) AddTrack(p *player.Player, channel uint8) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracks = append(m.tracks, &Track{Player: p, Channel: channel})
	return len(m.tracks) - 1
}

// NumTracks returns how many tracks there are
func (m *Manager) NumTracks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tracks)
}

func (m *Manager) track(idx int) (*Track, error) {
	if idx < 0 || idx >= len(m.tracks) {
		return nil, fmt.Errorf("track %d: %w", idx, ErrNoTrack)
	}
	return m.tracks[idx], nil
}

// SetParameter configures a generator parameter on a track's player
func (m *Manager) SetParameter(idx int, key string, value float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.track(idx)
	if err != nil {
		return err
	}
	return t.Player.SetGeneratorParameter(key, value)
}

// ToggleMute mutes or unmutes a track. Muted players keep advancing.
func (m *Manager) ToggleMute(idx int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, err := m.track(idx); err == nil {
		t.Muted = !t.Muted
	}
}

// Play starts playback from beat 0 with fresh queues
func (m *Manager) Play() {
	m.PlayAt(time.Now())
}

// PlayAt is Play with an explicit start time
func (m *Manager) PlayAt(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playing {
		return
	}
	m.playing = true
	m.clock.Reset(t)
	m.clearLocked()
	debug.Log("transport", "play tempo=%d tracks=%d", m.clock.Tempo(), len(m.tracks))
}

// Stop stops playback and clears every player's queue
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.playing {
		return
	}
	m.playing = false
	m.clearLocked()
	debug.Log("transport", "stop")
}

// ClearQueues discards pending events on every track without stopping
func (m *Manager) ClearQueues() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
}

func (m *Manager) clearLocked() {
	for _, t := range m.tracks {
		t.Player.ClearEvents()
		t.pending = nil
	}
}

// SetTempo sets the BPM
func (m *Manager) SetTempo(bpm int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock.SetTempo(bpm, time.Now())
}

// GetState returns the current beat, play state and tempo
func (m *Manager) GetState() (beat player.Timestamp, playing bool, tempo int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playing {
		beat = m.clock.Now(time.Now())
	}
	return beat, m.playing, m.clock.Tempo()
}

// Status returns a snapshot of every track
func (m *Manager) Status() []TrackStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]TrackStatus, len(m.tracks))
	for i, t := range m.tracks {
		next := player.Timestamp(-1)
		if t.pending != nil {
			next = t.pending.At
		}
		out[i] = TrackStatus{
			Name:    t.Player.Name(),
			Variant: t.Player.VariantName(),
			Channel: t.Channel,
			Muted:   t.Muted,
			Pending: t.Player.Pending(),
			Next:    next,
			Stats:   t.Player.Stats(),
			Last:    t.last,
			Err:     t.lastErr,
		}
	}
	return out
}

// Step advances every track to wall time t
func (m *Manager) Step(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.playing {
		return
	}

	now := m.clock.Now(t)
	for i, tr := range m.tracks {
		m.stepTrack(i, tr, now)
	}
}

// stepTrack emits whatever is due on tr, checking in for the next event each
// time one is sent. Caller holds mu.
func (m *Manager) stepTrack(idx int, tr *Track, now player.Timestamp) {
	for n := 0; n < maxEmitsPerStep; n++ {
		if tr.pending == nil {
			e, err := tr.Player.CheckInEvent(now)
			if err != nil {
				// retried next step
				tr.lastErr = err
				debug.LogEvery(50, "player", "track=%d check-in failed: %v", idx, err)
				return
			}
			tr.pending = &e
		}

		if tr.pending.At > now {
			return
		}

		frame := player.Flatten(tr.pending.Output)
		at := tr.pending.At
		tr.pending = nil
		if len(frame) == 0 {
			// rest
			continue
		}
		tr.last = frame

		if tr.Muted || m.sink == nil {
			tr.lastErr = nil
			continue
		}
		if err := m.sink.Send(tr.Channel, frame, m.clock.Beat()); err != nil {
			tr.lastErr = err
			debug.Log("dispatch", "track=%d ch=%d at=%v send failed: %v", idx, tr.Channel, at, err)
			continue
		}
		tr.lastErr = nil
		debug.Log("dispatch", "track=%d ch=%d at=%v now=%v frame=%v", idx, tr.Channel, at, now, frame)
	}
}

// Run steps the manager until ctx is done (blocking - run in goroutine)
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.stepRate)
	uiTicker := time.NewTicker(time.Second / 30) // 30 FPS
	defer ticker.Stop()
	defer uiTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			m.Step(t)
		case <-uiTicker.C:
			m.notifyUpdate()
		}
	}
}

// notifyUpdate wakes the TUI without blocking
func (m *Manager) notifyUpdate() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}
