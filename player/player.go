package player

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"music-loom/debug"
)

// LatePolicy picks a new time for an event found scheduled before now
type LatePolicy func(at, now Timestamp) Timestamp

// CatchUp moves a late event one beat past the next whole beat after now.
func CatchUp(at, now Timestamp) Timestamp {
	return now.Ceil() + 1
}

// Stats counts what a player has done since it was created
type Stats struct {
	Refills int // gesture generations
	Emitted int // events handed out by CheckIn
	Late    int // events corrected by the late policy
}

// Player emits one scheduled output per check-in, composing a new gesture
// whenever its queue runs dry.
//
// A Player is not safe for concurrent use. Calls on one Player must be
// serialized by the caller; distinct Players share no state.
type Player struct {
	id      string
	name    string
	variant Variant

	queue []Event
	slots map[BaseKey]Generator // keys are the supported slots, nil = not created yet

	late   LatePolicy
	logger *slog.Logger
	stats  Stats
}

// Option configures a Player
type Option func(*Player)

// WithName sets the name used in log records (defaults to the variant name)
func WithName(name string) Option {
	return func(p *Player) {
		p.name = name
	}
}

// WithLatePolicy replaces CatchUp
func WithLatePolicy(policy LatePolicy) Option {
	return func(p *Player) {
		if policy != nil {
			p.late = policy
		}
	}
}

// WithLogger sets where late-event errors are reported
func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a player for the given variant with an empty queue
func New(v Variant, opts ...Option) (*Player, error) {
	if err := v.validate(); err != nil {
		return nil, err
	}
	if v.Classify == nil {
		v.Classify = BaseKeyOf
	}

	p := &Player{
		id:      uuid.NewString(),
		name:    v.Name,
		variant: v,
		slots:   make(map[BaseKey]Generator, len(v.Supports)),
		late:    CatchUp,
		logger:  debug.Logger(),
	}
	for _, base := range v.Supports {
		p.slots[base] = nil
	}
	for _, opt := range opts {
		opt(p)
	}

	p.ClearEvents()
	return p, nil
}

func (p *Player) Name() string        { return p.name }
func (p *Player) VariantName() string { return p.variant.Name }
func (p *Player) Stats() Stats        { return p.stats }

// Pending returns how many events are queued
func (p *Player) Pending() int {
	return len(p.queue)
}

// ClearEvents discards every queued event. The next check-in composes a fresh gesture.
func (p *Player) ClearEvents() {
	p.queue = nil
}

// CheckIn returns the flattened output of the next event, composing a new
// gesture first if the queue is empty.
func (p *Player) CheckIn(now Timestamp) ([]any, error) {
	e, err := p.CheckInEvent(now)
	if err != nil {
		return nil, err
	}
	return Flatten(e.Output), nil
}

// CheckInEvent is CheckIn without the flattening; drivers use the returned
// At to schedule the output.
func (p *Player) CheckInEvent(now Timestamp) (Event, error) {
	if len(p.queue) == 0 {
		events, err := p.variant.Gesture.Generate(now, p)
		if err != nil {
			return Event{}, err
		}
		p.stats.Refills++
		p.queue = slices.Clone(events)
	}

	if len(p.queue) == 0 {
		return Event{}, fmt.Errorf("player %q: %w", p.name, ErrNoEvents)
	}
	e := p.queue[0]
	p.queue = p.queue[1:]

	e = p.correct(e, now)
	p.stats.Emitted++
	return e, nil
}

// correct returns e, rescheduled by the late policy if it is already in the past
func (p *Player) correct(e Event, now Timestamp) Event {
	if e.At >= now {
		return e
	}

	at := p.late(e.At, now)
	p.logger.Error("timer fail: event scheduled in the past",
		"player", p.name,
		"id", p.id,
		"at", float64(e.At),
		"now", float64(now),
		"corrected", float64(at),
	)
	p.stats.Late++

	e.At = at
	return e
}
