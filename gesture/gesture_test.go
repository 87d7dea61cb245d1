package gesture

import (
	"errors"
	"reflect"
	"testing"

	"music-loom/player"
)

func newPlayer(t *testing.T, name string) *player.Player {
	t.Helper()
	v, err := Variant(name, 1)
	if err != nil {
		t.Fatalf("expected variant %q, got error %v", name, err)
	}
	p, err := player.New(v)
	if err != nil {
		t.Fatalf("expected player, got error %v", err)
	}
	return p
}

func TestPhraseUsesDefaultsWithoutGenerators(t *testing.T) {
	p := newPlayer(t, "melody")

	events, err := Phrase{}.Generate(2.5, p)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(events) != defaultLength {
		t.Fatalf("expected %d events, got %d", defaultLength, len(events))
	}
	for i, e := range events {
		if e.At != player.Timestamp(3+i) {
			t.Fatalf("event %d: expected at %d, got %v", i, 3+i, e.At)
		}
		if !reflect.DeepEqual(player.Flatten(e.Output), []any{60, 90, 1.0}) {
			t.Fatalf("event %d: expected [60 90 1], got %v", i, player.Flatten(e.Output))
		}
	}
}

func TestPhraseFollowsGenerators(t *testing.T) {
	p := newPlayer(t, "melody")
	for key, v := range map[string]float64{
		"length.base": 3, "length.step": 0,
		"rhythm.base": 0.5, "rhythm.step": 0,
		"pitch.base": 72, "pitch.step": 0,
	} {
		if err := p.SetGeneratorParameter(key, v); err != nil {
			t.Fatalf("%s: expected no error, got %v", key, err)
		}
	}

	events, err := Phrase{}.Generate(0, p)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].At != 1 || events[1].At != 1.5 || events[2].At != 2 {
		t.Fatalf("expected events at 1, 1.5, 2, got %v %v %v", events[0].At, events[1].At, events[2].At)
	}
	if got := player.Flatten(events[0].Output)[0]; got != 72 {
		t.Fatalf("expected pitch 72, got %v", got)
	}
}

func TestDroneHoldsChordForBars(t *testing.T) {
	p := newPlayer(t, "drone")
	events, err := Drone{Bars: 4}.Generate(1.2, p)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(events) != 2 || events[0].At != 2 || events[1].At != 5 {
		t.Fatalf("expected chord at 2 and rest at 5, got %v", events)
	}
	if !reflect.DeepEqual(player.Flatten(events[0].Output), []any{60, 90, 3.75, 67, 90, 3.75}) {
		t.Fatalf("expected fifth chord, got %v", player.Flatten(events[0].Output))
	}
	if len(player.Flatten(events[1].Output)) != 0 {
		t.Fatalf("expected silent rest, got %v", events[1].Output)
	}
}

func TestGesturesStartAfterWholeBeat(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			v, err := Variant(name, 1)
			if err != nil {
				t.Fatalf("expected variant, got error %v", err)
			}
			p := newPlayer(t, name)
			events, err := v.Gesture.Generate(4, p)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if events[0].At != 5 {
				t.Fatalf("expected first event at 5, got %v", events[0].At)
			}
		})
	}
}

// A driver that checks in again at the exact time of each emitted event must
// never see the same beat twice.
func TestCheckInOnEventTimesNeverRepeats(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			p := newPlayer(t, name)
			now := player.Timestamp(0)
			for i := 0; i < 32; i++ {
				e, err := p.CheckInEvent(now)
				if err != nil {
					t.Fatalf("check-in %d: expected no error, got %v", i, err)
				}
				if e.At <= now {
					t.Fatalf("check-in %d at %v: expected event after now, got %v", i, now, e.At)
				}
				now = e.At
			}
			if p.Stats().Late != 0 {
				t.Fatalf("expected no late events, got %d", p.Stats().Late)
			}
		})
	}
}

func TestPulseVariantHasNoPitchSlot(t *testing.T) {
	p := newPlayer(t, "pulse")
	if err := p.SetGeneratorParameter("pitch.base", 64); !errors.Is(err, player.ErrUnsupportedCapability) {
		t.Fatalf("expected ErrUnsupportedCapability, got %v", err)
	}
	out, err := p.CheckIn(0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out[0] != 36 {
		t.Fatalf("expected pulse note 36, got %v", out[0])
	}
}

func TestVariantUnknown(t *testing.T) {
	if _, err := Variant("theremin", 1); !errors.Is(err, ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
	if got := Names(); !reflect.DeepEqual(got, []string{"drone", "melody", "pulse"}) {
		t.Fatalf("expected sorted names, got %v", got)
	}
}
