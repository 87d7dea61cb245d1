package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"music-loom/config"
	"music-loom/sequencer"
	"music-loom/theme"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := sequencer.NewFromConfig(config.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("expected manager, got error %v", err)
	}
	return NewModel(m, theme.New(), "")
}

func press(m Model, s string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(Model)
}

func TestPlayKeyTogglesTransport(t *testing.T) {
	m := press(newTestModel(t), "p")
	if _, playing, _ := m.Manager.GetState(); !playing {
		t.Fatalf("expected playing after p")
	}
	m = press(m, "p")
	if _, playing, _ := m.Manager.GetState(); playing {
		t.Fatalf("expected stopped after second p")
	}
}

func TestTempoKeys(t *testing.T) {
	m := press(newTestModel(t), "+")
	if _, _, tempo := m.Manager.GetState(); tempo != 125 {
		t.Fatalf("expected 125bpm, got %d", tempo)
	}
	m = press(press(m, "-"), "-")
	if _, _, tempo := m.Manager.GetState(); tempo != 115 {
		t.Fatalf("expected 115bpm, got %d", tempo)
	}
}

func TestSelectionAndMute(t *testing.T) {
	m := press(press(press(press(newTestModel(t), "j"), "j"), "j"), "m")
	if m.selected != 2 {
		t.Fatalf("expected selection clamped to last track, got %d", m.selected)
	}
	if !m.Manager.Status()[2].Muted {
		t.Fatalf("expected last track muted")
	}
}

func TestViewListsPlayers(t *testing.T) {
	view := newTestModel(t).View()
	for _, want := range []string{"music-loom", "lead", "pad", "kick", "q:quit"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q, got:\n%s", want, view)
		}
	}
}

func TestQuitStops(t *testing.T) {
	m := press(newTestModel(t), "p")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil || next.(Model).View() != "" {
		t.Fatalf("expected quit command and empty view")
	}
	if _, playing, _ := m.Manager.GetState(); playing {
		t.Fatalf("expected transport stopped on quit")
	}
}
