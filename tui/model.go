package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"music-loom/sequencer"
	"music-loom/theme"
)

type keyMap struct {
	Play   key.Binding
	Faster key.Binding
	Slower key.Binding
	Clear  key.Binding
	Mute   key.Binding
	Up     key.Binding
	Down   key.Binding
	Quit   key.Binding
}

func (k keyMap) all() []key.Binding {
	return []key.Binding{k.Play, k.Faster, k.Slower, k.Clear, k.Mute, k.Up, k.Down, k.Quit}
}

var keys = keyMap{
	Play:   key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "play/stop")),
	Faster: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "tempo up")),
	Slower: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "tempo down")),
	Clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear queues")),
	Mute:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
	Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
	Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type Model struct {
	Manager  *sequencer.Manager
	Theme    *theme.Theme
	Port     string
	selected int
	quitting bool
}

type UpdateMsg struct{}

func NewModel(manager *sequencer.Manager, th *theme.Theme, port string) Model {
	return Model{
		Manager: manager,
		Theme:   th,
		Port:    port,
	}
}

func ListenForUpdates(manager *sequencer.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.Manager)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			m.Manager.Stop()
			return m, tea.Quit

		case key.Matches(msg, keys.Play):
			_, playing, _ := m.Manager.GetState()
			if playing {
				m.Manager.Stop()
			} else {
				m.Manager.Play()
			}

		case key.Matches(msg, keys.Faster):
			_, _, tempo := m.Manager.GetState()
			m.Manager.SetTempo(tempo + 5)

		case key.Matches(msg, keys.Slower):
			_, _, tempo := m.Manager.GetState()
			m.Manager.SetTempo(tempo - 5)

		case key.Matches(msg, keys.Clear):
			m.Manager.ClearQueues()

		case key.Matches(msg, keys.Mute):
			m.Manager.ToggleMute(m.selected)

		case key.Matches(msg, keys.Up):
			if m.selected > 0 {
				m.selected--
			}

		case key.Matches(msg, keys.Down):
			if m.selected < m.Manager.NumTracks()-1 {
				m.selected++
			}
		}

	case UpdateMsg:
		return m, ListenForUpdates(m.Manager)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	beat, playing, tempo := m.Manager.GetState()

	// Styles
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	rowStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	selectedStyle := lipgloss.NewStyle().Foreground(m.Theme.Success()).Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	playState := "STOP"
	if playing {
		playState = "PLAY"
	}
	port := m.Port
	if port == "" {
		port = "no output"
	}
	header := headerStyle.Render(fmt.Sprintf("music-loom  %s  %3dbpm  beat:%7.2f  %s", playState, tempo, float64(beat), port))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(dimStyle.Render(fmt.Sprintf("  %-10s %-8s %3s %5s %7s %6s %5s  %s", "player", "variant", "ch", "queue", "next", "gest", "late", "last")))
	out.WriteString("\n")

	for i, st := range m.Manager.Status() {
		next := "-"
		if st.Next >= 0 {
			next = fmt.Sprintf("%.2f", float64(st.Next))
		}
		name := st.Name
		if st.Muted {
			name += " (m)"
		}
		line := fmt.Sprintf("%-10s %-8s %3d %5d %7s %6d %5d  %v", name, st.Variant, st.Channel, st.Pending, next, st.Stats.Refills, st.Stats.Late, st.Last)

		style := rowStyle
		cursor := "  "
		if i == m.selected {
			style = selectedStyle
			cursor = "> "
		}
		out.WriteString(cursor + style.Render(line))
		if st.Err != nil {
			out.WriteString("  " + errStyle.Render(st.Err.Error()))
		}
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render(helpLine(keys.all())))
	return out.String()
}

func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+":"+h.Desc)
	}
	return strings.Join(parts, "  ")
}
