package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"music-loom/config"
	"music-loom/debug"
	"music-loom/midi"
	"music-loom/sequencer"
	"music-loom/theme"
	"music-loom/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// first run: write the defaults out so there is a file to edit
	if path, err := config.ConfigPath(); err == nil {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := config.DefaultConfig().Save(); err != nil {
				fmt.Printf("Warning: could not save default config: %v\n", err)
			}
		}
	}

	if cfg.Debug {
		if err := debug.Enable(); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
		defer debug.Disable()
	} else if err := debug.EnableErrorLog(); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}
	if cfg.OTelLogs {
		debug.UseOTel("music-loom")
	}

	var sink sequencer.Sink
	if cfg.Output.PortName != "" {
		sink = midi.NewOutput(cfg.Output.PortName)
	} else {
		fmt.Println("No MIDI output configured (set LOOM_PORT). Available ports:")
		for _, name := range midi.Ports() {
			fmt.Printf("  %s\n", name)
		}
	}

	manager, err := sequencer.NewFromConfig(cfg, sink)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go manager.Run(ctx)

	m := tui.NewModel(manager, theme.New(), cfg.Output.PortName)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
