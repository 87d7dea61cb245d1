// loomrun drives the configured players against a simulated clock and
// prints every frame they emit. No MIDI, no terminal UI.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"music-loom/config"
	"music-loom/debug"
	"music-loom/sequencer"
)

func main() {
	beats := flag.Int("beats", 16, "number of beats to run")
	resolution := flag.Int("steps", 4, "clock steps per beat")
	configPath := flag.String("config", "", "config file (default: ~/.config/music-loom/config.json)")
	verbose := flag.Bool("v", false, "write the debug log")
	flag.Parse()

	if err := run(*configPath, *beats, *resolution, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, beats, resolution int, verbose bool) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if verbose {
		if err := debug.Enable(); err != nil {
			return err
		}
		defer debug.Disable()
	}

	names := make(map[uint8]string)
	for _, p := range cfg.Players {
		names[p.Channel] = p.Name
	}

	var now time.Time
	sink := sequencer.SinkFunc(func(channel uint8, frame []any, beat time.Duration) error {
		fmt.Printf("%8.3fs  ch%-2d %-10s %v\n", now.Sub(time.Time{}).Seconds(), channel, names[channel], frame)
		return nil
	})

	m, err := sequencer.NewFromConfig(cfg, sink)
	if err != nil {
		return err
	}

	if resolution < 1 {
		resolution = 1
	}
	beat := time.Minute / time.Duration(cfg.Tempo)
	m.PlayAt(now)
	for i := 0; i <= beats*resolution; i++ {
		now = time.Time{}.Add(time.Duration(i) * beat / time.Duration(resolution))
		m.Step(now)
	}
	m.Stop()

	for _, st := range m.Status() {
		fmt.Printf("%-10s emitted=%d gestures=%d late=%d\n", st.Name, st.Stats.Emitted, st.Stats.Refills, st.Stats.Late)
	}
	return nil
}
