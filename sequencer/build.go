package sequencer

import (
	"fmt"
	"sort"
	"time"

	"music-loom/config"
	"music-loom/gesture"
	"music-loom/player"
)

// NewFromConfig builds a manager with one track per configured player.
// Generator parameters are applied in key order so seeded runs repeat.
func NewFromConfig(cfg *config.Config, sink Sink, opts ...player.Option) (*Manager, error) {
	m := NewManager(cfg.Tempo, sink)

	for i, pc := range cfg.Players {
		seed := pc.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano()) + uint64(i)
		}

		v, err := gesture.Variant(pc.Variant, seed)
		if err != nil {
			return nil, fmt.Errorf("player %q: %w", pc.Name, err)
		}
		p, err := player.New(v, append([]player.Option{player.WithName(pc.Name)}, opts...)...)
		if err != nil {
			return nil, fmt.Errorf("player %q: %w", pc.Name, err)
		}

		keys := make([]string, 0, len(pc.Parameters))
		for k := range pc.Parameters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := p.SetGeneratorParameter(k, pc.Parameters[k]); err != nil {
				return nil, err
			}
		}

		idx := m.AddTrack(p, pc.Channel)
		if pc.Muted {
			m.ToggleMute(idx)
		}
	}
	return m, nil
}
