package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envOverrides are the settings that can come from the environment.
// Pointers distinguish "unset" from zero values.
type envOverrides struct {
	Tempo    *int    `env:"LOOM_TEMPO"`
	PortName *string `env:"LOOM_PORT"`
	Debug    *bool   `env:"LOOM_DEBUG"`
	OTelLogs *bool   `env:"LOOM_OTEL_LOGS"`
}

// ApplyEnv overrides c with any LOOM_* environment variables
func (c *Config) ApplyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.Tempo != nil {
		c.Tempo = *o.Tempo
	}
	if o.PortName != nil {
		c.Output.PortName = *o.PortName
	}
	if o.Debug != nil {
		c.Debug = *o.Debug
	}
	if o.OTelLogs != nil {
		c.OTelLogs = *o.OTelLogs
	}
	return nil
}
