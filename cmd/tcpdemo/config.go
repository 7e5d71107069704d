package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// demoConfig is the on-disk configuration for a single loopback run: one
// Endpoint playing the active opener, one playing the passive side, talking
// over an in-process transmit loop instead of a socket.
type demoConfig struct {
	Capacity         int    `yaml:"capacity"`
	InitialRTOMillis uint64 `yaml:"initial_rto_ms"`
	MaxPayloadSize   int    `yaml:"max_payload_size"`
	PayloadText      string `yaml:"payload_text"`
	TickMillis       uint64 `yaml:"tick_ms"`
	MaxTicks         int    `yaml:"max_ticks"`
}

func defaultConfig() demoConfig {
	return demoConfig{
		Capacity:         64000,
		InitialRTOMillis: 1000,
		MaxPayloadSize:   1452,
		PayloadText:      "the quick brown fox jumps over the lazy dog",
		TickMillis:       50,
		MaxTicks:         2000,
	}
}

// loadConfig reads path as YAML, falling back to defaultConfig for any
// field left unset in the file. A missing path is not an error: the
// default configuration is used as-is, mirroring tinyrange/cc's
// site-config pattern of treating an absent config file as "use defaults".
func loadConfig(path string) (demoConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
