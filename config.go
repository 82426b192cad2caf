package qrng

import (
	"context"
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

/*
Config gathers one generator invocation's parameters in named fields: the
backend selection, the execution size, the target range, and the
backend-specific noise and mitigation settings. Explicit structure keeps the
contract between runner and backend precise; nothing travels as loose
keyword options.
*/
type Config struct {
	// Backend selects "simulator" or "device".
	Backend string `koanf:"backend"`
	Shots   int    `koanf:"shots"`
	Low     int64  `koanf:"low"`
	High    int64  `koanf:"high"`
	// RangePolicy is "reject" (default) or "fold".
	RangePolicy string `koanf:"range_policy"`
	// TimeoutSeconds bounds one remote job; zero means no deadline.
	TimeoutSeconds int `koanf:"timeout_seconds"`
	// Quota is the account's concurrent-job limit on the device path.
	Quota int `koanf:"quota"`

	Noise      NoiseConfig      `koanf:"noise"`
	Mitigation MitigationConfig `koanf:"mitigation"`
}

// NewConfig returns the defaults: a noiseless simulator drawing one byte.
func NewConfig() *Config {
	return &Config{
		Backend:     "simulator",
		Shots:       1024,
		Low:         0,
		High:        255,
		RangePolicy: "reject",
		Mitigation: MitigationConfig{
			DDSequence: "XY4",
		},
	}
}

/*
LoadConfig parses a yaml or json document over the defaults. Format is
"yaml" or "json".
*/
func LoadConfig(data []byte, format string) (*Config, error) {
	var parser koanf.Parser
	switch format {
	case "yaml", "yml":
		parser = yaml.Parser()
	case "json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := NewConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Policy resolves the configured range policy name.
func (c *Config) Policy() (RangePolicy, error) {
	switch c.RangePolicy {
	case "", "reject":
		return RejectionSampling, nil
	case "fold":
		return ModuloFolding, nil
	default:
		return RejectionSampling, fmt.Errorf("unknown range policy %q", c.RangePolicy)
	}
}

// Timeout returns the configured job deadline as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

/*
Build assembles the configured execution stack: the selected backend under
its noise or mitigation settings, wrapped in a runner with the configured
range policy. The transport is only consulted on the device path and may be
nil for the simulator.
*/
func (c *Config) Build(transport Transport) (*Runner, error) {
	policy, err := c.Policy()
	if err != nil {
		return nil, err
	}

	var backend Backend
	switch c.Backend {
	case "", "simulator":
		backend = NewSimulator(c.Noise)
	case "device":
		if transport == nil {
			return nil, fmt.Errorf("backend %q needs a transport", c.Backend)
		}
		backend = NewDevice(transport, c.Mitigation,
			WithJobTimeout(c.Timeout()),
			WithJobQuota(c.Quota))
	default:
		return nil, fmt.Errorf("unknown backend %q", c.Backend)
	}

	return NewRunner(backend, WithRangePolicy(policy)), nil
}

// Run executes one configured generation end to end: the minimal circuit
// covering [Low, High] for the configured shot count on the configured
// backend.
func (c *Config) Run(ctx context.Context, transport Transport) (*Result, error) {
	runner, err := c.Build(transport)
	if err != nil {
		return nil, err
	}
	circuit, err := CircuitForRange(c.Low, c.High)
	if err != nil {
		return nil, err
	}
	return runner.Run(ctx, circuit, c.Shots, c.Low, c.High)
}
