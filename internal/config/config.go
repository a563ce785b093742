package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the peer/relay configuration.
type Config struct {
	Room  string      `yaml:"room"`
	Bus   BusConfig   `yaml:"bus"`
	Relay RelayConfig `yaml:"relay"`
	Redis RedisConfig `yaml:"redis"`
	Game  GameConfig  `yaml:"game"`
}

// BusConfig selects and addresses the broadcast transport.
type BusConfig struct {
	// Kind is "websocket" or "redis".
	Kind string `yaml:"kind"`
	// URL of the relay websocket endpoint, e.g. ws://localhost:1890/ws.
	URL string `yaml:"url"`
}

// RelayConfig is the listen address for the relay server binary.
type RelayConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// RedisConfig addresses the redis pub/sub backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig carries every protocol timing knob, in milliseconds. The
// defaults are the protocol's canonical values; changing them on one
// peer only skews that peer.
type GameConfig struct {
	ElectionTimeoutMin int `yaml:"election_timeout_min"` // lower bound of the self-promotion window
	ElectionTimeoutMax int `yaml:"election_timeout_max"` // upper bound, exclusive
	JoinRetry          int `yaml:"join_retry"`           // resend interval after a hold
	ReadyPoll          int `yaml:"ready_poll"`           // lobby poll interval
	DrawInterval       int `yaml:"draw_interval"`        // period of the host's draw loop
	VerdictDelayValid  int `yaml:"verdict_delay_valid"`  // lower bound of the valid-claim delay
	VerdictDelayMax    int `yaml:"verdict_delay_max"`    // upper bound for a valid claim, exclusive
	VerdictDelayBad    int `yaml:"verdict_delay_bad"`    // lower bound of the invalid-claim delay
	VerdictDelayBadMax int `yaml:"verdict_delay_bad_max"`
}

func millis(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }

// ElectionWindow returns the [min, max) bounds of the randomized
// election timeout.
func (c *GameConfig) ElectionWindow() (time.Duration, time.Duration) {
	return millis(c.ElectionTimeoutMin), millis(c.ElectionTimeoutMax)
}

// JoinRetryDuration returns the join-retry period.
func (c *GameConfig) JoinRetryDuration() time.Duration { return millis(c.JoinRetry) }

// ReadyPollDuration returns the lobby poll period.
func (c *GameConfig) ReadyPollDuration() time.Duration { return millis(c.ReadyPoll) }

// DrawIntervalDuration returns the draw loop period.
func (c *GameConfig) DrawIntervalDuration() time.Duration { return millis(c.DrawInterval) }

// VerdictWindow returns the [min, max) bounds of the claim-verdict
// delay for the given outcome.
func (c *GameConfig) VerdictWindow(valid bool) (time.Duration, time.Duration) {
	if valid {
		return millis(c.VerdictDelayValid), millis(c.VerdictDelayMax)
	}
	return millis(c.VerdictDelayBad), millis(c.VerdictDelayBadMax)
}

// Load reads a yaml config file and backfills defaults for any field
// left at its zero value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the canonical configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Room == "" {
		cfg.Room = "tambola"
	}
	if cfg.Bus.Kind == "" {
		cfg.Bus.Kind = "websocket"
	}
	if cfg.Bus.URL == "" {
		cfg.Bus.URL = "ws://localhost:1890/ws"
	}
	if cfg.Relay.Host == "" {
		cfg.Relay.Host = "0.0.0.0"
	}
	if cfg.Relay.Port == 0 {
		cfg.Relay.Port = 1890
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	g := &cfg.Game
	if g.ElectionTimeoutMin == 0 {
		g.ElectionTimeoutMin = 5000
	}
	if g.ElectionTimeoutMax == 0 {
		g.ElectionTimeoutMax = 8000
	}
	if g.JoinRetry == 0 {
		g.JoinRetry = 5000
	}
	if g.ReadyPoll == 0 {
		g.ReadyPoll = 1000
	}
	if g.DrawInterval == 0 {
		g.DrawInterval = 5000
	}
	if g.VerdictDelayValid == 0 {
		g.VerdictDelayValid = 4000
	}
	if g.VerdictDelayMax == 0 {
		g.VerdictDelayMax = 8000
	}
	if g.VerdictDelayBad == 0 {
		g.VerdictDelayBad = 3000
	}
	if g.VerdictDelayBadMax == 0 {
		g.VerdictDelayBadMax = 6000
	}
}
