// Package config loads settings for the bgagents binaries: defaults, then
// an optional TOML file, then BGAGENTS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/yourusername/bgagents/pkg/agent"
	"github.com/yourusername/bgagents/pkg/heuristic"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "BGAGENTS_"

type Config struct {
	Server   ServerConfig   `toml:"server" envPrefix:"SERVER_"`
	Log      LogConfig      `toml:"log" envPrefix:"LOG_"`
	Agents   AgentsConfig   `toml:"agents" envPrefix:"AGENTS_"`
	Match    MatchConfig    `toml:"match" envPrefix:"MATCH_"`
	External ExternalConfig `toml:"external" envPrefix:"EXTERNAL_"`
}

type ServerConfig struct {
	Addr            string        `toml:"addr" env:"ADDR"`
	FastWorkers     int           `toml:"fast_workers" env:"FAST_WORKERS"` // 0 means one per CPU
	SlowWorkers     int           `toml:"slow_workers" env:"SLOW_WORKERS"`
	MaxGames        int           `toml:"max_games" env:"MAX_GAMES"` // per match request
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

type LogConfig struct {
	Level   string `toml:"level" env:"LEVEL"`
	Console bool   `toml:"console" env:"CONSOLE"` // human readable instead of JSON
}

// AgentsConfig applies to every agent the binaries build.
type AgentsConfig struct {
	Depth     int    `toml:"depth" env:"DEPTH"`
	CacheSize uint32 `toml:"cache_size" env:"CACHE_SIZE"` // 0 disables the evaluation cache
	Seed      uint64 `toml:"seed" env:"SEED"`
}

// MatchConfig is the default series for the match subcommand.
type MatchConfig struct {
	X        string `toml:"x" env:"X"`
	O        string `toml:"o" env:"O"`
	Games    int    `toml:"games" env:"GAMES"`
	Workers  int    `toml:"workers" env:"WORKERS"`
	MaxTurns int    `toml:"max_turns" env:"MAX_TURNS"`
	Seed     uint64 `toml:"seed" env:"SEED"`
}

// ExternalConfig is the gnubg external player bridge.
type ExternalConfig struct {
	Addr   string `toml:"addr" env:"ADDR"`
	Agent  string `toml:"agent" env:"AGENT"`
	Prompt bool   `toml:"prompt" env:"PROMPT"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			SlowWorkers:     2,
			MaxGames:        1000,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
		Agents: AgentsConfig{
			Depth:     agent.DefaultDepth,
			CacheSize: heuristic.DefaultCacheSize,
		},
		Match: MatchConfig{
			X:        agent.KindExpectiminimax,
			O:        agent.KindCapture,
			Games:    100,
			MaxTurns: 1000,
			Seed:     1,
		},
		External: ExternalConfig{
			Addr:  ":1234",
			Agent: agent.KindExpectiminimax,
		},
	}
}

// Load returns the defaults overlaid with the TOML file at path, if path
// is not empty, and then with the environment.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, err
		}
		defer f.Close()
		if err := Decode(f, &c); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := ParseEnv(&c); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Decode overlays the TOML document in r onto c. Keys c has no field for
// are an error.
func Decode(r io.Reader, c *Config) error {
	md, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// ParseEnv overlays BGAGENTS_* variables onto c.
func ParseEnv(c *Config) error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Dump writes c as TOML.
func (c Config) Dump(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks values that no default can repair.
func (c Config) Validate() error {
	var errs []error
	if c.Agents.Depth < 0 {
		errs = append(errs, fmt.Errorf("agents.depth must not be negative, got %d", c.Agents.Depth))
	}
	for name, kind := range map[string]string{
		"match.x":        c.Match.X,
		"match.o":        c.Match.O,
		"external.agent": c.External.Agent,
	} {
		if !knownKind(kind) {
			errs = append(errs, fmt.Errorf("%s: %w: %q", name, agent.ErrUnknownAgent, kind))
		}
	}
	if c.Match.Games <= 0 {
		errs = append(errs, fmt.Errorf("match.games must be positive, got %d", c.Match.Games))
	}
	if c.Server.SlowWorkers <= 0 {
		errs = append(errs, fmt.Errorf("server.slow_workers must be positive, got %d", c.Server.SlowWorkers))
	}
	if _, err := c.Log.level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// AgentConfig returns the agent settings with a fresh evaluation cache
// when one is enabled.
func (c AgentsConfig) AgentConfig() agent.Config {
	cfg := agent.Config{Depth: c.Depth, Seed: c.Seed}
	if c.CacheSize > 0 {
		cfg.Cache = heuristic.NewCache(c.CacheSize)
	}
	return cfg
}

func knownKind(kind string) bool {
	for _, k := range agent.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
