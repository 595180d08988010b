package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for a config file when --config is not given.
const DefaultPath = ".snail.yaml"

// Config holds all snailfish configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Reduction engine
	Engine EngineConfig `yaml:"engine"`

	// Homework input handling
	Input InputConfig `yaml:"input"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Watch mode
	Watch WatchConfig `yaml:"watch"`

	// Terminal output
	UX UXConfig `yaml:"ux"`
}

// EngineConfig configures the reduction engine.
type EngineConfig struct {
	MaxSteps    int `yaml:"max_steps"`   // Rules one reduction may apply before failing
	Parallelism int `yaml:"parallelism"` // Workers for the pairwise search; 0 = GOMAXPROCS
}

// InputConfig configures how homework lines are read.
type InputConfig struct {
	SkipMalformed bool   `yaml:"skip_malformed"` // Skip bad lines instead of aborting
	CommentPrefix string `yaml:"comment_prefix"` // Lines starting with this are ignored
}

// WatchConfig configures `snail sum --watch`.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// UXConfig configures terminal rendering.
type UXConfig struct {
	Theme    string `yaml:"theme"` // auto, light, dark
	WordWrap int    `yaml:"word_wrap"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "snailfish",
		Version: "1.0.0",

		Engine: EngineConfig{
			MaxSteps:    100000,
			Parallelism: 0,
		},

		Input: InputConfig{
			SkipMalformed: false,
			CommentPrefix: "#",
		},

		Logging: LoggingConfig{
			Level:     "info",
			Format:    "console",
			DebugMode: false,
		},

		Watch: WatchConfig{
			Debounce: "250ms",
		},

		UX: UXConfig{
			Theme:    "auto",
			WordWrap: 100,
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
// Unparseable numeric or boolean values are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SNAIL_MAX_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Engine.MaxSteps = n
		}
	}
	if v := os.Getenv("SNAIL_PARALLELISM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Engine.Parallelism = n
		}
	}
	if v := os.Getenv("SNAIL_SKIP_MALFORMED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Input.SkipMalformed = b
		}
	}
	if v := os.Getenv("SNAIL_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SNAIL_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = b
		}
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Engine.MaxSteps < 1 {
		return fmt.Errorf("engine.max_steps must be >= 1")
	}
	if c.Engine.Parallelism < 0 {
		return fmt.Errorf("engine.parallelism must be >= 0")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	switch c.Logging.Format {
	case "", "console", "text", "json":
	default:
		return fmt.Errorf("logging.format must be console or json")
	}
	if _, err := time.ParseDuration(c.Watch.Debounce); c.Watch.Debounce != "" && err != nil {
		return fmt.Errorf("watch.debounce: %w", err)
	}
	switch c.UX.Theme {
	case "", "auto", "light", "dark":
	default:
		return fmt.Errorf("ux.theme must be auto, light or dark")
	}
	return nil
}

// GetParallelism returns the worker limit, resolving 0 to GOMAXPROCS.
func (c *Config) GetParallelism() int {
	if c.Engine.Parallelism > 0 {
		return c.Engine.Parallelism
	}
	return runtime.GOMAXPROCS(0)
}

// GetDebounce returns the watch debounce as a duration.
func (c *Config) GetDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 250 * time.Millisecond
	}
	return d
}
