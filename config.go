package cotask

import (
	"fmt"
	"os"

	yaml "github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
)

const (
	AllocatorMmap = "mmap"
	AllocatorHeap = "heap"
)

// Config mirrors the YAML scheduler configuration.
type Config struct {
	MinStackSize     int    `yaml:"min_stack_size"`     // floor for every stack, 0 = one page
	DefaultStackSize int    `yaml:"default_stack_size"` // size used when Prepare asks for 0, 0 = the floor
	Allocator        string `yaml:"allocator"`          // "mmap" or "heap"
	LogLevel         string `yaml:"log_level"`          // zerolog level name, empty keeps the logger's level
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Allocator: defaultAllocator,
	}
}

// LoadConfig reads YAML from path over the defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cotask: read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("cotask: parse config %s: %w", path, err)
	}

	// sanity clamps
	if cfg.MinStackSize < 0 {
		cfg.MinStackSize = 0
	}
	if cfg.DefaultStackSize < 0 {
		cfg.DefaultStackSize = 0
	}
	if cfg.Allocator == "" {
		cfg.Allocator = defaultAllocator
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("cotask: config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the allocator and log level names.
func (c Config) Validate() error {
	switch c.Allocator {
	case "", AllocatorMmap, AllocatorHeap:
	default:
		return fmt.Errorf("unknown allocator %q", c.Allocator)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// stackSize resolves a requested stack size: 0 (or less) picks the
// default, and the configured floor applies to everything.
func (c Config) stackSize(size int) int {
	if size <= 0 {
		size = max(c.DefaultStackSize, 0)
	}
	if size < c.MinStackSize {
		size = c.MinStackSize
	}
	return size
}
