// Package config holds collective's configuration types and defaults.
package config

import (
	"fmt"
	"time"

	"github.com/driftline/collective/internal/memory"
)

// Config holds all collective configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Memory   MemoryConfig   `toml:"memory"`
}

type ServerConfig struct {
	Bind string `toml:"bind"`
	Port int    `toml:"port"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type MemoryConfig struct {
	DriftInterval    time.Duration `toml:"drift_interval"`
	SnapshotInterval time.Duration `toml:"snapshot_interval"`
	SampleSize       int           `toml:"sample_size"`
	GrowthFactor     float64       `toml:"growth_factor"`
	WeightCap        float64       `toml:"weight_cap"`

	// Per-tier capacities, youngest to oldest.
	ImmediateCap int `toml:"immediate_cap"`
	RecentCap    int `toml:"recent_cap"`
	DeepCap      int `toml:"deep_cap"`
	AncientCap   int `toml:"ancient_cap"`
	EternalCap   int `toml:"eternal_cap"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	mem := memory.DefaultOptions()
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37888,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via persist.DefaultDBPath()
		},
		Memory: MemoryConfig{
			DriftInterval:    mem.DriftInterval,
			SnapshotInterval: mem.SnapshotInterval,
			SampleSize:       mem.SampleSize,
			GrowthFactor:     mem.GrowthFactor,
			WeightCap:        mem.WeightCap,
			ImmediateCap:     mem.Capacities[0],
			RecentCap:        mem.Capacities[1],
			DeepCap:          mem.Capacities[2],
			AncientCap:       mem.Capacities[3],
			EternalCap:       mem.Capacities[4],
		},
	}
}

// MemoryOptions converts the config section into store options.
func (c *Config) MemoryOptions() memory.Options {
	opts := memory.DefaultOptions()
	opts.DriftInterval = c.Memory.DriftInterval
	opts.SnapshotInterval = c.Memory.SnapshotInterval
	opts.SampleSize = c.Memory.SampleSize
	opts.GrowthFactor = c.Memory.GrowthFactor
	opts.WeightCap = c.Memory.WeightCap
	opts.Capacities = [5]int{
		c.Memory.ImmediateCap,
		c.Memory.RecentCap,
		c.Memory.DeepCap,
		c.Memory.AncientCap,
		c.Memory.EternalCap,
	}
	return opts
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
