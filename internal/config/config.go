package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Loop    LoopConfig    `toml:"loop"`
	Pool    PoolConfig    `toml:"pool"`
	Data    DataConfig    `toml:"data"`
	Logging LoggingConfig `toml:"logging"`
}

type ServerConfig struct {
	Name      string `toml:"name"`
	StartTime int64  // set at boot, not from config
}

type LoopConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
	MaxTicks int           `toml:"max_ticks"` // 0 = run until signalled
}

type PoolConfig struct {
	Capacity         int `toml:"capacity"`          // slots reserved up front
	CompactThreshold int `toml:"compact_threshold"` // condemned slots before compaction, 0 = every tick
}

type DataConfig struct {
	SpawnList  string `toml:"spawn_list"`
	ScriptsDir string `toml:"scripts_dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Loop.TickRate <= 0 {
		return fmt.Errorf("loop.tick_rate must be positive, got %s", c.Loop.TickRate)
	}
	if c.Loop.MaxTicks < 0 {
		return fmt.Errorf("loop.max_ticks must not be negative, got %d", c.Loop.MaxTicks)
	}
	if c.Pool.Capacity < 0 {
		return fmt.Errorf("pool.capacity must not be negative, got %d", c.Pool.Capacity)
	}
	if c.Pool.CompactThreshold < 0 {
		return fmt.Errorf("pool.compact_threshold must not be negative, got %d", c.Pool.CompactThreshold)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "objpool",
		},
		Loop: LoopConfig{
			TickRate: 200 * time.Millisecond,
		},
		Pool: PoolConfig{
			Capacity:         1024,
			CompactThreshold: 64,
		},
		Data: DataConfig{
			SpawnList:  "data/yaml/spawn_list.yaml",
			ScriptsDir: "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
