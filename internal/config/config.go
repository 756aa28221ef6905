package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Network    NetworkConfig    `toml:"network"`
	Simulation SimulationConfig `toml:"simulation"`
	Paths      PathsConfig      `toml:"paths"`
	Logging    LoggingConfig    `toml:"logging"`
}

type ServerConfig struct {
	Name string `toml:"name"`
	ID   int    `toml:"id"`
}

type DatabaseConfig struct {
	// DSN empty disables the snapshot store.
	DSN             string        `toml:"dsn"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type NetworkConfig struct {
	BindAddress       string `toml:"bind_address"`
	OutQueueSize      int    `toml:"out_queue_size"`
	IntentsPerSecond  int    `toml:"intents_per_second"`
	IntentBurst       int    `toml:"intent_burst"`
}

type SimulationConfig struct {
	Seed             uint64 `toml:"seed"`
	Stars            int    `toml:"stars"`
	Factions         int    `toml:"factions"`
	UniverseName     string `toml:"universe_name"`
	SnapshotInterval int    `toml:"snapshot_interval"` // ticks; 0 disables
	RestoreOnBoot    bool   `toml:"restore_on_boot"`
}

type PathsConfig struct {
	CatalogDir string `toml:"catalog_dir"`
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
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "HYPERION",
			ID:   1,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Network: NetworkConfig{
			BindAddress:      "0.0.0.0:7800",
			OutQueueSize:     256,
			IntentsPerSecond: 30,
			IntentBurst:      60,
		},
		Simulation: SimulationConfig{
			Seed:             42,
			Stars:            500,
			Factions:         5,
			UniverseName:     "Hyperion Reach",
			SnapshotInterval: 18000, // 5 minutes at 60 Hz
		},
		Paths: PathsConfig{
			CatalogDir: "data/catalog",
			ScriptsDir: "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
