// Package config provides Viper-based configuration loading for the arena tools.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/preset"
	"github.com/cory-johannsen/arena/internal/game/progression"
)

// ConfigPresetID selects the arena section of the config file instead of a preset file.
const ConfigPresetID = "config"

// Storage drivers for balance reports.
const (
	StorageNone     = "none"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	// HealthTimeout bounds the startup check that the report schema is reachable.
	HealthTimeout time.Duration `mapstructure:"health_timeout"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogFileConfig holds the optional rotating log file sink.
type LogFileConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string        `mapstructure:"format"`
	File   LogFileConfig `mapstructure:"file"`
}

// StorageConfig selects where balance reports are saved.
type StorageConfig struct {
	// Driver is one of "none", "sqlite", "postgres".
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// ArenaConfig holds the base game settings that presets overlay.
type ArenaConfig struct {
	Progression progression.Config `mapstructure:"progression"`
	Combat      combat.Config      `mapstructure:"combat"`
}

// ArenaPreset returns the arena section as a preset named ConfigPresetID.
func (c Config) ArenaPreset() *preset.Preset {
	return &preset.Preset{
		ID:          ConfigPresetID,
		Name:        "Config file",
		Description: "Arena settings from the loaded configuration.",
		Progression: c.Arena.Progression,
		Combat:      c.Arena.Combat,
	}
}

// SimulationConfig holds balance simulator settings.
type SimulationConfig struct {
	Runs int `mapstructure:"runs"`
	// Workers is the number of parallel runs; 0 uses one per CPU.
	Workers int `mapstructure:"workers"`
	// Seed is the base seed; 0 draws a fresh one per invocation.
	Seed            int64  `mapstructure:"seed"`
	MaxRoundsPerRun int    `mapstructure:"max_rounds_per_run"`
	Preset          string `mapstructure:"preset"`
	PresetsDir      string `mapstructure:"presets_dir"`
	// ScriptDir holds Lua run hooks; empty disables scripting.
	ScriptDir        string `mapstructure:"script_dir"`
	InstructionLimit int    `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Arena      ArenaConfig      `mapstructure:"arena"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if c.Storage.Driver == StoragePostgres {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateStorage(c.Storage); err != nil {
		errs = append(errs, err.Error())
	}
	if err := c.Arena.Progression.Validate(); err != nil {
		errs = append(errs, "arena."+err.Error())
	}
	if err := c.Arena.Combat.Validate(); err != nil {
		errs = append(errs, "arena."+err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if d.HealthTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("database.health_timeout must be > 0, got %s", d.HealthTimeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.File.Enabled {
		if l.File.Path == "" {
			return fmt.Errorf("logging.file.path must not be empty when logging.file.enabled")
		}
		if l.File.MaxSizeMB < 1 {
			return fmt.Errorf("logging.file.max_size_mb must be >= 1, got %d", l.File.MaxSizeMB)
		}
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	switch s.Driver {
	case StorageNone, StoragePostgres:
		return nil
	case StorageSQLite:
		if s.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path must not be empty for the sqlite driver")
		}
		return nil
	default:
		return fmt.Errorf("storage.driver must be one of [none, sqlite, postgres], got %q", s.Driver)
	}
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.Runs < 1 {
		errs = append(errs, fmt.Sprintf("simulation.runs must be >= 1, got %d", s.Runs))
	}
	if s.Workers < 0 {
		errs = append(errs, fmt.Sprintf("simulation.workers must be >= 0, got %d", s.Workers))
	}
	if s.MaxRoundsPerRun < 0 {
		errs = append(errs, fmt.Sprintf("simulation.max_rounds_per_run must be >= 0, got %d", s.MaxRoundsPerRun))
	}
	if s.Preset == "" {
		errs = append(errs, "simulation.preset must not be empty")
	}
	if s.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("simulation.instruction_limit must be >= 0, got %d", s.InstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with ARENA_ prefix
	v.SetEnvPrefix("ARENA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the default values.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "arena")
	v.SetDefault("database.password", "arena")
	v.SetDefault("database.name", "arena")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.health_timeout", "5s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file.enabled", false)
	v.SetDefault("logging.file.path", "logs/arena.log")
	v.SetDefault("logging.file.max_size_mb", 10)
	v.SetDefault("logging.file.max_backups", 3)
	v.SetDefault("logging.file.max_age_days", 28)
	v.SetDefault("logging.file.compress", false)

	v.SetDefault("storage.driver", StorageNone)
	v.SetDefault("storage.sqlite_path", "data/arena.db")

	p := progression.DefaultConfig()
	v.SetDefault("arena.progression.curve", string(p.Curve))
	v.SetDefault("arena.progression.linear_a", p.LinearA)
	v.SetDefault("arena.progression.quadratic_a", p.QuadraticA)
	v.SetDefault("arena.progression.logarithmic_a", p.LogarithmicA)
	v.SetDefault("arena.progression.target_level", p.TargetLevel)
	v.SetDefault("arena.progression.player_max_hp", p.PlayerMaxHP)
	v.SetDefault("arena.progression.player_base_damage", p.PlayerBaseDamage)
	v.SetDefault("arena.progression.player_damage_per_level", p.PlayerDamagePerLevel)
	v.SetDefault("arena.progression.xp_per_win", p.XPPerWin)

	c := combat.DefaultConfig()
	v.SetDefault("arena.combat.enemy_base_hp", c.EnemyBaseHP)
	v.SetDefault("arena.combat.enemy_hp_per_level", c.EnemyHPPerLevel)
	v.SetDefault("arena.combat.enemy_base_damage", c.EnemyBaseDamage)
	v.SetDefault("arena.combat.enemy_damage_per_level", c.EnemyDamagePerLevel)
	v.SetDefault("arena.combat.min_multiplier", c.MinMultiplier)
	v.SetDefault("arena.combat.max_multiplier", c.MaxMultiplier)
	v.SetDefault("arena.combat.damage_bias", c.DamageBias)
	v.SetDefault("arena.combat.crit_chance", c.CritChance)
	v.SetDefault("arena.combat.crit_multiplier", c.CritMultiplier)
	v.SetDefault("arena.combat.enemy_matches_player_level", c.EnemyMatchesPlayerLevel)

	v.SetDefault("simulation.runs", 1000)
	v.SetDefault("simulation.workers", 0)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.max_rounds_per_run", 10000)
	v.SetDefault("simulation.preset", ConfigPresetID)
	v.SetDefault("simulation.presets_dir", "content/presets")
	v.SetDefault("simulation.script_dir", "")
	v.SetDefault("simulation.instruction_limit", 100000)
}
