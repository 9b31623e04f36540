package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/slipstream/qualityengine/internal/library/quality"
)

// Version is set at build time via ldflags.
var Version = "dev"

// EnvPrefix prefixes every environment override, e.g. QUALITYENGINE_SERVER_PORT.
const EnvPrefix = "QUALITYENGINE"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
	Matching MatchingConfig `mapstructure:"matching"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Profiles ProfilesConfig `mapstructure:"profiles"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// DebugRequestsPerMinute limits the slot debug endpoints per client IP.
	// 0 disables the limit.
	DebugRequestsPerMinute int `mapstructure:"debug_requests_per_minute"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
	BufferSize int    `mapstructure:"buffer_size"`
}

// ScoringConfig holds the quality score constants.
type ScoringConfig struct {
	Resolutions    map[string]int `mapstructure:"resolutions"`
	Sources        map[string]int `mapstructure:"sources"`
	PreferredBonus int            `mapstructure:"preferred_bonus"`
}

// MatchingConfig holds profile matching switches.
type MatchingConfig struct {
	AudioChannelsAsSequence bool `mapstructure:"audio_channels_as_sequence"`
}

// CacheConfig holds the release parse cache settings.
type CacheConfig struct {
	ParseTTL     time.Duration `mapstructure:"parse_ttl"`
	ParseCleanup time.Duration `mapstructure:"parse_cleanup"`
}

// ProfilesConfig holds quality profile seeding settings.
type ProfilesConfig struct {
	// SeedFile is a YAML document of profiles created on an empty database.
	// The built-in profiles are used when empty.
	SeedFile string `mapstructure:"seed_file"`
}

// Default returns a Config with default values.
func Default() *Config {
	scores := quality.DefaultScoreTable()
	return &Config{
		Server: ServerConfig{
			Host:                   "0.0.0.0",
			Port:                   8090,
			DebugRequestsPerMinute: 120,
		},
		Database: DatabaseConfig{
			Path: "./data/qualityengine.db",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
			BufferSize: 1000,
		},
		Scoring: ScoringConfig{
			Resolutions:    scores.Resolutions,
			Sources:        scores.Sources,
			PreferredBonus: quality.DefaultPreferredBonus,
		},
		Cache: CacheConfig{
			ParseTTL:     10 * time.Minute,
			ParseCleanup: 20 * time.Minute,
		},
	}
}

// Load reads configuration from .env, the config file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.qualityengine")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values in viper. Every key needs a default for
// AutomaticEnv to pick up its environment override.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.debug_requests_per_minute", d.Server.DebugRequestsPerMinute)

	v.SetDefault("database.path", d.Database.Path)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.path", d.Logging.Path)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
	v.SetDefault("logging.compress", d.Logging.Compress)
	v.SetDefault("logging.buffer_size", d.Logging.BufferSize)

	for res, score := range d.Scoring.Resolutions {
		v.SetDefault("scoring.resolutions."+strings.ToLower(res), score)
	}
	for source, score := range d.Scoring.Sources {
		v.SetDefault("scoring.sources."+strings.ToLower(source), score)
	}
	v.SetDefault("scoring.preferred_bonus", d.Scoring.PreferredBonus)

	v.SetDefault("matching.audio_channels_as_sequence", d.Matching.AudioChannelsAsSequence)

	v.SetDefault("cache.parse_ttl", d.Cache.ParseTTL)
	v.SetDefault("cache.parse_cleanup", d.Cache.ParseCleanup)

	v.SetDefault("profiles.seed_file", d.Profiles.SeedFile)
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ScoreTable returns the configured quality score table.
func (c *ScoringConfig) ScoreTable() quality.ScoreTable {
	return quality.ScoreTable{
		Resolutions: c.Resolutions,
		Sources:     c.Sources,
	}
}

// MatchOptions returns the configured profile matching options.
func (c *Config) MatchOptions() quality.MatchOptions {
	return quality.MatchOptions{
		PreferredBonus:          c.Scoring.PreferredBonus,
		AudioChannelsAsSequence: c.Matching.AudioChannelsAsSequence,
	}
}
