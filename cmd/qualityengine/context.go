package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/slipstream/qualityengine/internal/config"
	"github.com/slipstream/qualityengine/internal/database"
	"github.com/slipstream/qualityengine/internal/library/quality"
	"github.com/slipstream/qualityengine/internal/library/slots"
	"github.com/slipstream/qualityengine/internal/logger"
	"github.com/slipstream/qualityengine/internal/startup"
)

type commandContext struct {
	configFlag *string
	dbFlag     *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, dbFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		dbFlag:     dbFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.dbFlag != nil && strings.TrimSpace(*c.dbFlag) != "" {
			cfg.Database.Path = strings.TrimSpace(*c.dbFlag)
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// cliLogger logs to stderr so stdout stays clean for tables and JSON.
func cliLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	level := cfg.Logging.Level
	if logger.ParseLevel(level) < zerolog.WarnLevel {
		level = "warn"
	}
	return logger.New(logger.Config{
		Level:  level,
		Format: cfg.Logging.Format,
		Output: w,
	}).Logger
}

// profileStore is an open, migrated database with the profile service on top.
type profileStore struct {
	db       *database.DB
	profiles *quality.Service
	slots    *slots.Service
}

func (s *profileStore) Close() error {
	return s.db.Close()
}

// openStore opens and migrates the configured database, seeding the
// default profiles when it has none.
func (c *commandContext) openStore(cmd *cobra.Command) (*profileStore, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	log := cliLogger(cfg, cmd.ErrOrStderr())

	db, err := openDatabase(cmd.Context(), cfg.Database.Path, &log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	profiles := quality.NewService(db.Conn(), log)
	seed, err := seedProfiles(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := profiles.EnsureDefaults(cmd.Context(), seed); err != nil {
		db.Close()
		return nil, err
	}

	return &profileStore{
		db:       db,
		profiles: profiles,
		slots:    newSlotsService(cfg, profiles, log),
	}, nil
}

func openDatabase(ctx context.Context, path string, log *zerolog.Logger) (*database.DB, error) {
	var db *database.DB
	err := startup.WithRetry(ctx, "open database", startup.DefaultRetryConfig(), func() error {
		opened, err := database.New(path)
		if err != nil {
			return err
		}
		db = opened
		return nil
	}, log)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	return db, nil
}

func seedProfiles(cfg *config.Config) ([]quality.CreateProfileInput, error) {
	if cfg.Profiles.SeedFile == "" {
		return nil, nil
	}
	return quality.LoadProfilesYAML(cfg.Profiles.SeedFile)
}

func newSlotsService(cfg *config.Config, profiles slots.ProfileGetter, log zerolog.Logger) *slots.Service {
	return slots.NewService(profiles, slots.Config{
		Scores:       cfg.Scoring.ScoreTable(),
		Match:        cfg.MatchOptions(),
		CacheTTL:     cfg.Cache.ParseTTL,
		CacheCleanup: cfg.Cache.ParseCleanup,
	}, log)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
