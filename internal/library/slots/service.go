package slots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/slipstream/qualityengine/internal/library/quality"
	"github.com/slipstream/qualityengine/internal/library/scanner"
)

var (
	ErrReleaseTitleRequired = errors.New("releaseTitle is required")
	ErrProfileIDRequired    = errors.New("qualityProfileId is required")
)

const (
	DefaultParseCacheTTL     = 10 * time.Minute
	DefaultParseCacheCleanup = 20 * time.Minute
)

// ProfileGetter loads quality profiles by ID.
type ProfileGetter interface {
	Get(ctx context.Context, id int64) (*quality.Profile, error)
}

// Config tunes the debug service.
type Config struct {
	Scores       quality.ScoreTable
	Match        quality.MatchOptions
	CacheTTL     time.Duration
	CacheCleanup time.Duration
}

// DefaultConfig returns the built-in scoring and cache settings.
func DefaultConfig() Config {
	return Config{
		Scores:       quality.DefaultScoreTable(),
		Match:        quality.DefaultMatchOptions(),
		CacheTTL:     DefaultParseCacheTTL,
		CacheCleanup: DefaultParseCacheCleanup,
	}
}

// Service parses release titles and matches them against quality profiles
// for the slot debug panel.
type Service struct {
	profiles ProfileGetter
	scores   quality.ScoreTable
	opts     quality.MatchOptions
	cache    *cache.Cache
	logger   zerolog.Logger
}

// NewService creates a new slot debug service.
func NewService(profiles ProfileGetter, cfg Config, logger zerolog.Logger) *Service {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = DefaultParseCacheTTL
	}
	cleanup := cfg.CacheCleanup
	if cleanup == 0 {
		cleanup = DefaultParseCacheCleanup
	}

	return &Service{
		profiles: profiles,
		scores:   cfg.Scores,
		opts:     cfg.Match,
		cache:    cache.New(ttl, cleanup),
		logger:   logger.With().Str("component", "slots").Logger(),
	}
}

// Parse parses a release title. Results are cached by title and shared
// between callers, so they must not be modified.
func (s *Service) Parse(releaseTitle string) (*scanner.ParsedMedia, error) {
	title := strings.TrimSpace(releaseTitle)
	if title == "" {
		return nil, ErrReleaseTitleRequired
	}

	if cached, found := s.cache.Get(title); found {
		return cached.(*scanner.ParsedMedia), nil
	}

	parsed := scanner.ParseWithScores(title, s.scores)
	s.cache.SetDefault(title, parsed)

	s.logger.Debug().
		Str("release", title).
		Str("quality", parsed.Quality).
		Str("source", parsed.Source).
		Int("qualityScore", parsed.QualityScore).
		Msg("Parsed release title")

	return parsed, nil
}

// MatchResult is a parsed release evaluated against one profile.
type MatchResult struct {
	Release *scanner.ParsedMedia
	Profile *quality.Profile
	Quality quality.QualityMatchResult
	Match   quality.ProfileMatchResult
}

// Match parses a release title and evaluates it against a quality profile.
func (s *Service) Match(ctx context.Context, releaseTitle string, profileID int64) (*MatchResult, error) {
	parsed, err := s.Parse(releaseTitle)
	if err != nil {
		return nil, err
	}
	if profileID <= 0 {
		return nil, ErrProfileIDRequired
	}

	profile, err := s.profiles.Get(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %d: %w", profileID, err)
	}

	return s.Evaluate(parsed, profile), nil
}

// Evaluate matches an already parsed release against a profile.
func (s *Service) Evaluate(parsed *scanner.ParsedMedia, profile *quality.Profile) *MatchResult {
	result := &MatchResult{
		Release: parsed,
		Profile: profile,
		Quality: quality.MatchQuality(parsed.Quality, parsed.QualitySource(), profile),
		Match:   quality.MatchProfile(parsed.ToReleaseAttributes(), parsed.QualityScore, profile.Rules(), s.opts),
	}

	if !result.Match.AllMatch {
		s.logger.Debug().
			Str("release", parsed.Title).
			Str("profile", profile.Name).
			Strs("reasons", result.Match.RejectionReasons()).
			Msg("Release rejected by profile")
	}

	return result
}

// CachedCount returns the number of cached parse results.
func (s *Service) CachedCount() int {
	return s.cache.ItemCount()
}

// FlushCache drops every cached parse result.
func (s *Service) FlushCache() {
	s.cache.Flush()
}
