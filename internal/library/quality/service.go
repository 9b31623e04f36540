package quality

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/slipstream/qualityengine/internal/database/sqlc"
)

var (
	ErrProfileNotFound = errors.New("quality profile not found")
	ErrInvalidProfile  = errors.New("invalid quality profile")
	ErrProfileExists   = errors.New("quality profile already exists")
)

// Service provides quality profile operations.
type Service struct {
	queries *sqlc.Queries
	logger  zerolog.Logger
}

// NewService creates a new quality profile service.
func NewService(db *sql.DB, logger zerolog.Logger) *Service {
	return &Service{
		queries: sqlc.New(db),
		logger:  logger.With().Str("component", "quality").Logger(),
	}
}

// Get retrieves a quality profile by ID.
// Every call returns a freshly decoded profile owned by the caller.
func (s *Service) Get(ctx context.Context, id int64) (*Profile, error) {
	row, err := s.queries.GetQualityProfile(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get quality profile: %w", err)
	}
	return s.rowToProfile(row)
}

// GetByName retrieves a quality profile by name.
func (s *Service) GetByName(ctx context.Context, name string) (*Profile, error) {
	row, err := s.queries.GetQualityProfileByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get quality profile: %w", err)
	}
	return s.rowToProfile(row)
}

// List returns all quality profiles ordered by name.
func (s *Service) List(ctx context.Context) ([]*Profile, error) {
	rows, err := s.queries.ListQualityProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list quality profiles: %w", err)
	}

	profiles := make([]*Profile, 0, len(rows))
	for _, row := range rows {
		p, err := s.rowToProfile(row)
		if err != nil {
			s.logger.Warn().Err(err).Int64("id", row.ID).Msg("Failed to parse quality profile")
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// storedProfile holds the serialized columns of a profile.
type storedProfile struct {
	items, hdr, videoCodec, audioCodec, audioChannels string
}

// prepare validates the input and serializes it for storage.
func prepare(input CreateProfileInput) (storedProfile, error) {
	var stored storedProfile

	if strings.TrimSpace(input.Name) == "" {
		return stored, fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}

	rules := []struct {
		dim  Dimension
		rule AttributeRule
		out  *string
	}{
		{DimensionHDR, input.HDRSettings, &stored.hdr},
		{DimensionVideoCodec, input.VideoCodecSettings, &stored.videoCodec},
		{DimensionAudioCodec, input.AudioCodecSettings, &stored.audioCodec},
		{DimensionAudioChannels, input.AudioChannelSettings, &stored.audioChannels},
	}
	for _, r := range rules {
		normalized, err := NormalizeRule(r.dim, r.rule)
		if err != nil {
			return stored, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
		}
		if normalized.Mode != AttributeModeNone && len(normalized.Values) == 0 {
			return stored, fmt.Errorf("%w: %s rule %q needs at least one value", ErrInvalidProfile, r.dim.Label(), normalized.Mode)
		}
		data, err := SerializeAttributeRule(normalized)
		if err != nil {
			return stored, fmt.Errorf("failed to serialize %s settings: %w", r.dim.Label(), err)
		}
		*r.out = data
	}

	for _, item := range input.Items {
		if _, ok := GetQualityByID(item.Quality.ID); !ok {
			return stored, fmt.Errorf("%w: unknown quality id %d", ErrInvalidProfile, item.Quality.ID)
		}
	}
	items, err := SerializeItems(input.Items)
	if err != nil {
		return stored, fmt.Errorf("failed to serialize items: %w", err)
	}
	stored.items = items

	return stored, nil
}

// Create creates a new quality profile.
func (s *Service) Create(ctx context.Context, input CreateProfileInput) (*Profile, error) {
	stored, err := prepare(input)
	if err != nil {
		return nil, err
	}

	id, err := s.queries.CreateQualityProfile(ctx, sqlc.CreateQualityProfileParams{
		Name:                 strings.TrimSpace(input.Name),
		Items:                stored.items,
		HdrSettings:          stored.hdr,
		VideoCodecSettings:   stored.videoCodec,
		AudioCodecSettings:   stored.audioCodec,
		AudioChannelSettings: stored.audioChannels,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrProfileExists, input.Name)
		}
		return nil, fmt.Errorf("failed to create quality profile: %w", err)
	}

	s.logger.Info().Int64("id", id).Str("name", input.Name).Msg("Created quality profile")
	return s.Get(ctx, id)
}

// Update updates an existing quality profile.
func (s *Service) Update(ctx context.Context, id int64, input UpdateProfileInput) (*Profile, error) {
	stored, err := prepare(input)
	if err != nil {
		return nil, err
	}

	affected, err := s.queries.UpdateQualityProfile(ctx, sqlc.UpdateQualityProfileParams{
		ID:                   id,
		Name:                 strings.TrimSpace(input.Name),
		Items:                stored.items,
		HdrSettings:          stored.hdr,
		VideoCodecSettings:   stored.videoCodec,
		AudioCodecSettings:   stored.audioCodec,
		AudioChannelSettings: stored.audioChannels,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrProfileExists, input.Name)
		}
		return nil, fmt.Errorf("failed to update quality profile: %w", err)
	}
	if affected == 0 {
		return nil, ErrProfileNotFound
	}

	s.logger.Info().Int64("id", id).Str("name", input.Name).Msg("Updated quality profile")
	return s.Get(ctx, id)
}

// Delete deletes a quality profile.
func (s *Service) Delete(ctx context.Context, id int64) error {
	affected, err := s.queries.DeleteQualityProfile(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete quality profile: %w", err)
	}
	if affected == 0 {
		return ErrProfileNotFound
	}

	s.logger.Info().Int64("id", id).Msg("Deleted quality profile")
	return nil
}

// Count returns the number of stored profiles.
func (s *Service) Count(ctx context.Context) (int64, error) {
	count, err := s.queries.CountQualityProfiles(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count quality profiles: %w", err)
	}
	return count, nil
}

// GetQualities returns the list of predefined qualities.
func (s *Service) GetQualities() []Quality {
	return PredefinedQualities
}

// Import creates or updates profiles by name. It returns how many were
// created and how many updated.
func (s *Service) Import(ctx context.Context, inputs []CreateProfileInput) (created, updated int, err error) {
	for _, input := range inputs {
		existing, err := s.GetByName(ctx, strings.TrimSpace(input.Name))
		switch {
		case errors.Is(err, ErrProfileNotFound):
			if _, err := s.Create(ctx, input); err != nil {
				return created, updated, fmt.Errorf("profile %q: %w", input.Name, err)
			}
			created++
		case err != nil:
			return created, updated, err
		default:
			if _, err := s.Update(ctx, existing.ID, input); err != nil {
				return created, updated, fmt.Errorf("profile %q: %w", input.Name, err)
			}
			updated++
		}
	}
	return created, updated, nil
}

// EnsureDefaults creates default profiles if none exist. When seed is
// non-empty it is used instead of the built-in defaults.
func (s *Service) EnsureDefaults(ctx context.Context, seed []CreateProfileInput) error {
	count, err := s.queries.CountQualityProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to count quality profiles: %w", err)
	}

	if count > 0 {
		return nil // Already have profiles
	}

	defaults := seed
	if len(defaults) == 0 {
		defaults = DefaultProfiles()
	}

	for _, p := range defaults {
		if _, err := s.Create(ctx, p); err != nil {
			s.logger.Warn().Err(err).Str("name", p.Name).Msg("Failed to create default profile")
		}
	}

	s.logger.Info().Int("count", len(defaults)).Msg("Created default quality profiles")
	return nil
}

// rowToProfile converts a database row to a Profile.
func (s *Service) rowToProfile(row *sqlc.QualityProfile) (*Profile, error) {
	items, err := DeserializeItems(row.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize items: %w", err)
	}

	p := &Profile{
		ID:                   row.ID,
		Name:                 row.Name,
		Items:                items,
		HDRSettings:          s.decodeRule(row.ID, DimensionHDR, row.HdrSettings),
		VideoCodecSettings:   s.decodeRule(row.ID, DimensionVideoCodec, row.VideoCodecSettings),
		AudioCodecSettings:   s.decodeRule(row.ID, DimensionAudioCodec, row.AudioCodecSettings),
		AudioChannelSettings: s.decodeRule(row.ID, DimensionAudioChannels, row.AudioChannelSettings),
	}

	if row.CreatedAt.Valid {
		p.CreatedAt = row.CreatedAt.Time
	}
	if row.UpdatedAt.Valid {
		p.UpdatedAt = row.UpdatedAt.Time
	}

	return p, nil
}

func (s *Service) decodeRule(id int64, dim Dimension, data string) AttributeRule {
	rule, err := DeserializeAttributeRule(data)
	if err != nil {
		s.logger.Warn().Err(err).Int64("id", id).Str("dimension", string(dim)).
			Msg("Failed to deserialize attribute settings, using defaults")
		return DefaultAttributeRule()
	}
	return rule
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
