package slots

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipstream/qualityengine/internal/library/quality"
	"github.com/slipstream/qualityengine/internal/testutil"
)

type stubProfiles map[int64]*quality.Profile

func (s stubProfiles) Get(_ context.Context, id int64) (*quality.Profile, error) {
	p, ok := s[id]
	if !ok {
		return nil, quality.ErrProfileNotFound
	}
	return p, nil
}

func newStubService(profiles stubProfiles) *Service {
	return NewService(profiles, DefaultConfig(), testutil.NopLogger())
}

func TestService_Parse(t *testing.T) {
	svc := newStubService(nil)

	parsed, err := svc.Parse("  Movie.2024.2160p.BluRay.DV.HDR10.x265.TrueHD.Atmos.7.1.mkv ")
	require.NoError(t, err)
	assert.Equal(t, "Movie", parsed.Title)
	assert.Equal(t, 110, parsed.QualityScore)
}

func TestService_ParseRequiresTitle(t *testing.T) {
	svc := newStubService(nil)

	for _, title := range []string{"", "   ", "\t"} {
		_, err := svc.Parse(title)
		assert.ErrorIs(t, err, ErrReleaseTitleRequired, "title %q", title)
	}
}

func TestService_ParseCache(t *testing.T) {
	svc := newStubService(nil)

	first, err := svc.Parse("Movie.2020.1080p.WEB-DL.x264")
	require.NoError(t, err)
	assert.Equal(t, 1, svc.CachedCount())

	second, err := svc.Parse("Movie.2020.1080p.WEB-DL.x264")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, svc.CachedCount())

	svc.FlushCache()
	assert.Equal(t, 0, svc.CachedCount())

	third, err := svc.Parse("Movie.2020.1080p.WEB-DL.x264")
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, first, third)
}

func TestService_CustomScores(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scores.Resolutions["1080p"] = 500
	svc := NewService(nil, cfg, testutil.NopLogger())

	parsed, err := svc.Parse("Movie.2020.1080p.WEB-DL")
	require.NoError(t, err)
	assert.Equal(t, 505, parsed.QualityScore)
}

func TestService_Match(t *testing.T) {
	profile := &quality.Profile{
		ID:                 3,
		Name:               "Dolby",
		Items:              quality.Ultra4KProfile().Items,
		HDRSettings:        quality.AttributeRule{Mode: quality.AttributeModeRequired, Values: []string{"HDR10", "HDR10+"}},
		VideoCodecSettings: quality.AttributeRule{Mode: quality.AttributeModeRequired, Values: []string{"x265"}},
		AudioCodecSettings: quality.AttributeRule{Mode: quality.AttributeModePreferred, Values: []string{"Atmos"}},
	}
	svc := newStubService(stubProfiles{3: profile})

	result, err := svc.Match(context.Background(), "Movie.2024.2160p.BluRay.DV.HDR10.x265.TrueHD.Atmos.7.1.mkv", 3)
	require.NoError(t, err)

	assert.Same(t, profile, result.Profile)
	assert.True(t, result.Match.AllMatch)
	assert.True(t, result.Match.HDRMatch.Matches)
	assert.True(t, result.Match.VideoCodecMatch.Matches)
	assert.Equal(t, quality.DefaultPreferredBonus, result.Match.TotalScore)
	assert.Equal(t, 110+quality.DefaultPreferredBonus, result.Match.CombinedScore)

	assert.True(t, result.Quality.Matches)
	assert.Equal(t, "Bluray-2160p", result.Quality.MatchedQuality)
}

func TestService_MatchRemuxQualityTier(t *testing.T) {
	profile := &quality.Profile{ID: 1, Name: "Any", Items: quality.DefaultProfile().Items}
	svc := newStubService(stubProfiles{1: profile})

	result, err := svc.Match(context.Background(), "Movie.2019.1080p.BluRay.REMUX.AVC.DTS-HD.MA.5.1", 1)
	require.NoError(t, err)
	assert.Equal(t, "Remux-1080p", result.Quality.MatchedQuality)
}

func TestService_MatchErrors(t *testing.T) {
	svc := newStubService(stubProfiles{})
	ctx := context.Background()

	_, err := svc.Match(ctx, "", 1)
	assert.ErrorIs(t, err, ErrReleaseTitleRequired)

	_, err = svc.Match(ctx, "Movie.2020.1080p", 0)
	assert.ErrorIs(t, err, ErrProfileIDRequired)

	_, err = svc.Match(ctx, "Movie.2020.1080p", -4)
	assert.ErrorIs(t, err, ErrProfileIDRequired)

	_, err = svc.Match(ctx, "Movie.2020.1080p", 99)
	assert.ErrorIs(t, err, quality.ErrProfileNotFound)
}
