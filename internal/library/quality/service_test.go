package quality

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipstream/qualityengine/internal/testutil"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	tdb := testutil.NewTestDB(t)
	t.Cleanup(tdb.Close)
	return NewService(tdb.Conn, tdb.Logger)
}

func TestService_CreateAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProfileInput{
		Name:               "4K DV",
		Items:              Ultra4KProfile().Items,
		HDRSettings:        AttributeRule{Mode: "required", Values: []string{"dovi", "HDR10"}},
		VideoCodecSettings: AttributeRule{Mode: "preferred", Values: []string{"hevc"}},
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "4K DV", got.Name)
	assert.Equal(t, AttributeRule{Mode: AttributeModeRequired, Values: []string{"DV", "HDR10"}}, got.HDRSettings)
	assert.Equal(t, AttributeRule{Mode: AttributeModePreferred, Values: []string{"x265"}}, got.VideoCodecSettings)
	assert.Equal(t, DefaultAttributeRule(), got.AudioCodecSettings)
	assert.Len(t, got.Items, len(PredefinedQualities))

	byName, err := svc.GetByName(ctx, "4K DV")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
}

func TestService_GetReturnsIndependentCopies(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, HD1080pProfile())
	require.NoError(t, err)

	a, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	a.VideoCodecSettings.Values[0] = "mutated"

	b, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "x264", b.VideoCodecSettings.Values[0])
}

func TestService_CreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateProfileInput
	}{
		{"blank name", CreateProfileInput{Name: "  "}},
		{"unknown mode", CreateProfileInput{Name: "x", HDRSettings: AttributeRule{Mode: "sometimes"}}},
		{"required without values", CreateProfileInput{Name: "x", AudioCodecSettings: AttributeRule{Mode: "required"}}},
		{"unknown quality", CreateProfileInput{Name: "x", Items: []QualityItem{{Quality: Quality{ID: 99}, Allowed: true}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.input)
			assert.ErrorIs(t, err, ErrInvalidProfile)
		})
	}
}

func TestService_CreateDuplicateName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProfileInput{Name: "Dup"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateProfileInput{Name: "Dup"})
	assert.ErrorIs(t, err, ErrProfileExists)
}

func TestService_UpdateAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, DefaultProfile())
	require.NoError(t, err)

	input := DefaultProfile()
	input.Name = "Renamed"
	input.AudioChannelSettings = AttributeRule{Mode: AttributeModeRequired, Values: []string{"6"}}
	updated, err := svc.Update(ctx, created.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, []string{"5.1"}, updated.AudioChannelSettings.Values)

	_, err = svc.Update(ctx, created.ID+100, input)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrProfileNotFound)

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestService_EnsureDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureDefaults(ctx, nil))
	profiles, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 3)

	names := []string{profiles[0].Name, profiles[1].Name, profiles[2].Name}
	assert.ElementsMatch(t, []string{"Any", "HD-1080p", "Ultra-HD"}, names)

	// Existing profiles are left alone
	require.NoError(t, svc.EnsureDefaults(ctx, []CreateProfileInput{{Name: "Seed"}}))
	profiles, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 3)
}

func TestService_EnsureDefaultsFromSeed(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureDefaults(ctx, []CreateProfileInput{{Name: "Seed"}}))
	profiles, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Seed", profiles[0].Name)
}

func TestService_Import(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProfileInput{Name: "Existing"})
	require.NoError(t, err)

	created, updated, err := svc.Import(ctx, []CreateProfileInput{
		{Name: "Existing", HDRSettings: AttributeRule{Mode: AttributeModePreferred, Values: []string{"DV"}}},
		{Name: "New"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, updated)

	existing, err := svc.GetByName(ctx, "Existing")
	require.NoError(t, err)
	assert.Equal(t, AttributeModePreferred, existing.HDRSettings.Mode)
}

func TestService_LegacyRuleFormat(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()
	svc := NewService(tdb.Conn, tdb.Logger)
	ctx := context.Background()

	_, err := tdb.Conn.ExecContext(ctx,
		`INSERT INTO quality_profiles (name, items, hdr_settings) VALUES (?, '[]', ?)`,
		"Legacy", `{"items":{"DV":"required","HDR10":"preferred"}}`)
	require.NoError(t, err)

	p, err := svc.GetByName(ctx, "Legacy")
	require.NoError(t, err)
	assert.Equal(t, AttributeRule{Mode: AttributeModeRequired, Values: []string{"DV"}}, p.HDRSettings)
	assert.Equal(t, DefaultAttributeRule(), p.VideoCodecSettings)
}
