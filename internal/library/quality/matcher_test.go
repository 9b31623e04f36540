package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rule(mode AttributeMode, values ...string) AttributeRule {
	if values == nil {
		values = []string{}
	}
	return AttributeRule{Mode: mode, Values: values}
}

func TestMatchDimension(t *testing.T) {
	opts := DefaultMatchOptions()

	tests := []struct {
		name        string
		dim         Dimension
		rule        AttributeRule
		values      []string
		sequence    bool
		wantMatches bool
		wantScore   int
		wantReason  string
		wantRelease string
	}{
		{
			name:        "none always matches",
			dim:         DimensionVideoCodec,
			rule:        DefaultAttributeRule(),
			values:      []string{"x265"},
			wantMatches: true,
			wantRelease: "x265",
		},
		{
			name:        "none matches with nothing detected",
			dim:         DimensionHDR,
			rule:        rule(AttributeModeNone, "DV"),
			sequence:    true,
			wantMatches: true,
		},
		{
			name:        "required scalar match",
			dim:         DimensionVideoCodec,
			rule:        rule(AttributeModeRequired, "x264", "x265"),
			values:      []string{"x265"},
			wantMatches: true,
			wantRelease: "x265",
		},
		{
			name:        "required scalar mismatch",
			dim:         DimensionVideoCodec,
			rule:        rule(AttributeModeRequired, "x265"),
			values:      []string{"x264"},
			wantMatches: false,
			wantReason:  "release does not contain required video codec: expected one of [x265], got x264",
			wantRelease: "x264",
		},
		{
			name:        "required scalar only checks primary value",
			dim:         DimensionAudioChannels,
			rule:        rule(AttributeModeRequired, "5.1"),
			values:      []string{"7.1", "5.1"},
			wantMatches: false,
			wantReason:  "release does not contain required audio channels: expected one of [5.1], got 7.1",
			wantRelease: "7.1",
		},
		{
			name:        "required sequence matches any value",
			dim:         DimensionHDR,
			rule:        rule(AttributeModeRequired, "DV"),
			values:      []string{"HDR10", "DV"},
			sequence:    true,
			wantMatches: true,
			wantRelease: "HDR10, DV",
		},
		{
			name:        "required with nothing detected",
			dim:         DimensionHDR,
			rule:        rule(AttributeModeRequired, "DV", "HDR10"),
			sequence:    true,
			wantMatches: false,
			wantReason:  "release does not contain required HDR format: expected one of [DV, HDR10], got (empty)",
		},
		{
			name:        "preferred match earns bonus",
			dim:         DimensionAudioCodec,
			rule:        rule(AttributeModePreferred, "TrueHD"),
			values:      []string{"TrueHD", "Atmos"},
			sequence:    true,
			wantMatches: true,
			wantScore:   DefaultPreferredBonus,
			wantRelease: "TrueHD, Atmos",
		},
		{
			name:        "preferred miss scores zero without reason",
			dim:         DimensionAudioCodec,
			rule:        rule(AttributeModePreferred, "TrueHD"),
			values:      []string{"AAC"},
			sequence:    true,
			wantMatches: false,
			wantRelease: "AAC",
		},
		{
			name:        "comparison ignores case",
			dim:         DimensionHDR,
			rule:        rule(AttributeModeRequired, "dv"),
			values:      []string{"DV"},
			sequence:    true,
			wantMatches: true,
			wantRelease: "DV",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchDimension(tt.dim, tt.rule, tt.values, tt.sequence, opts)
			assert.Equal(t, tt.wantMatches, got.Matches, "Matches")
			assert.Equal(t, tt.wantScore, got.Score, "Score")
			assert.Equal(t, tt.wantReason, got.Reason, "Reason")
			assert.Equal(t, tt.wantRelease, got.ReleaseValue, "ReleaseValue")
			assert.NotNil(t, got.ProfileValues)
		})
	}
}

func TestMatchDimension_EmptyModeIsNone(t *testing.T) {
	got := MatchDimension(DimensionHDR, AttributeRule{}, nil, true, DefaultMatchOptions())
	assert.Equal(t, AttributeModeNone, got.Mode)
	assert.True(t, got.Matches)
	assert.Equal(t, []string{}, got.ProfileValues)
}

func TestMatchDimension_CustomBonus(t *testing.T) {
	opts := MatchOptions{PreferredBonus: 25}
	got := MatchDimension(DimensionVideoCodec, rule(AttributeModePreferred, "x265"), []string{"x265"}, false, opts)
	assert.Equal(t, 25, got.Score)
}

func TestMatchProfile(t *testing.T) {
	release := &ReleaseAttributes{
		HDRFormats:    []string{"DV", "HDR10"},
		VideoCodec:    "x265",
		AudioCodecs:   []string{"TrueHD", "Atmos"},
		AudioChannels: []string{"7.1"},
	}

	tests := []struct {
		name          string
		rules         ProfileRules
		wantAllMatch  bool
		wantTotal     int
		wantRejection int
	}{
		{
			name:         "all none",
			rules:        ProfileRules{},
			wantAllMatch: true,
		},
		{
			name: "every preferred dimension matches",
			rules: ProfileRules{
				HDR:           rule(AttributeModePreferred, "DV"),
				VideoCodec:    rule(AttributeModePreferred, "x265"),
				AudioCodec:    rule(AttributeModePreferred, "Atmos"),
				AudioChannels: rule(AttributeModePreferred, "7.1"),
			},
			wantAllMatch: true,
			wantTotal:    40,
		},
		{
			name: "required failure blocks but preferred still scores",
			rules: ProfileRules{
				HDR:        rule(AttributeModeRequired, "HLG"),
				VideoCodec: rule(AttributeModePreferred, "x265"),
			},
			wantAllMatch:  false,
			wantTotal:     10,
			wantRejection: 1,
		},
		{
			name: "preferred miss never blocks",
			rules: ProfileRules{
				VideoCodec: rule(AttributeModePreferred, "AV1"),
				AudioCodec: rule(AttributeModeRequired, "TrueHD"),
			},
			wantAllMatch: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchProfile(release, 100, tt.rules, DefaultMatchOptions())
			assert.Equal(t, tt.wantAllMatch, got.AllMatch)
			assert.Equal(t, tt.wantTotal, got.TotalScore)
			assert.Equal(t, 100, got.QualityScore)
			assert.Equal(t, 100+tt.wantTotal, got.CombinedScore)
			assert.Len(t, got.RejectionReasons(), tt.wantRejection)
		})
	}
}

func TestMatchProfile_AudioChannelsAsSequence(t *testing.T) {
	release := &ReleaseAttributes{AudioChannels: []string{"7.1", "5.1"}}
	rules := ProfileRules{AudioChannels: rule(AttributeModeRequired, "5.1")}

	scalar := MatchProfile(release, 0, rules, DefaultMatchOptions())
	assert.False(t, scalar.AllMatch)
	assert.Equal(t, "7.1", scalar.AudioChannelMatch.ReleaseValue)

	opts := DefaultMatchOptions()
	opts.AudioChannelsAsSequence = true
	sequence := MatchProfile(release, 0, rules, opts)
	assert.True(t, sequence.AllMatch)
	assert.Equal(t, "7.1, 5.1", sequence.AudioChannelMatch.ReleaseValue)
}

func TestMatchProfile_Deterministic(t *testing.T) {
	release := &ReleaseAttributes{HDRFormats: []string{"HDR10"}, VideoCodec: "x264"}
	rules := ProfileRules{
		HDR:        rule(AttributeModeRequired, "DV", "HDR10+", "HLG"),
		VideoCodec: rule(AttributeModeRequired, "x265", "AV1"),
	}

	first := MatchProfile(release, 80, rules, DefaultMatchOptions())
	for i := 0; i < 20; i++ {
		require.Equal(t, first, MatchProfile(release, 80, rules, DefaultMatchOptions()))
	}
	assert.Equal(t, "release does not contain required HDR format: expected one of [DV, HDR10+, HLG], got HDR10", first.HDRMatch.Reason)
}

func TestProfile_IsAttributeMatch(t *testing.T) {
	profile := &Profile{
		HDRSettings:          rule(AttributeModeRequired, "DV"),
		VideoCodecSettings:   DefaultAttributeRule(),
		AudioCodecSettings:   DefaultAttributeRule(),
		AudioChannelSettings: DefaultAttributeRule(),
	}

	assert.True(t, profile.IsAttributeMatch(&ReleaseAttributes{HDRFormats: []string{"HDR10", "DV"}}))
	assert.False(t, profile.IsAttributeMatch(&ReleaseAttributes{HDRFormats: []string{"HDR10"}}))
}

func TestMatchQuality(t *testing.T) {
	hd := &Profile{Items: profileItems(func(q Quality) bool {
		return q.Resolution >= 720 && q.Resolution <= 1080
	})}

	tests := []struct {
		name        string
		resolution  string
		source      string
		wantMatches bool
		wantQuality string
	}{
		{"exact bluray tier", "1080p", "BluRay", true, "Bluray-1080p"},
		{"exact webdl tier", "720p", "WEB-DL", true, "WEBDL-720p"},
		{"remux tier", "1080p", "REMUX", true, "Remux-1080p"},
		{"unknown source falls back to resolution", "1080p", "CAM", true, "HDTV-1080p"},
		{"resolution not allowed", "2160p", "BluRay", false, ""},
		{"no resolution", "", "BluRay", false, ""},
		{"unknown resolution", "1440p", "BluRay", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchQuality(tt.resolution, tt.source, hd)
			if got.Matches != tt.wantMatches {
				t.Errorf("MatchQuality(%q, %q).Matches = %v, want %v", tt.resolution, tt.source, got.Matches, tt.wantMatches)
			}
			if got.MatchedQuality != tt.wantQuality {
				t.Errorf("MatchQuality(%q, %q).MatchedQuality = %q, want %q", tt.resolution, tt.source, got.MatchedQuality, tt.wantQuality)
			}
			if !got.Matches && got.Reason == "" {
				t.Errorf("MatchQuality(%q, %q) failed without a reason", tt.resolution, tt.source)
			}
		})
	}
}
