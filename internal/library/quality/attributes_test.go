package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttributeMode(t *testing.T) {
	tests := []struct {
		input   string
		want    AttributeMode
		wantErr bool
	}{
		{"", AttributeModeNone, false},
		{"none", AttributeModeNone, false},
		{"acceptable", AttributeModeNone, false},
		{"Preferred", AttributeModePreferred, false},
		{" REQUIRED ", AttributeModeRequired, false},
		{"notAllowed", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAttributeMode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeRule(t *testing.T) {
	got, err := NormalizeRule(DimensionAudioCodec, AttributeRule{
		Mode:   "preferred",
		Values: []string{"ddp", "DD+", " truehd ", "", "EAC3", "dts-hd ma"},
	})
	require.NoError(t, err)
	assert.Equal(t, AttributeModePreferred, got.Mode)
	assert.Equal(t, []string{"DD+", "TrueHD", "DTS-HD"}, got.Values)
}

func TestNormalizeRule_InvalidMode(t *testing.T) {
	_, err := NormalizeRule(DimensionHDR, AttributeRule{Mode: "sometimes"})
	assert.ErrorContains(t, err, "HDR format")
}

func TestDeserializeAttributeRule(t *testing.T) {
	tests := []struct {
		name string
		data string
		want AttributeRule
	}{
		{
			name: "empty",
			data: "",
			want: DefaultAttributeRule(),
		},
		{
			name: "current format",
			data: `{"mode":"required","values":["DV","HDR10"]}`,
			want: AttributeRule{Mode: AttributeModeRequired, Values: []string{"DV", "HDR10"}},
		},
		{
			name: "missing values",
			data: `{"mode":"preferred"}`,
			want: AttributeRule{Mode: AttributeModePreferred, Values: []string{}},
		},
		{
			name: "legacy required wins over preferred",
			data: `{"items":{"HDR10":"preferred","HDR10+":"required","DV":"required","HLG":"notAllowed"}}`,
			want: AttributeRule{Mode: AttributeModeRequired, Values: []string{"DV", "HDR10+"}},
		},
		{
			name: "legacy preferred only",
			data: `{"items":{"x265":"preferred","AV1":"preferred"}}`,
			want: AttributeRule{Mode: AttributeModePreferred, Values: []string{"AV1", "x265"}},
		},
		{
			name: "legacy empty",
			data: `{"items":{}}`,
			want: DefaultAttributeRule(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeserializeAttributeRule(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeserializeAttributeRule_Invalid(t *testing.T) {
	_, err := DeserializeAttributeRule(`not json`)
	assert.Error(t, err)

	_, err = DeserializeAttributeRule(`{"mode":"maybe","values":[]}`)
	assert.Error(t, err)
}

func TestSerializeAttributeRule_FillsDefaults(t *testing.T) {
	got, err := SerializeAttributeRule(AttributeRule{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"none","values":[]}`, got)
}

func TestNormalizeValues(t *testing.T) {
	tests := []struct {
		dim   Dimension
		input string
		want  string
	}{
		{DimensionHDR, "dolby vision", "DV"},
		{DimensionHDR, "hdr10plus", "HDR10+"},
		{DimensionVideoCodec, "HEVC", "x265"},
		{DimensionVideoCodec, "h.264", "x264"},
		{DimensionVideoCodec, "xvid", "XviD"},
		{DimensionAudioCodec, "dts:x", "DTS-X"},
		{DimensionAudioCodec, "ac3", "DD"},
		{DimensionAudioChannels, "6", "5.1"},
		{DimensionAudioChannels, "stereo", "2.0"},
		{DimensionAudioChannels, "3.1", "3.1"},
	}

	for _, tt := range tests {
		if got := tt.dim.Normalize(tt.input); got != tt.want {
			t.Errorf("%s.Normalize(%q) = %q, want %q", tt.dim, tt.input, got, tt.want)
		}
	}
}
