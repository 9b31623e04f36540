package quality

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
profiles:
  - name: Remux Only
    hdrSettings:
      mode: required
      values: [DV, HDR10]
    audioCodecSettings:
      mode: preferred
      values: [TrueHD]
  - name: Anything
`

func TestDecodeProfilesYAML(t *testing.T) {
	profiles, err := DecodeProfilesYAML(strings.NewReader(seedYAML))
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	assert.Equal(t, "Remux Only", profiles[0].Name)
	assert.Equal(t, AttributeModeRequired, profiles[0].HDRSettings.Mode)
	assert.Equal(t, []string{"DV", "HDR10"}, profiles[0].HDRSettings.Values)
	assert.Len(t, profiles[0].Items, len(PredefinedQualities), "missing items default to every quality")
	assert.Equal(t, "Anything", profiles[1].Name)
}

func TestDecodeProfilesYAML_UnknownField(t *testing.T) {
	_, err := DecodeProfilesYAML(strings.NewReader("profiles:\n  - name: x\n    cutoff: 3\n"))
	assert.Error(t, err)
}

func TestDecodeProfilesYAML_Empty(t *testing.T) {
	profiles, err := DecodeProfilesYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestWriteAndLoadProfilesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	in := []*Profile{{
		ID:                   7,
		Name:                 "Export",
		Items:                HD1080pProfile().Items,
		HDRSettings:          DefaultAttributeRule(),
		VideoCodecSettings:   AttributeRule{Mode: AttributeModeRequired, Values: []string{"x265"}},
		AudioCodecSettings:   DefaultAttributeRule(),
		AudioChannelSettings: DefaultAttributeRule(),
	}}

	require.NoError(t, WriteProfilesYAML(path, in))

	out, err := LoadProfilesYAML(path)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Export", out[0].Name)
	assert.Equal(t, in[0].VideoCodecSettings, out[0].VideoCodecSettings)
	assert.Equal(t, in[0].Items, out[0].Items)
}

func TestEncodeProfilesYAML_OmitsIDs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeProfilesYAML(&buf, []*Profile{{ID: 42, Name: "NoID"}}))
	assert.NotContains(t, buf.String(), "42")
	assert.Contains(t, buf.String(), "name: NoID")
}

func TestLoadProfilesYAML_MissingFile(t *testing.T) {
	_, err := LoadProfilesYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
