package quality

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// AttributeMode defines how strongly a profile cares about one attribute dimension.
type AttributeMode string

const (
	AttributeModeNone      AttributeMode = "none"      // No filtering, accept anything
	AttributeModePreferred AttributeMode = "preferred" // Scoring bonus for matches
	AttributeModeRequired  AttributeMode = "required"  // Hard filter, must match
)

// ParseAttributeMode maps user input onto an AttributeMode.
// "any" and "acceptable" are older spellings of "none".
func ParseAttributeMode(s string) (AttributeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "any", "acceptable":
		return AttributeModeNone, nil
	case "preferred":
		return AttributeModePreferred, nil
	case "required":
		return AttributeModeRequired, nil
	default:
		return "", fmt.Errorf("unknown attribute mode %q", s)
	}
}

// AttributeRule is a profile's rule for a single attribute dimension.
type AttributeRule struct {
	Mode   AttributeMode `json:"mode" yaml:"mode"`
	Values []string      `json:"values" yaml:"values"`
}

// DefaultAttributeRule returns a rule that accepts anything.
func DefaultAttributeRule() AttributeRule {
	return AttributeRule{Mode: AttributeModeNone, Values: []string{}}
}

// Dimension identifies one attribute dimension of a release.
type Dimension string

const (
	DimensionHDR           Dimension = "hdr"
	DimensionVideoCodec    Dimension = "videoCodec"
	DimensionAudioCodec    Dimension = "audioCodec"
	DimensionAudioChannels Dimension = "audioChannels"
)

// Label returns the human readable name used in mismatch reasons.
func (d Dimension) Label() string {
	switch d {
	case DimensionHDR:
		return "HDR format"
	case DimensionVideoCodec:
		return "video codec"
	case DimensionAudioCodec:
		return "audio codec"
	case DimensionAudioChannels:
		return "audio channels"
	default:
		return string(d)
	}
}

// Normalize canonicalizes a single value for this dimension.
func (d Dimension) Normalize(value string) string {
	switch d {
	case DimensionHDR:
		return NormalizeHDRFormat(value)
	case DimensionVideoCodec:
		return NormalizeVideoCodec(value)
	case DimensionAudioCodec:
		return NormalizeAudioCodec(value)
	case DimensionAudioChannels:
		return NormalizeAudioChannels(value)
	default:
		return strings.TrimSpace(value)
	}
}

// NormalizeRule validates the mode and canonicalizes the values of a rule.
// Empty values are dropped and duplicates collapsed, keeping first-seen order.
func NormalizeRule(d Dimension, rule AttributeRule) (AttributeRule, error) {
	mode, err := ParseAttributeMode(string(rule.Mode))
	if err != nil {
		return AttributeRule{}, fmt.Errorf("%s: %w", d.Label(), err)
	}

	values := make([]string, 0, len(rule.Values))
	seen := make(map[string]bool, len(rule.Values))
	for _, v := range rule.Values {
		n := d.Normalize(v)
		if n == "" || seen[strings.ToLower(n)] {
			continue
		}
		seen[strings.ToLower(n)] = true
		values = append(values, n)
	}

	return AttributeRule{Mode: mode, Values: values}, nil
}

// Supported attribute values

// HDRFormats lists all supported HDR format identifiers
var HDRFormats = []string{
	"DV",     // Dolby Vision
	"HDR10+", // HDR10+
	"HDR10",  // HDR10
	"HDR",    // Generic HDR
	"HLG",    // Hybrid Log-Gamma
}

// VideoCodecs lists all supported video codec identifiers
var VideoCodecs = []string{
	"x265",  // H.265/HEVC
	"x264",  // H.264/AVC
	"AV1",   // AV1
	"VP9",   // VP9
	"XviD",  // XviD
	"DivX",  // DivX
	"MPEG2", // MPEG-2
}

// AudioCodecs lists all supported audio codec identifiers
var AudioCodecs = []string{
	"Atmos",  // Dolby Atmos
	"DTS-X",  // DTS:X
	"DTS-HD", // DTS-HD (incl. Master Audio)
	"TrueHD", // Dolby TrueHD
	"DTS",    // DTS
	"DD+",    // Dolby Digital Plus (E-AC3)
	"DD",     // Dolby Digital (AC3)
	"AAC",    // AAC
	"FLAC",   // FLAC
}

// AudioChannels lists the common audio channel configurations
var AudioChannels = []string{
	"7.1", // 7.1 surround
	"5.1", // 5.1 surround
	"2.0", // Stereo
	"1.0", // Mono
}

// SerializeAttributeRule converts an AttributeRule to a JSON string
func SerializeAttributeRule(rule AttributeRule) (string, error) {
	if rule.Values == nil {
		rule.Values = []string{}
	}
	if rule.Mode == "" {
		rule.Mode = AttributeModeNone
	}
	data, err := json.Marshal(rule)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// itemsAttributeSettings is the per-item format stored by older releases:
// {"items": {"DV": "required", "HDR10": "preferred"}}
type itemsAttributeSettings struct {
	Items map[string]string `json:"items"`
}

// DeserializeAttributeRule parses JSON to an AttributeRule.
// Handles the older per-item format by collapsing it onto the strongest mode present.
func DeserializeAttributeRule(data string) (AttributeRule, error) {
	if data == "" {
		return DefaultAttributeRule(), nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &probe); err != nil {
		return DefaultAttributeRule(), err
	}

	if _, ok := probe["items"]; ok {
		var items itemsAttributeSettings
		if err := json.Unmarshal([]byte(data), &items); err != nil {
			return DefaultAttributeRule(), err
		}
		return convertItemSettings(items), nil
	}

	var rule AttributeRule
	if err := json.Unmarshal([]byte(data), &rule); err != nil {
		return DefaultAttributeRule(), err
	}
	mode, err := ParseAttributeMode(string(rule.Mode))
	if err != nil {
		return DefaultAttributeRule(), err
	}
	rule.Mode = mode
	if rule.Values == nil {
		rule.Values = []string{}
	}
	return rule, nil
}

// convertItemSettings picks required values if any exist, otherwise preferred ones.
// notAllowed entries have no equivalent and are dropped.
func convertItemSettings(settings itemsAttributeSettings) AttributeRule {
	var required, preferred []string
	for value, mode := range settings.Items {
		switch AttributeMode(mode) {
		case AttributeModeRequired:
			required = append(required, value)
		case AttributeModePreferred:
			preferred = append(preferred, value)
		}
	}

	switch {
	case len(required) > 0:
		sort.Strings(required)
		return AttributeRule{Mode: AttributeModeRequired, Values: required}
	case len(preferred) > 0:
		sort.Strings(preferred)
		return AttributeRule{Mode: AttributeModePreferred, Values: preferred}
	default:
		return DefaultAttributeRule()
	}
}

// NormalizeHDRFormat normalizes an HDR label to a standard identifier
func NormalizeHDRFormat(format string) string {
	format = strings.TrimSpace(format)

	switch strings.ToUpper(format) {
	case "DV", "DOVI", "DOLBY VISION", "DOLBYVISION":
		return "DV"
	case "HDR10+", "HDR10PLUS", "HDR10 PLUS":
		return "HDR10+"
	case "HDR10":
		return "HDR10"
	case "HDR":
		return "HDR"
	case "HLG":
		return "HLG"
	default:
		return format
	}
}

// NormalizeVideoCodec normalizes a parsed video codec to a standard identifier
func NormalizeVideoCodec(codec string) string {
	codec = strings.TrimSpace(codec)

	switch strings.ToUpper(codec) {
	case "H264", "H.264", "AVC", "X264":
		return "x264"
	case "H265", "H.265", "HEVC", "X265":
		return "x265"
	case "AV1":
		return "AV1"
	case "VP9":
		return "VP9"
	case "XVID":
		return "XviD"
	case "DIVX":
		return "DivX"
	case "MPEG2", "MPEG-2":
		return "MPEG2"
	default:
		return codec
	}
}

// NormalizeAudioCodec normalizes a parsed audio codec to a standard identifier
func NormalizeAudioCodec(codec string) string {
	codec = strings.TrimSpace(codec)

	switch strings.ToUpper(codec) {
	case "ATMOS", "DOLBY ATMOS":
		return "Atmos"
	case "DTS-X", "DTSX", "DTS:X":
		return "DTS-X"
	case "DTS-HD", "DTSHD", "DTS-HD MA", "DTSHD MA", "DTS-HDMA", "DTSHDMA":
		return "DTS-HD"
	case "TRUEHD", "TRUE-HD":
		return "TrueHD"
	case "DTS":
		return "DTS"
	case "DD+", "DDP", "DOLBY DIGITAL PLUS", "EAC3", "E-AC3", "E-AC-3":
		return "DD+"
	case "DD", "AC3", "AC-3", "DOLBY DIGITAL":
		return "DD"
	case "AAC":
		return "AAC"
	case "FLAC":
		return "FLAC"
	default:
		return codec
	}
}

// NormalizeAudioChannels normalizes channel configuration to standard format
func NormalizeAudioChannels(channels string) string {
	channels = strings.TrimSpace(channels)

	switch strings.ToLower(channels) {
	case "7.1", "8":
		return "7.1"
	case "5.1", "6":
		return "5.1"
	case "2.0", "2", "stereo":
		return "2.0"
	case "1.0", "1", "mono":
		return "1.0"
	default:
		return channels
	}
}
