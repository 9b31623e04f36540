package quality

import (
	"strings"
)

const (
	sourceBluray = "bluray"
	sourceRemux  = "remux"

	// DefaultPreferredBonus is awarded once per preferred dimension that matches.
	DefaultPreferredBonus = 10

	emptyReleaseValue = "(empty)"
)

// MatchOptions tunes how dimensions are scored.
type MatchOptions struct {
	PreferredBonus int

	// AudioChannelsAsSequence matches channels like HDR/audio codecs
	// (any detected layout) instead of only the primary layout.
	AudioChannelsAsSequence bool
}

// DefaultMatchOptions returns the built-in matching options.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{PreferredBonus: DefaultPreferredBonus}
}

// AttributeMatchResult is the verdict for one attribute dimension.
type AttributeMatchResult struct {
	Mode          AttributeMode `json:"mode"`
	Matches       bool          `json:"matches"`
	ProfileValues []string      `json:"profileValues"`
	ReleaseValue  string        `json:"releaseValue"`
	Score         int           `json:"score"`
	Reason        string        `json:"reason,omitempty"`
}

// Blocks reports whether this result fails the overall match.
func (r AttributeMatchResult) Blocks() bool {
	return r.Mode == AttributeModeRequired && !r.Matches
}

// MatchDimension evaluates the release values of one dimension against a rule.
// Sequence dimensions match when any release value is accepted; scalar
// dimensions only look at the first (primary) value.
func MatchDimension(dim Dimension, rule AttributeRule, releaseValues []string, sequence bool, opts MatchOptions) AttributeMatchResult {
	profileValues := rule.Values
	if profileValues == nil {
		profileValues = []string{}
	}

	releaseValue := ""
	candidates := releaseValues
	if sequence {
		releaseValue = strings.Join(releaseValues, ", ")
	} else if len(releaseValues) > 0 {
		releaseValue = releaseValues[0]
		candidates = releaseValues[:1]
	}

	result := AttributeMatchResult{
		Mode:          rule.Mode,
		ProfileValues: profileValues,
		ReleaseValue:  releaseValue,
	}

	switch rule.Mode {
	case AttributeModeRequired:
		result.Matches = containsAnyFold(profileValues, candidates)
		if !result.Matches {
			result.Reason = requiredReason(dim, profileValues, releaseValue)
		}
	case AttributeModePreferred:
		result.Matches = containsAnyFold(profileValues, candidates)
		if result.Matches && opts.PreferredBonus > 0 {
			result.Score = opts.PreferredBonus
		}
	default:
		result.Mode = AttributeModeNone
		result.Matches = true
	}

	return result
}

func requiredReason(dim Dimension, profileValues []string, releaseValue string) string {
	got := releaseValue
	if got == "" {
		got = emptyReleaseValue
	}
	return "release does not contain required " + dim.Label() +
		": expected one of [" + strings.Join(profileValues, ", ") + "], got " + got
}

func containsAnyFold(accepted, values []string) bool {
	for _, v := range values {
		for _, a := range accepted {
			if strings.EqualFold(a, v) {
				return true
			}
		}
	}
	return false
}

// ReleaseAttributes is the attribute view of a parsed release.
type ReleaseAttributes struct {
	HDRFormats    []string
	VideoCodec    string
	AudioCodecs   []string
	AudioChannels []string
}

// ProfileRules holds a profile's rule for each attribute dimension.
type ProfileRules struct {
	HDR           AttributeRule
	VideoCodec    AttributeRule
	AudioCodec    AttributeRule
	AudioChannels AttributeRule
}

// ProfileMatchResult aggregates the per-dimension verdicts.
type ProfileMatchResult struct {
	HDRMatch          AttributeMatchResult
	VideoCodecMatch   AttributeMatchResult
	AudioCodecMatch   AttributeMatchResult
	AudioChannelMatch AttributeMatchResult

	AllMatch      bool
	TotalScore    int
	QualityScore  int
	CombinedScore int
}

// RejectionReasons lists the reasons of every blocking dimension.
func (r *ProfileMatchResult) RejectionReasons() []string {
	var reasons []string
	if r.HDRMatch.Blocks() {
		reasons = append(reasons, "HDR: "+r.HDRMatch.Reason)
	}
	if r.VideoCodecMatch.Blocks() {
		reasons = append(reasons, "Video: "+r.VideoCodecMatch.Reason)
	}
	if r.AudioCodecMatch.Blocks() {
		reasons = append(reasons, "Audio: "+r.AudioCodecMatch.Reason)
	}
	if r.AudioChannelMatch.Blocks() {
		reasons = append(reasons, "Channels: "+r.AudioChannelMatch.Reason)
	}
	return reasons
}

// MatchProfile runs every dimension of the rules against a release.
// Only required dimensions can fail the overall verdict.
func MatchProfile(release *ReleaseAttributes, qualityScore int, rules ProfileRules, opts MatchOptions) ProfileMatchResult {
	var videoCodec []string
	if release.VideoCodec != "" {
		videoCodec = []string{release.VideoCodec}
	}

	result := ProfileMatchResult{
		HDRMatch:          MatchDimension(DimensionHDR, rules.HDR, release.HDRFormats, true, opts),
		VideoCodecMatch:   MatchDimension(DimensionVideoCodec, rules.VideoCodec, videoCodec, false, opts),
		AudioCodecMatch:   MatchDimension(DimensionAudioCodec, rules.AudioCodec, release.AudioCodecs, true, opts),
		AudioChannelMatch: MatchDimension(DimensionAudioChannels, rules.AudioChannels, release.AudioChannels, opts.AudioChannelsAsSequence, opts),
		QualityScore:      qualityScore,
	}

	result.AllMatch = !result.HDRMatch.Blocks() &&
		!result.VideoCodecMatch.Blocks() &&
		!result.AudioCodecMatch.Blocks() &&
		!result.AudioChannelMatch.Blocks()

	result.TotalScore = result.HDRMatch.Score +
		result.VideoCodecMatch.Score +
		result.AudioCodecMatch.Score +
		result.AudioChannelMatch.Score

	result.CombinedScore = result.QualityScore + result.TotalScore

	return result
}

// IsAttributeMatch reports whether a release passes every required rule of the profile.
func (p *Profile) IsAttributeMatch(release *ReleaseAttributes) bool {
	result := MatchProfile(release, 0, p.Rules(), DefaultMatchOptions())
	return result.AllMatch
}

type QualityMatchResult struct {
	Matches          bool
	MatchedQualityID int
	MatchedQuality   string
	Score            int
	Reason           string
}

// MatchQuality finds the profile quality tier a release falls into.
// An exact resolution+source tier wins; otherwise any allowed tier of the
// same resolution is accepted.
func MatchQuality(resolution, source string, profile *Profile) QualityMatchResult {
	if resolution == "" {
		return QualityMatchResult{
			Matches: false,
			Reason:  "Resolution not detected from release",
		}
	}

	resolutionInt := parseResolution(resolution)
	if resolutionInt == 0 {
		return QualityMatchResult{
			Matches: false,
			Reason:  "Unknown resolution: " + resolution,
		}
	}

	normalizedSource := normalizeSource(source)

	for _, item := range profile.Items {
		if !item.Allowed {
			continue
		}

		if item.Quality.Resolution != resolutionInt {
			continue
		}

		if normalizedSource == item.Quality.Source {
			return QualityMatchResult{
				Matches:          true,
				MatchedQualityID: item.Quality.ID,
				MatchedQuality:   item.Quality.Name,
				Score:            item.Quality.Weight,
			}
		}
	}

	for _, item := range profile.Items {
		if !item.Allowed {
			continue
		}
		if item.Quality.Resolution == resolutionInt {
			return QualityMatchResult{
				Matches:          true,
				MatchedQualityID: item.Quality.ID,
				MatchedQuality:   item.Quality.Name,
				Score:            item.Quality.Weight,
			}
		}
	}

	return QualityMatchResult{
		Matches: false,
		Reason:  "No allowed quality in profile matches " + resolution,
	}
}

func parseResolution(resolution string) int {
	switch strings.ToUpper(resolution) {
	case "2160P", "4K", "UHD":
		return 2160
	case "1080P":
		return 1080
	case "720P":
		return 720
	case "480P", "SD":
		return 480
	default:
		return 0
	}
}

func normalizeSource(source string) string {
	switch strings.ToUpper(source) {
	case "BLURAY", "BLU-RAY", "BDRIP", "BRRIP":
		return sourceBluray
	case "WEB-DL", "WEBDL", "WEB":
		return "webdl"
	case "WEBRIP":
		return "webrip"
	case "HDTV", "SDTV", "PDTV":
		return "tv"
	case "DVDRIP", "DVD":
		return "dvd"
	case "REMUX":
		return sourceRemux
	default:
		return strings.ToLower(source)
	}
}
