package quality

import "strings"

// Quality score constants. Score is a relative ranking number, not a percentage.
const (
	DefaultScore2160p = 100
	DefaultScore1080p = 80
	DefaultScore720p  = 60
	DefaultScore480p  = 40

	DefaultRemuxBonus  = 15
	DefaultBlurayBonus = 10
	DefaultWebBonus    = 5
)

// AttributeRemux marks a release as a remux regardless of its source token.
const AttributeRemux = "REMUX"

// ScoreTable maps resolutions and sources onto quality score components.
// Keys are matched case-insensitively.
type ScoreTable struct {
	Resolutions map[string]int `mapstructure:"resolutions"`
	Sources     map[string]int `mapstructure:"sources"`
}

// DefaultScoreTable returns the built-in resolution and source scores.
func DefaultScoreTable() ScoreTable {
	return ScoreTable{
		Resolutions: map[string]int{
			"2160p": DefaultScore2160p,
			"1080p": DefaultScore1080p,
			"720p":  DefaultScore720p,
			"480p":  DefaultScore480p,
		},
		Sources: map[string]int{
			"REMUX":  DefaultRemuxBonus,
			"BluRay": DefaultBlurayBonus,
			"WEB-DL": DefaultWebBonus,
			"WEBRip": DefaultWebBonus,
		},
	}
}

var defaultScores = DefaultScoreTable()

// Score computes the quality score with the default table.
func Score(resolution, source string, attributes []string) int {
	return defaultScores.Score(resolution, source, attributes)
}

// Score computes resolution base + source modifier. A REMUX attribute
// applies the remux modifier when it beats the source's own modifier.
func (t ScoreTable) Score(resolution, source string, attributes []string) int {
	base := lookupFold(t.Resolutions, resolution)
	modifier := lookupFold(t.Sources, source)

	for _, attr := range attributes {
		if strings.EqualFold(attr, AttributeRemux) {
			if remux := lookupFold(t.Sources, AttributeRemux); remux > modifier {
				modifier = remux
			}
			break
		}
	}

	return base + modifier
}

// ResolutionScore returns only the resolution component.
func (t ScoreTable) ResolutionScore(resolution string) int {
	return lookupFold(t.Resolutions, resolution)
}

func lookupFold(m map[string]int, key string) int {
	if key == "" {
		return 0
	}
	if v, ok := m[key]; ok {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return 0
}
