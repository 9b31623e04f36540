package scanner

import (
	"path/filepath"

	"github.com/slipstream/qualityengine/internal/library/quality"
)

// ParsedMedia represents a release parsed from its title or filename.
type ParsedMedia struct {
	Title         string   `json:"title"`
	Year          int      `json:"year,omitempty"`
	Quality       string   `json:"quality,omitempty"`    // "720p", "1080p", "2160p"
	Resolution    int      `json:"resolution,omitempty"` // 720, 1080, 2160
	Source        string   `json:"source,omitempty"`     // "BluRay", "WEB-DL", "REMUX"
	VideoCodec    string   `json:"videoCodec,omitempty"` // "x264", "x265", "AV1"
	HDRFormats    []string `json:"hdrFormats"`
	AudioCodecs   []string `json:"audioCodecs"`
	AudioChannels []string `json:"audioChannels"`
	Attributes    []string `json:"attributes"` // REMUX, PROPER, REPACK
	QualityScore  int      `json:"qualityScore"`

	Season       int    `json:"season,omitempty"`     // 0 for movies or full-series packs
	Episode      int    `json:"episode,omitempty"`    // 0 for movies or season packs
	EndEpisode   int    `json:"endEpisode,omitempty"` // For multi-episode files
	IsSeasonPack bool   `json:"isSeasonPack,omitempty"`
	IsTV         bool   `json:"isTv"`
	ReleaseGroup string `json:"releaseGroup,omitempty"`

	FilePath string `json:"filePath,omitempty"`
	FileSize int64  `json:"fileSize,omitempty"`
}

// ParseFilename parses a release title or filename using the default
// quality scores.
func ParseFilename(filename string) *ParsedMedia {
	return ParseWithScores(filename, quality.DefaultScoreTable())
}

// ParseWithScores parses a release title and scores it with the given table.
// It never fails; unrecognised input ends up in Title.
func ParseWithScores(filename string, scores quality.ScoreTable) *ParsedMedia {
	raw := Extract(filename)

	parsed := &ParsedMedia{
		Title:         raw.Title,
		Year:          raw.Year,
		Quality:       raw.Resolution,
		Resolution:    resolutionValue(raw.Resolution),
		Source:        raw.Source,
		VideoCodec:    raw.VideoCodec,
		HDRFormats:    raw.HDRFormats,
		AudioCodecs:   raw.AudioCodecs,
		AudioChannels: raw.AudioChannels,
		Attributes:    raw.Attributes,
		Season:        raw.Season,
		Episode:       raw.Episode,
		EndEpisode:    raw.EndEpisode,
		IsSeasonPack:  raw.IsSeasonPack,
		IsTV:          raw.IsTV,
		ReleaseGroup:  raw.ReleaseGroup,
	}
	parsed.QualityScore = scores.Score(parsed.Quality, parsed.Source, parsed.Attributes)

	return parsed
}

// ParsePath parses the filename of a path. Movies without a year in the
// filename borrow title and year from the parent folder.
func ParsePath(fullPath string, scores quality.ScoreTable) *ParsedMedia {
	parsed := ParseWithScores(filepath.Base(fullPath), scores)

	if !parsed.IsTV && parsed.Year == 0 {
		folder := Extract(filepath.Base(filepath.Dir(fullPath)))
		if folder.Year != 0 {
			parsed.Year = folder.Year
			if folder.Title != "" {
				parsed.Title = folder.Title
			}
		}
	}

	parsed.FilePath = fullPath
	return parsed
}

// IsRemux reports whether the release is a remux.
func (p *ParsedMedia) IsRemux() bool {
	if p.Source == quality.AttributeRemux {
		return true
	}
	for _, attr := range p.Attributes {
		if attr == quality.AttributeRemux {
			return true
		}
	}
	return false
}

// QualitySource is the source used to find the quality tier; a remux of a
// BluRay is matched as a remux.
func (p *ParsedMedia) QualitySource() string {
	if p.IsRemux() {
		return quality.AttributeRemux
	}
	return p.Source
}

// ToReleaseAttributes returns the attribute view used by profile matching.
func (p *ParsedMedia) ToReleaseAttributes() *quality.ReleaseAttributes {
	return &quality.ReleaseAttributes{
		HDRFormats:    p.HDRFormats,
		VideoCodec:    p.VideoCodec,
		AudioCodecs:   p.AudioCodecs,
		AudioChannels: p.AudioChannels,
	}
}

func resolutionValue(label string) int {
	switch label {
	case "2160p":
		return 2160
	case "1080p":
		return 1080
	case "720p":
		return 720
	case "480p":
		return 480
	default:
		return 0
	}
}
