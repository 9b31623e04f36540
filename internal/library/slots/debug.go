package slots

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/slipstream/qualityengine/internal/library/quality"
	"github.com/slipstream/qualityengine/internal/library/scanner"
)

// DebugHandlers provides HTTP handlers for the slot debug panel.
type DebugHandlers struct {
	service *Service
}

// NewDebugHandlers creates new debug handlers.
func NewDebugHandlers(service *Service) *DebugHandlers {
	return &DebugHandlers{service: service}
}

// RegisterDebugRoutes registers debug routes.
func (h *DebugHandlers) RegisterDebugRoutes(g *echo.Group) {
	g.POST("/parse", h.ParseRelease)
	g.POST("/match", h.ProfileMatch)
}

// ParseReleaseInput is the request body for parsing a release title.
type ParseReleaseInput struct {
	ReleaseTitle string `json:"releaseTitle"`
}

// ParseReleaseOutput is the detailed output from parsing a release title.
type ParseReleaseOutput struct {
	Title         string   `json:"title"`
	Year          int      `json:"year,omitempty"`
	Quality       string   `json:"quality,omitempty"`
	Source        string   `json:"source,omitempty"`
	VideoCodec    string   `json:"videoCodec,omitempty"`
	HDRFormats    []string `json:"hdrFormats"`
	AudioCodecs   []string `json:"audioCodecs"`
	AudioChannels []string `json:"audioChannels"`
	QualityScore  int      `json:"qualityScore"`

	Attributes   []string `json:"attributes,omitempty"`
	Season       int      `json:"season,omitempty"`
	Episode      int      `json:"episode,omitempty"`
	IsSeasonPack bool     `json:"isSeasonPack,omitempty"`
	IsTV         bool     `json:"isTv,omitempty"`
	ReleaseGroup string   `json:"releaseGroup,omitempty"`
}

// ParseRelease parses a release title and returns detailed attribute information.
// POST /api/v1/settings/slots/debug/parse
func (h *DebugHandlers) ParseRelease(c echo.Context) error {
	var input ParseReleaseInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	parsed, err := h.service.Parse(input.ReleaseTitle)
	if err != nil {
		return debugError(err)
	}

	return c.JSON(http.StatusOK, NewParseReleaseOutput(parsed))
}

// ProfileMatchInput is the request body for detailed profile matching.
type ProfileMatchInput struct {
	ReleaseTitle     string `json:"releaseTitle"`
	QualityProfileID int64  `json:"qualityProfileId"`
}

// ProfileMatchOutput is the detailed output from profile matching.
type ProfileMatchOutput struct {
	Release ParseReleaseOutput `json:"release"`

	ProfileID   int64  `json:"profileId"`
	ProfileName string `json:"profileName"`

	// Whether the release resolution and source is an allowed tier. Does
	// not take part in allAttributesMatch.
	QualityMatch       bool               `json:"qualityMatch"`
	QualityMatchResult QualityMatchDetail `json:"qualityMatchResult"`

	HDRMatch          quality.AttributeMatchResult `json:"hdrMatch"`
	VideoCodecMatch   quality.AttributeMatchResult `json:"videoCodecMatch"`
	AudioCodecMatch   quality.AttributeMatchResult `json:"audioCodecMatch"`
	AudioChannelMatch quality.AttributeMatchResult `json:"audioChannelMatch"`

	QualityScore       int  `json:"qualityScore"`
	TotalScore         int  `json:"totalScore"`
	CombinedScore      int  `json:"combinedScore"`
	AllAttributesMatch bool `json:"allAttributesMatch"`
}

// QualityMatchDetail shows the result of matching quality/resolution.
type QualityMatchDetail struct {
	Matches          bool   `json:"matches"`
	MatchedQuality   string `json:"matchedQuality,omitempty"`
	MatchedQualityID int    `json:"matchedQualityId,omitempty"`
	ReleaseQuality   string `json:"releaseQuality"`
	ReleaseSource    string `json:"releaseSource"`
	Score            int    `json:"score"`
	Reason           string `json:"reason,omitempty"`
}

// ProfileMatch performs detailed profile matching for debugging.
// POST /api/v1/settings/slots/debug/match
func (h *DebugHandlers) ProfileMatch(c echo.Context) error {
	var input ProfileMatchInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Match(c.Request().Context(), input.ReleaseTitle, input.QualityProfileID)
	if err != nil {
		return debugError(err)
	}

	return c.JSON(http.StatusOK, NewProfileMatchOutput(result))
}

// NewParseReleaseOutput converts a parsed release to its API shape.
func NewParseReleaseOutput(parsed *scanner.ParsedMedia) ParseReleaseOutput {
	return ParseReleaseOutput{
		Title:         parsed.Title,
		Year:          parsed.Year,
		Quality:       parsed.Quality,
		Source:        parsed.Source,
		VideoCodec:    parsed.VideoCodec,
		HDRFormats:    nonNil(parsed.HDRFormats),
		AudioCodecs:   nonNil(parsed.AudioCodecs),
		AudioChannels: nonNil(parsed.AudioChannels),
		QualityScore:  parsed.QualityScore,
		Attributes:    parsed.Attributes,
		Season:        parsed.Season,
		Episode:       parsed.Episode,
		IsSeasonPack:  parsed.IsSeasonPack,
		IsTV:          parsed.IsTV,
		ReleaseGroup:  parsed.ReleaseGroup,
	}
}

// NewProfileMatchOutput converts a match result to its API shape.
func NewProfileMatchOutput(result *MatchResult) ProfileMatchOutput {
	parsed := result.Release
	match := result.Match

	return ProfileMatchOutput{
		Release:     NewParseReleaseOutput(parsed),
		ProfileID:   result.Profile.ID,
		ProfileName: result.Profile.Name,

		QualityMatch: result.Quality.Matches,
		QualityMatchResult: QualityMatchDetail{
			Matches:          result.Quality.Matches,
			MatchedQuality:   result.Quality.MatchedQuality,
			MatchedQualityID: result.Quality.MatchedQualityID,
			ReleaseQuality:   parsed.Quality,
			ReleaseSource:    parsed.Source,
			Score:            result.Quality.Score,
			Reason:           result.Quality.Reason,
		},

		HDRMatch:          match.HDRMatch,
		VideoCodecMatch:   match.VideoCodecMatch,
		AudioCodecMatch:   match.AudioCodecMatch,
		AudioChannelMatch: match.AudioChannelMatch,

		QualityScore:       match.QualityScore,
		TotalScore:         match.TotalScore,
		CombinedScore:      match.CombinedScore,
		AllAttributesMatch: match.AllMatch,
	}
}

func debugError(err error) error {
	switch {
	case errors.Is(err, ErrReleaseTitleRequired), errors.Is(err, ErrProfileIDRequired):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, quality.ErrProfileNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "quality profile not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
