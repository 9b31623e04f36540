package quality

import (
	"encoding/json"
	"time"
)

// Quality represents a quality tier.
type Quality struct {
	ID         int    `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Source     string `json:"source" yaml:"source"`         // "bluray", "webdl", "tv", "remux", etc.
	Resolution int    `json:"resolution" yaml:"resolution"` // 480, 720, 1080, 2160
	Weight     int    `json:"weight" yaml:"weight"`         // Higher = better quality
}

// QualityItem represents a quality in a profile with its allowed status.
type QualityItem struct {
	Quality Quality `json:"quality" yaml:"quality"`
	Allowed bool    `json:"allowed" yaml:"allowed"`
}

// Profile represents a quality profile.
type Profile struct {
	ID                   int64         `json:"id"`
	Name                 string        `json:"name"`
	Items                []QualityItem `json:"items"` // Ordered list of qualities
	HDRSettings          AttributeRule `json:"hdrSettings"`
	VideoCodecSettings   AttributeRule `json:"videoCodecSettings"`
	AudioCodecSettings   AttributeRule `json:"audioCodecSettings"`
	AudioChannelSettings AttributeRule `json:"audioChannelSettings"`
	CreatedAt            time.Time     `json:"createdAt"`
	UpdatedAt            time.Time     `json:"updatedAt"`
}

// CreateProfileInput is used when creating a new profile.
type CreateProfileInput struct {
	Name                 string        `json:"name" yaml:"name"`
	Items                []QualityItem `json:"items" yaml:"items,omitempty"`
	HDRSettings          AttributeRule `json:"hdrSettings" yaml:"hdrSettings"`
	VideoCodecSettings   AttributeRule `json:"videoCodecSettings" yaml:"videoCodecSettings"`
	AudioCodecSettings   AttributeRule `json:"audioCodecSettings" yaml:"audioCodecSettings"`
	AudioChannelSettings AttributeRule `json:"audioChannelSettings" yaml:"audioChannelSettings"`
}

// UpdateProfileInput is used when updating a profile.
type UpdateProfileInput = CreateProfileInput

// Rules returns the attribute rules of the profile.
func (p *Profile) Rules() ProfileRules {
	return ProfileRules{
		HDR:           p.HDRSettings,
		VideoCodec:    p.VideoCodecSettings,
		AudioCodec:    p.AudioCodecSettings,
		AudioChannels: p.AudioChannelSettings,
	}
}

// PredefinedQualities are the standard quality definitions.
var PredefinedQualities = []Quality{
	{ID: 1, Name: "SDTV", Source: "tv", Resolution: 480, Weight: 1},
	{ID: 2, Name: "DVD", Source: "dvd", Resolution: 480, Weight: 2},
	{ID: 3, Name: "WEBRip-480p", Source: "webrip", Resolution: 480, Weight: 3},
	{ID: 4, Name: "HDTV-720p", Source: "tv", Resolution: 720, Weight: 4},
	{ID: 5, Name: "WEBRip-720p", Source: "webrip", Resolution: 720, Weight: 5},
	{ID: 6, Name: "WEBDL-720p", Source: "webdl", Resolution: 720, Weight: 6},
	{ID: 7, Name: "Bluray-720p", Source: "bluray", Resolution: 720, Weight: 7},
	{ID: 8, Name: "HDTV-1080p", Source: "tv", Resolution: 1080, Weight: 8},
	{ID: 9, Name: "WEBRip-1080p", Source: "webrip", Resolution: 1080, Weight: 9},
	{ID: 10, Name: "WEBDL-1080p", Source: "webdl", Resolution: 1080, Weight: 10},
	{ID: 11, Name: "Bluray-1080p", Source: "bluray", Resolution: 1080, Weight: 11},
	{ID: 12, Name: "Remux-1080p", Source: "remux", Resolution: 1080, Weight: 12},
	{ID: 13, Name: "HDTV-2160p", Source: "tv", Resolution: 2160, Weight: 13},
	{ID: 14, Name: "WEBRip-2160p", Source: "webrip", Resolution: 2160, Weight: 14},
	{ID: 15, Name: "WEBDL-2160p", Source: "webdl", Resolution: 2160, Weight: 15},
	{ID: 16, Name: "Bluray-2160p", Source: "bluray", Resolution: 2160, Weight: 16},
	{ID: 17, Name: "Remux-2160p", Source: "remux", Resolution: 2160, Weight: 17},
}

// qualityByID is a lookup map for qualities by ID.
var qualityByID map[int]Quality

func init() {
	qualityByID = make(map[int]Quality)
	for _, q := range PredefinedQualities {
		qualityByID[q.ID] = q
	}
}

// GetQualityByID returns a quality by its ID.
func GetQualityByID(id int) (Quality, bool) {
	q, ok := qualityByID[id]
	return q, ok
}

func profileItems(allowed func(Quality) bool) []QualityItem {
	items := make([]QualityItem, len(PredefinedQualities))
	for i, q := range PredefinedQualities {
		items[i] = QualityItem{
			Quality: q,
			Allowed: allowed(q),
		}
	}
	return items
}

func defaultRules() (hdr, video, audio, channels AttributeRule) {
	return DefaultAttributeRule(), DefaultAttributeRule(), DefaultAttributeRule(), DefaultAttributeRule()
}

// DefaultProfile returns a default "Any" profile that accepts all qualities.
func DefaultProfile() CreateProfileInput {
	hdr, video, audio, channels := defaultRules()
	return CreateProfileInput{
		Name:                 "Any",
		Items:                profileItems(func(Quality) bool { return true }),
		HDRSettings:          hdr,
		VideoCodecSettings:   video,
		AudioCodecSettings:   audio,
		AudioChannelSettings: channels,
	}
}

// HD1080pProfile returns a profile targeting 1080p content.
func HD1080pProfile() CreateProfileInput {
	_, _, audio, channels := defaultRules()
	return CreateProfileInput{
		Name: "HD-1080p",
		Items: profileItems(func(q Quality) bool {
			return q.Resolution >= 720 && q.Resolution <= 1080
		}),
		HDRSettings:          DefaultAttributeRule(),
		VideoCodecSettings:   AttributeRule{Mode: AttributeModePreferred, Values: []string{"x264", "x265"}},
		AudioCodecSettings:   audio,
		AudioChannelSettings: channels,
	}
}

// Ultra4KProfile returns a profile targeting 4K HDR content.
func Ultra4KProfile() CreateProfileInput {
	return CreateProfileInput{
		Name: "Ultra-HD",
		Items: profileItems(func(q Quality) bool {
			return q.Resolution >= 1080
		}),
		HDRSettings:          AttributeRule{Mode: AttributeModePreferred, Values: []string{"DV", "HDR10+", "HDR10"}},
		VideoCodecSettings:   AttributeRule{Mode: AttributeModePreferred, Values: []string{"x265"}},
		AudioCodecSettings:   AttributeRule{Mode: AttributeModePreferred, Values: []string{"Atmos", "TrueHD", "DTS-X", "DTS-HD"}},
		AudioChannelSettings: DefaultAttributeRule(),
	}
}

// DefaultProfiles returns the profiles created on an empty database.
func DefaultProfiles() []CreateProfileInput {
	return []CreateProfileInput{
		DefaultProfile(),
		HD1080pProfile(),
		Ultra4KProfile(),
	}
}

// SerializeItems converts quality items to JSON for database storage.
func SerializeItems(items []QualityItem) (string, error) {
	if items == nil {
		items = []QualityItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DeserializeItems parses JSON quality items from database.
func DeserializeItems(data string) ([]QualityItem, error) {
	var items []QualityItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// IsAcceptable checks if a quality is acceptable for this profile.
func (p *Profile) IsAcceptable(qualityID int) bool {
	for _, item := range p.Items {
		if item.Quality.ID == qualityID && item.Allowed {
			return true
		}
	}
	return false
}
