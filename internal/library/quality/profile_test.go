package quality

import (
	"testing"
)

func TestGetQualityByID(t *testing.T) {
	tests := []struct {
		id       int
		wantName string
		wantOK   bool
	}{
		{1, "SDTV", true},
		{7, "Bluray-720p", true},
		{10, "WEBDL-1080p", true},
		{12, "Remux-1080p", true},
		{17, "Remux-2160p", true},
		{0, "", false},
		{-1, "", false},
		{100, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			q, ok := GetQualityByID(tt.id)
			if ok != tt.wantOK {
				t.Errorf("GetQualityByID(%d) ok = %v, want %v", tt.id, ok, tt.wantOK)
			}
			if ok && q.Name != tt.wantName {
				t.Errorf("GetQualityByID(%d).Name = %q, want %q", tt.id, q.Name, tt.wantName)
			}
		})
	}
}

func TestPredefinedQualities(t *testing.T) {
	if len(PredefinedQualities) != 17 {
		t.Errorf("PredefinedQualities has %d entries, want 17", len(PredefinedQualities))
	}

	validResolutions := map[int]bool{480: true, 720: true, 1080: true, 2160: true}
	last := 0
	for _, q := range PredefinedQualities {
		if q.ID != q.Weight {
			t.Errorf("Quality %s has ID %d but weight %d", q.Name, q.ID, q.Weight)
		}
		if q.Weight <= last {
			t.Errorf("Quality %s weight %d is not above previous %d", q.Name, q.Weight, last)
		}
		last = q.Weight
		if !validResolutions[q.Resolution] {
			t.Errorf("Quality %s has invalid resolution %d", q.Name, q.Resolution)
		}
	}
}

func TestDefaultProfiles(t *testing.T) {
	tests := []struct {
		input   CreateProfileInput
		name    string
		allowed func(Quality) bool
	}{
		{DefaultProfile(), "Any", func(Quality) bool { return true }},
		{HD1080pProfile(), "HD-1080p", func(q Quality) bool { return q.Resolution >= 720 && q.Resolution <= 1080 }},
		{Ultra4KProfile(), "Ultra-HD", func(q Quality) bool { return q.Resolution >= 1080 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.input.Name != tt.name {
				t.Errorf("Name = %q, want %q", tt.input.Name, tt.name)
			}
			if len(tt.input.Items) != len(PredefinedQualities) {
				t.Errorf("Items has %d entries, want %d", len(tt.input.Items), len(PredefinedQualities))
			}
			for _, item := range tt.input.Items {
				if item.Allowed != tt.allowed(item.Quality) {
					t.Errorf("quality %s: Allowed = %v, want %v", item.Quality.Name, item.Allowed, !item.Allowed)
				}
			}
			for _, dim := range []struct {
				d Dimension
				r AttributeRule
			}{
				{DimensionHDR, tt.input.HDRSettings},
				{DimensionVideoCodec, tt.input.VideoCodecSettings},
				{DimensionAudioCodec, tt.input.AudioCodecSettings},
				{DimensionAudioChannels, tt.input.AudioChannelSettings},
			} {
				if _, err := NormalizeRule(dim.d, dim.r); err != nil {
					t.Errorf("%s rule is invalid: %v", dim.d, err)
				}
			}
		})
	}
}

func TestProfile_IsAcceptable(t *testing.T) {
	profile := &Profile{Items: HD1080pProfile().Items}

	tests := []struct {
		qualityID int
		want      bool
	}{
		{1, false},   // SDTV - 480p, not allowed
		{4, true},    // HDTV-720p - allowed
		{11, true},   // Bluray-1080p - allowed
		{12, true},   // Remux-1080p - allowed
		{15, false},  // WEBDL-2160p - 2160p, not allowed
		{0, false},   // Invalid ID
		{100, false}, // Invalid ID
	}

	for _, tt := range tests {
		got := profile.IsAcceptable(tt.qualityID)
		if got != tt.want {
			q, _ := GetQualityByID(tt.qualityID)
			t.Errorf("IsAcceptable(%d/%s) = %v, want %v", tt.qualityID, q.Name, got, tt.want)
		}
	}
}

func TestProfile_Rules(t *testing.T) {
	input := Ultra4KProfile()
	profile := &Profile{
		HDRSettings:          input.HDRSettings,
		VideoCodecSettings:   input.VideoCodecSettings,
		AudioCodecSettings:   input.AudioCodecSettings,
		AudioChannelSettings: input.AudioChannelSettings,
	}

	rules := profile.Rules()
	if rules.HDR.Mode != AttributeModePreferred || len(rules.HDR.Values) != 3 {
		t.Errorf("Rules().HDR = %+v, want preferred with 3 values", rules.HDR)
	}
	if rules.AudioChannels.Mode != AttributeModeNone {
		t.Errorf("Rules().AudioChannels.Mode = %q, want %q", rules.AudioChannels.Mode, AttributeModeNone)
	}
}

func TestSerializeItems_NilIsEmptyArray(t *testing.T) {
	got, err := SerializeItems(nil)
	if err != nil {
		t.Fatalf("SerializeItems() error = %v", err)
	}
	if got != "[]" {
		t.Errorf("SerializeItems(nil) = %q, want %q", got, "[]")
	}
}

func TestDeserializeItems(t *testing.T) {
	jsonStr := `[{"quality":{"id":1,"name":"SDTV","weight":1},"allowed":true},{"quality":{"id":2,"name":"DVD","weight":2},"allowed":false}]`

	items, err := DeserializeItems(jsonStr)
	if err != nil {
		t.Fatalf("DeserializeItems() error = %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("DeserializeItems() returned %d items, want 2", len(items))
	}
	if items[0].Quality.ID != 1 || !items[0].Allowed {
		t.Errorf("First item = %+v, want ID=1 allowed", items[0])
	}
	if items[1].Allowed {
		t.Error("Second item Allowed = true, want false")
	}
}

func TestDeserializeItems_InvalidJSON(t *testing.T) {
	if _, err := DeserializeItems(`{invalid json}`); err == nil {
		t.Error("DeserializeItems() with invalid JSON should return error")
	}
}
