package quality

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// profilesDocument is the on-disk layout of a profile seed/export file.
type profilesDocument struct {
	Profiles []CreateProfileInput `yaml:"profiles"`
}

// DecodeProfilesYAML reads profile definitions from r. Profiles without
// items accept every predefined quality.
func DecodeProfilesYAML(r io.Reader) ([]CreateProfileInput, error) {
	var doc profilesDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}

	for i := range doc.Profiles {
		if len(doc.Profiles[i].Items) == 0 {
			doc.Profiles[i].Items = DefaultProfile().Items
		}
	}
	return doc.Profiles, nil
}

// LoadProfilesYAML reads profile definitions from a YAML file.
func LoadProfilesYAML(path string) ([]CreateProfileInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open profiles file: %w", err)
	}
	defer f.Close()

	return DecodeProfilesYAML(f)
}

// EncodeProfilesYAML writes profiles in the format DecodeProfilesYAML reads.
func EncodeProfilesYAML(w io.Writer, profiles []*Profile) error {
	doc := profilesDocument{Profiles: make([]CreateProfileInput, 0, len(profiles))}
	for _, p := range profiles {
		doc.Profiles = append(doc.Profiles, CreateProfileInput{
			Name:                 p.Name,
			Items:                p.Items,
			HDRSettings:          p.HDRSettings,
			VideoCodecSettings:   p.VideoCodecSettings,
			AudioCodecSettings:   p.AudioCodecSettings,
			AudioChannelSettings: p.AudioChannelSettings,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode profiles: %w", err)
	}
	return enc.Close()
}

// WriteProfilesYAML writes profiles to a YAML file, replacing it.
func WriteProfilesYAML(path string, profiles []*Profile) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create profiles file: %w", err)
	}
	if err := EncodeProfilesYAML(f, profiles); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
