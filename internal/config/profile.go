package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dgallion1/clausetree/internal/outline"
	"gopkg.in/yaml.v3"
)

// LoadProfile reads a YAML outline profile. Keys absent from the file keep
// their default values; unknown keys are rejected. An empty path yields the
// defaults.
func LoadProfile(path string) (outline.Profile, error) {
	p := outline.DefaultProfile()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read profile: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes YAML profile bytes over the defaults.
func ParseProfile(data []byte) (outline.Profile, error) {
	p := outline.DefaultProfile()
	if len(bytes.TrimSpace(data)) == 0 {
		return p, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return outline.DefaultProfile(), fmt.Errorf("failed to parse YAML profile: %w", err)
	}
	if p.Language != "" && p.Language != "en" && p.Language != "zh" {
		return outline.DefaultProfile(), fmt.Errorf("profile language %q: must be en, zh or empty", p.Language)
	}
	return p, nil
}

// MarshalProfile renders a profile as YAML, e.g. to seed a profile file.
func MarshalProfile(p outline.Profile) ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	header := []byte("# clausetree outline profile\n# Omitted keys fall back to the built-in defaults.\n\n")
	return append(header, data...), nil
}
