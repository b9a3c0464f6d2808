// Package catalog loads the seed list of activities offered at startup.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"example.com/mergington/internal/domain"
)

//go:embed activities.yaml
var defaultCatalog []byte

type file struct {
	Activities []entry `yaml:"activities"`
}

type entry struct {
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	Schedule        string   `yaml:"schedule"`
	MaxParticipants int      `yaml:"max_participants"`
	Participants    []string `yaml:"participants"`
}

// Default returns the built-in Mergington High School catalog.
func Default() ([]domain.Activity, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path, falling back to the built-in catalog when path is empty.
func Load(path string) ([]domain.Activity, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) ([]domain.Activity, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Activities))
	out := make([]domain.Activity, 0, len(f.Activities))
	for i, e := range f.Activities {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("catalog entry %d: name is required", i)
		}
		if _, dup := seen[e.Name]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate activity %q", i, e.Name)
		}
		seen[e.Name] = struct{}{}

		activity := domain.Activity{
			Name:            e.Name,
			Description:     e.Description,
			Schedule:        e.Schedule,
			MaxParticipants: e.MaxParticipants,
			Participants:    make([]string, 0, len(e.Participants)),
		}
		for _, email := range e.Participants {
			if activity.HasParticipant(email) {
				return nil, fmt.Errorf("catalog entry %q: duplicate participant %q", e.Name, email)
			}
			activity.Participants = append(activity.Participants, email)
		}
		out = append(out, activity)
	}
	return out, nil
}
