package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile tunes interview composition and names the (role, category,
// difficulty) combinations to keep pregenerated.
type Profile struct {
	QuestionsPerCategory int            `yaml:"questions_per_category"`
	DefaultDifficulty    string         `yaml:"default_difficulty"`
	Prewarm              []PrewarmEntry `yaml:"prewarm"`
}

type PrewarmEntry struct {
	Role       string `yaml:"role"`
	Category   string `yaml:"category"`
	Difficulty string `yaml:"difficulty"`
	Count      int    `yaml:"count"`
}

// LoadProfile reads and validates a YAML interview profile.
func LoadProfile(filename string) (*Profile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", filename, err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parsing profile YAML: %w", err)
	}

	if err := validateProfile(&profile); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	return &profile, nil
}

func validateProfile(p *Profile) error {
	if p.QuestionsPerCategory <= 0 {
		return fmt.Errorf("questions_per_category must be greater than 0")
	}

	for i, entry := range p.Prewarm {
		if entry.Role == "" {
			return fmt.Errorf("prewarm entry %d must have a role", i)
		}
		if entry.Category == "" {
			return fmt.Errorf("prewarm entry %d must have a category", i)
		}
		if entry.Count <= 0 {
			return fmt.Errorf("prewarm entry %d must have a positive count", i)
		}
	}
	return nil
}
