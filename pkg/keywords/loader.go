package keywords

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// vocabFile is the on-disk override format:
//
//	sets:
//	  spam:
//	    - "free"
//	    - "winner"
//	  secrecy:
//	    - "our secret"
//
// Only listed categories are replaced; everything else keeps its built-in
// vocabulary. An explicit empty list removes the category.
type vocabFile struct {
	Sets map[string][]string `yaml:"sets"`
}

// knownCategories guards against typos in override files: an unknown key is
// an error rather than a silently ignored vocabulary.
var knownCategories = map[Category]bool{
	CategorySpam:         true,
	CategorySextortion:   true,
	CategoryTechLure:     true,
	CategoryBioLure:      true,
	CategoryLoveBombing:  true,
	CategoryUrgency:      true,
	CategorySecrecy:      true,
	CategoryAIDisclaimer: true,
	CategoryHumanFiller:  true,
}

// LoadFile applies vocabulary overrides from a YAML file to the registry.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read vocab file: %w", err)
	}
	return r.loadYAML(data)
}

func (r *Registry) loadYAML(data []byte) error {
	var f vocabFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse vocab file: %w", err)
	}

	// Validate all keys before mutating anything, so a bad file never leaves
	// the registry half-overridden.
	for key := range f.Sets {
		if !knownCategories[Category(key)] {
			return fmt.Errorf("unknown vocabulary category %q", key)
		}
	}

	for key, phrases := range f.Sets {
		r.Replace(Category(key), phrases)
	}
	return nil
}
