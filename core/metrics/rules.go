package metrics

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules holds the thresholds applied by Validate
type Rules struct {
	MaxVertexCount int     `yaml:"max_vertex_count"`
	MaxFaceCount   int     `yaml:"max_face_count"`
	MaxFileSizeMB  float64 `yaml:"max_file_size_mb"`
}

// DefaultRules returns the built-in acceptance thresholds
func DefaultRules() Rules {
	return Rules{
		MaxVertexCount: 100000,
		MaxFaceCount:   50000,
		MaxFileSizeMB:  50,
	}
}

// LoadRules reads a YAML rule file, filling unset fields with the defaults
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("parse rules file: %w", err)
	}
	if rules.MaxVertexCount <= 0 || rules.MaxFaceCount <= 0 || rules.MaxFileSizeMB <= 0 {
		return rules, fmt.Errorf("rule thresholds must be positive")
	}
	return rules, nil
}
