// Package search builds index documents from stored rows and keeps the
// search indices in step with the database.
package search

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FieldWeight boosts one searchable field. Order matters for nothing
// but readability of the config file.
type FieldWeight struct {
	Field  string  `yaml:"field"`
	Weight float64 `yaml:"weight"`
}

// Weights is the full field-boost configuration, one list per indexed
// entity type.
type Weights struct {
	Statutes  []FieldWeight `yaml:"statutes"`
	Judgments []FieldWeight `yaml:"judgments"`
}

// DefaultWeights returns the built-in boosts. Exact-match fields (year,
// number) sit between the strong metadata fields and the body text so
// citation-style queries still rank well.
func DefaultWeights() Weights {
	return Weights{
		Statutes: []FieldWeight{
			{Field: "title", Weight: 50},
			{Field: "common_names", Weight: 49},
			{Field: "keywords", Weight: 48},
			{Field: "headings", Weight: 20},
			{Field: "year", Weight: 15},
			{Field: "number", Weight: 10},
			{Field: "paragraphs", Weight: 1},
		},
		Judgments: []FieldWeight{
			{Field: "keywords", Weight: 60},
			{Field: "level", Weight: 50},
			{Field: "year", Weight: 49},
			{Field: "number", Weight: 48},
			{Field: "headings", Weight: 10},
			{Field: "paragraphs", Weight: 1},
		},
	}
}

// LoadWeights reads a boost configuration from a YAML file. A missing
// path falls back to the defaults.
func LoadWeights(path string) (Weights, error) {
	if path == "" {
		return DefaultWeights(), nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultWeights(), nil
	}
	if err != nil {
		return Weights{}, fmt.Errorf("failed to read weights file: %w", err)
	}

	var weights Weights
	if err := yaml.Unmarshal(data, &weights); err != nil {
		return Weights{}, fmt.Errorf("failed to parse weights file: %w", err)
	}

	defaults := DefaultWeights()
	if len(weights.Statutes) == 0 {
		weights.Statutes = defaults.Statutes
	}
	if len(weights.Judgments) == 0 {
		weights.Judgments = defaults.Judgments
	}
	return weights, nil
}

// BoostedFields renders field weights into the "field^weight" form the
// index service consumes.
func BoostedFields(weights []FieldWeight) []string {
	fields := make([]string, 0, len(weights))
	for _, fw := range weights {
		if fw.Weight == 1 {
			fields = append(fields, fw.Field)
			continue
		}
		fields = append(fields, fmt.Sprintf("%s^%g", fw.Field, fw.Weight))
	}
	return fields
}
