package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

// MatchingConfig tunes a single name comparison.
type MatchingConfig struct {
	MinConfidence     float64 `toml:"min_confidence"`
	AllowPartialMatch bool    `toml:"allow_partial_match"`
	MaxEditDistance   int     `toml:"max_edit_distance"`
}

// ThresholdConfig carries the pipeline's confidence cutoffs. The defaults
// are empirically tuned, not load-bearing invariants; they are exposed here
// so deployments can adjust them.
type ThresholdConfig struct {
	// Propose is the minimum confidence for emitting a linkage proposal.
	Propose float64 `toml:"propose"`
	// AutoMerge is the minimum confidence for merging without review.
	AutoMerge float64 `toml:"auto_merge"`
	// Confirm marks a proposal as confirmed rather than pending.
	Confirm float64 `toml:"confirm"`
}

type ExtractionPrompts struct {
	Entities string `toml:"entities"`
}

type Config struct {
	LLM        LLMConfig         `toml:"llm"`
	Memgraph   MemgraphConfig    `toml:"memgraph"`
	Matching   MatchingConfig    `toml:"matching"`
	Thresholds ThresholdConfig   `toml:"thresholds"`
	Extraction ExtractionPrompts `toml:"extraction"`
}

// Default returns the shipped tuning values.
func Default() *Config {
	return &Config{
		Matching: MatchingConfig{
			MinConfidence:     0.5,
			AllowPartialMatch: true,
			MaxEditDistance:   3,
		},
		Thresholds: ThresholdConfig{
			Propose:   0.5,
			AutoMerge: 0.7,
			Confirm:   0.8,
		},
		Extraction: ExtractionPrompts{
			Entities: defaultEntitiesPrompt,
		},
	}
}

// Load reads a TOML config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

const defaultEntitiesPrompt = `Extract every named entity from the following case document.
Classify each as one of: person, organization, professional, court.
Return a JSON object of the form:
{
  "entities": [
    {
      "name": "Dr. Sarah Jones",
      "type": "professional",
      "role": "social worker",
      "aliases": ["S. Jones"],
      "mentions": [{"text": "Dr. Sarah Jones", "context": "surrounding sentence"}],
      "confidence": 0.9
    }
  ]
}

Document %s:

%s`
