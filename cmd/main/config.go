package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/CTAG07/tinyslm/pkg/ppm"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// ModelConfig holds the predictor's tunable parameters.
type ModelConfig struct {
	MaxOrder       int     `json:"max_order" yaml:"max_order"`
	ASCIIStart     int     `json:"ascii_start" yaml:"ascii_start"`
	ASCIIEnd       int     `json:"ascii_end" yaml:"ascii_end"`
	Fill           string  `json:"fill" yaml:"fill"`
	Fallback       string  `json:"fallback" yaml:"fallback"`
	EscapeBase     float64 `json:"escape_base" yaml:"escape_base"`
	EscapePerOrder float64 `json:"escape_per_order" yaml:"escape_per_order"`
	// Seed of the random source; 0 seeds from the clock.
	Seed uint64 `json:"seed" yaml:"seed"`
}

// GenerateConfig holds the stopping heuristics of a generation request.
type GenerateConfig struct {
	MaxChars      int `json:"max_chars" yaml:"max_chars"`
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`
	MinSentence   int `json:"min_sentence" yaml:"min_sentence"`
	MaxSentence   int `json:"max_sentence" yaml:"max_sentence"`
	StopChance    int `json:"stop_chance" yaml:"stop_chance"`
}

// CorpusConfig selects a SQLite database as the training source instead of a file.
type CorpusConfig struct {
	DatabasePath string `json:"database_path" yaml:"database_path"`
	Query        string `json:"query" yaml:"query"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	LogLevel string          `json:"log_level" yaml:"log_level"`
	Model    *ModelConfig    `json:"model_config" yaml:"model_config"`
	Generate *GenerateConfig `json:"generate_config" yaml:"generate_config"`
	Corpus   *CorpusConfig   `json:"corpus_config" yaml:"corpus_config"`
}

// DefaultModelConfig mirrors ppm.DefaultConfig.
func DefaultModelConfig() *ModelConfig {
	c := ppm.DefaultConfig()
	return &ModelConfig{
		MaxOrder:       c.MaxOrder,
		ASCIIStart:     int(c.ASCIIStart),
		ASCIIEnd:       int(c.ASCIIEnd),
		Fill:           string(c.Fill),
		Fallback:       c.Fallback,
		EscapeBase:     c.EscapeBase,
		EscapePerOrder: c.EscapePerOrder,
	}
}

// DefaultGenerateConfig creates a generation configuration with default values.
func DefaultGenerateConfig() *GenerateConfig {
	return &GenerateConfig{
		MaxChars:      300,
		MaxIterations: 500,
		MinSentence:   20,
		MaxSentence:   200,
		StopChance:    3,
	}
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Model:    DefaultModelConfig(),
		Generate: DefaultGenerateConfig(),
		Corpus: &CorpusConfig{
			Query: "SELECT body FROM documents",
		},
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadConfig reads the configuration from a JSON or YAML file, chosen by
// extension. If the file doesn't exist, it creates one with default values.
// An empty path returns the defaults without touching the filesystem.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			if isYAML(path) {
				data, err = yaml.Marshal(config)
			} else {
				data, err = json.MarshalIndent(config, "", "  ")
			}
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// The defaults are still usable, so only warn.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(file, config)
	} else {
		err = json.Unmarshal(file, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// Sections missing from the file keep their defaults.
	if config.Model == nil {
		config.Model = DefaultModelConfig()
	}
	if config.Generate == nil {
		config.Generate = DefaultGenerateConfig()
	}
	if config.Corpus == nil {
		config.Corpus = DefaultConfig().Corpus
	}
	return config, nil
}

// Options converts the model section into ppm options.
func (c *ModelConfig) Options() ([]ppm.Option, error) {
	if c.ASCIIStart < 0 || c.ASCIIStart > 255 || c.ASCIIEnd < 0 || c.ASCIIEnd > 255 {
		return nil, fmt.Errorf("alphabet bounds %d..%d must be bytes", c.ASCIIStart, c.ASCIIEnd)
	}
	if len(c.Fill) != 1 {
		return nil, fmt.Errorf("fill must be a single character, got %q", c.Fill)
	}

	opts := []ppm.Option{
		ppm.WithMaxOrder(c.MaxOrder),
		ppm.WithAlphabet(byte(c.ASCIIStart), byte(c.ASCIIEnd)),
		ppm.WithFill(c.Fill[0]),
		ppm.WithFallback(c.Fallback),
		ppm.WithEscape(c.EscapeBase, c.EscapePerOrder),
	}
	if c.Seed != 0 {
		opts = append(opts, ppm.WithSeed(c.Seed))
	}
	return opts, nil
}

// Options converts the generation section into ppm generate options.
func (c *GenerateConfig) Options() []ppm.GenerateOption {
	return []ppm.GenerateOption{
		ppm.WithMaxChars(c.MaxChars),
		ppm.WithMaxIterations(c.MaxIterations),
		ppm.WithMinSentence(c.MinSentence),
		ppm.WithMaxSentence(c.MaxSentence),
		ppm.WithStopChance(c.StopChance),
	}
}

// parseLogLevel maps a config string onto a slog level, defaulting to info.
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
