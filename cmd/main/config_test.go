package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/CTAG07/tinyslm/pkg/ppm"
	"github.com/google/go-cmp/cmp"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") failed: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigWritesMissingFile(t *testing.T) {
	for _, name := range []string{"config.json", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}
			if diff := cmp.Diff(DefaultConfig(), config); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
			if _, err := os.Stat(path); err != nil {
				t.Fatalf("expected default config to be written: %v", err)
			}

			// Reading the written file back must give the same values.
			again, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig of written defaults failed: %v", err)
			}
			if diff := cmp.Diff(config, again); diff != "" {
				t.Errorf("written config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	testCases := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "json",
			file:    "config.json",
			content: `{"log_level": "debug", "model_config": {"max_order": 2}}`,
		},
		{
			name:    "yaml",
			file:    "config.yml",
			content: "log_level: debug\nmodel_config:\n  max_order: 2\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tc.file)
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatal(err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}
			if config.LogLevel != "debug" || config.Model.MaxOrder != 2 {
				t.Errorf("file values not applied: %+v %+v", config, config.Model)
			}
			if config.Model.Fallback != ppm.DefaultFallback {
				t.Errorf("expected default fallback to survive, got %q", config.Model.Fallback)
			}
			if diff := cmp.Diff(DefaultGenerateConfig(), config.Generate); diff != "" {
				t.Errorf("generate config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestModelConfigOptions(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *ModelConfig)
		wantErr bool
		wantCfg bool
	}{
		{name: "defaults", mutate: func(c *ModelConfig) {}},
		{name: "multi character fill", mutate: func(c *ModelConfig) { c.Fill = "ab" }, wantErr: true},
		{name: "alphabet beyond a byte", mutate: func(c *ModelConfig) { c.ASCIIEnd = 300 }, wantErr: true},
		{name: "negative order passes through", mutate: func(c *ModelConfig) { c.MaxOrder = -1 }, wantCfg: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultModelConfig()
			tc.mutate(c)
			opts, err := c.Options()
			if tc.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Options failed: %v", err)
			}
			_, err = ppm.NewModel(opts...)
			if tc.wantCfg {
				if !errors.Is(err, ppm.ErrInvalidConfig) {
					t.Errorf("expected ppm.ErrInvalidConfig, got %v", err)
				}
			} else if err != nil {
				t.Errorf("NewModel failed: %v", err)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	testCases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range testCases {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
