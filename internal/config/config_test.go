package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adscope/kwc/internal/cannibalization"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "kwc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, cannibalization.DefaultConfig(), cfg.Engine)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
database: /var/lib/kwc/data.db
format: json
strict_input: true
engine:
  significance_threshold: 60
  word_overlap_ratio: 0.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/kwc/data.db", cfg.Database)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.True(t, cfg.StrictInput)
	assert.Equal(t, 60, cfg.Engine.SignificanceThreshold)
	assert.Equal(t, 0.5, cfg.Engine.WordOverlapRatio)
	// untouched keys keep defaults
	assert.Equal(t, cannibalization.DefaultConfig().WeightOverlap, cfg.Engine.WeightOverlap)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "format: [", "parsing YAML"},
		{"bad format", "format: xml", "format must be"},
		{"bad engine", "engine:\n  significance_threshold: 150\n", "engine:"},
		{"empty database", "database: \"\"\n", "database path cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("KWC_DB", "/tmp/other.db")
	t.Setenv("KWC_FORMAT", "yaml")
	t.Setenv("KWC_STRICT_INPUT", "true")
	t.Setenv("KWC_METRICS_FILE", "/tmp/kwc.prom")
	t.Setenv("KWC_SIGNIFICANCE_THRESHOLD", "70")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", cfg.Database)
	assert.Equal(t, FormatYAML, cfg.Format)
	assert.True(t, cfg.StrictInput)
	assert.Equal(t, "/tmp/kwc.prom", cfg.MetricsFile)
	assert.Equal(t, 70, cfg.Engine.SignificanceThreshold)
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad bool", "KWC_STRICT_INPUT", "maybe"},
		{"bad format", "KWC_FORMAT", "csv"},
		{"bad engine int", "KWC_WEIGHT_OVERLAP", "lots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "format: json\n")
		cfg, err := Resolve(path)
		require.NoError(t, err)
		assert.Equal(t, FormatJSON, cfg.Format)
	})

	t.Run("default file in working directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "format: yaml\n")
		t.Chdir(dir)

		cfg, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, FormatYAML, cfg.Format)
	})

	t.Run("no file uses defaults and env", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("KWC_DB", "/tmp/env.db")

		cfg, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/env.db", cfg.Database)
		assert.Equal(t, FormatText, cfg.Format)
	})
}

func TestString(t *testing.T) {
	s := DefaultConfig().String()
	assert.Contains(t, s, "Format: text")
	assert.Contains(t, s, "StrictInput: false")
}
