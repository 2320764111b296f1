package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "GEMINI_MODEL", "GEMINI_TIMEOUT",
		"MIN_CONTENT_LENGTH", "EXPERIENCE_POLICY", "MAX_FILE_SIZE", "ACCEPTED_FORMATS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 60*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 50, cfg.Analysis.MinContentLength)
	assert.Equal(t, ExperiencePolicyUnspecified, cfg.Analysis.ExperiencePolicy)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxFileSize)
	assert.Equal(t, []string{"pdf", "docx", "doc", "txt", "md", "csv"}, cfg.Upload.AcceptedFormats)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MIN_CONTENT_LENGTH", "100")
	t.Setenv("EXPERIENCE_POLICY", "Estimate")
	t.Setenv("ACCEPTED_FORMATS", " .PDF, txt ,,")
	t.Setenv("GEMINI_TIMEOUT", "15s")

	cfg := Load()

	assert.Equal(t, 100, cfg.Analysis.MinContentLength)
	assert.Equal(t, ExperiencePolicyEstimate, cfg.Analysis.ExperiencePolicy)
	assert.Equal(t, []string{"pdf", "txt"}, cfg.Upload.AcceptedFormats)
	assert.Equal(t, 15*time.Second, cfg.Gemini.Timeout)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("MIN_CONTENT_LENGTH", "abc")
	t.Setenv("GEMINI_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 50, cfg.Analysis.MinContentLength)
	assert.Equal(t, 60*time.Second, cfg.Gemini.Timeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero min length", func(c *Config) { c.Analysis.MinContentLength = 0 }},
		{"unknown policy", func(c *Config) { c.Analysis.ExperiencePolicy = "guess" }},
		{"unknown format", func(c *Config) { c.Upload.AcceptedFormats = []string{"pdf", "exe"} }},
		{"no formats", func(c *Config) { c.Upload.AcceptedFormats = nil }},
		{"non numeric port", func(c *Config) { c.Server.Port = "http" }},
		{"temperature too high", func(c *Config) { c.Gemini.Temperature = 3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}
