package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "balanced", cfg.Repair.Profile)
	assert.False(t, cfg.Output.ASCII)
	assert.Equal(t, "patchup", cfg.Output.SolidName)
	assert.Equal(t, 96, cfg.Demo.Cells)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patchup.yaml")
	yaml := `
repair:
  profile: durable-deep
output:
  ascii: true
  solid_name: repair-insert
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "durable-deep", cfg.Repair.Profile)
	assert.True(t, cfg.Output.ASCII)
	assert.Equal(t, "repair-insert", cfg.Output.SolidName)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	// Unspecified sections keep their defaults.
	assert.Equal(t, 96, cfg.Demo.Cells)
	assert.Equal(t, "stdout", cfg.Logging.Output)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	tests := []struct {
		name        string
		logLevel    string
		logFormat   string
		profile     string
		ascii       bool
		wantLevel   string
		wantFormat  string
		wantProfile string
		wantASCII   bool
	}{
		{
			name:        "no overrides keeps defaults",
			wantLevel:   "info",
			wantFormat:  "text",
			wantProfile: "balanced",
			wantASCII:   false,
		},
		{
			name:        "all overrides applied",
			logLevel:    "debug",
			logFormat:   "json",
			profile:     "tight-fit",
			ascii:       true,
			wantLevel:   "debug",
			wantFormat:  "json",
			wantProfile: "tight-fit",
			wantASCII:   true,
		},
		{
			name:        "partial overrides",
			profile:     "economy-thin",
			wantLevel:   "info",
			wantFormat:  "text",
			wantProfile: "economy-thin",
			wantASCII:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ApplyOverrides(tt.logLevel, tt.logFormat, tt.profile, tt.ascii)

			assert.Equal(t, tt.wantLevel, cfg.Logging.Level)
			assert.Equal(t, tt.wantFormat, cfg.Logging.Format)
			assert.Equal(t, tt.wantProfile, cfg.Repair.Profile)
			assert.Equal(t, tt.wantASCII, cfg.Output.ASCII)
		})
	}
}
