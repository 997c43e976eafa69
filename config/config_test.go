package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geosafe.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[writer]
precision = 3

[index]
node_capacity = 16

[log]
level = "warn"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3, cfg.Writer.Precision)
	assert.True(t, cfg.Writer.Trim, "unset values keep their defaults")
	assert.Equal(t, 16, cfg.Index.NodeCapacity)
	assert.Equal(t, 8, cfg.Buffer.QuadrantSegments)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, level)
}

func Test_LoadDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "failed to decode config")
}

func Test_Validate(t *testing.T) {
	tests := []struct {
		name          string
		modify        func(c *Config)
		errorContains string
	}{
		{name: "defaults", modify: func(c *Config) {}},
		{name: "verbose overrides level", modify: func(c *Config) { c.Log.Level = "nope"; c.Log.Verbose = true }},
		{name: "output dimension", modify: func(c *Config) { c.Writer.OutputDimension = 5 }, errorContains: "output dimension"},
		{name: "node capacity", modify: func(c *Config) { c.Index.NodeCapacity = 1 }, errorContains: "node capacity"},
		{name: "quadrant segments", modify: func(c *Config) { c.Buffer.QuadrantSegments = 0 }, errorContains: "quadrant segments"},
		{name: "log level", modify: func(c *Config) { c.Log.Level = "loud" }, errorContains: "invalid log level"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)
			err := cfg.Validate()
			if tc.errorContains == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tc.errorContains)
			}
		})
	}
}
