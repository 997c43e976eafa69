// Package config holds the settings of the geosafe command line tool.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

type WriterConfiguration struct {
	Precision       int  `toml:"precision"` // -1 writes full precision
	Trim            bool `toml:"trim"`
	OutputDimension int  `toml:"output_dimension"`
}

type IndexConfiguration struct {
	NodeCapacity int `toml:"node_capacity"`
}

type BufferConfiguration struct {
	QuadrantSegments int `toml:"quadrant_segments"`
}

type LogConfiguration struct {
	Level   string `toml:"level"`
	Verbose bool   `toml:"verbose"`
}

type Config struct {
	Writer WriterConfiguration `toml:"writer"`
	Index  IndexConfiguration  `toml:"index"`
	Buffer BufferConfiguration `toml:"buffer"`
	Log    LogConfiguration    `toml:"log"`
}

// Default returns the settings used when no configuration file is given.
func Default() *Config {
	return &Config{
		Writer: WriterConfiguration{
			Precision:       -1,
			Trim:            true,
			OutputDimension: 2,
		},
		Index: IndexConfiguration{
			NodeCapacity: 10,
		},
		Buffer: BufferConfiguration{
			QuadrantSegments: 8,
		},
		Log: LogConfiguration{
			Level: "info",
		},
	}
}

// Load decodes the file at path over the defaults. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Writer.OutputDimension < 2 || c.Writer.OutputDimension > 4 {
		return fmt.Errorf("writer output dimension must be 2, 3 or 4, got %d", c.Writer.OutputDimension)
	}
	if c.Index.NodeCapacity < 2 {
		return fmt.Errorf("index node capacity must be >= 2")
	}
	if c.Buffer.QuadrantSegments < 1 {
		return fmt.Errorf("buffer quadrant segments must be >= 1")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Log.Level; Log.Verbose forces debug.
func (c *Config) LogLevel() (zerolog.Level, error) {
	if c.Log.Verbose {
		return zerolog.DebugLevel, nil
	}
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	return level, nil
}
