package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rayzchen/3to4pp/internal/color"
	"github.com/rayzchen/3to4pp/internal/raster"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// maxIconEdge is the largest frame an ICO directory entry can describe.
const maxIconEdge = 256

// Config holds everything the build pipeline needs. The zero value is not
// usable; start from Default.
type Config struct {
	Source     string        `yaml:"source"`
	OutputDir  string        `yaml:"output_dir"`
	PNGPattern string        `yaml:"png_pattern"`
	ICOName    string        `yaml:"ico_name"`
	Sizes      []int         `yaml:"sizes"`
	Filter     raster.Filter `yaml:"filter"`
	Crop       bool          `yaml:"crop"`
	ColorKey   KeyConfig     `yaml:"color_key"`
}

// KeyConfig toggles chroma keying.
type KeyConfig struct {
	Enabled bool      `yaml:"enabled"`
	Color   color.Key `yaml:"color"`
}

// Default returns the original hardcoded settings: puzzle.png in, five PNGs
// and icons.ico out in the working directory, no chroma key.
func Default() *Config {
	return &Config{
		Source:     "puzzle.png",
		OutputDir:  ".",
		PNGPattern: "icon%dx%d.png",
		ICOName:    "icons.ico",
		Sizes:      []int{16, 32, 48, 64, 128},
		Filter:     raster.FilterLanczos3,
		ColorKey: KeyConfig{
			Enabled: false,
			Color:   color.DefaultKey,
		},
	}
}

// Load reads a YAML file on top of Default and validates the result. Keys
// missing from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks sizes, filter, file names and pattern.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("%w: source is required", ErrInvalid)
	}
	if c.ICOName == "" {
		return fmt.Errorf("%w: ico_name is required", ErrInvalid)
	}
	if len(c.Sizes) == 0 {
		return fmt.Errorf("%w: sizes must not be empty", ErrInvalid)
	}
	for i, s := range c.Sizes {
		if s <= 0 {
			return fmt.Errorf("%w: size %d must be positive", ErrInvalid, s)
		}
		if s > maxIconEdge {
			return fmt.Errorf("%w: size %d exceeds %d", ErrInvalid, s, maxIconEdge)
		}
		if i > 0 && s <= c.Sizes[i-1] {
			return fmt.Errorf("%w: sizes must be strictly ascending (%d after %d)", ErrInvalid, s, c.Sizes[i-1])
		}
	}
	if _, err := raster.ParseFilter(string(c.Filter)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if strings.Count(c.PNGPattern, "%d") != 2 || strings.Count(c.PNGPattern, "%") != 2 {
		return fmt.Errorf("%w: png_pattern %q must contain exactly two %%d verbs", ErrInvalid, c.PNGPattern)
	}
	return nil
}

// PNGName returns the file name for the PNG of the given edge length.
func (c *Config) PNGName(size int) string {
	return fmt.Sprintf(c.PNGPattern, size, size)
}

// Largest returns the primary icon size.
func (c *Config) Largest() int {
	return c.Sizes[len(c.Sizes)-1]
}
