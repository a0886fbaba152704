package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/sat8bit/guesswho/parser"
	"github.com/sat8bit/guesswho/source"
)

// DefaultPath is used when neither the flag nor the environment names a file.
const DefaultPath = "guesswho.yaml"

// ErrInvalid marks every configuration problem, so callers can tell them
// apart from parse failures of the chat exports.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Sources []source.Source `yaml:"sources"`
	Colors  Colors          `yaml:"colors"`
}

// Colors are lipgloss color values for the three emphasis levels.
type Colors struct {
	Standard  string `yaml:"standard"`
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
}

func DefaultColors() Colors {
	return Colors{
		Standard:  "15",  // white
		Primary:   "201", // magenta
		Secondary: "51",  // cyan
	}
}

// Load reads and validates the YAML config at location.
func Load(ctx context.Context, fs afs.Service, location string) (*Config, error) {
	if fs == nil {
		fs = afs.New()
	}
	URL, err := parser.ToURL(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrInvalid, location, err)
	}
	return Parse(data)
}

// Parse decodes a YAML config and fills defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal config: %v", ErrInvalid, err)
	}

	defaults := DefaultColors()
	if cfg.Colors.Standard == "" {
		cfg.Colors.Standard = defaults.Standard
	}
	if cfg.Colors.Primary == "" {
		cfg.Colors.Primary = defaults.Primary
	}
	if cfg.Colors.Secondary == "" {
		cfg.Colors.Secondary = defaults.Secondary
	}

	for i, s := range cfg.Sources {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("%w: sources[%d]: %v", ErrInvalid, i, err)
		}
	}
	return &cfg, nil
}
