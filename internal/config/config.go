package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mgpai22/subtitlegen/internal/subtitle"
)

// DefaultPath is read when --config is not given. A missing file there is
// not an error.
const DefaultPath = "subtitlegen.yaml"

// file backed defaults for the generate command
type Config struct {
	Partition int               `yaml:"partition"`
	Style     string            `yaml:"style"`
	Format    string            `yaml:"format"`
	Strict    bool              `yaml:"strict"`
	Messages  subtitle.Messages `yaml:"messages"`
}

func Default() *Config {
	return &Config{
		Partition: 0,
		Style:     string(subtitle.StyleLong),
		Format:    string(subtitle.FormatSRT),
		Messages:  subtitle.DefaultMessages(),
	}
}

// Load reads a YAML file over the defaults. With required unset, a missing
// file yields the defaults.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	// fill empty values
	defaults := Default()
	if cfg.Style == "" {
		cfg.Style = defaults.Style
	}
	if cfg.Format == "" {
		cfg.Format = defaults.Format
	}
	if cfg.Messages.Long == "" {
		cfg.Messages.Long = defaults.Messages.Long
	}
	if cfg.Messages.Short == "" {
		cfg.Messages.Short = defaults.Messages.Short
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Partition < 0 {
		return fmt.Errorf("partition must not be negative, got %d", c.Partition)
	}
	if _, ok := subtitle.ParseStyle(c.Style); !ok {
		return fmt.Errorf("unknown style %q: use long or short", c.Style)
	}
	if _, ok := subtitle.ParseFormat(c.Format); !ok {
		return fmt.Errorf("unsupported format %q: use srt, vtt, ass, or json", c.Format)
	}
	return nil
}

// Generator converts the file settings into generator settings.
func (c *Config) Generator() subtitle.Config {
	return subtitle.Config{
		PartitionCount: c.Partition,
		Style:          subtitle.Style(c.Style),
		Strict:         c.Strict,
		Messages:       c.Messages,
	}
}
