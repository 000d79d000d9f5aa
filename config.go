package loom

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config tunes a Document. Zero values fall back to the defaults, so a
// partial loom.toml only needs the fields it changes.
type Config struct {
	Interaction InteractionConfig `toml:"interaction"`
	Text        TextConfig        `toml:"text"`

	// Stylesheet is the path of a YAML stylesheet loaded into the
	// default resolver. Empty starts with no classes defined.
	Stylesheet string `toml:"stylesheet"`
}

// InteractionConfig tunes the pointer state machine.
type InteractionConfig struct {
	// DragThresholdPx is the pointer travel separating a click from a
	// drag.
	DragThresholdPx float32 `toml:"drag_threshold_px"`
	// ScrollLinePx converts line-based wheel deltas to pixels.
	ScrollLinePx float32 `toml:"scroll_line_px"`
}

// TextConfig selects the fonts available to the default measurer.
type TextConfig struct {
	// Fonts maps family names to font file paths. The empty family
	// names the fallback face.
	Fonts map[string]string `toml:"fonts"`
}

// DefaultConfig returns the configuration a zero Config resolves to.
func DefaultConfig() Config {
	return Config{
		Interaction: InteractionConfig{
			DragThresholdPx: 4,
			ScrollLinePx:    16,
		},
	}
}

// LoadConfig reads a TOML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// withDefaults fills zero fields in from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Interaction.DragThresholdPx <= 0 {
		c.Interaction.DragThresholdPx = def.Interaction.DragThresholdPx
	}
	if c.Interaction.ScrollLinePx <= 0 {
		c.Interaction.ScrollLinePx = def.Interaction.ScrollLinePx
	}
	return c
}
