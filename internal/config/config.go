// Package config defines the gallery parameters and how they are loaded from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"gallerywall/internal/cell"
)

// Config holds every tunable of a gallery. All fields may change at runtime and
// take effect on the next tick or render.
type Config struct {
	Folder string `yaml:"folder" json:"folder"`

	Rows    int `yaml:"rows" json:"rows" validate:"min=1,max=15"`
	Columns int `yaml:"columns" json:"columns" validate:"min=1,max=15"`

	HorizontalMargin  float32 `yaml:"horizontal_margin" json:"horizontal_margin" validate:"min=0,max=0.5"`
	VerticalMargin    float32 `yaml:"vertical_margin" json:"vertical_margin" validate:"min=0,max=0.5"`
	HorizontalSpacing float32 `yaml:"horizontal_spacing" json:"horizontal_spacing" validate:"min=0,max=0.5"`
	VerticalSpacing   float32 `yaml:"vertical_spacing" json:"vertical_spacing" validate:"min=0,max=0.5"`

	FlipDuration     time.Duration `yaml:"flip_duration" json:"flip_duration" validate:"min=500ms,max=10s"`
	FlipFrequency    time.Duration `yaml:"flip_frequency" json:"flip_frequency" validate:"min=500ms,max=20s"`
	ZoomIdleTime     time.Duration `yaml:"zoom_idle_time" json:"zoom_idle_time" validate:"min=500ms,max=10s"`
	ZoomDuration     time.Duration `yaml:"zoom_duration" json:"zoom_duration" validate:"min=500ms,max=10s"`
	AppearanceDelay  time.Duration `yaml:"appearance_delay" json:"appearance_delay" validate:"min=0s,max=1m"`
	AppearanceJitter time.Duration `yaml:"appearance_jitter" json:"appearance_jitter" validate:"min=0s,max=1m"`

	// Background effect parameters, passed through to the renderer.
	NoiseFrequency float32 `yaml:"noise_frequency" json:"noise_frequency" validate:"min=0"`
	TvLines        bool    `yaml:"tv_lines" json:"tv_lines"`
	Vignetting     bool    `yaml:"vignetting" json:"vignetting"`

	// ZoomFlyIn plays the zoom from full viewport back into the cell instead of outwards.
	ZoomFlyIn bool `yaml:"zoom_fly_in" json:"zoom_fly_in"`

	Extensions        []string      `yaml:"extensions" json:"extensions" validate:"min=1,dive,startswith=."`
	Recursive         bool          `yaml:"recursive" json:"recursive"`
	QueueSize         int           `yaml:"queue_size" json:"queue_size" validate:"min=1,max=1024"`
	MaxTextureSize    int           `yaml:"max_texture_size" json:"max_texture_size" validate:"omitempty,min=16,max=16384"`
	CheckInterval     time.Duration `yaml:"check_interval" json:"check_interval" validate:"min=500ms,max=10s"`
	SpotlightNewFiles bool          `yaml:"spotlight_new_files" json:"spotlight_new_files"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		Rows:              3,
		Columns:           4,
		HorizontalMargin:  .05,
		VerticalMargin:    .05,
		HorizontalSpacing: .04,
		VerticalSpacing:   .06,
		FlipDuration:      2500 * time.Millisecond,
		FlipFrequency:     3 * time.Second,
		ZoomIdleTime:      2 * time.Second,
		ZoomDuration:      1500 * time.Millisecond,
		AppearanceDelay:   time.Second,
		AppearanceJitter:  2 * time.Second,
		NoiseFrequency:    1,
		TvLines:           true,
		Vignetting:        true,
		Extensions:        []string{".png"},
		QueueSize:         16,
		MaxTextureSize:    2048,
		CheckInterval:     time.Second,
	}
}

// Load reads a YAML file on top of base. Keys missing from the file keep their base value.
func Load(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return base, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Cells is the number of grid cells.
func (c Config) Cells() int { return c.Rows * c.Columns }

// CacheFactor is how many textures the cache holds per cell.
const CacheFactor = 3

// CacheCapacity is the texture cache size for the current grid.
func (c Config) CacheCapacity() int { return CacheFactor * c.Rows * c.Columns }

// Timing extracts the cell animation durations.
func (c Config) Timing() cell.Timing {
	return cell.Timing{
		FlipDuration:     c.FlipDuration,
		ZoomIdle:         c.ZoomIdleTime,
		ZoomDuration:     c.ZoomDuration,
		AppearanceDelay:  c.AppearanceDelay,
		AppearanceJitter: c.AppearanceJitter,
	}
}
