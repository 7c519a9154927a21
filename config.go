package frameengine

import (
	"github.com/caarlos0/env/v11"
)

// Config carries the tunables of the engine. Zero values are filled in by
// DefaultConfig or, for operators, from the environment via LoadConfig.
type Config struct {
	// CacheCapacity bounds the number of frames retained across decode and
	// synthesis.
	CacheCapacity int `env:"FRAMEENGINE_CACHE_CAPACITY" envDefault:"32"`

	// SearchRangeX/Y bound the motion search window in pixels.
	SearchRangeX int `env:"FRAMEENGINE_SEARCH_RANGE_X" envDefault:"16"`
	SearchRangeY int `env:"FRAMEENGINE_SEARCH_RANGE_Y" envDefault:"4"`

	// MinSeparation is the ambiguity guard threshold of the motion search.
	MinSeparation float64 `env:"FRAMEENGINE_MIN_SEPARATION" envDefault:"1.0"`

	// Sharpen enables the post-interpolation sharpening pass.
	Sharpen bool `env:"FRAMEENGINE_SHARPEN" envDefault:"true"`

	// FinishX is the x position of the projected finish line in source
	// pixels; negative means the frame center. The motion region of
	// interest extends ROIRange pixels to either side.
	FinishX  int `env:"FRAMEENGINE_FINISH_X" envDefault:"-1"`
	ROIRange int `env:"FRAMEENGINE_ROI_RANGE" envDefault:"80"`

	// MetricsPort exposes prometheus metrics when positive.
	MetricsPort int `env:"FRAMEENGINE_METRICS_PORT" envDefault:"0"`
}

// DefaultConfig returns the built-in defaults without consulting the
// environment.
func DefaultConfig() Config {
	return Config{
		CacheCapacity: 32,
		SearchRangeX:  16,
		SearchRangeY:  4,
		MinSeparation: 1.0,
		Sharpen:       true,
		FinishX:       -1,
		ROIRange:      80,
	}
}

// LoadConfig reads the configuration from FRAMEENGINE_* environment
// variables, falling back to the defaults.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
