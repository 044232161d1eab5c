// Package config holds the tunables of the movie subsystem.
//
// Configuration starts from Default(), may be overlaid by a YAML file and by
// MOVIESYNC_* environment variables, and is checked by Validate before use:
//
//	cfg, err := config.LoadFile("movies.yaml")
//	if err != nil {
//	    return err
//	}
//	config.ApplyEnvironmentOverrides(cfg)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Validation bounds.
const (
	// MaxAutomaticOversampling is the largest oversampling factor searched for.
	MaxAutomaticOversampling = 16
	// MaxRedrawInterval bounds the periodic slot redraw.
	MaxRedrawInterval = 10 * time.Second
	// MaxFrequentInterval bounds the frequent-update tick.
	MaxFrequentInterval = time.Second
)

// FullscreenChannel is the channel fullscreen movies play on.
const FullscreenChannel = "movie"

// ErrInvalidConfig indicates a configuration value out of bounds.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds movie subsystem settings.
type Config struct {
	// SingleMovieChannel, when set, is used by every slot that plays a
	// source on the default channel.
	SingleMovieChannel string `yaml:"single_movie_channel"`
	// AutoMovieChannel gives each such slot its own generated channel.
	AutoMovieChannel bool `yaml:"auto_movie_channel"`
	// AutomaticOversampling is the highest factor searched for when looking
	// for oversampled movie files. Zero disables the search.
	AutomaticOversampling int `yaml:"automatic_oversampling"`
	// ReplayMovieSprites restarts a slot's movie even when the previous
	// occupant played the same source.
	ReplayMovieSprites bool `yaml:"replay_movie_sprites"`
	// MipmapMovies requests mipmaps for movie textures.
	MipmapMovies bool `yaml:"mipmap_movies"`
	// MovieMixer is the mixer movie channels are registered on.
	MovieMixer string `yaml:"movie_mixer"`
	// MovieFadeout is the fade used when stopping the fullscreen movie.
	MovieFadeout time.Duration `yaml:"movie_fadeout"`
	// LessUpdates suppresses fullscreen movie playback.
	LessUpdates bool `yaml:"less_updates"`
	// VideoImageFallback is the player preference to show fallback images
	// instead of playing movie sprites.
	VideoImageFallback bool `yaml:"video_image_fallback"`
	// RedrawInterval is how soon a rendered slot asks to be redrawn.
	RedrawInterval time.Duration `yaml:"redraw_interval"`
	// FrequentInterval is the tick of the frequent-update driver loop.
	FrequentInterval time.Duration `yaml:"frequent_interval"`
	// DefaultWidth and DefaultHeight size fullscreen movies started without
	// an explicit size.
	DefaultWidth  int `yaml:"default_width"`
	DefaultHeight int `yaml:"default_height"`
	// LoaderDirectory is the directory movie files are looked up in.
	LoaderDirectory string `yaml:"loader_directory"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		SingleMovieChannel:    "",
		AutoMovieChannel:      true,
		AutomaticOversampling: 4,
		ReplayMovieSprites:    true,
		MipmapMovies:          false,
		MovieMixer:            "music",
		MovieFadeout:          0,
		LessUpdates:           false,
		VideoImageFallback:    false,
		RedrawInterval:        100 * time.Millisecond,
		FrequentInterval:      20 * time.Millisecond,
		DefaultWidth:          400,
		DefaultHeight:         300,
		LoaderDirectory:       "audio",
	}
}

// LoadFile reads a YAML file over the defaults. Unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "LoadFile",
		"path":     path,
	}).Info("Loaded movie configuration")

	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config contains multiple documents or trailing content")
	}

	return cfg, nil
}

// Validate checks every value against its bounds.
func (c *Config) Validate() error {
	var errs []error

	if c.AutomaticOversampling < 0 || c.AutomaticOversampling > MaxAutomaticOversampling {
		errs = append(errs, fmt.Errorf("%w: automatic_oversampling %d outside [0, %d]",
			ErrInvalidConfig, c.AutomaticOversampling, MaxAutomaticOversampling))
	}
	if c.MovieMixer == "" {
		errs = append(errs, fmt.Errorf("%w: movie_mixer must not be empty", ErrInvalidConfig))
	}
	if c.MovieFadeout < 0 {
		errs = append(errs, fmt.Errorf("%w: movie_fadeout must not be negative", ErrInvalidConfig))
	}
	if c.RedrawInterval <= 0 || c.RedrawInterval > MaxRedrawInterval {
		errs = append(errs, fmt.Errorf("%w: redraw_interval %v outside (0, %v]",
			ErrInvalidConfig, c.RedrawInterval, MaxRedrawInterval))
	}
	if c.FrequentInterval <= 0 || c.FrequentInterval > MaxFrequentInterval {
		errs = append(errs, fmt.Errorf("%w: frequent_interval %v outside (0, %v]",
			ErrInvalidConfig, c.FrequentInterval, MaxFrequentInterval))
	}
	if c.DefaultWidth < 0 || c.DefaultHeight < 0 {
		errs = append(errs, fmt.Errorf("%w: default size %dx%d is negative",
			ErrInvalidConfig, c.DefaultWidth, c.DefaultHeight))
	}
	if c.LoaderDirectory == "" {
		errs = append(errs, fmt.Errorf("%w: loader_directory must not be empty", ErrInvalidConfig))
	}
	if strings.ContainsAny(c.SingleMovieChannel, " /") {
		errs = append(errs, fmt.Errorf("%w: single_movie_channel %q contains a space or slash",
			ErrInvalidConfig, c.SingleMovieChannel))
	}

	return errors.Join(errs...)
}
