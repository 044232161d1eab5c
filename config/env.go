package config

import (
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Environment variables read by ApplyEnvironmentOverrides.
const (
	EnvSingleMovieChannel    = "MOVIESYNC_SINGLE_MOVIE_CHANNEL"
	EnvAutoMovieChannel      = "MOVIESYNC_AUTO_MOVIE_CHANNEL"
	EnvAutomaticOversampling = "MOVIESYNC_AUTOMATIC_OVERSAMPLING"
	EnvReplayMovieSprites    = "MOVIESYNC_REPLAY_MOVIE_SPRITES"
	EnvMipmapMovies          = "MOVIESYNC_MIPMAP_MOVIES"
	EnvLessUpdates           = "MOVIESYNC_LESS_UPDATES"
	EnvVideoImageFallback    = "MOVIESYNC_VIDEO_IMAGE_FALLBACK"
	EnvFrequentInterval      = "MOVIESYNC_FREQUENT_INTERVAL"
)

// ApplyEnvironmentOverrides updates cfg from MOVIESYNC_* environment
// variables. Values that fail to parse or fall out of bounds are logged and
// ignored.
func ApplyEnvironmentOverrides(cfg *Config) {
	if v, ok := os.LookupEnv(EnvSingleMovieChannel); ok {
		cfg.SingleMovieChannel = v
	}

	parseBoolSetting(EnvAutoMovieChannel, &cfg.AutoMovieChannel)
	parseBoolSetting(EnvReplayMovieSprites, &cfg.ReplayMovieSprites)
	parseBoolSetting(EnvMipmapMovies, &cfg.MipmapMovies)
	parseBoolSetting(EnvLessUpdates, &cfg.LessUpdates)
	parseBoolSetting(EnvVideoImageFallback, &cfg.VideoImageFallback)
	parseOversamplingSetting(cfg)
	parseFrequentIntervalSetting(cfg)
}

func parseBoolSetting(name string, target *bool) {
	str := os.Getenv(name)
	if str == "" {
		return
	}

	v, err := strconv.ParseBool(str)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":    "parseBoolSetting",
			"env_var":     name,
			"value":       str,
			"error":       err.Error(),
			"using_value": *target,
		}).Warn("Failed to parse environment variable, using default")
		return
	}
	*target = v
}

func parseOversamplingSetting(cfg *Config) {
	str := os.Getenv(EnvAutomaticOversampling)
	if str == "" {
		return
	}

	v, err := strconv.Atoi(str)
	if err != nil || v < 0 || v > MaxAutomaticOversampling {
		logrus.WithFields(logrus.Fields{
			"function":    "parseOversamplingSetting",
			"env_var":     EnvAutomaticOversampling,
			"value":       str,
			"max":         MaxAutomaticOversampling,
			"using_value": cfg.AutomaticOversampling,
		}).Warn("Invalid MOVIESYNC_AUTOMATIC_OVERSAMPLING, using default")
		return
	}
	cfg.AutomaticOversampling = v
}

func parseFrequentIntervalSetting(cfg *Config) {
	str := os.Getenv(EnvFrequentInterval)
	if str == "" {
		return
	}

	v, err := time.ParseDuration(str)
	if err != nil || v <= 0 || v > MaxFrequentInterval {
		logrus.WithFields(logrus.Fields{
			"function":    "parseFrequentIntervalSetting",
			"env_var":     EnvFrequentInterval,
			"value":       str,
			"max":         MaxFrequentInterval,
			"using_value": cfg.FrequentInterval,
		}).Warn("Invalid MOVIESYNC_FREQUENT_INTERVAL, using default")
		return
	}
	cfg.FrequentInterval = v
}
