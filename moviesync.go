package moviesync

import (
	"context"
	"errors"

	"github.com/opd-ai/moviesync/config"
	"github.com/opd-ai/moviesync/interfaces"
	"github.com/opd-ai/moviesync/loader"
	"github.com/opd-ai/moviesync/metrics"
	"github.com/opd-ai/moviesync/movie"
	"github.com/opd-ai/moviesync/video"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrNoBackend indicates New was called without an audio/video backend.
var ErrNoBackend = errors.New("moviesync: backend is required")

// Options contains configuration options for creating a System.
type Options struct {
	// Config holds the movie settings. Nil uses config.Default().
	Config *config.Config
	// ConfigPath, when set, loads settings from a YAML file instead.
	ConfigPath string
	// SkipEnvironment disables MOVIESYNC_* overrides.
	SkipEnvironment bool

	// Backend plays movies. Required.
	Backend interfaces.AVBackend
	// Textures uploads frames. Nil uses a video.SoftwareRenderer.
	Textures interfaces.TextureLoader
	// Scheduler receives slot redraw requests.
	Scheduler interfaces.RedrawScheduler
	// Display reports the display density for automatic oversampling.
	Display interfaces.DisplayScale

	// Loader overrides the filesystem loader built from Roots.
	Loader interfaces.Loader
	// Roots are the directories movie files are looked up in.
	Roots []string

	// Registerer receives the Prometheus collectors. Nil disables metrics.
	Registerer prometheus.Registerer
}

// NewOptions creates a new default options.
func NewOptions() *Options {
	return &Options{
		Config: config.Default(),
	}
}

// System is a configured movie subsystem.
type System struct {
	cfg     *config.Config
	fs      *loader.FS
	metrics *metrics.Metrics
	state   *movie.State
	driver  *movie.Driver
}

// New creates a System from options.
func New(options *Options) (*System, error) {
	if options == nil {
		options = NewOptions()
	}
	if options.Backend == nil {
		return nil, ErrNoBackend
	}

	cfg, err := resolveConfig(options)
	if err != nil {
		return nil, err
	}

	s := &System{cfg: cfg}

	ld := options.Loader
	if ld == nil && len(options.Roots) > 0 {
		s.fs = loader.NewFS(options.Roots...)
		ld = s.fs
	}

	if options.Registerer != nil {
		s.metrics = metrics.New(options.Registerer)
	}

	textures := options.Textures
	if textures == nil {
		textures = video.NewSoftwareRenderer()
	}

	s.state, err = movie.NewState(cfg, movie.Dependencies{
		Backend:   options.Backend,
		Textures:  textures,
		Scheduler: options.Scheduler,
		Loader:    ld,
		Display:   options.Display,
		Metrics:   s.metrics,
	})
	if err != nil {
		return nil, err
	}
	s.driver = movie.NewDriver(s.state)

	logrus.WithFields(logrus.Fields{
		"function":       "New",
		"roots":          options.Roots,
		"metrics":        s.metrics != nil,
		"auto_channel":   cfg.AutoMovieChannel,
		"oversample_max": cfg.AutomaticOversampling,
	}).Info("Created movie system")

	return s, nil
}

func resolveConfig(options *Options) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case options.ConfigPath != "":
		loaded, err := config.LoadFile(options.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case options.Config != nil:
		c := *options.Config
		cfg = &c
	default:
		cfg = config.Default()
	}

	if !options.SkipEnvironment {
		config.ApplyEnvironmentOverrides(cfg)
	}
	return cfg, cfg.Validate()
}

// Config returns the effective configuration.
func (s *System) Config() *config.Config {
	return s.cfg
}

// State returns the movie state.
func (s *System) State() *movie.State {
	return s.state
}

// Driver returns the update driver.
func (s *System) Driver() *movie.Driver {
	return s.driver
}

// Run drives the movie state until ctx is done, watching the loader roots
// for changes alongside. redraw is called before every frequent update on
// the driver goroutine; see movie.Driver.Run.
//
// A watcher that cannot start is logged and ignored. Run returns the
// driver's error, if any.
func (s *System) Run(ctx context.Context, redraw movie.RedrawFunc) error {
	g, ctx := errgroup.WithContext(ctx)

	if s.fs != nil {
		g.Go(func() error {
			if err := s.fs.Watch(ctx); err != nil {
				logrus.WithFields(logrus.Fields{
					"function": "System.Run",
					"error":    err.Error(),
				}).Warn("Movie root watcher stopped")
			}
			return nil
		})
	}

	g.Go(func() error {
		return s.driver.Run(ctx, redraw)
	})

	return g.Wait()
}
