package movie

import (
	"image"

	"github.com/opd-ai/moviesync/config"
	"github.com/opd-ai/moviesync/interfaces"
	"github.com/opd-ai/moviesync/media"
	"github.com/opd-ai/moviesync/metrics"
	"github.com/opd-ai/moviesync/video"
	"github.com/sirupsen/logrus"
)

// MovieStart plays src on the fullscreen channel. loops of -1 loops
// forever; otherwise the source is queued loops+1 times. A non-zero size
// becomes the default movie size. Nothing is played when less_updates is
// set.
func (st *State) MovieStart(src media.Source, size image.Point, loops int) error {
	if st.cfg.LessUpdates {
		return nil
	}
	if size != (image.Point{}) {
		st.defaultSize = size
	}

	loop := loops == -1
	if !loop {
		src = src.Repeat(loops + 1)
	}

	if err := st.ensureFullscreenChannel(); err != nil {
		return err
	}
	if err := st.backend.Play(src.Paths(), config.FullscreenChannel, interfaces.PlayOptions{Loop: loop}); err != nil {
		return err
	}
	st.metrics.ObservePlay(metrics.PlayReasonManual)

	logrus.WithFields(logrus.Fields{
		"function": "State.MovieStart",
		"play":     src.String(),
		"loop":     loop,
	}).Info("Started fullscreen movie")
	return nil
}

// MovieStartFullscreen is MovieStart with an oversampled variant looked up
// for single-file sources.
func (st *State) MovieStartFullscreen(src media.Source, size image.Point, loops int) error {
	if name, ok := src.Filename(); ok {
		src = media.Path(st.resolver.FindOversampledFilename(name))
	}
	return st.MovieStart(src, size, loops)
}

// MovieStop stops the fullscreen channel. With onlyFullscreen set it does
// nothing unless a fullscreen movie is showing.
func (st *State) MovieStop(onlyFullscreen bool) error {
	if onlyFullscreen && !st.fullscreen {
		return nil
	}
	if !st.backend.ChannelDefined(config.FullscreenChannel) {
		return nil
	}
	if err := st.backend.Stop(config.FullscreenChannel, st.cfg.MovieFadeout); err != nil {
		return err
	}
	st.metrics.ObserveStop(metrics.StopReasonManual)

	logrus.WithFields(logrus.Fields{
		"function": "State.MovieStop",
		"fadeout":  st.cfg.MovieFadeout.String(),
	}).Info("Stopped fullscreen movie")
	return nil
}

// RenderMovie letterboxes the current texture of channel into a
// width x height box. It returns nil when the channel has no texture.
func (st *State) RenderMovie(channel string, width, height int) *video.Render {
	tex, _ := st.MovieTexture(channel, "", false)
	if tex == nil {
		return nil
	}
	return video.Letterbox(tex, width, height)
}

// Playing reports whether the fullscreen channel or any channel shown by a
// registered slot is playing.
func (st *State) Playing() bool {
	if st.backend.IsPlaying(config.FullscreenChannel) {
		return true
	}
	for _, key := range st.registeredOrder {
		if st.backend.IsPlaying(key.channel) {
			return true
		}
	}
	return false
}

// DefaultSize is the size fullscreen movies are shown at.
func (st *State) DefaultSize() image.Point {
	return st.defaultSize
}

func (st *State) ensureFullscreenChannel() error {
	if st.backend.ChannelDefined(config.FullscreenChannel) {
		return nil
	}
	return st.backend.RegisterChannel(config.FullscreenChannel, interfaces.ChannelOptions{
		Mixer: st.cfg.MovieMixer,
		Loop:  true,
		Movie: true,
		Force: true,
	})
}
