package movie

import (
	"github.com/opd-ai/moviesync/metrics"
	"github.com/opd-ai/moviesync/video"
	"github.com/sirupsen/logrus"
)

// MovieTexture returns the texture to show for channel.
//
// A newly decoded frame becomes the channel's cached texture and the
// second result is true. Without a new frame the cached texture, if any,
// is returned with false. Nothing is returned when the channel is not
// playing.
func (st *State) MovieTexture(channel, maskChannel string, sideMask bool) (video.Texture, bool) {
	return st.movieTexture(channel, maskChannel, sideMask, st.cfg.MipmapMovies)
}

func (st *State) movieTexture(channel, maskChannel string, sideMask, mipmap bool) (video.Texture, bool) {
	if !st.backend.IsPlaying(channel) {
		return nil, false
	}

	frame := st.readVideo(channel)

	var mask *video.Frame
	mode := metrics.MaskModeNone
	switch {
	case sideMask:
		mode = metrics.MaskModeSide
		if frame != nil {
			frame, mask = video.SplitSideMask(frame)
		}
	case maskChannel != "":
		mode = metrics.MaskModeChannel
		mask = st.readVideo(maskChannel)
	}

	if mask != nil {
		if err := video.ApplyAlphaMask(mask, frame); err != nil {
			logrus.WithFields(logrus.Fields{
				"function":     "State.movieTexture",
				"channel":      channel,
				"mask_channel": maskChannel,
				"error":        err.Error(),
			}).Debug("Dropping masked frame")
			frame = nil
		}
	}

	if frame != nil {
		if tex := st.textures.LoadTexture(frame, mipmap); tex != nil {
			st.texture[channel] = tex
			st.metrics.ObserveFrameDecoded(mode)
			st.metrics.SetTextureCacheEntries(len(st.texture))
			return tex, true
		}
	}

	return st.texture[channel], false
}

func (st *State) readVideo(channel string) *video.Frame {
	c, ok := st.backend.Channel(channel)
	if !ok || c == nil {
		return nil
	}
	return c.ReadVideo()
}

func (st *State) channelReady(channel string) bool {
	c, ok := st.backend.Channel(channel)
	return ok && c != nil && c.VideoReady()
}

// evictStaleTextures drops cached textures of channels no longer playing.
func (st *State) evictStaleTextures() {
	for channel := range st.texture {
		if !st.backend.IsPlaying(channel) {
			delete(st.texture, channel)

			logrus.WithFields(logrus.Fields{
				"function": "State.evictStaleTextures",
				"channel":  channel,
			}).Debug("Evicted movie texture")
		}
	}
	st.metrics.SetTextureCacheEntries(len(st.texture))
}

// cycleGroupTextures keeps the cache entries of groups displayed this
// redraw and drops the rest.
func (st *State) cycleGroupTextures() {
	next := make(map[string]video.Texture)
	for _, key := range st.registeredOrder {
		for _, h := range st.registered[key] {
			s := st.arena.get(h)
			if s == nil || s.group == "" {
				continue
			}
			next[s.group] = st.groupTexture[s.group]
		}
	}
	st.groupTexture = next
	st.metrics.SetGroupCacheEntries(len(next))
}
