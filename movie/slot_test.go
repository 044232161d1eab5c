package movie

import (
	"image"
	"image/color"
	"testing"

	"github.com/opd-ai/moviesync/config"
	"github.com/opd-ai/moviesync/interfaces"
	"github.com/opd-ai/moviesync/media"
	"github.com/opd-ai/moviesync/video"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	simtest "github.com/opd-ai/moviesync/testing"
)

func TestNewSlotChannelNaming(t *testing.T) {
	tests := []struct {
		name      string
		configure func(*config.Config)
		opts      SlotOptions
		want      string
		wantMask  string
	}{
		{
			name: "default channel with source gets generated name",
			opts: SlotOptions{Play: media.Path("a.webm")},
			want: "_movie_0",
		},
		{
			name: "default channel without source stays",
			opts: SlotOptions{},
			want: DefaultChannel,
		},
		{
			name:      "single shared channel",
			configure: func(c *config.Config) { c.SingleMovieChannel = "shared" },
			opts:      SlotOptions{Play: media.Path("a.webm")},
			want:      "shared",
		},
		{
			name:      "automatic channels disabled",
			configure: func(c *config.Config) { c.AutoMovieChannel = false },
			opts:      SlotOptions{Play: media.Path("a.webm")},
			want:      DefaultChannel,
		},
		{
			name: "explicit channel kept",
			opts: SlotOptions{Channel: "intro", Play: media.Path("a.webm")},
			want: "intro",
		},
		{
			name:     "mask channel derived",
			opts:     SlotOptions{Channel: "intro", Mask: media.Path("m.webm")},
			want:     "intro",
			wantMask: "intro_mask",
		},
		{
			name:     "explicit mask channel kept",
			opts:     SlotOptions{Channel: "intro", Mask: media.Path("m.webm"), MaskChannel: "alpha"},
			want:     "intro",
			wantMask: "alpha",
		},
		{
			name:     "invalid channel regenerated with its mask channel",
			opts:     SlotOptions{Channel: "my movie", Mask: media.Path("m.webm"), MaskChannel: "alpha"},
			want:     "_movie_0",
			wantMask: "_movie_0_mask",
		},
		{
			name: "slash is invalid",
			opts: SlotOptions{Channel: "movies/intro"},
			want: "_movie_0",
		},
		{
			name: "side mask disables mask",
			opts: SlotOptions{Channel: "intro", Mask: media.Path("m.webm"), SideMask: true},
			want: "intro",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.configure, "a.webm", "m.webm")
			s := h.slot(tt.opts)

			assert.Equal(t, tt.want, s.Channel())
			assert.Equal(t, tt.wantMask, s.MaskChannel())
			assert.True(t, h.backend.ChannelDefined(tt.want))
			if tt.wantMask != "" {
				assert.True(t, h.backend.ChannelDefined(tt.wantMask))
			}
		})
	}
}

// TestNewSlotUniqueChannels verifies every automatically named slot gets its
// own channel.
func TestNewSlotUniqueChannels(t *testing.T) {
	h := newHarness(t, nil, "a.webm")

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		opts := DefaultSlotOptions()
		opts.Play = media.Path("a.webm")
		s := h.slot(opts)
		assert.False(t, seen[s.Channel()], "channel %s reused", s.Channel())
		seen[s.Channel()] = true
	}
}

// TestNewSlotChannelRegistration verifies channel options, including frame
// drop only for masked slots.
func TestNewSlotChannelRegistration(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.MovieMixer = "voice" })

	h.slot(SlotOptions{Channel: "plain"})
	h.slot(SlotOptions{Channel: "masked", Mask: media.Path("m.webm")})

	plain, ok := h.backend.ChannelOptions("plain")
	require.True(t, ok)
	assert.Equal(t, interfaces.ChannelOptions{Mixer: "voice", Loop: true, Movie: true, Force: true}, plain)

	masked, ok := h.backend.ChannelOptions("masked_mask")
	require.True(t, ok)
	assert.True(t, masked.FrameDrop)
}

// TestNewSlotUnloadableSource verifies an unloadable source disables playback
// but is kept for inspection.
func TestNewSlotUnloadableSource(t *testing.T) {
	h := newHarness(t, nil, "exists.webm")

	s := h.slot(SlotOptions{Channel: "c", Play: media.Alternates("missing.webm", "gone.webm")})
	assert.True(t, s.Play().IsZero())
	assert.Equal(t, []string{"missing.webm", "gone.webm"}, s.OriginalPlay().Paths())

	alt := h.slot(SlotOptions{Channel: "d", Play: media.Alternates("missing.webm", "exists.webm")})
	assert.False(t, alt.Play().IsZero())
}

// TestNewSlotInvalidSize verifies a letterbox size needs area.
func TestNewSlotInvalidSize(t *testing.T) {
	h := newHarness(t, nil)

	for _, size := range []image.Point{{100, 0}, {0, 100}, {-1, 50}, {50, -1}} {
		s, err := h.state.NewSlot(SlotOptions{Channel: "c", Size: size})
		assert.ErrorIs(t, err, ErrInvalidSize, "size %v", size)
		assert.Nil(t, s)
	}
	assert.Equal(t, 0, h.state.LiveSlots())

	s := h.slot(SlotOptions{Channel: "c", Size: image.Pt(100, 50)})
	rv := s.Render(0, 0, 0, 0)
	w, ht := rv.Size()
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, ht)
}

func TestNewSlotKeepLastFrameGroups(t *testing.T) {
	h := newHarness(t, nil)

	first := h.slot(SlotOptions{Channel: "a", KeepLastFrame: true})
	second := h.slot(SlotOptions{Channel: "b", KeepLastFrame: true})
	named := h.slot(SlotOptions{Channel: "c", KeepLastFrame: true, Group: "scene"})

	assert.Equal(t, "_keep_last_frame_0", first.Group())
	assert.Equal(t, "_keep_last_frame_1", second.Group())
	assert.Equal(t, "scene", named.Group())
}

// TestRenderFallbackImage verifies the fallback image wins when nothing plays.
func TestRenderFallbackImage(t *testing.T) {
	h := newHarness(t, nil)
	fallback := simtest.NewSolidImage(30, 20, green)
	s := h.slot(SlotOptions{Channel: "c", Play: media.Path("missing.webm"), Image: fallback, Size: image.Pt(300, 200)})

	rv := h.show(s)[0]

	w, ht := rv.Size()
	assert.Equal(t, 30, w)
	assert.Equal(t, 20, ht)
	assert.Equal(t, green, pixelAt(rv, 5, 5))
	assert.Equal(t, 1, fallback.Renders())

	requests := h.scheduler.RequestsFor(s)
	require.NotEmpty(t, requests)
	assert.Equal(t, config.Default().RedrawInterval, requests[len(requests)-1].Delay)
}

// TestRenderVideoImageFallbackPreference verifies slots do not claim their
// channel when the player prefers images.
func TestRenderVideoImageFallbackPreference(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.VideoImageFallback = true }, "a.webm")
	s := h.slot(SlotOptions{Channel: "c", Play: media.Path("a.webm"), Image: simtest.NewSolidImage(4, 4, green)})

	h.redraw(s)

	_, ok := h.state.Occupant("c")
	assert.False(t, ok)
	assert.Empty(t, h.plays())
}

// TestRenderStartImage verifies the start image shows while the movie plays
// without a frame.
func TestRenderStartImage(t *testing.T) {
	h := newHarness(t, nil, "a.webm")
	s := h.slot(SlotOptions{
		Channel:    "c",
		Play:       media.Path("a.webm"),
		Image:      simtest.NewSolidImage(10, 10, green),
		StartImage: simtest.NewSolidImage(10, 10, blue),
		Loop:       true,
	})

	first := h.redraw(s)[0]
	assert.Equal(t, green, pixelAt(first, 1, 1))

	second := h.redraw(s)[0]
	assert.Equal(t, blue, pixelAt(second, 1, 1))

	h.deliver("c", red, 10, 10)
	third := h.redraw(s)[0]
	assert.Equal(t, red, pixelAt(third, 1, 1))
}

// TestRenderEmptyWhenNothingToShow verifies a playing slot without frames or
// images renders an empty surface.
func TestRenderEmptyWhenNothingToShow(t *testing.T) {
	h := newHarness(t, nil, "a.webm")
	s := h.slot(SlotOptions{Channel: "c", Play: media.Path("a.webm")})

	h.redraw(s)
	rv := h.show(s)[0]

	w, ht := rv.Size()
	assert.Zero(t, w)
	assert.Zero(t, ht)
}

// TestRenderLetterbox verifies a fixed size centers the frame.
func TestRenderLetterbox(t *testing.T) {
	h := newHarness(t, nil, "a.webm")
	s := h.slot(SlotOptions{Channel: "c", Play: media.Path("a.webm"), Size: image.Pt(200, 100), Loop: true})

	h.redraw(s)
	h.deliver("c", red, 100, 100)
	rv := h.show(s)[0]

	w, ht := rv.Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, ht)

	children := rv.Children()
	require.Len(t, children, 1)
	assert.Equal(t, image.Pt(50, 0), children[0].Offset)

	assert.Equal(t, red, pixelAt(rv, 100, 50))
	assert.Equal(t, color.NRGBA{}, pixelAt(rv, 10, 50))
}

// TestRenderOversampledMovie verifies the playing oversample scales the
// texture down.
func TestRenderOversampledMovie(t *testing.T) {
	h := newHarness(t, nil, "a@2.webm")
	s := h.slot(SlotOptions{Channel: "c", Play: media.Path("a@2.webm"), Loop: true})

	h.redraw(s)
	assert.Equal(t, 2.0, s.PlayingOversample())

	h.deliver("c", red, 200, 100)
	rv := h.show(s)[0]

	w, ht := rv.Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, ht)
	require.NotNil(t, rv.Reverse)
	assert.Equal(t, video.Scale(0.5), rv.Reverse)
	assert.Equal(t, video.Scale(2), rv.Forward)
}

// TestRenderAutomaticOversampling verifies a dense display plays the
// oversampled variant.
func TestRenderAutomaticOversampling(t *testing.T) {
	h := newHarness(t, nil, "a.webm", "a@2.webm")
	h.backend.SetDrawPerVirt(2)
	s := h.slot(SlotOptions{Channel: "c", Play: media.Path("a.webm"), Loop: true})

	h.redraw(s)

	plays := h.plays()
	require.Len(t, plays, 1)
	assert.Equal(t, []string{"a@2.webm"}, plays[0].Sources)
	assert.Equal(t, 2.0, s.PlayingOversample())
}

// TestRenderExplicitOversample verifies a declared factor is used verbatim.
func TestRenderExplicitOversample(t *testing.T) {
	h := newHarness(t, nil, "a.webm", "a@2.webm")
	h.backend.SetDrawPerVirt(2)
	s := h.slot(SlotOptions{Channel: "c", Play: media.Path("a.webm"), Oversample: 3, Loop: true})

	h.redraw(s)

	plays := h.plays()
	require.Len(t, plays, 1)
	assert.Equal(t, []string{"a.webm"}, plays[0].Sources)
	assert.Equal(t, 3.0, s.PlayingOversample())
}

// TestRenderMaskChannel verifies the mask channel supplies alpha and is
// played before the movie.
func TestRenderMaskChannel(t *testing.T) {
	h := newHarness(t, nil, "a.webm", "m.webm")
	s := h.slot(SlotOptions{Channel: "c", Play: media.Path("a.webm"), Mask: media.Path("m.webm"), Loop: true})

	h.redraw(s)

	plays := h.plays()
	require.Len(t, plays, 2)
	assert.Equal(t, "c_mask", plays[0].Channel)
	assert.Equal(t, "c", plays[1].Channel)

	h.deliver("c", red, 8, 8)
	h.deliver("c_mask", color.NRGBA{R: 0, A: 255}, 8, 8)
	rv := h.show(s)[0]

	assert.Equal(t, uint8(0), pixelAt(rv, 4, 4).A)
}

// TestRenderMaskWithoutBaseFrame verifies a mask frame alone yields no new
// texture.
func TestRenderMaskWithoutBaseFrame(t *testing.T) {
	h := newHarness(t, nil, "a.webm", "m.webm")
	s := h.slot(SlotOptions{Channel: "c", Play: media.Path("a.webm"), Mask: media.Path("m.webm"), Loop: true})

	h.redraw(s)
	h.deliver("c_mask", red, 8, 8)

	tex, fresh := h.state.MovieTexture("c", "c_mask", false)
	assert.Nil(t, tex)
	assert.False(t, fresh)
}

// TestRenderSideMask verifies side-by-side frames are split into color and
// alpha halves.
func TestRenderSideMask(t *testing.T) {
	h := newHarness(t, nil, "a.webm")
	s := h.slot(SlotOptions{Channel: "c", Play: media.Path("a.webm"), SideMask: true, Loop: true})

	h.redraw(s)

	img := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetNRGBA(x, y, red)
			img.SetNRGBA(x+10, y, color.NRGBA{A: 255})
		}
	}
	require.NoError(t, h.backend.DeliverFrame("c", video.NewFrame(img)))

	rv := h.show(s)[0]
	w, ht := rv.Size()
	assert.Equal(t, 10, w)
	assert.Equal(t, 10, ht)
	assert.Equal(t, uint8(0), pixelAt(rv, 5, 5).A)
}

// TestRenderGroupBridgesFrames verifies a new slot in a group shows the
// previous slot's last frame until its own first frame arrives.
func TestRenderGroupBridgesFrames(t *testing.T) {
	h := newHarness(t, nil, "a.webm", "b.webm")
	fallback := simtest.NewSolidImage(10, 10, green)
	first := h.slot(SlotOptions{Channel: "c1", Play: media.Path("a.webm"), Group: "scene", Image: fallback, Loop: true})
	second := h.slot(SlotOptions{Channel: "c2", Play: media.Path("b.webm"), Group: "scene", Image: fallback, Loop: true})

	h.redraw(first)
	h.deliver("c1", red, 10, 10)
	h.redraw(first)

	tex, ok := h.state.GroupTexture("scene")
	require.True(t, ok)
	require.NotNil(t, tex)

	bridged := h.redraw(second)[0]
	assert.Equal(t, red, pixelAt(bridged, 1, 1))

	h.deliver("c2", blue, 10, 10)
	own := h.redraw(second)[0]
	assert.Equal(t, blue, pixelAt(own, 1, 1))

	h.redraw()
	_, ok = h.state.GroupTexture("scene")
	assert.False(t, ok)
}

// TestRenderMipmapOverride verifies the per-slot mipmap flag wins over the
// configuration.
func TestRenderMipmapOverride(t *testing.T) {
	enabled := true
	h := newHarness(t, nil, "a.webm")
	s := h.slot(SlotOptions{Channel: "c", Play: media.Path("a.webm"), Mipmap: &enabled, Loop: true})

	h.redraw(s)
	h.deliver("c", red, 4, 4)
	h.show(s)

	tex, ok := h.state.Texture("c")
	require.True(t, ok)
	assert.True(t, tex.(*video.SoftwareTexture).Mipmapped())
}

// TestSlotAfterRestore verifies a restored slot revalidates its original
// source.
func TestSlotAfterRestore(t *testing.T) {
	h := newHarness(t, nil)
	s := h.slot(SlotOptions{Channel: "c", Play: media.Path("late.webm")})
	require.True(t, s.Play().IsZero())

	h.loader.Add("late.webm")
	s.AfterRestore()
	assert.Equal(t, []string{"late.webm"}, s.Play().Paths())

	h.loader.Remove("late.webm")
	s.AfterRestore()
	assert.True(t, s.Play().IsZero())
	assert.Equal(t, []string{"late.webm"}, s.OriginalPlay().Paths())
}

func TestSlotVisit(t *testing.T) {
	h := newHarness(t, nil)
	img := simtest.NewSolidImage(1, 1, green)
	start := simtest.NewSolidImage(1, 1, blue)

	assert.Empty(t, h.slot(SlotOptions{Channel: "a"}).Visit())
	assert.Equal(t, []interfaces.Displayable{img, start},
		h.slot(SlotOptions{Channel: "b", Image: img, StartImage: start}).Visit())
}

// TestPlayStrategyFunc verifies custom strategies receive both slots and
// can issue their own commands.
func TestPlayStrategyFunc(t *testing.T) {
	h := newHarness(t, nil, "a.webm")

	var gotPrevious, gotNext *Slot
	strategy := PlayStrategyFunc(func(previous, next *Slot) error {
		gotPrevious, gotNext = previous, next
		return next.PlaySource(next.Play(), next.Channel(), interfaces.PlayOptions{Loop: false, SynchroStart: true})
	})
	s := h.slot(SlotOptions{Channel: "c", Play: media.Path("a.webm"), PlayStrategy: strategy})

	h.redraw(s)

	assert.Nil(t, gotPrevious)
	assert.Same(t, s, gotNext)
	plays := h.plays()
	require.Len(t, plays, 1)
	assert.True(t, plays[0].SynchroStart)

	assert.ErrorIs(t, DefaultPlayStrategy{}.Start(nil, nil), ErrNilSlot)
	assert.ErrorIs(t, s.PlaySource(s.Play(), "", interfaces.PlayOptions{}), ErrInvalidChannel)
}
