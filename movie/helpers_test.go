package movie

import (
	"image/color"
	"testing"
	"time"

	"github.com/opd-ai/moviesync/config"
	"github.com/opd-ai/moviesync/video"
	"github.com/stretchr/testify/require"

	simtest "github.com/opd-ai/moviesync/testing"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
)

// harness wires a State to the simulated collaborators.
type harness struct {
	t         *testing.T
	backend   *simtest.SimulatedBackend
	loader    *simtest.MemoryLoader
	scheduler *simtest.RecordingScheduler
	renderer  *video.SoftwareRenderer
	state     *State
	driver    *Driver
}

func newHarness(t *testing.T, configure func(*config.Config), files ...string) *harness {
	t.Helper()

	cfg := config.Default()
	if configure != nil {
		configure(cfg)
	}

	h := &harness{
		t:         t,
		backend:   simtest.NewSimulatedBackend(),
		loader:    simtest.NewMemoryLoader(files...),
		scheduler: simtest.NewRecordingScheduler(),
		renderer:  video.NewSoftwareRenderer(),
	}

	st, err := NewState(cfg, Dependencies{
		Backend:   h.backend,
		Textures:  h.renderer,
		Scheduler: h.scheduler,
		Loader:    h.loader,
		Display:   h.backend,
	})
	require.NoError(t, err)

	h.state = st
	h.driver = NewDriver(st)
	return h
}

func (h *harness) slot(opts SlotOptions) *Slot {
	h.t.Helper()

	s, err := h.state.NewSlot(opts)
	require.NoError(h.t, err)
	return s
}

// show runs the interaction hooks and renders slots, without the frequent
// update.
func (h *harness) show(slots ...*Slot) []*video.Render {
	h.driver.EarlyInteract()

	renders := make([]*video.Render, 0, len(slots))
	for _, s := range slots {
		s.PerInteract()
		renders = append(renders, s.Render(0, 0, 0, 0))
	}
	h.driver.Interact()
	return renders
}

// redraw is one full cycle: show the slots, then run the frequent update.
func (h *harness) redraw(slots ...*Slot) []*video.Render {
	h.t.Helper()

	renders := h.show(slots...)
	_, err := h.driver.Frequent()
	require.NoError(h.t, err)
	return renders
}

func (h *harness) plays() []simtest.Command {
	return h.backend.CommandsFor(simtest.OpPlay)
}

func (h *harness) stops() []simtest.Command {
	return h.backend.CommandsFor(simtest.OpStop)
}

func (h *harness) deliver(channel string, c color.NRGBA, width, height int) {
	h.t.Helper()
	require.NoError(h.t, h.backend.DeliverFrame(channel, video.NewSolidFrame(width, height, c)))
}

// recordingStrategy records every Start call and delegates to the default
// strategy.
type recordingStrategy struct {
	calls []strategyCall
}

type strategyCall struct {
	previous *Slot
	next     *Slot
}

func (r *recordingStrategy) Start(previous, next *Slot) error {
	r.calls = append(r.calls, strategyCall{previous: previous, next: next})
	return DefaultPlayStrategy{}.Start(previous, next)
}

func pixelAt(r video.Renderable, x, y int) color.NRGBA {
	img := video.Rasterize(r)
	return img.NRGBAAt(x, y)
}

// manualClock is a TimeProvider whose ticker fires only when tick is
// called. tick blocks until Run receives the tick, so every earlier tick
// has been fully handled by then.
type manualClock struct {
	ticks chan time.Time
	now   time.Time
}

func newManualClock() *manualClock {
	return &manualClock{
		ticks: make(chan time.Time),
		now:   time.Unix(0, 0),
	}
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) NewTicker(time.Duration) Ticker { return manualTicker{c: c.ticks} }

func (c *manualClock) tick(t *testing.T) {
	t.Helper()
	select {
	case c.ticks <- c.now:
	case <-time.After(5 * time.Second):
		t.Fatal("update loop did not take the tick")
	}
}

type manualTicker struct {
	c chan time.Time
}

func (m manualTicker) C() <-chan time.Time { return m.c }

func (manualTicker) Stop() {}
