// Package metrics exposes Prometheus collectors for movie playback.
//
// A nil *Metrics is valid and records nothing, so components can be built
// without a registry in tests and tools.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reasons a play command is issued.
const (
	PlayReasonReset    = "reset"
	PlayReasonTakeover = "takeover"
	PlayReasonLoop     = "loop"
	PlayReasonManual   = "manual"
)

// Reasons a stop command is issued.
const (
	StopReasonVacated = "vacated"
	StopReasonCleared = "cleared"
	StopReasonManual  = "manual"
)

// Mask modes of a decoded frame.
const (
	MaskModeNone    = "none"
	MaskModeSide    = "side"
	MaskModeChannel = "channel"
)

// Metrics holds the movie subsystem collectors.
type Metrics struct {
	playCommands     *prometheus.CounterVec
	stopCommands     *prometheus.CounterVec
	framesDecoded    *prometheus.CounterVec
	textureEntries   prometheus.Gauge
	groupEntries     prometheus.Gauge
	frequentDuration prometheus.Histogram
}

// New registers the collectors on reg. A nil reg registers on the default
// Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		playCommands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "moviesync_play_commands_total",
			Help: "Play commands issued to the audio/video backend by reason",
		}, []string{"reason"}),
		stopCommands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "moviesync_stop_commands_total",
			Help: "Stop commands issued to the audio/video backend by reason",
		}, []string{"reason"}),
		framesDecoded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "moviesync_frames_decoded_total",
			Help: "Decoded frames turned into textures by mask mode",
		}, []string{"mask_mode"}),
		textureEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "moviesync_texture_cache_entries",
			Help: "Channels holding a cached movie texture",
		}),
		groupEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "moviesync_group_cache_entries",
			Help: "Groups present in the continuity cache",
		}),
		frequentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "moviesync_frequent_duration_seconds",
			Help:    "Time spent in one frequent-update tick",
			Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
		}),
	}
}

// ObservePlay counts a play command.
func (m *Metrics) ObservePlay(reason string) {
	if m == nil {
		return
	}
	m.playCommands.WithLabelValues(reason).Inc()
}

// ObserveStop counts a stop command.
func (m *Metrics) ObserveStop(reason string) {
	if m == nil {
		return
	}
	m.stopCommands.WithLabelValues(reason).Inc()
}

// ObserveFrameDecoded counts a frame turned into a texture.
func (m *Metrics) ObserveFrameDecoded(maskMode string) {
	if m == nil {
		return
	}
	m.framesDecoded.WithLabelValues(maskMode).Inc()
}

// SetTextureCacheEntries records the texture cache size.
func (m *Metrics) SetTextureCacheEntries(n int) {
	if m == nil {
		return
	}
	m.textureEntries.Set(float64(n))
}

// SetGroupCacheEntries records the group continuity cache size.
func (m *Metrics) SetGroupCacheEntries(n int) {
	if m == nil {
		return
	}
	m.groupEntries.Set(float64(n))
}

// ObserveFrequent records the duration of one frequent-update tick.
func (m *Metrics) ObserveFrequent(d time.Duration) {
	if m == nil {
		return
	}
	m.frequentDuration.Observe(d.Seconds())
}
