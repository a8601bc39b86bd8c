// Package monitor runs one chrony polling cycle end to end: cached chronyc
// queries, parsing, temperature sampling, per-source trust scoring and the
// health checks, producing a Snapshot per cycle.
package monitor

import (
	"context"
	"time"

	"github.com/aimana007/ChronyTop/internal/chrony"
	"github.com/aimana007/ChronyTop/internal/health"
	"github.com/aimana007/ChronyTop/internal/history"
	"github.com/aimana007/ChronyTop/internal/logger"
	"github.com/aimana007/ChronyTop/internal/sensors"
)

// Temperature sources occasionally vanish across suspend or module reload.
// Rediscovery is retried at most this often.
const sensorRediscoverInterval = 60 * time.Second

// TempReader is the temperature source the monitor polls each cycle.
type TempReader interface {
	Poll() ([]sensors.Reading, *float64)
	Discover() int
}

// Snapshot is the complete observable state of one monitoring cycle.
type Snapshot struct {
	Timestamp    time.Time
	Tracking     *chrony.TrackingSample
	Sources      []chrony.SourceRecord
	Assessments  []health.Assessment
	Alerts       []health.Alert
	Noise        health.Indicator
	Coupling     health.Indicator
	SelectedName string
	SelectedPoll *float64
	TempReadings []sensors.Reading
	TempMax      *float64
	Ages         chrony.Ages
}

// ReachableCount counts sources whose reach register is known and nonzero.
func (s *Snapshot) ReachableCount() int {
	n := 0
	for i := range s.Sources {
		if s.Sources[i].Reach != nil && *s.Sources[i].Reach > 0 {
			n++
		}
	}

	return n
}

// SelectedCount counts sources carrying the selection marker.
func (s *Snapshot) SelectedCount() int {
	n := 0
	for i := range s.Sources {
		if s.Sources[i].Selected() {
			n++
		}
	}

	return n
}

// WorstSeverity returns the most severe level across the cycle's alerts.
func (s *Snapshot) WorstSeverity() health.Severity {
	worst := health.SeverityOK
	for _, a := range s.Alerts {
		if a.Severity > worst {
			worst = a.Severity
		}
	}

	return worst
}

// Monitor owns the chronyc cache, the rolling histories and the health
// evaluator. It is not safe for concurrent use; the daemon loop is the
// single caller.
type Monitor struct {
	cache     *chrony.Cache
	temps     TempReader
	evaluator *health.Evaluator

	offsets *history.Series
	rms     *history.Series
	freqs   *history.Series
	skews   *history.Series
	tempsC  *history.Series

	lastDiscover time.Time
	now          func() time.Time
}

// New builds a Monitor around a chronyc runner and a temperature reader.
// historySize bounds every rolling series.
func New(runner chrony.Runner, temps TempReader, historySize int) *Monitor {
	return &Monitor{
		cache:        chrony.NewCache(runner),
		temps:        temps,
		evaluator:    health.NewEvaluator(),
		offsets:      history.NewSeries(historySize),
		rms:          history.NewSeries(historySize),
		freqs:        history.NewSeries(historySize),
		skews:        history.NewSeries(historySize),
		tempsC:       history.NewSeries(historySize),
		lastDiscover: time.Now(),
		now:          time.Now,
	}
}

// Poll runs one cycle and returns its snapshot. The cache decides which
// chronyc commands actually execute this cycle.
func (m *Monitor) Poll(ctx context.Context) *Snapshot {
	snap := &Snapshot{Timestamp: m.now()}

	if out, ok := m.cache.Get(ctx, chrony.CommandTracking); ok {
		if sample := chrony.ParseTracking(out); sample != nil {
			snap.Tracking = sample
			m.offsets.Append(sample.Offset)
			m.rms.Append(sample.RMS)
			m.freqs.Append(sample.Frequency)
			m.skews.Append(sample.Skew)
		}
	}

	if out, ok := m.cache.Get(ctx, chrony.CommandSources); ok {
		snap.Sources = chrony.ParseSources(out)
	}
	if out, ok := m.cache.Get(ctx, chrony.CommandSourceStats); ok {
		stats := chrony.ParseSourceStats(out)
		chrony.MergeSourceStats(snap.Sources, stats)
	}

	snap.TempReadings, snap.TempMax = m.pollTemperatures()
	if snap.TempMax != nil {
		m.tempsC.Append(*snap.TempMax)
	}

	snap.Assessments = make([]health.Assessment, len(snap.Sources))
	for i := range snap.Sources {
		snap.Assessments[i] = health.ScoreSource(&snap.Sources[i])
	}

	snap.Ages = m.cache.Ages()
	snap.Alerts = m.evaluator.Evaluate(snap.Sources, snap.Ages, m.offsets, m.rms, m.freqs, m.skews)
	snap.Noise = health.NetworkNoise(snap.Sources)
	snap.Coupling = health.TempFreqCoupling(m.tempsC, m.freqs, health.DefaultCouplingWindow)
	snap.SelectedName, snap.SelectedPoll = chrony.SelectedPoll(snap.Sources)

	return snap
}

func (m *Monitor) pollTemperatures() ([]sensors.Reading, *float64) {
	readings, maxC := m.temps.Poll()
	if len(readings) > 0 {
		return readings, maxC
	}

	if m.now().Sub(m.lastDiscover) < sensorRediscoverInterval {
		return readings, maxC
	}

	m.lastDiscover = m.now()
	if n := m.temps.Discover(); n > 0 {
		logger.Debug().Int("sources", n).Msg("temperature sources rediscovered")
		return m.temps.Poll()
	}

	return readings, maxC
}

// Offsets exposes the tracking offset history.
func (m *Monitor) Offsets() *history.Series { return m.offsets }

// RMS exposes the RMS offset history.
func (m *Monitor) RMS() *history.Series { return m.rms }

// Frequencies exposes the frequency history.
func (m *Monitor) Frequencies() *history.Series { return m.freqs }

// Skews exposes the frequency skew history.
func (m *Monitor) Skews() *history.Series { return m.skews }

// Temperatures exposes the max temperature history.
func (m *Monitor) Temperatures() *history.Series { return m.tempsC }
