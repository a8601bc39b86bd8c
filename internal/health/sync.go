package health

import (
	"fmt"
	"math"
	"time"

	"github.com/aimana007/ChronyTop/internal/chrony"
	"github.com/aimana007/ChronyTop/internal/history"
)

// Cache ages beyond these are treated as stale data (seconds).
const (
	TrackingStaleSeconds    = 5.0
	SourcesStaleSeconds     = 15.0
	SourceStatsStaleSeconds = 60.0
)

// Oscillator thresholds.
const (
	clockStepMs       = 50.0
	highOffsetMs      = 10.0
	jitterRMSMs       = 10.0
	driftPPM          = 100.0
	skewPPM           = 5.0
	timeJumpSeconds   = 0.250
	suspendGapSecs    = 15.0
	recentRxPollUnits = 256
)

// Evaluator produces the sync-health and oscillator-health alerts for a
// cycle. Everything is recomputed from current inputs; the only carried
// state is the previous offset sample and the previous check time, used
// for the time-jump and suspend detections.
type Evaluator struct {
	lastOffset *float64
	lastCheck  time.Time
	now        func() time.Time
}

func NewEvaluator() *Evaluator {
	return &Evaluator{
		lastCheck: time.Now(),
		now:       time.Now,
	}
}

// Evaluate returns the cycle's alerts in priority order: daemon/data
// pipeline state first, then source tallies, then oscillator checks.
// Alerts are independent checks, not exclusive states; several can fire
// in the same cycle.
func (e *Evaluator) Evaluate(
	records []chrony.SourceRecord,
	ages chrony.Ages,
	offsets, rms, freqs, skews *history.Series,
) []Alert {
	alerts := e.syncAlerts(records, ages)

	// Oscillator health requires at least one tracking sample.
	if offsets.Len() == 0 {
		return alerts
	}

	lastOffset, _ := offsets.Last()
	offMs := math.Abs(lastOffset) * 1000

	rmsMs := 0.0
	if v, ok := rms.Last(); ok {
		rmsMs = math.Abs(v) * 1000
	}
	freqPPM := 0.0
	if v, ok := freqs.Last(); ok {
		freqPPM = math.Abs(v)
	}
	skewValue := 0.0
	if v, ok := skews.Last(); ok {
		skewValue = math.Abs(v)
	}

	if offMs > clockStepMs {
		alerts = append(alerts, Alert{"CLOCK STEP / LARGE OFFSET", SeverityCritical})
	} else if offMs > highOffsetMs {
		alerts = append(alerts, Alert{"HIGH OFFSET", SeverityWarn})
	}

	if rmsMs > jitterRMSMs {
		alerts = append(alerts, Alert{"JITTER (RMS HIGH)", SeverityWarn})
	}

	if freqPPM > driftPPM {
		alerts = append(alerts, Alert{"DRIFT (FREQ HIGH)", SeverityCritical})
	}

	if skewValue > skewPPM {
		alerts = append(alerts, Alert{"UNSTABLE OSC (SKEW HIGH)", SeverityWarn})
	}

	now := e.now()
	gap := now.Sub(e.lastCheck).Seconds()
	e.lastCheck = now

	if e.lastOffset != nil {
		if math.Abs(lastOffset-*e.lastOffset) > timeJumpSeconds {
			alerts = append(alerts, Alert{"TIME JUMP (OFFSET DELTA)", SeverityCritical})
		}
		if gap > suspendGapSecs {
			alerts = append(alerts, Alert{"SUSPEND/PAUSE DETECTED (MONOTONIC GAP)", SeverityCritical})
		}
	}

	off := lastOffset
	e.lastOffset = &off

	return alerts
}

func (e *Evaluator) syncAlerts(records []chrony.SourceRecord, ages chrony.Ages) []Alert {
	var alerts []Alert

	if math.IsInf(ages.Tracking, 1) || math.IsInf(ages.Sources, 1) {
		return []Alert{{"CHRONYD DOWN / NO DATA (never got valid chronyc output)", SeverityCritical}}
	}

	if ages.Tracking > TrackingStaleSeconds {
		alerts = append(alerts, Alert{
			fmt.Sprintf("CHRONYC STALE: tracking age %.1fs", ages.Tracking), SeverityCritical,
		})
	}
	if ages.Sources > SourcesStaleSeconds {
		alerts = append(alerts, Alert{
			fmt.Sprintf("CHRONYC STALE: sources age %.1fs", ages.Sources), SeverityCritical,
		})
	}
	if ages.SourceStats > SourceStatsStaleSeconds {
		alerts = append(alerts, Alert{
			fmt.Sprintf("CHRONYC STALE: sourcestats age %.1fs", ages.SourceStats), SeverityWarn,
		})
	}

	// A sync verdict built on stale source data would be noise.
	if ages.Sources > SourcesStaleSeconds {
		return alerts
	}

	if len(records) == 0 {
		return append(alerts, Alert{"NO NTP SOURCES PARSED", SeverityCritical})
	}

	reachable, selected, combined := 0, 0, 0
	anyRxRecent := false
	for i := range records {
		r := &records[i]
		if r.Selected() {
			selected++
		}
		if r.Combined() {
			combined++
		}
		if r.Reach != nil && *r.Reach > 0 {
			reachable++
		}
		if r.LastRx != nil && *r.LastRx <= recentRxPollUnits {
			anyRxRecent = true
		}
	}

	if reachable == 0 {
		alerts = append(alerts, Alert{"NO REACHABLE NTP SOURCES (reach=0 across all)", SeverityCritical})
	}
	if selected == 0 {
		alerts = append(alerts, Alert{"NO SELECTED SOURCE (* missing) - UNSYNCED", SeverityCritical})
	}
	if !anyRxRecent {
		alerts = append(alerts, Alert{"ALL SOURCES STALE (LastRx very old)", SeverityCritical})
	}

	if reachable == 1 {
		alerts = append(alerts, Alert{"DEGRADED: only one reachable source", SeverityWarn})
	} else if reachable >= 2 && selected >= 1 && combined >= 1 && len(alerts) == 0 {
		alerts = append(alerts, Alert{"CHRONY SYNC: OK", SeverityOK})
	}

	return alerts
}
