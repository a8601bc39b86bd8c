package health

import (
	"fmt"
	"sort"

	"github.com/aimana007/ChronyTop/internal/chrony"
)

// Deviations this small are treated as the floor when computing the ratio,
// so sub-microsecond-precise source sets do not inflate it.
const noiseFloorSeconds = 50e-6

const (
	outlierRatio  = 3.0
	outlierGapMs  = 0.50
	elevatedRatio = 2.0
	elevatedGapMs = 0.20
)

// NetworkNoise compares the reference source's regression standard
// deviation against the median across all sources. A source that is much
// noisier than its peers points at a network path problem rather than a
// clock problem. Both the ratio and the absolute gap must exceed their
// thresholds for a classification to fire.
func NetworkNoise(records []chrony.SourceRecord) Indicator {
	if len(records) == 0 {
		return Indicator{Text: "Net noise: -", Severity: SeverityWarn}
	}

	ref := &records[0]
	for i := range records {
		if records[i].Selected() {
			ref = &records[i]
			break
		}
	}

	var refSD *float64
	if ref.Stats != nil {
		refSD = ref.Stats.StdDev
	}
	if refSD == nil {
		return Indicator{
			Text:     "Net noise: no sourcestats stddev for selected",
			Severity: SeverityWarn,
		}
	}

	var sds []float64
	for i := range records {
		if records[i].Stats != nil && records[i].Stats.StdDev != nil {
			sds = append(sds, *records[i].Stats.StdDev)
		}
	}
	if len(sds) < 2 {
		return Indicator{
			Text:     "Net noise: insufficient sources with stddev",
			Severity: SeverityWarn,
		}
	}

	med := median(sds)
	floor := med
	if floor < noiseFloorSeconds {
		floor = noiseFloorSeconds
	}
	ratio := *refSD / floor

	refMs := *refSD * 1000
	medMs := med * 1000
	gapMs := refMs - medMs

	status := "OK"
	severity := SeverityOK
	switch {
	case ratio >= outlierRatio && gapMs >= outlierGapMs:
		status = "OUTLIER"
		severity = SeverityCritical
	case ratio >= elevatedRatio && gapMs >= elevatedGapMs:
		status = "ELEVATED"
		severity = SeverityWarn
	}

	text := fmt.Sprintf("Net noise: sel SD=%.3fms  median=%.3fms  ratio=%.2f  %s",
		refMs, medMs, ratio, status)

	return Indicator{Text: text, Severity: severity}
}

func median(xs []float64) float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}

	return (sorted[n/2-1] + sorted[n/2]) / 2
}
