// Package health derives trust and health assessments from parsed chrony
// telemetry: per-source trust scores, a network-noise outlier indicator, a
// temperature/frequency coupling indicator and the sync/oscillator alert
// evaluator.
package health

// Severity classifies an alert, score or indicator.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarn
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityOK:
		return "ok"
	case SeverityWarn:
		return "warn"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Alert is one health finding for the current cycle. Alerts are recomputed
// fresh every cycle and never retained.
type Alert struct {
	Text     string
	Severity Severity
}

// Indicator is a (text, severity) pair for the noise and coupling
// diagnostics.
type Indicator struct {
	Text     string
	Severity Severity
}
