package health

import (
	"fmt"

	"github.com/aimana007/ChronyTop/internal/history"
)

const (
	// DefaultCouplingWindow is how many samples back the deltas are taken
	// from, clamped to available history.
	DefaultCouplingWindow = 20

	couplingMinSamples = 3
	couplingDeadband   = 0.2
)

// TempFreqCoupling is a coarse co-movement heuristic between CPU
// temperature and oscillator frequency error, not a correlation
// coefficient. Both series move together when the crystal is thermally
// coupled; divergence hints at a non-thermal frequency disturbance.
func TempFreqCoupling(temps, freqs *history.Series, window int) Indicator {
	if temps.Len() < couplingMinSamples || freqs.Len() < couplingMinSamples {
		return Indicator{Text: "Temp<->Freq: -", Severity: SeverityWarn}
	}

	if window <= 0 {
		window = DefaultCouplingWindow
	}
	n := window
	if temps.Len() < n {
		n = temps.Len()
	}
	if freqs.Len() < n {
		n = freqs.Len()
	}

	t0, _ := temps.Back(n - 1)
	t1, _ := temps.Last()
	f0, _ := freqs.Back(n - 1)
	f1, _ := freqs.Last()

	dt := t1 - t0
	df := f1 - f0

	switch {
	case abs(dt) < couplingDeadband && abs(df) < couplingDeadband:
		return Indicator{Text: "Temp<->Freq: stable", Severity: SeverityOK}
	case dt > couplingDeadband && df > couplingDeadband:
		return Indicator{
			Text:     fmt.Sprintf("Temp<->Freq: both rising (d%+.1fC, d%+.2fppm)", dt, df),
			Severity: SeverityOK,
		}
	case dt < -couplingDeadband && df < -couplingDeadband:
		return Indicator{
			Text:     fmt.Sprintf("Temp<->Freq: both falling (d%+.1fC, d%+.2fppm)", dt, df),
			Severity: SeverityOK,
		}
	default:
		return Indicator{
			Text:     fmt.Sprintf("Temp<->Freq: diverge (d%+.1fC, d%+.2fppm)", dt, df),
			Severity: SeverityWarn,
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}
