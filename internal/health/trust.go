package health

import (
	"math"

	"github.com/aimana007/ChronyTop/internal/chrony"
)

// Assessment is the trust evaluation of one source for one cycle.
type Assessment struct {
	Score    int // 0..100
	Flags    []string
	Severity Severity
}

// Reach registers below this (octal 017: only the last three polls
// succeeded at best) count as low reachability.
const lowReachThreshold = 0o17

// ScoreSource computes a 0-100 trust score for a merged source record.
// Deductions are independent; several can fire on the same record. The
// flag list is ordered by rule evaluation.
func ScoreSource(src *chrony.SourceRecord) Assessment {
	score := 100
	var flags []string

	addFlag := func(f string) {
		flags = append(flags, f)
	}

	if src.Unreachable() {
		addFlag("UNREACH")
		score -= 55
	}
	if src.Falseticker() {
		addFlag("BAD")
		score -= 45
	}
	if src.TooVariable() {
		addFlag("TOO_VAR")
		score -= 20
	}
	if src.Selected() {
		score += 5
	}
	if src.Combined() {
		score += 2
	}

	switch {
	case src.Reach == nil:
		score -= 10
		addFlag("NO_RCH")
	case *src.Reach == 0:
		score -= 45
		addFlag("RCH=0")
	case *src.Reach < lowReachThreshold:
		score -= 15
		addFlag("LOW_RCH")
	}

	switch {
	case src.LastRx == nil:
		score -= 10
		addFlag("NO_RX")
	case *src.LastRx > 256:
		score -= 25
		addFlag("STALE")
	case *src.LastRx > 64:
		score -= 15
		addFlag("AGING")
	}

	if src.Offset != nil {
		offMs := math.Abs(*src.Offset) * 1000
		switch {
		case offMs > 50:
			score -= 35
			addFlag("OFF>50ms")
		case offMs > 10:
			score -= 15
			addFlag("OFF>10ms")
		case offMs > 2:
			score -= 5
		}
	} else {
		score -= 6
		addFlag("NO_OFF")
	}

	if src.ErrBound != nil {
		errMs := *src.ErrBound * 1000
		switch {
		case errMs > 100:
			score -= 18
			addFlag("ERR>100ms")
		case errMs > 50:
			score -= 12
			addFlag("ERR>50ms")
		case errMs > 10:
			score -= 6
			addFlag("ERR>10ms")
		}
	}

	var stdDev, freqSkew *float64
	if src.Stats != nil {
		stdDev = src.Stats.StdDev
		freqSkew = src.Stats.FreqSkew
	}

	if stdDev == nil {
		score -= 6
		addFlag("NO_SD")
	} else {
		sdMs := *stdDev * 1000
		switch {
		case sdMs > 15:
			score -= 30
			addFlag("SD>15ms")
		case sdMs > 5:
			score -= 18
			addFlag("SD>5ms")
		case sdMs > 1:
			score -= 7
			addFlag("SD>1ms")
		}
	}

	if freqSkew == nil {
		score -= 3
	} else {
		switch {
		case *freqSkew > 2.0:
			score -= 12
			addFlag("FSKEW>2")
		case *freqSkew > 1.0:
			score -= 7
			addFlag("FSKEW>1")
		case *freqSkew > 0.5:
			score -= 3
		}
	}

	switch {
	case src.Stratum == nil:
		score -= 3
	case *src.Stratum <= 2:
		score += 2
	case *src.Stratum >= 10:
		score -= 8
		addFlag("HI_STR")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	severity := SeverityCritical
	switch {
	case score >= 80 && !contains(flags, "UNREACH") && !contains(flags, "BAD"):
		severity = SeverityOK
	case score >= 55:
		severity = SeverityWarn
	}

	return Assessment{Score: score, Flags: flags, Severity: severity}
}

func contains(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}

	return false
}
