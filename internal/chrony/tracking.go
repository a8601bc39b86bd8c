package chrony

import (
	"regexp"
	"strconv"
)

// TrackingSample holds the scalar clock state from one chronyc tracking
// report. Offset is positive when the local clock is ahead of the
// reference. Fields missing from the report are zero; tracking is an
// atomic snapshot, so partial absence zeroes the missing field rather than
// rejecting the sample.
type TrackingSample struct {
	Offset    float64 // seconds
	RMS       float64 // seconds
	Frequency float64 // ppm
	Skew      float64 // ppm
}

var (
	systemTimeRe = regexp.MustCompile(`System time\s+:\s+([-\d.]+)\s+seconds\s+(slow|fast)`)
	rmsOffsetRe  = regexp.MustCompile(`RMS offset\s+:\s+([-\d.]+)`)
	frequencyRe  = regexp.MustCompile(`Frequency\s+:\s+([-\d.]+)`)
	skewRe       = regexp.MustCompile(`Skew\s+:\s+([-\d.]+)`)
)

// ParseTracking extracts a TrackingSample from a tracking report. It
// returns nil only for empty input.
func ParseTracking(out string) *TrackingSample {
	if out == "" {
		return nil
	}

	sample := &TrackingSample{}

	if m := systemTimeRe.FindStringSubmatch(out); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			// "slow" means the local clock is behind the reference.
			if m[2] == "fast" {
				sample.Offset = v
			} else {
				sample.Offset = -v
			}
		}
	}

	sample.RMS = searchFloat(out, rmsOffsetRe)
	sample.Frequency = searchFloat(out, frequencyRe)
	sample.Skew = searchFloat(out, skewRe)

	return sample
}

func searchFloat(out string, re *regexp.Regexp) float64 {
	m := re.FindStringSubmatch(out)
	if m == nil {
		return 0
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}

	return v
}
