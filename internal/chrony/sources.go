package chrony

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// SourceRecord is one upstream time source from a chronyc sources report,
// optionally augmented with its sourcestats entry after MergeSourceStats.
// Pointer fields are nil when the value was absent or unparseable; zero is
// a legitimate measurement for several of them.
type SourceRecord struct {
	ModeState string // selection/combination markers, e.g. "^*"
	Name      string // raw display form
	Key       string // normalized join key (trailing ">" stripped)
	Stratum   *int
	Poll      *int     // log2 of the polling interval in seconds
	Reach     *int     // 8-bit reachability register, 0..255
	ReachRaw  string   // octal text as printed by chronyc
	LastRx    *int     // poll intervals since the last valid sample
	Offset    *float64 // measured offset, seconds
	ErrBound  *float64 // offset error bound, seconds

	Stats *SourceStats // nil until merged, or when no stats row exists
}

// SourceStats holds the per-source regression statistics from a chronyc
// sourcestats report.
type SourceStats struct {
	Name      string
	Key       string
	Samples   *int     // number of sample points
	Runs      *int     // number of residual runs
	Span      *float64 // seconds
	Frequency *float64 // ppm
	FreqSkew  *float64 // ppm
	Offset    *float64 // seconds
	StdDev    *float64 // seconds
}

var (
	// A data line starts with a 1-2 character mode-state prefix followed
	// by whitespace.
	sourceLineRe = regexp.MustCompile(`^[\^=#?~+-]{1,2}[*+?x-]?\s`)
	offsetRe     = regexp.MustCompile(`([+-]?\d+(?:\.\d+)?)(ns|us|ms|s)\[`)
	errBoundRe   = regexp.MustCompile(`\+/-\s*([+-]?\d+(?:\.\d+)?)(ns|us|ms|s)`)
	octalRe      = regexp.MustCompile(`^[0-7]+$`)
)

const minSourceTokens = 6

// ParseSources extracts one SourceRecord per data line of a sources
// report. Banners, headers and malformed lines are skipped; a divider line
// resets accumulation so only the last table section is kept.
func ParseSources(out string) []SourceRecord {
	if out == "" {
		return nil
	}

	var dataLines []string
	for _, ln := range strings.Split(out, "\n") {
		ln = strings.TrimRight(ln, "\r")
		switch {
		case strings.HasPrefix(ln, "===="):
			dataLines = nil
		case strings.TrimSpace(ln) == "":
		case strings.HasPrefix(ln, "MS ") || strings.HasPrefix(ln, "Name/IP"):
		case sourceLineRe.MatchString(ln):
			dataLines = append(dataLines, ln)
		}
	}

	records := make([]SourceRecord, 0, len(dataLines))
	for _, ln := range dataLines {
		parts := strings.Fields(ln)
		if len(parts) < minSourceTokens {
			continue
		}

		rec := SourceRecord{
			ModeState: parts[0],
			Name:      parts[1],
			Key:       normalizeKey(parts[1]),
			Stratum:   parseIntField(parts[2]),
			Poll:      parseIntField(parts[3]),
			ReachRaw:  parts[4],
			LastRx:    parseIntField(parts[5]),
		}

		// Reach is octal; anything else is an explicit unknown, not a
		// parse failure.
		if octalRe.MatchString(parts[4]) {
			if v, err := strconv.ParseInt(parts[4], 8, 32); err == nil {
				reach := int(v)
				rec.Reach = &reach
			}
		}

		rest := strings.Join(parts[minSourceTokens:], " ")
		if m := offsetRe.FindStringSubmatch(rest); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				sec := toSeconds(v, m[2])
				rec.Offset = &sec
			}
		}
		if m := errBoundRe.FindStringSubmatch(rest); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				sec := toSeconds(v, m[2])
				rec.ErrBound = &sec
			}
		}

		records = append(records, rec)
	}

	return records
}

// Mode-state marker checks.

func (r *SourceRecord) Selected() bool {
	return strings.Contains(r.ModeState, "*")
}

func (r *SourceRecord) Combined() bool {
	return strings.Contains(r.ModeState, "+")
}

func (r *SourceRecord) Unreachable() bool {
	return strings.Contains(r.ModeState, "?")
}

func (r *SourceRecord) Falseticker() bool {
	return strings.Contains(r.ModeState, "x")
}

func (r *SourceRecord) TooVariable() bool {
	return strings.Contains(r.ModeState, "~")
}

// PollSeconds returns the effective polling interval, 2^Poll seconds.
// Negative exponents yield sub-second intervals.
func (r *SourceRecord) PollSeconds() *float64 {
	if r.Poll == nil {
		return nil
	}

	sec := math.Pow(2, float64(*r.Poll))

	return &sec
}

// SelectedPoll returns the name and effective polling interval of the
// reference source: the first one carrying the selected marker, falling
// back to the first record.
func SelectedPoll(records []SourceRecord) (string, *float64) {
	var sel *SourceRecord
	for i := range records {
		if records[i].Selected() {
			sel = &records[i]
			break
		}
	}
	if sel == nil {
		if len(records) == 0 {
			return "", nil
		}
		sel = &records[0]
	}

	return sel.Name, sel.PollSeconds()
}
