package chrony

import "strings"

const minStatsTokens = 8

// ParseSourceStats extracts the per-source regression statistics from a
// sourcestats report, keyed by normalized source name. Unlike the sources
// report there is exactly one table, so only lines after the first divider
// are candidates. Repeated keys are last-write-wins.
func ParseSourceStats(out string) map[string]*SourceStats {
	stats := make(map[string]*SourceStats)
	if out == "" {
		return stats
	}

	inTable := false
	for _, ln := range strings.Split(out, "\n") {
		ln = strings.TrimRight(ln, "\r")
		if strings.HasPrefix(ln, "====") {
			inTable = true
			continue
		}
		if !inTable || strings.TrimSpace(ln) == "" || strings.HasPrefix(ln, "Name/IP") {
			continue
		}

		parts := strings.Fields(ln)
		if len(parts) < minStatsTokens {
			continue
		}

		entry := &SourceStats{
			Name:      parts[0],
			Key:       normalizeKey(parts[0]),
			Samples:   parseIntField(parts[1]),
			Runs:      parseIntField(parts[2]),
			Span:      parseSpanSeconds(parts[3]),
			Frequency: parseFloatField(parts[4]),
			FreqSkew:  parseFloatField(parts[5]),
			Offset:    parseUnitValue(parts[6]),
			StdDev:    parseUnitValue(parts[7]),
		}

		stats[entry.Key] = entry
	}

	return stats
}

// MergeSourceStats attaches each source's statistics entry by normalized
// key. Sources without a matching entry keep a nil Stats; a source can
// appear in the sources table before it has accumulated enough samples for
// statistics.
func MergeSourceStats(records []SourceRecord, stats map[string]*SourceStats) {
	for i := range records {
		if entry, ok := stats[records[i].Key]; ok {
			records[i].Stats = entry
		}
	}
}
