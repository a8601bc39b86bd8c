package chrony

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	unitValueRe = regexp.MustCompile(`^([+-]?\d+(?:\.\d+)?)(ns|us|ms|s)$`)
	spanRe      = regexp.MustCompile(`^(\d+)([smhd])?$`)
)

// toSeconds converts a magnitude with a chronyc unit suffix to seconds.
func toSeconds(value float64, unit string) float64 {
	switch strings.ToLower(unit) {
	case "s":
		return value
	case "ms":
		return value / 1e3
	case "us":
		return value / 1e6
	case "ns":
		return value / 1e9
	}

	return value
}

// parseUnitValue parses a literal like "-4.2ms" or "250ns" into seconds.
func parseUnitValue(s string) *float64 {
	m := unitValueRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	sec := toSeconds(v, m[2])

	return &sec
}

// parseSpanSeconds parses a sourcestats span literal like "258", "4m",
// "13h" or "2d" into seconds. A missing unit means seconds.
func parseSpanSeconds(s string) *float64 {
	m := spanRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return nil
	}

	v, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}

	sec := float64(v)
	switch m[2] {
	case "m":
		sec *= 60
	case "h":
		sec *= 3600
	case "d":
		sec *= 86400
	}

	return &sec
}

// normalizeKey strips the trailing ">" continuation markers chronyc appends
// to truncated source names, yielding the key used to join sources with
// sourcestats.
func normalizeKey(name string) string {
	return strings.TrimRight(name, ">")
}

func parseIntField(s string) *int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}

	return &v
}

func parseFloatField(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}

	return &v
}
