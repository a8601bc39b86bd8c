// Package sensors reads CPU temperatures from sysfs hwmon and thermal-zone
// entries. Discovery walks a chain of fallbacks so the monitor still gets a
// usable package temperature on hosts with sparse sensor exposure.
package sensors

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/aimana007/ChronyTop/internal/logger"
)

const milliDegreesPerDegree = 1000.0

// Reading is one labeled temperature sample in degrees Celsius.
type Reading struct {
	Label   string
	Celsius float64
}

type tempSource struct {
	label string
	path  string
}

// Reader polls a fixed set of discovered temperature inputs. Discovery is
// re-run by the owner when polling stops producing readings.
type Reader struct {
	root    string
	sources []tempSource
}

// NewReader discovers temperature sources under root ("/sys" on a real
// host) and returns a Reader. A Reader with no sources is valid; Poll
// simply reports no data.
func NewReader(root string) *Reader {
	if root == "" {
		root = "/sys"
	}

	r := &Reader{root: root}
	r.Discover()

	return r
}

var packageIDRe = regexp.MustCompile(`Package id\s+(\d+)`)

// Labels that identify a CPU-wide sensor when no package sensor exists.
var preferredLabels = []string{"Tctl", "Tdie", "Physical id", "CPU", "Pkg", "Package"}

// Discover rebuilds the source list and returns how many sources were
// found.
func (r *Reader) Discover() int {
	r.sources = nil

	coretemp := r.coretempDirs()

	// 1) Package temperatures, ordered by package id.
	var pkg []tempSource
	for _, hw := range coretemp {
		pkg = append(pkg, r.collectHwmon(hw, func(l string) bool {
			return strings.Contains(l, "Package")
		})...)
	}
	if len(pkg) > 0 {
		sort.SliceStable(pkg, func(i, j int) bool {
			return packageID(pkg[i].label) < packageID(pkg[j].label)
		})
		r.sources = pkg

		return len(r.sources)
	}

	// 2) Common CPU-wide labels.
	for _, hw := range coretemp {
		r.sources = append(r.sources, r.collectHwmon(hw, func(l string) bool {
			for _, want := range preferredLabels {
				if strings.Contains(l, want) {
					return true
				}
			}

			return false
		})...)
	}
	if len(r.sources) > 0 {
		return len(r.sources)
	}

	// 3) Any coretemp input.
	for _, hw := range coretemp {
		r.sources = append(r.sources, r.collectHwmon(hw, nil)...)
	}
	if len(r.sources) > 0 {
		return len(r.sources)
	}

	// 4) x86_pkg_temp thermal zones, then 5) any thermal zone.
	r.sources = r.thermalZones(true)
	if len(r.sources) == 0 {
		r.sources = r.thermalZones(false)
	}

	return len(r.sources)
}

// Poll reads every discovered source and returns the readings plus the
// maximum, or nil when no sensor produced a value.
func (r *Reader) Poll() ([]Reading, *float64) {
	var readings []Reading
	var maxC *float64

	for _, src := range r.sources {
		raw, ok := readInt(src.path)
		if !ok {
			continue
		}

		tempC := float64(raw) / milliDegreesPerDegree
		readings = append(readings, Reading{Label: src.label, Celsius: tempC})
		if maxC == nil || tempC > *maxC {
			v := tempC
			maxC = &v
		}
	}

	return readings, maxC
}

func (r *Reader) coretempDirs() []string {
	pattern := filepath.Join(r.root, "class", "hwmon", "hwmon*")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil
	}
	sort.Strings(matches)

	var dirs []string
	for _, hw := range matches {
		if name, ok := readText(filepath.Join(hw, "name")); ok && name == "coretemp" {
			dirs = append(dirs, hw)
		}
	}

	return dirs
}

func (r *Reader) collectHwmon(hwPath string, wantLabel func(string) bool) []tempSource {
	inputs, err := filepath.Glob(filepath.Join(hwPath, "temp*_input"))
	if err != nil {
		return nil
	}
	sort.Strings(inputs)

	var out []tempSource
	for _, input := range inputs {
		base := strings.TrimSuffix(filepath.Base(input), "_input")
		label, ok := readText(filepath.Join(hwPath, base+"_label"))
		if !ok {
			label = base
		}
		if wantLabel != nil && !wantLabel(label) {
			continue
		}
		out = append(out, tempSource{label: label, path: input})
	}

	return out
}

func (r *Reader) thermalZones(pkgOnly bool) []tempSource {
	pattern := filepath.Join(r.root, "class", "thermal", "thermal_zone*")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil
	}
	sort.Strings(matches)

	var out []tempSource
	for _, tz := range matches {
		zoneType, ok := readText(filepath.Join(tz, "type"))
		if !ok {
			zoneType = "unknown"
		}
		if pkgOnly && zoneType != "x86_pkg_temp" {
			continue
		}

		tempPath := filepath.Join(tz, "temp")
		if _, err := os.Stat(tempPath); err != nil {
			continue
		}
		out = append(out, tempSource{
			label: filepath.Base(tz) + ":" + zoneType,
			path:  tempPath,
		})
	}

	return out
}

func packageID(label string) int {
	m := packageIDRe.FindStringSubmatch(label)
	if m == nil {
		return 999
	}

	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 999
	}

	return id
}

func readText(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	return strings.TrimSpace(string(data)), true
}

func readInt(path string) (int, bool) {
	text, ok := readText(path)
	if !ok {
		return 0, false
	}

	v, err := strconv.Atoi(text)
	if err != nil {
		logger.Debug().Str("path", path).Str("value", text).Msg("unparseable sensor value")
		return 0, false
	}

	return v, true
}
