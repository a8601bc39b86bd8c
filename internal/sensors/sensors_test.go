package sensors_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aimana007/ChronyTop/internal/sensors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func makeHwmon(t *testing.T, root, name string, index int, temps map[string]int, labels map[string]string) string {
	t.Helper()
	dir := filepath.Join(root, "class", "hwmon", "hwmon"+strconv.Itoa(index))
	writeFile(t, filepath.Join(dir, "name"), name+"\n")
	for input, milli := range temps {
		writeFile(t, filepath.Join(dir, input+"_input"), strconv.Itoa(milli)+"\n")
	}
	for input, label := range labels {
		writeFile(t, filepath.Join(dir, input+"_label"), label+"\n")
	}

	return dir
}

func TestDiscoverPackageSensors(t *testing.T) {
	root := t.TempDir()
	makeHwmon(t, root, "coretemp", 0,
		map[string]int{"temp1": 52000, "temp2": 48000, "temp3": 61000},
		map[string]string{"temp1": "Package id 1", "temp2": "Core 0", "temp3": "Package id 0"})

	r := sensors.NewReader(root)
	readings, maxC := r.Poll()

	require.Len(t, readings, 2)
	assert.Equal(t, "Package id 0", readings[0].Label)
	assert.InDelta(t, 61.0, readings[0].Celsius, 1e-9)
	assert.Equal(t, "Package id 1", readings[1].Label)
	assert.InDelta(t, 52.0, readings[1].Celsius, 1e-9)

	require.NotNil(t, maxC)
	assert.InDelta(t, 61.0, *maxC, 1e-9)
}

func TestDiscoverPreferredLabelFallback(t *testing.T) {
	root := t.TempDir()
	makeHwmon(t, root, "coretemp", 0,
		map[string]int{"temp1": 47250},
		map[string]string{"temp1": "Tctl"})

	r := sensors.NewReader(root)
	readings, maxC := r.Poll()

	require.Len(t, readings, 1)
	assert.Equal(t, "Tctl", readings[0].Label)
	require.NotNil(t, maxC)
	assert.InDelta(t, 47.25, *maxC, 1e-9)
}

func TestDiscoverAnyCoretempInput(t *testing.T) {
	root := t.TempDir()
	makeHwmon(t, root, "coretemp", 0,
		map[string]int{"temp1": 40000, "temp2": 42000},
		map[string]string{"temp1": "Core 0", "temp2": "Core 1"})

	r := sensors.NewReader(root)
	readings, _ := r.Poll()

	require.Len(t, readings, 2)
	assert.Equal(t, "Core 0", readings[0].Label)
	assert.Equal(t, "Core 1", readings[1].Label)
}

func TestDiscoverThermalZoneFallback(t *testing.T) {
	root := t.TempDir()
	// Non-coretemp hwmon must be ignored.
	makeHwmon(t, root, "nvme", 0, map[string]int{"temp1": 35000}, nil)

	zone := filepath.Join(root, "class", "thermal", "thermal_zone0")
	writeFile(t, filepath.Join(zone, "type"), "x86_pkg_temp\n")
	writeFile(t, filepath.Join(zone, "temp"), "55500\n")

	other := filepath.Join(root, "class", "thermal", "thermal_zone1")
	writeFile(t, filepath.Join(other, "type"), "acpitz\n")
	writeFile(t, filepath.Join(other, "temp"), "27800\n")

	r := sensors.NewReader(root)
	readings, maxC := r.Poll()

	require.Len(t, readings, 1)
	assert.Equal(t, "thermal_zone0:x86_pkg_temp", readings[0].Label)
	require.NotNil(t, maxC)
	assert.InDelta(t, 55.5, *maxC, 1e-9)
}

func TestDiscoverAnyThermalZone(t *testing.T) {
	root := t.TempDir()
	zone := filepath.Join(root, "class", "thermal", "thermal_zone0")
	writeFile(t, filepath.Join(zone, "type"), "acpitz\n")
	writeFile(t, filepath.Join(zone, "temp"), "29000\n")

	r := sensors.NewReader(root)
	readings, _ := r.Poll()

	require.Len(t, readings, 1)
	assert.Equal(t, "thermal_zone0:acpitz", readings[0].Label)
}

func TestPollNoSources(t *testing.T) {
	r := sensors.NewReader(t.TempDir())
	readings, maxC := r.Poll()

	assert.Empty(t, readings)
	assert.Nil(t, maxC)
}

func TestPollSkipsUnreadableInput(t *testing.T) {
	root := t.TempDir()
	dir := makeHwmon(t, root, "coretemp", 0,
		map[string]int{"temp1": 50000},
		map[string]string{"temp1": "Package id 0"})
	writeFile(t, filepath.Join(dir, "temp1_input"), "garbage\n")

	r := sensors.NewReader(root)
	readings, maxC := r.Poll()

	assert.Empty(t, readings)
	assert.Nil(t, maxC)
}

func TestDiscoverReturnsCount(t *testing.T) {
	root := t.TempDir()
	makeHwmon(t, root, "coretemp", 0,
		map[string]int{"temp1": 50000},
		map[string]string{"temp1": "Package id 0"})

	r := sensors.NewReader(root)
	assert.Equal(t, 1, r.Discover())
}
