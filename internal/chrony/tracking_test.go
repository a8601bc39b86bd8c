package chrony_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aimana007/ChronyTop/internal/chrony"
)

const trackingReport = `Reference ID    : C0A80101 (ntp1.example.org)
Stratum         : 2
Ref time (UTC)  : Thu Aug 28 09:12:41 2025
System time     : 0.000123456 seconds slow of NTP time
Last offset     : -0.000021813 seconds
RMS offset      : 0.000232701 seconds
Frequency       : 12.581 ppm slow
Residual freq   : -0.001 ppm
Skew            : 0.086 ppm
Root delay      : 0.012345678 seconds
Root dispersion : 0.001234567 seconds
Update interval : 64.2 seconds
Leap status     : Normal
`

func TestParseTrackingSlow(t *testing.T) {
	sample := chrony.ParseTracking(trackingReport)
	require.NotNil(t, sample)

	// "slow" means the local clock is behind, so the stored offset is
	// negative.
	assert.InDelta(t, -0.000123456, sample.Offset, 1e-12)
	assert.InDelta(t, 0.000232701, sample.RMS, 1e-12)
	assert.InDelta(t, 12.581, sample.Frequency, 1e-9)
	assert.InDelta(t, 0.086, sample.Skew, 1e-9)
}

func TestParseTrackingFast(t *testing.T) {
	out := "System time     : 0.000123456 seconds fast of NTP time\n"
	sample := chrony.ParseTracking(out)
	require.NotNil(t, sample)
	assert.InDelta(t, 0.000123456, sample.Offset, 1e-12)
}

func TestParseTrackingMissingFieldsDefaultZero(t *testing.T) {
	out := "Skew            : 1.250 ppm\n"
	sample := chrony.ParseTracking(out)
	require.NotNil(t, sample)

	assert.Zero(t, sample.Offset)
	assert.Zero(t, sample.RMS)
	assert.Zero(t, sample.Frequency)
	assert.InDelta(t, 1.25, sample.Skew, 1e-9)
}

func TestParseTrackingEmpty(t *testing.T) {
	assert.Nil(t, chrony.ParseTracking(""))
}
