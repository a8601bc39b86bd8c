package chrony_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aimana007/ChronyTop/internal/chrony"
)

const sourceStatsReport = `                             .- Number of sample points in measurement set.
                            /    .- Number of residual runs with same sign.
                           |    /    .- Length of measurement set (time).
                           |   |    /      .- Est. clock freq error (ppm).
                           |   |   |      /           .- Est. error in freq.
                           |   |   |     |           /         .- Est. offset.
Name/IP Address            NP  NR  Span  Frequency  Freq Skew  Offset  Std Dev
==============================================================================
ntp1.example.org           25  12  319m     -0.009      0.207   -388us   727us
ntp2.example.org           18   9   17h      0.114      0.086   +120us     1ms
longname.pool.example.co>  30  15   258      0.042      0.512    +12us    85us
`

func TestParseSourceStats(t *testing.T) {
	stats := chrony.ParseSourceStats(sourceStatsReport)
	require.Len(t, stats, 3)

	s1 := stats["ntp1.example.org"]
	require.NotNil(t, s1)
	require.NotNil(t, s1.Samples)
	assert.Equal(t, 25, *s1.Samples)
	require.NotNil(t, s1.Runs)
	assert.Equal(t, 12, *s1.Runs)
	require.NotNil(t, s1.Span)
	assert.Equal(t, 319*60.0, *s1.Span)
	require.NotNil(t, s1.Frequency)
	assert.InDelta(t, -0.009, *s1.Frequency, 1e-9)
	require.NotNil(t, s1.FreqSkew)
	assert.InDelta(t, 0.207, *s1.FreqSkew, 1e-9)
	require.NotNil(t, s1.Offset)
	assert.InDelta(t, -388e-6, *s1.Offset, 1e-12)
	require.NotNil(t, s1.StdDev)
	assert.InDelta(t, 727e-6, *s1.StdDev, 1e-12)

	// Hour-suffixed span and unit-less span (defaults to seconds).
	s2 := stats["ntp2.example.org"]
	require.NotNil(t, s2)
	require.NotNil(t, s2.Span)
	assert.Equal(t, 17*3600.0, *s2.Span)

	s3 := stats["longname.pool.example.co"]
	require.NotNil(t, s3, "key must have trailing > stripped")
	require.NotNil(t, s3.Span)
	assert.Equal(t, 258.0, *s3.Span)
}

func TestParseSourceStatsIgnoresBannerBeforeDivider(t *testing.T) {
	out := "Name/IP Address            NP  NR  Span  Frequency  Freq Skew  Offset  Std Dev\n" +
		"not a divider yet so this line is ignored even with eight tokens here ok\n" +
		"====\n" +
		"ntp1.example.org           25  12  319m     -0.009      0.207   -388us   727us\n"
	stats := chrony.ParseSourceStats(out)
	require.Len(t, stats, 1)
	assert.Contains(t, stats, "ntp1.example.org")
}

func TestParseSourceStatsLastWriteWins(t *testing.T) {
	out := "====\n" +
		"ntp1.example.org           10   5   60      0.1      0.2   +1ms   2ms\n" +
		"ntp1.example.org           20  10  120      0.3      0.4   +3ms   4ms\n"
	stats := chrony.ParseSourceStats(out)
	require.Len(t, stats, 1)
	require.NotNil(t, stats["ntp1.example.org"].Samples)
	assert.Equal(t, 20, *stats["ntp1.example.org"].Samples)
}

func TestMergeSourceStats(t *testing.T) {
	records := chrony.ParseSources(sourcesReport)
	stats := chrony.ParseSourceStats(sourceStatsReport)
	chrony.MergeSourceStats(records, stats)

	require.NotNil(t, records[0].Stats)
	assert.Equal(t, "ntp1.example.org", records[0].Stats.Name)

	// The truncated name joins through the normalized key.
	require.NotNil(t, records[2].Stats)
	assert.Equal(t, "longname.pool.example.co", records[2].Stats.Key)

	// No sourcestats row for this source yet; stats stay absent.
	assert.Nil(t, records[3].Stats)
}
