package chrony

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptRunner struct {
	outputs []string
	errs    []error
	calls   int
}

func (r *scriptRunner) Run(_ context.Context, _ string) (string, error) {
	i := r.calls
	r.calls++
	if i >= len(r.outputs) {
		i = len(r.outputs) - 1
	}
	var err error
	if i < len(r.errs) {
		err = r.errs[i]
	}

	return r.outputs[i], err
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(r Runner, clock *fakeClock) *Cache {
	c := NewCache(r)
	c.now = clock.now

	return c
}

func TestCacheFirstCallRuns(t *testing.T) {
	runner := &scriptRunner{outputs: []string{"good output"}}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := newTestCache(runner, clock)

	out, ok := c.Get(context.Background(), CommandTracking)
	require.True(t, ok)
	assert.Equal(t, "good output", out)
	assert.Equal(t, 1, runner.calls)
	assert.Zero(t, c.Age(CommandTracking))
}

func TestCacheRateLimits(t *testing.T) {
	runner := &scriptRunner{outputs: []string{"good output"}}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := newTestCache(runner, clock)

	c.Get(context.Background(), CommandSources)
	clock.advance(2 * time.Second)
	c.Get(context.Background(), CommandSources)
	assert.Equal(t, 1, runner.calls, "within the 5s interval no new call is issued")

	clock.advance(4 * time.Second)
	c.Get(context.Background(), CommandSources)
	assert.Equal(t, 2, runner.calls)
}

func TestCacheErrorSignatureRetainsPrevious(t *testing.T) {
	runner := &scriptRunner{outputs: []string{
		"good output",
		"506 Cannot talk to daemon",
	}}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := newTestCache(runner, clock)

	out, ok := c.Get(context.Background(), CommandTracking)
	require.True(t, ok)
	require.Equal(t, "good output", out)

	clock.advance(3 * time.Second)
	out, ok = c.Get(context.Background(), CommandTracking)
	require.True(t, ok)
	assert.Equal(t, "good output", out, "error output must not replace the cache")
	assert.Equal(t, 2, runner.calls, "the attempt itself still happens")

	// last_success stays put while last_attempt advanced, so age grows.
	assert.InDelta(t, 3.0, c.Age(CommandTracking), 1e-9)
}

func TestCacheRunnerFailureRetainsPrevious(t *testing.T) {
	runner := &scriptRunner{
		outputs: []string{"good output", ""},
		errs:    []error{nil, errors.New("timeout")},
	}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := newTestCache(runner, clock)

	c.Get(context.Background(), CommandTracking)
	clock.advance(2 * time.Second)
	out, ok := c.Get(context.Background(), CommandTracking)
	require.True(t, ok)
	assert.Equal(t, "good output", out)
}

func TestCacheAgeInfiniteBeforeFirstSuccess(t *testing.T) {
	runner := &scriptRunner{outputs: []string{"Cannot talk to daemon"}}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := newTestCache(runner, clock)

	assert.True(t, math.IsInf(c.Age(CommandTracking), 1))

	_, ok := c.Get(context.Background(), CommandTracking)
	assert.False(t, ok)
	assert.True(t, math.IsInf(c.Age(CommandTracking), 1))
}

func TestCacheUnknownCommandBypasses(t *testing.T) {
	runner := &scriptRunner{outputs: []string{"raw"}}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := newTestCache(runner, clock)

	out, ok := c.Get(context.Background(), "activity")
	require.True(t, ok)
	assert.Equal(t, "raw", out)
	assert.True(t, math.IsInf(c.Age("activity"), 1))
}
