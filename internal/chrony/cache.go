package chrony

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/aimana007/ChronyTop/internal/logger"
)

// Refresh intervals per query, matching the cost and volatility of the
// underlying chronyc command.
const (
	TrackingRefresh    = 1 * time.Second
	SourcesRefresh     = 5 * time.Second
	SourceStatsRefresh = 20 * time.Second
)

type cacheEntry struct {
	output   string
	hasOut   bool
	lastTry  time.Time
	lastOK   time.Time
	interval time.Duration
}

// Cache rate-limits chronyc queries and retains the last plausible output
// per command. A failed or error-signature refresh leaves the previous
// output in place; downstream health checks observe the failure through a
// growing Age.
type Cache struct {
	runner  Runner
	entries map[string]*cacheEntry
	now     func() time.Time
}

func NewCache(runner Runner) *Cache {
	return &Cache{
		runner: runner,
		entries: map[string]*cacheEntry{
			CommandTracking:    {interval: TrackingRefresh},
			CommandSources:     {interval: SourcesRefresh},
			CommandSourceStats: {interval: SourceStatsRefresh},
		},
		now: time.Now,
	}
}

// Get returns the cached output for command, refreshing it first if the
// refresh interval has elapsed or nothing was ever cached. The boolean is
// false while no plausible output has ever been received.
func (c *Cache) Get(ctx context.Context, command string) (string, bool) {
	entry, ok := c.entries[command]
	if !ok {
		out, err := c.runner.Run(ctx, command)
		if err != nil {
			return "", false
		}

		return out, true
	}

	now := c.now()
	due := now.Sub(entry.lastTry) >= entry.interval
	if due || !entry.hasOut {
		entry.lastTry = now
		out, err := c.runner.Run(ctx, command)
		if err != nil {
			logger.Debug().Err(err).Str("command", command).Msg("chronyc call failed")
		} else if strings.TrimSpace(out) != "" && !IsErrorOutput(out) {
			entry.output = out
			entry.hasOut = true
			entry.lastOK = now
		}
	}

	return entry.output, entry.hasOut
}

// Age returns the seconds since the last successful refresh of command,
// or +Inf if no refresh has ever succeeded.
func (c *Cache) Age(command string) float64 {
	entry, ok := c.entries[command]
	if !ok || entry.lastOK.IsZero() {
		return math.Inf(1)
	}

	age := c.now().Sub(entry.lastOK).Seconds()
	if age < 0 {
		return 0
	}

	return age
}

// Ages captures the cache ages of the three queries for one poll cycle.
type Ages struct {
	Tracking    float64
	Sources     float64
	SourceStats float64
}

func (c *Cache) Ages() Ages {
	return Ages{
		Tracking:    c.Age(CommandTracking),
		Sources:     c.Age(CommandSources),
		SourceStats: c.Age(CommandSourceStats),
	}
}
