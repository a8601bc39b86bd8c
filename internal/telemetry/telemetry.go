package telemetry

import (
	"context"
	"time"

	"github.com/aimana007/ChronyTop/internal/errors"
)

// Collector persists per-cycle snapshots of chrony state.
type Collector interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// Snapshot is one monitoring cycle flattened for storage. Pointer fields
// are NULL in the database when the underlying value was unavailable.
type Snapshot struct {
	Timestamp     time.Time
	Offset        *float64
	RMSOffset     *float64
	Frequency     *float64
	Skew          *float64
	TempMax       *float64
	Sources       int
	Reachable     int
	Selected      int
	AlertCount    int
	WorstSeverity string
}

type service struct {
	repo Repository
	cfg  Config
}

// NewCollector builds a Collector for the given configuration. When
// telemetry is disabled it returns a no-op collector so callers never
// branch on the setting.
func NewCollector(cfg Config) (Collector, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		return noopCollector{}, nil
	}

	repo, err := NewRepository(cfg)
	if err != nil {
		return nil, err // Already wrapped with appropriate error
	}

	return &service{
		repo: repo,
		cfg:  cfg,
	}, nil
}

func (s *service) Record(ctx context.Context, snapshot *Snapshot) error {
	errFactory := errors.New()

	if snapshot == nil {
		return errFactory.New(ErrInvalidSnapshot)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.Record(snapshot); err != nil {
			return errFactory.Wrap(ErrRecordFailed, err)
		}
	}

	return nil
}

func (s *service) Close() error {
	errFactory := errors.New()

	if err := s.repo.Close(); err != nil {
		return errFactory.Wrap(ErrServiceShutdown, err)
	}

	return nil
}

type noopCollector struct{}

func (noopCollector) Record(_ context.Context, _ *Snapshot) error { return nil }
func (noopCollector) Close() error                                { return nil }
