package sampler

import (
	"context"
	"time"

	"iowhy/internal/collector"

	"go.uber.org/zap"
)

// Sampler takes the time-separated snapshot pair a delta computation needs.
type Sampler struct {
	collector *collector.Collector
	logger    *zap.Logger
}

// New creates a sampler on top of the given collector.
func New(c *collector.Collector, logger *zap.Logger) *Sampler {
	return &Sampler{
		collector: c,
		logger:    logger,
	}
}

// Sample captures two snapshots separated by duration. The wait between the
// captures aborts when ctx is cancelled; no partial pair is returned in that
// case. If neither snapshot contains a single process, the counter source is
// considered unavailable.
func (s *Sampler) Sample(ctx context.Context, duration time.Duration) (before, after *collector.Snapshot, err error) {
	before, err = s.collector.Capture(ctx)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Debug("Waiting between snapshots", zap.Duration("duration", duration))

	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}

	after, err = s.collector.Capture(ctx)
	if err != nil {
		return nil, nil, err
	}

	if len(before.Processes) == 0 && len(after.Processes) == 0 {
		return nil, nil, collector.ErrSourceUnavailable
	}
	return before, after, nil
}

// Cumulative captures a single snapshot for the no-sampling path, where raw
// since-start counters are reported instead of interval deltas.
func (s *Sampler) Cumulative(ctx context.Context) (*collector.Snapshot, error) {
	snap, err := s.collector.Capture(ctx)
	if err != nil {
		return nil, err
	}
	if len(snap.Processes) == 0 {
		return nil, collector.ErrSourceUnavailable
	}
	return snap, nil
}
