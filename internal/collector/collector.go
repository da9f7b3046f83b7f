package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrSourceUnavailable reports that not a single process counter could be
// read. Anything less than total failure is handled by omission.
var ErrSourceUnavailable = errors.New("no process I/O counters could be read")

// Collector captures immutable snapshots from a Source.
type Collector struct {
	source Source
	logger *zap.Logger
}

// New creates a collector reading from the given source.
func New(source Source, logger *zap.Logger) *Collector {
	return &Collector{
		source: source,
		logger: logger,
	}
}

// Capture reads both counter families once and returns them keyed by entity
// identity. A partial result (individual entities unreadable) is not an
// error; a failure to read the device interface degrades to a snapshot
// without devices, since the process side alone still yields a valid report.
func (c *Collector) Capture(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		Timestamp: time.Now(),
		Processes: make(map[int32]ProcessCounters),
		Devices:   make(map[string]DeviceCounters),
	}

	procs, err := c.source.ProcessCounters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read process counters: %w", err)
	}
	for _, pc := range procs {
		snap.Processes[pc.PID] = pc
	}

	devs, err := c.source.DeviceCounters(ctx)
	if err != nil {
		c.logger.Warn("Failed to read device counters", zap.Error(err))
	}
	for _, dc := range devs {
		snap.Devices[dc.Name] = dc
	}

	c.logger.Debug("Captured snapshot",
		zap.Int("processes", len(snap.Processes)),
		zap.Int("devices", len(snap.Devices)),
		zap.Time("timestamp", snap.Timestamp))

	return snap, nil
}
