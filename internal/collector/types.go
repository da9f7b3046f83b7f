package collector

import "time"

// ProcessCounters holds the cumulative I/O counters of one process, as
// exposed by /proc/[pid]/io. Counters are monotonic non-decreasing for the
// lifetime of the process and disappear when it exits.
type ProcessCounters struct {
	PID        int32
	Name       string
	Command    string
	ReadBytes  uint64
	WriteBytes uint64
	ReadOps    uint64
	WriteOps   uint64
}

// DeviceCounters holds the cumulative I/O counters of one block device from
// /proc/diskstats. Sector counts are in 512-byte units regardless of the
// device's physical sector size.
type DeviceCounters struct {
	Name         string
	Major        uint64
	Minor        uint64
	ReadOps      uint64
	ReadMerges   uint64
	ReadSectors  uint64
	ReadTimeMs   uint64
	WriteOps     uint64
	WriteMerges  uint64
	WriteSectors uint64
	WriteTimeMs  uint64
	IOInProgress uint64
	IOTimeMs     uint64
}

// Snapshot is a point-in-time capture of all readable counters, keyed by
// entity identity. A snapshot is never mutated after Capture returns it.
type Snapshot struct {
	Timestamp time.Time
	Processes map[int32]ProcessCounters
	Devices   map[string]DeviceCounters
}
