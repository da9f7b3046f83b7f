// Package delta turns two snapshots of cumulative counters into per-entity
// interval deltas. Entities present in only one snapshot, and entities whose
// counters decreased between snapshots (pid reuse, counter truncation), are
// excluded rather than clamped: a wrong-looking delta is worse than a
// missing one.
package delta

import (
	"sort"

	"iowhy/internal/collector"
)

// ProcessDelta is the change in one process's counters over the sampled
// interval. In cumulative mode the fields carry the raw since-start totals
// and Elapsed is 0.
type ProcessDelta struct {
	PID        int32
	Name       string
	Command    string
	ReadBytes  uint64
	WriteBytes uint64
	ReadOps    uint64
	WriteOps   uint64
	Elapsed    float64
}

// DeviceDelta is the change in one block device's counters over the sampled
// interval.
type DeviceDelta struct {
	Name         string
	ReadOps      uint64
	WriteOps     uint64
	ReadSectors  uint64
	WriteSectors uint64
	Elapsed      float64
}

// Result carries the per-entity deltas plus counts of entities dropped for
// counter regressions. The counts are diagnostic only and never affect the
// report or the exit status.
type Result struct {
	Processes         []ProcessDelta
	Devices           []DeviceDelta
	ExcludedProcesses int
	ExcludedDevices   int
}

// Compute intersects the two snapshots by entity identity and returns one
// delta record per entity whose counters did not decrease. Output is ordered
// pid-ascending and device-name-ascending so downstream ranking is
// deterministic for identical inputs.
func Compute(before, after *collector.Snapshot) Result {
	elapsed := after.Timestamp.Sub(before.Timestamp).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}

	var res Result
	for pid, curr := range after.Processes {
		prev, ok := before.Processes[pid]
		if !ok {
			continue
		}
		d, ok := processDelta(prev, curr, elapsed)
		if !ok {
			res.ExcludedProcesses++
			continue
		}
		res.Processes = append(res.Processes, d)
	}
	sort.Slice(res.Processes, func(i, j int) bool {
		return res.Processes[i].PID < res.Processes[j].PID
	})

	for name, curr := range after.Devices {
		prev, ok := before.Devices[name]
		if !ok {
			continue
		}
		d, ok := deviceDelta(prev, curr, elapsed)
		if !ok {
			res.ExcludedDevices++
			continue
		}
		res.Devices = append(res.Devices, d)
	}
	sort.Slice(res.Devices, func(i, j int) bool {
		return res.Devices[i].Name < res.Devices[j].Name
	})

	return res
}

// Cumulative maps a single snapshot's raw counters straight to delta records
// with Elapsed 0. Downstream treats the values as since-start totals and
// performs no rate division.
func Cumulative(snap *collector.Snapshot) Result {
	var res Result
	for _, pc := range snap.Processes {
		res.Processes = append(res.Processes, ProcessDelta{
			PID:        pc.PID,
			Name:       pc.Name,
			Command:    pc.Command,
			ReadBytes:  pc.ReadBytes,
			WriteBytes: pc.WriteBytes,
			ReadOps:    pc.ReadOps,
			WriteOps:   pc.WriteOps,
		})
	}
	sort.Slice(res.Processes, func(i, j int) bool {
		return res.Processes[i].PID < res.Processes[j].PID
	})

	for _, dc := range snap.Devices {
		res.Devices = append(res.Devices, DeviceDelta{
			Name:         dc.Name,
			ReadOps:      dc.ReadOps,
			WriteOps:     dc.WriteOps,
			ReadSectors:  dc.ReadSectors,
			WriteSectors: dc.WriteSectors,
		})
	}
	sort.Slice(res.Devices, func(i, j int) bool {
		return res.Devices[i].Name < res.Devices[j].Name
	})

	return res
}

func processDelta(prev, curr collector.ProcessCounters, elapsed float64) (ProcessDelta, bool) {
	if curr.ReadBytes < prev.ReadBytes || curr.WriteBytes < prev.WriteBytes ||
		curr.ReadOps < prev.ReadOps || curr.WriteOps < prev.WriteOps {
		return ProcessDelta{}, false
	}
	return ProcessDelta{
		PID:        curr.PID,
		Name:       curr.Name,
		Command:    curr.Command,
		ReadBytes:  curr.ReadBytes - prev.ReadBytes,
		WriteBytes: curr.WriteBytes - prev.WriteBytes,
		ReadOps:    curr.ReadOps - prev.ReadOps,
		WriteOps:   curr.WriteOps - prev.WriteOps,
		Elapsed:    elapsed,
	}, true
}

func deviceDelta(prev, curr collector.DeviceCounters, elapsed float64) (DeviceDelta, bool) {
	if curr.ReadOps < prev.ReadOps || curr.WriteOps < prev.WriteOps ||
		curr.ReadSectors < prev.ReadSectors || curr.WriteSectors < prev.WriteSectors {
		return DeviceDelta{}, false
	}
	return DeviceDelta{
		Name:         curr.Name,
		ReadOps:      curr.ReadOps - prev.ReadOps,
		WriteOps:     curr.WriteOps - prev.WriteOps,
		ReadSectors:  curr.ReadSectors - prev.ReadSectors,
		WriteSectors: curr.WriteSectors - prev.WriteSectors,
		Elapsed:      elapsed,
	}, true
}
