// Package report assembles the final result of one run: ranked entries with
// derived totals and rates, and the summary diagnosis. It performs no
// formatting; presentation belongs to internal/output.
package report

import (
	"time"

	"iowhy/internal/delta"
	"iowhy/internal/rank"
)

// SectorSize is the unit of /proc/diskstats sector counters, fixed at 512
// bytes by the kernel independent of the device's physical sector size.
const SectorSize = 512

// maxDevices caps the device breakdown.
const maxDevices = 10

// ProcessEntry is one ranked process row. When the report is in cumulative
// mode (Duration 0) the rate fields carry the raw totals unchanged; no rate
// division is performed.
type ProcessEntry struct {
	PID        int32
	Name       string
	Command    string
	ReadBytes  uint64
	WriteBytes uint64
	ReadOps    uint64
	WriteOps   uint64
	TotalBytes uint64

	ReadBytesPerSec  float64
	WriteBytesPerSec float64
	TotalBytesPerSec float64
	ReadOpsPerSec    float64
	WriteOpsPerSec   float64
}

// DeviceEntry is one ranked device row. Byte fields are derived from the
// sector counters.
type DeviceEntry struct {
	Name         string
	ReadOps      uint64
	WriteOps     uint64
	ReadSectors  uint64
	WriteSectors uint64
	ReadBytes    uint64
	WriteBytes   uint64
	TotalBytes   uint64

	ReadBytesPerSec  float64
	WriteBytesPerSec float64
	TotalBytesPerSec float64
	ReadOpsPerSec    float64
	WriteOpsPerSec   float64
}

// Report is the complete, immutable result of one invocation. Devices is nil
// when the device breakdown was not requested, and non-nil (possibly empty)
// when it was.
type Report struct {
	Timestamp time.Time
	Duration  float64 // sampled seconds; 0 means cumulative mode
	Processes []ProcessEntry
	Devices   []DeviceEntry
	Summary   string
}

// Build ranks the delta records by total I/O bytes, derives rates, and
// attaches the summary.
func Build(timestamp time.Time, duration float64, res delta.Result, topN int, byDevice bool) *Report {
	procs := make([]ProcessEntry, 0, len(res.Processes))
	for _, d := range res.Processes {
		procs = append(procs, newProcessEntry(d))
	}
	top := rank.Top(procs, func(e ProcessEntry) uint64 { return e.TotalBytes }, topN)

	var devices []DeviceEntry
	if byDevice {
		devices = make([]DeviceEntry, 0, len(res.Devices))
		for _, d := range res.Devices {
			devices = append(devices, newDeviceEntry(d))
		}
		devices = rank.Top(devices, func(e DeviceEntry) uint64 { return e.TotalBytes }, maxDevices)
	}

	return &Report{
		Timestamp: timestamp,
		Duration:  duration,
		Processes: top,
		Devices:   devices,
		Summary:   Summarize(top, devices, duration),
	}
}

func newProcessEntry(d delta.ProcessDelta) ProcessEntry {
	total := d.ReadBytes + d.WriteBytes
	return ProcessEntry{
		PID:        d.PID,
		Name:       d.Name,
		Command:    d.Command,
		ReadBytes:  d.ReadBytes,
		WriteBytes: d.WriteBytes,
		ReadOps:    d.ReadOps,
		WriteOps:   d.WriteOps,
		TotalBytes: total,

		ReadBytesPerSec:  rate(d.ReadBytes, d.Elapsed),
		WriteBytesPerSec: rate(d.WriteBytes, d.Elapsed),
		TotalBytesPerSec: rate(total, d.Elapsed),
		ReadOpsPerSec:    rate(d.ReadOps, d.Elapsed),
		WriteOpsPerSec:   rate(d.WriteOps, d.Elapsed),
	}
}

func newDeviceEntry(d delta.DeviceDelta) DeviceEntry {
	readBytes := d.ReadSectors * SectorSize
	writeBytes := d.WriteSectors * SectorSize
	total := readBytes + writeBytes
	return DeviceEntry{
		Name:         d.Name,
		ReadOps:      d.ReadOps,
		WriteOps:     d.WriteOps,
		ReadSectors:  d.ReadSectors,
		WriteSectors: d.WriteSectors,
		ReadBytes:    readBytes,
		WriteBytes:   writeBytes,
		TotalBytes:   total,

		ReadBytesPerSec:  rate(readBytes, d.Elapsed),
		WriteBytesPerSec: rate(writeBytes, d.Elapsed),
		TotalBytesPerSec: rate(total, d.Elapsed),
		ReadOpsPerSec:    rate(d.ReadOps, d.Elapsed),
		WriteOpsPerSec:   rate(d.WriteOps, d.Elapsed),
	}
}

// rate guards the division: with no elapsed interval the raw value is
// reported as-is (a since-start total rather than a rate).
func rate(v uint64, elapsed float64) float64 {
	if elapsed <= 0 {
		return float64(v)
	}
	return float64(v) / elapsed
}
