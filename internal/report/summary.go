package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Summarize derives the diagnosis from the ranked entries. The verdict is
// deterministic and phrased with the numbers it is based on, so it can be
// checked against the rest of the report. It is a heuristic observation, not
// a proof.
func Summarize(procs []ProcessEntry, devices []DeviceEntry, duration float64) string {
	if len(procs) == 0 {
		return "No significant I/O activity detected, or process statistics were unreadable."
	}

	top := procs[0]
	var lines []string

	if duration > 0 {
		lines = append(lines, fmt.Sprintf(
			"Highest I/O activity: process %q (PID %d) at %s/s (%s, %d bytes, in %.1fs).",
			top.Name, top.PID,
			humanize.IBytes(uint64(top.TotalBytesPerSec)),
			humanize.IBytes(top.TotalBytes), top.TotalBytes, duration))
	} else {
		lines = append(lines, fmt.Sprintf(
			"Highest I/O activity: process %q (PID %d) with %s (%d bytes) since it started.",
			top.Name, top.PID, humanize.IBytes(top.TotalBytes), top.TotalBytes))
	}

	if len(procs) > 1 {
		second := procs[1]
		// Worth a mention only above 10% of the leader.
		if second.TotalBytes*10 > top.TotalBytes {
			lines = append(lines, fmt.Sprintf(
				"Secondary contributor: process %q (PID %d) with %s (%d bytes).",
				second.Name, second.PID, humanize.IBytes(second.TotalBytes), second.TotalBytes))
		}
	}

	if len(devices) > 0 {
		dev := devices[0]
		if duration > 0 {
			lines = append(lines, fmt.Sprintf(
				"Most active device: %s at %s/s (%s, %d bytes, in %.1fs).",
				dev.Name,
				humanize.IBytes(uint64(dev.TotalBytesPerSec)),
				humanize.IBytes(dev.TotalBytes), dev.TotalBytes, duration))
		} else {
			lines = append(lines, fmt.Sprintf(
				"Most active device: %s with %s (%d bytes) since boot.",
				dev.Name, humanize.IBytes(dev.TotalBytes), dev.TotalBytes))
		}

		if dev.TotalBytes > 0 {
			if top.TotalBytes*2 > dev.TotalBytes {
				lines = append(lines, fmt.Sprintf(
					"Process %q moved %d of the %d bytes seen on %s (more than half): likely the dominant consumer of that device.",
					top.Name, top.TotalBytes, dev.TotalBytes, dev.Name))
			} else {
				lines = append(lines, fmt.Sprintf(
					"No single process dominates %s (%d of %d bytes from the top process): I/O load looks distributed.",
					dev.Name, top.TotalBytes, dev.TotalBytes))
			}
		}
	}

	return strings.Join(lines, "\n")
}
