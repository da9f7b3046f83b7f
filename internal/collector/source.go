package collector

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"
)

// maxCommandLen bounds the command string carried into reports.
const maxCommandLen = 60

// Source produces raw counter records at a point in time. Entries that
// cannot be read due to permissions are absent from the returned slice; only
// a failure to read the underlying interface at all is an error.
type Source interface {
	ProcessCounters(ctx context.Context) ([]ProcessCounters, error)
	DeviceCounters(ctx context.Context) ([]DeviceCounters, error)
}

// SystemSource reads counters from the local kernel: per-process I/O via
// gopsutil (/proc/[pid]/io) and per-device counters from /proc/diskstats.
type SystemSource struct {
	logger        *zap.Logger
	diskstatsPath string
}

// NewSystemSource creates a source backed by the local /proc filesystem.
func NewSystemSource(logger *zap.Logger) *SystemSource {
	return &SystemSource{
		logger:        logger,
		diskstatsPath: "/proc/diskstats",
	}
}

// ProcessCounters enumerates all visible processes and reads their I/O
// counters. Processes whose counters are unreadable (usually EACCES on
// /proc/[pid]/io, or the process exited mid-read) are skipped.
func (s *SystemSource) ProcessCounters(ctx context.Context) ([]ProcessCounters, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	counters := make([]ProcessCounters, 0, len(procs))
	skipped := 0
	for _, p := range procs {
		ioStat, err := p.IOCountersWithContext(ctx)
		if err != nil {
			skipped++
			continue
		}

		name, _ := p.NameWithContext(ctx)
		counters = append(counters, ProcessCounters{
			PID:        p.Pid,
			Name:       name,
			Command:    commandLine(ctx, p),
			ReadBytes:  ioStat.ReadBytes,
			WriteBytes: ioStat.WriteBytes,
			ReadOps:    ioStat.ReadCount,
			WriteOps:   ioStat.WriteCount,
		})
	}

	if skipped > 0 {
		s.logger.Debug("Skipped processes with unreadable I/O counters",
			zap.Int("count", skipped))
	}

	return counters, nil
}

// DeviceCounters reads and parses /proc/diskstats.
func (s *SystemSource) DeviceCounters(ctx context.Context) ([]DeviceCounters, error) {
	f, err := os.Open(s.diskstatsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.diskstatsPath, err)
	}
	defer f.Close()

	return ParseDiskstats(f)
}

// ParseDiskstats parses content in /proc/diskstats format. Malformed or
// short lines are skipped. Field layout:
//
//	major minor name reads read_merges read_sectors read_ms
//	writes write_merges write_sectors write_ms inflight io_ms weighted_io_ms
func ParseDiskstats(r io.Reader) ([]DeviceCounters, error) {
	var devices []DeviceCounters

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 14 {
			continue
		}
		devices = append(devices, DeviceCounters{
			Major:        parseUint(fields[0]),
			Minor:        parseUint(fields[1]),
			Name:         fields[2],
			ReadOps:      parseUint(fields[3]),
			ReadMerges:   parseUint(fields[4]),
			ReadSectors:  parseUint(fields[5]),
			ReadTimeMs:   parseUint(fields[6]),
			WriteOps:     parseUint(fields[7]),
			WriteMerges:  parseUint(fields[8]),
			WriteSectors: parseUint(fields[9]),
			WriteTimeMs:  parseUint(fields[10]),
			IOInProgress: parseUint(fields[11]),
			IOTimeMs:     parseUint(fields[12]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read diskstats: %w", err)
	}

	return devices, nil
}

// commandLine returns the first element of the process command line,
// truncated to maxCommandLen runes.
func commandLine(ctx context.Context, p *process.Process) string {
	args, err := p.CmdlineSliceWithContext(ctx)
	if err != nil || len(args) == 0 {
		return ""
	}
	r := []rune(args[0])
	if len(r) > maxCommandLen {
		return string(r[:maxCommandLen-3]) + "..."
	}
	return args[0]
}

func parseUint(s string) uint64 {
	v, _ := strconv.ParseUint(s, 10, 64)
	return v
}
