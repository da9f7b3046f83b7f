package output

import (
	"encoding/json"
	"io"
	"time"

	"iowhy/internal/report"

	"github.com/dustin/go-humanize"
)

// jsonReport mirrors the schema documented in the README. The devices field
// is null when the breakdown was not requested and an array (possibly empty)
// when it was.
type jsonReport struct {
	Timestamp               string        `json:"timestamp"`
	SamplingDurationSeconds *float64      `json:"sampling_duration_seconds"`
	TopProcesses            []jsonProcess `json:"top_processes"`
	Devices                 []jsonDevice  `json:"devices"`
	Summary                 string        `json:"summary"`
}

type jsonProcess struct {
	PID                 int32  `json:"pid"`
	Name                string `json:"name"`
	Command             string `json:"command,omitempty"`
	ReadBytes           uint64 `json:"read_bytes"`
	WriteBytes          uint64 `json:"write_bytes"`
	ReadBytesFormatted  string `json:"read_bytes_formatted"`
	WriteBytesFormatted string `json:"write_bytes_formatted"`
	ReadOperations      uint64 `json:"read_operations"`
	WriteOperations     uint64 `json:"write_operations"`
	TotalIOBytes        uint64 `json:"total_io_bytes"`
}

type jsonDevice struct {
	Name                string   `json:"name"`
	Reads               uint64   `json:"reads"`
	Writes              uint64   `json:"writes"`
	ReadSectors         uint64   `json:"read_sectors"`
	WriteSectors        uint64   `json:"write_sectors"`
	ReadBytes           uint64   `json:"read_bytes"`
	WriteBytes          uint64   `json:"write_bytes"`
	ReadBytesFormatted  string   `json:"read_bytes_formatted"`
	WriteBytesFormatted string   `json:"write_bytes_formatted"`
	TotalIOBytes        uint64   `json:"total_io_bytes"`
	ReadsPerSecond      *float64 `json:"reads_per_second,omitempty"`
	WritesPerSecond     *float64 `json:"writes_per_second,omitempty"`
	ReadBytesPerSecond  *float64 `json:"read_bytes_per_second,omitempty"`
	WriteBytesPerSecond *float64 `json:"write_bytes_per_second,omitempty"`
}

// JSON renders the report with two-space indentation.
func JSON(w io.Writer, rep *report.Report) error {
	out := jsonReport{
		Timestamp:    rep.Timestamp.Format(time.RFC3339),
		TopProcesses: make([]jsonProcess, 0, len(rep.Processes)),
		Summary:      rep.Summary,
	}
	if rep.Duration > 0 {
		d := rep.Duration
		out.SamplingDurationSeconds = &d
	}

	for _, p := range rep.Processes {
		out.TopProcesses = append(out.TopProcesses, jsonProcess{
			PID:                 p.PID,
			Name:                p.Name,
			Command:             p.Command,
			ReadBytes:           p.ReadBytes,
			WriteBytes:          p.WriteBytes,
			ReadBytesFormatted:  humanize.IBytes(p.ReadBytes),
			WriteBytesFormatted: humanize.IBytes(p.WriteBytes),
			ReadOperations:      p.ReadOps,
			WriteOperations:     p.WriteOps,
			TotalIOBytes:        p.TotalBytes,
		})
	}

	if rep.Devices != nil {
		out.Devices = make([]jsonDevice, 0, len(rep.Devices))
		for _, d := range rep.Devices {
			jd := jsonDevice{
				Name:                d.Name,
				Reads:               d.ReadOps,
				Writes:              d.WriteOps,
				ReadSectors:         d.ReadSectors,
				WriteSectors:        d.WriteSectors,
				ReadBytes:           d.ReadBytes,
				WriteBytes:          d.WriteBytes,
				ReadBytesFormatted:  humanize.IBytes(d.ReadBytes),
				WriteBytesFormatted: humanize.IBytes(d.WriteBytes),
				TotalIOBytes:        d.TotalBytes,
			}
			if rep.Duration > 0 {
				jd.ReadsPerSecond = float64Ptr(d.ReadOpsPerSec)
				jd.WritesPerSecond = float64Ptr(d.WriteOpsPerSec)
				jd.ReadBytesPerSecond = float64Ptr(d.ReadBytesPerSec)
				jd.WriteBytesPerSecond = float64Ptr(d.WriteBytesPerSec)
			}
			out.Devices = append(out.Devices, jd)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func float64Ptr(v float64) *float64 { return &v }
