// Package output renders a finished report for humans (colored text) or
// machines (JSON). It owns all formatting decisions; the report itself stays
// numeric.
package output

import (
	"fmt"
	"io"
	"strings"

	"iowhy/internal/report"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
)

type textStyles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	pid     lipgloss.Style
	device  lipgloss.Style
	summary lipgloss.Style
}

func newTextStyles(w io.Writer, noColor bool) textStyles {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return textStyles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("45")),
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
		pid:     r.NewStyle().Foreground(lipgloss.Color("42")),
		device:  r.NewStyle().Foreground(lipgloss.Color("45")),
		summary: r.NewStyle().Foreground(lipgloss.Color("220")),
	}
}

// Text renders the human-readable report.
func Text(w io.Writer, rep *report.Report, noColor bool) error {
	st := newTextStyles(w, noColor)
	var b strings.Builder

	b.WriteString(st.title.Render("=== I/O Activity Analysis ===") + "\n")
	if rep.Duration > 0 {
		fmt.Fprintf(&b, "Sampling duration: %.1f seconds\n", rep.Duration)
		b.WriteString("(values are deltas over the sampling period)\n")
	} else {
		b.WriteString("(values are cumulative since process start)\n")
	}
	b.WriteString("\n")

	writeProcessTable(&b, rep, st)
	if rep.Devices != nil {
		writeDeviceTable(&b, rep, st)
	}

	b.WriteString("\nSummary:\n\n")
	b.WriteString(st.summary.Render(rep.Summary) + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeProcessTable(b *strings.Builder, rep *report.Report, st textStyles) {
	if len(rep.Processes) == 0 {
		b.WriteString("No process I/O statistics available.\n")
		return
	}

	fmt.Fprintf(b, "Top %d processes by I/O:\n\n", len(rep.Processes))
	header := fmt.Sprintf("%-8s %-20s %-24s %-24s %-12s %-12s",
		"PID", "Process", "Read", "Write", "Read Ops", "Write Ops")
	b.WriteString(st.header.Render(header) + "\n")
	b.WriteString(strings.Repeat("-", len(header)) + "\n")

	for _, p := range rep.Processes {
		fmt.Fprintf(b, "%s %-20s %-24s %-24s %-12d %-12d\n",
			st.pid.Render(fmt.Sprintf("%-8d", p.PID)),
			truncate(p.Name, 20),
			byteCell(p.ReadBytes),
			byteCell(p.WriteBytes),
			p.ReadOps,
			p.WriteOps)
	}
}

func writeDeviceTable(b *strings.Builder, rep *report.Report, st textStyles) {
	b.WriteString("\nDevice I/O statistics:\n\n")
	if len(rep.Devices) == 0 {
		b.WriteString("No device statistics available.\n")
		return
	}

	header := fmt.Sprintf("%-15s %-12s %-12s %-16s %-16s",
		"Device", "Reads", "Writes", "Read", "Write")
	b.WriteString(st.header.Render(header) + "\n")
	b.WriteString(strings.Repeat("-", len(header)) + "\n")

	for _, d := range rep.Devices {
		var reads, writes, readBytes, writeBytes string
		if rep.Duration > 0 {
			reads = fmt.Sprintf("%.1f/s", d.ReadOpsPerSec)
			writes = fmt.Sprintf("%.1f/s", d.WriteOpsPerSec)
			readBytes = humanize.IBytes(uint64(d.ReadBytesPerSec)) + "/s"
			writeBytes = humanize.IBytes(uint64(d.WriteBytesPerSec)) + "/s"
		} else {
			reads = fmt.Sprintf("%d", d.ReadOps)
			writes = fmt.Sprintf("%d", d.WriteOps)
			readBytes = humanize.IBytes(d.ReadBytes)
			writeBytes = humanize.IBytes(d.WriteBytes)
		}
		fmt.Fprintf(b, "%s %-12s %-12s %-16s %-16s\n",
			st.device.Render(fmt.Sprintf("%-15s", d.Name)),
			reads, writes, readBytes, writeBytes)
	}
}

// byteCell pairs the human size with the raw integer so the table stays
// verifiable.
func byteCell(v uint64) string {
	return fmt.Sprintf("%s (%d)", humanize.IBytes(v), v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
