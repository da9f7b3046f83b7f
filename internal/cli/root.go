package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"iowhy/internal/collector"
	"iowhy/internal/config"
	"iowhy/internal/delta"
	"iowhy/internal/logger"
	"iowhy/internal/output"
	"iowhy/internal/report"
	"iowhy/internal/sampler"
	"iowhy/pkg/profiler"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCommand builds the iowhy command.
func NewRootCommand() *cobra.Command {
	cfg := config.NewConfig()

	cmd := &cobra.Command{
		Use:   "iowhy",
		Short: "Identify disk I/O bottlenecks on Linux",
		Long: `iowhy samples per-process and per-device I/O counters twice over a short
interval and reports which processes and devices account for the observed
I/O, together with a short diagnosis.

With --duration 0 no sampling happens and the cumulative since-start
counters are reported instead.`,
		Example: `  iowhy                    # quick diagnosis with 2-second sampling
  iowhy --duration 5       # sample for 5 seconds
  iowhy --top 10           # show top 10 processes
  iowhy --by-device        # include device breakdown
  iowhy --json             # output as JSON
  iowhy --no-color         # disable colored output`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(cmd); err != nil {
				return err
			}
			if err := logger.Initialize(cfg.LogLevel); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Cleanup()

			return run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	config.AddFlags(cmd)
	return cmd
}

// run executes the sample → delta → rank → report pipeline.
func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	log := logger.Logger

	prof := profiler.New(profiler.Config{
		CPUProfile: cfg.ProfileCPUFile,
		MemProfile: cfg.ProfileMemFile,
	}, log)
	if err := prof.Start(); err != nil {
		return err
	}
	defer prof.Stop()

	source := collector.NewSystemSource(log)
	smp := sampler.New(collector.New(source, log), log)

	var (
		res       delta.Result
		timestamp time.Time
		elapsed   float64
	)
	if cfg.Duration > 0 {
		before, after, err := smp.Sample(ctx, cfg.Duration)
		if err != nil {
			return err
		}
		timestamp = after.Timestamp
		elapsed = after.Timestamp.Sub(before.Timestamp).Seconds()
		res = delta.Compute(before, after)
	} else {
		snap, err := smp.Cumulative(ctx)
		if err != nil {
			return err
		}
		timestamp = snap.Timestamp
		res = delta.Cumulative(snap)
	}

	log.Debug("Computed deltas",
		zap.Int("processes", len(res.Processes)),
		zap.Int("devices", len(res.Devices)),
		zap.Int("excluded_processes", res.ExcludedProcesses),
		zap.Int("excluded_devices", res.ExcludedDevices))

	rep := report.Build(timestamp, elapsed, res, cfg.TopN, cfg.ByDevice)

	if cfg.JSONOutput {
		return output.JSON(out, rep)
	}
	return output.Text(out, rep, cfg.NoColor)
}
