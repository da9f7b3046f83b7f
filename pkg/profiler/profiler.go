package profiler

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"go.uber.org/zap"
)

// Config selects which profile files to write.
type Config struct {
	CPUProfile string // path for the CPU profile, empty disables
	MemProfile string // path for the heap profile, empty disables
}

// Profiler writes optional pprof files around a single run.
type Profiler struct {
	config  Config
	logger  *zap.Logger
	cpuFile *os.File
}

// New creates a profiler.
func New(config Config, logger *zap.Logger) *Profiler {
	return &Profiler{
		config: config,
		logger: logger,
	}
}

// Start begins CPU profiling if requested.
func (p *Profiler) Start() error {
	if p.config.CPUProfile == "" {
		return nil
	}

	file, err := os.Create(p.config.CPUProfile)
	if err != nil {
		return fmt.Errorf("failed to create CPU profile file: %w", err)
	}
	if err := pprof.StartCPUProfile(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to start CPU profiling: %w", err)
	}

	p.cpuFile = file
	p.logger.Info("Started CPU profiling", zap.String("file", p.config.CPUProfile))
	return nil
}

// Stop flushes the CPU profile and writes the heap profile if requested.
// Profile failures at shutdown are logged, never fatal.
func (p *Profiler) Stop() {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			p.logger.Warn("Failed to close CPU profile file", zap.Error(err))
		}
		p.cpuFile = nil
		p.logger.Info("Stopped CPU profiling", zap.String("file", p.config.CPUProfile))
	}

	if p.config.MemProfile != "" {
		p.writeMemProfile()
	}
}

func (p *Profiler) writeMemProfile() {
	file, err := os.Create(p.config.MemProfile)
	if err != nil {
		p.logger.Warn("Failed to create memory profile file", zap.Error(err))
		return
	}
	defer file.Close()

	// Run GC first for an accurate heap profile.
	runtime.GC()

	if err := pprof.WriteHeapProfile(file); err != nil {
		p.logger.Warn("Failed to write memory profile", zap.Error(err))
		return
	}
	p.logger.Info("Written memory profile", zap.String("file", p.config.MemProfile))
}
