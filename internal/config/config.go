package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// Config carries every runtime option for one invocation.
type Config struct {
	// Report options
	TopN     int
	Duration time.Duration // 0 means cumulative mode, no sampling
	ByDevice bool

	// Output options
	JSONOutput bool
	NoColor    bool
	LogLevel   string

	// Profiling
	ProfileCPUFile string
	ProfileMemFile string
}

// NewConfig creates a configuration with default values.
func NewConfig() *Config {
	return &Config{
		TopN:     5,
		Duration: 2 * time.Second,
		LogLevel: "warn",
	}
}

// Load applies environment overrides first, then command-line flags (which
// take priority), then validates the result.
func (c *Config) Load(cmd *cobra.Command) error {
	c.loadFromEnv()

	if cmd.Flags().Changed("top") {
		c.TopN, _ = cmd.Flags().GetInt("top")
	}
	if cmd.Flags().Changed("duration") {
		seconds, _ := cmd.Flags().GetFloat64("duration")
		c.Duration = time.Duration(seconds * float64(time.Second))
	}
	if cmd.Flags().Changed("by-device") {
		c.ByDevice, _ = cmd.Flags().GetBool("by-device")
	}
	if cmd.Flags().Changed("json") {
		c.JSONOutput, _ = cmd.Flags().GetBool("json")
	}
	if cmd.Flags().Changed("no-color") {
		c.NoColor, _ = cmd.Flags().GetBool("no-color")
	}
	if cmd.Flags().Changed("log-level") {
		c.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("profile-cpu") {
		c.ProfileCPUFile, _ = cmd.Flags().GetString("profile-cpu")
	}
	if cmd.Flags().Changed("profile-mem") {
		c.ProfileMemFile, _ = cmd.Flags().GetString("profile-mem")
	}

	return c.Validate()
}

// loadFromEnv reads configuration from environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("IOWHY_TOP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TopN = n
		}
	}
	if v := os.Getenv("IOWHY_DURATION"); v != "" {
		if seconds, err := strconv.ParseFloat(v, 64); err == nil {
			c.Duration = time.Duration(seconds * float64(time.Second))
		}
	}
	if v := os.Getenv("IOWHY_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate rejects invalid configurations before any sampling begins.
func (c *Config) Validate() error {
	if c.TopN < 1 {
		return fmt.Errorf("top must be at least 1, got %d", c.TopN)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must be non-negative, got %s", c.Duration)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return nil
}

// AddFlags registers all flags on the root command.
func AddFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("top", "t", 5, "Number of top processes to show")
	cmd.Flags().Float64P("duration", "d", 2.0, "Sampling duration in seconds (0 = cumulative counters, no sampling)")
	cmd.Flags().Bool("by-device", false, "Include per-device I/O statistics")
	cmd.Flags().Bool("json", false, "Output the report as JSON")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	cmd.Flags().String("log-level", "warn", "Log level (debug, info, warn, error)")

	// Profiling flags
	cmd.Flags().String("profile-cpu", "", "Write a CPU profile to the given file")
	cmd.Flags().String("profile-mem", "", "Write a heap profile to the given file")
}
