package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chamlis/patchup/internal/config"
	"github.com/chamlis/patchup/internal/logger"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile     string
	logLevel    string
	logFormat   string
	profileName string
	asciiOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "patchup",
	Short: "Repair-patch generator for fractured 3-D scans",
	Long: `patchup inspects a scanned triangle mesh of a broken object, finds the
fracture boundary, and synthesizes a watertight, printable repair insert
that lips over the hole and seats inside it.

Pipeline:
  - Boundary loop extraction from the scan's open edges
  - Loop scoring and ranking into repair candidates
  - Ear-clipping triangulation of the selected boundary
  - Closed-shell patch synthesis tuned by a material profile`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"Path to configuration file (optional)")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Repair overrides
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "",
		"Override repair profile (balanced, durable-deep, economy-thin, tight-fit)")
	rootCmd.PersistentFlags().BoolVar(&asciiOutput, "ascii", false,
		"Write ASCII STL output instead of binary")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel  string
	LogFormat string
	Profile   string
	ASCII     bool
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:  logLevel,
		LogFormat: logFormat,
		Profile:   profileName,
		ASCII:     asciiOutput,
	}
}

// loadConfig resolves the effective configuration: defaults, then the config
// file if one was given, then CLI flag overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.Profile, overrides.ASCII)
	return cfg, nil
}

// newLogger builds the logger for one command invocation.
func newLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}
