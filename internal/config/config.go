// Package config provides configuration structures and loading for the
// patchup CLI.
package config

// Config represents the complete application configuration.
type Config struct {
	Repair  RepairConfig  `yaml:"repair" mapstructure:"repair"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Demo    DemoConfig    `yaml:"demo" mapstructure:"demo"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// RepairConfig selects repair behavior.
type RepairConfig struct {
	// Profile is the default material profile name (balanced, durable-deep,
	// economy-thin, tight-fit).
	Profile string `yaml:"profile" mapstructure:"profile"`
}

// OutputConfig controls how generated meshes are written.
type OutputConfig struct {
	// ASCII selects ASCII STL output instead of binary.
	ASCII bool `yaml:"ascii" mapstructure:"ascii"`
	// SolidName is the solid name embedded in ASCII STL output.
	SolidName string `yaml:"solid_name" mapstructure:"solid_name"`
}

// DemoConfig controls the synthetic demo scan.
type DemoConfig struct {
	// Cells is the marching-cubes resolution per axis.
	Cells int `yaml:"cells" mapstructure:"cells"`
	// Radius is the demo sphere radius in meters.
	Radius float64 `yaml:"radius" mapstructure:"radius"`
	// FractureRadius is the radius of the simulated break in meters.
	FractureRadius float64 `yaml:"fracture_radius" mapstructure:"fracture_radius"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Repair: RepairConfig{
			Profile: "balanced",
		},
		Output: OutputConfig{
			ASCII:     false,
			SolidName: "patchup",
		},
		Demo: DemoConfig{
			Cells:          96,
			Radius:         0.04,
			FractureRadius: 0.015,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// ApplyOverrides applies CLI flag values over the loaded configuration.
// Empty strings and false booleans are treated as "not set".
func (c *Config) ApplyOverrides(logLevel, logFormat, profile string, ascii bool) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	if profile != "" {
		c.Repair.Profile = profile
	}
	if ascii {
		c.Output.ASCII = true
	}
}
