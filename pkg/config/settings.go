package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalidInterval is returned when the refresh interval is not positive.
var ErrInvalidInterval = errors.New("refresh interval must be positive")

// Settings is the resolved runtime configuration.
type Settings struct {
	// Interval between dashboard cycles.
	Interval time.Duration `mapstructure:"interval"`
	// Seed makes the sampler deterministic when non-zero.
	Seed uint64 `mapstructure:"seed"`

	Listen    string `mapstructure:"listen"`
	OutputDir string `mapstructure:"output_dir"`

	JSONLogs bool   `mapstructure:"json_logs"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	OTelEndpoint string `mapstructure:"otel_endpoint"`
	NoTelemetry  bool   `mapstructure:"no_telemetry"`

	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
}

// NewViper returns a viper instance with defaults and environment binding
// applied. Keys use snake_case; env vars use the CAMPUSLAB_ prefix.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("interval", d.Interval)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("listen", d.Listen)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("json_logs", d.JSONLogs)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("otel_endpoint", d.OTelEndpoint)
	v.SetDefault("no_telemetry", d.NoTelemetry)
	v.SetDefault("aws_region", d.AWSRegion)
	v.SetDefault("aws_profile", d.AWSProfile)
	return v
}

// ReadFile loads a config file into v. A missing file at the default
// location is not an error; an explicit path that cannot be read is.
func ReadFile(v *viper.Viper, path string, explicit bool) error {
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if explicit {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	return nil
}

// Load decodes v into Settings and validates the result.
func Load(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks invariants that the rest of the program relies on.
func (s Settings) Validate() error {
	if s.Interval <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidInterval, s.Interval)
	}
	return nil
}
