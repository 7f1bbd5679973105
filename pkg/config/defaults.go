// Package config defines default configuration and the settings loader.
package config

import "time"

// Defaults.
const (
	// DefaultRefreshInterval is how often the dashboard produces a new frame.
	DefaultRefreshInterval = 20 * time.Second
	DefaultListenAddr      = ":8080"
	DefaultOutputDir       = "campuslab-out"
	DefaultLogLevel        = "info"
	DefaultRegion          = "us-east-1"

	// EnvPrefix is prepended to every environment override, e.g. CAMPUSLAB_INTERVAL.
	EnvPrefix = "CAMPUSLAB"
)

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		Interval:  DefaultRefreshInterval,
		Listen:    DefaultListenAddr,
		OutputDir: DefaultOutputDir,
		LogLevel:  DefaultLogLevel,
		AWSRegion: DefaultRegion,
	}
}
