// Package version holds build metadata.
package version

// Current defines the application version.
// It defaults to "dev" but is overwritten at build time using -ldflags.
var Current = "dev"

// AppName is the product name shown in banners and telemetry.
const AppName = "Campus Living Lab"

// Tagline is the dashboard subtitle.
const Tagline = "Turning campuses into living labs for traffic, utilities, safety & planning"
