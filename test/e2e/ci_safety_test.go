//go:build e2e

package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCISafety checks the binary fails loudly, not silently, in a bare CI
// environment with bad configuration and no AWS credentials.
func TestCISafety(t *testing.T) {
	t.Run("invalid interval", func(t *testing.T) {
		res := runCLI(t, []string{"CAMPUSLAB_INTERVAL=-5s"}, "snapshot", "--no-telemetry")
		assert.Equal(t, 1, res.ExitCode)
		assert.Contains(t, res.Stderr, "[ERROR]")
		assert.Contains(t, res.Stderr, "refresh interval must be positive")
	})

	t.Run("s3 without credentials", func(t *testing.T) {
		res := runCLI(t, []string{
			"AWS_EC2_METADATA_DISABLED=true",
			"AWS_ENDPOINT_URL=http://127.0.0.1:1",
		}, "export", "--out", "s3://campus-reports/ci", "--no-telemetry")
		assert.Equal(t, 1, res.ExitCode)
		assert.Contains(t, res.Stderr, "[ERROR]")
		assert.NotContains(t, res.Stdout, "[SUCCESS]")
	})
}
