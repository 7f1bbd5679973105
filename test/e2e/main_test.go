//go:build e2e

package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// binPath is the campuslab binary built once for the whole suite.
var binPath string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "campuslab-e2e")
	if err != nil {
		fmt.Printf("Failed to create temp dir: %v\n", err)
		os.Exit(1)
	}

	binPath = filepath.Join(dir, "campuslab")
	build := exec.Command("go", "build", "-o", binPath, "./cmd/campuslab")
	build.Dir = "../../"
	if out, err := build.CombinedOutput(); err != nil {
		fmt.Printf("Build failed: %s\n", out)
		os.RemoveAll(dir)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}
