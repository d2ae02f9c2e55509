package appforge

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/slok/appforge/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary string
}

func (c *Config) defaults() error {
	if c.Binary == "" {
		c.Binary = "appforge"
	}

	// go test runs in the package directory, relative paths would be misleading.
	if !filepath.IsAbs(c.Binary) {
		return fmt.Errorf("APPFORGE_INTEGRATION_BINARY must be an absolute path, got %q", c.Binary)
	}
	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("appforge binary not found at %q: %w", c.Binary, err)
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "APPFORGE_INTEGRATION"
		envBinary     = "APPFORGE_INTEGRATION_BINARY"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{Binary: os.Getenv(envBinary)}
	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// RunCmd runs an appforge command against a specific db path with logging disabled.
func RunCmd(ctx context.Context, config Config, dbPath string, args ...string) (stdout, stderr []byte, err error) {
	return testutils.RunAppforge(ctx, nil, config.Binary, append([]string{"--db-path", dbPath}, args...), true)
}

// StartCmd starts an appforge command in the background against a specific db path.
func StartCmd(ctx context.Context, config Config, dbPath string, stdout, stderr *bytes.Buffer, args ...string) (*exec.Cmd, error) {
	cmd := testutils.StartAppforge(ctx, nil, config.Binary, append([]string{"--db-path", dbPath}, args...), true, stdout, stderr)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}
