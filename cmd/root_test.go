// File: cmd/root_test.go
package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRootCmd_VersionFlag tests if the --version flag works correctly.
func TestRootCmd_VersionFlag(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--version"})

	err := rootCmd.ExecuteContext(context.Background())

	require.NoError(t, err)
	assert.Contains(t, out.String(), Version)
}

func TestRootCmd_HasRunSubcommand(t *testing.T) {
	var run bool
	for _, c := range rootCmd.Commands() {
		if c.Name() == "run" {
			run = true
		}
	}
	assert.True(t, run, "the run command must be registered")
}

func TestRunCmd_Flags(t *testing.T) {
	cmd := newRunCmd()
	assert.Equal(t, "run [task]", cmd.Use)

	for _, name := range []string{"max-iterations", "model", "no-confirm", "interactive", "headless", "url"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %q must exist", name)
	}
}
