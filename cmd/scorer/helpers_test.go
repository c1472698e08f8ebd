package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/nirmaan/scorer/internal/projectconfig"
	"github.com/stretchr/testify/require"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes the root command with an isolated config file. configYAML
// is written to that file; pass "" for defaults.
func runCLI(t *testing.T, configYAML string, args ...string) cliResult {
	t.Helper()
	return runCLIWithInput(t, nil, configYAML, args...)
}

// runCLIWithInput is runCLI with stdin read from in.
func runCLIWithInput(t *testing.T, in io.Reader, configYAML string, args ...string) cliResult {
	t.Helper()

	t.Setenv(projectconfig.EnvBaseURL, "")
	t.Setenv(projectconfig.EnvTimeout, "")
	t.Setenv(projectconfig.EnvDurationSec, "")

	cfgPath := filepath.Join(t.TempDir(), "scorer.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configYAML+"\n"), 0o644))

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if in != nil {
		cmd.SetIn(in)
	}
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := cmd.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}
