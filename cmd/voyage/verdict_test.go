package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/reglet-dev/voyage/internal/infrastructure/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		verdictFormat = "table"
		_ = rootCmd.PersistentFlags().Set("guard-mode", "")
	})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVerdictCommand_JSON(t *testing.T) {
	out, err := executeCommand(t, "--config", t.TempDir()+"/missing.yaml",
		"verdict", "--format", "json", "http://127.0.0.1/", "http://[::1]/api/flag-vault")
	require.NoError(t, err)

	var rows []output.VerdictRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.False(t, rows[0].Allowed)
	assert.Equal(t, "internal resource", rows[0].Reason)
	assert.True(t, rows[1].Allowed)
}

func TestVerdictCommand_ResolvedMode(t *testing.T) {
	out, err := executeCommand(t, "--config", t.TempDir()+"/missing.yaml",
		"--guard-mode", "resolved", "verdict", "http://[::1]/api/flag-vault")
	require.NoError(t, err)
	assert.Contains(t, out, "denied: internal resource")
}

func TestVerdictCommand_RequiresURL(t *testing.T) {
	_, err := executeCommand(t, "--config", t.TempDir()+"/missing.yaml", "verdict")
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "--config", t.TempDir()+"/missing.yaml", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "voyage version dev")
}
