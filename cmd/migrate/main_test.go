// ABOUTME: Tests for the migrate command runner
// ABOUTME: Runs up, down, version, force, and drop against a temp SQLite file
package main

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, path string, yes bool, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(path, args, yes, log.New(io.Discard), &out)
	return out.String(), err
}

func TestMigrateLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crm.db")

	out, err := runCmd(t, path, false, "version")
	require.NoError(t, err)
	assert.Equal(t, "Schema version: none\n", out)

	out, err = runCmd(t, path, false, "up")
	require.NoError(t, err)
	assert.Equal(t, "Schema version: 3\n", out)

	out, err = runCmd(t, path, false, "up")
	require.NoError(t, err)
	assert.Equal(t, "Schema version: 3\n", out)

	out, err = runCmd(t, path, false, "down")
	require.NoError(t, err)
	assert.Equal(t, "Schema version: 2\n", out)

	out, err = runCmd(t, path, false, "down", "2")
	require.NoError(t, err)
	assert.Equal(t, "Schema version: none\n", out)

	out, err = runCmd(t, path, false, "force", "3")
	require.NoError(t, err)
	assert.Equal(t, "Schema version: 3\n", out)
}

func TestMigrateDrop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crm.db")
	_, err := runCmd(t, path, false, "up")
	require.NoError(t, err)

	_, err = runCmd(t, path, false, "drop")
	assert.ErrorContains(t, err, "rerun with -yes")

	out, err := runCmd(t, path, true, "drop")
	require.NoError(t, err)
	assert.Contains(t, out, "All tables dropped")
}

func TestMigrateBadArgs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crm.db")

	_, err := runCmd(t, path, false)
	assert.ErrorContains(t, err, "command required")

	_, err = runCmd(t, path, false, "sideways")
	assert.ErrorContains(t, err, "unknown command")

	_, err = runCmd(t, path, false, "down", "zero")
	assert.ErrorContains(t, err, "invalid step count")

	_, err = runCmd(t, path, false, "force")
	assert.ErrorContains(t, err, "usage: migrate force")
}
