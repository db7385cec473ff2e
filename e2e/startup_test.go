//go:build e2e && unix

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStartupShowsDashboardAndTabs(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")

	require.True(t, tf.SeePlain("members 5 (3 main / 2 sub)"), "Dashboard should count the demo members")
	require.True(t, tf.SeePlain("1 Members"), "Members tab should be listed")
	require.True(t, tf.SeePlain("4 Consumption"), "Consumption tab should be listed")
	require.True(t, tf.SeePlain("Erik Larsen"), "Members grid should be on screen")
}

func TestStartupCreatesConfig(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	workspace, err := tf.CreateWorkspace()
	require.NoError(t, err)

	require.NoError(t, tf.StartApp(), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")

	_, err = os.Stat(filepath.Join(workspace, "config.toml"))
	require.NoError(t, err, "Missing config file should be written with defaults")
}

func TestStartupWithSeedFile(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	seed, err := tf.WriteSeed(`roles:
  - id: R100
    name: Caretaker
    description: Opens the building
    level: 1
`)
	require.NoError(t, err)

	require.NoError(t, tf.StartApp("--seed", seed), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")

	require.NoError(t, tf.Tab(3))
	require.True(t, tf.SeePlain("Caretaker"), "Seeded role should be listed")
	require.True(t, tf.SeePlain("Roles 1/1"), "Roles grid should hold only the seeded role")
}
