package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devantler-tech/azdhooks/pkg/apis/lifecycle"
	"github.com/devantler-tech/azdhooks/pkg/io/config"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	exitCode := m.Run()

	_, err := snaps.Clean(m, snaps.CleanOpts{Sort: true})
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to clean snapshots: " + err.Error() + "\n")

		os.Exit(1)
	}

	os.Exit(exitCode)
}

func TestScaffold(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, config.Scaffold(&buf))

	out := buf.String()
	for _, phase := range lifecycle.Phases() {
		assert.Contains(t, out, string(phase)+": {}")
	}

	assert.Contains(t, out, "Run database migrations")

	var comments []string

	for line := range strings.SplitSeq(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			comments = append(comments, line)
		}
	}

	snaps.MatchSnapshot(t, strings.Join(comments, "\n"))
}

func TestWriteScaffold_RoundTrips(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "azdhooks.yaml")

	require.NoError(t, config.WriteScaffold(path, false))

	loaded, err := config.Load(config.NewViper(), dir)
	require.NoError(t, err)

	assert.Equal(t, path, loaded.File)
	assert.Len(t, loaded.Config.Hooks, len(lifecycle.Phases()))
	assert.Equal(t, config.Default().Log, loaded.Config.Log)
}

func TestWriteScaffold_RefusesOverwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "azdhooks.yaml")
	writeFile(t, path, "log:\n  level: debug\n")

	err := config.WriteScaffold(path, false)
	require.ErrorIs(t, err, config.ErrConfigExists)

	require.NoError(t, config.WriteScaffold(path, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "level: info")
}

func TestWriteScaffold_CreatesDirectories(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "infra", "hooks", "azdhooks.yaml")

	require.NoError(t, config.WriteScaffold(path, false))
	assert.FileExists(t, path)
}
