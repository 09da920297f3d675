package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/devantler-tech/azdhooks/pkg/apis/lifecycle"
	"github.com/devantler-tech/azdhooks/pkg/io/config"
	"github.com/devantler-tech/azdhooks/pkg/utils/runner"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Parallel()

	loaded, err := config.Load(config.NewViper(), t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, loaded.File)
	assert.Equal(t, "info", loaded.Config.Log.Level)
	assert.Equal(t, config.ColorAuto, loaded.Config.Log.Color)
	assert.Equal(t, runner.DefaultMaxOutput, loaded.Config.Runner.MaxOutput)
	assert.Empty(t, loaded.Config.Hook(lifecycle.PhasePreProvision).Steps)
}

func TestLoad_FromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "azdhooks.yaml"), `
log:
  level: debug
runner:
  shell: [bash, -euo, pipefail, -c]
  timeout: 90s
hooks:
  pre-provision:
    require_env: [AZURE_LOCATION]
    steps:
      - name: check tooling
        run: az version
  postdeploy:
    steps:
      - args: [go, vet, ./...]
        check: false
        dir: src
        env:
          GOFLAGS: -mod=mod
`)

	loaded, err := config.Load(config.NewViper(), dir)
	require.NoError(t, err)

	cfg := loaded.Config
	assert.Equal(t, filepath.Join(dir, "azdhooks.yaml"), loaded.File)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"bash", "-euo", "pipefail", "-c"}, cfg.Runner.Shell)
	assert.Equal(t, 90*time.Second, cfg.Runner.Timeout)

	pre := cfg.Hook(lifecycle.PhasePreProvision)
	assert.Equal(t, []string{"AZURE_LOCATION"}, pre.RequireEnv)
	require.Len(t, pre.Steps, 1)
	assert.Equal(t, "check tooling", pre.Steps[0].DisplayName())
	assert.True(t, pre.Steps[0].Checked())

	post := cfg.Hook(lifecycle.PhasePostDeploy)
	require.Len(t, post.Steps, 1)
	assert.False(t, post.Steps[0].Checked())
	assert.Equal(t, "go vet ./...", post.Steps[0].DisplayName())
	assert.Equal(t, map[string]string{"GOFLAGS": "-mod=mod"}, post.Steps[0].Env, "env keys keep their case")
}

func TestLoad_SearchesInfraHooks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "infra", "hooks", "azdhooks.yaml"), "log:\n  level: warning\n")

	loaded, err := config.Load(config.NewViper(), dir)
	require.NoError(t, err)

	assert.Equal(t, "warning", loaded.Config.Log.Level)
	assert.Equal(t, filepath.Join(dir, "infra", "hooks", "azdhooks.yaml"), loaded.File)
}

func TestLoad_IgnoresExtensionlessFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "azdhooks"), []byte("\x7fELF\x02\x01\x01\x00"), 0o755))

	loaded, err := config.Load(config.NewViper(), dir)
	require.NoError(t, err)

	assert.Empty(t, loaded.File)
	assert.Equal(t, "info", loaded.Config.Log.Level)
}

func TestLoad_FindsYmlExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "azdhooks"), []byte("\x7fELF"), 0o755))
	writeFile(t, filepath.Join(dir, "azdhooks.yml"), "log:\n  level: debug\n")

	loaded, err := config.Load(config.NewViper(), dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "azdhooks.yml"), loaded.File)
	assert.Equal(t, "debug", loaded.Config.Log.Level)
}

func TestLoad_SkipsConfigDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "azdhooks.yaml"), 0o755))
	writeFile(t, filepath.Join(dir, "infra", "hooks", "azdhooks.yaml"), "log:\n  level: error\n")

	loaded, err := config.Load(config.NewViper(), dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "infra", "hooks", "azdhooks.yaml"), loaded.File)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	t.Parallel()

	v := config.NewViper()
	v.Set(config.KeyConfig, "missing.yaml")

	_, err := config.Load(v, t.TempDir())
	require.Error(t, err)
}

func TestLoad_ExplicitRelativeFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ci", "hooks.yml"), "log:\n  level: error\n")

	v := config.NewViper()
	v.Set(config.KeyConfig, filepath.Join("ci", "hooks.yml"))

	loaded, err := config.Load(v, dir)
	require.NoError(t, err)

	assert.Equal(t, "error", loaded.Config.Log.Level)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "azdhooks.yaml"), "log:\n  level: debug\nrunner:\n  timeout: 1m\n")

	t.Setenv("AZDHOOKS_LOG_LEVEL", "error")
	t.Setenv("AZDHOOKS_RUNNER_TIMEOUT", "5s")
	t.Setenv("AZDHOOKS_RUNNER_SHELL", "bash,-c")
	t.Setenv("AZDHOOKS_RUNNER_MAX_OUTPUT", "2048")

	loaded, err := config.Load(config.NewViper(), dir)
	require.NoError(t, err)

	assert.Equal(t, "error", loaded.Config.Log.Level)
	assert.Equal(t, 5*time.Second, loaded.Config.Runner.Timeout)
	assert.Equal(t, []string{"bash", "-c"}, loaded.Config.Runner.Shell)
	assert.Equal(t, 2048, loaded.Config.Runner.MaxOutput)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("AZDHOOKS_LOG_LEVEL", "error")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(config.FlagLogLevel, "info", "")
	flags.String(config.FlagColor, config.ColorAuto, "")
	require.NoError(t, flags.Parse([]string{"--log-level=debug", "--color=never"}))

	v := config.NewViper()
	require.NoError(t, config.BindFlags(v, flags))

	loaded, err := config.Load(v, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "debug", loaded.Config.Log.Level)
	assert.Equal(t, config.ColorNever, loaded.Config.Log.Color)
}

func TestLoad_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "unknown phase",
			content: "hooks:\n  predestroy:\n    steps: []\n",
		},
		{
			name:    "duplicate phase spelling",
			content: "hooks:\n  preprovision: {}\n  pre-provision: {}\n",
		},
		{
			name:    "step without command",
			content: "hooks:\n  predeploy:\n    steps:\n      - name: nothing\n",
		},
		{
			name:    "step with run and args",
			content: "hooks:\n  predeploy:\n    steps:\n      - run: make\n        args: [make]\n",
		},
		{
			name:    "unknown step field",
			content: "hooks:\n  predeploy:\n    steps:\n      - command: make\n",
		},
		{
			name:    "bad log level",
			content: "log:\n  level: loud\n",
		},
		{
			name:    "undocumented log level trace",
			content: "log:\n  level: trace\n",
		},
		{
			name:    "log level alias warn",
			content: "log:\n  level: warn\n",
		},
		{
			name:    "bad color",
			content: "log:\n  color: sometimes\n",
		},
		{
			name:    "negative timeout",
			content: "runner:\n  timeout: -1s\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "azdhooks.yaml"), tc.content)

			_, err := config.Load(config.NewViper(), dir)
			require.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "azdhooks.yaml"), "")

	loaded, err := config.Load(config.NewViper(), dir)
	require.NoError(t, err)

	assert.Nil(t, loaded.Config.Hooks)
}
