package runner_test

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/devantler-tech/azdhooks/pkg/utils/notify"
	"github.com/devantler-tech/azdhooks/pkg/utils/runner"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const crashEnv = "AZDHOOKS_RUNNER_CRASH"

type exitRecorder struct {
	codes []int
}

func (e *exitRecorder) exit(code int) {
	e.codes = append(e.codes, code)
}

func newTestRunner(t *testing.T, opts ...runner.Option) (*runner.Runner, *bytes.Buffer, *exitRecorder) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("runner tests use POSIX shell commands")
	}

	var out bytes.Buffer

	recorder := &exitRecorder{}
	logger := notify.NewLogger(notify.WithOutput(&out), notify.WithLevel(logrus.DebugLevel))

	opts = append([]runner.Option{runner.WithExitFunc(recorder.exit)}, opts...)

	return runner.New(logger, opts...), &out, recorder
}

func TestRun_Success(t *testing.T) {
	t.Parallel()

	r, out, recorder := newTestRunner(t)

	res, err := r.Run(context.Background(), "echo hello")
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.True(t, res.Success())
	assert.Contains(t, res.Stdout, "hello")
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "echo hello", res.Command)
	assert.Empty(t, recorder.codes)
	assert.Contains(t, out.String(), "Executing command: echo hello")
	assert.Contains(t, out.String(), "Command completed with exit code: 0")
}

func TestRun_ShellSemantics(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRunner(t)

	res, err := r.Run(context.Background(), "printf 'a\\nb\\nc\\n' | wc -l | tr -d ' '")
	require.NoError(t, err)

	assert.Equal(t, "3\n", res.Stdout)
}

func TestRun_CapturesStderr(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRunner(t)

	res, err := r.Run(context.Background(), "echo oops 1>&2")
	require.NoError(t, err)

	assert.Empty(t, res.Stdout)
	assert.Equal(t, "oops\n", res.Stderr)
}

func TestRun_UncheckedNonZeroExit(t *testing.T) {
	t.Parallel()

	r, _, recorder := newTestRunner(t)

	res, err := r.Run(context.Background(), "exit 3", runner.Unchecked())
	require.NoError(t, err)

	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.Success())
	assert.Empty(t, recorder.codes, "unchecked failures must not exit")
}

func TestRun_CheckedNonZeroExitCallsExit(t *testing.T) {
	t.Parallel()

	r, out, recorder := newTestRunner(t)

	res, err := r.Run(context.Background(), "exit 3")
	require.Error(t, err)
	require.ErrorIs(t, err, runner.ErrCommandFailed)

	var cmdErr *runner.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 3, cmdErr.ExitCode)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, []int{1}, recorder.codes)
	assert.Contains(t, out.String(), "ERROR - ❌ Command failed with exit code 3: exit 3")
}

func TestRun_CheckedFailureTerminatesProcess(t *testing.T) {
	if os.Getenv(crashEnv) == "1" {
		_, _ = runner.New(notify.NewLogger()).Run(context.Background(), "exit 3")

		return
	}

	if runtime.GOOS == "windows" {
		t.Skip("runner tests use POSIX shell commands")
	}

	//nolint:gosec // re-executes the test binary
	cmd := exec.Command(os.Args[0], "-test.run=^TestRun_CheckedFailureTerminatesProcess$")
	cmd.Env = append(os.Environ(), crashEnv+"=1")

	out, err := cmd.Output()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, string(out), "Command failed with exit code 3: exit 3")
}

func TestRun_EmptyCommandIsShellDefined(t *testing.T) {
	t.Parallel()

	r, _, recorder := newTestRunner(t)

	res, err := r.Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.Empty(t, recorder.codes)
}

func TestExec_NoShellInterpretation(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRunner(t)

	res, err := r.Exec(context.Background(), []string{"echo", "$HOME", "a | b"})
	require.NoError(t, err)

	assert.Equal(t, "$HOME a | b\n", res.Stdout)
	assert.Equal(t, "echo $HOME a | b", res.Command)
}

func TestExec_EmptyArgv(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRunner(t)

	_, err := r.Exec(context.Background(), nil)
	require.ErrorIs(t, err, runner.ErrEmptyArgv)
}

func TestExec_BinaryNotFound(t *testing.T) {
	t.Parallel()

	r, _, recorder := newTestRunner(t)

	res, err := r.Exec(context.Background(), []string{"nonexistent-binary-xyz-123"}, runner.Unchecked())
	require.NoError(t, err)

	assert.Equal(t, 127, res.ExitCode)
	assert.Contains(t, res.Stderr, "nonexistent-binary-xyz-123")
	assert.Empty(t, recorder.codes)
}

func TestRun_WorkingDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	sub := filepath.Join(base, "infra")
	require.NoError(t, os.Mkdir(sub, 0o755))

	r, _, _ := newTestRunner(t, runner.WithDir(base))

	res, err := r.Run(context.Background(), "pwd", runner.InDir("infra"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(res.Stdout), "infra"), "stdout = %q", res.Stdout)

	res, err = r.Run(context.Background(), "pwd")
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(base), filepath.Base(strings.TrimSpace(res.Stdout)))
}

func TestRun_MissingDirectoryIsAnError(t *testing.T) {
	t.Parallel()

	r, _, recorder := newTestRunner(t)

	_, err := r.Run(context.Background(), "true", runner.InDir(filepath.Join(t.TempDir(), "missing")))
	require.Error(t, err)
	assert.Empty(t, recorder.codes)
}

func TestRun_Environment(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRunner(t, runner.WithEnv(map[string]string{"GREETING": "hello"}))

	res, err := r.Run(
		context.Background(),
		`echo "$GREETING $TARGET"`,
		runner.Env(map[string]string{"TARGET": "world"}),
	)
	require.NoError(t, err)

	assert.Equal(t, "hello world\n", res.Stdout)
}

func TestRun_CustomShell(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRunner(t, runner.WithShell("/bin/sh", "-e", "-c"))

	res, err := r.Run(context.Background(), "false; echo unreachable", runner.Unchecked())
	require.NoError(t, err)

	assert.NotEqual(t, 0, res.ExitCode)
	assert.NotContains(t, res.Stdout, "unreachable")
}

func TestRun_Timeout(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRunner(t, runner.WithTimeout(100*time.Millisecond))

	start := time.Now()
	res, err := r.Run(context.Background(), "sleep 10", runner.Unchecked())
	require.NoError(t, err)

	assert.NotEqual(t, 0, res.ExitCode)
	assert.Less(t, time.Since(start), 8*time.Second)
}

func TestRun_OutputTruncation(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRunner(t, runner.WithMaxOutput(100))

	res, err := r.Run(context.Background(), "dd if=/dev/zero bs=200 count=1 2>/dev/null")
	require.NoError(t, err)

	assert.True(t, res.Truncated)
	assert.Len(t, res.Stdout, 100)
}

func TestRun_OutputExactlyAtLimitIsNotTruncated(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRunner(t, runner.WithMaxOutput(6))

	res, err := r.Run(context.Background(), "echo hello")
	require.NoError(t, err)

	assert.False(t, res.Truncated)
	assert.Equal(t, "hello\n", res.Stdout)
}

func TestRun_OutputOneByteOverLimitIsTruncated(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRunner(t, runner.WithMaxOutput(5))

	res, err := r.Run(context.Background(), "echo hello")
	require.NoError(t, err)

	assert.True(t, res.Truncated)
	assert.Equal(t, "hello", res.Stdout)
}
