package core

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitStatus(t *testing.T) {
	cases := map[string]struct {
		script string
		status int
	}{
		"success":  {"exit 0", 0},
		"failure":  {"exit 7", 7},
		"signaled": {"kill -KILL $$", StatusSignalBase + 9},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			status, err := waitStatus(exec.Command("sh", "-c", tc.script).Run())
			require.NoError(t, err)
			assert.Equal(t, tc.status, status)
		})
	}

	status, err := waitStatus(errors.New("boom"))
	assert.Error(t, err)
	assert.Equal(t, StatusFailure, status)
}

func TestExecutor_notExecutable(t *testing.T) {
	ts := newTestSession(t, "")
	require.NoError(t, os.WriteFile("script", []byte("echo hi\n"), 0644))

	assert.Equal(t, StatusNotExecutable, ts.RunLine("./script"))
	assert.Equal(t, StatusNotFound, ts.RunLine("./missing"))

	_, stderr := ts.Output(t)
	assert.Equal(t, "genshell: ./script: permission denied\ngenshell: ./missing: command not found\n", stderr)
}

func TestExecutor_startFailure(t *testing.T) {
	ts := newTestSession(t, "")
	// Executable bit set, but the interpreter doesn't exist.
	require.NoError(t, os.WriteFile("broken", []byte("#!/genshell/no/such/interpreter\n"), 0755))

	assert.Equal(t, StatusNotFound, ts.RunLine("true | ./broken"))
	assert.Equal(t, 0, ts.RunLine("./broken | true"))

	_, stderr := ts.Output(t)
	assert.Equal(t, "genshell: ./broken: no such file or directory\n"+
		"genshell: ./broken: no such file or directory\n", stderr)
}

func TestExecutor_redirectionsInPipeline(t *testing.T) {
	ts := newTestSession(t, "")

	assert.Equal(t, 0, ts.RunLine("echo piped | cat > out.txt"))
	assert.Equal(t, 0, ts.RunLine("echo skipped > first.txt | cat > second.txt"))
	assert.Equal(t, 0, ts.RunLine("> only.txt | cat > /dev/null"))

	out, err := os.ReadFile("out.txt")
	require.NoError(t, err)
	assert.Equal(t, "piped\n", string(out))

	first, err := os.ReadFile("first.txt")
	require.NoError(t, err)
	assert.Equal(t, "skipped\n", string(first))

	second, err := os.ReadFile("second.txt")
	require.NoError(t, err)
	assert.Empty(t, second)

	assert.FileExists(t, filepath.Join(ts.Work, "only.txt"))
}

func TestExecutor_redirectFailureInPipeline(t *testing.T) {
	ts := newTestSession(t, "")

	assert.Equal(t, StatusFailure, ts.RunLine("echo a | cat < missing.txt"))
	assert.Equal(t, 0, ts.RunLine("cat < missing.txt | echo b"))

	stdout, stderr := ts.Output(t)
	assert.Equal(t, "b\n", stdout)
	assert.Equal(t, "genshell: failed to open missing.txt: no such file or directory\n"+
		"genshell: failed to open missing.txt: no such file or directory\n", stderr)
}

func TestExecutor_builtinRedirection(t *testing.T) {
	ts := newTestSession(t, "")

	assert.Equal(t, 0, ts.RunLine("export A=1 B=2"))
	assert.Equal(t, 0, ts.RunLine("export > exported.txt"))
	assert.Equal(t, 1, ts.RunLine("export 9=x 2> errors.txt"))

	exported, err := os.ReadFile("exported.txt")
	require.NoError(t, err)
	assert.Contains(t, string(exported), "export A=1\nexport B=2\n")

	errOut, err := os.ReadFile("errors.txt")
	require.NoError(t, err)
	assert.Equal(t, "genshell: export: `9=x': invalid identifier\n", string(errOut))

	// The shell's own stdout and stderr are restored.
	stdout, stderr := ts.Output(t)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
	assert.Same(t, ts.Session.stdout, ts.Executor().fds[1])
}
