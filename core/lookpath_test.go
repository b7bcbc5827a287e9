package core

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/josephlewis42/genshell/core/vos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExecutable(t *testing.T, path string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), mode))
	require.NoError(t, os.Chmod(path, mode))
}

func TestLookPath(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first")
	second := filepath.Join(dir, "second")
	require.NoError(t, os.Mkdir(first, 0755))
	require.NoError(t, os.Mkdir(second, 0755))

	writeExecutable(t, filepath.Join(first, "tool"), 0755)
	writeExecutable(t, filepath.Join(second, "tool"), 0755)
	writeExecutable(t, filepath.Join(first, "data"), 0644)
	writeExecutable(t, filepath.Join(second, "data"), 0755)
	writeExecutable(t, filepath.Join(first, "noexec"), 0644)
	require.NoError(t, os.Mkdir(filepath.Join(first, "adir"), 0755))

	env := vos.NewMapEnvFrom(vos.EnvList{"PATH=" + first + string(filepath.ListSeparator) + second})

	cases := map[string]struct {
		file     string
		expected string
		err      error
	}{
		"first-match":        {"tool", filepath.Join(first, "tool"), nil},
		"skips-unexecutable": {"data", filepath.Join(second, "data"), nil},
		"missing":            {"nothing", "", ErrNotFound},
		"not-executable":     {"noexec", "", fs.ErrPermission},
		"directory":          {"adir", "", fs.ErrPermission},
		"with-slash":         {filepath.Join(second, "tool"), filepath.Join(second, "tool"), nil},
		"slash-missing":      {filepath.Join(second, "nothing"), "", ErrNotFound},
		"slash-unexecutable": {filepath.Join(first, "noexec"), "", fs.ErrPermission},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			path, err := LookPath(env, tc.file)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, path)
		})
	}
}

func TestLookPath_emptyEntryIsCwd(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeExecutable(t, "local", 0755)

	env := vos.NewMapEnvFrom(vos.EnvList{"PATH=/nonexistent:"})
	path, err := LookPath(env, "local")
	require.NoError(t, err)
	assert.Equal(t, "./local", path)
}

func TestLookPath_noPath(t *testing.T) {
	_, err := LookPath(vos.NewMapEnv(), "sh")
	assert.ErrorIs(t, err, ErrNotFound)
}
