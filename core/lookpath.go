package core

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/josephlewis42/genshell/core/vos"
)

// ErrNotFound is the error resulting if a path search failed to find an executable file.
var ErrNotFound = exec.ErrNotFound

const EnvPath = "PATH"

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath searches for an executable named file in the directories named by
// the PATH environment variable. If file contains a slash, it is tried directly
// and the PATH is not consulted. The result may be an absolute path or a path
// relative to the current directory.
//
// Missing files give ErrNotFound, files that exist but can't be executed give
// fs.ErrPermission.
func LookPath(env vos.VEnv, file string) (string, error) {
	if strings.Contains(file, "/") {
		err := findExecutable(file)
		switch {
		case err == nil:
			return file, nil
		case errors.Is(err, fs.ErrNotExist):
			return "", ErrNotFound
		}
		return "", err
	}

	var firstErr error
	for _, dir := range filepath.SplitList(env.Getenv(EnvPath)) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if !strings.Contains(path, "/") {
			path = "./" + path
		}
		err := findExecutable(path)
		if err == nil {
			return path, nil
		}
		if firstErr == nil && !errors.Is(err, fs.ErrNotExist) {
			firstErr = err
		}
	}

	if firstErr != nil {
		return "", firstErr
	}
	return "", ErrNotFound
}
