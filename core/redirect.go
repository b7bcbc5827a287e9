package core

import (
	"fmt"
	"io"
	"os"

	"github.com/josephlewis42/genshell/commands"
	"github.com/josephlewis42/genshell/core/shell"
)

// maxFd is the highest descriptor a redirection can name.
const maxFd = 9

// fdTable maps descriptor numbers to open files, nil entries are closed.
type fdTable [maxFd + 1]*os.File

// extraFiles returns descriptors 3 and up in the form exec.Cmd.ExtraFiles
// expects, trailing closed descriptors are dropped.
func (t *fdTable) extraFiles() []*os.File {
	last := maxFd
	for last > 2 && t[last] == nil {
		last--
	}
	if last <= 2 {
		return nil
	}
	return append([]*os.File(nil), t[3:last+1]...)
}

// redirect is a redirection after its target was expanded.
type redirect struct {
	fd     int
	kind   shell.RedirKind
	target string
}

// RedirectError is returned when a redirection target can't be opened.
type RedirectError struct {
	Target string
	Err    error
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("failed to open %s: %s", e.Target, commands.ErrorReason(e.Err))
}

func (e *RedirectError) Unwrap() error {
	return e.Err
}

func openTarget(r redirect) (*os.File, error) {
	var f *os.File
	var err error
	switch r.kind {
	case shell.RedirInput:
		f, err = os.Open(r.target)
	case shell.RedirAppend:
		f, err = os.OpenFile(r.target, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
	default:
		f, err = os.OpenFile(r.target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	}

	if err != nil {
		return nil, &RedirectError{Target: r.target, Err: err}
	}
	return f, nil
}

// redirFrame remembers what a descriptor pointed to before a redirection.
type redirFrame struct {
	fd     int
	prev   *os.File
	opened *os.File
}

// redirStack applies redirections to a table and undoes them last first so
// repeated redirections of the same descriptor restore the original.
type redirStack struct {
	table  *fdTable
	frames []redirFrame
}

func newRedirStack(table *fdTable) *redirStack {
	return &redirStack{table: table}
}

// apply opens every target in order and points its descriptor at it. On
// failure the redirections applied so far stay in place until unwind.
func (s *redirStack) apply(redirs []redirect) error {
	for _, r := range redirs {
		f, err := openTarget(r)
		if err != nil {
			return err
		}
		s.frames = append(s.frames, redirFrame{fd: r.fd, prev: s.table[r.fd], opened: f})
		s.table[r.fd] = f
	}
	return nil
}

// release closes the opened files without restoring the table. It's used
// once a child process holds its own copies.
func (s *redirStack) release() error {
	var toClose listCloser
	for i := len(s.frames) - 1; i >= 0; i-- {
		toClose = append(toClose, s.frames[i].opened)
	}
	s.frames = nil
	return toClose.Close()
}

// unwind restores the table and closes the opened files.
func (s *redirStack) unwind() error {
	var toClose listCloser
	for i := len(s.frames) - 1; i >= 0; i-- {
		frame := s.frames[i]
		s.table[frame.fd] = frame.prev
		toClose = append(toClose, frame.opened)
	}
	s.frames = nil
	return toClose.Close()
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
