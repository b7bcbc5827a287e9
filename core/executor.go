package core

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/josephlewis42/genshell/commands"
	"github.com/josephlewis42/genshell/core/logger"
	"github.com/josephlewis42/genshell/core/shell"
	"github.com/josephlewis42/genshell/core/vos"
)

// ErrUnimplemented is reported for features the shell recognizes but can't
// run.
var ErrUnimplemented = errors.New("not implemented")

const (
	// StatusFailure is the status of commands that fail before they run.
	StatusFailure = 1
	// StatusNotExecutable is the status of commands that exist but can't
	// be executed.
	StatusNotExecutable = 126
	// StatusNotFound is the status of commands that don't exist.
	StatusNotFound = 127
	// StatusSignalBase is added to the signal number that killed a command.
	StatusSignalBase = 128
)

// Executor runs parsed pipelines on behalf of a session.
type Executor struct {
	session *Session

	// fds is the shell's descriptor table, parent builtins see it through
	// their redirections.
	fds fdTable

	// self is the binary re-executed to run builtins inside a pipeline.
	self string
}

func newExecutor(s *Session) *Executor {
	e := &Executor{session: s}
	e.fds[0], e.fds[1], e.fds[2] = s.stdin, s.stdout, s.stderr
	if self, err := os.Executable(); err == nil {
		e.self = self
	}
	return e
}

// stage is a simple command after expansion.
type stage struct {
	argv    []string
	redirs  []redirect
	builtin *commands.BuiltinSpec
}

func (s *stage) name() string {
	if len(s.argv) == 0 {
		return ""
	}
	return s.argv[0]
}

func (e *Executor) prepare(cmd *shell.SimpleCommand) *stage {
	exp := e.session.expander()

	st := &stage{argv: exp.Fields(cmd.Args)}
	for _, r := range cmd.Redirs {
		st.redirs = append(st.redirs, redirect{fd: r.Fd, kind: r.Kind, target: exp.Expand(r.Target)})
	}
	if len(st.argv) > 0 {
		st.builtin, _ = commands.Lookup(st.argv[0])
	}
	return st
}

// Execute runs the pipeline to completion and returns its status, which is
// also stored as the session's last status.
func (e *Executor) Execute(p *shell.Pipeline) int {
	start := time.Now()

	var names []string
	status := e.execute(p, &names)
	e.session.lastStatus = status

	e.session.events.Record(&logger.RunCommand{
		Line:           p.String(),
		Commands:       names,
		Status:         status,
		DurationMicros: time.Since(start).Microseconds(),
	})
	return status
}

func (e *Executor) execute(p *shell.Pipeline, names *[]string) int {
	if p.Background {
		e.errorf("background jobs are %v yet", ErrUnimplemented)
		return StatusFailure
	}

	var stages []*stage
	for _, cmd := range p.Commands {
		st := e.prepare(cmd)
		stages = append(stages, st)
		*names = append(*names, st.name())
	}

	if len(stages) == 1 {
		st := stages[0]
		switch {
		case len(st.argv) == 0:
			return e.runRedirectOnly(st)
		case st.builtin != nil && st.builtin.RunsInParent():
			return e.runInParent(st)
		}
	}

	return e.runPipeline(stages)
}

// runRedirectOnly opens (and so creates or truncates) every target, then
// puts the descriptors back.
func (e *Executor) runRedirectOnly(st *stage) int {
	stack := newRedirStack(&e.fds)
	err := stack.apply(st.redirs)
	stack.unwind()

	if err != nil {
		e.errorf("%v", err)
		return StatusFailure
	}
	return 0
}

// runInParent runs a builtin inside the shell so its changes persist.
func (e *Executor) runInParent(st *stage) int {
	stack := newRedirStack(&e.fds)
	defer stack.unwind()

	if err := stack.apply(st.redirs); err != nil {
		e.errorf("%v", err)
		return StatusFailure
	}

	sh := &builtinShell{
		Session: e.session,
		vio:     vos.NewVIOAdapter(readerOrEmpty(e.fds[0]), writerOrDiscard(e.fds[1]), writerOrDiscard(e.fds[2])),
	}
	return st.builtin.Main(sh, st.argv)
}

// runPipeline starts one process per stage, connected by pipes, and waits
// for all of them. The status is that of the last stage.
func (e *Executor) runPipeline(stages []*stage) int {
	procs := make([]*exec.Cmd, len(stages))
	statuses := make([]int, len(stages))
	failed := false

	var prevRead *os.File
	for i, st := range stages {
		table := fdTable{e.fds[0], e.fds[1], e.fds[2]}
		if prevRead != nil {
			table[0] = prevRead
		}

		var nextRead, write *os.File
		if i+1 < len(stages) {
			r, w, err := os.Pipe()
			if err != nil {
				e.errorf("pipe failed: %v", err)
				failed = true
				break
			}
			nextRead, write = r, w
			table[1] = w
		}

		procs[i], statuses[i] = e.startStage(st, &table)

		// The child has its own copies now.
		closeFile(prevRead)
		closeFile(write)
		prevRead = nextRead
	}
	closeFile(prevRead)

	for i, cmd := range procs {
		if cmd == nil {
			continue
		}

		status, err := waitStatus(cmd.Wait())
		if err != nil {
			e.errorf("%s: wait failed: %v", stages[i].name(), err)
			failed = true
		}
		statuses[i] = status
	}

	if failed {
		return StatusFailure
	}
	return statuses[len(statuses)-1]
}

// startStage applies the stage's redirections on top of the pipe wiring in
// table and starts it. Stages that fail before starting return a nil
// command and their status.
func (e *Executor) startStage(st *stage, table *fdTable) (*exec.Cmd, int) {
	stack := newRedirStack(table)
	defer stack.release()

	if err := stack.apply(st.redirs); err != nil {
		e.errorf("%v", err)
		return nil, StatusFailure
	}

	if len(st.argv) == 0 {
		return nil, 0
	}

	cmd, status := e.command(st)
	if cmd == nil {
		return nil, status
	}

	if f := table[0]; f != nil {
		cmd.Stdin = f
	}
	if f := table[1]; f != nil {
		cmd.Stdout = f
	}
	if f := table[2]; f != nil {
		cmd.Stderr = f
	}
	cmd.ExtraFiles = table.extraFiles()

	if err := cmd.Start(); err != nil {
		e.errorf("%s: %s", st.name(), commands.ErrorReason(err))
		if errors.Is(err, fs.ErrNotExist) {
			return nil, StatusNotFound
		}
		return nil, StatusNotExecutable
	}
	return cmd, 0
}

// command builds the process for a stage, builtins re-execute the shell.
func (e *Executor) command(st *stage) (*exec.Cmd, int) {
	env := e.session.Env()
	name := st.name()

	if st.builtin != nil {
		if e.self == "" {
			e.errorf("%s: can't find the shell executable to run builtin", name)
			return nil, StatusFailure
		}

		childEnv := append(env.Environ(),
			EnvChildBuiltin+"="+st.builtin.Name,
			EnvChildStatus+"="+strconv.Itoa(e.session.LastStatus()),
		)
		return &exec.Cmd{
			Path: e.self,
			Args: append([]string{childArgv0}, st.argv...),
			Env:  childEnv,
		}, 0
	}

	path, err := LookPath(env, name)
	switch {
	case errors.Is(err, ErrNotFound):
		e.unknownCommand(name, StatusNotFound, "command not found")
		return nil, StatusNotFound
	case err != nil:
		e.unknownCommand(name, StatusNotExecutable, commands.ErrorReason(err))
		return nil, StatusNotExecutable
	}

	return &exec.Cmd{
		Path: path,
		Args: st.argv,
		Env:  env.Environ(),
	}, 0
}

func (e *Executor) unknownCommand(name string, status int, reason string) {
	e.errorf("%s: %s", name, reason)
	e.session.events.Record(&logger.UnknownCommand{
		Command: name,
		Status:  status,
		Error:   reason,
	})
}

// errorf reports a diagnostic on the shell's standard error.
func (e *Executor) errorf(format string, a ...interface{}) {
	e.session.errorf(format, a...)
}

// waitStatus converts the result of exec.Cmd.Wait into a shell status.
func waitStatus(err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return StatusSignalBase + int(ws.Signal()), nil
		}
		return exitErr.ExitCode(), nil
	}
	return StatusFailure, err
}

func closeFile(f *os.File) {
	if f != nil {
		f.Close()
	}
}

func readerOrEmpty(f *os.File) io.Reader {
	if f == nil {
		return strings.NewReader("")
	}
	return f
}

func writerOrDiscard(f *os.File) io.Writer {
	if f == nil {
		return io.Discard
	}
	return f
}

// builtinShell gives a parent builtin the shell with its redirected stdio.
type builtinShell struct {
	*Session
	vio vos.VIO
}

var _ commands.Shell = (*builtinShell)(nil)

func (b *builtinShell) Stdin() io.Reader  { return b.vio.Stdin() }
func (b *builtinShell) Stdout() io.Writer { return b.vio.Stdout() }
func (b *builtinShell) Stderr() io.Writer { return b.vio.Stderr() }
