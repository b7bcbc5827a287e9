package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/genshell/commands"
	"github.com/josephlewis42/genshell/core/config"
	"github.com/josephlewis42/genshell/core/expand"
	"github.com/josephlewis42/genshell/core/logger"
	"github.com/josephlewis42/genshell/core/shell"
	"github.com/josephlewis42/genshell/core/vos"
	"golang.org/x/term"
)

// Session is a running shell: its state, its standard files and the loop
// that reads and runs commands.
type Session struct {
	programName string
	pid         int
	env         vos.VEnv

	stdin  *os.File
	stdout *os.File
	stderr *os.File

	interactive    bool
	interactiveSet bool

	config *config.Configuration
	events *logger.SessionLogger

	lastStatus    int
	exitRequested bool
	exitStatus    int

	executor *Executor
}

var (
	_ commands.Shell = (*Session)(nil)
	_ expand.Params  = (*Session)(nil)
)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithProgramName sets $0.
func WithProgramName(name string) SessionOption {
	return func(s *Session) { s.programName = name }
}

// WithEnv replaces the process environment.
func WithEnv(env vos.VEnv) SessionOption {
	return func(s *Session) { s.env = env }
}

// WithFiles sets the shell's standard input, output and error.
func WithFiles(stdin, stdout, stderr *os.File) SessionOption {
	return func(s *Session) {
		s.stdin, s.stdout, s.stderr = stdin, stdout, stderr
	}
}

// WithInteractive overrides terminal detection.
func WithInteractive(interactive bool) SessionOption {
	return func(s *Session) {
		s.interactive = interactive
		s.interactiveSet = true
	}
}

// WithConfig sets the configuration used for the prompt and history.
func WithConfig(cfg *config.Configuration) SessionOption {
	return func(s *Session) { s.config = cfg }
}

// WithEventLog records session events.
func WithEventLog(events *logger.SessionLogger) SessionOption {
	return func(s *Session) { s.events = events }
}

// NewSession creates a shell session. By default it uses the process
// environment and standard files, and is interactive when both standard
// input and output are terminals.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		programName: commands.ShellName,
		pid:         os.Getpid(),
		env:         vos.OSEnv{},
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
	}
	if len(os.Args) > 0 {
		s.programName = os.Args[0]
	}

	for _, opt := range opts {
		opt(s)
	}

	if !s.interactiveSet {
		s.interactive = isTerminal(s.stdin) && isTerminal(s.stdout)
	}
	if s.config == nil {
		s.config = config.Default(".")
		s.config.HistoryFile = ""
		s.config.EventLog = ""
	}

	s.executor = newExecutor(s)
	return s
}

func isTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

func (s *Session) Stdin() io.Reader  { return s.stdin }
func (s *Session) Stdout() io.Writer { return s.stdout }
func (s *Session) Stderr() io.Writer { return s.stderr }

func (s *Session) Env() vos.VEnv {
	return s.env
}

func (s *Session) LastStatus() int {
	return s.lastStatus
}

func (s *Session) ProgramName() string {
	return s.programName
}

func (s *Session) Pid() int {
	return s.pid
}

// RequestExit stops the session after the current command.
func (s *Session) RequestExit(status int) {
	s.exitRequested = true
	s.exitStatus = status
}

// ExitRequested reports whether a command asked the shell to exit.
func (s *Session) ExitRequested() bool {
	return s.exitRequested
}

// Interactive is true if the session prompts for input.
func (s *Session) Interactive() bool {
	return s.interactive
}

// Executor gets the executor that runs the session's pipelines.
func (s *Session) Executor() *Executor {
	return s.executor
}

func (s *Session) expander() *expand.Expander {
	return &expand.Expander{Env: s.env, Params: s}
}

func (s *Session) errorf(format string, a ...interface{}) {
	fmt.Fprintf(s.stderr, "%s: %s\n", commands.ShellName, fmt.Sprintf(format, a...))
}

// RunLine tokenizes, parses and runs a single line. Syntax errors are
// reported and give status 2. Blank lines and comments leave the last
// status alone.
func (s *Session) RunLine(line string) int {
	tokens, err := shell.Tokenize(line)
	if err != nil {
		return s.syntaxError(line, fmt.Errorf("%w: %v", shell.ErrSyntax, err))
	}
	if len(tokens) == 0 || tokens[0].Kind == shell.TokenEnd {
		return s.lastStatus
	}

	pipeline, err := shell.Parse(tokens)
	if err != nil {
		return s.syntaxError(line, err)
	}

	return s.executor.Execute(pipeline)
}

func (s *Session) syntaxError(line string, err error) int {
	s.errorf("%v", err)
	s.lastStatus = 2
	s.events.Record(&logger.SyntaxError{Line: line, Error: err.Error()})
	return s.lastStatus
}

// Run reads and runs commands until input ends or exit is requested. The
// result is the status the shell should exit with.
func (s *Session) Run() int {
	s.events.Record(&logger.SessionStart{
		ProgramName: s.programName,
		Pid:         s.pid,
		Interactive: s.interactive,
	})

	stop := trapSignals()
	defer stop()

	var err error
	if s.interactive {
		err = s.runInteractive()
	} else {
		err = s.runNonInteractive()
	}

	status := s.lastStatus
	switch {
	case s.exitRequested:
		status = s.exitStatus
	case err != nil:
		s.errorf("read error: %v", err)
		status = StatusFailure
	}

	s.events.Record(&logger.SessionEnd{Status: status})
	return status
}

func (s *Session) runInteractive() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      s.Prompt(),
		HistoryFile: s.config.HistoryPath(),
		Stdin:       s.stdin,
		Stdout:      s.stdout,
		Stderr:      s.stderr,

		InterruptPrompt: "^C",
		// A lone newline, so the parent shell's prompt starts on a new line.
		EOFPrompt: "\n",

		AutoComplete: builtinCompleter(),

		FuncIsTerminal: func() bool {
			return s.interactive
		},
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for !s.exitRequested {
		rl.SetPrompt(s.Prompt())
		line, err := rl.Readline()

		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		s.RunLine(line)
	}
	return nil
}

func (s *Session) runNonInteractive() error {
	for !s.exitRequested {
		line, err := readLine(s.stdin)
		if err == nil || line != "" {
			s.RunLine(line)
		}

		switch {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}
	}
	return nil
}

// builtinCompleter completes builtin names at the start of the line.
func builtinCompleter() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, b := range commands.List() {
		items = append(items, readline.PcItem(b.Name))
	}
	return readline.NewPrefixCompleter(items...)
}

// readLine reads up to and excluding the next newline one byte at a time so
// input meant for the commands is left unread.
func readLine(r io.Reader) (string, error) {
	var sb strings.Builder
	var buf [1]byte
	for {
		n, err := r.Read(buf[:])
		if n > 0 {
			if buf[0] == '\n' {
				return sb.String(), nil
			}
			sb.WriteByte(buf[0])
		}
		if err != nil {
			return sb.String(), err
		}
	}
}

// trapSignals keeps keyboard signals from killing the shell while leaving
// them at their default for the commands it starts.
func trapSignals() (stop func()) {
	sigs := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigs, os.Interrupt, syscall.SIGQUIT)

	go func() {
		for {
			select {
			case <-sigs:
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}
