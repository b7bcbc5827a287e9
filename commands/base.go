// Package commands holds the shell builtins.
package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/josephlewis42/genshell/core/vos"
	getopt "github.com/pborman/getopt/v2"
)

const (
	// ShellName prefixes every diagnostic the shell prints.
	ShellName = "genshell"

	EnvHome   = "HOME"
	EnvPWD    = "PWD"
	EnvOldPWD = "OLDPWD"
	EnvPath   = "PATH"
)

// Shell is the part of the running shell builtins can see and change.
type Shell interface {
	vos.VIO

	// Env is the shell environment, changes are seen by later commands.
	Env() vos.VEnv
	// LastStatus is the status of the most recent pipeline.
	LastStatus() int
	// RequestExit asks the shell to stop once the current command is done.
	RequestExit(status int)
}

// BuiltinFunc is the entrypoint of a builtin. args[0] is the builtin name.
type BuiltinFunc func(sh Shell, args []string) int

// BuiltinFlag describes how a builtin is run.
type BuiltinFlag uint8

const (
	// FlagParent builtins run inside the shell process when they're the only
	// command in a pipeline so they can change the shell's state.
	FlagParent BuiltinFlag = 1 << iota
	// FlagSpecial marks POSIX special builtins.
	FlagSpecial
)

func (f BuiltinFlag) String() string {
	var names []string
	if f&FlagParent != 0 {
		names = append(names, "parent")
	}
	if f&FlagSpecial != 0 {
		names = append(names, "special")
	}
	if len(names) == 0 {
		return "child"
	}
	return strings.Join(names, ",")
}

// BuiltinSpec is an entry in the builtin table.
type BuiltinSpec struct {
	Name  string
	Main  BuiltinFunc
	Flags BuiltinFlag
}

// RunsInParent is true if the builtin must run in the shell process.
func (b *BuiltinSpec) RunsInParent() bool {
	return b.Flags&FlagParent != 0
}

// IsSpecial is true for POSIX special builtins.
func (b *BuiltinSpec) IsSpecial() bool {
	return b.Flags&FlagSpecial != 0
}

// allBuiltins is kept sorted by name.
var allBuiltins []BuiltinSpec

// mustAddBuiltin registers a builtin, it panics on duplicates.
func mustAddBuiltin(name string, main BuiltinFunc, flags BuiltinFlag) {
	idx := sort.Search(len(allBuiltins), func(i int) bool {
		return allBuiltins[i].Name >= name
	})
	if idx < len(allBuiltins) && allBuiltins[idx].Name == name {
		panic(fmt.Sprintf("duplicate builtin %q", name))
	}

	allBuiltins = append(allBuiltins, BuiltinSpec{})
	copy(allBuiltins[idx+1:], allBuiltins[idx:])
	allBuiltins[idx] = BuiltinSpec{Name: name, Main: main, Flags: flags}
}

// Lookup finds a builtin by its exact name.
func Lookup(name string) (*BuiltinSpec, bool) {
	idx := sort.Search(len(allBuiltins), func(i int) bool {
		return allBuiltins[i].Name >= name
	})
	if idx < len(allBuiltins) && allBuiltins[idx].Name == name {
		return &allBuiltins[idx], true
	}
	return nil, false
}

// List returns a copy of the builtin table sorted by name.
func List() []BuiltinSpec {
	return append([]BuiltinSpec(nil), allBuiltins...)
}

// IsValidName checks that a string is a valid variable name: a letter or
// underscore followed by letters, digits or underscores.
func IsValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

// printErr writes a diagnostic prefixed with the shell and builtin name.
func printErr(w io.Writer, builtin, format string, a ...interface{}) {
	fmt.Fprintf(w, "%s: %s: %s\n", ShellName, builtin, fmt.Sprintf(format, a...))
}

// ErrorReason strips the operation and path from an error, leaving the
// system reason such as "no such file or directory".
func ErrorReason(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	return err.Error()
}

// SimpleCommand parses options for builtins that take them.
type SimpleCommand struct {
	// Name is the name used in diagnostics.
	Name string
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string
	// OnOption, if set, is called for each option in the order given.
	OnOption func(getopt.Option)

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run the command, if flag parsing was succcessful call the callback.
func (s *SimpleCommand) Run(sh Shell, args []string, callback func() int) int {
	opts := s.Flags()
	showHelp := opts.BoolLong("help", 0, "show this help and exit")

	err := opts.Getopt(args, func(opt getopt.Option) bool {
		if s.OnOption != nil {
			s.OnOption(opt)
		}
		return true
	})

	if err != nil {
		var optErr *getopt.Error
		if errors.As(err, &optErr) && optErr.ErrorCode == getopt.UnknownOption {
			printErr(sh.Stderr(), s.Name, "invalid option -- %s", strings.TrimLeft(optErr.Name, "-"))
		} else {
			printErr(sh.Stderr(), s.Name, "%v", err)
		}
		fmt.Fprintf(sh.Stderr(), "usage: %s\n", s.Use)
		return 1
	}

	if *showHelp {
		s.PrintHelp(sh.Stdout())
		return 0
	}

	return callback()
}
