package core

import (
	"fmt"
	"os"
	"strconv"

	"github.com/josephlewis42/genshell/commands"
	"github.com/josephlewis42/genshell/core/vos"
)

const (
	// EnvChildBuiltin names the builtin a re-executed shell should run.
	EnvChildBuiltin = "GENSHELL_CHILD_BUILTIN"
	// EnvChildStatus holds the parent's last status for the builtin.
	EnvChildStatus = "GENSHELL_CHILD_STATUS"

	// childArgv0 is the program name the executor gives re-executed shells.
	// A process is only treated as a builtin child if it has both this name
	// and EnvChildBuiltin, so a variable inherited from a user's environment
	// can't hijack a normal start.
	childArgv0 = "genshell-builtin"
)

// RunChildIfRequested runs a builtin and exits if this process was started
// by the executor to run one as a pipeline stage. It must be called before
// anything else in main.
func RunChildIfRequested() {
	name, argv, ok := childRequest(os.Args, os.LookupEnv)
	if !ok {
		return
	}

	lastStatus, _ := strconv.Atoi(os.Getenv(EnvChildStatus))
	os.Unsetenv(EnvChildBuiltin)
	os.Unsetenv(EnvChildStatus)

	os.Exit(runChildBuiltin(name, argv, lastStatus, vos.NewVIOAdapter(os.Stdin, os.Stdout, os.Stderr)))
}

// childRequest extracts the builtin name and its argv from the process
// arguments and environment.
func childRequest(args []string, lookupEnv func(string) (string, bool)) (string, []string, bool) {
	if len(args) == 0 || args[0] != childArgv0 {
		return "", nil, false
	}

	name, ok := lookupEnv(EnvChildBuiltin)
	if !ok {
		return "", nil, false
	}

	return name, args[1:], true
}

func runChildBuiltin(name string, argv []string, lastStatus int, vio vos.VIO) int {
	spec, ok := commands.Lookup(name)
	if !ok {
		fmt.Fprintf(vio.Stderr(), "%s: %s: not a builtin\n", commands.ShellName, name)
		return StatusNotFound
	}
	if len(argv) == 0 {
		argv = []string{name}
	}

	sh := &childShell{VIO: vio, env: vos.OSEnv{}, lastStatus: lastStatus}
	status := spec.Main(sh, argv)
	if sh.exitRequested {
		status = sh.exitStatus
	}
	return status & 0xFF
}

// childShell is the shell as seen by a builtin running in its own process.
// Nothing it changes reaches the parent.
type childShell struct {
	vos.VIO
	env vos.VEnv

	lastStatus    int
	exitRequested bool
	exitStatus    int
}

var _ commands.Shell = (*childShell)(nil)

func (c *childShell) Env() vos.VEnv {
	return c.env
}

func (c *childShell) LastStatus() int {
	return c.lastStatus
}

func (c *childShell) RequestExit(status int) {
	c.exitRequested = true
	c.exitStatus = status
}

