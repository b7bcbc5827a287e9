package commands

import (
	"io"
	"strings"
)

// Echo writes its arguments separated by spaces. A leading "-n" suppresses
// the trailing newline. Backslashes are not interpreted.
func Echo(sh Shell, args []string) int {
	args = args[1:]
	newline := true
	if len(args) > 0 && args[0] == "-n" {
		newline = false
		args = args[1:]
	}

	out := strings.Join(args, " ")
	if newline {
		out += "\n"
	}

	if _, err := io.WriteString(sh.Stdout(), out); err != nil {
		printErr(sh.Stderr(), "echo", "write error: %s", ErrorReason(err))
		return 1
	}
	return 0
}

func init() {
	mustAddBuiltin("echo", Echo, 0)
}
