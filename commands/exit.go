package commands

import (
	"strconv"
	"strings"
)

// Exit asks the shell to stop. The status defaults to the last status and
// is truncated to 8 bits.
func Exit(sh Shell, args []string) int {
	switch len(args) {
	case 1:
		status := sh.LastStatus() & 0xFF
		sh.RequestExit(status)
		return status
	case 2:
		// Leading blanks are accepted and an empty operand is zero, like
		// strtol(3).
		operand := strings.TrimLeft(args[1], " \t")
		if operand == "" {
			sh.RequestExit(0)
			return 0
		}
		value, err := strconv.ParseInt(operand, 10, 64)
		if err != nil {
			printErr(sh.Stderr(), "exit", "%s: numeric argument required", args[1])
			sh.RequestExit(2)
			return 2
		}
		status := int(value & 0xFF)
		sh.RequestExit(status)
		return status
	default:
		printErr(sh.Stderr(), "exit", "too many arguments")
		return 1
	}
}

func init() {
	mustAddBuiltin("exit", Exit, FlagParent|FlagSpecial)
}
