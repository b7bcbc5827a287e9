package commands

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// currentUmask reads the file creation mask without changing it.
func currentUmask() int {
	mask := unix.Umask(0)
	unix.Umask(mask)
	return mask
}

// symbolicUmask renders the permissions a mask leaves in place, e.g.
// 022 becomes u=rwx,g=rx,o=rx.
func symbolicUmask(mask int) string {
	var classes []string
	for i, class := range []string{"u", "g", "o"} {
		allowed := (^mask >> (3 * (2 - i))) & 07

		perms := ""
		if allowed&04 != 0 {
			perms += "r"
		}
		if allowed&02 != 0 {
			perms += "w"
		}
		if allowed&01 != 0 {
			perms += "x"
		}
		classes = append(classes, class+"="+perms)
	}
	return strings.Join(classes, ",")
}

// Umask prints or sets the file creation mask. The mask is inherited by
// child processes.
func Umask(sh Shell, args []string) int {
	cmd := &SimpleCommand{
		Name:  "umask",
		Use:   "umask [-S] [MODE]",
		Short: "Display or set the file mode creation mask.",
	}
	opts := cmd.Flags()
	symbolic := opts.Bool('S', "print the mask in symbolic form")

	return cmd.Run(sh, args, func() int {
		operands := opts.Args()
		switch len(operands) {
		case 0:
			mask := currentUmask()
			if *symbolic {
				fmt.Fprintln(sh.Stdout(), symbolicUmask(mask))
			} else {
				fmt.Fprintf(sh.Stdout(), "%03o\n", mask)
			}
			return 0

		case 1:
			mode, err := strconv.ParseUint(operands[0], 8, 32)
			if err != nil || mode > 0777 {
				printErr(sh.Stderr(), "umask", "invalid mode: %s", operands[0])
				return 1
			}
			unix.Umask(int(mode))
			return 0

		default:
			printErr(sh.Stderr(), "umask", "too many arguments")
			return 1
		}
	})
}

func init() {
	mustAddBuiltin("umask", Umask, FlagParent|FlagSpecial)
}
