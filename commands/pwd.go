package commands

import (
	"fmt"
	"os"
	"path/filepath"

	getopt "github.com/pborman/getopt/v2"
)

// Pwd prints the working directory. -L (the default) prints $PWD when set,
// -P always asks the kernel. The last of the two wins.
func Pwd(sh Shell, args []string) int {
	logical := true
	cmd := &SimpleCommand{
		Name:  "pwd",
		Use:   "pwd [-L|-P]",
		Short: "Print the name of the current working directory.",
	}

	opts := cmd.Flags()
	logicalOpt := opts.Flag(new(bool), 'L', "print the value of $PWD if it names the current working directory")
	physicalOpt := opts.Flag(new(bool), 'P', "print the physical directory, without any symbolic links")
	cmd.OnOption = func(opt getopt.Option) {
		switch opt {
		case logicalOpt:
			logical = true
		case physicalOpt:
			logical = false
		}
	}

	return cmd.Run(sh, args, func() int {
		if opts.NArgs() > 0 {
			printErr(sh.Stderr(), "pwd", "too many arguments")
			return 1
		}

		dir := ""
		if logical {
			dir = sh.Env().Getenv(EnvPWD)
		}

		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				printErr(sh.Stderr(), "pwd", "%s", ErrorReason(err))
				return 1
			}
			dir = wd
		}

		if !logical {
			// os.Getwd may hand back $PWD when it names the same directory.
			if resolved, err := filepath.EvalSymlinks(dir); err == nil {
				dir = resolved
			}
		}

		fmt.Fprintln(sh.Stdout(), dir)
		return 0
	})
}

func init() {
	mustAddBuiltin("pwd", Pwd, FlagParent)
}
