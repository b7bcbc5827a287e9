package commands

import (
	"fmt"
	"os"
)

// Cd changes the shell's working directory and keeps PWD and OLDPWD up to
// date. "cd -" returns to OLDPWD and prints the new directory.
func Cd(sh Shell, args []string) int {
	env := sh.Env()

	var target string
	printDir := false
	switch len(args) {
	case 1:
		target = env.Getenv(EnvHome)
		if target == "" {
			printErr(sh.Stderr(), "cd", "HOME not set")
			return 1
		}
	case 2:
		target = args[1]
		if target == "-" {
			printDir = true
			target = env.Getenv(EnvOldPWD)
			if target == "" {
				printErr(sh.Stderr(), "cd", "OLDPWD not set")
				return 1
			}
		}
	default:
		printErr(sh.Stderr(), "cd", "too many arguments")
		return 1
	}

	oldPwd, oldErr := os.Getwd()

	if err := os.Chdir(target); err != nil {
		printErr(sh.Stderr(), "cd", "%s: %s", target, ErrorReason(err))
		return 1
	}

	newPwd, err := os.Getwd()
	if err != nil {
		newPwd = target
	}

	status := 0
	if oldErr == nil {
		if err := env.Setenv(EnvOldPWD, oldPwd); err != nil {
			printErr(sh.Stderr(), "cd", "failed to set %s: %v", EnvOldPWD, err)
			status = 1
		}
	}
	if err := env.Setenv(EnvPWD, newPwd); err != nil {
		printErr(sh.Stderr(), "cd", "failed to set %s: %v", EnvPWD, err)
		status = 1
	}

	if printDir {
		fmt.Fprintln(sh.Stdout(), newPwd)
	}

	return status
}

func init() {
	mustAddBuiltin("cd", Cd, FlagParent|FlagSpecial)
}
