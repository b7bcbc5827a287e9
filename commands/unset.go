package commands

// Unset removes variables from the environment.
func Unset(sh Shell, args []string) int {
	status := 0
	for _, name := range args[1:] {
		if !IsValidName(name) {
			printErr(sh.Stderr(), "unset", "`%s': invalid identifier", name)
			status = 1
			continue
		}
		if err := sh.Env().Unsetenv(name); err != nil {
			printErr(sh.Stderr(), "unset", "failed to unset %s: %v", name, err)
			status = 1
		}
	}
	return status
}

func init() {
	mustAddBuiltin("unset", Unset, FlagParent|FlagSpecial)
}
