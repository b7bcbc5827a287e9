package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/josephlewis42/genshell/core/vos"
)

// Export sets variables in the environment inherited by commands. NAME=VALUE
// assigns, a bare NAME exports the current value or an empty one. With no
// operands the environment is listed.
func Export(sh Shell, args []string) int {
	env := sh.Env()

	if len(args) == 1 {
		environ := env.Environ()
		sort.Strings(environ)
		for _, entry := range environ {
			if !strings.Contains(entry, "=") {
				continue
			}
			key, value := vos.SplitEnv(entry)
			fmt.Fprintf(sh.Stdout(), "export %s=%s\n", key, value)
		}
		return 0
	}

	status := 0
	for _, arg := range args[1:] {
		name, value, hasValue := strings.Cut(arg, "=")
		if !IsValidName(name) {
			printErr(sh.Stderr(), "export", "`%s': invalid identifier", arg)
			status = 1
			continue
		}

		if !hasValue {
			value = env.Getenv(name)
		}

		if err := env.Setenv(name, value); err != nil {
			printErr(sh.Stderr(), "export", "failed to set %s: %v", name, err)
			status = 1
		}
	}

	return status
}

func init() {
	mustAddBuiltin("export", Export, FlagParent|FlagSpecial)
}
