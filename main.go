package main

import (
	"os"

	"github.com/josephlewis42/genshell/cmd"
	"github.com/josephlewis42/genshell/core"
)

func main() {
	// Builtins in a pipeline run in a copy of the shell.
	core.RunChildIfRequested()

	os.Exit(cmd.Execute())
}
