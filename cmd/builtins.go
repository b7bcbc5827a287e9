package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/josephlewis42/genshell/commands"
	"github.com/spf13/cobra"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands of the shell.",
	Long: `Show the builtin commands of the shell.

Builtins marked "parent" run inside the shell when they're the only command
on the line so their changes persist. Inside a pipeline every builtin runs
in its own process.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		for _, b := range commands.List() {
			fmt.Fprintf(w, "%s\t%s\n", b.Name, b.Flags)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
