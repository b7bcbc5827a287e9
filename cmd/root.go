package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/josephlewis42/genshell/core"
	"github.com/josephlewis42/genshell/core/config"
	"github.com/josephlewis42/genshell/core/logger"
	"github.com/spf13/cobra"
)

var cfgPath string

// configDir is the --config flag if given, otherwise $GENSHELL_CONFIG or
// ~/.genshell.
func configDir() string {
	if cfgPath != "" {
		return cfgPath
	}
	return config.DefaultDir(os.Getenv)
}

func loadConfig() (*config.Configuration, error) {
	return config.LoadOrDefault(configDir())
}

// openEventLog returns a recorder for the configured event log. Logging is
// skipped if it's disabled or the configuration directory doesn't exist.
func openEventLog(diag *log.Logger, cfg *config.Configuration) (*logger.Logger, func()) {
	fd, err := cfg.OpenEventLog()
	switch {
	case err == nil:
		return logger.NewJsonLinesLogRecorder(fd), func() { fd.Close() }
	case errors.Is(err, config.ErrDisabled), errors.Is(err, fs.ErrNotExist):
	default:
		diag.Printf("not logging events: %v", err)
	}
	return nil, func() {}
}

var exitStatus int

// rootCmd runs the shell when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "genshell",
	Short: "A small POSIX-style shell",
	Long: `genshell reads commands from standard input and runs them, one line at
a time. It prompts for input when standard input and output are terminals.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		diag := log.New(cmd.ErrOrStderr(), "genshell: ", 0)
		events, closeLog := openEventLog(diag, cfg)
		defer closeLog()

		opts := []core.SessionOption{core.WithConfig(cfg)}
		if events != nil {
			opts = append(opts, core.WithEventLog(events.NewSession()))
		}

		exitStatus = core.NewSession(opts...).Run()
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately, then returns the status the process should exit with.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return core.StatusFailure
	}
	return exitStatus
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "configuration directory (default $GENSHELL_CONFIG or ~/.genshell)")
}
