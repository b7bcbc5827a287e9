package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/josephlewis42/genshell/core/llm"
	"github.com/josephlewis42/genshell/core/logger"
	"github.com/spf13/cobra"
)

var suggestVerbose bool

var suggestCommandColor = color.New(color.FgCyan)

// suggestCmd asks the configured model for commands.
var suggestCmd = &cobra.Command{
	Use:   "suggest PROMPT...",
	Short: "Ask the configured model for commands that do what the prompt says.",
	Long: `Ask the configured model for commands that do what the prompt says.

The model command from the configuration is run with the chat prompt as its
last argument. Suggested commands are printed one per line as soon as they
arrive. If the model doesn't answer with a command list its output is
printed as is.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		tmpl, err := llm.TemplateByName(cfg.ChatTemplate)
		if err != nil {
			return err
		}

		system := cfg.SystemPrompt
		if system == "" {
			system = llm.DefaultSystemPrompt
		}
		request := strings.Join(args, " ")
		prompt, err := tmpl.Build(system, request)
		if err != nil {
			return err
		}

		gen := &llm.ProcessGenerator{
			Command:   cfg.ModelCommand,
			ModelPath: cfg.ModelPath,
			MaxTokens: cfg.MaxTokens,
		}
		if suggestVerbose {
			gen.Stderr = cmd.ErrOrStderr()
		}

		diag := log.New(cmd.ErrOrStderr(), "genshell: ", 0)
		events, closeLog := openEventLog(diag, cfg)
		defer closeLog()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		suggestion, err := suggest(ctx, gen, prompt, cmd.OutOrStdout())
		suggestion.Prompt = request
		if events != nil {
			events.Sessionless().Record(suggestion)
		}
		return err
	},
}

// suggest streams the model's reply to out, printing each command as soon as
// it's complete. Generation stops early once the command list is closed.
func suggest(ctx context.Context, gen llm.Generator, prompt string, out io.Writer) (*logger.Suggestion, error) {
	suggestion := &logger.Suggestion{}

	stream := llm.NewCommandStream(llm.Callbacks{
		OnCommand: func(command string) {
			suggestion.Commands = append(suggestion.Commands, command)
			suggestCommandColor.Fprintln(out, command)
		},
		OnEmpty: func() {
			fmt.Fprintln(out, "[]")
		},
		OnRaw: func(raw string) {
			suggestion.Raw = raw
			fmt.Fprintln(out, strings.TrimSpace(raw))
		},
	})

	err := gen.Generate(ctx, prompt, func(piece string) bool {
		stream.Consume(piece)
		return !stream.Done()
	})
	stream.Finish()

	return suggestion, err
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	suggestCmd.Flags().BoolVarP(&suggestVerbose, "verbose", "v", false, "show the model command's diagnostics")
}
