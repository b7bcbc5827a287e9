package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/anmitsu/go-shlex"
)

var ErrNoCommand = errors.New("no model command configured")

// Generator produces text for a prompt, handing it over piece by piece.
type Generator interface {
	// Generate runs until the model stops or onPiece returns false.
	Generate(ctx context.Context, prompt string, onPiece func(piece string) bool) error
}

// ProcessGenerator runs an external model program and streams its output.
type ProcessGenerator struct {
	// Command is split like a shell would. The placeholders {model} and
	// {max_tokens} are replaced in every argument and the prompt is added
	// as the last argument.
	Command   string
	ModelPath string
	MaxTokens int

	// Stderr receives the program's diagnostics, they're dropped if nil.
	Stderr io.Writer
}

var _ Generator = (*ProcessGenerator)(nil)

// Args builds the argument vector for a prompt.
func (g *ProcessGenerator) Args(prompt string) ([]string, error) {
	args, err := shlex.Split(g.Command, true)
	if err != nil {
		return nil, fmt.Errorf("model command: %w", err)
	}
	if len(args) == 0 {
		return nil, ErrNoCommand
	}

	replacer := strings.NewReplacer(
		"{model}", g.ModelPath,
		"{max_tokens}", strconv.Itoa(g.MaxTokens),
	)
	for i, arg := range args {
		args[i] = replacer.Replace(arg)
	}

	return append(args, prompt), nil
}

func (g *ProcessGenerator) Generate(ctx context.Context, prompt string, onPiece func(piece string) bool) error {
	args, err := g.Args(prompt)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stderr = g.Stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("model command: %w", err)
	}

	stopped := false
	buf := make([]byte, 4096)
	for {
		n, readErr := stdout.Read(buf)
		if n > 0 && !onPiece(string(buf[:n])) {
			stopped = true
			cancel()
			break
		}
		if readErr != nil {
			break
		}
	}

	// Drain so the program isn't blocked writing once we stop listening.
	io.Copy(io.Discard, stdout)

	waitErr := cmd.Wait()
	switch {
	case stopped:
		return nil
	case waitErr != nil:
		return fmt.Errorf("model command: %w", waitErr)
	}
	return ctx.Err()
}
