package llm

import (
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyPrompt = errors.New("empty prompt")

// ChatTemplate lays out a conversation in the format a model was trained on.
type ChatTemplate interface {
	// Build renders the system and user messages followed by the prefix the
	// model continues from.
	Build(system, user string) (string, error)
}

// QwenTemplate is the ChatML layout used by Qwen2.5 instruct models.
type QwenTemplate struct{}

var _ ChatTemplate = QwenTemplate{}

func (QwenTemplate) Build(system, user string) (string, error) {
	if system == "" || user == "" {
		return "", ErrEmptyPrompt
	}

	var sb strings.Builder
	writeTurn := func(role, content string) {
		sb.WriteString("<|im_start|>")
		sb.WriteString(role)
		sb.WriteString("\n")
		sb.WriteString(content)
		sb.WriteString("<|im_end|>\n")
	}
	writeTurn("system", system)
	writeTurn("user", user)
	sb.WriteString("<|im_start|>assistant\n")
	return sb.String(), nil
}

var templates = map[string]ChatTemplate{
	"qwen": QwenTemplate{},
}

// TemplateByName looks up a chat template by its configuration name.
func TemplateByName(name string) (ChatTemplate, error) {
	if tmpl, ok := templates[name]; ok {
		return tmpl, nil
	}
	return nil, fmt.Errorf("unknown chat template %q", name)
}

// DefaultSystemPrompt asks the model to answer with a JSON command list.
const DefaultSystemPrompt = "You are a command-line planning assistant. Given the human message, respond " +
	"with minified JSON that contains a single key named \"commands\". " +
	"\"commands\" must always be an array of shell command strings in execution order. " +
	"Do not include explanations, comments, or additional keys. If no command is needed, " +
	"return an empty array."
