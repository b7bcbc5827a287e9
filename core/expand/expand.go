// Package expand performs tilde and parameter expansion on shell words.
package expand

import (
	"strconv"
	"strings"

	"github.com/josephlewis42/genshell/core/shell"
	"github.com/josephlewis42/genshell/core/vos"
)

const EnvHome = "HOME"

// Params holds the special parameters of the running shell.
type Params interface {
	// LastStatus is the value of $?.
	LastStatus() int
	// ProgramName is the value of $0.
	ProgramName() string
	// Pid is the value of $$.
	Pid() int
}

// StaticParams is a fixed set of special parameters.
type StaticParams struct {
	Status  int
	Program string
	ID      int
}

var _ Params = (*StaticParams)(nil)

func (p *StaticParams) LastStatus() int     { return p.Status }
func (p *StaticParams) ProgramName() string { return p.Program }
func (p *StaticParams) Pid() int            { return p.ID }

// Expander expands words against an environment.
type Expander struct {
	Env    vos.VEnv
	Params Params
}

// Fields expands every word.
func (e *Expander) Fields(words []shell.Word) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, e.Expand(w))
	}
	return out
}

// Expand returns the value of the word after expansion. Literal segments are
// copied through unchanged. Expansion never fails: unknown or unset
// parameters expand to nothing and malformed references are kept as text.
func (e *Expander) Expand(w shell.Word) string {
	var sb strings.Builder
	for _, seg := range w {
		if seg.Literal {
			sb.WriteString(seg.Text)
			continue
		}
		e.expandSegment(&sb, seg.Text)
	}
	return sb.String()
}

func isNameChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func (e *Expander) expandSegment(sb *strings.Builder, text string) {
	for i := 0; i < len(text); i++ {
		c := text[i]

		switch {
		case c == '~' && sb.Len() == 0:
			sb.WriteString(e.Env.Getenv(EnvHome))

		case c != '$' || i+1 >= len(text):
			sb.WriteByte(c)

		default:
			next := text[i+1]
			switch {
			case next == '$' || next == '?' || next == '0':
				sb.WriteString(e.param(string(next)))
				i++

			case next == '{':
				closing := strings.IndexByte(text[i+2:], '}')
				if closing < 0 {
					// Unterminated, keep the '$' and rescan from the brace.
					sb.WriteByte('$')
					continue
				}
				sb.WriteString(e.param(text[i+2 : i+2+closing]))
				i += 2 + closing

			case isNameChar(next):
				end := i + 1
				for end < len(text) && isNameChar(text[end]) {
					end++
				}
				sb.WriteString(e.param(text[i+1 : end]))
				i = end - 1

			default:
				sb.WriteByte('$')
			}
		}
	}
}

// param resolves a parameter name to its value.
func (e *Expander) param(name string) string {
	switch name {
	case "":
		return "$"
	case "?":
		return strconv.Itoa(e.Params.LastStatus())
	case "$":
		return strconv.Itoa(e.Params.Pid())
	case "0":
		return e.Params.ProgramName()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		// Positional parameters are never set.
		return ""
	}
	return e.Env.Getenv(name)
}
