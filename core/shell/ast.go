package shell

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Segment is a run of characters in a word that share the same quoting.
type Segment struct {
	Text string
	// Literal segments were quoted or escaped and must not be expanded.
	Literal bool
}

// Word is a shell word made up of differently quoted segments.
type Word []Segment

// Lit creates a word made of a single literal segment.
func Lit(s string) Word {
	return Word{{Text: s, Literal: true}}
}

// Raw creates a word made of a single expandable segment.
func Raw(s string) Word {
	return Word{{Text: s}}
}

// Text joins the characters of the word ignoring their quoting.
func (w Word) Text() string {
	var sb strings.Builder
	for _, seg := range w {
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

// HasLiteral reports whether any character of the word was quoted.
func (w Word) HasLiteral() bool {
	for _, seg := range w {
		if seg.Literal {
			return true
		}
	}
	return false
}

// wordBuilder accumulates bytes into segments, starting a new segment
// whenever the quoting changes.
type wordBuilder struct {
	word    Word
	cur     strings.Builder
	literal bool
}

func (b *wordBuilder) writeByte(c byte, literal bool) {
	if b.cur.Len() > 0 && b.literal != literal {
		b.flush()
	}
	b.literal = literal
	b.cur.WriteByte(c)
}

func (b *wordBuilder) flush() {
	if b.cur.Len() == 0 {
		return
	}
	b.word = append(b.word, Segment{Text: b.cur.String(), Literal: b.literal})
	b.cur.Reset()
}

// Word closes the open segment and returns the word.
func (b *wordBuilder) Word() Word {
	b.flush()
	return b.word
}

// String renders the word so that lexing the result produces the same
// segments.
func (w Word) String() string {
	if len(w) == 0 {
		return "''"
	}

	var sb strings.Builder
	for _, seg := range w {
		switch {
		case seg.Literal:
			sb.WriteString(quoteLiteral(seg.Text))
		case strings.ContainsAny(seg.Text, lexerSpecialChars):
			sb.WriteString(`"` + seg.Text + `"`)
		default:
			sb.WriteString(seg.Text)
		}
	}
	return sb.String()
}

// lexerSpecialChars can't appear bare in an expandable segment.
const lexerSpecialChars = " \t\n\r\v\f|&;<>'\"\\#"

func quoteLiteral(s string) string {
	// syntax.Quote returns plain words unquoted and rejects non-printable
	// characters, neither of which would lex back as literal.
	if q, err := syntax.Quote(s, syntax.LangPOSIX); err == nil && strings.HasPrefix(q, "'") {
		return q
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// RedirKind is the type of a redirection.
type RedirKind int

const (
	// RedirInput opens the target for reading (<).
	RedirInput RedirKind = iota
	// RedirOutput opens the target for writing and truncates it (>).
	RedirOutput
	// RedirAppend opens the target for writing at the end (>>).
	RedirAppend
	// RedirError is an output redirection of the error stream (2>).
	RedirError
)

func (k RedirKind) String() string {
	switch k {
	case RedirInput:
		return "<"
	case RedirOutput, RedirError:
		return ">"
	case RedirAppend:
		return ">>"
	default:
		return fmt.Sprintf("RedirKind(%d)", int(k))
	}
}

// DefaultFd returns the descriptor the redirection applies to when no io
// number is given.
func (k RedirKind) DefaultFd() int {
	switch k {
	case RedirInput:
		return 0
	case RedirError:
		return 2
	default:
		return 1
	}
}

// Redirection binds a file descriptor to a file.
type Redirection struct {
	Fd     int
	Kind   RedirKind
	Target Word
}

func (r Redirection) String() string {
	prefix := ""
	if r.Fd != r.Kind.DefaultFd() || r.Kind == RedirError {
		prefix = fmt.Sprint(r.Fd)
	}
	return prefix + r.Kind.String() + r.Target.String()
}

// SimpleCommand is a list of words and redirections. Args may be empty if
// there is at least one redirection.
type SimpleCommand struct {
	Args   []Word
	Redirs []Redirection
}

// Name returns the unexpanded text of the command name.
func (c *SimpleCommand) Name() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0].Text()
}

func (c *SimpleCommand) String() string {
	var parts []string
	for _, arg := range c.Args {
		parts = append(parts, arg.String())
	}
	for _, redir := range c.Redirs {
		parts = append(parts, redir.String())
	}
	return strings.Join(parts, " ")
}

// Pipeline is one or more commands joined by pipes.
type Pipeline struct {
	Commands []*SimpleCommand

	// Background is set if the pipeline ended with '&'.
	Background bool
	// Terminator is set if the pipeline ended with ';'.
	Terminator bool
}

// String renders the pipeline in a form that parses back to an equivalent
// pipeline.
func (p *Pipeline) String() string {
	var cmds []string
	for _, cmd := range p.Commands {
		cmds = append(cmds, cmd.String())
	}

	out := strings.Join(cmds, " | ")
	if p.Background {
		out += " &"
	}
	if p.Terminator {
		out += ";"
	}
	return out
}
