package llm

import "strings"

const commandsKey = `"commands"`

type streamState int

const (
	seekKey streamState = iota
	seekColon
	seekValue
	inArray
	inArrayString
	inSingleString
	done
)

// Callbacks are notified as a CommandStream finds commands. Any of them may
// be nil.
type Callbacks struct {
	// OnCommand is called with each command as soon as it is complete.
	OnCommand func(command string)
	// OnEmpty is called by Finish when a "commands" field held no commands.
	OnEmpty func()
	// OnRaw is called by Finish with everything consumed when no "commands"
	// field was found.
	OnRaw func(raw string)
}

// CommandStream picks the "commands" value out of a JSON reply as it
// streams in, without waiting for the document to be complete or valid.
//
// The value may be an array of strings, in which case every string directly
// inside the array is a command, or a single string. Escapes are resolved by
// taking the escaped character as is.
type CommandStream struct {
	callbacks Callbacks

	state      streamState
	keyMatched int
	depth      int
	escaped    bool

	sawField bool
	emitted  bool
	finished bool

	command strings.Builder
	raw     strings.Builder
}

func NewCommandStream(callbacks Callbacks) *CommandStream {
	return &CommandStream{callbacks: callbacks}
}

// Reset clears all state so the stream can be reused.
func (s *CommandStream) Reset() {
	*s = CommandStream{callbacks: s.callbacks}
}

// Consume feeds the next piece of the reply. It is ignored after Finish.
func (s *CommandStream) Consume(token string) {
	if s.finished {
		return
	}
	s.raw.WriteString(token)

	for i := 0; i < len(token); i++ {
		s.step(token[i])
	}
}

func isJSONSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func (s *CommandStream) step(c byte) {
	switch s.state {
	case seekKey:
		switch {
		case c == commandsKey[s.keyMatched]:
			s.keyMatched++
			if s.keyMatched == len(commandsKey) {
				s.state = seekColon
				s.keyMatched = 0
				s.sawField = true
			}
		case c == commandsKey[0]:
			s.keyMatched = 1
		default:
			s.keyMatched = 0
		}

	case seekColon:
		if c == ':' {
			s.state = seekValue
		} else if !isJSONSpace(c) {
			s.state = seekKey
		}

	case seekValue:
		switch {
		case isJSONSpace(c):
		case c == '[':
			s.state = inArray
			s.depth = 1
		case c == '"':
			s.state = inSingleString
			s.startCommand()
		default:
			s.state = seekKey
		}

	case inArray:
		switch {
		case c == '[':
			s.depth++
		case c == ']':
			s.depth--
			if s.depth <= 0 {
				s.state = done
			}
		case c == '"' && s.depth == 1:
			s.state = inArrayString
			s.startCommand()
		}

	case inArrayString, inSingleString:
		switch {
		case s.escaped:
			s.command.WriteByte(c)
			s.escaped = false
		case c == '\\':
			s.escaped = true
		case c == '"':
			s.emit()
			if s.state == inArrayString {
				s.state = inArray
			} else {
				s.state = done
			}
		default:
			s.command.WriteByte(c)
		}
	}
}

func (s *CommandStream) startCommand() {
	s.escaped = false
	s.command.Reset()
}

func (s *CommandStream) emit() {
	if s.callbacks.OnCommand != nil {
		s.callbacks.OnCommand(s.command.String())
	}
	s.emitted = true
	s.command.Reset()
}

// Finish reports the outcome for replies that produced no commands. Only
// the first call has any effect.
func (s *CommandStream) Finish() {
	if s.finished {
		return
	}
	s.finished = true

	switch {
	case s.emitted:
	case s.sawField:
		if s.callbacks.OnEmpty != nil {
			s.callbacks.OnEmpty()
		}
	case s.raw.Len() > 0:
		if s.callbacks.OnRaw != nil {
			s.callbacks.OnRaw(s.raw.String())
		}
	}
}

// Raw is everything consumed so far.
func (s *CommandStream) Raw() string {
	return s.raw.String()
}

// Done is true once the "commands" value has been read completely, the rest
// of the reply can't add anything.
func (s *CommandStream) Done() bool {
	return s.state == done
}
