package shell

import (
	"errors"
	"unicode/utf8"
)

// ErrUnterminatedQuote is returned when a quoted string runs past the end
// of the input.
var ErrUnterminatedQuote = errors.New("unterminated quote")

func isBlank(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isOperator(c byte) bool {
	switch c {
	case '|', '&', ';', '<', '>':
		return true
	}
	return false
}

type lexer struct {
	input  string
	pos    int
	tokens []Token

	// boundary is true when a '#' would start a comment.
	boundary bool
}

// Tokenize splits a line of input into tokens. The returned slice always
// ends with a TokenEnd. Lexing stops at the first unescaped newline or at a
// comment.
func Tokenize(line string) ([]Token, error) {
	l := &lexer{input: line, boundary: true}
	if err := l.run(); err != nil {
		return nil, err
	}
	l.emit(Token{Kind: TokenEnd})
	return l.tokens, nil
}

func (l *lexer) emit(tok Token) {
	l.tokens = append(l.tokens, tok)
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *lexer) run() error {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == '\n':
			return nil

		case isBlank(c):
			l.pos++
			l.boundary = true

		case c == '#' && l.boundary:
			return nil

		case isOperator(c):
			l.lexOperator()
			l.boundary = true

		case l.lexIoNumber():
			l.boundary = false

		default:
			if err := l.lexWord(); err != nil {
				return err
			}
			l.boundary = false
		}
	}
	return nil
}

func (l *lexer) lexOperator() {
	c := l.input[l.pos]
	l.pos++

	switch c {
	case '|':
		l.emit(Token{Kind: TokenPipe})
	case '&':
		l.emit(Token{Kind: TokenBackground})
	case ';':
		l.emit(Token{Kind: TokenSemicolon})
	case '<':
		l.emit(Token{Kind: TokenRedirIn})
	case '>':
		if l.peek(0) == '>' {
			l.pos++
			l.emit(Token{Kind: TokenRedirAppend})
		} else {
			l.emit(Token{Kind: TokenRedirOut})
		}
	}
}

// lexIoNumber emits a run of digits directly followed by a redirection
// operator as an io number.
func (l *lexer) lexIoNumber() bool {
	end := l.pos
	for end < len(l.input) && isDigit(l.input[end]) {
		end++
	}
	if end == l.pos || end >= len(l.input) {
		return false
	}
	if next := l.input[end]; next != '<' && next != '>' {
		return false
	}

	l.emit(Token{Kind: TokenIoNumber, Text: l.input[l.pos:end]})
	l.pos = end
	return true
}

func (l *lexer) lexWord() error {
	var (
		builder  wordBuilder
		inSingle bool
		inDouble bool
		quoted   bool
	)

	for l.pos < len(l.input) {
		c := l.input[l.pos]

		if !inSingle && !inDouble && (isBlank(c) || c == '\n' || isOperator(c)) {
			break
		}

		switch {
		case inSingle:
			if c == '\'' {
				inSingle = false
			} else {
				builder.writeByte(c, true)
			}

		case c == '\\':
			next := l.peek(1)
			switch {
			case l.pos+1 >= len(l.input):
				// A trailing backslash is dropped.
			case next == '\n':
				l.pos++
			default:
				// Escape the whole character, not just its first byte.
				_, size := utf8.DecodeRuneInString(l.input[l.pos+1:])
				for i := 1; i <= size; i++ {
					builder.writeByte(l.input[l.pos+i], true)
				}
				l.pos += size
			}

		case c == '"':
			inDouble = !inDouble
			quoted = true

		case inDouble:
			builder.writeByte(c, false)

		case c == '\'':
			inSingle = true
			quoted = true

		case c == '#':
			builder.writeByte(c, true)

		default:
			builder.writeByte(c, false)
		}
		l.pos++
	}

	if inSingle || inDouble {
		return ErrUnterminatedQuote
	}

	word := builder.Word()
	if len(word) == 0 && !quoted {
		return nil
	}

	tok := Token{Kind: TokenWord, Text: word.Text(), Word: word}
	if word.HasLiteral() {
		tok.Flags |= FlagHasLiteral
	}
	l.emit(tok)
	return nil
}
