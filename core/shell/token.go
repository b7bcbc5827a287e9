package shell

import "fmt"

// TokenKind is the lexical class of a token.
type TokenKind int

const (
	TokenWord TokenKind = iota
	TokenPipe
	TokenBackground
	TokenSemicolon
	TokenRedirIn
	TokenRedirOut
	TokenRedirAppend
	TokenIoNumber
	TokenEnd
)

var tokenKindNames = map[TokenKind]string{
	TokenWord:        "word",
	TokenPipe:        "'|'",
	TokenBackground:  "'&'",
	TokenSemicolon:   "';'",
	TokenRedirIn:     "'<'",
	TokenRedirOut:    "'>'",
	TokenRedirAppend: "'>>'",
	TokenIoNumber:    "io number",
	TokenEnd:         "end of input",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// TokenFlag holds additional information about a token.
type TokenFlag uint8

const (
	// FlagHasLiteral is set on words that contain quoted or escaped
	// characters.
	FlagHasLiteral TokenFlag = 1 << iota
)

// Token is a single lexical unit.
type Token struct {
	Kind TokenKind
	// Text holds the raw text of words and the digits of io numbers.
	Text string
	// Word is only set for TokenWord.
	Word  Word
	Flags TokenFlag
}

func (t Token) String() string {
	switch t.Kind {
	case TokenWord:
		return fmt.Sprintf("word %q", t.Text)
	case TokenIoNumber:
		return fmt.Sprintf("io number %q", t.Text)
	default:
		return t.Kind.String()
	}
}
