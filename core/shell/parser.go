package shell

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrSyntax is wrapped by every error the parser returns.
var ErrSyntax = errors.New("syntax error")

type parser struct {
	tokens []Token
	pos    int
}

// Parse builds a pipeline from the output of Tokenize.
//
//	pipeline       := simple_command ('|' simple_command)* ['&'] [';'] END
//	simple_command := (WORD | redirection)+
//	redirection    := [IO_NUMBER] ('<' | '>' | '>>') WORD
func Parse(tokens []Token) (*Pipeline, error) {
	p := &parser{tokens: tokens}
	return p.parsePipeline()
}

func (p *parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEnd}
	}
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func unexpected(tok Token) error {
	return fmt.Errorf("%w: unexpected %s", ErrSyntax, tok)
}

func (p *parser) parsePipeline() (*Pipeline, error) {
	pipeline := &Pipeline{}

	for {
		cmd, err := p.parseSimpleCommand()
		if err != nil {
			return nil, err
		}
		pipeline.Commands = append(pipeline.Commands, cmd)

		if p.peek().Kind != TokenPipe {
			break
		}
		p.next()
	}

	if p.peek().Kind == TokenBackground {
		p.next()
		pipeline.Background = true
	}
	if p.peek().Kind == TokenSemicolon {
		p.next()
		pipeline.Terminator = true
	}

	if tok := p.next(); tok.Kind != TokenEnd {
		return nil, unexpected(tok)
	}

	return pipeline, nil
}

func (p *parser) parseSimpleCommand() (*SimpleCommand, error) {
	cmd := &SimpleCommand{}

loop:
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenWord:
			p.next()
			cmd.Args = append(cmd.Args, tok.Word)

		case TokenIoNumber:
			p.next()
			fd, err := strconv.Atoi(tok.Text)
			if err != nil || fd < 0 || fd > 9 {
				return nil, fmt.Errorf("%w: bad file descriptor %q", ErrSyntax, tok.Text)
			}
			redir, err := p.parseRedirection(fd)
			if err != nil {
				return nil, err
			}
			cmd.Redirs = append(cmd.Redirs, redir)

		case TokenRedirIn, TokenRedirOut, TokenRedirAppend:
			redir, err := p.parseRedirection(-1)
			if err != nil {
				return nil, err
			}
			cmd.Redirs = append(cmd.Redirs, redir)

		default:
			break loop
		}
	}

	if len(cmd.Args) == 0 && len(cmd.Redirs) == 0 {
		return nil, unexpected(p.peek())
	}

	return cmd, nil
}

// parseRedirection parses an operator and its target. fd is -1 if no io
// number was given.
func (p *parser) parseRedirection(fd int) (Redirection, error) {
	var kind RedirKind
	switch op := p.next(); op.Kind {
	case TokenRedirIn:
		kind = RedirInput
	case TokenRedirOut:
		kind = RedirOutput
		if fd == 2 {
			kind = RedirError
		}
	case TokenRedirAppend:
		kind = RedirAppend
	default:
		return Redirection{}, unexpected(op)
	}

	if fd < 0 {
		fd = kind.DefaultFd()
	}

	target := p.next()
	if target.Kind != TokenWord {
		return Redirection{}, fmt.Errorf("%w: expected file name after %s, got %s", ErrSyntax, kind, target)
	}

	return Redirection{Fd: fd, Kind: kind, Target: target.Word}, nil
}
