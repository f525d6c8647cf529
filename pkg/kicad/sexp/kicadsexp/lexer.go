package kicadsexp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLeftParen
	TokenRightParen
	TokenSymbol
	TokenString
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenLeftParen:
		return "'('"
	case TokenRightParen:
		return "')'"
	case TokenSymbol:
		return "symbol"
	case TokenString:
		return "string"
	default:
		return fmt.Sprintf("token(%d)", int(t))
	}
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
	Line  int
}

// SyntaxError reports malformed input with the line it was found on.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Lexer tokenizes S-expressions from an io.Reader. Board files can be tens
// of megabytes, so input is read through a buffer and never held whole.
type Lexer struct {
	reader *bufio.Reader
	line   int
	buf    strings.Builder
}

// NewLexer creates a new lexer
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReaderSize(r, 64*1024),
		line:   1,
	}
}

// Line returns the current 1-based input line.
func (l *Lexer) Line() int {
	return l.line
}

func (l *Lexer) errorf(format string, args ...any) error {
	return &SyntaxError{Line: l.line, Msg: fmt.Sprintf(format, args...)}
}

// next consumes one rune and keeps the line count
func (l *Lexer) next() (rune, error) {
	ch, _, err := l.reader.ReadRune()
	if err == nil && ch == '\n' {
		l.line++
	}
	return ch, err
}

// backup returns the last rune read by next to the input. It must not
// follow a newline.
func (l *Lexer) backup() {
	_ = l.reader.UnreadRune()
}

// NextToken reads the next token from the input
func (l *Lexer) NextToken() (Token, error) {
	for {
		ch, err := l.next()
		if errors.Is(err, io.EOF) {
			return Token{Type: TokenEOF, Line: l.line}, nil
		}
		if err != nil {
			return Token{}, err
		}

		switch {
		case unicode.IsSpace(ch):
			continue

		case ch == '#':
			// Comment to end of line
			if err := l.skipLine(); err != nil {
				return Token{}, err
			}
			continue

		case ch == '(':
			return Token{Type: TokenLeftParen, Value: "(", Line: l.line}, nil

		case ch == ')':
			return Token{Type: TokenRightParen, Value: ")", Line: l.line}, nil

		case ch == '"':
			line := l.line
			value, err := l.readString()
			return Token{Type: TokenString, Value: value, Line: line}, err

		default:
			line := l.line
			l.backup()
			value, err := l.readSymbol()
			return Token{Type: TokenSymbol, Value: value, Line: line}, err
		}
	}
}

func (l *Lexer) skipLine() error {
	for {
		ch, err := l.next()
		if errors.Is(err, io.EOF) || ch == '\n' {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// readString reads the body of a quoted string after the opening quote.
// Both backslash escapes and KiCad's doubled quotes are accepted.
func (l *Lexer) readString() (string, error) {
	l.buf.Reset()
	for {
		ch, err := l.next()
		if errors.Is(err, io.EOF) {
			return "", l.errorf("unexpected EOF in string")
		}
		if err != nil {
			return "", err
		}

		switch ch {
		case '"':
			after, err := l.next()
			if err == nil && after == '"' {
				l.buf.WriteRune('"')
				continue
			}
			if err == nil && after != '\n' {
				l.backup()
			}
			return l.buf.String(), nil

		case '\\':
			esc, err := l.next()
			if err != nil {
				return "", l.errorf("unexpected EOF after backslash")
			}
			switch esc {
			case 'n':
				l.buf.WriteRune('\n')
			case 't':
				l.buf.WriteRune('\t')
			case 'r':
				l.buf.WriteRune('\r')
			default:
				l.buf.WriteRune(esc)
			}

		default:
			l.buf.WriteRune(ch)
		}
	}
}

// readSymbol reads an unquoted atom (keyword, number, layer name)
func (l *Lexer) readSymbol() (string, error) {
	l.buf.Reset()
	for {
		ch, err := l.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' {
			if ch != '\n' {
				l.backup()
			}
			break
		}
		l.buf.WriteRune(ch)
	}

	if l.buf.Len() == 0 {
		return "", l.errorf("empty symbol")
	}
	return l.buf.String(), nil
}
