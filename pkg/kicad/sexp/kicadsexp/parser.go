package kicadsexp

import (
	"io"
	"strconv"
)

// maxDepth bounds list nesting. Real boards stay below twenty levels.
const maxDepth = 512

// Parser builds S-expression trees from a token stream
type Parser struct {
	lexer *Lexer
}

// NewParser creates a new parser from an io.Reader
func NewParser(r io.Reader) *Parser {
	return &Parser{lexer: NewLexer(r)}
}

// ParseAll parses all top-level S-expressions from the input
func (p *Parser) ParseAll() ([]Sexp, error) {
	var result []Sexp
	for {
		expr, err := p.Next()
		if err != nil {
			return nil, err
		}
		if expr == nil {
			return result, nil
		}
		result = append(result, expr)
	}
}

// Next returns the next top-level expression, or nil at end of input.
// Lists are assembled on an explicit stack so deeply nested input cannot
// exhaust the goroutine stack.
func (p *Parser) Next() (Sexp, error) {
	var stack []*List

	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return nil, err
		}

		switch tok.Type {
		case TokenEOF:
			if len(stack) > 0 {
				return nil, &SyntaxError{
					Line: tok.Line,
					Msg:  "unexpected EOF in list opened at line " + strconv.Itoa(stack[len(stack)-1].line),
				}
			}
			return nil, nil

		case TokenLeftParen:
			if len(stack) >= maxDepth {
				return nil, &SyntaxError{Line: tok.Line, Msg: "lists nested too deeply"}
			}
			stack = append(stack, &List{line: tok.Line})

		case TokenRightParen:
			if len(stack) == 0 {
				return nil, &SyntaxError{Line: tok.Line, Msg: "unexpected ')'"}
			}
			done := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return done, nil
			}
			parent := stack[len(stack)-1]
			parent.elements = append(parent.elements, done)

		case TokenSymbol, TokenString:
			if len(stack) == 0 {
				return Symbol(tok.Value), nil
			}
			parent := stack[len(stack)-1]
			parent.elements = append(parent.elements, Symbol(tok.Value))

		default:
			return nil, &SyntaxError{Line: tok.Line, Msg: "unexpected token " + tok.Type.String()}
		}
	}
}
