package pcb

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// textVarLexer splits a text value into ${VAR} references and literal runs
var textVarLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Var", Pattern: `\$\{[^}]*\}`},
	{Name: "Dollar", Pattern: `\$`},
	{Name: "Text", Pattern: `[^$]+`},
})

// textTemplate is a text value as a sequence of literal and variable parts
type textTemplate struct {
	Parts []*textPart `parser:"@@*"`
}

type textPart struct {
	Var  *string `parser:"  @Var"`
	Text *string `parser:"| @(Text | Dollar)"`
}

// TextVars expands ${VAR} references in text values
type TextVars struct {
	parser *participle.Parser[textTemplate]
}

// NewTextVars builds the text variable grammar
func NewTextVars() (*TextVars, error) {
	p, err := participle.Build[textTemplate](
		participle.Lexer(textVarLexer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build text variable parser: %w", err)
	}
	return &TextVars{parser: p}, nil
}

// Expand replaces every ${NAME} in text with resolve(NAME). References the
// resolver does not know are kept verbatim. Text that cannot be parsed is
// returned unchanged.
func (tv *TextVars) Expand(text string, resolve func(name string) (string, bool)) string {
	if !strings.Contains(text, "${") {
		return text
	}
	tmpl, err := tv.parser.ParseString("", text)
	if err != nil {
		return text
	}

	var b strings.Builder
	for _, part := range tmpl.Parts {
		switch {
		case part.Var != nil:
			name := strings.TrimSuffix(strings.TrimPrefix(*part.Var, "${"), "}")
			if value, ok := resolve(name); ok {
				b.WriteString(value)
			} else {
				b.WriteString(*part.Var)
			}
		case part.Text != nil:
			b.WriteString(*part.Text)
		}
	}
	return b.String()
}
