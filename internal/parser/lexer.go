package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer splits a REPL line into tokens. Rule order matters: the first
// pattern that matches at a position wins, so dice notation is tried before
// plain integers and identifiers.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "UUID", Pattern: `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`},
	{Name: "DiceMacro", Pattern: `\d*[dD]\d+(?:[+-]\d+)?`},
	{Name: "Int", Pattern: `[+-]?\d+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][\w\-]*`},
	{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
	{Name: "Punct", Pattern: `[:=,\[\]+\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// Build creates our parser based on the struct tags in `ast.go`
func Build() *participle.Parser[Command] {
	return participle.MustBuild[Command](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
		participle.CaseInsensitive("Ident"),
	)
}

var defaultParser = Build()

// Parse parses one line. Errors are mapped to usage guidance.
func Parse(line string) (*Command, error) {
	cmd, err := defaultParser.ParseString("", strings.TrimSpace(line))
	if err != nil {
		return nil, MapError(line, err)
	}
	return cmd, nil
}
