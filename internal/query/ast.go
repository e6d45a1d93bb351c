// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

// Package query implements the record filter language used by list
// commands. A filter is a boolean expression over the fields of a
// record, e.g. `status = "ongoing" and type != "side"` or
// `name ~ "Iron*" or influence >= 50`.
package query

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// filterLexer defines the token types for the filter language. The
// two-character operators must come before their one-character
// prefixes so that the lexer matches them greedily.
var filterLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "Number", Pattern: `-?\d+(\.\d+)?`},
	{Name: "OpNe", Pattern: `!=`},
	{Name: "OpLe", Pattern: `<=`},
	{Name: "OpGe", Pattern: `>=`},
	{Name: "OpEq", Pattern: `=`},
	{Name: "OpLt", Pattern: `<`},
	{Name: "OpGt", Pattern: `>`},
	{Name: "OpMatch", Pattern: `~`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "Punct", Pattern: `[()]`},
	{Name: "whitespace", Pattern: `\s+`},
})

// Filter is the root of a parsed filter expression.
//
// Grammar: or_expr
type Filter struct {
	Pos  lexer.Position `parser:""`
	Expr *OrExpr        `parser:"@@"`
}

// OrExpr is a disjunction of conjunctions. True if ANY branch is true.
type OrExpr struct {
	Pos      lexer.Position `parser:""`
	Branches []*AndExpr     `parser:"@@ ('or' @@)*"`
}

// AndExpr is a conjunction of terms. True if ALL terms are true.
type AndExpr struct {
	Pos   lexer.Position `parser:""`
	Terms []*Term        `parser:"@@ ('and' @@)*"`
}

// Term is an optionally negated factor.
type Term struct {
	Pos     lexer.Position `parser:""`
	Negated bool           `parser:"@'not'?"`
	Factor  *Factor        `parser:"@@"`
}

// Factor is either a parenthesized sub-expression or a comparison.
type Factor struct {
	Pos           lexer.Position `parser:""`
	Parenthesized *OrExpr        `parser:"  '(' @@ ')'"`
	Comparison    *Comparison    `parser:"| @@"`
}

// Comparison is a single field test: path operator value. The ~
// operator matches the field against a glob pattern.
type Comparison struct {
	Pos   lexer.Position `parser:""`
	Path  []string       `parser:"@Ident (Dot @Ident)*"`
	Op    string         `parser:"@(OpNe | OpLe | OpGe | OpEq | OpLt | OpGt | OpMatch)"`
	Value *Value         `parser:"@@"`
}

// Boolean captures the matched token text rather than the fact that
// the branch matched, so the literal `false` parses as false.
type Boolean bool

// Capture implements participle.Capture.
func (b *Boolean) Capture(values []string) error {
	*b = values[0] == "true"
	return nil
}

// Value is a literal operand: string, number, or boolean.
type Value struct {
	Pos    lexer.Position `parser:""`
	String *string        `parser:"  @String"`
	Number *float64       `parser:"| @Number"`
	Bool   *Boolean       `parser:"| @('true' | 'false')"`
}

// NewParser constructs a participle parser for the Filter grammar.
func NewParser() (*participle.Parser[Filter], error) {
	return participle.Build[Filter](
		participle.Lexer(filterLexer),
		participle.Unquote("String"),
	)
}
