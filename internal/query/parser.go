// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package query

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/samber/oops"
)

// MaxNestingDepth is the maximum allowed parenthesis nesting depth.
const MaxNestingDepth = 32

// parser is the singleton participle parser instance.
var parser *participle.Parser[Filter]

func init() {
	var err error
	parser, err = NewParser()
	if err != nil {
		panic(fmt.Sprintf("failed to build filter parser: %v", err))
	}
}

// Parse parses a filter string into an AST. Returns a descriptive
// error with position info on failure.
func Parse(text string) (*Filter, error) {
	f, err := parser.ParseString("", text)
	if err != nil {
		return nil, oops.Code("FILTER_PARSE_FAILED").Wrapf(err, "parsing filter")
	}
	if err := validateFilter(f); err != nil {
		return nil, oops.Code("FILTER_PARSE_FAILED").Wrap(err)
	}
	return f, nil
}

// validateFilter checks nesting depth and glob operand types.
func validateFilter(f *Filter) error {
	return validateOr(f.Expr, 0)
}

func validateOr(e *OrExpr, depth int) error {
	if depth > MaxNestingDepth {
		return fmt.Errorf("nesting depth exceeds maximum of %d", MaxNestingDepth)
	}
	for _, branch := range e.Branches {
		for _, term := range branch.Terms {
			if err := validateTerm(term, depth); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateTerm(t *Term, depth int) error {
	if t.Factor.Parenthesized != nil {
		return validateOr(t.Factor.Parenthesized, depth+1)
	}
	return validateComparison(t.Factor.Comparison)
}

func validateComparison(c *Comparison) error {
	switch c.Op {
	case "~":
		if c.Value.String == nil {
			return fmt.Errorf("operator ~ requires a string pattern at %s", c.Pos)
		}
	case "<", "<=", ">", ">=":
		if c.Value.Number == nil {
			return fmt.Errorf("operator %s requires a numeric operand at %s", c.Op, c.Pos)
		}
	}
	return nil
}
