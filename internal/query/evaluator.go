// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package query

import (
	"encoding/json"
	"strings"

	"github.com/gobwas/glob"
)

// Evaluator matches records against a parsed filter. Glob patterns for
// the ~ operator are compiled once and cached for reuse across records.
type Evaluator struct {
	filter    *Filter
	globCache map[string]glob.Glob
}

// NewEvaluator wraps a parsed filter for repeated matching.
func NewEvaluator(f *Filter) *Evaluator {
	return &Evaluator{
		filter:    f,
		globCache: make(map[string]glob.Glob),
	}
}

// Compile parses text and returns a ready evaluator.
func Compile(text string) (*Evaluator, error) {
	f, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return NewEvaluator(f), nil
}

// Matches reports whether the record satisfies the filter. A missing
// field fails its comparison rather than erroring, so filters compose
// safely across heterogeneous records.
func (e *Evaluator) Matches(record map[string]any) bool {
	return e.evalOr(e.filter.Expr, record)
}

func (e *Evaluator) evalOr(expr *OrExpr, record map[string]any) bool {
	for _, branch := range expr.Branches {
		if e.evalAnd(branch, record) {
			return true
		}
	}
	return false
}

func (e *Evaluator) evalAnd(expr *AndExpr, record map[string]any) bool {
	for _, term := range expr.Terms {
		if !e.evalTerm(term, record) {
			return false
		}
	}
	return true
}

func (e *Evaluator) evalTerm(t *Term, record map[string]any) bool {
	var result bool
	if t.Factor.Parenthesized != nil {
		result = e.evalOr(t.Factor.Parenthesized, record)
	} else {
		result = e.evalComparison(t.Factor.Comparison, record)
	}
	if t.Negated {
		return !result
	}
	return result
}

func (e *Evaluator) evalComparison(c *Comparison, record map[string]any) bool {
	field, ok := lookupPath(record, c.Path)
	if !ok {
		return false
	}

	switch c.Op {
	case "=":
		return valueEquals(field, c.Value)
	case "!=":
		return !valueEquals(field, c.Value)
	case "~":
		s, ok := field.(string)
		if !ok {
			return false
		}
		g, err := e.compiledGlob(*c.Value.String)
		if err != nil {
			return false
		}
		return g.Match(s)
	case "<", "<=", ">", ">=":
		n, ok := asNumber(field)
		if !ok {
			return false
		}
		rhs := *c.Value.Number
		switch c.Op {
		case "<":
			return n < rhs
		case "<=":
			return n <= rhs
		case ">":
			return n > rhs
		default:
			return n >= rhs
		}
	}
	return false
}

func (e *Evaluator) compiledGlob(pattern string) (glob.Glob, error) {
	if g, ok := e.globCache[pattern]; ok {
		return g, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, err
	}
	e.globCache[pattern] = g
	return g, nil
}

// lookupPath walks a dotted path through nested maps. Only the final
// segment may resolve to a non-map value.
func lookupPath(record map[string]any, path []string) (any, bool) {
	cur := any(record)
	for _, seg := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func valueEquals(field any, v *Value) bool {
	switch {
	case v.String != nil:
		s, ok := field.(string)
		return ok && strings.EqualFold(s, *v.String)
	case v.Number != nil:
		n, ok := asNumber(field)
		return ok && n == *v.Number
	case v.Bool != nil:
		b, ok := field.(bool)
		return ok && b == bool(*v.Bool)
	}
	return false
}

// asNumber normalizes the numeric shapes a JSON round-trip produces.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
