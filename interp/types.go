// Package interp implements the shift/reduce stack machine that turns a
// stream of tokens (and nested bracketed groups of tokens) into a tree of
// RuleValues, guided by the tables a solver.GrammarSolver precomputes.
package interp

import (
	"github.com/dekarrin/tablegram/grammar"
	"github.com/dekarrin/tablegram/solver"
)

// ITokenOrGroupKind distinguishes the two kinds of item an input stream can
// contain.
type ITokenOrGroupKind int

const (
	ITGToken ITokenOrGroupKind = iota
	ITGGroup
)

// ITokenOrGroup is one item of actual input: either a single token, or a
// bracketed group holding its own nested stream of items (which is parsed
// recursively against the group's associated rule once the parser reaches
// it).
type ITokenOrGroup struct {
	Kind  ITokenOrGroupKind
	Token grammar.Token
	Group []ITokenOrGroup
}

// Tok builds an ITokenOrGroup wrapping a single token.
func Tok(t grammar.Token) ITokenOrGroup {
	return ITokenOrGroup{Kind: ITGToken, Token: t}
}

// Grp builds an ITokenOrGroup wrapping a nested stream of items.
func Grp(items []ITokenOrGroup) ITokenOrGroup {
	return ITokenOrGroup{Kind: ITGGroup, Group: items}
}

// ValueKind distinguishes the three members of the Value closed sum.
type ValueKind int

const (
	ValueToken ValueKind = iota
	ValueRule
	ValueError
)

// Value is one field of a reduced match: either a shifted token, a fully
// reduced sub-rule, or an error sentinel inserted by recovery.
type Value struct {
	Kind  ValueKind
	Token grammar.Token
	Rule  RuleValue
}

// TokenValue builds a Value wrapping a shifted token.
func TokenValue(t grammar.Token) Value {
	return Value{Kind: ValueToken, Token: t}
}

// RuleValueOf builds a Value wrapping a reduced rule.
func RuleValueOf(r RuleValue) Value {
	return Value{Kind: ValueRule, Rule: r}
}

// ErrorValue builds a Value representing a position recovery could not fill.
func ErrorValue() Value {
	return Value{Kind: ValueError}
}

// MatchValue is a match in the process of being filled in: which match it
// is, and the values collected so far (its length is always <= the match's
// arity).
type MatchValue struct {
	MatchID grammar.MatchID
	Values  []Value
}

// RuleValue is a fully reduced parse result: the rule it satisfies, which of
// that rule's matches it came from, and the match's field values.
type RuleValue struct {
	Rule    grammar.Rule
	MatchID grammar.MatchID
	Values  []Value
}

// stackItem is one frame of the interpreter's parse stack.
type stackItem struct {
	linkedToAbove bool
	match         MatchValue
}

// TokenReader walks a slice of input items one at a time, and can test
// whether an upcoming item matches a terminal descriptor without consuming
// it.
type TokenReader struct {
	tokens []ITokenOrGroup
	index  int
}

// NewTokenReader returns a TokenReader over tokens, starting at its head.
func NewTokenReader(tokens []ITokenOrGroup) *TokenReader {
	return &TokenReader{tokens: tokens}
}

// DoesMatch reports whether the item `by` positions ahead of the reader's
// current position matches the given terminal descriptor, without consuming
// anything.
func (r *TokenReader) DoesMatch(by int, tog solver.ITokenOrGroup) bool {
	idx := r.index + by
	if idx < 0 || idx >= len(r.tokens) {
		return false
	}

	item := r.tokens[idx]

	switch item.Kind {
	case ITGToken:
		return tog.Kind == solver.TOGToken && item.Token == tog.Token
	case ITGGroup:
		return tog.Kind == solver.TOGGroup
	default:
		return false
	}
}

// Next consumes and returns the next item in the stream, and whether one was
// available.
func (r *TokenReader) Next() (ITokenOrGroup, bool) {
	if r.index >= len(r.tokens) {
		return ITokenOrGroup{}, false
	}
	item := r.tokens[r.index]
	r.index++
	return item, true
}

// Remaining reports how many items are left unconsumed.
func (r *TokenReader) Remaining() int {
	return len(r.tokens) - r.index
}
