// Package solver analyzes a grammar.Grammar and precomputes the tables the
// interp package's stack machine needs to shift, reduce, and recover without
// backtracking: empty-rule witnesses, first sets, follow sets, seal actions,
// and wrap/insert data. A GrammarSolver is built once and is safe to share
// read-only across goroutines, the same way an LRParseTable is treated in
// internal/ictiobus/parse.
package solver

import "github.com/dekarrin/tablegram/grammar"

// GrammarSolver is the complete, immutable set of analysis tables for one
// grammar.Grammar.
type GrammarSolver struct {
	g          *grammar.Grammar
	EmptyRules *EmptyRuleSolver
	First      *FirstSets
	Follow     *FollowSets
	Seal       *SealRules
	Wrap       *WrapSets
}

// New validates g and, if it is acceptable, builds every analysis table over
// it. It returns an error (from package gerrors) if g has a rule with no
// non-cyclical derivation.
func New(g *grammar.Grammar) (*GrammarSolver, error) {
	if err := grammar.Validate(g); err != nil {
		return nil, err
	}

	empty := NewEmptyRuleSolver(g)
	first := NewFirstSets(g, empty)
	follow := NewFollowSets(g, empty)
	seal := NewSealRules(g, empty)
	wrap := NewWrapSets(g, empty, first)

	return &GrammarSolver{
		g:          g,
		EmptyRules: empty,
		First:      first,
		Follow:     follow,
		Seal:       seal,
		Wrap:       wrap,
	}, nil
}

// Grammar returns the grammar this solver was built from.
func (s *GrammarSolver) Grammar() *grammar.Grammar {
	return s.g
}

// RootRule returns the grammar's root rule.
func (s *GrammarSolver) RootRule() grammar.Rule {
	return s.g.RootRule()
}

// Match returns the match for id.
func (s *GrammarSolver) Match(id grammar.MatchID) grammar.Match {
	return s.g.Get(id)
}

// MatchRule returns the rule the given match belongs to.
func (s *GrammarSolver) MatchRule(id grammar.MatchID) grammar.Rule {
	return s.g.RuleOf(id)
}

// FirstSetForRule returns the first-set alternatives for rule.
func (s *GrammarSolver) FirstSetForRule(rule grammar.Rule) []FirstSet {
	return s.First.Of(rule)
}

// FollowSetForMatch returns the follow-set alternatives at the given
// position.
func (s *GrammarSolver) FollowSetForMatch(id grammar.MatchID, index int) []FollowSet {
	return s.Follow.Of(id, index)
}

// SealActionForMatch returns the seal action available at the given
// position, if any.
func (s *GrammarSolver) SealActionForMatch(id grammar.MatchID, index int) (SealAction, bool) {
	return s.Seal.Of(id, index)
}

// WrapDataFor returns the wrap data computed for the (parent, child) rule
// pair, if any was needed.
func (s *GrammarSolver) WrapDataFor(parent, child grammar.Rule) (WrapData, bool) {
	return s.Wrap.Of(WrapContext{Parent: parent, Child: child})
}

// WrapContexts returns every (parent, child) rule pair wrap data was
// computed for, sorted.
func (s *GrammarSolver) WrapContexts() []WrapContext {
	return s.Wrap.Contexts()
}
