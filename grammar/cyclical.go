package grammar

import (
	"github.com/dekarrin/tablegram/gerrors"
	"github.com/dekarrin/tablegram/internal/util"
)

// Validate checks that every rule in g has at least one match whose
// derivation can be grounded in a token or group without re-entering itself
// via an all-rule prefix. It returns an error naming the first ungroundable
// rule found, or nil if the grammar is acceptable.
func Validate(g *Grammar) error {
	for _, rule := range g.IterRules() {
		if !hasEscapeCondition(g, rule, nil) {
			return gerrors.Cyclical(rule.String())
		}
	}
	return nil
}

// hasEscapeCondition walks the grammar depth-first from rule, returning true
// as soon as some match of some reachable rule is grounded by a token or
// group at its leftmost term. prevRules tracks the rules currently on the
// call stack (membership only matters, so a KeySet gives O(1) cycle checks
// in place of a linear scan over a growing slice) so a cycle that never
// grounds returns false for that path instead of recursing forever.
func hasEscapeCondition(g *Grammar, rule Rule, prevRules util.KeySet[Rule]) bool {
	for _, id := range g.MatchesOf(rule) {
		m := g.Get(id)

		if len(m.Terms) == 0 {
			// An empty match grounds nothing but also doesn't cycle; move on
			// to the next match of this rule.
			continue
		}

		first := m.Terms[0]
		switch first.Kind {
		case TermToken, TermGroup:
			return true
		case TermRule:
			if prevRules.Has(first.Rule) {
				continue
			}
			path := prevRules.Copy().(util.KeySet[Rule])
			path.Add(rule)
			if hasEscapeCondition(g, first.Rule, path) {
				return true
			}
		}
	}

	return false
}
