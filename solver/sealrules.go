package solver

import "github.com/dekarrin/tablegram/grammar"

// SealAction describes how to collapse a fully (or emptily) satisfied match
// into its rule: the rule it becomes, plus any trailing empty-derivable rule
// terms that must be synthesized to round the match out to its full arity.
type SealAction struct {
	IntoRule    grammar.Rule
	AppendExtra []EmptySolverRuleValue
}

// SealRules holds, for every position in every match (including the
// past-the-end position), whether the remaining terms from there can all be
// satisfied by empty derivations - i.e. whether the match can be sealed
// (reduced) from that position without further input.
type SealRules struct {
	actions map[matchPositionKey]SealAction
}

// NewSealRules computes the seal actions available in g.
func NewSealRules(g *grammar.Grammar, empty *EmptyRuleSolver) *SealRules {
	actions := make(map[matchPositionKey]SealAction)

	for _, id := range g.IterMatches() {
		m := g.Get(id)
		for i := 0; i <= len(m.Terms); i++ {
			if action, ok := generateSealActionForMatch(g, empty, id, i); ok {
				actions[matchPositionKey{ID: id, Index: i}] = action
			}
		}
	}

	return &SealRules{actions: actions}
}

// Of returns the seal action available at the given position, if any.
func (s *SealRules) Of(id grammar.MatchID, index int) (SealAction, bool) {
	a, ok := s.actions[matchPositionKey{ID: id, Index: index}]
	return a, ok
}

func generateSealActionForMatch(g *grammar.Grammar, empty *EmptyRuleSolver, id grammar.MatchID, startIndex int) (SealAction, bool) {
	var emptysToAppend []EmptySolverRuleValue

	m := g.Get(id)

	for i := startIndex; i < len(m.Terms); i++ {
		rule, ok := m.Terms[i].IsRule()
		if !ok {
			return SealAction{}, false
		}

		rv, ok := empty.Get(rule)
		if !ok {
			return SealAction{}, false
		}
		emptysToAppend = append(emptysToAppend, rv)
	}

	return SealAction{IntoRule: m.Rule, AppendExtra: emptysToAppend}, true
}
