package solver

import "github.com/dekarrin/tablegram/grammar"

// EmptyRuleSolver records, for every rule in a grammar that can derive the
// empty sequence, a witness match proving it (EmptySolverRuleValue). It is
// built once by fixed-point iteration and is read-only afterward.
type EmptyRuleSolver struct {
	emptyRules map[grammar.Rule]EmptySolverRuleValue
}

// NewEmptyRuleSolver computes which rules of g can derive the empty
// sequence. A rule is directly empty if it has a match with no terms; it is
// indirectly empty if it has a match whose every term is a rule reference to
// an already-known-empty rule. The search runs to a fixed point since
// indirect emptiness can chain arbitrarily deep.
func NewEmptyRuleSolver(g *grammar.Grammar) *EmptyRuleSolver {
	empty := make(map[grammar.Rule]EmptySolverRuleValue)

	for _, rule := range g.IterRules() {
		for _, id := range g.MatchesOf(rule) {
			m := g.Get(id)
			if len(m.Terms) == 0 {
				empty[rule] = EmptySolverRuleValue{
					Rule:       rule,
					MatchIndex: g.RuleMatchIndex(id),
					MatchValue: EmptySolverMatchValue{ID: id},
				}
				break
			}
		}
	}

	for changed := true; changed; {
		changed = false

		for _, rule := range g.IterRules() {
			if _, ok := empty[rule]; ok {
				continue
			}

		matchLoop:
			for _, id := range g.MatchesOf(rule) {
				m := g.Get(id)

				fields := make([]EmptySolverRuleValue, 0, len(m.Terms))
				for _, term := range m.Terms {
					tr, ok := term.IsRule()
					if !ok {
						continue matchLoop
					}
					rv, ok := empty[tr]
					if !ok {
						continue matchLoop
					}
					fields = append(fields, rv)
				}

				empty[rule] = EmptySolverRuleValue{
					Rule:       rule,
					MatchIndex: g.RuleMatchIndex(id),
					MatchValue: EmptySolverMatchValue{ID: id, Fields: fields},
				}
				changed = true
				break
			}
		}
	}

	return &EmptyRuleSolver{emptyRules: empty}
}

// Get returns the witness value proving rule can derive the empty sequence,
// and whether one exists.
func (s *EmptyRuleSolver) Get(rule grammar.Rule) (EmptySolverRuleValue, bool) {
	v, ok := s.emptyRules[rule]
	return v, ok
}

// IsEmpty reports whether rule can derive the empty sequence.
func (s *EmptyRuleSolver) IsEmpty(rule grammar.Rule) bool {
	_, ok := s.emptyRules[rule]
	return ok
}
