package solver

import "github.com/dekarrin/tablegram/grammar"

// EmptySolverMatchValue records that a specific match can produce the empty
// sequence, and carries the per-term EmptySolverRuleValue that justifies
// each of its rule-reference terms (if any) also being empty.
type EmptySolverMatchValue struct {
	ID     grammar.MatchID
	Fields []EmptySolverRuleValue
}

// EmptySolverRuleValue records that a rule can produce the empty sequence,
// by way of one specific match of that rule (MatchIndex is that match's
// position within grammar.MatchesOf(Rule)).
type EmptySolverRuleValue struct {
	Rule       grammar.Rule
	MatchIndex int
	MatchValue EmptySolverMatchValue
}
