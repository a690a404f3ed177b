package solver

import "github.com/dekarrin/tablegram/grammar"

// MatchPosition names one term position within one match: which match, which
// rule that match belongs to, its index within that rule's match list, the
// term index the position currently points at, and the match's total term
// count. The rule/index-in-rule/length fields are cached here so solver code
// walking many positions doesn't need to re-query the grammar for them.
type MatchPosition struct {
	ID        grammar.MatchID
	Rule      grammar.Rule
	RuleIndex int
	Index     int
	Length    int
}

// NewMatchPosition builds a MatchPosition for id, pointing at its first term.
func NewMatchPosition(g *grammar.Grammar, id grammar.MatchID) MatchPosition {
	m := g.Get(id)
	return MatchPosition{
		ID:        id,
		Rule:      m.Rule,
		RuleIndex: g.RuleMatchIndex(id),
		Index:     0,
		Length:    len(m.Terms),
	}
}

// NewMatchPositionAt builds a MatchPosition for id pointing at term index.
// index may be equal to the match's term count (the past-the-end position
// reached once every term has been filled in), but no greater. It panics if
// index is out of range for the match.
func NewMatchPositionAt(g *grammar.Grammar, id grammar.MatchID, index int) MatchPosition {
	p := NewMatchPosition(g, id)
	if index > p.Length {
		panic("solver: NewMatchPositionAt: index out of range")
	}
	p.Index = index
	return p
}

// AdvanceBy returns a copy of p with Index moved forward by n.
func (p MatchPosition) AdvanceBy(n int) MatchPosition {
	p.Index += n
	return p
}

// IsDone reports whether the position is at or past the end of the match.
func (p MatchPosition) IsDone() bool {
	return p.Index >= p.Length
}
