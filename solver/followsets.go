package solver

import "github.com/dekarrin/tablegram/grammar"

// FollowSetKind distinguishes the two ways input can continue past a given
// position in a match.
type FollowSetKind int

const (
	// FollowDirect means the next terms form a contiguous terminal run that
	// can simply be shifted.
	FollowDirect FollowSetKind = iota
	// FollowEnter means the parser should descend into a sub-rule next.
	FollowEnter
)

// FollowSet is one alternative for what can come after a given position in a
// match: either a run of terminals to shift directly, or a sub-rule to
// enter. AppendExtra records the empty-derivable rule terms skipped over to
// reach this alternative, which must be synthesized (as empty matches) once
// this alternative is taken.
type FollowSet struct {
	Kind        FollowSetKind
	Tokens      []ITokenOrGroup
	Rule        grammar.Rule
	AppendExtra []EmptySolverRuleValue
}

// FollowSets holds, for every term position of every match in a grammar,
// every way the parse can legally continue from there.
type FollowSets struct {
	perPosition map[matchPositionKey][]FollowSet
}

type matchPositionKey struct {
	ID    grammar.MatchID
	Index int
}

// NewFollowSets computes the follow sets of every position in every match of
// g.
func NewFollowSets(g *grammar.Grammar, empty *EmptyRuleSolver) *FollowSets {
	sets := make(map[matchPositionKey][]FollowSet)

	for _, id := range g.IterMatches() {
		m := g.Get(id)
		for i := range m.Terms {
			key := matchPositionKey{ID: id, Index: i}
			sets[key] = generateSetForMatch(g, empty, id, i)
		}
	}

	return &FollowSets{perPosition: sets}
}

// Of returns the follow-set alternatives for the position at index within
// match id.
func (f *FollowSets) Of(id grammar.MatchID, index int) []FollowSet {
	return f.perPosition[matchPositionKey{ID: id, Index: index}]
}

func generateSetForMatch(g *grammar.Grammar, empty *EmptyRuleSolver, id grammar.MatchID, startIndex int) []FollowSet {
	var sets []FollowSet

	m := g.Get(id)

	i := startIndex
	var emptysToAppend []EmptySolverRuleValue

	for i < len(m.Terms) {
		term := m.Terms[i]

		if term.Kind == grammar.TermToken || term.Kind == grammar.TermGroup {
			break
		}

		sets = append(sets, FollowSet{
			Kind:        FollowEnter,
			Rule:        term.Rule,
			AppendExtra: append([]EmptySolverRuleValue{}, emptysToAppend...),
		})

		rv, ok := empty.Get(term.Rule)
		if !ok {
			break
		}
		emptysToAppend = append(emptysToAppend, rv)

		i++
	}

	var tokens []ITokenOrGroup
tokenRun:
	for i < len(m.Terms) {
		term := m.Terms[i]

		switch term.Kind {
		case grammar.TermToken:
			tokens = append(tokens, togToken(term.Token))
		case grammar.TermGroup:
			tokens = append(tokens, togGroup(term.Group, term.Rule))
		case grammar.TermRule:
			break tokenRun
		}

		i++
	}

	if len(tokens) > 0 {
		sets = append(sets, FollowSet{
			Kind:        FollowDirect,
			Tokens:      tokens,
			AppendExtra: append([]EmptySolverRuleValue{}, emptysToAppend...),
		})
	}

	return sets
}
