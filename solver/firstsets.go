package solver

import (
	"fmt"
	"sort"

	"github.com/dekarrin/tablegram/grammar"
	"github.com/dekarrin/tablegram/internal/util"
)

// PushItem is an instruction to push the frame for a match onto the
// interpreter's stack, having already derived Fields worth of leading empty
// rule terms via the empty-rule solver. LinkedToBelow marks a frame that
// entered as part of one connected first-set chain: when it finishes, it
// always reduces into the frame pushed just beneath it, never through wrap
// data. The one unlinked frame in a divergent chain is the disconnection
// point whose reduction is decided at parse time.
type PushItem struct {
	ID            grammar.MatchID
	Fields        []EmptySolverRuleValue
	LinkedToBelow bool
}

// FirstSet is one alternative a rule's first-set search can ground into: a
// run of terminals that would be seen first, plus the stack of matches that
// need to be pushed (outermost first) to reach the match that run belongs
// to.
type FirstSet struct {
	Tokens []ITokenOrGroup
	Then   []PushItem
}

// PotentialDisconnect records that, while building a first set, some
// destination match's paths diverged (their common prefix and common suffix
// differ). Parent is the rule the common prefix's cursor was expecting when
// the chain broke (or the first-set's own rule when the prefix is empty);
// Child is the rule of the first common-suffix frame. This is the seed data
// wrap-set construction uses to know which (parent, child) pairs need a
// WrapData computed for them.
type PotentialDisconnect struct {
	Parent grammar.Rule
	Child  grammar.Rule
}

// FirstSets holds, for every rule in a grammar, the set of ways a parse of
// that rule can begin.
type FirstSets struct {
	perRule              map[grammar.Rule][]FirstSet
	potentialDisconnects []PotentialDisconnect
}

// NewFirstSets computes the first sets of every rule in g.
func NewFirstSets(g *grammar.Grammar, empty *EmptyRuleSolver) *FirstSets {
	perRule := make(map[grammar.Rule][]FirstSet)
	var disconnects []PotentialDisconnect

	for _, rule := range g.IterRules() {
		destinations := calculateAllDestinationMatches(g, empty, rule)

		ids := make([]grammar.MatchID, 0, len(destinations))
		for id := range destinations {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		var sets []FirstSet
		for _, id := range ids {
			paths := sortedPaths(destinations[id])

			tokens := firstTerminalRun(g, empty, id, 0)
			then, disconnect, ok := calculatePushInstructionsFromPaths(g, empty, rule, paths)
			if !ok {
				continue
			}
			if disconnect != nil {
				disconnects = append(disconnects, *disconnect)
			}

			sets = append(sets, FirstSet{Tokens: tokens, Then: then})
		}

		// Longer terminal prefixes are tried first so that the most specific
		// alternative wins when one prefix is a prefix of another.
		sort.SliceStable(sets, func(i, j int) bool {
			return len(sets[i].Tokens) > len(sets[j].Tokens)
		})

		perRule[rule] = sets
	}

	return &FirstSets{perRule: perRule, potentialDisconnects: disconnects}
}

// Of returns the computed first-set alternatives for rule.
func (f *FirstSets) Of(rule grammar.Rule) []FirstSet {
	return f.perRule[rule]
}

func positionEq(a, b MatchPosition) bool {
	return a.ID == b.ID && a.Index == b.Index
}

func pathKey(path []MatchPosition) string {
	s := ""
	for _, p := range path {
		s += fmt.Sprintf("%d:%d;", p.ID, p.Index)
	}
	return s
}

// calculateAllDestinationMatches finds every match reachable from rule by
// descending through leftmost rule-reference terms (skipping over
// empty-derivable rules that precede a grounded position, same as
// firstTerminalRun), recording the set of distinct paths of MatchPositions
// that lead to each destination match.
func calculateAllDestinationMatches(g *grammar.Grammar, empty *EmptyRuleSolver, from grammar.Rule) map[grammar.MatchID]map[string][]MatchPosition {
	destinations := make(map[grammar.MatchID]map[string][]MatchPosition)

	for _, id := range g.MatchesOf(from) {
		recursiveCalculateAllDestinationMatches(g, empty, nil, id, destinations)
	}

	return destinations
}

func recursiveCalculateAllDestinationMatches(
	g *grammar.Grammar,
	empty *EmptyRuleSolver,
	prevMatches *util.Path[MatchPosition],
	nextMatch grammar.MatchID,
	destinations map[grammar.MatchID]map[string][]MatchPosition,
) {
	for _, prev := range prevMatches.Values() {
		if prev.ID == nextMatch {
			return
		}
	}

	if i, ok := firstTerminalRunIndex(g, empty, nextMatch); ok {
		lastPos := NewMatchPositionAt(g, nextMatch, i)
		fullPath := prevMatches.Push(lastPos)

		vals := fullPath.Values()
		reverseMatchPositions(vals)

		if destinations[nextMatch] == nil {
			destinations[nextMatch] = make(map[string][]MatchPosition)
		}
		destinations[nextMatch][pathKey(vals)] = vals
	}

	m := g.Get(nextMatch)

	for i, term := range m.Terms {
		nextPos := NewMatchPositionAt(g, nextMatch, i)
		pathWithPos := prevMatches.Push(nextPos)

		switch term.Kind {
		case grammar.TermToken, grammar.TermGroup:
			return
		case grammar.TermRule:
			for _, id := range g.MatchesOf(term.Rule) {
				recursiveCalculateAllDestinationMatches(g, empty, pathWithPos, id, destinations)
			}
			if !empty.IsEmpty(term.Rule) {
				return
			}
		}
	}
}

func reverseMatchPositions(s []MatchPosition) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func sortedPaths(byKey map[string][]MatchPosition) [][]MatchPosition {
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	paths := make([][]MatchPosition, 0, len(keys))
	for _, k := range keys {
		paths = append(paths, byKey[k])
	}
	return paths
}

// calculatePushInstructionsFromPaths reduces a destination match's path set
// to one push list via the paths' longest common prefix and suffix. When the
// two coincide, the entry is a single connected chain and every frame is
// linked. Otherwise the prefix frames are pushed, then the suffix frames,
// with only the first suffix frame left unlinked; that frame's eventual
// reduction is resolved at parse time by the wrap data seeded from the
// returned PotentialDisconnect. It reports false when some required frame
// cannot be initialised because a term left of its cursor is not an
// empty-derivable rule, in which case the caller drops the whole first-set
// alternative.
func calculatePushInstructionsFromPaths(g *grammar.Grammar, empty *EmptyRuleSolver, from grammar.Rule, paths [][]MatchPosition) ([]PushItem, *PotentialDisconnect, bool) {
	commonStart := calculateCommonStarts(paths, false)
	commonEnd := calculateCommonStarts(paths, true)
	reverseMatchPositions(commonEnd)

	if matchPositionsEqual(commonStart, commonEnd) {
		items, ok := convertAll(g, empty, commonStart)
		if !ok {
			return nil, nil, false
		}
		for i := range items {
			items[i].LinkedToBelow = true
		}
		return items, nil, true
	}

	all := append(append([]MatchPosition{}, commonStart...), commonEnd...)
	items, ok := convertAll(g, empty, all)
	if !ok {
		return nil, nil, false
	}
	for i := range items {
		items[i].LinkedToBelow = i != len(commonStart)
	}

	parent := from
	if len(commonStart) > 0 {
		top := commonStart[len(commonStart)-1]
		rule, isRule := g.Get(top.ID).Terms[top.Index].IsRule()
		if !isRule {
			panic("solver: calculatePushInstructionsFromPaths: common-prefix cursor is not on a rule term")
		}
		parent = rule
	}
	child := g.RuleOf(commonEnd[0].ID)

	return items, &PotentialDisconnect{Parent: parent, Child: child}, true
}

func convertAll(g *grammar.Grammar, empty *EmptyRuleSolver, positions []MatchPosition) ([]PushItem, bool) {
	items := make([]PushItem, len(positions))
	for i, p := range positions {
		item, ok := convertMatchPositionToPushItem(g, empty, p)
		if !ok {
			return nil, false
		}
		items[i] = item
	}
	return items, true
}

func matchPositionsEqual(a, b []MatchPosition) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !positionEq(a[i], b[i]) {
			return false
		}
	}
	return true
}

// calculateCommonStarts finds the prefix common to every path. If reversed
// is true, each path is walked from its end instead.
func calculateCommonStarts(paths [][]MatchPosition, reversed bool) []MatchPosition {
	var common []MatchPosition
	if len(paths) == 0 {
		return common
	}

	for idx := 0; ; idx++ {
		var first *MatchPosition
		allSame := true

		for _, path := range paths {
			var item MatchPosition
			var ok bool

			if reversed {
				pos := len(path) - 1 - idx
				if pos >= 0 {
					item = path[pos]
					ok = true
				}
			} else {
				if idx < len(path) {
					item = path[idx]
					ok = true
				}
			}

			if !ok {
				allSame = false
				break
			}

			if first == nil {
				f := item
				first = &f
			} else if !positionEq(*first, item) {
				allSame = false
				break
			}
		}

		if !allSame {
			break
		}
		common = append(common, *first)
	}

	return common
}

// convertMatchPositionToPushItem derives the PushItem for the match a
// position lies within. Every term left of the cursor must be an
// empty-derivable rule whose witness value pre-fills the frame; it reports
// false when one is not, and the caller drops the alternative rather than
// pushing a frame it could never initialise.
func convertMatchPositionToPushItem(g *grammar.Grammar, empty *EmptyRuleSolver, pos MatchPosition) (PushItem, bool) {
	m := g.Get(pos.ID)

	push := PushItem{ID: pos.ID}

	for i := 0; i < pos.Index; i++ {
		term := m.Terms[i]

		rule, ok := term.IsRule()
		if !ok {
			return PushItem{}, false
		}

		rv, ok := empty.Get(rule)
		if !ok {
			return PushItem{}, false
		}
		push.Fields = append(push.Fields, rv)
	}

	return push, true
}
