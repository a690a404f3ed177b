package solver

import (
	"sort"

	"github.com/dekarrin/tablegram/grammar"
	"github.com/dekarrin/tablegram/internal/util"
)

// EmptyWrapAction is one step of bubbling a reduced value up out of a match
// and into its parent: the match being bubbled through, plus the empty
// witness values needed to fill in the terms to its left and right.
type EmptyWrapAction struct {
	MatchID    grammar.MatchID
	LeftEmpty  []EmptySolverRuleValue
	RightEmpty []EmptySolverRuleValue
}

// InsertAction describes inserting a value directly into a parent match
// after wrapping it through zero or more EmptyWrapActions.
type InsertAction struct {
	WrapActions []EmptyWrapAction
}

// WrapAction describes that, if the position IfMatches is reached, a value
// can become that position's match (after the listed wrap steps) with
// AppendEmpty supplying the empty-derivable terms to the left of the
// value's slot.
type WrapAction struct {
	IfMatches   matchPositionKey
	WrapActions []EmptyWrapAction
	AppendEmpty []EmptySolverRuleValue
}

// WrapContext names a (parent, child) rule pair that a wrap/insert search
// has been run for.
type WrapContext struct {
	Parent grammar.Rule
	Child  grammar.Rule
}

// WrapData is the set of ways a fully reduced child-rule value can end up
// becoming (wrap) or being spliced into (insert) a match of the parent rule.
type WrapData struct {
	WrapActions  []WrapAction
	InsertAction *InsertAction
}

// WrapSets holds, for every (parent, child) rule pair that first-set
// construction flagged as a potential stack disconnect, the WrapData
// describing how the interpreter should bridge that gap.
type WrapSets struct {
	sets map[WrapContext]WrapData
}

// NewWrapSets computes the wrap/insert data for every potential disconnect
// discovered while building firstSets, following the fixed point that wrap
// actions can themselves introduce new (parent, child) pairs to resolve.
func NewWrapSets(g *grammar.Grammar, empty *EmptyRuleSolver, firstSets *FirstSets) *WrapSets {
	potentialDisconnects := make(map[grammar.Rule]map[grammar.Rule]bool)

	for _, d := range firstSets.potentialDisconnects {
		if potentialDisconnects[d.Parent] == nil {
			potentialDisconnects[d.Parent] = make(map[grammar.Rule]bool)
		}
		potentialDisconnects[d.Parent][d.Child] = true
	}

	sets := make(map[WrapContext]WrapData)

	for changed := true; changed; {
		changed = false

		parents := make([]grammar.Rule, 0, len(potentialDisconnects))
		for p := range potentialDisconnects {
			parents = append(parents, p)
		}

		for _, parent := range parents {
			children := make([]grammar.Rule, 0, len(potentialDisconnects[parent]))
			for c := range potentialDisconnects[parent] {
				children = append(children, c)
			}

			for _, child := range children {
				ctx := WrapContext{Parent: parent, Child: child}
				if _, ok := sets[ctx]; ok {
					continue
				}

				data := getWrapDataFor(g, empty, ctx)

				for _, wa := range data.WrapActions {
					childRule := g.RuleOf(wa.IfMatches.ID)
					if potentialDisconnects[parent] == nil {
						potentialDisconnects[parent] = make(map[grammar.Rule]bool)
					}
					if !potentialDisconnects[parent][childRule] {
						potentialDisconnects[parent][childRule] = true
						changed = true
					}
				}

				sets[ctx] = data
			}
		}
	}

	return &WrapSets{sets: sets}
}

// Of returns the wrap data computed for ctx, if any.
func (w *WrapSets) Of(ctx WrapContext) (WrapData, bool) {
	d, ok := w.sets[ctx]
	return d, ok
}

// Contexts returns every (parent, child) pair wrap data was computed for,
// sorted by parent then child for stable iteration.
func (w *WrapSets) Contexts() []WrapContext {
	ctxs := make([]WrapContext, 0, len(w.sets))
	for ctx := range w.sets {
		ctxs = append(ctxs, ctx)
	}
	sort.Slice(ctxs, func(i, j int) bool {
		if ctxs[i].Parent != ctxs[j].Parent {
			return ctxs[i].Parent < ctxs[j].Parent
		}
		return ctxs[i].Child < ctxs[j].Child
	})
	return ctxs
}

type wrapDataBuilder struct {
	wrapActions   map[matchPositionKey][]WrapAction
	insertActions []InsertAction
}

type recursiveWrap struct {
	index matchPositionKey
}

func getWrapDataFor(g *grammar.Grammar, empty *EmptyRuleSolver, ctx WrapContext) WrapData {
	builder := &wrapDataBuilder{wrapActions: make(map[matchPositionKey][]WrapAction)}

	if ctx.Parent == ctx.Child {
		builder.insertActions = append(builder.insertActions, InsertAction{})
	}

	recursiveCalculateAllDestinationMatchesForRule(g, empty, nil, ctx.Parent, ctx.Child, builder)

	data := WrapData{
		InsertAction: pickBestInsertAction(builder.insertActions),
	}

	for _, actions := range builder.wrapActions {
		data.WrapActions = append(data.WrapActions, pickBestWrapAction(actions))
	}

	// Declaration order of the keying positions, so the interpreter's
	// first-match-wins scan over these is stable across runs.
	sort.Slice(data.WrapActions, func(i, j int) bool {
		a, b := data.WrapActions[i].IfMatches, data.WrapActions[j].IfMatches
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		return a.Index < b.Index
	})

	return data
}

func recursiveCalculateAllDestinationMatchesForRule(
	g *grammar.Grammar,
	empty *EmptyRuleSolver,
	prevMatches *util.Path[recursiveWrap],
	nextRule grammar.Rule,
	targetRule grammar.Rule,
	data *wrapDataBuilder,
) {
	for _, id := range g.MatchesOf(nextRule) {
		recursiveCalculateAllDestinationMatchesForMatch(g, empty, prevMatches, id, targetRule, data)
	}
}

func recursiveCalculateAllDestinationMatchesForMatch(
	g *grammar.Grammar,
	empty *EmptyRuleSolver,
	prevMatches *util.Path[recursiveWrap],
	nextMatch grammar.MatchID,
	targetRule grammar.Rule,
	data *wrapDataBuilder,
) {
	m := g.Get(nextMatch)

	for i, term := range m.Terms {
		switch term.Kind {
		case grammar.TermToken, grammar.TermGroup:
			return
		case grammar.TermRule:
			key := matchPositionKey{ID: nextMatch, Index: i}
			nextMatches := prevMatches.Push(recursiveWrap{index: key})

			if !recursiveWrapsContainMatch(prevMatches, nextMatch) {
				recursiveCalculateAllDestinationMatchesForRule(g, empty, nextMatches, term.Rule, targetRule, data)
			}

			if term.Rule == targetRule {
				extendBuilderFromMatches(g, empty, nextMatches, data)
			}
		}
	}
}

func recursiveWrapsContainMatch(wraps *util.Path[recursiveWrap], matchID grammar.MatchID) bool {
	return wraps.Contains(recursiveWrap{index: matchPositionKey{ID: matchID}}, func(a, b recursiveWrap) bool {
		return a.index.ID == matchID
	})
}

func areTermsEmpty(terms []grammar.Term, empty *EmptyRuleSolver) bool {
	for _, term := range terms {
		rule, ok := term.IsRule()
		if !ok {
			return false
		}
		if !empty.IsEmpty(rule) {
			return false
		}
	}
	return true
}

func termsIntoEmptys(terms []grammar.Term, empty *EmptyRuleSolver) []EmptySolverRuleValue {
	var out []EmptySolverRuleValue
	for _, term := range terms {
		rule, ok := term.IsRule()
		if !ok {
			panic("solver: termsIntoEmptys: non-rule term where only empty-derivable rule terms were expected")
		}
		rv, ok := empty.Get(rule)
		if !ok {
			panic("solver: termsIntoEmptys: rule term is not empty-derivable where it was expected to be")
		}
		out = append(out, rv)
	}
	return out
}

func extendBuilderFromMatches(g *grammar.Grammar, empty *EmptyRuleSolver, prevMatches *util.Path[recursiveWrap], data *wrapDataBuilder) {
	var emptyWrapActions []EmptyWrapAction
	fullListEmpty := true

	for _, wrap := range prevMatches.Values() {
		m := g.Get(wrap.index.ID)

		if wrap.index.Index < len(m.Terms)-1 {
			action := WrapAction{
				IfMatches:   matchPositionKey{ID: wrap.index.ID, Index: wrap.index.Index + 1},
				WrapActions: append([]EmptyWrapAction{}, emptyWrapActions...),
				AppendEmpty: termsIntoEmptys(m.Terms[0:wrap.index.Index], empty),
			}

			data.wrapActions[action.IfMatches] = append(data.wrapActions[action.IfMatches], action)
		}

		leftTerms := m.Terms[0:wrap.index.Index]
		rightTerms := m.Terms[wrap.index.Index+1:]

		if areTermsEmpty(leftTerms, empty) && areTermsEmpty(rightTerms, empty) {
			emptyWrapActions = append(emptyWrapActions, EmptyWrapAction{
				MatchID:    wrap.index.ID,
				LeftEmpty:  termsIntoEmptys(leftTerms, empty),
				RightEmpty: termsIntoEmptys(rightTerms, empty),
			})
		} else {
			fullListEmpty = false
			break
		}
	}

	if fullListEmpty {
		data.insertActions = append(data.insertActions, InsertAction{WrapActions: emptyWrapActions})
	}
}

func pickBestInsertAction(actions []InsertAction) *InsertAction {
	var best *InsertAction
	bestScore := 0

	for i := range actions {
		score := len(actions[i].WrapActions)
		if best == nil || score < bestScore {
			a := actions[i]
			best = &a
			bestScore = score
		}
	}

	return best
}

func pickBestWrapAction(actions []WrapAction) WrapAction {
	var best *WrapAction
	bestScore := 0

	for i := range actions {
		a := actions[i]

		depthScore := len(a.WrapActions) * 100
		wrapEmptyScore := 0
		for _, w := range a.WrapActions {
			wrapEmptyScore += len(w.LeftEmpty) + len(w.RightEmpty)
		}
		appendScore := len(a.AppendEmpty)

		score := depthScore + wrapEmptyScore + appendScore

		if best == nil || score < bestScore {
			best = &a
			bestScore = score
		}
	}

	return *best
}
