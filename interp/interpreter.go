package interp

import (
	"github.com/dekarrin/tablegram/gerrors"
	"github.com/dekarrin/tablegram/grammar"
	"github.com/dekarrin/tablegram/solver"
)

// Interpreter is a one-shot shift/reduce stack machine over a single input
// stream, driven by the tables of a solver.GrammarSolver. Interpreters
// created internally to parse the contents of a bracketed group are
// independent of their parent's stack.
type Interpreter struct {
	stack  []stackItem
	reader *TokenReader
	solver *solver.GrammarSolver
}

// Solve parses tokens against gs's root rule and returns the resulting
// parse tree, or an error if the input could not be fully reduced.
func Solve(gs *solver.GrammarSolver, tokens []ITokenOrGroup) (RuleValue, error) {
	interp := &Interpreter{
		reader: NewTokenReader(tokens),
		solver: gs,
	}
	return interp.solve(gs.RootRule())
}

func (in *Interpreter) solve(rootRule grammar.Rule) (RuleValue, error) {
	firstSet := in.solver.FirstSetForRule(rootRule)
	if !in.solveFirstSet(nil, firstSet) {
		return RuleValue{}, gerrors.NoMatch("start of input")
	}

	for {
		mi := in.matchIndexOfTopStackItem()

		followSet := in.solver.FollowSetForMatch(mi.ID, mi.Index)
		shifted, err := in.solveFollowSets(followSet)
		if err != nil {
			return RuleValue{}, err
		}
		if shifted {
			continue
		}

		result, resolved, err := in.reduce()
		if err != nil {
			if rerr := in.recover(); rerr != nil {
				return RuleValue{}, rerr
			}
			continue
		}
		if resolved {
			return result, nil
		}
	}
}

// wrapStatusKind distinguishes the four outcomes of inspecting a stack
// frame during the reduce phase.
type wrapStatusKind int

const (
	wsMatches wrapStatusKind = iota
	wsError
	wsWrapWith
	wsInsertIntoAbove
)

type wrapStatus struct {
	kind         wrapStatusKind
	wrapAbove    []solver.EmptyWrapAction
	matchID      grammar.MatchID
	appendBefore []solver.EmptySolverRuleValue
	sealAppend   []solver.EmptySolverRuleValue
}

// reduce walks the stack from the top down, collecting a wrap/insert action
// per frame, until some frame's follow set matches the lookahead (the frames
// above it fold down into it), a WrapWith halts the walk, or the bottom is
// reached. The collected actions are then applied top to bottom, innermost
// first. The second return value reports whether the whole parse is complete
// (the stack emptied via InsertIntoAbove at index 0).
func (in *Interpreter) reduce() (RuleValue, bool, error) {
	var actions []wrapStatus

	i := len(in.stack) - 1
	for {
		hasChild := i != len(in.stack)-1

		status := in.wrapStatusForStackItem(i, hasChild)

		switch status.kind {
		case wsMatches:
			goto apply
		case wsError:
			return RuleValue{}, false, gerrors.NoMatch("reduce")
		default:
			actions = append(actions, status)
			if status.kind == wsWrapWith {
				goto apply
			}
		}

		if i == 0 {
			break
		}
		i--
	}

apply:
	for _, action := range actions {
		switch action.kind {
		case wsWrapWith:
			in.appendEmptys(action.sealAppend)
			for _, w := range action.wrapAbove {
				in.wrapTopStackItemIntoEmpty(w)
			}
			value := in.sealTopStackItem()

			in.stack = append(in.stack, stackItem{
				linkedToAbove: false,
				match:         MatchValue{MatchID: action.matchID},
			})

			in.appendEmptys(action.appendBefore)
			in.appendValue(value)
		case wsInsertIntoAbove:
			in.appendEmptys(action.sealAppend)
			for _, w := range action.wrapAbove {
				in.wrapTopStackItemIntoEmpty(w)
			}
			value := in.sealTopStackItem()

			if len(in.stack) == 0 {
				if value.Kind != ValueRule {
					panic("interp: root reduction did not produce a rule value")
				}
				return value.Rule, true, nil
			}

			in.appendValue(value)
		}
	}

	return RuleValue{}, false, nil
}

// recoveryActionKind distinguishes the three entries a recovery plan can
// hold, one per stack frame visited during the planning walk.
type recoveryActionKind int

const (
	// recAppendError fills the frame's next position(s) with error
	// sentinels, stopping the walk.
	recAppendError recoveryActionKind = iota
	// recInsertIntoAbove seals the (fully satisfied) frame, wraps it
	// through the listed empty matches, and folds the result into the frame
	// below.
	recInsertIntoAbove
	// recDiscardChildAndInsertError drops the frame entirely and leaves an
	// error sentinel in the frame below where its value would have gone.
	recDiscardChildAndInsertError
)

type recoveryAction struct {
	kind       recoveryActionKind
	wrapAbove  []solver.EmptyWrapAction
	errorCount int
}

// recover runs after reduce could make no progress: it plans a walk down the
// stack that pads the first salvageable frame out to a workable position
// with error sentinels, discarding any fully-satisfied frames above it that
// nothing accepts. When no frame is salvageable against the current
// lookahead, one input item is skipped and planning restarts; running out of
// input at that point is the unrecoverable case.
func (in *Interpreter) recover() error {
	for {
		plan, ok := in.buildRecoveryPlan()
		if ok {
			in.executeRecoveryPlan(plan)
			return nil
		}

		if _, ok := in.reader.Next(); !ok {
			return gerrors.InputExhausted()
		}
	}
}

func (in *Interpreter) buildRecoveryPlan() ([]recoveryAction, bool) {
	var plan []recoveryAction

	pending := 0
	for i := len(in.stack) - 1; i >= 0; i-- {
		item := in.stack[i]
		m := in.solver.Match(item.match.MatchID)
		cur := len(item.match.Values) + pending

		appended := 0
		for pos := cur + 1; pos <= len(m.Terms); pos++ {
			appended++
			if in.canContinueFrom(item.match.MatchID, pos) {
				plan = append(plan, recoveryAction{kind: recAppendError, errorCount: appended})
				return plan, true
			}
		}

		// The frame is already full (or nothing past it is workable with
		// this lookahead); it has to go. Frame 0 is never discarded: if even
		// the root frame cannot continue, the caller skips input instead.
		if i == 0 {
			return nil, false
		}

		switch {
		case item.linkedToAbove:
			plan = append(plan, recoveryAction{kind: recInsertIntoAbove})
		default:
			insert, ok := in.recoveryInsertFor(i)
			if ok {
				plan = append(plan, recoveryAction{kind: recInsertIntoAbove, wrapAbove: insert})
			} else {
				plan = append(plan, recoveryAction{kind: recDiscardChildAndInsertError})
			}
		}
		pending = 1
	}

	return nil, false
}

// canContinueFrom reports whether the parse could proceed from the given
// position: either a follow-set alternative matches the lookahead, or the
// position is sealable so the ordinary reduce walk can take over.
func (in *Interpreter) canContinueFrom(id grammar.MatchID, index int) bool {
	if in.doesFollowSetMatch(in.solver.FollowSetForMatch(id, index)) {
		return true
	}
	_, ok := in.solver.SealActionForMatch(id, index)
	return ok
}

// recoveryInsertFor looks up the wrap chain for folding the (full) frame at
// index into the frame below it, per the same wrap data the reduce phase
// consults.
func (in *Interpreter) recoveryInsertFor(index int) ([]solver.EmptyWrapAction, bool) {
	below := in.stack[index-1]
	m := in.solver.Match(below.match.MatchID)
	cursor := len(below.match.Values)
	if cursor >= len(m.Terms) {
		return nil, false
	}

	parentRule, ok := m.Terms[cursor].IsRule()
	if !ok {
		return nil, false
	}
	childRule := in.solver.MatchRule(in.stack[index].match.MatchID)

	wrapData, ok := in.solver.WrapDataFor(parentRule, childRule)
	if !ok || wrapData.InsertAction == nil {
		return nil, false
	}
	return wrapData.InsertAction.WrapActions, true
}

// executeRecoveryPlan applies the plan's entries in the order they were
// collected; each entry operates on whatever frame the preceding entries
// have left on top.
func (in *Interpreter) executeRecoveryPlan(plan []recoveryAction) {
	for _, action := range plan {
		switch action.kind {
		case recAppendError:
			for n := 0; n < action.errorCount; n++ {
				in.appendValue(ErrorValue())
			}
		case recInsertIntoAbove:
			for _, w := range action.wrapAbove {
				in.wrapTopStackItemIntoEmpty(w)
			}
			value := in.sealTopStackItem()
			in.appendValue(value)
		case recDiscardChildAndInsertError:
			in.stack = in.stack[:len(in.stack)-1]
			in.appendValue(ErrorValue())
		}
	}
}

func (in *Interpreter) getMatchingFirstSet(firstSets []solver.FirstSet) (solver.FirstSet, bool) {
	for _, fs := range firstSets {
		if in.matchesTokens(fs.Tokens) {
			return fs, true
		}
	}
	return solver.FirstSet{}, false
}

func (in *Interpreter) insertFirstSetData(set solver.FirstSet) {
	for _, action := range set.Then {
		in.stack = append(in.stack, stackItem{
			linkedToAbove: action.LinkedToBelow,
			match: MatchValue{
				MatchID: action.ID,
				Values:  processEmptyItems(action.Fields),
			},
		})
	}
}

func (in *Interpreter) solveFirstSet(appendEmptys []solver.EmptySolverRuleValue, firstSets []solver.FirstSet) bool {
	set, ok := in.getMatchingFirstSet(firstSets)
	if !ok {
		return false
	}

	if len(appendEmptys) > 0 {
		in.appendEmptys(appendEmptys)
	}

	in.insertFirstSetData(set)
	return true
}

func (in *Interpreter) doesFollowSetMatch(followSets []solver.FollowSet) bool {
	for _, set := range followSets {
		switch set.Kind {
		case solver.FollowDirect:
			if in.matchesTokens(set.Tokens) {
				return true
			}
		case solver.FollowEnter:
			firstSets := in.solver.FirstSetForRule(set.Rule)
			if _, ok := in.getMatchingFirstSet(firstSets); ok {
				return true
			}
		}
	}
	return false
}

func (in *Interpreter) solveFollowSets(followSets []solver.FollowSet) (bool, error) {
	for _, set := range followSets {
		switch set.Kind {
		case solver.FollowDirect:
			if in.matchesTokens(set.Tokens) {
				in.appendEmptys(set.AppendExtra)
				if err := in.parseTokens(set.Tokens); err != nil {
					return false, err
				}
				return true, nil
			}
		case solver.FollowEnter:
			firstSets := in.solver.FirstSetForRule(set.Rule)
			if in.solveFirstSet(set.AppendExtra, firstSets) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (in *Interpreter) parseTokens(tokens []solver.ITokenOrGroup) error {
	top := len(in.stack) - 1

	for _, tog := range tokens {
		item, ok := in.reader.Next()
		if !ok {
			panic("interp: parseTokens: input exhausted mid-shift")
		}

		switch tog.Kind {
		case solver.TOGToken:
			if item.Kind != ITGToken {
				panic("interp: parseTokens: expected token, got group")
			}
			in.stack[top].match.Values = append(in.stack[top].match.Values, TokenValue(item.Token))
		case solver.TOGGroup:
			if item.Kind != ITGGroup {
				panic("interp: parseTokens: expected group, got token")
			}
			sub := &Interpreter{reader: NewTokenReader(item.Group), solver: in.solver}
			ruleValue, err := sub.solve(tog.Rule)
			if err != nil {
				return gerrors.Wrap(err, "parse of bracketed group contents failed")
			}
			in.stack[top].match.Values = append(in.stack[top].match.Values, RuleValueOf(ruleValue))
		}
	}

	return nil
}

func (in *Interpreter) appendEmptys(items []solver.EmptySolverRuleValue) {
	top := len(in.stack) - 1
	for _, item := range items {
		in.stack[top].match.Values = append(in.stack[top].match.Values, processEmptyItem(item))
	}
}

func (in *Interpreter) appendValue(v Value) {
	top := len(in.stack) - 1
	in.stack[top].match.Values = append(in.stack[top].match.Values, v)
}

func processEmptyItem(item solver.EmptySolverRuleValue) Value {
	return RuleValueOf(RuleValue{
		Rule:    item.Rule,
		MatchID: item.MatchValue.ID,
		Values:  processEmptyItems(item.MatchValue.Fields),
	})
}

func processEmptyItems(items []solver.EmptySolverRuleValue) []Value {
	values := make([]Value, len(items))
	for i, item := range items {
		values[i] = processEmptyItem(item)
	}
	return values
}

func (in *Interpreter) matchesTokens(tokens []solver.ITokenOrGroup) bool {
	for i, tog := range tokens {
		if !in.reader.DoesMatch(i, tog) {
			return false
		}
	}
	return true
}

// sealTopStackItem collapses the top stack frame into a RuleValue per its
// seal action, pops it, and returns the resulting Value. When the frame has
// exactly one field and that field is itself a rule value, the frame's own
// identity is discarded in favor of the inner rule's match-id and values so
// that single-child wrapper rules don't build up useless nesting in the
// printed tree.
func (in *Interpreter) sealTopStackItem() Value {
	mi := in.matchIndexOfTopStackItem()

	action, ok := in.solver.SealActionForMatch(mi.ID, mi.Index)
	if !ok {
		panic("interp: sealTopStackItem: no seal action found")
	}

	in.appendEmptys(action.AppendExtra)

	top := in.stack[len(in.stack)-1]
	in.stack = in.stack[:len(in.stack)-1]

	shouldPropagate := false
	if len(top.match.Values) == 1 && top.match.Values[0].Kind == ValueRule {
		shouldPropagate = true
	}

	if shouldPropagate {
		inner := top.match.Values[0].Rule
		return RuleValueOf(RuleValue{
			Rule:    action.IntoRule,
			MatchID: inner.MatchID,
			Values:  inner.Values,
		})
	}

	return RuleValueOf(RuleValue{
		Rule:    action.IntoRule,
		MatchID: top.match.MatchID,
		Values:  top.match.Values,
	})
}

func (in *Interpreter) wrapTopStackItemIntoEmpty(empty solver.EmptyWrapAction) {
	sealed := in.sealTopStackItem()

	newMatch := MatchValue{MatchID: empty.MatchID}

	for _, left := range empty.LeftEmpty {
		newMatch.Values = append(newMatch.Values, processEmptyItem(left))
	}
	newMatch.Values = append(newMatch.Values, sealed)
	for _, right := range empty.RightEmpty {
		newMatch.Values = append(newMatch.Values, processEmptyItem(right))
	}

	in.stack = append(in.stack, stackItem{linkedToAbove: false, match: newMatch})
}

func (in *Interpreter) matchIndexOf(index int) solver.MatchPosition {
	item := in.stack[index]
	return solver.NewMatchPositionAt(in.solver.Grammar(), item.match.MatchID, len(item.match.Values))
}

func (in *Interpreter) matchIndexOfTopStackItem() solver.MatchPosition {
	return in.matchIndexOf(len(in.stack) - 1)
}

func (in *Interpreter) matchIndexIfChildInserted(index int) solver.MatchPosition {
	item := in.stack[index]
	return solver.NewMatchPositionAt(in.solver.Grammar(), item.match.MatchID, len(item.match.Values)+1)
}

func (in *Interpreter) expectingRuleForStackItem(index int) grammar.Rule {
	mi := in.matchIndexOf(index)
	m := in.solver.Match(mi.ID)
	rule, ok := m.Terms[mi.Index].IsRule()
	if !ok {
		panic("interp: expectingRuleForStackItem: term at cursor is not a rule")
	}
	return rule
}

func (in *Interpreter) wrapStatusForStackItem(index int, hasChild bool) wrapStatus {
	var mi solver.MatchPosition
	if hasChild {
		mi = in.matchIndexIfChildInserted(index)
	} else {
		mi = in.matchIndexOf(index)
	}

	followSet := in.solver.FollowSetForMatch(mi.ID, mi.Index)
	if in.doesFollowSetMatch(followSet) {
		return wrapStatus{kind: wsMatches}
	}

	sealAction, ok := in.solver.SealActionForMatch(mi.ID, mi.Index)
	if !ok {
		return wrapStatus{kind: wsError}
	}

	item := in.stack[index]

	if item.linkedToAbove {
		return wrapStatus{kind: wsInsertIntoAbove, sealAppend: sealAction.AppendExtra}
	}

	if index == 0 {
		return wrapStatus{kind: wsError}
	}

	parentRule := in.expectingRuleForStackItem(index - 1)
	childRule := in.solver.MatchRule(mi.ID)

	wrapData, ok := in.solver.WrapDataFor(parentRule, childRule)
	if !ok {
		return wrapStatus{kind: wsError}
	}

	for _, action := range wrapData.WrapActions {
		fs := in.solver.FollowSetForMatch(action.IfMatches.ID, action.IfMatches.Index)
		if in.doesFollowSetMatch(fs) {
			return wrapStatus{
				kind:         wsWrapWith,
				wrapAbove:    action.WrapActions,
				matchID:      action.IfMatches.ID,
				appendBefore: action.AppendEmpty,
				sealAppend:   sealAction.AppendExtra,
			}
		}
	}

	if wrapData.InsertAction != nil {
		parentMI := in.matchIndexIfChildInserted(index - 1)
		parentFollowSet := in.solver.FollowSetForMatch(parentMI.ID, parentMI.Index)
		if in.doesFollowSetMatch(parentFollowSet) || len(parentFollowSet) == 0 {
			return wrapStatus{
				kind:       wsInsertIntoAbove,
				wrapAbove:  wrapData.InsertAction.WrapActions,
				sealAppend: sealAction.AppendExtra,
			}
		}
	}

	return wrapStatus{kind: wsError}
}
