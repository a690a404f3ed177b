// Package gdebug renders a solver.GrammarSolver's analysis tables and an
// interp.RuleValue's parse tree as human-readable text, for debugging and
// demo CLI output. It is not part of the core; nothing in grammar, solver,
// or interp imports it.
package gdebug

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/tablegram/grammar"
	"github.com/dekarrin/tablegram/solver"
)

// FirstSetsTable renders gs's first sets as a grid: one row per rule, its
// first-set alternatives rendered as a semicolon-separated cell, the way
// internal/ictiobus/parse's LR table String() methods render one row per
// parser state.
func FirstSetsTable(gs *solver.GrammarSolver, rules []grammar.Rule) string {
	data := [][]string{{"Rule", "First-set alternatives"}}

	for _, rule := range rules {
		sets := gs.FirstSetForRule(rule)
		data = append(data, []string{rule.String(), formatFirstSets(sets)})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 100, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// FollowSetsTable renders the follow-set alternatives available at every
// position of every match, "-" where reduction is the only option.
func FollowSetsTable(gs *solver.GrammarSolver, matchIDs []grammar.MatchID) string {
	data := [][]string{{"Match", "Index", "Continue with"}}

	for _, id := range matchIDs {
		m := gs.Match(id)
		for i := 0; i <= len(m.Terms); i++ {
			sets := gs.FollowSetForMatch(id, i)
			data = append(data, []string{id.String(), fmt.Sprintf("%d", i), formatFollowSets(sets)})
		}
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 100, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// WrapSetsTable renders the wrap/insert data computed for every potential
// stack disconnect, one row per (parent, child) rule pair.
func WrapSetsTable(gs *solver.GrammarSolver) string {
	data := [][]string{{"Parent", "Child", "Actions"}}

	for _, ctx := range gs.WrapContexts() {
		wd, ok := gs.WrapDataFor(ctx.Parent, ctx.Child)
		if !ok {
			continue
		}
		data = append(data, []string{ctx.Parent.String(), ctx.Child.String(), formatWrapData(wd)})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 100, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// SealRulesTable renders the seal action available at every position of
// every match in gs's grammar, "-" where none exists.
func SealRulesTable(gs *solver.GrammarSolver, matchIDs []grammar.MatchID) string {
	data := [][]string{{"Match", "Index", "Seals into"}}

	for _, id := range matchIDs {
		m := gs.Match(id)
		for i := 0; i <= len(m.Terms); i++ {
			cell := "-"
			if action, ok := gs.SealActionForMatch(id, i); ok {
				cell = fmt.Sprintf("%s (+%d empty)", action.IntoRule, len(action.AppendExtra))
			}
			data = append(data, []string{id.String(), fmt.Sprintf("%d", i), cell})
		}
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 100, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func formatFirstSets(sets []solver.FirstSet) string {
	if len(sets) == 0 {
		return "-"
	}

	out := ""
	for i, fs := range sets {
		if i > 0 {
			out += "; "
		}
		out += formatTokens(fs.Tokens)
	}
	return out
}

func formatFollowSets(sets []solver.FollowSet) string {
	if len(sets) == 0 {
		return "-"
	}

	out := ""
	for i, fs := range sets {
		if i > 0 {
			out += "; "
		}
		switch fs.Kind {
		case solver.FollowDirect:
			out += "shift " + formatTokens(fs.Tokens)
		case solver.FollowEnter:
			out += "enter " + fs.Rule.String()
		}
		if len(fs.AppendExtra) > 0 {
			out += fmt.Sprintf(" (+%d empty)", len(fs.AppendExtra))
		}
	}
	return out
}

func formatWrapData(wd solver.WrapData) string {
	var parts []string
	for _, a := range wd.WrapActions {
		parts = append(parts, fmt.Sprintf(
			"at %s[%d]: wrap x%d (+%d empty)",
			a.IfMatches.ID, a.IfMatches.Index, len(a.WrapActions), len(a.AppendEmpty),
		))
	}
	if wd.InsertAction != nil {
		parts = append(parts, fmt.Sprintf("insert x%d", len(wd.InsertAction.WrapActions)))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "; ")
}

func formatTokens(tokens []solver.ITokenOrGroup) string {
	out := ""
	for j, tok := range tokens {
		if j > 0 {
			out += " "
		}
		switch tok.Kind {
		case solver.TOGToken:
			out += fmt.Sprintf("T%d", int(tok.Token))
		case solver.TOGGroup:
			out += fmt.Sprintf("G%d", int(tok.Group))
		}
	}
	return out
}
