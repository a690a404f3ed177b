package solver

import "github.com/dekarrin/tablegram/grammar"

// ITokenOrGroupKind distinguishes the two terminal kinds a grounded position
// in a match can start with.
type ITokenOrGroupKind int

const (
	TOGToken ITokenOrGroupKind = iota
	TOGGroup
)

// ITokenOrGroup is a closed sum of a bare token or a bracketed group tagged
// with the rule its contents must parse as.
type ITokenOrGroup struct {
	Kind  ITokenOrGroupKind
	Token grammar.Token
	Group grammar.Group
	Rule  grammar.Rule
}

func togToken(t grammar.Token) ITokenOrGroup {
	return ITokenOrGroup{Kind: TOGToken, Token: t}
}

func togGroup(g grammar.Group, r grammar.Rule) ITokenOrGroup {
	return ITokenOrGroup{Kind: TOGGroup, Group: g, Rule: r}
}

// firstTerminalRun collects the run of terminals (tokens/groups) starting at
// startIndex in the given match, skipping over any number of leading
// empty-derivable rule terms. A rule term encountered after terminals have
// already been collected stops the run instead of being skipped, even if
// that rule is itself empty-derivable; a rule term that is not
// empty-derivable always stops the run.
func firstTerminalRun(g *grammar.Grammar, empty *EmptyRuleSolver, matchID grammar.MatchID, startIndex int) []ITokenOrGroup {
	var run []ITokenOrGroup

	m := g.Get(matchID)

	for _, term := range m.Terms[startIndex:] {
		switch term.Kind {
		case grammar.TermToken:
			run = append(run, togToken(term.Token))
		case grammar.TermGroup:
			run = append(run, togGroup(term.Group, term.Rule))
		case grammar.TermRule:
			if !empty.IsEmpty(term.Rule) || len(run) != 0 {
				return run
			}
		}
	}

	return run
}

// firstTerminalRunIndex returns the index within the match's terms at which
// firstTerminalRun would start collecting: the first token/group term,
// skipping any number of leading empty-derivable rule terms. It returns
// false if a non-empty-derivable rule term comes before any terminal, or if
// the match has no terminal at all (i.e. there is no grounded starting
// position).
func firstTerminalRunIndex(g *grammar.Grammar, empty *EmptyRuleSolver, matchID grammar.MatchID) (int, bool) {
	m := g.Get(matchID)

	for i, term := range m.Terms {
		switch term.Kind {
		case grammar.TermToken, grammar.TermGroup:
			return i, true
		case grammar.TermRule:
			if empty.IsEmpty(term.Rule) {
				continue
			}
			return 0, false
		}
	}

	return 0, false
}
