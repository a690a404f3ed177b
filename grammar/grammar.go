// Package grammar defines the data model for a fixed-token, rule-based
// context-free grammar: tokens, groups, rules, matches (productions), and the
// Grammar that collects them. It is the entity layer that the solver and
// interp packages are built on top of; it has no notion of analysis or
// parsing, only of declaration.
package grammar

import "fmt"

// Token identifies one member of the grammar's finite terminal alphabet. The
// zero value is not a valid token; callers declare their own token values
// starting from 1 (or use iota-based constants in their own package).
type Token int

// Group identifies one member of the grammar's finite alphabet of bracketed
// subparse groups. Each group carries, wherever it is used as a Term, the
// rule that a nested parse of its contents must produce.
type Group int

// Rule names one non-terminal of the grammar. Like Token and Group, callers
// supply their own enumeration.
type Rule int

func (r Rule) String() string {
	return fmt.Sprintf("Rule(%d)", int(r))
}

// TermKind distinguishes the three kinds of Term.
type TermKind int

const (
	TermToken TermKind = iota
	TermGroup
	TermRule
)

func (k TermKind) String() string {
	switch k {
	case TermToken:
		return "Token"
	case TermGroup:
		return "Group"
	case TermRule:
		return "Rule"
	default:
		return fmt.Sprintf("TermKind(%d)", int(k))
	}
}

// Term is one element of a Match's production. It is a closed sum of a
// token, a group tagged with its inner rule, or a reference to another rule.
type Term struct {
	Kind  TermKind
	Token Token
	Group Group
	Rule  Rule
}

// TermT builds a Term for a bare token.
func TermT(t Token) Term { return Term{Kind: TermToken, Token: t} }

// TermG builds a Term for a bracketed group whose contents parse as rule r.
func TermG(g Group, r Rule) Term { return Term{Kind: TermGroup, Group: g, Rule: r} }

// TermR builds a Term referring to another rule.
func TermR(r Rule) Term { return Term{Kind: TermRule, Rule: r} }

// IsRule returns the rule this term refers to and whether it is a rule term
// at all.
func (t Term) IsRule() (Rule, bool) {
	if t.Kind == TermRule {
		return t.Rule, true
	}
	return 0, false
}

// IsTerminal returns whether this term is a token or a group (i.e. not a
// rule reference).
func (t Term) IsTerminal() bool {
	return t.Kind == TermToken || t.Kind == TermGroup
}

func (t Term) String() string {
	switch t.Kind {
	case TermToken:
		return fmt.Sprintf("Token(%d)", int(t.Token))
	case TermGroup:
		return fmt.Sprintf("Group(%d->%d)", int(t.Group), int(t.Rule))
	case TermRule:
		return fmt.Sprintf("Rule(%d)", int(t.Rule))
	default:
		return "Term(?)"
	}
}

// Match is a single production: the rule it belongs to, plus its ordered
// sequence of terms.
type Match struct {
	Rule  Rule
	Terms []Term
}

// Arity returns the number of terms in the match.
func (m Match) Arity() int {
	return len(m.Terms)
}

// MatchID is a dense, stable, order-of-declaration identifier for a Match
// within a Grammar.
type MatchID int

func (id MatchID) String() string {
	return fmt.Sprintf("MatchID(%d)", int(id))
}

// Grammar is an ordered collection of matches, plus the indices derived from
// them: which matches belong to which rule, and at what position within that
// rule's list. A Grammar is built incrementally via Add and is treated as
// immutable once handed to solver.New.
type Grammar struct {
	matches        []Match
	rules          []Rule
	ruleMatches    map[Rule][]MatchID
	ruleMatchIndex map[MatchID]int
}

// New returns an empty Grammar.
func New() *Grammar {
	return &Grammar{
		ruleMatches:    make(map[Rule][]MatchID),
		ruleMatchIndex: make(map[MatchID]int),
	}
}

// Add appends a new match (rule -> terms) to the grammar and returns its
// freshly assigned MatchID. Match-ids are dense and assigned in declaration
// order; the first Add call's rule becomes the implicit root rule for
// parsing (root match-id is always 0).
func (g *Grammar) Add(rule Rule, terms []Term) MatchID {
	id := MatchID(len(g.matches))
	g.matches = append(g.matches, Match{Rule: rule, Terms: terms})

	if _, ok := g.ruleMatches[rule]; !ok {
		g.rules = append(g.rules, rule)
	}
	g.ruleMatches[rule] = append(g.ruleMatches[rule], id)
	g.ruleMatchIndex[id] = len(g.ruleMatches[rule]) - 1

	return id
}

// Get returns the match for the given id. It panics if id is out of range,
// which indicates a programming error by the caller (an id not obtained
// from this Grammar).
func (g *Grammar) Get(id MatchID) Match {
	return g.matches[id]
}

// MatchesOf returns the ordered list of match-ids belonging to rule, or nil
// if the rule has no matches declared.
func (g *Grammar) MatchesOf(rule Rule) []MatchID {
	return g.ruleMatches[rule]
}

// RuleMatchIndex returns the index of id within its rule's match list, as
// returned by MatchesOf.
func (g *Grammar) RuleMatchIndex(id MatchID) int {
	return g.ruleMatchIndex[id]
}

// RuleOf returns the rule that the given match belongs to.
func (g *Grammar) RuleOf(id MatchID) Rule {
	return g.matches[id].Rule
}

// IterRules returns every rule that has at least one declared match, in
// order of each rule's first declaration. The fixed order keeps derived
// tables (in particular the empty-rule witnesses, which are chosen
// first-found) identical across runs.
func (g *Grammar) IterRules() []Rule {
	rules := make([]Rule, len(g.rules))
	copy(rules, g.rules)
	return rules
}

// IterMatches returns every match-id in declaration order.
func (g *Grammar) IterMatches() []MatchID {
	ids := make([]MatchID, len(g.matches))
	for i := range g.matches {
		ids[i] = MatchID(i)
	}
	return ids
}

// RootID returns the match-id of the grammar's root match: match-id 0, the
// first one declared via Add.
func (g *Grammar) RootID() MatchID {
	return MatchID(0)
}

// RootRule returns the rule of the root match.
func (g *Grammar) RootRule() Rule {
	return g.RuleOf(g.RootID())
}
