// Package gsyntax is the external frontend collaborator spec.md places
// outside the core: it builds a *grammar.Grammar (and the symbol table a
// caller needs to translate between names and IDs) from a declarative TOML
// source file, the same way internal/tqw builds game data from TOML-based
// TQW files. Nothing in grammar, solver, or interp imports this package.
package gsyntax

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/tablegram/gerrors"
	"github.com/dekarrin/tablegram/grammar"
	"github.com/dekarrin/tablegram/internal/util"
)

// tomlTerm is one element of a match's terms list. Exactly one of Token,
// Rule, or Group is set; Group additionally requires Rule to name the inner
// rule the group's contents parse as.
type tomlTerm struct {
	Token string `toml:"token"`
	Rule  string `toml:"rule"`
	Group string `toml:"group"`
}

type tomlMatch struct {
	Terms []tomlTerm `toml:"terms"`
}

type tomlRule struct {
	Name    string      `toml:"name"`
	Matches []tomlMatch `toml:"matches"`
}

// tomlGrammar is the root shape a gsyntax source file decodes into. Tokens
// and Groups are declared as explicit name->id tables (the ids are the
// actual grammar.Token/grammar.Group values the built Grammar will carry);
// Rules is declared as an ordered list so that the first rule's first match
// becomes the root match, matching grammar.Grammar's own "first Add call is
// the root" convention.
type tomlGrammar struct {
	Tokens map[string]int `toml:"tokens"`
	Groups map[string]int `toml:"groups"`
	Rules  []tomlRule     `toml:"rules"`
}

// Symbols is the name<->ID mapping gsyntax assigns while building a Grammar,
// returned alongside it so that a CLI or debug frontend can translate
// between the names a human wrote in the source file and the dense IDs the
// core package operates on.
type Symbols struct {
	Tokens map[string]grammar.Token
	Groups map[string]grammar.Group
	Rules  map[string]grammar.Rule

	TokenNames map[grammar.Token]string
	GroupNames map[grammar.Group]string
	RuleNames  map[grammar.Rule]string
}

// TokenNamed returns the name for the given token, or "?" if none is known.
func (s Symbols) TokenNamed(t grammar.Token) string {
	if n, ok := s.TokenNames[t]; ok {
		return n
	}
	return "?"
}

// RuleNamed returns the name for the given rule, or "?" if none is known.
func (s Symbols) RuleNamed(r grammar.Rule) string {
	if n, ok := s.RuleNames[r]; ok {
		return n
	}
	return "?"
}

// LoadFile reads path and parses it as a gsyntax TOML grammar source file.
func LoadFile(path string) (*grammar.Grammar, Symbols, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Symbols{}, gerrors.Wrap(err, "read %s: %v", path, err)
	}
	return Parse(data)
}

// locTrail tracks the nested "rules[i].matches[j].terms[k]" breadcrumb for
// error messages while Parse walks the decoded TOML document. It is backed
// by util.Stack the same way the teacher tracks nested scopes elsewhere:
// Push on the way down, one Pop per level on the way out, and the exported
// Of field is joined directly for display since
// no randomly-indexed access into the trail is ever needed here.
type locTrail struct {
	stack util.Stack[string]
}

func (t *locTrail) push(seg string) {
	t.stack.Push(seg)
}

func (t *locTrail) pop() {
	t.stack.Pop()
}

func (t *locTrail) String() string {
	return strings.Join(t.stack.Of, ".")
}

// Parse decodes data as a gsyntax TOML grammar source and builds the
// corresponding *grammar.Grammar. Rule names may be referenced (as a match's
// rule term, or as a group's inner rule) before their [[rules]] entry
// appears later in the file; rule IDs are assigned in order of first
// mention across the whole document, not in declaration order, so forward
// references resolve correctly.
func Parse(data []byte) (*grammar.Grammar, Symbols, error) {
	var doc tomlGrammar
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, Symbols{}, gerrors.Wrap(err, "TOML decode: %v", err)
	}

	sym := Symbols{
		Tokens:     map[string]grammar.Token{},
		Groups:     map[string]grammar.Group{},
		Rules:      map[string]grammar.Rule{},
		TokenNames: map[grammar.Token]string{},
		GroupNames: map[grammar.Group]string{},
		RuleNames:  map[grammar.Rule]string{},
	}

	for name, id := range doc.Tokens {
		if id == 0 {
			return nil, Symbols{}, gerrors.Analysisf("gsyntax: token %q: id 0 is reserved, not a valid token", name)
		}
		sym.Tokens[name] = grammar.Token(id)
		sym.TokenNames[grammar.Token(id)] = name
	}
	if dupes := duplicateIDNames(doc.Tokens); len(dupes) > 0 {
		return nil, Symbols{}, gerrors.Analysisf("gsyntax: token names share an id with another token: %s", util.MakeTextList(dupes))
	}
	for name, id := range doc.Groups {
		if id == 0 {
			return nil, Symbols{}, gerrors.Analysisf("gsyntax: group %q: id 0 is reserved, not a valid group", name)
		}
		sym.Groups[name] = grammar.Group(id)
		sym.GroupNames[grammar.Group(id)] = name
	}
	if dupes := duplicateIDNames(doc.Groups); len(dupes) > 0 {
		return nil, Symbols{}, gerrors.Analysisf("gsyntax: group names share an id with another group: %s", util.MakeTextList(dupes))
	}

	if err := assignRuleIDs(doc, &sym); err != nil {
		return nil, Symbols{}, err
	}

	g := grammar.New()
	trail := &locTrail{}

	for ri, rt := range doc.Rules {
		trail.push(fmt.Sprintf("rules[%d:%s]", ri, rt.Name))
		rule := sym.Rules[rt.Name]

		for mi, mt := range rt.Matches {
			trail.push(fmt.Sprintf("matches[%d]", mi))

			terms := make([]grammar.Term, len(mt.Terms))
			for ti, tt := range mt.Terms {
				trail.push(fmt.Sprintf("terms[%d]", ti))
				term, err := resolveTerm(sym, tt)
				if err != nil {
					return nil, Symbols{}, gerrors.Analysisf("gsyntax: %s: %v", trail, err)
				}
				terms[ti] = term
				trail.pop()
			}

			g.Add(rule, terms)
			trail.pop()
		}
		trail.pop()
	}

	return g, sym, nil
}

// assignRuleIDs scans every rule-name mention in the document - a [[rules]]
// entry's own name, a match term's rule reference, and a group term's inner
// rule - in file order, and assigns dense grammar.Rule ids in first-mention
// order. The first [[rules]] entry is required to be the first name
// mentioned, since grammar.Grammar's root match (id 0) must belong to it.
func assignRuleIDs(doc tomlGrammar, sym *Symbols) error {
	mention := func(name string) {
		if name == "" {
			return
		}
		if _, ok := sym.Rules[name]; ok {
			return
		}
		id := grammar.Rule(len(sym.Rules) + 1)
		sym.Rules[name] = id
		sym.RuleNames[id] = name
	}

	for _, rt := range doc.Rules {
		mention(rt.Name)
		for _, mt := range rt.Matches {
			for _, tt := range mt.Terms {
				mention(tt.Rule)
			}
		}
	}

	if len(doc.Rules) == 0 {
		return gerrors.Analysisf("gsyntax: grammar declares no rules")
	}
	if doc.Rules[0].Name == "" {
		return gerrors.Analysisf("gsyntax: first declared rule must have a name")
	}
	if id := sym.Rules[doc.Rules[0].Name]; id != 1 {
		return gerrors.Analysisf("gsyntax: rule %q must be the first rule mentioned anywhere in the document (it is the root rule)", doc.Rules[0].Name)
	}

	return nil
}

// duplicateIDNames scans a name->id table and returns, for any id value
// claimed by more than one name, the offending names, sorted for
// deterministic error output.
func duplicateIDNames[ID comparable](byName map[string]ID) []string {
	byID := map[ID][]string{}
	for name, id := range byName {
		byID[id] = append(byID[id], name)
	}

	var dupes []string
	for _, names := range byID {
		if len(names) > 1 {
			sort.Strings(names)
			dupes = append(dupes, names...)
		}
	}
	sort.Strings(dupes)
	return dupes
}

// resolveTerm converts one decoded tomlTerm into a grammar.Term. Exactly one
// of its three forms must be present: token, rule, or group (group also
// requires rule, naming the group's inner rule).
func resolveTerm(sym Symbols, tt tomlTerm) (grammar.Term, error) {
	switch {
	case tt.Group != "":
		if tt.Rule == "" {
			return grammar.Term{}, fmt.Errorf("group term must also specify its inner rule")
		}
		g, ok := sym.Groups[tt.Group]
		if !ok {
			return grammar.Term{}, fmt.Errorf("unknown group name %q", tt.Group)
		}
		r, ok := sym.Rules[tt.Rule]
		if !ok {
			return grammar.Term{}, fmt.Errorf("unknown rule name %q", tt.Rule)
		}
		return grammar.TermG(g, r), nil
	case tt.Token != "":
		tok, ok := sym.Tokens[tt.Token]
		if !ok {
			return grammar.Term{}, fmt.Errorf("unknown token name %q", tt.Token)
		}
		return grammar.TermT(tok), nil
	case tt.Rule != "":
		r, ok := sym.Rules[tt.Rule]
		if !ok {
			return grammar.Term{}, fmt.Errorf("unknown rule name %q", tt.Rule)
		}
		return grammar.TermR(r), nil
	default:
		return grammar.Term{}, fmt.Errorf("term declares none of token/rule/group")
	}
}
