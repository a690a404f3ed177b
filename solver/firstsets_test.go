package solver_test

import (
	"testing"

	"github.com/dekarrin/tablegram/grammar"
	"github.com/dekarrin/tablegram/grammar/grammartest"
	"github.com/dekarrin/tablegram/solver"
	"github.com/stretchr/testify/assert"
)

func Test_FirstSets_Calc(t *testing.T) {
	assert := assert.New(t)

	g := grammartest.Calc()
	empty := solver.NewEmptyRuleSolver(g)
	first := solver.NewFirstSets(g, empty)

	// Expr's first terminal, descending through Add -> Mul -> Term, must be
	// either Num or an open-paren group; there is no empty base case to
	// short the search, so exactly those two alternatives are found.
	sets := first.Of(grammartest.RuleExpr)
	assert.Len(sets, 2)

	var sawNum, sawGroup bool
	for _, fs := range sets {
		assert.Len(fs.Tokens, 1)
		switch fs.Tokens[0].Kind {
		case solver.TOGToken:
			assert.Equal(grammartest.TokNum, fs.Tokens[0].Token)
			sawNum = true
		case solver.TOGGroup:
			assert.Equal(grammartest.GroupParens, fs.Tokens[0].Group)
			sawGroup = true
		}
	}
	assert.True(sawNum)
	assert.True(sawGroup)
}

func Test_FirstSets_StructFn_SkipsLeadingEmptyVis(t *testing.T) {
	assert := assert.New(t)

	g := grammartest.StructFn()
	empty := solver.NewEmptyRuleSolver(g)
	first := solver.NewFirstSets(g, empty)

	// Struct's only term before the grounding token is the empty-derivable
	// Vis rule, so Struct's first set must still find the Pub and Struct
	// tokens directly (skipping over Vis's empty case, or descending into
	// its non-empty "Pub VisModifier" case).
	sets := first.Of(grammartest.RuleStruct)
	assert.NotEmpty(sets)

	found := map[grammar.Token]bool{}
	for _, fs := range sets {
		if len(fs.Tokens) > 0 && fs.Tokens[0].Kind == solver.TOGToken {
			found[fs.Tokens[0].Token] = true
		}
	}
	assert.True(found[grammartest.TokStruct] || found[grammartest.TokPub])
}

func Test_FirstSets_Calc_LinkedChains(t *testing.T) {
	assert := assert.New(t)

	g := grammartest.Calc()
	empty := solver.NewEmptyRuleSolver(g)
	first := solver.NewFirstSets(g, empty)

	// Entering Expr descends Expr -> Add -> Mul -> Term, but the two Add
	// alternatives make the middle of that chain ambiguous: only the Expr
	// frame (common prefix) and the Mul -> Term / Term -> x frames (common
	// suffix) are pushed. The first suffix frame is the disconnection point
	// and must be the only unlinked one.
	for _, fs := range first.Of(grammartest.RuleExpr) {
		if assert.Len(fs.Then, 3) {
			assert.True(fs.Then[0].LinkedToBelow)
			assert.False(fs.Then[1].LinkedToBelow)
			assert.True(fs.Then[2].LinkedToBelow)
		}
	}

	// Term's own matches are reached by a single unambiguous path, so the
	// whole (one-frame) chain is connected.
	for _, fs := range first.Of(grammartest.RuleTerm) {
		if assert.Len(fs.Then, 1) {
			assert.True(fs.Then[0].LinkedToBelow)
		}
	}
}

func Test_FirstSets_PrefersLongerTokenRun(t *testing.T) {
	assert := assert.New(t)

	// Both of Expr's matches ground on runs starting with Num; the
	// two-token run has to sort ahead of the one-token run so the more
	// specific alternative wins disambiguation.
	g := grammar.New()
	g.Add(grammartest.RuleS, []grammar.Term{grammar.TermR(grammartest.RuleExpr), grammar.TermT(grammartest.TokEof)})
	g.Add(grammartest.RuleExpr, []grammar.Term{grammar.TermT(grammartest.TokNum), grammar.TermT(grammartest.TokNum)})
	g.Add(grammartest.RuleExpr, []grammar.Term{grammar.TermT(grammartest.TokNum)})

	empty := solver.NewEmptyRuleSolver(g)
	first := solver.NewFirstSets(g, empty)

	sets := first.Of(grammartest.RuleExpr)
	if assert.Len(sets, 2) {
		assert.Len(sets[0].Tokens, 2)
		assert.Len(sets[1].Tokens, 1)
	}
}

func Test_FirstSets_Array_HasEmptyAlternative(t *testing.T) {
	assert := assert.New(t)

	g := grammartest.Array()
	empty := solver.NewEmptyRuleSolver(g)
	first := solver.NewFirstSets(g, empty)

	sets := first.Of(grammartest.RuleExpr)
	assert.NotEmpty(sets)
}
