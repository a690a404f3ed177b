package solver_test

import (
	"testing"

	"github.com/dekarrin/tablegram/grammar/grammartest"
	"github.com/dekarrin/tablegram/solver"
	"github.com/stretchr/testify/assert"
)

func Test_SealRules_Calc_FullySatisfiedTermSeals(t *testing.T) {
	assert := assert.New(t)

	g := grammartest.Calc()
	empty := solver.NewEmptyRuleSolver(g)
	seal := solver.NewSealRules(g, empty)

	// Term -> Num, once the Num token has been shifted (index 1, past the
	// single term), seals directly into Term with nothing left to append.
	termNum := g.MatchesOf(grammartest.RuleTerm)[0]
	action, ok := seal.Of(termNum, 1)
	assert.True(ok)
	assert.Equal(grammartest.RuleTerm, action.IntoRule)
	assert.Empty(action.AppendExtra)

	// The same match can't seal before any terms have been consumed, since
	// Num is not empty-derivable.
	_, ok = seal.Of(termNum, 0)
	assert.False(ok)
}

func Test_SealRules_StructFn_EmptyVisSealsImmediately(t *testing.T) {
	assert := assert.New(t)

	g := grammartest.StructFn()
	empty := solver.NewEmptyRuleSolver(g)
	seal := solver.NewSealRules(g, empty)

	// Vis's empty match seals at position 0 with nothing to append.
	visEmpty := g.MatchesOf(grammartest.RuleVis)[0]
	action, ok := seal.Of(visEmpty, 0)
	assert.True(ok)
	assert.Equal(grammartest.RuleVis, action.IntoRule)
	assert.Empty(action.AppendExtra)
}

func Test_SealRules_Array_SealsAtEveryPositionOfEmptyMatch(t *testing.T) {
	assert := assert.New(t)

	g := grammartest.Array()
	empty := solver.NewEmptyRuleSolver(g)
	seal := solver.NewSealRules(g, empty)

	exprEmpty := g.MatchesOf(grammartest.RuleExpr)[2]
	action, ok := seal.Of(exprEmpty, 0)
	assert.True(ok)
	assert.Equal(grammartest.RuleExpr, action.IntoRule)
}
