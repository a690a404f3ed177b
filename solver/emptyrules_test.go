package solver_test

import (
	"testing"

	"github.com/dekarrin/tablegram/grammar/grammartest"
	"github.com/dekarrin/tablegram/solver"
	"github.com/stretchr/testify/assert"
)

func Test_EmptyRuleSolver(t *testing.T) {
	t.Run("calc grammar has no empty rules", func(t *testing.T) {
		assert := assert.New(t)

		g := grammartest.Calc()
		empty := solver.NewEmptyRuleSolver(g)

		assert.False(empty.IsEmpty(grammartest.RuleExpr))
		assert.False(empty.IsEmpty(grammartest.RuleAdd))
		assert.False(empty.IsEmpty(grammartest.RuleMul))
		assert.False(empty.IsEmpty(grammartest.RuleTerm))
	})

	t.Run("struct/fn grammar: Vis and VisModifier are directly empty", func(t *testing.T) {
		assert := assert.New(t)

		g := grammartest.StructFn()
		empty := solver.NewEmptyRuleSolver(g)

		assert.True(empty.IsEmpty(grammartest.RuleVis))
		assert.True(empty.IsEmpty(grammartest.RuleVisModifier))
		assert.False(empty.IsEmpty(grammartest.RuleStruct))
		assert.False(empty.IsEmpty(grammartest.RuleFn))
	})

	t.Run("array grammar: Expr is directly empty through its empty base case", func(t *testing.T) {
		assert := assert.New(t)

		g := grammartest.Array()
		empty := solver.NewEmptyRuleSolver(g)

		assert.True(empty.IsEmpty(grammartest.RuleExpr))
		assert.False(empty.IsEmpty(grammartest.RuleTerm))

		rv, ok := empty.Get(grammartest.RuleExpr)
		assert.True(ok)
		assert.Equal(grammartest.RuleExpr, rv.Rule)
	})
}
