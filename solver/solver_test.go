package solver_test

import (
	"testing"

	"github.com/dekarrin/tablegram/grammar"
	"github.com/dekarrin/tablegram/grammar/grammartest"
	"github.com/dekarrin/tablegram/solver"
	"github.com/stretchr/testify/assert"
)

func Test_New_BuildsAllTables(t *testing.T) {
	testCases := []struct {
		name    string
		grammar func() *grammar.Grammar
	}{
		{name: "calc", grammar: grammartest.Calc},
		{name: "struct/fn", grammar: grammartest.StructFn},
		{name: "array", grammar: grammartest.Array},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			gs, err := solver.New(tc.grammar())
			if !assert.NoError(err) {
				return
			}

			assert.NotNil(gs.EmptyRules)
			assert.NotNil(gs.First)
			assert.NotNil(gs.Follow)
			assert.NotNil(gs.Seal)
			assert.NotNil(gs.Wrap)
		})
	}
}

func Test_New_RejectsCyclicalGrammar(t *testing.T) {
	assert := assert.New(t)

	g := grammar.New()
	g.Add(grammartest.RuleS, []grammar.Term{grammar.TermR(grammartest.RuleExpr)})
	g.Add(grammartest.RuleExpr, []grammar.Term{grammar.TermR(grammartest.RuleS)})

	_, err := solver.New(g)
	assert.Error(err)
}
