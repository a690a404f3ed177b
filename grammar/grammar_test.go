package grammar_test

import (
	"testing"

	"github.com/dekarrin/tablegram/grammar"
	"github.com/dekarrin/tablegram/grammar/grammartest"
	"github.com/stretchr/testify/assert"
)

func Test_Grammar_AddAndGet(t *testing.T) {
	assert := assert.New(t)

	g := grammartest.Calc()

	assert.Equal(grammartest.RuleS, g.RootRule())
	assert.Equal(grammar.MatchID(0), g.RootID())

	sMatches := g.MatchesOf(grammartest.RuleS)
	assert.Len(sMatches, 1)

	m := g.Get(sMatches[0])
	assert.Equal(grammartest.RuleS, m.Rule)
	assert.Equal(2, m.Arity())
	assert.Equal(grammartest.RuleExpr, m.Terms[0].Rule)
	assert.True(m.Terms[1].IsTerminal())
}

func Test_Grammar_RuleMatchIndex(t *testing.T) {
	assert := assert.New(t)

	g := grammartest.Calc()

	addMatches := g.MatchesOf(grammartest.RuleAdd)
	assert.Len(addMatches, 2)

	for i, id := range addMatches {
		assert.Equal(i, g.RuleMatchIndex(id))
		assert.Equal(grammartest.RuleAdd, g.RuleOf(id))
	}
}

func Test_Grammar_IterRules_DeclarationOrder(t *testing.T) {
	assert := assert.New(t)

	g := grammartest.Calc()

	assert.Equal([]grammar.Rule{
		grammartest.RuleS,
		grammartest.RuleExpr,
		grammartest.RuleAdd,
		grammartest.RuleMul,
		grammartest.RuleTerm,
	}, g.IterRules())
}

func Test_Term_IsRule(t *testing.T) {
	assert := assert.New(t)

	ruleTerm := grammar.TermR(grammartest.RuleExpr)
	rule, ok := ruleTerm.IsRule()
	assert.True(ok)
	assert.Equal(grammartest.RuleExpr, rule)

	tokenTerm := grammar.TermT(grammartest.TokNum)
	_, ok = tokenTerm.IsRule()
	assert.False(ok)
	assert.True(tokenTerm.IsTerminal())
}
