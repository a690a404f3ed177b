package gsyntax_test

import (
	"testing"

	"github.com/dekarrin/tablegram/gsyntax"
	"github.com/dekarrin/tablegram/interp"
	"github.com/dekarrin/tablegram/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calcSrc = `
[tokens]
Num = 1
Plus = 2
Star = 3
Eof = 4

[groups]
Parens = 1

[[rules]]
name = "S"
  [[rules.matches]]
  terms = [ { rule = "Expr" }, { token = "Eof" } ]

[[rules]]
name = "Expr"
  [[rules.matches]]
  terms = [ { rule = "Add" } ]

[[rules]]
name = "Add"
  [[rules.matches]]
  terms = [ { rule = "Add" }, { token = "Plus" }, { rule = "Mul" } ]
  [[rules.matches]]
  terms = [ { rule = "Mul" } ]

[[rules]]
name = "Mul"
  [[rules.matches]]
  terms = [ { rule = "Mul" }, { token = "Star" }, { rule = "Term" } ]
  [[rules.matches]]
  terms = [ { rule = "Term" } ]

[[rules]]
name = "Term"
  [[rules.matches]]
  terms = [ { token = "Num" } ]
  [[rules.matches]]
  terms = [ { group = "Parens", rule = "Expr" } ]
`

func Test_Parse_CalcGrammar(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g, sym, err := gsyntax.Parse([]byte(calcSrc))
	require.NoError(err)

	assert.Equal("S", sym.RuleNamed(g.RootRule()))
	assert.Equal("Eof", sym.TokenNamed(sym.Tokens["Eof"]))

	gs, err := solver.New(g)
	require.NoError(err)

	num, plus, eof := sym.Tokens["Num"], sym.Tokens["Plus"], sym.Tokens["Eof"]

	tokens := []interp.ITokenOrGroup{
		interp.Tok(num), interp.Tok(plus), interp.Tok(num), interp.Tok(eof),
	}

	rv, err := interp.Solve(gs, tokens)
	require.NoError(err)
	assert.Equal(sym.Rules["S"], rv.Rule)
}

func Test_Parse_RejectsDuplicateTokenID(t *testing.T) {
	assert := assert.New(t)

	src := `
[tokens]
A = 1
B = 1

[[rules]]
name = "S"
  [[rules.matches]]
  terms = [ { token = "A" } ]
`
	_, _, err := gsyntax.Parse([]byte(src))
	assert.Error(err)
}

func Test_Parse_AllowsForwardRuleReference(t *testing.T) {
	assert := assert.New(t)

	src := `
[tokens]
A = 1

[[rules]]
name = "S"
  [[rules.matches]]
  terms = [ { rule = "Helper" } ]

[[rules]]
name = "Helper"
  [[rules.matches]]
  terms = [ { token = "A" } ]
`
	// Helper's [[rules]] entry comes second in the file but is mentioned
	// first inside S's match; S is still the first rule *named*, so it
	// keeps match-id 0 and this is accepted.
	_, _, err := gsyntax.Parse([]byte(src))
	assert.NoError(err)
}
