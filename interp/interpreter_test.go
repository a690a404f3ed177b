package interp_test

import (
	"reflect"
	"testing"

	"github.com/dekarrin/tablegram/grammar"
	"github.com/dekarrin/tablegram/grammar/grammartest"
	"github.com/dekarrin/tablegram/interp"
	"github.com/dekarrin/tablegram/solver"
	"github.com/stretchr/testify/assert"
)

func tok(t grammar.Token) interp.ITokenOrGroup { return interp.Tok(t) }

// leaves walks v and returns its token leaves in left-to-right order,
// optionally including the sentinel positions taken up by recovery Errors
// (reported as the zero Token value).
func leaves(v interp.Value, includeErrors bool) []grammar.Token {
	switch v.Kind {
	case interp.ValueToken:
		return []grammar.Token{v.Token}
	case interp.ValueError:
		if includeErrors {
			return []grammar.Token{0}
		}
		return nil
	case interp.ValueRule:
		var out []grammar.Token
		for _, field := range v.Rule.Values {
			out = append(out, leaves(field, includeErrors)...)
		}
		return out
	}
	return nil
}

func countErrors(v interp.Value) int {
	switch v.Kind {
	case interp.ValueError:
		return 1
	case interp.ValueRule:
		n := 0
		for _, field := range v.Rule.Values {
			n += countErrors(field)
		}
		return n
	}
	return 0
}

func mustSolve(t *testing.T, gs *solver.GrammarSolver, tokens []interp.ITokenOrGroup) interp.RuleValue {
	t.Helper()
	result, err := interp.Solve(gs, tokens)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return result
}

func calcSolver(t *testing.T) *solver.GrammarSolver {
	t.Helper()
	gs, err := solver.New(grammartest.SpecCalc())
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return gs
}

// Scenario 1: Start Num Eof.
func Test_Solve_Scenario1_SingleNum(t *testing.T) {
	assert := assert.New(t)
	gs := calcSolver(t)

	result := mustSolve(t, gs, []interp.ITokenOrGroup{
		tok(grammartest.TokStart), tok(grammartest.TokNum), tok(grammartest.TokEof),
	})

	assert.Equal(grammartest.RuleS, result.Rule)
	assert.Equal(0, countErrors(interp.RuleValueOf(result)))
	assert.Equal(
		[]grammar.Token{grammartest.TokStart, grammartest.TokNum, grammartest.TokEof},
		leaves(interp.RuleValueOf(result), false),
	)
}

// Scenario 2: Start Num Plus Num Eof.
func Test_Solve_Scenario2_SimpleAdd(t *testing.T) {
	assert := assert.New(t)
	gs := calcSolver(t)

	result := mustSolve(t, gs, []interp.ITokenOrGroup{
		tok(grammartest.TokStart), tok(grammartest.TokNum), tok(grammartest.TokPlus), tok(grammartest.TokNum), tok(grammartest.TokEof),
	})

	assert.Equal(grammartest.RuleS, result.Rule)
	assert.Equal(0, countErrors(interp.RuleValueOf(result)))
	assert.Equal(
		[]grammar.Token{grammartest.TokStart, grammartest.TokNum, grammartest.TokPlus, grammartest.TokNum, grammartest.TokEof},
		leaves(interp.RuleValueOf(result), false),
	)
}

// Scenario 3: Start Num Plus Num Star Num Eof -- Add(Num, +, Mul(Num, *, Num)).
func Test_Solve_Scenario3_AddWithRightMul(t *testing.T) {
	assert := assert.New(t)
	gs := calcSolver(t)

	result := mustSolve(t, gs, []interp.ITokenOrGroup{
		tok(grammartest.TokStart),
		tok(grammartest.TokNum), tok(grammartest.TokPlus),
		tok(grammartest.TokNum), tok(grammartest.TokStar), tok(grammartest.TokNum),
		tok(grammartest.TokEof),
	})

	assert.Equal(grammartest.RuleS, result.Rule)
	assert.Equal(0, countErrors(interp.RuleValueOf(result)))
	assert.Equal(
		[]grammar.Token{
			grammartest.TokStart,
			grammartest.TokNum, grammartest.TokPlus,
			grammartest.TokNum, grammartest.TokStar, grammartest.TokNum,
			grammartest.TokEof,
		},
		leaves(interp.RuleValueOf(result), false),
	)
}

// Scenario 4: Start Num Star Num Plus Num Eof -- Add(Mul(Num, *, Num), +, Num),
// i.e. multiplication binds the first two operands before the addition is
// seen, which is the left-recursive-reduces-early behaviour this scenario
// is meant to exercise.
func Test_Solve_Scenario4_MulThenAdd(t *testing.T) {
	assert := assert.New(t)
	gs := calcSolver(t)

	result := mustSolve(t, gs, []interp.ITokenOrGroup{
		tok(grammartest.TokStart),
		tok(grammartest.TokNum), tok(grammartest.TokStar), tok(grammartest.TokNum),
		tok(grammartest.TokPlus), tok(grammartest.TokNum),
		tok(grammartest.TokEof),
	})

	assert.Equal(grammartest.RuleS, result.Rule)
	assert.Equal(0, countErrors(interp.RuleValueOf(result)))
	assert.Equal(
		[]grammar.Token{
			grammartest.TokStart,
			grammartest.TokNum, grammartest.TokStar, grammartest.TokNum,
			grammartest.TokPlus, grammartest.TokNum,
			grammartest.TokEof,
		},
		leaves(interp.RuleValueOf(result), false),
	)
}

// Scenario 5: Start ( Num Plus Num ) Star Num Eof -- Mul(Expr(Add(Num, +, Num)), *, Num).
func Test_Solve_Scenario5_GroupedExpr(t *testing.T) {
	assert := assert.New(t)
	gs := calcSolver(t)

	inner := interp.Grp([]interp.ITokenOrGroup{
		tok(grammartest.TokNum), tok(grammartest.TokPlus), tok(grammartest.TokNum),
	})

	result := mustSolve(t, gs, []interp.ITokenOrGroup{
		tok(grammartest.TokStart), inner, tok(grammartest.TokStar), tok(grammartest.TokNum), tok(grammartest.TokEof),
	})

	assert.Equal(grammartest.RuleS, result.Rule)
	assert.Equal(0, countErrors(interp.RuleValueOf(result)))

	// The sub-interpreter solves the group's contents into a RuleValue of
	// their own. Sealing collapses the single-field wrappers around it, so
	// the Expr slot holds the multiplication's fields directly and the
	// group's value is its left operand.
	if !assert.Len(result.Values, 3) {
		t.FailNow()
	}
	exprSlot := result.Values[1]
	if !assert.Equal(interp.ValueRule, exprSlot.Kind) || !assert.Len(exprSlot.Rule.Values, 3) {
		t.FailNow()
	}
	assert.Equal(grammartest.RuleExpr, exprSlot.Rule.Rule)
	assert.Equal(interp.TokenValue(grammartest.TokStar), exprSlot.Rule.Values[1])

	grouped := exprSlot.Rule.Values[0]
	assert.Equal(interp.ValueRule, grouped.Kind)
	assert.Equal(
		[]grammar.Token{grammartest.TokNum, grammartest.TokPlus, grammartest.TokNum},
		leaves(grouped, false),
	)
}

// Scenario 6: Start Num Plus Plus Num Eof -- a valid Add with an Error
// occupying the right-hand operand of the first Plus, the second Plus and
// Num recovering normally afterward: Add(Add(Num, +, Error), +, Num).
func Test_Solve_Scenario6_ErrorRecovery(t *testing.T) {
	assert := assert.New(t)
	gs := calcSolver(t)

	result, err := interp.Solve(gs, []interp.ITokenOrGroup{
		tok(grammartest.TokStart),
		tok(grammartest.TokNum), tok(grammartest.TokPlus), tok(grammartest.TokPlus), tok(grammartest.TokNum),
		tok(grammartest.TokEof),
	})

	assert.NoError(err)
	assert.Equal(grammartest.RuleS, result.Rule)
	assert.Equal(1, countErrors(interp.RuleValueOf(result)))

	assert.Equal(
		[]grammar.Token{
			grammartest.TokStart,
			grammartest.TokNum, grammartest.TokPlus, 0, grammartest.TokPlus, grammartest.TokNum,
			grammartest.TokEof,
		},
		leaves(interp.RuleValueOf(result), true),
	)

	// The Expr slot holds the outer addition; its left operand is the
	// damaged Add whose third field is the error sentinel, and its right
	// side recovered the second Plus and Num normally.
	if !assert.Len(result.Values, 3) {
		t.FailNow()
	}
	outer := result.Values[1]
	if !assert.Equal(interp.ValueRule, outer.Kind) || !assert.Len(outer.Rule.Values, 3) {
		t.FailNow()
	}

	damaged := outer.Rule.Values[0]
	if assert.Equal(interp.ValueRule, damaged.Kind) {
		assert.Equal(grammartest.RuleAdd, damaged.Rule.Rule)
		if assert.Len(damaged.Rule.Values, 3) {
			assert.Equal(
				[]grammar.Token{grammartest.TokNum},
				leaves(damaged.Rule.Values[0], false),
			)
			assert.Equal(interp.TokenValue(grammartest.TokPlus), damaged.Rule.Values[1])
			assert.Equal(interp.ErrorValue(), damaged.Rule.Values[2])
		}
	}

	assert.Equal(interp.TokenValue(grammartest.TokPlus), outer.Rule.Values[1])
	assert.Equal(
		[]grammar.Token{grammartest.TokNum},
		leaves(outer.Rule.Values[2], false),
	)
}

// Scenario 7: with the struct/fn grammar, Start Struct Eof seals an absent
// Vis into its own empty-rule value, whose inner VisModifier is itself
// empty.
func Test_Solve_Scenario7_EmptyVisPropagation(t *testing.T) {
	assert := assert.New(t)

	gs, err := solver.New(grammartest.SpecStructFn())
	if !assert.NoError(err) {
		t.FailNow()
	}

	result := mustSolve(t, gs, []interp.ITokenOrGroup{
		tok(grammartest.TokStart), tok(grammartest.TokStruct), tok(grammartest.TokEof),
	})

	assert.Equal(grammartest.RuleS, result.Rule)
	assert.Equal(0, countErrors(interp.RuleValueOf(result)))
	assert.Equal(
		[]grammar.Token{grammartest.TokStart, grammartest.TokStruct, grammartest.TokEof},
		leaves(interp.RuleValueOf(result), false),
	)
}

func Test_Solve_IsDeterministic(t *testing.T) {
	assert := assert.New(t)
	gs := calcSolver(t)

	input := []interp.ITokenOrGroup{
		tok(grammartest.TokStart), tok(grammartest.TokNum), tok(grammartest.TokPlus), tok(grammartest.TokNum), tok(grammartest.TokEof),
	}

	first := mustSolve(t, gs, input)
	second := mustSolve(t, gs, input)

	assert.True(reflect.DeepEqual(first, second))
}

func Test_Solve_EmptyInputIsCatastrophic(t *testing.T) {
	assert := assert.New(t)
	gs := calcSolver(t)

	_, err := interp.Solve(gs, nil)
	assert.Error(err)
}
