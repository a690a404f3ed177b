// Package grammartest builds the canonical grammar fixtures reused by the
// grammar, solver, and interp test suites. It is not itself a test package
// so that every package's _test.go files can import it, matching the shared
// fixture file pattern used by internal/ictiobus/parse's table-builder
// tests in the teacher repo.
package grammartest

import "github.com/dekarrin/tablegram/grammar"

const (
	TokNum grammar.Token = iota + 1
	TokPlus
	TokStar
	TokPub
	TokFn
	TokStruct
	TokCrate
	TokEof
	TokStart
)

const (
	GroupParens grammar.Group = iota + 1
)

const (
	RuleS grammar.Rule = iota + 1
	RuleExpr
	RuleAdd
	RuleMul
	RuleTerm

	RuleVis
	RuleVisModifier
	RuleStruct
	RuleFn
)

// Calc builds the arithmetic-expression grammar:
//
//	S     -> Expr Eof
//	Expr  -> Add
//	Add   -> Add Plus Mul | Mul
//	Mul   -> Mul Star Term | Term
//	Term  -> Num | ( Expr )
func Calc() *grammar.Grammar {
	g := grammar.New()
	g.Add(RuleS, []grammar.Term{grammar.TermR(RuleExpr), grammar.TermT(TokEof)})
	g.Add(RuleExpr, []grammar.Term{grammar.TermR(RuleAdd)})
	g.Add(RuleAdd, []grammar.Term{grammar.TermR(RuleAdd), grammar.TermT(TokPlus), grammar.TermR(RuleMul)})
	g.Add(RuleAdd, []grammar.Term{grammar.TermR(RuleMul)})
	g.Add(RuleMul, []grammar.Term{grammar.TermR(RuleMul), grammar.TermT(TokStar), grammar.TermR(RuleTerm)})
	g.Add(RuleMul, []grammar.Term{grammar.TermR(RuleTerm)})
	g.Add(RuleTerm, []grammar.Term{grammar.TermT(TokNum)})
	g.Add(RuleTerm, []grammar.Term{grammar.TermG(GroupParens, RuleExpr)})
	return g
}

// StructFn builds a grammar with two independently optional leading
// visibility declarations:
//
//	S      -> Expr Eof
//	Expr   -> Struct | Fn
//	Struct -> Vis Struct
//	Fn     -> Vis Fn
//	Vis    -> ε | Pub VisModifier
//	VisModifier -> Star | ε
func StructFn() *grammar.Grammar {
	g := grammar.New()
	g.Add(RuleS, []grammar.Term{grammar.TermR(RuleExpr), grammar.TermT(TokEof)})
	g.Add(RuleExpr, []grammar.Term{grammar.TermR(RuleStruct)})
	g.Add(RuleExpr, []grammar.Term{grammar.TermR(RuleFn)})
	g.Add(RuleStruct, []grammar.Term{grammar.TermR(RuleVis), grammar.TermT(TokStruct)})
	g.Add(RuleFn, []grammar.Term{grammar.TermR(RuleVis), grammar.TermT(TokFn)})
	g.Add(RuleVis, []grammar.Term{})
	g.Add(RuleVis, []grammar.Term{grammar.TermT(TokPub), grammar.TermR(RuleVisModifier)})
	g.Add(RuleVisModifier, []grammar.Term{grammar.TermT(TokStar)})
	g.Add(RuleVisModifier, []grammar.Term{})
	return g
}

// Array builds a left-recursive list grammar whose base case is itself
// empty-derivable:
//
//	S    -> Expr Eof
//	Expr -> Expr Term | Term | ε
//	Term -> Num
func Array() *grammar.Grammar {
	g := grammar.New()
	g.Add(RuleS, []grammar.Term{grammar.TermR(RuleExpr), grammar.TermT(TokEof)})
	g.Add(RuleExpr, []grammar.Term{grammar.TermR(RuleExpr), grammar.TermR(RuleTerm)})
	g.Add(RuleExpr, []grammar.Term{grammar.TermR(RuleTerm)})
	g.Add(RuleExpr, []grammar.Term{})
	g.Add(RuleTerm, []grammar.Term{grammar.TermT(TokNum)})
	return g
}

// SpecCalc builds the same calculator shape as Calc but with a leading
// Start token on the root rule, matching the literal grammar used by the
// end-to-end interpreter scenarios:
//
//	S     -> Start Expr Eof
//	Expr  -> Add
//	Add   -> Add Plus Mul | Mul
//	Mul   -> Mul Star Term | Term
//	Term  -> Num | ( Expr )
func SpecCalc() *grammar.Grammar {
	g := grammar.New()
	g.Add(RuleS, []grammar.Term{grammar.TermT(TokStart), grammar.TermR(RuleExpr), grammar.TermT(TokEof)})
	g.Add(RuleExpr, []grammar.Term{grammar.TermR(RuleAdd)})
	g.Add(RuleAdd, []grammar.Term{grammar.TermR(RuleAdd), grammar.TermT(TokPlus), grammar.TermR(RuleMul)})
	g.Add(RuleAdd, []grammar.Term{grammar.TermR(RuleMul)})
	g.Add(RuleMul, []grammar.Term{grammar.TermR(RuleMul), grammar.TermT(TokStar), grammar.TermR(RuleTerm)})
	g.Add(RuleMul, []grammar.Term{grammar.TermR(RuleTerm)})
	g.Add(RuleTerm, []grammar.Term{grammar.TermT(TokNum)})
	g.Add(RuleTerm, []grammar.Term{grammar.TermG(GroupParens, RuleExpr)})
	return g
}

// SpecStructFn builds the same struct/fn shape as StructFn but with a
// leading Start token on the root rule, matching the end-to-end
// interpreter scenario for this grammar.
func SpecStructFn() *grammar.Grammar {
	g := grammar.New()
	g.Add(RuleS, []grammar.Term{grammar.TermT(TokStart), grammar.TermR(RuleExpr), grammar.TermT(TokEof)})
	g.Add(RuleExpr, []grammar.Term{grammar.TermR(RuleStruct)})
	g.Add(RuleExpr, []grammar.Term{grammar.TermR(RuleFn)})
	g.Add(RuleStruct, []grammar.Term{grammar.TermR(RuleVis), grammar.TermT(TokStruct)})
	g.Add(RuleFn, []grammar.Term{grammar.TermR(RuleVis), grammar.TermT(TokFn)})
	g.Add(RuleVis, []grammar.Term{})
	g.Add(RuleVis, []grammar.Term{grammar.TermT(TokPub), grammar.TermR(RuleVisModifier)})
	g.Add(RuleVisModifier, []grammar.Term{grammar.TermT(TokStar)})
	g.Add(RuleVisModifier, []grammar.Term{})
	return g
}
