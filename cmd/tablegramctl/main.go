/*
Tablegramctl loads a gsyntax TOML grammar file, builds its analysis tables,
and starts an interactive session that parses whitespace-separated token
names typed at the prompt and prints the resulting parse tree.

Usage:

	tablegramctl [flags]

The flags are:

	-g, --grammar FILE
		The gsyntax TOML grammar source file to load. Defaults to
		"grammar.toml" in the current working directory.

	-d, --direct
		Force reading directly from stdin instead of going through
		GNU readline based routines, even when connected to a tty.

	-c, --command TOKENS
		Immediately parse the given whitespace-separated token names and
		exit instead of starting an interactive session.

	-t, --tables
		Print the grammar's first-set, follow-set, seal-rule, and wrap-set
		tables before starting the session (or before running --command).

	-s, --save FILE
		After a successful parse, additionally write the resulting
		RuleValue tree to FILE in tablegram's binary persistence format.

Once a session has started, each line of input is split on whitespace and
each word is looked up as a token name declared in the grammar's [tokens]
table. Groups are not enterable from this simple line-based REPL; grammars
exercised interactively here should not require them at the top level. Type
"quit" to exit.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dekarrin/tablegram/gdebug"
	"github.com/dekarrin/tablegram/grammar"
	"github.com/dekarrin/tablegram/gsyntax"
	"github.com/dekarrin/tablegram/interp"
	"github.com/dekarrin/tablegram/persist"
	"github.com/dekarrin/tablegram/solver"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitInitError
	ExitParseError
)

var (
	returnCode  = ExitSuccess
	grammarFile = pflag.StringP("grammar", "g", "grammar.toml", "The gsyntax TOML grammar source file to load")
	forceDirect = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
	oneShot     = pflag.StringP("command", "c", "", "Immediately parse the given whitespace-separated token names and exit")
	showTables  = pflag.BoolP("tables", "t", false, "Print first-set, follow-set, seal-rule, and wrap-set tables before starting")
	saveFile    = pflag.StringP("save", "s", "", "After a successful parse, also save the RuleValue tree to this file")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	g, sym, err := gsyntax.LoadFile(*grammarFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		returnCode = ExitInitError
		return
	}

	gs, err := solver.New(g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: building analysis tables: %v\n", err)
		returnCode = ExitInitError
		return
	}

	if *showTables {
		fmt.Println(gdebug.FirstSetsTable(gs, ruleNames(sym)))
		fmt.Println(gdebug.FollowSetsTable(gs, g.IterMatches()))
		fmt.Println(gdebug.SealRulesTable(gs, g.IterMatches()))
		fmt.Println(gdebug.WrapSetsTable(gs))
	}

	if *oneShot != "" {
		runLine(gs, sym, *oneShot)
		return
	}

	runSession(gs, sym)
}

// ruleNames returns every rule gsyntax assigned a name to, in ascending
// grammar.Rule order, for stable --tables output.
func ruleNames(sym gsyntax.Symbols) []grammar.Rule {
	rules := make([]grammar.Rule, 0, len(sym.RuleNames))
	for r := range sym.RuleNames {
		rules = append(rules, r)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i] < rules[j] })
	return rules
}

func runSession(gs *solver.GrammarSolver, sym gsyntax.Symbols) {
	if *forceDirect || !isTerminal() {
		runDirect(gs, sym, os.Stdin)
		return
	}

	rl, err := readline.NewEx(&readline.Config{Prompt: "tablegram> "})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: starting readline: %v\n", err)
		returnCode = ExitInitError
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				return
			}
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}
		runLine(gs, sym, line)
	}
}

// runDirect reads newline-delimited commands straight off r, byte at a
// time, bypassing readline entirely - the model for this is
// input.DirectCommandReader.ReadCommand, used when stdin isn't a real tty
// (piped input, scripted runs) or --direct was passed explicitly.
func runDirect(gs *solver.GrammarSolver, sym gsyntax.Symbols, r io.Reader) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				line := strings.TrimSpace(sb.String())
				sb.Reset()
				if line == "quit" || line == "exit" {
					return
				}
				if line != "" {
					runLine(gs, sym, line)
				}
			} else {
				sb.WriteByte(buf[0])
			}
		}
		if err != nil {
			if sb.Len() > 0 {
				runLine(gs, sym, strings.TrimSpace(sb.String()))
			}
			return
		}
	}
}

func runLine(gs *solver.GrammarSolver, sym gsyntax.Symbols, line string) {
	words := strings.Fields(line)
	tokens := make([]interp.ITokenOrGroup, 0, len(words))

	for _, w := range words {
		tok, ok := sym.Tokens[w]
		if !ok {
			fmt.Fprintf(os.Stderr, "ERROR: unknown token name %q\n", w)
			returnCode = ExitParseError
			return
		}
		tokens = append(tokens, interp.Tok(tok))
	}

	rv, err := interp.Solve(gs, tokens)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		returnCode = ExitParseError
		return
	}

	fmt.Println(gdebug.Tree(interp.RuleValueOf(rv)))

	if *saveFile != "" {
		f, err := os.Create(*saveFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: creating %s: %v\n", *saveFile, err)
			return
		}
		defer f.Close()
		if err := persist.Save(f, rv); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: saving %s: %v\n", *saveFile, err)
		}
	}
}

func isTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
