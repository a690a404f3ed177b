package gdebug

import (
	"fmt"
	"strings"

	"github.com/dekarrin/tablegram/grammar"
	"github.com/dekarrin/tablegram/interp"
)

// Prefixes used when rendering a RuleValue tree, in the same
// first-line/continuation-line box-drawing style as a conventional AST
// dumper: a branch gets "|---:", the last branch in a list gets "\---:",
// and continuation lines under a non-last branch carry a "|" down to the
// next sibling.
const (
	treeBranch     = "|---: "
	treeLastBranch = "\\---: "
	treeOngoing    = "|   "
	treeEmpty      = "    "
)

// Tree renders v as an indented, prefixed tree the same shape as
// internal/tunascript's parseTree.String(): one line per Value, error
// sentinels and tokens rendered as terminals, rule values as labeled
// subtrees.
func Tree(v interp.Value) string {
	return leveledStr(v, "", "")
}

func leveledStr(v interp.Value, firstPrefix, contPrefix string) string {
	var sb strings.Builder
	sb.WriteString(firstPrefix)

	switch v.Kind {
	case interp.ValueToken:
		sb.WriteString(fmt.Sprintf("(TOKEN %d)", int(v.Token)))
		return sb.String()
	case interp.ValueError:
		sb.WriteString("(ERROR)")
		return sb.String()
	case interp.ValueRule:
		sb.WriteString(fmt.Sprintf("( %s )", ruleLabel(v.Rule.Rule)))
		for i, field := range v.Rule.Values {
			sb.WriteRune('\n')
			var childFirst, childCont string
			if i+1 < len(v.Rule.Values) {
				childFirst = contPrefix + treeBranch
				childCont = contPrefix + treeOngoing
			} else {
				childFirst = contPrefix + treeLastBranch
				childCont = contPrefix + treeEmpty
			}
			sb.WriteString(leveledStr(field, childFirst, childCont))
		}
		return sb.String()
	}

	return sb.String()
}

func ruleLabel(r grammar.Rule) string {
	return r.String()
}
