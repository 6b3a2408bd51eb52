package expression

import (
	"strconv"
	"strings"
)

// String prints the expression. Top-level functions go on their own line
// prefixed by "| "; nested chains stay on one line.
func (a *AST) String() string {
	if a == nil {
		return ""
	}
	return printChain(a.Chain, 0)
}

func printChain(chain []Function, level int) string {
	sep := "\n| "
	if level > 0 {
		sep = " | "
	}
	parts := make([]string, 0, len(chain))
	for _, fn := range chain {
		parts = append(parts, printFunction(fn, level))
	}
	return strings.Join(parts, sep)
}

func printFunction(fn Function, level int) string {
	var b strings.Builder
	b.WriteString(fn.Name)
	for _, arg := range fn.Args {
		for _, v := range arg.Values {
			b.WriteByte(' ')
			if arg.Name != "_" {
				b.WriteString(arg.Name)
				b.WriteByte('=')
			}
			b.WriteString(printValue(v, level))
		}
	}
	return b.String()
}

func printValue(v Value, level int) string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNull:
		return "null"
	case KindExpression:
		return "{" + printChain(v.Expr.Chain, level+1) + "}"
	}
	return `"` + quoteEscaper.Replace(v.Str) + `"`
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
