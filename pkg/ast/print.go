package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// PrintScriptFile renders a parsed script file back to source text. It is a
// pretty-printer in the loose sense named by the base round-trip property
// ("Parse-then-print... produces a string that re-parses to an equivalent
// syntax tree, modulo whitespace/comments"): it reproduces structure and
// literal values exactly, but not original formatting or comments.
func PrintScriptFile(f *ScriptFile) string {
	var b strings.Builder

	for i, s := range f.Scripts {
		if i > 0 {
			b.WriteByte('\n')
		}

		printScript(&b, s)
	}

	return b.String()
}

func printScript(b *strings.Builder, s *Script) {
	fmt.Fprintf(b, "[%s,%s]", s.Trigger, s.Name)

	if len(s.Parameters) > 0 {
		b.WriteByte('(')

		for i, p := range s.Parameters {
			if i > 0 {
				b.WriteString(", ")
			}

			fmt.Fprintf(b, "%s $%s", p.Type.Name, p.Name)
		}

		b.WriteByte(')')
	}

	if len(s.Returns) > 0 {
		b.WriteByte('(')

		for i, t := range s.Returns {
			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(t.Name)
		}

		b.WriteByte(')')
	}

	printBlock(b, s.Body)
	b.WriteByte('\n')
}

func printBlock(b *strings.Builder, blk *Block) {
	b.WriteString("{ ")

	for _, s := range blk.Stmts {
		printStmt(b, s)
		b.WriteByte(' ')
	}

	b.WriteByte('}')
}

func printStmt(b *strings.Builder, s Stmt) {
	switch n := s.(type) {
	case *Block:
		printBlock(b, n)
	case *If:
		b.WriteString("if (")
		printExpr(b, n.Cond)
		b.WriteString(") ")
		printBlock(b, n.Then)

		if n.Else != nil {
			b.WriteString(" else ")
			printBlock(b, n.Else)
		}
	case *While:
		b.WriteString("while (")
		printExpr(b, n.Cond)
		b.WriteString(") ")
		printBlock(b, n.Body)
	case *Return:
		b.WriteString("return")

		if len(n.Values) > 0 {
			b.WriteByte('(')
			printExprList(b, n.Values)
			b.WriteByte(')')
		}

		b.WriteByte(';')
	case *ExprStmt:
		printExpr(b, n.Value)
		b.WriteByte(';')
	case *VarDecl:
		fmt.Fprintf(b, "def_%s $%s", n.Type.Name, n.Name)

		if n.Init != nil {
			b.WriteString(" = ")
			printExpr(b, n.Init)
		}

		b.WriteByte(';')
	case *Assign:
		printExpr(b, n.Target)
		b.WriteString(" = ")
		printExpr(b, n.Value)
		b.WriteByte(';')
	default:
		panic(fmt.Sprintf("print: unhandled statement %T", s))
	}
}

func printExprList(b *strings.Builder, exprs []Expr) {
	for i, e := range exprs {
		if i > 0 {
			b.WriteString(", ")
		}

		printExpr(b, e)
	}
}

func printExpr(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case *VarExpr:
		b.WriteString(scopeSigil(n.Scope))
		b.WriteString(n.Name)
	case *Gosub:
		b.WriteByte('~')
		b.WriteString(n.Name)
		b.WriteByte('(')
		printExprList(b, n.Args)
		b.WriteByte(')')
	case *CommandCall:
		b.WriteString(n.Name)
		b.WriteByte('(')
		printExprList(b, n.Args)
		b.WriteByte(')')
	case *ConstRef:
		b.WriteString(n.Name)
	case *BinaryOp:
		printExpr(b, n.Left)
		fmt.Fprintf(b, " %s ", n.Op)
		printExpr(b, n.Right)
	case *Calc:
		b.WriteString("calc(")
		printExpr(b, n.Left)
		fmt.Fprintf(b, " %s ", n.Op)
		printExpr(b, n.Right)
		b.WriteByte(')')
	case *Concat:
		b.WriteByte('"')

		for _, part := range n.Parts {
			if lit, ok := part.(*StringLit); ok {
				b.WriteString(escapeString(lit.Value))
				continue
			}

			// Any non-literal part came from a "<...>" placeholder; print
			// the expression back into its placeholder form verbatim.
			b.WriteByte('<')
			printExpr(b, part)
			b.WriteByte('>')
		}

		b.WriteByte('"')
	case *IntLit:
		b.WriteString(strconv.FormatInt(int64(n.Value), 10))
	case *LongLit:
		b.WriteString(strconv.FormatInt(n.Value, 10))
		b.WriteByte('L')
	case *StringLit:
		b.WriteByte('"')
		b.WriteString(escapeString(n.Value))
		b.WriteByte('"')
	case *BoolLit:
		if n.Value {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case *Ident:
		b.WriteString(n.Name)
	default:
		panic(fmt.Sprintf("print: unhandled expression %T", e))
	}
}

func scopeSigil(s Scope) string {
	switch s {
	case ScopeLocal:
		return "$"
	case ScopePlayer:
		return "%"
	case ScopePlayerBit:
		return "%%"
	case ScopeClientInt:
		return "@"
	case ScopeClientString:
		return "^"
	default:
		return "$"
	}
}

func escapeString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)
	return r.Replace(s)
}

// PrintConfigFile renders a parsed config file back to source text.
func PrintConfigFile(f *ConfigFile) string {
	var b strings.Builder

	for i, c := range f.Configs {
		if i > 0 {
			b.WriteByte('\n')
		}

		printConfig(&b, c)
	}

	return b.String()
}

func printConfig(b *strings.Builder, c *Config) {
	fmt.Fprintf(b, "[%s]\n", c.Name)

	for _, p := range c.Properties {
		fmt.Fprintf(b, "%s=", p.Key)

		for i, v := range p.Values {
			if i > 0 {
				b.WriteByte(',')
			}

			printValue(b, v)
		}

		b.WriteByte('\n')
	}
}

func printValue(b *strings.Builder, v Value) {
	switch n := v.(type) {
	case *StringValue:
		b.WriteByte('"')
		b.WriteString(escapeString(n.Value))
		b.WriteByte('"')
	case *IntValue:
		b.WriteString(strconv.FormatInt(int64(n.Value), 10))
	case *LongValue:
		b.WriteString(strconv.FormatInt(n.Value, 10))
		b.WriteByte('L')
	case *BoolValue:
		if n.Value {
			b.WriteString("yes")
		} else {
			b.WriteString("no")
		}
	case *TypeLiteralValue:
		b.WriteString(n.Name)
	case *CoordValue:
		fmt.Fprintf(b, "#%d_%d_%d", n.X, n.Y, n.Z)
	case *RefValue:
		b.WriteString(n.Name)
	default:
		panic(fmt.Sprintf("print: unhandled config value %T", v))
	}
}
