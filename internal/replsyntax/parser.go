// Package replsyntax is the tiny line-oriented arithmetic grammar
// cmd/orus's file and REPL modes feed into orus.Execute. A real lexer,
// parser, and type checker for the Orus language are out of this
// tree's scope (spec.md section 1's external-collaborator list); this
// package exists only so the CLI has something real to compile and run
// rather than a stub, the same way GVM's own main.go hand-rolls a
// whitespace-split tokenizer for its assembly mnemonics instead of
// pulling in a parser generator for a one-token-per-line format.
//
// Grammar, one statement per non-blank, non-comment line:
//
//	line       := expr
//	expr       := term (('+' | '-') term)*
//	term       := factor (('*' | '/') factor)*
//	factor     := INT | '(' expr ')' | '-' factor
//
// Every line's value is implicitly printed, so "2 + 3 * 4" parses into
// a single print(add(2, mul(3, 4))) top-level statement.
package replsyntax

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/orus-lang/orus/internal/ast"
)

// ParseError reports the 1-based line number a line failed to parse at.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

// ParseProgram tokenizes and parses source one line at a time, skipping
// blank lines and lines beginning with '#', and returns one Print node
// per remaining line.
func ParseProgram(file, source string) ([]ast.Node, error) {
	var stmts []ast.Node
	for i, raw := range strings.Split(source, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p := &lineParser{file: file, line: lineNo, toks: tokenize(line)}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.pos != len(p.toks) {
			return nil, &ParseError{File: file, Line: lineNo, Msg: fmt.Sprintf("unexpected token %q", p.toks[p.pos])}
		}
		pos := ast.Pos{File: file, Line: lineNo, Column: 1}
		stmts = append(stmts, ast.NewPrint(pos, []ast.Node{expr}, true))
	}
	return stmts, nil
}

func tokenize(line string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range line {
		switch {
		case r == ' ' || r == '\t':
			flush()
		case strings.ContainsRune("+-*/()", r):
			flush()
			toks = append(toks, string(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}

type lineParser struct {
	file string
	line int
	toks []string
	pos  int
}

func (p *lineParser) pos2() ast.Pos { return ast.Pos{File: p.file, Line: p.line, Column: 1} }

func (p *lineParser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *lineParser) parseExpr() (ast.Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.peek() == "+" || p.peek() == "-" {
		op := ast.OpAdd
		if p.peek() == "-" {
			op = ast.OpSub
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(p.pos2(), ast.KindI32, op, left, right)
	}
	return left, nil
}

func (p *lineParser) parseTerm() (ast.Node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.peek() == "*" || p.peek() == "/" {
		op := ast.OpMul
		if p.peek() == "/" {
			op = ast.OpDiv
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(p.pos2(), ast.KindI32, op, left, right)
	}
	return left, nil
}

func (p *lineParser) parseFactor() (ast.Node, error) {
	tok := p.peek()
	switch {
	case tok == "":
		return nil, &ParseError{File: p.file, Line: p.line, Msg: "unexpected end of line"}
	case tok == "-":
		p.pos++
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(p.pos2(), ast.KindI32, ast.OpNeg, operand), nil
	case tok == "(":
		p.pos++
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, &ParseError{File: p.file, Line: p.line, Msg: "missing closing parenthesis"}
		}
		p.pos++
		return expr, nil
	default:
		n, err := strconv.ParseInt(tok, 10, 32)
		if err != nil {
			return nil, &ParseError{File: p.file, Line: p.line, Msg: fmt.Sprintf("invalid integer literal %q", tok)}
		}
		p.pos++
		return ast.NewIntLiteral(p.pos2(), ast.KindI32, n), nil
	}
}
