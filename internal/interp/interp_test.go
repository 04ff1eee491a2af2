package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/compiler"
	"github.com/orus-lang/orus/internal/config"
)

func pos() ast.Pos { return ast.Pos{File: "t.orus", Line: 1, Column: 1} }

func runProgram(t *testing.T, stmts []ast.Node) (string, *VirtualMachine) {
	t.Helper()
	res, diags := compiler.Compile("main", stmts)
	require.False(t, diags.HasErrors(), diags.Error())

	vm := New(config.Default())
	entry, err := vm.Load(res, nil)
	require.NoError(t, err)

	var out bytes.Buffer
	d := vm.Run(entry, &out)
	require.Nil(t, d, "unexpected runtime diagnostic")
	return out.String(), vm
}

// fib(n) = if n <= 1 then n else fib(n-1) + fib(n-2); tests that a
// top-level function can call itself before its own binding would
// otherwise exist (see DESIGN.md's compileFuncDecl entry).
func TestRecursiveFibonacci(t *testing.T) {
	n := ast.NewVarRef(pos(), ast.KindI32, "n")
	cond := ast.NewBinary(pos(), ast.KindBool, ast.OpLe, n, ast.NewIntLiteral(pos(), ast.KindI32, 1))

	callFib := func(arg ast.Node) ast.Node {
		return ast.NewCall(pos(), ast.KindI32, ast.NewVarRef(pos(), ast.KindFunc, "fib"), []ast.Node{arg})
	}
	nMinus := func(k int64) ast.Node {
		return ast.NewBinary(pos(), ast.KindI32, ast.OpSub, ast.NewVarRef(pos(), ast.KindI32, "n"), ast.NewIntLiteral(pos(), ast.KindI32, k))
	}

	thenBranch := []ast.Node{ast.NewReturn(pos(), ast.NewVarRef(pos(), ast.KindI32, "n"))}
	sum := ast.NewBinary(pos(), ast.KindI32, ast.OpAdd, callFib(nMinus(1)), callFib(nMinus(2)))
	elseBranch := []ast.Node{ast.NewReturn(pos(), sum)}

	fib := ast.NewFuncDecl(pos(), "fib", []ast.Param{{Name: "n", Kind: ast.KindI32}}, ast.KindI32,
		[]ast.Node{ast.NewIf(pos(), ast.KindNil, cond, thenBranch, elseBranch)})

	call := ast.NewCall(pos(), ast.KindI32, ast.NewVarRef(pos(), ast.KindFunc, "fib"), []ast.Node{ast.NewIntLiteral(pos(), ast.KindI32, 10)})
	print := ast.NewPrint(pos(), []ast.Node{call}, true)

	out, _ := runProgram(t, []ast.Node{fib, print})
	assert.Equal(t, "55\n", out)
}

func TestArrayLiteralAndIndexAssign(t *testing.T) {
	lit := ast.NewArrayLiteral(pos(), ast.KindI32, []ast.Node{
		ast.NewIntLiteral(pos(), ast.KindI32, 1),
		ast.NewIntLiteral(pos(), ast.KindI32, 2),
		ast.NewIntLiteral(pos(), ast.KindI32, 3),
	})
	assign := ast.NewAssign(pos(), "arr", lit)
	set := ast.NewIndexAssign(pos(),
		ast.NewVarRef(pos(), ast.KindArray, "arr"),
		ast.NewIntLiteral(pos(), ast.KindI32, 0),
		ast.NewIntLiteral(pos(), ast.KindI32, 99))
	read := ast.NewIndex(pos(), ast.KindI32, ast.NewVarRef(pos(), ast.KindArray, "arr"), ast.NewIntLiteral(pos(), ast.KindI32, 0))
	print := ast.NewPrint(pos(), []ast.Node{read}, true)

	out, _ := runProgram(t, []ast.Node{assign, set, print})
	assert.Equal(t, "99\n", out)
}

func TestTryCatchCatchesDivisionByZero(t *testing.T) {
	div := ast.NewBinary(pos(), ast.KindI32, ast.OpDiv, ast.NewIntLiteral(pos(), ast.KindI32, 10), ast.NewIntLiteral(pos(), ast.KindI32, 0))
	body := []ast.Node{ast.NewPrint(pos(), []ast.Node{div}, true)}
	handler := []ast.Node{ast.NewPrint(pos(), []ast.Node{ast.NewStringLiteral(pos(), "caught")}, true)}
	tryCatch := ast.NewTryCatch(pos(), body, "e", handler)

	out, _ := runProgram(t, []ast.Node{tryCatch})
	assert.Equal(t, "caught\n", out)
}

func TestTryCatchBoundErrorPrintsHumanReadableKind(t *testing.T) {
	div := ast.NewBinary(pos(), ast.KindI32, ast.OpDiv, ast.NewIntLiteral(pos(), ast.KindI32, 10), ast.NewIntLiteral(pos(), ast.KindI32, 0))
	body := []ast.Node{ast.NewPrint(pos(), []ast.Node{div}, true)}
	handler := []ast.Node{ast.NewPrint(pos(), []ast.Node{ast.NewVarRef(pos(), ast.KindString, "e")}, true)}
	tryCatch := ast.NewTryCatch(pos(), body, "e", handler)

	out, _ := runProgram(t, []ast.Node{tryCatch})
	assert.True(t, strings.HasPrefix(out, "DivisionByZero"), "expected output to start with DivisionByZero, got %q", out)
}

func TestForRangeExclusiveStopsBeforeEnd(t *testing.T) {
	start := ast.NewIntLiteral(pos(), ast.KindI32, 0)
	end := ast.NewIntLiteral(pos(), ast.KindI32, 3)
	body := []ast.Node{ast.NewPrint(pos(), []ast.Node{ast.NewVarRef(pos(), ast.KindI32, "i")}, true)}
	loop := ast.NewForRange(pos(), "", "i", start, end, nil, false, body)

	out, _ := runProgram(t, []ast.Node{loop})
	assert.Equal(t, "0\n1\n2\n", out)
}
