package orus

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/config"
	"github.com/orus-lang/orus/internal/diag"
	"github.com/orus-lang/orus/internal/interp"
)

func pos() ast.Pos { return ast.Pos{File: "t.orus", Line: 1, Column: 1} }

func TestExecuteArithmeticPrint(t *testing.T) {
	two := ast.NewIntLiteral(pos(), ast.KindI32, 2)
	three := ast.NewIntLiteral(pos(), ast.KindI32, 3)
	four := ast.NewIntLiteral(pos(), ast.KindI32, 4)
	mul := ast.NewBinary(pos(), ast.KindI32, ast.OpMul, three, four)
	add := ast.NewBinary(pos(), ast.KindI32, ast.OpAdd, two, mul)
	stmt := ast.NewPrint(pos(), []ast.Node{add}, true)

	vm := interp.New(config.Default())
	var out bytes.Buffer
	exec := Execute(vm, []ast.Node{stmt}, "main", &out)

	require.Equal(t, Ok, exec.Outcome)
	assert.Empty(t, exec.Diagnostics)
	assert.Equal(t, "14\n", out.String())
}

func TestExecuteForRangePrintsEachIteration(t *testing.T) {
	start := ast.NewIntLiteral(pos(), ast.KindI32, 1)
	end := ast.NewIntLiteral(pos(), ast.KindI32, 3)
	body := []ast.Node{ast.NewPrint(pos(), []ast.Node{ast.NewVarRef(pos(), ast.KindI32, "i")}, true)}
	loop := ast.NewForRange(pos(), "", "i", start, end, nil, true, body)

	vm := interp.New(config.Default())
	var out bytes.Buffer
	exec := Execute(vm, []ast.Node{loop}, "main", &out)

	require.Equal(t, Ok, exec.Outcome)
	assert.Equal(t, "1\n2\n3\n", out.String())
}

func TestExecuteReportsCompileErrorsWithoutRunning(t *testing.T) {
	// Printing a variable that was never declared; the code generator
	// reports it as an undefined variable rather than crashing.
	bad := ast.NewPrint(pos(), []ast.Node{ast.NewVarRef(pos(), ast.KindI32, "never_declared")}, true)

	vm := interp.New(config.Default())
	var out bytes.Buffer
	exec := Execute(vm, []ast.Node{bad}, "main", &out)

	require.Equal(t, CompileError, exec.Outcome)
	assert.NotEmpty(t, exec.Diagnostics)
	assert.Empty(t, out.String())
}

func TestExecuteUnhandledDivisionByZeroIsRuntimeError(t *testing.T) {
	zero := ast.NewIntLiteral(pos(), ast.KindI32, 0)
	ten := ast.NewIntLiteral(pos(), ast.KindI32, 10)
	div := ast.NewBinary(pos(), ast.KindI32, ast.OpDiv, ten, zero)
	stmt := ast.NewPrint(pos(), []ast.Node{div}, true)

	vm := interp.New(config.Default())
	var out bytes.Buffer
	exec := Execute(vm, []ast.Node{stmt}, "main", &out)

	require.Equal(t, RuntimeError, exec.Outcome)
	require.Len(t, exec.Diagnostics, 1)
	assert.Equal(t, diag.CodeDivisionByZero, exec.Diagnostics[0].Code)
}

func TestExecuteModuleRejectsUnknownImportWithoutResolver(t *testing.T) {
	stmt := ast.NewPrint(pos(), []ast.Node{ast.NewIntLiteral(pos(), ast.KindI32, 1)}, true)

	vm := interp.New(config.Default())
	var out bytes.Buffer
	exec := ExecuteModule(vm, []ast.Node{stmt}, "main", []string{"missing_module"}, &out)

	require.Equal(t, RuntimeError, exec.Outcome)
	require.Len(t, exec.Diagnostics, 1)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "ok", Ok.String())
	assert.Equal(t, "compile_error", CompileError.String())
	assert.Equal(t, "runtime_error", RuntimeError.String())
}
