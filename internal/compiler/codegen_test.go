package compiler

import (
	"testing"

	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/bytecode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pos() ast.Pos { return ast.Pos{File: "t.orus", Line: 1, Column: 1} }

func TestCompileArithmeticPrintEndsWithHalt(t *testing.T) {
	two := ast.NewIntLiteral(pos(), ast.KindI32, 2)
	three := ast.NewIntLiteral(pos(), ast.KindI32, 3)
	four := ast.NewIntLiteral(pos(), ast.KindI32, 4)
	mul := ast.NewBinary(pos(), ast.KindI32, ast.OpMul, three, four)
	add := ast.NewBinary(pos(), ast.KindI32, ast.OpAdd, two, mul)
	stmt := ast.NewPrint(pos(), []ast.Node{add}, true)

	res, diags := Compile("main", []ast.Node{stmt})
	require.False(t, diags.HasErrors())
	require.NotEmpty(t, res.Chunk.Code)

	// Constant folding collapses the whole expression to a single
	// literal 14, so codegen should emit exactly one load_const and
	// one print before the trailing halt, no arithmetic opcodes at all.
	assert.Equal(t, byte(bytecode.OpLoadConst), res.Chunk.Code[0])
	assert.Contains(t, res.Chunk.Code, byte(bytecode.OpPrint))
	assert.Equal(t, byte(bytecode.OpHalt), res.Chunk.Code[len(res.Chunk.Code)-1])
}

func TestCompileIfEmitsConditionalAndUnconditionalJumps(t *testing.T) {
	cond := ast.NewVarRef(pos(), ast.KindBool, "flag")
	assignFlag := ast.NewAssign(pos(), "flag", ast.NewBoolLiteral(pos(), true))
	thenBranch := []ast.Node{ast.NewPrint(pos(), []ast.Node{ast.NewIntLiteral(pos(), ast.KindI32, 1)}, true)}
	elseBranch := []ast.Node{ast.NewPrint(pos(), []ast.Node{ast.NewIntLiteral(pos(), ast.KindI32, 2)}, true)}
	ifNode := ast.NewIf(pos(), ast.KindNil, cond, thenBranch, elseBranch)

	res, diags := Compile("main", []ast.Node{assignFlag, ifNode})
	require.False(t, diags.HasErrors())

	foundCondJump, foundUncondJump := false, false
	for _, b := range res.Chunk.Code {
		if b == byte(bytecode.OpJumpIfFalseShort) {
			foundCondJump = true
		}
		if b == byte(bytecode.OpJumpShort) {
			foundUncondJump = true
		}
	}
	assert.True(t, foundCondJump)
	assert.True(t, foundUncondJump)
}

func TestCompileWhileLoopEmitsBackwardJump(t *testing.T) {
	cond := ast.NewVarRef(pos(), ast.KindBool, "running")
	initRunning := ast.NewAssign(pos(), "running", ast.NewBoolLiteral(pos(), true))
	body := []ast.Node{ast.NewAssign(pos(), "running", ast.NewBoolLiteral(pos(), false))}
	loop := ast.NewWhile(pos(), "", cond, body)

	res, diags := Compile("main", []ast.Node{initRunning, loop})
	require.False(t, diags.HasErrors())
	assert.Contains(t, res.Chunk.Code, byte(bytecode.OpLoopShort))
}

func TestCompileForRangeUnrollsAndFoldsFullyConstantLoop(t *testing.T) {
	start := ast.NewIntLiteral(pos(), ast.KindI32, 1)
	end := ast.NewIntLiteral(pos(), ast.KindI32, 3)
	v := ast.NewVarRef(pos(), ast.KindI32, "i")
	body := []ast.Node{ast.NewPrint(pos(), []ast.Node{v}, true)}
	loop := ast.NewForRange(pos(), "", "i", start, end, nil, true, body)

	res, diags := Compile("main", []ast.Node{loop})
	require.False(t, diags.HasErrors())

	count := 0
	for _, b := range res.Chunk.Code {
		if b == byte(bytecode.OpPrint) {
			count++
		}
	}
	// 1..=3 unrolls to exactly three prints, no loop opcodes at all.
	assert.Equal(t, 3, count)
	assert.NotContains(t, res.Chunk.Code, byte(bytecode.OpLoopShort))
}

func TestCompileBreakOutsideLoopReportsDiagnostic(t *testing.T) {
	brk := ast.NewBreak(pos(), "")
	_, diags := Compile("main", []ast.Node{brk})
	require.True(t, diags.HasErrors())
	assert.Equal(t, "E0006", string(diags.Diagnostics()[0].Code))
}

func TestCompileUndefinedVariableReportsDiagnostic(t *testing.T) {
	stmt := ast.NewPrint(pos(), []ast.Node{ast.NewVarRef(pos(), ast.KindI32, "nope")}, true)
	_, diags := Compile("main", []ast.Node{stmt})
	require.True(t, diags.HasErrors())
	assert.Equal(t, "E0004", string(diags.Diagnostics()[0].Code))
}

func TestCompileFunctionCallRoundTrips(t *testing.T) {
	fn := ast.NewFuncDecl(pos(), "double", []ast.Param{{Name: "n", Kind: ast.KindI32}}, ast.KindI32, []ast.Node{
		ast.NewReturn(pos(), ast.NewBinary(pos(), ast.KindI32, ast.OpAdd, ast.NewVarRef(pos(), ast.KindI32, "n"), ast.NewVarRef(pos(), ast.KindI32, "n"))),
	})
	call := ast.NewCall(pos(), ast.KindI32, ast.NewVarRef(pos(), ast.KindFunc, "double"), []ast.Node{ast.NewIntLiteral(pos(), ast.KindI32, 21)})
	stmt := ast.NewPrint(pos(), []ast.Node{call}, true)

	res, diags := Compile("main", []ast.Node{fn, stmt})
	require.False(t, diags.HasErrors())
	require.Contains(t, res.FuncChunks, "double")
	assert.Contains(t, res.Chunk.Code, byte(bytecode.OpCall))
	assert.Contains(t, res.FuncChunks["double"].Code, byte(bytecode.OpReturn))
}

func TestCompileArrayIndexAssignEmitsArraySet(t *testing.T) {
	arr := ast.NewArrayLiteral(pos(), ast.KindI32, []ast.Node{ast.NewIntLiteral(pos(), ast.KindI32, 1), ast.NewIntLiteral(pos(), ast.KindI32, 2)})
	assignArr := ast.NewAssign(pos(), "xs", arr)
	idxAssign := ast.NewIndexAssign(pos(), ast.NewVarRef(pos(), ast.KindArray, "xs"), ast.NewIntLiteral(pos(), ast.KindI32, 0), ast.NewIntLiteral(pos(), ast.KindI32, 99))

	res, diags := Compile("main", []ast.Node{assignArr, idxAssign})
	require.False(t, diags.HasErrors())
	assert.Contains(t, res.Chunk.Code, byte(bytecode.OpMakeArray))
	assert.Contains(t, res.Chunk.Code, byte(bytecode.OpArraySet))
}

func TestCompileTryCatchEmitsPushAndPopTry(t *testing.T) {
	body := []ast.Node{ast.NewPrint(pos(), []ast.Node{ast.NewIntLiteral(pos(), ast.KindI32, 1)}, true)}
	handler := []ast.Node{ast.NewPrint(pos(), []ast.Node{ast.NewVarRef(pos(), ast.KindString, "err")}, true)}
	tc := ast.NewTryCatch(pos(), body, "err", handler)

	res, diags := Compile("main", []ast.Node{tc})
	require.False(t, diags.HasErrors())
	assert.Contains(t, res.Chunk.Code, byte(bytecode.OpPushTry))
	assert.Contains(t, res.Chunk.Code, byte(bytecode.OpPopTry))
}
