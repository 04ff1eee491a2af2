package replsyntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orus-lang/orus/internal/ast"
)

func TestParseProgramSkipsBlankAndCommentLines(t *testing.T) {
	stmts, err := ParseProgram("t.txt", "\n# a comment\n2 + 2\n")
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	print, ok := stmts[0].(*ast.Print)
	require.True(t, ok)
	require.Len(t, print.Args, 1)
}

func TestParseProgramHonorsPrecedenceAndParens(t *testing.T) {
	stmts, err := ParseProgram("t.txt", "(2 + 3) * 4")
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	print := stmts[0].(*ast.Print)
	bin, ok := print.Args[0].(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.OpMul, bin.Op)
}

func TestParseProgramRejectsUnbalancedParens(t *testing.T) {
	_, err := ParseProgram("t.txt", "(2 + 3")
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Line)
}

func TestParseProgramRejectsGarbageToken(t *testing.T) {
	_, err := ParseProgram("t.txt", "2 + @")
	require.Error(t, err)
}

func TestParseProgramNegation(t *testing.T) {
	stmts, err := ParseProgram("t.txt", "-5 + 3")
	require.NoError(t, err)
	print := stmts[0].(*ast.Print)
	bin := print.Args[0].(*ast.Binary)
	_, ok := bin.Left.(*ast.Unary)
	assert.True(t, ok)
}
