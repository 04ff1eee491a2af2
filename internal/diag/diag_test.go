package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orus-lang/orus/internal/ast"
)

func TestFormatIncludesHeaderAndCaret(t *testing.T) {
	d := New(SeverityRuntimeRecoverable, CodeDivisionByZero, ast.Pos{File: "main.orus", Line: 3, Column: 5}, "  x / 0", "division by zero")
	out := d.Format()
	assert.Contains(t, out, "main.orus:3:5")
	assert.Contains(t, out, "division by zero")
	assert.Contains(t, out, "^")
	assert.Contains(t, out, "note:")
}

func TestBagAccumulatesAndReportsAll(t *testing.T) {
	var bag Bag
	assert.False(t, bag.HasErrors())
	bag.Add(New(SeverityCompile, CodeUndefinedVariable, ast.Pos{Line: 1}, "", "undefined variable %q", "x"))
	bag.Add(New(SeverityCompile, CodeArityMismatch, ast.Pos{Line: 2}, "", "expected %d arguments, got %d", 2, 1))
	assert.True(t, bag.HasErrors())
	assert.Len(t, bag.Diagnostics(), 2)
	assert.Contains(t, bag.Error(), "undefined variable")
	assert.Contains(t, bag.Error(), "expected 2 arguments")
}
