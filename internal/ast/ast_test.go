package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLiteralResolvedKind(t *testing.T) {
	lit := NewIntLiteral(Pos{}, KindI32, 42)
	assert.Equal(t, KindI32, lit.ResolvedKind())
	assert.True(t, lit.IsInt)
}

func TestReturnVoidHasNilKind(t *testing.T) {
	ret := NewReturn(Pos{}, nil)
	assert.Equal(t, KindNil, ret.ResolvedKind())
	assert.Nil(t, ret.Value)
}

func TestReturnValueInheritsKind(t *testing.T) {
	val := NewIntLiteral(Pos{}, KindI64, 7)
	ret := NewReturn(Pos{}, val)
	assert.Equal(t, KindI64, ret.ResolvedKind())
}

func TestForRangeDefaultsStepNil(t *testing.T) {
	fr := NewForRange(Pos{}, "", "i", NewIntLiteral(Pos{}, KindI32, 1), NewIntLiteral(Pos{}, KindI32, 3), nil, true, nil)
	assert.Nil(t, fr.Step)
	assert.True(t, fr.Inclusive)
}

func TestBreakContinueDiscriminant(t *testing.T) {
	b := NewBreak(Pos{}, "outer")
	c := NewContinue(Pos{}, "")
	assert.True(t, b.IsBreak)
	assert.False(t, c.IsBreak)
	assert.Equal(t, "outer", b.Label)
}
