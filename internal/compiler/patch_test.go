package compiler

import (
	"testing"

	"github.com/orus-lang/orus/internal/bytecode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePatchesShortForwardJump(t *testing.T) {
	c := bytecode.NewChunk("t")
	p := NewPatcher(c)
	pj := p.EmitJump(bytecode.OpJumpIfFalseShort, []int{0}, 1, 1)
	c.Write(byte(bytecode.OpHalt), 1, 1)
	target := c.Len()
	p.Resolve(patchList{pj}, target)

	dist := target - pj.operandOffset - 1
	require.True(t, dist >= -128 && dist <= 127)
	assert.Equal(t, byte(int8(dist)), c.Code[pj.operandOffset])
	assert.Equal(t, byte(bytecode.OpJumpIfFalseShort), c.Code[pj.opcodeOffset])
}

func TestResolveWidensLongForwardJump(t *testing.T) {
	c := bytecode.NewChunk("t")
	p := NewPatcher(c)
	pj := p.EmitJump(bytecode.OpJumpShort, nil, 1, 1)
	for i := 0; i < 200; i++ {
		c.Write(byte(bytecode.OpHalt), 1, 1)
	}
	target := c.Len()
	p.Resolve(patchList{pj}, target)

	assert.Equal(t, byte(bytecode.OpJump), c.Code[pj.opcodeOffset])
	got := uint16(c.Code[pj.operandOffset])<<8 | uint16(c.Code[pj.operandOffset+1])
	// Widening inserts one byte before the target, so it now sits at
	// target+1.
	want := uint16(int16(target + 1 - pj.operandOffset - 2))
	assert.Equal(t, want, got)
}

func TestShiftIfAfterAdjustsSiblingList(t *testing.T) {
	list := patchList{{operandOffset: 10, opcodeOffset: 9}, {operandOffset: 50, opcodeOffset: 49}}
	ShiftIfAfter(list, 20, 1)
	assert.Equal(t, 10, list[0].operandOffset)
	assert.Equal(t, 51, list[1].operandOffset)
	assert.Equal(t, 50, list[1].opcodeOffset)
}

func TestBackwardJumpComputesNegativeDistance(t *testing.T) {
	c := bytecode.NewChunk("t")
	p := NewPatcher(c)
	header := c.Len()
	for i := 0; i < 5; i++ {
		c.Write(byte(bytecode.OpHalt), 1, 1)
	}
	opOffset := c.Len()
	p.BackwardJump(bytecode.OpLoopShort, header, 1, 1)

	operandOffset := opOffset + 1
	want := header - operandOffset - 1
	assert.Equal(t, byte(int8(want)), c.Code[operandOffset])
}

func TestBackwardJumpWidensWhenTooFar(t *testing.T) {
	c := bytecode.NewChunk("t")
	p := NewPatcher(c)
	header := c.Len()
	for i := 0; i < 200; i++ {
		c.Write(byte(bytecode.OpHalt), 1, 1)
	}
	opOffset := c.Len()
	p.BackwardJump(bytecode.OpLoopShort, header, 1, 1)
	assert.Equal(t, byte(bytecode.OpLoop), c.Code[opOffset])
}
