package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orus-lang/orus/internal/value"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		op    Op
		regs  []int
		jump  int
		u8    []int
	}{
		{"three-reg", OpAddI32, []int{1, 2, 3}, 0, nil},
		{"jump-long", OpJump, nil, 1000, nil},
		{"jump-short", OpJumpShort, nil, 200, nil},
		{"make-array", OpMakeArray, []int{4, 5}, 0, []int{7}},
		{"return-void", OpReturnVoid, nil, 0, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			encoded := Encode(nil, tc.op, tc.regs, 0, tc.u8, nil, tc.jump)
			instr, next := Decode(encoded, 0)
			assert.Equal(t, tc.op, instr.Op)
			assert.Equal(t, len(encoded), next)
			if tc.regs != nil {
				assert.Equal(t, tc.regs, instr.Regs)
			}
			if tc.jump != 0 {
				assert.Equal(t, tc.jump, instr.Jump)
			}
		})
	}
}

func TestChunkConstantDedup(t *testing.T) {
	c := NewChunk("main")
	i1 := c.AddConstant(value.I32(42))
	i2 := c.AddConstant(value.I32(42))
	i3 := c.AddConstant(value.I32(43))
	assert.Equal(t, i1, i2)
	assert.NotEqual(t, i1, i3)
}

func TestChunkInsertAtShiftsLinesAndBytes(t *testing.T) {
	c := NewChunk("main")
	c.Write(byte(OpHalt), 1, 1)
	c.Write(0xAA, 2, 5)
	c.InsertAt(1, []byte{0xFF, 0xFF})
	assert.Equal(t, []byte{byte(OpHalt), 0xFF, 0xFF, 0xAA}, c.Code)
	assert.Equal(t, int32(1), c.Lines[1])
	assert.Equal(t, int32(2), c.Lines[3])
}

func TestChunkSerializeRoundTrip(t *testing.T) {
	c := NewChunk("main")
	c.AddConstant(value.I32(7))
	c.AddConstant(value.FromObject(value.NewStringObject("hi")))
	c.Write(byte(OpHalt), 1, 1)

	encoded := SerializeChunk(c)
	decoded, err := DeserializeChunk(encoded)
	require.NoError(t, err)
	assert.Equal(t, c.Code, decoded.Code)
	assert.Equal(t, len(c.Constants), len(decoded.Constants))
	assert.Equal(t, "hi", value.ToString(decoded.Constants[1]))
}

func TestChunkSerializeDetectsCorruption(t *testing.T) {
	c := NewChunk("main")
	c.Write(byte(OpHalt), 1, 1)
	encoded := SerializeChunk(c)
	encoded[len(encoded)-1] ^= 0xFF
	_, err := DeserializeChunk(encoded)
	require.Error(t, err)
}
