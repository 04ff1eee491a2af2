package interp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orus-lang/orus/internal/bytecode"
	"github.com/orus-lang/orus/internal/config"
	"github.com/orus-lang/orus/internal/value"
)

// Neither compileForRange nor any other codegen path currently emits
// OpGetIter/OpIterNext (see DESIGN.md's internal/compiler entry), so this
// drives them the only way they're reachable today: a hand-assembled
// chunk, the same way bytecode's own encoding tests exercise
// OpIncCmpJump.
func TestOpGetIterOpIterNextWalkArray(t *testing.T) {
	arrReg := frameWindowBase
	iterReg := frameWindowBase + 1
	hasNextReg := frameWindowBase + 2
	valReg := frameWindowBase + 3

	c := bytecode.NewChunk("main")
	arr := value.NewArrayObject([]value.Value{value.I32(1), value.I32(2), value.I32(3)})
	idx := c.AddConstant(value.FromObject(arr))

	c.Write(byte(bytecode.OpLoadConst), 1, 1)
	c.Write(byte(arrReg), 1, 1)
	c.WriteU16(uint16(idx), 1, 1)

	c.Write(byte(bytecode.OpGetIter), 1, 1)
	c.Write(byte(iterReg), 1, 1)
	c.Write(byte(arrReg), 1, 1)

	emitNext := func() {
		c.Write(byte(bytecode.OpIterNext), 1, 1)
		c.Write(byte(hasNextReg), 1, 1)
		c.Write(byte(valReg), 1, 1)
		c.Write(byte(iterReg), 1, 1)
	}
	emitPrint := func(r byte) {
		c.Write(byte(bytecode.OpPrint), 1, 1)
		c.Write(r, 1, 1)
	}

	emitNext()
	emitPrint(byte(valReg))
	emitNext()
	emitPrint(byte(valReg))
	emitNext()
	emitPrint(byte(valReg))
	emitNext()
	emitPrint(byte(hasNextReg))

	c.Write(byte(bytecode.OpHalt), 1, 1)

	vm := New(config.Default())
	var out bytes.Buffer
	d := vm.Run(c, &out)
	require.Nil(t, d, "unexpected runtime diagnostic")
	require.Equal(t, "1\n2\n3\nfalse\n", out.String())
}
