package interp

import (
	"github.com/orus-lang/orus/internal/bytecode"
	"github.com/orus-lang/orus/internal/value"
)

// chunkOf asserts a closure's opaque Chunk field back to the concrete
// type. This is the one place in the module that crosses the
// interface{} boundary value.ClosureObject.Chunk exists to avoid an
// import cycle between internal/value and internal/bytecode; every
// other package treats a closure's code as opaque.
func chunkOf(co *value.ClosureObject) *bytecode.Chunk {
	c, ok := co.Chunk.(*bytecode.Chunk)
	if !ok {
		panic("interp: closure chunk is not *bytecode.Chunk")
	}
	return c
}
