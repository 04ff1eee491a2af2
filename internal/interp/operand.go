package interp

import (
	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/bytecode"
	"github.com/orus-lang/orus/internal/regfile"
	"github.com/orus-lang/orus/internal/value"
)

// readReg/readU8/readU16/readJumpS/readJumpL decode one operand from
// fr's chunk at its current ip and advance ip past it, mirroring the
// Table entry for whatever opcode step is currently handling. Every
// opcode's operand count and order must match bytecode.Table exactly;
// that agreement is what lets the disassembler and this loop share one
// definition of each instruction's shape.

func (vm *VirtualMachine) readReg(fr *callFrame) regfile.LogicalID {
	id := regfile.LogicalID(fr.chunk.Code[fr.ip])
	fr.ip++
	return id
}

func (vm *VirtualMachine) readU8(fr *callFrame) byte {
	b := fr.chunk.Code[fr.ip]
	fr.ip++
	return b
}

func (vm *VirtualMachine) readU16(fr *callFrame) uint16 {
	hi := fr.chunk.Code[fr.ip]
	lo := fr.chunk.Code[fr.ip+1]
	fr.ip += 2
	return uint16(hi)<<8 | uint16(lo)
}

// readJumpS/readJumpL decode a signed relative distance; OpPushTry's
// long operand is the one exception in the table (an absolute target
// IP), and its case reads the raw bytes with readU16 directly instead
// of going through these.
func (vm *VirtualMachine) readJumpS(fr *callFrame) int {
	b := fr.chunk.Code[fr.ip]
	fr.ip++
	return int(int8(b))
}

func (vm *VirtualMachine) readJumpL(fr *callFrame) int {
	return int(int16(vm.readU16(fr)))
}

// posAt recovers the source position of the instruction at fr's current
// ip (called before that opcode's operands are consumed), for
// attaching to runtime diagnostics.
func (vm *VirtualMachine) posAt(fr *callFrame) ast.Pos {
	return ast.Pos{
		File:   fr.chunk.Name,
		Line:   fr.chunk.LineFor(fr.ip),
		Column: fr.chunk.ColumnFor(fr.ip),
	}
}

// registerChunk records c for GC root scanning if it is not already
// tracked; Load registers every chunk it links, but Run is also called
// directly on a freestanding chunk in tests and single-file embedding,
// so it registers its own entry chunk defensively.
func (vm *VirtualMachine) registerChunk(c *bytecode.Chunk) {
	for _, existing := range vm.loadedChunks {
		if existing == c {
			return
		}
	}
	vm.loadedChunks = append(vm.loadedChunks, c)
}

// growModuleGlobals extends the module-global slice so index n-1 is
// addressable, per store_global's "registers" semantics (indices are
// assigned by the compiler in declaration order and never shrink).
func (vm *VirtualMachine) growModuleGlobals(n int) {
	for len(vm.moduleGlobals) < n {
		vm.moduleGlobals = append(vm.moduleGlobals, value.Nil)
	}
}
