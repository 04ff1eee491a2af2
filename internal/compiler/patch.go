package compiler

import (
	"github.com/orus-lang/orus/internal/bytecode"
)

// pendingJump is one forward jump whose target is not yet known at
// emission time. The emitter always starts optimistic: it emits the
// short (1-byte operand) variant and widens to long only if the final
// distance does not fit a signed byte (-128..127), per spec.md 4.7's
// patching contract: the patcher rewrites the short variant to the long
// one and shifts subsequent instruction offsets. Because the short
// offset is signed, forward distances of 128-255 also take the long form.
type pendingJump struct {
	opcodeOffset  int // offset of the Op byte itself
	operandOffset int // offset of the first jump-offset byte, post any reg operands
	op            bytecode.Op
}

// patchList accumulates pendingJump entries for one semantic target
// (e.g. "the else branch" or "loop exit"); Patcher.Resolve patches every
// entry in one list once the target IP is known.
type patchList []pendingJump

// Patcher owns jump-patch bookkeeping for one chunk under construction.
// Grounded on spec.md 4.7's "patch location is stored in a list keyed
// by the semantic target" description; callers key their own lists
// (e.g. one per if/else, one per loop's break set) and call Resolve.
type Patcher struct {
	chunk *bytecode.Chunk
}

func NewPatcher(c *bytecode.Chunk) *Patcher { return &Patcher{chunk: c} }

// EmitJump writes a short-variant jump opcode plus any leading register
// operands, reserves one placeholder byte for the offset, and returns a
// pendingJump describing where to patch it later.
func (p *Patcher) EmitJump(shortOp bytecode.Op, regs []int, line, col int) pendingJump {
	opOffset := p.chunk.Write(byte(shortOp), line, col)
	for _, r := range regs {
		p.chunk.Write(byte(r), line, col)
	}
	operandOffset := p.chunk.Write(0, line, col)
	return pendingJump{opcodeOffset: opOffset, operandOffset: operandOffset, op: shortOp}
}

// Resolve patches every entry in list to jump to target, widening any
// entry whose final distance does not fit a signed byte to its long
// variant first. Entries are resolved in ascending operandOffset order
// so earlier widenings' byte-shifts are reflected in later offsets.
func (p *Patcher) Resolve(list patchList, target int) {
	// Sort is unnecessary in practice since callers append in emission
	// order, which is already ascending; re-deriving offsets after each
	// widen keeps this correct regardless.
	for i := 0; i < len(list); i++ {
		pj := list[i]
		dist := target - pj.operandOffset - 1 // operand_size=1 for the short guess
		if dist < -128 || dist > 127 {
			pj = p.widen(pj)
			list[i] = pj
			// The inserted byte sits before target, moving it one byte
			// later; recompute against the 2-byte operand now in place.
			target++
			dist = target - pj.operandOffset - 2
			p.chunk.Patch2(pj.operandOffset, uint16(int16(dist)))
			p.shiftLaterEntries(list, i, pj.operandOffset, 1)
			continue
		}
		p.chunk.Patch1(pj.operandOffset, byte(int8(dist)))
	}
}

// widen rewrites a short-variant jump into its long counterpart in
// place: the opcode byte becomes the long Op, and one extra placeholder
// byte is inserted after the existing operand byte so Patch2 can write
// a 2-byte offset. Returns the updated pendingJump with the same
// operandOffset (InsertAt happens after it, so it does not move).
func (p *Patcher) widen(pj pendingJump) pendingJump {
	longOp := bytecode.LongVariant(pj.op)
	p.chunk.Patch1(pj.opcodeOffset, byte(longOp))
	p.chunk.InsertAt(pj.operandOffset+1, []byte{0})
	pj.op = longOp
	return pj
}

// shiftLaterEntries fixes up every entry after index i in list (plus,
// via the caller's bookkeeping, any entry in other still-open lists)
// whose offsets lie after insertAt by delta bytes. Compiler-level
// callers are responsible for calling ShiftIfAfter on every other
// open patchList they still hold, since widen's InsertAt can move bytes
// referenced by a sibling loop's break list compiled concurrently.
func (p *Patcher) shiftLaterEntries(list patchList, fromIdx, insertAt, delta int) {
	for j := fromIdx + 1; j < len(list); j++ {
		if list[j].operandOffset > insertAt {
			list[j].operandOffset += delta
		}
		if list[j].opcodeOffset > insertAt {
			list[j].opcodeOffset += delta
		}
	}
}

// ShiftIfAfter adjusts every entry in list whose offset lies after
// insertAt by delta bytes; exported so the code generator's scope
// stack (which holds break/continue lists that outlive one Resolve
// call) can keep its own pending lists consistent across a widen that
// happened while compiling a different part of the same chunk.
func ShiftIfAfter(list patchList, insertAt, delta int) {
	for j := range list {
		if list[j].operandOffset > insertAt {
			list[j].operandOffset += delta
		}
		if list[j].opcodeOffset > insertAt {
			list[j].opcodeOffset += delta
		}
	}
}

// BackwardJump emits a loop opcode whose target is already known (the
// loop header), computing and writing the (always non-positive)
// distance immediately rather than deferring to Resolve.
func (p *Patcher) BackwardJump(shortOp bytecode.Op, header int, line, col int) {
	opOffset := p.chunk.Write(byte(shortOp), line, col)
	operandOffset := opOffset + 1
	dist := header - operandOffset - 1
	if dist < -128 {
		longOp := bytecode.LongVariant(shortOp)
		p.chunk.Patch1(opOffset, byte(longOp))
		p.chunk.Write(0, line, col)
		dist = header - operandOffset - 2
		p.chunk.Patch2(operandOffset, uint16(int16(dist)))
		return
	}
	p.chunk.Write(0, line, col)
	p.chunk.Patch1(operandOffset, byte(int8(dist)))
}
