package interp

import (
	"github.com/orus-lang/orus/internal/bytecode"
	"github.com/orus-lang/orus/internal/regfile"
	"github.com/orus-lang/orus/internal/value"
)

// MaxCallDepth bounds the interpreter's call-frame stack, per spec.md
// 4.5's RecursionError condition. GVM has no equivalent (its "calls"
// are just jumps on a single flat stack with no frame concept); this
// limit exists because Orus closures recurse through Go-side frame
// objects rather than the guest's own stack.
const MaxCallDepth = 1024

// frameWindowBase/Size name the flat logical-id range that is
// per-call: frame-band and temp-band registers both restart from the
// same offsets every time a function is compiled (internal/compiler
// gives each function body its own fresh regfile.Allocator), so both
// bands, not just the frame band, collide across nested or recursive
// calls in the single shared regfile.File. One call's "window" is the
// frame+temp span; the global and module bands sit outside it and are
// never saved or restored.
const (
	frameWindowBase = regfile.LogicalID(regfile.GlobalSize)
	frameWindowSize = regfile.FrameSize + regfile.TempSize
)

// frameWindow is a snapshot of every register in the per-call span,
// boxed-view only: typed shadows are transient arithmetic state that a
// handler never leaves live across a call boundary (every opcode that
// writes a typed shadow also leaves the boxed view readable by the next
// instruction it was written for), so only the boxed array needs
// saving.
type frameWindow [frameWindowSize]value.Value

func snapshotWindow(f *regfile.File) frameWindow {
	var w frameWindow
	for i := 0; i < frameWindowSize; i++ {
		w[i] = f.Read(frameWindowBase + regfile.LogicalID(i))
	}
	return w
}

func restoreWindow(f *regfile.File, w frameWindow) {
	for i := 0; i < frameWindowSize; i++ {
		f.Write(frameWindowBase+regfile.LogicalID(i), w[i])
	}
}

func clearWindow(f *regfile.File) {
	for i := 0; i < frameWindowSize; i++ {
		f.Write(frameWindowBase+regfile.LogicalID(i), value.Nil)
	}
}

// callFrame is one active activation record. The window saved here is
// the CALLER's, captured the instant this frame was pushed; popping
// this frame restores it, undoing the callee's use of the shared
// frame/temp span before the result is written into resultReg.
type callFrame struct {
	chunk     *bytecode.Chunk
	ip        int
	name      string
	resultReg regfile.LogicalID
	haveResult bool
	saved     frameWindow
}

// tryFrame is one active push_try entry: where to jump on raise, which
// register the caught error lands in, and the call depth it was pushed
// at so a raise propagating through returns knows which frames it must
// unwind past (spec.md 4.6's try/catch contract).
type tryFrame struct {
	handlerIP  int
	handlerReg regfile.LogicalID
	callDepth  int
}
