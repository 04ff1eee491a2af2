// Package interp implements Orus's interpreter core: the VirtualMachine
// aggregate, its call-frame and try-frame stacks, the switch-dispatched
// instruction loop, and every opcode handler named in bytecode.Table.
// Grounded on GVM's vm.VM (vm/vm.go): one struct owns all mutable
// execution state, a single for-loop fetches/decodes/executes, and
// errors are recorded on the VM rather than panicking through Go's own
// call stack, generalized here to a register file and heap GVM's
// host-GC-backed design never needed.
package interp

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/orus-lang/orus/internal/bytecode"
	"github.com/orus-lang/orus/internal/config"
	"github.com/orus-lang/orus/internal/diag"
	"github.com/orus-lang/orus/internal/gc"
	"github.com/orus-lang/orus/internal/logging"
	"github.com/orus-lang/orus/internal/regfile"
	"github.com/orus-lang/orus/internal/value"
)

// Profile accumulates the counters spec.md section 9 asks the
// interpreter to expose to an eventual JIT collaborator: how often each
// instruction runs and how the typed-shadow fast paths are landing.
// DeoptCount has no producer yet (there is no JIT in this tree); it
// stays at zero and is exposed so a future compiler can increment it
// without changing this struct's shape.
type Profile struct {
	InstructionCount uint64
	TypedHits        uint64
	TypedMisses      uint64
	DeoptCount       uint64
}

// VirtualMachine is one Orus execution context: a register file, a
// heap, the active call-frame and try-frame stacks, and the
// environment-derived configuration governing GC and dispatch. Create
// one per program run; it is not safe for concurrent use by multiple
// goroutines, matching GVM's VM (single-threaded by construction).
type VirtualMachine struct {
	file *regfile.File
	heap *gc.Heap
	cfg  config.Config
	log  *logrus.Logger

	frames []*callFrame
	tries  []tryFrame

	// loadedChunks keeps every chunk ever Run or reachable through a
	// call alive for GC root-scanning purposes: a chunk's constant pool
	// can hold string objects that must survive collection for as long
	// as the chunk itself might still execute a load_const against them.
	loadedChunks []*bytecode.Chunk

	// moduleGlobals backs load_global/store_global's u16-indexed slots,
	// used for bindings shared across a module boundary (spec.md 6's
	// import story) rather than the ordinary global register band,
	// which is private to one compilation unit's regfile.Allocator.
	moduleGlobals []value.Value

	resolver ModuleResolver

	cancelRequested int32

	Profile Profile

	lastExecutionTime time.Duration
}

// New builds a VirtualMachine from cfg, deriving its logger and heap
// from the same config the caller read via config.FromEnv or
// config.Default.
func New(cfg config.Config) *VirtualMachine {
	log := logging.New(cfg.LogLevel)
	heapLog := logging.For(log, "gc")
	vm := &VirtualMachine{
		file: regfile.New(),
		cfg:  cfg,
		log:  log,
	}
	vm.heap = gc.NewHeap(cfg.GCInitialThreshold, heapLog)
	if cfg.Dispatch == config.DispatchGoto {
		logging.For(log, "interp").Warn("ORUS_DISPATCH=goto requested but this build only implements switch dispatch; falling back")
	}
	return vm
}

// WithResolver attaches a module resolver used by import statements
// (spec.md 6's supplemented module-loader boundary); optional, since a
// single-file program never imports anything.
func (vm *VirtualMachine) WithResolver(r ModuleResolver) *VirtualMachine {
	vm.resolver = r
	return vm
}

// Cancel requests that the running interpretation stop at its next safe
// point (between instructions), per spec.md 4.5. Safe to call from
// another goroutine.
func (vm *VirtualMachine) Cancel() { atomic.StoreInt32(&vm.cancelRequested, 1) }

func (vm *VirtualMachine) cancelled() bool { return atomic.LoadInt32(&vm.cancelRequested) != 0 }

// LastExecutionTime reports how long the most recently completed Run
// call took, per spec.md section 9's "expose wall-clock time of the
// last run for a host to log without instrumenting the call site
// itself" open question resolution (see DESIGN.md).
func (vm *VirtualMachine) LastExecutionTime() time.Duration { return vm.lastExecutionTime }

// Roots implements gc.RootProvider: the active call window's registers,
// every suspended caller's saved window still on the frame stack, the
// try-frame handler registers, the module-global table, and every
// loaded chunk's constant pool.
func (vm *VirtualMachine) Roots() []value.Value {
	var roots []value.Value

	for i := 0; i < frameWindowSize; i++ {
		roots = append(roots, vm.file.Read(frameWindowBase+regfile.LogicalID(i)))
	}
	for i := 0; i < regfile.GlobalSize; i++ {
		roots = append(roots, vm.file.Read(regfile.LogicalID(i)))
	}
	for _, fr := range vm.frames {
		roots = append(roots, fr.saved[:]...)
	}
	for _, tf := range vm.tries {
		roots = append(roots, vm.file.Read(tf.handlerReg))
	}
	roots = append(roots, vm.moduleGlobals...)
	for _, c := range vm.loadedChunks {
		roots = append(roots, c.Constants...)
	}
	return roots
}

// maybeCollect runs a collection if the heap's trigger has fired; the
// sole call site is the dispatch loop's safe point between
// instructions, per spec.md 4.3.
func (vm *VirtualMachine) maybeCollect() {
	if vm.heap.ShouldCollect() {
		vm.heap.Collect(vm)
	}
}
