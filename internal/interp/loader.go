package interp

import (
	"fmt"

	"github.com/orus-lang/orus/internal/bytecode"
	"github.com/orus-lang/orus/internal/compiler"
)

// ModuleResolver is the module-loader boundary supplemented features
// introduce (spec.md section 6 names imports as a future extension
// point; this is that extension point made concrete): given a module
// name, produce its already-compiled Result so Load can link its
// exported functions in before the importing script runs.
type ModuleResolver interface {
	Resolve(moduleName string) (*compiler.Result, error)
}

// ErrModuleNotFound is returned by MemoryResolver.Resolve for an
// unregistered name.
type ErrModuleNotFound struct{ Name string }

func (e *ErrModuleNotFound) Error() string { return fmt.Sprintf("interp: module %q not found", e.Name) }

// MemoryResolver is an in-process resolver backed by a plain map,
// suitable for tests and for embedding scenarios that compile every
// module up front rather than reading from a filesystem or registry.
type MemoryResolver map[string]*compiler.Result

func (m MemoryResolver) Resolve(name string) (*compiler.Result, error) {
	res, ok := m[name]
	if !ok {
		return nil, &ErrModuleNotFound{Name: name}
	}
	return res, nil
}

// Load links one compilation unit's function chunks into closures
// written to their assigned global registers, registers every chunk
// (entry and nested) for GC root scanning of its constant pool, and
// returns the entry chunk ready for Run. Imported modules named in
// imports are resolved and loaded first, so their exported functions'
// global registers are live before the importing unit's top-level code
// runs; module-level bindings across units share the same register file
// but not the same global-id space, so the caller is responsible for
// compiling imports against a shared name table when cross-module name
// collisions matter (spec.md 6 leaves exact namespacing to the
// embedder).
func (vm *VirtualMachine) Load(res *compiler.Result, imports []string) (*bytecode.Chunk, error) {
	for _, name := range imports {
		if vm.resolver == nil {
			return nil, fmt.Errorf("interp: module %q imported but no resolver configured", name)
		}
		dep, err := vm.resolver.Resolve(name)
		if err != nil {
			return nil, err
		}
		if _, err := vm.Load(dep, nil); err != nil {
			return nil, err
		}
	}

	for name, chunk := range res.FuncChunks {
		// Arity is informational only: OpCall's argc operand, not the
		// closure's own Arity field, governs how many registers the
		// dispatch loop copies in, so 0 here costs nothing.
		if p, ok := res.Globals[name]; ok {
			closureVal := vm.allocClosure(chunk, name, 0)
			vm.file.Write(p, closureVal)
		}
		vm.loadedChunks = append(vm.loadedChunks, chunk)
	}
	vm.loadedChunks = append(vm.loadedChunks, res.Chunk)

	return res.Chunk, nil
}
