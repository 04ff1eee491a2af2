package interp

import (
	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/bytecode"
	"github.com/orus-lang/orus/internal/diag"
	"github.com/orus-lang/orus/internal/regfile"
	"github.com/orus-lang/orus/internal/value"
)

// execCall implements both call and tail_call. A tail call replaces the
// current frame outright instead of pushing a new one: it inherits fr's
// own saved window and return target, so a recursive tail-recursive
// Orus function runs in bounded Go-side frame depth no matter how many
// times it recurses.
func (vm *VirtualMachine) execCall(fr *callFrame, pos ast.Pos, op bytecode.Op) (bool, *diag.Diagnostic) {
	funcReg := vm.readReg(fr)
	firstArg := vm.readReg(fr)
	argc := int(vm.readU8(fr))

	var resultReg regfile.LogicalID
	haveResult := false
	if op == bytecode.OpCall {
		resultReg = vm.readReg(fr)
		haveResult = true
	}

	closureVal := vm.file.Read(funcReg)
	obj, err := closureVal.AsObject()
	if err != nil || obj.Kind != value.ObjClosure {
		return vm.fail(pos, diag.CodeTypeError, "call target is not a function")
	}
	callee := chunkOf(obj.Closure)

	args := make([]value.Value, argc)
	for i := 0; i < argc; i++ {
		args[i] = vm.file.Read(firstArg + regfile.LogicalID(i))
	}

	var savedWindow frameWindow
	if op == bytecode.OpTailCall {
		savedWindow = fr.saved
		resultReg, haveResult = fr.resultReg, fr.haveResult
		vm.frames = vm.frames[:len(vm.frames)-1]
	} else {
		if len(vm.frames) >= MaxCallDepth {
			return vm.fail(pos, diag.CodeRecursionError, "call stack exceeded maximum depth of %d", MaxCallDepth)
		}
		savedWindow = snapshotWindow(vm.file)
	}

	clearWindow(vm.file)
	for i, a := range args {
		vm.file.Write(frameWindowBase+regfile.LogicalID(i), a)
	}

	vm.frames = append(vm.frames, &callFrame{
		chunk:      callee,
		name:       obj.Closure.Name,
		resultReg:  resultReg,
		haveResult: haveResult,
		saved:      savedWindow,
	})
	return true, nil
}

// execReturn pops the active frame, restores its caller's window, and
// writes v into the caller's result register if the call expected one
// (tail_call never set haveResult directly; it carried its target's own
// caller's, so this still lands correctly through however many tail
// calls ran in between). Reports whether Run should keep going.
func (vm *VirtualMachine) execReturn(v value.Value) bool {
	popped := vm.frames[len(vm.frames)-1]
	vm.frames = vm.frames[:len(vm.frames)-1]
	restoreWindow(vm.file, popped.saved)
	if popped.haveResult {
		vm.file.Write(popped.resultReg, v)
	}
	return len(vm.frames) > 0
}

// fail builds a runtime error value and raises it. ok is true when a
// try frame caught it (the dispatch loop should keep running); when no
// try frame is active, ok is false and the returned diagnostic is what
// Run reports as this execution's fatal result.
func (vm *VirtualMachine) fail(pos ast.Pos, code diag.Code, format string, args ...interface{}) (bool, *diag.Diagnostic) {
	msg := sprintf(format, args...)
	errVal := vm.allocError(code.Name(), string(code), msg, pos.File, pos.Line, pos.Column)
	if vm.raise(errVal) {
		return true, nil
	}
	return false, diag.New(diag.SeverityRuntimeRecoverable, code, pos, "", "%s", msg)
}

// raise pops the innermost try frame, unwinds every call frame pushed
// since it was pushed (restoring each one's saved window so the
// register file reflects the handler's own function's state), and jumps
// to the handler with errVal bound to its register. Returns false if no
// try frame is active.
func (vm *VirtualMachine) raise(errVal value.Value) bool {
	if len(vm.tries) == 0 {
		return false
	}
	tf := vm.tries[len(vm.tries)-1]
	vm.tries = vm.tries[:len(vm.tries)-1]

	for len(vm.frames) > tf.callDepth {
		popped := vm.frames[len(vm.frames)-1]
		vm.frames = vm.frames[:len(vm.frames)-1]
		restoreWindow(vm.file, popped.saved)
	}

	handlerFrame := vm.frames[len(vm.frames)-1]
	handlerFrame.ip = tf.handlerIP
	vm.file.Write(tf.handlerReg, errVal)
	return true
}

// diagFromValue converts a raise that reached the outermost frame with
// no try to catch it into the fatal diagnostic Run returns.
func (vm *VirtualMachine) diagFromValue(pos ast.Pos, v value.Value) *diag.Diagnostic {
	if obj, err := v.AsObject(); err == nil && obj != nil && obj.Kind == value.ObjError {
		code := diag.Code(obj.Err.Code)
		if code == "" {
			code = diag.CodeUserRaised
		}
		return diag.New(diag.SeverityRuntimeRecoverable, code, pos, "", "%s", obj.Err.Message)
	}
	return diag.New(diag.SeverityRuntimeRecoverable, diag.CodeUserRaised, pos, "", "unhandled error: %s", stringOf(v))
}
