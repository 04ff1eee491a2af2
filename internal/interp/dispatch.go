package interp

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/bytecode"
	"github.com/orus-lang/orus/internal/diag"
	"github.com/orus-lang/orus/internal/regfile"
	"github.com/orus-lang/orus/internal/value"
)

// Run drives the fetch/decode/execute loop for entry until it halts,
// an unhandled raise reaches the outermost frame, or a cancellation
// request lands at the next safe point. One Run call owns the entire
// call-frame stack; nested function chunks are pushed and popped by
// the call/return handlers below rather than by recursive Go calls, so
// guest recursion depth is bounded by MaxCallDepth rather than by this
// goroutine's own stack. out receives print/print_multi's output; pass
// io.Discard to run silently.
func (vm *VirtualMachine) Run(entry *bytecode.Chunk, out io.Writer) *diag.Diagnostic {
	if out == nil {
		out = io.Discard
	}
	start := time.Now()
	defer func() { vm.lastExecutionTime = time.Since(start) }()

	vm.registerChunk(entry)
	vm.frames = append(vm.frames, &callFrame{chunk: entry, name: entry.Name})

	for {
		if vm.cancelled() {
			return diag.New(diag.SeverityCancelled, diag.CodeCancelled, ast.Pos{}, "", "execution cancelled")
		}
		vm.maybeCollect()

		fr := vm.frames[len(vm.frames)-1]
		if fr.ip >= len(fr.chunk.Code) {
			return diag.New(diag.SeverityRuntimeFatal, diag.CodeMalformedBytecode, vm.posAt(fr), "", "chunk ran past its end without halt")
		}

		op := bytecode.Op(fr.chunk.Code[fr.ip])
		pos := vm.posAt(fr)
		fr.ip++
		vm.Profile.InstructionCount++

		if done, result := vm.step(fr, op, pos, out); done {
			return result
		}
	}
}

// step executes one decoded instruction against fr. done is true once
// Run should stop: result is nil on a clean halt, set on an unhandled
// fatal condition.
func (vm *VirtualMachine) step(fr *callFrame, op bytecode.Op, pos ast.Pos, out io.Writer) (done bool, result *diag.Diagnostic) {
	switch op {

	// --- Load/store/move -------------------------------------------------
	case bytecode.OpLoadConst:
		dst := vm.readReg(fr)
		idx := vm.readU16(fr)
		vm.file.Write(dst, fr.chunk.Constants[idx])
	case bytecode.OpLoadNil:
		vm.file.Write(vm.readReg(fr), value.Nil)
	case bytecode.OpLoadTrue:
		vm.file.Write(vm.readReg(fr), value.Bool(true))
	case bytecode.OpLoadFalse:
		vm.file.Write(vm.readReg(fr), value.Bool(false))
	case bytecode.OpMove:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		vm.file.Write(dst, vm.file.Read(src))
	case bytecode.OpLoadGlobal:
		dst := vm.readReg(fr)
		idx := vm.readU16(fr)
		if int(idx) < len(vm.moduleGlobals) {
			vm.file.Write(dst, vm.moduleGlobals[idx])
		} else {
			vm.file.Write(dst, value.Nil)
		}
	case bytecode.OpStoreGlobal:
		idx := vm.readU16(fr)
		src := vm.readReg(fr)
		vm.growModuleGlobals(int(idx) + 1)
		vm.moduleGlobals[idx] = vm.file.Read(src)

	// --- Boxed arithmetic --------------------------------------------------
	case bytecode.OpAddI32, bytecode.OpSubI32, bytecode.OpMulI32, bytecode.OpDivI32, bytecode.OpModI32:
		if ok, d := vm.boxedIntArith32(fr, pos, op); !ok {
			return true, d
		}
	case bytecode.OpAddI64, bytecode.OpSubI64, bytecode.OpMulI64, bytecode.OpDivI64, bytecode.OpModI64:
		if ok, d := vm.boxedIntArith64(fr, pos, op); !ok {
			return true, d
		}
	case bytecode.OpAddU32, bytecode.OpSubU32, bytecode.OpMulU32, bytecode.OpDivU32, bytecode.OpModU32:
		if ok, d := vm.boxedUintArith32(fr, pos, op); !ok {
			return true, d
		}
	case bytecode.OpAddU64, bytecode.OpSubU64, bytecode.OpMulU64, bytecode.OpDivU64, bytecode.OpModU64:
		if ok, d := vm.boxedUintArith64(fr, pos, op); !ok {
			return true, d
		}
	case bytecode.OpAddF64, bytecode.OpSubF64, bytecode.OpMulF64, bytecode.OpDivF64, bytecode.OpModF64:
		if ok, d := vm.boxedFloatArith(fr, pos, op); !ok {
			return true, d
		}
	case bytecode.OpNegI32:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		n, _ := vm.file.Read(src).AsI32()
		vm.file.Write(dst, value.I32(-n))
	case bytecode.OpNegI64:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		n, _ := vm.file.Read(src).AsI64()
		vm.file.Write(dst, value.I64(-n))
	case bytecode.OpNegF64:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		n, _ := vm.file.Read(src).AsF64()
		vm.file.Write(dst, value.F64(-n))
	case bytecode.OpIncI32:
		r := vm.readReg(fr)
		n, _ := vm.file.Read(r).AsI32()
		vm.file.Write(r, value.I32(n+1))
	case bytecode.OpDecI32:
		r := vm.readReg(fr)
		n, _ := vm.file.Read(r).AsI32()
		vm.file.Write(r, value.I32(n-1))

	// --- Typed-shadow arithmetic --------------------------------------------
	case bytecode.OpAddI32Typed, bytecode.OpSubI32Typed, bytecode.OpMulI32Typed, bytecode.OpDivI32Typed,
		bytecode.OpAddI64Typed, bytecode.OpSubI64Typed, bytecode.OpMulI64Typed, bytecode.OpDivI64Typed,
		bytecode.OpAddF64Typed, bytecode.OpSubF64Typed, bytecode.OpMulF64Typed, bytecode.OpDivF64Typed:
		if ok, d := vm.typedArith(fr, pos, op); !ok {
			return true, d
		}

	// --- Bitwise (i32 only) --------------------------------------------------
	case bytecode.OpBitAnd:
		dst, a, b := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		va, _ := vm.file.Read(a).AsI32()
		vb, _ := vm.file.Read(b).AsI32()
		vm.file.Write(dst, value.I32(va&vb))
	case bytecode.OpBitOr:
		dst, a, b := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		va, _ := vm.file.Read(a).AsI32()
		vb, _ := vm.file.Read(b).AsI32()
		vm.file.Write(dst, value.I32(va|vb))
	case bytecode.OpBitXor:
		dst, a, b := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		va, _ := vm.file.Read(a).AsI32()
		vb, _ := vm.file.Read(b).AsI32()
		vm.file.Write(dst, value.I32(va^vb))
	case bytecode.OpBitNot:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		v, _ := vm.file.Read(src).AsI32()
		vm.file.Write(dst, value.I32(^v))
	case bytecode.OpShl:
		dst, a, b := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		va, _ := vm.file.Read(a).AsI32()
		vb, _ := vm.file.Read(b).AsI32()
		vm.file.Write(dst, value.I32(va<<uint(vb&31)))
	case bytecode.OpShr:
		dst, a, b := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		va, _ := vm.file.Read(a).AsI32()
		vb, _ := vm.file.Read(b).AsI32()
		vm.file.Write(dst, value.I32(va>>uint(vb&31)))

	// --- Comparisons ---------------------------------------------------------
	case bytecode.OpEqI32, bytecode.OpNeI32:
		dst, a, b := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		va, aok := asI32OrBool(vm.file.Read(a))
		vb, bok := asI32OrBool(vm.file.Read(b))
		eq := aok && bok && va == vb
		vm.file.Write(dst, value.Bool(eq == (op == bytecode.OpEqI32)))
	case bytecode.OpLtI32, bytecode.OpLeI32, bytecode.OpGtI32, bytecode.OpGeI32:
		dst, a, b := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		va, _ := vm.file.Read(a).AsI32()
		vb, _ := vm.file.Read(b).AsI32()
		vm.file.Write(dst, value.Bool(intCompare(int64(va), int64(vb), op)))
	case bytecode.OpEqI64, bytecode.OpNeI64:
		dst, a, b := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		va, _ := vm.file.Read(a).AsI64()
		vb, _ := vm.file.Read(b).AsI64()
		vm.file.Write(dst, value.Bool((va == vb) == (op == bytecode.OpEqI64)))
	case bytecode.OpLtI64, bytecode.OpLeI64, bytecode.OpGtI64, bytecode.OpGeI64:
		dst, a, b := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		va, _ := vm.file.Read(a).AsI64()
		vb, _ := vm.file.Read(b).AsI64()
		vm.file.Write(dst, value.Bool(intCompare(va, vb, op)))
	case bytecode.OpEqU32, bytecode.OpNeU32:
		dst, a, b := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		va, _ := vm.file.Read(a).AsU32()
		vb, _ := vm.file.Read(b).AsU32()
		vm.file.Write(dst, value.Bool((va == vb) == (op == bytecode.OpEqU32)))
	case bytecode.OpLtU32, bytecode.OpLeU32, bytecode.OpGtU32, bytecode.OpGeU32:
		dst, a, b := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		va, _ := vm.file.Read(a).AsU32()
		vb, _ := vm.file.Read(b).AsU32()
		vm.file.Write(dst, value.Bool(uintCompare(uint64(va), uint64(vb), op)))
	case bytecode.OpEqU64, bytecode.OpNeU64:
		dst, a, b := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		va, _ := vm.file.Read(a).AsU64()
		vb, _ := vm.file.Read(b).AsU64()
		vm.file.Write(dst, value.Bool((va == vb) == (op == bytecode.OpEqU64)))
	case bytecode.OpLtU64, bytecode.OpLeU64, bytecode.OpGtU64, bytecode.OpGeU64:
		dst, a, b := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		va, _ := vm.file.Read(a).AsU64()
		vb, _ := vm.file.Read(b).AsU64()
		vm.file.Write(dst, value.Bool(uintCompare(va, vb, op)))
	case bytecode.OpEqF64, bytecode.OpNeF64:
		dst, a, b := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		va, _ := vm.file.Read(a).AsF64()
		vb, _ := vm.file.Read(b).AsF64()
		vm.file.Write(dst, value.Bool((va == vb) == (op == bytecode.OpEqF64)))
	case bytecode.OpLtF64, bytecode.OpLeF64, bytecode.OpGtF64, bytecode.OpGeF64:
		dst, a, b := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		va, _ := vm.file.Read(a).AsF64()
		vb, _ := vm.file.Read(b).AsF64()
		vm.file.Write(dst, value.Bool(floatCompare(va, vb, op)))
	case bytecode.OpEqObj, bytecode.OpNeObj:
		dst, a, b := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		eq := deepEqual(vm.file.Read(a), vm.file.Read(b))
		vm.file.Write(dst, value.Bool(eq == (op == bytecode.OpEqObj)))

	// --- Logical ---------------------------------------------------------------
	case bytecode.OpAndBool:
		dst, a, b := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		vm.file.Write(dst, value.Bool(vm.file.Read(a).Truthy() && vm.file.Read(b).Truthy()))
	case bytecode.OpOrBool:
		dst, a, b := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		vm.file.Write(dst, value.Bool(vm.file.Read(a).Truthy() || vm.file.Read(b).Truthy()))
	case bytecode.OpNotBool:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		vm.file.Write(dst, value.Bool(!vm.file.Read(src).Truthy()))

	// --- Coercion ------------------------------------------------------------
	case bytecode.OpConvI32ToI64:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		n, _ := vm.file.Read(src).AsI32()
		vm.file.Write(dst, value.I64(int64(n)))
	case bytecode.OpConvI64ToI32:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		n, _ := vm.file.Read(src).AsI64()
		if n < math.MinInt32 || n > math.MaxInt32 {
			if ok, d := vm.fail(pos, diag.CodeConversionFailure, "i64 value %d does not fit in i32", n); !ok {
				return true, d
			}
			break
		}
		vm.file.Write(dst, value.I32(int32(n)))
	case bytecode.OpConvI32ToF64:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		n, _ := vm.file.Read(src).AsI32()
		vm.file.Write(dst, value.F64(float64(n)))
	case bytecode.OpConvF64ToI32:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		f, _ := vm.file.Read(src).AsF64()
		vm.file.Write(dst, value.I32(int32(f)))
	case bytecode.OpConvI64ToF64:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		n, _ := vm.file.Read(src).AsI64()
		vm.file.Write(dst, value.F64(float64(n)))
	case bytecode.OpConvF64ToI64:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		f, _ := vm.file.Read(src).AsF64()
		vm.file.Write(dst, value.I64(int64(f)))
	case bytecode.OpConvI32ToBool:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		n, _ := vm.file.Read(src).AsI32()
		vm.file.Write(dst, value.Bool(n != 0))
	case bytecode.OpConvBoolToI32:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		b, _ := vm.file.Read(src).AsBool()
		if b {
			vm.file.Write(dst, value.I32(1))
		} else {
			vm.file.Write(dst, value.I32(0))
		}
	case bytecode.OpConvU32ToI32:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		n, _ := vm.file.Read(src).AsU32()
		vm.file.Write(dst, value.I32(int32(n)))
	case bytecode.OpConvI32ToU32:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		n, _ := vm.file.Read(src).AsI32()
		vm.file.Write(dst, value.U32(uint32(n)))
	case bytecode.OpConvU64ToU32:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		n, _ := vm.file.Read(src).AsU64()
		vm.file.Write(dst, value.U32(uint32(n)))
	case bytecode.OpConvU32ToU64:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		n, _ := vm.file.Read(src).AsU32()
		vm.file.Write(dst, value.U64(uint64(n)))
	case bytecode.OpConvI64ToU64:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		n, _ := vm.file.Read(src).AsI64()
		vm.file.Write(dst, value.U64(uint64(n)))
	case bytecode.OpConvU64ToI64:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		n, _ := vm.file.Read(src).AsU64()
		vm.file.Write(dst, value.I64(int64(n)))

	// --- String ---------------------------------------------------------------
	case bytecode.OpConcat:
		dst, a, b := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		left, right := vm.file.Read(a), vm.file.Read(b)
		vm.heap.PushTempRoot(left)
		vm.heap.PushTempRoot(right)
		result := vm.allocString(stringOf(left) + stringOf(right))
		vm.heap.PopTempRoot()
		vm.heap.PopTempRoot()
		vm.file.Write(dst, result)
	case bytecode.OpToString:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		vm.file.Write(dst, vm.allocString(stringOf(vm.file.Read(src))))

	// --- Array ------------------------------------------------------------------
	case bytecode.OpMakeArray:
		dst := vm.readReg(fr)
		first := vm.readReg(fr)
		n := int(vm.readU8(fr))
		elems := make([]value.Value, n)
		for i := 0; i < n; i++ {
			elems[i] = vm.file.Read(first + regfile.LogicalID(i))
		}
		vm.file.Write(dst, vm.allocArray(elems))
	case bytecode.OpArrayGet:
		dst, arrReg, idxReg := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		obj, err := vm.file.Read(arrReg).AsObject()
		if err != nil || obj.Kind != value.ObjArray {
			if ok, d := vm.fail(pos, diag.CodeTypeError, "index target is not an array"); !ok {
				return true, d
			}
			break
		}
		idx, _ := vm.file.Read(idxReg).AsI32()
		if idx < 0 || int(idx) >= len(obj.Arr.Elems) {
			if ok, d := vm.fail(pos, diag.CodeIndexOutOfRange, "index %d out of range for array of length %d", idx, len(obj.Arr.Elems)); !ok {
				return true, d
			}
			break
		}
		vm.file.Write(dst, obj.Arr.Elems[idx])
	case bytecode.OpArraySet:
		arrReg, idxReg, valReg := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		obj, err := vm.file.Read(arrReg).AsObject()
		if err != nil || obj.Kind != value.ObjArray {
			if ok, d := vm.fail(pos, diag.CodeTypeError, "assignment target is not an array"); !ok {
				return true, d
			}
			break
		}
		idx, _ := vm.file.Read(idxReg).AsI32()
		if idx < 0 || int(idx) >= len(obj.Arr.Elems) {
			if ok, d := vm.fail(pos, diag.CodeIndexOutOfRange, "index %d out of range for array of length %d", idx, len(obj.Arr.Elems)); !ok {
				return true, d
			}
			break
		}
		obj.Arr.Elems[idx] = vm.file.Read(valReg)
	case bytecode.OpArrayLen:
		dst, arrReg := vm.readReg(fr), vm.readReg(fr)
		obj, err := vm.file.Read(arrReg).AsObject()
		if err != nil || obj.Kind != value.ObjArray {
			if ok, d := vm.fail(pos, diag.CodeTypeError, "len target is not an array"); !ok {
				return true, d
			}
			break
		}
		vm.file.Write(dst, value.I32(int32(len(obj.Arr.Elems))))

	// --- Control flow --------------------------------------------------------------
	case bytecode.OpJump:
		dist := vm.readJumpL(fr)
		fr.ip += int(dist)
	case bytecode.OpJumpShort:
		dist := vm.readJumpS(fr)
		fr.ip += int(dist)
	case bytecode.OpJumpIfFalse:
		cond := vm.readReg(fr)
		dist := vm.readJumpL(fr)
		if !vm.file.Read(cond).Truthy() {
			fr.ip += int(dist)
		}
	case bytecode.OpJumpIfFalseShort:
		cond := vm.readReg(fr)
		dist := vm.readJumpS(fr)
		if !vm.file.Read(cond).Truthy() {
			fr.ip += int(dist)
		}
	case bytecode.OpJumpIfTrue:
		cond := vm.readReg(fr)
		dist := vm.readJumpL(fr)
		if vm.file.Read(cond).Truthy() {
			fr.ip += int(dist)
		}
	case bytecode.OpJumpIfTrueShort:
		cond := vm.readReg(fr)
		dist := vm.readJumpS(fr)
		if vm.file.Read(cond).Truthy() {
			fr.ip += int(dist)
		}
	case bytecode.OpLoop:
		dist := vm.readJumpL(fr)
		fr.ip += int(dist)
	case bytecode.OpLoopShort:
		dist := vm.readJumpS(fr)
		fr.ip += int(dist)
	case bytecode.OpIncCmpJump:
		// Peephole fusion target; internal/compiler never emits this
		// (see internal/compiler/peephole.go), so no chunk this VM is
		// handed should contain one.
		vm.readReg(fr)
		vm.readReg(fr)
		vm.readJumpL(fr)
		return true, diag.New(diag.SeverityRuntimeFatal, diag.CodeMalformedBytecode, pos, "", "inc_cmp_jmp is not emitted by this compiler")
	case bytecode.OpAddImm:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		imm := vm.readU8(fr)
		n, _ := vm.file.Read(src).AsI32()
		vm.file.Write(dst, value.I32(n+int32(imm)))

	// --- Calls/return -----------------------------------------------------------
	case bytecode.OpCall, bytecode.OpTailCall:
		if ok, d := vm.execCall(fr, pos, op); !ok {
			return true, d
		}
	case bytecode.OpReturn:
		r := vm.readReg(fr)
		if !vm.execReturn(vm.file.Read(r)) {
			return true, nil
		}
	case bytecode.OpReturnVoid:
		if !vm.execReturn(value.Nil) {
			return true, nil
		}

	// --- Iteration ---------------------------------------------------------------
	case bytecode.OpGetIter:
		dst, src := vm.readReg(fr), vm.readReg(fr)
		obj, err := vm.file.Read(src).AsObject()
		if err != nil {
			if ok, d := vm.fail(pos, diag.CodeTypeError, "value is not iterable"); !ok {
				return true, d
			}
			break
		}
		switch obj.Kind {
		case value.ObjRange:
			vm.file.Write(dst, vm.allocRangeIter(obj.Rng.Current, obj.Rng.End, obj.Rng.Inclusive))
		case value.ObjArray:
			vm.file.Write(dst, vm.allocArrayIter(obj.Arr))
		default:
			if ok, d := vm.fail(pos, diag.CodeTypeError, "value is not iterable"); !ok {
				return true, d
			}
		}
	case bytecode.OpIterNext:
		hasNextDst, valDst, iterReg := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
		obj, err := vm.file.Read(iterReg).AsObject()
		if err != nil || obj.Kind != value.ObjIter {
			if ok, d := vm.fail(pos, diag.CodeTypeError, "value is not an iterator"); !ok {
				return true, d
			}
			break
		}
		it := obj.Iter
		if !it.HasNext() {
			vm.file.Write(hasNextDst, value.Bool(false))
			vm.file.Write(valDst, value.Nil)
			break
		}
		vm.file.Write(hasNextDst, value.Bool(true))
		if it.Range != nil {
			vm.file.Write(valDst, value.I64(it.Range.Current))
			it.Range.Current++
		} else {
			vm.file.Write(valDst, it.Array.Elems[it.Index])
			it.Index++
		}

	// --- I/O -----------------------------------------------------------------------
	case bytecode.OpPrint:
		r := vm.readReg(fr)
		fmt.Fprintf(out, "%s\n", stringOf(vm.file.Read(r)))
	case bytecode.OpPrintMulti:
		first := vm.readReg(fr)
		n := int(vm.readU8(fr))
		newline := vm.readU8(fr)
		for i := 0; i < n; i++ {
			if i > 0 {
				fmt.Fprint(out, " ")
			}
			fmt.Fprint(out, stringOf(vm.file.Read(first+regfile.LogicalID(i))))
		}
		if newline != 0 {
			fmt.Fprint(out, "\n")
		}

	// --- Try/catch -------------------------------------------------------------------
	case bytecode.OpPushTry:
		handlerIP := int(vm.readU16(fr))
		handlerReg := vm.readReg(fr)
		vm.tries = append(vm.tries, tryFrame{handlerIP: handlerIP, handlerReg: handlerReg, callDepth: len(vm.frames)})
	case bytecode.OpPopTry:
		if n := len(vm.tries); n > 0 {
			vm.tries = vm.tries[:n-1]
		}
	case bytecode.OpRaise:
		r := vm.readReg(fr)
		errVal := vm.file.Read(r)
		if !vm.raise(errVal) {
			return true, vm.diagFromValue(pos, errVal)
		}

	// --- Meta ------------------------------------------------------------------------
	case bytecode.OpGCPause:
		vm.heap.Pause()
	case bytecode.OpGCResume:
		vm.heap.Resume()
	case bytecode.OpHalt:
		if len(vm.frames) == 1 {
			return true, nil
		}
		return true, diag.New(diag.SeverityRuntimeFatal, diag.CodeMalformedBytecode, pos, "", "function chunk halted without returning")

	default:
		return true, diag.New(diag.SeverityRuntimeFatal, diag.CodeMalformedBytecode, pos, "", "unknown opcode %d", byte(op))
	}

	return false, nil
}
