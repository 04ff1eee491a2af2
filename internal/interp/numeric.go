package interp

import (
	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/bytecode"
	"github.com/orus-lang/orus/internal/diag"
	"github.com/orus-lang/orus/internal/regfile"
	"github.com/orus-lang/orus/internal/value"
)

// boxedIntArith32/64, boxedUintArith32/64 and boxedFloatArith implement
// the five-opcode add/sub/mul/div/mod family for one numeric kind each.
// Every family shares the same threeReg (dst, a, b) operand shape, so
// decoding is identical across them; only the arithmetic and the
// overflow/zero-divisor checks differ. ok reports whether the loop
// should keep running (either the op succeeded or a raised error was
// caught by a try frame); d is set only when ok is false.

func (vm *VirtualMachine) boxedIntArith32(fr *callFrame, pos ast.Pos, op bytecode.Op) (bool, *diag.Diagnostic) {
	dst, aReg, bReg := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
	a, _ := vm.file.Read(aReg).AsI32()
	b, _ := vm.file.Read(bReg).AsI32()

	var r int32
	var overflow bool
	switch op {
	case bytecode.OpAddI32:
		r, overflow = addOverflowI32(a, b)
	case bytecode.OpSubI32:
		r, overflow = subOverflowI32(a, b)
	case bytecode.OpMulI32:
		r, overflow = mulOverflowI32(a, b)
	case bytecode.OpDivI32:
		if b == 0 {
			return vm.fail(pos, diag.CodeDivisionByZero, "division by zero")
		}
		r = a / b
	case bytecode.OpModI32:
		if b == 0 {
			return vm.fail(pos, diag.CodeDivisionByZero, "modulo by zero")
		}
		r = a % b
	}
	if overflow {
		return vm.fail(pos, diag.CodeArithmeticOverflow, "i32 arithmetic overflow")
	}
	vm.file.Write(dst, value.I32(r))
	return true, nil
}

func (vm *VirtualMachine) boxedIntArith64(fr *callFrame, pos ast.Pos, op bytecode.Op) (bool, *diag.Diagnostic) {
	dst, aReg, bReg := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
	a, _ := vm.file.Read(aReg).AsI64()
	b, _ := vm.file.Read(bReg).AsI64()

	var r int64
	var overflow bool
	switch op {
	case bytecode.OpAddI64:
		r, overflow = addOverflowI64(a, b)
	case bytecode.OpSubI64:
		r, overflow = subOverflowI64(a, b)
	case bytecode.OpMulI64:
		r, overflow = mulOverflowI64(a, b)
	case bytecode.OpDivI64:
		if b == 0 {
			return vm.fail(pos, diag.CodeDivisionByZero, "division by zero")
		}
		r = a / b
	case bytecode.OpModI64:
		if b == 0 {
			return vm.fail(pos, diag.CodeDivisionByZero, "modulo by zero")
		}
		r = a % b
	}
	if overflow {
		return vm.fail(pos, diag.CodeArithmeticOverflow, "i64 arithmetic overflow")
	}
	vm.file.Write(dst, value.I64(r))
	return true, nil
}

func (vm *VirtualMachine) boxedUintArith32(fr *callFrame, pos ast.Pos, op bytecode.Op) (bool, *diag.Diagnostic) {
	dst, aReg, bReg := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
	a, _ := vm.file.Read(aReg).AsU32()
	b, _ := vm.file.Read(bReg).AsU32()

	// Unsigned add/sub/mul wrap rather than error (spec.md 4.6), matching
	// internal/compiler/optimizer.go's foldUintBinary; only div/mod-by-zero
	// are unsigned errors.
	var r uint32
	switch op {
	case bytecode.OpAddU32:
		r = a + b
	case bytecode.OpSubU32:
		r = a - b
	case bytecode.OpMulU32:
		r = a * b
	case bytecode.OpDivU32:
		if b == 0 {
			return vm.fail(pos, diag.CodeDivisionByZero, "division by zero")
		}
		r = a / b
	case bytecode.OpModU32:
		if b == 0 {
			return vm.fail(pos, diag.CodeDivisionByZero, "modulo by zero")
		}
		r = a % b
	}
	vm.file.Write(dst, value.U32(r))
	return true, nil
}

func (vm *VirtualMachine) boxedUintArith64(fr *callFrame, pos ast.Pos, op bytecode.Op) (bool, *diag.Diagnostic) {
	dst, aReg, bReg := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
	a, _ := vm.file.Read(aReg).AsU64()
	b, _ := vm.file.Read(bReg).AsU64()

	var r uint64
	switch op {
	case bytecode.OpAddU64:
		r = a + b
	case bytecode.OpSubU64:
		r = a - b
	case bytecode.OpMulU64:
		r = a * b
	case bytecode.OpDivU64:
		if b == 0 {
			return vm.fail(pos, diag.CodeDivisionByZero, "division by zero")
		}
		r = a / b
	case bytecode.OpModU64:
		if b == 0 {
			return vm.fail(pos, diag.CodeDivisionByZero, "modulo by zero")
		}
		r = a % b
	}
	vm.file.Write(dst, value.U64(r))
	return true, nil
}

func (vm *VirtualMachine) boxedFloatArith(fr *callFrame, pos ast.Pos, op bytecode.Op) (bool, *diag.Diagnostic) {
	dst, aReg, bReg := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)
	a, _ := vm.file.Read(aReg).AsF64()
	b, _ := vm.file.Read(bReg).AsF64()

	var r float64
	switch op {
	case bytecode.OpAddF64:
		r = a + b
	case bytecode.OpSubF64:
		r = a - b
	case bytecode.OpMulF64:
		r = a * b
	case bytecode.OpDivF64:
		if b == 0 {
			return vm.fail(pos, diag.CodeDivisionByZero, "division by zero")
		}
		r = a / b
	case bytecode.OpModF64:
		if b == 0 {
			return vm.fail(pos, diag.CodeDivisionByZero, "modulo by zero")
		}
		r = mathMod(a, b)
	}
	vm.file.Write(dst, value.F64(r))
	return true, nil
}

// typedArith services the twelve typed-shadow opcodes: read both
// operands through the typed bank ReadTyped expects, compute directly
// on the unboxed bits, and write back through WriteTyped. A
// RegisterKindMismatchError means the shadow isn't live for one of the
// operands (the common case right after a branch merges two paths with
// different typed histories); that's not an error condition, just a
// signal to fall back to the boxed path for this one instruction.
func (vm *VirtualMachine) typedArith(fr *callFrame, pos ast.Pos, op bytecode.Op) (bool, *diag.Diagnostic) {
	dst, aReg, bReg := vm.readReg(fr), vm.readReg(fr), vm.readReg(fr)

	var bank regfile.TypedBank
	switch op {
	case bytecode.OpAddI32Typed, bytecode.OpSubI32Typed, bytecode.OpMulI32Typed, bytecode.OpDivI32Typed:
		bank = regfile.BankI32
	case bytecode.OpAddI64Typed, bytecode.OpSubI64Typed, bytecode.OpMulI64Typed, bytecode.OpDivI64Typed:
		bank = regfile.BankI64
	default:
		bank = regfile.BankF64
	}

	araw, aerr := vm.file.ReadTyped(aReg, bank)
	braw, berr := vm.file.ReadTyped(bReg, bank)
	if aerr != nil || berr != nil {
		vm.Profile.TypedMisses++
		return vm.typedArithBoxedFallback(fr, dst, aReg, bReg, pos, op, bank)
	}
	vm.Profile.TypedHits++

	switch bank {
	case regfile.BankI32:
		a, b := int32(uint32(araw)), int32(uint32(braw))
		var r int32
		var overflow bool
		switch op {
		case bytecode.OpAddI32Typed:
			r, overflow = addOverflowI32(a, b)
		case bytecode.OpSubI32Typed:
			r, overflow = subOverflowI32(a, b)
		case bytecode.OpMulI32Typed:
			r, overflow = mulOverflowI32(a, b)
		case bytecode.OpDivI32Typed:
			if b == 0 {
				return vm.fail(pos, diag.CodeDivisionByZero, "division by zero")
			}
			r = a / b
		}
		if overflow {
			return vm.fail(pos, diag.CodeArithmeticOverflow, "i32 arithmetic overflow")
		}
		vm.file.WriteTyped(dst, regfile.BankI32, uint64(uint32(r)))
	case regfile.BankI64:
		a, b := int64(araw), int64(braw)
		var r int64
		var overflow bool
		switch op {
		case bytecode.OpAddI64Typed:
			r, overflow = addOverflowI64(a, b)
		case bytecode.OpSubI64Typed:
			r, overflow = subOverflowI64(a, b)
		case bytecode.OpMulI64Typed:
			r, overflow = mulOverflowI64(a, b)
		case bytecode.OpDivI64Typed:
			if b == 0 {
				return vm.fail(pos, diag.CodeDivisionByZero, "division by zero")
			}
			r = a / b
		}
		if overflow {
			return vm.fail(pos, diag.CodeArithmeticOverflow, "i64 arithmetic overflow")
		}
		vm.file.WriteTyped(dst, regfile.BankI64, uint64(r))
	default: // BankF64
		a, b := rawToF64(araw), rawToF64(braw)
		var r float64
		switch op {
		case bytecode.OpAddF64Typed:
			r = a + b
		case bytecode.OpSubF64Typed:
			r = a - b
		case bytecode.OpMulF64Typed:
			r = a * b
		case bytecode.OpDivF64Typed:
			if b == 0 {
				return vm.fail(pos, diag.CodeDivisionByZero, "division by zero")
			}
			r = a / b
		}
		vm.file.WriteTyped(dst, regfile.BankF64, f64ToRaw(r))
	}
	return true, nil
}

// typedArithBoxedFallback re-decodes the operands through the boxed
// view and performs the same op, writing the boxed result (which also
// re-establishes a fresh typed shadow on dst the next time something
// reads it through ReadTyped, via File's own sync-on-read behavior).
func (vm *VirtualMachine) typedArithBoxedFallback(fr *callFrame, dst, aReg, bReg regfile.LogicalID, pos ast.Pos, op bytecode.Op, bank regfile.TypedBank) (bool, *diag.Diagnostic) {
	switch bank {
	case regfile.BankI32:
		a, _ := vm.file.Read(aReg).AsI32()
		b, _ := vm.file.Read(bReg).AsI32()
		var r int32
		var overflow bool
		switch op {
		case bytecode.OpAddI32Typed:
			r, overflow = addOverflowI32(a, b)
		case bytecode.OpSubI32Typed:
			r, overflow = subOverflowI32(a, b)
		case bytecode.OpMulI32Typed:
			r, overflow = mulOverflowI32(a, b)
		case bytecode.OpDivI32Typed:
			if b == 0 {
				return vm.fail(pos, diag.CodeDivisionByZero, "division by zero")
			}
			r = a / b
		}
		if overflow {
			return vm.fail(pos, diag.CodeArithmeticOverflow, "i32 arithmetic overflow")
		}
		vm.file.Write(dst, value.I32(r))
	case regfile.BankI64:
		a, _ := vm.file.Read(aReg).AsI64()
		b, _ := vm.file.Read(bReg).AsI64()
		var r int64
		var overflow bool
		switch op {
		case bytecode.OpAddI64Typed:
			r, overflow = addOverflowI64(a, b)
		case bytecode.OpSubI64Typed:
			r, overflow = subOverflowI64(a, b)
		case bytecode.OpMulI64Typed:
			r, overflow = mulOverflowI64(a, b)
		case bytecode.OpDivI64Typed:
			if b == 0 {
				return vm.fail(pos, diag.CodeDivisionByZero, "division by zero")
			}
			r = a / b
		}
		if overflow {
			return vm.fail(pos, diag.CodeArithmeticOverflow, "i64 arithmetic overflow")
		}
		vm.file.Write(dst, value.I64(r))
	default:
		a, _ := vm.file.Read(aReg).AsF64()
		b, _ := vm.file.Read(bReg).AsF64()
		var r float64
		switch op {
		case bytecode.OpAddF64Typed:
			r = a + b
		case bytecode.OpSubF64Typed:
			r = a - b
		case bytecode.OpMulF64Typed:
			r = a * b
		case bytecode.OpDivF64Typed:
			if b == 0 {
				return vm.fail(pos, diag.CodeDivisionByZero, "division by zero")
			}
			r = a / b
		}
		vm.file.Write(dst, value.F64(r))
	}
	return true, nil
}

func asI32OrBool(v value.Value) (int32, bool) {
	switch v.Kind() {
	case value.KindI32:
		n, _ := v.AsI32()
		return n, true
	case value.KindBool:
		b, _ := v.AsBool()
		if b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func intCompare(a, b int64, op bytecode.Op) bool {
	switch op {
	case bytecode.OpLtI32, bytecode.OpLtI64:
		return a < b
	case bytecode.OpLeI32, bytecode.OpLeI64:
		return a <= b
	case bytecode.OpGtI32, bytecode.OpGtI64:
		return a > b
	case bytecode.OpGeI32, bytecode.OpGeI64:
		return a >= b
	default:
		return false
	}
}

func uintCompare(a, b uint64, op bytecode.Op) bool {
	switch op {
	case bytecode.OpLtU32, bytecode.OpLtU64:
		return a < b
	case bytecode.OpLeU32, bytecode.OpLeU64:
		return a <= b
	case bytecode.OpGtU32, bytecode.OpGtU64:
		return a > b
	case bytecode.OpGeU32, bytecode.OpGeU64:
		return a >= b
	default:
		return false
	}
}

func floatCompare(a, b float64, op bytecode.Op) bool {
	switch op {
	case bytecode.OpLtF64:
		return a < b
	case bytecode.OpLeF64:
		return a <= b
	case bytecode.OpGtF64:
		return a > b
	case bytecode.OpGeF64:
		return a >= b
	default:
		return false
	}
}

// deepEqual implements eq_obj/ne_obj's documented relation: structural
// equality over strings/arrays/ranges/structs/enums, pointer identity
// for closures and any other object kind, and equality across non-object
// kinds reduces to the boxed Value's own scalar comparison.
func deepEqual(a, b value.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	if a.Kind() != value.KindObject {
		return boxedScalarEqual(a, b)
	}
	oa, _ := a.AsObject()
	ob, _ := b.AsObject()
	if oa == ob {
		return true
	}
	if oa == nil || ob == nil || oa.Kind != ob.Kind {
		return false
	}
	switch oa.Kind {
	case value.ObjString:
		return oa.Str.String() == ob.Str.String()
	case value.ObjArray:
		if len(oa.Arr.Elems) != len(ob.Arr.Elems) {
			return false
		}
		for i := range oa.Arr.Elems {
			if !deepEqual(oa.Arr.Elems[i], ob.Arr.Elems[i]) {
				return false
			}
		}
		return true
	case value.ObjRange:
		return oa.Rng.Current == ob.Rng.Current && oa.Rng.End == ob.Rng.End && oa.Rng.Inclusive == ob.Rng.Inclusive
	case value.ObjStruct:
		if oa.Struct.TypeName != ob.Struct.TypeName || len(oa.Struct.Fields) != len(ob.Struct.Fields) {
			return false
		}
		for i := range oa.Struct.Fields {
			if !deepEqual(oa.Struct.Fields[i], ob.Struct.Fields[i]) {
				return false
			}
		}
		return true
	case value.ObjEnum:
		if oa.Enum.TypeName != ob.Enum.TypeName || oa.Enum.Variant != ob.Enum.Variant || len(oa.Enum.Payload) != len(ob.Enum.Payload) {
			return false
		}
		for i := range oa.Enum.Payload {
			if !deepEqual(oa.Enum.Payload[i], ob.Enum.Payload[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func boxedScalarEqual(a, b value.Value) bool {
	switch a.Kind() {
	case value.KindNil:
		return true
	case value.KindBool:
		x, _ := a.AsBool()
		y, _ := b.AsBool()
		return x == y
	case value.KindI32:
		x, _ := a.AsI32()
		y, _ := b.AsI32()
		return x == y
	case value.KindI64:
		x, _ := a.AsI64()
		y, _ := b.AsI64()
		return x == y
	case value.KindU32:
		x, _ := a.AsU32()
		y, _ := b.AsU32()
		return x == y
	case value.KindU64:
		x, _ := a.AsU64()
		y, _ := b.AsU64()
		return x == y
	case value.KindF64:
		x, _ := a.AsF64()
		y, _ := b.AsF64()
		return x == y
	default:
		return false
	}
}

// stringOf renders v for concat/to_string/print, matching spec.md 4.8's
// display-string rules: booleans as true/false, floats via Go's default
// shortest-round-trip formatting, objects per their own textual form.
func stringOf(v value.Value) string {
	switch v.Kind() {
	case value.KindNil:
		return "nil"
	case value.KindBool:
		b, _ := v.AsBool()
		if b {
			return "true"
		}
		return "false"
	case value.KindI32:
		n, _ := v.AsI32()
		return itoa64(int64(n))
	case value.KindI64:
		n, _ := v.AsI64()
		return itoa64(n)
	case value.KindU32:
		n, _ := v.AsU32()
		return utoa64(uint64(n))
	case value.KindU64:
		n, _ := v.AsU64()
		return utoa64(n)
	case value.KindF64:
		f, _ := v.AsF64()
		return ftoa(f)
	case value.KindObject:
		obj, _ := v.AsObject()
		return stringOfObject(obj)
	default:
		return ""
	}
}

func stringOfObject(obj *value.Object) string {
	if obj == nil {
		return "nil"
	}
	switch obj.Kind {
	case value.ObjString:
		return obj.Str.String()
	case value.ObjError:
		return obj.Err.String()
	case value.ObjArray:
		s := "["
		for i, e := range obj.Arr.Elems {
			if i > 0 {
				s += ", "
			}
			s += stringOf(e)
		}
		return s + "]"
	case value.ObjRange:
		sep := ".."
		if obj.Rng.Inclusive {
			sep = "..="
		}
		return itoa64(obj.Rng.Current) + sep + itoa64(obj.Rng.End)
	case value.ObjClosure:
		return "<function " + obj.Closure.Name + ">"
	case value.ObjStruct:
		return "<" + obj.Struct.TypeName + ">"
	case value.ObjEnum:
		return obj.Enum.TypeName
	default:
		return "<object>"
	}
}
