// Package value implements Orus's tagged value union and the heap object
// model that backs strings, arrays, closures, and the other reference
// kinds. Every Value carries its own kind tag; operators dispatch on it
// rather than relying on an interface's dynamic type, the same way GVM
// treats its flat registers as untyped bit patterns and lets each opcode
// decide how to interpret them.
package value

import (
	"fmt"
	"math"
)

// Kind tags a Value's active representation.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindI32
	KindI64
	KindU32
	KindU64
	KindF64
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindF64:
		return "f64"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is Orus's tagged union. Numeric kinds are stored in bits as their
// native representation reinterpreted as uint64; KindObject stores a
// pointer into the heap. Zero value is KindNil.
type Value struct {
	kind Kind
	bits uint64
	obj  *Object
}

// Nil is the canonical nil value.
var Nil = Value{kind: KindNil}

func Bool(b bool) Value {
	var bits uint64
	if b {
		bits = 1
	}
	return Value{kind: KindBool, bits: bits}
}

func I32(v int32) Value  { return Value{kind: KindI32, bits: uint64(uint32(v))} }
func I64(v int64) Value  { return Value{kind: KindI64, bits: uint64(v)} }
func U32(v uint32) Value { return Value{kind: KindU32, bits: uint64(v)} }
func U64(v uint64) Value { return Value{kind: KindU64, bits: v} }
func F64(v float64) Value {
	return Value{kind: KindF64, bits: math.Float64bits(canonicalizeNaN(v))}
}

func FromObject(o *Object) Value {
	if o == nil {
		return Nil
	}
	return Value{kind: KindObject, obj: o}
}

func canonicalizeNaN(v float64) float64 {
	if math.IsNaN(v) {
		return math.NaN()
	}
	return v
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNil() bool  { return v.kind == KindNil }
func (v Value) IsBool() bool { return v.kind == KindBool }
func (v Value) IsI32() bool  { return v.kind == KindI32 }
func (v Value) IsI64() bool  { return v.kind == KindI64 }
func (v Value) IsU32() bool  { return v.kind == KindU32 }
func (v Value) IsU64() bool  { return v.kind == KindU64 }
func (v Value) IsF64() bool  { return v.kind == KindF64 }
func (v Value) IsObject() bool {
	return v.kind == KindObject
}

// KindMismatchError is raised by accessors when the kind tag does not
// match the caller's expectation. Handlers turn this into a runtime
// TypeError with the source location recovered from the chunk's line
// table (see internal/interp).
type KindMismatchError struct {
	Want Kind
	Got  Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("value: expected kind %s, got %s", e.Want, e.Got)
}

func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, &KindMismatchError{Want: KindBool, Got: v.kind}
	}
	return v.bits != 0, nil
}

func (v Value) AsI32() (int32, error) {
	if v.kind != KindI32 {
		return 0, &KindMismatchError{Want: KindI32, Got: v.kind}
	}
	return int32(uint32(v.bits)), nil
}

func (v Value) AsI64() (int64, error) {
	if v.kind != KindI64 {
		return 0, &KindMismatchError{Want: KindI64, Got: v.kind}
	}
	return int64(v.bits), nil
}

func (v Value) AsU32() (uint32, error) {
	if v.kind != KindU32 {
		return 0, &KindMismatchError{Want: KindU32, Got: v.kind}
	}
	return uint32(v.bits), nil
}

func (v Value) AsU64() (uint64, error) {
	if v.kind != KindU64 {
		return 0, &KindMismatchError{Want: KindU64, Got: v.kind}
	}
	return v.bits, nil
}

func (v Value) AsF64() (float64, error) {
	if v.kind != KindF64 {
		return 0, &KindMismatchError{Want: KindF64, Got: v.kind}
	}
	return math.Float64frombits(v.bits), nil
}

func (v Value) AsObject() (*Object, error) {
	if v.kind != KindObject {
		return nil, &KindMismatchError{Want: KindObject, Got: v.kind}
	}
	return v.obj, nil
}

// MustObject is used internally by handlers that have already validated
// the kind through the dispatch table's operand contract.
func (v Value) MustObject() *Object { return v.obj }

// Truthy implements the VM's boolean-coercion rule for conditional jumps:
// booleans use their own value, nil is false, every other kind is true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.bits != 0
	default:
		return true
	}
}
