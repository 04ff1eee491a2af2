package value

import "fmt"

// ObjectKind tags the variant body stored after an Object header.
type ObjectKind uint8

const (
	ObjString ObjectKind = iota
	ObjArray
	ObjError
	ObjRange
	ObjIter
	ObjClosure
	ObjStruct
	ObjEnum
)

func (k ObjectKind) String() string {
	switch k {
	case ObjString:
		return "string"
	case ObjArray:
		return "array"
	case ObjError:
		return "error"
	case ObjRange:
		return "range"
	case ObjIter:
		return "iterator"
	case ObjClosure:
		return "closure"
	case ObjStruct:
		return "struct"
	case ObjEnum:
		return "enum"
	default:
		return "unknown-object"
	}
}

// Object is the common header every heap allocation carries: a kind tag,
// a GC mark bit, and an intrusive link into the memory manager's sweep
// list. The variant body is stored in one of the embedded pointers below;
// exactly one is non-nil, selected by Kind.
//
// Mark bits are false between collections (spec.md 3's GC invariant).
type Object struct {
	Kind   ObjectKind
	Marked bool
	Next   *Object // intrusive sweep-list link, owned by internal/gc

	Str     *StringObject
	Arr     *ArrayObject
	Err     *ErrorObject
	Rng     *RangeObject
	Iter    *IterObject
	Closure *ClosureObject
	Struct  *StructObject
	Enum    *EnumObject
}

// StringObject is a length-prefixed byte sequence with a cached hash so
// repeated equality/map-key use doesn't re-hash.
type StringObject struct {
	Bytes    []byte
	hash     uint64
	hashDone bool
}

func NewStringObject(s string) *Object {
	return &Object{Kind: ObjString, Str: &StringObject{Bytes: []byte(s)}}
}

func (s *StringObject) String() string { return string(s.Bytes) }

func (s *StringObject) Hash() uint64 {
	if s.hashDone {
		return s.hash
	}
	// FNV-1a, same algorithm family GVM's devices subsystem doesn't need
	// but bytecode string interning does; computed lazily and cached.
	var h uint64 = 14695981039346656037
	for _, b := range s.Bytes {
		h ^= uint64(b)
		h *= 1099511628211
	}
	s.hash = h
	s.hashDone = true
	return h
}

// ArrayObject is a length/capacity/buffer triple of boxed values.
type ArrayObject struct {
	Elems []Value
}

func NewArrayObject(elems []Value) *Object {
	return &Object{Kind: ObjArray, Arr: &ArrayObject{Elems: elems}}
}

func (a *ArrayObject) Len() int { return len(a.Elems) }

// ErrorObject carries a runtime error kind/message/source location as a
// first-class value so try/catch can bind it to a register. ErrKind is
// the human-readable name user code sees when it prints a caught error
// (e.g. "DivisionByZero"); Code is the stable E*/R*/F* wire identifier
// diag.Diagnostic formatting keys off of if the error escapes unhandled.
type ErrorObject struct {
	ErrKind string
	Code    string
	Message string
	File    string
	Line    int
	Column  int
}

func NewErrorObject(kind, code, message, file string, line, column int) *Object {
	return &Object{Kind: ObjError, Err: &ErrorObject{
		ErrKind: kind, Code: code, Message: message, File: file, Line: line, Column: column,
	}}
}

func (e *ErrorObject) String() string {
	return fmt.Sprintf("%s: %s", e.ErrKind, e.Message)
}

// RangeObject backs get_iter/iter_next over `a..b` and `a..=b` literals.
type RangeObject struct {
	Current  int64
	End      int64
	Inclusive bool
}

func NewRangeObject(current, end int64, inclusive bool) *Object {
	return &Object{Kind: ObjRange, Rng: &RangeObject{Current: current, End: end, Inclusive: inclusive}}
}

func (r *RangeObject) HasNext() bool {
	if r.Inclusive {
		return r.Current <= r.End
	}
	return r.Current < r.End
}

// IterObject is what get_iter produces: either a wrapped range (current,
// end) or a wrapped array plus a running index. iter_next reads from
// whichever is populated.
type IterObject struct {
	Range *RangeObject
	Array *ArrayObject
	Index int
}

func NewRangeIterObject(r *RangeObject) *Object {
	return &Object{Kind: ObjIter, Iter: &IterObject{Range: r}}
}

func NewArrayIterObject(arr *ArrayObject) *Object {
	return &Object{Kind: ObjIter, Iter: &IterObject{Array: arr}}
}

// HasNext reports whether a further iter_next call would yield a value.
func (it *IterObject) HasNext() bool {
	if it.Range != nil {
		return it.Range.HasNext()
	}
	return it.Index < len(it.Array.Elems)
}

// ClosureObject bundles a code reference (opaque to this package; the
// interpreter supplies the concrete chunk pointer type) with captured
// upvalues.
type ClosureObject struct {
	// Chunk is `interface{}` here to avoid an import cycle with
	// internal/bytecode; internal/interp asserts it back to *bytecode.Chunk
	// at the single construction site (see interp/closure.go).
	Chunk     interface{}
	Upvalues  []*Value
	Name      string
	Arity     int
}

func NewClosureObject(chunk interface{}, name string, arity int, upvalues []*Value) *Object {
	return &Object{Kind: ObjClosure, Closure: &ClosureObject{Chunk: chunk, Name: name, Arity: arity, Upvalues: upvalues}}
}

// StructObject is a field vector addressed by the compiler's resolved
// field-index table (field names are resolved at compile time; the VM
// only ever sees positions).
type StructObject struct {
	TypeName string
	Fields   []Value
}

func NewStructObject(typeName string, fields []Value) *Object {
	return &Object{Kind: ObjStruct, Struct: &StructObject{TypeName: typeName, Fields: fields}}
}

// EnumObject is a variant index plus payload vector.
type EnumObject struct {
	TypeName string
	Variant  int
	Payload  []Value
}

func NewEnumObject(typeName string, variant int, payload []Value) *Object {
	return &Object{Kind: ObjEnum, Enum: &EnumObject{TypeName: typeName, Variant: variant, Payload: payload}}
}
