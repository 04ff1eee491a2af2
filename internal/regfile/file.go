package regfile

import (
	"fmt"
	"math"

	"github.com/dolthub/swiss"

	"github.com/orus-lang/orus/internal/value"
)

// TypedBank identifies one of the six unboxed shadow banks.
type TypedBank uint8

const (
	BankNone TypedBank = iota
	BankI32
	BankI64
	BankU32
	BankU64
	BankF64
	BankBool
)

func (b TypedBank) String() string {
	switch b {
	case BankI32:
		return "i32"
	case BankI64:
		return "i64"
	case BankU32:
		return "u32"
	case BankU64:
		return "u64"
	case BankF64:
		return "f64"
	case BankBool:
		return "bool"
	default:
		return "none"
	}
}

// RegisterKindMismatchError is raised by ReadTyped when the shadow's
// recorded bank does not match the caller's expected kind, per spec.md
// 4.2.
type RegisterKindMismatchError struct {
	ID   LogicalID
	Want TypedBank
	Got  TypedBank
}

func (e *RegisterKindMismatchError) Error() string {
	return fmt.Sprintf("regfile: register %d: expected typed bank %s, got %s", e.ID, e.Want, e.Got)
}

// authoritative tracks which of a register's two views (boxed or typed)
// holds the live value. Writing one view marks the other stale, per
// spec.md 3's dual-representation invariant; a sync opcode (see
// internal/interp) makes the other view live again by copying across
// with the corresponding coercion.
type authoritative uint8

const (
	authBoth authoritative = iota // both views agree (e.g. freshly synced)
	authBoxed
	authTyped
)

// shadowSlot is one register's typed-shadow storage. raw holds the bit
// pattern in the same encoding value.Value uses internally, so
// conversion to/from the boxed view never needs a type switch beyond
// the bank tag itself.
type shadowSlot struct {
	bank TypedBank
	raw  uint64
}

// File is the register file: a flat array of boxed Values (indexed by
// logical id) plus a parallel array of optional typed shadows, and a
// spill table for overflow beyond the in-band slots. One File backs the
// entire flat logical-id space (global/frame/temp/module bands);
// internal/interp's call-frame manager is responsible for translating a
// frame-relative id into the frame band's absolute slot via the active
// frame's base offset before calling into File.
type File struct {
	boxed  [totalLogicalSlots]value.Value
	shadow [totalLogicalSlots]shadowSlot
	auth   [totalLogicalSlots]authoritative
	spill  *swiss.Map[LogicalID, value.Value]
}

func New() *File {
	return &File{spill: swiss.NewMap[LogicalID, value.Value](16)}
}

func (f *File) inBand(id LogicalID) bool { return int(id) >= 0 && int(id) < totalLogicalSlots }

// Read returns the boxed view, synchronizing from the typed shadow
// first if the shadow is currently authoritative (spec.md 4.2).
func (f *File) Read(id LogicalID) value.Value {
	if !f.inBand(id) {
		if v, ok := f.spill.Get(id); ok {
			return v
		}
		return value.Nil
	}
	if f.auth[id] == authTyped {
		f.syncFromShadow(id)
	}
	return f.boxed[id]
}

// Write stores the boxed view and marks the typed shadow stale.
func (f *File) Write(id LogicalID, v value.Value) {
	if !f.inBand(id) {
		f.spill.Put(id, v)
		return
	}
	f.boxed[id] = v
	f.auth[id] = authBoxed
}

// ReadTyped returns the raw unboxed bits for a register whose shadow
// bank matches kind, failing with RegisterKindMismatchError otherwise.
func (f *File) ReadTyped(id LogicalID, kind TypedBank) (uint64, error) {
	if !f.inBand(id) {
		return 0, &RegisterKindMismatchError{ID: id, Want: kind, Got: BankNone}
	}
	s := f.shadow[id]
	if s.bank != kind {
		return 0, &RegisterKindMismatchError{ID: id, Want: kind, Got: s.bank}
	}
	if f.auth[id] == authBoxed {
		f.syncFromBoxed(id, kind)
	}
	return f.shadow[id].raw, nil
}

// WriteTyped stores into the shadow bank and marks the boxed view
// stale.
func (f *File) WriteTyped(id LogicalID, kind TypedBank, raw uint64) {
	if !f.inBand(id) {
		return
	}
	f.shadow[id] = shadowSlot{bank: kind, raw: raw}
	f.auth[id] = authTyped
}

// HasTypedShadow reports whether id currently has a shadow of any bank
// attached (used by the allocator's residency bookkeeping and by GC
// root scanning to decide whether a register might hold raw bits that
// are not a GC root, vs. a boxed Value that might be).
func (f *File) HasTypedShadow(id LogicalID) bool {
	return f.inBand(id) && f.shadow[id].bank != BankNone
}

func (f *File) syncFromShadow(id LogicalID) {
	s := f.shadow[id]
	switch s.bank {
	case BankI32:
		f.boxed[id] = value.I32(int32(uint32(s.raw)))
	case BankI64:
		f.boxed[id] = value.I64(int64(s.raw))
	case BankU32:
		f.boxed[id] = value.U32(uint32(s.raw))
	case BankU64:
		f.boxed[id] = value.U64(s.raw)
	case BankF64:
		f.boxed[id] = value.F64(rawToFloat(s.raw))
	case BankBool:
		f.boxed[id] = value.Bool(s.raw != 0)
	}
	f.auth[id] = authBoth
}

func (f *File) syncFromBoxed(id LogicalID, kind TypedBank) {
	v := f.boxed[id]
	var raw uint64
	switch kind {
	case BankI32:
		n, _ := v.AsI32()
		raw = uint64(uint32(n))
	case BankI64:
		n, _ := v.AsI64()
		raw = uint64(n)
	case BankU32:
		n, _ := v.AsU32()
		raw = uint64(n)
	case BankU64:
		raw, _ = v.AsU64()
	case BankF64:
		n, _ := v.AsF64()
		raw = floatToRaw(n)
	case BankBool:
		b, _ := v.AsBool()
		if b {
			raw = 1
		}
	}
	f.shadow[id] = shadowSlot{bank: kind, raw: raw}
	f.auth[id] = authBoth
}

// Spill evicts a logical register's boxed value into the overflow map,
// freeing its in-band slot for reuse. Idempotent: spilling an
// already-spilled register is a no-op from the caller's perspective.
func (f *File) Spill(id LogicalID) {
	if !f.inBand(id) {
		return
	}
	f.spill.Put(id, f.Read(id))
	f.boxed[id] = value.Nil
	f.shadow[id] = shadowSlot{}
	f.auth[id] = authBoth
}

// Unspill moves a register back from the overflow map into its in-band
// slot. Transparent to handlers: Read/Write already check the spill map
// first for out-of-band ids, so Unspill is only needed when an id that
// used to be in-band is being reactivated.
func (f *File) Unspill(id LogicalID) {
	if v, ok := f.spill.Get(id); ok {
		f.spill.Delete(id)
		f.Write(id, v)
	}
}

func rawToFloat(raw uint64) float64 { return math.Float64frombits(raw) }

func floatToRaw(f float64) uint64 { return math.Float64bits(f) }
