package bytecode

import (
	"github.com/orus-lang/orus/internal/value"
)

// Chunk is immutable after compilation: a byte vector of instructions,
// parallel line/column vectors (one entry per byte, so any instruction
// boundary can be mapped back to a source position without a separate
// run-length table), a constant pool, and symbolic metadata for
// disassembly. Referenced from call frames. Mirrors GVM's Program (code
// + debug symbol map in vm/compile.go), generalized with a real
// constant pool and per-byte line/column tracking instead of a
// line-number-keyed source-text map.
type Chunk struct {
	Code       []byte
	Lines      []int32
	Columns    []int32
	Constants  []value.Value
	Name       string // function or module name, for diagnostics/disassembly
	constIndex map[constKey]int
}

type constKey struct {
	kind value.Kind
	bits uint64
	str  string
}

func NewChunk(name string) *Chunk {
	return &Chunk{Name: name, constIndex: make(map[constKey]int)}
}

// Write appends a single raw byte with its source position, growing the
// parallel line/column vectors in lockstep (spec.md 3's Chunk
// invariant: one line/column entry per byte).
func (c *Chunk) Write(b byte, line, col int) int {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, int32(line))
	c.Columns = append(c.Columns, int32(col))
	return len(c.Code) - 1
}

// WriteU16 appends a big-endian 16-bit operand.
func (c *Chunk) WriteU16(v uint16, line, col int) int {
	start := c.Write(byte(v>>8), line, col)
	c.Write(byte(v), line, col)
	return start
}

// AddConstant interns v by structural equality and returns its index,
// matching spec.md 4.7's "Literal" node contract ("add to constant
// pool, deduplicate by structural equality").
func (c *Chunk) AddConstant(v value.Value) int {
	key, ok := constKeyOf(v)
	if ok {
		if idx, exists := c.constIndex[key]; exists {
			return idx
		}
	}
	c.Constants = append(c.Constants, v)
	idx := len(c.Constants) - 1
	if ok {
		c.constIndex[key] = idx
	}
	return idx
}

// constKeyOf returns a hashable key for constant-pool dedup. Heap
// objects with mutable-looking payloads (arrays) are never deduped,
// since the compiler only ever constructs them once per literal site;
// strings and scalars are.
func constKeyOf(v value.Value) (constKey, bool) {
	switch v.Kind() {
	case value.KindNil, value.KindBool, value.KindI32, value.KindI64, value.KindU32, value.KindU64, value.KindF64:
		return constKey{kind: v.Kind(), bits: rawBits(v)}, true
	case value.KindObject:
		obj, _ := v.AsObject()
		if obj != nil && obj.Kind == value.ObjString {
			return constKey{kind: value.KindObject, str: obj.Str.String()}, true
		}
	}
	return constKey{}, false
}

func rawBits(v value.Value) uint64 {
	switch v.Kind() {
	case value.KindBool:
		b, _ := v.AsBool()
		if b {
			return 1
		}
		return 0
	case value.KindI32:
		n, _ := v.AsI32()
		return uint64(uint32(n))
	case value.KindI64:
		n, _ := v.AsI64()
		return uint64(n)
	case value.KindU32:
		n, _ := v.AsU32()
		return uint64(n)
	case value.KindU64:
		n, _ := v.AsU64()
		return n
	case value.KindF64:
		f, _ := v.AsF64()
		return floatBits(f)
	default:
		return 0
	}
}

// LineFor returns the source line recorded for the byte at offset.
func (c *Chunk) LineFor(offset int) int {
	if offset < 0 || offset >= len(c.Lines) {
		return -1
	}
	return int(c.Lines[offset])
}

func (c *Chunk) ColumnFor(offset int) int {
	if offset < 0 || offset >= len(c.Columns) {
		return -1
	}
	return int(c.Columns[offset])
}

// Len is the number of instruction bytes currently emitted; used by the
// code generator to compute jump offsets before the chunk is finalized.
func (c *Chunk) Len() int { return len(c.Code) }

// Patch1 / Patch2 overwrite a previously reserved operand slot once its
// target becomes known. Used exclusively by the code generator's jump
// patcher (internal/compiler/patch.go); nothing else may mutate already
// emitted bytes except the short-to-long jump rewrite, which goes
// through InsertAt below.
func (c *Chunk) Patch1(at int, b byte) { c.Code[at] = b }

func (c *Chunk) Patch2(at int, v uint16) {
	c.Code[at] = byte(v >> 8)
	c.Code[at+1] = byte(v)
}

// InsertAt inserts extra before the byte at `at`, extending the
// instruction that ends just before `at` by len(extra) bytes and
// shifting everything after it; the inserted bytes carry that
// instruction's line and column. This is the one place where already
// emitted code moves, per spec.md 4.7's jump-patching contract; callers
// are responsible for fixing up any pending patch locations greater
// than `at`.
func (c *Chunk) InsertAt(at int, extra []byte) {
	src := at
	if src > 0 {
		src = at - 1
	}
	line := c.Lines[src]
	col := c.Columns[src]
	newCode := make([]byte, 0, len(c.Code)+len(extra))
	newCode = append(newCode, c.Code[:at]...)
	newCode = append(newCode, extra...)
	newCode = append(newCode, c.Code[at:]...)
	c.Code = newCode

	newLines := make([]int32, 0, len(c.Lines)+len(extra))
	newLines = append(newLines, c.Lines[:at]...)
	for range extra {
		newLines = append(newLines, line)
	}
	newLines = append(newLines, c.Lines[at:]...)
	c.Lines = newLines

	newCols := make([]int32, 0, len(c.Columns)+len(extra))
	newCols = append(newCols, c.Columns[:at]...)
	for range extra {
		newCols = append(newCols, col)
	}
	newCols = append(newCols, c.Columns[at:]...)
	c.Columns = newCols
}
