// Package bytecode implements Orus's instruction set, the immutable
// Chunk container the compiler emits and the interpreter consumes, the
// disassembler, and the on-disk chunk cache format. The opcode table in
// this file is the single shared source of operand shape used by both
// the dispatch loop (internal/interp) and the disassembler
// (internal/bytecode/disasm.go), per spec.md 4.4.
package bytecode

// Op is a one-byte opcode.
type Op byte

// Operand shapes, matching spec.md's category table. Every opcode has a
// fixed number of operand bytes; jump opcodes have a short (1-byte) and
// long (2-byte big-endian) encoding selected by the code generator's
// patcher once a forward jump's distance is known.
const (
	// Load/Store
	OpLoadConst Op = iota
	OpLoadNil
	OpLoadTrue
	OpLoadFalse
	OpMove
	OpLoadGlobal
	OpStoreGlobal

	// Arithmetic (boxed), per numeric kind
	OpAddI32
	OpSubI32
	OpMulI32
	OpDivI32
	OpModI32
	OpAddI64
	OpSubI64
	OpMulI64
	OpDivI64
	OpModI64
	OpAddU32
	OpSubU32
	OpMulU32
	OpDivU32
	OpModU32
	OpAddU64
	OpSubU64
	OpMulU64
	OpDivU64
	OpModU64
	OpAddF64
	OpSubF64
	OpMulF64
	OpDivF64
	OpModF64
	OpNegI32
	OpNegI64
	OpNegF64
	OpIncI32
	OpDecI32

	// Arithmetic (typed shadow), mirrors boxed set
	OpAddI32Typed
	OpSubI32Typed
	OpMulI32Typed
	OpDivI32Typed
	OpAddI64Typed
	OpSubI64Typed
	OpMulI64Typed
	OpDivI64Typed
	OpAddF64Typed
	OpSubF64Typed
	OpMulF64Typed
	OpDivF64Typed

	// Bitwise (i32 only)
	OpBitAnd
	OpBitOr
	OpBitXor
	OpBitNot
	OpShl
	OpShr

	// Comparison, per numeric kind
	OpEqI32
	OpNeI32
	OpLtI32
	OpLeI32
	OpGtI32
	OpGeI32
	OpEqI64
	OpNeI64
	OpLtI64
	OpLeI64
	OpGtI64
	OpGeI64
	OpEqU32
	OpNeU32
	OpLtU32
	OpLeU32
	OpGtU32
	OpGeU32
	OpEqU64
	OpNeU64
	OpLtU64
	OpLeU64
	OpGtU64
	OpGeU64
	OpEqF64
	OpNeF64
	OpLtF64
	OpLeF64
	OpGtF64
	OpGeF64
	OpEqObj // deep-equality relation over strings/arrays/ranges/structs/enums, pointer identity otherwise
	OpNeObj

	// Logical
	OpAndBool
	OpOrBool
	OpNotBool

	// Coercion
	OpConvI32ToI64
	OpConvI64ToI32
	OpConvI32ToF64
	OpConvF64ToI32
	OpConvI64ToF64
	OpConvF64ToI64
	OpConvI32ToBool
	OpConvBoolToI32
	OpConvU32ToI32
	OpConvI32ToU32
	OpConvU64ToU32
	OpConvU32ToU64
	OpConvI64ToU64
	OpConvU64ToI64

	// String
	OpConcat
	OpToString

	// Array
	OpMakeArray
	OpArrayGet
	OpArraySet
	OpArrayLen

	// Control
	OpJump
	OpJumpShort
	OpJumpIfFalse
	OpJumpIfFalseShort
	OpJumpIfTrue
	OpJumpIfTrueShort
	OpLoop
	OpLoopShort

	// Calls
	OpCall
	OpCallNative
	OpTailCall
	OpReturn
	OpReturnVoid

	// Iteration
	OpGetIter
	OpIterNext

	// Fused / peephole
	OpIncCmpJump
	OpAddImm

	// I/O
	OpPrint
	OpPrintMulti

	// Try/catch
	OpPushTry
	OpPopTry
	OpRaise

	// Meta
	OpGCPause
	OpGCResume
	OpHalt

	opCount
)

// OperandShape describes how many bytes of operand data follow an
// opcode and how the disassembler/encoder should label them, mirroring
// GVM's compile-time tagging of "no args" vs "one arg" instruction
// variants (vm/compile.go's *NoArgs/*OneArg constants), generalized to
// an explicit per-operand kind list instead of a 1-bit arg-count tag.
type OperandKind byte

const (
	OperandReg    OperandKind = iota // one logical register id, 1 byte (0-255)
	OperandConst                     // constant pool index, 2 bytes
	OperandU8                        // raw byte
	OperandU16                       // raw big-endian u16
	OperandJumpS                     // 1-byte forward/backward jump offset
	OperandJumpL                     // 2-byte big-endian jump offset
)

// OperandShape is metadata for one opcode: its mnemonic and the ordered
// list of operand kinds that follow it in the instruction stream.
type OperandShape struct {
	Name     string
	Operands []OperandKind
}

func (s OperandShape) Size() int {
	n := 0
	for _, o := range s.Operands {
		switch o {
		case OperandReg, OperandU8, OperandJumpS:
			n++
		case OperandConst, OperandU16, OperandJumpL:
			n += 2
		}
	}
	return n
}

// Table is indexed by Op and shared verbatim by the dispatch loop (to
// know how far to advance IP) and the disassembler (to know how to
// print operands). spec.md 4.4 requires these two consumers to agree;
// centralizing the table is how that agreement is enforced.
var Table = [opCount]OperandShape{
	OpLoadConst:    {"load_const", []OperandKind{OperandReg, OperandConst}},
	OpLoadNil:      {"load_nil", []OperandKind{OperandReg}},
	OpLoadTrue:     {"load_true", []OperandKind{OperandReg}},
	OpLoadFalse:    {"load_false", []OperandKind{OperandReg}},
	OpMove:         {"move", []OperandKind{OperandReg, OperandReg}},
	OpLoadGlobal:   {"load_global", []OperandKind{OperandReg, OperandU16}},
	OpStoreGlobal:  {"store_global", []OperandKind{OperandU16, OperandReg}},

	OpAddI32: {"add_i32", threeReg}, OpSubI32: {"sub_i32", threeReg}, OpMulI32: {"mul_i32", threeReg}, OpDivI32: {"div_i32", threeReg}, OpModI32: {"mod_i32", threeReg},
	OpAddI64: {"add_i64", threeReg}, OpSubI64: {"sub_i64", threeReg}, OpMulI64: {"mul_i64", threeReg}, OpDivI64: {"div_i64", threeReg}, OpModI64: {"mod_i64", threeReg},
	OpAddU32: {"add_u32", threeReg}, OpSubU32: {"sub_u32", threeReg}, OpMulU32: {"mul_u32", threeReg}, OpDivU32: {"div_u32", threeReg}, OpModU32: {"mod_u32", threeReg},
	OpAddU64: {"add_u64", threeReg}, OpSubU64: {"sub_u64", threeReg}, OpMulU64: {"mul_u64", threeReg}, OpDivU64: {"div_u64", threeReg}, OpModU64: {"mod_u64", threeReg},
	OpAddF64: {"add_f64", threeReg}, OpSubF64: {"sub_f64", threeReg}, OpMulF64: {"mul_f64", threeReg}, OpDivF64: {"div_f64", threeReg}, OpModF64: {"mod_f64", threeReg},
	OpNegI32: {"neg_i32", twoReg}, OpNegI64: {"neg_i64", twoReg}, OpNegF64: {"neg_f64", twoReg},
	OpIncI32: {"inc_i32", oneReg}, OpDecI32: {"dec_i32", oneReg},

	OpAddI32Typed: {"add_i32t", threeReg}, OpSubI32Typed: {"sub_i32t", threeReg}, OpMulI32Typed: {"mul_i32t", threeReg}, OpDivI32Typed: {"div_i32t", threeReg},
	OpAddI64Typed: {"add_i64t", threeReg}, OpSubI64Typed: {"sub_i64t", threeReg}, OpMulI64Typed: {"mul_i64t", threeReg}, OpDivI64Typed: {"div_i64t", threeReg},
	OpAddF64Typed: {"add_f64t", threeReg}, OpSubF64Typed: {"sub_f64t", threeReg}, OpMulF64Typed: {"mul_f64t", threeReg}, OpDivF64Typed: {"div_f64t", threeReg},

	OpBitAnd: {"bit_and", threeReg}, OpBitOr: {"bit_or", threeReg}, OpBitXor: {"bit_xor", threeReg}, OpBitNot: {"bit_not", twoReg},
	OpShl: {"shl", threeReg}, OpShr: {"shr", threeReg},

	OpEqI32: {"eq_i32", threeReg}, OpNeI32: {"ne_i32", threeReg}, OpLtI32: {"lt_i32", threeReg}, OpLeI32: {"le_i32", threeReg}, OpGtI32: {"gt_i32", threeReg}, OpGeI32: {"ge_i32", threeReg},
	OpEqI64: {"eq_i64", threeReg}, OpNeI64: {"ne_i64", threeReg}, OpLtI64: {"lt_i64", threeReg}, OpLeI64: {"le_i64", threeReg}, OpGtI64: {"gt_i64", threeReg}, OpGeI64: {"ge_i64", threeReg},
	OpEqU32: {"eq_u32", threeReg}, OpNeU32: {"ne_u32", threeReg}, OpLtU32: {"lt_u32", threeReg}, OpLeU32: {"le_u32", threeReg}, OpGtU32: {"gt_u32", threeReg}, OpGeU32: {"ge_u32", threeReg},
	OpEqU64: {"eq_u64", threeReg}, OpNeU64: {"ne_u64", threeReg}, OpLtU64: {"lt_u64", threeReg}, OpLeU64: {"le_u64", threeReg}, OpGtU64: {"gt_u64", threeReg}, OpGeU64: {"ge_u64", threeReg},
	OpEqF64: {"eq_f64", threeReg}, OpNeF64: {"ne_f64", threeReg}, OpLtF64: {"lt_f64", threeReg}, OpLeF64: {"le_f64", threeReg}, OpGtF64: {"gt_f64", threeReg}, OpGeF64: {"ge_f64", threeReg},
	OpEqObj: {"eq_obj", threeReg}, OpNeObj: {"ne_obj", threeReg},

	OpAndBool: {"and_bool", threeReg}, OpOrBool: {"or_bool", threeReg}, OpNotBool: {"not_bool", twoReg},

	OpConvI32ToI64: {"cvt_i32_i64", twoReg}, OpConvI64ToI32: {"cvt_i64_i32", twoReg},
	OpConvI32ToF64: {"cvt_i32_f64", twoReg}, OpConvF64ToI32: {"cvt_f64_i32", twoReg},
	OpConvI64ToF64: {"cvt_i64_f64", twoReg}, OpConvF64ToI64: {"cvt_f64_i64", twoReg},
	OpConvI32ToBool: {"cvt_i32_bool", twoReg}, OpConvBoolToI32: {"cvt_bool_i32", twoReg},
	OpConvU32ToI32: {"cvt_u32_i32", twoReg}, OpConvI32ToU32: {"cvt_i32_u32", twoReg},
	OpConvU64ToU32: {"cvt_u64_u32", twoReg}, OpConvU32ToU64: {"cvt_u32_u64", twoReg},
	OpConvI64ToU64: {"cvt_i64_u64", twoReg}, OpConvU64ToI64: {"cvt_u64_i64", twoReg},

	OpConcat:   {"concat", threeReg},
	OpToString: {"to_string", twoReg},

	OpMakeArray: {"make_array", []OperandKind{OperandReg, OperandReg, OperandU8}},
	OpArrayGet:  {"array_get", threeReg},
	OpArraySet:  {"array_set", threeReg},
	OpArrayLen:  {"array_len", twoReg},

	OpJump:              {"jump", []OperandKind{OperandJumpL}},
	OpJumpShort:         {"jump_s", []OperandKind{OperandJumpS}},
	OpJumpIfFalse:       {"jump_if_false", []OperandKind{OperandReg, OperandJumpL}},
	OpJumpIfFalseShort:  {"jump_if_false_s", []OperandKind{OperandReg, OperandJumpS}},
	OpJumpIfTrue:        {"jump_if_true", []OperandKind{OperandReg, OperandJumpL}},
	OpJumpIfTrueShort:   {"jump_if_true_s", []OperandKind{OperandReg, OperandJumpS}},
	OpLoop:              {"loop", []OperandKind{OperandJumpL}},
	OpLoopShort:         {"loop_s", []OperandKind{OperandJumpS}},

	OpCall:       {"call", []OperandKind{OperandReg, OperandReg, OperandU8, OperandReg}},
	OpCallNative: {"call_native", []OperandKind{OperandU16, OperandReg, OperandU8, OperandReg}},
	OpTailCall:   {"tail_call", []OperandKind{OperandReg, OperandReg, OperandU8}},
	OpReturn:     {"return", []OperandKind{OperandReg}},
	OpReturnVoid: {"return_void", nil},

	OpGetIter:  {"get_iter", twoReg},
	OpIterNext: {"iter_next", threeReg},

	OpIncCmpJump: {"inc_cmp_jmp", []OperandKind{OperandReg, OperandReg, OperandJumpL}},
	OpAddImm:     {"add_imm", []OperandKind{OperandReg, OperandReg, OperandU8}},

	OpPrint:      {"print", []OperandKind{OperandReg}},
	OpPrintMulti: {"print_multi", []OperandKind{OperandReg, OperandU8, OperandU8}},

	OpPushTry: {"push_try", []OperandKind{OperandJumpL, OperandReg}},
	OpPopTry:  {"pop_try", nil},
	OpRaise:   {"raise", []OperandKind{OperandReg}},

	OpGCPause:  {"gc_pause", nil},
	OpGCResume: {"gc_resume", nil},
	OpHalt:     {"halt", nil},
}

var (
	oneReg   = []OperandKind{OperandReg}
	twoReg   = []OperandKind{OperandReg, OperandReg}
	threeReg = []OperandKind{OperandReg, OperandReg, OperandReg}
)

func (op Op) Shape() OperandShape {
	if int(op) >= len(Table) {
		return OperandShape{Name: "<invalid>"}
	}
	return Table[op]
}

func (op Op) String() string { return op.Shape().Name }

// IsShortJump reports whether op is one of the 1-byte-offset jump
// variants the patcher can substitute when a forward distance fits.
func IsShortJump(op Op) bool {
	switch op {
	case OpJumpShort, OpJumpIfFalseShort, OpJumpIfTrueShort, OpLoopShort:
		return true
	default:
		return false
	}
}

// LongVariant maps a short jump opcode to its long (2-byte offset)
// counterpart, used by the patcher when a jump's final distance does
// not fit a signed byte (-128..127); forward distances of 128-255 are
// widened too.
func LongVariant(op Op) Op {
	switch op {
	case OpJumpShort:
		return OpJump
	case OpJumpIfFalseShort:
		return OpJumpIfFalse
	case OpJumpIfTrueShort:
		return OpJumpIfTrue
	case OpLoopShort:
		return OpLoop
	default:
		return op
	}
}

// ShortVariant is the inverse of LongVariant. The patcher always emits
// the short form first and only widens, so nothing in the compiler
// calls this.
func ShortVariant(op Op) Op {
	switch op {
	case OpJump:
		return OpJumpShort
	case OpJumpIfFalse:
		return OpJumpIfFalseShort
	case OpJumpIfTrue:
		return OpJumpIfTrueShort
	case OpLoop:
		return OpLoopShort
	default:
		return op
	}
}

func IsJump(op Op) bool {
	switch op {
	case OpJump, OpJumpShort, OpJumpIfFalse, OpJumpIfFalseShort, OpJumpIfTrue, OpJumpIfTrueShort, OpLoop, OpLoopShort, OpIncCmpJump:
		return true
	default:
		return false
	}
}
