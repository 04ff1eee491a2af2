package compiler

import (
	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/bytecode"
)

// binOpcode picks the numeric-kind-specific opcode for a Binary node,
// per spec.md 4.7's "(kind, operator) opcode-selection table". Bitwise
// and shift operators have only the i32 variant in the instruction set
// (internal/bytecode's opcode table), so every integer kind routes
// through them; bool equality is likewise compared as i32 since both
// are a single 0/1 bit pattern.
func binOpcode(kind ast.Kind, op ast.BinOp) (bytecode.Op, bool) {
	switch op {
	case ast.OpBitAnd:
		return bytecode.OpBitAnd, true
	case ast.OpBitOr:
		return bytecode.OpBitOr, true
	case ast.OpBitXor:
		return bytecode.OpBitXor, true
	case ast.OpShl:
		return bytecode.OpShl, true
	case ast.OpShr:
		return bytecode.OpShr, true
	}

	if kind == ast.KindString && op == ast.OpAdd {
		return bytecode.OpConcat, true
	}
	if kind == ast.KindString && (op == ast.OpEq || op == ast.OpNe) {
		if op == ast.OpEq {
			return bytecode.OpEqObj, true
		}
		return bytecode.OpNeObj, true
	}
	if kind == ast.KindArray || kind == ast.KindStruct || kind == ast.KindEnum {
		if op == ast.OpEq {
			return bytecode.OpEqObj, true
		}
		if op == ast.OpNe {
			return bytecode.OpNeObj, true
		}
	}
	if kind == ast.KindBool {
		switch op {
		case ast.OpEq:
			return bytecode.OpEqI32, true
		case ast.OpNe:
			return bytecode.OpNeI32, true
		case ast.OpLogAnd:
			return bytecode.OpAndBool, true
		case ast.OpLogOr:
			return bytecode.OpOrBool, true
		}
	}

	switch kind {
	case ast.KindI32:
		return arithOp(op, bytecode.OpAddI32, bytecode.OpSubI32, bytecode.OpMulI32, bytecode.OpDivI32, bytecode.OpModI32,
			bytecode.OpEqI32, bytecode.OpNeI32, bytecode.OpLtI32, bytecode.OpLeI32, bytecode.OpGtI32, bytecode.OpGeI32)
	case ast.KindI64:
		return arithOp(op, bytecode.OpAddI64, bytecode.OpSubI64, bytecode.OpMulI64, bytecode.OpDivI64, bytecode.OpModI64,
			bytecode.OpEqI64, bytecode.OpNeI64, bytecode.OpLtI64, bytecode.OpLeI64, bytecode.OpGtI64, bytecode.OpGeI64)
	case ast.KindU32:
		return arithOp(op, bytecode.OpAddU32, bytecode.OpSubU32, bytecode.OpMulU32, bytecode.OpDivU32, bytecode.OpModU32,
			bytecode.OpEqU32, bytecode.OpNeU32, bytecode.OpLtU32, bytecode.OpLeU32, bytecode.OpGtU32, bytecode.OpGeU32)
	case ast.KindU64:
		return arithOp(op, bytecode.OpAddU64, bytecode.OpSubU64, bytecode.OpMulU64, bytecode.OpDivU64, bytecode.OpModU64,
			bytecode.OpEqU64, bytecode.OpNeU64, bytecode.OpLtU64, bytecode.OpLeU64, bytecode.OpGtU64, bytecode.OpGeU64)
	case ast.KindF64:
		return arithOp(op, bytecode.OpAddF64, bytecode.OpSubF64, bytecode.OpMulF64, bytecode.OpDivF64, bytecode.OpModF64,
			bytecode.OpEqF64, bytecode.OpNeF64, bytecode.OpLtF64, bytecode.OpLeF64, bytecode.OpGtF64, bytecode.OpGeF64)
	}
	return 0, false
}

func arithOp(op ast.BinOp, add, sub, mul, div, mod, eq, ne, lt, le, gt, ge bytecode.Op) (bytecode.Op, bool) {
	switch op {
	case ast.OpAdd:
		return add, true
	case ast.OpSub:
		return sub, true
	case ast.OpMul:
		return mul, true
	case ast.OpDiv:
		return div, true
	case ast.OpMod:
		return mod, true
	case ast.OpEq:
		return eq, true
	case ast.OpNe:
		return ne, true
	case ast.OpLt:
		return lt, true
	case ast.OpLe:
		return le, true
	case ast.OpGt:
		return gt, true
	case ast.OpGe:
		return ge, true
	default:
		return 0, false
	}
}

func negOpFor(kind ast.Kind) bytecode.Op {
	switch kind {
	case ast.KindI64:
		return bytecode.OpNegI64
	case ast.KindF64:
		return bytecode.OpNegF64
	default:
		return bytecode.OpNegI32
	}
}

func addOpFor(kind ast.Kind) bytecode.Op {
	switch kind {
	case ast.KindI64:
		return bytecode.OpAddI64
	case ast.KindU32:
		return bytecode.OpAddU32
	case ast.KindU64:
		return bytecode.OpAddU64
	case ast.KindF64:
		return bytecode.OpAddF64
	default:
		return bytecode.OpAddI32
	}
}

// intCompareOpFor picks the less-than/less-or-equal opcode a for-range
// loop's exit check uses, matching the induction variable's kind and
// whether the range is inclusive.
func intCompareOpFor(kind ast.Kind, inclusive bool) bytecode.Op {
	switch kind {
	case ast.KindI64:
		if inclusive {
			return bytecode.OpLeI64
		}
		return bytecode.OpLtI64
	case ast.KindU32:
		if inclusive {
			return bytecode.OpLeU32
		}
		return bytecode.OpLtU32
	case ast.KindU64:
		if inclusive {
			return bytecode.OpLeU64
		}
		return bytecode.OpLtU64
	default:
		if inclusive {
			return bytecode.OpLeI32
		}
		return bytecode.OpLtI32
	}
}

// coerceOpcode maps an explicit (From, To) pair inserted by type
// inference to one of the conversion opcodes, per spec.md 4.6.
func coerceOpcode(from, to ast.Kind) (bytecode.Op, bool) {
	switch {
	case from == ast.KindI32 && to == ast.KindI64:
		return bytecode.OpConvI32ToI64, true
	case from == ast.KindI64 && to == ast.KindI32:
		return bytecode.OpConvI64ToI32, true
	case from == ast.KindI32 && to == ast.KindF64:
		return bytecode.OpConvI32ToF64, true
	case from == ast.KindF64 && to == ast.KindI32:
		return bytecode.OpConvF64ToI32, true
	case from == ast.KindI64 && to == ast.KindF64:
		return bytecode.OpConvI64ToF64, true
	case from == ast.KindF64 && to == ast.KindI64:
		return bytecode.OpConvF64ToI64, true
	case from == ast.KindI32 && to == ast.KindBool:
		return bytecode.OpConvI32ToBool, true
	case from == ast.KindBool && to == ast.KindI32:
		return bytecode.OpConvBoolToI32, true
	case from == ast.KindU32 && to == ast.KindI32:
		return bytecode.OpConvU32ToI32, true
	case from == ast.KindI32 && to == ast.KindU32:
		return bytecode.OpConvI32ToU32, true
	case from == ast.KindU64 && to == ast.KindU32:
		return bytecode.OpConvU64ToU32, true
	case from == ast.KindU32 && to == ast.KindU64:
		return bytecode.OpConvU32ToU64, true
	case from == ast.KindI64 && to == ast.KindU64:
		return bytecode.OpConvI64ToU64, true
	case from == ast.KindU64 && to == ast.KindI64:
		return bytecode.OpConvU64ToI64, true
	default:
		return 0, false
	}
}
