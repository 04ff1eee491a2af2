package bytecode

import "math"

func floatBits(f float64) uint64 { return math.Float64bits(f) }

// Instruction is the decoded form of one opcode plus its operands,
// returned by Decode and consumed by both the disassembler and (as a
// cross-check in tests) the interpreter's fetch step. The interpreter's
// hot path decodes operands directly off the byte stream rather than
// allocating an Instruction per step; this type exists for
// disassembly/testing, mirroring GVM's `Instruction` struct used there
// for both execution and printing, split here into a fast inline path
// (internal/interp) plus this slower structured one (tools/tests).
type Instruction struct {
	Op       Op
	Regs     []int
	Const    int
	U8       []int
	U16      []int
	Jump     int
	Offset   int // byte offset of this instruction within the chunk
	Width    int // total encoded width including the opcode byte
}

// Decode reads one instruction starting at offset, returning its
// decoded form and the offset of the next instruction.
func Decode(code []byte, offset int) (Instruction, int) {
	op := Op(code[offset])
	shape := op.Shape()
	instr := Instruction{Op: op, Offset: offset}
	pos := offset + 1

	for _, kind := range shape.Operands {
		switch kind {
		case OperandReg:
			instr.Regs = append(instr.Regs, int(code[pos]))
			pos++
		case OperandConst:
			instr.Const = int(code[pos])<<8 | int(code[pos+1])
			pos += 2
		case OperandU8:
			instr.U8 = append(instr.U8, int(code[pos]))
			pos++
		case OperandU16:
			instr.U16 = append(instr.U16, int(code[pos])<<8|int(code[pos+1]))
			pos += 2
		case OperandJumpS:
			instr.Jump = int(code[pos])
			pos++
		case OperandJumpL:
			instr.Jump = int(code[pos])<<8 | int(code[pos+1])
			pos += 2
		}
	}
	instr.Width = pos - offset
	return instr, pos
}

// Encode appends an instruction's opcode and operand bytes to dst,
// returning the resulting slice. Used by the encode/decode round-trip
// test (spec.md 8 property 3: disassemble(encode(op, ops)) == (op,
// ops)).
func Encode(dst []byte, op Op, regs []int, constIdx int, u8 []int, u16 []int, jump int) []byte {
	dst = append(dst, byte(op))
	shape := op.Shape()
	ri, u8i, u16i := 0, 0, 0
	for _, kind := range shape.Operands {
		switch kind {
		case OperandReg:
			dst = append(dst, byte(regs[ri]))
			ri++
		case OperandConst:
			dst = append(dst, byte(constIdx>>8), byte(constIdx))
		case OperandU8:
			dst = append(dst, byte(u8[u8i]))
			u8i++
		case OperandU16:
			dst = append(dst, byte(u16[u16i]>>8), byte(u16[u16i]))
			u16i++
		case OperandJumpS:
			dst = append(dst, byte(jump))
		case OperandJumpL:
			dst = append(dst, byte(jump>>8), byte(jump))
		}
	}
	return dst
}
