package bytecode

import (
	"fmt"
	"strings"

	"github.com/orus-lang/orus/internal/value"
)

// Disassemble renders a chunk as one line per instruction: byte offset,
// source line (or "|" when identical to the previous instruction's
// line, matching the common disassembler convention), mnemonic, and
// decoded operands. Grounded on GVM's formatInstructionStr/instruction
// String() idiom of printing "<offset>: <mnemonic and args>", extended
// with the line-number column spec.md 4.4 implies by saying the
// dispatch loop and disassembler "share" operand decoding.
func Disassemble(c *Chunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", c.Name)
	offset := 0
	prevLine := -1
	for offset < len(c.Code) {
		instr, next := Decode(c.Code, offset)
		line := c.LineFor(offset)
		lineStr := fmt.Sprintf("%4d", line)
		if line == prevLine {
			lineStr = "   |"
		}
		prevLine = line
		fmt.Fprintf(&b, "%04d %s %s\n", offset, lineStr, formatInstruction(c, instr))
		offset = next
	}
	return b.String()
}

func formatInstruction(c *Chunk, instr Instruction) string {
	shape := instr.Op.Shape()
	parts := []string{shape.Name}
	ri, u8i, u16i := 0, 0, 0
	for _, kind := range shape.Operands {
		switch kind {
		case OperandReg:
			parts = append(parts, fmt.Sprintf("r%d", instr.Regs[ri]))
			ri++
		case OperandConst:
			parts = append(parts, fmt.Sprintf("const[%d]=%s", instr.Const, formatConst(c, instr.Const)))
		case OperandU8:
			parts = append(parts, fmt.Sprintf("%d", instr.U8[u8i]))
			u8i++
		case OperandU16:
			parts = append(parts, fmt.Sprintf("%d", instr.U16[u16i]))
			u16i++
		case OperandJumpS, OperandJumpL:
			// Offsets are signed and relative to the end of the
			// instruction, the way the dispatch loop applies them;
			// push_try's operand is an absolute IP instead.
			dist := int(int16(instr.Jump))
			if kind == OperandJumpS {
				dist = int(int8(instr.Jump))
			}
			target := instr.Offset + instr.Width + dist
			if instr.Op == OpPushTry {
				target = instr.Jump
			}
			parts = append(parts, fmt.Sprintf("-> %04d", target))
		}
	}
	return strings.Join(parts, " ")
}

func formatConst(c *Chunk, idx int) string {
	if idx < 0 || idx >= len(c.Constants) {
		return "?"
	}
	return value.ToString(c.Constants[idx])
}

// IsLoopOp reports whether op is one of the backward-jumping loop
// opcodes (loop/loop_s), whose signed offsets are negative.
func IsLoopOp(op Op) bool {
	return op == OpLoop || op == OpLoopShort
}
