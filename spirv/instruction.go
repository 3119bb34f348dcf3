package spirv

import (
	"fmt"
	"strings"
)

// Instruction is one decoded SPIR-V instruction. The result type and
// result id, when the opcode's format carries them, are split out of
// the operand words, so Operands holds only what follows them.
//
// Offset is the byte offset of the instruction's first word in the
// module it was decoded from, or -1 for instructions built in memory.
type Instruction struct {
	Opcode     OpCode
	ResultType uint32
	ResultID   uint32
	Operands   []uint32
	Offset     int
}

// WordCount returns the encoded length of the instruction in words,
// including the opcode word.
func (in Instruction) WordCount() int {
	n := 1 + len(in.Operands)
	if HasResultType(in.Opcode) {
		n++
	}
	if HasResultID(in.Opcode) {
		n++
	}
	return n
}

// Clone returns a deep copy whose operand slice is independent of the
// receiver's.
func (in Instruction) Clone() Instruction {
	out := in
	if len(in.Operands) > 0 {
		out.Operands = append([]uint32(nil), in.Operands...)
	}
	return out
}

// AppendWords appends the encoded instruction to dst and returns the
// extended slice. The caller must ensure WordCount fits in 16 bits;
// ModuleBuilder.Build enforces that before encoding.
func (in Instruction) AppendWords(dst []uint32) []uint32 {
	dst = append(dst, uint32(in.WordCount())<<16|uint32(in.Opcode))
	if HasResultType(in.Opcode) {
		dst = append(dst, in.ResultType)
	}
	if HasResultID(in.Opcode) {
		dst = append(dst, in.ResultID)
	}
	return append(dst, in.Operands...)
}

// Words returns the encoded instruction as a fresh slice.
func (in Instruction) Words() []uint32 {
	return in.AppendWords(make([]uint32, 0, in.WordCount()))
}

// String renders the instruction in assembler-like form, result id
// first, for logs and test failures.
func (in Instruction) String() string {
	var sb strings.Builder
	if HasResultID(in.Opcode) {
		fmt.Fprintf(&sb, "%%%d = ", in.ResultID)
	}
	sb.WriteString(in.Opcode.Name())
	if HasResultType(in.Opcode) {
		fmt.Fprintf(&sb, " %%%d", in.ResultType)
	}
	for _, w := range in.Operands {
		fmt.Fprintf(&sb, " %d", w)
	}
	return sb.String()
}
