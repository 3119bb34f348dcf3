package types

import (
	"testing"

	"github.com/gogpu/spv/spirv"
)

func decoTestTracker(tb testing.TB) *DecorationTracker {
	tb.Helper()
	t := NewDecorationTracker()
	insts := []spirv.Instruction{
		{Opcode: spirv.OpDecorate, Operands: []uint32{5, uint32(spirv.DecorationBlock)}},
		{Opcode: spirv.OpDecorate, Operands: []uint32{5, uint32(spirv.DecorationArrayStride), 16}},
		{Opcode: spirv.OpDecorate, Operands: []uint32{7, uint32(spirv.DecorationBinding), 3}},
		{Opcode: spirv.OpDecorate, Operands: []uint32{7, uint32(spirv.DecorationDescriptorSet), 1}},
		{Opcode: spirv.OpMemberDecorate, Operands: []uint32{5, 0, uint32(spirv.DecorationOffset), 0}},
		{Opcode: spirv.OpMemberDecorate, Operands: []uint32{5, 1, uint32(spirv.DecorationOffset), 16}},
		{Opcode: spirv.OpMemberDecorate, Operands: []uint32{5, 1, uint32(spirv.DecorationRowMajor)}},
	}
	for i := range insts {
		if !t.Collect(&insts[i]) {
			tb.Fatalf("instruction %d not consumed", i)
		}
	}
	return t
}

func TestDecorationTracker_Lookup(t *testing.T) {
	tr := decoTestTracker(t)

	if !tr.Has(5, spirv.DecorationBlock) {
		t.Error("Block decoration missing")
	}
	if tr.Has(5, spirv.DecorationBufferBlock) {
		t.Error("BufferBlock reported but never declared")
	}
	if v, ok := tr.First(5, spirv.DecorationArrayStride); !ok || v != 16 {
		t.Errorf("ArrayStride = (%d, %v), want (16, true)", v, ok)
	}
	if v, ok := tr.First(7, spirv.DecorationBinding); !ok || v != 3 {
		t.Errorf("Binding = (%d, %v), want (3, true)", v, ok)
	}
	// First wants a literal operand; presence-only decorations answer
	// through Has instead.
	if _, ok := tr.First(5, spirv.DecorationBlock); ok {
		t.Error("First(Block) should fail, Block carries no literal")
	}
	if _, ok := tr.First(99, spirv.DecorationBinding); ok {
		t.Error("First on undecorated id should fail")
	}
}

func TestDecorationTracker_Members(t *testing.T) {
	tr := decoTestTracker(t)

	if v, ok := tr.FirstMember(5, 1, spirv.DecorationOffset); !ok || v != 16 {
		t.Errorf("member 1 Offset = (%d, %v), want (16, true)", v, ok)
	}
	if !tr.HasMember(5, 1, spirv.DecorationRowMajor) {
		t.Error("member 1 RowMajor missing")
	}
	if tr.HasMember(5, 0, spirv.DecorationRowMajor) {
		t.Error("member 0 should not be row major")
	}
	if _, ok := tr.FirstMember(5, 2, spirv.DecorationOffset); ok {
		t.Error("member 2 was never decorated")
	}

	if got := len(tr.OfMember(5, 1)); got != 2 {
		t.Errorf("member 1 has %d decorations, want 2", got)
	}
	if got := len(tr.Of(5)); got != 2 {
		t.Errorf("id 5 has %d decorations, want 2", got)
	}
	if tr.Of(42) != nil {
		t.Error("Of on undecorated id should be nil")
	}
}

func TestDecorationTracker_RejectsOthers(t *testing.T) {
	tr := NewDecorationTracker()

	other := spirv.Instruction{Opcode: spirv.OpName, Operands: []uint32{1, 0x6E69616D}}
	if tr.Collect(&other) {
		t.Error("OpName should not be consumed")
	}
	short := spirv.Instruction{Opcode: spirv.OpDecorate, Operands: []uint32{5}}
	if tr.Collect(&short) {
		t.Error("truncated OpDecorate should not be consumed")
	}
}
