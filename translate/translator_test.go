package translate

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/gogpu/spv/spirv"
)

// buildSimpleModule emits a minimal compute module at the given
// version: one empty entry point and nothing translation would touch.
func buildSimpleModule(tb testing.TB, version spirv.Version) []byte {
	tb.Helper()
	mb := spirv.NewModuleBuilder(version)
	mb.AddCapability(spirv.CapabilityShader)
	mb.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	void := mb.AddTypeVoid()
	fnType := mb.AddTypeFunction(void)
	fn := mb.AddFunction(fnType, void, spirv.FunctionControlNone)
	mb.AddLabel()
	mb.AddReturn()
	mb.AddFunctionEnd()
	mb.AddEntryPoint(spirv.ExecutionModelGLCompute, fn, "main", nil)
	mb.AddExecutionMode(fn, spirv.ExecutionModeLocalSize, 1, 1, 1)
	data, err := mb.Build()
	if err != nil {
		tb.Fatalf("Build failed: %v", err)
	}
	return data
}

// translated lowers the module and parses the result.
func translated(tb testing.TB, module []byte, target spirv.Version) ([]spirv.Instruction, Report) {
	tb.Helper()
	out, rep, err := Translate(module, target)
	if err != nil {
		tb.Fatalf("Translate to %s failed: %v", target, err)
	}
	_, insts, err := spirv.Parse(out)
	if err != nil {
		tb.Fatalf("Parse of translated module failed: %v", err)
	}
	return insts, rep
}

func findOp(insts []spirv.Instruction, op spirv.OpCode) *spirv.Instruction {
	for i := range insts {
		if insts[i].Opcode == op {
			return &insts[i]
		}
	}
	return nil
}

func countOp(insts []spirv.Instruction, op spirv.OpCode) int {
	n := 0
	for i := range insts {
		if insts[i].Opcode == op {
			n++
		}
	}
	return n
}

func hasCapability(insts []spirv.Instruction, c spirv.Capability) bool {
	for i := range insts {
		if insts[i].Opcode == spirv.OpCapability &&
			len(insts[i].Operands) == 1 && spirv.Capability(insts[i].Operands[0]) == c {
			return true
		}
	}
	return false
}

func hasExtension(insts []spirv.Instruction, name string) bool {
	for i := range insts {
		if insts[i].Opcode != spirv.OpExtension {
			continue
		}
		if text, _, err := spirv.DecodeString(insts[i].Operands); err == nil && text == name {
			return true
		}
	}
	return false
}

func TestTranslate_FastPathByteIdentity(t *testing.T) {
	src := buildSimpleModule(t, spirv.Version1_0)

	out, rep, err := Translate(src, spirv.Version1_3)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if len(out) != len(src) {
		t.Fatalf("output length %d, want %d", len(out), len(src))
	}
	if !bytes.Equal(out[:4], src[:4]) || !bytes.Equal(out[8:], src[8:]) {
		t.Error("fast path changed bytes outside the version word")
	}
	if got := binary.LittleEndian.Uint32(out[4:8]); got != spirv.Version1_3.Word() {
		t.Errorf("version word = %#08x, want %#08x", got, spirv.Version1_3.Word())
	}
	if rep.Processed != 0 || rep.Emulated != 0 || rep.Dropped != 0 {
		t.Errorf("fast path report = %+v, want zero counts", rep)
	}
}

func TestTranslate_FastPathEqualVersion(t *testing.T) {
	src := buildSimpleModule(t, spirv.Version1_3)
	out, _, err := Translate(src, spirv.Version1_3)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if !bytes.Equal(out, src) {
		t.Error("translating to the module's own version must be byte-identical")
	}
}

func TestTranslate_FastPathBigEndian(t *testing.T) {
	src := buildSimpleModule(t, spirv.Version1_0)
	swapped := make([]byte, len(src))
	for i := 0; i < len(src); i += 4 {
		swapped[i] = src[i+3]
		swapped[i+1] = src[i+2]
		swapped[i+2] = src[i+1]
		swapped[i+3] = src[i]
	}

	out, _, err := Translate(swapped, spirv.Version1_6)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if !bytes.Equal(out[:4], swapped[:4]) || !bytes.Equal(out[8:], swapped[8:]) {
		t.Error("fast path changed bytes outside the version word")
	}
	if got := binary.BigEndian.Uint32(out[4:8]); got != spirv.Version1_6.Word() {
		t.Errorf("version word = %#08x, want big-endian %#08x", got, spirv.Version1_6.Word())
	}
}

func TestTranslate_UnknownTarget(t *testing.T) {
	src := buildSimpleModule(t, spirv.Version1_0)
	if _, _, err := Translate(src, spirv.Version{Major: 2}); err == nil {
		t.Fatal("expected error for unknown target version")
	}
}

func TestTranslate_MalformedInput(t *testing.T) {
	if _, _, err := Translate([]byte{1, 2, 3}, spirv.Version1_0); err == nil {
		t.Fatal("expected error for malformed module")
	}
}

// TestTranslate_DecorateIdToLiteral lowers an id-bearing decoration to
// its literal form: OpTypeVoid is id 1, OpTypeBool id 2, the true
// constant id 3, and the decoration must end up carrying literal 1,
// the constant's value, not id 3.
func TestTranslate_DecorateIdToLiteral(t *testing.T) {
	mb := spirv.NewModuleBuilder(spirv.Version1_6)
	mb.AddCapability(spirv.CapabilityShader)
	mb.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	void := mb.AddTypeVoid()
	boolT := mb.AddTypeBool()
	truth := mb.AddConstantTrue(boolT)
	if void != 1 || boolT != 2 || truth != 3 {
		t.Fatalf("unexpected id assignment: %d %d %d", void, boolT, truth)
	}
	mb.Add(spirv.Instruction{
		Opcode:   spirv.OpDecorateId,
		Operands: []uint32{boolT, uint32(spirv.DecorationAlignmentId), truth},
		Offset:   -1,
	})
	data, err := mb.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	insts, rep := translated(t, data, spirv.Version1_0)
	if n := countOp(insts, spirv.OpDecorateId); n != 0 {
		t.Errorf("%d OpDecorateId instructions survived", n)
	}
	dec := findOp(insts, spirv.OpDecorate)
	if dec == nil {
		t.Fatal("no OpDecorate in output")
	}
	want := []uint32{boolT, uint32(spirv.DecorationAlignment), 1}
	if len(dec.Operands) != len(want) {
		t.Fatalf("OpDecorate operands = %v, want %v", dec.Operands, want)
	}
	for i, w := range want {
		if dec.Operands[i] != w {
			t.Fatalf("OpDecorate operands = %v, want %v", dec.Operands, want)
		}
	}
	if rep.Emulated != 1 {
		t.Errorf("Emulated = %d, want 1", rep.Emulated)
	}
}

func TestTranslate_ExecutionModeIdToLiteral(t *testing.T) {
	mb := spirv.NewModuleBuilder(spirv.Version1_6)
	mb.AddCapability(spirv.CapabilityShader)
	mb.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	u32 := mb.AddTypeInt(32, false)
	cx := mb.AddConstant(u32, 8)
	cy := mb.AddConstant(u32, 4)
	cz := mb.AddConstant(u32, 2)
	void := mb.AddTypeVoid()
	fnType := mb.AddTypeFunction(void)
	fn := mb.AddFunction(fnType, void, spirv.FunctionControlNone)
	mb.AddLabel()
	mb.AddReturn()
	mb.AddFunctionEnd()
	mb.AddEntryPoint(spirv.ExecutionModelGLCompute, fn, "main", nil)
	mb.Add(spirv.Instruction{
		Opcode:   spirv.OpExecutionModeId,
		Operands: []uint32{fn, uint32(spirv.ExecutionModeLocalSizeId), cx, cy, cz},
		Offset:   -1,
	})
	data, err := mb.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	insts, rep := translated(t, data, spirv.Version1_1)
	if n := countOp(insts, spirv.OpExecutionModeId); n != 0 {
		t.Errorf("%d OpExecutionModeId instructions survived", n)
	}
	mode := findOp(insts, spirv.OpExecutionMode)
	if mode == nil {
		t.Fatal("no OpExecutionMode in output")
	}
	want := []uint32{fn, uint32(spirv.ExecutionModeLocalSize), 8, 4, 2}
	for i, w := range want {
		if i >= len(mode.Operands) || mode.Operands[i] != w {
			t.Fatalf("OpExecutionMode operands = %v, want %v", mode.Operands, want)
		}
	}
	if rep.Emulated != 1 {
		t.Errorf("Emulated = %d, want 1", rep.Emulated)
	}
}

// A specialization constant has no fixed value at translation time, so
// the id form must survive verbatim and be reported as a warning.
func TestTranslate_DecorateIdSpecConstantKept(t *testing.T) {
	mb := spirv.NewModuleBuilder(spirv.Version1_6)
	mb.AddCapability(spirv.CapabilityShader)
	mb.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	u32 := mb.AddTypeInt(32, false)
	sc := mb.AllocID()
	mb.Add(spirv.Instruction{
		Opcode:     spirv.OpSpecConstant,
		ResultType: u32,
		ResultID:   sc,
		Operands:   []uint32{64},
		Offset:     -1,
	})
	mb.AddDecorate(sc, spirv.DecorationSpecId, 0)
	mb.Add(spirv.Instruction{
		Opcode:   spirv.OpDecorateId,
		Operands: []uint32{u32, uint32(spirv.DecorationAlignmentId), sc},
		Offset:   -1,
	})
	data, err := mb.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	insts, rep := translated(t, data, spirv.Version1_0)
	if n := countOp(insts, spirv.OpDecorateId); n != 1 {
		t.Errorf("OpDecorateId count = %d, want 1 verbatim copy", n)
	}
	if rep.Warnings != 1 {
		t.Errorf("Warnings = %d, want 1", rep.Warnings)
	}
}

func TestTranslate_PtrEqualEmulation(t *testing.T) {
	mb := spirv.NewModuleBuilder(spirv.Version1_6)
	mb.AddCapability(spirv.CapabilityShader)
	mb.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	f32 := mb.AddTypeFloat(32)
	boolT := mb.AddTypeBool()
	ptr := mb.AddTypePointer(spirv.StorageClassFunction, f32)
	void := mb.AddTypeVoid()
	fnType := mb.AddTypeFunction(void)
	fn := mb.AddFunction(fnType, void, spirv.FunctionControlNone)
	mb.AddLabel()
	v1 := mb.AddVariable(ptr, spirv.StorageClassFunction)
	v2 := mb.AddVariable(ptr, spirv.StorageClassFunction)
	eq := mb.AllocID()
	mb.Add(spirv.Instruction{
		Opcode:     spirv.OpPtrEqual,
		ResultType: boolT,
		ResultID:   eq,
		Operands:   []uint32{v1, v2},
		Offset:     -1,
	})
	mb.AddReturn()
	mb.AddFunctionEnd()
	mb.AddEntryPoint(spirv.ExecutionModelGLCompute, fn, "main", nil)
	data, err := mb.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	insts, rep := translated(t, data, spirv.Version1_0)
	if n := countOp(insts, spirv.OpPtrEqual); n != 0 {
		t.Errorf("%d OpPtrEqual instructions survived", n)
	}
	if n := countOp(insts, spirv.OpConvertPtrToU); n != 2 {
		t.Fatalf("OpConvertPtrToU count = %d, want 2", n)
	}
	cmp := findOp(insts, spirv.OpIEqual)
	if cmp == nil {
		t.Fatal("no OpIEqual in output")
	}
	if cmp.ResultID != eq || cmp.ResultType != boolT {
		t.Errorf("OpIEqual result %d:%d, want %d:%d", cmp.ResultType, cmp.ResultID, boolT, eq)
	}

	// The casts go through a synthesized 64-bit uint type backed by the
	// Int64 capability, and OpConvertPtrToU itself demands Addresses.
	conv := findOp(insts, spirv.OpConvertPtrToU)
	u64 := conv.ResultType
	var u64Decl *spirv.Instruction
	for i := range insts {
		if insts[i].Opcode == spirv.OpTypeInt && insts[i].ResultID == u64 {
			u64Decl = &insts[i]
		}
	}
	if u64Decl == nil {
		t.Fatal("no declaration for the cast result type")
	}
	if u64Decl.Operands[0] != 64 || u64Decl.Operands[1] != 0 {
		t.Errorf("cast type = OpTypeInt %v, want [64 0]", u64Decl.Operands)
	}
	if !hasCapability(insts, spirv.CapabilityInt64) {
		t.Error("Int64 capability not declared")
	}
	if !hasCapability(insts, spirv.CapabilityAddresses) {
		t.Error("Addresses capability not declared for the pointer casts")
	}
	if rep.Emulated != 1 {
		t.Errorf("Emulated = %d, want 1", rep.Emulated)
	}
}

func TestTranslate_PtrDiffReusesDeclaredU64(t *testing.T) {
	mb := spirv.NewModuleBuilder(spirv.Version1_6)
	mb.AddCapability(spirv.CapabilityShader)
	mb.AddCapability(spirv.CapabilityInt64)
	mb.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	u64 := mb.AddTypeInt(64, false)
	f32 := mb.AddTypeFloat(32)
	ptr := mb.AddTypePointer(spirv.StorageClassFunction, f32)
	void := mb.AddTypeVoid()
	fnType := mb.AddTypeFunction(void)
	mb.AddFunction(fnType, void, spirv.FunctionControlNone)
	mb.AddLabel()
	v1 := mb.AddVariable(ptr, spirv.StorageClassFunction)
	v2 := mb.AddVariable(ptr, spirv.StorageClassFunction)
	diff := mb.AllocID()
	mb.Add(spirv.Instruction{
		Opcode:     spirv.OpPtrDiff,
		ResultType: u64,
		ResultID:   diff,
		Operands:   []uint32{v1, v2},
		Offset:     -1,
	})
	mb.AddReturn()
	mb.AddFunctionEnd()
	data, err := mb.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	insts, _ := translated(t, data, spirv.Version1_3)
	if n := countOp(insts, spirv.OpTypeInt); n != 1 {
		t.Errorf("OpTypeInt count = %d, want the declared u64 reused", n)
	}
	conv := findOp(insts, spirv.OpConvertPtrToU)
	if conv == nil || conv.ResultType != u64 {
		t.Error("cast does not reuse the module's own 64-bit type")
	}
	sub := findOp(insts, spirv.OpISub)
	if sub == nil || sub.ResultID != diff {
		t.Error("no OpISub carrying the original result id")
	}
	// Reusing the declared u64 must not skip the capability the casts
	// themselves require.
	if !hasCapability(insts, spirv.CapabilityAddresses) {
		t.Error("Addresses capability not declared when the u64 type is reused")
	}
}

func TestTranslate_TerminateInvocationBecomesKill(t *testing.T) {
	mb := spirv.NewModuleBuilder(spirv.Version1_6)
	mb.AddCapability(spirv.CapabilityShader)
	mb.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	void := mb.AddTypeVoid()
	fnType := mb.AddTypeFunction(void)
	fn := mb.AddFunction(fnType, void, spirv.FunctionControlNone)
	mb.AddLabel()
	mb.Add(spirv.Instruction{Opcode: spirv.OpTerminateInvocation, Offset: -1})
	mb.AddFunctionEnd()
	mb.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", nil)
	data, err := mb.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	insts, rep := translated(t, data, spirv.Version1_3)
	if countOp(insts, spirv.OpTerminateInvocation) != 0 {
		t.Error("OpTerminateInvocation survived")
	}
	if countOp(insts, spirv.OpKill) != 1 {
		t.Error("no OpKill substitute in output")
	}
	if rep.Emulated != 1 {
		t.Errorf("Emulated = %d, want 1", rep.Emulated)
	}
}

func TestTranslate_SubgroupVoteSubstitution(t *testing.T) {
	mb := spirv.NewModuleBuilder(spirv.Version1_6)
	mb.AddCapability(spirv.CapabilityShader)
	mb.AddCapability(spirv.CapabilityGroupNonUniform)
	mb.AddCapability(spirv.CapabilityGroupNonUniformVote)
	mb.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	boolT := mb.AddTypeBool()
	u32 := mb.AddTypeInt(32, false)
	pred := mb.AddConstantTrue(boolT)
	scope := mb.AddConstant(u32, uint32(spirv.ScopeSubgroup))
	void := mb.AddTypeVoid()
	fnType := mb.AddTypeFunction(void)
	mb.AddFunction(fnType, void, spirv.FunctionControlNone)
	mb.AddLabel()
	all := mb.AllocID()
	mb.Add(spirv.Instruction{
		Opcode:     spirv.OpGroupNonUniformAll,
		ResultType: boolT,
		ResultID:   all,
		Operands:   []uint32{scope, pred},
		Offset:     -1,
	})
	mb.AddReturn()
	mb.AddFunctionEnd()
	data, err := mb.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	insts, rep := translated(t, data, spirv.Version1_0)
	if countOp(insts, spirv.OpGroupNonUniformAll) != 0 {
		t.Error("OpGroupNonUniformAll survived")
	}
	sub := findOp(insts, spirv.OpSubgroupAllKHR)
	if sub == nil {
		t.Fatal("no OpSubgroupAllKHR in output")
	}
	if sub.ResultID != all || sub.ResultType != boolT {
		t.Errorf("substitute result %d:%d, want %d:%d", sub.ResultType, sub.ResultID, boolT, all)
	}
	if len(sub.Operands) != 1 || sub.Operands[0] != pred {
		t.Errorf("substitute operands = %v, want scope dropped, [%d]", sub.Operands, pred)
	}
	if !hasExtension(insts, spirv.ExtSubgroupVote) {
		t.Error("SPV_KHR_subgroup_vote not declared")
	}
	if !hasCapability(insts, spirv.CapabilitySubgroupVoteKHR) {
		t.Error("SubgroupVoteKHR capability not declared")
	}
	if hasCapability(insts, spirv.CapabilityGroupNonUniform) {
		t.Error("GroupNonUniform capability must be dropped below 1.3")
	}
	if rep.Substituted != 1 {
		t.Errorf("Substituted = %d, want 1", rep.Substituted)
	}
	if len(rep.Extensions) != 1 || rep.Extensions[0] != spirv.ExtSubgroupVote {
		t.Errorf("Extensions = %v, want [%s]", rep.Extensions, spirv.ExtSubgroupVote)
	}
	if rep.Dropped == 0 {
		t.Error("dropped capability not counted")
	}
}

func TestTranslate_BallotSubstitutionDropsScope(t *testing.T) {
	mb := spirv.NewModuleBuilder(spirv.Version1_6)
	mb.AddCapability(spirv.CapabilityShader)
	mb.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	boolT := mb.AddTypeBool()
	u32 := mb.AddTypeInt(32, false)
	vec4 := mb.AddTypeVector(u32, 4)
	pred := mb.AddConstantTrue(boolT)
	scope := mb.AddConstant(u32, uint32(spirv.ScopeSubgroup))
	void := mb.AddTypeVoid()
	fnType := mb.AddTypeFunction(void)
	mb.AddFunction(fnType, void, spirv.FunctionControlNone)
	mb.AddLabel()
	ballot := mb.AllocID()
	mb.Add(spirv.Instruction{
		Opcode:     spirv.OpGroupNonUniformBallot,
		ResultType: vec4,
		ResultID:   ballot,
		Operands:   []uint32{scope, pred},
		Offset:     -1,
	})
	mb.AddReturn()
	mb.AddFunctionEnd()
	data, err := mb.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	insts, rep := translated(t, data, spirv.Version1_2)
	sub := findOp(insts, spirv.OpSubgroupBallotKHR)
	if sub == nil {
		t.Fatal("no OpSubgroupBallotKHR in output")
	}
	if len(sub.Operands) != 1 || sub.Operands[0] != pred {
		t.Errorf("substitute operands = %v, want [%d]", sub.Operands, pred)
	}
	if !hasExtension(insts, spirv.ExtShaderBallot) {
		t.Error("SPV_KHR_shader_ballot not declared")
	}
	if rep.Substituted != 1 {
		t.Errorf("Substituted = %d, want 1", rep.Substituted)
	}
}

func TestTranslate_ElectPassesThrough(t *testing.T) {
	mb := spirv.NewModuleBuilder(spirv.Version1_6)
	mb.AddCapability(spirv.CapabilityShader)
	mb.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	boolT := mb.AddTypeBool()
	u32 := mb.AddTypeInt(32, false)
	scope := mb.AddConstant(u32, uint32(spirv.ScopeSubgroup))
	void := mb.AddTypeVoid()
	fnType := mb.AddTypeFunction(void)
	mb.AddFunction(fnType, void, spirv.FunctionControlNone)
	mb.AddLabel()
	elect := mb.AllocID()
	mb.Add(spirv.Instruction{
		Opcode:     spirv.OpGroupNonUniformElect,
		ResultType: boolT,
		ResultID:   elect,
		Operands:   []uint32{scope},
		Offset:     -1,
	})
	mb.AddReturn()
	mb.AddFunctionEnd()
	data, err := mb.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	insts, rep := translated(t, data, spirv.Version1_0)
	kept := findOp(insts, spirv.OpGroupNonUniformElect)
	if kept == nil {
		t.Fatal("OpGroupNonUniformElect must pass through unchanged")
	}
	if kept.ResultID != elect || len(kept.Operands) != 1 || kept.Operands[0] != scope {
		t.Errorf("pass-through altered the instruction: %s", kept)
	}
	if rep.NeedsValidation != 1 {
		t.Errorf("NeedsValidation = %d, want 1", rep.NeedsValidation)
	}
	if rep.Emulated != 0 {
		t.Errorf("Emulated = %d, want 0", rep.Emulated)
	}
}

func TestTranslate_CopyLogicalStructDecomposed(t *testing.T) {
	mb := spirv.NewModuleBuilder(spirv.Version1_6)
	mb.AddCapability(spirv.CapabilityShader)
	mb.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	f32 := mb.AddTypeFloat(32)
	i32 := mb.AddTypeInt(32, true)
	stA := mb.AddTypeStruct(f32, i32)
	stB := mb.AddTypeStruct(f32, i32)
	c1 := mb.AddConstantFloat32(f32, 1.5)
	c2 := mb.AddConstant(i32, 7)
	val := mb.AddConstantComposite(stA, c1, c2)
	void := mb.AddTypeVoid()
	fnType := mb.AddTypeFunction(void)
	mb.AddFunction(fnType, void, spirv.FunctionControlNone)
	mb.AddLabel()
	cp := mb.AllocID()
	mb.Add(spirv.Instruction{
		Opcode:     spirv.OpCopyLogical,
		ResultType: stB,
		ResultID:   cp,
		Operands:   []uint32{val},
		Offset:     -1,
	})
	mb.AddReturn()
	mb.AddFunctionEnd()
	data, err := mb.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	insts, rep := translated(t, data, spirv.Version1_3)
	if countOp(insts, spirv.OpCopyLogical) != 0 {
		t.Error("OpCopyLogical survived")
	}
	if n := countOp(insts, spirv.OpCompositeExtract); n != 2 {
		t.Fatalf("OpCompositeExtract count = %d, want 2", n)
	}
	var extractTypes []uint32
	for i := range insts {
		if insts[i].Opcode == spirv.OpCompositeExtract {
			extractTypes = append(extractTypes, insts[i].ResultType)
		}
	}
	if extractTypes[0] != f32 || extractTypes[1] != i32 {
		t.Errorf("extract result types = %v, want [%d %d]", extractTypes, f32, i32)
	}
	construct := findOp(insts, spirv.OpCompositeConstruct)
	if construct == nil {
		t.Fatal("no OpCompositeConstruct in output")
	}
	if construct.ResultID != cp || construct.ResultType != stB {
		t.Errorf("construct result %d:%d, want %d:%d",
			construct.ResultType, construct.ResultID, stB, cp)
	}
	if len(construct.Operands) != 2 {
		t.Errorf("construct operands = %v, want two member ids", construct.Operands)
	}
	if rep.Emulated != 1 {
		t.Errorf("Emulated = %d, want 1", rep.Emulated)
	}
}

func TestTranslate_CopyLogicalScalarBecomesCopyObject(t *testing.T) {
	mb := spirv.NewModuleBuilder(spirv.Version1_6)
	mb.AddCapability(spirv.CapabilityShader)
	mb.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	f32 := mb.AddTypeFloat(32)
	c := mb.AddConstantFloat32(f32, 2.0)
	void := mb.AddTypeVoid()
	fnType := mb.AddTypeFunction(void)
	mb.AddFunction(fnType, void, spirv.FunctionControlNone)
	mb.AddLabel()
	cp := mb.AllocID()
	mb.Add(spirv.Instruction{
		Opcode:     spirv.OpCopyLogical,
		ResultType: f32,
		ResultID:   cp,
		Operands:   []uint32{c},
		Offset:     -1,
	})
	mb.AddReturn()
	mb.AddFunctionEnd()
	data, err := mb.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	insts, _ := translated(t, data, spirv.Version1_0)
	cpy := findOp(insts, spirv.OpCopyObject)
	if cpy == nil {
		t.Fatal("no OpCopyObject in output")
	}
	if cpy.ResultID != cp || len(cpy.Operands) != 1 || cpy.Operands[0] != c {
		t.Errorf("copy = %s, want result %d of operand %d", cpy, cp, c)
	}
}

func TestTranslate_ModuleProcessedDropped(t *testing.T) {
	mb := spirv.NewModuleBuilder(spirv.Version1_1)
	mb.AddCapability(spirv.CapabilityShader)
	mb.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	mb.Add(spirv.Instruction{
		Opcode:   spirv.OpModuleProcessed,
		Operands: spirv.StringWords("optimized by tool"),
		Offset:   -1,
	})
	data, err := mb.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	insts, rep := translated(t, data, spirv.Version1_0)
	if countOp(insts, spirv.OpModuleProcessed) != 0 {
		t.Error("OpModuleProcessed survived")
	}
	if rep.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", rep.Dropped)
	}
}

func TestTranslate_UnsupportedStrict(t *testing.T) {
	mb := spirv.NewModuleBuilder(spirv.Version1_6)
	mb.AddCapability(spirv.CapabilityShader)
	mb.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	f32 := mb.AddTypeFloat(32)
	u32 := mb.AddTypeInt(32, false)
	ptr := mb.AddTypePointer(spirv.StorageClassFunction, f32)
	void := mb.AddTypeVoid()
	fnType := mb.AddTypeFunction(void)
	mb.AddFunction(fnType, void, spirv.FunctionControlNone)
	mb.AddLabel()
	v := mb.AddVariable(ptr, spirv.StorageClassFunction)
	size := mb.AllocID()
	mb.Add(spirv.Instruction{
		Opcode:     spirv.OpSizeOf,
		ResultType: u32,
		ResultID:   size,
		Operands:   []uint32{v},
		Offset:     -1,
	})
	mb.AddReturn()
	mb.AddFunctionEnd()
	data, err := mb.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	opts := Options{Target: spirv.Version1_0, Strict: true}
	out, rep, err := New(opts).Translate(data)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	_, insts, err := spirv.Parse(out)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if countOp(insts, spirv.OpSizeOf) != 0 {
		t.Error("OpSizeOf survived")
	}
	if rep.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", rep.Dropped)
	}
	if len(rep.Findings) != 1 {
		t.Fatalf("Findings = %v, want one entry", rep.Findings)
	}
	if !strings.Contains(rep.Findings[0].Message, "OpSizeOf") {
		t.Errorf("finding %q does not name the opcode", rep.Findings[0].Message)
	}
}

// TestTranslate_SlowPathPreservesBound checks that emulation allocates
// fresh ids above the source module's bound.
func TestTranslate_SlowPathPreservesBound(t *testing.T) {
	mb := spirv.NewModuleBuilder(spirv.Version1_6)
	mb.AddCapability(spirv.CapabilityShader)
	mb.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	f32 := mb.AddTypeFloat(32)
	boolT := mb.AddTypeBool()
	ptr := mb.AddTypePointer(spirv.StorageClassFunction, f32)
	void := mb.AddTypeVoid()
	fnType := mb.AddTypeFunction(void)
	mb.AddFunction(fnType, void, spirv.FunctionControlNone)
	mb.AddLabel()
	v1 := mb.AddVariable(ptr, spirv.StorageClassFunction)
	v2 := mb.AddVariable(ptr, spirv.StorageClassFunction)
	eq := mb.AllocID()
	mb.Add(spirv.Instruction{
		Opcode:     spirv.OpPtrEqual,
		ResultType: boolT,
		ResultID:   eq,
		Operands:   []uint32{v1, v2},
		Offset:     -1,
	})
	mb.AddReturn()
	mb.AddFunctionEnd()
	data, err := mb.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	srcHeader, _, err := spirv.Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	out, _, err := Translate(data, spirv.Version1_0)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	header, insts, err := spirv.Parse(out)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if header.Bound <= srcHeader.Bound {
		t.Errorf("bound = %d, want above source bound %d", header.Bound, srcHeader.Bound)
	}
	for i := range insts {
		if insts[i].ResultID >= header.Bound {
			t.Errorf("%s: result id %d outside bound %d", insts[i].Opcode, insts[i].ResultID, header.Bound)
		}
	}
}
