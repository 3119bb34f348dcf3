package spirv

import (
	"encoding/binary"
	"testing"
)

func TestModuleBuilder_MinimalModule(t *testing.T) {
	builder := NewModuleBuilder(Version1_3)

	builder.AddCapability(CapabilityShader)
	builder.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)

	data, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Verify header (5 words = 20 bytes)
	if len(data) < 20 {
		t.Fatalf("Module too small: got %d bytes, want at least 20", len(data))
	}

	magic := binary.LittleEndian.Uint32(data[0:4])
	if magic != MagicNumber {
		t.Errorf("Invalid magic number: got 0x%08X, want 0x%08X", magic, MagicNumber)
	}

	version := binary.LittleEndian.Uint32(data[4:8])
	expectedVersion := uint32(1<<16 | 3<<8)
	if version != expectedVersion {
		t.Errorf("Invalid version: got 0x%08X, want 0x%08X", version, expectedVersion)
	}

	generator := binary.LittleEndian.Uint32(data[8:12])
	if generator != GeneratorID {
		t.Errorf("Invalid generator: got 0x%08X, want 0x%08X", generator, GeneratorID)
	}

	bound := binary.LittleEndian.Uint32(data[12:16])
	if bound == 0 {
		t.Error("Bound should be > 0")
	}

	schema := binary.LittleEndian.Uint32(data[16:20])
	if schema != 0 {
		t.Errorf("Schema should be 0, got %d", schema)
	}

	t.Logf("Module size: %d bytes", len(data))
	t.Logf("Bound: %d", bound)
}

func TestModuleBuilder_SectionOrder(t *testing.T) {
	builder := NewModuleBuilder(Version1_0)

	// Add sections deliberately out of order; Build must still emit
	// them in the layout the format requires.
	voidTy := builder.AddTypeVoid()
	funcTy := builder.AddTypeFunction(voidTy)
	fn := builder.AddFunction(funcTy, voidTy, FunctionControlNone)
	builder.AddLabel()
	builder.AddReturn()
	builder.AddFunctionEnd()
	builder.AddName(fn, "main")
	builder.AddEntryPoint(ExecutionModelFragment, fn, "main", nil)
	builder.AddExecutionMode(fn, ExecutionModeOriginUpperLeft)
	builder.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)
	builder.AddCapability(CapabilityShader)

	data, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	_, insts, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	lastRank := -1
	for i := range insts {
		rank := sectionRank(&insts[i])
		if rank == rankAny {
			continue
		}
		if rank < lastRank {
			t.Errorf("Instruction %d (%s) out of order: rank %d after %d",
				i, insts[i].Opcode, rank, lastRank)
		}
		if rank > lastRank {
			lastRank = rank
		}
	}
	if insts[0].Opcode != OpCapability {
		t.Errorf("First instruction: got %s, want OpCapability", insts[0].Opcode)
	}
}

func TestModuleBuilder_CapabilityDedup(t *testing.T) {
	builder := NewModuleBuilder(Version1_0)

	builder.AddCapability(CapabilityShader)
	builder.AddCapability(CapabilityShader)
	builder.AddCapability(CapabilityMatrix)
	builder.AddExtension("SPV_KHR_subgroup_vote")
	builder.AddExtension("SPV_KHR_subgroup_vote")
	builder.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)

	if !builder.HasCapability(CapabilityShader) {
		t.Error("HasCapability(Shader) should be true")
	}
	if !builder.HasExtension("SPV_KHR_subgroup_vote") {
		t.Error("HasExtension should be true")
	}

	data, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	_, insts, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var caps, exts int
	for i := range insts {
		switch insts[i].Opcode {
		case OpCapability:
			caps++
		case OpExtension:
			exts++
		}
	}
	if caps != 2 {
		t.Errorf("Capability count: got %d, want 2", caps)
	}
	if exts != 1 {
		t.Errorf("Extension count: got %d, want 1", exts)
	}
}

func TestModuleBuilder_VariablePlacement(t *testing.T) {
	builder := NewModuleBuilder(Version1_0)
	builder.AddCapability(CapabilityShader)
	builder.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)

	f32Ty := builder.AddTypeFloat(32)
	privPtr := builder.AddTypePointer(StorageClassPrivate, f32Ty)
	fnPtr := builder.AddTypePointer(StorageClassFunction, f32Ty)
	voidTy := builder.AddTypeVoid()
	funcTy := builder.AddTypeFunction(voidTy)

	fn := builder.AddFunction(funcTy, voidTy, FunctionControlNone)
	builder.AddLabel()
	// Declared mid-function, but Private storage means module scope.
	global := builder.AddVariable(privPtr, StorageClassPrivate)
	local := builder.AddVariable(fnPtr, StorageClassFunction)
	builder.AddReturn()
	builder.AddFunctionEnd()

	data, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	_, insts, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var fnIndex, globalIndex, localIndex int = -1, -1, -1
	for i := range insts {
		switch {
		case insts[i].Opcode == OpFunction:
			fnIndex = i
		case insts[i].Opcode == OpVariable && insts[i].ResultID == global:
			globalIndex = i
		case insts[i].Opcode == OpVariable && insts[i].ResultID == local:
			localIndex = i
		}
	}
	if globalIndex == -1 || localIndex == -1 || fnIndex == -1 {
		t.Fatalf("Missing instructions: fn=%d global=%d local=%d", fnIndex, globalIndex, localIndex)
	}
	if globalIndex > fnIndex {
		t.Errorf("Private variable at %d should precede OpFunction at %d", globalIndex, fnIndex)
	}
	if localIndex < fnIndex {
		t.Errorf("Function variable at %d should follow OpFunction at %d", localIndex, fnIndex)
	}
	_ = fn
}

func TestModuleBuilder_IDAllocation(t *testing.T) {
	builder := NewModuleBuilder(Version1_3)

	id1 := builder.AllocID()
	id2 := builder.AllocID()
	id3 := builder.AllocID()

	if id1 >= id2 || id2 >= id3 {
		t.Error("IDs should be strictly increasing")
	}
	if id1 == 0 || id2 == 0 || id3 == 0 {
		t.Error("IDs should never be 0")
	}

	t.Logf("Allocated IDs: %d, %d, %d", id1, id2, id3)
}

func TestModuleBuilder_Reserve(t *testing.T) {
	builder := NewModuleBuilder(Version1_0)

	builder.Reserve(100)
	id := builder.AllocID()
	if id < 100 {
		t.Errorf("AllocID after Reserve(100): got %d, want >= 100", id)
	}

	// Reserving below the current bound must not move it backwards.
	builder.Reserve(10)
	next := builder.AllocID()
	if next <= id {
		t.Errorf("AllocID after lower Reserve: got %d, want > %d", next, id)
	}

	if builder.Bound() != next+1 {
		t.Errorf("Bound: got %d, want %d", builder.Bound(), next+1)
	}
}

func TestModuleBuilder_BoundInHeader(t *testing.T) {
	builder := NewModuleBuilder(Version1_0)
	builder.AddCapability(CapabilityShader)
	builder.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)
	builder.AddTypeVoid()
	builder.AddTypeBool()

	data, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	bound := binary.LittleEndian.Uint32(data[12:16])
	if bound != builder.Bound() {
		t.Errorf("Header bound: got %d, want %d", bound, builder.Bound())
	}
	// Two ids were allocated starting from 1.
	if bound != 3 {
		t.Errorf("Bound after two allocations: got %d, want 3", bound)
	}
}
