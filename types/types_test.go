package types

import (
	"testing"

	"github.com/gogpu/spv/spirv"
)

// testModule holds the ids allocated while assembling the shared test
// module so assertions can refer to declarations by name.
type testModule struct {
	insts []spirv.Instruction

	voidT, boolT         uint32
	u32T, i32T, f32T     uint32
	vec3T, vec4T, mat4T  uint32
	lenC, arrT, rtaT     uint32
	structT, ptrT, funcT uint32
	uboVar               uint32
}

// buildTestModule assembles a module with a representative set of
// declarations and decodes it back into instructions.
func buildTestModule(tb testing.TB) *testModule {
	tb.Helper()
	m := &testModule{}
	mb := spirv.NewModuleBuilder(spirv.Version1_3)

	mb.AddCapability(spirv.CapabilityShader)
	mb.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	m.voidT = mb.AddTypeVoid()
	m.boolT = mb.AddTypeBool()
	m.u32T = mb.AddTypeInt(32, false)
	m.i32T = mb.AddTypeInt(32, true)
	m.f32T = mb.AddTypeFloat(32)
	m.vec3T = mb.AddTypeVector(m.f32T, 3)
	m.vec4T = mb.AddTypeVector(m.f32T, 4)
	m.mat4T = mb.AddTypeMatrix(m.vec4T, 4)
	m.lenC = mb.AddConstant(m.u32T, 4)
	m.arrT = mb.AddTypeArray(m.f32T, m.lenC)
	m.rtaT = mb.AddTypeRuntimeArray(m.vec4T)
	m.structT = mb.AddTypeStruct(m.f32T, m.vec3T, m.mat4T)
	m.ptrT = mb.AddTypePointer(spirv.StorageClassUniform, m.structT)
	m.funcT = mb.AddTypeFunction(m.voidT)

	mb.AddDecorate(m.structT, spirv.DecorationBlock)
	m.uboVar = mb.AddVariable(m.ptrT, spirv.StorageClassUniform)
	mb.AddDecorate(m.uboVar, spirv.DecorationDescriptorSet, 0)
	mb.AddDecorate(m.uboVar, spirv.DecorationBinding, 2)
	mb.AddName(m.uboVar, "camera")

	data, err := mb.Build()
	if err != nil {
		tb.Fatalf("Build failed: %v", err)
	}
	_, insts, err := spirv.Parse(data)
	if err != nil {
		tb.Fatalf("Parse failed: %v", err)
	}
	m.insts = insts
	return m
}

func TestRegistry_Collect(t *testing.T) {
	m := buildTestModule(t)
	col := Collect(m.insts)

	tests := []struct {
		name string
		id   uint32
		want Node
	}{
		{"void", m.voidT, Node{Kind: KindVoid}},
		{"bool", m.boolT, Node{Kind: KindBool, Width: 32}},
		{"u32", m.u32T, Node{Kind: KindInt, Width: 32}},
		{"i32", m.i32T, Node{Kind: KindInt, Width: 32, Signed: true}},
		{"f32", m.f32T, Node{Kind: KindFloat, Width: 32}},
		{"vec3", m.vec3T, Node{Kind: KindVector, Component: m.f32T, Count: 3}},
		{"mat4", m.mat4T, Node{Kind: KindMatrix, Component: m.vec4T, Columns: 4}},
		{"array", m.arrT, Node{Kind: KindArray, Component: m.f32T, Count: 4}},
		{"runtime array", m.rtaT, Node{Kind: KindRuntimeArray, Component: m.vec4T}},
		{"pointer", m.ptrT, Node{Kind: KindPointer, Component: m.structT, Storage: spirv.StorageClassUniform}},
		{"function", m.funcT, Node{Kind: KindFunction, Component: m.voidT}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, ok := col.Types.Lookup(tt.id)
			if !ok {
				t.Fatalf("type %d not collected", tt.id)
			}
			if node.Kind != tt.want.Kind {
				t.Errorf("kind = %s, want %s", node.Kind, tt.want.Kind)
			}
			if node.Width != tt.want.Width || node.Signed != tt.want.Signed {
				t.Errorf("scalar shape = (%d, %v), want (%d, %v)",
					node.Width, node.Signed, tt.want.Width, tt.want.Signed)
			}
			if node.Component != tt.want.Component || node.Count != tt.want.Count ||
				node.Columns != tt.want.Columns {
				t.Errorf("composite shape = (comp %d, count %d, cols %d), want (comp %d, count %d, cols %d)",
					node.Component, node.Count, node.Columns,
					tt.want.Component, tt.want.Count, tt.want.Columns)
			}
			if node.Storage != tt.want.Storage {
				t.Errorf("storage = %d, want %d", node.Storage, tt.want.Storage)
			}
		})
	}

	st, ok := col.Types.Lookup(m.structT)
	if !ok {
		t.Fatal("struct type not collected")
	}
	if len(st.Members) != 3 || st.Members[0] != m.f32T || st.Members[1] != m.vec3T || st.Members[2] != m.mat4T {
		t.Errorf("struct members = %v, want [%d %d %d]", st.Members, m.f32T, m.vec3T, m.mat4T)
	}

	t.Logf("collected %d types, %d constants", col.Types.Count(), col.Constants.Count())
}

func TestRegistry_Find(t *testing.T) {
	m := buildTestModule(t)
	col := Collect(m.insts)

	if id, ok := col.Types.FindInt(32, false); !ok || id != m.u32T {
		t.Errorf("FindInt(32, unsigned) = (%d, %v), want (%d, true)", id, ok, m.u32T)
	}
	if id, ok := col.Types.FindInt(32, true); !ok || id != m.i32T {
		t.Errorf("FindInt(32, signed) = (%d, %v), want (%d, true)", id, ok, m.i32T)
	}
	if _, ok := col.Types.FindInt(64, false); ok {
		t.Error("FindInt(64) should fail, no 64-bit int declared")
	}
	if id, ok := col.Types.FindFloat(32); !ok || id != m.f32T {
		t.Errorf("FindFloat(32) = (%d, %v), want (%d, true)", id, ok, m.f32T)
	}
}

func TestRegistry_PutOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Put(Node{ID: 7, Kind: KindInt, Width: 32})
	r.Put(Node{ID: 7, Kind: KindFloat, Width: 32})

	if r.Count() != 1 {
		t.Fatalf("Count = %d, want 1", r.Count())
	}
	node, _ := r.Lookup(7)
	if node.Kind != KindFloat {
		t.Errorf("kind after overwrite = %s, want float", node.Kind)
	}

	var visited int
	r.ForEach(func(*Node) { visited++ })
	if visited != 1 {
		t.Errorf("ForEach visited %d nodes, want 1", visited)
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindVoid, "void"},
		{KindVector, "vector"},
		{KindRuntimeArray, "runtime array"},
		{KindSampledImage, "sampled image"},
		{Kind(200), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
