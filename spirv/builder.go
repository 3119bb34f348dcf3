package spirv

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync/atomic"
)

// IsTypeDeclaration reports whether the opcode declares a type.
func IsTypeDeclaration(op OpCode) bool {
	switch {
	case op >= OpTypeVoid && op <= OpTypeForwardPointer:
		return true
	case op == OpTypePipeStorage || op == OpTypeNamedBarrier:
		return true
	}
	return false
}

// IsConstantDeclaration reports whether the opcode declares a
// constant or spec constant.
func IsConstantDeclaration(op OpCode) bool {
	switch {
	case op >= OpConstantTrue && op <= OpSpecConstantOp:
		return true
	case op == OpConstantPipeStorage:
		return true
	}
	return false
}

// ModuleBuilder assembles a module instruction by instruction and
// serializes it with the sections in their required order. Add places
// each instruction into the right section from its opcode alone, so
// callers can append types, constants, and function body instructions
// in whatever order they produce them.
//
// AllocID is safe for concurrent use; the section slices are not.
type ModuleBuilder struct {
	version Version
	nextID  atomic.Uint32

	capabilities   []Instruction
	extensions     []Instruction
	extInstImports []Instruction
	memoryModel    []Instruction
	entryPoints    []Instruction
	executionModes []Instruction
	debugStrings   []Instruction
	debugNames     []Instruction
	annotations    []Instruction
	typesGlobals   []Instruction
	functions      []Instruction

	capSeen    map[Capability]bool
	extSeen    map[string]bool
	inFunction bool
}

// NewModuleBuilder returns a builder targeting the given version. The
// first allocated id is 1.
func NewModuleBuilder(version Version) *ModuleBuilder {
	b := &ModuleBuilder{
		version: version,
		capSeen: make(map[Capability]bool),
		extSeen: make(map[string]bool),
	}
	b.nextID.Store(1)
	return b
}

// AllocID returns a fresh result id.
func (b *ModuleBuilder) AllocID() uint32 {
	return b.nextID.Add(1) - 1
}

// Reserve raises the id allocator so that ids below bound are never
// handed out. Rewriting an existing module reserves its bound first,
// then allocates fresh ids above it.
func (b *ModuleBuilder) Reserve(bound uint32) {
	for {
		cur := b.nextID.Load()
		if cur >= bound {
			return
		}
		if b.nextID.CompareAndSwap(cur, bound) {
			return
		}
	}
}

// Bound returns the id bound the built module will carry: one past
// the highest id allocated or reserved.
func (b *ModuleBuilder) Bound() uint32 { return b.nextID.Load() }

// Version returns the version the module is being built for.
func (b *ModuleBuilder) Version() Version { return b.version }

// HasCapability reports whether the capability was already added.
func (b *ModuleBuilder) HasCapability(c Capability) bool { return b.capSeen[c] }

// HasExtension reports whether the extension was already added.
func (b *ModuleBuilder) HasExtension(name string) bool { return b.extSeen[name] }

// Add places the instruction into its section. Capabilities and
// extensions are deduplicated; everything else is appended in arrival
// order. Instructions with no module-level section go into the
// function section while a function is open and into the
// types-and-globals section otherwise, where the validator will flag
// anything that does not belong.
func (b *ModuleBuilder) Add(inst Instruction) {
	switch inst.Opcode {
	case OpCapability:
		if len(inst.Operands) == 1 {
			c := Capability(inst.Operands[0])
			if b.capSeen[c] {
				return
			}
			b.capSeen[c] = true
		}
		b.capabilities = append(b.capabilities, inst)
	case OpExtension:
		if name, _, err := DecodeString(inst.Operands); err == nil {
			if b.extSeen[name] {
				return
			}
			b.extSeen[name] = true
		}
		b.extensions = append(b.extensions, inst)
	case OpExtInstImport:
		b.extInstImports = append(b.extInstImports, inst)
	case OpMemoryModel:
		b.memoryModel = append(b.memoryModel, inst)
	case OpEntryPoint:
		b.entryPoints = append(b.entryPoints, inst)
	case OpExecutionMode, OpExecutionModeId:
		b.executionModes = append(b.executionModes, inst)
	case OpString, OpSource, OpSourceContinued, OpSourceExtension:
		b.debugStrings = append(b.debugStrings, inst)
	case OpName, OpMemberName, OpModuleProcessed:
		b.debugNames = append(b.debugNames, inst)
	case OpDecorate, OpMemberDecorate, OpDecorationGroup,
		OpGroupDecorate, OpGroupMemberDecorate, OpDecorateId:
		b.annotations = append(b.annotations, inst)
	case OpVariable:
		// Storage class, not builder state, decides the section, so
		// module-scope variables created while emitting a function
		// body still land up top.
		if len(inst.Operands) > 0 && StorageClass(inst.Operands[0]) == StorageClassFunction {
			b.functions = append(b.functions, inst)
		} else {
			b.typesGlobals = append(b.typesGlobals, inst)
		}
	case OpFunction:
		b.inFunction = true
		b.functions = append(b.functions, inst)
	case OpFunctionEnd:
		b.inFunction = false
		b.functions = append(b.functions, inst)
	default:
		switch {
		case IsTypeDeclaration(inst.Opcode), IsConstantDeclaration(inst.Opcode):
			b.typesGlobals = append(b.typesGlobals, inst)
		case b.inFunction:
			b.functions = append(b.functions, inst)
		default:
			b.typesGlobals = append(b.typesGlobals, inst)
		}
	}
}

// AddCapability declares a capability once.
func (b *ModuleBuilder) AddCapability(capability Capability) {
	b.Add(Instruction{Opcode: OpCapability, Operands: []uint32{uint32(capability)}, Offset: -1})
}

// AddExtension declares an extension once.
func (b *ModuleBuilder) AddExtension(name string) {
	b.Add(Instruction{Opcode: OpExtension, Operands: StringWords(name), Offset: -1})
}

// AddExtInstImport imports an extended instruction set and returns
// the id it is bound to.
func (b *ModuleBuilder) AddExtInstImport(name string) uint32 {
	id := b.AllocID()
	b.Add(Instruction{Opcode: OpExtInstImport, ResultID: id, Operands: StringWords(name), Offset: -1})
	return id
}

// SetMemoryModel declares the module's addressing and memory model,
// replacing any previous declaration.
func (b *ModuleBuilder) SetMemoryModel(addressing AddressingModel, memory MemoryModel) {
	b.memoryModel = b.memoryModel[:0]
	b.Add(Instruction{
		Opcode:   OpMemoryModel,
		Operands: []uint32{uint32(addressing), uint32(memory)},
		Offset:   -1,
	})
}

// AddEntryPoint declares an entry point with its interface ids.
func (b *ModuleBuilder) AddEntryPoint(execModel ExecutionModel, funcID uint32, name string, interfaces []uint32) {
	var buf WordBuffer
	buf.AddWord(uint32(execModel))
	buf.AddWord(funcID)
	buf.AddString(name)
	buf.AddWords(interfaces...)
	b.Add(buf.Build(OpEntryPoint))
}

// AddExecutionMode attaches an execution mode to an entry point.
func (b *ModuleBuilder) AddExecutionMode(entryPoint uint32, mode ExecutionMode, params ...uint32) {
	ops := append([]uint32{entryPoint, uint32(mode)}, params...)
	b.Add(Instruction{Opcode: OpExecutionMode, Operands: ops, Offset: -1})
}

// AddString adds a debug string and returns its id.
func (b *ModuleBuilder) AddString(text string) uint32 {
	id := b.AllocID()
	b.Add(Instruction{Opcode: OpString, ResultID: id, Operands: StringWords(text), Offset: -1})
	return id
}

// AddName attaches a debug name to an id.
func (b *ModuleBuilder) AddName(id uint32, name string) {
	var buf WordBuffer
	buf.AddWord(id)
	buf.AddString(name)
	b.Add(buf.Build(OpName))
}

// AddMemberName attaches a debug name to a struct member.
func (b *ModuleBuilder) AddMemberName(structID, member uint32, name string) {
	var buf WordBuffer
	buf.AddWord(structID)
	buf.AddWord(member)
	buf.AddString(name)
	b.Add(buf.Build(OpMemberName))
}

// AddDecorate decorates an id.
func (b *ModuleBuilder) AddDecorate(id uint32, decoration Decoration, params ...uint32) {
	ops := append([]uint32{id, uint32(decoration)}, params...)
	b.Add(Instruction{Opcode: OpDecorate, Operands: ops, Offset: -1})
}

// AddMemberDecorate decorates a struct member.
func (b *ModuleBuilder) AddMemberDecorate(structID, member uint32, decoration Decoration, params ...uint32) {
	ops := append([]uint32{structID, member, uint32(decoration)}, params...)
	b.Add(Instruction{Opcode: OpMemberDecorate, Operands: ops, Offset: -1})
}

// typed appends a type or constant instruction and returns its id.
func (b *ModuleBuilder) typed(op OpCode, resultType uint32, operands ...uint32) uint32 {
	id := b.AllocID()
	b.Add(Instruction{Opcode: op, ResultType: resultType, ResultID: id, Operands: operands, Offset: -1})
	return id
}

// AddTypeVoid declares the void type.
func (b *ModuleBuilder) AddTypeVoid() uint32 {
	return b.typed(OpTypeVoid, 0)
}

// AddTypeBool declares the boolean type.
func (b *ModuleBuilder) AddTypeBool() uint32 {
	return b.typed(OpTypeBool, 0)
}

// AddTypeFloat declares a float type of the given bit width.
func (b *ModuleBuilder) AddTypeFloat(width uint32) uint32 {
	return b.typed(OpTypeFloat, 0, width)
}

// AddTypeInt declares an integer type of the given bit width.
func (b *ModuleBuilder) AddTypeInt(width uint32, signed bool) uint32 {
	signedness := uint32(0)
	if signed {
		signedness = 1
	}
	return b.typed(OpTypeInt, 0, width, signedness)
}

// AddTypeVector declares a vector type.
func (b *ModuleBuilder) AddTypeVector(componentType, count uint32) uint32 {
	return b.typed(OpTypeVector, 0, componentType, count)
}

// AddTypeMatrix declares a matrix type from its column vector type.
func (b *ModuleBuilder) AddTypeMatrix(columnType, columnCount uint32) uint32 {
	return b.typed(OpTypeMatrix, 0, columnType, columnCount)
}

// AddTypeArray declares a sized array type. The length is a constant
// id, not a literal.
func (b *ModuleBuilder) AddTypeArray(elementType, lengthConst uint32) uint32 {
	return b.typed(OpTypeArray, 0, elementType, lengthConst)
}

// AddTypeRuntimeArray declares a runtime sized array type.
func (b *ModuleBuilder) AddTypeRuntimeArray(elementType uint32) uint32 {
	return b.typed(OpTypeRuntimeArray, 0, elementType)
}

// AddTypePointer declares a pointer type.
func (b *ModuleBuilder) AddTypePointer(storageClass StorageClass, baseType uint32) uint32 {
	return b.typed(OpTypePointer, 0, uint32(storageClass), baseType)
}

// AddTypeFunction declares a function type.
func (b *ModuleBuilder) AddTypeFunction(returnType uint32, paramTypes ...uint32) uint32 {
	return b.typed(OpTypeFunction, 0, append([]uint32{returnType}, paramTypes...)...)
}

// AddTypeStruct declares a struct type.
func (b *ModuleBuilder) AddTypeStruct(memberTypes ...uint32) uint32 {
	return b.typed(OpTypeStruct, 0, memberTypes...)
}

// AddConstant declares a scalar constant from its raw words: one for
// widths up to 32 bits, two for 64.
func (b *ModuleBuilder) AddConstant(typeID uint32, values ...uint32) uint32 {
	return b.typed(OpConstant, typeID, values...)
}

// AddConstantTrue declares a true boolean constant.
func (b *ModuleBuilder) AddConstantTrue(typeID uint32) uint32 {
	return b.typed(OpConstantTrue, typeID)
}

// AddConstantFalse declares a false boolean constant.
func (b *ModuleBuilder) AddConstantFalse(typeID uint32) uint32 {
	return b.typed(OpConstantFalse, typeID)
}

// AddConstantFloat32 declares a 32-bit float constant.
func (b *ModuleBuilder) AddConstantFloat32(typeID uint32, value float32) uint32 {
	return b.AddConstant(typeID, math.Float32bits(value))
}

// AddConstantFloat64 declares a 64-bit float constant, low word first.
func (b *ModuleBuilder) AddConstantFloat64(typeID uint32, value float64) uint32 {
	bits := math.Float64bits(value)
	return b.AddConstant(typeID, uint32(bits), uint32(bits>>32))
}

// AddConstantComposite declares a composite constant.
func (b *ModuleBuilder) AddConstantComposite(typeID uint32, constituents ...uint32) uint32 {
	return b.typed(OpConstantComposite, typeID, constituents...)
}

// AddVariable declares a variable of the given pointer type.
func (b *ModuleBuilder) AddVariable(pointerType uint32, storageClass StorageClass) uint32 {
	return b.typed(OpVariable, pointerType, uint32(storageClass))
}

// AddVariableWithInit declares a variable with an initializer.
func (b *ModuleBuilder) AddVariableWithInit(pointerType uint32, storageClass StorageClass, initID uint32) uint32 {
	return b.typed(OpVariable, pointerType, uint32(storageClass), initID)
}

// AddFunction opens a function and returns its id.
func (b *ModuleBuilder) AddFunction(funcType, returnType uint32, control FunctionControl) uint32 {
	return b.typed(OpFunction, returnType, uint32(control), funcType)
}

// AddFunctionParameter declares a parameter of the open function.
func (b *ModuleBuilder) AddFunctionParameter(typeID uint32) uint32 {
	return b.typed(OpFunctionParameter, typeID)
}

// AddLabel starts a new block and returns its label id.
func (b *ModuleBuilder) AddLabel() uint32 {
	return b.typed(OpLabel, 0)
}

// AddReturn terminates the current block with a void return.
func (b *ModuleBuilder) AddReturn() {
	b.Add(Instruction{Opcode: OpReturn, Offset: -1})
}

// AddReturnValue terminates the current block returning a value.
func (b *ModuleBuilder) AddReturnValue(valueID uint32) {
	b.Add(Instruction{Opcode: OpReturnValue, Operands: []uint32{valueID}, Offset: -1})
}

// AddFunctionEnd closes the open function.
func (b *ModuleBuilder) AddFunctionEnd() {
	b.Add(Instruction{Opcode: OpFunctionEnd, Offset: -1})
}

// AddBinaryOp appends a two operand instruction and returns its id.
func (b *ModuleBuilder) AddBinaryOp(opcode OpCode, resultType, left, right uint32) uint32 {
	return b.typed(opcode, resultType, left, right)
}

// AddUnaryOp appends a one operand instruction and returns its id.
func (b *ModuleBuilder) AddUnaryOp(opcode OpCode, resultType, operand uint32) uint32 {
	return b.typed(opcode, resultType, operand)
}

// AddLoad loads through a pointer.
func (b *ModuleBuilder) AddLoad(resultType, pointer uint32) uint32 {
	return b.typed(OpLoad, resultType, pointer)
}

// AddStore stores through a pointer.
func (b *ModuleBuilder) AddStore(pointer, value uint32) {
	b.Add(Instruction{Opcode: OpStore, Operands: []uint32{pointer, value}, Offset: -1})
}

// AddAccessChain forms a pointer into a composite.
func (b *ModuleBuilder) AddAccessChain(resultType, base uint32, indices ...uint32) uint32 {
	return b.typed(OpAccessChain, resultType, append([]uint32{base}, indices...)...)
}

// AddCompositeConstruct builds a composite from constituents.
func (b *ModuleBuilder) AddCompositeConstruct(resultType uint32, constituents ...uint32) uint32 {
	return b.typed(OpCompositeConstruct, resultType, constituents...)
}

// AddCompositeExtract extracts a member by literal indices.
func (b *ModuleBuilder) AddCompositeExtract(resultType, composite uint32, indices ...uint32) uint32 {
	return b.typed(OpCompositeExtract, resultType, append([]uint32{composite}, indices...)...)
}

// AddSelect chooses between two values by condition.
func (b *ModuleBuilder) AddSelect(resultType, condition, accept, reject uint32) uint32 {
	return b.typed(OpSelect, resultType, condition, accept, reject)
}

// AddSelectionMerge marks the merge block of the conditional that
// follows.
func (b *ModuleBuilder) AddSelectionMerge(mergeLabel uint32, control SelectionControl) {
	b.Add(Instruction{Opcode: OpSelectionMerge, Operands: []uint32{mergeLabel, uint32(control)}, Offset: -1})
}

// AddLoopMerge marks the merge and continue blocks of the loop that
// follows.
func (b *ModuleBuilder) AddLoopMerge(mergeLabel, continueLabel uint32, control LoopControl) {
	b.Add(Instruction{Opcode: OpLoopMerge, Operands: []uint32{mergeLabel, continueLabel, uint32(control)}, Offset: -1})
}

// AddBranch terminates the current block with an unconditional branch.
func (b *ModuleBuilder) AddBranch(targetLabel uint32) {
	b.Add(Instruction{Opcode: OpBranch, Operands: []uint32{targetLabel}, Offset: -1})
}

// AddBranchConditional terminates the current block with a two way
// branch.
func (b *ModuleBuilder) AddBranchConditional(condition, trueLabel, falseLabel uint32) {
	b.Add(Instruction{Opcode: OpBranchConditional, Operands: []uint32{condition, trueLabel, falseLabel}, Offset: -1})
}

// AddKill terminates the current block discarding the fragment.
func (b *ModuleBuilder) AddKill() {
	b.Add(Instruction{Opcode: OpKill, Offset: -1})
}

// AddExtInst calls into an imported extended instruction set.
func (b *ModuleBuilder) AddExtInst(resultType, extSet, instruction uint32, operands ...uint32) uint32 {
	return b.typed(OpExtInst, resultType, append([]uint32{extSet, instruction}, operands...)...)
}

// sections returns the section slices in serialization order.
func (b *ModuleBuilder) sections() [][]Instruction {
	return [][]Instruction{
		b.capabilities,
		b.extensions,
		b.extInstImports,
		b.memoryModel,
		b.entryPoints,
		b.executionModes,
		b.debugStrings,
		b.debugNames,
		b.annotations,
		b.typesGlobals,
		b.functions,
	}
}

// Build serializes the module. The first pass sizes the output so the
// second writes without growing.
func (b *ModuleBuilder) Build() ([]byte, error) {
	total := HeaderWords
	for _, sec := range b.sections() {
		for i := range sec {
			n := sec[i].WordCount()
			if n > 0xFFFF {
				return nil, fmt.Errorf("spirv: %s instruction needs %d words, limit is 65535",
					sec[i].Opcode, n)
			}
			total += n
		}
	}

	words := make([]uint32, 0, total)
	words = append(words, MagicNumber, b.version.Word(), GeneratorID, b.Bound(), 0)
	for _, sec := range b.sections() {
		for i := range sec {
			words = sec[i].AppendWords(words)
		}
	}

	out := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out, nil
}
