package translate

import (
	"errors"

	"github.com/gogpu/spv/spirv"
	"github.com/gogpu/spv/types"
)

// ErrUnresolvedConstant reports an id-to-literal rewrite whose id
// operand does not name a known non-specialization constant.
var ErrUnresolvedConstant = errors.New("translate: operand does not resolve to a compile-time constant")

// ErrNoEquivalent reports an instruction with no equivalent sequence
// at the target. The caller copies it through unchanged and flags the
// module as needing downstream validation.
var ErrNoEquivalent = errors.New("translate: no equivalent instruction sequence at target version")

// Emitter synthesizes replacement instruction sequences for opcodes
// absent at a translation target. It reads type and constant metadata
// collected from the source module and allocates fresh result ids from
// the output builder.
type Emitter struct {
	types  *types.Registry
	consts *types.ConstantRegistry
	out    *spirv.ModuleBuilder

	u64 uint32 // lazily created 64-bit uint type for pointer casts
}

// NewEmitter returns an emitter backed by the source module's type and
// constant registries, emitting into out.
func NewEmitter(reg *types.Registry, consts *types.ConstantRegistry, out *spirv.ModuleBuilder) *Emitter {
	return &Emitter{types: reg, consts: consts, out: out}
}

// Emulate builds the replacement sequence for an instruction the
// strategy table classified Emulate. The returned instructions take
// the original's place in the stream; supporting type and capability
// declarations go straight into the builder and land in their own
// sections. A nil sequence with ErrNoEquivalent means the instruction
// should pass through unchanged; ErrUnresolvedConstant means the
// rewrite failed and the original should be kept verbatim.
func (e *Emitter) Emulate(in *spirv.Instruction) ([]spirv.Instruction, error) {
	switch in.Opcode {
	case spirv.OpCopyLogical:
		return e.emulateCopyLogical(in)
	case spirv.OpPtrEqual:
		return e.emulatePointerOp(in, spirv.OpIEqual)
	case spirv.OpPtrNotEqual:
		return e.emulatePointerOp(in, spirv.OpINotEqual)
	case spirv.OpPtrDiff:
		return e.emulatePointerOp(in, spirv.OpISub)
	case spirv.OpTerminateInvocation:
		// OpKill additionally terminates the quad; outputs already
		// written may be discarded. Accepted approximation.
		return []spirv.Instruction{{Opcode: spirv.OpKill, Offset: -1}}, nil
	case spirv.OpExecutionModeId:
		return e.emulateExecutionModeID(in)
	case spirv.OpDecorateId:
		return e.emulateDecorateID(in)
	default:
		return nil, ErrNoEquivalent
	}
}

// emulateCopyLogical lowers a logical copy between structurally
// compatible types. Scalars and vectors become a plain object copy;
// structs and sized arrays are decomposed member by member so the
// result takes the destination type even when the source type id
// differs.
func (e *Emitter) emulateCopyLogical(in *spirv.Instruction) ([]spirv.Instruction, error) {
	if len(in.Operands) < 1 {
		return nil, ErrNoEquivalent
	}
	src := in.Operands[0]
	node, ok := e.types.Lookup(in.ResultType)
	if ok {
		switch node.Kind {
		case types.KindStruct:
			seq := make([]spirv.Instruction, 0, len(node.Members)+1)
			construct := make([]uint32, 0, len(node.Members))
			for i, member := range node.Members {
				id := e.out.AllocID()
				seq = append(seq, spirv.Instruction{
					Opcode:     spirv.OpCompositeExtract,
					ResultType: member,
					ResultID:   id,
					Operands:   []uint32{src, uint32(i)},
					Offset:     -1,
				})
				construct = append(construct, id)
			}
			seq = append(seq, spirv.Instruction{
				Opcode:     spirv.OpCompositeConstruct,
				ResultType: in.ResultType,
				ResultID:   in.ResultID,
				Operands:   construct,
				Offset:     -1,
			})
			return seq, nil

		case types.KindArray:
			if node.Count == 0 {
				// Runtime arrays cannot be decomposed.
				return nil, ErrNoEquivalent
			}
			seq := make([]spirv.Instruction, 0, node.Count+1)
			construct := make([]uint32, 0, node.Count)
			for i := uint32(0); i < node.Count; i++ {
				id := e.out.AllocID()
				seq = append(seq, spirv.Instruction{
					Opcode:     spirv.OpCompositeExtract,
					ResultType: node.Component,
					ResultID:   id,
					Operands:   []uint32{src, i},
					Offset:     -1,
				})
				construct = append(construct, id)
			}
			seq = append(seq, spirv.Instruction{
				Opcode:     spirv.OpCompositeConstruct,
				ResultType: in.ResultType,
				ResultID:   in.ResultID,
				Operands:   construct,
				Offset:     -1,
			})
			return seq, nil
		}
	}
	return []spirv.Instruction{{
		Opcode:     spirv.OpCopyObject,
		ResultType: in.ResultType,
		ResultID:   in.ResultID,
		Operands:   []uint32{src},
		Offset:     -1,
	}}, nil
}

// emulatePointerOp lowers a pointer comparison or difference by
// casting both pointers to 64-bit integers and applying the integer
// form.
func (e *Emitter) emulatePointerOp(in *spirv.Instruction, op spirv.OpCode) ([]spirv.Instruction, error) {
	if len(in.Operands) < 2 {
		return nil, ErrNoEquivalent
	}
	u64 := e.uintPointerType()
	// The pointer casts need Addresses even when the u64 type already
	// existed in the source.
	e.out.AddCapability(spirv.CapabilityAddresses)
	a := e.out.AllocID()
	b := e.out.AllocID()
	return []spirv.Instruction{
		{Opcode: spirv.OpConvertPtrToU, ResultType: u64, ResultID: a, Operands: []uint32{in.Operands[0]}, Offset: -1},
		{Opcode: spirv.OpConvertPtrToU, ResultType: u64, ResultID: b, Operands: []uint32{in.Operands[1]}, Offset: -1},
		{Opcode: op, ResultType: in.ResultType, ResultID: in.ResultID, Operands: []uint32{a, b}, Offset: -1},
	}, nil
}

// uintPointerType returns a 64-bit unsigned integer type id, reusing
// one declared by the source module or declaring it on first use.
func (e *Emitter) uintPointerType() uint32 {
	if e.u64 != 0 {
		return e.u64
	}
	if id, ok := e.types.FindInt(64, false); ok {
		e.u64 = id
		return id
	}
	id := e.out.AllocID()
	e.out.AddCapability(spirv.CapabilityInt64)
	e.out.Add(spirv.Instruction{
		Opcode:   spirv.OpTypeInt,
		ResultID: id,
		Operands: []uint32{64, 0},
		Offset:   -1,
	})
	e.types.Put(types.Node{ID: id, Kind: types.KindInt, Width: 64})
	e.u64 = id
	return id
}

// idExecutionModes maps id-operand execution modes to their literal
// forms.
var idExecutionModes = map[spirv.ExecutionMode]spirv.ExecutionMode{
	spirv.ExecutionModeLocalSizeId:             spirv.ExecutionModeLocalSize,
	spirv.ExecutionModeLocalSizeHintId:         spirv.ExecutionModeLocalSizeHint,
	spirv.ExecutionModeSubgroupsPerWorkgroupId: spirv.ExecutionModeSubgroupsPerWorkgroup,
}

// idDecorations maps id-operand decorations to their literal forms.
var idDecorations = map[spirv.Decoration]spirv.Decoration{
	spirv.DecorationUniformId:       spirv.DecorationUniform,
	spirv.DecorationAlignmentId:     spirv.DecorationAlignment,
	spirv.DecorationMaxByteOffsetId: spirv.DecorationMaxByteOffset,
}

// emulateExecutionModeID rewrites OpExecutionModeId to OpExecutionMode
// with every id operand resolved to its constant's literal value.
func (e *Emitter) emulateExecutionModeID(in *spirv.Instruction) ([]spirv.Instruction, error) {
	if len(in.Operands) < 2 {
		return nil, ErrNoEquivalent
	}
	operands := make([]uint32, len(in.Operands))
	operands[0] = in.Operands[0] // entry point stays an id
	mode := spirv.ExecutionMode(in.Operands[1])
	if literal, ok := idExecutionModes[mode]; ok {
		mode = literal
	}
	operands[1] = uint32(mode)
	for i, id := range in.Operands[2:] {
		value, ok := e.consts.Literal(id)
		if !ok {
			return nil, ErrUnresolvedConstant
		}
		operands[2+i] = value
	}
	return []spirv.Instruction{{
		Opcode:   spirv.OpExecutionMode,
		Operands: operands,
		Offset:   -1,
	}}, nil
}

// emulateDecorateID rewrites OpDecorateId to OpDecorate with every id
// operand resolved to its constant's literal value.
func (e *Emitter) emulateDecorateID(in *spirv.Instruction) ([]spirv.Instruction, error) {
	if len(in.Operands) < 2 {
		return nil, ErrNoEquivalent
	}
	operands := make([]uint32, len(in.Operands))
	operands[0] = in.Operands[0] // decoration target stays an id
	decoration := spirv.Decoration(in.Operands[1])
	if literal, ok := idDecorations[decoration]; ok {
		decoration = literal
	}
	operands[1] = uint32(decoration)
	for i, id := range in.Operands[2:] {
		value, ok := e.consts.Literal(id)
		if !ok {
			return nil, ErrUnresolvedConstant
		}
		operands[2+i] = value
	}
	return []spirv.Instruction{{
		Opcode:   spirv.OpDecorate,
		Operands: operands,
		Offset:   -1,
	}}, nil
}

// Substitution is an instruction rewritten onto an extension opcode,
// together with the extension and capability the output module must
// declare.
type Substitution struct {
	Instruction spirv.Instruction
	Extension   string
	Capability  spirv.Capability
}

// extensionRewrite describes how one opcode maps onto its extension
// form.
type extensionRewrite struct {
	op        spirv.OpCode
	extension string
	cap       spirv.Capability
	dropScope bool // extension form has no leading scope operand
}

var extensionRewrites = map[spirv.OpCode]extensionRewrite{
	spirv.OpGroupNonUniformAll:      {spirv.OpSubgroupAllKHR, spirv.ExtSubgroupVote, spirv.CapabilitySubgroupVoteKHR, true},
	spirv.OpGroupNonUniformAny:      {spirv.OpSubgroupAnyKHR, spirv.ExtSubgroupVote, spirv.CapabilitySubgroupVoteKHR, true},
	spirv.OpGroupNonUniformAllEqual: {spirv.OpSubgroupAllEqualKHR, spirv.ExtSubgroupVote, spirv.CapabilitySubgroupVoteKHR, true},

	spirv.OpGroupNonUniformBroadcast:      {spirv.OpSubgroupReadInvocationKHR, spirv.ExtShaderBallot, spirv.CapabilitySubgroupBallotKHR, true},
	spirv.OpGroupNonUniformBroadcastFirst: {spirv.OpSubgroupFirstInvocationKHR, spirv.ExtShaderBallot, spirv.CapabilitySubgroupBallotKHR, true},
	spirv.OpGroupNonUniformBallot:         {spirv.OpSubgroupBallotKHR, spirv.ExtShaderBallot, spirv.CapabilitySubgroupBallotKHR, true},

	spirv.OpDemoteToHelperInvocation: {spirv.OpDemoteToHelperInvocation, spirv.ExtDemoteToHelper, spirv.CapabilityDemoteToHelperInvocation, false},

	spirv.OpSDot:        {spirv.OpSDot, spirv.ExtIntegerDotProduct, spirv.CapabilityDotProduct, false},
	spirv.OpUDot:        {spirv.OpUDot, spirv.ExtIntegerDotProduct, spirv.CapabilityDotProduct, false},
	spirv.OpSUDot:       {spirv.OpSUDot, spirv.ExtIntegerDotProduct, spirv.CapabilityDotProduct, false},
	spirv.OpSDotAccSat:  {spirv.OpSDotAccSat, spirv.ExtIntegerDotProduct, spirv.CapabilityDotProduct, false},
	spirv.OpUDotAccSat:  {spirv.OpUDotAccSat, spirv.ExtIntegerDotProduct, spirv.CapabilityDotProduct, false},
	spirv.OpSUDotAccSat: {spirv.OpSUDotAccSat, spirv.ExtIntegerDotProduct, spirv.CapabilityDotProduct, false},
}

// Substitute rewrites an instruction the strategy table classified
// RequireExtension onto its extension opcode. Group operations drop
// the leading subgroup scope operand; same-opcode rewrites keep their
// operands and only oblige the extension declaration.
func (e *Emitter) Substitute(in *spirv.Instruction) (Substitution, bool) {
	rewrite, ok := extensionRewrites[in.Opcode]
	if !ok {
		return Substitution{}, false
	}
	operands := in.Operands
	if rewrite.dropScope {
		if len(operands) < 1 {
			return Substitution{}, false
		}
		operands = operands[1:]
	}
	out := spirv.Instruction{
		Opcode:     rewrite.op,
		ResultType: in.ResultType,
		ResultID:   in.ResultID,
		Operands:   append([]uint32(nil), operands...),
		Offset:     -1,
	}
	return Substitution{Instruction: out, Extension: rewrite.extension, Capability: rewrite.cap}, true
}
