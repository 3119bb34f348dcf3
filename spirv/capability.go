package spirv

import "fmt"

// Capability represents a SPIR-V capability.
type Capability uint32

// Core capabilities.
const (
	CapabilityMatrix                  Capability = 0
	CapabilityShader                  Capability = 1
	CapabilityGeometry                Capability = 2
	CapabilityTessellation            Capability = 3
	CapabilityAddresses               Capability = 4
	CapabilityLinkage                 Capability = 5
	CapabilityKernel                  Capability = 6
	CapabilityVector16                Capability = 7
	CapabilityFloat16Buffer           Capability = 8
	CapabilityFloat16                 Capability = 9
	CapabilityFloat64                 Capability = 10
	CapabilityInt64                   Capability = 11
	CapabilityInt64Atomics            Capability = 12
	CapabilityPipes                   Capability = 17
	CapabilityGroups                  Capability = 18
	CapabilityDeviceEnqueue           Capability = 19
	CapabilityAtomicStorage           Capability = 21
	CapabilityInt16                   Capability = 22
	CapabilityTessellationPointSize   Capability = 23
	CapabilityGeometryPointSize       Capability = 24
	CapabilityImageGatherExtended     Capability = 25
	CapabilityStorageImageMultisample Capability = 27
	CapabilityClipDistance            Capability = 32
	CapabilityCullDistance            Capability = 33
	CapabilityImageCubeArray          Capability = 34
	CapabilitySampleRateShading       Capability = 35
	CapabilityInt8                    Capability = 39
	CapabilityInputAttachment         Capability = 40
	CapabilitySparseResidency         Capability = 41
	CapabilityMinLod                  Capability = 42
	CapabilitySampled1D               Capability = 43
	CapabilityImage1D                 Capability = 44
	CapabilitySampledCubeArray        Capability = 45
	CapabilitySampledBuffer           Capability = 46
	CapabilityImageBuffer             Capability = 47
	CapabilityImageMSArray            Capability = 48
	CapabilityImageQuery              Capability = 50
	CapabilityDerivativeControl       Capability = 51
	CapabilityInterpolationFunction   Capability = 52
	CapabilityTransformFeedback       Capability = 53
	CapabilityGeometryStreams         Capability = 54
	CapabilityMultiViewport           Capability = 57
	CapabilitySubgroupDispatch        Capability = 58
	CapabilityNamedBarrier            Capability = 59
	CapabilityPipeStorage             Capability = 60

	CapabilityGroupNonUniform                Capability = 61
	CapabilityGroupNonUniformVote            Capability = 62
	CapabilityGroupNonUniformArithmetic      Capability = 63
	CapabilityGroupNonUniformBallot          Capability = 64
	CapabilityGroupNonUniformShuffle         Capability = 65
	CapabilityGroupNonUniformShuffleRelative Capability = 66
	CapabilityGroupNonUniformClustered       Capability = 67
	CapabilityGroupNonUniformQuad            Capability = 68

	CapabilityShaderLayer         Capability = 69
	CapabilityShaderViewportIndex Capability = 70
	CapabilityUniformDecoration   Capability = 71
)

// Extension capabilities.
const (
	CapabilitySubgroupBallotKHR             Capability = 4423
	CapabilityDrawParameters                Capability = 4427
	CapabilitySubgroupVoteKHR               Capability = 4431
	CapabilityStorageBuffer16BitAccess      Capability = 4433
	CapabilityVariablePointersStorageBuffer Capability = 4441
	CapabilityVariablePointers              Capability = 4442
	CapabilityDemoteToHelperInvocation      Capability = 5379
	CapabilityDotProductInputAll            Capability = 6016
	CapabilityDotProductInput4x8Bit         Capability = 6017
	CapabilityDotProductInput4x8BitPacked   Capability = 6018
	CapabilityDotProduct                    Capability = 6019
)

// Extension names used by the version bridge and the validator.
const (
	ExtSubgroupVote        = "SPV_KHR_subgroup_vote"
	ExtShaderBallot        = "SPV_KHR_shader_ballot"
	ExtTerminateInvocation = "SPV_KHR_terminate_invocation"
	ExtDemoteToHelper      = "SPV_EXT_demote_to_helper_invocation"
	ExtIntegerDotProduct   = "SPV_KHR_integer_dot_product"
)

// capInfo registers one capability: its name, minimum core version
// ordinal (0 for extension capabilities valid at any version with
// their extension declared), and implicitly its CapabilitySet bit,
// which is its index in capRegistry.
type capInfo struct {
	cap  Capability
	name string
	min  uint8
}

var capRegistry = []capInfo{
	{CapabilityMatrix, "Matrix", 0},
	{CapabilityShader, "Shader", 0},
	{CapabilityGeometry, "Geometry", 0},
	{CapabilityTessellation, "Tessellation", 0},
	{CapabilityAddresses, "Addresses", 0},
	{CapabilityLinkage, "Linkage", 0},
	{CapabilityKernel, "Kernel", 0},
	{CapabilityVector16, "Vector16", 0},
	{CapabilityFloat16Buffer, "Float16Buffer", 0},
	{CapabilityFloat16, "Float16", 0},
	{CapabilityFloat64, "Float64", 0},
	{CapabilityInt64, "Int64", 0},
	{CapabilityInt64Atomics, "Int64Atomics", 0},
	{CapabilityPipes, "Pipes", 0},
	{CapabilityGroups, "Groups", 0},
	{CapabilityDeviceEnqueue, "DeviceEnqueue", 0},
	{CapabilityAtomicStorage, "AtomicStorage", 0},
	{CapabilityInt16, "Int16", 0},
	{CapabilityTessellationPointSize, "TessellationPointSize", 0},
	{CapabilityGeometryPointSize, "GeometryPointSize", 0},
	{CapabilityImageGatherExtended, "ImageGatherExtended", 0},
	{CapabilityStorageImageMultisample, "StorageImageMultisample", 0},
	{CapabilityClipDistance, "ClipDistance", 0},
	{CapabilityCullDistance, "CullDistance", 0},
	{CapabilityImageCubeArray, "ImageCubeArray", 0},
	{CapabilitySampleRateShading, "SampleRateShading", 0},
	{CapabilityInt8, "Int8", 0},
	{CapabilityInputAttachment, "InputAttachment", 0},
	{CapabilitySparseResidency, "SparseResidency", 0},
	{CapabilityMinLod, "MinLod", 0},
	{CapabilitySampled1D, "Sampled1D", 0},
	{CapabilityImage1D, "Image1D", 0},
	{CapabilitySampledCubeArray, "SampledCubeArray", 0},
	{CapabilitySampledBuffer, "SampledBuffer", 0},
	{CapabilityImageBuffer, "ImageBuffer", 0},
	{CapabilityImageMSArray, "ImageMSArray", 0},
	{CapabilityImageQuery, "ImageQuery", 0},
	{CapabilityDerivativeControl, "DerivativeControl", 0},
	{CapabilityInterpolationFunction, "InterpolationFunction", 0},
	{CapabilityTransformFeedback, "TransformFeedback", 0},
	{CapabilityGeometryStreams, "GeometryStreams", 0},
	{CapabilityMultiViewport, "MultiViewport", 0},
	{CapabilitySubgroupDispatch, "SubgroupDispatch", 1},
	{CapabilityNamedBarrier, "NamedBarrier", 1},
	{CapabilityPipeStorage, "PipeStorage", 1},
	{CapabilityGroupNonUniform, "GroupNonUniform", 3},
	{CapabilityGroupNonUniformVote, "GroupNonUniformVote", 3},
	{CapabilityGroupNonUniformArithmetic, "GroupNonUniformArithmetic", 3},
	{CapabilityGroupNonUniformBallot, "GroupNonUniformBallot", 3},
	{CapabilityGroupNonUniformShuffle, "GroupNonUniformShuffle", 3},
	{CapabilityGroupNonUniformShuffleRelative, "GroupNonUniformShuffleRelative", 3},
	{CapabilityGroupNonUniformClustered, "GroupNonUniformClustered", 3},
	{CapabilityGroupNonUniformQuad, "GroupNonUniformQuad", 3},
	{CapabilityShaderLayer, "ShaderLayer", 5},
	{CapabilityShaderViewportIndex, "ShaderViewportIndex", 5},
	{CapabilityUniformDecoration, "UniformDecoration", 6},
	{CapabilitySubgroupBallotKHR, "SubgroupBallotKHR", 0},
	{CapabilityDrawParameters, "DrawParameters", 0},
	{CapabilitySubgroupVoteKHR, "SubgroupVoteKHR", 0},
	{CapabilityStorageBuffer16BitAccess, "StorageBuffer16BitAccess", 0},
	{CapabilityVariablePointersStorageBuffer, "VariablePointersStorageBuffer", 0},
	{CapabilityVariablePointers, "VariablePointers", 0},
	{CapabilityDemoteToHelperInvocation, "DemoteToHelperInvocation", 6},
	{CapabilityDotProductInputAll, "DotProductInputAll", 6},
	{CapabilityDotProductInput4x8Bit, "DotProductInput4x8Bit", 6},
	{CapabilityDotProductInput4x8BitPacked, "DotProductInput4x8BitPacked", 6},
	{CapabilityDotProduct, "DotProduct", 6},
}

var capBitIndex map[Capability]int

func init() {
	capBitIndex = make(map[Capability]int, len(capRegistry))
	for i, info := range capRegistry {
		capBitIndex[info.cap] = i
	}
}

// String returns the capability's canonical name, or "Capability(n)"
// for values the registry does not know.
func (c Capability) String() string {
	if i, ok := capBitIndex[c]; ok {
		return capRegistry[i].name
	}
	return fmt.Sprintf("Capability(%d)", uint32(c))
}

// CapabilityMinimumVersion returns the oldest core version at which
// the capability may be declared without an extension. Unknown
// capabilities report the newest version.
func CapabilityMinimumVersion(c Capability) Version {
	if i, ok := capBitIndex[c]; ok {
		return VersionFromOrdinal(int(capRegistry[i].min))
	}
	return Newest
}

// KnownCapability reports whether the capability is registered.
func KnownCapability(c Capability) bool {
	_, ok := capBitIndex[c]
	return ok
}

// CapabilitySet is a set of capabilities. Registered capabilities map
// to dense bit positions, so extension capability values far beyond
// 128 still fit in two words.
type CapabilitySet [2]uint64

// Add inserts the capability. Unregistered capabilities are ignored;
// callers needing to preserve them must carry them separately.
func (s *CapabilitySet) Add(c Capability) {
	if i, ok := capBitIndex[c]; ok {
		s[i/64] |= 1 << (i % 64)
	}
}

// Contains reports whether the capability is in the set.
func (s CapabilitySet) Contains(c Capability) bool {
	i, ok := capBitIndex[c]
	return ok && s[i/64]&(1<<(i%64)) != 0
}

// ContainsAll reports whether every capability in other is in s.
func (s CapabilitySet) ContainsAll(other CapabilitySet) bool {
	return s[0]&other[0] == other[0] && s[1]&other[1] == other[1]
}

// Union returns the set union.
func (s CapabilitySet) Union(other CapabilitySet) CapabilitySet {
	return CapabilitySet{s[0] | other[0], s[1] | other[1]}
}

// Empty reports whether the set has no members.
func (s CapabilitySet) Empty() bool { return s[0] == 0 && s[1] == 0 }

// List returns the set's members in registration order.
func (s CapabilitySet) List() []Capability {
	if s.Empty() {
		return nil
	}
	var out []Capability
	for i, info := range capRegistry {
		if s[i/64]&(1<<(i%64)) != 0 {
			out = append(out, info.cap)
		}
	}
	return out
}

// capsOf builds a CapabilitySet from its arguments.
func capsOf(caps ...Capability) CapabilitySet {
	var s CapabilitySet
	for _, c := range caps {
		s.Add(c)
	}
	return s
}

// opRequiredCaps maps opcode to the capabilities a module must declare
// to use it. Most opcodes require none beyond what the module-wide
// execution model already implies.
var opRequiredCaps [FormatTableSize]CapabilitySet

// opExtension maps extension-gated opcodes to the extension that
// enables them below their promotion version.
var opExtension [FormatTableSize]string

func init() {
	req := func(caps CapabilitySet, ops ...OpCode) {
		for _, op := range ops {
			if int(op) < FormatTableSize {
				opRequiredCaps[op] = caps
			}
		}
	}

	req(capsOf(CapabilityMatrix), OpTypeMatrix, OpMatrixTimesScalar,
		OpVectorTimesMatrix, OpMatrixTimesVector, OpMatrixTimesMatrix,
		OpOuterProduct, OpTranspose)
	req(capsOf(CapabilityShader), OpKill)
	req(capsOf(CapabilityGeometry), OpEmitVertex, OpEndPrimitive)
	req(capsOf(CapabilityGeometryStreams), OpEmitStreamVertex, OpEndStreamPrimitive)
	req(capsOf(CapabilityDerivativeControl), OpDPdxFine, OpDPdyFine,
		OpFwidthFine, OpDPdxCoarse, OpDPdyCoarse, OpFwidthCoarse)
	req(capsOf(CapabilityImageQuery), OpImageQuerySizeLod, OpImageQuerySize,
		OpImageQueryLod, OpImageQueryLevels, OpImageQuerySamples)
	req(capsOf(CapabilityAddresses), OpConvertPtrToU, OpConvertUToPtr,
		OpPtrAccessChain, OpInBoundsPtrAccessChain, OpSizeOf)
	req(capsOf(CapabilityGroups), OpGroupAll, OpGroupAny, OpGroupBroadcast,
		OpGroupIAdd, OpGroupFAdd)
	req(capsOf(CapabilityPipeStorage), OpTypePipeStorage,
		OpConstantPipeStorage, OpCreatePipeFromPipeStorage)
	req(capsOf(CapabilityNamedBarrier), OpTypeNamedBarrier,
		OpNamedBarrierInitialize, OpMemoryNamedBarrier)

	req(capsOf(CapabilityGroupNonUniform), OpGroupNonUniformElect)
	req(capsOf(CapabilityGroupNonUniformVote), OpGroupNonUniformAll,
		OpGroupNonUniformAny, OpGroupNonUniformAllEqual)
	req(capsOf(CapabilityGroupNonUniformBallot), OpGroupNonUniformBroadcast,
		OpGroupNonUniformBroadcastFirst, OpGroupNonUniformBallot,
		OpGroupNonUniformInverseBallot, OpGroupNonUniformBallotBitExtract,
		OpGroupNonUniformBallotBitCount, OpGroupNonUniformBallotFindLSB,
		OpGroupNonUniformBallotFindMSB)
	req(capsOf(CapabilityGroupNonUniformShuffle), OpGroupNonUniformShuffle,
		OpGroupNonUniformShuffleXor)
	req(capsOf(CapabilityGroupNonUniformShuffleRelative),
		OpGroupNonUniformShuffleUp, OpGroupNonUniformShuffleDown)
	req(capsOf(CapabilityGroupNonUniformArithmetic), OpGroupNonUniformIAdd,
		OpGroupNonUniformFAdd, OpGroupNonUniformIMul, OpGroupNonUniformFMul,
		OpGroupNonUniformSMin, OpGroupNonUniformUMin, OpGroupNonUniformFMin,
		OpGroupNonUniformSMax, OpGroupNonUniformUMax, OpGroupNonUniformFMax,
		OpGroupNonUniformBitwiseAnd, OpGroupNonUniformBitwiseOr,
		OpGroupNonUniformBitwiseXor, OpGroupNonUniformLogicalAnd,
		OpGroupNonUniformLogicalOr, OpGroupNonUniformLogicalXor)
	req(capsOf(CapabilityGroupNonUniformQuad), OpGroupNonUniformQuadBroadcast,
		OpGroupNonUniformQuadSwap)

	req(capsOf(CapabilitySubgroupBallotKHR), OpSubgroupBallotKHR,
		OpSubgroupFirstInvocationKHR, OpSubgroupReadInvocationKHR)
	req(capsOf(CapabilitySubgroupVoteKHR), OpSubgroupAllKHR,
		OpSubgroupAnyKHR, OpSubgroupAllEqualKHR)
	req(capsOf(CapabilityShader), OpTerminateInvocation)
	req(capsOf(CapabilityDemoteToHelperInvocation), OpDemoteToHelperInvocation)
	req(capsOf(CapabilityDotProduct), OpSDot, OpUDot, OpSUDot,
		OpSDotAccSat, OpUDotAccSat, OpSUDotAccSat)

	ext := func(name string, ops ...OpCode) {
		for _, op := range ops {
			if int(op) < FormatTableSize {
				opExtension[op] = name
			}
		}
	}
	ext(ExtShaderBallot, OpSubgroupBallotKHR, OpSubgroupFirstInvocationKHR,
		OpSubgroupReadInvocationKHR)
	ext(ExtSubgroupVote, OpSubgroupAllKHR, OpSubgroupAnyKHR, OpSubgroupAllEqualKHR)
	ext(ExtTerminateInvocation, OpTerminateInvocation)
	ext(ExtDemoteToHelper, OpDemoteToHelperInvocation)
	ext(ExtIntegerDotProduct, OpSDot, OpUDot, OpSUDot,
		OpSDotAccSat, OpUDotAccSat, OpSUDotAccSat)
}

// RequiredCapabilities returns the capabilities a module must declare
// to use the opcode. Unknown opcodes require none.
func RequiredCapabilities(op OpCode) CapabilitySet {
	if int(op) >= FormatTableSize {
		return CapabilitySet{}
	}
	return opRequiredCaps[op]
}

// HasCapabilities reports whether enabled covers everything the
// opcode requires.
func HasCapabilities(op OpCode, enabled CapabilitySet) bool {
	return enabled.ContainsAll(RequiredCapabilities(op))
}

// ExtensionFor returns the extension that enables the opcode on
// versions older than its core promotion, or "" if the opcode is not
// extension-gated.
func ExtensionFor(op OpCode) string {
	if int(op) >= FormatTableSize {
		return ""
	}
	return opExtension[op]
}
