// Package spirv implements the SPIR-V binary module format: decoding
// and encoding of instruction word streams, the per-opcode format,
// version, and capability registry, spec-ordered module assembly, and
// structural validation.
//
// SPIR-V is the standard intermediate language for GPU shaders,
// used by Vulkan, OpenCL, and other APIs. This package understands
// core versions 1.0 through 1.6.
package spirv

import "fmt"

// Version represents a SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

// Supported SPIR-V versions, oldest to newest.
var (
	Version1_0 = Version{1, 0}
	Version1_1 = Version{1, 1}
	Version1_2 = Version{1, 2}
	Version1_3 = Version{1, 3}
	Version1_4 = Version{1, 4}
	Version1_5 = Version{1, 5}
	Version1_6 = Version{1, 6}
)

// Newest is the newest version this package understands.
var Newest = Version1_6

// NumVersions is the number of supported versions (1.0 through 1.6).
const NumVersions = 7

// Ordinal returns the version's index in the supported range,
// 0 for 1.0 through 6 for 1.6, or -1 for an unknown version.
func (v Version) Ordinal() int {
	if v.Major != 1 || v.Minor >= NumVersions {
		return -1
	}
	return int(v.Minor)
}

// AtLeast reports whether v is the same as or newer than other.
func (v Version) AtLeast(other Version) bool {
	return v.Ordinal() >= other.Ordinal()
}

// Word returns the version encoded as a module header word:
// major in bits 16..23, minor in bits 8..15.
func (v Version) Word() uint32 {
	return uint32(v.Major)<<16 | uint32(v.Minor)<<8
}

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// VersionFromWord decodes a module header version word. The second
// result is false if the word does not name a supported version.
func VersionFromWord(word uint32) (Version, bool) {
	v := Version{Major: uint8(word >> 16), Minor: uint8(word >> 8)}
	if v.Ordinal() < 0 || v.Word() != word {
		return Version{}, false
	}
	return v, true
}

// VersionFromOrdinal returns the version with the given ordinal.
// Ordinals outside 0..NumVersions-1 return the newest version.
func VersionFromOrdinal(ordinal int) Version {
	if ordinal < 0 || ordinal >= NumVersions {
		return Newest
	}
	return Version{Major: 1, Minor: uint8(ordinal)}
}

// Module-level binary constants.
const (
	// MagicNumber identifies a SPIR-V module in host byte order.
	MagicNumber = 0x07230203
	// MagicNumberSwapped is the magic number read with the opposite
	// byte order; it identifies a valid module that needs swapping.
	MagicNumberSwapped = 0x03022307

	// GeneratorID is the generator word written into module headers.
	GeneratorID = 0x00000000 // unregistered generator

	// HeaderWords is the fixed module header length in words.
	HeaderWords = 5

	// MaxIDBound caps the id bound a module header may declare.
	MaxIDBound = 4 << 20
)

// Header is the five-word module preamble.
type Header struct {
	Magic     uint32
	Version   Version
	Generator uint32
	Bound     uint32
	Schema    uint32
}

// StorageClass classifies where a pointer's pointee lives.
type StorageClass uint32

const (
	StorageClassUniformConstant StorageClass = 0
	StorageClassInput           StorageClass = 1
	StorageClassUniform         StorageClass = 2
	StorageClassOutput          StorageClass = 3
	StorageClassWorkgroup       StorageClass = 4
	StorageClassCrossWorkgroup  StorageClass = 5
	StorageClassPrivate         StorageClass = 6
	StorageClassFunction        StorageClass = 7
	StorageClassGeneric         StorageClass = 8
	StorageClassPushConstant    StorageClass = 9
	StorageClassAtomicCounter   StorageClass = 10
	StorageClassImage           StorageClass = 11
	StorageClassStorageBuffer   StorageClass = 12
)

// ExecutionModel identifies a pipeline stage.
type ExecutionModel uint32

const (
	ExecutionModelVertex                 ExecutionModel = 0
	ExecutionModelTessellationControl    ExecutionModel = 1
	ExecutionModelTessellationEvaluation ExecutionModel = 2
	ExecutionModelGeometry               ExecutionModel = 3
	ExecutionModelFragment               ExecutionModel = 4
	ExecutionModelGLCompute              ExecutionModel = 5
	ExecutionModelKernel                 ExecutionModel = 6
)

// ExecutionMode refines an entry point's execution.
type ExecutionMode uint32

const (
	ExecutionModeInvocations             ExecutionMode = 0
	ExecutionModeOriginUpperLeft         ExecutionMode = 7
	ExecutionModeOriginLowerLeft         ExecutionMode = 8
	ExecutionModeEarlyFragmentTests      ExecutionMode = 9
	ExecutionModeDepthReplacing          ExecutionMode = 12
	ExecutionModeLocalSize               ExecutionMode = 17
	ExecutionModeLocalSizeHint           ExecutionMode = 18
	ExecutionModeSubgroupsPerWorkgroup   ExecutionMode = 36
	ExecutionModeSubgroupsPerWorkgroupId ExecutionMode = 37
	ExecutionModeLocalSizeId             ExecutionMode = 38
	ExecutionModeLocalSizeHintId         ExecutionMode = 39
)

// AddressingModel selects the pointer addressing scheme.
type AddressingModel uint32

const (
	AddressingModelLogical                 AddressingModel = 0
	AddressingModelPhysical32              AddressingModel = 1
	AddressingModelPhysical64              AddressingModel = 2
	AddressingModelPhysicalStorageBuffer64 AddressingModel = 5348
)

// MemoryModel selects the memory consistency model.
type MemoryModel uint32

const (
	MemoryModelSimple  MemoryModel = 0
	MemoryModelGLSL450 MemoryModel = 1
	MemoryModelOpenCL  MemoryModel = 2
	MemoryModelVulkan  MemoryModel = 3
)

// FunctionControl is the bit mask on OpFunction.
type FunctionControl uint32

const (
	FunctionControlNone       FunctionControl = 0
	FunctionControlInline     FunctionControl = 1
	FunctionControlDontInline FunctionControl = 2
	FunctionControlPure       FunctionControl = 4
	FunctionControlConst      FunctionControl = 8
)

// SelectionControl is the bit mask on OpSelectionMerge.
type SelectionControl uint32

const (
	SelectionControlNone        SelectionControl = 0
	SelectionControlFlatten     SelectionControl = 1
	SelectionControlDontFlatten SelectionControl = 2
)

// LoopControl is the bit mask on OpLoopMerge.
type LoopControl uint32

const (
	LoopControlNone       LoopControl = 0
	LoopControlUnroll     LoopControl = 1
	LoopControlDontUnroll LoopControl = 2
)

// Scope identifies an execution or memory scope operand value.
type Scope uint32

const (
	ScopeCrossDevice Scope = 0
	ScopeDevice      Scope = 1
	ScopeWorkgroup   Scope = 2
	ScopeSubgroup    Scope = 3
	ScopeInvocation  Scope = 4
)

// MemoryAccess is the bit mask opening a memory operand group on
// OpLoad, OpStore, and OpCopyMemory. Aligned is followed by a literal
// alignment word, the availability and visibility bits by scope ids.
type MemoryAccess uint32

const (
	MemoryAccessVolatile             MemoryAccess = 1
	MemoryAccessAligned              MemoryAccess = 2
	MemoryAccessNontemporal          MemoryAccess = 4
	MemoryAccessMakePointerAvailable MemoryAccess = 8
	MemoryAccessMakePointerVisible   MemoryAccess = 16
	MemoryAccessNonPrivatePointer    MemoryAccess = 32
)

// Decoration annotates an id or a struct member.
type Decoration uint32

const (
	DecorationRelaxedPrecision     Decoration = 0
	DecorationSpecId               Decoration = 1
	DecorationBlock                Decoration = 2
	DecorationBufferBlock          Decoration = 3
	DecorationRowMajor             Decoration = 4
	DecorationColMajor             Decoration = 5
	DecorationArrayStride          Decoration = 6
	DecorationMatrixStride         Decoration = 7
	DecorationGLSLShared           Decoration = 8
	DecorationGLSLPacked           Decoration = 9
	DecorationCPacked              Decoration = 10
	DecorationBuiltIn              Decoration = 11
	DecorationNoPerspective        Decoration = 13
	DecorationFlat                 Decoration = 14
	DecorationPatch                Decoration = 15
	DecorationCentroid             Decoration = 16
	DecorationSample               Decoration = 17
	DecorationInvariant            Decoration = 18
	DecorationRestrict             Decoration = 19
	DecorationAliased              Decoration = 20
	DecorationVolatile             Decoration = 21
	DecorationConstant             Decoration = 22
	DecorationCoherent             Decoration = 23
	DecorationNonWritable          Decoration = 24
	DecorationNonReadable          Decoration = 25
	DecorationUniform              Decoration = 26
	DecorationUniformId            Decoration = 27
	DecorationSaturatedConversion  Decoration = 28
	DecorationStream               Decoration = 29
	DecorationLocation             Decoration = 30
	DecorationComponent            Decoration = 31
	DecorationIndex                Decoration = 32
	DecorationBinding              Decoration = 33
	DecorationDescriptorSet        Decoration = 34
	DecorationOffset               Decoration = 35
	DecorationXfbBuffer            Decoration = 36
	DecorationXfbStride            Decoration = 37
	DecorationFuncParamAttr        Decoration = 38
	DecorationFPRoundingMode       Decoration = 39
	DecorationFPFastMathMode       Decoration = 40
	DecorationLinkageAttributes    Decoration = 41
	DecorationNoContraction        Decoration = 42
	DecorationInputAttachmentIndex Decoration = 43
	DecorationAlignment            Decoration = 44
	DecorationMaxByteOffset        Decoration = 45
	DecorationAlignmentId          Decoration = 46
	DecorationMaxByteOffsetId      Decoration = 47
)

// BuiltIn identifies a pipeline-provided value.
type BuiltIn uint32

const (
	BuiltInPosition                  BuiltIn = 0
	BuiltInPointSize                 BuiltIn = 1
	BuiltInClipDistance              BuiltIn = 3
	BuiltInCullDistance              BuiltIn = 4
	BuiltInVertexId                  BuiltIn = 5
	BuiltInInstanceId                BuiltIn = 6
	BuiltInPrimitiveId               BuiltIn = 7
	BuiltInInvocationId              BuiltIn = 8
	BuiltInLayer                     BuiltIn = 9
	BuiltInViewportIndex             BuiltIn = 10
	BuiltInTessLevelOuter            BuiltIn = 11
	BuiltInTessLevelInner            BuiltIn = 12
	BuiltInTessCoord                 BuiltIn = 13
	BuiltInPatchVertices             BuiltIn = 14
	BuiltInFragCoord                 BuiltIn = 15
	BuiltInPointCoord                BuiltIn = 16
	BuiltInFrontFacing               BuiltIn = 17
	BuiltInSampleId                  BuiltIn = 18
	BuiltInSamplePosition            BuiltIn = 19
	BuiltInSampleMask                BuiltIn = 20
	BuiltInFragDepth                 BuiltIn = 22
	BuiltInHelperInvocation          BuiltIn = 23
	BuiltInNumWorkgroups             BuiltIn = 24
	BuiltInWorkgroupSize             BuiltIn = 25
	BuiltInWorkgroupId               BuiltIn = 26
	BuiltInLocalInvocationId         BuiltIn = 27
	BuiltInGlobalInvocationId        BuiltIn = 28
	BuiltInLocalInvocationIndex      BuiltIn = 29
	BuiltInSubgroupSize              BuiltIn = 36
	BuiltInSubgroupMaxSize           BuiltIn = 37
	BuiltInNumSubgroups              BuiltIn = 38
	BuiltInSubgroupId                BuiltIn = 40
	BuiltInSubgroupLocalInvocationId BuiltIn = 41
	BuiltInVertexIndex               BuiltIn = 42
	BuiltInInstanceIndex             BuiltIn = 43
)
