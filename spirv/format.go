package spirv

// FormatFlags describe an opcode's structural shape.
type FormatFlags uint16

const (
	// FormatHasResultType marks opcodes whose first word after the
	// opcode word is a result type id.
	FormatHasResultType FormatFlags = 1 << iota
	// FormatHasResultID marks opcodes that define a result id.
	FormatHasResultID
	// FormatVariableLength marks opcodes whose word count is not
	// fixed by the opcode alone.
	FormatVariableLength
	// FormatTerminator marks opcodes that end a basic block.
	FormatTerminator
	// FormatSideEffects marks opcodes whose execution is observable
	// beyond their result id.
	FormatSideEffects
	// FormatString marks opcodes carrying an embedded string operand.
	FormatString
	// FormatMemory marks opcodes that read or write memory.
	FormatMemory
)

// FormatTableSize bounds the flat per-opcode lookup arrays. Opcodes
// at or beyond the bound are treated as unknown, never as a fault.
const FormatTableSize = 6144

// Short aliases keep the table rows readable.
const (
	fRT   = FormatHasResultType
	fRID  = FormatHasResultID
	fVar  = FormatVariableLength
	fTerm = FormatTerminator
	fSE   = FormatSideEffects
	fStr  = FormatString
	fMem  = FormatMemory
)

// idLayout describes which operand words carry ids, counting operands
// after the result type and result id words have been split off. The
// liveness walk stays conservative for interleaved layouts; the
// rewrite walk decodes suffix structure where the layout pins it and
// otherwise stops at the guaranteed prefix.
type idLayout uint8

const (
	idsAll        idLayout = iota // every operand word is an id
	idsNone                       // no operand word is an id
	idsFirst                      // operand 0 only
	idsFirstTwo                   // operands 0 and 1
	idsFirstThree                 // operands 0 through 2
	idsSecond                     // operand 1 only
	idsIDLitIDs                   // operand 0 id, operand 1 literal, rest ids
	idsLitIDs                     // operand 0 literal, rest ids
	idsEntryPoint                 // literal, id, string, interface ids
	idsSwitch                     // selector, default label, literal/label pairs
	idsMemAccess                  // id prefix, then memory operand groups
	idsImageOps                   // id prefix, mask word, then parameter ids
	idsMixed                      // id prefix, then literals and ids interleaved
)

type opInfo struct {
	op       OpCode
	name     string
	flags    FormatFlags
	minWords uint8 // total words including the leading count|opcode word
	ids      idLayout
	idPrefix uint8 // guaranteed leading id operands for idsMixed
}

// opTable is the static registry source: one row per known opcode.
// Derived lookup arrays are built once in init and never mutated.
var opTable = []opInfo{
	{OpNop, "OpNop", 0, 1, idsNone, 0},
	{OpUndef, "OpUndef", fRT | fRID, 3, idsNone, 0},
	{OpSourceContinued, "OpSourceContinued", fVar | fStr, 2, idsNone, 0},
	{OpSource, "OpSource", fVar | fStr, 3, idsMixed, 0},
	{OpSourceExtension, "OpSourceExtension", fVar | fStr, 2, idsNone, 0},
	{OpName, "OpName", fVar | fStr, 3, idsFirst, 0},
	{OpMemberName, "OpMemberName", fVar | fStr, 4, idsFirst, 0},
	{OpString, "OpString", fRID | fVar | fStr, 3, idsNone, 0},
	{OpLine, "OpLine", 0, 4, idsFirst, 0},
	{OpNoLine, "OpNoLine", 0, 1, idsNone, 0},
	{OpExtension, "OpExtension", fVar | fStr, 2, idsNone, 0},
	{OpExtInstImport, "OpExtInstImport", fRID | fVar | fStr, 3, idsNone, 0},
	{OpExtInst, "OpExtInst", fRT | fRID | fVar, 5, idsIDLitIDs, 0},
	{OpMemoryModel, "OpMemoryModel", 0, 3, idsNone, 0},
	{OpEntryPoint, "OpEntryPoint", fVar | fStr, 4, idsEntryPoint, 0},
	{OpExecutionMode, "OpExecutionMode", fVar, 3, idsFirst, 0},
	{OpCapability, "OpCapability", 0, 2, idsNone, 0},

	{OpTypeVoid, "OpTypeVoid", fRID, 2, idsNone, 0},
	{OpTypeBool, "OpTypeBool", fRID, 2, idsNone, 0},
	{OpTypeInt, "OpTypeInt", fRID, 4, idsNone, 0},
	{OpTypeFloat, "OpTypeFloat", fRID | fVar, 3, idsNone, 0},
	{OpTypeVector, "OpTypeVector", fRID, 4, idsFirst, 0},
	{OpTypeMatrix, "OpTypeMatrix", fRID, 4, idsFirst, 0},
	{OpTypeImage, "OpTypeImage", fRID | fVar, 9, idsFirst, 0},
	{OpTypeSampler, "OpTypeSampler", fRID, 2, idsNone, 0},
	{OpTypeSampledImage, "OpTypeSampledImage", fRID, 3, idsAll, 0},
	{OpTypeArray, "OpTypeArray", fRID, 4, idsAll, 0},
	{OpTypeRuntimeArray, "OpTypeRuntimeArray", fRID, 3, idsAll, 0},
	{OpTypeStruct, "OpTypeStruct", fRID | fVar, 2, idsAll, 0},
	{OpTypeOpaque, "OpTypeOpaque", fRID | fVar | fStr, 3, idsNone, 0},
	{OpTypePointer, "OpTypePointer", fRID, 4, idsSecond, 0},
	{OpTypeFunction, "OpTypeFunction", fRID | fVar, 3, idsAll, 0},
	{OpTypeEvent, "OpTypeEvent", fRID, 2, idsNone, 0},
	{OpTypeDeviceEvent, "OpTypeDeviceEvent", fRID, 2, idsNone, 0},
	{OpTypeReserveId, "OpTypeReserveId", fRID, 2, idsNone, 0},
	{OpTypeQueue, "OpTypeQueue", fRID, 2, idsNone, 0},
	{OpTypePipe, "OpTypePipe", fRID, 3, idsNone, 0},
	{OpTypeForwardPointer, "OpTypeForwardPointer", 0, 3, idsFirst, 0},

	{OpConstantTrue, "OpConstantTrue", fRT | fRID, 3, idsNone, 0},
	{OpConstantFalse, "OpConstantFalse", fRT | fRID, 3, idsNone, 0},
	{OpConstant, "OpConstant", fRT | fRID | fVar, 4, idsNone, 0},
	{OpConstantComposite, "OpConstantComposite", fRT | fRID | fVar, 3, idsAll, 0},
	{OpConstantSampler, "OpConstantSampler", fRT | fRID, 6, idsNone, 0},
	{OpConstantNull, "OpConstantNull", fRT | fRID, 3, idsNone, 0},
	{OpSpecConstantTrue, "OpSpecConstantTrue", fRT | fRID, 3, idsNone, 0},
	{OpSpecConstantFalse, "OpSpecConstantFalse", fRT | fRID, 3, idsNone, 0},
	{OpSpecConstant, "OpSpecConstant", fRT | fRID | fVar, 4, idsNone, 0},
	{OpSpecConstantComposite, "OpSpecConstantComposite", fRT | fRID | fVar, 3, idsAll, 0},
	{OpSpecConstantOp, "OpSpecConstantOp", fRT | fRID | fVar, 4, idsLitIDs, 0},

	{OpFunction, "OpFunction", fRT | fRID, 5, idsSecond, 0},
	{OpFunctionParameter, "OpFunctionParameter", fRT | fRID, 3, idsNone, 0},
	{OpFunctionEnd, "OpFunctionEnd", 0, 1, idsNone, 0},
	{OpFunctionCall, "OpFunctionCall", fRT | fRID | fVar | fSE, 4, idsAll, 0},
	{OpVariable, "OpVariable", fRT | fRID | fVar, 4, idsSecond, 0},
	{OpImageTexelPointer, "OpImageTexelPointer", fRT | fRID, 6, idsAll, 0},
	{OpLoad, "OpLoad", fRT | fRID | fVar | fMem, 4, idsMemAccess, 1},
	{OpStore, "OpStore", fVar | fSE | fMem, 3, idsMemAccess, 2},
	{OpCopyMemory, "OpCopyMemory", fVar | fSE | fMem, 3, idsMemAccess, 2},
	{OpCopyMemorySized, "OpCopyMemorySized", fVar | fSE | fMem, 4, idsMemAccess, 3},
	{OpAccessChain, "OpAccessChain", fRT | fRID | fVar, 4, idsAll, 0},
	{OpInBoundsAccessChain, "OpInBoundsAccessChain", fRT | fRID | fVar, 4, idsAll, 0},
	{OpPtrAccessChain, "OpPtrAccessChain", fRT | fRID | fVar, 5, idsAll, 0},
	{OpArrayLength, "OpArrayLength", fRT | fRID, 5, idsFirst, 0},
	{OpGenericPtrMemSemantics, "OpGenericPtrMemSemantics", fRT | fRID, 4, idsAll, 0},
	{OpInBoundsPtrAccessChain, "OpInBoundsPtrAccessChain", fRT | fRID | fVar, 5, idsAll, 0},

	{OpDecorate, "OpDecorate", fVar, 3, idsFirst, 0},
	{OpMemberDecorate, "OpMemberDecorate", fVar, 4, idsFirst, 0},
	{OpDecorationGroup, "OpDecorationGroup", fRID, 2, idsNone, 0},
	{OpGroupDecorate, "OpGroupDecorate", fVar, 2, idsAll, 0},
	{OpGroupMemberDecorate, "OpGroupMemberDecorate", fVar, 2, idsMixed, 1},

	{OpVectorExtractDynamic, "OpVectorExtractDynamic", fRT | fRID, 5, idsAll, 0},
	{OpVectorInsertDynamic, "OpVectorInsertDynamic", fRT | fRID, 6, idsAll, 0},
	{OpVectorShuffle, "OpVectorShuffle", fRT | fRID | fVar, 5, idsFirstTwo, 0},
	{OpCompositeConstruct, "OpCompositeConstruct", fRT | fRID | fVar, 3, idsAll, 0},
	{OpCompositeExtract, "OpCompositeExtract", fRT | fRID | fVar, 4, idsFirst, 0},
	{OpCompositeInsert, "OpCompositeInsert", fRT | fRID | fVar, 5, idsFirstTwo, 0},
	{OpCopyObject, "OpCopyObject", fRT | fRID, 4, idsAll, 0},
	{OpTranspose, "OpTranspose", fRT | fRID, 4, idsAll, 0},
	{OpSampledImage, "OpSampledImage", fRT | fRID, 5, idsAll, 0},

	{OpImageSampleImplicitLod, "OpImageSampleImplicitLod", fRT | fRID | fVar | fMem, 5, idsImageOps, 2},
	{OpImageSampleExplicitLod, "OpImageSampleExplicitLod", fRT | fRID | fVar | fMem, 7, idsImageOps, 2},
	{OpImageSampleDrefImplicitLod, "OpImageSampleDrefImplicitLod", fRT | fRID | fVar | fMem, 6, idsImageOps, 3},
	{OpImageSampleDrefExplicitLod, "OpImageSampleDrefExplicitLod", fRT | fRID | fVar | fMem, 8, idsImageOps, 3},
	{OpImageSampleProjImplicitLod, "OpImageSampleProjImplicitLod", fRT | fRID | fVar | fMem, 5, idsImageOps, 2},
	{OpImageSampleProjExplicitLod, "OpImageSampleProjExplicitLod", fRT | fRID | fVar | fMem, 7, idsImageOps, 2},
	{OpImageSampleProjDrefImplicitLod, "OpImageSampleProjDrefImplicitLod", fRT | fRID | fVar | fMem, 6, idsImageOps, 3},
	{OpImageSampleProjDrefExplicitLod, "OpImageSampleProjDrefExplicitLod", fRT | fRID | fVar | fMem, 8, idsImageOps, 3},
	{OpImageFetch, "OpImageFetch", fRT | fRID | fVar | fMem, 5, idsImageOps, 2},
	{OpImageGather, "OpImageGather", fRT | fRID | fVar | fMem, 6, idsImageOps, 3},
	{OpImageDrefGather, "OpImageDrefGather", fRT | fRID | fVar | fMem, 6, idsImageOps, 3},
	{OpImageRead, "OpImageRead", fRT | fRID | fVar | fMem, 5, idsImageOps, 2},
	{OpImageWrite, "OpImageWrite", fVar | fSE | fMem, 4, idsImageOps, 3},
	{OpImage, "OpImage", fRT | fRID, 4, idsAll, 0},
	{OpImageQuerySizeLod, "OpImageQuerySizeLod", fRT | fRID, 5, idsAll, 0},
	{OpImageQuerySize, "OpImageQuerySize", fRT | fRID, 4, idsAll, 0},
	{OpImageQueryLod, "OpImageQueryLod", fRT | fRID, 5, idsAll, 0},
	{OpImageQueryLevels, "OpImageQueryLevels", fRT | fRID, 4, idsAll, 0},
	{OpImageQuerySamples, "OpImageQuerySamples", fRT | fRID, 4, idsAll, 0},

	{OpConvertFToU, "OpConvertFToU", fRT | fRID, 4, idsAll, 0},
	{OpConvertFToS, "OpConvertFToS", fRT | fRID, 4, idsAll, 0},
	{OpConvertSToF, "OpConvertSToF", fRT | fRID, 4, idsAll, 0},
	{OpConvertUToF, "OpConvertUToF", fRT | fRID, 4, idsAll, 0},
	{OpUConvert, "OpUConvert", fRT | fRID, 4, idsAll, 0},
	{OpSConvert, "OpSConvert", fRT | fRID, 4, idsAll, 0},
	{OpFConvert, "OpFConvert", fRT | fRID, 4, idsAll, 0},
	{OpQuantizeToF16, "OpQuantizeToF16", fRT | fRID, 4, idsAll, 0},
	{OpConvertPtrToU, "OpConvertPtrToU", fRT | fRID, 4, idsAll, 0},
	{OpConvertUToPtr, "OpConvertUToPtr", fRT | fRID, 4, idsAll, 0},
	{OpBitcast, "OpBitcast", fRT | fRID, 4, idsAll, 0},

	{OpSNegate, "OpSNegate", fRT | fRID, 4, idsAll, 0},
	{OpFNegate, "OpFNegate", fRT | fRID, 4, idsAll, 0},
	{OpIAdd, "OpIAdd", fRT | fRID, 5, idsAll, 0},
	{OpFAdd, "OpFAdd", fRT | fRID, 5, idsAll, 0},
	{OpISub, "OpISub", fRT | fRID, 5, idsAll, 0},
	{OpFSub, "OpFSub", fRT | fRID, 5, idsAll, 0},
	{OpIMul, "OpIMul", fRT | fRID, 5, idsAll, 0},
	{OpFMul, "OpFMul", fRT | fRID, 5, idsAll, 0},
	{OpUDiv, "OpUDiv", fRT | fRID, 5, idsAll, 0},
	{OpSDiv, "OpSDiv", fRT | fRID, 5, idsAll, 0},
	{OpFDiv, "OpFDiv", fRT | fRID, 5, idsAll, 0},
	{OpUMod, "OpUMod", fRT | fRID, 5, idsAll, 0},
	{OpSRem, "OpSRem", fRT | fRID, 5, idsAll, 0},
	{OpSMod, "OpSMod", fRT | fRID, 5, idsAll, 0},
	{OpFRem, "OpFRem", fRT | fRID, 5, idsAll, 0},
	{OpFMod, "OpFMod", fRT | fRID, 5, idsAll, 0},
	{OpVectorTimesScalar, "OpVectorTimesScalar", fRT | fRID, 5, idsAll, 0},
	{OpMatrixTimesScalar, "OpMatrixTimesScalar", fRT | fRID, 5, idsAll, 0},
	{OpVectorTimesMatrix, "OpVectorTimesMatrix", fRT | fRID, 5, idsAll, 0},
	{OpMatrixTimesVector, "OpMatrixTimesVector", fRT | fRID, 5, idsAll, 0},
	{OpMatrixTimesMatrix, "OpMatrixTimesMatrix", fRT | fRID, 5, idsAll, 0},
	{OpOuterProduct, "OpOuterProduct", fRT | fRID, 5, idsAll, 0},
	{OpDot, "OpDot", fRT | fRID, 5, idsAll, 0},
	{OpIAddCarry, "OpIAddCarry", fRT | fRID, 5, idsAll, 0},
	{OpISubBorrow, "OpISubBorrow", fRT | fRID, 5, idsAll, 0},
	{OpUMulExtended, "OpUMulExtended", fRT | fRID, 5, idsAll, 0},
	{OpSMulExtended, "OpSMulExtended", fRT | fRID, 5, idsAll, 0},

	{OpAny, "OpAny", fRT | fRID, 4, idsAll, 0},
	{OpAll, "OpAll", fRT | fRID, 4, idsAll, 0},
	{OpIsNan, "OpIsNan", fRT | fRID, 4, idsAll, 0},
	{OpIsInf, "OpIsInf", fRT | fRID, 4, idsAll, 0},
	{OpLogicalEqual, "OpLogicalEqual", fRT | fRID, 5, idsAll, 0},
	{OpLogicalNotEqual, "OpLogicalNotEqual", fRT | fRID, 5, idsAll, 0},
	{OpLogicalOr, "OpLogicalOr", fRT | fRID, 5, idsAll, 0},
	{OpLogicalAnd, "OpLogicalAnd", fRT | fRID, 5, idsAll, 0},
	{OpLogicalNot, "OpLogicalNot", fRT | fRID, 4, idsAll, 0},
	{OpSelect, "OpSelect", fRT | fRID, 6, idsAll, 0},
	{OpIEqual, "OpIEqual", fRT | fRID, 5, idsAll, 0},
	{OpINotEqual, "OpINotEqual", fRT | fRID, 5, idsAll, 0},
	{OpUGreaterThan, "OpUGreaterThan", fRT | fRID, 5, idsAll, 0},
	{OpSGreaterThan, "OpSGreaterThan", fRT | fRID, 5, idsAll, 0},
	{OpUGreaterThanEqual, "OpUGreaterThanEqual", fRT | fRID, 5, idsAll, 0},
	{OpSGreaterThanEqual, "OpSGreaterThanEqual", fRT | fRID, 5, idsAll, 0},
	{OpULessThan, "OpULessThan", fRT | fRID, 5, idsAll, 0},
	{OpSLessThan, "OpSLessThan", fRT | fRID, 5, idsAll, 0},
	{OpULessThanEqual, "OpULessThanEqual", fRT | fRID, 5, idsAll, 0},
	{OpSLessThanEqual, "OpSLessThanEqual", fRT | fRID, 5, idsAll, 0},
	{OpFOrdEqual, "OpFOrdEqual", fRT | fRID, 5, idsAll, 0},
	{OpFUnordEqual, "OpFUnordEqual", fRT | fRID, 5, idsAll, 0},
	{OpFOrdNotEqual, "OpFOrdNotEqual", fRT | fRID, 5, idsAll, 0},
	{OpFUnordNotEqual, "OpFUnordNotEqual", fRT | fRID, 5, idsAll, 0},
	{OpFOrdLessThan, "OpFOrdLessThan", fRT | fRID, 5, idsAll, 0},
	{OpFUnordLessThan, "OpFUnordLessThan", fRT | fRID, 5, idsAll, 0},
	{OpFOrdGreaterThan, "OpFOrdGreaterThan", fRT | fRID, 5, idsAll, 0},
	{OpFUnordGreaterThan, "OpFUnordGreaterThan", fRT | fRID, 5, idsAll, 0},
	{OpFOrdLessThanEqual, "OpFOrdLessThanEqual", fRT | fRID, 5, idsAll, 0},
	{OpFUnordLessThanEqual, "OpFUnordLessThanEqual", fRT | fRID, 5, idsAll, 0},
	{OpFOrdGreaterThanEqual, "OpFOrdGreaterThanEqual", fRT | fRID, 5, idsAll, 0},
	{OpFUnordGreaterThanEqual, "OpFUnordGreaterThanEqual", fRT | fRID, 5, idsAll, 0},

	{OpShiftRightLogical, "OpShiftRightLogical", fRT | fRID, 5, idsAll, 0},
	{OpShiftRightArithmetic, "OpShiftRightArithmetic", fRT | fRID, 5, idsAll, 0},
	{OpShiftLeftLogical, "OpShiftLeftLogical", fRT | fRID, 5, idsAll, 0},
	{OpBitwiseOr, "OpBitwiseOr", fRT | fRID, 5, idsAll, 0},
	{OpBitwiseXor, "OpBitwiseXor", fRT | fRID, 5, idsAll, 0},
	{OpBitwiseAnd, "OpBitwiseAnd", fRT | fRID, 5, idsAll, 0},
	{OpNot, "OpNot", fRT | fRID, 4, idsAll, 0},
	{OpBitFieldInsert, "OpBitFieldInsert", fRT | fRID, 7, idsAll, 0},
	{OpBitFieldSExtract, "OpBitFieldSExtract", fRT | fRID, 6, idsAll, 0},
	{OpBitFieldUExtract, "OpBitFieldUExtract", fRT | fRID, 6, idsAll, 0},
	{OpBitReverse, "OpBitReverse", fRT | fRID, 4, idsAll, 0},
	{OpBitCount, "OpBitCount", fRT | fRID, 4, idsAll, 0},

	{OpDPdx, "OpDPdx", fRT | fRID, 4, idsAll, 0},
	{OpDPdy, "OpDPdy", fRT | fRID, 4, idsAll, 0},
	{OpFwidth, "OpFwidth", fRT | fRID, 4, idsAll, 0},
	{OpDPdxFine, "OpDPdxFine", fRT | fRID, 4, idsAll, 0},
	{OpDPdyFine, "OpDPdyFine", fRT | fRID, 4, idsAll, 0},
	{OpFwidthFine, "OpFwidthFine", fRT | fRID, 4, idsAll, 0},
	{OpDPdxCoarse, "OpDPdxCoarse", fRT | fRID, 4, idsAll, 0},
	{OpDPdyCoarse, "OpDPdyCoarse", fRT | fRID, 4, idsAll, 0},
	{OpFwidthCoarse, "OpFwidthCoarse", fRT | fRID, 4, idsAll, 0},

	{OpEmitVertex, "OpEmitVertex", fSE, 1, idsNone, 0},
	{OpEndPrimitive, "OpEndPrimitive", fSE, 1, idsNone, 0},
	{OpEmitStreamVertex, "OpEmitStreamVertex", fSE, 2, idsAll, 0},
	{OpEndStreamPrimitive, "OpEndStreamPrimitive", fSE, 2, idsAll, 0},
	{OpControlBarrier, "OpControlBarrier", fSE | fMem, 4, idsAll, 0},
	{OpMemoryBarrier, "OpMemoryBarrier", fSE | fMem, 3, idsAll, 0},

	{OpAtomicLoad, "OpAtomicLoad", fRT | fRID | fSE | fMem, 6, idsAll, 0},
	{OpAtomicStore, "OpAtomicStore", fSE | fMem, 5, idsAll, 0},
	{OpAtomicExchange, "OpAtomicExchange", fRT | fRID | fSE | fMem, 7, idsAll, 0},
	{OpAtomicCompareExchange, "OpAtomicCompareExchange", fRT | fRID | fSE | fMem, 9, idsAll, 0},
	{OpAtomicCompareExchangeWeak, "OpAtomicCompareExchangeWeak", fRT | fRID | fSE | fMem, 9, idsAll, 0},
	{OpAtomicIIncrement, "OpAtomicIIncrement", fRT | fRID | fSE | fMem, 6, idsAll, 0},
	{OpAtomicIDecrement, "OpAtomicIDecrement", fRT | fRID | fSE | fMem, 6, idsAll, 0},
	{OpAtomicIAdd, "OpAtomicIAdd", fRT | fRID | fSE | fMem, 7, idsAll, 0},
	{OpAtomicISub, "OpAtomicISub", fRT | fRID | fSE | fMem, 7, idsAll, 0},
	{OpAtomicSMin, "OpAtomicSMin", fRT | fRID | fSE | fMem, 7, idsAll, 0},
	{OpAtomicUMin, "OpAtomicUMin", fRT | fRID | fSE | fMem, 7, idsAll, 0},
	{OpAtomicSMax, "OpAtomicSMax", fRT | fRID | fSE | fMem, 7, idsAll, 0},
	{OpAtomicUMax, "OpAtomicUMax", fRT | fRID | fSE | fMem, 7, idsAll, 0},
	{OpAtomicAnd, "OpAtomicAnd", fRT | fRID | fSE | fMem, 7, idsAll, 0},
	{OpAtomicOr, "OpAtomicOr", fRT | fRID | fSE | fMem, 7, idsAll, 0},
	{OpAtomicXor, "OpAtomicXor", fRT | fRID | fSE | fMem, 7, idsAll, 0},

	{OpPhi, "OpPhi", fRT | fRID | fVar, 5, idsAll, 0},
	{OpLoopMerge, "OpLoopMerge", fVar, 4, idsFirstTwo, 0},
	{OpSelectionMerge, "OpSelectionMerge", 0, 3, idsFirst, 0},
	{OpLabel, "OpLabel", fRID, 2, idsNone, 0},
	{OpBranch, "OpBranch", fTerm, 2, idsAll, 0},
	{OpBranchConditional, "OpBranchConditional", fTerm | fVar, 4, idsFirstThree, 0},
	{OpSwitch, "OpSwitch", fTerm | fVar, 3, idsSwitch, 0},
	{OpKill, "OpKill", fTerm | fSE, 1, idsNone, 0},
	{OpReturn, "OpReturn", fTerm, 1, idsNone, 0},
	{OpReturnValue, "OpReturnValue", fTerm, 2, idsAll, 0},
	{OpUnreachable, "OpUnreachable", fTerm, 1, idsNone, 0},

	{OpGroupAll, "OpGroupAll", fRT | fRID, 5, idsAll, 0},
	{OpGroupAny, "OpGroupAny", fRT | fRID, 5, idsAll, 0},
	{OpGroupBroadcast, "OpGroupBroadcast", fRT | fRID, 6, idsAll, 0},
	{OpGroupIAdd, "OpGroupIAdd", fRT | fRID, 6, idsIDLitIDs, 0},
	{OpGroupFAdd, "OpGroupFAdd", fRT | fRID, 6, idsIDLitIDs, 0},

	{OpSizeOf, "OpSizeOf", fRT | fRID, 4, idsAll, 0},
	{OpTypePipeStorage, "OpTypePipeStorage", fRID, 2, idsNone, 0},
	{OpConstantPipeStorage, "OpConstantPipeStorage", fRT | fRID, 6, idsNone, 0},
	{OpCreatePipeFromPipeStorage, "OpCreatePipeFromPipeStorage", fRT | fRID, 4, idsAll, 0},
	{OpTypeNamedBarrier, "OpTypeNamedBarrier", fRID, 2, idsNone, 0},
	{OpNamedBarrierInitialize, "OpNamedBarrierInitialize", fRT | fRID | fSE, 4, idsAll, 0},
	{OpMemoryNamedBarrier, "OpMemoryNamedBarrier", fSE | fMem, 4, idsAll, 0},
	{OpModuleProcessed, "OpModuleProcessed", fVar | fStr, 2, idsNone, 0},

	{OpExecutionModeId, "OpExecutionModeId", fVar, 3, idsIDLitIDs, 0},
	{OpDecorateId, "OpDecorateId", fVar, 3, idsIDLitIDs, 0},

	{OpGroupNonUniformElect, "OpGroupNonUniformElect", fRT | fRID, 4, idsAll, 0},
	{OpGroupNonUniformAll, "OpGroupNonUniformAll", fRT | fRID, 5, idsAll, 0},
	{OpGroupNonUniformAny, "OpGroupNonUniformAny", fRT | fRID, 5, idsAll, 0},
	{OpGroupNonUniformAllEqual, "OpGroupNonUniformAllEqual", fRT | fRID, 5, idsAll, 0},
	{OpGroupNonUniformBroadcast, "OpGroupNonUniformBroadcast", fRT | fRID, 6, idsAll, 0},
	{OpGroupNonUniformBroadcastFirst, "OpGroupNonUniformBroadcastFirst", fRT | fRID, 5, idsAll, 0},
	{OpGroupNonUniformBallot, "OpGroupNonUniformBallot", fRT | fRID, 5, idsAll, 0},
	{OpGroupNonUniformInverseBallot, "OpGroupNonUniformInverseBallot", fRT | fRID, 5, idsAll, 0},
	{OpGroupNonUniformBallotBitExtract, "OpGroupNonUniformBallotBitExtract", fRT | fRID, 6, idsAll, 0},
	{OpGroupNonUniformBallotBitCount, "OpGroupNonUniformBallotBitCount", fRT | fRID, 6, idsIDLitIDs, 0},
	{OpGroupNonUniformBallotFindLSB, "OpGroupNonUniformBallotFindLSB", fRT | fRID, 5, idsAll, 0},
	{OpGroupNonUniformBallotFindMSB, "OpGroupNonUniformBallotFindMSB", fRT | fRID, 5, idsAll, 0},
	{OpGroupNonUniformShuffle, "OpGroupNonUniformShuffle", fRT | fRID, 6, idsAll, 0},
	{OpGroupNonUniformShuffleXor, "OpGroupNonUniformShuffleXor", fRT | fRID, 6, idsAll, 0},
	{OpGroupNonUniformShuffleUp, "OpGroupNonUniformShuffleUp", fRT | fRID, 6, idsAll, 0},
	{OpGroupNonUniformShuffleDown, "OpGroupNonUniformShuffleDown", fRT | fRID, 6, idsAll, 0},
	{OpGroupNonUniformIAdd, "OpGroupNonUniformIAdd", fRT | fRID | fVar, 6, idsIDLitIDs, 0},
	{OpGroupNonUniformFAdd, "OpGroupNonUniformFAdd", fRT | fRID | fVar, 6, idsIDLitIDs, 0},
	{OpGroupNonUniformIMul, "OpGroupNonUniformIMul", fRT | fRID | fVar, 6, idsIDLitIDs, 0},
	{OpGroupNonUniformFMul, "OpGroupNonUniformFMul", fRT | fRID | fVar, 6, idsIDLitIDs, 0},
	{OpGroupNonUniformSMin, "OpGroupNonUniformSMin", fRT | fRID | fVar, 6, idsIDLitIDs, 0},
	{OpGroupNonUniformUMin, "OpGroupNonUniformUMin", fRT | fRID | fVar, 6, idsIDLitIDs, 0},
	{OpGroupNonUniformFMin, "OpGroupNonUniformFMin", fRT | fRID | fVar, 6, idsIDLitIDs, 0},
	{OpGroupNonUniformSMax, "OpGroupNonUniformSMax", fRT | fRID | fVar, 6, idsIDLitIDs, 0},
	{OpGroupNonUniformUMax, "OpGroupNonUniformUMax", fRT | fRID | fVar, 6, idsIDLitIDs, 0},
	{OpGroupNonUniformFMax, "OpGroupNonUniformFMax", fRT | fRID | fVar, 6, idsIDLitIDs, 0},
	{OpGroupNonUniformBitwiseAnd, "OpGroupNonUniformBitwiseAnd", fRT | fRID | fVar, 6, idsIDLitIDs, 0},
	{OpGroupNonUniformBitwiseOr, "OpGroupNonUniformBitwiseOr", fRT | fRID | fVar, 6, idsIDLitIDs, 0},
	{OpGroupNonUniformBitwiseXor, "OpGroupNonUniformBitwiseXor", fRT | fRID | fVar, 6, idsIDLitIDs, 0},
	{OpGroupNonUniformLogicalAnd, "OpGroupNonUniformLogicalAnd", fRT | fRID | fVar, 6, idsIDLitIDs, 0},
	{OpGroupNonUniformLogicalOr, "OpGroupNonUniformLogicalOr", fRT | fRID | fVar, 6, idsIDLitIDs, 0},
	{OpGroupNonUniformLogicalXor, "OpGroupNonUniformLogicalXor", fRT | fRID | fVar, 6, idsIDLitIDs, 0},
	{OpGroupNonUniformQuadBroadcast, "OpGroupNonUniformQuadBroadcast", fRT | fRID, 6, idsAll, 0},
	{OpGroupNonUniformQuadSwap, "OpGroupNonUniformQuadSwap", fRT | fRID, 6, idsAll, 0},

	{OpCopyLogical, "OpCopyLogical", fRT | fRID, 4, idsAll, 0},
	{OpPtrEqual, "OpPtrEqual", fRT | fRID, 5, idsAll, 0},
	{OpPtrNotEqual, "OpPtrNotEqual", fRT | fRID, 5, idsAll, 0},
	{OpPtrDiff, "OpPtrDiff", fRT | fRID, 5, idsAll, 0},

	{OpTerminateInvocation, "OpTerminateInvocation", fTerm | fSE, 1, idsNone, 0},
	{OpSubgroupBallotKHR, "OpSubgroupBallotKHR", fRT | fRID, 4, idsAll, 0},
	{OpSubgroupFirstInvocationKHR, "OpSubgroupFirstInvocationKHR", fRT | fRID, 4, idsAll, 0},
	{OpSubgroupAllKHR, "OpSubgroupAllKHR", fRT | fRID, 4, idsAll, 0},
	{OpSubgroupAnyKHR, "OpSubgroupAnyKHR", fRT | fRID, 4, idsAll, 0},
	{OpSubgroupAllEqualKHR, "OpSubgroupAllEqualKHR", fRT | fRID, 4, idsAll, 0},
	{OpSubgroupReadInvocationKHR, "OpSubgroupReadInvocationKHR", fRT | fRID, 5, idsAll, 0},
	{OpSDot, "OpSDot", fRT | fRID | fVar, 5, idsFirstTwo, 0},
	{OpUDot, "OpUDot", fRT | fRID | fVar, 5, idsFirstTwo, 0},
	{OpSUDot, "OpSUDot", fRT | fRID | fVar, 5, idsFirstTwo, 0},
	{OpSDotAccSat, "OpSDotAccSat", fRT | fRID | fVar, 6, idsFirstThree, 0},
	{OpUDotAccSat, "OpUDotAccSat", fRT | fRID | fVar, 6, idsFirstThree, 0},
	{OpSUDotAccSat, "OpSUDotAccSat", fRT | fRID | fVar, 6, idsFirstThree, 0},
	{OpDemoteToHelperInvocation, "OpDemoteToHelperInvocation", fSE, 1, idsNone, 0},
}

var opRegistry [FormatTableSize]*opInfo

func init() {
	for i := range opTable {
		info := &opTable[i]
		if int(info.op) < FormatTableSize {
			opRegistry[info.op] = info
		}
	}
}

func lookup(op OpCode) *opInfo {
	if int(op) >= FormatTableSize {
		return nil
	}
	return opRegistry[op]
}

// Known reports whether the opcode is in the registry.
func Known(op OpCode) bool { return lookup(op) != nil }

// Format returns the opcode's structural flags, or 0 if unknown.
func Format(op OpCode) FormatFlags {
	if info := lookup(op); info != nil {
		return info.flags
	}
	return 0
}

// HasResultType reports whether the opcode carries a result type word.
func HasResultType(op OpCode) bool { return Format(op)&FormatHasResultType != 0 }

// HasResultID reports whether the opcode defines a result id.
func HasResultID(op OpCode) bool { return Format(op)&FormatHasResultID != 0 }

// IsVariableLength reports whether the opcode's word count varies.
func IsVariableLength(op OpCode) bool { return Format(op)&FormatVariableLength != 0 }

// IsTerminator reports whether the opcode ends a basic block.
func IsTerminator(op OpCode) bool { return Format(op)&FormatTerminator != 0 }

// HasSideEffects reports whether the opcode's execution is observable
// beyond its result id. Unknown opcodes conservatively report true so
// nothing ever removes them.
func HasSideEffects(op OpCode) bool {
	info := lookup(op)
	if info == nil {
		return true
	}
	return info.flags&FormatSideEffects != 0
}

// HasString reports whether the opcode carries an embedded string.
func HasString(op OpCode) bool { return Format(op)&FormatString != 0 }

// AccessesMemory reports whether the opcode reads or writes memory.
func AccessesMemory(op OpCode) bool { return Format(op)&FormatMemory != 0 }

// MinWordCount returns the smallest legal total word count for the
// opcode, including the leading count|opcode word. Fixed-length
// opcodes must match it exactly. Unknown opcodes return 1.
func MinWordCount(op OpCode) int {
	if info := lookup(op); info != nil {
		return int(info.minWords)
	}
	return 1
}

// ForEachIDRef calls fn with the index of every operand word that may
// reference an id. The enumeration is a superset for opcodes with
// interleaved literal/id operands and for unknown opcodes, so callers
// tracking liveness stay conservative.
func ForEachIDRef(op OpCode, operands []uint32, fn func(i int)) {
	info := lookup(op)
	if info == nil {
		for i := range operands {
			fn(i)
		}
		return
	}
	switch info.ids {
	case idsAll, idsMixed, idsSwitch, idsMemAccess, idsImageOps:
		for i := range operands {
			fn(i)
		}
	case idsNone:
	case idsFirst:
		if len(operands) > 0 {
			fn(0)
		}
	case idsFirstTwo:
		for i := 0; i < len(operands) && i < 2; i++ {
			fn(i)
		}
	case idsFirstThree:
		for i := 0; i < len(operands) && i < 3; i++ {
			fn(i)
		}
	case idsSecond:
		if len(operands) > 1 {
			fn(1)
		}
	case idsIDLitIDs:
		if len(operands) > 0 {
			fn(0)
		}
		for i := 2; i < len(operands); i++ {
			fn(i)
		}
	case idsLitIDs:
		for i := 1; i < len(operands); i++ {
			fn(i)
		}
	case idsEntryPoint:
		if len(operands) > 1 {
			fn(1)
		}
		if len(operands) > 2 {
			if n, ok := StringWordCount(operands[2:]); ok {
				for i := 2 + n; i < len(operands); i++ {
					fn(i)
				}
			}
		}
	}
}

// ForEachRewritableID calls fn with the index of every operand word
// that is guaranteed to be an id. Memory and image operand suffixes
// are decoded exactly, so the ids trailing their masks are visited
// along with the prefix; the remaining interleaved layouts enumerate
// only their guaranteed prefix, and unknown opcodes enumerate nothing.
// Callers rewriting operands never touch a literal.
func ForEachRewritableID(op OpCode, operands []uint32, fn func(i int)) {
	info := lookup(op)
	if info == nil {
		return
	}
	switch info.ids {
	case idsAll:
		for i := range operands {
			fn(i)
		}
	case idsNone:
	case idsFirst:
		if len(operands) > 0 {
			fn(0)
		}
	case idsFirstTwo:
		for i := 0; i < len(operands) && i < 2; i++ {
			fn(i)
		}
	case idsFirstThree:
		for i := 0; i < len(operands) && i < 3; i++ {
			fn(i)
		}
	case idsSecond:
		if len(operands) > 1 {
			fn(1)
		}
	case idsIDLitIDs:
		if len(operands) > 0 {
			fn(0)
		}
		for i := 2; i < len(operands); i++ {
			fn(i)
		}
	case idsLitIDs:
		for i := 1; i < len(operands); i++ {
			fn(i)
		}
	case idsEntryPoint:
		if len(operands) > 1 {
			fn(1)
		}
		if len(operands) > 2 {
			if n, ok := StringWordCount(operands[2:]); ok {
				for i := 2 + n; i < len(operands); i++ {
					fn(i)
				}
			}
		}
	case idsSwitch:
		// Selector only. Case labels are block ids, which value
		// rewriting never aliases; control-flow passes handle them
		// with type-aware literal widths.
		if len(operands) > 0 {
			fn(0)
		}
	case idsMemAccess:
		for i := 0; i < len(operands) && i < int(info.idPrefix); i++ {
			fn(i)
		}
		forEachMemoryOperandID(operands, int(info.idPrefix), fn)
	case idsImageOps:
		// Every image operand parameter is an id, so only the mask
		// word between the prefix and the parameters stays fixed.
		for i := 0; i < len(operands) && i < int(info.idPrefix); i++ {
			fn(i)
		}
		for i := int(info.idPrefix) + 1; i < len(operands); i++ {
			fn(i)
		}
	case idsMixed:
		for i := 0; i < len(operands) && i < int(info.idPrefix); i++ {
			fn(i)
		}
	}
}

// forEachMemoryOperandID visits the id parameters of the memory
// operand groups starting at the given operand index. Each group is a
// mask word followed by its parameters in mask bit order: Aligned
// carries a literal, the pointer availability and visibility bits
// carry scope ids. OpCopyMemory carries one group per pointer.
func forEachMemoryOperandID(operands []uint32, start int, fn func(i int)) {
	for i := start; i < len(operands); {
		mask := MemoryAccess(operands[i])
		i++
		if mask&MemoryAccessAligned != 0 {
			i++
		}
		if mask&MemoryAccessMakePointerAvailable != 0 && i < len(operands) {
			fn(i)
			i++
		}
		if mask&MemoryAccessMakePointerVisible != 0 && i < len(operands) {
			fn(i)
			i++
		}
	}
}
