package spirv

import "fmt"

// OpCode represents a SPIR-V opcode.
type OpCode uint16

// Core opcodes, in numeric order.
const (
	OpNop                    OpCode = 0
	OpUndef                  OpCode = 1
	OpSourceContinued        OpCode = 2
	OpSource                 OpCode = 3
	OpSourceExtension        OpCode = 4
	OpName                   OpCode = 5
	OpMemberName             OpCode = 6
	OpString                 OpCode = 7
	OpLine                   OpCode = 8
	OpExtension              OpCode = 10
	OpExtInstImport          OpCode = 11
	OpExtInst                OpCode = 12
	OpMemoryModel            OpCode = 14
	OpEntryPoint             OpCode = 15
	OpExecutionMode          OpCode = 16
	OpCapability             OpCode = 17
	OpTypeVoid               OpCode = 19
	OpTypeBool               OpCode = 20
	OpTypeInt                OpCode = 21
	OpTypeFloat              OpCode = 22
	OpTypeVector             OpCode = 23
	OpTypeMatrix             OpCode = 24
	OpTypeImage              OpCode = 25
	OpTypeSampler            OpCode = 26
	OpTypeSampledImage       OpCode = 27
	OpTypeArray              OpCode = 28
	OpTypeRuntimeArray       OpCode = 29
	OpTypeStruct             OpCode = 30
	OpTypeOpaque             OpCode = 31
	OpTypePointer            OpCode = 32
	OpTypeFunction           OpCode = 33
	OpTypeEvent              OpCode = 34
	OpTypeDeviceEvent        OpCode = 35
	OpTypeReserveId          OpCode = 36
	OpTypeQueue              OpCode = 37
	OpTypePipe               OpCode = 38
	OpTypeForwardPointer     OpCode = 39
	OpConstantTrue           OpCode = 41
	OpConstantFalse          OpCode = 42
	OpConstant               OpCode = 43
	OpConstantComposite      OpCode = 44
	OpConstantSampler        OpCode = 45
	OpConstantNull           OpCode = 46
	OpSpecConstantTrue       OpCode = 48
	OpSpecConstantFalse      OpCode = 49
	OpSpecConstant           OpCode = 50
	OpSpecConstantComposite  OpCode = 51
	OpSpecConstantOp         OpCode = 52
	OpFunction               OpCode = 54
	OpFunctionParameter      OpCode = 55
	OpFunctionEnd            OpCode = 56
	OpFunctionCall           OpCode = 57
	OpVariable               OpCode = 59
	OpImageTexelPointer      OpCode = 60
	OpLoad                   OpCode = 61
	OpStore                  OpCode = 62
	OpCopyMemory             OpCode = 63
	OpCopyMemorySized        OpCode = 64
	OpAccessChain            OpCode = 65
	OpInBoundsAccessChain    OpCode = 66
	OpPtrAccessChain         OpCode = 67
	OpArrayLength            OpCode = 68
	OpGenericPtrMemSemantics OpCode = 69
	OpInBoundsPtrAccessChain OpCode = 70
	OpDecorate               OpCode = 71
	OpMemberDecorate         OpCode = 72
	OpDecorationGroup        OpCode = 73
	OpGroupDecorate          OpCode = 74
	OpGroupMemberDecorate    OpCode = 75
	OpVectorExtractDynamic   OpCode = 77
	OpVectorInsertDynamic    OpCode = 78
	OpVectorShuffle          OpCode = 79
	OpCompositeConstruct     OpCode = 80
	OpCompositeExtract       OpCode = 81
	OpCompositeInsert        OpCode = 82
	OpCopyObject             OpCode = 83
	OpTranspose              OpCode = 84
	OpSampledImage           OpCode = 86

	OpImageSampleImplicitLod         OpCode = 87
	OpImageSampleExplicitLod         OpCode = 88
	OpImageSampleDrefImplicitLod     OpCode = 89
	OpImageSampleDrefExplicitLod     OpCode = 90
	OpImageSampleProjImplicitLod     OpCode = 91
	OpImageSampleProjExplicitLod     OpCode = 92
	OpImageSampleProjDrefImplicitLod OpCode = 93
	OpImageSampleProjDrefExplicitLod OpCode = 94
	OpImageFetch                     OpCode = 95
	OpImageGather                    OpCode = 96
	OpImageDrefGather                OpCode = 97
	OpImageRead                      OpCode = 98
	OpImageWrite                     OpCode = 99
	OpImage                          OpCode = 100
	OpImageQuerySizeLod              OpCode = 103
	OpImageQuerySize                 OpCode = 104
	OpImageQueryLod                  OpCode = 105
	OpImageQueryLevels               OpCode = 106
	OpImageQuerySamples              OpCode = 107

	OpConvertFToU   OpCode = 109
	OpConvertFToS   OpCode = 110
	OpConvertSToF   OpCode = 111
	OpConvertUToF   OpCode = 112
	OpUConvert      OpCode = 113
	OpSConvert      OpCode = 114
	OpFConvert      OpCode = 115
	OpQuantizeToF16 OpCode = 116
	OpConvertPtrToU OpCode = 117
	OpConvertUToPtr OpCode = 120
	OpBitcast       OpCode = 124

	OpSNegate           OpCode = 126
	OpFNegate           OpCode = 127
	OpIAdd              OpCode = 128
	OpFAdd              OpCode = 129
	OpISub              OpCode = 130
	OpFSub              OpCode = 131
	OpIMul              OpCode = 132
	OpFMul              OpCode = 133
	OpUDiv              OpCode = 134
	OpSDiv              OpCode = 135
	OpFDiv              OpCode = 136
	OpUMod              OpCode = 137
	OpSRem              OpCode = 138
	OpSMod              OpCode = 139
	OpFRem              OpCode = 140
	OpFMod              OpCode = 141
	OpVectorTimesScalar OpCode = 142
	OpMatrixTimesScalar OpCode = 143
	OpVectorTimesMatrix OpCode = 144
	OpMatrixTimesVector OpCode = 145
	OpMatrixTimesMatrix OpCode = 146
	OpOuterProduct      OpCode = 147
	OpDot               OpCode = 148
	OpIAddCarry         OpCode = 149
	OpISubBorrow        OpCode = 150
	OpUMulExtended      OpCode = 151
	OpSMulExtended      OpCode = 152

	OpAny                    OpCode = 154
	OpAll                    OpCode = 155
	OpIsNan                  OpCode = 156
	OpIsInf                  OpCode = 157
	OpLogicalEqual           OpCode = 164
	OpLogicalNotEqual        OpCode = 165
	OpLogicalOr              OpCode = 166
	OpLogicalAnd             OpCode = 167
	OpLogicalNot             OpCode = 168
	OpSelect                 OpCode = 169
	OpIEqual                 OpCode = 170
	OpINotEqual              OpCode = 171
	OpUGreaterThan           OpCode = 172
	OpSGreaterThan           OpCode = 173
	OpUGreaterThanEqual      OpCode = 174
	OpSGreaterThanEqual      OpCode = 175
	OpULessThan              OpCode = 176
	OpSLessThan              OpCode = 177
	OpULessThanEqual         OpCode = 178
	OpSLessThanEqual         OpCode = 179
	OpFOrdEqual              OpCode = 180
	OpFUnordEqual            OpCode = 181
	OpFOrdNotEqual           OpCode = 182
	OpFUnordNotEqual         OpCode = 183
	OpFOrdLessThan           OpCode = 184
	OpFUnordLessThan         OpCode = 185
	OpFOrdGreaterThan        OpCode = 186
	OpFUnordGreaterThan      OpCode = 187
	OpFOrdLessThanEqual      OpCode = 188
	OpFUnordLessThanEqual    OpCode = 189
	OpFOrdGreaterThanEqual   OpCode = 190
	OpFUnordGreaterThanEqual OpCode = 191

	OpShiftRightLogical    OpCode = 194
	OpShiftRightArithmetic OpCode = 195
	OpShiftLeftLogical     OpCode = 196
	OpBitwiseOr            OpCode = 197
	OpBitwiseXor           OpCode = 198
	OpBitwiseAnd           OpCode = 199
	OpNot                  OpCode = 200
	OpBitFieldInsert       OpCode = 201
	OpBitFieldSExtract     OpCode = 202
	OpBitFieldUExtract     OpCode = 203
	OpBitReverse           OpCode = 204
	OpBitCount             OpCode = 205

	OpDPdx         OpCode = 207
	OpDPdy         OpCode = 208
	OpFwidth       OpCode = 209
	OpDPdxFine     OpCode = 210
	OpDPdyFine     OpCode = 211
	OpFwidthFine   OpCode = 212
	OpDPdxCoarse   OpCode = 213
	OpDPdyCoarse   OpCode = 214
	OpFwidthCoarse OpCode = 215

	OpEmitVertex         OpCode = 218
	OpEndPrimitive       OpCode = 219
	OpEmitStreamVertex   OpCode = 220
	OpEndStreamPrimitive OpCode = 221
	OpControlBarrier     OpCode = 224
	OpMemoryBarrier      OpCode = 225

	OpAtomicLoad                OpCode = 227
	OpAtomicStore               OpCode = 228
	OpAtomicExchange            OpCode = 229
	OpAtomicCompareExchange     OpCode = 230
	OpAtomicCompareExchangeWeak OpCode = 231
	OpAtomicIIncrement          OpCode = 232
	OpAtomicIDecrement          OpCode = 233
	OpAtomicIAdd                OpCode = 234
	OpAtomicISub                OpCode = 235
	OpAtomicSMin                OpCode = 236
	OpAtomicUMin                OpCode = 237
	OpAtomicSMax                OpCode = 238
	OpAtomicUMax                OpCode = 239
	OpAtomicAnd                 OpCode = 240
	OpAtomicOr                  OpCode = 241
	OpAtomicXor                 OpCode = 242

	OpPhi               OpCode = 245
	OpLoopMerge         OpCode = 246
	OpSelectionMerge    OpCode = 247
	OpLabel             OpCode = 248
	OpBranch            OpCode = 249
	OpBranchConditional OpCode = 250
	OpSwitch            OpCode = 251
	OpKill              OpCode = 252
	OpReturn            OpCode = 253
	OpReturnValue       OpCode = 254
	OpUnreachable       OpCode = 255

	OpGroupAll       OpCode = 261
	OpGroupAny       OpCode = 262
	OpGroupBroadcast OpCode = 263
	OpGroupIAdd      OpCode = 264
	OpGroupFAdd      OpCode = 265

	OpNoLine OpCode = 317
)

// Opcodes introduced in SPIR-V 1.1.
const (
	OpSizeOf                    OpCode = 321
	OpTypePipeStorage           OpCode = 322
	OpConstantPipeStorage       OpCode = 323
	OpCreatePipeFromPipeStorage OpCode = 324
	OpTypeNamedBarrier          OpCode = 327
	OpNamedBarrierInitialize    OpCode = 328
	OpMemoryNamedBarrier        OpCode = 329
	OpModuleProcessed           OpCode = 330
)

// Opcodes introduced in SPIR-V 1.2.
const (
	OpExecutionModeId OpCode = 331
	OpDecorateId      OpCode = 332
)

// Group non-uniform opcodes, introduced in SPIR-V 1.3.
const (
	OpGroupNonUniformElect            OpCode = 333
	OpGroupNonUniformAll              OpCode = 334
	OpGroupNonUniformAny              OpCode = 335
	OpGroupNonUniformAllEqual         OpCode = 336
	OpGroupNonUniformBroadcast        OpCode = 337
	OpGroupNonUniformBroadcastFirst   OpCode = 338
	OpGroupNonUniformBallot           OpCode = 339
	OpGroupNonUniformInverseBallot    OpCode = 340
	OpGroupNonUniformBallotBitExtract OpCode = 341
	OpGroupNonUniformBallotBitCount   OpCode = 342
	OpGroupNonUniformBallotFindLSB    OpCode = 343
	OpGroupNonUniformBallotFindMSB    OpCode = 344
	OpGroupNonUniformShuffle          OpCode = 345
	OpGroupNonUniformShuffleXor       OpCode = 346
	OpGroupNonUniformShuffleUp        OpCode = 347
	OpGroupNonUniformShuffleDown      OpCode = 348
	OpGroupNonUniformIAdd             OpCode = 349
	OpGroupNonUniformFAdd             OpCode = 350
	OpGroupNonUniformIMul             OpCode = 351
	OpGroupNonUniformFMul             OpCode = 352
	OpGroupNonUniformSMin             OpCode = 353
	OpGroupNonUniformUMin             OpCode = 354
	OpGroupNonUniformFMin             OpCode = 355
	OpGroupNonUniformSMax             OpCode = 356
	OpGroupNonUniformUMax             OpCode = 357
	OpGroupNonUniformFMax             OpCode = 358
	OpGroupNonUniformBitwiseAnd       OpCode = 359
	OpGroupNonUniformBitwiseOr        OpCode = 360
	OpGroupNonUniformBitwiseXor       OpCode = 361
	OpGroupNonUniformLogicalAnd       OpCode = 362
	OpGroupNonUniformLogicalOr        OpCode = 363
	OpGroupNonUniformLogicalXor       OpCode = 364
	OpGroupNonUniformQuadBroadcast    OpCode = 365
	OpGroupNonUniformQuadSwap         OpCode = 366
)

// Opcodes introduced in SPIR-V 1.4.
const (
	OpCopyLogical OpCode = 400
	OpPtrEqual    OpCode = 401
	OpPtrNotEqual OpCode = 402
	OpPtrDiff     OpCode = 403
)

// Extension opcodes and opcodes promoted to core in SPIR-V 1.6.
const (
	OpTerminateInvocation        OpCode = 4416
	OpSubgroupBallotKHR          OpCode = 4421
	OpSubgroupFirstInvocationKHR OpCode = 4422
	OpSubgroupAllKHR             OpCode = 4428
	OpSubgroupAnyKHR             OpCode = 4429
	OpSubgroupAllEqualKHR        OpCode = 4430
	OpSubgroupReadInvocationKHR  OpCode = 4432
	OpSDot                       OpCode = 4450
	OpUDot                       OpCode = 4451
	OpSUDot                      OpCode = 4452
	OpSDotAccSat                 OpCode = 4453
	OpUDotAccSat                 OpCode = 4454
	OpSUDotAccSat                OpCode = 4455
	OpDemoteToHelperInvocation   OpCode = 5380
)

// Name returns the canonical "OpXxx" name, or "Op(n)" for opcodes
// the registry does not know.
func (op OpCode) Name() string {
	if info := lookup(op); info != nil {
		return info.name
	}
	return fmt.Sprintf("Op(%d)", uint16(op))
}

// String implements fmt.Stringer.
func (op OpCode) String() string { return op.Name() }

// GLSL.std.450 extended instruction numbers, used with OpExtInst.
const (
	GLSLstd450Round       = 1
	GLSLstd450RoundEven   = 2
	GLSLstd450Trunc       = 3
	GLSLstd450FAbs        = 4
	GLSLstd450SAbs        = 5
	GLSLstd450FSign       = 6
	GLSLstd450SSign       = 7
	GLSLstd450Floor       = 8
	GLSLstd450Ceil        = 9
	GLSLstd450Fract       = 10
	GLSLstd450Radians     = 11
	GLSLstd450Degrees     = 12
	GLSLstd450Sin         = 13
	GLSLstd450Cos         = 14
	GLSLstd450Tan         = 15
	GLSLstd450Asin        = 16
	GLSLstd450Acos        = 17
	GLSLstd450Atan        = 18
	GLSLstd450Sinh        = 19
	GLSLstd450Cosh        = 20
	GLSLstd450Tanh        = 21
	GLSLstd450Atan2       = 25
	GLSLstd450Pow         = 26
	GLSLstd450Exp         = 27
	GLSLstd450Log         = 28
	GLSLstd450Exp2        = 29
	GLSLstd450Log2        = 30
	GLSLstd450Sqrt        = 31
	GLSLstd450InverseSqrt = 32
	GLSLstd450FMin        = 37
	GLSLstd450UMin        = 38
	GLSLstd450SMin        = 39
	GLSLstd450FMax        = 40
	GLSLstd450UMax        = 41
	GLSLstd450SMax        = 42
	GLSLstd450FClamp      = 43
	GLSLstd450UClamp      = 44
	GLSLstd450SClamp      = 45
	GLSLstd450FMix        = 46
	GLSLstd450Step        = 48
	GLSLstd450SmoothStep  = 49
	GLSLstd450Fma         = 50
	GLSLstd450Length      = 66
	GLSLstd450Cross       = 68
	GLSLstd450Normalize   = 69
)

// GLSLstd450 is the import name of the GLSL.std.450 instruction set.
const GLSLstd450 = "GLSL.std.450"
