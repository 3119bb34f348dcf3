package spirv

// opMinVersion holds each known opcode's minimum core version as an
// ordinal. Unregistered entries read as 0 (1.0); whether an opcode is
// known at all is the format table's business.
var opMinVersion [FormatTableSize]uint8

// introducedIn lists the opcodes that first appear at each version.
// Everything else known to the registry is core since 1.0. Extension
// opcodes promoted to core keep the version that promoted them; before
// that they require their extension, which the capability table and
// the version bridge express.
var introducedIn = [NumVersions][]OpCode{
	1: {
		OpSizeOf, OpTypePipeStorage, OpConstantPipeStorage,
		OpCreatePipeFromPipeStorage, OpTypeNamedBarrier,
		OpNamedBarrierInitialize, OpMemoryNamedBarrier,
		OpModuleProcessed,
	},
	2: {
		OpExecutionModeId, OpDecorateId,
	},
	3: {
		OpGroupNonUniformElect, OpGroupNonUniformAll,
		OpGroupNonUniformAny, OpGroupNonUniformAllEqual,
		OpGroupNonUniformBroadcast, OpGroupNonUniformBroadcastFirst,
		OpGroupNonUniformBallot, OpGroupNonUniformInverseBallot,
		OpGroupNonUniformBallotBitExtract, OpGroupNonUniformBallotBitCount,
		OpGroupNonUniformBallotFindLSB, OpGroupNonUniformBallotFindMSB,
		OpGroupNonUniformShuffle, OpGroupNonUniformShuffleXor,
		OpGroupNonUniformShuffleUp, OpGroupNonUniformShuffleDown,
		OpGroupNonUniformIAdd, OpGroupNonUniformFAdd,
		OpGroupNonUniformIMul, OpGroupNonUniformFMul,
		OpGroupNonUniformSMin, OpGroupNonUniformUMin,
		OpGroupNonUniformFMin, OpGroupNonUniformSMax,
		OpGroupNonUniformUMax, OpGroupNonUniformFMax,
		OpGroupNonUniformBitwiseAnd, OpGroupNonUniformBitwiseOr,
		OpGroupNonUniformBitwiseXor, OpGroupNonUniformLogicalAnd,
		OpGroupNonUniformLogicalOr, OpGroupNonUniformLogicalXor,
		OpGroupNonUniformQuadBroadcast, OpGroupNonUniformQuadSwap,
	},
	4: {
		OpCopyLogical, OpPtrEqual, OpPtrNotEqual, OpPtrDiff,
	},
	6: {
		OpTerminateInvocation, OpDemoteToHelperInvocation,
		OpSDot, OpUDot, OpSUDot,
		OpSDotAccSat, OpUDotAccSat, OpSUDotAccSat,
	},
}

func init() {
	for ordinal, ops := range introducedIn {
		for _, op := range ops {
			if int(op) < FormatTableSize {
				opMinVersion[op] = uint8(ordinal)
			}
		}
	}
}

// OpcodesIntroducedAt returns the opcodes that first became core at
// the version with the given ordinal. The returned slice is shared;
// callers must not modify it.
func OpcodesIntroducedAt(ordinal int) []OpCode {
	if ordinal < 0 || ordinal >= NumVersions {
		return nil
	}
	return introducedIn[ordinal]
}

// MinimumVersion returns the oldest core version defining the opcode.
// Unknown opcodes report the newest version so callers treat them as
// unsupported everywhere.
func MinimumVersion(op OpCode) Version {
	if !Known(op) {
		return Newest
	}
	return VersionFromOrdinal(int(opMinVersion[op]))
}

// IsOpcodeSupported reports whether the opcode is core at the given
// version. Unknown opcodes and unknown versions are unsupported.
func IsOpcodeSupported(op OpCode, v Version) bool {
	ord := v.Ordinal()
	if ord < 0 || !Known(op) {
		return false
	}
	return ord >= int(opMinVersion[op])
}
