// Package translate lowers SPIR-V modules to older target versions.
//
// A Translator re-encodes a module instruction by instruction, driven
// by a per-version strategy table: instructions native to the target
// are copied directly, newer instructions are emulated with equivalent
// sequences, rewritten onto extension opcodes, or dropped when they
// carry no functional meaning. Modules already at or below the target
// version take a fast path that rewrites only the header version word.
package translate

import "github.com/gogpu/spv/spirv"

// Strategy classifies how one opcode reaches one target version.
type Strategy uint8

const (
	// Direct copies the instruction verbatim.
	Direct Strategy = iota
	// Drop omits the instruction; it carries no functional meaning at
	// the target.
	Drop
	// Emulate replaces the instruction with an equivalent sequence of
	// opcodes legal at the target.
	Emulate
	// RequireExtension rewrites the instruction onto an extension
	// opcode and obliges the module to declare that extension.
	RequireExtension
	// Unsupported means no translation path exists; the instruction is
	// dropped and reported.
	Unsupported
)

var strategyNames = [...]string{
	Direct:           "direct",
	Drop:             "drop",
	Emulate:          "emulate",
	RequireExtension: "require extension",
	Unsupported:      "unsupported",
}

// String returns the strategy's name.
func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return "unknown"
}

// strategyTables holds one full per-opcode table per version. Built
// once in init, never mutated: the oldest version's table classifies
// every opcode introduced after it, and each newer version inherits
// the previous table with the opcodes introduced at that version
// overridden to Direct. The inheritance makes the monotonic law hold
// by construction: once Direct, an opcode stays Direct at every newer
// version.
var strategyTables [spirv.NumVersions][spirv.FormatTableSize]Strategy

func init() {
	oldest := &strategyTables[0]
	for op := 0; op < spirv.FormatTableSize; op++ {
		code := spirv.OpCode(op)
		switch {
		case !spirv.Known(code):
			oldest[op] = Unsupported
		case spirv.MinimumVersion(code) == spirv.Version1_0:
			oldest[op] = Direct
		default:
			oldest[op] = fallbackFor(code)
		}
	}

	for ordinal := 1; ordinal < spirv.NumVersions; ordinal++ {
		strategyTables[ordinal] = strategyTables[ordinal-1]
		for _, op := range spirv.OpcodesIntroducedAt(ordinal) {
			if int(op) < spirv.FormatTableSize {
				strategyTables[ordinal][op] = Direct
			}
		}
	}
}

// fallbackFor classifies an opcode for targets older than the version
// that introduced it.
func fallbackFor(op spirv.OpCode) Strategy {
	switch op {
	case spirv.OpModuleProcessed:
		// Pure build metadata; nothing consumes it downstream.
		return Drop

	case spirv.OpExecutionModeId, spirv.OpDecorateId:
		// Id operands resolve to literals through the constant
		// registry, yielding the pre-1.2 literal forms.
		return Emulate

	case spirv.OpCopyLogical,
		spirv.OpPtrEqual, spirv.OpPtrNotEqual, spirv.OpPtrDiff:
		return Emulate

	case spirv.OpTerminateInvocation:
		// Substituted by OpKill. The semantics differ in what happens
		// to already-written outputs; the approximation is deliberate.
		return Emulate

	case spirv.OpGroupNonUniformAll, spirv.OpGroupNonUniformAny,
		spirv.OpGroupNonUniformAllEqual,
		spirv.OpGroupNonUniformBroadcast,
		spirv.OpGroupNonUniformBroadcastFirst,
		spirv.OpGroupNonUniformBallot:
		// The KHR subgroup extensions carry equivalents.
		return RequireExtension

	case spirv.OpGroupNonUniformElect,
		spirv.OpGroupNonUniformInverseBallot,
		spirv.OpGroupNonUniformBallotBitExtract,
		spirv.OpGroupNonUniformBallotBitCount,
		spirv.OpGroupNonUniformBallotFindLSB,
		spirv.OpGroupNonUniformBallotFindMSB,
		spirv.OpGroupNonUniformShuffle, spirv.OpGroupNonUniformShuffleXor,
		spirv.OpGroupNonUniformShuffleUp, spirv.OpGroupNonUniformShuffleDown,
		spirv.OpGroupNonUniformIAdd, spirv.OpGroupNonUniformFAdd,
		spirv.OpGroupNonUniformIMul, spirv.OpGroupNonUniformFMul,
		spirv.OpGroupNonUniformSMin, spirv.OpGroupNonUniformUMin,
		spirv.OpGroupNonUniformFMin, spirv.OpGroupNonUniformSMax,
		spirv.OpGroupNonUniformUMax, spirv.OpGroupNonUniformFMax,
		spirv.OpGroupNonUniformBitwiseAnd, spirv.OpGroupNonUniformBitwiseOr,
		spirv.OpGroupNonUniformBitwiseXor, spirv.OpGroupNonUniformLogicalAnd,
		spirv.OpGroupNonUniformLogicalOr, spirv.OpGroupNonUniformLogicalXor,
		spirv.OpGroupNonUniformQuadBroadcast, spirv.OpGroupNonUniformQuadSwap:
		// No extension equivalent; the emitter passes these through
		// unchanged and the report flags them for validation.
		return Emulate

	case spirv.OpDemoteToHelperInvocation,
		spirv.OpSDot, spirv.OpUDot, spirv.OpSUDot,
		spirv.OpSDotAccSat, spirv.OpUDotAccSat, spirv.OpSUDotAccSat:
		// Same opcode, valid below its promotion version once the
		// module declares the originating extension.
		return RequireExtension

	default:
		// OpSizeOf, pipe storage, and named barriers have no shader
		// profile equivalent below their introduction.
		return Unsupported
	}
}

// StrategyFor returns the translation strategy for the opcode at the
// target version. Unknown targets report everything Unsupported.
func StrategyFor(target spirv.Version, op spirv.OpCode) Strategy {
	ordinal := target.Ordinal()
	if ordinal < 0 || int(op) >= spirv.FormatTableSize {
		return Unsupported
	}
	return strategyTables[ordinal][op]
}
