package spirv

import (
	"fmt"
)

// ValidationError describes one way a module violates the binary
// module rules.
type ValidationError struct {
	Message string
	// Offset is the byte offset of the offending instruction, or -1
	// for module-wide findings.
	Offset int
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("at offset %d: %s", e.Offset, e.Message)
	}
	return e.Message
}

// Section ranks in serialization order. Instructions must appear with
// non-decreasing rank; rankAny instructions are exempt.
const (
	rankCapabilities = iota
	rankExtensions
	rankExtInstImports
	rankMemoryModel
	rankEntryPoints
	rankExecutionModes
	rankDebugStrings
	rankDebugNames
	rankAnnotations
	rankTypesGlobals
	rankFunctions

	rankAny = -1
)

var sectionNames = [...]string{
	rankCapabilities:   "capability",
	rankExtensions:     "extension",
	rankExtInstImports: "extended instruction import",
	rankMemoryModel:    "memory model",
	rankEntryPoints:    "entry point",
	rankExecutionModes: "execution mode",
	rankDebugStrings:   "debug string",
	rankDebugNames:     "debug name",
	rankAnnotations:    "annotation",
	rankTypesGlobals:   "types and globals",
	rankFunctions:      "function",
}

// sectionRank classifies an instruction into its module section.
func sectionRank(in *Instruction) int {
	switch in.Opcode {
	case OpCapability:
		return rankCapabilities
	case OpExtension:
		return rankExtensions
	case OpExtInstImport:
		return rankExtInstImports
	case OpMemoryModel:
		return rankMemoryModel
	case OpEntryPoint:
		return rankEntryPoints
	case OpExecutionMode, OpExecutionModeId:
		return rankExecutionModes
	case OpString, OpSource, OpSourceContinued, OpSourceExtension:
		return rankDebugStrings
	case OpName, OpMemberName, OpModuleProcessed:
		return rankDebugNames
	case OpDecorate, OpMemberDecorate, OpDecorationGroup,
		OpGroupDecorate, OpGroupMemberDecorate, OpDecorateId:
		return rankAnnotations
	case OpVariable:
		if len(in.Operands) > 0 && StorageClass(in.Operands[0]) != StorageClassFunction {
			return rankTypesGlobals
		}
		return rankFunctions
	case OpLine, OpNoLine, OpNop, OpUndef:
		return rankAny
	}
	if IsTypeDeclaration(in.Opcode) || IsConstantDeclaration(in.Opcode) {
		return rankTypesGlobals
	}
	return rankFunctions
}

// executionModelCapability returns the capability an entry point's
// execution model depends on.
func executionModelCapability(model ExecutionModel) Capability {
	switch model {
	case ExecutionModelTessellationControl, ExecutionModelTessellationEvaluation:
		return CapabilityTessellation
	case ExecutionModelGeometry:
		return CapabilityGeometry
	case ExecutionModelKernel:
		return CapabilityKernel
	default:
		return CapabilityShader
	}
}

// Validator checks encoded modules against the structural rules of a
// single target version.
type Validator struct {
	target  Version
	errors  []ValidationError
	context validationContext
}

// validationContext holds the walk state for one Validate call.
type validationContext struct {
	caps         CapabilitySet
	extensions   map[string]bool
	seenIDs      map[uint32]bool
	bound        uint32
	memoryModels int
	maxRank      int
	inFunction   bool
	inBlock      bool
	blockSeen    bool
}

// NewValidator returns a validator for the given version.
func NewValidator(target Version) *Validator {
	return &Validator{target: target}
}

// Validate checks the encoded module and returns any findings. The
// error is non-nil only when the module cannot be decoded at all.
func (v *Validator) Validate(module []byte) ([]ValidationError, error) {
	header, insts, err := Parse(module)
	if err != nil {
		return nil, err
	}

	v.errors = nil
	v.context = validationContext{
		extensions: make(map[string]bool),
		seenIDs:    make(map[uint32]bool),
		bound:      header.Bound,
	}

	if header.Version != v.target {
		v.addError(4, fmt.Sprintf("module declares version %s, validating for %s",
			header.Version, v.target))
	}

	for i := range insts {
		v.validateInstruction(&insts[i])
	}

	if v.context.memoryModels != 1 {
		v.addError(-1, fmt.Sprintf("module has %d OpMemoryModel instructions, want exactly 1",
			v.context.memoryModels))
	}
	if v.context.inFunction {
		v.addError(-1, "module ends inside a function, missing OpFunctionEnd")
	}

	if len(v.errors) > 0 {
		return v.errors, nil
	}
	return nil, nil
}

// validateInstruction applies the per-instruction rules and advances
// the walk state.
//
//nolint:gocognit,gocyclo,cyclop // One instruction touches several rule groups.
func (v *Validator) validateInstruction(in *Instruction) {
	op := in.Opcode
	if !Known(op) {
		v.addError(in.Offset, fmt.Sprintf("unknown opcode %d", uint16(op)))
		return
	}

	// Word count against the instruction format.
	wc := in.WordCount()
	if min := MinWordCount(op); IsVariableLength(op) {
		if wc < min {
			v.addError(in.Offset, fmt.Sprintf("%s has %d words, needs at least %d", op, wc, min))
		}
	} else if wc != min {
		v.addError(in.Offset, fmt.Sprintf("%s has %d words, needs exactly %d", op, wc, min))
	}

	// Version gate, with declared extensions standing in for the
	// opcode's core promotion.
	if !IsOpcodeSupported(op, v.target) {
		if ext := ExtensionFor(op); ext == "" || !v.context.extensions[ext] {
			v.addError(in.Offset, fmt.Sprintf("%s requires version %s, module targets %s",
				op, MinimumVersion(op), v.target))
		}
	}

	// Capability gate.
	if required := RequiredCapabilities(op); !v.context.caps.ContainsAll(required) {
		for _, c := range required.List() {
			if !v.context.caps.Contains(c) {
				v.addError(in.Offset, fmt.Sprintf("%s requires capability %s", op, c))
			}
		}
	}

	// Result ids are nonzero, under the bound, and unique.
	if HasResultID(op) {
		switch id := in.ResultID; {
		case id == 0:
			v.addError(in.Offset, fmt.Sprintf("%s has a zero result id", op))
		case id >= v.context.bound:
			v.addError(in.Offset, fmt.Sprintf("%s result id %d exceeds bound %d", op, id, v.context.bound))
		case v.context.seenIDs[id]:
			v.addError(in.Offset, fmt.Sprintf("result id %d defined more than once", id))
		default:
			v.context.seenIDs[id] = true
		}
	}

	// Section order.
	rank := sectionRank(in)
	if rank != rankAny {
		if rank < v.context.maxRank {
			v.addError(in.Offset, fmt.Sprintf("%s out of order: %s section after %s section",
				op, sectionNames[rank], sectionNames[v.context.maxRank]))
		} else {
			v.context.maxRank = rank
		}
	}

	switch op {
	case OpCapability:
		if len(in.Operands) != 1 {
			return
		}
		c := Capability(in.Operands[0])
		v.context.caps.Add(c)
		if KnownCapability(c) {
			if min := CapabilityMinimumVersion(c); !v.target.AtLeast(min) {
				v.addError(in.Offset, fmt.Sprintf("capability %s requires version %s, module targets %s",
					c, min, v.target))
			}
		}

	case OpExtension:
		name, _, err := DecodeString(in.Operands)
		if err != nil {
			v.addError(in.Offset, "OpExtension name is not NUL terminated")
			return
		}
		v.context.extensions[name] = true

	case OpMemoryModel:
		v.context.memoryModels++

	case OpEntryPoint:
		if len(in.Operands) >= 2 {
			model := ExecutionModel(in.Operands[0])
			if c := executionModelCapability(model); !v.context.caps.Contains(c) {
				v.addError(in.Offset, fmt.Sprintf("entry point execution model %d requires capability %s",
					model, c))
			}
		}

	case OpFunction:
		if v.context.inFunction {
			v.addError(in.Offset, "OpFunction inside another function")
		}
		v.context.inFunction = true
		v.context.inBlock = false
		v.context.blockSeen = false

	case OpFunctionParameter:
		if !v.context.inFunction || v.context.blockSeen {
			v.addError(in.Offset, "OpFunctionParameter must directly follow OpFunction")
		}

	case OpFunctionEnd:
		switch {
		case !v.context.inFunction:
			v.addError(in.Offset, "OpFunctionEnd without OpFunction")
		case v.context.inBlock:
			v.addError(in.Offset, "function ends inside a block with no terminator")
		}
		v.context.inFunction = false
		v.context.inBlock = false

	case OpLabel:
		switch {
		case !v.context.inFunction:
			v.addError(in.Offset, "OpLabel outside a function")
		case v.context.inBlock:
			v.addError(in.Offset, "new block starts before the previous block's terminator")
		}
		v.context.inBlock = true
		v.context.blockSeen = true

	default:
		switch {
		case IsTerminator(op):
			if !v.context.inBlock {
				v.addError(in.Offset, fmt.Sprintf("terminator %s outside a block", op))
			}
			v.context.inBlock = false
		case rank == rankFunctions:
			if !v.context.inFunction {
				v.addError(in.Offset, fmt.Sprintf("%s outside a function", op))
			} else if !v.context.inBlock {
				v.addError(in.Offset, fmt.Sprintf("%s outside a block", op))
			}
		}
	}
}

func (v *Validator) addError(offset int, msg string) {
	v.errors = append(v.errors, ValidationError{Message: msg, Offset: offset})
}

// Validate checks module against the rules for target and folds any
// findings into a single error.
func Validate(module []byte, target Version) error {
	errs, err := NewValidator(target).Validate(module)
	if err != nil {
		return err
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("spirv: invalid module: %w", errs[0])
	default:
		return fmt.Errorf("spirv: invalid module: %w (and %d more findings)", errs[0], len(errs)-1)
	}
}
