// spvdis - SPIR-V disassembler
// Generates valid .spvasm text format
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gogpu/spv/spirv"
)

var storageClasses = map[uint32]string{
	0: "UniformConstant", 1: "Input", 2: "Uniform", 3: "Output",
	4: "Workgroup", 5: "CrossWorkgroup", 6: "Private", 7: "Function",
	8: "Generic", 9: "PushConstant", 10: "AtomicCounter", 11: "Image",
	12: "StorageBuffer",
}

var decorations = map[uint32]string{
	0: "RelaxedPrecision", 1: "SpecId", 2: "Block", 3: "BufferBlock",
	4: "RowMajor", 5: "ColMajor", 6: "ArrayStride", 7: "MatrixStride",
	8: "GLSLShared", 9: "GLSLPacked", 10: "CPacked", 11: "BuiltIn",
	13: "NoPerspective", 14: "Flat", 15: "Patch", 16: "Centroid",
	17: "Sample", 18: "Invariant", 19: "Restrict", 20: "Aliased",
	21: "Volatile", 22: "Constant", 23: "Coherent", 24: "NonWritable",
	25: "NonReadable", 26: "Uniform", 27: "UniformId", 28: "SaturatedConversion",
	29: "Stream", 30: "Location", 31: "Component", 32: "Index",
	33: "Binding", 34: "DescriptorSet", 35: "Offset", 36: "XfbBuffer",
	37: "XfbStride", 38: "FuncParamAttr", 39: "FPRoundingMode",
	40: "FPFastMathMode", 41: "LinkageAttributes", 42: "NoContraction",
	43: "InputAttachmentIndex", 44: "Alignment", 45: "MaxByteOffset",
	46: "AlignmentId", 47: "MaxByteOffsetId",
}

var builtins = map[uint32]string{
	0: "Position", 1: "PointSize", 2: "ClipDistance", 3: "CullDistance",
	4: "VertexId", 5: "InstanceId", 6: "PrimitiveId", 7: "InvocationId",
	8: "Layer", 9: "ViewportIndex", 10: "TessLevelOuter", 11: "TessLevelInner",
	12: "TessCoord", 13: "PatchVertices", 14: "FragCoord", 15: "PointCoord",
	16: "FrontFacing", 17: "SampleId", 18: "SamplePosition", 19: "SampleMask",
	22: "FragDepth", 23: "HelperInvocation", 24: "NumWorkgroups",
	25: "WorkgroupSize", 26: "WorkgroupId", 27: "LocalInvocationId",
	28: "GlobalInvocationId", 29: "LocalInvocationIndex",
	30: "WorkDim", 31: "GlobalSize", 32: "EnqueuedWorkgroupSize",
	33: "GlobalOffset", 34: "GlobalLinearId", 36: "SubgroupSize",
	37: "SubgroupMaxSize", 38: "NumSubgroups", 39: "NumEnqueuedSubgroups",
	40: "SubgroupId", 41: "SubgroupLocalInvocationId",
	42: "VertexIndex", 43: "InstanceIndex",
}

var executionModes = map[uint32]string{
	0: "Invocations", 1: "SpacingEqual", 2: "SpacingFractionalEven",
	3: "SpacingFractionalOdd", 4: "VertexOrderCw", 5: "VertexOrderCcw",
	6: "PixelCenterInteger", 7: "OriginUpperLeft", 8: "OriginLowerLeft",
	9: "EarlyFragmentTests", 10: "PointMode", 11: "Xfb", 12: "DepthReplacing",
	14: "DepthGreater", 15: "DepthLess", 16: "DepthUnchanged",
	17: "LocalSize", 18: "LocalSizeHint", 19: "InputPoints", 20: "InputLines",
	21: "InputLinesAdjacency", 22: "Triangles", 23: "InputTrianglesAdjacency",
	24: "Quads", 25: "Isolines", 26: "OutputVertices", 27: "OutputPoints",
	28: "OutputLineStrip", 29: "OutputTriangleStrip", 30: "VecTypeHint",
	31: "ContractionOff", 33: "Initializer", 34: "Finalizer",
	35: "SubgroupSize", 36: "SubgroupsPerWorkgroup",
	37: "SubgroupsPerWorkgroupId", 38: "LocalSizeId", 39: "LocalSizeHintId",
}

var executionModels = map[uint32]string{
	0: "Vertex", 1: "TessellationControl", 2: "TessellationEvaluation",
	3: "Geometry", 4: "Fragment", 5: "GLCompute", 6: "Kernel",
}

var addressingModels = map[uint32]string{
	0: "Logical", 1: "Physical32", 2: "Physical64", 5348: "PhysicalStorageBuffer64",
}

var memoryModels = map[uint32]string{
	0: "Simple", 1: "GLSL450", 2: "OpenCL", 3: "Vulkan",
}

var dims = map[uint32]string{
	0: "1D", 1: "2D", 2: "3D", 3: "Cube", 4: "Rect", 5: "Buffer", 6: "SubpassData",
}

// glslNames names the GLSL.std.450 instruction numbers the spirv
// package declares, for readable OpExtInst lines.
var glslNames = map[uint32]string{
	spirv.GLSLstd450Round: "Round", spirv.GLSLstd450RoundEven: "RoundEven",
	spirv.GLSLstd450Trunc: "Trunc", spirv.GLSLstd450FAbs: "FAbs",
	spirv.GLSLstd450SAbs: "SAbs", spirv.GLSLstd450FSign: "FSign",
	spirv.GLSLstd450SSign: "SSign", spirv.GLSLstd450Floor: "Floor",
	spirv.GLSLstd450Ceil: "Ceil", spirv.GLSLstd450Fract: "Fract",
	spirv.GLSLstd450Radians: "Radians", spirv.GLSLstd450Degrees: "Degrees",
	spirv.GLSLstd450Sin: "Sin", spirv.GLSLstd450Cos: "Cos",
	spirv.GLSLstd450Tan: "Tan", spirv.GLSLstd450Asin: "Asin",
	spirv.GLSLstd450Acos: "Acos", spirv.GLSLstd450Atan: "Atan",
	spirv.GLSLstd450Sinh: "Sinh", spirv.GLSLstd450Cosh: "Cosh",
	spirv.GLSLstd450Tanh: "Tanh", spirv.GLSLstd450Atan2: "Atan2",
	spirv.GLSLstd450Pow: "Pow", spirv.GLSLstd450Exp: "Exp",
	spirv.GLSLstd450Log: "Log", spirv.GLSLstd450Exp2: "Exp2",
	spirv.GLSLstd450Log2: "Log2", spirv.GLSLstd450Sqrt: "Sqrt",
	spirv.GLSLstd450InverseSqrt: "InverseSqrt", spirv.GLSLstd450FMin: "FMin",
	spirv.GLSLstd450UMin: "UMin", spirv.GLSLstd450SMin: "SMin",
	spirv.GLSLstd450FMax: "FMax", spirv.GLSLstd450UMax: "UMax",
	spirv.GLSLstd450SMax: "SMax", spirv.GLSLstd450FClamp: "FClamp",
	spirv.GLSLstd450UClamp: "UClamp", spirv.GLSLstd450SClamp: "SClamp",
	spirv.GLSLstd450FMix: "FMix", spirv.GLSLstd450Step: "Step",
	spirv.GLSLstd450SmoothStep: "SmoothStep", spirv.GLSLstd450Fma: "Fma",
	spirv.GLSLstd450Length: "Length", spirv.GLSLstd450Cross: "Cross",
	spirv.GLSLstd450Normalize: "Normalize",
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: spvdis <file.spv>")
		return
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var d spirv.Decoder
	if err := d.SetInput(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	h := d.Header()
	fmt.Printf("; SPIR-V\n")
	fmt.Printf("; Version: %s\n", h.Version)
	fmt.Printf("; Generator: 0x%08X\n", h.Generator)
	fmt.Printf("; Bound: %d\n", h.Bound)
	fmt.Printf("; Schema: %d\n", h.Schema)
	fmt.Println()

	// Import ids of GLSL.std.450, so OpExtInst lines can name the
	// extended instruction instead of printing its number.
	glslSets := make(map[uint32]bool)
	for d.HasMore() {
		in, err := d.Decode()
		if err != nil {
			fmt.Fprintf(os.Stderr, "; ERROR: %v at offset 0x%X\n", err, d.Position())
			break
		}
		if in.Opcode == spirv.OpExtInstImport {
			if name, _, err := spirv.DecodeString(in.Operands); err == nil && name == spirv.GLSLstd450 {
				glslSets[in.ResultID] = true
			}
		}
		fmt.Println(render(in, glslSets))
	}
}

func id(n uint32) string {
	return fmt.Sprintf("%%_%d", n)
}

func lookup(m map[uint32]string, v uint32) string {
	if s, ok := m[v]; ok {
		return s
	}
	return fmt.Sprintf("%d", v)
}

// controlName renders a bitmask operand, where zero means None.
func controlName(v uint32) string {
	if v == 0 {
		return "None"
	}
	return fmt.Sprintf("%d", v)
}

// render produces one assembler line. Result-bearing instructions get
// the id column, everything else is indented past it.
func render(in *spirv.Instruction, glslSets map[uint32]bool) string {
	var sb strings.Builder
	if spirv.HasResultID(in.Opcode) {
		sb.WriteString("         ")
		sb.WriteString(id(in.ResultID))
		sb.WriteString(" = ")
	} else {
		sb.WriteString("               ")
	}
	sb.WriteString(in.Opcode.Name())
	if spirv.HasResultType(in.Opcode) {
		sb.WriteString(" ")
		sb.WriteString(id(in.ResultType))
	}
	renderOperands(&sb, in, glslSets)
	return sb.String()
}

//nolint:gocognit,gocyclo,cyclop,funlen // dev tool: switch cases for SPIR-V opcodes
func renderOperands(sb *strings.Builder, in *spirv.Instruction, glslSets map[uint32]bool) {
	ops := in.Operands
	// Undersized instructions fall back to the generic renderer; the
	// special cases below index operands at fixed positions.
	if in.WordCount() < spirv.MinWordCount(in.Opcode) {
		renderGeneric(sb, in)
		return
	}
	switch in.Opcode {
	case spirv.OpCapability:
		fmt.Fprintf(sb, " %s", spirv.Capability(ops[0]))

	case spirv.OpExtension, spirv.OpSourceExtension, spirv.OpExtInstImport, spirv.OpString:
		if str, _, err := spirv.DecodeString(ops); err == nil {
			fmt.Fprintf(sb, " %q", str)
		}

	case spirv.OpMemoryModel:
		fmt.Fprintf(sb, " %s %s", lookup(addressingModels, ops[0]), lookup(memoryModels, ops[1]))

	case spirv.OpEntryPoint:
		fmt.Fprintf(sb, " %s %s", lookup(executionModels, ops[0]), id(ops[1]))
		str, strWords, err := spirv.DecodeString(ops[2:])
		if err != nil {
			return
		}
		fmt.Fprintf(sb, " %q", str)
		for _, iface := range ops[2+strWords:] {
			fmt.Fprintf(sb, " %s", id(iface))
		}

	case spirv.OpExecutionMode, spirv.OpExecutionModeId:
		fmt.Fprintf(sb, " %s %s", id(ops[0]), lookup(executionModes, ops[1]))
		for _, w := range ops[2:] {
			if in.Opcode == spirv.OpExecutionModeId {
				fmt.Fprintf(sb, " %s", id(w))
			} else {
				fmt.Fprintf(sb, " %d", w)
			}
		}

	case spirv.OpName:
		fmt.Fprintf(sb, " %s", id(ops[0]))
		if str, _, err := spirv.DecodeString(ops[1:]); err == nil {
			fmt.Fprintf(sb, " %q", str)
		}

	case spirv.OpMemberName:
		fmt.Fprintf(sb, " %s %d", id(ops[0]), ops[1])
		if str, _, err := spirv.DecodeString(ops[2:]); err == nil {
			fmt.Fprintf(sb, " %q", str)
		}

	case spirv.OpDecorate, spirv.OpDecorateId:
		fmt.Fprintf(sb, " %s %s", id(ops[0]), lookup(decorations, ops[1]))
		for _, w := range ops[2:] {
			switch {
			case in.Opcode == spirv.OpDecorateId:
				fmt.Fprintf(sb, " %s", id(w))
			case spirv.Decoration(ops[1]) == spirv.DecorationBuiltIn:
				fmt.Fprintf(sb, " %s", lookup(builtins, w))
			default:
				fmt.Fprintf(sb, " %d", w)
			}
		}

	case spirv.OpMemberDecorate:
		fmt.Fprintf(sb, " %s %d %s", id(ops[0]), ops[1], lookup(decorations, ops[2]))
		for _, w := range ops[3:] {
			if spirv.Decoration(ops[2]) == spirv.DecorationBuiltIn {
				fmt.Fprintf(sb, " %s", lookup(builtins, w))
			} else {
				fmt.Fprintf(sb, " %d", w)
			}
		}

	case spirv.OpTypePointer:
		fmt.Fprintf(sb, " %s %s", lookup(storageClasses, ops[0]), id(ops[1]))

	case spirv.OpTypeImage:
		fmt.Fprintf(sb, " %s %s %d %d %d %d", id(ops[0]), lookup(dims, ops[1]), ops[2], ops[3], ops[4], ops[5])
		if ops[6] == 0 {
			sb.WriteString(" Unknown")
		} else {
			fmt.Fprintf(sb, " %d", ops[6])
		}
		for _, w := range ops[7:] {
			fmt.Fprintf(sb, " %d", w)
		}

	case spirv.OpVariable:
		fmt.Fprintf(sb, " %s", lookup(storageClasses, ops[0]))
		for _, w := range ops[1:] {
			fmt.Fprintf(sb, " %s", id(w))
		}

	case spirv.OpFunction:
		fmt.Fprintf(sb, " %s %s", controlName(ops[0]), id(ops[1]))

	case spirv.OpSelectionMerge:
		fmt.Fprintf(sb, " %s %s", id(ops[0]), controlName(ops[1]))

	case spirv.OpLoopMerge:
		fmt.Fprintf(sb, " %s %s %s", id(ops[0]), id(ops[1]), controlName(ops[2]))

	case spirv.OpExtInst:
		fmt.Fprintf(sb, " %s", id(ops[0]))
		if glslSets[ops[0]] {
			fmt.Fprintf(sb, " %s", lookup(glslNames, ops[1]))
		} else {
			fmt.Fprintf(sb, " %d", ops[1])
		}
		for _, w := range ops[2:] {
			fmt.Fprintf(sb, " %s", id(w))
		}

	default:
		renderGeneric(sb, in)
	}
}

// renderGeneric prints operands using the registry's id layout: id
// positions as %_N references, everything else as literal words.
func renderGeneric(sb *strings.Builder, in *spirv.Instruction) {
	isID := make(map[int]bool, len(in.Operands))
	spirv.ForEachIDRef(in.Opcode, in.Operands, func(j int) { isID[j] = true })
	for j, w := range in.Operands {
		if isID[j] {
			fmt.Fprintf(sb, " %s", id(w))
		} else {
			fmt.Fprintf(sb, " %d", w)
		}
	}
}
