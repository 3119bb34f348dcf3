// Package spirv implements the SPIR-V binary module format.
//
// SPIR-V is the standard intermediate language for GPU shaders,
// used by Vulkan, OpenCL, and other APIs. This package decodes and
// encodes module binaries, describes the operand layout of every
// core opcode, and answers version queries for SPIR-V 1.0 through 1.6.
//
// # Decoding
//
// Parse decodes a whole module at once:
//
//	header, instructions, err := spirv.Parse(binary)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Decoder streams instructions one at a time without allocating a
// slice for the whole module:
//
//	var d spirv.Decoder
//	if err := d.SetInput(binary); err != nil {
//		log.Fatal(err)
//	}
//	for d.HasMore() {
//		in, err := d.Decode()
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println(in.Opcode.Name())
//	}
//
// # Building
//
// ModuleBuilder constructs modules programmatically and emits the
// sections in the order SPIR-V requires:
//
//	builder := spirv.NewModuleBuilder(spirv.Version1_3)
//	builder.AddCapability(spirv.CapabilityShader)
//	builder.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
//
//	floatType := builder.AddTypeFloat(32)
//	vec4Type := builder.AddTypeVector(floatType, 4)
//
//	binary, err := builder.Build()
//
// # Opcode Registry
//
// Every core opcode carries a format describing where its result id,
// result type, and id operands live. HasResultID, HasResultType,
// ForEachIDRef, and MinWordCount expose the format, and version
// tables answer which release introduced an opcode:
//
//	spirv.MinimumVersion(spirv.OpPtrEqual) // Version{1, 4}
//
// # Validation
//
// Validator checks structural rules: section order, id bounds,
// version agreement, and operand counts:
//
//	v := spirv.NewValidator(spirv.Version1_3)
//	findings, err := v.Validate(binary)
//
// # SPIR-V Structure
//
// SPIR-V modules consist of:
//   - Header (magic, version, generator, bound, schema)
//   - Capabilities (required features)
//   - Extensions (optional extensions)
//   - Extended instruction imports (GLSL.std.450, etc.)
//   - Memory model (addressing and memory model)
//   - Entry points (shader entry functions)
//   - Execution modes (shader configuration)
//   - Debug information (names, source info)
//   - Annotations (decorations)
//   - Types and constants
//   - Global variables
//   - Functions (code)
//
// # References
//
// SPIR-V Specification: https://registry.khronos.org/SPIR-V/specs/unified1/SPIRV.html
package spirv
