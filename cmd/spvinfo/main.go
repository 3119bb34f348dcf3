// Command spvinfo prints the shader interface of a SPIR-V module:
// entry points, stage inputs and outputs, and resource bindings with
// their computed buffer sizes.
package main

import (
	"fmt"
	"os"

	"github.com/gogpu/spv"
	"github.com/gogpu/spv/spirv"
)

var executionModels = map[spirv.ExecutionModel]string{
	spirv.ExecutionModelVertex:    "Vertex",
	spirv.ExecutionModelFragment:  "Fragment",
	spirv.ExecutionModelGLCompute: "GLCompute",
}

func modelName(m spirv.ExecutionModel) string {
	if s, ok := executionModels[m]; ok {
		return s
	}
	return fmt.Sprintf("%d", m)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: spvinfo <file.spv>")
		return
	}
	module, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	header, _, err := spirv.Parse(module)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ref, err := spv.Reflect(module)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== %s ===\n", os.Args[1])
	fmt.Printf("Version: %s\n", header.Version)
	fmt.Printf("Bound: %d\n", header.Bound)
	fmt.Println()

	fmt.Printf("EntryPoints: %d\n", len(ref.EntryPoints))
	for i, ep := range ref.EntryPoints {
		fmt.Printf("  EntryPoint[%d]: name=%s, model=%s", i, ep.Name, modelName(ep.Model))
		if ep.LocalSize != [3]uint32{} {
			fmt.Printf(", localSize=%dx%dx%d", ep.LocalSize[0], ep.LocalSize[1], ep.LocalSize[2])
		}
		fmt.Println()
	}

	fmt.Printf("Inputs: %d\n", len(ref.Inputs))
	for i, v := range ref.Inputs {
		fmt.Printf("  Input[%d]: name=%s, location=%d\n", i, v.Name, v.Location)
	}

	fmt.Printf("Outputs: %d\n", len(ref.Outputs))
	for i, v := range ref.Outputs {
		fmt.Printf("  Output[%d]: name=%s, location=%d\n", i, v.Name, v.Location)
	}

	fmt.Printf("UniformBindings: %d\n", len(ref.UniformBindings))
	for i, b := range ref.UniformBindings {
		fmt.Printf("  Uniform[%d]: name=%s, set=%d, binding=%d, size=%d, kind=%v\n",
			i, b.Name, b.Set, b.Binding, b.Size, b.Kind)
	}

	fmt.Printf("StorageBindings: %d\n", len(ref.StorageBindings))
	for i, b := range ref.StorageBindings {
		fmt.Printf("  Storage[%d]: name=%s, set=%d, binding=%d, size=%d, kind=%v\n",
			i, b.Name, b.Set, b.Binding, b.Size, b.Kind)
	}

	fmt.Printf("PushConstants: %d\n", len(ref.PushConstants))
	for i, b := range ref.PushConstants {
		fmt.Printf("  PushConstant[%d]: name=%s, size=%d\n", i, b.Name, b.Size)
	}
}
