package spv

import (
	"fmt"

	"github.com/gogpu/spv/spirv"
	"github.com/gogpu/spv/types"
)

// EntryPoint describes one entry point of a module.
type EntryPoint struct {
	Name  string
	Model spirv.ExecutionModel

	// LocalSize is the compute workgroup size when the entry point
	// declares one, zero otherwise.
	LocalSize [3]uint32
}

// StageVar describes one location-decorated stage input or output.
// Builtin variables are not part of the reflected interface.
type StageVar struct {
	Name     string
	Location uint32
	Type     uint32
}

// Binding describes one descriptor-backed resource. Size is the byte
// size of the bound data under the storage class's layout standard,
// zero for opaque resources like samplers and images.
type Binding struct {
	Name    string
	Kind    types.ResourceKind
	Set     uint32
	Binding uint32
	Type    uint32
	Size    uint32
}

// Reflection is the external interface of a module.
type Reflection struct {
	EntryPoints     []EntryPoint
	Inputs          []StageVar
	Outputs         []StageVar
	UniformBindings []Binding
	StorageBindings []Binding
	PushConstants   []Binding
}

// Reflect extracts the external interface of a module: entry points,
// stage inputs and outputs, and descriptor bindings. Uniform buffers
// are sized under std140 rules, storage buffers and push constants
// under std430. Opaque descriptors (samplers, images) appear among the
// uniform bindings with a zero size. Entries keep declaration order.
func Reflect(module []byte) (*Reflection, error) {
	_, insts, err := spirv.Parse(module)
	if err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}

	col := types.Collect(insts)
	uniform := col.Layout(types.Std140)
	storage := col.Layout(types.Std430)

	ref := &Reflection{}
	entries := make(map[uint32]int)
	for i := range insts {
		in := &insts[i]
		switch in.Opcode {
		case spirv.OpEntryPoint:
			if len(in.Operands) < 3 {
				continue
			}
			name, _, err := spirv.DecodeString(in.Operands[2:])
			if err != nil {
				continue
			}
			entries[in.Operands[1]] = len(ref.EntryPoints)
			ref.EntryPoints = append(ref.EntryPoints, EntryPoint{
				Name:  name,
				Model: spirv.ExecutionModel(in.Operands[0]),
			})
		case spirv.OpExecutionMode, spirv.OpExecutionModeId:
			ref.collectLocalSize(in, entries, col.Constants)
		}
	}

	for _, r := range col.Descriptors.Resources() {
		switch r.Kind {
		case types.ResourceInput:
			if r.HasLocation {
				ref.Inputs = append(ref.Inputs, stageVar(r))
			}
		case types.ResourceOutput:
			if r.HasLocation {
				ref.Outputs = append(ref.Outputs, stageVar(r))
			}
		case types.ResourceUniformBuffer:
			ref.UniformBindings = append(ref.UniformBindings, binding(r, uniform))
		case types.ResourceStorageBuffer:
			ref.StorageBindings = append(ref.StorageBindings, binding(r, storage))
		case types.ResourcePushConstant:
			ref.PushConstants = append(ref.PushConstants, binding(r, storage))
		case types.ResourceSampler, types.ResourceSampledImage, types.ResourceStorageImage:
			ref.UniformBindings = append(ref.UniformBindings, binding(r, nil))
		}
	}
	return ref, nil
}

// collectLocalSize records a workgroup size declaration. The Id form
// names constants instead of carrying literals; sizes resolve through
// the constant registry and stay zero when a component is not a
// compile-time constant.
func (ref *Reflection) collectLocalSize(in *spirv.Instruction, entries map[uint32]int, consts *types.ConstantRegistry) {
	if len(in.Operands) < 5 {
		return
	}
	mode := spirv.ExecutionMode(in.Operands[1])
	var want spirv.ExecutionMode
	if in.Opcode == spirv.OpExecutionMode {
		want = spirv.ExecutionModeLocalSize
	} else {
		want = spirv.ExecutionModeLocalSizeId
	}
	if mode != want {
		return
	}
	at, ok := entries[in.Operands[0]]
	if !ok {
		return
	}
	for c := 0; c < 3; c++ {
		word := in.Operands[2+c]
		if in.Opcode == spirv.OpExecutionModeId {
			word, _ = consts.Literal(word)
		}
		ref.EntryPoints[at].LocalSize[c] = word
	}
}

func stageVar(r *types.Resource) StageVar {
	return StageVar{Name: r.Name, Location: r.Location, Type: r.Type}
}

func binding(r *types.Resource, calc *types.Calculator) Binding {
	b := Binding{
		Name:    r.Name,
		Kind:    r.Kind,
		Set:     r.Set,
		Binding: r.Binding,
		Type:    r.Type,
	}
	if calc != nil {
		b.Size = calc.Size(r.Type)
	}
	return b
}
