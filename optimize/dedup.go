package optimize

import "github.com/gogpu/spv/spirv"

// deduplicateTypes merges structurally identical type declarations,
// re-pointing every reference at the first occurrence. Referenced
// type ids resolve through the alias map, so one forward sweep
// collapses whole chains: deduplicating two float declarations makes
// the vectors built from them identical in the same pass.
//
// OpTypeStruct never merges. Two structs with identical member lists
// can carry different member decorations (offsets, strides, block
// markers), so their identity is nominal, not structural.
func deduplicateTypes(p *Program) int {
	n := 0
	seen := make(map[string]uint32)
	for i := range p.Insts {
		if p.dead[i] {
			continue
		}
		in := &p.Insts[i]
		if !isTypeDecl(in.Opcode) || in.Opcode == spirv.OpTypeStruct {
			continue
		}
		key := identityKey(p, in)
		if first, ok := seen[key]; ok {
			p.SetAlias(in.ResultID, first)
			p.MarkDead(i)
			n++
			continue
		}
		seen[key] = in.ResultID
	}
	return n
}

// deduplicateConstants merges identical scalar and composite constant
// declarations. Specialization constants keep their own ids: each one
// is an independent knob even when defaults coincide.
func deduplicateConstants(p *Program) int {
	n := 0
	seen := make(map[string]uint32)
	for i := range p.Insts {
		if p.dead[i] {
			continue
		}
		in := &p.Insts[i]
		switch in.Opcode {
		case spirv.OpConstant, spirv.OpConstantTrue, spirv.OpConstantFalse,
			spirv.OpConstantNull, spirv.OpConstantComposite:
		default:
			continue
		}
		key := identityKey(p, in)
		if first, ok := seen[key]; ok {
			p.SetAlias(in.ResultID, first)
			p.MarkDead(i)
			n++
			continue
		}
		seen[key] = in.ResultID
	}
	return n
}

func isTypeDecl(op spirv.OpCode) bool {
	switch op {
	case spirv.OpTypeVoid, spirv.OpTypeBool, spirv.OpTypeInt, spirv.OpTypeFloat,
		spirv.OpTypeVector, spirv.OpTypeMatrix, spirv.OpTypeImage, spirv.OpTypeSampler,
		spirv.OpTypeSampledImage, spirv.OpTypeArray, spirv.OpTypeRuntimeArray,
		spirv.OpTypeStruct, spirv.OpTypePointer, spirv.OpTypeFunction:
		return true
	}
	return false
}
