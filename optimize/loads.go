package optimize

import "github.com/gogpu/spv/spirv"

// eliminateLoads replaces loads whose pointer holds a known value: a
// store records the stored value per pointer id, a first load records
// its own result, and later loads of the same pointer in the same
// generation resolve to the recorded value. Function calls, barriers,
// and every other side-effecting instruction advance the generation
// and so invalidate every entry; so does each new block, since a
// label may be reached along edges the cache never saw.
func eliminateLoads(p *Program) int {
	type entry struct {
		value uint32
		gen   uint64
	}
	n := 0
	var gen uint64
	inFunc := false
	cache := make(map[uint32]entry)
	for i := range p.Insts {
		if p.dead[i] {
			continue
		}
		in := &p.Insts[i]
		switch in.Opcode {
		case spirv.OpFunction:
			inFunc = true
			gen++
		case spirv.OpFunctionEnd:
			inFunc = false
		case spirv.OpLabel:
			gen++
		case spirv.OpStore:
			if !inFunc || len(in.Operands) < 2 {
				continue
			}
			ptr := p.Resolve(in.Operands[0])
			if volatileAccess(in.Operands, 2) {
				delete(cache, ptr)
				continue
			}
			cache[ptr] = entry{value: p.Resolve(in.Operands[1]), gen: gen}
		case spirv.OpLoad:
			if !inFunc || len(in.Operands) < 1 {
				continue
			}
			ptr := p.Resolve(in.Operands[0])
			if volatileAccess(in.Operands, 1) {
				delete(cache, ptr)
				continue
			}
			if e, ok := cache[ptr]; ok && e.gen == gen {
				p.SetAlias(in.ResultID, e.value)
				p.MarkDead(i)
				n++
				continue
			}
			cache[ptr] = entry{value: in.ResultID, gen: gen}
		default:
			if spirv.HasSideEffects(in.Opcode) {
				gen++
			}
		}
	}
	return n
}

func volatileAccess(ops []uint32, n int) bool {
	return len(ops) > n && spirv.MemoryAccess(ops[n])&spirv.MemoryAccessVolatile != 0
}
