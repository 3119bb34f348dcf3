package optimize

import "github.com/gogpu/spv/spirv"

// UseDef indexes, for every id, the live instructions that reference
// it. Definitions come from the Program's own index; only uses need
// rebuilding after a pass rewires the stream.
type UseDef struct {
	p    *Program
	uses map[uint32][]int
}

// BuildUseDef indexes the live instructions. Uses are keyed by
// canonical (alias-resolved) id. Operand enumeration is a superset for
// opcodes with interleaved literals, which can only over-count uses,
// never miss one.
func BuildUseDef(p *Program) *UseDef {
	u := &UseDef{
		p:    p,
		uses: make(map[uint32][]int, len(p.Insts)),
	}
	for i := range p.Insts {
		if p.dead[i] {
			continue
		}
		in := &p.Insts[i]
		if spirv.HasResultType(in.Opcode) {
			id := p.Resolve(in.ResultType)
			u.uses[id] = append(u.uses[id], i)
		}
		idx := i
		spirv.ForEachIDRef(in.Opcode, in.Operands, func(j int) {
			id := p.Resolve(in.Operands[j])
			u.uses[id] = append(u.uses[id], idx)
		})
	}
	return u
}

// Def returns the index of the live instruction defining the id.
func (u *UseDef) Def(id uint32) (int, bool) { return u.p.Def(id) }

// Uses returns the indices of live instructions referencing the id.
func (u *UseDef) Uses(id uint32) []int { return u.uses[u.p.Resolve(id)] }

// UseCount returns how many live instructions reference the id.
func (u *UseDef) UseCount(id uint32) int { return len(u.Uses(id)) }

// removableValue reports whether the instruction matters only through
// its result id. Structural opcodes keep their place in the stream
// even when nothing names them again.
func removableValue(in *spirv.Instruction) bool {
	op := in.Opcode
	if !spirv.HasResultID(op) || spirv.HasSideEffects(op) || spirv.IsTerminator(op) {
		return false
	}
	switch op {
	case spirv.OpFunction, spirv.OpFunctionParameter, spirv.OpLabel:
		return false
	}
	return true
}

// metaTarget returns the id a debug or annotation instruction attaches
// to. These survive only while their target does.
func metaTarget(in *spirv.Instruction) (uint32, bool) {
	switch in.Opcode {
	case spirv.OpName, spirv.OpMemberName,
		spirv.OpDecorate, spirv.OpMemberDecorate, spirv.OpDecorateId:
		if len(in.Operands) > 0 {
			return in.Operands[0], true
		}
	}
	return 0, false
}

// eliminateDeadCode removes value instructions whose results no kept
// instruction transitively references, then sweeps debug names and
// decorations whose targets went away. Returns how many instructions
// it removed.
func eliminateDeadCode(p *Program) int {
	type meta struct {
		index  int
		target uint32
		kept   bool
	}

	live := make(map[uint32]bool)
	var queue []uint32
	push := func(id uint32) {
		id = p.Resolve(id)
		if id != 0 && !live[id] {
			live[id] = true
			queue = append(queue, id)
		}
	}

	processed := make([]bool, len(p.Insts))
	markRefs := func(i int) {
		in := &p.Insts[i]
		if spirv.HasResultType(in.Opcode) {
			push(in.ResultType)
		}
		spirv.ForEachIDRef(in.Opcode, in.Operands, func(j int) {
			push(in.Operands[j])
		})
	}

	// Seed with everything that must stay: side effects, terminators,
	// structure, and any instruction without a result id.
	var metas []meta
	for i := range p.Insts {
		if p.dead[i] {
			continue
		}
		in := &p.Insts[i]
		if target, ok := metaTarget(in); ok {
			metas = append(metas, meta{index: i, target: p.Resolve(target)})
			continue
		}
		if removableValue(in) {
			continue
		}
		processed[i] = true
		markRefs(i)
		if spirv.HasResultID(in.Opcode) {
			push(in.ResultID)
		}
	}

	drain := func() {
		for len(queue) > 0 {
			id := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			if i, ok := p.defs[id]; ok && !p.dead[i] && !processed[i] {
				processed[i] = true
				markRefs(i)
			}
		}
	}
	drain()

	// Debug and annotation instructions reference their targets but do
	// not keep them alive. Once the live set settles, keep exactly the
	// ones whose target survived; a kept decoration can itself name
	// ids (OpDecorateId), so iterate to a fixed point.
	for changed := true; changed; {
		changed = false
		for i := range metas {
			m := &metas[i]
			if m.kept || !live[m.target] {
				continue
			}
			m.kept = true
			markRefs(m.index)
			changed = true
		}
		drain()
	}

	removed := 0
	for i := range metas {
		if !metas[i].kept {
			p.MarkDead(metas[i].index)
			removed++
		}
	}
	for i := range p.Insts {
		if p.dead[i] || processed[i] {
			continue
		}
		in := &p.Insts[i]
		if removableValue(in) && !live[p.Resolve(in.ResultID)] {
			p.MarkDead(i)
			removed++
		}
	}
	return removed
}
