package optimize

import (
	"encoding/binary"

	"github.com/gogpu/spv/spirv"
)

// eliminateSubexpressions removes pure instructions recomputing a
// value an identical earlier instruction already produced, when the
// earlier block dominates the later one. Keys cover opcode, result
// type, and operands with id positions resolved through the alias
// map; literal operand words participate verbatim.
func eliminateSubexpressions(p *Program) int {
	n := 0
	for _, c := range BuildCFGs(p) {
		type avail struct {
			id    uint32
			block uint32
		}
		seen := make(map[string]avail)
		for _, label := range c.Order {
			blk := c.Blocks[label]
			if !blk.Reachable || blk.End < 0 {
				continue
			}
			for i := blk.Start + 1; i < blk.End; i++ {
				if p.dead[i] {
					continue
				}
				in := &p.Insts[i]
				if !cseCandidate(in.Opcode) {
					continue
				}
				if in.Opcode == spirv.OpExtInst &&
					(len(in.Operands) < 2 || !p.glsl[p.Resolve(in.Operands[0])]) {
					continue
				}
				key := identityKey(p, in)
				prev, ok := seen[key]
				if ok && c.Dominates(prev.block, label) {
					p.SetAlias(in.ResultID, prev.id)
					p.MarkDead(i)
					n++
					continue
				}
				if !ok {
					seen[key] = avail{id: in.ResultID, block: label}
				}
			}
		}
	}
	return n
}

// cseCandidate reports whether results of the opcode are safe to
// share: pure, memory-free computations whose value depends only on
// their operands. OpSampledImage is excluded because its result must
// stay in the block that consumes it, and group operations because
// their results depend on which invocations reach them.
func cseCandidate(op spirv.OpCode) bool {
	if !spirv.Known(op) || !spirv.HasResultID(op) {
		return false
	}
	if spirv.HasSideEffects(op) || spirv.AccessesMemory(op) || spirv.IsTerminator(op) {
		return false
	}
	if groupOp(op) {
		return false
	}
	switch op {
	case spirv.OpFunction, spirv.OpFunctionParameter, spirv.OpLabel,
		spirv.OpPhi, spirv.OpVariable, spirv.OpUndef, spirv.OpSampledImage:
		return false
	}
	return true
}

// groupOp reports whether the opcode is a group or subgroup operation.
// Two occurrences with identical operands read different invocation
// sets when control flow diverges, so they are never interchangeable.
func groupOp(op spirv.OpCode) bool {
	return op >= spirv.OpGroupAll && op <= spirv.OpGroupFAdd ||
		op >= spirv.OpGroupNonUniformElect && op <= spirv.OpGroupNonUniformQuadSwap ||
		op >= spirv.OpSubgroupBallotKHR && op <= spirv.OpSubgroupReadInvocationKHR
}

// identityKey serializes what the instruction computes: opcode,
// resolved result type, and operands with id positions resolved and
// literal words verbatim. Shared with declaration deduplication.
func identityKey(p *Program, in *spirv.Instruction) string {
	buf := make([]byte, 0, 4*(2+len(in.Operands)))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(in.Opcode))
	buf = binary.LittleEndian.AppendUint32(buf, p.Resolve(in.ResultType))
	ops := append([]uint32(nil), in.Operands...)
	spirv.ForEachRewritableID(in.Opcode, ops, func(j int) {
		ops[j] = p.Resolve(ops[j])
	})
	for _, w := range ops {
		buf = binary.LittleEndian.AppendUint32(buf, w)
	}
	return string(buf)
}
