package optimize

import (
	"fmt"

	"github.com/gogpu/spv/spirv"
	"github.com/gogpu/spv/types"
)

// Passes selects which rewrites run. Passes always execute in the
// fixed pipeline order below regardless of flag declaration order;
// each is independent and any subset is valid.
type Passes uint32

const (
	PassDedup Passes = 1 << iota
	PassFold
	PassPropagate
	PassCombine
	PassStrengthReduce
	PassCSE
	PassLoadElim
	PassDeadBranch
	PassDCE
	PassBlockMerge

	AllPasses = PassDedup | PassFold | PassPropagate | PassCombine |
		PassStrengthReduce | PassCSE | PassLoadElim | PassDeadBranch |
		PassDCE | PassBlockMerge
)

// Report counts what each pass changed.
type Report struct {
	Deduplicated   int
	Folded         int
	Propagated     int
	Combined       int
	Reduced        int
	Subexpressions int
	Loads          int
	Branches       int
	Removed        int
	Merged         int
}

// Total returns the combined change count across all passes.
func (r Report) Total() int {
	return r.Deduplicated + r.Folded + r.Propagated + r.Combined +
		r.Reduced + r.Subexpressions + r.Loads + r.Branches +
		r.Removed + r.Merged
}

// Optimizer runs a fixed pipeline over one module at a time.
type Optimizer struct {
	passes Passes
}

// New creates an optimizer running the selected passes.
func New(passes Passes) *Optimizer {
	return &Optimizer{passes: passes}
}

// Optimize decodes the module, runs the selected passes in pipeline
// order, and re-encodes the surviving instructions.
func (o *Optimizer) Optimize(module []byte) ([]byte, Report, error) {
	var rep Report
	p, err := NewProgram(module)
	if err != nil {
		return nil, rep, fmt.Errorf("decode error: %w", err)
	}
	if o.passes&PassDedup != 0 {
		rep.Deduplicated = deduplicateTypes(p) + deduplicateConstants(p)
	}
	if o.passes&PassFold != 0 {
		rep.Folded = foldConstants(p)
	}
	if o.passes&PassPropagate != 0 {
		rep.Propagated = propagateConstants(p)
	}
	if o.passes&PassCombine != 0 {
		rep.Combined = combineAlgebraic(p)
	}
	if o.passes&PassStrengthReduce != 0 {
		rep.Reduced = strengthReduce(p)
	}
	if o.passes&PassCSE != 0 {
		rep.Subexpressions = eliminateSubexpressions(p)
	}
	if o.passes&PassLoadElim != 0 {
		rep.Loads = eliminateLoads(p)
	}
	if o.passes&PassDeadBranch != 0 {
		rep.Branches = eliminateDeadBranches(p)
	}
	if o.passes&PassDCE != 0 {
		rep.Removed = eliminateDeadCode(p)
	}
	if o.passes&PassBlockMerge != 0 {
		rep.Merged = mergeBlocks(p)
	}
	out, err := p.Encode()
	if err != nil {
		return nil, rep, fmt.Errorf("encode error: %w", err)
	}
	return out, rep, nil
}

// Optimize runs the selected passes over the module with a one-shot
// optimizer.
func Optimize(module []byte, passes Passes) ([]byte, Report, error) {
	return New(passes).Optimize(module)
}

// eliminateDeadBranches resolves conditional branches and switches on
// constants into direct branches, then removes the blocks that became
// unreachable. A resolved selection loses its OpSelectionMerge; a
// resolved loop header keeps its OpLoopMerge, which stays legal in
// front of a direct branch. Unreachable blocks still named by a live
// merge instruction keep their label and terminate with
// OpUnreachable. Returns resolved branches plus removed blocks.
func eliminateDeadBranches(p *Program) int {
	n := 0
	for i := range p.Insts {
		if p.dead[i] {
			continue
		}
		in := &p.Insts[i]
		switch in.Opcode {
		case spirv.OpBranchConditional:
			if len(in.Operands) < 3 {
				continue
			}
			c, ok := p.ConstantOf(in.Operands[0])
			if !ok || c.Kind != types.KindBool {
				continue
			}
			target := in.Operands[1]
			if !c.Bool {
				target = in.Operands[2]
			}
			in.Opcode = spirv.OpBranch
			in.Operands = []uint32{target}
			killSelectionMerge(p, i)
			n++
		case spirv.OpSwitch:
			if len(in.Operands) < 2 {
				continue
			}
			sel, ok := p.ConstantOf(in.Operands[0])
			if !ok || sel.Kind != types.KindInt || sel.Width == 0 {
				continue
			}
			target := switchTarget(in, sel)
			in.Opcode = spirv.OpBranch
			in.Operands = []uint32{target}
			killSelectionMerge(p, i)
			n++
		}
	}
	n += sweepUnreachable(p)
	return n
}

// killSelectionMerge drops the OpSelectionMerge directly above a
// resolved branch, if one is there.
func killSelectionMerge(p *Program, i int) {
	for j := i - 1; j >= 0; j-- {
		if p.dead[j] {
			continue
		}
		if p.Insts[j].Opcode == spirv.OpSelectionMerge {
			p.MarkDead(j)
		}
		return
	}
}

// switchTarget picks the case label matching a constant selector, or
// the default label. Case literals are one word up to 32-bit
// selectors and two beyond.
func switchTarget(in *spirv.Instruction, sel *types.Constant) uint32 {
	ops := in.Operands
	value := maskWidth(sel.Uint(), sel.Width)
	step := 2
	if sel.Width > 32 {
		step = 3
	}
	for i := 2; i+step <= len(ops); i += step {
		lit := uint64(ops[i])
		if step == 3 {
			lit |= uint64(ops[i+1]) << 32
		}
		if maskWidth(lit, sel.Width) == value {
			return ops[i+step-1]
		}
	}
	return ops[1]
}

// sweepUnreachable deletes blocks no path from the entry reaches and
// trims phi inputs for edges that disappeared. Returns removed block
// count.
func sweepUnreachable(p *Program) int {
	removed := 0
	for _, c := range BuildCFGs(p) {
		mergeRef := c.MergeTargets()
		for _, label := range c.Order {
			blk := c.Blocks[label]
			if blk.Reachable || blk.End < 0 {
				continue
			}
			if mergeRef[label] {
				for j := blk.Start + 1; j < blk.End; j++ {
					if !p.dead[j] {
						p.MarkDead(j)
					}
				}
				p.Insts[blk.End] = spirv.Instruction{
					Opcode: spirv.OpUnreachable,
					Offset: -1,
				}
				continue
			}
			for j := blk.Start; j <= blk.End; j++ {
				if !p.dead[j] {
					p.MarkDead(j)
				}
			}
			removed++
		}
		for _, label := range c.Order {
			blk := c.Blocks[label]
			if !blk.Reachable || blk.End < 0 {
				continue
			}
			preds := make(map[uint32]bool, len(blk.Preds))
			for _, pr := range blk.Preds {
				preds[pr] = true
			}
			for j := blk.Start + 1; j < blk.End; j++ {
				if p.dead[j] || p.Insts[j].Opcode != spirv.OpPhi {
					continue
				}
				trimPhi(p, j, preds)
			}
		}
	}
	return removed
}

// trimPhi drops (value, predecessor) pairs whose edge no longer
// exists. A phi left with one input collapses to that value.
func trimPhi(p *Program, idx int, preds map[uint32]bool) {
	in := &p.Insts[idx]
	ops := in.Operands
	kept := ops[:0]
	for k := 0; k+1 < len(ops); k += 2 {
		if preds[ops[k+1]] {
			kept = append(kept, ops[k], ops[k+1])
		}
	}
	if len(kept) == 2 {
		p.SetAlias(in.ResultID, kept[0])
		p.MarkDead(idx)
		return
	}
	if len(kept) > 0 && len(kept) < len(ops) {
		in.Operands = kept
	}
}

// mergeBlocks folds a block into its unique predecessor when the
// predecessor ends in a direct branch to it. Only textually adjacent
// pairs merge, keeping function body order intact, and blocks named
// by merge instructions or carrying one themselves stay separate.
// Runs rounds until a fixed point so chains collapse fully.
func mergeBlocks(p *Program) int {
	total := 0
	for {
		merged := 0
		for _, c := range BuildCFGs(p) {
			mergeRef := c.MergeTargets()
			touched := make(map[uint32]bool)
			for _, label := range c.Order {
				a := c.Blocks[label]
				if !a.Reachable || a.End < 0 || touched[label] || len(a.MergeRefs) > 0 {
					continue
				}
				term := &p.Insts[a.End]
				if term.Opcode != spirv.OpBranch || len(term.Operands) != 1 {
					continue
				}
				bl := term.Operands[0]
				b, ok := c.Blocks[bl]
				if !ok || bl == label || touched[bl] || mergeRef[bl] {
					continue
				}
				if len(b.Preds) != 1 || b.End < 0 {
					continue
				}
				if nextLive(p, a.End) != b.Start {
					continue
				}
				if !collapsePhis(p, b) {
					continue
				}
				p.MarkDead(a.End)
				p.MarkDead(b.Start)
				p.SetAlias(b.Label, a.Label)
				touched[label] = true
				touched[bl] = true
				merged++
			}
		}
		total += merged
		if merged == 0 {
			return total
		}
	}
}

// collapsePhis folds single-input phis at the top of a block being
// merged and reports whether every phi was collapsible.
func collapsePhis(p *Program, b *Block) bool {
	for j := b.Start + 1; j < b.End; j++ {
		if p.dead[j] || p.Insts[j].Opcode != spirv.OpPhi {
			continue
		}
		if len(p.Insts[j].Operands) != 2 {
			return false
		}
	}
	for j := b.Start + 1; j < b.End; j++ {
		if p.dead[j] || p.Insts[j].Opcode != spirv.OpPhi {
			continue
		}
		in := &p.Insts[j]
		p.SetAlias(in.ResultID, in.Operands[0])
		p.MarkDead(j)
	}
	return true
}

func nextLive(p *Program, i int) int {
	for j := i + 1; j < len(p.Insts); j++ {
		if !p.dead[j] {
			return j
		}
	}
	return -1
}
