package optimize

import "github.com/gogpu/spv/spirv"

// Block is one basic block: its label, the instruction index range
// from the OpLabel through the terminator, and its flow neighbors.
type Block struct {
	Label uint32
	Start int
	End   int

	Succs []uint32
	Preds []uint32

	// MergeRefs holds the labels this block's merge instruction
	// declares. Structured control flow requires the declared merge
	// and continue blocks to exist even when no edge reaches them yet.
	MergeRefs []uint32

	Reachable bool
	IDom      uint32
	LoopDepth int
}

// CFG is the control-flow graph of a single function.
type CFG struct {
	Func   int
	Entry  uint32
	Blocks map[uint32]*Block
	Order  []uint32
}

// BuildCFGs constructs one graph per function over the live
// instructions and runs reachability, dominator, and loop depth
// analysis on each. Graphs go stale when a pass changes control flow;
// passes rebuild on demand.
func BuildCFGs(p *Program) []*CFG {
	var cfgs []*CFG
	var cur *CFG
	var blk *Block
	for i := range p.Insts {
		if p.dead[i] {
			continue
		}
		in := &p.Insts[i]
		switch in.Opcode {
		case spirv.OpFunction:
			cur = &CFG{Func: i, Blocks: make(map[uint32]*Block)}
			cfgs = append(cfgs, cur)
			blk = nil
		case spirv.OpFunctionEnd:
			cur = nil
			blk = nil
		case spirv.OpLabel:
			if cur == nil {
				continue
			}
			blk = &Block{Label: in.ResultID, Start: i, End: -1}
			cur.Blocks[blk.Label] = blk
			cur.Order = append(cur.Order, blk.Label)
			if cur.Entry == 0 {
				cur.Entry = blk.Label
			}
		case spirv.OpSelectionMerge:
			if blk != nil && len(in.Operands) >= 1 {
				blk.MergeRefs = append(blk.MergeRefs, in.Operands[0])
			}
		case spirv.OpLoopMerge:
			if blk != nil && len(in.Operands) >= 2 {
				blk.MergeRefs = append(blk.MergeRefs, in.Operands[0], in.Operands[1])
			}
		default:
			if blk != nil && spirv.IsTerminator(in.Opcode) {
				blk.End = i
				blk.Succs = successors(p, in)
				blk = nil
			}
		}
	}
	for _, c := range cfgs {
		c.analyze()
	}
	return cfgs
}

// successors lists the labels a terminator can branch to. Returns,
// kills, and OpUnreachable have none.
func successors(p *Program, in *spirv.Instruction) []uint32 {
	ops := in.Operands
	switch in.Opcode {
	case spirv.OpBranch:
		if len(ops) >= 1 {
			return []uint32{ops[0]}
		}
	case spirv.OpBranchConditional:
		if len(ops) >= 3 {
			return []uint32{ops[1], ops[2]}
		}
	case spirv.OpSwitch:
		return switchTargets(p, in)
	}
	return nil
}

// switchTargets decodes the default label and every case label. Case
// literals take one word for selectors up to 32 bits and two beyond,
// so the stride depends on the selector's type.
func switchTargets(p *Program, in *spirv.Instruction) []uint32 {
	ops := in.Operands
	if len(ops) < 2 {
		return nil
	}
	targets := []uint32{ops[1]}
	step := 2
	if node, ok := p.ValueType(ops[0]); ok && node.Width > 32 {
		step = 3
	}
	for i := 2; i+step <= len(ops); i += step {
		targets = append(targets, ops[i+step-1])
	}
	return targets
}

// analyze computes reachability from the entry, predecessor lists over
// reachable blocks, immediate dominators, and loop depth.
func (c *CFG) analyze() {
	if c.Entry == 0 {
		return
	}
	c.markReachable()

	for _, label := range c.Order {
		blk := c.Blocks[label]
		if !blk.Reachable {
			continue
		}
		for _, s := range blk.Succs {
			if succ, ok := c.Blocks[s]; ok {
				succ.Preds = append(succ.Preds, label)
			}
		}
	}

	c.computeDominators(c.reversePostorder())
	c.computeLoopDepth()
}

func (c *CFG) markReachable() {
	stack := []uint32{c.Entry}
	for len(stack) > 0 {
		label := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		blk, ok := c.Blocks[label]
		if !ok || blk.Reachable {
			continue
		}
		blk.Reachable = true
		stack = append(stack, blk.Succs...)
	}
}

// reversePostorder orders the reachable blocks so every block comes
// before its successors except along back edges.
func (c *CFG) reversePostorder() []uint32 {
	visited := make(map[uint32]bool, len(c.Blocks))
	var post []uint32
	var walk func(label uint32)
	walk = func(label uint32) {
		blk, ok := c.Blocks[label]
		if !ok || visited[label] {
			return
		}
		visited[label] = true
		for _, s := range blk.Succs {
			walk(s)
		}
		post = append(post, label)
	}
	walk(c.Entry)
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

// computeDominators runs the iterative dataflow algorithm over the
// reverse postorder. The entry dominates itself.
func (c *CFG) computeDominators(rpo []uint32) {
	if len(rpo) == 0 {
		return
	}
	index := make(map[uint32]int, len(rpo))
	for i, label := range rpo {
		index[label] = i
	}
	idom := make(map[uint32]uint32, len(rpo))
	idom[c.Entry] = c.Entry
	for changed := true; changed; {
		changed = false
		for _, label := range rpo[1:] {
			blk := c.Blocks[label]
			var newIdom uint32
			for _, pred := range blk.Preds {
				if _, ok := idom[pred]; !ok {
					continue
				}
				if newIdom == 0 {
					newIdom = pred
				} else {
					newIdom = intersect(idom, index, pred, newIdom)
				}
			}
			if newIdom != 0 && idom[label] != newIdom {
				idom[label] = newIdom
				changed = true
			}
		}
	}
	for label, dom := range idom {
		c.Blocks[label].IDom = dom
	}
}

func intersect(idom map[uint32]uint32, index map[uint32]int, a, b uint32) uint32 {
	for a != b {
		for index[a] > index[b] {
			a = idom[a]
		}
		for index[b] > index[a] {
			b = idom[b]
		}
	}
	return a
}

// Dominates reports whether block a dominates block b. Unreachable
// blocks dominate nothing and are dominated by nothing.
func (c *CFG) Dominates(a, b uint32) bool {
	if a == b {
		if blk, ok := c.Blocks[a]; ok {
			return blk.Reachable
		}
		return false
	}
	blk, ok := c.Blocks[b]
	for ok && blk.Reachable && blk.IDom != 0 {
		if blk.IDom == a {
			return true
		}
		if blk.IDom == blk.Label {
			return false
		}
		blk, ok = c.Blocks[blk.IDom]
	}
	return false
}

// MergeTargets returns the labels named by merge instructions of
// reachable blocks. Structured control flow requires those blocks to
// keep existing even when no branch currently reaches them.
func (c *CFG) MergeTargets() map[uint32]bool {
	refs := make(map[uint32]bool)
	for _, label := range c.Order {
		blk := c.Blocks[label]
		if !blk.Reachable {
			continue
		}
		for _, m := range blk.MergeRefs {
			refs[m] = true
		}
	}
	return refs
}

// computeLoopDepth finds natural loops through back edges (an edge to
// a dominator) and counts, per block, how many loop bodies enclose it.
func (c *CFG) computeLoopDepth() {
	for _, label := range c.Order {
		blk := c.Blocks[label]
		if !blk.Reachable {
			continue
		}
		for _, s := range blk.Succs {
			if !c.Dominates(s, label) {
				continue
			}
			for _, member := range c.naturalLoop(s, label) {
				c.Blocks[member].LoopDepth++
			}
		}
	}
}

// naturalLoop collects the blocks of the loop with the given header
// and back-edge source: the header plus everything that reaches the
// latch without passing through the header.
func (c *CFG) naturalLoop(header, latch uint32) []uint32 {
	members := map[uint32]bool{header: true}
	stack := []uint32{latch}
	for len(stack) > 0 {
		label := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if members[label] {
			continue
		}
		members[label] = true
		if blk, ok := c.Blocks[label]; ok {
			stack = append(stack, blk.Preds...)
		}
	}
	loop := make([]uint32, 0, len(members))
	for label := range members {
		loop = append(loop, label)
	}
	return loop
}
