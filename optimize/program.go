// Package optimize rewrites SPIR-V modules through a configurable pass
// pipeline: type and constant deduplication, constant folding and
// propagation, algebraic simplification, strength reduction, common
// subexpression elimination, redundant load elimination, dead branch
// resolution, dead code elimination, and block merging.
//
// Passes share one Program. Instructions are never spliced out of the
// stream mid-run; a pass marks them dead and records replacement ids in
// an alias map, and every later pass and the final encoder resolve ids
// through that map. The module is re-encoded once, at the end, through
// spirv.ModuleBuilder, which also restores canonical section order for
// any declarations a pass appended.
package optimize

import (
	"github.com/gogpu/spv/spirv"
	"github.com/gogpu/spv/types"
)

// Program is a decoded module opened for rewriting: the instruction
// stream with per-instruction liveness, an id alias map, and the type
// and constant registries collected from the stream.
type Program struct {
	Header spirv.Header
	Insts  []spirv.Instruction

	dead  []bool
	alias map[uint32]uint32
	defs  map[uint32]int

	nextID uint32
	types  *types.Registry
	consts *types.ConstantRegistry
	glsl   map[uint32]bool
}

// NewProgram decodes a module into an owned instruction stream and
// collects its type and constant declarations.
func NewProgram(module []byte) (*Program, error) {
	header, insts, err := spirv.Parse(module)
	if err != nil {
		return nil, err
	}
	p := &Program{
		Header: header,
		Insts:  insts,
		dead:   make([]bool, len(insts)),
		alias:  make(map[uint32]uint32),
		defs:   make(map[uint32]int, len(insts)),
		nextID: header.Bound,
		types:  types.NewRegistry(),
		consts: types.NewConstantRegistry(),
		glsl:   make(map[uint32]bool),
	}
	for i := range insts {
		in := &insts[i]
		if spirv.HasResultID(in.Opcode) && in.ResultID != 0 {
			p.defs[in.ResultID] = i
		}
		if !p.types.Collect(in, p.consts) {
			p.consts.Collect(in, p.types)
		}
		if in.Opcode == spirv.OpExtInstImport {
			if name, _, err := spirv.DecodeString(in.Operands); err == nil && name == spirv.GLSLstd450 {
				p.glsl[in.ResultID] = true
			}
		}
	}
	return p, nil
}

// AllocID returns a fresh id past the module's bound.
func (p *Program) AllocID() uint32 {
	id := p.nextID
	p.nextID++
	return id
}

// Bound returns the current id bound.
func (p *Program) Bound() uint32 { return p.nextID }

// Alive reports whether the instruction at index i is still live.
func (p *Program) Alive(i int) bool { return !p.dead[i] }

// MarkDead excludes the instruction at index i from the encoded output.
func (p *Program) MarkDead(i int) { p.dead[i] = true }

// SetAlias redirects every reference to from onto to. The target is
// resolved first so chains stay shallow and self-aliases cannot form.
func (p *Program) SetAlias(from, to uint32) {
	to = p.Resolve(to)
	if from == to {
		return
	}
	p.alias[from] = to
}

// Resolve follows the alias map to the canonical id.
func (p *Program) Resolve(id uint32) uint32 {
	for {
		to, ok := p.alias[id]
		if !ok {
			return id
		}
		id = to
	}
}

// Def returns the index of the live instruction defining the id,
// resolving aliases first.
func (p *Program) Def(id uint32) (int, bool) {
	i, ok := p.defs[p.Resolve(id)]
	if !ok || p.dead[i] {
		return 0, false
	}
	return i, true
}

// TypeOf returns the type node declared under the given type id.
func (p *Program) TypeOf(id uint32) (*types.Node, bool) {
	return p.types.Lookup(p.Resolve(id))
}

// ValueType returns the type node of a value id, read from its
// defining instruction's result type.
func (p *Program) ValueType(id uint32) (*types.Node, bool) {
	i, ok := p.Def(id)
	if !ok {
		return nil, false
	}
	in := &p.Insts[i]
	if !spirv.HasResultType(in.Opcode) {
		return nil, false
	}
	return p.types.Lookup(in.ResultType)
}

// ConstantOf returns the scalar constant the id refers to. Spec
// constants are invisible here: their value is not fixed until
// specialization, so no pass may evaluate them.
func (p *Program) ConstantOf(id uint32) (*types.Constant, bool) {
	c, ok := p.consts.Lookup(p.Resolve(id))
	if !ok || c.Spec {
		return nil, false
	}
	return c, true
}

// ConstID returns the id of a constant with the given type and literal
// words, reusing an existing declaration when one matches and
// appending a new OpConstant otherwise.
func (p *Program) ConstID(typeID uint32, words ...uint32) uint32 {
	if id, ok := p.consts.Find(typeID, words); ok {
		return id
	}
	id := p.AllocID()
	c := types.Constant{ID: id, Type: typeID, Words: append([]uint32(nil), words...)}
	if node, ok := p.types.Lookup(typeID); ok && node.Scalar() {
		c.Kind = node.Kind
		c.Width = node.Width
		c.Signed = node.Signed
	}
	p.consts.Put(c)
	p.appendInst(spirv.Instruction{
		Opcode:     spirv.OpConstant,
		ResultType: typeID,
		ResultID:   id,
		Operands:   c.Words,
		Offset:     -1,
	})
	return id
}

// BoolConstID returns the true or false constant of the given boolean
// type, declaring it on first use.
func (p *Program) BoolConstID(typeID uint32, value bool) uint32 {
	words := []uint32{0}
	op := spirv.OpConstantFalse
	if value {
		words[0] = 1
		op = spirv.OpConstantTrue
	}
	if id, ok := p.consts.Find(typeID, words); ok {
		return id
	}
	id := p.AllocID()
	p.consts.Put(types.Constant{ID: id, Type: typeID, Kind: types.KindBool, Width: 32, Bool: value})
	p.appendInst(spirv.Instruction{
		Opcode:     op,
		ResultType: typeID,
		ResultID:   id,
		Offset:     -1,
	})
	return id
}

// appendInst adds a synthesized declaration to the stream. The final
// encode sections instructions by opcode, so stream position does not
// matter for declarations.
func (p *Program) appendInst(in spirv.Instruction) {
	if in.ResultID != 0 {
		p.defs[in.ResultID] = len(p.Insts)
	}
	p.Insts = append(p.Insts, in)
	p.dead = append(p.dead, false)
}

// Encode re-emits the live instructions with all aliases resolved.
func (p *Program) Encode() ([]byte, error) {
	b := spirv.NewModuleBuilder(p.Header.Version)
	b.Reserve(p.nextID)
	for i := range p.Insts {
		if p.dead[i] {
			continue
		}
		in := p.Insts[i].Clone()
		if spirv.HasResultType(in.Opcode) {
			in.ResultType = p.Resolve(in.ResultType)
		}
		ops := in.Operands
		spirv.ForEachRewritableID(in.Opcode, ops, func(j int) {
			ops[j] = p.Resolve(ops[j])
		})
		b.Add(in)
	}
	return b.Build()
}
