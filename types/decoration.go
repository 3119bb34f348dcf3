package types

import "github.com/gogpu/spv/spirv"

// DecorationEntry is one collected decoration with its literal
// operands.
type DecorationEntry struct {
	Decoration spirv.Decoration
	Operands   []uint32
}

type memberKey struct {
	id     uint32
	member uint32
}

// DecorationTracker collects the annotation section of a module:
// OpDecorate keyed by target id and OpMemberDecorate keyed by
// (struct id, member index).
type DecorationTracker struct {
	byID     map[uint32][]DecorationEntry
	byMember map[memberKey][]DecorationEntry
}

// NewDecorationTracker creates an empty tracker.
func NewDecorationTracker() *DecorationTracker {
	return &DecorationTracker{
		byID:     make(map[uint32][]DecorationEntry),
		byMember: make(map[memberKey][]DecorationEntry),
	}
}

// Collect records the instruction's decoration, if it is one, and
// reports whether it was consumed. OpDecorateId is recorded like
// OpDecorate; its operands are ids, which the caller resolves.
func (t *DecorationTracker) Collect(in *spirv.Instruction) bool {
	ops := in.Operands
	switch in.Opcode {
	case spirv.OpDecorate, spirv.OpDecorateId:
		if len(ops) < 2 {
			return false
		}
		entry := DecorationEntry{
			Decoration: spirv.Decoration(ops[1]),
			Operands:   append([]uint32(nil), ops[2:]...),
		}
		t.byID[ops[0]] = append(t.byID[ops[0]], entry)
		return true

	case spirv.OpMemberDecorate:
		if len(ops) < 3 {
			return false
		}
		key := memberKey{id: ops[0], member: ops[1]}
		entry := DecorationEntry{
			Decoration: spirv.Decoration(ops[2]),
			Operands:   append([]uint32(nil), ops[3:]...),
		}
		t.byMember[key] = append(t.byMember[key], entry)
		return true
	}
	return false
}

// Has reports whether the id carries the decoration.
func (t *DecorationTracker) Has(id uint32, d spirv.Decoration) bool {
	for _, entry := range t.byID[id] {
		if entry.Decoration == d {
			return true
		}
	}
	return false
}

// HasMember reports whether the struct member carries the decoration.
func (t *DecorationTracker) HasMember(id, member uint32, d spirv.Decoration) bool {
	for _, entry := range t.byMember[memberKey{id, member}] {
		if entry.Decoration == d {
			return true
		}
	}
	return false
}

// First returns the first literal operand of the id's decoration.
func (t *DecorationTracker) First(id uint32, d spirv.Decoration) (uint32, bool) {
	for _, entry := range t.byID[id] {
		if entry.Decoration == d && len(entry.Operands) > 0 {
			return entry.Operands[0], true
		}
	}
	return 0, false
}

// FirstMember returns the first literal operand of the struct member's
// decoration.
func (t *DecorationTracker) FirstMember(id, member uint32, d spirv.Decoration) (uint32, bool) {
	for _, entry := range t.byMember[memberKey{id, member}] {
		if entry.Decoration == d && len(entry.Operands) > 0 {
			return entry.Operands[0], true
		}
	}
	return 0, false
}

// Of returns every decoration collected for the id.
func (t *DecorationTracker) Of(id uint32) []DecorationEntry {
	return t.byID[id]
}

// OfMember returns every decoration collected for the struct member.
func (t *DecorationTracker) OfMember(id, member uint32) []DecorationEntry {
	return t.byMember[memberKey{id, member}]
}
