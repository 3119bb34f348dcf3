package optimize

import (
	"math/bits"

	"github.com/gogpu/spv/spirv"
	"github.com/gogpu/spv/types"
)

// combineAlgebraic rewrites instructions that reduce to one of their
// operands or to a known constant: arithmetic identities, self
// operand forms, logical identities, and select collapses. Float
// rules follow shader fast-math: x+0, x-0, and x*0 fold without
// regard to signed zero or NaN; float self subtraction does not fold.
func combineAlgebraic(p *Program) int {
	n := 0
	limit := len(p.Insts)
	for i := 0; i < limit; i++ {
		if p.dead[i] {
			continue
		}
		in := &p.Insts[i]
		rid := in.ResultID
		if rid == 0 {
			continue
		}
		id, ok := combineInstruction(p, in)
		if !ok {
			continue
		}
		p.SetAlias(rid, id)
		p.MarkDead(i)
		n++
	}
	return n
}

func combineInstruction(p *Program, in *spirv.Instruction) (uint32, bool) {
	ops := in.Operands
	if in.Opcode == spirv.OpLogicalNot {
		if len(ops) != 1 {
			return 0, false
		}
		if di, ok := p.Def(ops[0]); ok {
			inner := &p.Insts[di]
			if inner.Opcode == spirv.OpLogicalNot && len(inner.Operands) == 1 {
				return p.Resolve(inner.Operands[0]), true
			}
		}
		return 0, false
	}
	if in.Opcode == spirv.OpSelect {
		if len(ops) != 3 {
			return 0, false
		}
		if c, ok := p.ConstantOf(ops[0]); ok && c.Kind == types.KindBool {
			if c.Bool {
				return p.Resolve(ops[1]), true
			}
			return p.Resolve(ops[2]), true
		}
		if tv, fv := p.Resolve(ops[1]), p.Resolve(ops[2]); tv == fv {
			return tv, true
		}
		return 0, false
	}

	if len(ops) != 2 {
		return 0, false
	}
	a, b := p.Resolve(ops[0]), p.Resolve(ops[1])
	switch in.Opcode {
	case spirv.OpIAdd:
		if isIntValue(p, a, 0) {
			return b, true
		}
		if isIntValue(p, b, 0) {
			return a, true
		}
	case spirv.OpISub:
		if isIntValue(p, b, 0) {
			return a, true
		}
		if a == b {
			return zeroConstID(p, in.ResultType)
		}
	case spirv.OpIMul:
		if isIntValue(p, a, 1) {
			return b, true
		}
		if isIntValue(p, b, 1) {
			return a, true
		}
		if isIntValue(p, a, 0) || isIntValue(p, b, 0) {
			return zeroConstID(p, in.ResultType)
		}
	case spirv.OpUDiv, spirv.OpSDiv:
		if isIntValue(p, b, 1) {
			return a, true
		}
	case spirv.OpUMod:
		if isIntValue(p, b, 1) {
			return zeroConstID(p, in.ResultType)
		}
	case spirv.OpShiftLeftLogical, spirv.OpShiftRightLogical, spirv.OpShiftRightArithmetic:
		if isIntValue(p, b, 0) {
			return a, true
		}
	case spirv.OpBitwiseAnd:
		if a == b {
			return a, true
		}
		if isIntValue(p, a, 0) || isIntValue(p, b, 0) {
			return zeroConstID(p, in.ResultType)
		}
		if isAllOnes(p, a) {
			return b, true
		}
		if isAllOnes(p, b) {
			return a, true
		}
	case spirv.OpBitwiseOr:
		if a == b || isIntValue(p, b, 0) {
			return a, true
		}
		if isIntValue(p, a, 0) {
			return b, true
		}
		if isAllOnes(p, a) {
			return a, true
		}
		if isAllOnes(p, b) {
			return b, true
		}
	case spirv.OpBitwiseXor:
		if a == b {
			return zeroConstID(p, in.ResultType)
		}
		if isIntValue(p, a, 0) {
			return b, true
		}
		if isIntValue(p, b, 0) {
			return a, true
		}
	case spirv.OpFAdd:
		if isFloatValue(p, a, 0) {
			return b, true
		}
		if isFloatValue(p, b, 0) {
			return a, true
		}
	case spirv.OpFSub:
		if isFloatValue(p, b, 0) {
			return a, true
		}
	case spirv.OpFMul:
		if isFloatValue(p, a, 1) {
			return b, true
		}
		if isFloatValue(p, b, 1) {
			return a, true
		}
		if isFloatValue(p, a, 0) || isFloatValue(p, b, 0) {
			return zeroConstID(p, in.ResultType)
		}
	case spirv.OpFDiv:
		if isFloatValue(p, b, 1) {
			return a, true
		}
	case spirv.OpLogicalAnd:
		if v, ok := boolValue(p, a); ok {
			if v {
				return b, true
			}
			return a, true
		}
		if v, ok := boolValue(p, b); ok {
			if v {
				return a, true
			}
			return b, true
		}
		if a == b {
			return a, true
		}
	case spirv.OpLogicalOr:
		if v, ok := boolValue(p, a); ok {
			if v {
				return a, true
			}
			return b, true
		}
		if v, ok := boolValue(p, b); ok {
			if v {
				return b, true
			}
			return a, true
		}
		if a == b {
			return a, true
		}
	}
	return 0, false
}

// isIntValue reports whether the id is a scalar integer constant with
// the given value at its declared width.
func isIntValue(p *Program, id uint32, want uint64) bool {
	c, ok := p.ConstantOf(id)
	if !ok || c.Kind != types.KindInt || c.Width == 0 {
		return false
	}
	return maskWidth(c.Uint(), c.Width) == maskWidth(want, c.Width)
}

// isAllOnes reports whether the id is a scalar integer constant with
// every bit set at its declared width.
func isAllOnes(p *Program, id uint32) bool {
	return isIntValue(p, id, ^uint64(0))
}

// isFloatValue reports whether the id is a scalar float constant equal
// to the given value. Both zeros compare equal to 0.
func isFloatValue(p *Program, id uint32, want float64) bool {
	v, ok := floatConst(p, id)
	return ok && v == want
}

func boolValue(p *Program, id uint32) (bool, bool) {
	c, ok := p.ConstantOf(id)
	if !ok || c.Kind != types.KindBool {
		return false, false
	}
	return c.Bool, true
}

// zeroConstID interns the zero constant of a scalar result type.
// Vector results have no scalar zero and stay untouched.
func zeroConstID(p *Program, typeID uint32) (uint32, bool) {
	node, ok := p.TypeOf(typeID)
	if !ok || node.Width == 0 {
		return 0, false
	}
	switch node.Kind {
	case types.KindInt:
		return p.ConstID(typeID, intLiteralWords(0, node.Width, node.Signed)...), true
	case types.KindFloat:
		return floatConstID(p, typeID, node.Width, 0), true
	}
	return 0, false
}

// strengthReduce rewrites scalar integer multiplies by powers of two
// into left shifts, unsigned divides into right shifts, and unsigned
// modulos into masks. Signed division keeps its rounding toward zero
// and is left alone.
func strengthReduce(p *Program) int {
	n := 0
	limit := len(p.Insts)
	for i := 0; i < limit; i++ {
		if p.dead[i] {
			continue
		}
		in := &p.Insts[i]
		if len(in.Operands) != 2 {
			continue
		}
		op := in.Opcode
		if op != spirv.OpIMul && op != spirv.OpUDiv && op != spirv.OpUMod {
			continue
		}
		node, ok := p.TypeOf(in.ResultType)
		if !ok || node.Kind != types.KindInt || node.Width == 0 {
			continue
		}
		a, b := p.Resolve(in.Operands[0]), p.Resolve(in.Operands[1])
		value := a
		v, isPow2 := powerOfTwo(p, b)
		if !isPow2 && op == spirv.OpIMul {
			if v2, ok2 := powerOfTwo(p, a); ok2 {
				value, v, isPow2 = b, v2, true
			}
		}
		if !isPow2 {
			continue
		}
		shift := uint64(bits.TrailingZeros64(v))
		rt := in.ResultType
		var newOp spirv.OpCode
		var operand uint32
		switch op {
		case spirv.OpIMul:
			newOp = spirv.OpShiftLeftLogical
			operand = p.ConstID(rt, intLiteralWords(shift, node.Width, node.Signed)...)
		case spirv.OpUDiv:
			newOp = spirv.OpShiftRightLogical
			operand = p.ConstID(rt, intLiteralWords(shift, node.Width, node.Signed)...)
		case spirv.OpUMod:
			newOp = spirv.OpBitwiseAnd
			operand = p.ConstID(rt, intLiteralWords(v-1, node.Width, node.Signed)...)
		}
		// ConstID may grow the stream; re-take the pointer before
		// writing through it.
		in = &p.Insts[i]
		in.Opcode = newOp
		in.Operands = []uint32{value, operand}
		n++
	}
	return n
}

// powerOfTwo reports the value of a scalar integer constant that is a
// power of two greater than one.
func powerOfTwo(p *Program, id uint32) (uint64, bool) {
	c, ok := p.ConstantOf(id)
	if !ok || c.Kind != types.KindInt || c.Width == 0 {
		return 0, false
	}
	v := maskWidth(c.Uint(), c.Width)
	if v < 2 || v&(v-1) != 0 {
		return 0, false
	}
	return v, true
}
