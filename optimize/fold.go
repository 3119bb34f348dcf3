package optimize

import (
	"math"

	"github.com/gogpu/spv/spirv"
	"github.com/gogpu/spv/types"
)

// foldConstants evaluates instructions whose operands are all known
// scalar constants and replaces their results with constant
// references. Definitions precede uses in a valid stream, so one
// forward sweep folds whole chains.
func foldConstants(p *Program) int {
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
		id, ok := foldInstruction(p, in)
		if !ok {
			continue
		}
		p.SetAlias(rid, id)
		p.MarkDead(i)
		n++
	}
	return n
}

func foldInstruction(p *Program, in *spirv.Instruction) (uint32, bool) {
	switch in.Opcode {
	case spirv.OpSNegate, spirv.OpNot:
		return foldIntUnary(p, in)
	case spirv.OpIAdd, spirv.OpISub, spirv.OpIMul,
		spirv.OpUDiv, spirv.OpSDiv, spirv.OpUMod, spirv.OpSRem, spirv.OpSMod,
		spirv.OpShiftLeftLogical, spirv.OpShiftRightLogical, spirv.OpShiftRightArithmetic,
		spirv.OpBitwiseAnd, spirv.OpBitwiseOr, spirv.OpBitwiseXor:
		return foldIntBinary(p, in)
	case spirv.OpIEqual, spirv.OpINotEqual,
		spirv.OpUGreaterThan, spirv.OpSGreaterThan,
		spirv.OpUGreaterThanEqual, spirv.OpSGreaterThanEqual,
		spirv.OpULessThan, spirv.OpSLessThan,
		spirv.OpULessThanEqual, spirv.OpSLessThanEqual:
		return foldIntCompare(p, in)
	case spirv.OpFNegate:
		return foldFloatUnary(p, in)
	case spirv.OpFAdd, spirv.OpFSub, spirv.OpFMul, spirv.OpFDiv,
		spirv.OpFRem, spirv.OpFMod:
		return foldFloatBinary(p, in)
	case spirv.OpFOrdEqual, spirv.OpFOrdNotEqual,
		spirv.OpFOrdLessThan, spirv.OpFOrdGreaterThan,
		spirv.OpFOrdLessThanEqual, spirv.OpFOrdGreaterThanEqual,
		spirv.OpFUnordEqual, spirv.OpFUnordNotEqual,
		spirv.OpFUnordLessThan, spirv.OpFUnordGreaterThan,
		spirv.OpFUnordLessThanEqual, spirv.OpFUnordGreaterThanEqual:
		return foldFloatCompare(p, in)
	case spirv.OpIsNan, spirv.OpIsInf:
		return foldFloatClass(p, in)
	case spirv.OpLogicalAnd, spirv.OpLogicalOr,
		spirv.OpLogicalEqual, spirv.OpLogicalNotEqual, spirv.OpLogicalNot:
		return foldLogical(p, in)
	case spirv.OpExtInst:
		return foldExtInst(p, in)
	}
	return 0, false
}

// maskWidth truncates a value to the given bit width.
func maskWidth(v uint64, width uint32) uint64 {
	if width >= 64 {
		return v
	}
	return v & (1<<width - 1)
}

// signExtendTo64 interprets the low width bits of v as signed.
func signExtendTo64(v uint64, width uint32) int64 {
	if width >= 64 {
		return int64(v)
	}
	shift := 64 - width
	return int64(v<<shift) >> shift
}

// minSigned returns the smallest signed value at the given width.
// Division and remainder of that value by -1 overflow and stay
// unfolded.
func minSigned(width uint32) int64 {
	return signExtendTo64(uint64(1)<<(width-1), width)
}

// intLiteralWords encodes an integer value as constant literal words:
// one word up to 32 bits, sign-extended for signed narrow types, two
// words beyond.
func intLiteralWords(v uint64, width uint32, signed bool) []uint32 {
	if width > 32 {
		return []uint32{uint32(v), uint32(v >> 32)}
	}
	w := uint32(v)
	if signed && width < 32 {
		w = uint32(signExtendTo64(v, width))
	}
	return []uint32{w}
}

// intConst fetches an integer constant operand at its declared width.
func intConst(p *Program, id uint32) (u uint64, s int64, width uint32, ok bool) {
	c, found := p.ConstantOf(id)
	if !found || c.Kind != types.KindInt || c.Width == 0 {
		return 0, 0, 0, false
	}
	u = maskWidth(c.Uint(), c.Width)
	return u, signExtendTo64(u, c.Width), c.Width, true
}

func foldIntUnary(p *Program, in *spirv.Instruction) (uint32, bool) {
	node, ok := p.TypeOf(in.ResultType)
	if !ok || node.Kind != types.KindInt || len(in.Operands) != 1 {
		return 0, false
	}
	ua, sa, _, ok := intConst(p, in.Operands[0])
	if !ok {
		return 0, false
	}
	var r uint64
	switch in.Opcode {
	case spirv.OpSNegate:
		r = uint64(-sa)
	case spirv.OpNot:
		r = ^ua
	default:
		return 0, false
	}
	r = maskWidth(r, node.Width)
	return p.ConstID(in.ResultType, intLiteralWords(r, node.Width, node.Signed)...), true
}

func foldIntBinary(p *Program, in *spirv.Instruction) (uint32, bool) {
	node, ok := p.TypeOf(in.ResultType)
	if !ok || node.Kind != types.KindInt || node.Width == 0 || len(in.Operands) != 2 {
		return 0, false
	}
	width := node.Width
	ua, sa, _, ok := intConst(p, in.Operands[0])
	if !ok {
		return 0, false
	}
	ub, sb, _, ok := intConst(p, in.Operands[1])
	if !ok {
		return 0, false
	}
	var r uint64
	switch in.Opcode {
	case spirv.OpIAdd:
		r = ua + ub
	case spirv.OpISub:
		r = ua - ub
	case spirv.OpIMul:
		r = ua * ub
	case spirv.OpUDiv:
		if ub == 0 {
			return 0, false
		}
		r = ua / ub
	case spirv.OpSDiv:
		if sb == 0 || (sb == -1 && sa == minSigned(width)) {
			return 0, false
		}
		r = uint64(sa / sb)
	case spirv.OpUMod:
		if ub == 0 {
			return 0, false
		}
		r = ua % ub
	case spirv.OpSRem:
		if sb == 0 || (sb == -1 && sa == minSigned(width)) {
			return 0, false
		}
		r = uint64(sa % sb)
	case spirv.OpSMod:
		if sb == 0 || (sb == -1 && sa == minSigned(width)) {
			return 0, false
		}
		m := sa % sb
		if m != 0 && (m < 0) != (sb < 0) {
			m += sb
		}
		r = uint64(m)
	case spirv.OpShiftLeftLogical:
		if ub >= uint64(width) {
			return 0, false
		}
		r = ua << ub
	case spirv.OpShiftRightLogical:
		if ub >= uint64(width) {
			return 0, false
		}
		r = ua >> ub
	case spirv.OpShiftRightArithmetic:
		if ub >= uint64(width) {
			return 0, false
		}
		r = uint64(sa >> ub)
	case spirv.OpBitwiseAnd:
		r = ua & ub
	case spirv.OpBitwiseOr:
		r = ua | ub
	case spirv.OpBitwiseXor:
		r = ua ^ ub
	default:
		return 0, false
	}
	r = maskWidth(r, width)
	return p.ConstID(in.ResultType, intLiteralWords(r, width, node.Signed)...), true
}

func foldIntCompare(p *Program, in *spirv.Instruction) (uint32, bool) {
	node, ok := p.TypeOf(in.ResultType)
	if !ok || node.Kind != types.KindBool || len(in.Operands) != 2 {
		return 0, false
	}
	ua, sa, wa, ok := intConst(p, in.Operands[0])
	if !ok {
		return 0, false
	}
	ub, sb, wb, ok := intConst(p, in.Operands[1])
	if !ok || wa != wb {
		return 0, false
	}
	var v bool
	switch in.Opcode {
	case spirv.OpIEqual:
		v = ua == ub
	case spirv.OpINotEqual:
		v = ua != ub
	case spirv.OpUGreaterThan:
		v = ua > ub
	case spirv.OpSGreaterThan:
		v = sa > sb
	case spirv.OpUGreaterThanEqual:
		v = ua >= ub
	case spirv.OpSGreaterThanEqual:
		v = sa >= sb
	case spirv.OpULessThan:
		v = ua < ub
	case spirv.OpSLessThan:
		v = sa < sb
	case spirv.OpULessThanEqual:
		v = ua <= ub
	case spirv.OpSLessThanEqual:
		v = sa <= sb
	default:
		return 0, false
	}
	return p.BoolConstID(in.ResultType, v), true
}

// floatConst fetches a float constant operand.
func floatConst(p *Program, id uint32) (float64, bool) {
	c, ok := p.ConstantOf(id)
	if !ok {
		return 0, false
	}
	return c.Float()
}

// floatConstID interns a float constant, rounding to the declared
// width.
func floatConstID(p *Program, typeID, width uint32, v float64) uint32 {
	if width == 32 {
		return p.ConstID(typeID, math.Float32bits(float32(v)))
	}
	bits := math.Float64bits(v)
	return p.ConstID(typeID, uint32(bits), uint32(bits>>32))
}

func foldFloatUnary(p *Program, in *spirv.Instruction) (uint32, bool) {
	node, ok := p.TypeOf(in.ResultType)
	if !ok || node.Kind != types.KindFloat || len(in.Operands) != 1 {
		return 0, false
	}
	fa, ok := floatConst(p, in.Operands[0])
	if !ok || in.Opcode != spirv.OpFNegate {
		return 0, false
	}
	return floatConstID(p, in.ResultType, node.Width, -fa), true
}

// foldFloatBinary evaluates at the declared width: 32-bit operands are
// computed in float32 so the folded value rounds exactly once, the way
// the target would.
func foldFloatBinary(p *Program, in *spirv.Instruction) (uint32, bool) {
	node, ok := p.TypeOf(in.ResultType)
	if !ok || node.Kind != types.KindFloat || len(in.Operands) != 2 {
		return 0, false
	}
	fa, ok := floatConst(p, in.Operands[0])
	if !ok {
		return 0, false
	}
	fb, ok := floatConst(p, in.Operands[1])
	if !ok {
		return 0, false
	}
	if node.Width == 32 {
		v, ok := evalFloat32(in.Opcode, float32(fa), float32(fb))
		if !ok {
			return 0, false
		}
		return p.ConstID(in.ResultType, math.Float32bits(v)), true
	}
	v, ok := evalFloat64(in.Opcode, fa, fb)
	if !ok {
		return 0, false
	}
	bits := math.Float64bits(v)
	return p.ConstID(in.ResultType, uint32(bits), uint32(bits>>32)), true
}

func evalFloat64(op spirv.OpCode, a, b float64) (float64, bool) {
	switch op {
	case spirv.OpFAdd:
		return a + b, true
	case spirv.OpFSub:
		return a - b, true
	case spirv.OpFMul:
		return a * b, true
	case spirv.OpFDiv:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case spirv.OpFRem:
		if b == 0 {
			return 0, false
		}
		return math.Mod(a, b), true
	case spirv.OpFMod:
		if b == 0 {
			return 0, false
		}
		m := math.Mod(a, b)
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return m, true
	}
	return 0, false
}

func evalFloat32(op spirv.OpCode, a, b float32) (float32, bool) {
	switch op {
	case spirv.OpFAdd:
		return a + b, true
	case spirv.OpFSub:
		return a - b, true
	case spirv.OpFMul:
		return a * b, true
	case spirv.OpFDiv:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case spirv.OpFRem, spirv.OpFMod:
		// The exact remainder of two float32 values is representable
		// in float64, so the wide path rounds correctly.
		v, ok := evalFloat64(op, float64(a), float64(b))
		return float32(v), ok
	}
	return 0, false
}

func foldFloatCompare(p *Program, in *spirv.Instruction) (uint32, bool) {
	node, ok := p.TypeOf(in.ResultType)
	if !ok || node.Kind != types.KindBool || len(in.Operands) != 2 {
		return 0, false
	}
	fa, ok := floatConst(p, in.Operands[0])
	if !ok {
		return 0, false
	}
	fb, ok := floatConst(p, in.Operands[1])
	if !ok {
		return 0, false
	}
	ordered := !math.IsNaN(fa) && !math.IsNaN(fb)
	var v bool
	switch in.Opcode {
	case spirv.OpFOrdEqual:
		v = ordered && fa == fb
	case spirv.OpFOrdNotEqual:
		v = ordered && fa != fb
	case spirv.OpFOrdLessThan:
		v = ordered && fa < fb
	case spirv.OpFOrdGreaterThan:
		v = ordered && fa > fb
	case spirv.OpFOrdLessThanEqual:
		v = ordered && fa <= fb
	case spirv.OpFOrdGreaterThanEqual:
		v = ordered && fa >= fb
	case spirv.OpFUnordEqual:
		v = !ordered || fa == fb
	case spirv.OpFUnordNotEqual:
		v = !ordered || fa != fb
	case spirv.OpFUnordLessThan:
		v = !ordered || fa < fb
	case spirv.OpFUnordGreaterThan:
		v = !ordered || fa > fb
	case spirv.OpFUnordLessThanEqual:
		v = !ordered || fa <= fb
	case spirv.OpFUnordGreaterThanEqual:
		v = !ordered || fa >= fb
	default:
		return 0, false
	}
	return p.BoolConstID(in.ResultType, v), true
}

func foldFloatClass(p *Program, in *spirv.Instruction) (uint32, bool) {
	node, ok := p.TypeOf(in.ResultType)
	if !ok || node.Kind != types.KindBool || len(in.Operands) != 1 {
		return 0, false
	}
	fa, ok := floatConst(p, in.Operands[0])
	if !ok {
		return 0, false
	}
	var v bool
	switch in.Opcode {
	case spirv.OpIsNan:
		v = math.IsNaN(fa)
	case spirv.OpIsInf:
		v = math.IsInf(fa, 0)
	default:
		return 0, false
	}
	return p.BoolConstID(in.ResultType, v), true
}

func foldLogical(p *Program, in *spirv.Instruction) (uint32, bool) {
	node, ok := p.TypeOf(in.ResultType)
	if !ok || node.Kind != types.KindBool || len(in.Operands) == 0 {
		return 0, false
	}
	a, ok := p.ConstantOf(in.Operands[0])
	if !ok || a.Kind != types.KindBool {
		return 0, false
	}
	if in.Opcode == spirv.OpLogicalNot {
		if len(in.Operands) != 1 {
			return 0, false
		}
		return p.BoolConstID(in.ResultType, !a.Bool), true
	}
	if len(in.Operands) != 2 {
		return 0, false
	}
	b, ok := p.ConstantOf(in.Operands[1])
	if !ok || b.Kind != types.KindBool {
		return 0, false
	}
	var v bool
	switch in.Opcode {
	case spirv.OpLogicalAnd:
		v = a.Bool && b.Bool
	case spirv.OpLogicalOr:
		v = a.Bool || b.Bool
	case spirv.OpLogicalEqual:
		v = a.Bool == b.Bool
	case spirv.OpLogicalNotEqual:
		v = a.Bool != b.Bool
	default:
		return 0, false
	}
	return p.BoolConstID(in.ResultType, v), true
}

// GLSL.std.450 scalar evaluators, keyed by extended instruction
// number.
var glslUnary = map[uint32]func(float64) float64{
	spirv.GLSLstd450Round:     math.Round,
	spirv.GLSLstd450RoundEven: math.RoundToEven,
	spirv.GLSLstd450Trunc:     math.Trunc,
	spirv.GLSLstd450FAbs:      math.Abs,
	spirv.GLSLstd450FSign:     floatSign,
	spirv.GLSLstd450Floor:     math.Floor,
	spirv.GLSLstd450Ceil:      math.Ceil,
	spirv.GLSLstd450Fract:     func(x float64) float64 { return x - math.Floor(x) },
	spirv.GLSLstd450Radians:   func(x float64) float64 { return x * (math.Pi / 180) },
	spirv.GLSLstd450Degrees:   func(x float64) float64 { return x * (180 / math.Pi) },
	spirv.GLSLstd450Sin:       math.Sin,
	spirv.GLSLstd450Cos:       math.Cos,
	spirv.GLSLstd450Tan:       math.Tan,
	spirv.GLSLstd450Asin:      math.Asin,
	spirv.GLSLstd450Acos:      math.Acos,
	spirv.GLSLstd450Atan:      math.Atan,
	spirv.GLSLstd450Sinh:      math.Sinh,
	spirv.GLSLstd450Cosh:      math.Cosh,
	spirv.GLSLstd450Tanh:      math.Tanh,
	spirv.GLSLstd450Exp:       math.Exp,
	spirv.GLSLstd450Log:       math.Log,
	spirv.GLSLstd450Exp2:      math.Exp2,
	spirv.GLSLstd450Log2:      math.Log2,
	spirv.GLSLstd450Sqrt:      math.Sqrt,
	spirv.GLSLstd450InverseSqrt: func(x float64) float64 {
		return 1 / math.Sqrt(x)
	},
}

var glslBinary = map[uint32]func(a, b float64) float64{
	spirv.GLSLstd450Atan2: math.Atan2,
	spirv.GLSLstd450Pow:   math.Pow,
	spirv.GLSLstd450FMin:  math.Min,
	spirv.GLSLstd450FMax:  math.Max,
	spirv.GLSLstd450Step: func(edge, x float64) float64 {
		if x < edge {
			return 0
		}
		return 1
	},
}

var glslTernary = map[uint32]func(a, b, c float64) float64{
	spirv.GLSLstd450FClamp: func(x, lo, hi float64) float64 {
		return math.Min(math.Max(x, lo), hi)
	},
	spirv.GLSLstd450FMix: func(x, y, a float64) float64 {
		return x*(1-a) + y*a
	},
	spirv.GLSLstd450SmoothStep: func(e0, e1, x float64) float64 {
		t := math.Min(math.Max((x-e0)/(e1-e0), 0), 1)
		return t * t * (3 - 2*t)
	},
	spirv.GLSLstd450Fma: math.FMA,
}

func floatSign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return x
}

// foldExtInst evaluates scalar GLSL.std.450 calls on constant
// arguments.
func foldExtInst(p *Program, in *spirv.Instruction) (uint32, bool) {
	ops := in.Operands
	if len(ops) < 3 || !p.glsl[p.Resolve(ops[0])] {
		return 0, false
	}
	node, ok := p.TypeOf(in.ResultType)
	if !ok {
		return 0, false
	}
	inst := ops[1]
	args := ops[2:]
	switch node.Kind {
	case types.KindFloat:
		return foldGLSLFloat(p, in.ResultType, node.Width, inst, args)
	case types.KindInt:
		return foldGLSLInt(p, in.ResultType, node, inst, args)
	}
	return 0, false
}

func foldGLSLFloat(p *Program, typeID, width, inst uint32, args []uint32) (uint32, bool) {
	vals := make([]float64, len(args))
	for i, id := range args {
		v, ok := floatConst(p, id)
		if !ok {
			return 0, false
		}
		vals[i] = v
	}
	var r float64
	switch len(vals) {
	case 1:
		fn, ok := glslUnary[inst]
		if !ok {
			return 0, false
		}
		r = fn(vals[0])
	case 2:
		fn, ok := glslBinary[inst]
		if !ok {
			return 0, false
		}
		r = fn(vals[0], vals[1])
	case 3:
		fn, ok := glslTernary[inst]
		if !ok {
			return 0, false
		}
		r = fn(vals[0], vals[1], vals[2])
	default:
		return 0, false
	}
	return floatConstID(p, typeID, width, r), true
}

func foldGLSLInt(p *Program, typeID uint32, node *types.Node, inst uint32, args []uint32) (uint32, bool) {
	width := node.Width
	if width == 0 {
		return 0, false
	}
	us := make([]uint64, len(args))
	ss := make([]int64, len(args))
	for i, id := range args {
		u, _, _, ok := intConst(p, id)
		if !ok {
			return 0, false
		}
		us[i] = maskWidth(u, width)
		ss[i] = signExtendTo64(us[i], width)
	}
	var r uint64
	switch inst {
	case spirv.GLSLstd450SAbs:
		if len(ss) != 1 {
			return 0, false
		}
		v := ss[0]
		if v < 0 {
			v = -v
		}
		r = uint64(v)
	case spirv.GLSLstd450SSign:
		if len(ss) != 1 {
			return 0, false
		}
		switch {
		case ss[0] > 0:
			r = 1
		case ss[0] < 0:
			r = ^uint64(0)
		}
	case spirv.GLSLstd450SMin:
		if len(ss) != 2 {
			return 0, false
		}
		r = uint64(min(ss[0], ss[1]))
	case spirv.GLSLstd450SMax:
		if len(ss) != 2 {
			return 0, false
		}
		r = uint64(max(ss[0], ss[1]))
	case spirv.GLSLstd450UMin:
		if len(us) != 2 {
			return 0, false
		}
		r = min(us[0], us[1])
	case spirv.GLSLstd450UMax:
		if len(us) != 2 {
			return 0, false
		}
		r = max(us[0], us[1])
	case spirv.GLSLstd450SClamp:
		if len(ss) != 3 {
			return 0, false
		}
		r = uint64(min(max(ss[0], ss[1]), ss[2]))
	case spirv.GLSLstd450UClamp:
		if len(us) != 3 {
			return 0, false
		}
		r = min(max(us[0], us[1]), us[2])
	default:
		return 0, false
	}
	r = maskWidth(r, width)
	return p.ConstID(typeID, intLiteralWords(r, width, node.Signed)...), true
}

// propagateConstants forwards values through copies, single-value
// phis, bitcasts of constants, and extracts from constant composites.
func propagateConstants(p *Program) int {
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
		id, ok := propagateInstruction(p, in)
		if !ok {
			continue
		}
		p.SetAlias(rid, id)
		p.MarkDead(i)
		n++
	}
	return n
}

func propagateInstruction(p *Program, in *spirv.Instruction) (uint32, bool) {
	ops := in.Operands
	switch in.Opcode {
	case spirv.OpCopyObject:
		if len(ops) != 1 {
			return 0, false
		}
		return p.Resolve(ops[0]), true
	case spirv.OpPhi:
		if len(ops) < 2 {
			return 0, false
		}
		first := p.Resolve(ops[0])
		if first == in.ResultID {
			return 0, false
		}
		for k := 2; k+1 < len(ops); k += 2 {
			if p.Resolve(ops[k]) != first {
				return 0, false
			}
		}
		return first, true
	case spirv.OpBitcast:
		if len(ops) != 1 {
			return 0, false
		}
		c, ok := p.ConstantOf(ops[0])
		if !ok || c.Kind == types.KindBool {
			return 0, false
		}
		node, found := p.TypeOf(in.ResultType)
		if !found || !node.Scalar() || node.Kind == types.KindBool || node.Width != c.Width {
			return 0, false
		}
		return p.ConstID(in.ResultType, c.Words...), true
	case spirv.OpCompositeExtract:
		if len(ops) < 2 {
			return 0, false
		}
		id := ops[0]
		for _, idx := range ops[1:] {
			di, ok := p.Def(id)
			if !ok {
				return 0, false
			}
			def := &p.Insts[di]
			if def.Opcode != spirv.OpConstantComposite || int(idx) >= len(def.Operands) {
				return 0, false
			}
			id = def.Operands[idx]
		}
		return p.Resolve(id), true
	}
	return 0, false
}
