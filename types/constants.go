package types

import (
	"math"

	"github.com/gogpu/spv/spirv"
)

// Constant records one scalar constant definition. Words holds the raw
// literal operand words (empty for boolean constants, whose value is
// in Bool). Spec marks specialization constants, whose recorded value
// is the default and may be overridden at pipeline creation.
type Constant struct {
	ID     uint32
	Type   uint32
	Kind   Kind
	Width  uint32
	Signed bool
	Words  []uint32
	Bool   bool
	Spec   bool
}

// Uint returns the constant's raw value zero-extended to 64 bits.
func (c *Constant) Uint() uint64 {
	switch len(c.Words) {
	case 0:
		if c.Bool {
			return 1
		}
		return 0
	case 1:
		return uint64(c.Words[0])
	default:
		return uint64(c.Words[0]) | uint64(c.Words[1])<<32
	}
}

// Int returns the constant's value sign-extended to 64 bits. Literals
// narrower than a word arrive already sign-extended, so one word is
// always a complete 32-bit value.
func (c *Constant) Int() int64 {
	if len(c.Words) >= 2 {
		return int64(c.Uint())
	}
	if len(c.Words) == 0 {
		return int64(c.Uint())
	}
	return int64(int32(c.Words[0]))
}

// Float returns the constant's value as a float64. The second result
// is false when the constant is not a 32- or 64-bit float.
func (c *Constant) Float() (float64, bool) {
	if c.Kind != KindFloat {
		return 0, false
	}
	switch c.Width {
	case 32:
		if len(c.Words) < 1 {
			return 0, false
		}
		return float64(math.Float32frombits(c.Words[0])), true
	case 64:
		if len(c.Words) < 2 {
			return 0, false
		}
		return math.Float64frombits(c.Uint()), true
	}
	return 0, false
}

// constKey indexes a constant by its type and literal words for reuse
// lookups. Scalar literals never exceed two words.
type constKey struct {
	typ uint32
	w0  uint32
	w1  uint32
}

// ConstantRegistry holds the scalar constants of one module, keyed by
// result id.
type ConstantRegistry struct {
	consts map[uint32]*Constant
	byVal  map[constKey]uint32
	order  []uint32
}

// NewConstantRegistry creates an empty constant registry.
func NewConstantRegistry() *ConstantRegistry {
	return &ConstantRegistry{
		consts: make(map[uint32]*Constant, 16),
		byVal:  make(map[constKey]uint32, 16),
	}
}

// Collect registers the instruction's constant definition, if it is a
// scalar one, and reports whether it was consumed. The type registry
// supplies the scalar class and width; a constant whose type has not
// been collected is recorded with what the literal alone provides.
func (r *ConstantRegistry) Collect(in *spirv.Instruction, types *Registry) bool {
	c := Constant{ID: in.ResultID, Type: in.ResultType}

	switch in.Opcode {
	case spirv.OpConstantTrue:
		c.Kind, c.Width, c.Bool = KindBool, 32, true
	case spirv.OpConstantFalse:
		c.Kind, c.Width = KindBool, 32
	case spirv.OpSpecConstantTrue:
		c.Kind, c.Width, c.Bool, c.Spec = KindBool, 32, true, true
	case spirv.OpSpecConstantFalse:
		c.Kind, c.Width, c.Spec = KindBool, 32, true
	case spirv.OpConstant, spirv.OpSpecConstant:
		if len(in.Operands) == 0 {
			return false
		}
		c.Spec = in.Opcode == spirv.OpSpecConstant
		c.Words = append([]uint32(nil), in.Operands...)
		if types != nil {
			if node, ok := types.Lookup(in.ResultType); ok && node.Scalar() {
				c.Kind = node.Kind
				c.Width = node.Width
				c.Signed = node.Signed
			}
		}
	default:
		return false
	}

	r.Put(c)
	return true
}

// Put registers a constant, replacing any previous one with its id.
func (r *ConstantRegistry) Put(c Constant) {
	if _, exists := r.consts[c.ID]; !exists {
		r.order = append(r.order, c.ID)
	}
	stored := c
	r.consts[c.ID] = &stored
	if !c.Spec {
		r.byVal[keyOf(&stored)] = c.ID
	}
}

func keyOf(c *Constant) constKey {
	key := constKey{typ: c.Type}
	if len(c.Words) > 0 {
		key.w0 = c.Words[0]
	} else if c.Bool {
		key.w0 = 1
	}
	if len(c.Words) > 1 {
		key.w1 = c.Words[1]
	}
	return key
}

// Lookup finds a constant by id.
func (r *ConstantRegistry) Lookup(id uint32) (*Constant, bool) {
	c, ok := r.consts[id]
	return c, ok
}

// Count returns the number of registered constants.
func (r *ConstantRegistry) Count() int {
	return len(r.consts)
}

// ForEach visits every constant in declaration order.
func (r *ConstantRegistry) ForEach(fn func(*Constant)) {
	for _, id := range r.order {
		fn(r.consts[id])
	}
}

// Find returns the id of a non-specialization constant with the given
// type and literal words.
func (r *ConstantRegistry) Find(typeID uint32, words []uint32) (uint32, bool) {
	key := constKey{typ: typeID}
	if len(words) > 0 {
		key.w0 = words[0]
	}
	if len(words) > 1 {
		key.w1 = words[1]
	}
	id, ok := r.byVal[key]
	return id, ok
}

// Uint returns the constant's value zero-extended to 64 bits. It
// resolves specialization constants to their defaults, which is the
// established convention for array lengths.
func (r *ConstantRegistry) Uint(id uint32) (uint64, bool) {
	c, ok := r.consts[id]
	if !ok {
		return 0, false
	}
	return c.Uint(), true
}

// Literal returns the constant's value as a single 32-bit literal for
// rewriting id operands into literal operands. Specialization
// constants fail: their final value is not known at translation time.
func (r *ConstantRegistry) Literal(id uint32) (uint32, bool) {
	c, ok := r.consts[id]
	if !ok || c.Spec {
		return 0, false
	}
	return uint32(c.Uint()), true
}
