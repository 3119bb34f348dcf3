// Package types maintains the type and constant metadata of a decoded
// SPIR-V module: a registry of type declarations keyed by result id, a
// registry of scalar constants, layout computation under the four
// buffer layout standards, and trackers for decorations and resource
// bindings.
package types

import "github.com/gogpu/spv/spirv"

// Kind tags a type node's structural class.
type Kind uint8

const (
	KindVoid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindVector
	KindMatrix
	KindArray
	KindRuntimeArray
	KindStruct
	KindPointer
	KindFunction
	KindImage
	KindSampler
	KindSampledImage
)

var kindNames = [...]string{
	KindVoid:         "void",
	KindBool:         "bool",
	KindInt:          "int",
	KindFloat:        "float",
	KindVector:       "vector",
	KindMatrix:       "matrix",
	KindArray:        "array",
	KindRuntimeArray: "runtime array",
	KindStruct:       "struct",
	KindPointer:      "pointer",
	KindFunction:     "function",
	KindImage:        "image",
	KindSampler:      "sampler",
	KindSampledImage: "sampled image",
}

// String returns the kind's name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node describes one declared type. Field meaning depends on Kind:
// Width/Signed for scalars; Component is the component type for
// vectors, the column type for matrices, the element type for arrays,
// the pointee for pointers, the return type for functions, and the
// sampled or image type for image kinds. Count is the component count
// for vectors and the resolved element count for arrays; Columns is
// the matrix column count. Members lists struct member type ids (or
// function parameter types).
type Node struct {
	ID        uint32
	Kind      Kind
	Width     uint32
	Signed    bool
	Component uint32
	Columns   uint32
	Count     uint32
	Members   []uint32
	Storage   spirv.StorageClass
}

// Scalar reports whether the node is a numeric or boolean scalar.
func (n *Node) Scalar() bool {
	return n.Kind == KindBool || n.Kind == KindInt || n.Kind == KindFloat
}

// Aggregate reports whether the node is laid out from constituents.
func (n *Node) Aggregate() bool {
	switch n.Kind {
	case KindMatrix, KindArray, KindRuntimeArray, KindStruct:
		return true
	}
	return false
}

// Registry holds the type declarations of one module, keyed by result
// id. Ids need not be dense; translation may add nodes past the
// original bound.
type Registry struct {
	nodes map[uint32]*Node
	order []uint32
}

// NewRegistry creates an empty type registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes: make(map[uint32]*Node, 16),
		order: make([]uint32, 0, 16),
	}
}

// Collect registers the instruction's type declaration, if it is one,
// and reports whether it was consumed. Array lengths are resolved
// through consts, so constants must be collected alongside types in
// the same forward pass; an unresolvable length reads as zero.
func (r *Registry) Collect(in *spirv.Instruction, consts *ConstantRegistry) bool {
	node := Node{ID: in.ResultID}
	ops := in.Operands

	switch in.Opcode {
	case spirv.OpTypeVoid:
		node.Kind = KindVoid
	case spirv.OpTypeBool:
		node.Kind = KindBool
		node.Width = 32
	case spirv.OpTypeInt:
		if len(ops) < 2 {
			return false
		}
		node.Kind = KindInt
		node.Width = ops[0]
		node.Signed = ops[1] != 0
	case spirv.OpTypeFloat:
		if len(ops) < 1 {
			return false
		}
		node.Kind = KindFloat
		node.Width = ops[0]
	case spirv.OpTypeVector:
		if len(ops) < 2 {
			return false
		}
		node.Kind = KindVector
		node.Component = ops[0]
		node.Count = ops[1]
	case spirv.OpTypeMatrix:
		if len(ops) < 2 {
			return false
		}
		node.Kind = KindMatrix
		node.Component = ops[0]
		node.Columns = ops[1]
	case spirv.OpTypeArray:
		if len(ops) < 2 {
			return false
		}
		node.Kind = KindArray
		node.Component = ops[0]
		if consts != nil {
			if length, ok := consts.Uint(ops[1]); ok {
				node.Count = uint32(length)
			}
		}
	case spirv.OpTypeRuntimeArray:
		if len(ops) < 1 {
			return false
		}
		node.Kind = KindRuntimeArray
		node.Component = ops[0]
	case spirv.OpTypeStruct:
		node.Kind = KindStruct
		node.Members = append([]uint32(nil), ops...)
	case spirv.OpTypePointer:
		if len(ops) < 2 {
			return false
		}
		node.Kind = KindPointer
		node.Storage = spirv.StorageClass(ops[0])
		node.Component = ops[1]
	case spirv.OpTypeFunction:
		if len(ops) < 1 {
			return false
		}
		node.Kind = KindFunction
		node.Component = ops[0]
		node.Members = append([]uint32(nil), ops[1:]...)
	case spirv.OpTypeImage:
		if len(ops) < 1 {
			return false
		}
		node.Kind = KindImage
		node.Component = ops[0]
		if len(ops) > 1 {
			node.Columns = ops[1] // dimensionality
		}
		if len(ops) > 5 {
			node.Count = ops[5] // sampled indicator: 1 sampled, 2 storage
		}
	case spirv.OpTypeSampler:
		node.Kind = KindSampler
	case spirv.OpTypeSampledImage:
		if len(ops) < 1 {
			return false
		}
		node.Kind = KindSampledImage
		node.Component = ops[0]
	default:
		return false
	}

	r.Put(node)
	return true
}

// Put registers a node, replacing any previous node with the same id.
func (r *Registry) Put(node Node) {
	if _, exists := r.nodes[node.ID]; !exists {
		r.order = append(r.order, node.ID)
	}
	stored := node
	r.nodes[node.ID] = &stored
}

// Lookup finds a type node by id.
func (r *Registry) Lookup(id uint32) (*Node, bool) {
	node, ok := r.nodes[id]
	return node, ok
}

// Count returns the number of registered types.
func (r *Registry) Count() int {
	return len(r.nodes)
}

// ForEach visits every node in declaration order.
func (r *Registry) ForEach(fn func(*Node)) {
	for _, id := range r.order {
		fn(r.nodes[id])
	}
}

// FindInt returns the id of a declared integer type with the given
// width and signedness.
func (r *Registry) FindInt(width uint32, signed bool) (uint32, bool) {
	for _, id := range r.order {
		n := r.nodes[id]
		if n.Kind == KindInt && n.Width == width && n.Signed == signed {
			return id, true
		}
	}
	return 0, false
}

// FindFloat returns the id of a declared float type with the given
// width.
func (r *Registry) FindFloat(width uint32) (uint32, bool) {
	for _, id := range r.order {
		n := r.nodes[id]
		if n.Kind == KindFloat && n.Width == width {
			return id, true
		}
	}
	return 0, false
}

// Collection bundles the metadata registries populated in one pass
// over a decoded module.
type Collection struct {
	Types       *Registry
	Constants   *ConstantRegistry
	Decorations *DecorationTracker
	Descriptors *DescriptorTracker
}

// Collect gathers types, constants, decorations, and resources from a
// decoded instruction stream. Declarations resolve forward references
// through module order: constants precede the array types that use
// them, so a single pass suffices.
func Collect(insts []spirv.Instruction) *Collection {
	col := &Collection{
		Types:       NewRegistry(),
		Constants:   NewConstantRegistry(),
		Decorations: NewDecorationTracker(),
		Descriptors: NewDescriptorTracker(),
	}
	for i := range insts {
		in := &insts[i]
		if col.Decorations.Collect(in) {
			continue
		}
		if col.Constants.Collect(in, col.Types) {
			continue
		}
		if col.Types.Collect(in, col.Constants) {
			continue
		}
		col.Descriptors.Collect(in)
	}
	col.Descriptors.Resolve(col.Types, col.Decorations)
	return col
}

// Layout returns a calculator over the collection for one standard.
func (c *Collection) Layout(std Standard) *Calculator {
	return NewCalculator(c.Types, c.Decorations, std)
}
