package types

import "github.com/gogpu/spv/spirv"

// Standard selects one of the four buffer layout rule sets.
type Standard uint8

const (
	// Std140 is the uniform-buffer layout: vectors pad to two or four
	// component slots, matrix columns and array strides round up to 16
	// bytes, and aggregate members and struct alignment are floored at
	// 16 bytes.
	Std140 Standard = iota
	// Std430 is the storage-buffer layout: vector padding as Std140
	// but without any 16-byte floors.
	Std430
	// Scalar aligns everything to its scalar component size.
	Scalar
	// Packed accumulates exact sizes with no padding at all.
	Packed
)

var standardNames = [...]string{
	Std140: "std140",
	Std430: "std430",
	Scalar: "scalar",
	Packed: "packed",
}

// String returns the standard's conventional name.
func (s Standard) String() string {
	if int(s) < len(standardNames) {
		return standardNames[s]
	}
	return "unknown"
}

// Layout is the computed byte layout of one type under one standard.
// Stride is the element stride for arrays and the column stride for
// matrices, zero otherwise.
type Layout struct {
	Size   uint32
	Align  uint32
	Stride uint32
}

// Calculator computes type layouts under a single standard, memoized
// per type id. Explicit Offset, ArrayStride, and MatrixStride
// decorations override the computed values when a tracker is given.
type Calculator struct {
	types   *Registry
	decos   *DecorationTracker
	std     Standard
	memo    map[uint32]Layout
	offsets map[uint32][]uint32
	active  map[uint32]bool
}

// NewCalculator creates a calculator over the registry for one
// standard. The decoration tracker may be nil.
func NewCalculator(types *Registry, decos *DecorationTracker, std Standard) *Calculator {
	return &Calculator{
		types:   types,
		decos:   decos,
		std:     std,
		memo:    make(map[uint32]Layout),
		offsets: make(map[uint32][]uint32),
		active:  make(map[uint32]bool),
	}
}

// Standard returns the standard the calculator computes under.
func (c *Calculator) Standard() Standard { return c.std }

// Size returns the type's byte size. Runtime arrays and opaque types
// report zero.
func (c *Calculator) Size(id uint32) uint32 {
	return c.layoutOf(id).Size
}

// Alignment returns the type's byte alignment, at least 1.
func (c *Calculator) Alignment(id uint32) uint32 {
	return c.layoutOf(id).Align
}

// ArrayStride returns the element stride of an array type, zero for
// any other kind.
func (c *Calculator) ArrayStride(id uint32) uint32 {
	if node, ok := c.types.Lookup(id); !ok ||
		(node.Kind != KindArray && node.Kind != KindRuntimeArray) {
		return 0
	}
	return c.layoutOf(id).Stride
}

// MatrixStride returns the column stride of a matrix type, zero for
// any other kind.
func (c *Calculator) MatrixStride(id uint32) uint32 {
	if node, ok := c.types.Lookup(id); !ok || node.Kind != KindMatrix {
		return 0
	}
	return c.layoutOf(id).Stride
}

// MemberOffset returns the byte offset of a struct member.
func (c *Calculator) MemberOffset(structID uint32, member int) uint32 {
	c.layoutOf(structID)
	offsets := c.offsets[structID]
	if member < 0 || member >= len(offsets) {
		return 0
	}
	return offsets[member]
}

// Of returns the full layout record for the type.
func (c *Calculator) Of(id uint32) Layout {
	return c.layoutOf(id)
}

// layoutOf memoizes the depth-first layout computation. A cyclic
// reference in malformed input resolves to a degenerate layout rather
// than recursing forever.
func (c *Calculator) layoutOf(id uint32) Layout {
	if l, ok := c.memo[id]; ok {
		return l
	}
	if c.active[id] {
		return Layout{Size: 0, Align: 1}
	}
	c.active[id] = true
	l := c.compute(id)
	delete(c.active, id)
	if l.Align == 0 {
		l.Align = 1
	}
	c.memo[id] = l
	return l
}

func (c *Calculator) compute(id uint32) Layout {
	node, ok := c.types.Lookup(id)
	if !ok {
		return Layout{Size: 0, Align: 1}
	}

	switch node.Kind {
	case KindBool:
		return c.scalarLayout(4)
	case KindInt, KindFloat:
		return c.scalarLayout(node.Width / 8)
	case KindVector:
		return c.vectorLayout(node)
	case KindMatrix:
		return c.matrixLayout(node)
	case KindArray, KindRuntimeArray:
		return c.arrayLayout(node)
	case KindStruct:
		return c.structLayout(node)
	case KindPointer:
		// Only physical-addressing pointers have a buffer layout;
		// they are 64-bit.
		if c.std == Packed {
			return Layout{Size: 8, Align: 1}
		}
		return Layout{Size: 8, Align: 8}
	default:
		// Void, functions, and opaque image types have no layout.
		return Layout{Size: 0, Align: 1}
	}
}

// scalarLayout widens sub-32-bit alignment to 4 bytes under the padded
// standards; sizes stay natural everywhere.
func (c *Calculator) scalarLayout(width uint32) Layout {
	if width == 0 {
		width = 4
	}
	align := width
	switch c.std {
	case Std140, Std430:
		if align < 4 {
			align = 4
		}
	case Packed:
		align = 1
	}
	return Layout{Size: width, Align: align}
}

func (c *Calculator) vectorLayout(node *Node) Layout {
	comp := c.layoutOf(node.Component)
	size := comp.Size * node.Count

	var align uint32
	switch c.std {
	case Std140, Std430:
		if node.Count == 2 {
			align = comp.Size * 2
		} else {
			align = comp.Size * 4
		}
	case Scalar:
		align = comp.Align
	default:
		align = 1
	}
	return Layout{Size: size, Align: align}
}

func (c *Calculator) matrixLayout(node *Node) Layout {
	col := c.layoutOf(node.Component)

	var stride, align uint32
	switch c.std {
	case Std140:
		// Each column occupies a full four-component slot, never
		// narrower than 16 bytes.
		slot := 4 * c.componentSize(node.Component)
		if slot < 16 {
			slot = 16
		}
		stride = roundUp(col.Size, slot)
		if stride == 0 {
			stride = slot
		}
		align = slot
	case Std430:
		stride = roundUp(col.Size, col.Align)
		align = col.Align
	case Scalar:
		stride = col.Size
		align = col.Align
	default:
		stride = col.Size
		align = 1
	}
	return Layout{Size: stride * node.Columns, Align: align, Stride: stride}
}

// componentSize resolves a vector type id to its scalar component
// size, defaulting to 4 when the chain is incomplete.
func (c *Calculator) componentSize(vectorID uint32) uint32 {
	if node, ok := c.types.Lookup(vectorID); ok {
		if comp := c.layoutOf(node.Component); comp.Size > 0 {
			return comp.Size
		}
	}
	return 4
}

func (c *Calculator) arrayLayout(node *Node) Layout {
	elem := c.layoutOf(node.Component)

	var stride, align uint32
	switch c.std {
	case Std140:
		align = elem.Align
		if align < 16 {
			align = 16
		}
		stride = roundUp(elem.Size, align)
	case Std430, Scalar:
		align = elem.Align
		stride = roundUp(elem.Size, align)
	default:
		align = 1
		stride = elem.Size
	}

	if c.decos != nil {
		if s, ok := c.decos.First(node.ID, spirv.DecorationArrayStride); ok {
			stride = s
		}
	}

	var size uint32
	if node.Kind == KindArray {
		size = stride * node.Count
	}
	return Layout{Size: size, Align: align, Stride: stride}
}

//nolint:gocognit // Member iteration handles three decoration overrides in one walk.
func (c *Calculator) structLayout(node *Node) Layout {
	offsets := make([]uint32, len(node.Members))
	var running uint32
	maxAlign := uint32(1)

	for i, m := range node.Members {
		ml := c.layoutOf(m)
		mAlign := ml.Align
		mSize := ml.Size
		mNode, _ := c.types.Lookup(m)

		if c.std == Std140 && mNode != nil && mNode.Aggregate() && mAlign < 16 {
			mAlign = 16
		}

		if c.decos != nil && mNode != nil && mNode.Kind == KindMatrix {
			if ms, ok := c.decos.FirstMember(node.ID, uint32(i), spirv.DecorationMatrixStride); ok {
				count := mNode.Columns
				if c.decos.HasMember(node.ID, uint32(i), spirv.DecorationRowMajor) {
					// Row-major spans rows instead of columns; the row
					// count is the column vector's length.
					if colNode, found := c.types.Lookup(mNode.Component); found {
						count = colNode.Count
					}
				}
				mSize = ms * count
			}
		}

		offset := roundUp(running, mAlign)
		if c.decos != nil {
			if off, ok := c.decos.FirstMember(node.ID, uint32(i), spirv.DecorationOffset); ok {
				offset = off
			}
		}

		offsets[i] = offset
		running = offset + mSize
		if mAlign > maxAlign {
			maxAlign = mAlign
		}
	}

	if c.std == Std140 && len(node.Members) > 0 && maxAlign < 16 {
		maxAlign = 16
	}

	c.offsets[node.ID] = offsets
	return Layout{Size: roundUp(running, maxAlign), Align: maxAlign}
}

// roundUp rounds n up to the next multiple of align.
func roundUp(n, align uint32) uint32 {
	if align == 0 {
		return n
	}
	return (n + align - 1) / align * align
}
