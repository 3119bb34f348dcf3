package types

import "github.com/gogpu/spv/spirv"

// ResourceKind classifies what a module-scope variable binds.
type ResourceKind uint8

const (
	ResourceUniformBuffer ResourceKind = iota
	ResourceStorageBuffer
	ResourcePushConstant
	ResourceSampler
	ResourceSampledImage
	ResourceStorageImage
	ResourceInput
	ResourceOutput
	ResourceOther
)

var resourceKindNames = [...]string{
	ResourceUniformBuffer: "uniform buffer",
	ResourceStorageBuffer: "storage buffer",
	ResourcePushConstant:  "push constant",
	ResourceSampler:       "sampler",
	ResourceSampledImage:  "sampled image",
	ResourceStorageImage:  "storage image",
	ResourceInput:         "input",
	ResourceOutput:        "output",
	ResourceOther:         "other",
}

// String returns the kind's name.
func (k ResourceKind) String() string {
	if int(k) < len(resourceKindNames) {
		return resourceKindNames[k]
	}
	return "unknown"
}

// Resource describes one module-scope variable after resolution.
// Type is the pointee type id, not the pointer. Set and Binding are
// valid when HasBinding is set; Location when HasLocation is set.
type Resource struct {
	ID          uint32
	Name        string
	Kind        ResourceKind
	Set         uint32
	Binding     uint32
	HasBinding  bool
	Location    uint32
	HasLocation bool
	Type        uint32
	Storage     spirv.StorageClass
}

type bindingKey struct {
	set     uint32
	binding uint32
}

// DescriptorTracker collects module-scope variables and debug names
// during decoding, then resolves them against the type registry and
// decoration tracker into classified, binding-indexed resources.
type DescriptorTracker struct {
	resources []*Resource
	byID      map[uint32]*Resource
	byBinding map[bindingKey]*Resource
	names     map[uint32]string
}

// NewDescriptorTracker creates an empty tracker.
func NewDescriptorTracker() *DescriptorTracker {
	return &DescriptorTracker{
		byID:      make(map[uint32]*Resource),
		byBinding: make(map[bindingKey]*Resource),
		names:     make(map[uint32]string),
	}
}

// Collect records module-scope OpVariable declarations and OpName
// debug names, reporting whether the instruction was consumed.
// Function-local variables are not resources and are skipped.
func (t *DescriptorTracker) Collect(in *spirv.Instruction) bool {
	switch in.Opcode {
	case spirv.OpName:
		if len(in.Operands) < 2 {
			return false
		}
		name, _, err := spirv.DecodeString(in.Operands[1:])
		if err != nil {
			return false
		}
		t.names[in.Operands[0]] = name
		return true

	case spirv.OpVariable:
		if len(in.Operands) < 1 {
			return false
		}
		storage := spirv.StorageClass(in.Operands[0])
		if storage == spirv.StorageClassFunction {
			return false
		}
		r := &Resource{
			ID:      in.ResultID,
			Type:    in.ResultType, // pointer id until Resolve
			Storage: storage,
		}
		t.resources = append(t.resources, r)
		t.byID[in.ResultID] = r
		return true
	}
	return false
}

// Resolve classifies every collected variable, attaches names and
// binding decorations, and builds the (set, binding) index. Call it
// once after the full module has been collected.
func (t *DescriptorTracker) Resolve(types *Registry, decos *DecorationTracker) {
	for _, r := range t.resources {
		r.Name = t.names[r.ID]

		// Unwrap the pointer type to the pointee.
		if ptr, ok := types.Lookup(r.Type); ok && ptr.Kind == KindPointer {
			r.Type = ptr.Component
		}

		if decos != nil {
			if b, ok := decos.First(r.ID, spirv.DecorationBinding); ok {
				r.Binding = b
				r.HasBinding = true
			}
			if s, ok := decos.First(r.ID, spirv.DecorationDescriptorSet); ok {
				r.Set = s
			}
			if l, ok := decos.First(r.ID, spirv.DecorationLocation); ok {
				r.Location = l
				r.HasLocation = true
			}
		}

		r.Kind = classify(r, types, decos)

		if r.HasBinding {
			t.byBinding[bindingKey{r.Set, r.Binding}] = r
		}
	}
}

func classify(r *Resource, types *Registry, decos *DecorationTracker) ResourceKind {
	switch r.Storage {
	case spirv.StorageClassInput:
		return ResourceInput
	case spirv.StorageClassOutput:
		return ResourceOutput
	case spirv.StorageClassPushConstant:
		return ResourcePushConstant
	case spirv.StorageClassStorageBuffer:
		return ResourceStorageBuffer
	case spirv.StorageClassUniform:
		// Pre-1.3 modules mark storage buffers as BufferBlock structs
		// in the Uniform class.
		if decos != nil && decos.Has(r.Type, spirv.DecorationBufferBlock) {
			return ResourceStorageBuffer
		}
		return ResourceUniformBuffer
	case spirv.StorageClassUniformConstant:
		if node, ok := types.Lookup(r.Type); ok {
			switch node.Kind {
			case KindSampler:
				return ResourceSampler
			case KindSampledImage:
				return ResourceSampledImage
			case KindImage:
				if node.Count == 2 {
					return ResourceStorageImage
				}
				return ResourceSampledImage
			}
		}
	}
	return ResourceOther
}

// At returns the resource bound at (set, binding).
func (t *DescriptorTracker) At(set, binding uint32) (*Resource, bool) {
	r, ok := t.byBinding[bindingKey{set, binding}]
	return r, ok
}

// ByID returns the resource declared by the variable id.
func (t *DescriptorTracker) ByID(id uint32) (*Resource, bool) {
	r, ok := t.byID[id]
	return r, ok
}

// Resources returns every collected resource in declaration order.
func (t *DescriptorTracker) Resources() []*Resource {
	return t.resources
}

// Name returns the debug name recorded for an id, or "".
func (t *DescriptorTracker) Name(id uint32) string {
	return t.names[id]
}
