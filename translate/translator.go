package translate

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/spv/spirv"
	"github.com/gogpu/spv/types"
)

// Options configure a Translator.
type Options struct {
	// Target is the version the module is lowered to.
	Target spirv.Version
	// Strict records every instruction dropped as unsupported in the
	// report's findings instead of only counting it.
	Strict bool
}

// DefaultOptions targets SPIR-V 1.3.
func DefaultOptions() Options {
	return Options{Target: spirv.Version1_3}
}

// Report summarizes what one translation did to the module.
type Report struct {
	// Processed counts the instructions examined.
	Processed int
	// Emulated counts instructions replaced by equivalent sequences.
	Emulated int
	// Substituted counts instructions rewritten onto extension opcodes.
	Substituted int
	// Dropped counts instructions omitted from the output.
	Dropped int
	// Warnings counts best-effort fallbacks: instructions kept verbatim
	// after a rewrite failed. The output may not validate at the target.
	Warnings int
	// NeedsValidation counts instructions passed through unchanged
	// because no equivalent exists; the consumer must decide whether
	// its environment accepts them.
	NeedsValidation int
	// Extensions lists the extensions the output module now declares,
	// in order of first need.
	Extensions []string
	// Findings holds per-instruction detail for dropped unsupported
	// instructions. Populated only under Options.Strict.
	Findings []spirv.ValidationError
}

// Translator lowers modules to a fixed target version.
//
// A Translator is stateless between calls; one instance may translate
// any number of modules, though not concurrently from multiple
// goroutines.
type Translator struct {
	opts Options
	dec  spirv.Decoder
}

// New returns a translator with the given options.
func New(opts Options) *Translator {
	return &Translator{opts: opts}
}

// Translate lowers the module to the configured target version.
//
// Modules whose version is at or below the target take a fast path
// that copies the input and rewrites only the header's version word.
// Newer modules are re-encoded in two passes: the first collects the
// type and constant metadata emulation needs, the second dispatches
// every instruction through the strategy table.
func (t *Translator) Translate(module []byte) ([]byte, Report, error) {
	var rep Report
	ordinal := t.opts.Target.Ordinal()
	if ordinal < 0 {
		return nil, rep, fmt.Errorf("translate: unknown target version %s", t.opts.Target)
	}
	if err := t.dec.SetInput(module); err != nil {
		return nil, rep, fmt.Errorf("decode error: %w", err)
	}
	source := t.dec.Header().Version
	if source.Ordinal() <= ordinal {
		return t.retarget(module), rep, nil
	}

	reg := types.NewRegistry()
	consts := types.NewConstantRegistry()
	for t.dec.HasMore() {
		in, err := t.dec.Decode()
		if err != nil {
			return nil, rep, fmt.Errorf("collect pass: %w", err)
		}
		if in == nil {
			break
		}
		if !reg.Collect(in, consts) {
			consts.Collect(in, reg)
		}
	}

	out := spirv.NewModuleBuilder(t.opts.Target)
	out.Reserve(t.dec.Header().Bound)
	emitter := NewEmitter(reg, consts, out)

	t.dec.Rewind()
	for t.dec.HasMore() {
		in, err := t.dec.Decode()
		if err != nil {
			return nil, rep, fmt.Errorf("rewrite pass: %w", err)
		}
		if in == nil {
			break
		}
		rep.Processed++
		t.rewrite(in, out, emitter, &rep)
	}

	encoded, err := out.Build()
	if err != nil {
		return nil, rep, fmt.Errorf("encode error: %w", err)
	}
	return encoded, rep, nil
}

// rewrite dispatches one instruction through the strategy table.
func (t *Translator) rewrite(in *spirv.Instruction, out *spirv.ModuleBuilder, emitter *Emitter, rep *Report) {
	switch StrategyFor(t.opts.Target, in.Opcode) {
	case Direct:
		if in.Opcode == spirv.OpCapability && t.dropCapability(in) {
			rep.Dropped++
			return
		}
		out.Add(in.Clone())

	case Drop:
		rep.Dropped++

	case Emulate:
		seq, err := emitter.Emulate(in)
		switch err {
		case nil:
			for _, replacement := range seq {
				out.Add(replacement)
			}
			rep.Emulated++
		case ErrNoEquivalent:
			out.Add(in.Clone())
			rep.NeedsValidation++
		default:
			out.Add(in.Clone())
			rep.Warnings++
		}

	case RequireExtension:
		sub, ok := emitter.Substitute(in)
		if !ok {
			out.Add(in.Clone())
			rep.Warnings++
			return
		}
		if !out.HasExtension(sub.Extension) {
			rep.Extensions = append(rep.Extensions, sub.Extension)
			out.AddExtension(sub.Extension)
		}
		out.AddCapability(sub.Capability)
		out.Add(sub.Instruction)
		rep.Substituted++

	case Unsupported:
		rep.Dropped++
		if t.opts.Strict {
			rep.Findings = append(rep.Findings, spirv.ValidationError{
				Message: fmt.Sprintf("%s has no translation to version %s", in.Opcode, t.opts.Target),
				Offset:  in.Offset,
			})
		}
	}
}

// dropCapability reports whether a capability declaration names a
// capability that does not exist at the target and is not supplied by
// an extension.
func (t *Translator) dropCapability(in *spirv.Instruction) bool {
	if len(in.Operands) != 1 {
		return false
	}
	c := spirv.Capability(in.Operands[0])
	if !spirv.KnownCapability(c) {
		return false
	}
	return !t.opts.Target.AtLeast(spirv.CapabilityMinimumVersion(c))
}

// retarget copies the module and rewrites the header's version word,
// honoring the input's byte order so everything else stays
// byte-identical.
func (t *Translator) retarget(module []byte) []byte {
	out := make([]byte, len(module))
	copy(out, module)
	if binary.LittleEndian.Uint32(out[:4]) == spirv.MagicNumberSwapped {
		binary.BigEndian.PutUint32(out[4:8], t.opts.Target.Word())
	} else {
		binary.LittleEndian.PutUint32(out[4:8], t.opts.Target.Word())
	}
	return out
}

// Translate lowers the module to the target version using default
// options.
func Translate(module []byte, target spirv.Version) ([]byte, Report, error) {
	opts := DefaultOptions()
	opts.Target = target
	return New(opts).Translate(module)
}
