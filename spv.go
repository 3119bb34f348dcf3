// Package spv transforms SPIR-V binary modules.
//
// spv consumes compiled SPIR-V produced by any front end and rewrites
// it without ever seeing shader source:
//   - Translate retargets a module to another SPIR-V version (1.0 to 1.6)
//   - Optimize runs binary-level optimization passes
//   - Validate checks structural rules for a target version
//   - Reflect extracts entry points and resource bindings
//
// The package provides a simple, high-level API as well as lower-level
// access to the individual stages.
//
// Example usage (retarget and clean up a module):
//
//	out, err := spv.Process(module)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For control over single stages, use the stage packages directly:
//
//	out, report, err := translate.Translate(module, spirv.Version1_0)
//	out, report, err := optimize.Optimize(module, optimize.PassFold|optimize.PassDCE)
package spv

import (
	"fmt"

	"github.com/gogpu/spv/optimize"
	"github.com/gogpu/spv/spirv"
	"github.com/gogpu/spv/translate"
)

// Options configures Process.
type Options struct {
	// Target is the SPIR-V version to translate to (default: 1.3)
	Target spirv.Version

	// Passes selects the optimization passes to run
	Passes optimize.Passes

	// Validate enables structural validation of the result
	Validate bool
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Target:   spirv.Version1_3,
		Passes:   optimize.AllPasses,
		Validate: true,
	}
}

// Process retargets and optimizes a module using default options.
//
// This is the simplest way to run the full pipeline. For more control,
// use ProcessWithOptions or the individual Translate/Optimize/Validate
// functions.
func Process(module []byte) ([]byte, error) {
	return ProcessWithOptions(module, DefaultOptions())
}

// ProcessWithOptions retargets and optimizes a module with custom
// options.
//
// The pipeline is:
//  1. Translate the module to the target version
//  2. Run the selected optimization passes
//  3. Validate the result (if enabled)
func ProcessWithOptions(module []byte, opts Options) ([]byte, error) {
	out, _, err := translate.Translate(module, opts.Target)
	if err != nil {
		return nil, fmt.Errorf("translation error: %w", err)
	}

	out, _, err = optimize.Optimize(out, opts.Passes)
	if err != nil {
		return nil, fmt.Errorf("optimization error: %w", err)
	}

	if opts.Validate {
		if errs := Validate(out, opts.Target); len(errs) > 0 {
			return nil, fmt.Errorf("validation failed: %w", errs[0])
		}
	}

	return out, nil
}

// Translate rewrites a module for the target SPIR-V version.
//
// Instructions native to the target pass through unchanged; newer ones
// are bridged onto older equivalents or emulated, and the report says
// which. Translating to the module's own version is a fast path that
// rewrites only the header.
func Translate(module []byte, target spirv.Version) ([]byte, translate.Report, error) {
	return translate.Translate(module, target)
}

// Optimize runs the selected optimization passes over a module.
//
// Passes execute in a fixed pipeline order regardless of flag order;
// the report counts what each pass changed.
func Optimize(module []byte, passes optimize.Passes) ([]byte, optimize.Report, error) {
	return optimize.Optimize(module, passes)
}

// Validate checks a module against the structural rules of the target
// version.
//
// Validation checks include:
//   - Header magic, version, and id bound
//   - Section ordering and id uniqueness
//   - Capability and extension availability for the target
//   - Function and block nesting
//
// Returns a slice of validation errors. If the slice is empty,
// validation passed. A module too damaged to decode yields a single
// module-wide finding.
func Validate(module []byte, target spirv.Version) []spirv.ValidationError {
	errs, err := spirv.NewValidator(target).Validate(module)
	if err != nil {
		return []spirv.ValidationError{{Message: err.Error(), Offset: -1}}
	}
	return errs
}
