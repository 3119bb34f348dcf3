// Command spvopt rewrites SPIR-V modules.
//
// Usage:
//
//	spvopt [options] <input.spv>
//
// Examples:
//
//	spvopt shader.spv                    # Retarget to 1.3, optimize, stdout
//	spvopt -o out.spv shader.spv         # Write to file
//	spvopt -target 1.0 shader.spv        # Downgrade for older consumers
//	spvopt -stats shader.spv             # Report per-pass counts on stderr
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gogpu/spv"
	"github.com/gogpu/spv/optimize"
	"github.com/gogpu/spv/spirv"
)

var (
	output   = flag.String("o", "", "output file (default: stdout)")
	target   = flag.String("target", "1.3", "target SPIR-V version (1.0 through 1.6)")
	validate = flag.Bool("validate", true, "validate the result")
	stats    = flag.Bool("stats", false, "print translation and optimization counts")
	version  = flag.Bool("version", false, "print version")
)

const spvoptVersion = "0.1.0-dev"

var targets = map[string]spirv.Version{
	"1.0": spirv.Version1_0,
	"1.1": spirv.Version1_1,
	"1.2": spirv.Version1_2,
	"1.3": spirv.Version1_3,
	"1.4": spirv.Version1_4,
	"1.5": spirv.Version1_5,
	"1.6": spirv.Version1_6,
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("spvopt version %s\n", spvoptVersion)
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		usage()
		os.Exit(1)
	}

	inputPath := args[0]

	tv, ok := targets[*target]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown target version %q (want 1.0 through 1.6)\n", *target)
		os.Exit(1)
	}

	module, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	translated, trep, err := spv.Translate(module, tv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Translation error: %v\n", err)
		os.Exit(1)
	}

	optimized, orep, err := spv.Optimize(translated, optimize.AllPasses)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Optimization error: %v\n", err)
		os.Exit(1)
	}

	if *stats {
		fmt.Fprintf(os.Stderr, "translate: processed=%d emulated=%d substituted=%d dropped=%d warnings=%d\n",
			trep.Processed, trep.Emulated, trep.Substituted, trep.Dropped, trep.Warnings)
		for _, f := range trep.Findings {
			fmt.Fprintf(os.Stderr, "  warning: %s (offset 0x%X)\n", f.Message, f.Offset)
		}
		fmt.Fprintf(os.Stderr, "optimize:  deduplicated=%d folded=%d propagated=%d combined=%d reduced=%d cse=%d loads=%d branches=%d removed=%d merged=%d\n",
			orep.Deduplicated, orep.Folded, orep.Propagated, orep.Combined, orep.Reduced,
			orep.Subexpressions, orep.Loads, orep.Branches, orep.Removed, orep.Merged)
	}

	if *validate {
		if findings := spv.Validate(optimized, tv); len(findings) > 0 {
			for _, f := range findings {
				fmt.Fprintf(os.Stderr, "Validation error: %s (offset 0x%X)\n", f.Message, f.Offset)
			}
			os.Exit(1)
		}
	}

	if *output != "" {
		err = os.WriteFile(*output, optimized, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s to %s (%d bytes, %d instructions rewritten)\n",
			inputPath, *output, len(optimized), orep.Total())
	} else {
		_, err = os.Stdout.Write(optimized)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: spvopt [options] <input.spv>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  spvopt shader.spv               Optimize to stdout\n")
	fmt.Fprintf(os.Stderr, "  spvopt -o out.spv shader.spv    Optimize to file\n")
	fmt.Fprintf(os.Stderr, "  spvopt -target 1.0 shader.spv   Downgrade to SPIR-V 1.0\n")
}
