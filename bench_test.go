package spv

import (
	"runtime"
	"testing"

	"github.com/gogpu/spv/optimize"
	"github.com/gogpu/spv/spirv"
)

// buildChainModule returns a 1.0 compute module whose body chains n
// additions off a load, so the work survives optimization.
func buildChainModule(tb testing.TB, n int) []byte {
	tb.Helper()
	b := spirv.NewModuleBuilder(spirv.Version1_0)
	b.AddCapability(spirv.CapabilityShader)
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	void := b.AddTypeVoid()
	u32 := b.AddTypeInt(32, false)
	ptr := b.AddTypePointer(spirv.StorageClassPrivate, u32)
	dst := b.AddVariable(ptr, spirv.StorageClassPrivate)
	one := b.AddConstant(u32, 1)
	fnType := b.AddTypeFunction(void)
	fn := b.AddFunction(fnType, void, spirv.FunctionControlNone)
	b.AddLabel()
	x := b.AddLoad(u32, dst)
	for i := 0; i < n; i++ {
		x = b.AddBinaryOp(spirv.OpIAdd, u32, x, one)
	}
	b.AddStore(dst, x)
	b.AddReturn()
	b.AddFunctionEnd()
	b.AddEntryPoint(spirv.ExecutionModelGLCompute, fn, "main", nil)
	b.AddExecutionMode(fn, spirv.ExecutionModeLocalSize, 1, 1, 1)
	module, err := b.Build()
	if err != nil {
		tb.Fatalf("Build failed: %v", err)
	}
	return module
}

var moduleSizes = []struct {
	name string
	n    int
}{
	{"small", 16},
	{"medium", 256},
	{"large", 4096},
}

// BenchmarkProcess benchmarks the full pipeline, translation through
// validation, grouped by module complexity.
func BenchmarkProcess(b *testing.B) {
	for _, size := range moduleSizes {
		b.Run(size.name, func(b *testing.B) {
			module := buildChainModule(b, size.n)
			b.ReportAllocs()
			b.SetBytes(int64(len(module)))
			b.ResetTimer()

			var result []byte
			for i := 0; i < b.N; i++ {
				var err error
				result, err = Process(module)
				if err != nil {
					b.Fatalf("process failed: %v", err)
				}
			}
			runtime.KeepAlive(result)
		})
	}
}

// BenchmarkProcessNoValidation measures the pipeline without the final
// validation pass, for comparison against BenchmarkProcess.
func BenchmarkProcessNoValidation(b *testing.B) {
	module := buildChainModule(b, 256)
	opts := Options{
		Target: spirv.Version1_3,
		Passes: optimize.AllPasses,
	}
	b.ReportAllocs()
	b.SetBytes(int64(len(module)))
	b.ResetTimer()

	var result []byte
	for i := 0; i < b.N; i++ {
		var err error
		result, err = ProcessWithOptions(module, opts)
		if err != nil {
			b.Fatalf("process failed: %v", err)
		}
	}
	runtime.KeepAlive(result)
}

// BenchmarkValidate benchmarks structural validation alone.
func BenchmarkValidate(b *testing.B) {
	for _, size := range moduleSizes {
		b.Run(size.name, func(b *testing.B) {
			module := buildChainModule(b, size.n)
			b.ReportAllocs()
			b.SetBytes(int64(len(module)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if errs := Validate(module, spirv.Version1_0); len(errs) > 0 {
					b.Fatalf("validate found %d errors", len(errs))
				}
			}
		})
	}
}

// BenchmarkReflect benchmarks interface extraction from a module with
// one resource of every class.
func BenchmarkReflect(b *testing.B) {
	module := buildFragmentModule(b)
	b.ReportAllocs()
	b.SetBytes(int64(len(module)))
	b.ResetTimer()

	var ref *Reflection
	for i := 0; i < b.N; i++ {
		var err error
		ref, err = Reflect(module)
		if err != nil {
			b.Fatalf("reflect failed: %v", err)
		}
	}
	runtime.KeepAlive(ref)
}
