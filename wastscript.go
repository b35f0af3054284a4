package wastscript

import "context"

// CompileResult is the output of one script compilation: the intermediate
// JSON document describing the command sequence, and the compiled module
// binaries it references by filename. The compiler guarantees that every
// filename referenced by the JSON is present in Modules.
type CompileResult struct {
	JSON    []byte
	Modules map[string][]byte
}

// Compiler converts wast script source into the intermediate JSON form and
// its module binaries, entirely in memory. It is the single opaque
// operation through which the external wast compiler is reachable.
type Compiler interface {
	CompileScript(ctx context.Context, source []byte, scriptName string) (*CompileResult, error)
}

// DirCompiler is the artifact-on-disk variant of Compiler: output lands in
// outDir (the JSON document plus one file per module binary) and the path
// of the JSON document is returned. Used when holding every module binary
// in memory is undesirable.
type DirCompiler interface {
	CompileScriptToDir(ctx context.Context, scriptPath, outDir string) (jsonPath string, err error)
}

// Features selects the wasm proposals the external compiler accepts in
// script source. The zero value matches the compiler's defaults.
type Features struct {
	Exceptions     bool
	MutableGlobals bool
	SatFloatToInt  bool
	SignExtension  bool
	SIMD           bool
	Threads        bool
	MultiValue     bool
	TailCall       bool
	BulkMemory     bool
}

// EnableAll turns on every feature flag.
func (f *Features) EnableAll() {
	f.Exceptions = true
	f.MutableGlobals = true
	f.SatFloatToInt = true
	f.SignExtension = true
	f.SIMD = true
	f.Threads = true
	f.MultiValue = true
	f.TailCall = true
	f.BulkMemory = true
}
