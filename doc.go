// Package wastscript decodes WebAssembly script test suites (the .wast
// format used by the reference test corpus) into a typed, ordered sequence
// of test commands a conformance harness can execute.
//
// Lexing, parsing, name resolution, validation and binary encoding are
// performed by an external wast compiler (wabt's wast2json); this library
// consumes the compiler's intermediate JSON document plus its named module
// binaries and normalizes them into a uniform command/action/value model.
// It never executes wasm itself: running invoke/get actions is left to the
// caller.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	wastscript/        Root package with the Compiler contracts and Features flags
//	├── script/        Public Command/Action/Value model and the streaming Parser
//	├── spec/          Visitor-driven batch runner over on-disk suite artifacts
//	├── wast/          Intermediate JSON form produced by the external compiler
//	├── wabt/          Compiler clients: native wast2json and a wazero-hosted build
//	└── errors/        Structured error types with source line attribution
//
// # Quick Start
//
// Pull commands one at a time:
//
//	p, err := script.Parse(ctx, wastSource)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for {
//	    cmd, err := p.Next()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if cmd == nil {
//	        break
//	    }
//	    switch k := cmd.Kind.(type) {
//	    case *script.Module:
//	        // instantiate k.Module.Bytes() in your runtime
//	    case *script.AssertReturn:
//	        // run k.Action, compare against k.Expected
//	    }
//	}
//
// Or walk a whole suite file with a visitor:
//
//	r := spec.NewRunner()
//	err := r.Run(ctx, "testsuite/i32.wast", myVisitor)
//
// # Float Representations
//
// Numeric expectations are decoded from exact bit patterns. By default NaN
// payloads are canonicalized so signaling NaNs never materialize as native
// floats; harnesses that compare results bit-exactly should select the
// raw-bits representation with script.WithFloats(script.RawBits{}).
//
// # Concurrency
//
// All types are single-threaded. A Parser owns a forward-only cursor and
// must not be shared across goroutines without external synchronization;
// the decoded command list and module binaries are immutable after
// construction.
package wastscript
