// Package errors provides structured error types for the wast-script library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). When a failure happens while processing a specific script
// command, the command's source line number is attached via WithLine so it
// can be diagnosed against the original script text.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindMalformed).
//		Line(42).
//		Detail("module %q not present in compiler output", name).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ValueDecode("abc", "i32")
//	err := errors.IO(errors.PhaseLoad, "read module binary", cause)
//
// Errors returned by a caller's own visitor callbacks are wrapped in
// CallbackError, so "my callback failed" can be filtered from "the
// infrastructure failed" with AsCallback.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
