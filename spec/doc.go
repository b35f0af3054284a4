// Package spec runs whole wast script files through a caller-supplied
// visitor, one callback per command.
//
// Where package script hands out commands for the caller to pull, this
// package pushes: Runner compiles the script on disk, walks the
// resulting command list in order and dispatches each command to the
// matching Visitor method. Module binaries are read from the compiler's
// output directory as they are needed and the directory is removed when
// the run ends.
//
// Embed NopVisitor to implement only the callbacks a harness cares
// about:
//
//	type trapChecker struct {
//	    spec.NopVisitor
//	}
//
//	func (c *trapChecker) AssertTrap(line uint64, action script.Action, message string) error {
//	    // drive the engine, compare the trap message
//	    return nil
//	}
//
//	runner := spec.NewRunner()
//	err := runner.Run(ctx, "testsuite/memory_trap.wast", &trapChecker{})
//
// A non-nil error from any callback aborts the walk immediately; the
// caller's own error is recoverable through errors.AsCallback.
package spec
