package spec

import (
	"github.com/wippyai/wast-script/script"
)

// Visitor receives one callback per script command, in script order.
// Returning a non-nil error from any method aborts the run.
//
// line is the 1-based source line the command was defined on. wasm
// slices are owned by the runner and only valid for the duration of the
// call; copy them to retain.
type Visitor interface {
	// BeginScript is called once before any command, with the script
	// name recorded by the compiler.
	BeginScript(sourceFilename string) error

	// Module defines, validates and instantiates a module. name is
	// empty for anonymous modules.
	Module(line uint64, name string, wasm []byte) error

	// AssertReturn asserts that action yields exactly expected.
	AssertReturn(line uint64, action script.Action, expected []script.Value) error

	// AssertReturnCanonicalNan asserts that action yields a canonical
	// NaN.
	AssertReturnCanonicalNan(line uint64, action script.Action) error

	// AssertReturnArithmeticNan asserts that action yields a NaN with
	// the most significant fraction bit set.
	AssertReturnArithmeticNan(line uint64, action script.Action) error

	// AssertTrap asserts that action traps with message.
	AssertTrap(line uint64, action script.Action, message string) error

	// AssertInvalid asserts that wasm fails validation.
	AssertInvalid(line uint64, wasm []byte, message string) error

	// AssertMalformed asserts that wasm cannot be decoded.
	AssertMalformed(line uint64, wasm []byte, message string) error

	// AssertUninstantiable asserts that wasm fails to instantiate.
	AssertUninstantiable(line uint64, wasm []byte, message string) error

	// AssertExhaustion asserts that action exhausts resources.
	AssertExhaustion(line uint64, action script.Action) error

	// AssertUnlinkable asserts that wasm fails to link.
	AssertUnlinkable(line uint64, wasm []byte, message string) error

	// Register makes the module called name available to later commands
	// under as. An empty name refers to the most recently defined
	// module.
	Register(line uint64, name, as string) error

	// PerformAction performs action without asserting on its result.
	PerformAction(line uint64, action script.Action) error
}

// NopVisitor implements Visitor with no-ops. Embed it and override the
// callbacks of interest.
type NopVisitor struct{}

func (NopVisitor) BeginScript(string) error { return nil }

func (NopVisitor) Module(uint64, string, []byte) error { return nil }

func (NopVisitor) AssertReturn(uint64, script.Action, []script.Value) error { return nil }

func (NopVisitor) AssertReturnCanonicalNan(uint64, script.Action) error { return nil }

func (NopVisitor) AssertReturnArithmeticNan(uint64, script.Action) error { return nil }

func (NopVisitor) AssertTrap(uint64, script.Action, string) error { return nil }

func (NopVisitor) AssertInvalid(uint64, []byte, string) error { return nil }

func (NopVisitor) AssertMalformed(uint64, []byte, string) error { return nil }

func (NopVisitor) AssertUninstantiable(uint64, []byte, string) error { return nil }

func (NopVisitor) AssertExhaustion(uint64, script.Action) error { return nil }

func (NopVisitor) AssertUnlinkable(uint64, []byte, string) error { return nil }

func (NopVisitor) Register(uint64, string, string) error { return nil }

func (NopVisitor) PerformAction(uint64, script.Action) error { return nil }

var _ Visitor = NopVisitor{}
