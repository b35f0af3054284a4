package script

import "bytes"

// ModuleBinary is the compiled byte representation of one wasm module.
// Binaries are immutable once created; callers must not modify the slice
// returned by Bytes.
type ModuleBinary struct {
	wasm []byte
}

func newModuleBinary(wasm []byte) ModuleBinary {
	return ModuleBinary{wasm: wasm}
}

// Bytes returns the module's raw bytes.
func (m ModuleBinary) Bytes() []byte { return m.wasm }

// Len returns the binary's size in bytes.
func (m ModuleBinary) Len() int { return len(m.wasm) }

// Equal reports whether two binaries are byte-equal.
func (m ModuleBinary) Equal(other ModuleBinary) bool {
	return bytes.Equal(m.wasm, other.wasm)
}

// Action describes what should be performed on a wasm module: *Invoke or
// *Get.
type Action interface {
	isAction()
}

// Invoke calls an exported function.
type Invoke struct {
	// Module names the target module. Empty means the most recently
	// defined module in the script.
	Module string
	// Field is the export name of the function.
	Field string
	// Args are passed to the function in order.
	Args []Value
}

// Get reads an exported global variable.
type Get struct {
	// Module names the target module. Empty means the most recently
	// defined module in the script.
	Module string
	// Field is the export name of the global.
	Field string
}

func (*Invoke) isAction() {}
func (*Get) isAction()    {}

// Command is one script command together with the 1-based source line it
// was defined on, as reported by the wast compiler.
type Command struct {
	Kind CommandKind
	Line uint64
}

// CommandKind is the closed set of command variants; exactly one concrete
// type applies per command. Consumers are expected to switch exhaustively.
type CommandKind interface {
	isCommandKind()
}

// Module defines, validates and instantiates a module.
type Module struct {
	// Module is the wasm binary to instantiate.
	Module ModuleBinary
	// Name registers the module under this name when non-empty.
	Name string
}

// AssertReturn asserts that an action yields the expected results.
type AssertReturn struct {
	Action   Action
	Expected []Value
}

// AssertReturnCanonicalNan asserts that an action yields a NaN in
// canonical form.
type AssertReturnCanonicalNan struct {
	Action Action
}

// AssertReturnArithmeticNan asserts that an action yields a NaN with the
// most significant fraction bit set.
type AssertReturnArithmeticNan struct {
	Action Action
}

// AssertTrap asserts that an action traps with the given message.
type AssertTrap struct {
	Action  Action
	Message string
}

// AssertInvalid asserts that a module fails validation.
type AssertInvalid struct {
	Module  ModuleBinary
	Message string
}

// AssertMalformed asserts that a module cannot be decoded.
type AssertMalformed struct {
	Module  ModuleBinary
	Message string
}

// AssertUninstantiable asserts that a module fails to instantiate.
type AssertUninstantiable struct {
	Module  ModuleBinary
	Message string
}

// AssertExhaustion asserts that an action exhausts resources.
type AssertExhaustion struct {
	Action Action
}

// AssertUnlinkable asserts that a module fails to link.
type AssertUnlinkable struct {
	Module  ModuleBinary
	Message string
}

// Register makes a module available to later commands under As. An empty
// Name refers to the most recently defined module.
type Register struct {
	Name string
	As   string
}

// PerformAction performs an action without asserting on its result.
type PerformAction struct {
	Action Action
}

func (*Module) isCommandKind()                    {}
func (*AssertReturn) isCommandKind()              {}
func (*AssertReturnCanonicalNan) isCommandKind()  {}
func (*AssertReturnArithmeticNan) isCommandKind() {}
func (*AssertTrap) isCommandKind()                {}
func (*AssertInvalid) isCommandKind()             {}
func (*AssertMalformed) isCommandKind()           {}
func (*AssertUninstantiable) isCommandKind()      {}
func (*AssertExhaustion) isCommandKind()          {}
func (*AssertUnlinkable) isCommandKind()          {}
func (*Register) isCommandKind()                  {}
func (*PerformAction) isCommandKind()             {}
