// Package wabt provides clients for the external wast compiler, wabt's
// wast2json: Tool drives a native executable through os/exec, WASITool
// hosts a WASI build of the same program inside wazero so no native
// toolchain is needed.
//
// Both implement the Compiler and DirCompiler contracts of the root
// package. The compiler is treated as an opaque collaborator: its
// failures are propagated with stderr attached, never reinterpreted.
package wabt
