// Package script decodes a compiled wast script into a typed, ordered
// command sequence.
//
// A Parser performs exactly one external compilation per script and then
// pulls commands lazily: each Next call normalizes one intermediate JSON
// command into the public Command model, resolving module references
// against the binaries the compiler produced and decoding numeric
// literals bit-exactly.
//
// Command kinds and actions are closed unions: every consumer is expected
// to switch exhaustively over CommandKind, Action and Value.
package script
