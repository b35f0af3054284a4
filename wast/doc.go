// Package wast models the intermediate JSON form produced by the external
// wast compiler (wast2json): a source filename plus an ordered list of
// tagged command objects, each referencing module binaries by filename.
//
// The structs here mirror the wire format one to one and are not meant for
// direct consumption by harnesses; package script normalizes them into the
// public typed model.
package wast
