// Package model defines the data structures for mutation testing.
package model

// Path represents a file system path.
type Path string

// SourceFile is one Rust source file selected for discovery. It is created
// once per input file, never mutated afterwards, and shared by pointer across
// every Mutant derived from it.
type SourceFile struct {
	// Path of the file, relative to the crate root, used for reporting.
	Path Path

	// Code is the full source text.
	Code []byte

	// Hash is a stable fingerprint (SHA-256) of Code.
	Hash string
}
