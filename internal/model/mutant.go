package model

import "fmt"

// Span is a half-open byte range in a source file identifying where a
// mutation applies, with 1-based line/column endpoints for reporting.
// It covers the entire brace-delimited body of a function, so a replacement
// value stands in for the whole computed result.
type Span struct {
	StartByte uint32
	EndByte   uint32
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// OpKind identifies the replacement strategy of a MutationOp.
type OpKind string

// Available OpKind values.
const (
	OpUnit            OpKind = "unit"
	OpTrue            OpKind = "true"
	OpFalse           OpKind = "false"
	OpEmptyString     OpKind = "empty_string"
	OpXyzzy           OpKind = "xyzzy"
	OpDefault         OpKind = "default"
	OpOkDefault       OpKind = "ok_default"
	OpConfiguredError OpKind = "configured_error"
)

// MutationOp describes what value a mutant substitutes for a function body
// and how to describe the substitution in listings.
type MutationOp struct {
	Kind OpKind

	// Replacement is the literal Rust expression spliced in place of the
	// function's computed result.
	Replacement string
}

// Description returns the short human-readable form used in listings,
// e.g. "Ok(0)".
func (op MutationOp) Description() string {
	return op.Replacement
}

// UnitOp replaces the body of a function with no declared return value.
func UnitOp() MutationOp {
	return MutationOp{Kind: OpUnit, Replacement: "()"}
}

// TrueOp replaces a boolean result with true.
func TrueOp() MutationOp {
	return MutationOp{Kind: OpTrue, Replacement: "true"}
}

// FalseOp replaces a boolean result with false.
func FalseOp() MutationOp {
	return MutationOp{Kind: OpFalse, Replacement: "false"}
}

// EmptyStringOp replaces a String result with an empty string literal.
func EmptyStringOp() MutationOp {
	return MutationOp{Kind: OpEmptyString, Replacement: `""`}
}

// XyzzyOp replaces a String result with a distinctive non-empty placeholder,
// observably different from both the empty string and any plausible real
// value.
func XyzzyOp() MutationOp {
	return MutationOp{Kind: OpXyzzy, Replacement: `"xyzzy"`}
}

// DefaultOp replaces the result with the type's conventional default value.
func DefaultOp() MutationOp {
	return MutationOp{Kind: OpDefault, Replacement: "Default::default()"}
}

// OkDefaultOp replaces a Result-shaped return value with the success variant
// wrapping the given literal, e.g. "Ok(0)" or "Ok(Default::default())".
func OkDefaultOp(okLiteral string) MutationOp {
	return MutationOp{Kind: OpOkDefault, Replacement: okLiteral}
}

// ConfiguredErrorOp replaces a Result-shaped return value with the error
// variant built from the user-supplied expression.
func ConfiguredErrorOp(expr string) MutationOp {
	return MutationOp{Kind: OpConfiguredError, Replacement: "Err(" + expr + ")"}
}

// Mutant is one candidate code alteration produced by discovery: where to
// apply it, what to substitute, and how to describe it. Mutants are immutable
// value objects; a Mutant is meaningless without its Source.
type Mutant struct {
	Source *SourceFile

	Op MutationOp

	// FunctionName is the fully-qualified ::-joined name of the mutated
	// function, shared across all mutants of that function.
	FunctionName string

	// ReturnType is the normalized display string of the declared return
	// type, empty for functions without one. Display only; it has no
	// structural effect on mutant generation.
	ReturnType string

	Span Span
}

// Describe renders the replacement summary used in listings and reports,
// e.g. `replace even_is_ok -> Result<u32, &'static str> with Ok(0)`.
func (mu Mutant) Describe() string {
	if mu.ReturnType == "" {
		return fmt.Sprintf("replace %s with %s", mu.FunctionName, mu.Op.Description())
	}

	return fmt.Sprintf("replace %s -> %s with %s", mu.FunctionName, mu.ReturnType, mu.Op.Description())
}

// ListingLine renders the one-line listing entry for this mutant:
// <path>:<line>:<col>: replace <name> -> <type> with <description>.
func (mu Mutant) ListingLine() string {
	return fmt.Sprintf("%s:%d:%d: %s", mu.Source.Path, mu.Span.StartLine, mu.Span.StartCol, mu.Describe())
}

// ErrorValue is the optional user-supplied expression used to build the error
// variant for Result-returning functions. It is validated before discovery
// runs and never mutated afterwards.
type ErrorValue struct {
	Expr string
}
