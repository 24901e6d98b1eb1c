// Package ops selects the mutation operations that apply to a function's
// declared return type. Selection is purely syntactic: no type resolution is
// performed, so a user type merely named Result is treated as Result-shaped.
package ops

import (
	sitter "github.com/smacker/go-tree-sitter"

	m "github.com/oxmut/oxmut/internal/model"
)

// numericLiterals maps Rust numeric primitive names to the literals tried as
// the success value of a Result-shaped return type. Zero and one are both
// emitted: a suite that only checks one of them would miss the other.
var numericLiterals = map[string][]string{
	"i8": {"0", "1"}, "i16": {"0", "1"}, "i32": {"0", "1"},
	"i64": {"0", "1"}, "i128": {"0", "1"}, "isize": {"0", "1"},
	"u8": {"0", "1"}, "u16": {"0", "1"}, "u32": {"0", "1"},
	"u64": {"0", "1"}, "u128": {"0", "1"}, "usize": {"0", "1"},
	"f32": {"0.0", "1.0"}, "f64": {"0.0", "1.0"},
}

// ForReturnType maps the syntactic shape of a declared return type to the
// mutation operations worth trying. A nil node means the function declares no
// return value. Unrecognized shapes fall through to the generic default op,
// never to an error.
func ForReturnType(returnType *sitter.Node, content []byte, errValue *m.ErrorValue) []m.MutationOp {
	if returnType == nil {
		return []m.MutationOp{m.UnitOp()}
	}

	switch returnType.Type() {
	case "primitive_type":
		if returnType.Content(content) == "bool" {
			return []m.MutationOp{m.TrueOp(), m.FalseOp()}
		}

	case "type_identifier":
		switch returnType.Content(content) {
		case "String":
			// TODO: detect &str and friends as well.
			return []m.MutationOp{m.EmptyStringOp(), m.XyzzyOp()}
		case "Result":
			return resultOps(nil, content, errValue)
		}

	case "scoped_type_identifier":
		if lastPathSegment(returnType, content) == "Result" {
			return resultOps(nil, content, errValue)
		}

	case "generic_type":
		base := returnType.ChildByFieldName("type")
		if base != nil && lastPathSegment(base, content) == "Result" {
			return resultOps(returnType.ChildByFieldName("type_arguments"), content, errValue)
		}
	}

	return []m.MutationOp{m.DefaultOp()}
}

// resultOps builds the op list for a Result-shaped return type: the success
// variants, then the configured error variant when the run supplies one.
func resultOps(typeArgs *sitter.Node, content []byte, errValue *m.ErrorValue) []m.MutationOp {
	var ops []m.MutationOp
	for _, literal := range okLiterals(typeArgs, content) {
		ops = append(ops, m.OkDefaultOp(literal))
	}

	if errValue != nil {
		ops = append(ops, m.ConfiguredErrorOp(errValue.Expr))
	}

	return ops
}

// okLiterals picks the success literals: zero and one when the first type
// argument is a numeric primitive, otherwise the type's Default.
func okLiterals(typeArgs *sitter.Node, content []byte) []string {
	if arg := firstTypeArgument(typeArgs); arg != nil && arg.Type() == "primitive_type" {
		if literals, ok := numericLiterals[arg.Content(content)]; ok {
			wrapped := make([]string, 0, len(literals))
			for _, literal := range literals {
				wrapped = append(wrapped, "Ok("+literal+")")
			}

			return wrapped
		}
	}

	return []string{"Ok(Default::default())"}
}

// firstTypeArgument returns the success type argument of a generic Result,
// skipping any leading lifetimes.
func firstTypeArgument(typeArgs *sitter.Node) *sitter.Node {
	if typeArgs == nil {
		return nil
	}

	for i := 0; i < int(typeArgs.NamedChildCount()); i++ {
		arg := typeArgs.NamedChild(i)
		if arg.Type() == "lifetime" {
			continue
		}

		return arg
	}

	return nil
}

// lastPathSegment returns the final identifier of a possibly-scoped type
// path, e.g. "Result" for both `Result` and `std::result::Result`.
func lastPathSegment(node *sitter.Node, content []byte) string {
	switch node.Type() {
	case "type_identifier":
		return node.Content(content)
	case "scoped_type_identifier":
		if name := node.ChildByFieldName("name"); name != nil {
			return name.Content(content)
		}
	case "generic_type":
		if base := node.ChildByFieldName("type"); base != nil {
			return lastPathSegment(base, content)
		}
	}

	return ""
}
