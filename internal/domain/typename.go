package domain

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// renderTokens flattens a syntax node to its leaf tokens joined by single
// spaces, the way a generic token printer would emit them. The result is fed
// through normalizeTypeSpacing for display.
func renderTokens(node *sitter.Node, content []byte) string {
	var tokens []string

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		// A lifetime is one token (`'static`), not a quote followed by an
		// identifier; descending would split it on the quote.
		if n.Type() == "lifetime" || n.ChildCount() == 0 {
			tokens = append(tokens, n.Content(content))
			return
		}

		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(node)

	return strings.Join(tokens, " ")
}

// normalizeTypeSpacing compacts a space-separated token rendering of a type
// into conventional Rust spacing, shrinking for example "& 'static" to
// "&'static" and "Vec < u32 >" to "Vec<u32>".
//
// This is a best-effort display transform only; it never drives mutation
// decisions. A space is dropped when the character on either side makes the
// result unambiguous, re-examining the same index after each deletion.
func normalizeTypeSpacing(typeStr string) string {
	c := []rune(typeStr)

	i := 1
	for i+1 < len(c) {
		if c[i] != ' ' {
			i++
			continue
		}

		a := c[i-1]
		b := c[i+1]

		if a == ':' || b == ':' || b == ',' || a == '&' || a == '<' || b == '<' || a == '>' || b == '>' {
			c = append(c[:i], c[i+1:]...)
			// Retry at the same i.
			continue
		}

		i++
	}

	return string(c)
}

// returnTypeDisplay renders a declared return type for listings, or the
// empty string when the function declares none.
func returnTypeDisplay(returnType *sitter.Node, content []byte) string {
	if returnType == nil {
		return ""
	}

	return normalizeTypeSpacing(renderTokens(returnType, content))
}
