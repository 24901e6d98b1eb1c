// Package domain contains the core mutation discovery and testing logic.
package domain

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxmut/oxmut/internal/adapter"
	"github.com/oxmut/oxmut/internal/domain/ops"
	m "github.com/oxmut/oxmut/internal/model"
)

// Discoverer enumerates candidate mutants in Rust source files. Discovery is
// a pure in-memory parse-and-walk: it holds no shared mutable state, so
// independent calls may run concurrently on separate goroutines.
type Discoverer interface {
	// DiscoverMutants finds all possible mutants in one source file, in
	// depth-first source order. An empty result is valid. A syntactically
	// invalid file yields a *ParseError.
	DiscoverMutants(ctx context.Context, source *m.SourceFile) ([]m.Mutant, error)

	// StreamMutants discovers mutants for sources received from a channel,
	// preserving per-file order. It returns a channel of mutants and a
	// channel for errors.
	StreamMutants(ctx context.Context, sources <-chan *m.SourceFile, threads int) (<-chan m.Mutant, <-chan error)
}

type discoverer struct {
	adapter.RustFileAdapter
	errValue *m.ErrorValue
}

// NewDiscoverer creates a Discoverer. errValue is the optional validated
// error-construction expression for Result-returning functions; nil disables
// the configured-error op.
func NewDiscoverer(rustAdapter adapter.RustFileAdapter, errValue *m.ErrorValue) Discoverer {
	return &discoverer{
		RustFileAdapter: rustAdapter,
		errValue:        errValue,
	}
}

// ParseError reports that a source file is not syntactically valid Rust, so
// discovery for that file cannot proceed. The caller decides whether to
// abort the whole run or skip the file and continue.
type ParseError struct {
	Path m.Path
	Line int
	Col  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: syntax error", e.Path, e.Line, e.Col)
}

func (d *discoverer) DiscoverMutants(ctx context.Context, source *m.SourceFile) ([]m.Mutant, error) {
	tree, err := d.Parse(ctx, source.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source.Path, err)
	}

	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, newParseError(source.Path, root)
	}

	visitor := &discoveryVisitor{
		source:   source,
		errValue: d.errValue,
	}
	visitor.walkChildren(root)

	return visitor.mutants, nil
}

// StreamMutants discovers mutants for each source in order and streams them
// to the returned channel. The first failure stops the stream.
func (d *discoverer) StreamMutants(ctx context.Context, sources <-chan *m.SourceFile, threads int) (<-chan m.Mutant, <-chan error) {
	bufferSize := threads
	if bufferSize <= 0 {
		bufferSize = 1
	}

	mutantCh := make(chan m.Mutant, bufferSize)
	errCh := make(chan error, 1)

	go func() {
		defer close(mutantCh)
		defer close(errCh)

		for source := range sources {
			if err := ctx.Err(); err != nil {
				errCh <- err
				return
			}

			mutants, err := d.DiscoverMutants(ctx, source)
			if err != nil {
				errCh <- err
				return
			}

			for _, mutant := range mutants {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case mutantCh <- mutant:
				}
			}
		}
	}()

	return mutantCh, errCh
}

// newParseError locates the first error or missing node to give the
// diagnostic a position.
func newParseError(path m.Path, root *sitter.Node) *ParseError {
	if bad := firstErrorNode(root); bad != nil {
		point := bad.StartPoint()
		return &ParseError{Path: path, Line: int(point.Row) + 1, Col: int(point.Column) + 1}
	}

	return &ParseError{Path: path, Line: 1, Col: 1}
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if bad := firstErrorNode(node.Child(i)); bad != nil {
			return bad
		}
	}

	return nil
}

// discoveryVisitor recursively traverses the syntax tree, accumulating
// places that could be mutated. The only state carried through the walk is
// the namespace stack; it is restored on exit from every scope.
type discoveryVisitor struct {
	source   *m.SourceFile
	errValue *m.ErrorValue

	// mutants collects everything generated by visiting the file, in
	// depth-first source order.
	mutants []m.Mutant

	// namespaceStack holds the names of the scopes we're currently inside.
	namespaceStack []string
}

// walk dispatches on node kind in a non-method context.
func (v *discoveryVisitor) walk(node *sitter.Node) {
	switch node.Type() {
	case "function_item":
		v.visitFunction(node, false)
	case "impl_item":
		v.visitImpl(node)
	case "mod_item":
		v.visitMod(node)
	default:
		v.walkChildren(node)
	}
}

func (v *discoveryVisitor) walkChildren(node *sitter.Node) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		v.walk(node.NamedChild(i))
	}
}

// inNamespace runs fn with name pushed onto the namespace stack, restoring
// the stack on the way out. A pop mismatch means the walk itself is broken,
// so it fails loudly rather than produce a corrupt mutant list.
func (v *discoveryVisitor) inNamespace(name string, fn func()) {
	v.namespaceStack = append(v.namespaceStack, name)

	fn()

	last := len(v.namespaceStack) - 1
	if v.namespaceStack[last] != name {
		panic(fmt.Sprintf("namespace stack corrupted: expected %q, found %q", name, v.namespaceStack[last]))
	}

	v.namespaceStack = v.namespaceStack[:last]
}

// visitFunction handles free functions and, when isMethod is set, functions
// inside an impl block.
func (v *discoveryVisitor) visitFunction(node *sitter.Node, isMethod bool) {
	if attrsExcluded(node, v.source.Code) {
		return // don't look inside it either
	}

	body := node.ChildByFieldName("body")
	if body == nil || blockIsEmpty(body) {
		return
	}

	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	name := nameNode.Content(v.source.Code)

	// Don't mutate constructors: there's often no good alternative value.
	if isMethod && name == "new" {
		return
	}

	v.inNamespace(name, func() {
		v.collectFnMutants(node.ChildByFieldName("return_type"), body)
		v.walkChildren(body)
	})
}

// visitImpl handles `impl Foo { ... }` and `impl Debug for Foo { ... }`.
func (v *discoveryVisitor) visitImpl(node *sitter.Node) {
	if attrsExcluded(node, v.source.Code) {
		return
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}

	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return
	}

	typeName := normalizeTypeSpacing(renderTokens(typeNode, v.source.Code))

	name := typeName

	if traitNode := node.ChildByFieldName("trait"); traitNode != nil {
		traitName := pathLastSegment(traitNode, v.source.Code)
		if traitName == "Default" {
			// We don't know how to generate an interestingly-broken
			// Default::default.
			return
		}

		name = fmt.Sprintf("<impl %s for %s>", traitName, typeName)
	}

	v.inNamespace(name, func() {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			child := body.NamedChild(i)
			if child.Type() == "function_item" {
				v.visitFunction(child, true)
			} else {
				v.walk(child)
			}
		}
	})
}

// visitMod handles `mod foo { ... }`. Declarations without an inline body
// (`mod foo;`) have nothing to descend into.
func (v *discoveryVisitor) visitMod(node *sitter.Node) {
	if attrsExcluded(node, v.source.Code) {
		return
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}

	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	v.inNamespace(nameNode.Content(v.source.Code), func() {
		v.walkChildren(body)
	})
}

// collectFnMutants emits one mutant per applicable op, all sharing the
// function's span, qualified name, and return-type display.
func (v *discoveryVisitor) collectFnMutants(returnType, body *sitter.Node) {
	fullName := strings.Join(v.namespaceStack, "::")
	display := returnTypeDisplay(returnType, v.source.Code)
	span := spanOf(body)

	for _, op := range ops.ForReturnType(returnType, v.source.Code, v.errValue) {
		v.mutants = append(v.mutants, m.Mutant{
			Source:       v.source,
			Op:           op,
			FunctionName: fullName,
			ReturnType:   display,
			Span:         span,
		})
	}
}

func spanOf(node *sitter.Node) m.Span {
	start := node.StartPoint()
	end := node.EndPoint()

	return m.Span{
		StartByte: node.StartByte(),
		EndByte:   node.EndByte(),
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column) + 1,
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column) + 1,
	}
}

// attrsExcluded reports whether any attribute on the node marks it, and
// everything nested inside it, as out of scope for mutation: test-only code,
// tests themselves, or an explicit opt-out.
func attrsExcluded(node *sitter.Node, code []byte) bool {
	for prev := node.PrevNamedSibling(); prev != nil; prev = prev.PrevNamedSibling() {
		switch prev.Type() {
		case "attribute_item":
			if attrExcludes(prev.Content(code)) {
				return true
			}
		case "line_comment", "block_comment":
			// Attributes may be separated from their item by comments.
		default:
			return false
		}
	}

	return false
}

// attrExcludes matches #[test], #[mutants::skip], and #[cfg(test)] (with
// test anywhere in cfg's top-level argument list). The attribute text is
// compared with all whitespace stripped.
func attrExcludes(attr string) bool {
	body := strings.Join(strings.Fields(attr), "")
	body = strings.TrimPrefix(body, "#")
	body = strings.TrimPrefix(body, "[")
	body = strings.TrimSuffix(body, "]")

	if body == "test" || body == "mutants::skip" {
		return true
	}

	if args, ok := strings.CutPrefix(body, "cfg("); ok {
		args = strings.TrimSuffix(args, ")")
		for _, arg := range strings.Split(args, ",") {
			if arg == "test" {
				return true
			}
		}
	}

	return false
}

// blockIsEmpty is true when a function body contains no statements, only
// comments at most. There's nothing meaningful to mutate in it.
func blockIsEmpty(block *sitter.Node) bool {
	for i := 0; i < int(block.NamedChildCount()); i++ {
		switch block.NamedChild(i).Type() {
		case "line_comment", "block_comment":
		default:
			return false
		}
	}

	return true
}

// pathLastSegment returns the final identifier of a trait path, which may be
// plain, scoped, or generic.
func pathLastSegment(node *sitter.Node, code []byte) string {
	switch node.Type() {
	case "type_identifier":
		return node.Content(code)
	case "scoped_type_identifier":
		if name := node.ChildByFieldName("name"); name != nil {
			return name.Content(code)
		}
	case "generic_type":
		if base := node.ChildByFieldName("type"); base != nil {
			return pathLastSegment(base, code)
		}
	}

	return ""
}
