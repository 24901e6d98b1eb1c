package domain

import (
	"bytes"
	"fmt"

	m "github.com/oxmut/oxmut/internal/model"
)

// Mutator produces mutated source text by splicing a mutant's replacement
// value over its span.
type Mutator interface {
	Apply(mutant m.Mutant) ([]byte, error)
}

type mutator struct{}

// NewMutator constructs a Mutator.
func NewMutator() Mutator {
	return &mutator{}
}

// Apply replaces the function body span with a block evaluating to the op's
// replacement value. Everything outside the span is preserved byte-for-byte.
func (mt *mutator) Apply(mutant m.Mutant) ([]byte, error) {
	if mutant.Source == nil {
		return nil, fmt.Errorf("mutant has no source file")
	}

	code := mutant.Source.Code
	span := mutant.Span

	if span.StartByte > span.EndByte || int(span.EndByte) > len(code) {
		return nil, fmt.Errorf("span %d..%d out of range for %s (%d bytes)",
			span.StartByte, span.EndByte, mutant.Source.Path, len(code))
	}

	var buf bytes.Buffer

	buf.Write(code[:span.StartByte])
	fmt.Fprintf(&buf, "{ %s }", mutant.Op.Replacement)
	buf.Write(code[span.EndByte:])

	return buf.Bytes(), nil
}
