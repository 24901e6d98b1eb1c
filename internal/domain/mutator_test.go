package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxmut/oxmut/internal/adapter"
	"github.com/oxmut/oxmut/internal/domain"
	m "github.com/oxmut/oxmut/internal/model"
)

func TestMutatorApply_SplicesBody(t *testing.T) {
	t.Parallel()

	code := "fn answer() -> u32 {\n    42\n}\n"
	source := &m.SourceFile{Path: "src/lib.rs", Code: []byte(code)}

	discoverer := domain.NewDiscoverer(adapter.NewTreeSitterRustAdapter(), nil)
	mutants, err := discoverer.DiscoverMutants(context.Background(), source)
	require.NoError(t, err)
	require.Len(t, mutants, 1)

	mutated, err := domain.NewMutator().Apply(mutants[0])
	require.NoError(t, err)
	assert.Equal(t, "fn answer() -> u32 { Default::default() }\n", string(mutated))
}

func TestMutatorApply_PreservesSurroundingCode(t *testing.T) {
	t.Parallel()

	code := "// header\nfn flag() -> bool {\n    false\n}\n// footer\n"
	source := &m.SourceFile{Path: "src/lib.rs", Code: []byte(code)}

	discoverer := domain.NewDiscoverer(adapter.NewTreeSitterRustAdapter(), nil)
	mutants, err := discoverer.DiscoverMutants(context.Background(), source)
	require.NoError(t, err)
	require.Len(t, mutants, 2)

	mutated, err := domain.NewMutator().Apply(mutants[0])
	require.NoError(t, err)
	assert.Equal(t, "// header\nfn flag() -> bool { true }\n// footer\n", string(mutated))
}

func TestMutatorApply_RejectsBadSpan(t *testing.T) {
	t.Parallel()

	source := &m.SourceFile{Path: "src/lib.rs", Code: []byte("fn a() {}\n")}

	_, err := domain.NewMutator().Apply(m.Mutant{
		Source: source,
		Op:     m.UnitOp(),
		Span:   m.Span{StartByte: 5, EndByte: 100},
	})
	assert.Error(t, err)
}

func TestMutatorApply_RejectsNilSource(t *testing.T) {
	t.Parallel()

	_, err := domain.NewMutator().Apply(m.Mutant{Op: m.UnitOp()})
	assert.Error(t, err)
}
