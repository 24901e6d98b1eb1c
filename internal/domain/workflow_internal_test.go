package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/oxmut/oxmut/internal/model"
)

func TestShardMutants(t *testing.T) {
	t.Parallel()

	mutants := []m.Mutant{
		{FunctionName: "a"},
		{FunctionName: "b"},
		{FunctionName: "c"},
		{FunctionName: "d"},
		{FunctionName: "e"},
	}

	assert.Len(t, shardMutants(mutants, 0, 1), 5)
	assert.Len(t, shardMutants(mutants, 0, 0), 5)

	shard0 := shardMutants(mutants, 0, 2)
	shard1 := shardMutants(mutants, 1, 2)

	require.Len(t, shard0, 3)
	require.Len(t, shard1, 2)
	assert.Equal(t, "a", shard0[0].FunctionName)
	assert.Equal(t, "b", shard1[0].FunctionName)
	assert.Equal(t, len(mutants), len(shard0)+len(shard1))
}

func TestCompileExcludes(t *testing.T) {
	t.Parallel()

	excludes, err := compileExcludes([]string{"^generated_", "_gen\\.rs$"})
	require.NoError(t, err)
	require.Len(t, excludes, 2)

	assert.True(t, matchesAny(excludes, "generated_parser.rs"))
	assert.True(t, matchesAny(excludes, "src/schema_gen.rs"))
	assert.False(t, matchesAny(excludes, "src/lib.rs"))

	_, err = compileExcludes([]string{"("})
	assert.Error(t, err)
}
