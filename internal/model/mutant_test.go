package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutationOp_Replacements(t *testing.T) {
	tests := []struct {
		name        string
		op          MutationOp
		kind        OpKind
		replacement string
	}{
		{"unit", UnitOp(), OpUnit, "()"},
		{"true", TrueOp(), OpTrue, "true"},
		{"false", FalseOp(), OpFalse, "false"},
		{"empty string", EmptyStringOp(), OpEmptyString, `""`},
		{"xyzzy", XyzzyOp(), OpXyzzy, `"xyzzy"`},
		{"default", DefaultOp(), OpDefault, "Default::default()"},
		{"ok default", OkDefaultOp("Ok(0)"), OpOkDefault, "Ok(0)"},
		{"configured error", ConfiguredErrorOp(`eyre::eyre!("mutant")`), OpConfiguredError, `Err(eyre::eyre!("mutant"))`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.op.Kind)
			assert.Equal(t, tt.replacement, tt.op.Replacement)
			assert.Equal(t, tt.replacement, tt.op.Description())
		})
	}
}

func TestMutant_ListingLine(t *testing.T) {
	source := &SourceFile{Path: "src/lib.rs", Code: []byte("fn f() {}")}

	mu := Mutant{
		Source:       source,
		Op:           OkDefaultOp("Ok(0)"),
		FunctionName: "even_is_ok",
		ReturnType:   "Result<u32, &'static str>",
		Span:         Span{StartLine: 4, StartCol: 5},
	}

	assert.Equal(t,
		"src/lib.rs:4:5: replace even_is_ok -> Result<u32, &'static str> with Ok(0)",
		mu.ListingLine())
}

func TestMutant_DescribeWithoutReturnType(t *testing.T) {
	mu := Mutant{
		Source:       &SourceFile{Path: "src/main.rs"},
		Op:           UnitOp(),
		FunctionName: "main",
		Span:         Span{StartLine: 1, StartCol: 11},
	}

	assert.Equal(t, "replace main with ()", mu.Describe())
	assert.Equal(t, "src/main.rs:1:11: replace main with ()", mu.ListingLine())
}

func TestSummarize(t *testing.T) {
	reports := []Report{
		{Outcome: Caught},
		{Outcome: Caught},
		{Outcome: Missed},
		{Outcome: Timeout},
		{Outcome: Unviable},
	}

	s := Summarize(reports)
	require.Equal(t, Summary{Caught: 2, Missed: 1, Timeout: 1, Unviable: 1}, s)
	assert.Equal(t, 5, s.Total())
	assert.InDelta(t, 50.0, s.Score(), 0.001)
}

func TestSummary_ScoreEmpty(t *testing.T) {
	assert.Zero(t, Summary{}.Score())
	assert.Zero(t, Summary{Unviable: 3}.Score())
}
