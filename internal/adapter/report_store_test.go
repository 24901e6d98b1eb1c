package adapter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxmut/oxmut/internal/adapter"
	m "github.com/oxmut/oxmut/internal/model"
)

func TestReportStore_SaveAndLoad(t *testing.T) {
	t.Parallel()

	dir := m.Path(filepath.Join(t.TempDir(), "reports"))
	store := adapter.NewReportStore()

	reports := []m.Report{
		{
			Path:        "src/lib.rs",
			Line:        7,
			Column:      57,
			Function:    "even_is_ok",
			ReturnType:  "Result<u32, &'static str>",
			Description: "replace even_is_ok -> Result<u32, &'static str> with Ok(0)",
			Outcome:     m.Caught,
			Output:      "test failed",
		},
		{
			Path:        "src/lib.rs",
			Line:        12,
			Column:      25,
			Function:    "log_value",
			Description: "replace log_value with ()",
			Outcome:     m.Missed,
		},
	}

	require.NoError(t, store.SaveReports(dir, reports))

	loaded, err := store.LoadReports(dir)
	require.NoError(t, err)
	assert.Equal(t, reports, loaded)
}

func TestReportStore_FileFormat(t *testing.T) {
	t.Parallel()

	dir := m.Path(t.TempDir())
	store := adapter.NewReportStore()

	require.NoError(t, store.SaveReports(dir, []m.Report{
		{Path: "src/lib.rs", Line: 1, Column: 1, Function: "a", Description: "replace a with ()", Outcome: m.Caught},
	}))

	raw, err := os.ReadFile(filepath.Join(string(dir), "mutants.yaml"))
	require.NoError(t, err)

	content := string(raw)
	assert.Contains(t, content, "version: 1")
	assert.Contains(t, content, "outcome: caught")
	assert.NotContains(t, content, "return_type")
}

func TestReportStore_LoadMissing(t *testing.T) {
	t.Parallel()

	_, err := adapter.NewReportStore().LoadReports(m.Path(t.TempDir()))
	assert.Error(t, err)
}
