package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/oxmut/oxmut/internal/model"
)

func TestParseShardFlag(t *testing.T) {
	tests := []struct {
		name      string
		shard     string
		wantIndex int
		wantTotal int
		wantErr   bool
	}{
		{"empty string", "", 0, 1, false},
		{"valid 0/3", "0/3", 0, 3, false},
		{"valid 1/3", "1/3", 1, 3, false},
		{"valid 2/3", "2/3", 2, 3, false},
		{"invalid format", "invalid", 0, 0, true},
		{"zero total", "0/0", 0, 0, true},
		{"negative total", "0/-1", 0, 0, true},
		{"negative index", "-1/3", 0, 0, true},
		{"index >= total", "3/3", 0, 0, true},
		{"index > total", "5/3", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotIndex, gotTotal, err := parseShardFlag(tt.shard)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantIndex, gotIndex, "index")
			assert.Equal(t, tt.wantTotal, gotTotal, "total")
		})
	}
}

func TestParsePaths(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []m.Path
	}{
		{"empty", []string{}, []m.Path{}},
		{"single", []string{"src/lib.rs"}, []m.Path{m.Path("src/lib.rs")}},
		{
			"multiple",
			[]string{"src", "tests", "benches"},
			[]m.Path{m.Path("src"), m.Path("tests"), m.Path("benches")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePaths(tt.args)
			require.Len(t, got, len(tt.want))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "oxmut", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.Equal(t, rootLongDescription, cmd.Long)
}

func TestRootCmd_HelpOutput(t *testing.T) {
	cmd := newRootCmd()
	output := &bytes.Buffer{}
	cmd.SetOut(output)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, output.String(), "mutation testing")
}
