package cmd

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oxmut/oxmut/internal/domain"
	m "github.com/oxmut/oxmut/internal/model"
)

func TestViewCmd_UsesOutputFlag(t *testing.T) {
	mockWf := newMockWorkflow(t)
	swapWorkflow(t, mockWf)

	cmd := newTestRootCmd()
	cmd.AddCommand(newViewCmd())

	mockWf.On("View", mock.Anything, mock.MatchedBy(func(args domain.ViewArgs) bool {
		return args.Reports == m.Path("some-reports")
	})).Return(nil)

	cmd.SetArgs([]string{"view", "-o", "some-reports"})
	err := cmd.Execute()
	require.NoError(t, err)
}
