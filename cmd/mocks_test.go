package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/oxmut/oxmut/internal/domain"
)

// mockWorkflow is a testify mock for the domain.Workflow interface so command
// tests can assert on the arguments the CLI layer assembles.
type mockWorkflow struct {
	mock.Mock
}

func newMockWorkflow(t *testing.T) *mockWorkflow {
	t.Helper()

	m := &mockWorkflow{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockWorkflow) Estimate(ctx context.Context, args domain.EstimateArgs) error {
	return m.Called(ctx, args).Error(0)
}

func (m *mockWorkflow) Test(ctx context.Context, args domain.TestArgs) error {
	return m.Called(ctx, args).Error(0)
}

func (m *mockWorkflow) View(ctx context.Context, args domain.ViewArgs) error {
	return m.Called(ctx, args).Error(0)
}

func (m *mockWorkflow) Merge(ctx context.Context, args domain.MergeArgs) error {
	return m.Called(ctx, args).Error(0)
}

// swapWorkflow replaces the package-level workflow for the duration of a test.
func swapWorkflow(t *testing.T, replacement domain.Workflow) {
	t.Helper()

	original := workflow
	workflow = replacement

	t.Cleanup(func() { workflow = original })
}
