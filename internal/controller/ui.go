// Package controller provides output adapters for displaying discovery and
// mutation testing results.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "github.com/oxmut/oxmut/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeEstimate StartMode = iota
	ModeTest
)

// StartOption is a functional option for the Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode  StartMode
	total int
}

// WithEstimateMode sets the UI to listing mode.
func WithEstimateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeEstimate
	}
}

// WithTestMode sets the UI to test execution mode.
func WithTestMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeTest
	}
}

// WithTotal tells the UI how many mutants the run will test.
func WithTotal(total int) StartOption {
	return func(c *StartConfig) {
		c.total = total
	}
}

// UI defines the interface for presenting discovery listings and test
// progress. Implementations can use different output methods (plain text,
// TUI, etc). Methods other than Start/Close may be called from worker
// goroutines and must be safe for concurrent use.
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	DisplayDiscoveryError(ctx context.Context, path m.Path, err error)
	DisplayEstimation(ctx context.Context, mutants []m.Mutant) error
	DisplayRunInfo(ctx context.Context, total, threads, shardIndex, shardCount int)
	DisplayCompletedTest(ctx context.Context, report m.Report)
	DisplayReports(ctx context.Context, reports []m.Report) error
	DisplaySummary(ctx context.Context, summary m.Summary) error
}

// NewUI picks the UI implementation appropriate for the output device: the
// interactive TUI on a terminal, plain text otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether the file is attached to a terminal.
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
