package controller

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	m "github.com/oxmut/oxmut/internal/model"
)

// TUI implements UI using Bubble Tea for interactive progress display
// during test runs. Listing-style output falls back to plain rendering.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI writing to the given output.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the progress display for test runs. Listing mode needs no
// interactive program.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	config := StartConfig{}
	for _, option := range options {
		option(&config)
	}

	if config.mode != ModeTest {
		return nil
	}

	t.program = tea.NewProgram(newRunModel(config.total), tea.WithOutput(t.output))
	t.done = make(chan struct{})

	go func() {
		defer close(t.done)

		if _, err := t.program.Run(); err != nil {
			fmt.Fprintf(t.output, "display error: %v\n", err)
		}
	}()

	return nil
}

// Close stops the progress display and waits for it to finish rendering.
func (t *TUI) Close(_ context.Context) {
	if t.program == nil {
		return
	}

	t.program.Send(runFinishedMsg{})
	<-t.done
	t.program = nil
}

// DisplayDiscoveryError reports a file skipped because it failed to parse.
func (t *TUI) DisplayDiscoveryError(ctx context.Context, path m.Path, err error) {
	if ctx.Err() != nil {
		return
	}

	fmt.Fprintf(t.output, "warning: skipping %s: %v\n", path, err)
}

// DisplayEstimation prints the listing; pagination is left to the pager of
// the user's choice.
func (t *TUI) DisplayEstimation(ctx context.Context, mutants []m.Mutant) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, mutant := range mutants {
		fmt.Fprintln(t.output, mutant.ListingLine())
	}

	fmt.Fprintf(t.output, "\n%s", renderEstimationTable(mutants))

	return nil
}

// DisplayRunInfo feeds the run parameters into the progress model.
func (t *TUI) DisplayRunInfo(ctx context.Context, total, threads, shardIndex, shardCount int) {
	if ctx.Err() != nil || t.program == nil {
		return
	}

	t.program.Send(runInfoMsg{total: total, threads: threads, shardIndex: shardIndex, shardCount: shardCount})
}

// DisplayCompletedTest feeds one mutant's outcome into the progress model.
func (t *TUI) DisplayCompletedTest(ctx context.Context, report m.Report) {
	if ctx.Err() != nil || t.program == nil {
		return
	}

	t.program.Send(reportMsg{report: report})
}

// DisplayReports prints one line per stored report.
func (t *TUI) DisplayReports(ctx context.Context, reports []m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, report := range reports {
		fmt.Fprintf(t.output, "%s %-8s %s:%d:%d: %s\n",
			outcomeGlyph(report.Outcome), report.Outcome, report.Path, report.Line, report.Column, report.Description)
	}

	return nil
}

// DisplaySummary prints outcome counts and the mutation score after the
// progress display has shut down.
func (t *TUI) DisplaySummary(ctx context.Context, summary m.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// The progress program owns the terminal while it runs.
	t.Close(ctx)

	fmt.Fprintf(t.output, "\n%s", renderSummaryTable(summary))
	fmt.Fprintf(t.output, "Mutation score: %.1f%%\n", summary.Score())

	return nil
}
