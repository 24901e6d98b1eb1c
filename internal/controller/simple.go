package controller

import (
	"bytes"
	"context"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/oxmut/oxmut/internal/model"
)

// SimpleUI implements UI using cobra Command's output, suitable for
// non-interactive terminals and CI logs.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	return ctx.Err()
}

// Close finalizes the UI (no-op for SimpleUI).
func (s *SimpleUI) Close(_ context.Context) {}

// DisplayDiscoveryError reports a file skipped because it failed to parse.
func (s *SimpleUI) DisplayDiscoveryError(ctx context.Context, path m.Path, err error) {
	if ctx.Err() != nil {
		return
	}

	s.cmd.PrintErrf("warning: skipping %s: %v\n", path, err)
}

// DisplayEstimation prints one listing line per mutant followed by a
// per-file summary table.
func (s *SimpleUI) DisplayEstimation(ctx context.Context, mutants []m.Mutant) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, mutant := range mutants {
		s.cmd.Println(mutant.ListingLine())
	}

	s.cmd.Printf("\n%s", renderEstimationTable(mutants))

	return nil
}

// DisplayRunInfo prints the run parameters before testing starts.
func (s *SimpleUI) DisplayRunInfo(ctx context.Context, total, threads, shardIndex, shardCount int) {
	if ctx.Err() != nil {
		return
	}

	if shardCount > 1 {
		s.cmd.Printf("Testing %d mutants (shard %d/%d) with %d worker(s)\n", total, shardIndex, shardCount, threads)
		return
	}

	s.cmd.Printf("Testing %d mutants with %d worker(s)\n", total, threads)
}

// DisplayCompletedTest prints the outcome of a single mutant.
func (s *SimpleUI) DisplayCompletedTest(ctx context.Context, report m.Report) {
	if ctx.Err() != nil {
		return
	}

	s.cmd.Printf("%-8s %s:%d:%d: %s\n", report.Outcome, report.Path, report.Line, report.Column, report.Description)
}

// DisplayReports prints one line per stored report.
func (s *SimpleUI) DisplayReports(ctx context.Context, reports []m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, report := range reports {
		s.DisplayCompletedTest(ctx, report)
	}

	return nil
}

// DisplaySummary prints outcome counts and the mutation score.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.cmd.Printf("\n%s", renderSummaryTable(summary))
	s.cmd.Printf("Mutation score: %.1f%%\n", summary.Score())

	return nil
}

// renderEstimationTable aggregates mutants per file into a table.
func renderEstimationTable(mutants []m.Mutant) string {
	counts := make(map[string]int)

	for _, mutant := range mutants {
		counts[string(mutant.Source.Path)]++
	}

	paths := make([]string, 0, len(counts))
	for path := range counts {
		paths = append(paths, path)
	}

	sort.Strings(paths)

	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"File", "Mutants"})
	table.SetBorder(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	for _, path := range paths {
		table.Append([]string{path, strconv.Itoa(counts[path])})
	}

	table.SetFooter([]string{"Total", strconv.Itoa(len(mutants))})
	table.Render()

	return buf.String()
}

// renderSummaryTable renders outcome counts for a run.
func renderSummaryTable(summary m.Summary) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Outcome", "Count"})
	table.SetBorder(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	rows := []struct {
		label string
		count int
	}{
		{"caught", summary.Caught},
		{"missed", summary.Missed},
		{"timeout", summary.Timeout},
		{"unviable", summary.Unviable},
		{"skipped", summary.Skipped},
	}

	for _, row := range rows {
		table.Append([]string{row.label, strconv.Itoa(row.count)})
	}

	table.SetFooter([]string{"Total", strconv.Itoa(summary.Total())})
	table.Render()

	return buf.String()
}

// outcomeGlyph marks caught mutants as good news and missed ones as bad.
func outcomeGlyph(outcome m.Outcome) string {
	switch outcome {
	case m.Caught:
		return "✓"
	case m.Missed:
		return "✗"
	default:
		return "-"
	}
}
