package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oxmut/oxmut/internal/adapter"
	"github.com/oxmut/oxmut/internal/controller"
	m "github.com/oxmut/oxmut/internal/model"
	"github.com/oxmut/oxmut/pkg"
)

// ErrMissedMutants reports that at least one mutant survived the test suite.
// The CLI maps it to a distinct exit code.
var ErrMissedMutants = errors.New("at least one mutant was missed")

// EstimateArgs contains the arguments for listing mutants.
type EstimateArgs struct {
	Paths      []m.Path
	Exclude    []string
	ErrorValue *m.ErrorValue
}

// TestArgs contains the arguments for running mutation tests.
type TestArgs struct {
	EstimateArgs

	Reports         m.Path
	Threads         int
	ShardIndex      int
	TotalShardCount int
	MutationTimeout time.Duration
	Shuffle         bool
}

// ViewArgs contains the arguments for viewing stored reports.
type ViewArgs struct {
	Reports m.Path
}

// MergeArgs contains the arguments for merging sharded reports.
type MergeArgs struct {
	Reports m.Path
}

// Workflow drives the mutation testing lifecycle: scan the crate, discover
// mutants, test them, and persist the outcomes.
type Workflow interface {
	Estimate(ctx context.Context, args EstimateArgs) error
	Test(ctx context.Context, args TestArgs) error
	View(ctx context.Context, args ViewArgs) error
	Merge(ctx context.Context, args MergeArgs) error
}

type workflow struct {
	fsAdapter    adapter.SourceFSAdapter
	rustAdapter  adapter.RustFileAdapter
	reportStore  adapter.ReportStore
	orchestrator Orchestrator
	ui           controller.UI
}

// NewWorkflow creates a Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	rustAdapter adapter.RustFileAdapter,
	reportStore adapter.ReportStore,
	orchestrator Orchestrator,
	ui controller.UI,
) Workflow {
	return &workflow{
		fsAdapter:    fsAdapter,
		rustAdapter:  rustAdapter,
		reportStore:  reportStore,
		orchestrator: orchestrator,
		ui:           ui,
	}
}

// Estimate discovers every mutant under the requested paths and renders the
// listing without building or testing anything.
func (w *workflow) Estimate(ctx context.Context, args EstimateArgs) error {
	if err := w.ui.Start(ctx, controller.WithEstimateMode()); err != nil {
		return err
	}

	defer w.ui.Close(ctx)

	mutants, err := w.discoverAll(ctx, args)
	if err != nil {
		return err
	}

	return w.ui.DisplayEstimation(ctx, mutants)
}

// Test runs the full mutation-testing lifecycle and persists reports.
func (w *workflow) Test(ctx context.Context, args TestArgs) error {
	mutants, err := w.discoverAll(ctx, args.EstimateArgs)
	if err != nil {
		return err
	}

	if args.Shuffle {
		rand.Shuffle(len(mutants), func(i, j int) {
			mutants[i], mutants[j] = mutants[j], mutants[i]
		})
	}

	sharded := shardMutants(mutants, args.ShardIndex, args.TotalShardCount)

	// Spill the work list to disk so a large crate's mutants don't have to
	// stay resident alongside the test-phase state.
	spill, err := pkg.NewFileSpill[m.Mutant]()
	if err != nil {
		return fmt.Errorf("create mutant spill: %w", err)
	}

	defer func() { _ = spill.Close() }()

	if err := spill.AppendBatch(sharded); err != nil {
		return fmt.Errorf("spill mutants: %w", err)
	}

	if err := w.ui.Start(ctx, controller.WithTestMode(), controller.WithTotal(int(spill.Len()))); err != nil {
		return err
	}

	defer w.ui.Close(ctx)

	w.ui.DisplayRunInfo(ctx, int(spill.Len()), args.Threads, args.ShardIndex, args.TotalShardCount)

	reports, err := w.testMutants(ctx, spill, args)
	if err != nil {
		return fmt.Errorf("run mutation tests: %w", err)
	}

	reportsPath := args.Reports
	if args.TotalShardCount > 1 {
		reportsPath = w.fsAdapter.JoinPath(ctx, string(args.Reports), fmt.Sprintf("shard_%d", args.ShardIndex))
	}

	if err := w.reportStore.SaveReports(reportsPath, reports); err != nil {
		return fmt.Errorf("save reports: %w", err)
	}

	summary := m.Summarize(reports)
	if err := w.ui.DisplaySummary(ctx, summary); err != nil {
		return err
	}

	if summary.Missed > 0 {
		return ErrMissedMutants
	}

	return nil
}

// View renders previously saved reports.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	reports, err := w.reportStore.LoadReports(args.Reports)
	if err != nil {
		return fmt.Errorf("load reports: %w", err)
	}

	if err := w.ui.DisplayReports(ctx, reports); err != nil {
		return err
	}

	return w.ui.DisplaySummary(ctx, m.Summarize(reports))
}

// Merge combines reports from shard_* subdirectories into the reports root.
func (w *workflow) Merge(ctx context.Context, args MergeArgs) error {
	var shardDirs []m.Path

	err := w.fsAdapter.Walk(ctx, args.Reports, false, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() && strings.HasPrefix(filepath.Base(path), "shard_") {
			shardDirs = append(shardDirs, m.Path(path))
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("scan shard directories: %w", err)
	}

	if len(shardDirs) == 0 {
		return fmt.Errorf("no shard_* directories under %s", args.Reports)
	}

	var merged []m.Report

	for _, dir := range shardDirs {
		reports, err := w.reportStore.LoadReports(dir)
		if err != nil {
			return fmt.Errorf("load shard %s: %w", dir, err)
		}

		merged = append(merged, reports...)
	}

	if err := w.reportStore.SaveReports(args.Reports, merged); err != nil {
		return fmt.Errorf("save merged reports: %w", err)
	}

	return w.ui.DisplaySummary(ctx, m.Summarize(merged))
}

// discoverAll scans the requested paths and discovers mutants per file in
// source order. A file that fails to parse is reported and skipped; it
// aborts only that file's discovery, not the whole run.
func (w *workflow) discoverAll(ctx context.Context, args EstimateArgs) ([]m.Mutant, error) {
	sources, err := w.collectSources(ctx, args.Paths, args.Exclude)
	if err != nil {
		return nil, err
	}

	discoverer := NewDiscoverer(w.rustAdapter, args.ErrorValue)

	var mutants []m.Mutant

	for _, source := range sources {
		found, err := discoverer.DiscoverMutants(ctx, source)
		if err != nil {
			var parseErr *ParseError
			if errors.As(err, &parseErr) {
				slog.Warn("skipping file that failed to parse", "path", source.Path, "error", err)
				w.ui.DisplayDiscoveryError(ctx, source.Path, err)

				continue
			}

			return nil, err
		}

		mutants = append(mutants, found...)
	}

	return mutants, nil
}

// collectSources walks the requested paths and loads every Rust source file
// that survives the exclude filters.
func (w *workflow) collectSources(ctx context.Context, paths []m.Path, exclude []string) ([]*m.SourceFile, error) {
	excludes, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		paths = []m.Path{"."}
	}

	var sources []*m.SourceFile

	for _, root := range paths {
		err := w.fsAdapter.Walk(ctx, root, true, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() {
				base := filepath.Base(path)
				if base == "target" || base == ".git" || (strings.HasPrefix(base, ".") && path != string(root)) {
					return filepath.SkipDir
				}

				return nil
			}

			if filepath.Ext(path) != ".rs" || matchesAny(excludes, path) {
				return nil
			}

			code, err := w.fsAdapter.ReadFile(ctx, m.Path(path))
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			hash, err := w.fsAdapter.HashFile(ctx, m.Path(path))
			if err != nil {
				return fmt.Errorf("failed to hash %s: %w", path, err)
			}

			sources = append(sources, &m.SourceFile{Path: m.Path(path), Code: code, Hash: hash})

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", root, err)
		}
	}

	return sources, nil
}

// testMutants dispatches the spilled work list to parallel workers and
// collects one report per mutant.
func (w *workflow) testMutants(ctx context.Context, spill pkg.FileSpill[m.Mutant], args TestArgs) ([]m.Report, error) {
	reports := make([]m.Report, 0, spill.Len())

	var reportsMutex sync.Mutex

	var group errgroup.Group

	threads := args.Threads
	if threads <= 0 {
		threads = 1
	}

	group.SetLimit(threads)

	err := spill.Range(func(_ uint64, mutant m.Mutant) error {
		group.Go(func() error {
			report, err := w.orchestrator.TestMutant(ctx, mutant, args.MutationTimeout)
			if err != nil {
				return err
			}

			w.ui.DisplayCompletedTest(ctx, report)

			reportsMutex.Lock()
			reports = append(reports, report)
			reportsMutex.Unlock()

			return nil
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}

// shardMutants keeps every TotalShardCount-th mutant starting at ShardIndex,
// so independent CI jobs can split one run.
func shardMutants(mutants []m.Mutant, shardIndex, totalShardCount int) []m.Mutant {
	if totalShardCount <= 1 {
		return mutants
	}

	var sharded []m.Mutant

	for i, mutant := range mutants {
		if i%totalShardCount == shardIndex {
			sharded = append(sharded, mutant)
		}
	}

	return sharded
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	excludes := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		excludes = append(excludes, re)
	}

	return excludes, nil
}

func matchesAny(excludes []*regexp.Regexp, path string) bool {
	for _, re := range excludes {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}
