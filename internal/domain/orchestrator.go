package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oxmut/oxmut/internal/adapter"
	m "github.com/oxmut/oxmut/internal/model"
)

// Orchestrator coordinates applying a mutant to a temporary copy of the
// crate and running cargo to determine whether the test suite catches it.
type Orchestrator interface {
	TestMutant(ctx context.Context, mutant m.Mutant, timeout time.Duration) (m.Report, error)
}

type orchestrator struct {
	fsAdapter    adapter.SourceFSAdapter
	cargoAdapter adapter.CargoAdapter
	mutator      Mutator
}

// NewOrchestrator constructs an Orchestrator backed by the provided
// filesystem and cargo adapters.
func NewOrchestrator(fsAdapter adapter.SourceFSAdapter, cargoAdapter adapter.CargoAdapter, mutator Mutator) Orchestrator {
	return &orchestrator{
		fsAdapter:    fsAdapter,
		cargoAdapter: cargoAdapter,
		mutator:      mutator,
	}
}

func (o *orchestrator) TestMutant(ctx context.Context, mutant m.Mutant, timeout time.Duration) (m.Report, error) {
	if err := ctx.Err(); err != nil {
		return m.NewReport(mutant, m.Skipped, ""), nil
	}

	if mutant.Source == nil {
		return m.Report{}, fmt.Errorf("mutant source is nil")
	}

	crateRoot, tmpDir, err := o.prepareWorkspace(ctx, mutant.Source.Path)
	if tmpDir != "" {
		defer o.cleanupTempDir(ctx, tmpDir)
	}

	if err != nil {
		return m.Report{}, err
	}

	mutated, err := o.mutator.Apply(mutant)
	if err != nil {
		return m.Report{}, fmt.Errorf("failed to apply mutant: %w", err)
	}

	targetPath, err := o.buildTempSourcePath(ctx, crateRoot, tmpDir, mutant.Source.Path)
	if err != nil {
		return m.Report{}, err
	}

	if err := o.fsAdapter.WriteFile(ctx, targetPath, mutated, 0o600); err != nil {
		slog.Error("Failed to write mutated file", "path", targetPath, "error", err)
		return m.Report{}, fmt.Errorf("failed to write mutated file: %w", err)
	}

	outcome, output := o.runCargo(ctx, tmpDir, timeout)

	return m.NewReport(mutant, outcome, output), nil
}

func (o *orchestrator) prepareWorkspace(ctx context.Context, sourcePath m.Path) (m.Path, m.Path, error) {
	crateRoot, err := o.fsAdapter.FindCrateRoot(ctx, sourcePath)
	if err != nil {
		slog.Error("Failed to find crate root", "sourcePath", sourcePath, "error", err)
		return "", "", fmt.Errorf("failed to find crate root: %w", err)
	}

	tmpDir, err := o.fsAdapter.CreateTempDir(ctx, "oxmut-mutant-*")
	if err != nil {
		slog.Error("Failed to create temp dir", "error", err)
		return "", "", fmt.Errorf("failed to create temp dir: %w", err)
	}

	if err := o.fsAdapter.CopyDir(ctx, crateRoot, tmpDir); err != nil {
		slog.Error("Failed to copy crate to temp dir", "crateRoot", crateRoot, "tmpDir", tmpDir, "error", err)
		return crateRoot, tmpDir, fmt.Errorf("failed to copy crate: %w", err)
	}

	return crateRoot, tmpDir, nil
}

func (o *orchestrator) buildTempSourcePath(ctx context.Context, crateRoot, tmpDir, sourcePath m.Path) (m.Path, error) {
	relPath, err := o.fsAdapter.RelPath(ctx, crateRoot, sourcePath)
	if err != nil {
		slog.Error("Failed to get relative source path", "crateRoot", crateRoot, "sourcePath", sourcePath, "error", err)
		return "", fmt.Errorf("failed to get relative source path: %w", err)
	}

	return o.fsAdapter.JoinPath(ctx, string(tmpDir), string(relPath)), nil
}

// runCargo classifies the mutant: a build failure means the mutant is
// unviable, a test failure means the suite caught it, a clean test run means
// it was missed. Exceeding the timeout in either phase is a timeout.
func (o *orchestrator) runCargo(ctx context.Context, tmpDir m.Path, timeout time.Duration) (m.Outcome, string) {
	runCtx := ctx

	if timeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	buildOut, err := o.cargoAdapter.Build(runCtx, tmpDir)
	if err != nil {
		if runCtx.Err() != nil {
			return m.Timeout, buildOut
		}

		return m.Unviable, buildOut
	}

	testOut, err := o.cargoAdapter.Test(runCtx, tmpDir)
	if err != nil {
		if runCtx.Err() != nil {
			return m.Timeout, testOut
		}

		return m.Caught, testOut
	}

	return m.Missed, testOut
}

// cleanupTempDir removes the temporary directory, logging errors if cleanup fails.
func (o *orchestrator) cleanupTempDir(ctx context.Context, tmpDir m.Path) {
	if err := o.fsAdapter.RemoveAll(ctx, tmpDir); err != nil {
		slog.Error("Failed to cleanup temp dir", "tmpDir", tmpDir, "error", err)
	}
}
