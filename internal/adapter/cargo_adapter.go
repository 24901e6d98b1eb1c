package adapter

import (
	"bytes"
	"context"
	"os/exec"

	m "github.com/oxmut/oxmut/internal/model"
)

// CargoAdapter abstracts cargo invocations so the domain layer can compile
// and test mutated crates without knowing about process execution.
type CargoAdapter interface {
	// Build compiles the crate in dir. Returns the combined
	// stdout/stderr output and any error.
	Build(ctx context.Context, dir m.Path) (string, error)

	// Test runs the crate's test suite in dir. Returns the combined
	// stdout/stderr output and any error.
	Test(ctx context.Context, dir m.Path) (string, error)
}

// LocalCargoAdapter provides a concrete implementation using os/exec.
type LocalCargoAdapter struct{}

// NewLocalCargoAdapter constructs a LocalCargoAdapter.
func NewLocalCargoAdapter() *LocalCargoAdapter {
	return &LocalCargoAdapter{}
}

// Build runs `cargo build` in the given directory.
func (a *LocalCargoAdapter) Build(ctx context.Context, dir m.Path) (string, error) {
	return a.run(ctx, dir, "build")
}

// Test runs `cargo test` in the given directory.
func (a *LocalCargoAdapter) Test(ctx context.Context, dir m.Path) (string, error) {
	return a.run(ctx, dir, "test")
}

func (a *LocalCargoAdapter) run(ctx context.Context, dir m.Path, subcommand string) (string, error) {
	cmd := exec.CommandContext(ctx, "cargo", subcommand)
	cmd.Dir = string(dir)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	return stdout.String() + stderr.String(), err
}
