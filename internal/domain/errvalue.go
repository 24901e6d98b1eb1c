package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oxmut/oxmut/internal/adapter"
	m "github.com/oxmut/oxmut/internal/model"
)

// errInvalidExpression indicates the configured error value is not valid
// Rust expression syntax.
var errInvalidExpression = errors.New("not a valid Rust expression")

// NewErrorValue validates the user-supplied error expression and returns it
// ready for discovery. Empty input means the feature is disabled and yields
// nil. Invalid text is a fatal configuration error: proceeding would
// silently disable a requested feature.
func NewErrorValue(ctx context.Context, rustAdapter adapter.RustFileAdapter, expr string) (*m.ErrorValue, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return nil, nil
	}

	// The grammar only parses whole files, so probe with the expression
	// wrapped in a throwaway function body.
	probe := fmt.Sprintf("fn probe() { let _ = %s; }", trimmed)

	tree, err := rustAdapter.Parse(ctx, []byte(probe))
	if err != nil {
		return nil, fmt.Errorf("Failed to parse error value %q: %w", expr, err)
	}

	defer tree.Close()

	if tree.RootNode().HasError() {
		return nil, fmt.Errorf("Failed to parse error value %q: %w", expr, errInvalidExpression)
	}

	value := &m.ErrorValue{Expr: trimmed}
	if LooksWrapped(value) {
		slog.Warn("error value is expected to be the inner error value, not already wrapped in Err()", "expr", trimmed)
	}

	return value, nil
}

// LooksWrapped reports whether the configured expression already starts with
// an Err(..) call. The value is used verbatim either way; this only drives a
// non-fatal warning.
func LooksWrapped(value *m.ErrorValue) bool {
	if value == nil {
		return false
	}

	compact := strings.Join(strings.Fields(value.Expr), "")

	return strings.HasPrefix(compact, "Err(")
}
