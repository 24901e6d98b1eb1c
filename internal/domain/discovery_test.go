package domain_test

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxmut/oxmut/internal/adapter"
	"github.com/oxmut/oxmut/internal/domain"
	m "github.com/oxmut/oxmut/internal/model"
)

func discover(t *testing.T, code string, errValue *m.ErrorValue) []m.Mutant {
	t.Helper()

	source := &m.SourceFile{Path: "src/lib.rs", Code: []byte(code)}
	discoverer := domain.NewDiscoverer(adapter.NewTreeSitterRustAdapter(), errValue)

	mutants, err := discoverer.DiscoverMutants(context.Background(), source)
	require.NoError(t, err)

	return mutants
}

func descriptions(mutants []m.Mutant) []string {
	out := make([]string, 0, len(mutants))
	for _, mu := range mutants {
		out = append(out, mu.Describe())
	}

	return out
}

func TestDiscoverMutants_OpsByReturnType(t *testing.T) {
	t.Parallel()

	code := `
pub fn add(a: u32, b: u32) -> u32 {
    a + b
}

pub fn is_even(n: u32) -> bool {
    n % 2 == 0
}

pub fn label() -> String {
    "x".to_string()
}

pub fn log_value(n: u32) {
    println!("{n}");
}

pub fn even_is_ok(n: u32) -> Result<u32, &'static str> {
    if n % 2 == 0 { Ok(n) } else { Err("odd") }
}
`

	mutants := discover(t, code, nil)

	assert.Equal(t, []string{
		"replace add -> u32 with Default::default()",
		"replace is_even -> bool with true",
		"replace is_even -> bool with false",
		`replace label -> String with ""`,
		`replace label -> String with "xyzzy"`,
		"replace log_value with ()",
		"replace even_is_ok -> Result<u32, &'static str> with Ok(0)",
		"replace even_is_ok -> Result<u32, &'static str> with Ok(1)",
	}, descriptions(mutants))
}

func TestDiscoverMutants_ResultShapes(t *testing.T) {
	t.Parallel()

	code := `
fn plain() -> Result<String, String> {
    Ok("ok".to_string())
}

fn scoped() -> std::result::Result<f64, String> {
    Ok(1.0)
}

fn bare() -> Result {
    Result
}

fn lifetime_first() -> Result<'static, u32> {
    todo!()
}
`

	mutants := discover(t, code, nil)

	assert.Equal(t, []string{
		"replace plain -> Result<String, String> with Ok(Default::default())",
		"replace scoped -> std::result::Result<f64, String> with Ok(0.0)",
		"replace scoped -> std::result::Result<f64, String> with Ok(1.0)",
		"replace bare -> Result with Ok(Default::default())",
		"replace lifetime_first -> Result<'static, u32> with Ok(0)",
		"replace lifetime_first -> Result<'static, u32> with Ok(1)",
	}, descriptions(mutants))
}

func TestDiscoverMutants_ConfiguredErrorOrdering(t *testing.T) {
	t.Parallel()

	code := `
fn check(n: u32) -> Result<u32, String> {
    Ok(n)
}
`

	mutants := discover(t, code, &m.ErrorValue{Expr: `anyhow::anyhow!("mutant")`})

	// Both Ok variants come before the configured error variant.
	require.Len(t, mutants, 3)
	assert.Equal(t, "replace check -> Result<u32, String> with Ok(0)", mutants[0].Describe())
	assert.Equal(t, "replace check -> Result<u32, String> with Ok(1)", mutants[1].Describe())
	assert.Equal(t, m.OpConfiguredError, mutants[2].Op.Kind)
	assert.Equal(t, `replace check -> Result<u32, String> with Err(anyhow::anyhow!("mutant"))`, mutants[2].Describe())
}

func TestDiscoverMutants_QualifiedNames(t *testing.T) {
	t.Parallel()

	code := `
mod outer {
    pub mod inner {
        pub fn deep() -> bool {
            true
        }
    }
}

struct Foo;

impl Foo {
    pub fn new() -> Self {
        Foo
    }

    pub fn go(&self) -> u32 {
        1
    }
}

impl Clone for Foo {
    fn clone(&self) -> Self {
        Foo
    }
}

impl Default for Foo {
    fn default() -> Self {
        Foo
    }
}
`

	mutants := discover(t, code, nil)

	names := make([]string, 0, len(mutants))
	for _, mu := range mutants {
		names = append(names, mu.FunctionName)
	}

	// new is a constructor, impl Default is skipped entirely; true/false give
	// deep two entries.
	assert.Equal(t, []string{
		"outer::inner::deep",
		"outer::inner::deep",
		"Foo::go",
		"<impl Clone for Foo>::clone",
	}, names)
}

func TestDiscoverMutants_Exclusions(t *testing.T) {
	t.Parallel()

	code := `
#[test]
fn smoke() {
    assert!(true);
}

#[cfg(test)]
mod tests {
    fn helper() -> bool {
        true
    }
}

#[cfg(test)]
// support code, excluded together with the attribute above
mod more_tests {
    fn helper() -> bool {
        true
    }
}

#[mutants::skip]
fn skipped() -> u32 {
    1
}

fn empty() {}

fn comments_only() {
    // nothing here
}

fn new() -> u32 {
    2
}
`

	mutants := discover(t, code, nil)

	// A free function named new is fair game; the constructor exception only
	// applies inside impl blocks.
	require.Len(t, mutants, 1)
	assert.Equal(t, "replace new -> u32 with Default::default()", mutants[0].Describe())
}

func TestDiscoverMutants_NestedFunctionsInSourceOrder(t *testing.T) {
	t.Parallel()

	code := `
fn outer_fn() -> u32 {
    fn inner_fn() -> bool {
        true
    }
    inner_fn() as u32
}
`

	mutants := discover(t, code, nil)

	assert.Equal(t, []string{
		"replace outer_fn -> u32 with Default::default()",
		"replace outer_fn::inner_fn -> bool with true",
		"replace outer_fn::inner_fn -> bool with false",
	}, descriptions(mutants))
}

func TestDiscoverMutants_ListingLine(t *testing.T) {
	t.Parallel()

	code := `pub fn even_is_ok(n: u32) -> Result<u32, &'static str> {
    if n % 2 == 0 { Ok(n) } else { Err("odd") }
}
`

	mutants := discover(t, code, nil)
	require.Len(t, mutants, 2)

	col := strconv.Itoa(strings.IndexByte(code, '{') + 1)
	assert.Equal(t,
		"src/lib.rs:1:"+col+": replace even_is_ok -> Result<u32, &'static str> with Ok(0)",
		mutants[0].ListingLine())
	assert.Equal(t,
		"src/lib.rs:1:"+col+": replace even_is_ok -> Result<u32, &'static str> with Ok(1)",
		mutants[1].ListingLine())
}

func TestDiscoverMutants_LifetimeDisplay(t *testing.T) {
	t.Parallel()

	code := `
fn name() -> &'static str {
    "oxmut"
}
`

	mutants := discover(t, code, nil)
	require.Len(t, mutants, 1)
	assert.Equal(t, "&'static str", mutants[0].ReturnType)
}

func TestDiscoverMutants_SpanCoversWholeBody(t *testing.T) {
	t.Parallel()

	code := `fn answer() -> u32 {
    42
}
`

	mutants := discover(t, code, nil)
	require.Len(t, mutants, 1)

	span := mutants[0].Span
	assert.Equal(t, byte('{'), code[span.StartByte])
	assert.Equal(t, byte('}'), code[span.EndByte-1])
}

func TestDiscoverMutants_Idempotent(t *testing.T) {
	t.Parallel()

	code := `
fn a() -> bool { true }
fn b() -> Result<u32, String> { Ok(1) }
`

	first := discover(t, code, nil)
	second := discover(t, code, nil)

	assert.Equal(t, first, second)
}

func TestDiscoverMutants_ParseError(t *testing.T) {
	t.Parallel()

	source := &m.SourceFile{Path: "src/broken.rs", Code: []byte("fn broken(n: u32) -> u32 {\n    n +\n}\n")}
	discoverer := domain.NewDiscoverer(adapter.NewTreeSitterRustAdapter(), nil)

	_, err := discoverer.DiscoverMutants(context.Background(), source)
	require.Error(t, err)

	var parseErr *domain.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, m.Path("src/broken.rs"), parseErr.Path)
	assert.Positive(t, parseErr.Line)
}

func TestStreamMutants_PreservesOrder(t *testing.T) {
	t.Parallel()

	discoverer := domain.NewDiscoverer(adapter.NewTreeSitterRustAdapter(), nil)

	sources := make(chan *m.SourceFile, 2)
	sources <- &m.SourceFile{Path: "a.rs", Code: []byte("fn a() -> bool { true }\n")}
	sources <- &m.SourceFile{Path: "b.rs", Code: []byte("fn b() {\n    println!();\n}\n")}
	close(sources)

	mutantCh, errCh := discoverer.StreamMutants(context.Background(), sources, 2)

	var got []string
	for mu := range mutantCh {
		got = append(got, string(mu.Source.Path)+": "+mu.Describe())
	}

	require.NoError(t, <-errCh)
	assert.Equal(t, []string{
		"a.rs: replace a -> bool with true",
		"a.rs: replace a -> bool with false",
		"b.rs: replace b with ()",
	}, got)
}
