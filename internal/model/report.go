package model

// Outcome classifies the result of building and testing one mutant.
type Outcome string

const (
	// Caught indicates the test suite failed, detecting the mutant.
	Caught Outcome = "caught"
	// Missed indicates the test suite passed, so the mutant survived.
	Missed Outcome = "missed"
	// Timeout indicates the build or test run exceeded the mutation timeout.
	Timeout Outcome = "timeout"
	// Unviable indicates the mutated crate did not compile.
	Unviable Outcome = "unviable"
	// Skipped indicates the mutant was never tested.
	Skipped Outcome = "skipped"
)

// Report records the outcome of testing a single mutant.
type Report struct {
	Path        Path    `yaml:"path"`
	Line        int     `yaml:"line"`
	Column      int     `yaml:"column"`
	Function    string  `yaml:"function"`
	ReturnType  string  `yaml:"return_type,omitempty"`
	Description string  `yaml:"description"`
	Outcome     Outcome `yaml:"outcome"`
	Output      string  `yaml:"output,omitempty"`
}

// NewReport builds a Report for a tested mutant.
func NewReport(mu Mutant, outcome Outcome, output string) Report {
	return Report{
		Path:        mu.Source.Path,
		Line:        mu.Span.StartLine,
		Column:      mu.Span.StartCol,
		Function:    mu.FunctionName,
		ReturnType:  mu.ReturnType,
		Description: mu.Describe(),
		Outcome:     outcome,
		Output:      output,
	}
}

// Summary aggregates outcomes for a whole run.
type Summary struct {
	Caught   int
	Missed   int
	Timeout  int
	Unviable int
	Skipped  int
}

// Summarize counts reports by outcome.
func Summarize(reports []Report) Summary {
	var s Summary

	for _, report := range reports {
		switch report.Outcome {
		case Caught:
			s.Caught++
		case Missed:
			s.Missed++
		case Timeout:
			s.Timeout++
		case Unviable:
			s.Unviable++
		case Skipped:
			s.Skipped++
		}
	}

	return s
}

// Total returns the number of summarized reports.
func (s Summary) Total() int {
	return s.Caught + s.Missed + s.Timeout + s.Unviable + s.Skipped
}

// Score returns the mutation score as a percentage of caught mutants among
// those that could have been caught. Unviable and skipped mutants do not
// count against the suite.
func (s Summary) Score() float64 {
	tested := s.Caught + s.Missed + s.Timeout
	if tested == 0 {
		return 0
	}

	return float64(s.Caught) / float64(tested) * 100
}
