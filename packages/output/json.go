package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/specbridge/packages/core/result"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary  JSONSummary `json:"summary"`
	Tests    []JSONTest  `json:"tests"`
	Duration float64     `json:"duration"`
	Time     string      `json:"time"`
}

// JSONSummary represents per-status totals
type JSONSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errors  int `json:"errors"`
	Skipped int `json:"skipped"`
	Pending int `json:"pending"`
}

// JSONTest represents a single test fragment
type JSONTest struct {
	Name     string  `json:"name"`
	Spec     string  `json:"spec"`
	Status   string  `json:"status"`
	Duration float64 `json:"duration"`
	Message  string  `json:"message,omitempty"`
}

// JSONFormatter accumulates spec results and writes one JSON document
type JSONFormatter struct {
	writer io.Writer
	tests  []JSONTest
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
		tests:  make([]JSONTest, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(spec *result.SpecResult) error {
	var walk func(frags []*result.Fragment) error
	walk = func(frags []*result.Fragment) error {
		for _, frag := range frags {
			if frag.Kind == result.FragmentTest {
				status, err := result.Classify(frag.Result)
				if err != nil {
					return err
				}
				jt := JSONTest{
					Name:     frag.Name,
					Spec:     spec.Name,
					Status:   string(status),
					Duration: float64(frag.Duration.Milliseconds()),
				}
				if cause := result.CauseOf(frag.Result); cause != nil {
					jt.Message = cause.Error()
				}
				f.tests = append(f.tests, jt)
			}
			if err := walk(frag.Children); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(spec.Fragments)
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	summary := JSONSummary{Total: len(f.tests)}
	for _, t := range f.tests {
		switch result.Status(t.Status) {
		case result.StatusSuccess:
			summary.Passed++
		case result.StatusFailure:
			summary.Failed++
		case result.StatusError:
			summary.Errors++
		case result.StatusSkipped:
			summary.Skipped++
		case result.StatusPending:
			summary.Pending++
		}
	}

	out := JSONOutput{
		Summary:  summary,
		Tests:    f.tests,
		Duration: float64(totalDuration.Milliseconds()),
		Time:     time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
