package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/specbridge/packages/core/result"
)

// TAPFormatter formats spec results in TAP (Test Anything Protocol) format
type TAPFormatter struct {
	writer    io.Writer
	testCount int
	results   []tapResult
}

type tapResult struct {
	number  int
	name    string
	status  result.Status
	message string
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer:  os.Stdout,
		results: make([]tapResult, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) FormatResult(spec *result.SpecResult) error {
	var walk func(frags []*result.Fragment) error
	walk = func(frags []*result.Fragment) error {
		for _, frag := range frags {
			if frag.Kind == result.FragmentTest {
				status, err := result.Classify(frag.Result)
				if err != nil {
					return err
				}
				f.testCount++
				tr := tapResult{
					number: f.testCount,
					name:   spec.Name + " > " + frag.Name,
					status: status,
				}
				if cause := result.CauseOf(frag.Result); cause != nil {
					tr.message = cause.Error()
				}
				f.results = append(f.results, tr)
			}
			if err := walk(frag.Children); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(spec.Fragments)
}

// Flush writes the accumulated TAP output
func (f *TAPFormatter) Flush(totalDuration time.Duration) error {
	// TAP version header
	fmt.Fprintf(f.writer, "TAP version 13\n")

	// Test plan
	fmt.Fprintf(f.writer, "1..%d\n", f.testCount)

	for _, r := range f.results {
		switch r.status {
		case result.StatusSuccess:
			fmt.Fprintf(f.writer, "ok %d - %s\n", r.number, r.name)
		case result.StatusSkipped:
			fmt.Fprintf(f.writer, "ok %d - %s # SKIP\n", r.number, r.name)
		case result.StatusPending:
			fmt.Fprintf(f.writer, "not ok %d - %s # TODO pending\n", r.number, r.name)
		case result.StatusFailure:
			fmt.Fprintf(f.writer, "not ok %d - %s\n", r.number, r.name)
			if r.message != "" {
				fmt.Fprintf(f.writer, "  ---\n")
				fmt.Fprintf(f.writer, "  message: %s\n", escapeYAML(r.message))
				fmt.Fprintf(f.writer, "  severity: fail\n")
				fmt.Fprintf(f.writer, "  ...\n")
			}
		case result.StatusError:
			fmt.Fprintf(f.writer, "not ok %d - %s\n", r.number, r.name)
			fmt.Fprintf(f.writer, "  ---\n")
			fmt.Fprintf(f.writer, "  message: %s\n", escapeYAML(r.message))
			fmt.Fprintf(f.writer, "  severity: error\n")
			fmt.Fprintf(f.writer, "  ...\n")
		}
	}

	// Add final newline for proper TAP output
	fmt.Fprintln(f.writer)

	return nil
}

func escapeYAML(s string) string {
	// Simple YAML escaping - wrap in quotes if contains special chars
	if strings.ContainsAny(s, ":\n\"'[]{}#&*!|>%@`") {
		s = strings.ReplaceAll(s, "\"", "\\\"")
		return "\"" + s + "\""
	}
	return s
}
