package result

import "time"

// FragmentKind identifies the shape of a reportable unit within an
// executed specification tree.
type FragmentKind string

const (
	// FragmentSuite is a structural grouping of other fragments.
	FragmentSuite FragmentKind = "suite"
	// FragmentTest is a single executed example with a result.
	FragmentTest FragmentKind = "test"
	// FragmentText is free-form narrative text within a specification.
	FragmentText FragmentKind = "text"
)

// Fragment is one reportable unit of an executed specification: a test,
// a text block, or a structural suite with children.
type Fragment struct {
	Kind     FragmentKind
	Name     string
	Result   *Result // nil for suites and text blocks
	Duration time.Duration
	Children []*Fragment
}

// SpecResult is the decoded outcome of one executed specification.
type SpecResult struct {
	Name      string
	File      string
	Fragments []*Fragment
}

// Summary holds per-status counts for a spec result.
type Summary struct {
	Total    int
	Passed   int
	Failed   int
	Errors   int
	Skipped  int
	Pending  int
	Duration time.Duration
}

// Summarize walks the fragment tree and tallies test outcomes. It
// returns an error on the first unclassifiable result it meets.
func (s *SpecResult) Summarize() (*Summary, error) {
	sum := &Summary{}
	var walk func(frags []*Fragment) error
	walk = func(frags []*Fragment) error {
		for _, f := range frags {
			if f.Kind == FragmentTest {
				status, err := Classify(f.Result)
				if err != nil {
					return err
				}
				sum.Total++
				sum.Duration += f.Duration
				switch status {
				case StatusSuccess:
					sum.Passed++
				case StatusFailure:
					sum.Failed++
				case StatusError:
					sum.Errors++
				case StatusSkipped:
					sum.Skipped++
				case StatusPending:
					sum.Pending++
				}
			}
			if err := walk(f.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(s.Fragments); err != nil {
		return nil, err
	}
	return sum, nil
}
