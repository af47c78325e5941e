package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/specbridge/packages/core/result"
)

// JUnit XML structures

// JUnitTestSuites is the root element
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Skipped    int              `xml:"skipped,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite represents one reported spec
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Time      float64         `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr,omitempty"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase represents a single test fragment
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents a test failure
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitError represents a test error
type JUnitError struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitSkipped represents a skipped or pending test
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitFormatter formats spec results as JUnit XML
type JUnitFormatter struct {
	writer     io.Writer
	testSuites []JUnitTestSuite
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer:     os.Stdout,
		testSuites: make([]JUnitTestSuite, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

func (f *JUnitFormatter) FormatResult(spec *result.SpecResult) error {
	suite := JUnitTestSuite{
		Name:      spec.Name,
		Timestamp: time.Now().Format(time.RFC3339),
		TestCases: make([]JUnitTestCase, 0),
	}

	var walk func(frags []*result.Fragment) error
	walk = func(frags []*result.Fragment) error {
		for _, frag := range frags {
			if frag.Kind == result.FragmentTest {
				tc, err := f.testCase(spec, frag, &suite)
				if err != nil {
					return err
				}
				suite.TestCases = append(suite.TestCases, tc)
			}
			if err := walk(frag.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(spec.Fragments); err != nil {
		return err
	}

	f.testSuites = append(f.testSuites, suite)
	return nil
}

func (f *JUnitFormatter) testCase(spec *result.SpecResult, frag *result.Fragment, suite *JUnitTestSuite) (JUnitTestCase, error) {
	tc := JUnitTestCase{
		Name:      frag.Name,
		ClassName: spec.Name,
		Time:      frag.Duration.Seconds(),
	}

	status, err := result.Classify(frag.Result)
	if err != nil {
		return tc, err
	}

	suite.Tests++
	suite.Time += frag.Duration.Seconds()

	switch status {
	case result.StatusFailure:
		suite.Failures++
		tc.Failure = &JUnitFailure{
			Message: causeMessage(frag),
			Type:    "AssertionError",
		}
	case result.StatusError:
		suite.Errors++
		tc.Error = &JUnitError{
			Message: causeMessage(frag),
			Type:    "Error",
		}
	case result.StatusSkipped:
		suite.Skipped++
		tc.Skipped = &JUnitSkipped{Message: "skipped"}
	case result.StatusPending:
		// JUnit has no pending notion; report as skipped.
		suite.Skipped++
		tc.Skipped = &JUnitSkipped{Message: "pending"}
	}
	return tc, nil
}

func causeMessage(frag *result.Fragment) string {
	if cause := result.CauseOf(frag.Result); cause != nil {
		return cause.Error()
	}
	return ""
}

// Flush writes the accumulated JUnit XML document
func (f *JUnitFormatter) Flush(totalDuration time.Duration) error {
	root := JUnitTestSuites{
		Name:       "specbridge",
		Time:       totalDuration.Seconds(),
		Timestamp:  time.Now().Format(time.RFC3339),
		TestSuites: f.testSuites,
	}
	for _, s := range f.testSuites {
		root.Tests += s.Tests
		root.Failures += s.Failures
		root.Errors += s.Errors
		root.Skipped += s.Skipped
	}

	if _, err := fmt.Fprint(f.writer, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(root); err != nil {
		return err
	}
	_, err := fmt.Fprintln(f.writer)
	return err
}
