package console

import (
	"fmt"

	"github.com/abdul-hamid-achik/specbridge/packages/core/result"
	"github.com/fatih/color"
)

// Printer renders an executed specification tree through a LineWriter.
type Printer struct {
	out     *LineWriter
	logger  LineLogger
	verbose bool
}

type PrinterOption func(*Printer)

func NewPrinter(logger LineLogger, opts ...PrinterOption) *Printer {
	p := &Printer{
		out:    NewLineWriter(logger),
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func WithVerbose(v bool) PrinterOption {
	return func(p *Printer) {
		p.verbose = v
	}
}

// blankLine emits exactly one blank separator. Two newline emissions
// coalesce to one: whichever of them finds fresh-line state is merged
// away, the other passes through as the separator.
func (p *Printer) blankLine() {
	p.out.Emit("\n", 0)
	p.out.Emit("\n", 0)
}

// PrintSpec renders one spec result: header, fragment tree, then a
// flush so no partial line is left behind. Returns the first
// classification error met in the tree.
func (p *Printer) PrintSpec(spec *result.SpecResult) error {
	bold := color.New(color.Bold).SprintFunc()

	p.blankLine()
	p.out.Emit(bold(spec.Name)+"\n", 0)
	if err := p.printFragments(spec.Fragments, 1); err != nil {
		return err
	}
	p.out.Flush()
	return nil
}

func (p *Printer) printFragments(frags []*result.Fragment, depth int) error {
	for _, f := range frags {
		switch f.Kind {
		case result.FragmentText:
			p.out.Emit(f.Name+"\n", depth)
		case result.FragmentSuite:
			p.out.Emit(color.New(color.Bold).Sprint(f.Name)+"\n", depth)
			if err := p.printFragments(f.Children, depth+1); err != nil {
				return err
			}
		case result.FragmentTest:
			if err := p.printTest(f, depth); err != nil {
				return err
			}
			if err := p.printFragments(f.Children, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Printer) printTest(f *result.Fragment, depth int) error {
	status, err := result.Classify(f.Result)
	if err != nil {
		return err
	}

	line := statusSymbol(status) + " " + f.Name
	if p.verbose && f.Duration > 0 {
		cyan := color.New(color.FgCyan).SprintFunc()
		line += cyan(fmt.Sprintf(" (%dms)", f.Duration.Milliseconds()))
	}
	p.out.Emit(line+"\n", depth)

	if cause := result.CauseOf(f.Result); cause != nil {
		p.out.Flush()
		red := color.New(color.FgRed).SprintFunc()
		p.logger.Error(Indent(red(fmt.Sprintf("→ %v", cause)), depth+1))
	}
	return nil
}

// PrintSummary renders the per-status totals line.
func (p *Printer) PrintSummary(sum *result.Summary) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	p.blankLine()
	line := "Tests: "
	if sum.Passed > 0 {
		line += green(fmt.Sprintf("%d passed", sum.Passed)) + ", "
	}
	if sum.Failed > 0 {
		line += red(fmt.Sprintf("%d failed", sum.Failed)) + ", "
	}
	if sum.Errors > 0 {
		line += red(fmt.Sprintf("%d errored", sum.Errors)) + ", "
	}
	if sum.Skipped > 0 {
		line += yellow(fmt.Sprintf("%d skipped", sum.Skipped)) + ", "
	}
	if sum.Pending > 0 {
		line += cyan(fmt.Sprintf("%d pending", sum.Pending)) + ", "
	}
	line += fmt.Sprintf("%d total", sum.Total)
	p.out.Emit(line+"\n", 0)
	p.out.Emit(fmt.Sprintf("Time:  %dms\n", sum.Duration.Milliseconds()), 0)
	p.out.Flush()
}

// PrintLines emits plain lines followed by a flush.
func (p *Printer) PrintLines(lines ...string) {
	for _, line := range lines {
		p.out.Emit(line+"\n", 0)
	}
	p.out.Flush()
}

// PrintError reports a non-test error (decode failure, bad config) at
// error severity.
func (p *Printer) PrintError(err error) {
	p.out.Flush()
	red := color.New(color.FgRed).SprintFunc()
	p.logger.Error(red("Error: ") + err.Error())
}

func statusSymbol(status result.Status) string {
	switch status {
	case result.StatusSuccess:
		return color.New(color.FgGreen).Sprint("✓")
	case result.StatusFailure:
		return color.New(color.FgRed).Sprint("✗")
	case result.StatusError:
		return color.New(color.FgRed).Sprint("x")
	case result.StatusSkipped:
		return color.New(color.FgYellow).Sprint("-")
	case result.StatusPending:
		return color.New(color.FgCyan).Sprint("*")
	default:
		return "?"
	}
}
