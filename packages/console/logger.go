package console

import (
	"fmt"
	"io"
	"os"
)

// LineLogger accepts whole lines at info or error severity. Lines
// arrive without a trailing newline; the logger supplies its own line
// termination.
type LineLogger interface {
	Info(line string)
	Error(line string)
}

// WriterLogger writes lines to an io.Writer, stripping ANSI color
// escapes when the sink does not support them.
type WriterLogger struct {
	writer io.Writer
	color  bool
}

type WriterOption func(*WriterLogger)

func NewWriterLogger(opts ...WriterOption) *WriterLogger {
	l := &WriterLogger{
		writer: os.Stdout,
		color:  true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func WithWriter(w io.Writer) WriterOption {
	return func(l *WriterLogger) {
		l.writer = w
	}
}

// WithColor controls whether ANSI escapes pass through unchanged.
func WithColor(enabled bool) WriterOption {
	return func(l *WriterLogger) {
		l.color = enabled
	}
}

func (l *WriterLogger) Info(line string) {
	l.write(line)
}

func (l *WriterLogger) Error(line string) {
	l.write(line)
}

func (l *WriterLogger) write(line string) {
	if !l.color {
		line = StripANSI(line)
	}
	fmt.Fprintln(l.writer, line)
}

// MultiLogger fans each line out to an array of loggers, in order.
type MultiLogger []LineLogger

func (m MultiLogger) Info(line string) {
	for _, l := range m {
		l.Info(line)
	}
}

func (m MultiLogger) Error(line string) {
	for _, l := range m {
		l.Error(line)
	}
}
