package console

import "strings"

// IndentFunc is the offset transform applied to every message before
// buffering. It must be pure.
type IndentFunc func(message string, depth int) string

// LineWriter reassembles partial-line fragments into whole lines.
//
// Engines emit a logical line across several calls: a prefix that ends
// mid-line, then the content, then the terminator. LineWriter holds a
// trailing whitespace-only remainder between calls and merges a
// leading-newline continuation into the held line, so the logger only
// ever sees complete lines and genuinely blank separators.
//
// Not safe for concurrent use; confine an instance to one reporting
// session.
type LineWriter struct {
	logger LineLogger
	indent IndentFunc

	// pending holds at most one unterminated line; it never contains a
	// newline. newlines counts consecutive fresh-line emissions and
	// gates the leading-newline merge.
	pending  string
	newlines int
}

type LineWriterOption func(*LineWriter)

func NewLineWriter(logger LineLogger, opts ...LineWriterOption) *LineWriter {
	w := &LineWriter{
		logger: logger,
		indent: Indent,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WithIndentFunc replaces the default offset transform.
func WithIndentFunc(fn IndentFunc) LineWriterOption {
	return func(w *LineWriter) {
		w.indent = fn
	}
}

// Emit buffers or logs one message after indenting it for depth.
//
// Messages that are blank once spaces are removed are dropped entirely.
// A message whose first non-space character is a newline continues the
// previously buffered line when the previous call emitted one; its
// first newline is consumed rather than logged, which is what glues a
// "fragment ending mid-line" to the "fragment carrying that line's
// terminator".
func (w *LineWriter) Emit(message string, depth int) {
	text := w.indent(message, depth)

	if strings.ReplaceAll(text, " ", "") == "" {
		return
	}

	stripped := strings.TrimLeft(text, " ")
	if strings.HasPrefix(stripped, "\n") && w.newlines > 0 {
		w.pending += strings.TrimPrefix(stripped, "\n")
		w.newlines = 0
		return
	}

	joined := w.pending + text
	w.pending = ""

	segments := strings.Split(joined, "\n")
	last := segments[len(segments)-1]
	if strings.Trim(last, " ") == "" && len(segments) > 1 {
		w.pending = last
		for _, segment := range segments[:len(segments)-1] {
			w.logger.Info(segment)
		}
	} else {
		w.logger.Info(joined)
	}
	w.newlines++
}

// Flush forces any held partial line out. A second consecutive call is
// a no-op: an empty buffer never turns into a blank line.
func (w *LineWriter) Flush() {
	if w.pending == "" {
		return
	}
	w.logger.Info(w.pending)
	w.pending = ""
}
