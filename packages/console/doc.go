// Package console renders executed specification trees as colored,
// line-oriented terminal output.
//
// The central piece is LineWriter, which buffers partial-line fragments
// emitted across separate calls and releases only whole lines to the
// underlying loggers. Spec engines print incrementally (a status
// symbol, then a name, then the terminator, each in its own call);
// without buffering, a line-oriented sink would fracture those into
// separate lines or inject blank ones.
package console
