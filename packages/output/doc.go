// Package output provides export formatters for reported spec results.
//
// Supported output formats:
//   - JSON: Machine-readable JSON output
//   - JUnit: JUnit XML format for CI integration
//   - TAP: Test Anything Protocol format
//
// Each formatter implements the Formatter interface and can optionally
// implement Flushable for formats that accumulate results before output.
// Human-readable console rendering lives in the console package.
package output
