package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/specbridge/packages/console"
	"github.com/abdul-hamid-achik/specbridge/packages/events"
	"github.com/abdul-hamid-achik/specbridge/packages/output"
)

const passingDoc = `{
  "name": "orders API",
  "fragments": [
    {"kind": "test", "name": "lists orders", "status": "success", "durationMs": 4}
  ]
}`

const failingDoc = `{
  "name": "users API",
  "fragments": [
    {"kind": "test", "name": "creates a user", "status": "success", "durationMs": 12},
    {"kind": "test", "name": "rejects duplicates", "status": "failure", "message": "expected 409", "durationMs": 3}
  ]
}`

func writeSpecFile(t *testing.T, dir, name, doc string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func newTestSession(t *testing.T) (*reportSession, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	logger := console.NewWriterLogger(console.WithWriter(&buf), console.WithColor(false))
	return &reportSession{printer: console.NewPrinter(logger)}, &buf
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeSpecFile(t, dir, "a.spec.json", passingDoc)
	writeSpecFile(t, dir, "notes.txt", "not a result")
	b := writeSpecFile(t, dir, "b.spec.json", failingDoc)

	files, err := collectFiles([]string{dir})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, files)

	_, err = collectFiles([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestReportAllAggregatesTotals(t *testing.T) {
	dir := t.TempDir()
	a := writeSpecFile(t, dir, "a.spec.json", passingDoc)
	b := writeSpecFile(t, dir, "b.spec.json", failingDoc)
	session, buf := newTestSession(t)

	totals, hadParseError := session.reportAll(nil, []string{a, b})

	assert.False(t, hadParseError)
	assert.Equal(t, 3, totals.Total)
	assert.Equal(t, 2, totals.Passed)
	assert.Equal(t, 1, totals.Failed)

	out := buf.String()
	assert.Contains(t, out, "orders API")
	assert.Contains(t, out, "✗ rejects duplicates")
	assert.Contains(t, out, "Tests: 2 passed, 1 failed, 3 total")
}

func TestReportAllFlagsParseError(t *testing.T) {
	dir := t.TempDir()
	bad := writeSpecFile(t, dir, "bad.spec.json", "{nope")
	good := writeSpecFile(t, dir, "good.spec.json", passingDoc)
	session, buf := newTestSession(t)

	totals, hadParseError := session.reportAll(nil, []string{bad, good})

	// The bad document is reported and skipped; the good one still counts.
	assert.True(t, hadParseError)
	assert.Equal(t, 1, totals.Passed)
	assert.Contains(t, buf.String(), "Error:")
}

func TestReportAllWithExportFormatter(t *testing.T) {
	dir := t.TempDir()
	file := writeSpecFile(t, dir, "a.spec.json", failingDoc)
	session, _ := newTestSession(t)

	var tap bytes.Buffer
	formatter := output.NewTAPFormatter(output.TAPWithWriter(&tap))
	totals, hadParseError := session.reportAll(formatter, []string{file})

	assert.False(t, hadParseError)
	assert.Equal(t, 1, totals.Failed)
	assert.Contains(t, tap.String(), "not ok 2 - users API > rejects duplicates")
}

func TestReportAllEmitsProtocolEvents(t *testing.T) {
	dir := t.TempDir()
	file := writeSpecFile(t, dir, "a.spec.json", failingDoc)
	session, _ := newTestSession(t)

	var eventLog bytes.Buffer
	session.eventHandler = events.NewJSONLWriter(&eventLog)

	_, hadParseError := session.reportAll(nil, []string{file})
	assert.False(t, hadParseError)

	lines := bytes.Split(bytes.TrimSpace(eventLog.Bytes()), []byte("\n"))
	assert.Len(t, lines, 2)
	assert.Contains(t, string(lines[1]), `"duration":-1`)
	assert.Contains(t, string(lines[1]), `"throwable":"expected 409"`)
}

// newReportTestCmd resets the report flags to defaults for the test
// and returns a command with captured stdout/stderr.
func newReportTestCmd(t *testing.T) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	prevOutput, prevFile, prevEvents := outputFlag, outputFileFlag, eventsFileFlag
	prevHistory, prevConfig := historyFlag, configFlag
	prevVerbose, prevQuiet, prevNoColor := verboseFlag, quietFlag, noColorFlag
	prevStrict, prevBail, prevWatch := strictFlag, bailFlag, watchFlag
	prevGlobalNoColor := color.NoColor
	t.Cleanup(func() {
		outputFlag, outputFileFlag, eventsFileFlag = prevOutput, prevFile, prevEvents
		historyFlag, configFlag = prevHistory, prevConfig
		verboseFlag, quietFlag, noColorFlag = prevVerbose, prevQuiet, prevNoColor
		strictFlag, bailFlag, watchFlag = prevStrict, prevBail, prevWatch
		color.NoColor = prevGlobalNoColor
	})
	outputFlag, outputFileFlag, eventsFileFlag = "console", "", ""
	historyFlag, configFlag = "", ""
	verboseFlag, quietFlag, noColorFlag = 0, false, true
	strictFlag, bailFlag, watchFlag = false, false, false

	var stdout, stderr bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	return cmd, &stdout, &stderr
}

func TestReReportReplacesOutputFile(t *testing.T) {
	dir := t.TempDir()
	file := writeSpecFile(t, dir, "a.spec.json", failingDoc)
	session, _ := newTestSession(t)

	out, err := os.Create(filepath.Join(dir, "report.xml"))
	require.NoError(t, err)
	defer out.Close()

	// Two report cycles over the same open handle, as watch mode does.
	for i := 0; i < 2; i++ {
		require.NoError(t, rewindOutput(out))
		formatter := output.NewJUnitFormatter(output.JUnitWithWriter(out))
		_, hadParseError := session.reportAll(formatter, []string{file})
		assert.False(t, hadParseError)
	}

	data, err := os.ReadFile(out.Name())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "<?xml"))
	assert.Equal(t, 1, strings.Count(string(data), "</testsuites>"))
}

func TestWatchDebounceFiresOnceAfterBurst(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	for i := 0; i < 4; i++ {
		d.Trigger("results/users.spec.json")
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case name := <-d.fire:
		assert.Equal(t, "results/users.spec.json", name)
	case <-time.After(time.Second):
		t.Fatal("notification never fired after the burst quiesced")
	}

	select {
	case <-d.fire:
		t.Fatal("burst produced more than one notification")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRunReportReturnsExitCode(t *testing.T) {
	cmd, _, _ := newReportTestCmd(t)
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	failing := t.TempDir()
	writeSpecFile(t, failing, "a.spec.json", failingDoc)
	code, err := runReport(cmd, []string{failing})
	require.NoError(t, err)
	assert.Equal(t, ExitTestFailure, code)

	broken := t.TempDir()
	writeSpecFile(t, broken, "bad.spec.json", "{nope")
	code, err = runReport(cmd, []string{broken})
	require.NoError(t, err)
	assert.Equal(t, ExitParseError, code)

	passing := t.TempDir()
	writeSpecFile(t, passing, "a.spec.json", passingDoc)
	code, err = runReport(cmd, []string{passing})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestQuietConsoleStillWritesOutputFile(t *testing.T) {
	cmd, stdout, _ := newReportTestCmd(t)
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	dir := t.TempDir()
	writeSpecFile(t, dir, "a.spec.json", passingDoc)
	quietFlag = true
	outputFileFlag = filepath.Join(dir, "out.txt")

	code, err := runReport(cmd, []string{dir})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(outputFileFlag)
	require.NoError(t, err)
	assert.Contains(t, string(data), "orders API")
	assert.Contains(t, string(data), "Tests: 1 passed, 1 total")
}

func TestIsSpecResultFile(t *testing.T) {
	assert.True(t, isSpecResultFile("results/users.spec.json"))
	assert.False(t, isSpecResultFile("results/users.json"))
	assert.False(t, isSpecResultFile("users.spec.yaml"))
}
