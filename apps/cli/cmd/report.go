package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/abdul-hamid-achik/specbridge/packages/console"
	"github.com/abdul-hamid-achik/specbridge/packages/core/config"
	"github.com/abdul-hamid-achik/specbridge/packages/core/result"
	"github.com/abdul-hamid-achik/specbridge/packages/core/stream"
	"github.com/abdul-hamid-achik/specbridge/packages/events"
	"github.com/abdul-hamid-achik/specbridge/packages/history"
	"github.com/abdul-hamid-achik/specbridge/packages/output"
	"github.com/abdul-hamid-achik/specbridge/packages/stats"
)

var reportCmd = &cobra.Command{
	Use:   "report <file|directory>",
	Short: "Report executed spec results",
	Long: `Report executed specification results from .spec.json documents.

Examples:
  specbridge report results/users.spec.json
  specbridge report ./results/ --output junit --output-file report.xml
  specbridge report ./results/ --events events.jsonl
  specbridge report ./results/ --watch --history runs.db`,
	Args: cobra.MinimumNArgs(1),
	RunE: reportCommand,
}

const (
	// WatchRelimit is the quiet period after the last write before a
	// re-report fires, and the minimum interval between re-reports.
	WatchRelimit = 300 * time.Millisecond
)

var (
	outputFlag     string
	outputFileFlag string
	eventsFileFlag string
	historyFlag    string
	configFlag     string
	verboseFlag    int
	quietFlag      bool
	noColorFlag    bool
	strictFlag     bool
	bailFlag       bool
	watchFlag      bool
)

func init() {
	reportCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("SPECBRIDGE_OUTPUT", "console"), "Output format: console, json, junit, tap (env: SPECBRIDGE_OUTPUT)")
	reportCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("SPECBRIDGE_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: SPECBRIDGE_OUTPUT_FILE)")
	reportCmd.Flags().StringVar(&eventsFileFlag, "events", getEnvString("SPECBRIDGE_EVENTS", ""), "Write protocol events as JSON lines to file (env: SPECBRIDGE_EVENTS)")
	reportCmd.Flags().StringVar(&historyFlag, "history", getEnvString("SPECBRIDGE_HISTORY", ""), "Record run summaries to this SQLite database (env: SPECBRIDGE_HISTORY)")
	reportCmd.Flags().StringVar(&configFlag, "config", getEnvString("SPECBRIDGE_CONFIG", ""), "Path to config file (env: SPECBRIDGE_CONFIG)")
	reportCmd.Flags().CountVarP(&verboseFlag, "verbose", "v", "Verbose output (durations, percentiles)")
	reportCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", getEnvBool("SPECBRIDGE_QUIET", false), "Suppress all output except errors (env: SPECBRIDGE_QUIET)")
	reportCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("SPECBRIDGE_NO_COLOR", false), "Disable colored output (env: SPECBRIDGE_NO_COLOR)")
	reportCmd.Flags().BoolVar(&strictFlag, "strict", getEnvBool("SPECBRIDGE_STRICT", false), "Validate result documents against the schema before decoding (env: SPECBRIDGE_STRICT)")
	reportCmd.Flags().BoolVar(&bailFlag, "bail", getEnvBool("SPECBRIDGE_BAIL", false), "Stop at the first spec with failures (env: SPECBRIDGE_BAIL)")
	reportCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch result files for changes and re-report")
}

// Formatter is implemented by every export format.
type Formatter interface {
	FormatResult(spec *result.SpecResult) error
}

// Flushable is implemented by formatters that accumulate results and
// write once at the end.
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// quietLogger drops info lines but still surfaces errors.
type quietLogger struct {
	inner console.LineLogger
}

func (l quietLogger) Info(string)       {}
func (l quietLogger) Error(line string) { l.inner.Error(line) }

func reportCommand(cmd *cobra.Command, args []string) error {
	code, err := runReport(cmd, args)
	if err != nil {
		return err
	}
	if code != 0 {
		// runReport's deferred closes have already run.
		os.Exit(code)
	}
	return nil
}

// runReport does the work of the report command and returns the exit
// code instead of calling os.Exit, so open files and the history store
// are closed before the process terminates.
func runReport(cmd *cobra.Command, args []string) (int, error) {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return ExitConfigError, nil
	}
	applyConfig(cmd, fileConfig)

	isConsole := strings.EqualFold(outputFlag, "console")

	var outWriter io.Writer = cmd.OutOrStdout()
	var outFile *os.File
	if outputFileFlag != "" {
		f, err := os.Create(outputFileFlag)
		if err != nil {
			return 0, fmt.Errorf("cannot create output file: %w", err)
		}
		defer f.Close()
		outFile = f
		outWriter = f
	}

	if noColorFlag || quietFlag {
		color.NoColor = true
	}

	var logger console.LineLogger
	switch {
	case quietFlag && isConsole && outputFileFlag != "":
		// Quiet silences the terminal, but the requested file copy
		// still gets the full color-stripped report.
		logger = console.MultiLogger{
			quietLogger{inner: console.NewWriterLogger(console.WithWriter(cmd.ErrOrStderr()), console.WithColor(false))},
			console.NewWriterLogger(console.WithWriter(outWriter), console.WithColor(false)),
		}
	case quietFlag:
		logger = quietLogger{inner: console.NewWriterLogger(console.WithWriter(cmd.ErrOrStderr()), console.WithColor(false))}
	case isConsole && outputFileFlag != "":
		// Console output goes to both the terminal and the file; the
		// file copy gets its color codes stripped.
		logger = console.MultiLogger{
			console.NewWriterLogger(console.WithWriter(cmd.OutOrStdout()), console.WithColor(!noColorFlag)),
			console.NewWriterLogger(console.WithWriter(outWriter), console.WithColor(false)),
		}
	case isConsole:
		logger = console.NewWriterLogger(console.WithWriter(outWriter), console.WithColor(!noColorFlag))
	default:
		// Export formats own outWriter; console messages (errors,
		// summary) go to stderr.
		logger = console.NewWriterLogger(console.WithWriter(cmd.ErrOrStderr()), console.WithColor(!noColorFlag))
	}
	printer := console.NewPrinter(logger, console.WithVerbose(verboseFlag > 0))

	var eventHandler events.Handler
	if eventsFileFlag != "" {
		f, err := os.Create(eventsFileFlag)
		if err != nil {
			return 0, fmt.Errorf("cannot create events file: %w", err)
		}
		defer f.Close()
		eventHandler = events.NewJSONLWriter(f)
	}

	var store *history.Store
	if historyFlag != "" {
		store, err = history.Open(historyFlag)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return ExitConfigError, nil
		}
		defer store.Close()
	}

	files, err := collectFiles(args)
	if err != nil {
		printer.PrintError(err)
		return 0, err
	}
	if len(files) == 0 {
		err := fmt.Errorf("no .spec.json files found")
		printer.PrintError(err)
		return 0, err
	}

	session := &reportSession{
		printer:      printer,
		eventHandler: eventHandler,
		store:        store,
	}

	runOnce := func() (*result.Summary, bool) {
		// A re-report replaces the previous document in the output
		// file rather than appending a second one after it.
		if outFile != nil {
			if err := rewindOutput(outFile); err != nil {
				printer.PrintError(fmt.Errorf("cannot rewind output file: %w", err))
			}
		}
		formatter := newFormatter(outWriter)
		return session.reportAll(formatter, files)
	}

	totals, hadParseError := runOnce()

	if !watchFlag {
		switch {
		case hadParseError:
			return ExitParseError, nil
		case totals.Failed > 0 || totals.Errors > 0:
			return ExitTestFailure, nil
		}
		return 0, nil
	}

	return 0, watchAndReport(cmd, printer, files, runOnce)
}

// rewindOutput truncates and rewinds the output file so the next
// report cycle starts from an empty file.
func rewindOutput(f *os.File) error {
	if err := f.Truncate(0); err != nil {
		return err
	}
	_, err := f.Seek(0, io.SeekStart)
	return err
}

// applyConfig fills in flag values from the config file for flags the
// user did not set explicitly.
func applyConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("output") && cfg.Output != "" {
		outputFlag = cfg.Output
	}
	if !flags.Changed("output-file") && cfg.OutputFile != "" {
		outputFileFlag = cfg.OutputFile
	}
	if !flags.Changed("history") && cfg.History != "" {
		historyFlag = cfg.History
	}
	if !flags.Changed("verbose") && cfg.GetVerbose() {
		verboseFlag = 1
	}
	if !flags.Changed("no-color") {
		noColorFlag = noColorFlag || cfg.GetNoColor()
	}
	if !flags.Changed("strict") {
		strictFlag = strictFlag || cfg.GetStrict()
	}
	if !flags.Changed("bail") {
		bailFlag = bailFlag || cfg.GetBail()
	}
}

// newFormatter builds the export formatter for the selected output.
// Console output goes through the printer instead and needs none.
func newFormatter(w io.Writer) Formatter {
	switch strings.ToLower(outputFlag) {
	case "json":
		return output.NewJSONFormatter(output.JSONWithWriter(w))
	case "junit":
		return output.NewJUnitFormatter(output.JUnitWithWriter(w))
	case "tap":
		return output.NewTAPFormatter(output.TAPWithWriter(w))
	default: // "console"
		return nil
	}
}

type reportSession struct {
	printer      *console.Printer
	eventHandler events.Handler
	store        *history.Store
}

// reportAll reports every file once and returns the aggregated summary
// plus whether any document failed to decode.
func (s *reportSession) reportAll(formatter Formatter, files []string) (*result.Summary, bool) {
	totals := &result.Summary{}
	durations := stats.NewCollector()
	hadParseError := false
	start := time.Now()

	for _, file := range files {
		spec, err := s.decode(file)
		if err != nil {
			s.printer.PrintError(err)
			hadParseError = true
			if bailFlag {
				break
			}
			continue
		}

		sum, err := s.reportSpec(formatter, spec)
		if err != nil {
			s.printer.PrintError(err)
			hadParseError = true
			if bailFlag {
				break
			}
			continue
		}

		durations.RecordSpec(spec)
		totals.Total += sum.Total
		totals.Passed += sum.Passed
		totals.Failed += sum.Failed
		totals.Errors += sum.Errors
		totals.Skipped += sum.Skipped
		totals.Pending += sum.Pending
		totals.Duration += sum.Duration

		if bailFlag && (sum.Failed > 0 || sum.Errors > 0) {
			break
		}
	}

	if formatter == nil {
		s.printer.PrintSummary(totals)
		if verboseFlag > 0 {
			printDurations(s.printer, durations.Summary())
		}
	} else if flushable, ok := formatter.(Flushable); ok {
		if err := flushable.Flush(time.Since(start)); err != nil {
			s.printer.PrintError(fmt.Errorf("error writing output: %w", err))
		}
	}

	return totals, hadParseError
}

func (s *reportSession) decode(file string) (*result.SpecResult, error) {
	if strictFlag {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		if err := stream.Validate(data); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
	}
	return stream.DecodeFile(file)
}

func (s *reportSession) reportSpec(formatter Formatter, spec *result.SpecResult) (*result.Summary, error) {
	sum, err := spec.Summarize()
	if err != nil {
		return nil, err
	}

	if formatter == nil {
		if err := s.printer.PrintSpec(spec); err != nil {
			return nil, err
		}
	} else if err := formatter.FormatResult(spec); err != nil {
		return nil, err
	}

	if s.eventHandler != nil {
		emitter := events.NewEmitter(spec.Name, s.eventHandler)
		if err := emitter.EmitAll(spec.Fragments); err != nil {
			return nil, err
		}
	}

	if s.store != nil {
		if _, err := s.store.Record(spec.Name, sum); err != nil {
			return nil, err
		}
	}
	return sum, nil
}

func printDurations(p *console.Printer, s stats.Summary) {
	if s.Count == 0 {
		return
	}
	p.PrintLines(fmt.Sprintf("Durations: mean %s, p50 %s, p95 %s, p99 %s, max %s",
		s.Mean.Round(time.Millisecond), s.P50.Round(time.Millisecond),
		s.P95.Round(time.Millisecond), s.P99.Round(time.Millisecond),
		s.Max.Round(time.Millisecond)))
}

func watchAndReport(cmd *cobra.Command, printer *console.Printer, files []string, runOnce func() (*result.Summary, bool)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watchedDirs := make(map[string]bool)
	for _, file := range files {
		dir := filepath.Dir(file)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				printer.PrintError(fmt.Errorf("failed to watch %s: %w", dir, err))
			}
			watchedDirs[dir] = true
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	// Editors save in bursts of writes. The debouncer waits for the
	// burst to quiesce before re-reporting, so a half-written file is
	// never read mid-save; the limiter caps the re-report frequency.
	limiter := rate.NewLimiter(rate.Every(WatchRelimit), 1)
	debounce := newDebouncer(WatchRelimit)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) && isSpecResultFile(event.Name) {
				debounce.Trigger(event.Name)
			}

		case name := <-debounce.fire:
			if err := limiter.Wait(cmd.Context()); err != nil {
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nFile changed: %s\nRe-reporting...\n", name)
			runOnce()
			fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printer.PrintError(fmt.Errorf("watcher error: %w", err))
		}
	}
}

// debouncer coalesces a burst of file events into a single
// notification delivered once the burst quiesces.
type debouncer struct {
	delay time.Duration
	timer *time.Timer
	fire  chan string
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, fire: make(chan string, 1)}
}

// Trigger restarts the quiet-period timer; only the last event of a
// burst produces a notification.
func (d *debouncer) Trigger(name string) {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		select {
		case d.fire <- name:
		default:
		}
	})
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && isSpecResultFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else {
			if isSpecResultFile(arg) {
				files = append(files, arg)
			}
		}
	}

	return files, nil
}

func isSpecResultFile(path string) bool {
	return strings.HasSuffix(path, ".spec.json")
}
