package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/specbridge/packages/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs from the history database",
	Long: `List recent runs recorded with --history.

Examples:
  specbridge history --db runs.db
  specbridge history --db runs.db --limit 5`,
	RunE: historyCommand,
}

var (
	historyDBFlag    string
	historyLimitFlag int
)

func init() {
	historyCmd.Flags().StringVar(&historyDBFlag, "db", getEnvString("SPECBRIDGE_HISTORY", "runs.db"), "Path to the history database (env: SPECBRIDGE_HISTORY)")
	historyCmd.Flags().IntVar(&historyLimitFlag, "limit", 20, "Maximum number of runs to list")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	store, err := history.Open(historyDBFlag)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(historyLimitFlag)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs.")
		return nil
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, r := range runs {
		verdict := green("ok")
		if r.Failed > 0 || r.Errors > 0 {
			verdict = red("failed")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-30s %s  %d/%d passed  %dms\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Spec, verdict, r.Passed, r.Total, r.Duration.Milliseconds())
	}
	return nil
}
