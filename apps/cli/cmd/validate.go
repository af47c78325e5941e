package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/specbridge/packages/core/stream"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory>",
	Short: "Validate spec result documents against the schema",
	Long: `Validate .spec.json result documents without reporting them.

Examples:
  specbridge validate results/users.spec.json
  specbridge validate ./results/`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no .spec.json files found")
	}

	hasErrors := false
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err == nil {
			err = stream.Validate(data)
		}
		if err == nil {
			_, err = stream.Decode(data)
		}
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
		}
	}

	if hasErrors {
		return fmt.Errorf("validation failed")
	}

	return nil
}
