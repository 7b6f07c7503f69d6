package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/naka-gawa/issue-tenure/internal/report"
	"github.com/naka-gawa/issue-tenure/internal/usecase"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var input string

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarizes reporter tenure per project and outputs as JSON",
		Long: `Reads a table produced by issue-tenure and prints, for every project, the number
of reporters and issues together with mean, median, 90th percentile and maximum tenure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return fmt.Errorf("failed to open input: %w", err)
				}
				defer f.Close()
				in = f
			}

			rows, err := report.ReadCSV(in)
			if err != nil {
				return err
			}

			// Marshal the results into a pretty-printed JSON string.
			jsonData, err := json.MarshalIndent(usecase.TenureStats(rows), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal results to JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		},
	}
	statsCmd.Flags().StringVarP(&input, "input", "i", "-", "Table written by issue-tenure, '-' or skip for stdin")
	return statsCmd
}
