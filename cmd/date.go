package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tracehq/trace-cli/internal/dates"
	"github.com/tracehq/trace-cli/internal/output"
)

var dateCmd = &cobra.Command{
	Use:   "date",
	Short: "Work with date expressions",
}

var dateParseCmd = &cobra.Command{
	Use:         "parse <start>",
	Short:       "Resolve a date expression (7d, 2w, 1m, today, 2025-01-15, …) into a range",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipEnvAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkOutputFormat(); err != nil {
			return err
		}
		end, _ := cmd.Flags().GetString("end")
		layout, _ := cmd.Flags().GetString("layout")

		start, stop, err := dates.Range(args[0], end, time.Now())
		if err != nil {
			return err
		}

		rows := [][]any{{
			dates.Format(start, layout),
			dates.Format(stop, layout),
			dates.DaysBetween(start, stop),
		}}
		if err := output.Render(cmd.OutOrStdout(), outputFormat, []string{"start", "end", "days"}, rows); err != nil {
			return fmt.Errorf("rendering range: %w", err)
		}
		return nil
	},
}

func init() {
	dateParseCmd.Flags().String("end", "", "end of the range (default: now)")
	dateParseCmd.Flags().String("layout", dates.DefaultLayout, "Go time layout used to print dates")

	dateCmd.AddCommand(dateParseCmd)
	rootCmd.AddCommand(dateCmd)
}
