package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Rebuild and print the daily summary",
	Long: `Rebuilds the summary rows for one day from the attendance log and prints them.
Without --date the current day in TIMEZONE is used.`,
	Args: cobra.NoArgs,
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().String("date", "", "Day to summarize (YYYY-MM-DD)")
	summarizeCmd.Flags().Bool("dry-run", false, "Print the stored rows without rebuilding")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	date, err := a.Service.ParseDate(mustGetString(cmd, "date"))
	if err != nil {
		return fmt.Errorf("invalid --date: %w", err)
	}

	var rows []domain.SummaryRow
	if mustGetBool(cmd, "dry-run") {
		rows, err = a.Service.Summary(ctx, date)
	} else {
		rows, err = a.Service.RebuildSummary(ctx, date)
	}
	if err != nil {
		return fmt.Errorf("failed to summarize %s: %w", date.Format(domain.DateLayout), err)
	}

	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintf(out, "No attendance on %s.\n", date.Format(domain.DateLayout))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCHECK-IN\tCHECK-OUT\tWORKING-TIME")
	fmt.Fprintln(w, "----\t--------\t---------\t------------")

	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			row.Name,
			row.CheckIn.Format(domain.TimestampLayout),
			row.CheckOut.Format(domain.TimestampLayout),
			row.WorkingTime,
		)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTotal: %d people\n", len(rows))
	return nil
}
