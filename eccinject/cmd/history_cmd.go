package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/eccinject/datarecording"
	"github.com/sarchlab/eccinject/trace"
)

var (
	historySource string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history <recording.sqlite3>",
	Short: "Print the injections and faults of a recorded session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := datarecording.NewReader(args[0])
		if err != nil {
			return err
		}
		defer reader.Close()

		history := trace.NewTraceReader(reader)

		injections, err := history.ListInjections(cmd.Context())
		if err != nil {
			return err
		}

		faults, err := history.ListFaults(cmd.Context(), trace.FaultQuery{
			Source: historySource,
			Limit:  historyLimit,
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

		fmt.Fprintln(w, "ID\tTIME\tCELL\tPRESET\tDATA\tPARITY\tCORRECT")
		for _, e := range injections {
			fmt.Fprintf(w, "%s\t%.3f\t%s\t%s\t%s\t%s\t%s\n",
				e.ID, e.Time, e.CellAddress, e.Preset, e.Data, e.Parity,
				e.CorrectParity)
		}

		fmt.Fprintln(w)
		fmt.Fprintln(w, "SEQ\tTIME\tSOURCE\tADDRESS\tINFO")
		for _, e := range faults {
			fmt.Fprintf(w, "%d\t%.3f\t%s\t%s\t%s\n",
				e.Seq, e.Time, e.Source, e.Address, e.Info)
		}

		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().StringVar(&historySource, "source", "",
		"only list faults from this source, such as CY_SYSFAULT_RAMC0_C_ECC")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0,
		"maximum number of faults to list")
	rootCmd.AddCommand(historyCmd)
}
