package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sarchlab/eccinject/monitoring"
)

var consoleWithMonitor bool

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Run the interactive fault report example",
	Long: `Run the fault report example on the simulated controller. Press ` +
		`'i' to get a correctable ECC fault handled by the fault interrupt, ` +
		`'r' to get it handled by a reset, and 'q' to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		out := cmd.OutOrStdout()

		s, err := openSession(cmd, out, true)
		if err != nil {
			return err
		}
		defer s.Close()

		if consoleWithMonitor {
			m := monitoring.NewMonitor().
				WithPortNumber(s.cfg.MonitorPort).
				WithPageDir(s.cfg.MonitorPage)
			m.RegisterBench(s.bench)
			m.StartServer()
		}

		keys, restore := openKeys(ctx, cmd.InOrStdin())
		defer restore()

		err = s.bench.Poll(ctx, keys)
		if errors.Is(err, context.Canceled) {
			return nil
		}

		fmt.Fprintf(out, "%d fault(s) reported, %d reset(s)\r\n",
			len(s.bench.Reports()), s.bench.Resets())

		return err
	},
}

func init() {
	consoleCmd.Flags().BoolVar(&consoleWithMonitor, "monitor", false,
		"also serve the bench over HTTP")
	rootCmd.AddCommand(consoleCmd)
}
