package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sarchlab/eccinject/datarecording"
	"github.com/sarchlab/eccinject/injection"
	"github.com/sarchlab/eccinject/monitoring"
	"github.com/sarchlab/eccinject/trace"
)

var (
	monitorOpen    bool
	campaignPreset string
	campaignCount  int
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Serve a bench over HTTP",
	Long: `Start a bench and serve its state over HTTP until interrupted. ` +
		`Injections can be requested from the page. With --campaign, the ` +
		`given preset is injected --count times while the progress is shown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var preset injection.Preset

		if campaignPreset != "" {
			var err error

			preset, err = injection.ParsePreset(campaignPreset)
			if err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		s, err := openSession(cmd, cmd.OutOrStdout(), false)
		if err != nil {
			return err
		}
		defer s.Close()

		m := monitoring.NewMonitor().
			WithPortNumber(s.cfg.MonitorPort).
			WithPageDir(s.cfg.MonitorPage)
		m.RegisterBench(s.bench)

		if f := s.recordingFile(); f != "" {
			reader, err := datarecording.NewReader(f)
			if err != nil {
				return err
			}
			defer reader.Close()

			m.RegisterHistory(trace.NewTraceReader(reader))
		}

		port := m.StartServer()

		if monitorOpen {
			if err := m.OpenInBrowser(port); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(),
					"cannot open the browser: %v\n", err)
			}
		}

		if campaignPreset != "" {
			runCampaign(ctx, m, s, preset)
		}

		<-ctx.Done()

		return nil
	},
}

func runCampaign(
	ctx context.Context,
	m *monitoring.Monitor,
	s *session,
	preset injection.Preset,
) {
	bar := m.CreateProgressBar("campaign "+preset.String(),
		uint64(campaignCount))
	defer m.CompleteProgressBar(bar)

	for i := 0; i < campaignCount; i++ {
		if ctx.Err() != nil {
			return
		}

		reports, resets := len(s.bench.Reports()), s.bench.Resets()

		bar.IncrementInProgress(1)
		s.bench.Inject(preset)
		bar.MoveInProgressToFinished(1)

		if len(s.bench.Reports()) == reports && s.bench.Resets() == resets {
			bar.RecordMissed()
		}
	}
}

func init() {
	flags := monitorCmd.Flags()
	flags.BoolVar(&monitorOpen, "open", false, "open the page in a browser")
	flags.StringVar(&campaignPreset, "campaign", "",
		"preset to inject repeatedly")
	flags.IntVar(&campaignCount, "count", 100,
		"number of injections of the campaign")
	rootCmd.AddCommand(monitorCmd)
}
