package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/eccinject/injection"
)

var injectRepeat int

var injectCmd = &cobra.Command{
	Use:   "inject <preset>",
	Short: "Inject an ECC fault into the configured cell",
	Long: `Inject an ECC fault into the configured cell and print what the ` +
		`fault handler reports. The preset is one of ` +
		strings.Join(injection.PresetNames(), ", ") +
		`, or of the form data=<none|1bit|2bit>,parity=<none|1bit|2bit>.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		preset, err := injection.ParsePreset(args[0])
		if err != nil {
			return err
		}

		if injectRepeat < 1 {
			return fmt.Errorf("repeat must be at least 1, got %d", injectRepeat)
		}

		out := cmd.OutOrStdout()

		s, err := openSession(cmd, out, false)
		if err != nil {
			return err
		}
		defer s.Close()

		for i := 0; i < injectRepeat; i++ {
			inj := s.bench.Inject(preset)
			fmt.Fprintf(out, "%s\n", inj)
		}

		status := s.bench.Status()
		fmt.Fprintf(out, "faults reported: %d, corrected reads: %d, "+
			"uncorrectable reads: %d\n",
			status.Reports, status.Stats.Corrected, status.Stats.Uncorrectable)

		if f := s.recordingFile(); f != "" {
			fmt.Fprintf(out, "recorded into %s\n", f)
		}

		return nil
	},
}

func init() {
	injectCmd.Flags().IntVarP(&injectRepeat, "repeat", "n", 1,
		"number of injections")
	rootCmd.AddCommand(injectCmd)
}
