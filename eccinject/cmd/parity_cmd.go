package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/eccinject/ecc"
)

var storedParity string

var parityCmd = &cobra.Command{
	Use:   "parity <data> <address>",
	Short: "Compute the ECC parity of a 64-bit word",
	Long: `Compute the 8-bit parity the controller stores for data at ` +
		`address. With --stored, decode the syndrome against a stored parity ` +
		`and tell whether the checker can correct it.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		data, err := strconv.ParseUint(args[0], 0, 64)
		if err != nil {
			return fmt.Errorf("invalid data %q: %w", args[0], err)
		}

		addr, err := strconv.ParseUint(args[1], 0, 64)
		if err != nil {
			return fmt.Errorf("invalid address %q: %w", args[1], err)
		}

		if !cfg.Bank.Contains(addr) {
			return fmt.Errorf("address 0x%08x is not located within bank %s",
				addr, cfg.Bank)
		}

		out := cmd.OutOrStdout()
		word := ecc.MakeCodeword(data, addr, cfg.Bank)
		parity := ecc.GenerateParity(word)

		fmt.Fprintf(out, "codeword: %s\n", word)
		fmt.Fprintf(out, "parity:   %s\n", parity)

		if !cmd.Flags().Changed("stored") {
			return nil
		}

		stored, err := strconv.ParseUint(storedParity, 0, 8)
		if err != nil {
			return fmt.Errorf("invalid stored parity %q: %w", storedParity, err)
		}

		syndrome := ecc.Syndrome(data, ecc.Parity(stored), addr, cfg.Bank)
		class := ecc.Classify(syndrome)

		fmt.Fprintf(out, "syndrome: %s (%s)\n", syndrome, class)

		if bit, ok := ecc.Locate(syndrome); ok {
			if bit < ecc.FirstParityBit {
				fmt.Fprintf(out, "flipped:  data bit %d\n", bit)
			} else {
				fmt.Fprintf(out, "flipped:  parity bit %d\n",
					bit-ecc.FirstParityBit)
			}
		}

		return nil
	},
}

func init() {
	parityCmd.Flags().StringVar(&storedParity, "stored", "",
		"stored parity to check the word against")
	rootCmd.AddCommand(parityCmd)
}
