// Package cmd provides the command-line interface of eccinject.
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/eccinject/config"
)

var (
	envFile     string
	cellAddress string
	dbPath      string
	verbose     bool
	virtualTime bool
	uniqueIDs   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "eccinject",
	Short: "eccinject computes SRAM ECC parity and injects ECC faults.",
	Long: `eccinject computes the 8-bit parity of SRAM words and injects ` +
		`correctable (1-bit) or uncorrectable (2-bit) ECC faults through the ` +
		`injection interface of a simulated SRAM controller. The configuration ` +
		`is read from a .env file and ECCINJECT_* environment variables.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&envFile, "env", "",
		"env file to load instead of .env")
	flags.StringVar(&cellAddress, "cell", "",
		"address of the cell to inject into, overrides "+config.EnvCellAddress)
	flags.StringVar(&dbPath, "db", "",
		"record the session into this database, overrides "+config.EnvDB)
	flags.BoolVarP(&verbose, "verbose", "v", false,
		"log every injection and fault event")
	flags.BoolVar(&virtualTime, "virtual-time", false,
		"advance a virtual clock instead of sleeping")
	flags.BoolVar(&uniqueIDs, "unique-ids", false,
		"use globally unique injection IDs instead of sequential ones")
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Exit handlers, such as recorder flushes, run before the
// process exits.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}

	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	if flags.Changed("cell") {
		addr, err := strconv.ParseUint(cellAddress, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid cell address %q: %w",
				cellAddress, err)
		}

		cfg.CellAddress = addr
	}

	if flags.Changed("db") {
		cfg.DB = dbPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
