// Package config loads the bench configuration from an optional .env file
// and ECCINJECT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/sarchlab/eccinject/ecc"
	"github.com/sarchlab/eccinject/fault"
	"github.com/sarchlab/eccinject/injection"
)

// Environment variables read by Load.
const (
	EnvBankBase       = "ECCINJECT_BANK_BASE"
	EnvBankSize       = "ECCINJECT_BANK_SIZE"
	EnvCellAddress    = "ECCINJECT_CELL_ADDRESS"
	EnvCorrectData    = "ECCINJECT_CORRECT_DATA"
	EnvSettleDelay    = "ECCINJECT_SETTLE_DELAY"
	EnvToggleCount    = "ECCINJECT_TOGGLE_COUNT"
	EnvToggleInterval = "ECCINJECT_TOGGLE_INTERVAL"
	EnvDB             = "ECCINJECT_DB"
	EnvMonitorPort    = "ECCINJECT_MONITOR_PORT"
	EnvMonitorPage    = "ECCINJECT_MONITOR_PAGE"
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds everything needed to set up a bench.
type Config struct {
	Bank        ecc.Bank
	CellAddress uint64
	Injection   injection.Spec
	Handler     fault.Spec

	// DB is the path of the recording, without the .sqlite3 extension.
	// Empty disables recording.
	DB string

	// MonitorPort is the port of the HTTP monitor. Zero picks a free port.
	MonitorPort int

	// MonitorPage is a directory to serve the monitor page from instead of
	// the page built into the binary.
	MonitorPage string
}

// DefaultCellAddress is the cell used by the bench, 4 KiB into SRAM0.
const DefaultCellAddress = 0x28001000

// Defaults returns the configuration of the reference bench.
func Defaults() Config {
	spec := injection.Defaults()

	return Config{
		Bank:        spec.Bank,
		CellAddress: DefaultCellAddress,
		Injection:   spec,
		Handler:     fault.DefaultSpec(),
	}
}

// Load reads envFiles, or .env when none is given, into the environment and
// builds a Config from it. Missing env files are ignored. Variables already
// set in the environment take precedence over the files.
func Load(envFiles ...string) (*Config, error) {
	err := godotenv.Load(envFiles...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	return FromEnv()
}

// FromEnv builds a Config from the environment only.
func FromEnv() (*Config, error) {
	c := Defaults()

	var err error

	if c.Bank.Base, err = getEnvUintOrDefault(EnvBankBase, c.Bank.Base); err != nil {
		return nil, err
	}

	if c.Bank.Size, err = getEnvUintOrDefault(EnvBankSize, c.Bank.Size); err != nil {
		return nil, err
	}

	if c.CellAddress, err = getEnvUintOrDefault(
		EnvCellAddress, c.CellAddress); err != nil {
		return nil, err
	}

	if c.Injection.CorrectData, err = getEnvUintOrDefault(
		EnvCorrectData, c.Injection.CorrectData); err != nil {
		return nil, err
	}

	if c.Injection.SettleDelay, err = getEnvDurationOrDefault(
		EnvSettleDelay, c.Injection.SettleDelay); err != nil {
		return nil, err
	}

	if c.Handler.ToggleCount, err = getEnvIntOrDefault(
		EnvToggleCount, c.Handler.ToggleCount); err != nil {
		return nil, err
	}

	if c.Handler.ToggleInterval, err = getEnvDurationOrDefault(
		EnvToggleInterval, c.Handler.ToggleInterval); err != nil {
		return nil, err
	}

	if c.MonitorPort, err = getEnvIntOrDefault(
		EnvMonitorPort, c.MonitorPort); err != nil {
		return nil, err
	}

	c.DB = os.Getenv(EnvDB)
	c.MonitorPage = os.Getenv(EnvMonitorPage)
	c.Injection.Bank = c.Bank

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate checks that the pieces of the configuration agree.
func (c Config) Validate() error {
	if err := c.Injection.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.Injection.Bank != c.Bank {
		return fmt.Errorf("%w: injection bank %s differs from bank %s",
			ErrInvalidConfig, c.Injection.Bank, c.Bank)
	}

	if err := c.Handler.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if !c.Bank.Contains(c.CellAddress) {
		return fmt.Errorf("%w: cell 0x%08x is not located within bank %s",
			ErrInvalidConfig, c.CellAddress, c.Bank)
	}

	if c.CellAddress%8 != 0 {
		return fmt.Errorf("%w: cell 0x%08x is not word aligned",
			ErrInvalidConfig, c.CellAddress)
	}

	if c.MonitorPort < 0 || c.MonitorPort > 65535 {
		return fmt.Errorf("%w: monitor port %d out of range",
			ErrInvalidConfig, c.MonitorPort)
	}

	if c.MonitorPage != "" {
		info, err := os.Stat(c.MonitorPage)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%w: monitor page %q is not a directory",
				ErrInvalidConfig, c.MonitorPage)
		}
	}

	return nil
}

func getEnvUintOrDefault(key string, defaultValue uint64) (uint64, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return defaultValue, nil
	}

	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}

	return v, nil
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return defaultValue, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}

	return v, nil
}

func getEnvDurationOrDefault(
	key string,
	defaultValue time.Duration,
) (time.Duration, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return defaultValue, nil
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}

	return v, nil
}
