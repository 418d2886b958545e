// Package bench puts the simulated SRAM controller, the injector, and the
// fault handler together into the interactive fault report example: a
// startup report, a menu, and a key loop that requests a correctable ECC
// fault handled either by an interrupt or by a reset.
package bench

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/sarchlab/eccinject/config"
	"github.com/sarchlab/eccinject/fault"
	"github.com/sarchlab/eccinject/hwsim"
	"github.com/sarchlab/eccinject/injection"
)

// ClearScreen is the ANSI sequence that clears a terminal.
const ClearScreen = "\x1b[2J\x1b[;H"

// DefaultPollInterval is how often the key loop looks for a key.
const DefaultPollInterval = 50 * time.Millisecond

// Keys understood by Poll.
const (
	KeyInterrupt byte = 'i'
	KeyReset     byte = 'r'
	KeyQuit      byte = 'q'
)

// A Bench is a board running the fault report example.
type Bench struct {
	name         string
	cfg          config.Config
	out          io.Writer
	clearScreen  bool
	pollInterval time.Duration

	Controller *hwsim.Controller
	LED        *hwsim.LED
	Injector   *injection.Injector
	Handler    *fault.Handler

	cell *hwsim.Cell

	// injectLock serializes requests, since the injector must be the only
	// writer of the control register while an injection is armed.
	injectLock sync.Mutex

	lock    sync.Mutex
	reports []fault.Report
	resets  int
}

// Name returns the name of the bench.
func (b *Bench) Name() string {
	return b.name
}

// Config returns the configuration the bench was built with.
func (b *Bench) Config() config.Config {
	return b.cfg
}

// Startup prints the banner, reports a fault that caused the last reset,
// checks the cell location, and shows the menu. A cell outside the bank is
// a configuration error and panics.
func (b *Bench) Startup() {
	if b.clearScreen {
		fmt.Fprint(b.out, ClearScreen)
	}

	fmt.Fprint(b.out, "****************** "+
		"Fault report configuration example "+
		"****************** \r\n\n")

	fault.ReportResetCause(b.out, b.Controller.Faults)

	if !b.Controller.Bank().Contains(b.cfg.CellAddress) {
		fmt.Fprint(b.out,
			"SRAM for test is not located within SRAM0 region...\r\n")
		log.Panicf("%s: cell 0x%08x is not located within bank %s",
			b.name, b.cfg.CellAddress, b.Controller.Bank())
	}

	b.cell = b.Controller.Cell(b.cfg.CellAddress)

	b.Menu()
}

// Menu prints the keys the bench reacts to.
func (b *Bench) Menu() {
	fmt.Fprint(b.out,
		"Press 'i' to generate a SRAM0 correctable ECC error interrupt\r\n"+
			"Press 'r' to generate a SRAM0 correctable ECC error reset\r\n\n")
}

// RequestInterrupt arms the fault structure to raise an interrupt and
// injects a correctable error.
func (b *Bench) RequestInterrupt() injection.Injection {
	fmt.Fprint(b.out, "Fault interrupt requested\r\n")

	return b.inject(fault.ConfigInterrupt, injection.PresetCorrectableByParity)
}

// RequestReset arms the fault structure to reset the system and injects a
// correctable error. The startup report runs again after the reset.
func (b *Bench) RequestReset() injection.Injection {
	fmt.Fprint(b.out, "Fault reset requested\r\n")

	return b.inject(fault.ConfigReset, injection.PresetCorrectableByParity)
}

// Inject arms the fault structure to raise an interrupt and injects any
// valid preset.
func (b *Bench) Inject(preset injection.Preset) injection.Injection {
	return b.inject(fault.ConfigInterrupt, preset)
}

func (b *Bench) inject(
	cfg fault.Config,
	preset injection.Preset,
) injection.Injection {
	b.injectLock.Lock()
	defer b.injectLock.Unlock()

	b.mustHaveStarted()

	fault.Arm(b.Controller.Faults, cfg)

	return b.Injector.Inject(b.cell, preset)
}

func (b *Bench) mustHaveStarted() {
	if b.cell == nil {
		log.Panicf("%s: bench has not started", b.name)
	}
}

// Reports returns the faults handled so far.
func (b *Bench) Reports() []fault.Report {
	b.lock.Lock()
	defer b.lock.Unlock()

	reports := make([]fault.Report, len(b.reports))
	copy(reports, b.reports)

	return reports
}

// Resets returns how many times a fault reset the system.
func (b *Bench) Resets() int {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.resets
}

// Status is a snapshot of the bench.
type Status struct {
	Name        string
	Bank        string
	CellAddress uint64
	Registers   hwsim.RegisterSnapshot
	Stats       hwsim.Stats
	FaultSource fault.Source
	Pending     bool
	LEDOn       bool
	LEDToggles  int
	Reports     int
	Resets      int
}

// Status returns a snapshot of the bench.
func (b *Bench) Status() Status {
	b.lock.Lock()
	reports, resets := len(b.reports), b.resets
	b.lock.Unlock()

	return Status{
		Name:        b.name,
		Bank:        b.Controller.Bank().String(),
		CellAddress: b.cfg.CellAddress,
		Registers:   b.Controller.Registers.Snapshot(),
		Stats:       b.Controller.Stats(),
		FaultSource: b.Controller.Faults.ErrorSource(),
		Pending:     b.Controller.Faults.InterruptPending(),
		LEDOn:       b.LED.On(),
		LEDToggles:  b.LED.Toggles(),
		Reports:     reports,
		Resets:      resets,
	}
}

// Poll runs the key loop. Every poll interval it takes at most one key from
// keys and serves it. It returns nil on KeyQuit or when keys is closed, and
// the context error when ctx is done.
func (b *Bench) Poll(ctx context.Context, keys <-chan byte) error {
	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		select {
		case key, ok := <-keys:
			if !ok || key == KeyQuit {
				return nil
			}

			b.serve(key)
		default:
		}
	}
}

func (b *Bench) serve(key byte) {
	switch key {
	case KeyInterrupt:
		b.RequestInterrupt()
	case KeyReset:
		b.RequestReset()
	}
}

func (b *Bench) onInterrupt() {
	report := b.Handler.Handle()

	b.lock.Lock()
	b.reports = append(b.reports, report)
	b.lock.Unlock()
}

// onReset models the system reset. The registers and the fault
// configuration go back to their power-on values and the program starts
// over. Memory and the fault status are retained.
func (b *Bench) onReset() {
	b.lock.Lock()
	b.resets++
	b.lock.Unlock()

	b.Controller.Reset()
	b.Startup()
}
