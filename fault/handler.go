package fault

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/sarchlab/eccinject/hooking"
	"github.com/sarchlab/eccinject/injection"
)

// HookPosFaultReported is triggered after the handler has printed a report.
// The hook item is the Report.
var HookPosFaultReported = &hooking.HookPos{Name: "FaultReported"}

// Spec holds immutable configuration values for the handler.
type Spec struct {
	// ToggleCount is how many times the signal is toggled per fault.
	ToggleCount int

	// ToggleInterval is the wait between two toggles.
	ToggleInterval time.Duration
}

// Validate checks the spec.
func (s Spec) Validate() error {
	if s.ToggleCount < 0 {
		return fmt.Errorf("toggle count must be >= 0")
	}

	if s.ToggleInterval < 0 {
		return fmt.Errorf("toggle interval must be >= 0")
	}

	return nil
}

// DefaultSpec blinks the LED three times.
func DefaultSpec() Spec {
	return Spec{
		ToggleCount:    6,
		ToggleInterval: 500 * time.Millisecond,
	}
}

// A Handler is the fault interrupt handler. It runs in interrupt context, so
// it only does a fixed amount of work per invocation.
type Handler struct {
	hooking.HookableBase

	name    string
	spec    Spec
	status  Status
	control injection.ControlRegister
	signal  Signal
	clock   injection.Clock
	out     io.Writer
}

// Name returns the name of the handler.
func (h *Handler) Name() string {
	return h.name
}

// Handle reads the recorded fault once, reports it, blinks the signal,
// acknowledges the interrupt and disarms the injection.
func (h *Handler) Handle() Report {
	report := Report{
		Address: h.status.Address(),
		Info:    h.status.Info(),
		Source:  h.status.ErrorSource(),
	}

	_, err := report.WriteTo(h.out)
	if err != nil {
		log.Printf("%s: cannot write fault report: %v", h.name, err)
	}

	h.blink()

	h.status.ClearInterrupt()

	h.control.SetWordAddress(0)
	h.control.SetParity(0)
	h.control.ClearFlags(injection.FlagInjectEnable)

	if h.NumHooks() > 0 {
		h.InvokeHook(hooking.HookCtx{
			Domain: h,
			Pos:    HookPosFaultReported,
			Item:   report,
		})
	}

	return report
}

func (h *Handler) blink() {
	for i := 0; i < h.spec.ToggleCount; i++ {
		if i > 0 {
			h.clock.Sleep(h.spec.ToggleInterval)
		}

		h.signal.Toggle()
	}
}

// Builder constructs a Handler.
type Builder struct {
	spec    Spec
	status  Status
	control injection.ControlRegister
	signal  Signal
	clock   injection.Clock
	out     io.Writer
}

// MakeBuilder returns a new Builder with the default Spec.
func MakeBuilder() Builder {
	return Builder{spec: DefaultSpec()}
}

// WithSpec replaces the whole spec.
func (b Builder) WithSpec(spec Spec) Builder {
	b.spec = spec
	return b
}

// WithToggleCount sets how many times the signal is toggled.
func (b Builder) WithToggleCount(n int) Builder {
	b.spec.ToggleCount = n
	return b
}

// WithToggleInterval sets the time between toggles.
func (b Builder) WithToggleInterval(d time.Duration) Builder {
	b.spec.ToggleInterval = d
	return b
}

// WithStatus sets the fault structure to read.
func (b Builder) WithStatus(status Status) Builder {
	b.status = status
	return b
}

// WithControlRegister sets the injection control to disarm.
func (b Builder) WithControlRegister(control injection.ControlRegister) Builder {
	b.control = control
	return b
}

// WithSignal sets the liveness signal. Without one, toggles are dropped.
func (b Builder) WithSignal(signal Signal) Builder {
	b.signal = signal
	return b
}

// WithClock sets the clock used between toggles.
func (b Builder) WithClock(clock injection.Clock) Builder {
	b.clock = clock
	return b
}

// WithOutput sets where reports are printed.
func (b Builder) WithOutput(out io.Writer) Builder {
	b.out = out
	return b
}

// Build creates the Handler.
func (b Builder) Build(name string) *Handler {
	if err := b.spec.Validate(); err != nil {
		log.Panicf("cannot build handler %s: %v", name, err)
	}

	if b.status == nil || b.control == nil {
		log.Panicf("cannot build handler %s: status and control are required",
			name)
	}

	h := &Handler{
		name:    name,
		spec:    b.spec,
		status:  b.status,
		control: b.control,
		signal:  b.signal,
		clock:   b.clock,
		out:     b.out,
	}

	if h.signal == nil {
		h.signal = noSignal{}
	}

	if h.clock == nil {
		h.clock = injection.RealClock{}
	}

	if h.out == nil {
		h.out = io.Discard
	}

	return h
}

type noSignal struct{}

func (noSignal) Toggle() {}
