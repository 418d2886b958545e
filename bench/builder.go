package bench

import (
	"io"
	"log"
	"time"

	"github.com/sarchlab/eccinject/config"
	"github.com/sarchlab/eccinject/fault"
	"github.com/sarchlab/eccinject/hwsim"
	"github.com/sarchlab/eccinject/idgen"
	"github.com/sarchlab/eccinject/injection"
)

// Builder can build benches.
type Builder struct {
	cfg          config.Config
	out          io.Writer
	clock        injection.Clock
	idGenerator  idgen.Generator
	clearScreen  bool
	pollInterval time.Duration
}

// MakeBuilder creates a builder with the default configuration.
func MakeBuilder() Builder {
	return Builder{
		cfg:          config.Defaults(),
		out:          io.Discard,
		pollInterval: DefaultPollInterval,
	}
}

// WithConfig sets the configuration of the bench.
func (b Builder) WithConfig(cfg config.Config) Builder {
	b.cfg = cfg
	return b
}

// WithOutput sets where the console output goes.
func (b Builder) WithOutput(out io.Writer) Builder {
	b.out = out
	return b
}

// WithClock sets the clock used for delays. The real clock is used if not
// set.
func (b Builder) WithClock(clock injection.Clock) Builder {
	b.clock = clock
	return b
}

// WithIDGenerator sets the generator of injection IDs.
func (b Builder) WithIDGenerator(g idgen.Generator) Builder {
	b.idGenerator = g
	return b
}

// WithClearScreen makes Startup clear the terminal first.
func (b Builder) WithClearScreen(clear bool) Builder {
	b.clearScreen = clear
	return b
}

// WithPollInterval sets how often Poll looks for a key.
func (b Builder) WithPollInterval(d time.Duration) Builder {
	b.pollInterval = d
	return b
}

// Build creates the bench. The bench still needs to be started.
func (b Builder) Build(name string) *Bench {
	if err := b.cfg.Injection.Validate(); err != nil {
		log.Panicf("cannot build bench %s: %v", name, err)
	}

	if b.cfg.Injection.Bank != b.cfg.Bank {
		log.Panicf("cannot build bench %s: injection bank %s differs from %s",
			name, b.cfg.Injection.Bank, b.cfg.Bank)
	}

	if err := b.cfg.Handler.Validate(); err != nil {
		log.Panicf("cannot build bench %s: %v", name, err)
	}

	if b.pollInterval <= 0 {
		log.Panicf("cannot build bench %s: poll interval must be > 0", name)
	}

	clock := b.clock
	if clock == nil {
		clock = injection.RealClock{}
	}

	bench := &Bench{
		name:         name,
		cfg:          b.cfg,
		out:          b.out,
		clearScreen:  b.clearScreen,
		pollInterval: b.pollInterval,
		LED:          &hwsim.LED{},
	}

	bench.Controller = hwsim.MakeBuilder().
		WithBank(b.cfg.Bank).
		Build(name + ".SRAM0")

	injectorBuilder := injection.MakeBuilder().
		WithSpec(b.cfg.Injection).
		WithControlRegister(bench.Controller.Registers).
		WithClock(clock)
	if b.idGenerator != nil {
		injectorBuilder = injectorBuilder.WithIDGenerator(b.idGenerator)
	}

	bench.Injector = injectorBuilder.Build(name + ".Injector")

	bench.Handler = fault.MakeBuilder().
		WithSpec(b.cfg.Handler).
		WithStatus(bench.Controller.Faults).
		WithControlRegister(bench.Controller.Registers).
		WithSignal(bench.LED).
		WithClock(clock).
		WithOutput(b.out).
		Build(name + ".FaultHandler")

	bench.Controller.Faults.RegisterInterruptHandler(bench.onInterrupt)
	bench.Controller.Faults.RegisterResetHandler(bench.onReset)

	return bench
}
