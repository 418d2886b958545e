package injection

import (
	"log"
	"time"

	"github.com/sarchlab/eccinject/ecc"
	"github.com/sarchlab/eccinject/idgen"
)

// Builder constructs an Injector either from a Spec or per-field setters.
type Builder struct {
	spec        Spec
	control     ControlRegister
	clock       Clock
	idGenerator idgen.Generator
}

// MakeBuilder returns a new Builder with default Spec.
func MakeBuilder() Builder {
	return Builder{spec: Defaults()}
}

// WithSpec replaces the whole spec.
func (b Builder) WithSpec(spec Spec) Builder {
	b.spec = spec
	return b
}

// WithBank sets the bank that holds the target cells.
func (b Builder) WithBank(bank ecc.Bank) Builder {
	b.spec.Bank = bank
	return b
}

// WithCorrectData sets the canonical data value.
func (b Builder) WithCorrectData(data uint64) Builder {
	b.spec.CorrectData = data
	return b
}

// WithSettleDelay sets the time to wait before reading the cell back.
func (b Builder) WithSettleDelay(d time.Duration) Builder {
	b.spec.SettleDelay = d
	return b
}

// WithControlRegister sets the injection control capability.
func (b Builder) WithControlRegister(control ControlRegister) Builder {
	b.control = control
	return b
}

// WithClock sets the clock used for the settle delay.
func (b Builder) WithClock(clock Clock) Builder {
	b.clock = clock
	return b
}

// WithIDGenerator sets the generator of injection IDs.
func (b Builder) WithIDGenerator(g idgen.Generator) Builder {
	b.idGenerator = g
	return b
}

// Build creates the Injector.
func (b Builder) Build(name string) *Injector {
	if err := b.spec.Validate(); err != nil {
		log.Panicf("cannot build injector %s: %v", name, err)
	}

	if b.control == nil {
		log.Panicf("cannot build injector %s: no control register", name)
	}

	i := &Injector{
		name:        name,
		spec:        b.spec,
		control:     b.control,
		clock:       b.clock,
		idGenerator: b.idGenerator,
	}

	if i.clock == nil {
		i.clock = RealClock{}
	}

	if i.idGenerator == nil {
		i.idGenerator = idgen.Get()
	}

	return i
}
