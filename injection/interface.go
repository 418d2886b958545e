package injection

import (
	"time"

	"github.com/sarchlab/eccinject/ecc"
)

// Local abstraction layer for the hardware the injector drives. The goal is
// for the injection package to depend on these interfaces only, so tests can
// mock them and the same injector can run against a simulator or a board.
//
//go:generate mockgen -destination "mock_injection_test.go" -package $GOPACKAGE -write_package_comment=false -source interface.go

// Cell is the 64-bit memory cell under test.
type Cell interface {
	// Address returns the byte address of the cell.
	Address() uint64

	// Store writes a value to the cell.
	Store(value uint64)

	// Load reads the cell. Reading is what makes the checker evaluate the
	// stored word.
	Load() uint64
}

// ControlRegister is the injection control capability of the memory
// controller.
type ControlRegister interface {
	// SetWordAddress selects the word to inject into. Only bits 23:0 are
	// kept.
	SetWordAddress(wordAddr uint32)

	// SetParity sets the parity that the next write to the selected word
	// stores instead of the computed one.
	SetParity(parity ecc.Parity)

	// SetFlags raises the given flags, leaving the others untouched.
	SetFlags(flags ControlFlags)

	// ClearFlags lowers the given flags, leaving the others untouched.
	ClearFlags(flags ControlFlags)
}

// Clock provides the settle delay.
type Clock interface {
	Sleep(d time.Duration)
}

// ControlFlags are the enable bits of the controller.
type ControlFlags uint32

// Control flags.
const (
	FlagInjectEnable ControlFlags = 1 << iota
	FlagECCEnable
	FlagAutoCorrect

	// FlagsArm must be raised together to arm an injection.
	FlagsArm = FlagInjectEnable | FlagECCEnable | FlagAutoCorrect
)

// WordAddressMask keeps the bits of a word address the controller accepts.
const WordAddressMask = 0x00ffffff

// RealClock sleeps on the wall clock.
type RealClock struct{}

// Sleep blocks for d.
func (RealClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
