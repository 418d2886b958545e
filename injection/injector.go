// Package injection corrupts the data or the stored parity of a memory cell
// so that the checker of the memory controller reports a correctable or an
// uncorrectable ECC error.
package injection

import (
	"fmt"
	"log"

	"github.com/sarchlab/eccinject/ecc"
	"github.com/sarchlab/eccinject/hooking"
	"github.com/sarchlab/eccinject/idgen"
)

// Hook positions of the Injector. The hook item is an Injection.
var (
	HookPosInjectStart = &hooking.HookPos{Name: "InjectStart"}
	HookPosInjectArmed = &hooking.HookPos{Name: "InjectArmed"}
	HookPosInjectEnd   = &hooking.HookPos{Name: "InjectEnd"}
)

// Injection records the values used for one injection.
type Injection struct {
	ID            string
	CellAddress   uint64
	WordAddress   uint32
	Preset        Preset
	CorrectParity ecc.Parity
	Parity        ecc.Parity
	Data          uint64
}

func (inj Injection) String() string {
	return fmt.Sprintf(
		"injection %s at 0x%08x (word 0x%06x): %s, data 0x%016x, "+
			"parity %s (correct %s)",
		inj.ID, inj.CellAddress, inj.WordAddress, inj.Preset,
		inj.Data, inj.Parity, inj.CorrectParity)
}

// An Injector drives the injection control interface of a memory controller.
// It assumes it is the only writer of the control register while an
// injection is armed.
type Injector struct {
	hooking.HookableBase

	name        string
	spec        Spec
	control     ControlRegister
	clock       Clock
	idGenerator idgen.Generator
}

// Name returns the name of the injector.
func (i *Injector) Name() string {
	return i.name
}

// Spec returns the spec the injector was built with.
func (i *Injector) Spec() Spec {
	return i.spec
}

// Plan computes the values an injection at addr would write, without
// touching the hardware. It panics if the preset flips more than 2 bits.
func (i *Injector) Plan(addr uint64, preset Preset) Injection {
	correct := i.spec.CorrectData

	parityCorrect := ecc.ParityOf(correct, addr, i.spec.Bank)
	parity1bit := parityCorrect ^ 1
	parity2bit := parityCorrect ^ 3

	inj := Injection{
		CellAddress:   addr,
		WordAddress:   uint32(i.spec.Bank.WordOffset(addr)) & WordAddressMask,
		Preset:        preset,
		CorrectParity: parityCorrect,
	}

	switch preset.Parity {
	case None:
		inj.Parity = parityCorrect
	case OneBit:
		if preset.Data == TwoBit {
			log.Panicf("%s: %v: %s", i.name, ErrTooManyFlippedBits, preset)
		}

		inj.Parity = parity1bit
	case TwoBit:
		if preset.Data != None {
			log.Panicf("%s: %v: %s", i.name, ErrTooManyFlippedBits, preset)
		}

		inj.Parity = parity2bit
	default:
		log.Panicf("%s: invalid preset %s", i.name, preset)
	}

	inj.Data = correct ^ preset.Data.Mask()

	return inj
}

// Inject writes the data and parity selected by preset into cell and makes
// the checker evaluate them. The fault is reported asynchronously by the
// controller. Invalid presets and cells outside the bank panic.
func (i *Injector) Inject(cell Cell, preset Preset) Injection {
	addr := cell.Address()
	if !i.spec.Bank.Contains(addr) {
		log.Panicf("%s: cell 0x%08x is not located within bank %s",
			i.name, addr, i.spec.Bank)
	}

	cell.Store(i.spec.CorrectData)

	inj := i.Plan(addr, preset)
	inj.ID = i.idGenerator.Generate()
	i.invoke(HookPosInjectStart, inj)

	cell.Store(inj.Data)

	i.control.SetWordAddress(inj.WordAddress)
	i.control.SetParity(inj.Parity)
	i.control.SetFlags(FlagsArm)
	i.invoke(HookPosInjectArmed, inj)

	// The controller only takes the injected parity on the next write.
	cell.Store(inj.Data)

	i.clock.Sleep(i.spec.SettleDelay)

	_ = cell.Load()

	i.invoke(HookPosInjectEnd, inj)

	return inj
}

func (i *Injector) invoke(pos *hooking.HookPos, inj Injection) {
	if i.NumHooks() == 0 {
		return
	}

	i.InvokeHook(hooking.HookCtx{
		Domain: i,
		Pos:    pos,
		Item:   inj,
	})
}
