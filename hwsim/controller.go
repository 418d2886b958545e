// Package hwsim simulates the SRAM controller, its ECC checker, and the fault
// reporting unit, so that injections can run without a board.
package hwsim

import (
	"log"
	"sync"

	"github.com/sarchlab/eccinject/ecc"
	"github.com/sarchlab/eccinject/fault"
)

// Stats counts what the controller has seen.
type Stats struct {
	Reads         uint64
	Writes        uint64
	Injected      uint64
	Corrected     uint64
	Uncorrectable uint64
}

// A Controller is an SRAM controller that stores an 8-bit parity next to
// every 64-bit word and checks it on every read.
type Controller struct {
	name string
	bank ecc.Bank

	Storage   *Storage
	Registers *RegisterFile
	Faults    *FaultStruct

	lock     sync.Mutex
	parities map[uint64]ecc.Parity
	stats    Stats
}

// Name returns the name of the controller.
func (c *Controller) Name() string {
	return c.name
}

// Bank returns the bank the controller serves.
func (c *Controller) Bank() ecc.Bank {
	return c.bank
}

// Stats returns a copy of the access counters.
func (c *Controller) Stats() Stats {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.stats
}

// Write64 stores a word. The stored parity is computed from the data,
// unless an injection is armed for this word, in which case the parity from
// the injection control register is stored instead.
func (c *Controller) Write64(addr uint64, value uint64) {
	c.mustBeWordInBank(addr)

	err := c.Storage.Write64(addr-c.bank.Base, value)
	if err != nil {
		log.Panicf("%s: write 0x%08x: %v", c.name, addr, err)
	}

	word := c.bank.WordOffset(addr)
	regs := c.Registers.Snapshot()

	parity := ecc.ParityOf(value, addr, c.bank)
	injected := regs.InjectEnable && regs.ECCEnable &&
		uint64(regs.WordAddress) == word
	if injected {
		parity = regs.Parity
	}

	c.lock.Lock()
	c.parities[word] = parity
	c.stats.Writes++
	if injected {
		c.stats.Injected++
	}
	c.lock.Unlock()
}

// Read64 loads a word and, with ECC enabled, checks it. Detected errors are
// raised to the fault structure after the word is read. With auto-correction
// on, correctable errors are fixed in the returned value. Memory keeps the
// faulty word until it is written again.
func (c *Controller) Read64(addr uint64) uint64 {
	c.mustBeWordInBank(addr)

	data, err := c.Storage.Read64(addr - c.bank.Base)
	if err != nil {
		log.Panicf("%s: read 0x%08x: %v", c.name, addr, err)
	}

	word := c.bank.WordOffset(addr)
	regs := c.Registers.Snapshot()

	c.lock.Lock()
	c.stats.Reads++
	stored, written := c.parities[word]
	c.lock.Unlock()

	if !regs.ECCEnable || !written {
		return data
	}

	syndrome := ecc.Syndrome(data, stored, addr, c.bank)

	switch ecc.Classify(syndrome) {
	case ecc.Correctable:
		data = c.handleCorrectable(addr, data, stored, regs.AutoCorrect)
		c.Faults.Raise(fault.SourceRAMC0CorrectableECC,
			uint32(addr), uint32(syndrome))
	case ecc.Uncorrectable:
		c.lock.Lock()
		c.stats.Uncorrectable++
		c.lock.Unlock()

		c.Faults.Raise(fault.SourceRAMC0NonCorrectableECC,
			uint32(addr), uint32(syndrome))
	}

	return data
}

func (c *Controller) handleCorrectable(
	addr, data uint64,
	stored ecc.Parity,
	autoCorrect bool,
) uint64 {
	c.lock.Lock()
	c.stats.Corrected++
	c.lock.Unlock()

	if !autoCorrect {
		return data
	}

	fixed, _, _ := ecc.Correct(data, stored, addr, c.bank)

	return fixed
}

// StoredParity returns the parity kept for the word at addr.
func (c *Controller) StoredParity(addr uint64) (ecc.Parity, bool) {
	c.mustBeWordInBank(addr)

	c.lock.Lock()
	defer c.lock.Unlock()

	p, ok := c.parities[c.bank.WordOffset(addr)]

	return p, ok
}

// Peek64 reads a word without checking it.
func (c *Controller) Peek64(addr uint64) uint64 {
	c.mustBeWordInBank(addr)

	data, err := c.Storage.Read64(addr - c.bank.Base)
	if err != nil {
		log.Panicf("%s: peek 0x%08x: %v", c.name, addr, err)
	}

	return data
}

// Reset models a system reset: the control registers and the fault
// configuration return to their power-on values, while memory content and
// the recorded fault status are kept.
func (c *Controller) Reset() {
	c.Registers.Reset()
	c.Faults.Reset()
}

// Cell returns a handle to the word at addr.
func (c *Controller) Cell(addr uint64) *Cell {
	c.mustBeWordInBank(addr)

	return &Cell{controller: c, addr: addr}
}

func (c *Controller) mustBeWordInBank(addr uint64) {
	if !c.bank.Contains(addr) {
		log.Panicf("%s: address 0x%08x is not located within bank %s",
			c.name, addr, c.bank)
	}

	if addr%8 != 0 {
		log.Panicf("%s: address 0x%08x is not word aligned", c.name, addr)
	}
}

// Cell is a 64-bit word of a Controller.
type Cell struct {
	controller *Controller
	addr       uint64
}

// Address returns the byte address of the cell.
func (c *Cell) Address() uint64 {
	return c.addr
}

// Store writes the cell through the controller.
func (c *Cell) Store(value uint64) {
	c.controller.Write64(c.addr, value)
}

// Load reads the cell through the controller.
func (c *Cell) Load() uint64 {
	return c.controller.Read64(c.addr)
}

// Builder constructs a Controller.
type Builder struct {
	bank    ecc.Bank
	storage *Storage
}

// MakeBuilder returns a Builder for SRAM0.
func MakeBuilder() Builder {
	return Builder{bank: ecc.Bank{Base: 0x28000000, Size: 512 * 1024}}
}

// WithBank sets the bank the controller serves.
func (b Builder) WithBank(bank ecc.Bank) Builder {
	b.bank = bank
	return b
}

// WithStorage uses an existing storage instead of creating one. The storage
// is addressed by the offset within the bank.
func (b Builder) WithStorage(storage *Storage) Builder {
	b.storage = storage
	return b
}

// Build creates the Controller.
func (b Builder) Build(name string) *Controller {
	if err := b.bank.Validate(); err != nil {
		log.Panicf("cannot build controller %s: %v", name, err)
	}

	c := &Controller{
		name:      name,
		bank:      b.bank,
		Storage:   b.storage,
		Registers: &RegisterFile{},
		Faults:    NewFaultStruct(),
		parities:  make(map[uint64]ecc.Parity),
	}

	if c.Storage == nil {
		c.Storage = NewStorage(b.bank.Size)
	}

	return c
}
