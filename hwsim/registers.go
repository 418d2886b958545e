package hwsim

import (
	"sync"

	"github.com/sarchlab/eccinject/ecc"
	"github.com/sarchlab/eccinject/injection"
)

// Bit fields of the CPUSS registers that control SRAM0 ECC.
const (
	ECCCtlWordAddrMask = 0x00ffffff
	ECCCtlParityPos    = 24
	ECCCtlParityMask   = 0xff << ECCCtlParityPos

	RAM0Ctl0ECCEnPos          = 16
	RAM0Ctl0ECCAutoCorrectPos = 17
	RAM0Ctl0ECCInjEnPos       = 18
)

// RegisterFile holds the raw ECC_CTL and RAM0_CTL0 words. The injector writes
// them from the main flow while the fault handler clears them from interrupt
// context, so every access goes through the lock.
type RegisterFile struct {
	lock sync.Mutex

	ECCCtl   uint32
	RAM0Ctl0 uint32
}

// SetWordAddress sets ECC_CTL.WORD_ADDR.
func (r *RegisterFile) SetWordAddress(wordAddr uint32) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.ECCCtl = r.ECCCtl&^ECCCtlWordAddrMask | wordAddr&ECCCtlWordAddrMask
}

// SetParity sets ECC_CTL.PARITY.
func (r *RegisterFile) SetParity(parity ecc.Parity) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.ECCCtl = r.ECCCtl&^ECCCtlParityMask |
		uint32(parity)<<ECCCtlParityPos
}

// SetFlags raises the RAM0_CTL0 bits that correspond to flags.
func (r *RegisterFile) SetFlags(flags injection.ControlFlags) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.RAM0Ctl0 |= ctl0Bits(flags)
}

// ClearFlags lowers the RAM0_CTL0 bits that correspond to flags.
func (r *RegisterFile) ClearFlags(flags injection.ControlFlags) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.RAM0Ctl0 &^= ctl0Bits(flags)
}

func ctl0Bits(flags injection.ControlFlags) uint32 {
	var v uint32

	if flags&injection.FlagInjectEnable != 0 {
		v |= 1 << RAM0Ctl0ECCInjEnPos
	}

	if flags&injection.FlagECCEnable != 0 {
		v |= 1 << RAM0Ctl0ECCEnPos
	}

	if flags&injection.FlagAutoCorrect != 0 {
		v |= 1 << RAM0Ctl0ECCAutoCorrectPos
	}

	return v
}

// Reset returns both registers to their power-on value.
func (r *RegisterFile) Reset() {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.ECCCtl = 0
	r.RAM0Ctl0 = 0
}

// Snapshot returns a decoded copy of the registers.
func (r *RegisterFile) Snapshot() RegisterSnapshot {
	r.lock.Lock()
	defer r.lock.Unlock()

	return RegisterSnapshot{
		ECCCtl:       r.ECCCtl,
		RAM0Ctl0:     r.RAM0Ctl0,
		WordAddress:  r.ECCCtl & ECCCtlWordAddrMask,
		Parity:       ecc.Parity(r.ECCCtl >> ECCCtlParityPos),
		InjectEnable: r.RAM0Ctl0&(1<<RAM0Ctl0ECCInjEnPos) != 0,
		ECCEnable:    r.RAM0Ctl0&(1<<RAM0Ctl0ECCEnPos) != 0,
		AutoCorrect:  r.RAM0Ctl0&(1<<RAM0Ctl0ECCAutoCorrectPos) != 0,
	}
}

// RegisterSnapshot is a decoded view of the ECC control registers.
type RegisterSnapshot struct {
	ECCCtl       uint32
	RAM0Ctl0     uint32
	WordAddress  uint32
	Parity       ecc.Parity
	InjectEnable bool
	ECCEnable    bool
	AutoCorrect  bool
}
