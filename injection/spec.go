package injection

import (
	"fmt"
	"time"

	"github.com/sarchlab/eccinject/ecc"
)

// Spec holds immutable configuration values for the injector.
type Spec struct {
	// CorrectData is the canonical value written to the cell.
	CorrectData uint64

	// SettleDelay is how long to wait for the checker after arming.
	SettleDelay time.Duration

	// Bank is the memory bank the target cells live in.
	Bank ecc.Bank
}

// Validate checks the spec.
func (s Spec) Validate() error {
	if s.SettleDelay < 0 {
		return fmt.Errorf("settle delay must be >= 0")
	}

	if err := s.Bank.Validate(); err != nil {
		return fmt.Errorf("invalid bank: %w", err)
	}

	if s.Bank.Size/8-1 > WordAddressMask {
		return fmt.Errorf("bank of 0x%x bytes exceeds the word address field",
			s.Bank.Size)
	}

	return nil
}

// Defaults returns a Spec that targets SRAM0 of the controller.
func Defaults() Spec {
	return Spec{
		CorrectData: 0x5A5A5A5A5A5A5A5A,
		SettleDelay: 50 * time.Millisecond,
		Bank:        DefaultBank(),
	}
}

// DefaultBank returns the SRAM0 bank of the controller.
func DefaultBank() ecc.Bank {
	return ecc.Bank{Base: 0x28000000, Size: 512 * 1024}
}
