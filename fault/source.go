// Package fault reports the ECC faults that the memory controller detects
// and returns the controller to a clean state afterwards.
package fault

import "fmt"

// Source classifies a recorded fault.
type Source uint32

// Fault sources of interest. Any other value is reported verbatim.
const (
	SourceRAMC0CorrectableECC    Source = 0x2d
	SourceRAMC0NonCorrectableECC Source = 0x2e
	SourceNoFault                Source = 0x1ff
)

func (s Source) String() string {
	switch s {
	case SourceRAMC0CorrectableECC:
		return "CY_SYSFAULT_RAMC0_C_ECC"
	case SourceRAMC0NonCorrectableECC:
		return "CY_SYSFAULT_RAMC0_NC_ECC"
	case SourceNoFault:
		return "CY_SYSFAULT_NO_FAULT"
	default:
		return fmt.Sprintf("Source(0x%08x)", uint32(s))
	}
}

// Config selects what a recorded fault triggers.
type Config struct {
	ResetEnable   bool
	OutputEnable  bool
	TriggerEnable bool
}

// Fault configurations used by the bench.
var (
	ConfigInterrupt = Config{
		ResetEnable:   false,
		OutputEnable:  true,
		TriggerEnable: true,
	}

	ConfigReset = Config{
		ResetEnable:   true,
		OutputEnable:  true,
		TriggerEnable: true,
	}
)

// Arm prepares status to record SRAM0 ECC faults and to act according to
// cfg. A configuration the hardware rejects is a setup error and panics.
func Arm(status Status, cfg Config) {
	status.ClearStatus()
	status.SetMask(SourceRAMC0CorrectableECC)
	status.SetMask(SourceRAMC0NonCorrectableECC)
	status.SetInterruptMask()

	if err := status.Configure(cfg); err != nil {
		panic(fmt.Errorf("cannot configure fault structure: %w", err))
	}
}
