package fault

import (
	"fmt"
	"io"
)

// Report is what the handler read from the fault structure.
type Report struct {
	Address uint32
	Info    uint32
	Source  Source
}

func (r Report) String() string {
	return fmt.Sprintf("%s at 0x%08x, info 0x%08x", r.Source, r.Address, r.Info)
}

// WriteTo prints the report in the console format.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	var n int
	var err error

	switch r.Source {
	case SourceRAMC0CorrectableECC:
		n, err = fmt.Fprintf(w,
			"CY_SYSFAULT_RAMC0_C_ECC fault detected in structure 0:\r\n"+
				"Address:     0x%08x\r\n"+
				"Information: 0x%08x\r\n\n",
			r.Address, r.Info)
	case SourceNoFault:
		n, err = fmt.Fprintf(w,
			"CY_SYSFAULT_NO_FAULT fault detected in structure 0:\r\n")
	default:
		n, err = fmt.Fprintf(w,
			"Fault detected\r\n"+
				"GetErrorSource: 0x%08x\r\n",
			uint32(r.Source))
	}

	return int64(n), err
}

// ReportResetCause prints the fault that caused the last reset, if the
// retained status shows an SRAM0 correctable ECC fault. It tells whether
// such a fault was found.
func ReportResetCause(w io.Writer, status Status) bool {
	if status.ErrorSource() != SourceRAMC0CorrectableECC {
		return false
	}

	fmt.Fprintf(w,
		"Reset caused by FAULT_STRUCT0.\r\n"+
			"Detected fault: CY_SYSFAULT_RAMC0_C_ECC\r\n"+
			"Address:     0x%08x\r\n"+
			"Information: 0x%08x\r\n\n",
		status.Address(), status.Info())

	return true
}
