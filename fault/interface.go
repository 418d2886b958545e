package fault

// Local abstraction layer for the fault reporting hardware.
//
//go:generate mockgen -destination "mock_fault_test.go" -package fault_test -write_package_comment=false -source interface.go
//go:generate mockgen -destination "mock_injection_test.go" -package fault_test -write_package_comment=false github.com/sarchlab/eccinject/injection ControlRegister,Clock

// Status is a fault structure of the fault reporting unit.
type Status interface {
	// Address returns the first fault data word, the faulting address.
	Address() uint32

	// Info returns the second fault data word.
	Info() uint32

	// ErrorSource returns the classification of the recorded fault.
	ErrorSource() Source

	// ClearInterrupt acknowledges the fault interrupt.
	ClearInterrupt()

	// ClearStatus forgets the recorded fault.
	ClearStatus()

	// SetMask enables reporting faults from source.
	SetMask(source Source)

	// SetInterruptMask lets recorded faults raise the interrupt.
	SetInterruptMask()

	// Configure selects what a recorded fault triggers.
	Configure(cfg Config) error
}

// Signal is an externally visible liveness indicator, usually an LED.
type Signal interface {
	Toggle()
}
