package hwsim

import (
	"errors"
	"sync"

	"github.com/sarchlab/eccinject/fault"
)

// ErrFaultStructBusy is returned when configuring a fault structure that
// still has an interrupt pending.
var ErrFaultStructBusy = errors.New("fault structure has a pending interrupt")

// A FaultStruct records faults reported by the memory controller and turns
// them into an interrupt or a reset. Its status survives resets.
type FaultStruct struct {
	lock sync.Mutex

	status        fault.Source
	data0         uint32
	data1         uint32
	masks         map[fault.Source]bool
	interruptMask bool
	config        fault.Config
	pending       bool

	interruptHandler func()
	resetHandler     func()
}

// NewFaultStruct creates a fault structure with no fault recorded.
func NewFaultStruct() *FaultStruct {
	return &FaultStruct{
		status: fault.SourceNoFault,
		masks:  make(map[fault.Source]bool),
	}
}

// RegisterInterruptHandler sets what runs when the fault interrupt fires.
func (f *FaultStruct) RegisterInterruptHandler(handler func()) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.interruptHandler = handler
}

// RegisterResetHandler sets what runs when a fault resets the system.
func (f *FaultStruct) RegisterResetHandler(handler func()) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.resetHandler = handler
}

// Address returns DATA0.
func (f *FaultStruct) Address() uint32 {
	f.lock.Lock()
	defer f.lock.Unlock()

	return f.data0
}

// Info returns DATA1.
func (f *FaultStruct) Info() uint32 {
	f.lock.Lock()
	defer f.lock.Unlock()

	return f.data1
}

// ErrorSource returns the recorded fault source.
func (f *FaultStruct) ErrorSource() fault.Source {
	f.lock.Lock()
	defer f.lock.Unlock()

	return f.status
}

// ClearInterrupt acknowledges the pending interrupt.
func (f *FaultStruct) ClearInterrupt() {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.pending = false
}

// InterruptPending tells if an interrupt has not been acknowledged.
func (f *FaultStruct) InterruptPending() bool {
	f.lock.Lock()
	defer f.lock.Unlock()

	return f.pending
}

// ClearStatus forgets the recorded fault.
func (f *FaultStruct) ClearStatus() {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.status = fault.SourceNoFault
	f.data0 = 0
	f.data1 = 0
}

// SetMask enables recording faults from source.
func (f *FaultStruct) SetMask(source fault.Source) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.masks[source] = true
}

// SetInterruptMask lets recorded faults raise the interrupt.
func (f *FaultStruct) SetInterruptMask() {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.interruptMask = true
}

// Configure selects what a recorded fault triggers.
func (f *FaultStruct) Configure(cfg fault.Config) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.pending {
		return ErrFaultStructBusy
	}

	f.config = cfg

	return nil
}

// Raise records a fault reported by a monitored unit. Sources that are not
// masked in are dropped. The interrupt or reset handler runs on the caller's
// goroutine, the way an interrupt preempts the faulting code.
func (f *FaultStruct) Raise(source fault.Source, data0, data1 uint32) {
	f.lock.Lock()

	if !f.masks[source] {
		f.lock.Unlock()
		return
	}

	f.status = source
	f.data0 = data0
	f.data1 = data1

	var action func()

	switch {
	case f.config.ResetEnable:
		action = f.resetHandler
		f.resetLocked()
	case f.config.TriggerEnable && f.interruptMask:
		f.pending = true
		action = f.interruptHandler
	}

	f.lock.Unlock()

	if action != nil {
		action()
	}
}

// Reset returns the configuration to its power-on value. The recorded
// status is retained so that it can be inspected after the reset.
func (f *FaultStruct) Reset() {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.resetLocked()
}

func (f *FaultStruct) resetLocked() {
	f.masks = make(map[fault.Source]bool)
	f.interruptMask = false
	f.config = fault.Config{}
	f.pending = false
}
