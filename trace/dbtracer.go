// Package trace records what the injector and the fault handler do into a
// data recorder, so that a session can be inspected afterwards.
package trace

import (
	"fmt"
	"sync"
	"time"

	"github.com/sarchlab/eccinject/datarecording"
	"github.com/sarchlab/eccinject/fault"
	"github.com/sarchlab/eccinject/hooking"
	"github.com/sarchlab/eccinject/injection"
)

// Table names.
const (
	InjectionTable = "injections"
	FaultTable     = "faults"
)

// InjectionEntry is a row of the injections table.
type InjectionEntry struct {
	ID            string
	Time          float64
	Injector      string
	CellAddress   string
	WordAddress   string
	Preset        string
	Data          string
	Parity        string
	CorrectParity string
}

// FaultEntry is a row of the faults table.
type FaultEntry struct {
	Seq        int
	Time       float64
	Handler    string
	Source     string
	SourceCode uint32
	Address    string
	Info       string
}

// TimeTeller tells the time elapsed since the session started.
type TimeTeller interface {
	Now() time.Duration
}

// WallClock is a TimeTeller backed by the system clock.
type WallClock struct {
	start time.Time
}

// NewWallClock starts counting from now.
func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

// Now returns the time elapsed since the clock was created.
func (c *WallClock) Now() time.Duration {
	return time.Since(c.start)
}

// DBTracer is a hook that stores injections and fault reports into a
// DataRecorder. Attach it to an injection.Injector and a fault.Handler.
type DBTracer struct {
	mu         sync.Mutex
	timeTeller TimeTeller
	backend    datarecording.DataRecorder
	faultCount int
}

// NewDBTracer creates the tables and returns the tracer.
func NewDBTracer(
	timeTeller TimeTeller,
	dataRecorder datarecording.DataRecorder,
) *DBTracer {
	dataRecorder.CreateTable(InjectionTable, InjectionEntry{})
	dataRecorder.CreateTable(FaultTable, FaultEntry{})

	return &DBTracer{
		timeTeller: timeTeller,
		backend:    dataRecorder,
	}
}

// Func records completed injections and handled faults. Other hook
// positions are ignored.
func (t *DBTracer) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case injection.HookPosInjectEnd:
		t.recordInjection(domainName(ctx), ctx.Item.(injection.Injection))
	case fault.HookPosFaultReported:
		t.recordFault(domainName(ctx), ctx.Item.(fault.Report))
	}
}

func domainName(ctx hooking.HookCtx) string {
	if ctx.Domain == nil {
		return ""
	}

	return ctx.Domain.Name()
}

func (t *DBTracer) recordInjection(domain string, inj injection.Injection) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.backend.InsertData(InjectionTable, InjectionEntry{
		ID:            inj.ID,
		Time:          t.timeTeller.Now().Seconds(),
		Injector:      domain,
		CellAddress:   fmt.Sprintf("0x%08x", inj.CellAddress),
		WordAddress:   fmt.Sprintf("0x%06x", inj.WordAddress),
		Preset:        inj.Preset.String(),
		Data:          fmt.Sprintf("0x%016x", inj.Data),
		Parity:        inj.Parity.String(),
		CorrectParity: inj.CorrectParity.String(),
	})

	// Injections are rare, so every record is written right away.
	t.backend.Flush()
}

func (t *DBTracer) recordFault(domain string, r fault.Report) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.faultCount++

	t.backend.InsertData(FaultTable, FaultEntry{
		Seq:        t.faultCount,
		Time:       t.timeTeller.Now().Seconds(),
		Handler:    domain,
		Source:     r.Source.String(),
		SourceCode: uint32(r.Source),
		Address:    fmt.Sprintf("0x%08x", r.Address),
		Info:       fmt.Sprintf("0x%08x", r.Info),
	})

	t.backend.Flush()
}

// Terminate flushes the backend.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.backend.Flush()
}
