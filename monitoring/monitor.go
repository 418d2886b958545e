// Package monitoring turns a running bench into a web server, so that the
// controller state can be inspected and injections requested from a
// browser.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/eccinject/bench"
	"github.com/sarchlab/eccinject/idgen"
	"github.com/sarchlab/eccinject/injection"
	"github.com/sarchlab/eccinject/monitoring/web"
	"github.com/sarchlab/eccinject/trace"
)

// Monitor serves the state of a bench over HTTP.
type Monitor struct {
	bench      *bench.Bench
	history    *trace.TraceReader
	portNumber int
	pageDir    string

	profileDuration time.Duration

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{profileDuration: time.Second}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithPageDir serves the monitor page from dir instead of the page built
// into the binary.
func (m *Monitor) WithPageDir(dir string) *Monitor {
	m.pageDir = dir
	return m
}

// WithProfileDuration sets how long /api/profile samples the CPU.
func (m *Monitor) WithProfileDuration(d time.Duration) *Monitor {
	m.profileDuration = d
	return m
}

// RegisterBench registers the bench to be monitored.
func (m *Monitor) RegisterBench(b *bench.Bench) {
	m.bench = b
}

// RegisterHistory lets the monitor serve a recorded session.
func (m *Monitor) RegisterHistory(r *trace.TraceReader) {
	m.history = r
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        idgen.Get().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Router returns the routes of the monitor.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/status", m.status).Methods(http.MethodGet)
	r.HandleFunc("/api/controller", m.controllerDetails).
		Methods(http.MethodGet)
	r.HandleFunc("/api/controller/{field}", m.controllerField).
		Methods(http.MethodGet)
	r.HandleFunc("/api/reports", m.listReports).Methods(http.MethodGet)
	r.HandleFunc("/api/presets", m.listPresets).Methods(http.MethodGet)
	r.HandleFunc("/api/inject/{preset}", m.inject).Methods(http.MethodPost)
	r.HandleFunc("/api/request/{kind}", m.request).Methods(http.MethodPost)
	r.HandleFunc("/api/history", m.listHistory).Methods(http.MethodGet)
	r.HandleFunc("/api/progress", m.listProgressBars).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", m.listResources).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", m.collectProfile).Methods(http.MethodGet)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
	r.MatcherFunc(isPageRequest).
		Handler(http.FileServer(web.Assets(m.pageDir)))

	return r
}

// isPageRequest keeps API paths away from the file server.
func isPageRequest(req *http.Request, _ *mux.RouteMatch) bool {
	return !strings.HasPrefix(req.URL.Path, "/api/")
}

// StartServer starts the monitor as a web server and returns the port it
// listens on.
func (m *Monitor) StartServer() int {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	port := listener.Addr().(*net.TCPAddr).Port

	fmt.Fprintf(os.Stderr, "Monitoring bench with http://localhost:%d\n", port)

	router := m.Router()

	go func() {
		err := http.Serve(listener, router)
		dieOnErr(err)
	}()

	return port
}

// OpenInBrowser opens the monitor page served on port.
func (m *Monitor) OpenInBrowser(port int) error {
	return browser.OpenURL(fmt.Sprintf("http://localhost:%d", port))
}

func (m *Monitor) benchOr503(w http.ResponseWriter) *bench.Bench {
	if m.bench == nil {
		http.Error(w, "no bench registered", http.StatusServiceUnavailable)
	}

	return m.bench
}

func (m *Monitor) status(w http.ResponseWriter, _ *http.Request) {
	b := m.benchOr503(w)
	if b == nil {
		return
	}

	writeJSON(w, b.Status())
}

func (m *Monitor) controllerDetails(w http.ResponseWriter, _ *http.Request) {
	b := m.benchOr503(w)
	if b == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(b.Controller)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) controllerField(w http.ResponseWriter, r *http.Request) {
	b := m.benchOr503(w)
	if b == nil {
		return
	}

	fields := strings.Split(mux.Vars(r)["field"], ".")

	serializer := goseth.NewSerializer()
	serializer.SetRoot(b.Controller)
	serializer.SetMaxDepth(1)

	err := serializer.SetEntryPoint(fields)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	err = serializer.Serialize(w)
	dieOnErr(err)
}

type reportRsp struct {
	Source     string `json:"source"`
	SourceCode uint32 `json:"source_code"`
	Address    uint32 `json:"address"`
	Info       uint32 `json:"info"`
}

func (m *Monitor) listReports(w http.ResponseWriter, _ *http.Request) {
	b := m.benchOr503(w)
	if b == nil {
		return
	}

	reports := b.Reports()

	rsp := make([]reportRsp, 0, len(reports))
	for _, r := range reports {
		rsp = append(rsp, reportRsp{
			Source:     r.Source.String(),
			SourceCode: uint32(r.Source),
			Address:    r.Address,
			Info:       r.Info,
		})
	}

	writeJSON(w, rsp)
}

func (m *Monitor) listPresets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, injection.PresetNames())
}

type injectionRsp struct {
	ID            string `json:"id"`
	CellAddress   uint64 `json:"cell_address"`
	WordAddress   uint32 `json:"word_address"`
	Preset        string `json:"preset"`
	Data          string `json:"data"`
	Parity        string `json:"parity"`
	CorrectParity string `json:"correct_parity"`
}

func newInjectionRsp(inj injection.Injection) injectionRsp {
	return injectionRsp{
		ID:            inj.ID,
		CellAddress:   inj.CellAddress,
		WordAddress:   inj.WordAddress,
		Preset:        inj.Preset.String(),
		Data:          fmt.Sprintf("0x%016x", inj.Data),
		Parity:        inj.Parity.String(),
		CorrectParity: inj.CorrectParity.String(),
	}
}

func (m *Monitor) inject(w http.ResponseWriter, r *http.Request) {
	b := m.benchOr503(w)
	if b == nil {
		return
	}

	preset, err := injection.ParsePreset(mux.Vars(r)["preset"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, newInjectionRsp(b.Inject(preset)))
}

func (m *Monitor) request(w http.ResponseWriter, r *http.Request) {
	b := m.benchOr503(w)
	if b == nil {
		return
	}

	var inj injection.Injection

	switch mux.Vars(r)["kind"] {
	case "interrupt":
		inj = b.RequestInterrupt()
	case "reset":
		inj = b.RequestReset()
	default:
		http.Error(w, "request must be interrupt or reset",
			http.StatusBadRequest)
		return
	}

	writeJSON(w, newInjectionRsp(inj))
}

type historyRsp struct {
	Injections []trace.InjectionEntry `json:"injections"`
	Faults     []trace.FaultEntry     `json:"faults"`
}

func (m *Monitor) listHistory(w http.ResponseWriter, r *http.Request) {
	if m.history == nil {
		http.Error(w, "no recording registered", http.StatusNotFound)
		return
	}

	injections, err := m.history.ListInjections(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	faults, err := m.history.ListFaults(r.Context(), trace.FaultQuery{
		Source: r.URL.Query().Get("source"),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, historyRsp{Injections: injections, Faults: faults})
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	bars := make([]progressBarRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.snapshot())
	}

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")

	_, err = w.Write(data)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
