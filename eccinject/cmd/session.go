package cmd

import (
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/sarchlab/eccinject/bench"
	"github.com/sarchlab/eccinject/config"
	"github.com/sarchlab/eccinject/datarecording"
	"github.com/sarchlab/eccinject/hooking"
	"github.com/sarchlab/eccinject/hwsim"
	"github.com/sarchlab/eccinject/idgen"
	"github.com/sarchlab/eccinject/trace"
)

// A session is a started bench plus its optional recording.
type session struct {
	cfg      *config.Config
	bench    *bench.Bench
	recorder datarecording.DataRecorder
	tracer   *trace.DBTracer
}

func openSession(
	cmd *cobra.Command,
	out io.Writer,
	clearScreen bool,
) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if uniqueIDs {
		idgen.UseParallelGenerator()
	}

	builder := bench.MakeBuilder().
		WithConfig(*cfg).
		WithOutput(out).
		WithClearScreen(clearScreen)

	var timeTeller trace.TimeTeller = trace.NewWallClock()
	if virtualTime {
		clock := &hwsim.VirtualClock{}
		builder = builder.WithClock(clock)
		timeTeller = clock
	}

	s := &session{
		cfg:   cfg,
		bench: builder.Build("Bench"),
	}

	if verbose {
		logHook := hooking.NewLogHook(
			log.New(cmd.ErrOrStderr(), "", log.LstdFlags|log.Lmicroseconds),
			nil)
		s.bench.Injector.AcceptHook(logHook)
		s.bench.Handler.AcceptHook(logHook)
	}

	if cfg.DB != "" {
		s.recorder = datarecording.New(cfg.DB)
		s.tracer = trace.NewDBTracer(timeTeller, s.recorder)
		s.bench.Injector.AcceptHook(s.tracer)
		s.bench.Handler.AcceptHook(s.tracer)
	}

	s.bench.Startup()

	return s, nil
}

// recordingFile returns the file the session records into, or an empty
// string when the session is not recorded.
func (s *session) recordingFile() string {
	if s.recorder == nil {
		return ""
	}

	return s.cfg.DB + ".sqlite3"
}

func (s *session) Close() error {
	if s.recorder == nil {
		return nil
	}

	s.tracer.Terminate()

	return s.recorder.Close()
}
