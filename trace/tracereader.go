package trace

import (
	"context"

	"github.com/sarchlab/eccinject/datarecording"
)

// FaultQuery selects fault entries. Empty fields are ignored.
type FaultQuery struct {
	// Source selects faults by the name of their source, such as
	// CY_SYSFAULT_RAMC0_C_ECC.
	Source string

	// Limit caps the number of entries. Zero means no limit.
	Limit int
}

// TraceReader reads back a recording made by a DBTracer.
type TraceReader struct {
	reader datarecording.DataReader
}

// NewTraceReader maps the trace tables on reader.
func NewTraceReader(reader datarecording.DataReader) *TraceReader {
	reader.MapTable(InjectionTable, InjectionEntry{})
	reader.MapTable(FaultTable, FaultEntry{})

	return &TraceReader{reader: reader}
}

// ListInjections returns the injections in the order they happened.
func (r *TraceReader) ListInjections(
	ctx context.Context,
) ([]InjectionEntry, error) {
	results, _, err := r.reader.Query(ctx, InjectionTable,
		datarecording.QueryParams{OrderBy: "rowid"})
	if err != nil {
		return nil, err
	}

	entries := make([]InjectionEntry, 0, len(results))
	for _, res := range results {
		entries = append(entries, *res.(*InjectionEntry))
	}

	return entries, nil
}

// ListFaults returns the handled faults in the order they were reported.
func (r *TraceReader) ListFaults(
	ctx context.Context,
	query FaultQuery,
) ([]FaultEntry, error) {
	params := datarecording.QueryParams{
		OrderBy: "Seq",
		Limit:   query.Limit,
	}

	if query.Source != "" {
		params.Where = "Source = ?"
		params.Args = []any{query.Source}
	}

	results, _, err := r.reader.Query(ctx, FaultTable, params)
	if err != nil {
		return nil, err
	}

	entries := make([]FaultEntry, 0, len(results))
	for _, res := range results {
		entries = append(entries, *res.(*FaultEntry))
	}

	return entries, nil
}
