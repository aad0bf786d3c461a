package core

import "context"

// Collector defines the contract for shell-specific window capture.
// Implementations read the running window manager and build normalized
// window states; they never mutate it.
type Collector interface {
	// Name returns the collector name (e.g. "x11", "windows", "mock").
	Name() string

	// CaptureEntry snapshots the current window hierarchy once.
	CaptureEntry(ctx context.Context) (*Entry, error)

	// Close releases the connection to the shell, if any.
	Close() error
}

// Repository defines the persistence layer operations.
type Repository interface {
	CreateTrace(ctx context.Context, trace *Trace) error
	GetTraceByID(ctx context.Context, id string) (*Trace, error)
	ListTraces(ctx context.Context, filter TraceFilter) ([]Trace, error)
	DeleteTrace(ctx context.Context, id string) error

	SaveEntries(ctx context.Context, traceID string, entries []Entry) error
	GetEntries(ctx context.Context, traceID string) ([]Entry, error)
}

// TraceFilter defines criteria for listing traces.
type TraceFilter struct {
	Repo   string
	Branch string
	Limit  int
	Offset int
}
