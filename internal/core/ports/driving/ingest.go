package driving

import (
	"context"
	"time"
)

// IngestOrchestrator runs ingest cycles across all configured
// connectors and reports live progress.
type IngestOrchestrator interface {
	// RunAll runs one complete ingest cycle, synchronously. At most one
	// cycle runs at a time: a second call while one is in flight
	// returns domain.ErrIngestInProgress without touching the running
	// cycle's counters.
	RunAll(ctx context.Context) error

	// Status returns a snapshot of the current (or most recent) cycle.
	// Safe to call from any goroutine while a cycle runs.
	Status() IngestStatus
}

// IngestStatus is a point-in-time snapshot of ingest progress.
type IngestStatus struct {
	// CycleID identifies the cycle the snapshot describes.
	CycleID string

	// Running reports whether a cycle is currently in flight.
	Running bool

	// Total is the number of connectors in the cycle.
	Total int

	// Completed is the number of connectors finished so far.
	Completed int

	// CurrentShop is the display label of the connector being
	// processed, empty when idle.
	CurrentShop string

	// Observations counts price observations written this cycle.
	Observations int

	// StartedAt is when the cycle began.
	StartedAt time.Time

	// FinishedAt is when the cycle ended; zero while running.
	FinishedAt time.Time

	// LastError holds the most recent per-connector failure. A cycle
	// with a LastError still completed for the remaining connectors.
	LastError string
}
