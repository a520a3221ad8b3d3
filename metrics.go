package sieve

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting query metrics.
// Implement this interface to integrate with monitoring systems; package
// prommetrics provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordExecute is called after each Execute, ExecuteIndexed or TestOne.
	// scanned is the number of rows evaluated, matched the number returned,
	// restricted whether an index reduced the candidates.
	RecordExecute(scanned, matched int, restricted bool, duration time.Duration, err error)

	// RecordRestrict is called after each index restriction attempt.
	// candidates is the size of the reduced set, zero when not restricted.
	RecordRestrict(candidates int, restricted bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordExecute(int, int, bool, time.Duration, error) {}
func (NoopMetricsCollector) RecordRestrict(int, bool)                           {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ExecuteCount      atomic.Int64
	ExecuteErrors     atomic.Int64
	ExecuteTotalNanos atomic.Int64
	RowsScanned       atomic.Int64
	RowsMatched       atomic.Int64
	RestrictCount     atomic.Int64
	RestrictHits      atomic.Int64
	Candidates        atomic.Int64
}

// RecordExecute implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExecute(scanned, matched int, _ bool, duration time.Duration, err error) {
	b.ExecuteCount.Add(1)
	b.ExecuteTotalNanos.Add(duration.Nanoseconds())
	b.RowsScanned.Add(int64(scanned))
	b.RowsMatched.Add(int64(matched))
	if err != nil {
		b.ExecuteErrors.Add(1)
	}
}

// RecordRestrict implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRestrict(candidates int, restricted bool) {
	b.RestrictCount.Add(1)
	if restricted {
		b.RestrictHits.Add(1)
		b.Candidates.Add(int64(candidates))
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ExecuteCount:    b.ExecuteCount.Load(),
		ExecuteErrors:   b.ExecuteErrors.Load(),
		ExecuteAvgNanos: b.getAvgExecuteNanos(),
		RowsScanned:     b.RowsScanned.Load(),
		RowsMatched:     b.RowsMatched.Load(),
		RestrictCount:   b.RestrictCount.Load(),
		RestrictHits:    b.RestrictHits.Load(),
		Candidates:      b.Candidates.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgExecuteNanos() int64 {
	count := b.ExecuteCount.Load()
	if count == 0 {
		return 0
	}
	return b.ExecuteTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ExecuteCount    int64
	ExecuteErrors   int64
	ExecuteAvgNanos int64
	RowsScanned     int64
	RowsMatched     int64
	RestrictCount   int64
	RestrictHits    int64
	Candidates      int64
}
