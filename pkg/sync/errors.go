package sync

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrSourceUnavailable wraps any external read failure. The orchestrator
// contains it per table; other tables still get their attempt.
var ErrSourceUnavailable = errors.New("external source unavailable")

// ErrSyncRunning is returned when a run is triggered while another is still
// active. The engine is single-flight; overlapping triggers are skipped,
// not queued.
var ErrSyncRunning = errors.New("a sync run is already in progress")

// RecordWriteError reports a single record that could not be upserted. It
// is counted and logged, never propagated: one bad record must not abort
// the batch.
type RecordWriteError struct {
	Table string
	Key   any
	Err   error
}

func (e *RecordWriteError) Error() string {
	return fmt.Sprintf("write record %v into %s: %v", e.Key, e.Table, e.Err)
}

func (e *RecordWriteError) Unwrap() error {
	return e.Err
}
