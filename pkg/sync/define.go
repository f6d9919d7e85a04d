package sync

import (
	"time"
)

// Row is one raw fetched record, keyed by internal column names (the source
// projection renames columns at the query).
type Row map[string]any

// Source yields the raw records for one table, optionally restricted to
// rows changed strictly after since. Implemented by the external database
// reader and by the development-mode generator.
type Source interface {
	Fetch(table string, since *time.Time) ([]Row, error)
}

// Logger is the logging port injected into every engine component. A
// *zap.SugaredLogger satisfies it; tests substitute a capturing sink.
type Logger interface {
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
}

// Counts tallies upsert outcomes for one batch.
type Counts struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Failed   int `json:"failed"`
}

// Result is the outcome of one table's sync attempt.
type Result struct {
	Table    string `json:"table"`
	Fetched  int    `json:"fetched"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	Failed   int    `json:"failed"`
	Error    string `json:"error,omitempty"`
}

func (r Result) Errored() bool {
	return r.Error != ""
}

// Aggregate sums a full run across tables.
type Aggregate struct {
	RunID           string    `json:"runId"`
	StartedAt       time.Time `json:"startedAt"`
	DurationSeconds float64   `json:"duration"`
	Fetched         int       `json:"fetched"`
	Inserted        int       `json:"inserted"`
	Updated         int       `json:"updated"`
	Failed          int       `json:"failed"`
	Tables          []Result  `json:"tables"`
}

// AllFailed reports whether every attempted table ended in error. An empty
// run is not a failure.
func (a Aggregate) AllFailed() bool {
	if len(a.Tables) == 0 {
		return false
	}
	for _, res := range a.Tables {
		if res.Error == "" {
			return false
		}
	}
	return true
}
