package sync

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/kunnath/EDEKA-Analytics/pkg/config"
	"github.com/kunnath/EDEKA-Analytics/pkg/models"
	"github.com/kunnath/EDEKA-Analytics/pkg/notify"
	"github.com/kunnath/EDEKA-Analytics/pkg/util"
)

// Manager drives tables through the fetch -> transform -> upsert pipeline
// and books every attempt in the ledger. At most one run is active at a
// time; overlapping triggers are rejected with ErrSyncRunning.
type Manager struct {
	cfg         *config.Config
	source      Source
	transformer *Transformer
	writer      *UpsertWriter
	ledger      *Ledger
	notifier    *notify.Notifier
	logger      Logger

	mu      sync.Mutex
	running bool
}

// NewManager wires the pipeline around an injected source. internalDB is
// the sync target and ledger home.
func NewManager(cfg *config.Config, internalDB *gorm.DB, source Source, logger Logger) *Manager {
	return &Manager{
		cfg:         cfg,
		source:      source,
		transformer: NewTransformer(cfg.Transformations, logger),
		writer:      NewUpsertWriter(internalDB, logger),
		ledger:      NewLedger(internalDB, logger),
		logger:      logger,
	}
}

// NewManagerFromDBs picks the source: the external database normally, the
// synthetic generator when EDEKA_DEV_MODE is set.
func NewManagerFromDBs(cfg *config.Config, internalDB, externalDB *gorm.DB, logger Logger) *Manager {
	var source Source
	if config.DevMode() {
		logger.Infof("development mode: using mock data source")
		source = NewMockSource()
	} else {
		source = NewDatabaseSource(externalDB, cfg, logger)
	}
	return NewManager(cfg, internalDB, source, logger)
}

func (m *Manager) SetNotifier(n *notify.Notifier) {
	m.notifier = n
}

func (m *Manager) Ledger() *Ledger {
	return m.ledger
}

func (m *Manager) tryStart() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return false
	}
	m.running = true
	return true
}

func (m *Manager) finish() {
	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
}

// SyncTable runs the pipeline for one table. The returned Result is always
// usable: pipeline errors are captured into it (and the ledger), never
// propagated. The error return covers preconditions only (unknown table,
// run already active).
func (m *Manager) SyncTable(table string) (Result, error) {
	if _, ok := models.ColumnsFor(table); !ok {
		return Result{}, errors.Errorf("unknown table %s", table)
	}
	if !m.tryStart() {
		return Result{}, ErrSyncRunning
	}
	defer m.finish()
	return m.syncTable(table), nil
}

func (m *Manager) syncTable(table string) Result {
	res := Result{Table: table}
	m.logger.Infof("starting sync for table %s", table)

	logID, err := m.ledger.Begin(table)
	if err != nil {
		res.Error = err.Error()
		m.logger.Errorf("cannot open ledger entry for %s: %v", table, err)
		return res
	}

	runErr := m.runPipeline(table, &res)

	var errMsg *string
	if runErr != nil {
		msg := runErr.Error()
		errMsg = &msg
		res.Error = msg
		m.logger.Errorf("sync for table %s failed: %v", table, runErr)
	}
	if err := m.ledger.End(logID, res.Fetched, Counts{Inserted: res.Inserted, Updated: res.Updated, Failed: res.Failed}, errMsg); err != nil {
		m.logger.Errorf("cannot close ledger entry %d: %v", logID, err)
	}

	m.logger.Infof("completed sync for table %s - fetched: %d, inserted: %d, updated: %d, failed: %d",
		table, res.Fetched, res.Inserted, res.Updated, res.Failed)
	return res
}

// runPipeline mutates res with the counts of the stages it reaches; stages
// not reached leave their counts at zero.
func (m *Manager) runPipeline(table string, res *Result) error {
	var since *time.Time
	if m.cfg.Sync.Incremental {
		since = m.ledger.LastWatermark(table)
		m.logger.Infof("last watermark for %s: %s", table, util.FormatTimePtr(since))
	}

	rows, err := m.source.Fetch(table, since)
	if err != nil {
		return err
	}
	res.Fetched = len(rows)
	m.logger.Infof("fetched %d records from source for %s", len(rows), table)
	if len(rows) == 0 {
		return nil
	}

	records, dropped := m.transformer.Normalize(table, rows)
	res.Failed += dropped

	counts, err := m.writer.Apply(table, records)
	res.Inserted = counts.Inserted
	res.Updated = counts.Updated
	res.Failed += counts.Failed
	return err
}

// SyncAll runs every configured table in dependency order. A failed table
// never stops the run; its error lives in its Result and the aggregate
// still sums whatever the other tables did.
func (m *Manager) SyncAll() (Aggregate, error) {
	if !m.tryStart() {
		return Aggregate{}, ErrSyncRunning
	}
	defer m.finish()

	start := time.Now()
	agg := Aggregate{
		RunID:     uuid.NewString(),
		StartedAt: start.UTC(),
	}
	m.logger.Infof("starting sync run %s", agg.RunID)

	for _, table := range models.SyncOrder {
		if !m.shouldSync(table) {
			continue
		}
		res := m.syncTable(table)
		agg.Tables = append(agg.Tables, res)
		agg.Fetched += res.Fetched
		agg.Inserted += res.Inserted
		agg.Updated += res.Updated
		agg.Failed += res.Failed
	}

	agg.DurationSeconds = time.Since(start).Seconds()
	m.logger.Infof("sync run %s completed in %.2fs - fetched: %d, inserted: %d, updated: %d, failed: %d",
		agg.RunID, agg.DurationSeconds, agg.Fetched, agg.Inserted, agg.Updated, agg.Failed)

	m.notifier.PublishSummary(agg)
	return agg, nil
}

// shouldSync honors sync.tables_to_sync, except stores: every other table
// hangs off them, so they always sync.
func (m *Manager) shouldSync(table string) bool {
	if table == models.TableNameStores {
		return true
	}
	return lo.Contains(m.cfg.Sync.TablesToSync, table)
}
