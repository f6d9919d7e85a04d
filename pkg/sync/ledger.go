package sync

import (
	stderrors "errors"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/kunnath/EDEKA-Analytics/pkg/models"
)

// Ledger is the append-only audit trail of sync attempts. Besides
// operational visibility it carries the incremental watermark: the end time
// of the most recent successful attempt per table.
type Ledger struct {
	db     *gorm.DB
	logger Logger
}

func NewLedger(gdb *gorm.DB, logger Logger) *Ledger {
	return &Ledger{db: gdb, logger: logger}
}

// Begin records the start of an attempt and returns its log id. The entry
// stays in_progress until exactly one End call moves it to a terminal
// status.
func (l *Ledger) Begin(table string) (int, error) {
	entry := &models.SyncLog{
		SyncStart: time.Now().UTC(),
		TableName: table,
		Status:    models.SyncStatusInProgress,
	}
	if err := l.db.Create(entry).Error; err != nil {
		return 0, errors.Wrapf(err, "record sync start for %s", table)
	}
	return entry.LogID, nil
}

// End closes the attempt. A non-nil errMsg marks it failed, otherwise
// success.
func (l *Ledger) End(logID int, fetched int, counts Counts, errMsg *string) error {
	status := models.SyncStatusSuccess
	if errMsg != nil {
		status = models.SyncStatusFailed
	}
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"sync_end":         now,
		"records_fetched":  fetched,
		"records_inserted": counts.Inserted,
		"records_updated":  counts.Updated,
		"records_failed":   counts.Failed,
		"status":           status,
		"error_message":    errMsg,
	}
	res := l.db.Model(&models.SyncLog{}).Where("log_id = ?", logID).Updates(updates)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "record sync end for log %d", logID)
	}
	if res.RowsAffected == 0 {
		return errors.Errorf("sync log %d not found", logID)
	}
	return nil
}

// LastWatermark returns the end time of the most recent successful attempt
// for table, or nil if none exists. A lookup failure is downgraded to "no
// prior success": the next fetch is simply a full one.
func (l *Ledger) LastWatermark(table string) *time.Time {
	var entry models.SyncLog
	err := l.db.
		Where("table_name = ? AND status = ?", table, models.SyncStatusSuccess).
		Order("sync_end DESC").
		First(&entry).Error
	if err != nil {
		if !stderrors.Is(err, gorm.ErrRecordNotFound) {
			l.logger.Warnf("watermark lookup for %s failed, forcing full fetch: %v", table, err)
		}
		return nil
	}
	return entry.SyncEnd
}

// Entries lists recent attempts, newest first, optionally filtered by
// table. Used by the ops API.
func (l *Ledger) Entries(table string, limit int) ([]models.SyncLog, error) {
	if limit <= 0 {
		limit = 50
	}
	q := l.db.Model(&models.SyncLog{}).Order("log_id DESC").Limit(limit)
	if table != "" {
		q = q.Where("table_name = ?", table)
	}
	var entries []models.SyncLog
	if err := q.Find(&entries).Error; err != nil {
		return nil, errors.Wrap(err, "list sync log entries")
	}
	return entries, nil
}
