package models

import "time"

const TableNameSyncLogs = "sync_logs"

// Sync attempt statuses. An entry is created in progress and moved exactly
// once to a terminal status.
const (
	SyncStatusInProgress = "in_progress"
	SyncStatusSuccess    = "success"
	SyncStatusFailed     = "failed"
)

// SyncLog is one row per sync attempt per table. The table is append-only;
// the most recent success entry per table carries the incremental watermark.
type SyncLog struct {
	LogID           int        `json:"logId" gorm:"column:log_id;primaryKey;autoIncrement"`
	SyncStart       time.Time  `json:"syncStart" gorm:"column:sync_start;not null"`
	SyncEnd         *time.Time `json:"syncEnd" gorm:"column:sync_end"`
	TableName       string     `json:"tableName" gorm:"column:table_name;size:100;not null"`
	RecordsFetched  int        `json:"recordsFetched" gorm:"column:records_fetched;not null;default:0"`
	RecordsInserted int        `json:"recordsInserted" gorm:"column:records_inserted;not null;default:0"`
	RecordsUpdated  int        `json:"recordsUpdated" gorm:"column:records_updated;not null;default:0"`
	RecordsFailed   int        `json:"recordsFailed" gorm:"column:records_failed;not null;default:0"`
	Status          string     `json:"status" gorm:"column:status;size:20;not null"`
	ErrorMessage    *string    `json:"errorMessage" gorm:"column:error_message"`
}
