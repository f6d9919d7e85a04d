package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kunnath/EDEKA-Analytics/pkg/models"
)

func TestLedgerLifecycle(t *testing.T) {
	gdb := setupInternalDB(t)
	ledger := NewLedger(gdb, &testLogger{})

	logID, err := ledger.Begin(models.TableNameProducts)
	require.NoError(t, err)
	require.NotZero(t, logID)

	var entry models.SyncLog
	require.NoError(t, gdb.First(&entry, "log_id = ?", logID).Error)
	assert.Equal(t, models.SyncStatusInProgress, entry.Status)
	assert.Nil(t, entry.SyncEnd)

	require.NoError(t, ledger.End(logID, 10, Counts{Inserted: 7, Updated: 2, Failed: 1}, nil))

	require.NoError(t, gdb.First(&entry, "log_id = ?", logID).Error)
	assert.Equal(t, models.SyncStatusSuccess, entry.Status)
	require.NotNil(t, entry.SyncEnd)
	assert.Equal(t, 10, entry.RecordsFetched)
	assert.Equal(t, 7, entry.RecordsInserted)
	assert.Equal(t, 2, entry.RecordsUpdated)
	assert.Equal(t, 1, entry.RecordsFailed)
	assert.Nil(t, entry.ErrorMessage)
}

func TestLedgerEndWithError(t *testing.T) {
	gdb := setupInternalDB(t)
	ledger := NewLedger(gdb, &testLogger{})

	logID, err := ledger.Begin(models.TableNameSales)
	require.NoError(t, err)

	msg := "connection refused"
	require.NoError(t, ledger.End(logID, 0, Counts{}, &msg))

	var entry models.SyncLog
	require.NoError(t, gdb.First(&entry, "log_id = ?", logID).Error)
	assert.Equal(t, models.SyncStatusFailed, entry.Status)
	require.NotNil(t, entry.ErrorMessage)
	assert.Equal(t, msg, *entry.ErrorMessage)
}

func TestLedgerEndUnknownLogID(t *testing.T) {
	ledger := NewLedger(setupInternalDB(t), &testLogger{})
	require.Error(t, ledger.End(9999, 0, Counts{}, nil))
}

func TestLastWatermark(t *testing.T) {
	gdb := setupInternalDB(t)
	ledger := NewLedger(gdb, &testLogger{})

	// No entries at all: full fetch.
	assert.Nil(t, ledger.LastWatermark(models.TableNameProducts))

	// A failed attempt does not move the watermark.
	logID, err := ledger.Begin(models.TableNameProducts)
	require.NoError(t, err)
	msg := "boom"
	require.NoError(t, ledger.End(logID, 0, Counts{}, &msg))
	assert.Nil(t, ledger.LastWatermark(models.TableNameProducts))

	logID, err = ledger.Begin(models.TableNameProducts)
	require.NoError(t, err)
	require.NoError(t, ledger.End(logID, 5, Counts{Inserted: 5}, nil))
	first := ledger.LastWatermark(models.TableNameProducts)
	require.NotNil(t, first)

	// Watermark is per table.
	assert.Nil(t, ledger.LastWatermark(models.TableNameSales))

	// A later success moves it forward, never back.
	time.Sleep(5 * time.Millisecond)
	logID, err = ledger.Begin(models.TableNameProducts)
	require.NoError(t, err)
	require.NoError(t, ledger.End(logID, 0, Counts{}, nil))
	second := ledger.LastWatermark(models.TableNameProducts)
	require.NotNil(t, second)
	assert.False(t, second.Before(*first))
}

func TestLedgerEntries(t *testing.T) {
	gdb := setupInternalDB(t)
	ledger := NewLedger(gdb, &testLogger{})

	for _, table := range []string{"stores", "products", "stores"} {
		logID, err := ledger.Begin(table)
		require.NoError(t, err)
		require.NoError(t, ledger.End(logID, 1, Counts{Inserted: 1}, nil))
	}

	all, err := ledger.Entries("", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	// Newest first.
	assert.GreaterOrEqual(t, all[0].LogID, all[1].LogID)

	stores, err := ledger.Entries("stores", 10)
	require.NoError(t, err)
	assert.Len(t, stores, 2)

	limited, err := ledger.Entries("", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
