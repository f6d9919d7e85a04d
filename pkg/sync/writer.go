package sync

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/kunnath/EDEKA-Analytics/pkg/models"
)

// UpsertWriter applies one batch of typed records to the internal store as
// a single transaction. Insert vs update is decided against the table's
// existing key set; each record runs under a savepoint so one bad record
// rolls back alone while the rest of the batch commits.
type UpsertWriter struct {
	db     *gorm.DB
	logger Logger
}

func NewUpsertWriter(gdb *gorm.DB, logger Logger) *UpsertWriter {
	return &UpsertWriter{db: gdb, logger: logger}
}

func (w *UpsertWriter) Apply(table string, records []models.Entity) (Counts, error) {
	var counts Counts
	if len(records) == 0 {
		return counts, nil
	}
	key, ok := models.UpsertKey(table)
	if !ok {
		return counts, errors.Errorf("no upsert key defined for table %s", table)
	}
	updatable := models.UpdatableColumns(table)

	err := w.db.Transaction(func(tx *gorm.DB) error {
		existing, err := w.existingKeys(tx, table, key)
		if err != nil {
			return err
		}
		for i, rec := range records {
			keyVal := cast.ToString(rec.KeyValue())
			_, found := existing[keyVal]

			sp := fmt.Sprintf("rec_%d", i)
			tx.SavePoint(sp)
			var opErr error
			if found {
				opErr = tx.Table(table).
					Where(key+" = ?", rec.KeyValue()).
					Select(updatable).
					Updates(rec).Error
			} else {
				opErr = tx.Table(table).Create(rec).Error
			}
			if opErr != nil {
				tx.RollbackTo(sp)
				counts.Failed++
				w.logger.Errorf("%v", &RecordWriteError{Table: table, Key: rec.KeyValue(), Err: opErr})
				continue
			}
			if found {
				counts.Updated++
			} else {
				counts.Inserted++
				existing[keyVal] = struct{}{}
			}
		}
		return nil
	})
	if err != nil {
		return counts, errors.Wrapf(err, "apply batch to %s", table)
	}
	return counts, nil
}

func (w *UpsertWriter) existingKeys(tx *gorm.DB, table, key string) (map[string]struct{}, error) {
	var keys []string
	if err := tx.Table(table).Pluck(key, &keys).Error; err != nil {
		return nil, errors.Wrapf(err, "load existing keys of %s", table)
	}
	return lo.SliceToMap(keys, func(k string) (string, struct{}) {
		return k, struct{}{}
	}), nil
}
