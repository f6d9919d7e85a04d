package sync

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/kunnath/EDEKA-Analytics/pkg/config"
	"github.com/kunnath/EDEKA-Analytics/pkg/models"
)

// DatabaseSource reads mapped columns from the external source-of-record
// database. Queries are assembled only from identifiers that passed the
// static per-table allow-list; the watermark is always a bind parameter.
type DatabaseSource struct {
	db       *gorm.DB
	mappings map[string]config.TableMapping
	policy   config.SyncPolicy
	logger   Logger
}

func NewDatabaseSource(gdb *gorm.DB, cfg *config.Config, logger Logger) *DatabaseSource {
	return &DatabaseSource{
		db:       gdb,
		mappings: cfg.ColumnMappings,
		policy:   cfg.Sync,
		logger:   logger,
	}
}

// projection builds the "ext AS internal" select list, re-checking every
// identifier even though config validation already did. Sorted so the query
// text is deterministic.
func (s *DatabaseSource) projection(table string, mapping config.TableMapping) ([]string, error) {
	allowed, ok := models.ColumnsFor(table)
	if !ok {
		return nil, errors.Errorf("table %s is not syncable", table)
	}
	selects := make([]string, 0, len(mapping.Mappings))
	for ext, internal := range mapping.Mappings {
		if !config.IsIdentifier(ext) {
			return nil, errors.Errorf("invalid external column %q for table %s", ext, table)
		}
		if !lo.Contains(allowed, internal) {
			return nil, errors.Errorf("column %q is not in the %s allow-list", internal, table)
		}
		selects = append(selects, fmt.Sprintf("%s AS %s", ext, internal))
	}
	sort.Strings(selects)
	return selects, nil
}

func (s *DatabaseSource) Fetch(table string, since *time.Time) ([]Row, error) {
	mapping, ok := s.mappings[table]
	if !ok {
		return nil, errors.Errorf("no column mapping configured for table %s", table)
	}
	if !config.IsIdentifier(mapping.ExternalTable) {
		return nil, errors.Errorf("invalid external table %q for %s", mapping.ExternalTable, table)
	}
	selects, err := s.projection(table, mapping)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(selects, ", "), mapping.ExternalTable)
	var args []interface{}
	if s.policy.Incremental && since != nil {
		if !config.IsIdentifier(s.policy.TimestampColumn) {
			return nil, errors.Errorf("invalid timestamp column %q", s.policy.TimestampColumn)
		}
		query += fmt.Sprintf(" WHERE %s > ?", s.policy.TimestampColumn)
		args = append(args, *since)
	}
	if s.policy.BatchSize > 0 {
		// A cap, not a cursor: a full sync of a table larger than the cap
		// needs further runs to drain it.
		query += fmt.Sprintf(" LIMIT %d", s.policy.BatchSize)
	}

	var raw []map[string]interface{}
	if err := s.db.Raw(query, args...).Find(&raw).Error; err != nil {
		return nil, errors.Wrapf(ErrSourceUnavailable, "fetch %s: %v", table, err)
	}
	return lo.Map(raw, func(m map[string]interface{}, _ int) Row {
		return Row(m)
	}), nil
}
