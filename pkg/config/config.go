package config

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/kunnath/EDEKA-Analytics/pkg/db"
	"github.com/kunnath/EDEKA-Analytics/pkg/models"
	"github.com/kunnath/EDEKA-Analytics/pkg/notify"
	"github.com/kunnath/EDEKA-Analytics/pkg/util"
)

// Error marks a configuration problem. Nothing runs with a broken config:
// the sync aborts before any table is touched.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Config struct {
	Databases       Databases               `json:"databases" yaml:"databases"`
	ColumnMappings  map[string]TableMapping `json:"column_mappings" yaml:"column_mappings"`
	Transformations TransformRules          `json:"transformations" yaml:"transformations"`
	Sync            SyncPolicy              `json:"sync" yaml:"sync"`
	Log             *util.LogConfig         `json:"log,omitempty" yaml:"log,omitempty"`
	Nats            *notify.Config          `json:"nats,omitempty" yaml:"nats,omitempty"`
}

type Databases struct {
	Internal *db.Config `json:"internal" yaml:"internal"`
	External *db.Config `json:"external" yaml:"external"`
}

// TableMapping projects an external table onto an internal one. Keys are
// external column names, values internal column names.
type TableMapping struct {
	ExternalTable string            `json:"external_table" yaml:"external_table"`
	Mappings      map[string]string `json:"mappings" yaml:"mappings"`
}

type TransformRules struct {
	DateColumns     []string       `json:"date_columns" yaml:"date_columns"`
	CategoryMapping map[string]int `json:"category_mapping" yaml:"category_mapping"`
}

type SyncPolicy struct {
	Incremental     bool     `json:"incremental" yaml:"incremental"`
	TimestampColumn string   `json:"timestamp_column" yaml:"timestamp_column"`
	BatchSize       int      `json:"batch_size" yaml:"batch_size"` // fetch cap, 0 = unlimited
	TablesToSync    []string `json:"tables_to_sync" yaml:"tables_to_sync"`
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether s is safe to use as a SQL identifier.
func IsIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

var placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandPlaceholders substitutes ${VAR} references from the environment.
// Unresolved placeholders fail the load rather than passing through
// literally, so a missing credential is caught before the first query.
func expandPlaceholders(content []byte) ([]byte, error) {
	var missing []string
	expanded := placeholderPattern.ReplaceAllFunc(content, func(m []byte) []byte {
		name := string(placeholderPattern.FindSubmatch(m)[1])
		if val, ok := os.LookupEnv(name); ok {
			return []byte(val)
		}
		missing = append(missing, name)
		return m
	})
	if len(missing) > 0 {
		return nil, errors.Errorf("unresolved placeholders: %s", strings.Join(lo.Uniq(missing), ", "))
	}
	return expanded, nil
}

func TryLoadFromDisk(configFilePath string) (*Config, error) {
	content, err := os.ReadFile(configFilePath)
	if err != nil {
		return nil, err
	}
	content, err = expandPlaceholders(content)
	if err != nil {
		return nil, err
	}
	fileType := strings.TrimPrefix(filepath.Ext(configFilePath), ".")
	if fileType == "" {
		fileType = "yaml"
	}
	v := viper.New()
	v.SetConfigType(fileType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, err
	}
	cfg := new(Config)
	if err := v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads, substitutes and validates in one step. Any failure comes
// back as *Error.
func Load(configFilePath string) (*Config, error) {
	cfg, err := TryLoadFromDisk(configFilePath)
	if err != nil {
		return nil, &Error{Reason: "load config file", Err: err}
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &Error{Reason: "validate config", Err: stderrors.Join(errs...)}
	}
	return cfg, nil
}

func (c *Config) Validate() []error {
	var errs = make([]error, 0)
	if c.Databases.Internal == nil {
		errs = append(errs, errors.New("missing databases.internal"))
	} else if dbErrs := c.Databases.Internal.Validate(); len(dbErrs) > 0 {
		errs = append(errs, dbErrs...)
	}
	if c.Databases.External == nil {
		if !DevMode() {
			errs = append(errs, errors.New("missing databases.external"))
		}
	} else if dbErrs := c.Databases.External.Validate(); len(dbErrs) > 0 {
		errs = append(errs, dbErrs...)
	}

	for table, mapping := range c.ColumnMappings {
		allowed, ok := models.ColumnsFor(table)
		if !ok {
			errs = append(errs, errors.Errorf("column_mappings: unknown table %s", table))
			continue
		}
		if !IsIdentifier(mapping.ExternalTable) {
			errs = append(errs, errors.Errorf("column_mappings.%s: invalid external table %q", table, mapping.ExternalTable))
		}
		if len(mapping.Mappings) == 0 {
			errs = append(errs, errors.Errorf("column_mappings.%s: no columns mapped", table))
		}
		for ext, internal := range mapping.Mappings {
			if !IsIdentifier(ext) {
				errs = append(errs, errors.Errorf("column_mappings.%s: invalid external column %q", table, ext))
			}
			if !lo.Contains(allowed, internal) {
				errs = append(errs, errors.Errorf("column_mappings.%s: %q is not an internal column of %s", table, internal, table))
			}
		}
		if key, _ := models.UpsertKey(table); !lo.Contains(lo.Values(mapping.Mappings), key) {
			errs = append(errs, errors.Errorf("column_mappings.%s: upsert key %s is not mapped", table, key))
		}
	}

	if c.Sync.Incremental {
		if c.Sync.TimestampColumn == "" {
			errs = append(errs, errors.New("sync.timestamp_column is required for incremental sync"))
		} else if !IsIdentifier(c.Sync.TimestampColumn) {
			errs = append(errs, errors.Errorf("sync.timestamp_column %q is not a valid identifier", c.Sync.TimestampColumn))
		}
	}
	if c.Sync.BatchSize < 0 {
		errs = append(errs, errors.Errorf("sync.batch_size must not be negative"))
	}
	for _, table := range c.Sync.TablesToSync {
		if _, ok := models.ColumnsFor(table); !ok {
			errs = append(errs, errors.Errorf("sync.tables_to_sync: unknown table %s", table))
		}
	}

	if c.Nats != nil {
		if err := c.Nats.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// DevMode reports whether the synthetic in-memory source replaces the
// external database.
func DevMode() bool {
	return cast.ToBool(os.Getenv("EDEKA_DEV_MODE"))
}
