package models

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Entity is a typed record destined for one internal table. KeyColumn and
// KeyValue identify the upsert key, which for sales is the bill id rather
// than the surrogate primary key.
type Entity interface {
	TableName() string
	KeyColumn() string
	KeyValue() any
}

// SyncOrder is the fixed dependency order for a full run: sales rows
// reference all three of the preceding tables.
var SyncOrder = []string{
	TableNameStores,
	TableNameProducts,
	TableNameCustomers,
	TableNameSales,
}

// tableColumns is the static allow-list of internal column names per
// syncable table. Config column mappings must project onto these; nothing
// else ever reaches a SQL statement.
var tableColumns = map[string][]string{
	TableNameProducts:  {"product_id", "name", "category_id", "price", "description", "created_at", "updated_at"},
	TableNameCustomers: {"customer_id", "first_name", "last_name", "email", "phone", "address", "registration_date", "last_purchase_date"},
	TableNameStores:    {"store_id", "name", "address", "city", "postal_code", "phone"},
	TableNameSales:     {"bill_id", "product_id", "customer_id", "store_id", "quantity", "unit_price", "total_price", "purchase_date"},
}

// surrogateColumns are database-generated and never written by the sync.
var surrogateColumns = map[string]string{
	TableNameSales: "sale_id",
}

func ColumnsFor(table string) ([]string, bool) {
	cols, ok := tableColumns[table]
	return cols, ok
}

// UpdatableColumns returns the columns an upsert may rewrite on an existing
// row: everything except the upsert key and any surrogate key.
func UpdatableColumns(table string) []string {
	cols, ok := tableColumns[table]
	if !ok {
		return nil
	}
	key := upsertKeys[table]
	surrogate := surrogateColumns[table]
	return lo.Filter(cols, func(col string, _ int) bool {
		return col != key && col != surrogate
	})
}

var upsertKeys = map[string]string{
	TableNameProducts:  "product_id",
	TableNameCustomers: "customer_id",
	TableNameStores:    "store_id",
	TableNameSales:     "bill_id",
}

func UpsertKey(table string) (string, bool) {
	key, ok := upsertKeys[table]
	return key, ok
}

// NewEntity returns a fresh typed record for a syncable table.
func NewEntity(table string) (Entity, error) {
	switch table {
	case TableNameProducts:
		return &Product{}, nil
	case TableNameCustomers:
		return &Customer{}, nil
	case TableNameStores:
		return &Store{}, nil
	case TableNameSales:
		return &Sale{}, nil
	}
	return nil, errors.Errorf("no entity defined for table %s", table)
}

// InitSchema creates the internal tables, dependencies first.
func InitSchema(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&Store{},
		&Product{},
		&Customer{},
		&Sale{},
		&SyncLog{},
	); err != nil {
		return errors.Wrap(err, "migrate internal schema")
	}
	return nil
}
