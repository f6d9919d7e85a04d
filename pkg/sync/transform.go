package sync

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/kunnath/EDEKA-Analytics/pkg/config"
	"github.com/kunnath/EDEKA-Analytics/pkg/models"
	"github.com/kunnath/EDEKA-Analytics/pkg/util"
)

// Transformer normalizes raw source rows into typed internal entities:
// configured date columns become time values, product category codes go
// through the remap table, and sale totals are recomputed rather than
// trusted from the source.
type Transformer struct {
	rules  config.TransformRules
	logger Logger
}

func NewTransformer(rules config.TransformRules, logger Logger) *Transformer {
	return &Transformer{rules: rules, logger: logger}
}

// Normalize converts rows for one table. A row that cannot be coerced is
// dropped and counted; the rest proceed. Empty input yields empty output.
func (t *Transformer) Normalize(table string, rows []Row) ([]models.Entity, int) {
	if len(rows) == 0 {
		return nil, 0
	}
	out := make([]models.Entity, 0, len(rows))
	failed := 0
	for _, row := range rows {
		entity, err := t.normalizeRow(table, row)
		if err != nil {
			failed++
			t.logger.Errorf("dropping %s record: %v", table, err)
			continue
		}
		out = append(out, entity)
	}
	return out, failed
}

func (t *Transformer) normalizeRow(table string, row Row) (models.Entity, error) {
	// Pre-parse configured date columns so every later accessor sees a
	// canonical time value.
	for _, col := range t.rules.DateColumns {
		raw, ok := row[col]
		if !ok || raw == nil {
			continue
		}
		parsed, err := timeValue(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "column %s", col)
		}
		row[col] = parsed
	}

	switch table {
	case models.TableNameStores:
		return t.store(row)
	case models.TableNameProducts:
		return t.product(row)
	case models.TableNameCustomers:
		return t.customer(row)
	case models.TableNameSales:
		return t.sale(row)
	}
	return nil, errors.Errorf("no transform defined for table %s", table)
}

func (t *Transformer) store(row Row) (models.Entity, error) {
	id, err := intField(row, "store_id")
	if err != nil {
		return nil, err
	}
	return &models.Store{
		StoreID:    id,
		Name:       stringField(row, "name"),
		Address:    stringField(row, "address"),
		City:       stringField(row, "city"),
		PostalCode: stringField(row, "postal_code"),
		Phone:      stringField(row, "phone"),
	}, nil
}

func (t *Transformer) product(row Row) (models.Entity, error) {
	id, err := intField(row, "product_id")
	if err != nil {
		return nil, err
	}
	category, err := t.remapCategory(row["category_id"])
	if err != nil {
		return nil, err
	}
	price, err := floatField(row, "price")
	if err != nil {
		return nil, err
	}
	createdAt, err := timeField(row, "created_at")
	if err != nil {
		return nil, err
	}
	updatedAt, err := timeField(row, "updated_at")
	if err != nil {
		return nil, err
	}
	return &models.Product{
		ProductID:   id,
		Name:        stringField(row, "name"),
		CategoryID:  category,
		Price:       price,
		Description: stringField(row, "description"),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func (t *Transformer) customer(row Row) (models.Entity, error) {
	id, err := intField(row, "customer_id")
	if err != nil {
		return nil, err
	}
	registered, err := timeField(row, "registration_date")
	if err != nil {
		return nil, err
	}
	lastPurchase, err := optionalTimeField(row, "last_purchase_date")
	if err != nil {
		return nil, err
	}
	return &models.Customer{
		CustomerID:       id,
		FirstName:        stringField(row, "first_name"),
		LastName:         stringField(row, "last_name"),
		Email:            stringField(row, "email"),
		Phone:            stringField(row, "phone"),
		Address:          stringField(row, "address"),
		RegistrationDate: registered,
		LastPurchaseDate: lastPurchase,
	}, nil
}

func (t *Transformer) sale(row Row) (models.Entity, error) {
	billID := stringField(row, "bill_id")
	if billID == "" {
		return nil, errors.New("missing bill_id")
	}
	productID, err := intField(row, "product_id")
	if err != nil {
		return nil, err
	}
	customerID, err := intField(row, "customer_id")
	if err != nil {
		return nil, err
	}
	storeID, err := intField(row, "store_id")
	if err != nil {
		return nil, err
	}
	quantity, err := intField(row, "quantity")
	if err != nil {
		return nil, err
	}
	unitPrice, err := floatField(row, "unit_price")
	if err != nil {
		return nil, err
	}
	purchased, err := timeField(row, "purchase_date")
	if err != nil {
		return nil, err
	}
	return &models.Sale{
		BillID:       billID,
		ProductID:    productID,
		CustomerID:   customerID,
		StoreID:      storeID,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		TotalPrice:   float64(quantity) * unitPrice,
		PurchaseDate: purchased,
	}, nil
}

// remapCategory translates a raw category code through the configured
// mapping. Unmapped codes pass through unchanged so new source categories
// arrive without a config change.
func (t *Transformer) remapCategory(raw interface{}) (int, error) {
	code, err := cast.ToIntE(raw)
	if err != nil {
		return 0, errors.Errorf("category code %v is not numeric", raw)
	}
	if mapped, ok := t.rules.CategoryMapping[cast.ToString(code)]; ok {
		return mapped, nil
	}
	return code, nil
}

func stringField(row Row, col string) string {
	return cast.ToString(row[col])
}

func intField(row Row, col string) (int, error) {
	raw, ok := row[col]
	if !ok || raw == nil {
		return 0, errors.Errorf("missing %s", col)
	}
	v, err := cast.ToIntE(raw)
	if err != nil {
		return 0, errors.Errorf("%s value %v is not numeric", col, raw)
	}
	return v, nil
}

func floatField(row Row, col string) (float64, error) {
	raw, ok := row[col]
	if !ok || raw == nil {
		return 0, errors.Errorf("missing %s", col)
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, errors.Errorf("%s value %v is not numeric", col, raw)
	}
	return v, nil
}

func timeField(row Row, col string) (time.Time, error) {
	raw, ok := row[col]
	if !ok || raw == nil {
		return time.Time{}, errors.Errorf("missing %s", col)
	}
	v, err := timeValue(raw)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "column %s", col)
	}
	return v, nil
}

func optionalTimeField(row Row, col string) (*time.Time, error) {
	raw, ok := row[col]
	if !ok || raw == nil || cast.ToString(raw) == "" {
		return nil, nil
	}
	v, err := timeValue(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "column %s", col)
	}
	return &v, nil
}

func timeValue(raw interface{}) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			return time.Time{}, errors.New("nil timestamp")
		}
		return *v, nil
	case []byte:
		raw = string(v)
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return time.Time{}, errors.Errorf("timestamp %v is not parseable", raw)
	}
	parsed, ok := util.ParseSyncTime(s)
	if !ok {
		return time.Time{}, errors.Errorf("timestamp %q is not parseable", s)
	}
	return parsed, nil
}
