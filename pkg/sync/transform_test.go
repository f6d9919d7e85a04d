package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kunnath/EDEKA-Analytics/pkg/config"
	"github.com/kunnath/EDEKA-Analytics/pkg/models"
)

func newTestTransformer(categoryMapping map[string]int) *Transformer {
	return NewTransformer(config.TransformRules{
		DateColumns:     []string{"created_at", "updated_at", "registration_date", "last_purchase_date", "purchase_date"},
		CategoryMapping: categoryMapping,
	}, &testLogger{})
}

func TestNormalizeEmptyInput(t *testing.T) {
	tr := newTestTransformer(nil)
	records, failed := tr.Normalize(models.TableNameProducts, nil)
	assert.Empty(t, records)
	assert.Zero(t, failed)
}

func TestNormalizeParsesDates(t *testing.T) {
	tr := newTestTransformer(nil)
	records, failed := tr.Normalize(models.TableNameProducts, []Row{productRow(1, 2.49)})
	require.Zero(t, failed)
	require.Len(t, records, 1)

	product := records[0].(*models.Product)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), product.CreatedAt)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), product.UpdatedAt)
}

func TestNormalizeRemapsCategories(t *testing.T) {
	tr := newTestTransformer(map[string]int{"91": 1, "92": 2})

	mapped := productRow(1, 2.49)
	mapped["category_id"] = 91
	passthrough := productRow(2, 3.99)
	passthrough["category_id"] = 7

	records, failed := tr.Normalize(models.TableNameProducts, []Row{mapped, passthrough})
	require.Zero(t, failed)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].(*models.Product).CategoryID)
	// Unmapped codes pass through unchanged.
	assert.Equal(t, 7, records[1].(*models.Product).CategoryID)
}

func TestNormalizeRecomputesSaleTotal(t *testing.T) {
	tr := newTestTransformer(nil)
	row := saleRow(1, 1, 1, 1)
	row["quantity"] = 3
	row["unit_price"] = 2.5
	row["total_price"] = 123.45 // not trusted from the source

	records, failed := tr.Normalize(models.TableNameSales, []Row{row})
	require.Zero(t, failed)
	require.Len(t, records, 1)
	assert.InDelta(t, 7.5, records[0].(*models.Sale).TotalPrice, 0.0001)
}

func TestNormalizeCountsBadRows(t *testing.T) {
	tr := newTestTransformer(nil)

	good := saleRow(1, 1, 1, 1)
	badQuantity := saleRow(2, 1, 1, 1)
	badQuantity["quantity"] = "many"
	badDate := saleRow(3, 1, 1, 1)
	badDate["purchase_date"] = "not-a-date"
	missingBill := saleRow(4, 1, 1, 1)
	delete(missingBill, "bill_id")

	records, failed := tr.Normalize(models.TableNameSales, []Row{good, badQuantity, badDate, missingBill})
	assert.Equal(t, 3, failed)
	require.Len(t, records, 1)
	assert.Equal(t, "INV-000001", records[0].(*models.Sale).BillID)
}

func TestNormalizeOptionalLastPurchaseDate(t *testing.T) {
	tr := newTestTransformer(nil)

	withDate := customerRow(1)
	withDate["last_purchase_date"] = "2024-05-20 10:00:00"
	without := customerRow(2)

	records, failed := tr.Normalize(models.TableNameCustomers, []Row{withDate, without})
	require.Zero(t, failed)
	require.Len(t, records, 2)

	first := records[0].(*models.Customer)
	require.NotNil(t, first.LastPurchaseDate)
	assert.Equal(t, time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC), *first.LastPurchaseDate)
	assert.Nil(t, records[1].(*models.Customer).LastPurchaseDate)
}

func TestNormalizeAcceptsNativeTimes(t *testing.T) {
	tr := newTestTransformer(nil)
	when := time.Date(2024, 2, 2, 2, 2, 2, 0, time.UTC)
	row := productRow(1, 2.49)
	row["created_at"] = when
	row["updated_at"] = when

	records, failed := tr.Normalize(models.TableNameProducts, []Row{row})
	require.Zero(t, failed)
	assert.Equal(t, when, records[0].(*models.Product).CreatedAt)
}

func TestNormalizeUnknownTable(t *testing.T) {
	tr := newTestTransformer(nil)
	records, failed := tr.Normalize("inventory", []Row{{"id": 1}})
	assert.Empty(t, records)
	assert.Equal(t, 1, failed)
}
