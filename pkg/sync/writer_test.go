package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kunnath/EDEKA-Analytics/pkg/models"
)

func testProduct(id int, price float64) *models.Product {
	return &models.Product{
		ProductID:  id,
		Name:       "Kaffee",
		CategoryID: 4,
		Price:      price,
		CreatedAt:  time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
		UpdatedAt:  time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestApplyInsertsAndUpdates(t *testing.T) {
	gdb := setupInternalDB(t)
	writer := NewUpsertWriter(gdb, &testLogger{})

	counts, err := writer.Apply(models.TableNameProducts, []models.Entity{
		testProduct(1, 2.49),
		testProduct(2, 3.99),
	})
	require.NoError(t, err)
	assert.Equal(t, Counts{Inserted: 2}, counts)

	// Second batch: one known key, one new.
	counts, err = writer.Apply(models.TableNameProducts, []models.Entity{
		testProduct(1, 2.99),
		testProduct(3, 1.19),
	})
	require.NoError(t, err)
	assert.Equal(t, Counts{Inserted: 1, Updated: 1}, counts)

	var product models.Product
	require.NoError(t, gdb.First(&product, "product_id = ?", 1).Error)
	assert.InDelta(t, 2.99, product.Price, 0.0001)

	var count int64
	require.NoError(t, gdb.Table(models.TableNameProducts).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestApplyUpdatesZeroValues(t *testing.T) {
	gdb := setupInternalDB(t)
	writer := NewUpsertWriter(gdb, &testLogger{})

	first := testProduct(7, 5.00)
	first.Description = "Angebot"
	_, err := writer.Apply(models.TableNameProducts, []models.Entity{first})
	require.NoError(t, err)

	// The source cleared the description; the update must not skip the
	// zero value.
	second := testProduct(7, 5.00)
	second.Description = ""
	_, err = writer.Apply(models.TableNameProducts, []models.Entity{second})
	require.NoError(t, err)

	var product models.Product
	require.NoError(t, gdb.First(&product, "product_id = ?", 7).Error)
	assert.Equal(t, "", product.Description)
}

func TestApplyPartialFailureContainment(t *testing.T) {
	gdb := setupInternalDB(t)
	logger := &testLogger{}
	writer := NewUpsertWriter(gdb, logger)

	registered := time.Date(2023, 11, 2, 8, 0, 0, 0, time.UTC)
	batch := []models.Entity{
		&models.Customer{CustomerID: 1, FirstName: "Jane", LastName: "Smith", Email: "jane@example.com", RegistrationDate: registered},
		// Violates the unique email constraint against the first record.
		&models.Customer{CustomerID: 2, FirstName: "John", LastName: "Miller", Email: "jane@example.com", RegistrationDate: registered},
		&models.Customer{CustomerID: 3, FirstName: "Emma", LastName: "Davis", Email: "emma@example.com", RegistrationDate: registered},
	}

	counts, err := writer.Apply(models.TableNameCustomers, batch)
	require.NoError(t, err)
	assert.Equal(t, Counts{Inserted: 2, Failed: 1}, counts)
	assert.Equal(t, len(batch), counts.Inserted+counts.Updated+counts.Failed)

	// The failed record did not block the rest of the batch.
	var count int64
	require.NoError(t, gdb.Table(models.TableNameCustomers).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestApplySaleUpsertsByBillID(t *testing.T) {
	gdb := setupInternalDB(t)
	writer := NewUpsertWriter(gdb, &testLogger{})

	sale := &models.Sale{
		BillID: "INV-000001", ProductID: 1, CustomerID: 1, StoreID: 1,
		Quantity: 2, UnitPrice: 4.5, TotalPrice: 9.0,
		PurchaseDate: time.Date(2024, 6, 10, 17, 45, 0, 0, time.UTC),
	}
	counts, err := writer.Apply(models.TableNameSales, []models.Entity{sale})
	require.NoError(t, err)
	assert.Equal(t, Counts{Inserted: 1}, counts)

	changed := *sale
	changed.SaleID = 0
	changed.Quantity = 3
	changed.TotalPrice = 13.5
	counts, err = writer.Apply(models.TableNameSales, []models.Entity{&changed})
	require.NoError(t, err)
	assert.Equal(t, Counts{Updated: 1}, counts)

	// Updated in place, surrogate key untouched.
	var stored models.Sale
	require.NoError(t, gdb.First(&stored, "bill_id = ?", "INV-000001").Error)
	assert.Equal(t, 3, stored.Quantity)
	assert.InDelta(t, 13.5, stored.TotalPrice, 0.0001)

	var count int64
	require.NoError(t, gdb.Table(models.TableNameSales).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestApplyEmptyBatch(t *testing.T) {
	writer := NewUpsertWriter(setupInternalDB(t), &testLogger{})
	counts, err := writer.Apply(models.TableNameProducts, nil)
	require.NoError(t, err)
	assert.Equal(t, Counts{}, counts)
}
