package sync

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/kunnath/EDEKA-Analytics/pkg/models"
)

// MockSource generates synthetic rows with the same shape a real fetch
// produces, so the rest of the pipeline runs unchanged in development.
// Sales reference product ids 1-50, customer ids 1-100 and store ids 1-20,
// all of which the other generators cover.
type MockSource struct {
	rng          *rand.Rand
	NumProducts  int
	NumCustomers int
	NumSales     int
	NumStores    int
}

func NewMockSource() *MockSource {
	return &MockSource{
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		NumProducts:  100,
		NumCustomers: 100,
		NumSales:     100,
		NumStores:    20,
	}
}

const mockTimeLayout = "2006-01-02 15:04:05"

func (m *MockSource) daysAgo(min, max int) string {
	days := min + m.rng.Intn(max-min+1)
	return time.Now().AddDate(0, 0, -days).Format(mockTimeLayout)
}

func (m *MockSource) Fetch(table string, _ *time.Time) ([]Row, error) {
	switch table {
	case models.TableNameStores:
		return m.stores(), nil
	case models.TableNameProducts:
		return m.products(), nil
	case models.TableNameCustomers:
		return m.customers(), nil
	case models.TableNameSales:
		return m.sales(), nil
	}
	return nil, errors.Errorf("no mock data available for table %s", table)
}

func (m *MockSource) stores() []Row {
	cities := []string{"Berlin", "Hamburg", "Munich", "Cologne", "Frankfurt", "Stuttgart", "Düsseldorf", "Leipzig", "Dortmund", "Essen"}
	rows := make([]Row, 0, m.NumStores)
	for i := 1; i <= m.NumStores; i++ {
		rows = append(rows, Row{
			"store_id":    i,
			"name":        fmt.Sprintf("EDEKA Store %d", i),
			"address":     fmt.Sprintf("%d Hauptstraße", 1+m.rng.Intn(999)),
			"city":        cities[m.rng.Intn(len(cities))],
			"postal_code": fmt.Sprintf("%05d", 10000+m.rng.Intn(90000)),
			"phone":       fmt.Sprintf("+49-%d-%d", 100+m.rng.Intn(900), 1000000+m.rng.Intn(9000000)),
		})
	}
	return rows
}

func (m *MockSource) products() []Row {
	rows := make([]Row, 0, m.NumProducts)
	for i := 1; i <= m.NumProducts; i++ {
		rows = append(rows, Row{
			"product_id":  i,
			"name":        fmt.Sprintf("Product %d", i),
			"category_id": 1 + m.rng.Intn(10),
			"price":       round2(1 + m.rng.Float64()*99),
			"description": fmt.Sprintf("Description for product %d", i),
			"created_at":  m.daysAgo(30, 365),
			"updated_at":  time.Now().Format(mockTimeLayout),
		})
	}
	return rows
}

func (m *MockSource) customers() []Row {
	firstNames := []string{"John", "Jane", "Michael", "Emma", "William", "Olivia", "James", "Sophia", "Robert", "Charlotte"}
	lastNames := []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Miller", "Davis", "Wilson", "Taylor", "Clark"}
	rows := make([]Row, 0, m.NumCustomers)
	for i := 1; i <= m.NumCustomers; i++ {
		rows = append(rows, Row{
			"customer_id":        i,
			"first_name":         firstNames[m.rng.Intn(len(firstNames))],
			"last_name":          lastNames[m.rng.Intn(len(lastNames))],
			"email":              fmt.Sprintf("customer%d@example.com", i),
			"phone":              fmt.Sprintf("555-%d-%d", 100+m.rng.Intn(900), 1000+m.rng.Intn(9000)),
			"address":            fmt.Sprintf("%d Main St, City %d", 1+m.rng.Intn(999), i),
			"registration_date":  m.daysAgo(1, 730),
			"last_purchase_date": m.daysAgo(1, 365),
		})
	}
	return rows
}

func (m *MockSource) sales() []Row {
	rows := make([]Row, 0, m.NumSales)
	for i := 1; i <= m.NumSales; i++ {
		quantity := 1 + m.rng.Intn(10)
		unitPrice := round2(1 + m.rng.Float64()*99)
		rows = append(rows, Row{
			"bill_id":       fmt.Sprintf("INV-%06d", i),
			"product_id":    1 + m.rng.Intn(50),
			"customer_id":   1 + m.rng.Intn(100),
			"store_id":      1 + m.rng.Intn(20),
			"quantity":      quantity,
			"unit_price":    unitPrice,
			"total_price":   round2(float64(quantity) * unitPrice),
			"purchase_date": m.daysAgo(1, 365),
		})
	}
	return rows
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
