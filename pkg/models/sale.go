package models

import "time"

const TableNameSales = "sales"

type Sale struct {
	SaleID       int       `json:"saleId" gorm:"column:sale_id;primaryKey;autoIncrement"` // surrogate key
	BillID       string    `json:"billId" gorm:"column:bill_id;size:50;not null;index"`   // upsert identity
	ProductID    int       `json:"productId" gorm:"column:product_id;not null"`
	CustomerID   int       `json:"customerId" gorm:"column:customer_id;not null"`
	StoreID      int       `json:"storeId" gorm:"column:store_id;not null"`
	Quantity     int       `json:"quantity" gorm:"column:quantity;not null"`
	UnitPrice    float64   `json:"unitPrice" gorm:"column:unit_price;not null"`
	TotalPrice   float64   `json:"totalPrice" gorm:"column:total_price;not null"` // always quantity * unit_price
	PurchaseDate time.Time `json:"purchaseDate" gorm:"column:purchase_date;not null;index"`
}

func (*Sale) TableName() string {
	return TableNameSales
}

func (*Sale) KeyColumn() string {
	return "bill_id"
}

func (s *Sale) KeyValue() any {
	return s.BillID
}
