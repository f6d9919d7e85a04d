package models

import "time"

const TableNameCustomers = "customers"

type Customer struct {
	CustomerID       int        `json:"customerId" gorm:"column:customer_id;primaryKey"`
	FirstName        string     `json:"firstName" gorm:"column:first_name;not null"`
	LastName         string     `json:"lastName" gorm:"column:last_name;not null"`
	Email            string     `json:"email" gorm:"column:email;unique"`
	Phone            string     `json:"phone" gorm:"column:phone"`
	Address          string     `json:"address" gorm:"column:address"`
	RegistrationDate time.Time  `json:"registrationDate" gorm:"column:registration_date;not null"`
	LastPurchaseDate *time.Time `json:"lastPurchaseDate" gorm:"column:last_purchase_date"` // denormalized, written by downstream analytics
}

func (*Customer) TableName() string {
	return TableNameCustomers
}

func (*Customer) KeyColumn() string {
	return "customer_id"
}

func (c *Customer) KeyValue() any {
	return c.CustomerID
}
