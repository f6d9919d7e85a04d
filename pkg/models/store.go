package models

const TableNameStores = "stores"

type Store struct {
	StoreID    int    `json:"storeId" gorm:"column:store_id;primaryKey"`
	Name       string `json:"name" gorm:"column:name;not null"`
	Address    string `json:"address" gorm:"column:address;not null"`
	City       string `json:"city" gorm:"column:city;not null"`
	PostalCode string `json:"postalCode" gorm:"column:postal_code;not null"`
	Phone      string `json:"phone" gorm:"column:phone"`
}

func (*Store) TableName() string {
	return TableNameStores
}

func (*Store) KeyColumn() string {
	return "store_id"
}

func (s *Store) KeyValue() any {
	return s.StoreID
}
