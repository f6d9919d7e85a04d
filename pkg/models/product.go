package models

import "time"

const TableNameProducts = "products"

type Product struct {
	ProductID   int       `json:"productId" gorm:"column:product_id;primaryKey"` // external-origin key
	Name        string    `json:"name" gorm:"column:name;not null"`
	CategoryID  int       `json:"categoryId" gorm:"column:category_id;not null"` // remapped by the transformer
	Price       float64   `json:"price" gorm:"column:price;not null"`
	Description string    `json:"description" gorm:"column:description"`
	CreatedAt   time.Time `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime:false"` // source-origin, never stamped
	UpdatedAt   time.Time `json:"updatedAt" gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (*Product) TableName() string {
	return TableNameProducts
}

func (*Product) KeyColumn() string {
	return "product_id"
}

func (p *Product) KeyValue() any {
	return p.ProductID
}
