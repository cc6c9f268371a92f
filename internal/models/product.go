package models

// Product represents a product row in the store.
type Product struct {
	ID       uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name     string `json:"name" gorm:"size:100;not null;uniqueIndex:idx_products_name"`
	Price    int    `json:"price" gorm:"not null;check:chk_products_price,price >= 0"`
	Quantity int    `json:"quantity" gorm:"not null;check:chk_products_quantity,quantity >= 0"`
}

// TableName pins the table name regardless of naming strategy.
func (Product) TableName() string {
	return "products"
}
