package order

import "github.com/shopspring/decimal"

// New builds an order with every field present. Tests across packages
// use it to keep snapshots readable.
func New(id int64, customer, region string, itemID int64, item string, qty int, price float64) Order {
	p := decimal.NewFromFloat(price)
	return Order{
		ID:         id,
		CustomerID: &customer,
		Region:     &region,
		ItemID:     itemID,
		ItemName:   &item,
		Quantity:   qty,
		Price:      &p,
	}
}
