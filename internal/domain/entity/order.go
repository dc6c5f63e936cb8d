package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one line of an order.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Order is a customer purchase. TotalAmount is derived from Items once, at
// creation, and is never changed afterwards.
type Order struct {
	ID          string      `json:"id"`
	CustomerID  string      `json:"customer_id"`
	Status      string      `json:"status"`
	Currency    string      `json:"currency"`
	TotalAmount float64     `json:"total_amount"`
	CreatedAt   *time.Time  `json:"created_at"`
	Items       []OrderItem `json:"items"`
}

// CalculateTotal sums quantity x unit price over the items in decimal
// arithmetic and rounds to cents.
func CalculateTotal(items []OrderItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}

	amount, _ := total.Round(2).Float64()

	return amount
}

// CacheSnapshot returns the copy stored in the cache, without its timestamp.
func (o Order) CacheSnapshot() Order {
	o.CreatedAt = nil
	o.Items = append([]OrderItem(nil), o.Items...)

	return o
}
