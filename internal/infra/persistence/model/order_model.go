package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderModel is the GORM-specific struct for the 'orders' table.
type OrderModel struct {
	ID          string           `gorm:"type:varchar(64);primaryKey"`
	CustomerID  string           `gorm:"type:varchar(64);not null"`
	Status      string           `gorm:"type:varchar(20);not null"`
	Currency    string           `gorm:"type:varchar(3);not null"`
	TotalAmount decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	CreatedAt   time.Time        `gorm:"not null;autoCreateTime:false"`
	Items       []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the GORM-specific struct for the 'order_items' table.
type OrderItemModel struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	OrderID   string          `gorm:"type:varchar(64);not null;index"`
	ProductID string          `gorm:"type:varchar(64);not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}

// All lists every model managed by the schema hook, parents first.
func All() []any {
	return []any{&ProductModel{}, &OrderModel{}, &OrderItemModel{}}
}
