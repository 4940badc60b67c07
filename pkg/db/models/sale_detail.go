package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleDetail is one persisted sale line with frozen unit price and cost.
type SaleDetail struct {
	ID                uint            `gorm:"column:id;primaryKey"`
	SaleID            uint            `gorm:"column:sale_id;not null;index"`
	ItemID            uint            `gorm:"column:item_id;not null;index"`
	Quantity          decimal.Decimal `gorm:"column:quantity;type:real;not null"`
	PriceEach         decimal.Decimal `gorm:"column:price_each;type:real;not null"`
	PurchasePriceEach decimal.Decimal `gorm:"column:purchase_price_each;type:real;not null"`
	Subtotal          decimal.Decimal `gorm:"column:subtotal;type:real;not null"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// Cost returns quantity times the frozen unit cost.
func (d SaleDetail) Cost() decimal.Decimal {
	return d.Quantity.Mul(d.PurchasePriceEach)
}
