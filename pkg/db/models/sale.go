package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a committed bill. Totals always equal the sums over its details.
type Sale struct {
	ID                 uint            `gorm:"column:id;primaryKey"`
	Datetime           time.Time       `gorm:"column:datetime;not null"`
	TotalPrice         decimal.Decimal `gorm:"column:total_price;type:real;not null"`
	TotalPurchasePrice decimal.Decimal `gorm:"column:total_purchase_price;type:real;not null"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`

	Details []SaleDetail `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// Profit is revenue minus the frozen cost of goods.
func (s Sale) Profit() decimal.Decimal {
	return s.TotalPrice.Sub(s.TotalPurchasePrice)
}
