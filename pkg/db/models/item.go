package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a catalog entry. StockCount may go negative through sales.
type Item struct {
	ID            uint            `gorm:"column:id;primaryKey"`
	Name          string          `gorm:"column:name;not null"`
	CategoryID    *uint           `gorm:"column:category_id"`
	Barcode       *string         `gorm:"column:barcode;uniqueIndex"`
	Price         decimal.Decimal `gorm:"column:price;type:real;not null"`
	PurchasePrice decimal.Decimal `gorm:"column:purchase_price;type:real;not null"`
	StockCount    decimal.Decimal `gorm:"column:stock_count;type:real;not null"`
	PhotoPath     *string         `gorm:"column:photo_path"`
	AddDate       time.Time       `gorm:"column:add_date;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// InStock reports whether at least some stock remains.
func (i Item) InStock() bool {
	return i.StockCount.IsPositive()
}
