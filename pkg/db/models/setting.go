package models

// SettingsRowID is the primary key of the singleton settings row.
const SettingsRowID uint = 1

// Setting holds the shop metadata printed on receipts.
type Setting struct {
	ID       uint    `gorm:"column:id;primaryKey"`
	ShopName string  `gorm:"column:shop_name;not null"`
	Contact  *string `gorm:"column:contact"`
	Location *string `gorm:"column:location"`
	Currency string  `gorm:"column:currency;not null"`
}

func (Setting) TableName() string { return "settings" }
