package models

import "time"

// DefaultCategoryName is seeded by the schema migration and receives ad-hoc items.
const DefaultCategoryName = "Uncategorized"

// Category groups catalog items.
type Category struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
