package catalog

import (
	"time"

	"github.com/angelmondragon/counterpos/pkg/db/models"
	"github.com/shopspring/decimal"
)

// ItemInput is the full item payload used by create and update.
type ItemInput struct {
	Name          string
	CategoryID    *uint
	Barcode       string
	Price         decimal.Decimal
	PurchasePrice decimal.Decimal
	StockCount    decimal.Decimal
	PhotoPath     string
}

type CategoryDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ItemDTO struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	CategoryID    *uint           `json:"category_id,omitempty"`
	CategoryName  string          `json:"category_name,omitempty"`
	Barcode       *string         `json:"barcode,omitempty"`
	Price         decimal.Decimal `json:"price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	StockCount    decimal.Decimal `json:"stock_count"`
	InStock       bool            `json:"in_stock"`
	PhotoPath     *string         `json:"photo_path,omitempty"`
	AddDate       time.Time       `json:"add_date"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func NewCategoryDTO(c models.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name}
}

// NewItemDTO projects an item; categoryName may be nil when unassigned or not loaded.
func NewItemDTO(item models.Item, categoryName *string) ItemDTO {
	dto := ItemDTO{
		ID:            item.ID,
		Name:          item.Name,
		CategoryID:    item.CategoryID,
		Barcode:       item.Barcode,
		Price:         item.Price,
		PurchasePrice: item.PurchasePrice,
		StockCount:    item.StockCount,
		InStock:       item.InStock(),
		PhotoPath:     item.PhotoPath,
		AddDate:       item.AddDate,
		UpdatedAt:     item.UpdatedAt,
	}
	if categoryName != nil {
		dto.CategoryName = *categoryName
	}
	return dto
}

func newItemDTOs(rows []ItemRow) []ItemDTO {
	out := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewItemDTO(row.Item, row.CategoryName))
	}
	return out
}
