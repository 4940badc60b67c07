package sales

import (
	"time"

	"github.com/angelmondragon/counterpos/pkg/db/models"
	"github.com/angelmondragon/counterpos/pkg/format"
	"github.com/shopspring/decimal"
)

// UpdateLineInput replaces a line's quantity and unit price.
type UpdateLineInput struct {
	Quantity  decimal.Decimal
	PriceEach decimal.Decimal
}

type SaleSummaryDTO struct {
	ID                 uint            `json:"id"`
	Datetime           time.Time       `json:"datetime"`
	TotalPrice         decimal.Decimal `json:"total_price"`
	TotalPurchasePrice decimal.Decimal `json:"total_purchase_price"`
	Profit             decimal.Decimal `json:"profit"`
	TotalText          string          `json:"total_text"`
}

// SalePage is one page of history. Cursor is empty on the last page.
type SalePage struct {
	Sales  []SaleSummaryDTO `json:"sales"`
	Cursor string           `json:"cursor,omitempty"`
}

type SaleLineDTO struct {
	ID                uint            `json:"id"`
	ItemID            uint            `json:"item_id"`
	ItemName          string          `json:"item_name"`
	Barcode           *string         `json:"barcode,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	PriceEach         decimal.Decimal `json:"price_each"`
	PurchasePriceEach decimal.Decimal `json:"purchase_price_each"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Profit            decimal.Decimal `json:"profit"`
}

type SaleDTO struct {
	SaleSummaryDTO
	Lines []SaleLineDTO `json:"lines"`
}

// DeleteLineResult reports the parent sale after a line was removed. Sale is nil
// when the removed line was the last one and the sale went with it.
type DeleteLineResult struct {
	SaleID      uint     `json:"sale_id"`
	SaleDeleted bool     `json:"sale_deleted"`
	Sale        *SaleDTO `json:"sale,omitempty"`
}

func NewSaleSummaryDTO(s models.Sale) SaleSummaryDTO {
	return SaleSummaryDTO{
		ID:                 s.ID,
		Datetime:           s.Datetime,
		TotalPrice:         s.TotalPrice,
		TotalPurchasePrice: s.TotalPurchasePrice,
		Profit:             s.Profit(),
		TotalText:          format.Money(s.TotalPrice),
	}
}

func newSaleDTO(s models.Sale, rows []DetailRow) *SaleDTO {
	dto := &SaleDTO{
		SaleSummaryDTO: NewSaleSummaryDTO(s),
		Lines:          make([]SaleLineDTO, 0, len(rows)),
	}
	for _, row := range rows {
		dto.Lines = append(dto.Lines, SaleLineDTO{
			ID:                row.ID,
			ItemID:            row.ItemID,
			ItemName:          row.ItemName,
			Barcode:           row.ItemBarcode,
			Quantity:          row.Quantity,
			PriceEach:         row.PriceEach,
			PurchasePriceEach: row.PurchasePriceEach,
			Subtotal:          row.Subtotal,
			Profit:            row.PriceEach.Sub(row.PurchasePriceEach).Mul(row.Quantity),
		})
	}
	return dto
}
