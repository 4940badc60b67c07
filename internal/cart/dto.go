package cart

import (
	"time"

	"github.com/angelmondragon/counterpos/pkg/format"
	"github.com/shopspring/decimal"
)

type LineDTO struct {
	Index     int             `json:"index"`
	ItemID    *uint           `json:"item_id,omitempty"`
	Name      string          `json:"name"`
	Barcode   *string         `json:"barcode,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  decimal.Decimal `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
	Custom    bool            `json:"custom"`

	QuantityText  string `json:"quantity_text"`
	LineTotalText string `json:"line_total_text"`
}

type CartDTO struct {
	ID                 string          `json:"id"`
	Lines              []LineDTO       `json:"lines"`
	TotalPrice         decimal.Decimal `json:"total_price"`
	TotalPurchasePrice decimal.Decimal `json:"total_purchase_price"`
	TotalText          string          `json:"total_text"`
	CustomLines        int             `json:"custom_lines"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func NewLineDTO(index int, line Line) LineDTO {
	return LineDTO{
		Index:         index,
		ItemID:        line.ItemID,
		Name:          line.Name,
		Barcode:       line.Barcode,
		UnitPrice:     line.UnitPrice,
		Quantity:      line.Quantity,
		LineTotal:     line.LineTotal,
		Custom:        line.Custom,
		QuantityText:  format.Quantity(line.Quantity),
		LineTotalText: format.Money(line.LineTotal),
	}
}

// NewCartDTO snapshots the cart. Call it while holding the cart.
func NewCartDTO(c *Cart) CartDTO {
	totals := c.Totals()
	dto := CartDTO{
		ID:                 c.ID,
		Lines:              make([]LineDTO, 0, c.Len()),
		TotalPrice:         totals.TotalPrice,
		TotalPurchasePrice: totals.TotalPurchasePrice,
		TotalText:          format.Money(totals.TotalPrice),
		UpdatedAt:          c.UpdatedAt,
	}
	for i, line := range c.lines {
		if line.Custom {
			dto.CustomLines++
		}
		dto.Lines = append(dto.Lines, NewLineDTO(i, line))
	}
	return dto
}
