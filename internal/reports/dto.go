package reports

import (
	"github.com/shopspring/decimal"
)

type Period struct {
	Revenue     decimal.Decimal `json:"revenue"`
	Profit      decimal.Decimal `json:"profit"`
	Sales       int             `json:"sales"`
	RevenueText string          `json:"revenue_text"`
	ProfitText  string          `json:"profit_text"`
}

type Summary struct {
	AllTime Period `json:"all_time"`
	Today   Period `json:"today"`
}

type ItemValuation struct {
	ItemID    uint            `json:"item_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Value     decimal.Decimal `json:"value"`
	ValueText string          `json:"value_text"`
}

type CategoryValuation struct {
	Category     string          `json:"category"`
	Items        []ItemValuation `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	SubtotalText string          `json:"subtotal_text"`
}

type Valuation struct {
	Categories     []CategoryValuation `json:"categories"`
	GrandTotal     decimal.Decimal     `json:"grand_total"`
	GrandTotalText string              `json:"grand_total_text"`
}
