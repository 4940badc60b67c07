// Package receipts builds the printable content of a bill or a stored sale.
// Page layout belongs to the front end; both print profiles render this value.
package receipts

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/counterpos/internal/cart"
	"github.com/angelmondragon/counterpos/internal/sales"
	"github.com/angelmondragon/counterpos/internal/settings"
	pkgerrors "github.com/angelmondragon/counterpos/pkg/errors"
	"github.com/angelmondragon/counterpos/pkg/format"
	"github.com/shopspring/decimal"
)

type Shop struct {
	Name     string `json:"name"`
	Contact  string `json:"contact,omitempty"`
	Location string `json:"location,omitempty"`
	Currency string `json:"currency,omitempty"`
}

type Line struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`

	UnitPriceText string `json:"unit_price_text"`
	QuantityText  string `json:"quantity_text"`
	SubtotalText  string `json:"subtotal_text"`
}

type Receipt struct {
	Shop      Shop            `json:"shop"`
	SaleID    *uint           `json:"sale_id,omitempty"`
	IssuedAt  time.Time       `json:"issued_at"`
	Lines     []Line          `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	TotalText string          `json:"total_text"`
}

// Service builds receipts. Cart receipts include custom lines since they are
// on the bill; sale receipts only carry persisted lines.
type Service interface {
	ForSale(ctx context.Context, saleID uint) (*Receipt, error)
	ForCart(ctx context.Context, c *cart.Cart) (*Receipt, error)
}

type saleReader interface {
	GetSale(ctx context.Context, id uint) (*sales.SaleDTO, error)
}

type settingsReader interface {
	Get(ctx context.Context) (*settings.SettingsDTO, error)
}

type service struct {
	sales    saleReader
	settings settingsReader
	now      func() time.Time
}

func NewService(salesSvc saleReader, settingsSvc settingsReader) (Service, error) {
	if salesSvc == nil {
		return nil, fmt.Errorf("sales service required")
	}
	if settingsSvc == nil {
		return nil, fmt.Errorf("settings service required")
	}
	return &service{sales: salesSvc, settings: settingsSvc, now: time.Now}, nil
}

func (s *service) ForSale(ctx context.Context, saleID uint) (*Receipt, error) {
	sale, err := s.sales.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	shop, err := s.shop(ctx)
	if err != nil {
		return nil, err
	}

	id := sale.ID
	r := &Receipt{Shop: shop, SaleID: &id, IssuedAt: sale.Datetime, Total: sale.TotalPrice}
	for _, l := range sale.Lines {
		r.Lines = append(r.Lines, newLine(l.ItemName, l.PriceEach, l.Quantity, l.Subtotal))
	}
	r.TotalText = format.Money(r.Total)
	return r, nil
}

func (s *service) ForCart(ctx context.Context, c *cart.Cart) (*Receipt, error) {
	if c == nil {
		return nil, fmt.Errorf("cart required")
	}
	if c.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}
	shop, err := s.shop(ctx)
	if err != nil {
		return nil, err
	}

	r := &Receipt{Shop: shop, IssuedAt: s.now(), Total: c.Totals().TotalPrice}
	for _, l := range c.Lines() {
		r.Lines = append(r.Lines, newLine(l.Name, l.UnitPrice, l.Quantity, l.LineTotal))
	}
	r.TotalText = format.Money(r.Total)
	return r, nil
}

// shop falls back to blank metadata when settings were never saved.
func (s *service) shop(ctx context.Context) (Shop, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return Shop{}, nil
		}
		return Shop{}, err
	}
	return Shop{Name: cfg.ShopName, Contact: cfg.Contact, Location: cfg.Location, Currency: cfg.Currency}, nil
}

func newLine(name string, unit, qty, subtotal decimal.Decimal) Line {
	return Line{
		Name:          name,
		UnitPrice:     unit,
		Quantity:      qty,
		Subtotal:      subtotal,
		UnitPriceText: format.Money(unit),
		QuantityText:  format.Quantity(qty),
		SubtotalText:  format.Money(subtotal),
	}
}
