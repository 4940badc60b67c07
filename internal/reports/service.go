// Package reports summarizes the sales ledger and values the stock on hand.
package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/angelmondragon/counterpos/internal/catalog"
	"github.com/angelmondragon/counterpos/internal/repo"
	"github.com/angelmondragon/counterpos/internal/sales"
	"github.com/angelmondragon/counterpos/pkg/db/models"
	"github.com/angelmondragon/counterpos/pkg/format"
	"github.com/shopspring/decimal"
)

type Service interface {
	Summary(ctx context.Context, now time.Time) (*Summary, error)
	LatestSale(ctx context.Context) (*sales.SaleSummaryDTO, error)
	StockValuation(ctx context.Context) (*Valuation, error)
}

type saleLister interface {
	ListSales(ctx context.Context) ([]models.Sale, error)
	LatestSale(ctx context.Context) (*models.Sale, error)
}

type itemLister interface {
	ListItemRows(ctx context.Context) ([]catalog.ItemRow, error)
}

type service struct {
	sales saleLister
	items itemLister
}

func NewService(salesRepo saleLister, items itemLister) (Service, error) {
	if salesRepo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item repository required")
	}
	return &service{sales: salesRepo, items: items}, nil
}

// Summary sums in decimal over every sale. "Today" is the calendar day of now
// in now's location.
func (s *service) Summary(ctx context.Context, now time.Time) (*Summary, error) {
	rows, err := s.sales.ListSales(ctx)
	if err != nil {
		return nil, repo.Classify(err, "list sales")
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	var all, today Period
	for _, sale := range rows {
		all.add(sale)
		if !sale.Datetime.Before(start) && sale.Datetime.Before(end) {
			today.add(sale)
		}
	}
	all.text()
	today.text()
	return &Summary{AllTime: all, Today: today}, nil
}

func (p *Period) add(sale models.Sale) {
	p.Revenue = p.Revenue.Add(sale.TotalPrice)
	p.Profit = p.Profit.Add(sale.Profit())
	p.Sales++
}

func (p *Period) text() {
	p.RevenueText = format.Money(p.Revenue)
	p.ProfitText = format.Money(p.Profit)
}

func (s *service) LatestSale(ctx context.Context) (*sales.SaleSummaryDTO, error) {
	sale, err := s.sales.LatestSale(ctx)
	if err != nil {
		return nil, repo.Classify(err, "load latest sale")
	}
	dto := sales.NewSaleSummaryDTO(*sale)
	return &dto, nil
}

// StockValuation values each item at purchase price times stock. Negative
// stock counts as zero. Categories are listed by name.
func (s *service) StockValuation(ctx context.Context) (*Valuation, error) {
	rows, err := s.items.ListItemRows(ctx)
	if err != nil {
		return nil, repo.Classify(err, "list items")
	}

	groups := map[string]*CategoryValuation{}
	for _, row := range rows {
		name := models.DefaultCategoryName
		if row.CategoryName != nil {
			name = *row.CategoryName
		}
		group, ok := groups[name]
		if !ok {
			group = &CategoryValuation{Category: name, Items: []ItemValuation{}}
			groups[name] = group
		}

		qty := decimal.Max(decimal.Zero, row.StockCount)
		value := qty.Mul(row.PurchasePrice)
		group.Items = append(group.Items, ItemValuation{
			ItemID:    row.ID,
			Name:      row.Name,
			Quantity:  qty,
			UnitCost:  row.PurchasePrice,
			Value:     value,
			ValueText: format.Money(value),
		})
		group.Subtotal = group.Subtotal.Add(value)
	}

	out := &Valuation{Categories: make([]CategoryValuation, 0, len(groups))}
	for _, group := range groups {
		group.SubtotalText = format.Money(group.Subtotal)
		out.GrandTotal = out.GrandTotal.Add(group.Subtotal)
		out.Categories = append(out.Categories, *group)
	}
	sort.Slice(out.Categories, func(i, j int) bool {
		return out.Categories[i].Category < out.Categories[j].Category
	})
	out.GrandTotalText = format.Money(out.GrandTotal)
	return out, nil
}
