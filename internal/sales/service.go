package sales

import (
	"context"
	"fmt"

	"github.com/angelmondragon/counterpos/internal/catalog"
	"github.com/angelmondragon/counterpos/internal/repo"
	"github.com/angelmondragon/counterpos/pkg/db"
	"github.com/angelmondragon/counterpos/pkg/db/models"
	pkgerrors "github.com/angelmondragon/counterpos/pkg/errors"
	"github.com/angelmondragon/counterpos/pkg/logger"
	"github.com/angelmondragon/counterpos/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service maintains the sales ledger. Every mutation restores or consumes stock
// in the same transaction as the ledger write.
type Service interface {
	ListSales(ctx context.Context, params pagination.Params) (*SalePage, error)
	GetSale(ctx context.Context, id uint) (*SaleDTO, error)
	DeleteSale(ctx context.Context, id uint) error
	UpdateLine(ctx context.Context, lineID uint, input UpdateLineInput) (*SaleDTO, error)
	DeleteLine(ctx context.Context, lineID uint) (*DeleteLineResult, error)
}

type service struct {
	repo     *Repository
	items    *catalog.Repository
	dbClient *db.Client
	logg     *logger.Logger
}

func NewService(r *Repository, items *catalog.Repository, dbClient *db.Client, logg *logger.Logger) (Service, error) {
	if r == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: r, items: items, dbClient: dbClient, logg: logg}, nil
}

// ListSales returns one page of history, newest first. A blank cursor starts
// at the most recent sale.
func (s *service) ListSales(ctx context.Context, params pagination.Params) (*SalePage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor").
			WithDetails(map[string]any{"field": "cursor"})
	}
	rows, next, err := s.repo.ListSalesPage(ctx, params.Limit, cursor)
	if err != nil {
		return nil, repo.Classify(err, "list sales")
	}
	page := &SalePage{Sales: make([]SaleSummaryDTO, 0, len(rows))}
	for _, row := range rows {
		page.Sales = append(page.Sales, NewSaleSummaryDTO(row))
	}
	if next != nil {
		page.Cursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}

func (s *service) GetSale(ctx context.Context, id uint) (*SaleDTO, error) {
	return s.loadSale(ctx, s.repo, id)
}

func (s *service) loadSale(ctx context.Context, r *Repository, id uint) (*SaleDTO, error) {
	sale, err := r.FindSale(ctx, id)
	if err != nil {
		return nil, repo.Classify(err, "load sale")
	}
	rows, err := r.ListDetailRows(ctx, id)
	if err != nil {
		return nil, repo.Classify(err, "load sale lines")
	}
	return newSaleDTO(*sale, rows), nil
}

// DeleteSale returns every line's quantity to stock, then deletes the sale.
func (s *service) DeleteSale(ctx context.Context, id uint) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txItems := s.items.WithTx(tx)

		if _, err := txRepo.FindSale(ctx, id); err != nil {
			return repo.Classify(err, "load sale")
		}
		details, err := txRepo.ListDetails(ctx, id)
		if err != nil {
			return repo.Classify(err, "load sale lines")
		}
		for _, detail := range details {
			if _, err := txItems.AdjustStock(ctx, detail.ItemID, detail.Quantity); err != nil {
				return repo.Classify(err, "restock item")
			}
		}
		return repo.Classify(txRepo.DeleteSale(ctx, id), "delete sale")
	})
	if err != nil {
		return err
	}
	s.logg.Info(s.logg.WithSaleID(ctx, id), "sale deleted and restocked")
	return nil
}

// UpdateLine applies the stock difference (old - new quantity), rewrites the
// line and re-sums the parent sale from all of its lines.
func (s *service) UpdateLine(ctx context.Context, lineID uint, input UpdateLineInput) (*SaleDTO, error) {
	if !input.Quantity.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero").
			WithDetails(map[string]any{"field": "quantity"})
	}
	if input.PriceEach.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative").
			WithDetails(map[string]any{"field": "price_each"})
	}

	var result *SaleDTO
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txItems := s.items.WithTx(tx)

		detail, err := txRepo.FindDetail(ctx, lineID)
		if err != nil {
			return repo.Classify(err, "load sale line")
		}

		delta := detail.Quantity.Sub(input.Quantity)
		if !delta.IsZero() {
			if _, err := txItems.AdjustStock(ctx, detail.ItemID, delta); err != nil {
				return repo.Classify(err, "adjust stock")
			}
		}

		detail.Quantity = input.Quantity
		detail.PriceEach = input.PriceEach
		detail.Subtotal = input.Quantity.Mul(input.PriceEach)
		if err := txRepo.UpdateDetail(ctx, detail); err != nil {
			return repo.Classify(err, "update sale line")
		}

		if _, err := resum(ctx, txRepo, detail.SaleID); err != nil {
			return err
		}
		result, err = s.loadSale(ctx, txRepo, detail.SaleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithSaleID(ctx, result.ID), "sale line updated")
	return result, nil
}

// DeleteLine restocks and removes one line. Removing the last line deletes the
// sale as well, so no sale is ever left without lines.
func (s *service) DeleteLine(ctx context.Context, lineID uint) (*DeleteLineResult, error) {
	result := &DeleteLineResult{}
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txItems := s.items.WithTx(tx)

		detail, err := txRepo.FindDetail(ctx, lineID)
		if err != nil {
			return repo.Classify(err, "load sale line")
		}
		result.SaleID = detail.SaleID

		if _, err := txItems.AdjustStock(ctx, detail.ItemID, detail.Quantity); err != nil {
			return repo.Classify(err, "restock item")
		}
		if err := txRepo.DeleteDetail(ctx, lineID); err != nil {
			return repo.Classify(err, "delete sale line")
		}

		remaining, err := resum(ctx, txRepo, detail.SaleID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			result.SaleDeleted = true
			return repo.Classify(txRepo.DeleteSale(ctx, detail.SaleID), "delete empty sale")
		}
		result.Sale, err = s.loadSale(ctx, txRepo, detail.SaleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"sale_id":      result.SaleID,
		"sale_deleted": result.SaleDeleted,
	}), "sale line deleted and restocked")
	return result, nil
}

// resum recomputes the sale totals from its current lines and returns the line count.
func resum(ctx context.Context, r *Repository, saleID uint) (int, error) {
	details, err := r.ListDetails(ctx, saleID)
	if err != nil {
		return 0, repo.Classify(err, "load sale lines")
	}
	total, cost := Totals(details)
	if err := r.UpdateSaleTotals(ctx, saleID, total, cost); err != nil {
		return 0, repo.Classify(err, "update sale totals")
	}
	return len(details), nil
}

// Totals sums subtotals and quantity times frozen cost.
func Totals(details []models.SaleDetail) (total, cost decimal.Decimal) {
	total, cost = decimal.Zero, decimal.Zero
	for _, d := range details {
		total = total.Add(d.Subtotal)
		cost = cost.Add(d.Cost())
	}
	return total, cost
}
